package ludo

import "github.com/rocketscienceinc/ludo-backend/internal/entity"

// ResolveTurn - closes out the current seat's turn after its roll (and move,
// if any) has been applied, deciding between forfeiture, a bonus turn and a
// normal advance. Terminal sessions are left untouched.
func ResolveTurn(session *entity.Session) []Event {
	if session.IsFinished() {
		return nil
	}

	rolledSix := session.DieValue == 6
	session.Rolled = false

	var events []Event

	if updateSixStreak(session) {
		// third consecutive six: recall the last-moved token and lose the
		// turn even though a six was rolled
		events = append(events, forfeitTurn(session))
		rolledSix = false
	}

	if rolledSix {
		session.ExtraTurn = true
		return events
	}

	session.ExtraTurn = false
	session.CurrentSeat = (session.CurrentSeat + 1) % entity.SeatsPerSession

	return events
}

// updateSixStreak - tracks consecutive sixes for the current seat; true when
// the streak reaches three.
func updateSixStreak(session *entity.Session) bool {
	seat := session.CurrentSeat

	if session.DieValue == 6 {
		session.SixStreak[seat]++
	} else {
		session.SixStreak[seat] = 0
	}

	return session.SixStreak[seat] >= 3
}

func forfeitTurn(session *entity.Session) Event {
	player := session.CurrentPlayer()

	if player.LastMovedToken != nil {
		token := player.Tokens[*player.LastMovedToken]
		if !token.IsFinished() {
			token.Location = entity.BaseLocation()
		}
	}

	session.SixStreak[session.CurrentSeat] = 0

	return forfeitEvent(player.Color)
}
