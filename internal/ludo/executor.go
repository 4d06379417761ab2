package ludo

import "github.com/rocketscienceinc/ludo-backend/internal/entity"

// ApplyMove - applies one move for the seat's token using the session's
// current die value. The caller must have verified CanMove first. Returns
// the side-effect events; a Blocked event means nothing changed.
func ApplyMove(session *entity.Session, seatIdx, tokenID int) []Event {
	player := session.Players[seatIdx]
	token := player.Tokens[tokenID]
	color := player.Color
	die := session.DieValue

	var events []Event

	switch token.Location.Kind {
	case entity.AtBase:
		target := entity.StartIndex[color]
		if IsBlocked(session, seatIdx, target) {
			return append(events, blockedEvent(color))
		}

		token.Location = entity.TrackLocation(target)
		recordLastMoved(player, tokenID)
		events = appendCapture(events, session, seatIdx, target)

	case entity.InLane:
		laneIndex, _ := token.LaneIndex()
		recordLastMoved(player, tokenID)
		events = append(events, finishLaneMove(session, seatIdx, token, laneIndex+die)...)

	case entity.OnTrack:
		trackIndex, _ := token.TrackIndex()
		distance := entity.DistanceToLaneEntry(color, trackIndex)

		if die <= distance {
			target := (trackIndex + die) % entity.TrackLength
			if IsBlocked(session, seatIdx, target) {
				return append(events, blockedEvent(color))
			}

			token.Location = entity.TrackLocation(target)
			recordLastMoved(player, tokenID)
			events = appendCapture(events, session, seatIdx, target)
			break
		}

		// turn off the shared track into the lane
		recordLastMoved(player, tokenID)
		events = append(events, finishLaneMove(session, seatIdx, token, die-distance-1)...)
	}

	return events
}

// finishLaneMove - places a token at laneIndex, finishing it when it lands
// exactly on the last lane cell. A win flips the session terminal.
func finishLaneMove(session *entity.Session, seatIdx int, token *entity.Token, laneIndex int) []Event {
	player := session.Players[seatIdx]

	if laneIndex < entity.LaneLength-1 {
		token.Location = entity.LaneLocation(laneIndex)
		return nil
	}

	token.Location = entity.FinishedLocation()
	player.FinishedCount++

	events := []Event{homeEvent(player.Color)}
	if player.FinishedCount == entity.TokensPerSeat {
		session.Status = entity.StatusFinished
		session.Winner = player.Color
		events = append(events, winEvent(player.Color))
	}

	return events
}

// IsBlocked - true when 2+ tokens of a single enemy seat hold trackIndex.
// Such a stack is impassable and immune to capture.
func IsBlocked(session *entity.Session, seatIdx, trackIndex int) bool {
	for i, player := range session.Players {
		if i == seatIdx {
			continue
		}

		if countTokensAt(player, trackIndex) >= 2 {
			return true
		}
	}

	return false
}

// appendCapture - resolves capture after a track landing. Only a lone enemy
// token on a non-safe cell is captured; stacks were already rejected as
// blocked before the move.
func appendCapture(events []Event, session *entity.Session, seatIdx, trackIndex int) []Event {
	if entity.IsSafeCell(trackIndex) {
		return events
	}

	attacker := session.Players[seatIdx]

	for i, player := range session.Players {
		if i == seatIdx {
			continue
		}

		for _, token := range player.Tokens {
			if idx, ok := token.TrackIndex(); ok && idx == trackIndex {
				if countTokensAt(player, trackIndex) == 1 {
					token.Location = entity.BaseLocation()
					return append(events, captureEvent(attacker.Color, player.Color))
				}
			}
		}
	}

	return events
}

func recordLastMoved(player *entity.Player, tokenID int) {
	id := tokenID
	player.LastMovedToken = &id
}

func countTokensAt(player *entity.Player, trackIndex int) int {
	count := 0
	for _, token := range player.Tokens {
		if idx, ok := token.TrackIndex(); ok && idx == trackIndex {
			count++
		}
	}

	return count
}
