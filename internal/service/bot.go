package service

import (
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
)

type BotService interface {
	ChooseToken(session *entity.Session, seatIdx int) (int, bool)
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// ChooseToken - picks the token a computer seat moves with the current die:
// capture an enemy if possible, otherwise enter the board on a six,
// otherwise push the furthest token. Tokens whose destination is blocked are
// avoided while an alternative exists; when every legal move is blocked one
// is still returned, so the turn is consumed with a Blocked event instead of
// silently skipped.
func (that *botService) ChooseToken(session *entity.Session, seatIdx int) (int, bool) {
	player := session.Players[seatIdx]
	die := session.DieValue

	movable := legalUnblockedTokens(session, seatIdx)
	if len(movable) == 0 {
		movable = legalTokenRefs(session, seatIdx)
	}
	if len(movable) == 0 {
		return 0, false
	}

	// priority 1: capture a lone enemy token
	for _, token := range movable {
		if capturesAt(session, seatIdx, token, die) {
			return token.ID, true
		}
	}

	// priority 2: bring a token out of base on a six
	if die == 6 {
		for _, token := range movable {
			if token.IsAtBase() {
				return token.ID, true
			}
		}
	}

	// priority 3: advance the furthest token; lane cells outrank any track
	// cell, track progress counts from the seat's own start cell
	best := -1
	bestScore := -1
	for _, token := range movable {
		if token.IsAtBase() {
			continue
		}
		if score := progress(token, player.Color); score > bestScore {
			best, bestScore = token.ID, score
		}
	}
	if best >= 0 {
		return best, true
	}

	return movable[0].ID, true
}

// capturesAt - whether moving token by die lands on a non-safe track cell
// held by exactly one enemy token.
func capturesAt(session *entity.Session, seatIdx int, token *entity.Token, die int) bool {
	player := session.Players[seatIdx]

	if !token.IsOnTrack() {
		return false
	}

	target, ok := ludo.TrackDestination(token, die, player.Color)
	if !ok || entity.IsSafeCell(target) {
		return false
	}

	for i, enemy := range session.Players {
		if i == seatIdx {
			continue
		}

		count := 0
		for _, enemyToken := range enemy.Tokens {
			if idx, onTrack := enemyToken.TrackIndex(); onTrack && idx == target {
				count++
			}
		}

		if count == 1 {
			return true
		}
	}

	return false
}

func legalTokenRefs(session *entity.Session, seatIdx int) []*entity.Token {
	player := session.Players[seatIdx]

	var legal []*entity.Token
	for _, token := range player.Tokens {
		if ludo.CanMove(token, session.DieValue, player.Color) {
			legal = append(legal, token)
		}
	}

	return legal
}

func legalUnblockedTokens(session *entity.Session, seatIdx int) []*entity.Token {
	player := session.Players[seatIdx]

	var legal []*entity.Token
	for _, token := range legalTokenRefs(session, seatIdx) {
		target, onTrack := ludo.TrackDestination(token, session.DieValue, player.Color)
		if onTrack && ludo.IsBlocked(session, seatIdx, target) {
			continue
		}
		legal = append(legal, token)
	}

	return legal
}

func progress(token *entity.Token, color entity.Color) int {
	if laneIndex, ok := token.LaneIndex(); ok {
		return 1000 + laneIndex
	}

	trackIndex, ok := token.TrackIndex()
	if !ok {
		return -1
	}

	return (trackIndex - entity.StartIndex[color] + entity.TrackLength) % entity.TrackLength
}
