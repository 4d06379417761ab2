package ludo

import "github.com/rocketscienceinc/ludo-backend/internal/entity"

// CanMove - pure legality check for one token against one die value.
func CanMove(token *entity.Token, die int, color entity.Color) bool {
	switch token.Location.Kind {
	case entity.Finished:
		return false

	case entity.AtBase:
		// a token leaves base only on a six
		return die == 6

	case entity.InLane:
		// exact count required, overshooting the finish cell is illegal
		laneIndex, _ := token.LaneIndex()
		return laneIndex+die <= entity.LaneLength-1

	case entity.OnTrack:
		trackIndex, _ := token.TrackIndex()
		distance := entity.DistanceToLaneEntry(color, trackIndex)
		if die <= distance {
			// stays on the shared track, possibly landing on the entry cell
			return true
		}
		// would turn into the lane; check finish-cell overshoot
		return die-distance-1 <= entity.LaneLength-1

	default:
		return false
	}
}

// LegalTokens - the ids of the seat's tokens movable with the session's
// current die value. Pure query, mutates nothing.
func LegalTokens(session *entity.Session, seatIdx int) []int {
	player := session.Players[seatIdx]

	var legal []int
	for _, token := range player.Tokens {
		if CanMove(token, session.DieValue, player.Color) {
			legal = append(legal, token.ID)
		}
	}

	return legal
}

// TrackDestination - the track cell the token would land on, when the move
// keeps it on the shared track. ok is false for lane moves, lane entries and
// finished tokens; those destinations cannot be blocked or capture.
func TrackDestination(token *entity.Token, die int, color entity.Color) (int, bool) {
	switch token.Location.Kind {
	case entity.AtBase:
		if die != 6 {
			return 0, false
		}
		return entity.StartIndex[color], true

	case entity.OnTrack:
		trackIndex, _ := token.TrackIndex()
		if die > entity.DistanceToLaneEntry(color, trackIndex) {
			return 0, false
		}
		return (trackIndex + die) % entity.TrackLength, true

	default:
		return 0, false
	}
}
