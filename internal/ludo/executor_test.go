package ludo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

func TestApplyMove(t *testing.T) {
	t.Run("Base token enters on its start cell", func(t *testing.T) {
		// Given: red rolled a six with everything at base
		session := newOngoingSession()
		session.DieValue = 6

		// When: moving token 2 out of base
		events := ApplyMove(session, 0, 2)

		// Then: it stands on red's start cell and is remembered as last moved
		index, ok := session.Players[0].Tokens[2].TrackIndex()
		require.True(t, ok)
		assert.Equal(t, entity.StartIndex[entity.ColorRed], index)
		assert.Empty(t, events)

		require.NotNil(t, session.Players[0].LastMovedToken)
		assert.Equal(t, 2, *session.Players[0].LastMovedToken)
	})

	t.Run("Overflow past the entry turns into the lane", func(t *testing.T) {
		// Given: a red token two cells before its entry rolls a four
		session := newOngoingSession()
		session.DieValue = 4
		session.Players[0].Tokens[0].Location = entity.TrackLocation(49)

		// When: applying the move
		events := ApplyMove(session, 0, 0)

		// Then: two steps reach the entry, the remaining steps count into the lane
		laneIndex, inLane := session.Players[0].Tokens[0].LaneIndex()
		require.True(t, inLane)
		assert.Equal(t, 1, laneIndex)
		assert.Empty(t, events)
	})

	t.Run("Lone enemy on the destination is captured", func(t *testing.T) {
		// Given: a blue token on a plain cell in red's path
		session := newOngoingSession()
		session.DieValue = 3
		session.Players[0].Tokens[0].Location = entity.TrackLocation(2)
		session.Players[1].Tokens[0].Location = entity.TrackLocation(5)

		// When: red lands on it
		events := ApplyMove(session, 0, 0)

		// Then: the blue token is back at base and a capture is reported
		assert.True(t, session.Players[1].Tokens[0].IsAtBase())
		require.Len(t, events, 1)
		assert.Equal(t, EventCapture, events[0].Type)
		assert.Equal(t, entity.ColorRed, events[0].By)
		assert.Equal(t, entity.ColorBlue, events[0].Victim)
	})

	t.Run("Enemy on a safe cell survives", func(t *testing.T) {
		// Given: a blue token on the safe cell 8
		session := newOngoingSession()
		session.DieValue = 3
		session.Players[0].Tokens[0].Location = entity.TrackLocation(5)
		session.Players[1].Tokens[0].Location = entity.TrackLocation(8)

		// When: red lands on the same cell
		events := ApplyMove(session, 0, 0)

		// Then: both tokens share the cell
		index, ok := session.Players[1].Tokens[0].TrackIndex()
		require.True(t, ok)
		assert.Equal(t, 8, index)
		assert.Empty(t, events)
	})

	t.Run("Blocked destination rejects the move untouched", func(t *testing.T) {
		// Given: two blue tokens stacked on red's destination
		session := newOngoingSession()
		session.DieValue = 3
		session.Players[0].Tokens[0].Location = entity.TrackLocation(2)
		session.Players[1].Tokens[0].Location = entity.TrackLocation(5)
		session.Players[1].Tokens[1].Location = entity.TrackLocation(5)

		// When: red tries to land on the stack
		events := ApplyMove(session, 0, 0)

		// Then: nothing moves and the block is reported
		index, ok := session.Players[0].Tokens[0].TrackIndex()
		require.True(t, ok)
		assert.Equal(t, 2, index)
		require.Len(t, events, 1)
		assert.Equal(t, EventBlocked, events[0].Type)
		assert.Nil(t, session.Players[0].LastMovedToken)
	})

	t.Run("Blocked start cell keeps the token at base", func(t *testing.T) {
		// Given: two blue tokens stacked on red's start cell
		session := newOngoingSession()
		session.DieValue = 6
		session.Players[1].Tokens[0].Location = entity.TrackLocation(entity.StartIndex[entity.ColorRed])
		session.Players[1].Tokens[1].Location = entity.TrackLocation(entity.StartIndex[entity.ColorRed])

		// When: red tries to leave base
		events := ApplyMove(session, 0, 0)

		// Then: the move is rejected
		assert.True(t, session.Players[0].Tokens[0].IsAtBase())
		require.Len(t, events, 1)
		assert.Equal(t, EventBlocked, events[0].Type)
	})

	t.Run("Own tokens may stack without blocking", func(t *testing.T) {
		// Given: red already holds the destination with one token
		session := newOngoingSession()
		session.DieValue = 3
		session.Players[0].Tokens[0].Location = entity.TrackLocation(2)
		session.Players[0].Tokens[1].Location = entity.TrackLocation(5)

		// When: a second red token lands there
		events := ApplyMove(session, 0, 0)

		// Then: the move succeeds
		index, ok := session.Players[0].Tokens[0].TrackIndex()
		require.True(t, ok)
		assert.Equal(t, 5, index)
		assert.Empty(t, events)
	})

	t.Run("Exact lane count finishes the token", func(t *testing.T) {
		// Given: a red token on lane cell 3 rolling a two
		session := newOngoingSession()
		session.DieValue = 2
		session.Players[0].Tokens[0].Location = entity.LaneLocation(3)

		// When: applying the move
		events := ApplyMove(session, 0, 0)

		// Then: the token is home
		assert.True(t, session.Players[0].Tokens[0].IsFinished())
		assert.Equal(t, 1, session.Players[0].FinishedCount)
		require.Len(t, events, 1)
		assert.Equal(t, EventHome, events[0].Type)
	})

	t.Run("Fourth finished token wins the game", func(t *testing.T) {
		// Given: red has three tokens home and the fourth one lane cell short
		session := newOngoingSession()
		session.DieValue = 1
		red := session.Players[0]
		for i := 0; i < 3; i++ {
			red.Tokens[i].Location = entity.FinishedLocation()
		}
		red.FinishedCount = 3
		red.Tokens[3].Location = entity.LaneLocation(4)

		// When: the last token finishes
		events := ApplyMove(session, 0, 3)

		// Then: the session is terminal with red as winner
		assert.True(t, session.IsFinished())
		assert.Equal(t, entity.ColorRed, session.Winner)
		require.Len(t, events, 2)
		assert.Equal(t, EventHome, events[0].Type)
		assert.Equal(t, EventWin, events[1].Type)
	})
}

func TestIsBlocked(t *testing.T) {
	t.Run("Single enemy token does not block", func(t *testing.T) {
		session := newOngoingSession()
		session.Players[1].Tokens[0].Location = entity.TrackLocation(5)

		assert.False(t, IsBlocked(session, 0, 5))
	})

	t.Run("Two enemy tokens block", func(t *testing.T) {
		session := newOngoingSession()
		session.Players[1].Tokens[0].Location = entity.TrackLocation(5)
		session.Players[1].Tokens[1].Location = entity.TrackLocation(5)

		assert.True(t, IsBlocked(session, 0, 5))
	})

	t.Run("The mover's own stack never blocks itself", func(t *testing.T) {
		session := newOngoingSession()
		session.Players[0].Tokens[0].Location = entity.TrackLocation(5)
		session.Players[0].Tokens[1].Location = entity.TrackLocation(5)

		assert.False(t, IsBlocked(session, 0, 5))
	})
}
