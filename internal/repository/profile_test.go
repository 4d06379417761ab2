package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/repository"
	testsuite "github.com/rocketscienceinc/ludo-backend/testing/suite"
)

func TestProfileRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping docker-backed test in short mode")
	}

	ctx, suite := testsuite.New(t)
	repo := repository.NewProfileRepository(suite.Storage)

	t.Run("Stores and loads a profile", func(t *testing.T) {
		// Given: a profile with a couple of wins
		profile := &entity.Profile{ID: "p1", Name: "alice", Wins: 2}

		// When: saving and reading it back
		require.NoError(t, repo.CreateOrUpdate(ctx, profile))
		loaded, err := repo.GetByID(ctx, "p1")

		// Then: every field survives the round trip
		require.NoError(t, err)
		assert.Equal(t, profile, loaded)
	})

	t.Run("Update overwrites in place", func(t *testing.T) {
		profile := &entity.Profile{ID: "p2", Name: "bob"}
		require.NoError(t, repo.CreateOrUpdate(ctx, profile))

		profile.Wins = 5
		require.NoError(t, repo.CreateOrUpdate(ctx, profile))

		loaded, err := repo.GetByID(ctx, "p2")
		require.NoError(t, err)
		assert.Equal(t, 5, loaded.Wins)
	})

	t.Run("Missing id reports not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrProfileNotFound)
	})

	t.Run("Delete removes the profile", func(t *testing.T) {
		profile := &entity.Profile{ID: "p3", Name: "carol"}
		require.NoError(t, repo.CreateOrUpdate(ctx, profile))

		require.NoError(t, repo.DeleteByID(ctx, "p3"))

		_, err := repo.GetByID(ctx, "p3")
		assert.ErrorIs(t, err, repository.ErrProfileNotFound)
	})
}
