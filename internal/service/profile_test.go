package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/repository"
)

// memoryProfileRepo - in-memory stand-in for the redis repository.
type memoryProfileRepo struct {
	profiles map[string]*entity.Profile
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{profiles: make(map[string]*entity.Profile)}
}

func (that *memoryProfileRepo) CreateOrUpdate(_ context.Context, profile *entity.Profile) error {
	stored := *profile
	that.profiles[profile.ID] = &stored

	return nil
}

func (that *memoryProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	profile, ok := that.profiles[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}

	found := *profile

	return &found, nil
}

func TestProfileService_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a profile when the client brings no id", func(t *testing.T) {
		// Given: an empty store
		repo := newMemoryProfileRepo()
		profiles := NewProfileService(repo)

		// When: connecting without an id
		profile, err := profiles.GetOrCreate(ctx, "", "alice")

		// Then: a fresh profile is persisted
		require.NoError(t, err)
		assert.NotEmpty(t, profile.ID)
		assert.Equal(t, "alice", profile.Name)
		assert.Contains(t, repo.profiles, profile.ID)
	})

	t.Run("Returns the stored profile for a known id", func(t *testing.T) {
		// Given: a stored profile with some wins
		repo := newMemoryProfileRepo()
		require.NoError(t, repo.CreateOrUpdate(ctx, &entity.Profile{ID: "p1", Name: "bob", Wins: 3}))
		profiles := NewProfileService(repo)

		// When: reconnecting with the same id and name
		profile, err := profiles.GetOrCreate(ctx, "p1", "bob")

		// Then: the stored profile comes back untouched
		require.NoError(t, err)
		assert.Equal(t, "p1", profile.ID)
		assert.Equal(t, 3, profile.Wins)
	})

	t.Run("Renames an existing profile", func(t *testing.T) {
		repo := newMemoryProfileRepo()
		require.NoError(t, repo.CreateOrUpdate(ctx, &entity.Profile{ID: "p1", Name: "bob"}))
		profiles := NewProfileService(repo)

		profile, err := profiles.GetOrCreate(ctx, "p1", "robert")

		require.NoError(t, err)
		assert.Equal(t, "robert", profile.Name)
		assert.Equal(t, "robert", repo.profiles["p1"].Name)
	})

	t.Run("Stale id falls back to a fresh profile", func(t *testing.T) {
		// Given: an id nothing in the store matches
		repo := newMemoryProfileRepo()
		profiles := NewProfileService(repo)

		// When: connecting with the stale id
		profile, err := profiles.GetOrCreate(ctx, "gone", "carol")

		// Then: a new id is issued instead of failing
		require.NoError(t, err)
		assert.NotEqual(t, "gone", profile.ID)
		assert.Equal(t, "carol", profile.Name)
	})
}
