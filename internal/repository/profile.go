package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	CreateOrUpdate(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbProfile struct {
	client *redis.Client
}

func NewProfileRepository(client *redis.Client) ProfileRepository {
	return &dbProfile{
		client: client,
	}
}

func (that *dbProfile) CreateOrUpdate(ctx context.Context, profile *entity.Profile) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	profileKey := "player:" + profile.ID
	if err = that.client.Set(ctx, profileKey, profileJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set profile: %w", err)
	}

	return nil
}

func (that *dbProfile) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	profileKey := "player:" + id

	response, err := that.client.Get(ctx, profileKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrProfileNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get profile by ID: %w", err)
	}

	var existingProfile entity.Profile
	if err = json.Unmarshal([]byte(response), &existingProfile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &existingProfile, nil
}

func (that *dbProfile) DeleteByID(ctx context.Context, id string) error {
	profileKey := "player:" + id

	if err := that.client.Del(ctx, profileKey).Err(); err != nil {
		return fmt.Errorf("failed to delete profile by ID: %w", err)
	}

	return nil
}
