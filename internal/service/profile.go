package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/pkg"
	"github.com/rocketscienceinc/ludo-backend/internal/repository"
)

type ProfileService interface {
	GetOrCreate(ctx context.Context, id, name string) (*entity.Profile, error)
}

type profileRepo interface {
	CreateOrUpdate(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
}

type profileService struct {
	profileRepo profileRepo
}

func NewProfileService(profileRepo profileRepo) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
	}
}

// GetOrCreate - loads the stored profile, creating a fresh one when the
// client brings no id (or a stale one).
func (that *profileService) GetOrCreate(ctx context.Context, id, name string) (*entity.Profile, error) {
	if id != "" {
		profile, err := that.profileRepo.GetByID(ctx, id)
		if err == nil {
			if name != "" && name != profile.Name {
				profile.Name = name
				if err = that.profileRepo.CreateOrUpdate(ctx, profile); err != nil {
					return nil, fmt.Errorf("failed to rename profile: %w", err)
				}
			}

			return profile, nil
		}

		if !errors.Is(err, repository.ErrProfileNotFound) {
			return nil, fmt.Errorf("failed to get profile by id: %w", err)
		}
	}

	profile := &entity.Profile{
		ID:   pkg.GenerateNewSessionID(),
		Name: name,
	}

	if err := that.profileRepo.CreateOrUpdate(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return profile, nil
}
