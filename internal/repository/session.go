package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

var ErrSessionNotFound = errors.New("session record not found")

// SessionRepository - archived session summaries. Live game state is owned
// by the room actors and never stored here.
type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, record *entity.SessionRecord) error
	GetByID(ctx context.Context, id string) (*entity.SessionRecord, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, record *entity.SessionRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	recordKey := "session:" + record.ID
	if err = that.client.Set(ctx, recordKey, recordJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session record: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.SessionRecord, error) {
	recordKey := "session:" + id

	response, err := that.client.Get(ctx, recordKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session record by ID: %w", err)
	}

	var record entity.SessionRecord
	if err = json.Unmarshal([]byte(response), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session record: %w", err)
	}

	return &record, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	recordKey := "session:" + id

	if err := that.client.Del(ctx, recordKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session record by ID: %w", err)
	}

	return nil
}
