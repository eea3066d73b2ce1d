package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/entity"
)

const sessionKeyPrefix = "session:"

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository - sessions stored as JSON, every write refreshes the ttl.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
	}
}

// CreateOrUpdate - writes the session under WATCH, so a write racing with another one fails
// with ErrSessionConflict instead of overwriting it.
func (that *dbSession) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	key := sessionKeyPrefix + session.ID

	err := that.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, found, err := that.load(ctx, tx, key)
		if err != nil {
			return err
		}

		if err = checkVersion(session, stored, found); err != nil {
			return err
		}

		next := *session
		next.Version++

		sessionJSON, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("could not marshal session: %w", err)
		}

		if _, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionJSON, that.ttl)
			return nil
		}); err != nil {
			return err
		}

		session.Version = next.Version

		return nil
	}, key)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return apperror.ErrSessionConflict
	case err != nil:
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	session, found, err := that.load(ctx, that.client, sessionKeyPrefix+id)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, apperror.ErrSessionNotFound
	}

	return &session, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrSessionNotFound
	}

	return nil
}

// getter - a client or a transaction under WATCH.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (that *dbSession) load(ctx context.Context, cmd getter, key string) (entity.Session, bool, error) {
	var existingSession entity.Session

	response, err := cmd.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return existingSession, false, nil
	}

	if err != nil {
		return existingSession, false, fmt.Errorf("failed to get session by id: %w", err)
	}

	if err = json.Unmarshal([]byte(response), &existingSession); err != nil {
		return existingSession, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return existingSession, true, nil
}

// checkVersion - a new session must not exist yet, an update must carry the stored version.
func checkVersion(session *entity.Session, stored entity.Session, found bool) error {
	switch {
	case !found && session.Version != 0:
		return apperror.ErrSessionNotFound
	case found && stored.Version != session.Version:
		return apperror.ErrSessionConflict
	default:
		return nil
	}
}
