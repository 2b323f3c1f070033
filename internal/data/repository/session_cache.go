package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinic-booking/internal/data/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cachedSessionRepository puts Redis in front of the Postgres session store.
// Sessions are immutable until revoked, so a cached hit never goes stale
// except on logout, where the key is dropped explicitly. Slot or
// appointment state is never cached here.
type cachedSessionRepository struct {
	inner SessionRepository
	rdb   *redis.Client
	log   *zap.Logger
}

func NewCachedSessionRepository(inner SessionRepository, rdb *redis.Client, log *zap.Logger) SessionRepository {
	return &cachedSessionRepository{
		inner: inner,
		rdb:   rdb,
		log:   log.With(zap.String("repository", "session_cache")),
	}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (r *cachedSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	return r.inner.Create(ctx, session)
}

func (r *cachedSessionRepository) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	key := sessionKey(token)

	data, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var session entity.Session
		if err := json.Unmarshal(data, &session); err == nil {
			if session.RevokedAt == nil && session.ExpiresAt.After(time.Now()) {
				return &session, nil
			}
		}
	} else if err != redis.Nil {
		// Cache trouble must not take auth down; fall through to Postgres.
		r.log.Warn("Session cache read failed", zap.Error(err))
	}

	session, err := r.inner.FindValidSession(ctx, token)
	if err != nil || session == nil {
		return session, err
	}

	if data, err := json.Marshal(session); err == nil {
		ttl := time.Until(session.ExpiresAt)
		if ttl > 0 {
			if err := r.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
				r.log.Warn("Session cache write failed", zap.Error(err))
			}
		}
	}

	return session, nil
}

func (r *cachedSessionRepository) Revoke(ctx context.Context, token string) error {
	if err := r.inner.Revoke(ctx, token); err != nil {
		return err
	}

	if err := r.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		r.log.Warn("Session cache delete failed", zap.Error(err))
	}

	return nil
}
