package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
	"github.com/onboardhq/onboarding-system/internal/core/ports"
)

// cacheTTL bounds how stale a cached session snapshot may be. Revocation
// deletes the cache entry eagerly, so this only caps staleness when a
// deactivation raced a concurrent read.
const cacheTTL = 60 * time.Second

// CachedSessionRepository is a read-through cache in front of the persistent
// session store. Cache failures fall back to the store; only store failures
// surface to the caller. Key format: session:<session_id>
type CachedSessionRepository struct {
	client *redis.Client
	store  ports.SessionRepository
	ttl    time.Duration
}

// NewCachedSessionRepository wraps store with a Redis cache. sessionTTL is
// the configured session lifetime; cache entries never outlive it.
func NewCachedSessionRepository(client *redis.Client, store ports.SessionRepository, sessionTTL time.Duration) *CachedSessionRepository {
	ttl := cacheTTL
	if sessionTTL > 0 && sessionTTL < ttl {
		ttl = sessionTTL
	}
	return &CachedSessionRepository{client: client, store: store, ttl: ttl}
}

func (r *CachedSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if err := r.store.Create(ctx, session); err != nil {
		return err
	}
	r.cache(ctx, session)
	return nil
}

func (r *CachedSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	if raw, err := r.client.Get(ctx, r.key(id)).Bytes(); err == nil {
		var session domain.Session
		if json.Unmarshal(raw, &session) == nil {
			return &session, nil
		}
	}

	session, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache(ctx, session)
	return session, nil
}

// Deactivate drops the cache entry before the store write so a concurrent
// validation cannot re-read the stale active snapshot after revocation
// completes.
func (r *CachedSessionRepository) Deactivate(ctx context.Context, id string) error {
	_ = r.client.Del(ctx, r.key(id)).Err()
	return r.store.Deactivate(ctx, id)
}

func (r *CachedSessionRepository) cache(ctx context.Context, session *domain.Session) {
	raw, err := json.Marshal(session)
	if err != nil {
		return
	}

	ttl := r.ttl
	if remaining := time.Until(session.ExpiresAt); remaining > 0 && remaining < ttl {
		ttl = remaining
	}
	_ = r.client.Set(ctx, r.key(session.ID), raw, ttl).Err()
}

func (r *CachedSessionRepository) key(id string) string {
	return "session:" + id
}
