package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/domain"
)

// cachedAccountRepository is a Redis read-through cache in front of the
// Postgres repository. Only account records are cached, never
// authorization results; writes invalidate the cached entry so reads
// after an update or delete see fresh data.
type cachedAccountRepository struct {
	inner  AccountRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedAccountRepository wraps the repository with a short-TTL cache.
// A nil client disables caching.
func NewCachedAccountRepository(inner AccountRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) AccountRepository {
	if client == nil {
		return inner
	}
	return &cachedAccountRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(email string) string {
	return "account:" + email
}

func (r *cachedAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := r.inner.Create(ctx, account); err != nil {
		return err
	}
	r.invalidate(ctx, account.Email)
	return nil
}

func (r *cachedAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if err := r.inner.Update(ctx, account); err != nil {
		return err
	}
	r.invalidate(ctx, account.Email)
	return nil
}

func (r *cachedAccountRepository) Delete(ctx context.Context, email string) error {
	if err := r.inner.Delete(ctx, email); err != nil {
		return err
	}
	r.invalidate(ctx, email)
	return nil
}

func (r *cachedAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if raw, err := r.client.Get(ctx, cacheKey(email)).Bytes(); err == nil {
		var account domain.Account
		if err := json.Unmarshal(raw, &account); err == nil {
			return &account, nil
		}
	}

	account, err := r.inner.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(account); err == nil {
		if err := r.client.Set(ctx, cacheKey(email), raw, r.ttl).Err(); err != nil {
			r.logger.Warn("account cache write failed", zap.Error(err))
		}
	}
	return account, nil
}

func (r *cachedAccountRepository) invalidate(ctx context.Context, email string) {
	if err := r.client.Del(ctx, cacheKey(email)).Err(); err != nil {
		r.logger.Warn("account cache invalidation failed", zap.String("email", email), zap.Error(err))
	}
}
