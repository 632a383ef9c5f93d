package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/corepnl/internal/auth/domain"
)

type sessionRedisRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionRedisRepository 创建 Redis 会话仓储，会话随令牌过期自动删除
func NewSessionRedisRepository(client redis.UniversalClient) domain.SessionRepository {
	return &sessionRedisRepository{
		client: client,
		prefix: "corepnl:session:",
	}
}

func (r *sessionRedisRepository) key(token string) string {
	return fmt.Sprintf("%s%s", r.prefix, token)
}

func (r *sessionRedisRepository) Save(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(session.Token), data, ttl).Err()
}

func (r *sessionRedisRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRedisRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}
