package domain

import (
	"context"
	"time"
)

// Session 显式会话，由签名令牌标识并在服务端保存，可校验、可撤销
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired 是否已过期
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Claims 令牌中携带的声明
type Claims struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer 会话令牌签发与校验
type TokenIssuer interface {
	Issue(claims Claims) (string, error)
	Verify(token string) (*Claims, error)
}

// SessionRepository 会话存储，未找到时返回 nil, nil
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
