package application

import (
	"context"
	"time"

	"github.com/wyfcoding/corepnl/internal/auth/domain"
	"github.com/wyfcoding/corepnl/pkg/logger"
)

// AuthQueryService 认证查询服务
type AuthQueryService struct {
	sessions domain.SessionRepository
	tokens   domain.TokenIssuer
	now      func() time.Time
}

// NewAuthQueryService 创建认证查询服务实例
func NewAuthQueryService(sessions domain.SessionRepository, tokens domain.TokenIssuer) *AuthQueryService {
	return &AuthQueryService{sessions: sessions, tokens: tokens, now: time.Now}
}

// Resolve 校验令牌签名与有效期，并确认会话仍在服务端存在
func (s *AuthQueryService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrSessionInvalid
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		logger.Error(ctx, "failed to load session", "error", err)
		return nil, domain.ErrSessionInvalid
	}
	if session == nil || session.UserID != claims.UserID || session.Expired(s.now()) {
		return nil, domain.ErrSessionInvalid
	}
	return session, nil
}
