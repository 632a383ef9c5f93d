package application

import (
	"context"
	"time"

	"github.com/wyfcoding/corepnl/internal/auth/domain"
	"github.com/wyfcoding/corepnl/pkg/logger"
)

// AuthService 认证服务门面，整合命令服务和查询服务
type AuthService struct {
	commandService *AuthCommandService
	queryService   *AuthQueryService
}

// NewAuthService 创建认证服务门面实例
func NewAuthService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	tokens domain.TokenIssuer,
	scheme domain.PasswordScheme,
	publisher domain.EventPublisher,
	ttl time.Duration,
) *AuthService {
	if scheme.Name() == "plain" {
		logger.Warn(context.Background(), "password scheme is plain: passwords are stored and compared verbatim")
	}
	return &AuthService{
		commandService: NewAuthCommandService(users, sessions, tokens, scheme, publisher, ttl),
		queryService:   NewAuthQueryService(sessions, tokens),
	}
}

// WithClock 替换时钟
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.commandService.now = now
	s.queryService.now = now
	return s
}

// Signup 处理用户注册
func (s *AuthService) Signup(ctx context.Context, cmd SignupCommand) error {
	return s.commandService.Signup(ctx, cmd)
}

// Login 处理用户登录
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	return s.commandService.Login(ctx, LoginCommand{Email: email, Password: password})
}

// Logout 撤销会话
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.commandService.Logout(ctx, token)
}

// Resolve 解析会话令牌
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	return s.queryService.Resolve(ctx, token)
}
