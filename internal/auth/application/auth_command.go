package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wyfcoding/corepnl/internal/auth/domain"
	"github.com/wyfcoding/corepnl/pkg/logger"
)

// SignupCommand 注册命令
type SignupCommand struct {
	Email           string
	Password        string
	ConfirmPassword string
	Fullname        string
	Address         string
}

// Validate 按顺序校验，先于任何数据存储访问
func (c SignupCommand) Validate() error {
	if c.Password != c.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}
	if strings.TrimSpace(c.Fullname) == "" {
		return domain.ErrFullnameRequired
	}
	if strings.TrimSpace(c.Address) == "" {
		return domain.ErrAddressRequired
	}
	return nil
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email    string
	Password string
}

// AuthCommandService 认证命令服务
type AuthCommandService struct {
	users     domain.UserRepository
	sessions  domain.SessionRepository
	tokens    domain.TokenIssuer
	scheme    domain.PasswordScheme
	publisher domain.EventPublisher
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthCommandService 创建认证命令服务实例
func NewAuthCommandService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	tokens domain.TokenIssuer,
	scheme domain.PasswordScheme,
	publisher domain.EventPublisher,
	ttl time.Duration,
) *AuthCommandService {
	return &AuthCommandService{
		users:     users,
		sessions:  sessions,
		tokens:    tokens,
		scheme:    scheme,
		publisher: publisher,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Signup 处理用户注册
func (s *AuthCommandService) Signup(ctx context.Context, cmd SignupCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	existing, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return domain.ErrUserExists
	}

	stored, err := s.scheme.Encode(cmd.Password)
	if err != nil {
		return fmt.Errorf("encode password: %w", err)
	}
	user := domain.NewUser(cmd.Email, stored, cmd.Fullname, cmd.Address, s.now())
	if err := s.users.Save(ctx, user); err != nil {
		// 并发注册同一邮箱时由唯一索引拦截
		if errors.Is(err, domain.ErrUserExists) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	if s.publisher != nil {
		event := domain.UserRegisteredEvent{Email: user.Email, Timestamp: user.CreatedAt}
		if err := s.publisher.Publish(ctx, domain.UserRegisteredEventType, user.Email, event); err != nil {
			logger.Warn(ctx, "failed to publish user registered event", "email", user.Email, "error", err)
		}
	}
	return nil
}

// Login 处理用户登录；查找失败、用户不存在与密码不符一律返回 ErrInvalidCredentials
func (s *AuthCommandService) Login(ctx context.Context, cmd LoginCommand) (*domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		logger.Error(ctx, "failed to look up user", "error", err)
		return nil, domain.ErrInvalidCredentials
	}
	if user == nil || !s.scheme.Matches(user.Password, cmd.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	claims := domain.Claims{
		UserID:    user.Email,
		Email:     user.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	token, err := s.tokens.Issue(claims)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	session := &domain.Session{
		Token:     token,
		UserID:    claims.UserID,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if s.publisher != nil {
		event := domain.UserLoggedInEvent{UserID: session.UserID, Email: session.Email, Timestamp: now}
		if err := s.publisher.Publish(ctx, domain.UserLoggedInEventType, session.Email, event); err != nil {
			logger.Warn(ctx, "failed to publish user logged in event", "email", session.Email, "error", err)
		}
	}
	return session, nil
}

// Logout 撤销会话
func (s *AuthCommandService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}
