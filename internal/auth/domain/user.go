package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrPasswordMismatch   = errors.New("Passwords do not match")
	ErrFullnameRequired   = errors.New("Name is required")
	ErrAddressRequired    = errors.New("Address is required")
	ErrUserExists         = errors.New("User with this email already exists")
	ErrSessionInvalid     = errors.New("session invalid or expired")
)

// User 用户账户；创建后不提供修改或删除
type User struct {
	Email     string
	Password  string
	Fullname  string
	Address   string
	CreatedAt time.Time
}

// NewUser 创建用户，password 为已由密码方案处理过的值，其余字段原样保存
func NewUser(email, password, fullname, address string, now time.Time) *User {
	return &User{
		Email:     email,
		Password:  password,
		Fullname:  fullname,
		Address:   address,
		CreatedAt: now,
	}
}

// UserRepository users 集合的访问，未找到时返回 nil, nil
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// PasswordScheme 密码存储与比对方式
type PasswordScheme interface {
	Name() string
	// Encode 生成写入 users.password 的值
	Encode(password string) (string, error)
	// Matches 比对存储值与提交值
	Matches(stored, supplied string) bool
}
