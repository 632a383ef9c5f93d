package password

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/wyfcoding/corepnl/internal/auth/domain"
	"golang.org/x/crypto/bcrypt"
)

// Plain 原样存储并逐字节比对，与既有 users 表兼容
type Plain struct{}

func (Plain) Name() string { return "plain" }

func (Plain) Encode(password string) (string, error) { return password, nil }

func (Plain) Matches(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// Bcrypt 以 bcrypt 哈希存储
type Bcrypt struct {
	Cost int
}

func (Bcrypt) Name() string { return "bcrypt" }

func (b Bcrypt) Encode(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (Bcrypt) Matches(stored, supplied string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied))
	return err == nil
}

// New 按名称选择密码方案
func New(name string) (domain.PasswordScheme, error) {
	switch name {
	case "", "plain":
		return Plain{}, nil
	case "bcrypt":
		return Bcrypt{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownScheme, name)
	}
}

var errUnknownScheme = errors.New("unknown password scheme")
