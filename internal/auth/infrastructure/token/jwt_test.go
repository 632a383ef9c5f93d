package token_test

import (
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/wyfcoding/corepnl/internal/auth/domain"
	"github.com/wyfcoding/corepnl/internal/auth/infrastructure/token"
)

func claims(ttl time.Duration) domain.Claims {
	now := time.Now().Truncate(time.Second)
	return domain.Claims{UserID: "a@b.co", Email: "a@b.co", IssuedAt: now, ExpiresAt: now.Add(ttl)}
}

func TestIssueVerify(t *testing.T) {
	c := qt.New(t)

	issuer := token.NewJWTIssuer("secret")
	in := claims(time.Hour)
	signed, err := issuer.Issue(in)
	c.Assert(err, qt.IsNil)

	out, err := issuer.Verify(signed)
	c.Assert(err, qt.IsNil)
	c.Assert(out.UserID, qt.Equals, in.UserID)
	c.Assert(out.Email, qt.Equals, in.Email)
	c.Assert(out.ExpiresAt.Equal(in.ExpiresAt), qt.IsTrue)
}

// tamper 修改签名首字符
func tamper(signed string) string {
	i := strings.LastIndex(signed, ".") + 1
	b := []byte(signed)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestVerifyRejects(t *testing.T) {
	issuer := token.NewJWTIssuer("secret")

	valid, err := issuer.Issue(claims(time.Hour))
	qt.Assert(t, err, qt.IsNil)
	expired, err := issuer.Issue(claims(-time.Minute))
	qt.Assert(t, err, qt.IsNil)
	foreign, err := token.NewJWTIssuer("other").Issue(claims(time.Hour))
	qt.Assert(t, err, qt.IsNil)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "abc.def.ghi"},
		{name: "tampered", token: tamper(valid)},
		{name: "expired", token: expired},
		{name: "wrong secret", token: foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			_, err := issuer.Verify(tt.token)
			c.Assert(err, qt.ErrorMatches, "verify token: .*")
		})
	}
}
