package password_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/wyfcoding/corepnl/internal/auth/infrastructure/password"
)

func TestNew(t *testing.T) {
	c := qt.New(t)

	for name, want := range map[string]string{"": "plain", "plain": "plain", "bcrypt": "bcrypt"} {
		scheme, err := password.New(name)
		c.Assert(err, qt.IsNil)
		c.Assert(scheme.Name(), qt.Equals, want)
	}

	_, err := password.New("md5")
	c.Assert(err, qt.ErrorMatches, "unknown password scheme: md5")
}

func TestPlain(t *testing.T) {
	c := qt.New(t)

	var p password.Plain
	stored, err := p.Encode("abc123")
	c.Assert(err, qt.IsNil)
	c.Assert(stored, qt.Equals, "abc123")
	c.Assert(p.Matches(stored, "abc123"), qt.IsTrue)
	c.Assert(p.Matches(stored, "abc124"), qt.IsFalse)
	c.Assert(p.Matches(stored, ""), qt.IsFalse)
}

func TestBcrypt(t *testing.T) {
	c := qt.New(t)

	b := password.Bcrypt{Cost: 4}
	stored, err := b.Encode("abc123")
	c.Assert(err, qt.IsNil)
	c.Assert(stored, qt.Not(qt.Equals), "abc123")
	c.Assert(b.Matches(stored, "abc123"), qt.IsTrue)
	c.Assert(b.Matches(stored, "abc124"), qt.IsFalse)
	c.Assert(b.Matches("abc123", "abc123"), qt.IsFalse)
}
