package domain_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	auth "github.com/wyfcoding/corepnl/internal/auth/domain"
	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
	entitlement "github.com/wyfcoding/corepnl/internal/entitlement/domain"
	"github.com/wyfcoding/corepnl/internal/storefront/domain"
)

func TestSignInAndOut(t *testing.T) {
	c := qt.New(t)

	v := domain.NewVisit("v1", time.Now())
	c.Assert(v.UserID(), qt.Equals, "")

	v.Cart.Add(catalog.Product{ID: 1}, catalog.ItemTypeCourse, nil)
	v.SignIn(&auth.Session{UserID: "a@b.co"})
	c.Assert(v.Authenticated(), qt.IsTrue)
	c.Assert(v.UserID(), qt.Equals, "a@b.co")

	id := int64(1)
	v.Ledger.Append(entitlement.Purchase{UserID: "a@b.co", CourseID: &id})

	// 同一用户重复登录保留账本
	v.SignIn(&auth.Session{UserID: "a@b.co", Token: "t2"})
	c.Assert(v.Ledger.Len(), qt.Equals, 1)

	// 切换用户清空账本
	v.SignIn(&auth.Session{UserID: "z@b.co"})
	c.Assert(v.Ledger.Len(), qt.Equals, 0)

	v.Ledger.Append(entitlement.Purchase{UserID: "z@b.co", CourseID: &id})
	v.SignOut()
	c.Assert(v.Authenticated(), qt.IsFalse)
	c.Assert(v.Ledger.Len(), qt.Equals, 0)
	c.Assert(v.Cart.Count(), qt.Equals, 1)
}
