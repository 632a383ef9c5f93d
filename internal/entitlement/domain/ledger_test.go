package domain_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
	"github.com/wyfcoding/corepnl/internal/entitlement/domain"
)

func int64p(v int64) *int64 { return &v }

func TestNewDraftSetsExactlyOneForeignKey(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	p := catalog.Product{ID: 5, Price: decimal.NewNullDecimal(decimal.NewFromInt(49))}

	t.Run("course", func(t *testing.T) {
		c := qt.New(t)
		d := domain.NewDraft("u1", p, catalog.ItemTypeCourse, now)
		c.Assert(d.CourseID, qt.DeepEquals, int64p(5))
		c.Assert(d.ProductID, qt.IsNil)
		c.Assert(d.UserID, qt.Equals, "u1")
		c.Assert(d.PurchaseDate, qt.Equals, now)
		c.Assert(d.PricePaid.Equal(decimal.NewFromInt(49)), qt.IsTrue)
	})

	t.Run("ebook", func(t *testing.T) {
		c := qt.New(t)
		d := domain.NewDraft("u1", p, catalog.ItemTypeEbook, now)
		c.Assert(d.CourseID, qt.IsNil)
		c.Assert(d.ProductID, qt.DeepEquals, int64p(5))
	})

	t.Run("missing price pays zero", func(t *testing.T) {
		c := qt.New(t)
		d := domain.NewDraft("u1", catalog.Product{ID: 6}, catalog.ItemTypeEbook, now)
		c.Assert(d.PricePaid.IsZero(), qt.IsTrue)
	})
}

func TestLedgerIsPurchased(t *testing.T) {
	c := qt.New(t)

	l := domain.NewLedger()
	l.Replace([]domain.Purchase{
		{UserID: "u1", CourseID: int64p(1)},
		{UserID: "u1", ProductID: int64p(2)},
	})

	c.Assert(l.IsPurchased(1, catalog.ItemTypeCourse), qt.IsTrue)
	c.Assert(l.IsPurchased(1, catalog.ItemTypeEbook), qt.IsFalse)
	c.Assert(l.IsPurchased(2, catalog.ItemTypeEbook), qt.IsTrue)
	c.Assert(l.IsPurchased(2, catalog.ItemTypeCourse), qt.IsFalse)
	c.Assert(l.Len(), qt.Equals, 2)

	l.Append(domain.Purchase{UserID: "u1", CourseID: int64p(3)})
	c.Assert(l.IsPurchased(3, catalog.ItemTypeCourse), qt.IsTrue)

	l.Replace(nil)
	c.Assert(l.Len(), qt.Equals, 0)
	c.Assert(l.IsPurchased(1, catalog.ItemTypeCourse), qt.IsFalse)
}

func TestLedgerPurchasesReturnsCopy(t *testing.T) {
	c := qt.New(t)

	l := domain.NewLedger()
	l.Append(domain.Purchase{UserID: "u1", CourseID: int64p(1)})

	got := l.Purchases()
	got[0].UserID = "changed"
	c.Assert(l.Purchases()[0].UserID, qt.Equals, "u1")
}

func TestBuildLibrary(t *testing.T) {
	c := qt.New(t)

	cat := catalog.Catalog{
		Courses: []catalog.Product{{ID: 1}, {ID: 2}},
		Ebooks:  []catalog.Product{{ID: 1}, {ID: 3}},
	}
	l := domain.NewLedger()
	l.Append(
		domain.Purchase{CourseID: int64p(2)},
		domain.Purchase{ProductID: int64p(3)},
	)

	lib := domain.BuildLibrary(l, cat)
	c.Assert(lib.Courses, qt.HasLen, 1)
	c.Assert(lib.Courses[0].ID, qt.Equals, int64(2))
	c.Assert(lib.Ebooks, qt.HasLen, 1)
	c.Assert(lib.Ebooks[0].ID, qt.Equals, int64(3))
}
