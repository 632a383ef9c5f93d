package domain_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/corepnl/internal/cart/domain"
	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
)

type owned map[catalog.ItemType]map[int64]bool

func (o owned) IsPurchased(id int64, t catalog.ItemType) bool {
	return o[t][id]
}

func product(id int64, price string) catalog.Product {
	p := catalog.Product{ID: id, Title: "item"}
	if price != "" {
		p.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	return p
}

func TestAddIsIdempotent(t *testing.T) {
	c := qt.New(t)

	cart := domain.NewCart()
	c.Assert(cart.Add(product(1, "99"), catalog.ItemTypeCourse, nil), qt.Equals, domain.Added)
	c.Assert(cart.Add(product(1, "99"), catalog.ItemTypeCourse, nil), qt.Equals, domain.AlreadyInCart)
	c.Assert(cart.Count(), qt.Equals, 1)
}

func TestAddDistinguishesType(t *testing.T) {
	c := qt.New(t)

	cart := domain.NewCart()
	cart.Add(product(1, "10"), catalog.ItemTypeCourse, nil)
	cart.Add(product(1, "20"), catalog.ItemTypeEbook, nil)

	c.Assert(cart.Count(), qt.Equals, 2)
	items := cart.Items()
	c.Assert(items[0].Type, qt.Equals, catalog.ItemTypeCourse)
	c.Assert(items[1].Type, qt.Equals, catalog.ItemTypeEbook)
	c.Assert(items[1].Quantity, qt.Equals, 1)
}

func TestAddRejectsPurchasedItem(t *testing.T) {
	c := qt.New(t)

	o := owned{catalog.ItemTypeCourse: {1: true}}
	cart := domain.NewCart()

	c.Assert(cart.Add(product(1, "99"), catalog.ItemTypeCourse, o), qt.Equals, domain.AlreadyPurchased)
	c.Assert(cart.IsEmpty(), qt.IsTrue)

	c.Assert(cart.Add(product(1, "99"), catalog.ItemTypeEbook, o), qt.Equals, domain.Added)
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name   string
		prices []string
		want   string
	}{
		{name: "empty cart", want: "0"},
		{name: "single item", prices: []string{"99"}, want: "99"},
		{name: "several items", prices: []string{"99", "19.99", "0.01"}, want: "119.99"},
		{name: "missing price counts as zero", prices: []string{"49", ""}, want: "49"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			cart := domain.NewCart()
			for i, p := range tt.prices {
				cart.Add(product(int64(i+1), p), catalog.ItemTypeCourse, nil)
			}
			c.Assert(cart.Total().Equal(decimal.RequireFromString(tt.want)), qt.IsTrue, qt.Commentf("got %s", cart.Total()))
		})
	}
}

func TestRemove(t *testing.T) {
	c := qt.New(t)

	cart := domain.NewCart()
	cart.Add(product(1, "1"), catalog.ItemTypeCourse, nil)
	cart.Add(product(2, "2"), catalog.ItemTypeCourse, nil)
	cart.Add(product(1, "3"), catalog.ItemTypeEbook, nil)

	c.Assert(cart.Remove(1, catalog.ItemTypeCourse), qt.Equals, 1)
	c.Assert(cart.Count(), qt.Equals, 2)
	c.Assert(cart.Contains(1, catalog.ItemTypeCourse), qt.IsFalse)
	c.Assert(cart.Contains(1, catalog.ItemTypeEbook), qt.IsTrue)

	c.Assert(cart.Remove(42, catalog.ItemTypeCourse), qt.Equals, 0)
	c.Assert(cart.Count(), qt.Equals, 2)
}

func TestItemsPreserveInsertionOrder(t *testing.T) {
	c := qt.New(t)

	cart := domain.NewCart()
	for _, id := range []int64{3, 1, 2} {
		cart.Add(product(id, "1"), catalog.ItemTypeEbook, nil)
	}

	var ids []int64
	for _, it := range cart.Items() {
		ids = append(ids, it.ID)
	}
	c.Assert(ids, qt.DeepEquals, []int64{3, 1, 2})

	cart.Clear()
	c.Assert(cart.Count(), qt.Equals, 0)
	c.Assert(cart.Total().IsZero(), qt.IsTrue)
}

func TestRemoveOwned(t *testing.T) {
	c := qt.New(t)

	cart := domain.NewCart()
	cart.Add(product(1, "99"), catalog.ItemTypeCourse, nil)
	cart.Add(product(1, "5"), catalog.ItemTypeEbook, nil)
	cart.Add(product(2, "10"), catalog.ItemTypeCourse, nil)

	removed := cart.RemoveOwned(owned{catalog.ItemTypeCourse: {1: true, 2: true}})
	c.Assert(removed, qt.HasLen, 2)
	c.Assert(cart.Count(), qt.Equals, 1)
	c.Assert(cart.Contains(1, catalog.ItemTypeEbook), qt.IsTrue)
	c.Assert(cart.Total().Equal(decimal.NewFromInt(5)), qt.IsTrue)

	c.Assert(cart.RemoveOwned(nil), qt.HasLen, 0)
	c.Assert(cart.RemoveOwned(owned{}), qt.HasLen, 0)
	c.Assert(cart.Count(), qt.Equals, 1)
}
