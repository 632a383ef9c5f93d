package domain_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/corepnl/internal/catalog/domain"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestParseItemType(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.ItemType
		wantErr bool
	}{
		{in: "course", want: domain.ItemTypeCourse},
		{in: "ebook", want: domain.ItemTypeEbook},
		{in: " Ebook ", want: domain.ItemTypeEbook},
		{in: "bundle", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := qt.New(t)

			got, err := domain.ParseItemType(tt.in)
			if tt.wantErr {
				c.Assert(err, qt.ErrorIs, domain.ErrInvalidItemType)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tt.want)
		})
	}
}

func TestCatalogFindIsScopedByType(t *testing.T) {
	c := qt.New(t)

	cat := domain.Catalog{
		Courses: []domain.Product{{ID: 1, Title: "Price Action"}},
		Ebooks:  []domain.Product{{ID: 1, Title: "Risk Handbook"}},
	}

	p, ok := cat.Find(1, domain.ItemTypeCourse)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p.Title, qt.Equals, "Price Action")

	p, ok = cat.Find(1, domain.ItemTypeEbook)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p.Title, qt.Equals, "Risk Handbook")

	_, ok = cat.Find(2, domain.ItemTypeCourse)
	c.Assert(ok, qt.IsFalse)
}

func TestCatalogPreview(t *testing.T) {
	c := qt.New(t)

	cat := domain.Catalog{
		Courses: []domain.Product{
			{ID: 1, PreviewURL: "https://cdn.example.com/preview/1.mp4"},
			{ID: 2},
		},
	}

	url, err := cat.Preview(1, domain.ItemTypeCourse)
	c.Assert(err, qt.IsNil)
	c.Assert(url, qt.Equals, "https://cdn.example.com/preview/1.mp4")

	_, err = cat.Preview(2, domain.ItemTypeCourse)
	c.Assert(err, qt.ErrorIs, domain.ErrPreviewUnavailable)
	c.Assert(err, qt.ErrorMatches, "Preview not available for this item")

	_, err = cat.Preview(9, domain.ItemTypeEbook)
	c.Assert(err, qt.ErrorIs, domain.ErrProductNotFound)
}

func TestPriceOrZero(t *testing.T) {
	c := qt.New(t)

	c.Assert(domain.Product{}.PriceOrZero().IsZero(), qt.IsTrue)
	c.Assert(domain.Product{Price: price("99")}.PriceOrZero().String(), qt.Equals, "99")
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "99", want: "CA$99.00"},
		{in: "0", want: "CA$0.00"},
		{in: "12.5", want: "CA$12.50"},
		{in: "-3.2", want: "-CA$3.20"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(domain.FormatPrice(decimal.RequireFromString(tt.in)), qt.Equals, tt.want)
		})
	}
}
