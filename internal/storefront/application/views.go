package application

import (
	"github.com/shopspring/decimal"
	cart "github.com/wyfcoding/corepnl/internal/cart/domain"
	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
	"github.com/wyfcoding/corepnl/internal/storefront/domain"
)

// ItemState 商品相对当前访问的状态
type ItemState string

const (
	StateAvailable ItemState = "available"
	StateInCart    ItemState = "in_cart"
	StatePurchased ItemState = "purchased"
)

// ProductView 带状态的商品
type ProductView struct {
	catalog.Product
	Type         catalog.ItemType `json:"type"`
	State        ItemState        `json:"state"`
	DisplayPrice string           `json:"display_price"`
}

// CatalogView 目录视图
type CatalogView struct {
	Courses []ProductView `json:"courses"`
	Ebooks  []ProductView `json:"ebooks"`
}

// CartItemView 购物车条目视图
type CartItemView struct {
	cart.CartItem
	DisplayPrice string `json:"display_price"`
}

// CartView 购物车视图
type CartView struct {
	Items        []CartItemView  `json:"items"`
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
	DisplayTotal string          `json:"display_total"`
}

// stateOf 已拥有优先于在购物车中
func stateOf(v *domain.Visit, id int64, t catalog.ItemType) ItemState {
	switch {
	case v.Ledger.IsPurchased(id, t):
		return StatePurchased
	case v.Cart.Contains(id, t):
		return StateInCart
	default:
		return StateAvailable
	}
}

func composeCatalog(v *domain.Visit, c catalog.Catalog) CatalogView {
	view := CatalogView{
		Courses: make([]ProductView, 0, len(c.Courses)),
		Ebooks:  make([]ProductView, 0, len(c.Ebooks)),
	}
	for _, p := range c.Courses {
		view.Courses = append(view.Courses, productView(v, p, catalog.ItemTypeCourse))
	}
	for _, p := range c.Ebooks {
		view.Ebooks = append(view.Ebooks, productView(v, p, catalog.ItemTypeEbook))
	}
	return view
}

func productView(v *domain.Visit, p catalog.Product, t catalog.ItemType) ProductView {
	return ProductView{
		Product:      p,
		Type:         t,
		State:        stateOf(v, p.ID, t),
		DisplayPrice: catalog.FormatPrice(p.PriceOrZero()),
	}
}

func composeCart(c *cart.Cart) CartView {
	items := c.Items()
	view := CartView{
		Items: make([]CartItemView, 0, len(items)),
		Count: c.Count(),
		Total: c.Total(),
	}
	for _, it := range items {
		view.Items = append(view.Items, CartItemView{CartItem: it, DisplayPrice: catalog.FormatPrice(it.PriceOrZero())})
	}
	view.DisplayTotal = catalog.FormatPrice(view.Total)
	return view
}
