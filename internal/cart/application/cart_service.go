package application

import (
	"context"

	"github.com/wyfcoding/corepnl/internal/cart/domain"
	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
	notification "github.com/wyfcoding/corepnl/internal/notification/domain"
	"github.com/wyfcoding/corepnl/pkg/logger"
	"github.com/wyfcoding/corepnl/pkg/metrics"
)

const (
	MsgAdded            = "Added to cart!"
	MsgAlreadyInCart    = "Item already in cart!"
	MsgAlreadyPurchased = "Item already purchased"
	MsgRemoved          = "Item removed from cart"
	MsgOwnedRemoved     = "Items you already own were removed from your cart"
)

// CartService 购物车操作，提示通过通知端口发出，不影响购物车状态
type CartService struct {
	notifier notification.Notifier
	metrics  *metrics.Metrics
}

// NewCartService 创建购物车服务，m 可为 nil
func NewCartService(notifier notification.Notifier, m *metrics.Metrics) *CartService {
	return &CartService{notifier: notifier, metrics: m}
}

// AddToCart 加入购物车，返回是否真正加入
func (s *CartService) AddToCart(ctx context.Context, visitID string, cart *domain.Cart, owned domain.Ownership, p catalog.Product, t catalog.ItemType) bool {
	res := cart.Add(p, t, owned)
	if s.metrics != nil {
		s.metrics.CartAdditionsTotal.WithLabelValues(res.String()).Inc()
	}

	switch res {
	case domain.Added:
		s.notify(ctx, visitID, notification.Success(MsgAdded))
	case domain.AlreadyInCart:
		s.notify(ctx, visitID, notification.Warning(MsgAlreadyInCart))
	case domain.AlreadyPurchased:
		s.notify(ctx, visitID, notification.Warning(MsgAlreadyPurchased))
	}
	return res == domain.Added
}

// RemoveFromCart 从购物车移除
func (s *CartService) RemoveFromCart(ctx context.Context, visitID string, cart *domain.Cart, id int64, t catalog.ItemType) {
	if cart.Remove(id, t) > 0 {
		s.notify(ctx, visitID, notification.Info(MsgRemoved))
	}
}

// PruneOwned 登录后移除账户已拥有的条目，返回移除数量
func (s *CartService) PruneOwned(ctx context.Context, visitID string, cart *domain.Cart, owned domain.Ownership) int {
	removed := cart.RemoveOwned(owned)
	if len(removed) == 0 {
		return 0
	}
	logger.Info(ctx, "removed owned items from cart", "visit_id", visitID, "count", len(removed))
	s.notify(ctx, visitID, notification.Info(MsgOwnedRemoved))
	return len(removed)
}

func (s *CartService) notify(ctx context.Context, visitID string, n notification.Notice) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, visitID, n); err != nil {
		logger.Warn(ctx, "failed to emit notice", "message", n.Message, "error", err)
	}
}
