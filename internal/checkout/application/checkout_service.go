package application

import (
	"context"
	"strconv"
	"time"

	cart "github.com/wyfcoding/corepnl/internal/cart/domain"
	"github.com/wyfcoding/corepnl/internal/checkout/domain"
	entitlement "github.com/wyfcoding/corepnl/internal/entitlement/domain"
	notification "github.com/wyfcoding/corepnl/internal/notification/domain"
	"github.com/wyfcoding/corepnl/pkg/logger"
	"github.com/wyfcoding/corepnl/pkg/metrics"
)

const (
	DefaultAnonymousPrefix = "demo-user-"
	MsgPurchaseSucceeded   = `Purchase successful! Check "My Courses" to access your content.`
)

// CheckoutService 结账服务
type CheckoutService struct {
	persisted       domain.Committer
	simulated       domain.Committer
	notifier        notification.Notifier
	publisher       domain.EventPublisher
	metrics         *metrics.Metrics
	anonymousPrefix string
	now             func() time.Time
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(
	persisted domain.Committer,
	notifier notification.Notifier,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	anonymousPrefix string,
) *CheckoutService {
	if anonymousPrefix == "" {
		anonymousPrefix = DefaultAnonymousPrefix
	}
	return &CheckoutService{
		persisted:       persisted,
		simulated:       SimulatedCommitter{},
		notifier:        notifier,
		publisher:       publisher,
		metrics:         m,
		anonymousPrefix: anonymousPrefix,
		now:             time.Now,
	}
}

// WithClock 替换时钟
func (s *CheckoutService) WithClock(now func() time.Time) *CheckoutService {
	s.now = now
	return s
}

// Committer userID 为空时使用模拟提交，否则持久化提交
func (s *CheckoutService) Committer(userID string) domain.Committer {
	if userID == "" {
		return s.simulated
	}
	return s.persisted
}

// Checkout 将购物车转换为购买记录并提交；失败时购物车保持不变，不做自动重试
func (s *CheckoutService) Checkout(ctx context.Context, visitID string, c *cart.Cart, ledger *entitlement.Ledger, userID string) (*domain.Receipt, error) {
	committer := s.Committer(userID)
	mode := "persisted"
	if committer.Simulated() {
		mode = "simulated"
	}

	if c.IsEmpty() {
		s.record("empty", mode, 0)
		s.notify(ctx, visitID, notification.Warning(domain.ErrEmptyCart.Error()))
		return nil, domain.ErrEmptyCart
	}

	now := s.now()
	owner := userID
	if owner == "" {
		owner = s.anonymousPrefix + strconv.FormatInt(now.UnixMilli(), 10)
	}

	items := c.Items()
	drafts := make([]entitlement.Purchase, 0, len(items))
	for _, it := range items {
		drafts = append(drafts, entitlement.NewDraft(owner, it.Product, it.Type, now))
	}
	total := c.Total()

	if err := committer.Commit(ctx, ledger, owner, drafts); err != nil {
		logger.Error(ctx, "checkout failed", "user_id", owner, "items", len(drafts), "error", err)
		s.record("failed", mode, 0)
		s.notify(ctx, visitID, notification.Failure(err.Error()))
		return nil, err
	}

	c.Clear()
	s.record("committed", mode, len(drafts))
	s.notify(ctx, visitID, notification.Success(MsgPurchaseSucceeded))

	receipt := &domain.Receipt{
		UserID:    owner,
		Purchases: drafts,
		Total:     total,
		Simulated: committer.Simulated(),
	}
	if s.publisher != nil {
		event := domain.PurchaseCommittedEvent{
			UserID:    owner,
			Simulated: receipt.Simulated,
			Items:     drafts,
			Total:     total,
			Timestamp: now,
		}
		if err := s.publisher.Publish(ctx, domain.PurchaseCommittedEventType, owner, event); err != nil {
			logger.Warn(ctx, "failed to publish purchase committed event", "user_id", owner, "error", err)
		}
	}
	logger.Info(ctx, "checkout committed", "user_id", owner, "items", len(drafts), "total", total.String(), "mode", mode)
	return receipt, nil
}

func (s *CheckoutService) record(outcome, mode string, items int) {
	if s.metrics == nil {
		return
	}
	s.metrics.CheckoutsTotal.WithLabelValues(outcome, mode).Inc()
	if items > 0 {
		s.metrics.CheckoutItemsTotal.Add(float64(items))
	}
}

func (s *CheckoutService) notify(ctx context.Context, visitID string, n notification.Notice) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, visitID, n); err != nil {
		logger.Warn(ctx, "failed to emit notice", "message", n.Message, "error", err)
	}
}
