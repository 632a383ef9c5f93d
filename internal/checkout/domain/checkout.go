package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	entitlement "github.com/wyfcoding/corepnl/internal/entitlement/domain"
)

var (
	ErrEmptyCart = errors.New("Your cart is empty")
	// ErrCommitFailed 持久化提交失败，包装底层错误
	ErrCommitFailed = errors.New("Purchase failed")
)

const PurchaseCommittedEventType = "purchase.committed"

// Committer 提交购买记录的策略，按会话状态选择
type Committer interface {
	// Simulated 为 true 时记录只存在于本地账本
	Simulated() bool
	Commit(ctx context.Context, ledger *entitlement.Ledger, userID string, drafts []entitlement.Purchase) error
}

// Receipt 结账结果
type Receipt struct {
	UserID    string                 `json:"user_id"`
	Purchases []entitlement.Purchase `json:"purchases"`
	Total     decimal.Decimal        `json:"total"`
	Simulated bool                   `json:"simulated"`
}

// PurchaseCommittedEvent 购买提交事件
type PurchaseCommittedEvent struct {
	UserID    string                 `json:"user_id"`
	Simulated bool                   `json:"simulated"`
	Items     []entitlement.Purchase `json:"items"`
	Total     decimal.Decimal        `json:"total"`
	Timestamp time.Time              `json:"timestamp"`
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
