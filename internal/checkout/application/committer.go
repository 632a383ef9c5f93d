package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/corepnl/internal/checkout/domain"
	entitlementapp "github.com/wyfcoding/corepnl/internal/entitlement/application"
	entitlement "github.com/wyfcoding/corepnl/internal/entitlement/domain"
)

// PersistedCommitter 已登录用户：一次批量写入，成功后重新加载权益
type PersistedCommitter struct {
	repo         entitlement.PurchaseRepository
	entitlements *entitlementapp.EntitlementService
}

// NewPersistedCommitter 创建持久化提交策略
func NewPersistedCommitter(repo entitlement.PurchaseRepository, entitlements *entitlementapp.EntitlementService) *PersistedCommitter {
	return &PersistedCommitter{repo: repo, entitlements: entitlements}
}

func (c *PersistedCommitter) Simulated() bool { return false }

func (c *PersistedCommitter) Commit(ctx context.Context, ledger *entitlement.Ledger, userID string, drafts []entitlement.Purchase) error {
	if err := c.repo.InsertBatch(ctx, drafts); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCommitFailed, err)
	}
	c.entitlements.LoadPurchases(ctx, ledger, userID)
	return nil
}

// SimulatedCommitter 匿名访问：只追加到本地账本，会话结束即消失
type SimulatedCommitter struct{}

func (SimulatedCommitter) Simulated() bool { return true }

func (SimulatedCommitter) Commit(ctx context.Context, ledger *entitlement.Ledger, userID string, drafts []entitlement.Purchase) error {
	ledger.Append(drafts...)
	return nil
}
