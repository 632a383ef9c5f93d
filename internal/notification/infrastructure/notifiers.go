package infrastructure

import (
	"context"
	"errors"

	"github.com/wyfcoding/corepnl/internal/notification/domain"
	"github.com/wyfcoding/corepnl/pkg/logger"
)

// LogNotifier 将提示写入结构化日志
type LogNotifier struct{}

// NewLogNotifier 创建日志通知器
func NewLogNotifier() domain.Notifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, visitID string, notice domain.Notice) error {
	logger.Debug(ctx, "notice emitted", "visit_id", visitID, "level", string(notice.Level), "message", notice.Message)
	return nil
}

// Fanout 依次投递给多个通知器，汇总全部错误
type Fanout []domain.Notifier

func (f Fanout) Notify(ctx context.Context, visitID string, notice domain.Notice) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, visitID, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
