package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/wyfcoding/corepnl/internal/notification/domain"
)

// DefaultNoticeTTL 提示自动消失的时间
const DefaultNoticeTTL = 4 * time.Second

// Inbox 按访问会话暂存提示，过期自动丢弃
type Inbox struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	queues map[string][]domain.Notice
}

// NewInbox 创建收件箱，ttl<=0 时使用默认值
func NewInbox(ttl time.Duration) *Inbox {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Inbox{
		ttl:    ttl,
		now:    time.Now,
		queues: make(map[string][]domain.Notice),
	}
}

// WithClock 替换时钟
func (i *Inbox) WithClock(now func() time.Time) *Inbox {
	i.now = now
	return i
}

func (i *Inbox) Notify(ctx context.Context, visitID string, notice domain.Notice) error {
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = i.now()
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.queues[visitID] = append(i.queues[visitID], notice)
	return nil
}

// Drain 返回并移除仍在有效期内的提示
func (i *Inbox) Drain(visitID string) []domain.Notice {
	i.mu.Lock()
	defer i.mu.Unlock()

	queued := i.queues[visitID]
	delete(i.queues, visitID)

	live := make([]domain.Notice, 0, len(queued))
	cutoff := i.now().Add(-i.ttl)
	for _, n := range queued {
		if n.CreatedAt.After(cutoff) {
			live = append(live, n)
		}
	}
	return live
}

// Forget 丢弃某个访问会话的全部提示
func (i *Inbox) Forget(visitID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.queues, visitID)
}

// Purge 清理过期提示，返回被清理的条数
func (i *Inbox) Purge() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	cutoff := i.now().Add(-i.ttl)
	purged := 0
	for id, queued := range i.queues {
		kept := queued[:0]
		for _, n := range queued {
			if n.CreatedAt.After(cutoff) {
				kept = append(kept, n)
			} else {
				purged++
			}
		}
		if len(kept) == 0 {
			delete(i.queues, id)
		} else {
			i.queues[id] = kept
		}
	}
	return purged
}
