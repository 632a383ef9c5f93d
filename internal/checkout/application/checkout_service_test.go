package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	cart "github.com/wyfcoding/corepnl/internal/cart/domain"
	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
	"github.com/wyfcoding/corepnl/internal/checkout/application"
	"github.com/wyfcoding/corepnl/internal/checkout/domain"
	entitlementapp "github.com/wyfcoding/corepnl/internal/entitlement/application"
	entitlement "github.com/wyfcoding/corepnl/internal/entitlement/domain"
	notification "github.com/wyfcoding/corepnl/internal/notification/domain"
)

type purchaseStore struct {
	mu        sync.Mutex
	rows      []entitlement.Purchase
	insertErr error
	inserts   int
}

func (s *purchaseStore) ListByUser(ctx context.Context, userID string) ([]entitlement.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entitlement.Purchase
	for _, p := range s.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *purchaseStore) InsertBatch(ctx context.Context, purchases []entitlement.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}
	for _, p := range purchases {
		p.ID = int64(len(s.rows) + 1)
		s.rows = append(s.rows, p)
	}
	return nil
}

type recorder struct {
	notices []notification.Notice
}

func (r *recorder) Notify(ctx context.Context, visitID string, n notification.Notice) error {
	r.notices = append(r.notices, n)
	return nil
}

type event struct {
	topic, key string
	payload    any
}

type publisher struct {
	events []event
}

func (p *publisher) Publish(ctx context.Context, topic, key string, payload any) error {
	p.events = append(p.events, event{topic: topic, key: key, payload: payload})
	return nil
}

type fixture struct {
	store     *purchaseStore
	notices   *recorder
	publisher *publisher
	svc       *application.CheckoutService
	now       time.Time
}

func newFixture() *fixture {
	f := &fixture{
		store:     &purchaseStore{},
		notices:   &recorder{},
		publisher: &publisher{},
		now:       time.UnixMilli(1735732800000).UTC(),
	}
	committer := application.NewPersistedCommitter(f.store, entitlementapp.NewEntitlementService(f.store))
	f.svc = application.NewCheckoutService(committer, f.notices, f.publisher, nil, "").
		WithClock(func() time.Time { return f.now })
	return f
}

func course(id int64, price int64) catalog.Product {
	return catalog.Product{ID: id, Title: "course", Price: decimal.NewNullDecimal(decimal.NewFromInt(price))}
}

func TestCheckoutEmptyCart(t *testing.T) {
	c := qt.New(t)

	f := newFixture()
	ledger := entitlement.NewLedger()

	receipt, err := f.svc.Checkout(context.Background(), "v1", cart.NewCart(), ledger, "")
	c.Assert(err, qt.ErrorIs, domain.ErrEmptyCart)
	c.Assert(err, qt.ErrorMatches, "Your cart is empty")
	c.Assert(receipt, qt.IsNil)
	c.Assert(ledger.Len(), qt.Equals, 0)
	c.Assert(f.store.inserts, qt.Equals, 0)
	c.Assert(f.publisher.events, qt.HasLen, 0)
}

func TestCheckoutAnonymousSimulatesPurchase(t *testing.T) {
	c := qt.New(t)

	f := newFixture()
	ledger := entitlement.NewLedger()
	crt := cart.NewCart()

	c.Assert(crt.Add(course(1, 99), catalog.ItemTypeCourse, ledger), qt.Equals, cart.Added)
	c.Assert(crt.Total().Equal(decimal.NewFromInt(99)), qt.IsTrue)

	receipt, err := f.svc.Checkout(context.Background(), "v1", crt, ledger, "")
	c.Assert(err, qt.IsNil)

	c.Assert(receipt.Simulated, qt.IsTrue)
	c.Assert(receipt.UserID, qt.Equals, "demo-user-1735732800000")
	c.Assert(receipt.Total.Equal(decimal.NewFromInt(99)), qt.IsTrue)

	purchases := ledger.Purchases()
	c.Assert(purchases, qt.HasLen, 1)
	c.Assert(*purchases[0].CourseID, qt.Equals, int64(1))
	c.Assert(purchases[0].ProductID, qt.IsNil)
	c.Assert(purchases[0].PricePaid.Equal(decimal.NewFromInt(99)), qt.IsTrue)
	c.Assert(purchases[0].PurchaseDate, qt.Equals, f.now)

	c.Assert(crt.IsEmpty(), qt.IsTrue)
	c.Assert(ledger.IsPurchased(1, catalog.ItemTypeCourse), qt.IsTrue)
	c.Assert(f.store.inserts, qt.Equals, 0)

	c.Assert(f.notices.notices, qt.HasLen, 1)
	c.Assert(f.notices.notices[0].Message, qt.Equals, application.MsgPurchaseSucceeded)
	c.Assert(f.publisher.events, qt.HasLen, 1)
	c.Assert(f.publisher.events[0].topic, qt.Equals, domain.PurchaseCommittedEventType)
}

func TestCheckoutAnonymousIDsAreDistinct(t *testing.T) {
	c := qt.New(t)

	f := newFixture()
	ledger := entitlement.NewLedger()

	crt := cart.NewCart()
	crt.Add(course(1, 10), catalog.ItemTypeCourse, ledger)
	first, err := f.svc.Checkout(context.Background(), "v1", crt, ledger, "")
	c.Assert(err, qt.IsNil)

	f.now = f.now.Add(time.Millisecond)
	crt.Add(course(2, 10), catalog.ItemTypeCourse, ledger)
	second, err := f.svc.Checkout(context.Background(), "v1", crt, ledger, "")
	c.Assert(err, qt.IsNil)

	c.Assert(first.UserID, qt.Not(qt.Equals), second.UserID)
}

func TestCheckoutAuthenticatedPersistsAndRefetches(t *testing.T) {
	c := qt.New(t)

	f := newFixture()
	ledger := entitlement.NewLedger()
	crt := cart.NewCart()
	crt.Add(course(1, 99), catalog.ItemTypeCourse, ledger)
	crt.Add(catalog.Product{ID: 4, Title: "ebook"}, catalog.ItemTypeEbook, ledger)

	receipt, err := f.svc.Checkout(context.Background(), "v1", crt, ledger, "trader@example.com")
	c.Assert(err, qt.IsNil)
	c.Assert(receipt.Simulated, qt.IsFalse)
	c.Assert(receipt.UserID, qt.Equals, "trader@example.com")
	c.Assert(receipt.Purchases, qt.HasLen, 2)

	c.Assert(f.store.inserts, qt.Equals, 1)
	c.Assert(f.store.rows, qt.HasLen, 2)
	c.Assert(crt.IsEmpty(), qt.IsTrue)

	// the ledger now reflects the datastore rows, ids included
	purchases := ledger.Purchases()
	c.Assert(purchases, qt.HasLen, 2)
	c.Assert(purchases[0].ID, qt.Equals, int64(1))
	c.Assert(ledger.IsPurchased(1, catalog.ItemTypeCourse), qt.IsTrue)
	c.Assert(ledger.IsPurchased(4, catalog.ItemTypeEbook), qt.IsTrue)
	c.Assert(purchases[1].PricePaid.IsZero(), qt.IsTrue)
}

func TestCheckoutAuthenticatedFailureLeavesCartUnchanged(t *testing.T) {
	c := qt.New(t)

	f := newFixture()
	f.store.insertErr = errors.New("duplicate key value violates unique constraint")
	ledger := entitlement.NewLedger()
	crt := cart.NewCart()
	crt.Add(course(1, 99), catalog.ItemTypeCourse, ledger)
	crt.Add(course(2, 49), catalog.ItemTypeCourse, ledger)

	receipt, err := f.svc.Checkout(context.Background(), "v1", crt, ledger, "trader@example.com")
	c.Assert(receipt, qt.IsNil)
	c.Assert(err, qt.ErrorIs, domain.ErrCommitFailed)
	c.Assert(err, qt.ErrorMatches, "Purchase failed: duplicate key value violates unique constraint")

	c.Assert(crt.Count(), qt.Equals, 2)
	c.Assert(ledger.Len(), qt.Equals, 0)
	c.Assert(f.store.rows, qt.HasLen, 0)
	c.Assert(f.store.inserts, qt.Equals, 1)
	c.Assert(f.publisher.events, qt.HasLen, 0)

	c.Assert(f.notices.notices, qt.HasLen, 1)
	c.Assert(f.notices.notices[0].Level, qt.Equals, notification.LevelError)
}

func TestCommitterSelection(t *testing.T) {
	c := qt.New(t)

	f := newFixture()
	c.Assert(f.svc.Committer("").Simulated(), qt.IsTrue)
	c.Assert(f.svc.Committer("trader@example.com").Simulated(), qt.IsFalse)
}
