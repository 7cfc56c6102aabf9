package sales

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thihanaing/minpos-backend/internal/cart"
	"github.com/thihanaing/minpos-backend/pkg/config"
	"github.com/thihanaing/minpos-backend/pkg/db/models"
	"github.com/thihanaing/minpos-backend/pkg/enums"
	pkgerrors "github.com/thihanaing/minpos-backend/pkg/errors"
	"github.com/thihanaing/minpos-backend/pkg/logger"
	"github.com/thihanaing/minpos-backend/pkg/outbox"
	"gorm.io/gorm"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakeCartStore struct {
	carts    map[string]*cart.Cart
	clearErr error
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]*cart.Cart)}
}

func (f *fakeCartStore) Load(_ context.Context, userID string) (*cart.Cart, error) {
	if c, ok := f.carts[userID]; ok {
		return c, nil
	}
	return &cart.Cart{}, nil
}

func (f *fakeCartStore) Clear(_ context.Context, userID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	delete(f.carts, userID)
	return nil
}

type stubProfileLoader struct {
	profile *models.MerchantProfile
	err     error
}

func (s *stubProfileLoader) FindByUserID(_ context.Context, _ uuid.UUID) (*models.MerchantProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

type stubSaleRepo struct {
	created    []*models.Sale
	createErr  error
	ranged     []models.Sale
	rangeStart time.Time
	rangeEnd   time.Time
}

func (s *stubSaleRepo) CreateWithTx(_ *gorm.DB, sale *models.Sale) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, sale)
	return nil
}

func (s *stubSaleRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*models.Sale, error) {
	if len(s.created) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return s.created[0], nil
}

func (s *stubSaleRepo) FindRange(_ context.Context, _ uuid.UUID, start, end time.Time) ([]models.Sale, error) {
	s.rangeStart = start
	s.rangeEnd = end
	return s.ranged, nil
}

type fakeLocker struct {
	held     map[string]bool
	setnxErr error
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (f *fakeLocker) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if f.setnxErr != nil {
		return false, f.setnxErr
	}
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeLocker) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.held, key)
	}
	return nil
}

func (f *fakeLocker) CheckoutLockKey(userID string) string {
	return "lock:checkout:" + userID
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type salesTestDeps struct {
	cartStore *fakeCartStore
	profiles  *stubProfileLoader
	repo      *stubSaleRepo
	locker    *fakeLocker
	outbox    *stubOutboxPublisher
}

func buildSalesService(t *testing.T, deps *salesTestDeps) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Tx:       stubTxRunner{},
		Repo:     deps.repo,
		Cart:     deps.cartStore,
		Profiles: deps.profiles,
		Locker:   deps.locker,
		Outbox:   deps.outbox,
		Logg:     logger.New(logger.Options{ServiceName: "sales-test", Output: io.Discard}),
		Checkout: config.CheckoutConfig{LockTTL: 30 * time.Second},
		App:      config.AppConfig{ReportTimeZone: "UTC"},
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func defaultSalesDeps() *salesTestDeps {
	return &salesTestDeps{
		cartStore: newFakeCartStore(),
		profiles: &stubProfileLoader{profile: &models.MerchantProfile{
			ShopName:    "Shwe Coffee",
			Address:     "12 Bogyoke Road",
			Salesperson: "Thiha",
		}},
		repo:   &stubSaleRepo{},
		locker: newFakeLocker(),
		outbox: &stubOutboxPublisher{},
	}
}

func seedCart(deps *salesTestDeps, userID uuid.UUID) {
	c := &cart.Cart{}
	latteID := uuid.New()
	c.Add(latteID, "Latte", decimal.NewFromInt(1000))
	c.Add(latteID, "Latte", decimal.NewFromInt(1000))
	c.Add(uuid.New(), "Scone", decimal.NewFromInt(500))
	deps.cartStore.carts[userID.String()] = c
}

func expectErrorCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s", want, typed.Code())
	}
}

func TestCheckoutRecordsSaleAndClearsCart(t *testing.T) {
	deps := defaultSalesDeps()
	svc := buildSalesService(t, deps)
	userID := uuid.New()
	seedCart(deps, userID)

	sale, err := svc.Checkout(context.Background(), userID)
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}

	if !sale.Total.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("expected total 2500, got %s", sale.Total)
	}
	if sale.ShopName != "Shwe Coffee" {
		t.Fatalf("expected profile snapshot on sale, got %q", sale.ShopName)
	}
	if len(sale.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(sale.Lines))
	}
	if sale.Lines[0].Name != "Latte" || sale.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected first line %+v", sale.Lines[0])
	}
	if sale.Lines[0].Position != 0 || sale.Lines[1].Position != 1 {
		t.Fatal("line positions should follow cart order")
	}

	if len(deps.repo.created) != 1 {
		t.Fatalf("expected 1 persisted sale, got %d", len(deps.repo.created))
	}
	if len(deps.outbox.events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(deps.outbox.events))
	}
	event := deps.outbox.events[0]
	if event.EventType != enums.EventSaleRecorded || event.AggregateType != enums.AggregateSale {
		t.Fatalf("unexpected event %s/%s", event.EventType, event.AggregateType)
	}
	if event.Actor == nil || event.Actor.UserID != userID {
		t.Fatal("event actor should carry the user id")
	}

	if _, stillThere := deps.cartStore.carts[userID.String()]; stillThere {
		t.Fatal("cart should be cleared after checkout")
	}
	if len(deps.locker.held) != 0 {
		t.Fatal("checkout lock should be released")
	}
}

func TestCheckoutEmptyCartFails(t *testing.T) {
	deps := defaultSalesDeps()
	svc := buildSalesService(t, deps)

	_, err := svc.Checkout(context.Background(), uuid.New())
	expectErrorCode(t, err, pkgerrors.CodeValidation)

	if len(deps.repo.created) != 0 {
		t.Fatal("no sale should be persisted for an empty cart")
	}
	if len(deps.locker.held) != 0 {
		t.Fatal("lock should be released after a failed checkout")
	}
}

func TestCheckoutRequiresShopName(t *testing.T) {
	deps := defaultSalesDeps()
	deps.profiles.profile.ShopName = "  "
	svc := buildSalesService(t, deps)
	userID := uuid.New()
	seedCart(deps, userID)

	_, err := svc.Checkout(context.Background(), userID)
	expectErrorCode(t, err, pkgerrors.CodeValidation)

	if len(deps.repo.created) != 0 {
		t.Fatal("no sale should be persisted without a shop name")
	}
	if _, ok := deps.cartStore.carts[userID.String()]; !ok {
		t.Fatal("cart should remain intact after a failed checkout")
	}
}

func TestCheckoutLockContention(t *testing.T) {
	deps := defaultSalesDeps()
	svc := buildSalesService(t, deps)
	userID := uuid.New()
	seedCart(deps, userID)

	deps.locker.held[deps.locker.CheckoutLockKey(userID.String())] = true

	_, err := svc.Checkout(context.Background(), userID)
	expectErrorCode(t, err, pkgerrors.CodeConflict)
}

func TestCheckoutPersistFailureKeepsCart(t *testing.T) {
	deps := defaultSalesDeps()
	deps.repo.createErr = fmt.Errorf("connection reset")
	svc := buildSalesService(t, deps)
	userID := uuid.New()
	seedCart(deps, userID)

	_, err := svc.Checkout(context.Background(), userID)
	expectErrorCode(t, err, pkgerrors.CodeDependency)

	if _, ok := deps.cartStore.carts[userID.String()]; !ok {
		t.Fatal("cart must survive a failed persist")
	}
	if len(deps.locker.held) != 0 {
		t.Fatal("lock should be released after a failed persist")
	}
}

func TestFetchRangeBoundsAndRevenue(t *testing.T) {
	deps := defaultSalesDeps()
	deps.repo.ranged = []models.Sale{
		{ID: uuid.New(), Total: decimal.NewFromInt(2500), SoldAt: time.Now()},
		{ID: uuid.New(), Total: decimal.NewFromInt(1800), SoldAt: time.Now()},
	}
	svc := buildSalesService(t, deps)

	report, err := svc.FetchRange(context.Background(), uuid.New(), "2026-01-10", "2026-01-11")
	if err != nil {
		t.Fatalf("FetchRange returned error: %v", err)
	}

	wantStart := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	if !deps.repo.rangeStart.Equal(wantStart) {
		t.Fatalf("expected range start %s, got %s", wantStart, deps.repo.rangeStart)
	}
	if !deps.repo.rangeEnd.Equal(wantEnd) {
		t.Fatalf("expected exclusive range end %s, got %s", wantEnd, deps.repo.rangeEnd)
	}

	if report.SaleCount != 2 {
		t.Fatalf("expected 2 sales, got %d", report.SaleCount)
	}
	if !report.Revenue.Equal(decimal.NewFromInt(4300)) {
		t.Fatalf("expected revenue 4300, got %s", report.Revenue)
	}
}

func TestFetchRangeValidatesDates(t *testing.T) {
	deps := defaultSalesDeps()
	svc := buildSalesService(t, deps)
	userID := uuid.New()

	_, err := svc.FetchRange(context.Background(), userID, "10-01-2026", "2026-01-11")
	expectErrorCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.FetchRange(context.Background(), userID, "2026-01-11", "garbage")
	expectErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestFetchRangeInvertedBoundsAreEmpty(t *testing.T) {
	deps := defaultSalesDeps()
	svc := buildSalesService(t, deps)

	report, err := svc.FetchRange(context.Background(), uuid.New(), "2026-02-10", "2026-02-01")
	if err != nil {
		t.Fatalf("inverted bounds should not error: %v", err)
	}
	if report.SaleCount != 0 {
		t.Fatalf("expected 0 sales, got %d", report.SaleCount)
	}
	if !report.Revenue.Equal(decimal.Zero) {
		t.Fatalf("expected zero revenue, got %s", report.Revenue)
	}
}
