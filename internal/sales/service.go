package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
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
	"github.com/thihanaing/minpos-backend/pkg/outbox/payloads"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	Load(ctx context.Context, userID string) (*cart.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type profileLoader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error)
}

type saleRepository interface {
	CreateWithTx(tx *gorm.DB, sale *models.Sale) error
	FindByID(ctx context.Context, userID, saleID uuid.UUID) (*models.Sale, error)
	FindRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Sale, error)
}

type checkoutLocker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutLockKey(userID string) string
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service records sales and serves date-ranged reports.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*SaleDTO, error)
	GetByID(ctx context.Context, userID, saleID uuid.UUID) (*SaleDTO, error)
	FetchRange(ctx context.Context, userID uuid.UUID, startDate, endDate string) (*ReportDTO, error)
}

// ServiceParams carries the collaborators the sales service needs.
type ServiceParams struct {
	Tx       txRunner
	Repo     saleRepository
	Cart     cartStore
	Profiles profileLoader
	Locker   checkoutLocker
	Outbox   outboxPublisher
	Logg     *logger.Logger
	Checkout config.CheckoutConfig
	App      config.AppConfig
}

type service struct {
	tx       txRunner
	repo     saleRepository
	cart     cartStore
	profiles profileLoader
	locker   checkoutLocker
	outbox   outboxPublisher
	logg     *logger.Logger
	lockTTL  time.Duration
	app      config.AppConfig
}

// NewService builds the sales service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile loader required")
	}
	if params.Locker == nil {
		return nil, fmt.Errorf("checkout locker required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:       params.Tx,
		repo:     params.Repo,
		cart:     params.Cart,
		profiles: params.Profiles,
		locker:   params.Locker,
		outbox:   params.Outbox,
		logg:     params.Logg,
		lockTTL:  params.Checkout.LockTTL,
		app:      params.App,
	}, nil
}

// Checkout converts the current cart into an immutable sale. The cart is
// cleared only after the sale and its outbox event are committed.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*SaleDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	lockKey := s.locker.CheckoutLockKey(userID.String())
	acquired, err := s.locker.SetNX(ctx, lockKey, uuid.NewString(), s.lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer func() {
		if err := s.locker.Del(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logg.Error(ctx, "failed to release checkout lock", err)
		}
	}()

	c, err := s.cart.Load(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	sale := buildSale(userID, profile, c, time.Now().UTC())

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateWithTx(tx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist sale")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSaleRecorded,
			AggregateType: enums.AggregateSale,
			AggregateID:   sale.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: payloads.SaleRecordedEvent{
				SaleID:    sale.ID,
				UserID:    userID,
				Total:     sale.Total.StringFixed(2),
				LineCount: len(sale.Lines),
				SoldAt:    sale.SoldAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	// The sale is durable at this point. A failed cart clear leaves a stale
	// cart behind, not a lost sale.
	if err := s.cart.Clear(ctx, userID.String()); err != nil {
		s.logg.Error(ctx, "failed to clear cart after checkout", err)
	}

	return FromModel(sale), nil
}

func (s *service) GetByID(ctx context.Context, userID, saleID uuid.UUID) (*SaleDTO, error) {
	if userID == uuid.Nil || saleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and sale id required")
	}
	sale, err := s.repo.FindByID(ctx, userID, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	return FromModel(sale), nil
}

// FetchRange reports sales with sold_at inside the inclusive date range,
// bounded by whole days in the configured report timezone.
func (s *service) FetchRange(ctx context.Context, userID uuid.UUID, startDate, endDate string) (*ReportDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	loc, err := s.app.ReportLocation()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve report timezone")
	}

	start, end, err := parseDateRange(startDate, endDate, loc)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.FindRange(ctx, userID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query sales")
	}

	report := &ReportDTO{
		StartDate: startDate,
		EndDate:   endDate,
		Revenue:   decimal.Zero,
		Sales:     make([]SaleDTO, 0, len(records)),
	}
	for i := range records {
		dto := FromModel(&records[i])
		report.Revenue = report.Revenue.Add(dto.Total)
		report.Sales = append(report.Sales, *dto)
	}
	report.SaleCount = len(report.Sales)
	return report, nil
}

func (s *service) loadProfile(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name must be set before checkout")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant profile")
	}
	if strings.TrimSpace(profile.ShopName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name must be set before checkout")
	}
	return profile, nil
}

// buildSale snapshots the cart and profile into an immutable sale record.
func buildSale(userID uuid.UUID, profile *models.MerchantProfile, c *cart.Cart, soldAt time.Time) *models.Sale {
	sale := &models.Sale{
		ID:          uuid.New(),
		UserID:      userID,
		Total:       c.Total(),
		ShopName:    profile.ShopName,
		Address:     profile.Address,
		Salesperson: profile.Salesperson,
		SoldAt:      soldAt,
		Lines:       make([]models.SaleLine, 0, len(c.Lines)),
	}
	for i, line := range c.Lines {
		sale.Lines = append(sale.Lines, models.SaleLine{
			ID:        uuid.New(),
			SaleID:    sale.ID,
			ItemID:    line.ItemID,
			Position:  i,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return sale
}

// parseDateRange converts inclusive calendar dates into a half-open time
// window in the given location.
func parseDateRange(startDate, endDate string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "start_date must be YYYY-MM-DD")
	}
	endDay, err := time.ParseInLocation(dateLayout, endDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end_date must be YYYY-MM-DD")
	}
	// An inverted range is a valid empty window, not a validation error.
	return start, endDay.AddDate(0, 0, 1), nil
}
