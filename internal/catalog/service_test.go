package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thihanaing/minpos-backend/pkg/db/models"
	pkgerrors "github.com/thihanaing/minpos-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubItemRepo struct {
	items   map[uuid.UUID]*models.Item
	created []*models.Item
	updated []*models.Item
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[uuid.UUID]*models.Item)}
}

func (s *stubItemRepo) Create(_ context.Context, item *models.Item) error {
	item.ID = uuid.New()
	s.items[item.ID] = item
	s.created = append(s.created, item)
	return nil
}

func (s *stubItemRepo) List(_ context.Context, userID uuid.UUID, _ string) ([]models.Item, error) {
	var out []models.Item
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubItemRepo) FindByID(_ context.Context, userID, itemID uuid.UUID) (*models.Item, error) {
	item, ok := s.items[itemID]
	if !ok || item.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubItemRepo) Update(_ context.Context, item *models.Item) error {
	s.items[item.ID] = item
	s.updated = append(s.updated, item)
	return nil
}

func (s *stubItemRepo) Delete(_ context.Context, userID, itemID uuid.UUID) error {
	item, ok := s.items[itemID]
	if !ok || item.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(s.items, itemID)
	return nil
}

func buildCatalogService(t *testing.T) (Service, *stubItemRepo) {
	t.Helper()
	repo := newStubItemRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc, repo
}

func assertErrorCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s", want, typed.Code())
	}
}

func TestServiceCreateValidatesInput(t *testing.T) {
	svc, repo := buildCatalogService(t)
	userID := uuid.New()

	if _, err := svc.Create(context.Background(), userID, CreateItemDTO{Name: "   "}); err == nil {
		t.Fatal("expected validation error for blank name")
	} else {
		assertErrorCode(t, err, pkgerrors.CodeValidation)
	}

	negative := decimal.NewFromInt(-1)
	if _, err := svc.Create(context.Background(), userID, CreateItemDTO{Name: "Coffee", Price: negative}); err == nil {
		t.Fatal("expected validation error for negative price")
	} else {
		assertErrorCode(t, err, pkgerrors.CodeValidation)
	}

	if len(repo.created) != 0 {
		t.Fatalf("expected no items persisted, got %d", len(repo.created))
	}
}

func TestServiceCreateTrimsNameAndPersists(t *testing.T) {
	svc, repo := buildCatalogService(t)
	userID := uuid.New()

	dto, err := svc.Create(context.Background(), userID, CreateItemDTO{
		Name:  "  Green Tea  ",
		Price: decimal.NewFromInt(1500),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if dto.Name != "Green Tea" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 item persisted, got %d", len(repo.created))
	}
	if !repo.created[0].Price.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected persisted price %s", repo.created[0].Price)
	}
}

func TestServiceGetUnknownItemReturnsNotFound(t *testing.T) {
	svc, _ := buildCatalogService(t)

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	if err == nil {
		t.Fatal("expected error for unknown item")
	}
	assertErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceUpdateAppliesPartialFields(t *testing.T) {
	svc, repo := buildCatalogService(t)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, CreateItemDTO{
		Name:  "Latte",
		Price: decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	newPrice := decimal.NewFromInt(2500)
	updated, err := svc.Update(context.Background(), userID, created.ID, UpdateItemDTO{Price: &newPrice})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Latte" {
		t.Fatalf("name should be unchanged, got %q", updated.Name)
	}
	if !updated.Price.Equal(newPrice) {
		t.Fatalf("expected price 2500, got %s", updated.Price)
	}
	if len(repo.updated) != 1 {
		t.Fatalf("expected 1 update persisted, got %d", len(repo.updated))
	}
}

func TestServiceDeleteScopedToOwner(t *testing.T) {
	svc, _ := buildCatalogService(t)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateItemDTO{
		Name:  "Mocha",
		Price: decimal.NewFromInt(3000),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	err = svc.Delete(context.Background(), uuid.New(), created.ID)
	if err == nil {
		t.Fatal("expected not found when deleting another user's item")
	}
	assertErrorCode(t, err, pkgerrors.CodeNotFound)

	if err := svc.Delete(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("owner delete returned error: %v", err)
	}
}
