package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thihanaing/minpos-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	items := `
CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(items).Error)
	require.NoError(t, db.Exec("DELETE FROM items").Error)

	return db
}

func insertItem(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, price int64) *models.Item {
	t.Helper()

	item := &models.Item{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Price:  decimal.NewFromInt(price),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestRepositoryListOrdersByNameAndFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	insertItem(t, db, userID, "Mocha", 3000)
	insertItem(t, db, userID, "Americano", 1800)
	insertItem(t, db, userID, "Latte", 2200)
	insertItem(t, db, uuid.New(), "Americano", 1800)

	items, err := repo.List(context.Background(), userID, "")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Americano", items[0].Name)
	assert.Equal(t, "Latte", items[1].Name)
	assert.Equal(t, "Mocha", items[2].Name)

	filtered, err := repo.List(context.Background(), userID, "moch")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Mocha", filtered[0].Name)
}

func TestRepositoryFindByIDScopedToOwner(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	item := insertItem(t, db, userID, "Espresso", 1500)

	found, err := repo.FindByID(context.Background(), userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.True(t, found.Price.Equal(decimal.NewFromInt(1500)))

	_, err = repo.FindByID(context.Background(), uuid.New(), item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDeleteReportsMissingRows(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	item := insertItem(t, db, userID, "Cold Brew", 2500)

	err := repo.Delete(context.Background(), uuid.New(), item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(context.Background(), userID, item.ID))

	_, err = repo.FindByID(context.Background(), userID, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
