package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thihanaing/minpos-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSalesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	salesTable := `
CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total TEXT NOT NULL,
  shop_name TEXT NOT NULL,
  address TEXT NOT NULL DEFAULT '',
  salesperson TEXT NOT NULL DEFAULT '',
  sold_at DATETIME NOT NULL,
  created_at DATETIME
);`
	saleLines := `
CREATE TABLE IF NOT EXISTS sale_lines (
  id TEXT PRIMARY KEY,
  sale_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(salesTable).Error)
	require.NoError(t, db.Exec(saleLines).Error)
	require.NoError(t, db.Exec("DELETE FROM sale_lines").Error)
	require.NoError(t, db.Exec("DELETE FROM sales").Error)

	return db
}

func insertSale(t *testing.T, db *gorm.DB, userID uuid.UUID, total int64, soldAt time.Time, lines ...models.SaleLine) *models.Sale {
	t.Helper()

	sale := &models.Sale{
		ID:       uuid.New(),
		UserID:   userID,
		Total:    decimal.NewFromInt(total),
		ShopName: "Shwe Coffee",
		SoldAt:   soldAt,
	}
	require.NoError(t, db.Create(sale).Error)
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].SaleID = sale.ID
		require.NoError(t, db.Create(&lines[i]).Error)
	}
	return sale
}

func TestRepositoryFindRangeIsBoundedAndNewestFirst(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	older := insertSale(t, db, userID, 1000, start.Add(2*time.Hour))
	newer := insertSale(t, db, userID, 2000, start.Add(30*time.Hour))
	insertSale(t, db, userID, 9999, start.Add(-time.Minute))
	insertSale(t, db, userID, 9999, end)
	insertSale(t, db, uuid.New(), 9999, start.Add(time.Hour))

	sales, err := repo.FindRange(context.Background(), userID, start, end)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, newer.ID, sales[0].ID)
	assert.Equal(t, older.ID, sales[1].ID)
}

func TestRepositoryFindByIDLoadsLinesInOrder(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	sale := insertSale(t, db, userID, 2500, time.Now().UTC(),
		models.SaleLine{ItemID: uuid.New(), Position: 1, Name: "Scone", UnitPrice: decimal.NewFromInt(500), Quantity: 1},
		models.SaleLine{ItemID: uuid.New(), Position: 0, Name: "Latte", UnitPrice: decimal.NewFromInt(1000), Quantity: 2},
	)

	found, err := repo.FindByID(context.Background(), userID, sale.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, "Latte", found.Lines[0].Name)
	assert.Equal(t, "Scone", found.Lines[1].Name)
	assert.True(t, found.Total.Equal(decimal.NewFromInt(2500)))

	_, err = repo.FindByID(context.Background(), uuid.New(), sale.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateWithTxRequiresTransaction(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)

	err := repo.CreateWithTx(nil, &models.Sale{})
	assert.ErrorIs(t, err, gorm.ErrInvalidTransaction)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	sale := &models.Sale{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Total:    decimal.NewFromInt(1500),
		ShopName: "Shwe Coffee",
		SoldAt:   time.Now().UTC(),
		Lines: []models.SaleLine{
			{ID: uuid.New(), ItemID: uuid.New(), Position: 0, Name: "Espresso", UnitPrice: decimal.NewFromInt(1500), Quantity: 1},
		},
	}
	require.NoError(t, repo.CreateWithTx(tx, sale))
	require.NoError(t, tx.Commit().Error)

	found, err := repo.FindByID(context.Background(), sale.UserID, sale.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Espresso", found.Lines[0].Name)
}
