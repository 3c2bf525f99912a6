package discounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
)

func setupDiscountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	stores := `
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  owner_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	discounts := `
CREATE TABLE IF NOT EXISTS discounts (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  percentage REAL NOT NULL,
  description TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  size_id TEXT NOT NULL,
  color_id TEXT NOT NULL,
  discount_id TEXT,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_archived INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{stores, discounts, products} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func mustInsertStore(t *testing.T, tx *gorm.DB) *models.Store {
	t.Helper()
	store := &models.Store{ID: uuid.New(), Name: "Repo Store", OwnerID: uuid.New()}
	require.NoError(t, tx.Create(store).Error)
	return store
}

func mustInsertProduct(t *testing.T, tx *gorm.DB, storeID uuid.UUID, name string, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		StoreID:    storeID,
		CategoryID: uuid.New(),
		SizeID:     uuid.New(),
		ColorID:    uuid.New(),
		Name:       name,
		Price:      decimal.NewFromFloat(19.99),
		CreatedAt:  createdAt,
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

func TestRepositoryDiscountFlow(t *testing.T) {
	conn := setupDiscountsTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	store := mustInsertStore(t, tx)

	created, err := repo.Create(ctx, &models.Discount{
		StoreID:    store.ID,
		Name:       "Spring Sale",
		Percentage: 25,
		IsActive:   true,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByID(ctx, store.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring Sale", found.Name)
	assert.InDelta(t, 25, found.Percentage, 0.001)

	_, err = repo.FindByID(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found.Name = "Renamed Sale"
	require.NoError(t, repo.Update(ctx, found))
	reloaded, err := repo.FindByID(ctx, store.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Sale", reloaded.Name)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, store.ID, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByStoreOrdersNewestFirst(t *testing.T) {
	conn := setupDiscountsTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	store := mustInsertStore(t, tx)

	older := &models.Discount{StoreID: store.ID, Name: "Older", Percentage: 5, IsActive: true, CreatedAt: time.Now().Add(-2 * time.Hour)}
	newer := &models.Discount{StoreID: store.ID, Name: "Newer", Percentage: 10, IsActive: true, CreatedAt: time.Now().Add(-time.Hour)}
	_, err := repo.Create(ctx, older)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newer)
	require.NoError(t, err)

	list, err := repo.ListByStore(ctx, store.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestRepositoryAssociationWrites(t *testing.T) {
	conn := setupDiscountsTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	store := mustInsertStore(t, tx)
	other := mustInsertStore(t, tx)

	p1 := mustInsertProduct(t, tx, store.ID, "P1", time.Now().Add(-3*time.Minute))
	p2 := mustInsertProduct(t, tx, store.ID, "P2", time.Now().Add(-2*time.Minute))
	foreign := mustInsertProduct(t, tx, other.ID, "Foreign", time.Now().Add(-time.Minute))

	discount := &models.Discount{StoreID: store.ID, Name: "Assoc", Percentage: 15, IsActive: true}
	_, err := repo.Create(ctx, discount)
	require.NoError(t, err)

	// membership filter only returns this store's products
	inStore, err := repo.FindProductIDsInStore(ctx, store.ID, []uuid.UUID{p1.ID, p2.ID, foreign.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{p1.ID, p2.ID}, inStore)

	require.NoError(t, repo.AssignProducts(ctx, discount.ID, []uuid.UUID{p1.ID, p2.ID}))

	ids, err := repo.ListProductIDs(ctx, discount.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{p1.ID, p2.ID}, ids)

	products, err := repo.ListProducts(ctx, discount.ID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "P1", products[0].Name)

	counts, err := repo.CountProductsByDiscount(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[discount.ID])

	// detach only where the reference matches this discount
	otherDiscount := &models.Discount{StoreID: store.ID, Name: "Other", Percentage: 5, IsActive: true}
	_, err = repo.Create(ctx, otherDiscount)
	require.NoError(t, err)
	require.NoError(t, repo.DetachProducts(ctx, otherDiscount.ID, []uuid.UUID{p1.ID}))
	ids, err = repo.ListProductIDs(ctx, discount.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2, "detach for a different discount must be a no-op")

	require.NoError(t, repo.DetachProducts(ctx, discount.ID, []uuid.UUID{p1.ID}))
	ids, err = repo.ListProductIDs(ctx, discount.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{p2.ID}, ids)

	require.NoError(t, repo.ClearProducts(ctx, discount.ID))
	ids, err = repo.ListProductIDs(ctx, discount.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	var remaining models.Product
	require.NoError(t, tx.First(&remaining, "id = ?", p2.ID).Error)
	assert.Nil(t, remaining.DiscountID)
}
