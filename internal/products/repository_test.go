package products

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
	"github.com/ojvaldez/storefront-admin-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  owner_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  billboard_id TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS sizes (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  value TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS colors (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  value TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
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
);`,
		`CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type catalogFixture struct {
	store    *models.Store
	category *models.Category
	size     *models.Size
	color    *models.Color
}

func mustInsertCatalog(t *testing.T, tx *gorm.DB) catalogFixture {
	t.Helper()

	store := &models.Store{ID: uuid.New(), Name: "Repo Store", OwnerID: uuid.New()}
	require.NoError(t, tx.Create(store).Error)

	category := &models.Category{ID: uuid.New(), StoreID: store.ID, BillboardID: uuid.New(), Name: "Shirts"}
	require.NoError(t, tx.Create(category).Error)

	size := &models.Size{ID: uuid.New(), StoreID: store.ID, Name: "Large", Value: "L"}
	require.NoError(t, tx.Create(size).Error)

	color := &models.Color{ID: uuid.New(), StoreID: store.ID, Name: "Red", Value: "#ff0000"}
	require.NoError(t, tx.Create(color).Error)

	return catalogFixture{store: store, category: category, size: size, color: color}
}

func buildProduct(fx catalogFixture, name string, createdAt time.Time) *models.Product {
	return &models.Product{
		StoreID:    fx.store.ID,
		CategoryID: fx.category.ID,
		SizeID:     fx.size.ID,
		ColorID:    fx.color.ID,
		Name:       name,
		Price:      decimal.NewFromFloat(49.90),
		CreatedAt:  createdAt,
	}
}

func TestRepositoryProductFlow(t *testing.T) {
	conn := setupProductsTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	fx := mustInsertCatalog(t, tx)

	product := buildProduct(fx, "Tee", time.Now())
	product.Images = []models.ProductImage{
		{URL: "https://cdn.example.com/tee-front.jpg", Position: 0},
		{URL: "https://cdn.example.com/tee-back.jpg", Position: 1},
	}

	created, err := repo.Create(ctx, product)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByID(ctx, fx.store.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tee", found.Name)
	require.Len(t, found.Images, 2)
	assert.Equal(t, "https://cdn.example.com/tee-front.jpg", found.Images[0].URL)
	require.NotNil(t, found.Category)
	assert.Equal(t, "Shirts", found.Category.Name)
	require.NotNil(t, found.Size)
	require.NotNil(t, found.Color)
	assert.True(t, found.Price.Equal(decimal.NewFromFloat(49.90)))

	_, err = repo.FindByID(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.ReplaceImages(ctx, created.ID, []models.ProductImage{
		{URL: "https://cdn.example.com/tee-new.jpg", Position: 0},
	}))
	found, err = repo.FindByID(ctx, fx.store.ID, created.ID)
	require.NoError(t, err)
	require.Len(t, found.Images, 1)
	assert.Equal(t, "https://cdn.example.com/tee-new.jpg", found.Images[0].URL)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, fx.store.ID, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var orphanImages int64
	require.NoError(t, tx.Model(&models.ProductImage{}).Where("product_id = ?", created.ID).Count(&orphanImages).Error)
	assert.Zero(t, orphanImages)
}

func TestRepositoryListFiltersAndPaginates(t *testing.T) {
	conn := setupProductsTestDB(t)
	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	fx := mustInsertCatalog(t, tx)

	base := time.Now().Add(-time.Hour)
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		p := buildProduct(fx, "Item", base.Add(time.Duration(i)*time.Minute))
		if i == 4 {
			p.IsFeatured = true
		}
		created, err := repo.Create(ctx, p)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	t.Run("featured filter", func(t *testing.T) {
		featured := true
		rows, err := repo.List(ctx, fx.store.ID, ListInput{Filters: ListFilters{IsFeatured: &featured}})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, ids[4], rows[0].ID)
	})

	t.Run("category filter", func(t *testing.T) {
		other := uuid.New()
		rows, err := repo.List(ctx, fx.store.ID, ListInput{Filters: ListFilters{CategoryID: &other}})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("cursor pagination walks newest first", func(t *testing.T) {
		firstPage, err := repo.List(ctx, fx.store.ID, ListInput{Pagination: pagination.Params{Limit: 2}})
		require.NoError(t, err)
		// limit+1 buffer row signals another page
		require.Len(t, firstPage, 3)
		assert.Equal(t, ids[4], firstPage[0].ID)
		assert.Equal(t, ids[3], firstPage[1].ID)

		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: firstPage[1].CreatedAt, ID: firstPage[1].ID})
		secondPage, err := repo.List(ctx, fx.store.ID, ListInput{Pagination: pagination.Params{Limit: 2, Cursor: cursor}})
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(secondPage), 2)
		assert.Equal(t, ids[2], secondPage[0].ID)
		assert.Equal(t, ids[1], secondPage[1].ID)
	})
}
