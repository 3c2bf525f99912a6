package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
	"github.com/ojvaldez/storefront-admin-backend/pkg/pagination"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]*models.Product{}}
}

func (f *fakeProductRepo) WithTx(_ *gorm.DB) productRepository { return f }

func (f *fakeProductRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	cpy := *product
	f.products[product.ID] = &cpy
	return product, nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	p, ok := f.products[productID]
	if !ok || p.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *p
	return &cpy, nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *models.Product) error {
	stored := f.products[product.ID]
	images := stored.Images
	cpy := *product
	cpy.Images = images
	f.products[product.ID] = &cpy
	return nil
}

func (f *fakeProductRepo) ReplaceImages(_ context.Context, productID uuid.UUID, images []models.ProductImage) error {
	stored := f.products[productID]
	stored.Images = images
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, productID uuid.UUID) error {
	delete(f.products, productID)
	return nil
}

func (f *fakeProductRepo) List(_ context.Context, storeID uuid.UUID, input ListInput) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.StoreID != storeID {
			continue
		}
		if input.Filters.IsFeatured != nil && p.IsFeatured != *input.Filters.IsFeatured {
			continue
		}
		out = append(out, *p)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	limit := pagination.LimitWithBuffer(input.Pagination.Limit)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeGuard struct {
	owners map[uuid.UUID]uuid.UUID
}

func (g *fakeGuard) EnsureOwnership(_ context.Context, userID, storeID uuid.UUID) (*models.Store, error) {
	owner, ok := g.owners[storeID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	if owner != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another user")
	}
	return &models.Store{ID: storeID, OwnerID: owner}, nil
}

type fakeTx struct{}

func (fakeTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type fixture struct {
	svc     Service
	repo    *fakeProductRepo
	userID  uuid.UUID
	storeID uuid.UUID
	fields  CreateProductInput
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeProductRepo()
	userID := uuid.New()
	storeID := uuid.New()
	guard := &fakeGuard{owners: map[uuid.UUID]uuid.UUID{storeID: userID}}
	svc, err := NewService(repo, guard, fakeTx{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{
		svc:     svc,
		repo:    repo,
		userID:  userID,
		storeID: storeID,
		fields: CreateProductInput{
			Name:       "Tee",
			Price:      decimal.NewFromFloat(24.50),
			CategoryID: uuid.New(),
			SizeID:     uuid.New(),
			ColorID:    uuid.New(),
			ImageURLs:  []string{"https://cdn.example.com/tee.jpg"},
		},
	}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error with code %s, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s", code, typed.Code())
	}
}

func TestCreateProductValidation(t *testing.T) {
	fx := newFixture(t)

	cases := []struct {
		name   string
		mutate func(*CreateProductInput)
	}{
		{"empty name", func(in *CreateProductInput) { in.Name = " " }},
		{"negative price", func(in *CreateProductInput) { in.Price = decimal.NewFromInt(-1) }},
		{"missing category", func(in *CreateProductInput) { in.CategoryID = uuid.Nil }},
		{"no images", func(in *CreateProductInput) { in.ImageURLs = nil }},
		{"blank image url", func(in *CreateProductInput) { in.ImageURLs = []string{" "} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := fx.fields
			tc.mutate(&input)
			_, err := fx.svc.Create(context.Background(), fx.userID, fx.storeID, input)
			expectCode(t, err, pkgerrors.CodeValidation)
		})
	}
	if len(fx.repo.products) != 0 {
		t.Fatal("rejected creates must not write")
	}
}

func TestCreateProductKeepsCanonicalPrice(t *testing.T) {
	fx := newFixture(t)

	created, err := fx.svc.Create(context.Background(), fx.userID, fx.storeID, fx.fields)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.Price.Equal(decimal.NewFromFloat(24.50)) {
		t.Fatalf("expected price 24.50, got %s", created.Price)
	}
	if len(created.Images) != 1 || created.Images[0].Position != 0 {
		t.Fatalf("expected one image at position 0, got %+v", created.Images)
	}
}

func TestUpdateProductRequiresFlagPresence(t *testing.T) {
	fx := newFixture(t)
	created, err := fx.svc.Create(context.Background(), fx.userID, fx.storeID, fx.fields)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = fx.svc.Update(context.Background(), fx.userID, fx.storeID, created.ID, UpdateProductInput{
		Name:       "Tee v2",
		Price:      fx.fields.Price,
		CategoryID: fx.fields.CategoryID,
		SizeID:     fx.fields.SizeID,
		ColorID:    fx.fields.ColorID,
		ImageURLs:  fx.fields.ImageURLs,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateProductReplacesImages(t *testing.T) {
	fx := newFixture(t)
	created, err := fx.svc.Create(context.Background(), fx.userID, fx.storeID, fx.fields)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	off := false
	updated, err := fx.svc.Update(context.Background(), fx.userID, fx.storeID, created.ID, UpdateProductInput{
		Name:       "Tee v2",
		Price:      decimal.NewFromFloat(30),
		CategoryID: fx.fields.CategoryID,
		SizeID:     fx.fields.SizeID,
		ColorID:    fx.fields.ColorID,
		ImageURLs:  []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		IsFeatured: &off,
		IsArchived: &off,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Tee v2" {
		t.Fatalf("expected renamed product, got %q", updated.Name)
	}
	if len(updated.Images) != 2 || updated.Images[1].Position != 1 {
		t.Fatalf("expected replaced image set, got %+v", updated.Images)
	}
}

func TestDeleteProductReturnsDeletedEntity(t *testing.T) {
	fx := newFixture(t)
	created, err := fx.svc.Create(context.Background(), fx.userID, fx.storeID, fx.fields)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := fx.svc.Delete(context.Background(), fx.userID, fx.storeID, created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != created.ID {
		t.Fatalf("expected deleted entity %s, got %s", created.ID, deleted.ID)
	}

	_, err = fx.svc.Get(context.Background(), fx.userID, fx.storeID, created.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestListProductsPaging(t *testing.T) {
	fx := newFixture(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		input := fx.fields
		created, err := fx.svc.Create(context.Background(), fx.userID, fx.storeID, input)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		fx.repo.products[created.ID].CreatedAt = base.Add(time.Duration(i) * time.Minute)
	}

	page, err := fx.svc.List(context.Background(), fx.userID, fx.storeID, ListInput{
		Pagination: pagination.Params{Limit: 2},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor for remaining page")
	}
	if !page.Items[0].CreatedAt.After(page.Items[1].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}

	_, err = fx.svc.List(context.Background(), fx.userID, fx.storeID, ListInput{
		Pagination: pagination.Params{Cursor: "%%%not-base64%%%"},
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestProductOwnershipGuards(t *testing.T) {
	fx := newFixture(t)
	created, err := fx.svc.Create(context.Background(), fx.userID, fx.storeID, fx.fields)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = fx.svc.Get(context.Background(), uuid.New(), fx.storeID, created.ID)
	expectCode(t, err, pkgerrors.CodeForbidden)

	_, err = fx.svc.Get(context.Background(), fx.userID, uuid.New(), created.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)
}
