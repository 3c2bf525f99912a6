package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ojvaldez/storefront-admin-backend/pkg/db/models"
	pkgerrors "github.com/ojvaldez/storefront-admin-backend/pkg/errors"
)

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*models.Category
	billboards map[uuid.UUID]uuid.UUID // billboardID -> storeID
	products   map[uuid.UUID]int64     // categoryID -> product count
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		categories: map[uuid.UUID]*models.Category{},
		billboards: map[uuid.UUID]uuid.UUID{},
		products:   map[uuid.UUID]int64{},
	}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	f.categories[c.ID] = &cp
	return c, nil
}

func (f *fakeCategoryRepo) FindByID(_ context.Context, storeID, id uuid.UUID) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok || c.StoreID != storeID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	cp.Billboard = &models.Billboard{ID: c.BillboardID, Label: "label-" + c.BillboardID.String()[:8]}
	return &cp, nil
}

func (f *fakeCategoryRepo) ListByStore(_ context.Context, storeID uuid.UUID) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		if c.StoreID == storeID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, c *models.Category) error {
	cp := *c
	cp.Billboard = nil
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryRepo) BillboardExists(_ context.Context, storeID, billboardID uuid.UUID) (bool, error) {
	owner, ok := f.billboards[billboardID]
	return ok && owner == storeID, nil
}

func (f *fakeCategoryRepo) CountProducts(_ context.Context, id uuid.UUID) (int64, error) {
	return f.products[id], nil
}

type fakeGuard struct {
	stores map[uuid.UUID]uuid.UUID
}

func (f *fakeGuard) EnsureOwnership(_ context.Context, userID, storeID uuid.UUID) (*models.Store, error) {
	owner, ok := f.stores[storeID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	if owner != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another user")
	}
	return &models.Store{ID: storeID, OwnerID: owner}, nil
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

type fix struct {
	svc         Service
	repo        *fakeCategoryRepo
	userID      uuid.UUID
	storeID     uuid.UUID
	billboardID uuid.UUID
}

func fixture(t *testing.T) fix {
	t.Helper()
	repo := newFakeCategoryRepo()
	userID := uuid.New()
	storeID := uuid.New()
	billboardID := uuid.New()
	repo.billboards[billboardID] = storeID
	svc, err := NewService(repo, &fakeGuard{stores: map[uuid.UUID]uuid.UUID{storeID: userID}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return fix{svc: svc, repo: repo, userID: userID, storeID: storeID, billboardID: billboardID}
}

func TestCreateValidatesInput(t *testing.T) {
	f := fixture(t)

	t.Run("name required", func(t *testing.T) {
		_, err := f.svc.Create(context.Background(), f.userID, f.storeID, CategoryInput{
			Name: " ", BillboardID: f.billboardID,
		})
		expectCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("billboard required", func(t *testing.T) {
		_, err := f.svc.Create(context.Background(), f.userID, f.storeID, CategoryInput{Name: "Shirts"})
		expectCode(t, err, pkgerrors.CodeValidation)
	})

	if len(f.repo.categories) != 0 {
		t.Fatalf("expected no writes, got %d", len(f.repo.categories))
	}
}

func TestCreateRejectsForeignBillboard(t *testing.T) {
	f := fixture(t)

	otherStoreBillboard := uuid.New()
	f.repo.billboards[otherStoreBillboard] = uuid.New()

	_, err := f.svc.Create(context.Background(), f.userID, f.storeID, CategoryInput{
		Name: "Shirts", BillboardID: otherStoreBillboard,
	})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.Create(context.Background(), f.userID, f.storeID, CategoryInput{
		Name: "Shirts", BillboardID: uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateAndGetIncludesBillboardLabel(t *testing.T) {
	f := fixture(t)

	created, err := f.svc.Create(context.Background(), f.userID, f.storeID, CategoryInput{
		Name: "Shirts", BillboardID: f.billboardID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := f.svc.Get(context.Background(), f.userID, f.storeID, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Shirts" || got.BillboardID != f.billboardID {
		t.Fatalf("unexpected category: %+v", got)
	}
	if got.BillboardLabel == nil {
		t.Fatal("expected billboard label to be embedded")
	}
}

func TestUpdateRepointsBillboard(t *testing.T) {
	f := fixture(t)

	second := uuid.New()
	f.repo.billboards[second] = f.storeID

	created, err := f.svc.Create(context.Background(), f.userID, f.storeID, CategoryInput{
		Name: "Shirts", BillboardID: f.billboardID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := f.svc.Update(context.Background(), f.userID, f.storeID, created.ID, CategoryInput{
		Name: "Tops", BillboardID: second,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Tops" || updated.BillboardID != second {
		t.Fatalf("unexpected category after update: %+v", updated)
	}
}

func TestDeleteBlockedByProducts(t *testing.T) {
	f := fixture(t)

	created, err := f.svc.Create(context.Background(), f.userID, f.storeID, CategoryInput{
		Name: "Shirts", BillboardID: f.billboardID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.repo.products[created.ID] = 5

	_, err = f.svc.Delete(context.Background(), f.userID, f.storeID, created.ID)
	expectCode(t, err, pkgerrors.CodeConflict)
	if _, ok := f.repo.categories[created.ID]; !ok {
		t.Fatal("category should survive a blocked delete")
	}
}

func TestDeleteReturnsEntity(t *testing.T) {
	f := fixture(t)

	created, err := f.svc.Create(context.Background(), f.userID, f.storeID, CategoryInput{
		Name: "Shirts", BillboardID: f.billboardID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := f.svc.Delete(context.Background(), f.userID, f.storeID, created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.Name != "Shirts" {
		t.Fatalf("expected prior entity back, got %+v", deleted)
	}

	_, err = f.svc.Get(context.Background(), f.userID, f.storeID, created.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestOwnershipGuards(t *testing.T) {
	f := fixture(t)

	t.Run("intruder gets forbidden", func(t *testing.T) {
		_, err := f.svc.List(context.Background(), uuid.New(), f.storeID)
		expectCode(t, err, pkgerrors.CodeForbidden)
	})

	t.Run("unknown store gets not found", func(t *testing.T) {
		_, err := f.svc.List(context.Background(), f.userID, uuid.New())
		expectCode(t, err, pkgerrors.CodeNotFound)
	})
}
