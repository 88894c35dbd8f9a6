package recipes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	"github.com/metaxoft5/Nathan-Backend/pkg/enums"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
)

type dbTxRunner struct {
	db *gorm.DB
}

func (r dbTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

type dbFlavorLoader struct {
	db *gorm.DB
}

func (l dbFlavorLoader) FindByID(ctx context.Context, id string) (*models.Flavor, error) {
	var flavor models.Flavor
	if err := l.db.WithContext(ctx).Where("id = ?", id).First(&flavor).Error; err != nil {
		return nil, err
	}
	return &flavor, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:recipes_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Flavor{},
		&models.PackRecipe{},
		&models.PackRecipeItem{},
		&models.CartLine{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedFlavors(t *testing.T, db *gorm.DB) {
	t.Helper()
	flavors := []models.Flavor{
		{ID: "watermelon", Name: "Watermelon", Aliases: []string{}, Active: true},
		{ID: "cherry", Name: "Cherry", Aliases: []string{}, Active: true},
		{ID: "berry_delight", Name: "Berry Delight", Aliases: []string{}, Active: true},
		{ID: "retired", Name: "Retired", Aliases: []string{}, Active: false},
	}
	if err := db.Create(&flavors).Error; err != nil {
		t.Fatalf("seed flavors: %v", err)
	}
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), dbFlavorLoader{db: db}, dbTxRunner{db: db})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func sourTrioInput() CreateInput {
	return CreateInput{
		ID:    "sour-trio",
		Title: "Sour Trio",
		Kind:  "Sour",
		Items: []ItemInput{
			{FlavorID: "watermelon", Quantity: 1},
			{FlavorID: "cherry", Quantity: 1},
			{FlavorID: "berry_delight", Quantity: 1},
		},
	}
}

func TestCreateRecipe(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	seedFlavors(t, db)
	svc := newTestService(t, db)

	recipe, err := svc.Create(context.Background(), sourTrioInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if recipe.Kind != enums.RecipeKindSour {
		t.Fatalf("unexpected kind %s", recipe.Kind)
	}
	if len(recipe.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(recipe.Items))
	}
	if recipe.Items[0].FlavorID != "watermelon" || recipe.Items[0].Position != 0 {
		t.Fatalf("expected stored order preserved, got %+v", recipe.Items[0])
	}
	if recipe.Items[1].Flavor == nil || recipe.Items[1].Flavor.Name != "Cherry" {
		t.Fatalf("expected flavor preloaded, got %+v", recipe.Items[1])
	}
	if recipe.TotalUnits() != PackSize {
		t.Fatalf("expected pack of %d, got %d", PackSize, recipe.TotalUnits())
	}
}

func TestCreateRecipeRejectsWrongTotal(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	seedFlavors(t, db)
	svc := newTestService(t, db)

	input := sourTrioInput()
	input.Items[0].Quantity = 2

	_, err := svc.Create(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRecipeRejectsInactiveFlavor(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	seedFlavors(t, db)
	svc := newTestService(t, db)

	input := sourTrioInput()
	input.Items[2] = ItemInput{FlavorID: "retired", Quantity: 1}

	_, err := svc.Create(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRecipeRejectsDuplicateFlavor(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	seedFlavors(t, db)
	svc := newTestService(t, db)

	input := CreateInput{
		ID:    "doubled",
		Title: "Doubled",
		Kind:  "Sweet",
		Items: []ItemInput{
			{FlavorID: "cherry", Quantity: 2},
			{FlavorID: "cherry", Quantity: 1},
		},
	}

	_, err := svc.Create(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateRecipeReplacesItems(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	seedFlavors(t, db)
	svc := newTestService(t, db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, sourTrioInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	newItems := []ItemInput{
		{FlavorID: "cherry", Quantity: 2},
		{FlavorID: "watermelon", Quantity: 1},
	}
	title := "Cherry Heavy"
	updated, err := svc.Update(ctx, "sour-trio", UpdateInput{Title: &title, Items: &newItems})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Cherry Heavy" {
		t.Fatalf("unexpected title %s", updated.Title)
	}
	if len(updated.Items) != 2 || updated.Items[0].FlavorID != "cherry" || updated.Items[0].Quantity != 2 {
		t.Fatalf("expected replaced items, got %+v", updated.Items)
	}
}

func TestUpdateItemsGuardedByCartLines(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	seedFlavors(t, db)
	svc := newTestService(t, db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, sourTrioInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	line := models.CartLine{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProductID: models.ThreePackProductID,
		RecipeID:  "sour-trio",
		Quantity:  2,
		SKU:       "3P-SOR-WAT-CHE-BERDEL",
	}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("seed cart line: %v", err)
	}

	// Swapping the line-up while a reservation is open would release
	// the new flavors instead of the ones actually reserved.
	newItems := []ItemInput{
		{FlavorID: "cherry", Quantity: 3},
	}
	_, err := svc.Update(ctx, "sour-trio", UpdateInput{Items: &newItems})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	stored, err := svc.Get(ctx, "sour-trio")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Items) != 3 {
		t.Fatalf("items must be untouched, got %d", len(stored.Items))
	}

	// Metadata edits stay allowed while the guard holds.
	title := "Sour Trio Classic"
	updated, err := svc.Update(ctx, "sour-trio", UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("title update: %v", err)
	}
	if updated.Title != "Sour Trio Classic" {
		t.Fatalf("unexpected title %s", updated.Title)
	}

	if err := db.Delete(&line).Error; err != nil {
		t.Fatalf("remove cart line: %v", err)
	}
	if _, err := svc.Update(ctx, "sour-trio", UpdateInput{Items: &newItems}); err != nil {
		t.Fatalf("update after guard cleared: %v", err)
	}
}

func TestDeleteRecipeGuardedByCartLines(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	seedFlavors(t, db)
	svc := newTestService(t, db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, sourTrioInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	line := models.CartLine{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProductID: models.ThreePackProductID,
		RecipeID:  "sour-trio",
		Quantity:  1,
		SKU:       "3P-SOR-WAT-CHE-BERDEL",
	}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("seed cart line: %v", err)
	}

	err := svc.Delete(ctx, "sour-trio")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	if err := db.Delete(&line).Error; err != nil {
		t.Fatalf("remove cart line: %v", err)
	}
	if err := svc.Delete(ctx, "sour-trio"); err != nil {
		t.Fatalf("delete after guard cleared: %v", err)
	}
	if _, err := svc.Get(ctx, "sour-trio"); pkgerrors.As(err) == nil {
		t.Fatal("expected not found after delete")
	}
}
