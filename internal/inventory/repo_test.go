package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.FlavorInventory{}); err != nil {
		t.Fatalf("migrate inventory: %v", err)
	}
	return db
}

func seedRow(t *testing.T, db *gorm.DB, flavorID string, onHand, reserved, safetyStock int) {
	t.Helper()
	row := models.FlavorInventory{
		FlavorID:    flavorID,
		OnHand:      onHand,
		Reserved:    reserved,
		SafetyStock: safetyStock,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
}

func loadRow(t *testing.T, db *gorm.DB, flavorID string) models.FlavorInventory {
	t.Helper()
	var row models.FlavorInventory
	if err := db.First(&row, "flavor_id = ?", flavorID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	return row
}

func TestReserveRespectsSafetyStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db, nil, nil)
	seedRow(t, db, "red_twist", 120, 0, 5)

	if err := repo.Reserve(ctx, "red_twist", 115); err != nil {
		t.Fatalf("reserve up to safety boundary: %v", err)
	}

	err := repo.Reserve(ctx, "red_twist", 1)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	row := loadRow(t, db, "red_twist")
	if row.OnHand != 120 || row.Reserved != 115 {
		t.Fatalf("unexpected ledger state: %+v", row)
	}
}

func TestReserveMissingRow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db, nil, nil)

	err := repo.Reserve(context.Background(), "unknown", 1)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock for missing row, got %v", err)
	}
}

func TestReleaseReturnsUnits(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db, nil, nil)
	seedRow(t, db, "cherry", 50, 20, 5)

	clamped, err := repo.Release(ctx, "cherry", 15)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if clamped {
		t.Fatal("release within reserved should not clamp")
	}

	row := loadRow(t, db, "cherry")
	if row.Reserved != 5 {
		t.Fatalf("expected reserved 5, got %d", row.Reserved)
	}
}

func TestReleaseClampsAtZero(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db, nil, nil)
	seedRow(t, db, "watermelon", 50, 3, 5)

	clamped, err := repo.Release(ctx, "watermelon", 10)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if !clamped {
		t.Fatal("expected clamp when releasing more than reserved")
	}

	row := loadRow(t, db, "watermelon")
	if row.Reserved != 0 {
		t.Fatalf("expected reserved clamped to 0, got %d", row.Reserved)
	}
}

func TestReleaseMissingRow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db, nil, nil)

	_, err := repo.Release(context.Background(), "unknown", 1)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestConsumeSettlesReservation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db, nil, nil)
	seedRow(t, db, "cotton_candy", 30, 10, 2)

	if err := repo.Consume(ctx, "cotton_candy", 10); err != nil {
		t.Fatalf("consume: %v", err)
	}

	row := loadRow(t, db, "cotton_candy")
	if row.OnHand != 20 || row.Reserved != 0 {
		t.Fatalf("unexpected ledger state after consume: %+v", row)
	}

	if err := repo.Consume(ctx, "cotton_candy", 1); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock without reservation, got %v", err)
	}
}

func TestAdjustOnHand(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db, nil, nil)
	seedRow(t, db, "green_apple", 10, 0, 0)

	if err := repo.AdjustOnHand(ctx, "green_apple", 40); err != nil {
		t.Fatalf("restock: %v", err)
	}
	if row := loadRow(t, db, "green_apple"); row.OnHand != 50 {
		t.Fatalf("expected on_hand 50, got %d", row.OnHand)
	}

	if err := repo.AdjustOnHand(ctx, "green_apple", -60); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected rejection for negative on_hand, got %v", err)
	}
}

func TestSetLevelsUpsertsRow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db, nil, nil)

	row, err := repo.SetLevels(ctx, "strawberry_banana", 80, 5)
	if err != nil {
		t.Fatalf("insert levels: %v", err)
	}
	if row.OnHand != 80 || row.SafetyStock != 5 || row.Reserved != 0 {
		t.Fatalf("unexpected inserted row: %+v", row)
	}

	if err := repo.Reserve(ctx, "strawberry_banana", 10); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	row, err = repo.SetLevels(ctx, "strawberry_banana", 100, 8)
	if err != nil {
		t.Fatalf("update levels: %v", err)
	}
	if row.OnHand != 100 || row.SafetyStock != 8 {
		t.Fatalf("unexpected updated row: %+v", row)
	}
	if row.Reserved != 10 {
		t.Fatalf("expected reserved untouched, got %d", row.Reserved)
	}
}
