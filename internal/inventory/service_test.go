package inventory

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
)

type stubFlavorLoader struct {
	flavors []models.Flavor
}

func (s *stubFlavorLoader) List(_ context.Context, _ bool) ([]models.Flavor, error) {
	return s.flavors, nil
}

func (s *stubFlavorLoader) FindByID(_ context.Context, id string) (*models.Flavor, error) {
	for i := range s.flavors {
		if s.flavors[i].ID == id {
			return &s.flavors[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type dbTxRunner struct {
	db *gorm.DB
}

func (r dbTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func newTestService(t *testing.T, db *gorm.DB, flavorList []models.Flavor) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db, nil, nil), &stubFlavorLoader{flavors: flavorList}, dbTxRunner{db: db})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceGetDerivesAvailability(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	seedRow(t, db, "red_twist", 120, 10, 5)
	svc := newTestService(t, db, []models.Flavor{{ID: "red_twist", Name: "Red Twist"}})

	entry, err := svc.Get(context.Background(), "red_twist")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.FlavorName != "Red Twist" {
		t.Fatalf("expected flavor name, got %q", entry.FlavorName)
	}
	if entry.Available != 110 || entry.AvailableAfterSafety != 105 {
		t.Fatalf("unexpected availability: %+v", entry)
	}
}

func TestServiceGetMissingLedgerRowIsZero(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, []models.Flavor{{ID: "cherry", Name: "Cherry"}})

	entry, err := svc.Get(context.Background(), "cherry")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.OnHand != 0 || entry.Available != 0 || entry.AvailableAfterSafety != 0 {
		t.Fatalf("expected zero entry, got %+v", entry)
	}
}

func TestServiceGetUnknownFlavor(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, nil)

	_, err := svc.Get(context.Background(), "nope")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceBulkSetLevels(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	flavorList := []models.Flavor{
		{ID: "cherry", Name: "Cherry"},
		{ID: "watermelon", Name: "Watermelon"},
	}
	svc := newTestService(t, db, flavorList)

	entries, err := svc.BulkSetLevels(context.Background(), []SetLevelsInput{
		{FlavorID: "cherry", OnHand: 90, SafetyStock: 5},
		{FlavorID: "watermelon", OnHand: 70, SafetyStock: 3},
	})
	if err != nil {
		t.Fatalf("bulk set: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].AvailableAfterSafety != 85 {
		t.Fatalf("unexpected cherry availability: %+v", entries[0])
	}
}

func TestServiceBulkSetLevelsRejectsUnknownFlavor(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, []models.Flavor{{ID: "cherry", Name: "Cherry"}})

	_, err := svc.BulkSetLevels(context.Background(), []SetLevelsInput{
		{FlavorID: "cherry", OnHand: 10, SafetyStock: 1},
		{FlavorID: "mystery", OnHand: 10, SafetyStock: 1},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	var count int64
	if err := db.Model(&models.FlavorInventory{}).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected validation before any write, found %d rows", count)
	}
}

func TestServiceLowStockAlerts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	flavorList := []models.Flavor{
		{ID: "cherry", Name: "Cherry"},
		{ID: "watermelon", Name: "Watermelon"},
		{ID: "red_twist", Name: "Red Twist"},
	}
	seedRow(t, db, "cherry", 5, 0, 5)     // after safety: 0 -> out of stock
	seedRow(t, db, "watermelon", 12, 0, 5) // after safety: 7 -> low stock at threshold 10
	seedRow(t, db, "red_twist", 120, 0, 5) // healthy
	svc := newTestService(t, db, flavorList)

	alerts, err := svc.LowStockAlerts(context.Background(), 10)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d: %+v", len(alerts), alerts)
	}

	bySeverity := map[string]string{}
	for _, alert := range alerts {
		bySeverity[alert.FlavorID] = alert.Severity
	}
	if bySeverity["cherry"] != SeverityOutOfStock {
		t.Fatalf("expected cherry out of stock, got %s", bySeverity["cherry"])
	}
	if bySeverity["watermelon"] != SeverityLowStock {
		t.Fatalf("expected watermelon low stock, got %s", bySeverity["watermelon"])
	}
}
