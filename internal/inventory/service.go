package inventory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
)

// Severity buckets for low-stock reporting.
const (
	SeverityOutOfStock = "out_of_stock"
	SeverityLowStock   = "low_stock"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type flavorLoader interface {
	List(ctx context.Context, activeOnly bool) ([]models.Flavor, error)
	FindByID(ctx context.Context, id string) (*models.Flavor, error)
}

// LedgerEntry is an inventory row joined with its flavor name and the
// derived availability figures.
type LedgerEntry struct {
	FlavorID             string `json:"flavor_id"`
	FlavorName           string `json:"flavor_name"`
	OnHand               int    `json:"on_hand"`
	Reserved             int    `json:"reserved"`
	SafetyStock          int    `json:"safety_stock"`
	Available            int    `json:"available"`
	AvailableAfterSafety int    `json:"available_after_safety"`
}

// Alert flags a flavor whose purchasable stock has run out or dropped
// under the configured threshold.
type Alert struct {
	LedgerEntry
	Severity string `json:"severity"`
}

// SetLevelsInput carries absolute restock values for one flavor.
type SetLevelsInput struct {
	FlavorID    string `json:"flavor_id" validate:"required"`
	OnHand      int    `json:"on_hand" validate:"min=0"`
	SafetyStock int    `json:"safety_stock" validate:"min=0"`
}

// Service exposes the admin inventory surface.
type Service interface {
	List(ctx context.Context) ([]LedgerEntry, error)
	Get(ctx context.Context, flavorID string) (*LedgerEntry, error)
	SetLevels(ctx context.Context, input SetLevelsInput) (*LedgerEntry, error)
	BulkSetLevels(ctx context.Context, inputs []SetLevelsInput) ([]LedgerEntry, error)
	LowStockAlerts(ctx context.Context, threshold int) ([]Alert, error)
}

type service struct {
	repo    *Repository
	flavors flavorLoader
	tx      txRunner
}

// NewService builds the admin inventory service.
func NewService(repo *Repository, flavors flavorLoader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if flavors == nil {
		return nil, fmt.Errorf("flavor loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, flavors: flavors, tx: tx}, nil
}

func (s *service) List(ctx context.Context) ([]LedgerEntry, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory")
	}
	names, err := s.flavorNames(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toEntry(row, names[row.FlavorID]))
	}
	return entries, nil
}

func (s *service) Get(ctx context.Context, flavorID string) (*LedgerEntry, error) {
	flavor, err := s.flavors.FindByID(ctx, flavorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "flavor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load flavor")
	}

	row, err := s.repo.Get(ctx, flavorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No ledger row yet means zero stock, not a missing flavor.
			entry := toEntry(models.FlavorInventory{FlavorID: flavorID}, flavor.Name)
			return &entry, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory")
	}

	entry := toEntry(*row, flavor.Name)
	return &entry, nil
}

func (s *service) SetLevels(ctx context.Context, input SetLevelsInput) (*LedgerEntry, error) {
	if input.OnHand < 0 || input.SafetyStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory levels must be non-negative")
	}
	flavor, err := s.flavors.FindByID(ctx, input.FlavorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "flavor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load flavor")
	}

	row, err := s.repo.SetLevels(ctx, input.FlavorID, input.OnHand, input.SafetyStock)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set inventory levels")
	}
	entry := toEntry(*row, flavor.Name)
	return &entry, nil
}

func (s *service) BulkSetLevels(ctx context.Context, inputs []SetLevelsInput) ([]LedgerEntry, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one inventory update is required")
	}

	names, err := s.flavorNames(ctx)
	if err != nil {
		return nil, err
	}
	for _, input := range inputs {
		if _, ok := names[input.FlavorID]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "flavor not found").
				WithDetails(map[string]any{"flavor_id": input.FlavorID})
		}
		if input.OnHand < 0 || input.SafetyStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory levels must be non-negative").
				WithDetails(map[string]any{"flavor_id": input.FlavorID})
		}
	}

	entries := make([]LedgerEntry, 0, len(inputs))
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, input := range inputs {
			row, err := repo.SetLevels(ctx, input.FlavorID, input.OnHand, input.SafetyStock)
			if err != nil {
				return err
			}
			entries = append(entries, toEntry(*row, names[input.FlavorID]))
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bulk set inventory levels")
	}
	return entries, nil
}

func (s *service) LowStockAlerts(ctx context.Context, threshold int) ([]Alert, error) {
	if threshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "threshold must be non-negative")
	}

	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0)
	for _, entry := range entries {
		switch {
		case entry.AvailableAfterSafety <= 0:
			alerts = append(alerts, Alert{LedgerEntry: entry, Severity: SeverityOutOfStock})
		case entry.AvailableAfterSafety < threshold:
			alerts = append(alerts, Alert{LedgerEntry: entry, Severity: SeverityLowStock})
		}
	}
	return alerts, nil
}

func (s *service) flavorNames(ctx context.Context) (map[string]string, error) {
	all, err := s.flavors.List(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list flavors")
	}
	names := make(map[string]string, len(all))
	for _, flavor := range all {
		names[flavor.ID] = flavor.Name
	}
	return names, nil
}

func toEntry(row models.FlavorInventory, name string) LedgerEntry {
	return LedgerEntry{
		FlavorID:             row.FlavorID,
		FlavorName:           name,
		OnHand:               row.OnHand,
		Reserved:             row.Reserved,
		SafetyStock:          row.SafetyStock,
		Available:            row.Available(),
		AvailableAfterSafety: row.AvailableAfterSafety(),
	}
}
