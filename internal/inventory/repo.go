package inventory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
	"github.com/metaxoft5/Nathan-Backend/pkg/metrics"
)

// ErrInsufficientStock reports a reservation or consumption that the
// ledger row could not cover. Callers re-read the row to build the
// user-facing message.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository owns the flavor inventory ledger. Every mutation is a
// single conditional UPDATE, so concurrent reservations against the
// same flavor serialize on the row without explicit locking.
type Repository struct {
	db      *gorm.DB
	metrics *metrics.InventoryMetrics
	logg    *logger.Logger
}

// NewRepository constructs a ledger repository bound to the provided DB.
func NewRepository(db *gorm.DB, m *metrics.InventoryMetrics, logg *logger.Logger) *Repository {
	return &Repository{db: db, metrics: m, logg: logg}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx, metrics: r.metrics, logg: r.logg}
}

// Get loads the ledger row for a flavor.
func (r *Repository) Get(ctx context.Context, flavorID string) (*models.FlavorInventory, error) {
	var row models.FlavorInventory
	if err := r.db.WithContext(ctx).Where("flavor_id = ?", flavorID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all ledger rows ordered by flavor id.
func (r *Repository) List(ctx context.Context) ([]models.FlavorInventory, error) {
	var rows []models.FlavorInventory
	if err := r.db.WithContext(ctx).Order("flavor_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Reserve moves amount units from purchasable stock into reserved.
// The guard subtracts safety stock, so the last safety_stock units can
// never be reserved. Returns ErrInsufficientStock when the row cannot
// cover the amount (or does not exist).
func (r *Repository) Reserve(ctx context.Context, flavorID string, amount int) error {
	if amount <= 0 {
		return errors.New("reserve amount must be positive")
	}
	r.metrics.IncReserveAttempt(flavorID)

	res := r.db.WithContext(ctx).
		Model(&models.FlavorInventory{}).
		Where("flavor_id = ? AND on_hand - reserved - safety_stock >= ?", flavorID, amount).
		UpdateColumn("reserved", gorm.Expr("reserved + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		r.metrics.IncReserveRejected(flavorID)
		return ErrInsufficientStock
	}
	return nil
}

// Release returns amount reserved units to purchasable stock. When the
// decrement would push reserved below zero the row is clamped to zero
// instead; the clamp is surfaced through metrics and a warn log because
// it means reserve/release accounting has drifted.
func (r *Repository) Release(ctx context.Context, flavorID string, amount int) (clamped bool, err error) {
	if amount <= 0 {
		return false, errors.New("release amount must be positive")
	}

	res := r.db.WithContext(ctx).
		Model(&models.FlavorInventory{}).
		Where("flavor_id = ? AND reserved >= ?", flavorID, amount).
		UpdateColumn("reserved", gorm.Expr("reserved - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	clampRes := r.db.WithContext(ctx).
		Model(&models.FlavorInventory{}).
		Where("flavor_id = ?", flavorID).
		UpdateColumn("reserved", 0)
	if clampRes.Error != nil {
		return false, clampRes.Error
	}
	if clampRes.RowsAffected == 0 {
		return false, gorm.ErrRecordNotFound
	}

	r.metrics.IncReleaseClamped(flavorID)
	if r.logg != nil {
		logCtx := r.logg.WithFields(ctx, map[string]any{
			"flavor_id": flavorID,
			"amount":    amount,
		})
		r.logg.Warn(logCtx, "inventory.release_clamped")
	}
	return true, nil
}

// Consume settles a reservation at checkout: on_hand drops by amount
// and the matching reserved units are freed in the same statement.
func (r *Repository) Consume(ctx context.Context, flavorID string, amount int) error {
	if amount <= 0 {
		return errors.New("consume amount must be positive")
	}

	res := r.db.WithContext(ctx).
		Model(&models.FlavorInventory{}).
		Where("flavor_id = ? AND on_hand >= ? AND reserved >= ?", flavorID, amount, amount).
		UpdateColumns(map[string]any{
			"on_hand":  gorm.Expr("on_hand - ?", amount),
			"reserved": gorm.Expr("reserved - ?", amount),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// AdjustOnHand applies a restock delta. Negative deltas are rejected
// when they would drive on_hand below zero.
func (r *Repository) AdjustOnHand(ctx context.Context, flavorID string, delta int) error {
	if delta == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.FlavorInventory{}).
		Where("flavor_id = ? AND on_hand + ? >= 0", flavorID, delta).
		UpdateColumn("on_hand", gorm.Expr("on_hand + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// SetLevels upserts absolute on_hand and safety_stock values for a
// flavor, leaving reserved untouched.
func (r *Repository) SetLevels(ctx context.Context, flavorID string, onHand, safetyStock int) (*models.FlavorInventory, error) {
	if onHand < 0 || safetyStock < 0 {
		return nil, errors.New("inventory levels must be non-negative")
	}

	res := r.db.WithContext(ctx).
		Model(&models.FlavorInventory{}).
		Where("flavor_id = ?", flavorID).
		UpdateColumns(map[string]any{
			"on_hand":      onHand,
			"safety_stock": safetyStock,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		row := &models.FlavorInventory{
			FlavorID:    flavorID,
			OnHand:      onHand,
			SafetyStock: safetyStock,
		}
		if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
			return nil, err
		}
		return row, nil
	}
	return r.Get(ctx, flavorID)
}
