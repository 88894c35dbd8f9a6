package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	"github.com/metaxoft5/Nathan-Backend/pkg/enums"
	"github.com/metaxoft5/Nathan-Backend/pkg/pagination"
)

func newOrder(userID uuid.UUID, createdAt time.Time, items ...models.OrderItem) *models.Order {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	return &models.Order{
		UserID:        userID,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusUnpaid,
		Subtotal:      subtotal,
		Total:         subtotal,
		Items:         items,
		CreatedAt:     createdAt,
	}
}

func newOrderItem(qty int) models.OrderItem {
	unit := decimal.RequireFromString("27.00")
	return models.OrderItem{
		ProductID: models.ThreePackProductID,
		RecipeID:  "red-twist-trio",
		SKU:       "3P-TRD-REDx3",
		Quantity:  qty,
		UnitPrice: unit,
		LineTotal: unit.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestRepositoryCreateLinksItems(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	created, err := repo.Create(ctx, newOrder(userID, time.Now(), newOrderItem(2), newOrderItem(1)))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	loaded, err := repo.FindByIDAndUser(ctx, created.ID, userID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	for _, item := range loaded.Items {
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, created.ID, item.OrderID)
	}
	assert.True(t, loaded.Subtotal.Equal(decimal.RequireFromString("81.00")))
}

func TestRepositoryFindScopesToOwner(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	created, err := repo.Create(ctx, newOrder(owner, time.Now(), newOrderItem(1)))
	require.NoError(t, err)

	_, err = repo.FindByIDAndUser(ctx, created.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	admin, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, owner, admin.UserID)
	assert.Len(t, admin.Items, 1)
}

func TestRepositoryListByUserCursorWalk(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		created, err := repo.Create(ctx, newOrder(userID, base.Add(time.Duration(i)*time.Minute), newOrderItem(1)))
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	// A stranger's order must never leak into the page.
	_, err := repo.Create(ctx, newOrder(uuid.New(), base.Add(time.Hour), newOrderItem(1)))
	require.NoError(t, err)

	first, cursor, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotEmpty(t, cursor)
	assert.Equal(t, ids[4], first[0].ID)
	assert.Equal(t, ids[2], first[2].ID)

	second, cursor, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 3, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Empty(t, cursor)
	assert.Equal(t, ids[1], second[0].ID)
	assert.Equal(t, ids[0], second[1].ID)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	created, err := repo.Create(ctx, newOrder(userID, time.Now(), newOrderItem(1)))
	require.NoError(t, err)

	err = repo.UpdateStatus(ctx, created.ID, map[string]any{
		"status":         enums.OrderStatusShipped,
		"payment_status": enums.PaymentStatusPaid,
	})
	require.NoError(t, err)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, loaded.Status)
	assert.Equal(t, enums.PaymentStatusPaid, loaded.PaymentStatus)

	err = repo.UpdateStatus(ctx, uuid.New(), map[string]any{"status": enums.OrderStatusShipped})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
