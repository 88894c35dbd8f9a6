// Package orders materializes carts into orders. Checkout is the only
// place reserved stock is consumed; everything after it is immutable
// history plus admin status transitions.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/metaxoft5/Nathan-Backend/internal/inventory"
	"github.com/metaxoft5/Nathan-Backend/internal/packcart"
	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	"github.com/metaxoft5/Nathan-Backend/pkg/enums"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
	"github.com/metaxoft5/Nathan-Backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UpdateStatusInput carries optional admin status transitions. Nil
// fields stay untouched.
type UpdateStatusInput struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}

// Page is one cursor page of a user's order history.
type Page struct {
	Orders     []models.Order
	NextCursor string
}

// Service materializes carts into orders and serves order history.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*models.Order, error)
}

type service struct {
	orders  *Repository
	lines   *packcart.LineRepository
	invRepo *inventory.Repository
	tx      txRunner
	logg    *logger.Logger
}

// NewService builds the order service.
func NewService(orders *Repository, lines *packcart.LineRepository, invRepo *inventory.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if lines == nil {
		return nil, fmt.Errorf("cart line store required")
	}
	if invRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{orders: orders, lines: lines, invRepo: invRepo, tx: tx, logg: logg}, nil
}

// Checkout converts the user's cart into an order in one transaction:
// every reserved unit is consumed from on-hand stock, the order and its
// items are written, and the cart lines are deleted. Any failure rolls
// the whole thing back and the cart keeps its reservations.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	lines, err := s.lines.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invRepo := s.invRepo.WithTx(tx)
		lineRepo := s.lines.WithTx(tx)

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			if err := s.consumeLine(ctx, invRepo, line); err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				RecipeID:  line.RecipeID,
				SKU:       line.SKU,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: line.LineTotal(),
			})
			subtotal = subtotal.Add(line.LineTotal())
		}

		created, createErr := s.orders.WithTx(tx).Create(ctx, &models.Order{
			UserID:        userID,
			Status:        enums.OrderStatusPending,
			PaymentStatus: enums.PaymentStatusUnpaid,
			Subtotal:      subtotal,
			Total:         subtotal,
			Items:         items,
		})
		if createErr != nil {
			return createErr
		}

		for _, line := range lines {
			if err := lineRepo.Delete(ctx, line.ID); err != nil {
				return err
			}
		}

		order = created
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"lines":    len(lines),
		})
		s.logg.Info(logCtx, "orders.checkout_completed")
	}
	return order, nil
}

// consumeLine settles one cart line's reservations. A shortfall here
// means the ledger drifted from the cart, so it surfaces as a conflict
// rather than an internal error.
func (s *service) consumeLine(ctx context.Context, invRepo *inventory.Repository, line models.CartLine) error {
	if line.Recipe == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "cart line has no recipe").
			WithDetails(map[string]any{"line_id": line.ID.String()})
	}
	for _, item := range line.Recipe.Items {
		amount := item.Quantity * line.Quantity
		if err := invRepo.Consume(ctx, item.FlavorID, amount); err != nil {
			if errors.Is(err, inventory.ErrInsufficientStock) {
				name := item.FlavorID
				if item.Flavor != nil {
					name = item.Flavor.Name
				}
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("insufficient stock for %s", name)).
					WithDetails(map[string]any{"flavor": name, "required": amount})
			}
			return err
		}
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error) {
	rows, nextCursor, err := s.orders.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return &Page{Orders: rows, NextCursor: nextCursor}, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*models.Order, error) {
	updates := map[string]any{}
	if input.Status != nil {
		status, err := enums.ParseOrderStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
				WithDetails(map[string]any{"status": *input.Status})
		}
		updates["status"] = status
	}
	if input.PaymentStatus != nil {
		status, err := enums.ParsePaymentStatus(*input.PaymentStatus)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status").
				WithDetails(map[string]any{"payment_status": *input.PaymentStatus})
		}
		updates["payment_status"] = status
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no status fields provided")
	}

	if err := s.orders.UpdateStatus(ctx, orderID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	return s.orders.FindByID(ctx, orderID)
}
