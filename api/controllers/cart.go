package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/metaxoft5/Nathan-Backend/api/middleware"
	"github.com/metaxoft5/Nathan-Backend/api/responses"
	"github.com/metaxoft5/Nathan-Backend/api/validators"
	cartsvc "github.com/metaxoft5/Nathan-Backend/internal/packcart"
	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
)

// CartAdd reserves stock for a 3-pack selection and adds it to the cart.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.Add(r.Context(), userID, cartsvc.AddInput{
			ProductID: payload.ProductID,
			RecipeID:  payload.RecipeID,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartLineResponse(line))
	}
}

// CartGet returns the user's cart with per-line and cart totals.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.GetCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// CartUpdateLine changes a line's quantity, reserving or releasing the
// difference.
func CartUpdateLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		var payload updateCartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.UpdateQuantity(r.Context(), userID, lineID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartLineResponse(line))
	}
}

// CartRemoveLine releases a line's reservations and deletes it.
func CartRemoveLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id"))
			return
		}

		if err := svc.Remove(r.Context(), userID, lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// CartClear empties the cart, releasing every reservation it held.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cleared, err := svc.Clear(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "cleared", "lines": cleared})
	}
}

type addCartLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	RecipeID  string `json:"recipe_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type updateCartLineRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type cartLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID string          `json:"product_id"`
	RecipeID  string          `json:"recipe_id"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type cartResponse struct {
	Lines      []cartLineResponse `json:"lines"`
	TotalItems int                `json:"total_items"`
	CartTotal  decimal.Decimal    `json:"cart_total"`
}

func newCartLineResponse(line *models.CartLine) cartLineResponse {
	return cartLineResponse{
		ID:        line.ID,
		ProductID: line.ProductID,
		RecipeID:  line.RecipeID,
		SKU:       line.SKU,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
		LineTotal: line.LineTotal(),
	}
}

func newCartResponse(cart *cartsvc.Cart) cartResponse {
	lines := make([]cartLineResponse, len(cart.Lines))
	for i := range cart.Lines {
		lines[i] = newCartLineResponse(&cart.Lines[i])
	}
	return cartResponse{
		Lines:      lines,
		TotalItems: cart.TotalItems,
		CartTotal:  cart.CartTotal,
	}
}

// currentUserID pulls the authenticated user out of the request context.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}
