package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/metaxoft5/Nathan-Backend/api/responses"
	"github.com/metaxoft5/Nathan-Backend/api/validators"
	ordersvc "github.com/metaxoft5/Nathan-Backend/internal/orders"
	pkgerrors "github.com/metaxoft5/Nathan-Backend/pkg/errors"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
)

// AdminOrderUpdateStatus transitions an order's lifecycle or payment
// status.
func AdminOrderUpdateStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload ordersvc.UpdateStatusInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
