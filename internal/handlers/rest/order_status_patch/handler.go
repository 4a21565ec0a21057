package order_status_patch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"storefront/internal/dto"
	"storefront/internal/entities"
	"storefront/internal/service/order"
	"storefront/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status := entities.OrderStatusType(r.URL.Query().Get("status"))

	updated, err := h.service.SetStatus(r.Context(), id, status)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidStatus):
			dto.WriteError(w, http.StatusBadRequest, err)
		case errors.Is(err, order.ErrOrderNotFound):
			dto.WriteError(w, http.StatusNotFound, err)
		case errors.Is(err, order.ErrInvalidTransition),
			errors.Is(err, order.ErrVerificationInProgress),
			errors.Is(err, order.ErrConcurrencyConflict):
			dto.WriteError(w, http.StatusConflict, err)
		default:
			h.log.Error("set order status", logger.NewField("id", id), logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.log.Info("order status set",
		logger.NewField("id", id),
		logger.NewField("status", updated.Status.String()),
	)

	res := dto.StatusUpdate{
		Message: fmt.Sprintf("order status updated to %s", updated.Status),
		Order:   dto.FromOrder(*updated),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
