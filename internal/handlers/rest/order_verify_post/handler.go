package order_verify_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"storefront/internal/dto"
	"storefront/internal/entities"
	"storefront/internal/service/order"
	"storefront/internal/service/verification"
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

// ServeHTTP answers 200 for every finished attempt, successful or not. Lookup and rate
// outages surface as success=false with a retry message, and a concurrent attempt as 409
// with the same body shape.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := h.service.RequestVerification(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			dto.WriteError(w, http.StatusNotFound, err)
		case errors.Is(err, verification.ErrTransactionHashRequired):
			dto.WriteError(w, http.StatusBadRequest, err)
		case errors.Is(err, order.ErrVerificationInProgress),
			errors.Is(err, order.ErrConcurrencyConflict):
			h.writeResult(w, http.StatusConflict, entities.VerificationResult{
				Success: false,
				Message: order.ErrVerificationInProgress.Error(),
			})
		default:
			h.log.Error("verify order", logger.NewField("id", id), logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.writeResult(w, http.StatusOK, *result)
}

func (h *Handler) writeResult(w http.ResponseWriter, status int, result entities.VerificationResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dto.FromVerificationResult(result)); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
