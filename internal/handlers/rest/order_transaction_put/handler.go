package order_transaction_put

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"storefront/internal/dto"
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

	var submitDTO dto.TransactionSubmit
	if err := json.NewDecoder(r.Body).Decode(&submitDTO); err != nil {
		dto.WriteError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	updated, err := h.service.SubmitTransactionHash(r.Context(), id, submitDTO.TransactionHash)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrMissingRequiredFields),
			errors.Is(err, order.ErrInvalidTransactionHash),
			errors.Is(err, order.ErrUnknownPaymentMethod):
			dto.WriteError(w, http.StatusBadRequest, err)
		case errors.Is(err, order.ErrOrderNotFound):
			dto.WriteError(w, http.StatusNotFound, err)
		case errors.Is(err, order.ErrTransactionHashAlreadySet),
			errors.Is(err, order.ErrInvalidTransition),
			errors.Is(err, order.ErrConcurrencyConflict),
			errors.Is(err, order.ErrTransactionAlreadyUsed):
			dto.WriteError(w, http.StatusConflict, err)
		default:
			h.log.Error("submit transaction hash", logger.NewField("id", id), logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto.FromOrder(*updated)); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
