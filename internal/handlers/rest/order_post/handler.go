package order_post

import (
	"encoding/json"
	"errors"
	"net/http"

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
	var orderCreateDTO dto.OrderCreate
	if err := json.NewDecoder(r.Body).Decode(&orderCreateDTO); err != nil {
		dto.WriteError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	created, err := h.service.CreateOrder(r.Context(), orderCreateDTO.Entity())
	if err != nil {
		switch {
		case errors.Is(err, order.ErrMissingRequiredFields),
			errors.Is(err, order.ErrInvalidName),
			errors.Is(err, order.ErrInvalidEmail),
			errors.Is(err, order.ErrUnknownProduct),
			errors.Is(err, order.ErrProductUnavailable),
			errors.Is(err, order.ErrUnknownPaymentMethod),
			errors.Is(err, order.ErrAmountMismatch),
			errors.Is(err, order.ErrInvalidTransactionHash):
			dto.WriteError(w, http.StatusBadRequest, err)
		case errors.Is(err, order.ErrConflict):
			dto.WriteError(w, http.StatusConflict, err)
		default:
			h.log.Error("create order", logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(dto.FromOrder(*created)); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
