package admin_orders_get

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	query := r.URL.Query()

	var filter entities.OrderFilter
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			dto.WriteError(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		filter.Limit = limit
	}
	if raw := query.Get("status"); raw != "" {
		status := entities.OrderStatusType(raw)
		filter.Status = &status
	}

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidStatus):
			dto.WriteError(w, http.StatusBadRequest, err)
		default:
			h.log.Error("list orders", logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	res := make([]dto.Order, len(orders))
	for i, o := range orders {
		res[i] = dto.FromOrder(o)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
