package products_get

import (
	"encoding/json"
	"net/http"

	"storefront/internal/dto"
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
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.log.Error("list products", logger.NewField("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	res := make([]dto.Product, len(products))
	for i, p := range products {
		res[i] = dto.FromProduct(p)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
