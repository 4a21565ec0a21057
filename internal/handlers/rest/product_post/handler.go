package product_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/dto"
	"storefront/internal/service/catalog"
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
	var productCreateDTO dto.ProductCreate
	if err := json.NewDecoder(r.Body).Decode(&productCreateDTO); err != nil {
		dto.WriteError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	product, err := h.service.CreateProduct(r.Context(), productCreateDTO.Entity())
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrMissingRequiredFields),
			errors.Is(err, catalog.ErrInvalidPrice),
			errors.Is(err, catalog.ErrInvalidPercentage),
			errors.Is(err, catalog.ErrInvalidTotalTrades):
			dto.WriteError(w, http.StatusBadRequest, err)
		case errors.Is(err, catalog.ErrProductExists):
			dto.WriteError(w, http.StatusConflict, err)
		default:
			h.log.Error("create product", logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(dto.FromProduct(*product)); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
