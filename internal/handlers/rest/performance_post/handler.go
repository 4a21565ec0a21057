package performance_post

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
	var performanceDTO dto.Performance
	if err := json.NewDecoder(r.Body).Decode(&performanceDTO); err != nil {
		dto.WriteError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	metric, err := h.service.SetPerformance(r.Context(), performanceDTO.Entity())
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidPercentage),
			errors.Is(err, catalog.ErrInvalidTotalTrades),
			errors.Is(err, catalog.ErrMissingRequiredFields):
			dto.WriteError(w, http.StatusBadRequest, err)
		default:
			h.log.Error("set performance", logger.NewField("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto.FromPerformance(*metric)); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
