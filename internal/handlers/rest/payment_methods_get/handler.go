package payment_methods_get

import (
	"encoding/json"
	"net/http"

	"storefront/internal/dto"
	"storefront/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	methods PaymentMethods
}

func New(log handlerLogger, methods PaymentMethods) *Handler {
	return &Handler{
		log:     log.With(),
		methods: methods,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	all := h.methods.All()
	res := make([]dto.PaymentMethod, len(all))
	for i, m := range all {
		res[i] = dto.FromPaymentMethod(m)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
