package memory

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/entities"
)

// records are stored by value and copied on the way out so callers never alias store state.

type orderRecord struct {
	entities.Order
}

func (r orderRecord) toDomain() *entities.Order {
	o := r.Order
	return &o
}

type productRecord struct {
	entities.Product
}

func (r productRecord) toDomain() entities.Product {
	p := r.Product
	p.Features = slices.Clone(r.Features)
	return p
}

type performanceRecord struct {
	entities.PerformanceMetric
	UpdatedAt time.Time
}

func revenueOf(o entities.Order) decimal.Decimal {
	if o.Status.CountsAsRevenue() {
		return o.Amount
	}
	return decimal.Zero
}
