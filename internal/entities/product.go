package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               string
	Name             string
	Description      string
	Price            decimal.Decimal
	Features         []string
	Platform         string
	MinDeposit       decimal.Decimal
	ProfitPercentage decimal.Decimal
	WinRate          decimal.Decimal
	TotalTrades      int64
	Available        bool
	CreatedAt        time.Time
}

type PerformanceMetric struct {
	TotalProfit      decimal.Decimal
	MonthlyReturn    decimal.Decimal
	WinRate          decimal.Decimal
	TotalTrades      int64
	AvgTradeDuration string
	MaxDrawdown      decimal.Decimal
	SharpeRatio      decimal.Decimal
}

// ProductCreate is the admin input for a new catalog entry.
type ProductCreate struct {
	Name             *string
	Description      *string
	Price            *decimal.Decimal
	Features         []string
	Platform         *string
	MinDeposit       *decimal.Decimal
	ProfitPercentage *decimal.Decimal
	WinRate          *decimal.Decimal
	TotalTrades      *int64
}
