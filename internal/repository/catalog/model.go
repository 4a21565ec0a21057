package catalog

import "time"

type ProductDB struct {
	ID               string
	Name             string
	Description      string
	Price            string
	Features         []string
	Platform         string
	MinDeposit       string
	ProfitPercentage string
	WinRate          string
	TotalTrades      int64
	Available        bool
	CreatedAt        time.Time
}

type PerformanceDB struct {
	TotalProfit      string
	MonthlyReturn    string
	WinRate          string
	TotalTrades      int64
	AvgTradeDuration string
	MaxDrawdown      string
	SharpeRatio      string
}
