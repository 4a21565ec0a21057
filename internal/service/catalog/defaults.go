package catalog

import (
	"github.com/AlekSi/pointer"
	"github.com/shopspring/decimal"

	"storefront/internal/entities"
)

// DefaultPerformance is served until an administrator stores real figures.
func DefaultPerformance() entities.PerformanceMetric {
	return entities.PerformanceMetric{
		TotalProfit:      decimal.RequireFromString("147250.50"),
		MonthlyReturn:    decimal.RequireFromString("18.5"),
		WinRate:          decimal.RequireFromString("87.3"),
		TotalTrades:      2847,
		AvgTradeDuration: "3.2 min",
		MaxDrawdown:      decimal.RequireFromString("12.4"),
		SharpeRatio:      decimal.RequireFromString("2.8"),
	}
}

func defaultProducts() []entities.ProductCreate {
	platform := "Both MT4 & MT5"
	return []entities.ProductCreate{
		{
			Name:        pointer.To("Low Risk EA - Stable Growth"),
			Description: pointer.To("Conservative scalping strategy designed for traders who prioritize capital preservation. Uses strict risk management with maximum 1% risk per trade. Ideal for beginners and those building consistent profits over time."),
			Price:       dec("90.00"),
			Features: []string{
				"Conservative risk management (1% per trade max)",
				"Strict stop-loss placement (10-15 pips)",
				"Lower trade frequency for quality over quantity",
				"Targets 5-8% monthly returns consistently",
				"Maximum drawdown limited to 8%",
				"Works best in ranging and low volatility markets",
				"Automated position sizing based on account balance",
				"Compatible with accounts from $50-$10,000",
				"Advanced trend filtering to avoid false signals",
				"Works with MT4 & MT5",
				"Lifetime updates & 24/7 support",
			},
			Platform:         &platform,
			MinDeposit:       dec("50"),
			ProfitPercentage: dec("6.5"),
			WinRate:          dec("89.2"),
			TotalTrades:      pointer.To(int64(1847)),
		},
		{
			Name:        pointer.To("Moderate Risk EA - Balanced Performance"),
			Description: pointer.To("Balanced approach combining safety with growth potential. Uses dynamic risk management adjusting to market conditions. Perfect for traders seeking steady profits with controlled risk exposure."),
			Price:       dec("150.00"),
			Features: []string{
				"Balanced risk management (2% per trade max)",
				"Dynamic stop-loss adjustment (15-25 pips)",
				"Medium trade frequency for optimal opportunities",
				"Targets 12-18% monthly returns",
				"Maximum drawdown limited to 15%",
				"Adapts to trending and ranging markets",
				"Multi-timeframe analysis (M5, M15, H1)",
				"Suitable for accounts from $100-$50,000",
				"Advanced entry filtering with 3 confirmation signals",
				"Trailing stop feature to lock in profits",
				"Works with MT4 & MT5",
				"Priority support & exclusive community access",
			},
			Platform:         &platform,
			MinDeposit:       dec("100"),
			ProfitPercentage: dec("15.2"),
			WinRate:          dec("85.7"),
			TotalTrades:      pointer.To(int64(3421)),
		},
		{
			Name:        pointer.To("High Risk High Profit EA - Maximum Returns"),
			Description: pointer.To("Aggressive scalping strategy for experienced traders seeking maximum profit potential. Uses advanced algorithms to capture rapid market movements with higher position sizing. Requires strong risk tolerance and proper capital allocation."),
			Price:       dec("200.00"),
			Features: []string{
				"Aggressive risk management (3-5% per trade)",
				"Wide stop-loss for market breathing room (25-40 pips)",
				"High trade frequency to maximize opportunities",
				"Targets 25-40% monthly returns",
				"Maximum drawdown up to 25% (managed carefully)",
				"Optimized for high volatility and trending markets",
				"Multi-pair scalping across 6+ currency pairs",
				"Recommended for accounts $200+",
				"Lightning-fast execution with scalping optimization",
				"Martingale recovery mode (optional, can be disabled)",
				"Advanced news filter to avoid high-impact events",
				"Works with MT4 & MT5",
				"VIP support with personal account manager",
			},
			Platform:         &platform,
			MinDeposit:       dec("200"),
			ProfitPercentage: dec("32.8"),
			WinRate:          dec("82.4"),
			TotalTrades:      pointer.To(int64(5234)),
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
