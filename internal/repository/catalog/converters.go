package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/entities"
)

func ToDomain(p *ProductDB) (*entities.Product, error) {
	if p == nil {
		return nil, nil
	}

	values, err := parseDecimals(p.Price, p.MinDeposit, p.ProfitPercentage, p.WinRate)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", p.ID, err)
	}

	features := p.Features
	if features == nil {
		features = []string{}
	}

	return &entities.Product{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Price:            values[0],
		Features:         features,
		Platform:         p.Platform,
		MinDeposit:       values[1],
		ProfitPercentage: values[2],
		WinRate:          values[3],
		TotalTrades:      p.TotalTrades,
		Available:        p.Available,
		CreatedAt:        p.CreatedAt,
	}, nil
}

func FromDomain(p *entities.Product) *ProductDB {
	return &ProductDB{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price.String(),
		Features:         p.Features,
		Platform:         p.Platform,
		MinDeposit:       p.MinDeposit.String(),
		ProfitPercentage: p.ProfitPercentage.String(),
		WinRate:          p.WinRate.String(),
		TotalTrades:      p.TotalTrades,
		Available:        p.Available,
		CreatedAt:        p.CreatedAt,
	}
}

func performanceToDomain(p *PerformanceDB) (*entities.PerformanceMetric, error) {
	values, err := parseDecimals(p.TotalProfit, p.MonthlyReturn, p.WinRate, p.MaxDrawdown, p.SharpeRatio)
	if err != nil {
		return nil, fmt.Errorf("performance: %w", err)
	}

	return &entities.PerformanceMetric{
		TotalProfit:      values[0],
		MonthlyReturn:    values[1],
		WinRate:          values[2],
		TotalTrades:      p.TotalTrades,
		AvgTradeDuration: p.AvgTradeDuration,
		MaxDrawdown:      values[3],
		SharpeRatio:      values[4],
	}, nil
}

func parseDecimals(raw ...string) ([]decimal.Decimal, error) {
	result := make([]decimal.Decimal, len(raw))
	for i, s := range raw {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("parse decimal %q: %w", s, err)
		}
		result[i] = d
	}
	return result, nil
}
