package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/entities"
)

var hundred = decimal.NewFromInt(100)

type Catalog struct {
	repository Repository
	txManager  TxManager
}

func New(repository Repository, txManager TxManager) *Catalog {
	return &Catalog{
		repository: repository,
		txManager:  txManager,
	}
}

func (s *Catalog) ListProducts(ctx context.Context) ([]entities.Product, error) {
	products, err := s.repository.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Catalog) GetProduct(ctx context.Context, id string) (*entities.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrProductNotFound
	}

	product, err := s.repository.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return product, nil
}

func (s *Catalog) CreateProduct(ctx context.Context, productCreate entities.ProductCreate) (*entities.Product, error) {
	if productCreate.Name == nil ||
		productCreate.Description == nil ||
		productCreate.Price == nil ||
		productCreate.Platform == nil ||
		productCreate.ProfitPercentage == nil ||
		productCreate.WinRate == nil ||
		productCreate.TotalTrades == nil {
		return nil, ErrMissingRequiredFields
	}
	if strings.TrimSpace(*productCreate.Name) == "" {
		return nil, ErrMissingRequiredFields
	}

	if !productCreate.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if !isPercentage(*productCreate.WinRate) {
		return nil, fmt.Errorf("win rate: %w", ErrInvalidPercentage)
	}
	if *productCreate.TotalTrades < 0 {
		return nil, ErrInvalidTotalTrades
	}

	minDeposit := decimal.NewFromInt(50)
	if productCreate.MinDeposit != nil {
		minDeposit = *productCreate.MinDeposit
	}

	features := productCreate.Features
	if features == nil {
		features = []string{}
	}

	product := entities.Product{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(*productCreate.Name),
		Description:      *productCreate.Description,
		Price:            *productCreate.Price,
		Features:         features,
		Platform:         *productCreate.Platform,
		MinDeposit:       minDeposit,
		ProfitPercentage: *productCreate.ProfitPercentage,
		WinRate:          *productCreate.WinRate,
		TotalTrades:      *productCreate.TotalTrades,
		Available:        true,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repository.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

// SeedDefaults fills an empty catalog with the stock products. It returns how many were added.
func (s *Catalog) SeedDefaults(ctx context.Context) (int, error) {
	seeded := 0
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		count, err := s.repository.CountProducts(ctx)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, productCreate := range defaultProducts() {
			if _, err := s.CreateProduct(ctx, productCreate); err != nil {
				return err
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed catalog: %w", err)
	}
	return seeded, nil
}

// GetPerformance returns the stored metric, or the default one when nothing is stored.
func (s *Catalog) GetPerformance(ctx context.Context) (*entities.PerformanceMetric, error) {
	metric, err := s.repository.GetPerformance(ctx)
	if err != nil {
		if errors.Is(err, ErrPerformanceNotFound) {
			fallback := DefaultPerformance()
			return &fallback, nil
		}
		return nil, fmt.Errorf("get performance: %w", err)
	}
	return metric, nil
}

func (s *Catalog) SetPerformance(ctx context.Context, metric entities.PerformanceMetric) (*entities.PerformanceMetric, error) {
	if !isPercentage(metric.WinRate) {
		return nil, fmt.Errorf("win rate: %w", ErrInvalidPercentage)
	}
	if metric.TotalTrades < 0 {
		return nil, ErrInvalidTotalTrades
	}

	if err := s.repository.ReplacePerformance(ctx, metric); err != nil {
		return nil, fmt.Errorf("replace performance: %w", err)
	}
	return &metric, nil
}

func isPercentage(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}
