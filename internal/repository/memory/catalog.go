package memory

import (
	"context"

	"storefront/internal/entities"
	"storefront/internal/service/catalog"
)

func (s *Store) ListProducts(_ context.Context) ([]entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entities.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		result = append(result, s.products[id].toDomain())
	}
	return result, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	p := rec.toDomain()
	return &p, nil
}

func (s *Store) CreateProduct(_ context.Context, product entities.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; ok {
		return catalog.ErrProductExists
	}
	s.products[product.ID] = productRecord{Product: product}
	s.productOrder = append(s.productOrder, product.ID)
	return nil
}

func (s *Store) CountProducts(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.products)), nil
}

func (s *Store) GetPerformance(_ context.Context) (*entities.PerformanceMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.performance == nil {
		return nil, catalog.ErrPerformanceNotFound
	}
	metric := s.performance.PerformanceMetric
	return &metric, nil
}

func (s *Store) ReplacePerformance(_ context.Context, metric entities.PerformanceMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.performance = &performanceRecord{PerformanceMetric: metric, UpdatedAt: s.now()}
	return nil
}
