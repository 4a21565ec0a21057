package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/entities"
	"storefront/internal/service/order"
)

func (s *Store) Create(_ context.Context, o entities.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID]; ok {
		return order.ErrConflict
	}
	if _, ok := s.licenseKeys[o.LicenseKey]; ok {
		return order.ErrConflict
	}
	if _, ok := s.products[o.ProductID]; !ok && len(s.products) > 0 {
		return order.ErrUnknownProduct
	}

	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	o.UpdatedAt = o.CreatedAt

	s.orders[o.ID] = orderRecord{Order: o}
	s.licenseKeys[o.LicenseKey] = o.ID
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*entities.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return rec.toDomain(), nil
}

func (s *Store) Update(_ context.Context, m entities.OrderModify) (*entities.Order, error) {
	if m.ID == nil {
		return nil, order.ErrMissingRequiredFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[*m.ID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}

	if m.ExpectedVerificationStatus != nil && rec.VerificationStatus != *m.ExpectedVerificationStatus {
		return nil, order.ErrConcurrencyConflict
	}
	if m.ExpectedStatus != nil && rec.Status != *m.ExpectedStatus {
		return nil, order.ErrConcurrencyConflict
	}
	if m.RequireNoTransactionHash && rec.TransactionHash != "" {
		return nil, order.ErrConcurrencyConflict
	}

	if m.TransactionHash != nil {
		rec.TransactionHash = *m.TransactionHash
	}
	if m.Status != nil {
		rec.Status = *m.Status
	}
	if m.VerificationStatus != nil {
		rec.VerificationStatus = *m.VerificationStatus
	}
	if m.VerificationMessage != nil {
		rec.VerificationMessage = *m.VerificationMessage
	}
	rec.UpdatedAt = s.now()

	s.orders[rec.ID] = rec
	return rec.toDomain(), nil
}

func (s *Store) List(_ context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entities.Order, 0, len(s.orders))
	for _, rec := range s.orders {
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		result = append(result, rec.Order)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Limit > 0 && uint64(len(result)) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (s *Store) Stats(_ context.Context) (*entities.OrderStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := entities.OrderStats{TotalRevenue: decimal.Zero}
	for _, rec := range s.orders {
		stats.TotalOrders++
		switch rec.Status {
		case entities.OrderPending:
			stats.PendingOrders++
		case entities.OrderVerified:
			stats.VerifiedOrders++
		case entities.OrderCompleted:
			stats.CompletedOrders++
		case entities.OrderFailed:
			stats.FailedOrders++
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(revenueOf(rec.Order))
	}
	return &stats, nil
}

func (s *Store) FindByTransactionHash(_ context.Context, network entities.Network, hash string) (*entities.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orderID, ok := s.claims[claimKey{network: network.String(), hash: hash}]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	rec, ok := s.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return rec.toDomain(), nil
}

// ClaimTransaction records that orderID is paid by (network, hash). Claiming the same pair
// for the same order again is a no-op.
func (s *Store) ClaimTransaction(_ context.Context, network entities.Network, hash, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[orderID]; !ok {
		return order.ErrOrderNotFound
	}

	key := claimKey{network: network.String(), hash: hash}
	if owner, ok := s.claims[key]; ok {
		if owner == orderID {
			return nil
		}
		return order.ErrTransactionAlreadyUsed
	}
	if _, ok := s.claimedBy[orderID]; ok {
		return order.ErrTransactionAlreadyUsed
	}

	s.claims[key] = orderID
	s.claimedBy[orderID] = key
	return nil
}

func (s *Store) ResetStaleVerifications(_ context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-olderThan)

	var reset int64
	for id, rec := range s.orders {
		if rec.VerificationStatus != entities.VerificationVerifying || rec.UpdatedAt.After(cutoff) {
			continue
		}
		rec.VerificationStatus = entities.VerificationNotVerified
		rec.VerificationMessage = "verification interrupted, retry"
		rec.UpdatedAt = now
		s.orders[id] = rec
		reset++
	}
	return reset, nil
}
