package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/entities"
)

func ToDomain(o *OrderDB) (*entities.Order, error) {
	if o == nil {
		return nil, nil
	}

	amount, err := decimal.NewFromString(o.Amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", o.Amount, err)
	}

	var txHash string
	if o.TransactionHash != nil {
		txHash = *o.TransactionHash
	}

	return &entities.Order{
		ID:                  o.ID,
		ProductID:           o.ProductID,
		CustomerName:        o.CustomerName,
		CustomerEmail:       o.CustomerEmail,
		Amount:              amount,
		PaymentMethod:       entities.PaymentMethodCode(o.PaymentMethod),
		TransactionHash:     txHash,
		Status:              entities.OrderStatusType(o.Status),
		VerificationStatus:  entities.VerificationStatusType(o.VerificationStatus),
		VerificationMessage: o.VerificationMessage,
		LicenseKey:          o.LicenseKey,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}, nil
}

func FromDomain(o *entities.Order) *OrderDB {
	if o == nil {
		return nil
	}

	var txHash *string
	if o.TransactionHash != "" {
		hash := o.TransactionHash
		txHash = &hash
	}

	return &OrderDB{
		ID:                  o.ID,
		ProductID:           o.ProductID,
		CustomerName:        o.CustomerName,
		CustomerEmail:       o.CustomerEmail,
		Amount:              o.Amount.String(),
		PaymentMethod:       o.PaymentMethod.String(),
		TransactionHash:     txHash,
		Status:              o.Status.String(),
		VerificationStatus:  o.VerificationStatus.String(),
		VerificationMessage: o.VerificationMessage,
		LicenseKey:          o.LicenseKey,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func ToDomainList(ordersDB []OrderDB) ([]entities.Order, error) {
	result := make([]entities.Order, 0, len(ordersDB))
	for i := range ordersDB {
		o, err := ToDomain(&ordersDB[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, nil
}

func statsToDomain(s *StatsDB) (*entities.OrderStats, error) {
	revenue, err := decimal.NewFromString(s.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("parse revenue %q: %w", s.TotalRevenue, err)
	}

	return &entities.OrderStats{
		TotalOrders:     s.TotalOrders,
		PendingOrders:   s.PendingOrders,
		VerifiedOrders:  s.VerifiedOrders,
		CompletedOrders: s.CompletedOrders,
		FailedOrders:    s.FailedOrders,
		TotalRevenue:    revenue,
	}, nil
}
