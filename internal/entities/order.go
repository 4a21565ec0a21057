package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                  string
	ProductID           string
	CustomerName        string
	CustomerEmail       string
	Amount              decimal.Decimal
	PaymentMethod       PaymentMethodCode
	TransactionHash     string
	Status              OrderStatusType
	VerificationStatus  VerificationStatusType
	VerificationMessage string
	LicenseKey          string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type OrderStatusType string

const (
	OrderPending   OrderStatusType = "pending"
	OrderVerified  OrderStatusType = "verified"
	OrderCompleted OrderStatusType = "completed"
	OrderFailed    OrderStatusType = "failed"
)

func (s OrderStatusType) String() string {
	return string(s)
}

func (s OrderStatusType) IsValid() bool {
	switch s {
	case OrderPending, OrderVerified, OrderCompleted, OrderFailed:
		return true
	default:
		return false
	}
}

// CountsAsRevenue reports whether an order in this status contributes to revenue.
func (s OrderStatusType) CountsAsRevenue() bool {
	return s == OrderVerified || s == OrderCompleted
}

type VerificationStatusType string

const (
	VerificationNotVerified VerificationStatusType = "not_verified"
	VerificationVerifying   VerificationStatusType = "verifying"
	VerificationVerified    VerificationStatusType = "verified"
	VerificationFailed      VerificationStatusType = "failed"
)

func (s VerificationStatusType) String() string {
	return string(s)
}

// OrderModify is a field-level patch. Nil fields are left untouched.
//
// ExpectedVerificationStatus turns the patch into a compare-and-swap: it applies only
// while the stored verification status still equals the expected one.
type OrderModify struct {
	ID                  *string
	TransactionHash     *string
	Status              *OrderStatusType
	VerificationStatus  *VerificationStatusType
	VerificationMessage *string

	ExpectedVerificationStatus *VerificationStatusType
	ExpectedStatus             *OrderStatusType
	// RequireNoTransactionHash guards the set-once transaction hash.
	RequireNoTransactionHash bool
}

// OrderCreate is the checkout input. Amount is optional and only cross-checked against
// the catalog price.
type OrderCreate struct {
	ProductID       *string
	CustomerName    *string
	CustomerEmail   *string
	Amount          *decimal.Decimal
	PaymentMethod   *PaymentMethodCode
	TransactionHash *string
}

type OrderFilter struct {
	Status *OrderStatusType
	Limit  uint64
}

// OrderStats is the admin dashboard projection of the store.
type OrderStats struct {
	TotalOrders     int64
	PendingOrders   int64
	VerifiedOrders  int64
	CompletedOrders int64
	FailedOrders    int64
	TotalRevenue    decimal.Decimal
}

// OrderStatusChanged is published whenever an order's lifecycle status moves.
type OrderStatusChanged struct {
	OrderID        string
	Status         OrderStatusType
	PreviousStatus OrderStatusType
	LicenseKey     string
	CustomerEmail  string
	ProductID      string
	Amount         decimal.Decimal
	OccurredAt     time.Time
}
