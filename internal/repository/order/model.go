package order

import "time"

// OrderDB mirrors a row of the orders table. Amounts travel as text to keep NUMERIC exact.
type OrderDB struct {
	ID                  string
	ProductID           string
	CustomerName        string
	CustomerEmail       string
	Amount              string
	PaymentMethod       string
	TransactionHash     *string
	Status              string
	VerificationStatus  string
	VerificationMessage string
	LicenseKey          string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type StatsDB struct {
	TotalOrders     int64
	PendingOrders   int64
	VerifiedOrders  int64
	CompletedOrders int64
	FailedOrders    int64
	TotalRevenue    string
}
