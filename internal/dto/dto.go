// Package dto holds the JSON shapes of the REST API.
package dto

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/entities"
)

type Error struct {
	Detail string `json:"detail"`
}

// WriteError answers with status and the error text as detail.
func WriteError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Error{Detail: err.Error()})
}

type Product struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	Features         []string        `json:"features"`
	Platform         string          `json:"platform"`
	MinDeposit       decimal.Decimal `json:"min_deposit"`
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
	WinRate          decimal.Decimal `json:"win_rate"`
	TotalTrades      int64           `json:"total_trades"`
	Available        bool            `json:"available"`
	CreatedAt        time.Time       `json:"created_at"`
}

func FromProduct(p entities.Product) Product {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return Product{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price,
		Features:         features,
		Platform:         p.Platform,
		MinDeposit:       p.MinDeposit,
		ProfitPercentage: p.ProfitPercentage,
		WinRate:          p.WinRate,
		TotalTrades:      p.TotalTrades,
		Available:        p.Available,
		CreatedAt:        p.CreatedAt,
	}
}

type ProductCreate struct {
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	Price            *decimal.Decimal `json:"price"`
	Features         []string         `json:"features"`
	Platform         *string          `json:"platform"`
	MinDeposit       *decimal.Decimal `json:"min_deposit"`
	ProfitPercentage *decimal.Decimal `json:"profit_percentage"`
	WinRate          *decimal.Decimal `json:"win_rate"`
	TotalTrades      *int64           `json:"total_trades"`
}

func (p ProductCreate) Entity() entities.ProductCreate {
	return entities.ProductCreate{
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price,
		Features:         p.Features,
		Platform:         p.Platform,
		MinDeposit:       p.MinDeposit,
		ProfitPercentage: p.ProfitPercentage,
		WinRate:          p.WinRate,
		TotalTrades:      p.TotalTrades,
	}
}

type Performance struct {
	TotalProfit      decimal.Decimal `json:"total_profit"`
	MonthlyReturn    decimal.Decimal `json:"monthly_return"`
	WinRate          decimal.Decimal `json:"win_rate"`
	TotalTrades      int64           `json:"total_trades"`
	AvgTradeDuration string          `json:"avg_trade_duration"`
	MaxDrawdown      decimal.Decimal `json:"max_drawdown"`
	SharpeRatio      decimal.Decimal `json:"sharpe_ratio"`
}

func FromPerformance(m entities.PerformanceMetric) Performance {
	return Performance(m)
}

func (p Performance) Entity() entities.PerformanceMetric {
	return entities.PerformanceMetric(p)
}

// PaymentMethod is the public projection of a wallet table entry.
type PaymentMethod struct {
	Code             string `json:"code"`
	Network          string `json:"network"`
	Asset            string `json:"asset"`
	WalletAddress    string `json:"wallet_address"`
	MinConfirmations uint64 `json:"min_confirmations"`
}

func FromPaymentMethod(m entities.PaymentMethod) PaymentMethod {
	return PaymentMethod{
		Code:             m.Code.String(),
		Network:          m.Network.String(),
		Asset:            m.Asset,
		WalletAddress:    m.WalletAddress,
		MinConfirmations: m.MinConfirmations,
	}
}

type Order struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"product_id"`
	CustomerName        string          `json:"customer_name"`
	CustomerEmail       string          `json:"customer_email"`
	Amount              decimal.Decimal `json:"amount"`
	PaymentMethod       string          `json:"payment_method"`
	TransactionHash     *string         `json:"transaction_hash"`
	Status              string          `json:"status"`
	VerificationStatus  string          `json:"verification_status"`
	VerificationMessage *string         `json:"verification_message"`
	LicenseKey          string          `json:"license_key"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func FromOrder(o entities.Order) Order {
	res := Order{
		ID:                 o.ID,
		ProductID:          o.ProductID,
		CustomerName:       o.CustomerName,
		CustomerEmail:      o.CustomerEmail,
		Amount:             o.Amount,
		PaymentMethod:      o.PaymentMethod.String(),
		Status:             o.Status.String(),
		VerificationStatus: o.VerificationStatus.String(),
		LicenseKey:         o.LicenseKey,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if o.TransactionHash != "" {
		res.TransactionHash = &o.TransactionHash
	}
	if o.VerificationMessage != "" {
		res.VerificationMessage = &o.VerificationMessage
	}
	return res
}

type OrderCreate struct {
	ProductID       *string          `json:"product_id"`
	CustomerName    *string          `json:"customer_name"`
	CustomerEmail   *string          `json:"customer_email"`
	Amount          *decimal.Decimal `json:"amount"`
	PaymentMethod   *string          `json:"payment_method"`
	TransactionHash *string          `json:"transaction_hash"`
}

func (o OrderCreate) Entity() entities.OrderCreate {
	res := entities.OrderCreate{
		ProductID:       o.ProductID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		Amount:          o.Amount,
		TransactionHash: o.TransactionHash,
	}
	if o.PaymentMethod != nil {
		code := entities.PaymentMethodCode(*o.PaymentMethod)
		res.PaymentMethod = &code
	}
	return res
}

type TransactionSubmit struct {
	TransactionHash string `json:"transaction_hash"`
}

type VerificationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Order   *Order `json:"order,omitempty"`
}

func FromVerificationResult(r entities.VerificationResult) VerificationResult {
	res := VerificationResult{Success: r.Success, Message: r.Message}
	if r.Order != nil {
		o := FromOrder(*r.Order)
		res.Order = &o
	}
	return res
}

type Stats struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	VerifiedOrders  int64           `json:"verified_orders"`
	CompletedOrders int64           `json:"completed_orders"`
	FailedOrders    int64           `json:"failed_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}

func FromStats(s entities.OrderStats) Stats {
	return Stats(s)
}

type StatusUpdate struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

type PingResponse struct {
	Message string `json:"message"`
}
