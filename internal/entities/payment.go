package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethodCode string

func (c PaymentMethodCode) String() string {
	return string(c)
}

type Network string

const (
	NetworkTron     Network = "tron"
	NetworkEthereum Network = "ethereum"
	NetworkBSC      Network = "bsc"
	NetworkBitcoin  Network = "bitcoin"
	NetworkLitecoin Network = "litecoin"
)

func (n Network) String() string {
	return string(n)
}

// PaymentMethod is one entry of the server-held wallet table.
type PaymentMethod struct {
	Code             PaymentMethodCode
	Network          Network
	Asset            string
	WalletAddress    string
	TokenContract    string // empty for the network's native coin
	Decimals         int32
	MinConfirmations uint64
	RateID           string // price source id of the asset
}

func (p PaymentMethod) IsToken() bool {
	return p.TokenContract != ""
}

// TransactionFacts is what a chain reports about a transaction paying one of our wallets.
type TransactionFacts struct {
	Hash          string
	ToAddress     string
	Asset         string
	Quantity      decimal.Decimal
	Confirmations uint64
}

type Quote struct {
	Asset    string
	Quantity decimal.Decimal
	AsOf     time.Time
}

// VerificationResult is returned to the caller of a verification attempt.
type VerificationResult struct {
	Success bool
	Message string
	Order   *Order
}
