package paymentmethods

import "storefront/internal/entities"

const (
	tronWallet     = "TTSTe4V34whYwqz5SsY4wtKNnh3PuhAx4E"
	evmWallet      = "0xb971a4E8DCD38d87c4629642a4EAe2591ECd4772"
	bitcoinWallet  = "bc1qer38a338dp9dq7q6nl4jh5kny38yqa07hfcp6p"
	litecoinWallet = "ltc1qgnd4lazpqd897z469nhcva96mmr0tjrg8swlhs"

	usdtTron     = "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"
	usdtEthereum = "0xdac17f958d2ee523a2206206994597c13d831ec7"
	usdtBSC      = "0x55d398326f99059fF775485246999027B3197955"
)

// Defaults is the wallet table used when no file is configured.
func Defaults() []entities.PaymentMethod {
	return []entities.PaymentMethod{
		{Code: "TRC20_USDT", Network: entities.NetworkTron, Asset: "USDT", WalletAddress: tronWallet, TokenContract: usdtTron, Decimals: 6, MinConfirmations: 1, RateID: "tether"},
		{Code: "TRX", Network: entities.NetworkTron, Asset: "TRX", WalletAddress: tronWallet, Decimals: 6, MinConfirmations: 1, RateID: "tron"},
		{Code: "USDT_ETH", Network: entities.NetworkEthereum, Asset: "USDT", WalletAddress: evmWallet, TokenContract: usdtEthereum, Decimals: 6, MinConfirmations: 12, RateID: "tether"},
		{Code: "BEP20_USDT", Network: entities.NetworkBSC, Asset: "USDT", WalletAddress: evmWallet, TokenContract: usdtBSC, Decimals: 18, MinConfirmations: 15, RateID: "tether"},
		{Code: "ETH", Network: entities.NetworkEthereum, Asset: "ETH", WalletAddress: evmWallet, Decimals: 18, MinConfirmations: 12, RateID: "ethereum"},
		{Code: "BNB", Network: entities.NetworkBSC, Asset: "BNB", WalletAddress: evmWallet, Decimals: 18, MinConfirmations: 15, RateID: "binancecoin"},
		{Code: "BTC", Network: entities.NetworkBitcoin, Asset: "BTC", WalletAddress: bitcoinWallet, Decimals: 8, MinConfirmations: 2, RateID: "bitcoin"},
		{Code: "LTC", Network: entities.NetworkLitecoin, Asset: "LTC", WalletAddress: litecoinWallet, Decimals: 8, MinConfirmations: 6, RateID: "litecoin"},
	}
}
