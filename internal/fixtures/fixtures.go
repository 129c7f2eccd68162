// Package fixtures holds the demo data set the platform boots with.
// Timestamps are relative to the supplied now.
package fixtures

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"qcrypto-wallet/internal/market"
	"qcrypto-wallet/internal/models"
)

const day = 24 * time.Hour

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Prices returns the reference prices with a generated history.
func Prices(now time.Time, historyDays int, volatility float64, rnd *rand.Rand) []models.PriceRecord {
	record := func(currency, name, symbol, current, base, c24, c7, c30 string) models.PriceRecord {
		return models.PriceRecord{
			Currency:     currency,
			Name:         name,
			Symbol:       symbol,
			CurrentPrice: d(current),
			Change24h:    d(c24),
			Change7d:     d(c7),
			Change30d:    d(c30),
			PriceHistory: market.GenerateHistory(d(base), historyDays, volatility, now, rnd),
			LastUpdated:  now,
		}
	}
	return []models.PriceRecord{
		record("BTC", "Bitcoin", "₿", "45750.00", "44500", "2.35", "5.82", "12.45"),
		record("ETH", "Ethereum", "Ξ", "2500.00", "2450", "1.85", "4.23", "8.67"),
		record("AVAX", "Avalanche", "AVAX", "25.00", "23.50", "3.12", "6.45", "15.23"),
	}
}

// Wallets returns the wallet assets. Fiat values are derived from prices.
func Wallets(prices map[string]models.PriceRecord) []models.WalletAsset {
	addr := func(uid, address, qr, balance, label, currency string) models.Address {
		b := d(balance)
		return models.Address{
			UID:       uid,
			Address:   address,
			QRData:    qr + ":" + address,
			Balance:   b,
			EuroValue: b.Mul(prices[currency].CurrentPrice),
			Label:     label,
		}
	}
	return []models.WalletAsset{
		{
			Currency: "BTC",
			Name:     "Bitcoin",
			Addresses: []models.Address{
				addr("btc-1", "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh", "bitcoin", "6.5", "Main BTC Wallet", "BTC"),
				addr("btc-2", "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", "bitcoin", "3.2", "Trading BTC Wallet", "BTC"),
				addr("btc-3", "3FZbgi29cpjq2GjdwV8eyHuJJnkLtktZc5", "bitcoin", "0.8", "Cold Storage BTC", "BTC"),
			},
		},
		{
			Currency: "ETH",
			Name:     "Ethereum",
			Addresses: []models.Address{
				addr("eth-1", "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb", "ethereum", "85.5", "Main ETH Wallet", "ETH"),
				addr("eth-2", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "ethereum", "39.5", "Staking ETH Wallet", "ETH"),
			},
		},
		{
			Currency: "AVAX",
			Name:     "Avalanche",
			Addresses: []models.Address{
				addr("avax-1", "X-avax1qzauyy8rhaqwpe5u6k3q9yzyqwpe5u6k3q9yzy", "avalanche", "3200", "Main AVAX Wallet", "AVAX"),
				addr("avax-2", "X-avax1s65kep4smpr9cnf6uh9cuuud4ndm2z4jguj3gp", "avalanche", "1800", "Trading AVAX Wallet", "AVAX"),
			},
		},
	}
}

// Transactions returns the ledger history, newest first.
func Transactions(now time.Time) []models.Transaction {
	ago := func(days int) time.Time { return now.Add(-time.Duration(days) * day) }
	return []models.Transaction{
		{UID: "tx-001", Type: models.TransactionDeposit, Currency: "BTC", Amount: d("0.5"), FiatValue: d("22875"), Timestamp: ago(1), Status: models.StatusCompleted,
			Address: "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh", TxHash: "3a7bd3e2360a3d29eea436fcfb7e44c735d117c42d1c1835420294a6cf8a1c", Notes: "Client deposit"},
		{UID: "tx-002", Type: models.TransactionWithdrawal, Currency: "ETH", Amount: d("5.2"), FiatValue: d("13000"), Timestamp: ago(2), Status: models.StatusCompleted,
			Address: "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb", TxHash: "0x9f4e8a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f", Notes: "Client withdrawal request"},
		{UID: "tx-003", Type: models.TransactionTrade, Currency: "BTC", Amount: d("0.2"), FiatValue: d("9150"), Timestamp: ago(3), Status: models.StatusCompleted,
			TradePair: "BTC/EUR", TradePrice: d("45750"), Notes: "Market buy order"},
		{UID: "tx-004", Type: models.TransactionDeposit, Currency: "AVAX", Amount: d("1000"), FiatValue: d("25000"), Timestamp: ago(4), Status: models.StatusCompleted,
			Address: "X-avax1qzauyy8rhaqwpe5u6k3q9yzyqwpe5u6k3q9yzy", TxHash: "avax_tx_4d5e6f7g8h9i0j1k2l3m4n5o6p7q8r9s0t1u2v3w4x5y6z", Notes: "Institutional deposit"},
		{UID: "tx-005", Type: models.TransactionTrade, Currency: "ETH", Amount: d("10.5"), FiatValue: d("26250"), Timestamp: ago(5), Status: models.StatusCompleted,
			TradePair: "ETH/EUR", TradePrice: d("2500"), Notes: "Limit sell order"},
		{UID: "tx-006", Type: models.TransactionWithdrawal, Currency: "BTC", Amount: d("0.15"), FiatValue: d("6862.50"), Timestamp: ago(6), Status: models.StatusPending,
			Address: "3FZbgi29cpjq2GjdwV8eyHuJJnkLtktZc5", Notes: "Awaiting approval"},
		{UID: "tx-007", Type: models.TransactionDeposit, Currency: "ETH", Amount: d("25"), FiatValue: d("62500"), Timestamp: ago(10), Status: models.StatusCompleted,
			Address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", TxHash: "0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b", Notes: "Large client deposit"},
		{UID: "tx-008", Type: models.TransactionTrade, Currency: "AVAX", Amount: d("500"), FiatValue: d("12500"), Timestamp: ago(12), Status: models.StatusCompleted,
			TradePair: "AVAX/EUR", TradePrice: d("25"), Notes: "Market sell order"},
		{UID: "tx-009", Type: models.TransactionWithdrawal, Currency: "ETH", Amount: d("8.5"), FiatValue: d("21250"), Timestamp: ago(15), Status: models.StatusCompleted,
			Address: "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb", TxHash: "0x9a8b7c6d5e4f3a2b1c0d9e8f7a6b5c4d3e2f1a0b9c8d7e6f5a4b3c2d1e0f9a8b", Notes: "Client withdrawal"},
		{UID: "tx-010", Type: models.TransactionDeposit, Currency: "BTC", Amount: d("1.2"), FiatValue: d("54900"), Timestamp: ago(18), Status: models.StatusCompleted,
			Address: "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", TxHash: "7c8d9e0f1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d", Notes: "Trading account funding"},
		{UID: "tx-011", Type: models.TransactionTrade, Currency: "BTC", Amount: d("0.8"), FiatValue: d("36600"), Timestamp: ago(20), Status: models.StatusCompleted,
			TradePair: "BTC/EUR", TradePrice: d("45750"), Notes: "Limit buy order"},
		{UID: "tx-012", Type: models.TransactionDeposit, Currency: "AVAX", Amount: d("2000"), FiatValue: d("50000"), Timestamp: ago(22), Status: models.StatusCompleted,
			Address: "X-avax1s65kep4smpr9cnf6uh9cuuud4ndm2z4jguj3gp", TxHash: "avax_tx_8i9j0k1l2m3n4o5p6q7r8s9t0u1v2w3x4y5z6a7b8c9d0e", Notes: "Staking deposit"},
		{UID: "tx-013", Type: models.TransactionWithdrawal, Currency: "AVAX", Amount: d("750"), FiatValue: d("18750"), Timestamp: ago(24), Status: models.StatusCompleted,
			Address: "X-avax1qzauyy8rhaqwpe5u6k3q9yzyqwpe5u6k3q9yzy", TxHash: "avax_tx_2f3g4h5i6j7k8l9m0n1o2p3q4r5s6t7u8v9w0x1y2z3a", Notes: "Profit taking"},
		{UID: "tx-014", Type: models.TransactionTrade, Currency: "ETH", Amount: d("15"), FiatValue: d("37500"), Timestamp: ago(26), Status: models.StatusCompleted,
			TradePair: "ETH/EUR", TradePrice: d("2500"), Notes: "Market buy order"},
		{UID: "tx-015", Type: models.TransactionDeposit, Currency: "BTC", Amount: d("2.5"), FiatValue: d("114375"), Timestamp: ago(28), Status: models.StatusCompleted,
			Address: "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh", TxHash: "5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2c3d4e5f6a", Notes: "Initial portfolio funding"},
	}
}

// StakingOptions returns the staking catalog.
func StakingOptions() []models.StakingOption {
	return []models.StakingOption{
		{ID: "stake-eth-72h", Currency: "ETH", Name: "Ethereum Staking 72-Hour", APY: d("3.5"), LockPeriod: 72 * time.Hour,
			MinAmount: d("0.01"), Description: "Short lock with daily accrual", RiskLevel: "Low"},
		{ID: "stake-eth-30", Currency: "ETH", Name: "Ethereum Staking 30-Day", APY: d("4.5"), LockPeriod: 30 * day,
			MinAmount: d("0.1"), Description: "Flexible 30-day staking with competitive returns", RiskLevel: "Low"},
		{ID: "stake-eth-90", Currency: "ETH", Name: "Ethereum Staking 90-Day", APY: d("5.8"), LockPeriod: 90 * day,
			MinAmount: d("1.0"), Description: "Higher returns with 90-day commitment", RiskLevel: "Low"},
		{ID: "stake-avax-30", Currency: "AVAX", Name: "Avalanche Staking 30-Day", APY: d("8.2"), LockPeriod: 30 * day,
			MinAmount: d("25"), Description: "Competitive AVAX staking rewards", RiskLevel: "Medium"},
		{ID: "stake-avax-180", Currency: "AVAX", Name: "Avalanche Staking 180-Day", APY: d("11.5"), LockPeriod: 180 * day,
			MinAmount: d("100"), Description: "Premium rewards for long-term commitment", RiskLevel: "Medium"},
	}
}

// StakingPositions returns the positions held at boot.
func StakingPositions(now time.Time) []models.StakingPosition {
	pos := func(uid, option, currency, amount, apy string, startDaysAgo, lockDays int, earned string, autoRenew bool) models.StakingPosition {
		start := now.Add(-time.Duration(startDaysAgo) * day)
		lock := time.Duration(lockDays) * day
		return models.StakingPosition{
			UID:            uid,
			OptionID:       option,
			Currency:       currency,
			AmountStaked:   d(amount),
			APY:            d(apy),
			LockPeriod:     lock,
			StartDate:      start,
			ExpirationDate: start.Add(lock),
			EarnedAmount:   d(earned),
			AutoRenew:      autoRenew,
		}
	}
	return []models.StakingPosition{
		pos("pos-001", "stake-eth-90", "ETH", "39.5", "5.8", 60, 90, "0.52", true),
		pos("pos-002", "stake-avax-180", "AVAX", "1800", "11.5", 120, 180, "138.0", false),
		pos("pos-003", "stake-eth-30", "ETH", "10.0", "4.5", 28, 30, "0.035", true),
		pos("pos-004", "stake-avax-30", "AVAX", "500", "8.2", 45, 30, "3.36", false),
	}
}

// Settlement returns the settlement account, due in 24 hours.
func Settlement(now time.Time) models.SettlementAccount {
	return models.SettlementAccount{
		Balance:       d("-1112096.38"),
		MaxLimit:      d("5000000"),
		SettlementDue: now.Add(day),
		IBAN:          "DE89370400440532013000",
		BIC:           "DEUTDEBBXXX",
		Beneficiary:   "Q Crypto Settlement GmbH",
		BankName:      "Deutsche Bank AG",
		Currency:      "EUR",
	}
}

// Clients returns the B2B client companies. IDs are assigned in order from 1.
func Clients() []models.Client {
	return []models.Client{
		{Name: "Crypto Ventures GmbH", ContactEmail: "contact@cryptoventures.de", Status: "Active"},
		{Name: "Blockchain Finance AG", ContactEmail: "info@blockchainfinance.ch", Status: "Active"},
		{Name: "Digital Assets Corp", ContactEmail: "hello@digitalassets.com", Status: "Active"},
		{Name: "DeFi Trading Solutions", ContactEmail: "support@defitrading.io", Status: "Inactive"},
		{Name: "Quantum Crypto Holdings", ContactEmail: "office@quantumcrypto.com", Status: "Active"},
	}
}

// Users returns the platform users with their roles.
func Users() []models.User {
	return []models.User{
		{Name: "John Doe", Email: "john.doe@qcrypto.com", Status: "Active", Roles: []models.Role{
			{Type: models.RoleTrader, Companies: []uint{1, 3}, DailyLimit: d("500000")},
			{Type: models.RoleMiddleOffice, Companies: []uint{1}},
		}},
		{Name: "Sarah Miller", Email: "sarah.miller@qcrypto.com", Status: "Active", Roles: []models.Role{
			{Type: models.RoleAdmin, Privileges: []string{"Add Users", "Manage Profits", "Manage Settlements", "Manage Other Admins"}},
		}},
		{Name: "Michael Chen", Email: "michael.chen@qcrypto.com", Status: "Active", Roles: []models.Role{
			{Type: models.RoleTrader, Companies: []uint{2, 5}, DailyLimit: d("1000000")},
		}},
		{Name: "Emma Schmidt", Email: "emma.schmidt@qcrypto.com", Status: "Active", Roles: []models.Role{
			{Type: models.RoleMiddleOffice, Companies: []uint{3, 5}},
		}},
		{Name: "David Park", Email: "david.park@qcrypto.com", Status: "Inactive", Roles: []models.Role{
			{Type: models.RoleTrader, Companies: []uint{5}, DailyLimit: d("250000")},
		}},
	}
}
