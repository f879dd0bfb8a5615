package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/bankdash/internal/domain"
)

// DemoAccounts is the fixed set of accounts used by the demo ledger and the seeder.
func DemoAccounts() []domain.Account {
	base := time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)
	return []domain.Account{
		{ID: 1, AccountNumber: "ACC0000001", AccountHolder: "John Doe", AccountType: domain.Checking,
			Balance: decimal.RequireFromString("1500.00"), Status: domain.StatusActive, CreatedAt: base},
		{ID: 2, AccountNumber: "ACC0000002", AccountHolder: "Jane Smith", AccountType: domain.Savings,
			Balance: decimal.RequireFromString("5000.00"), Status: domain.StatusActive, CreatedAt: base.AddDate(0, 0, 3)},
		{ID: 3, AccountNumber: "ACC0000003", AccountHolder: "Bob Johnson", AccountType: domain.Checking,
			Balance: decimal.RequireFromString("250.75"), Status: domain.StatusActive, CreatedAt: base.AddDate(0, 1, 0)},
		{ID: 4, AccountNumber: "ACC0000004", AccountHolder: "Alice Brown", AccountType: domain.Savings,
			Balance: decimal.RequireFromString("12000.00"), Status: domain.StatusFrozen, CreatedAt: base.AddDate(0, 2, 10),
			FreezeReason: "Suspicious activity"},
	}
}

// DemoTransactions is an opening ledger consistent with DemoAccounts, newest first.
func DemoTransactions() []domain.Transaction {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	d := decimal.RequireFromString
	return []domain.Transaction{
		{ID: 6, AccountID: 3, Type: domain.Withdrawal, Amount: d("49.25"), Description: "ATM withdrawal",
			Timestamp: base.Add(72 * time.Hour), BalanceAfter: d("250.75")},
		{ID: 5, AccountID: 2, Type: domain.TransferIn, Amount: d("200.00"), Description: "Rent share",
			Timestamp: base.Add(48 * time.Hour), BalanceAfter: d("5000.00")},
		{ID: 4, AccountID: 1, Type: domain.TransferOut, Amount: d("200.00"), Description: "Rent share",
			Timestamp: base.Add(48 * time.Hour), BalanceAfter: d("1500.00")},
		{ID: 3, AccountID: 3, Type: domain.Deposit, Amount: d("300.00"), Description: "Opening deposit",
			Timestamp: base.Add(24 * time.Hour), BalanceAfter: d("300.00")},
		{ID: 2, AccountID: 2, Type: domain.Deposit, Amount: d("4800.00"), Description: "Opening deposit",
			Timestamp: base, BalanceAfter: d("4800.00")},
		{ID: 1, AccountID: 1, Type: domain.Deposit, Amount: d("1700.00"), Description: "Opening deposit",
			Timestamp: base, BalanceAfter: d("1700.00")},
	}
}

// NewDemo returns a Memory seeded with the demo fixtures.
func NewDemo() *Memory {
	return NewMemory(DemoAccounts(), DemoTransactions())
}
