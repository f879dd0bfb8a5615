package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the product kind of an account.
type AccountType string

const (
	Checking AccountType = "checking"
	Savings  AccountType = "savings"
)

// AccountTypes lists the known account types in display order.
var AccountTypes = []AccountType{Checking, Savings}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	return t == Checking || t == Savings
}

// AccountStatus is the freeze state of an account.
type AccountStatus string

const (
	StatusActive AccountStatus = "active"
	StatusFrozen AccountStatus = "frozen"
)

// TxType classifies a ledger movement.
type TxType string

const (
	Deposit     TxType = "deposit"
	Withdrawal  TxType = "withdrawal"
	TransferIn  TxType = "transfer_in"
	TransferOut TxType = "transfer_out"
)

// TxTypes lists the known transaction types in display order.
var TxTypes = []TxType{Deposit, Withdrawal, TransferIn, TransferOut}

// Outflow reports whether the movement takes money out of the account.
func (t TxType) Outflow() bool {
	return t == Withdrawal || t == TransferOut
}

// Inflow reports whether the movement puts money into the account.
func (t TxType) Inflow() bool {
	return t == Deposit || t == TransferIn
}

// Account mirrors the remote service's account record.
// Balance is whatever the service last reported; the client never adjusts it.
type Account struct {
	ID            int64           `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	AccountHolder string          `json:"accountHolder"`
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	FreezeReason  string          `json:"freezeReason,omitempty"`
	FrozenAt      *time.Time      `json:"frozenAt,omitempty"`
	UnfrozenAt    *time.Time      `json:"unfrozenAt,omitempty"`
}

func (a Account) IsActive() bool { return a.Status == StatusActive }
func (a Account) IsFrozen() bool { return a.Status == StatusFrozen }

// Transaction is an immutable ledger line owned by one account.
type Transaction struct {
	ID           int64           `json:"id"`
	AccountID    int64           `json:"accountId"`
	Type         TxType          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Timestamp    time.Time       `json:"timestamp"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
}

// BalanceSnapshot is the payload of the per-account balance endpoint.
type BalanceSnapshot struct {
	AccountID int64           `json:"accountId,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
}

// TransferRequest is the body of POST /api/transfer.
type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountId"`
	ToAccountID   int64           `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

// MarshalJSON sends the amount as a JSON number rather than a quoted decimal.
func (r TransferRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		FromAccountID int64       `json:"fromAccountId"`
		ToAccountID   int64       `json:"toAccountId"`
		Amount        json.Number `json:"amount"`
		Description   string      `json:"description"`
	}{r.FromAccountID, r.ToAccountID, json.Number(r.Amount.String()), r.Description})
}

// CreateAccountRequest is the body of POST /api/accounts.
type CreateAccountRequest struct {
	AccountHolder string          `json:"accountHolder"`
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	TeamID        string          `json:"teamId"`
}

// MarshalJSON sends the opening balance as a JSON number.
func (r CreateAccountRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AccountHolder string      `json:"accountHolder"`
		AccountType   AccountType `json:"accountType"`
		Balance       json.Number `json:"balance"`
		TeamID        string      `json:"teamId"`
	}{r.AccountHolder, r.AccountType, json.Number(r.Balance.String()), r.TeamID})
}
