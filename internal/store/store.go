// Package store is the data access seam between views and the bank service.
// Views depend on the repository interfaces; Remote backs them with the HTTP
// client and Memory with an in-process ledger.
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/bankdash/internal/domain"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// AccountRepository reads and changes accounts.
type AccountRepository interface {
	FetchAll(ctx context.Context) ([]domain.Account, error)
	FetchByID(ctx context.Context, id int64) (domain.Account, error)
	Balance(ctx context.Context, id int64) (domain.BalanceSnapshot, error)
	Interest(ctx context.Context, id int64) (domain.Document, error)
	Statement(ctx context.Context, id int64) (domain.Document, error)
	Freeze(ctx context.Context, id int64) error
	Unfreeze(ctx context.Context, id int64) error
	Create(ctx context.Context, holder string, kind domain.AccountType, balance decimal.Decimal) (domain.Account, error)
}

// TransactionRepository reads the ledger.
type TransactionRepository interface {
	FetchAll(ctx context.Context) ([]domain.Transaction, error)
	FetchByID(ctx context.Context, id int64) (domain.Transaction, error)
	// ForAccount returns the account's transactions in service order.
	ForAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}

// TransferGateway submits transfers.
type TransferGateway interface {
	Transfer(ctx context.Context, req domain.TransferRequest) error
}

// Store bundles the repositories a view may need.
type Store struct {
	Accounts     AccountRepository
	Transactions TransactionRepository
	Transfers    TransferGateway
}
