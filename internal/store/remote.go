package store

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/listing"
)

// NewRemote backs every repository with the bank API client. Nothing is
// cached: each call is a fresh request.
func NewRemote(c *bankapi.Client) *Store {
	return &Store{
		Accounts:     remoteAccounts{c},
		Transactions: remoteTransactions{c},
		Transfers:    remoteTransfers{c},
	}
}

type remoteAccounts struct{ c *bankapi.Client }

func (r remoteAccounts) FetchAll(ctx context.Context) ([]domain.Account, error) {
	return r.c.ListAccounts(ctx)
}

// FetchByID lists accounts and picks one; the service has no single-account read.
func (r remoteAccounts) FetchByID(ctx context.Context, id int64) (domain.Account, error) {
	accounts, err := r.c.ListAccounts(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	acc, ok := listing.FindAccount(accounts, id)
	if !ok {
		return domain.Account{}, ErrAccountNotFound
	}
	return acc, nil
}

func (r remoteAccounts) Balance(ctx context.Context, id int64) (domain.BalanceSnapshot, error) {
	return r.c.GetBalance(ctx, id)
}

func (r remoteAccounts) Interest(ctx context.Context, id int64) (domain.Document, error) {
	return r.c.GetInterest(ctx, id)
}

func (r remoteAccounts) Statement(ctx context.Context, id int64) (domain.Document, error) {
	return r.c.GetStatement(ctx, id)
}

func (r remoteAccounts) Freeze(ctx context.Context, id int64) error {
	_, err := r.c.Freeze(ctx, id)
	return err
}

func (r remoteAccounts) Unfreeze(ctx context.Context, id int64) error {
	_, err := r.c.Unfreeze(ctx, id)
	return err
}

func (r remoteAccounts) Create(ctx context.Context, holder string, kind domain.AccountType, balance decimal.Decimal) (domain.Account, error) {
	return r.c.CreateAccount(ctx, holder, kind, balance)
}

type remoteTransactions struct{ c *bankapi.Client }

func (r remoteTransactions) FetchAll(ctx context.Context) ([]domain.Transaction, error) {
	return r.c.ListTransactions(ctx)
}

func (r remoteTransactions) FetchByID(ctx context.Context, id int64) (domain.Transaction, error) {
	txs, err := r.c.ListTransactions(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return domain.Transaction{}, ErrTransactionNotFound
}

// ForAccount filters the full ledger locally; the service has no per-account query.
func (r remoteTransactions) ForAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	txs, err := r.c.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return listing.ForAccount(txs, accountID), nil
}

type remoteTransfers struct{ c *bankapi.Client }

func (r remoteTransfers) Transfer(ctx context.Context, req domain.TransferRequest) error {
	_, err := r.c.Transfer(ctx, req)
	return err
}
