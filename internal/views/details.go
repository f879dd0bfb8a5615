package views

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/store"
)

const (
	LoadAccountFailed = "Failed to load account data"
	FreezeFailed      = "Failed to freeze account"
	UnfreezeFailed    = "Failed to unfreeze account"
	StatementFailed   = "Failed to generate statement"
	InterestFailed    = "Failed to calculate interest"
)

// AccountDetails shows one account, its balance and its transactions.
type AccountDetails struct {
	store *store.Store

	ID           int64
	Loading      bool
	Err          string
	NotFound     bool
	Account      domain.Account
	Balance      decimal.Decimal
	Transactions []domain.Transaction
}

func NewAccountDetails(s *store.Store, id int64) *AccountDetails {
	return &AccountDetails{store: s, ID: id, Loading: true}
}

// Loaded reports whether the account itself is available to render.
func (v *AccountDetails) Loaded() bool { return v.Account.ID != 0 }

// Load fetches the account, its transactions and its live balance concurrently.
func (v *AccountDetails) Load(ctx context.Context) error {
	v.Loading = true
	v.Err = ""
	v.NotFound = false

	var (
		acc    domain.Account
		accErr error
		txs    []domain.Transaction
		snap   domain.BalanceSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		acc, accErr = v.store.Accounts.FetchByID(gctx, v.ID)
		return accErr
	})
	g.Go(func() error {
		var err error
		txs, err = v.store.Transactions.ForAccount(gctx, v.ID)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = v.store.Accounts.Balance(gctx, v.ID)
		return err
	})
	err := g.Wait()
	v.Loading = false
	if err != nil {
		v.Err = LoadAccountFailed
		v.NotFound = notFound(accErr) || notFound(err)
		return err
	}
	v.Account = acc
	v.Transactions = txs
	v.Balance = snap.Balance
	return nil
}

// Freeze asks the service to freeze the account, then reloads.
func (v *AccountDetails) Freeze(ctx context.Context) error {
	if err := v.store.Accounts.Freeze(ctx, v.ID); err != nil {
		v.Err = FreezeFailed
		return err
	}
	return v.Load(ctx)
}

func (v *AccountDetails) Unfreeze(ctx context.Context) error {
	if err := v.store.Accounts.Unfreeze(ctx, v.ID); err != nil {
		v.Err = UnfreezeFailed
		return err
	}
	return v.Load(ctx)
}

func (v *AccountDetails) Statement(ctx context.Context) (domain.Document, error) {
	doc, err := v.store.Accounts.Statement(ctx, v.ID)
	if err != nil {
		v.Err = StatementFailed
	}
	return doc, err
}

func (v *AccountDetails) Interest(ctx context.Context) (domain.Document, error) {
	doc, err := v.store.Accounts.Interest(ctx, v.ID)
	if err != nil {
		v.Err = InterestFailed
	}
	return doc, err
}

func notFound(err error) bool {
	if errors.Is(err, store.ErrAccountNotFound) {
		return true
	}
	var apiErr *bankapi.Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
