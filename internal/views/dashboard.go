// Package views holds the per-page state of the dashboard. A view is built
// fresh every time its page opens, loads its own data through the store and
// never shares it with another view.
package views

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/listing"
	"github.com/punchamoorthee/bankdash/internal/store"
)

// RecentLimit is how many transactions the dashboard lists.
const RecentLimit = 5

// DashboardStats are the four summary cards.
type DashboardStats struct {
	TotalBalance   decimal.Decimal
	ActiveAccounts int
	TotalAccounts  int
	Recent         int
}

// Dashboard is the landing page.
type Dashboard struct {
	store *store.Store

	Loading  bool
	Err      string
	Accounts []domain.Account
	Recent   []domain.Transaction
}

func NewDashboard(s *store.Store) *Dashboard {
	return &Dashboard{store: s, Loading: true}
}

// Load fetches accounts and transactions and keeps the newest few transactions.
func (d *Dashboard) Load(ctx context.Context) error {
	d.Loading = true
	d.Err = ""

	var accounts []domain.Account
	var txs []domain.Transaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = d.store.Accounts.FetchAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = d.store.Transactions.FetchAll(gctx)
		return err
	})
	err := g.Wait()
	d.Loading = false
	if err != nil {
		d.Err = "Failed to load dashboard data: " + bankapi.Message(err, bankapi.FallbackAccounts)
		return err
	}

	d.Accounts = accounts
	if len(txs) > RecentLimit {
		txs = txs[:RecentLimit]
	}
	d.Recent = txs
	return nil
}

func (d *Dashboard) Stats() DashboardStats {
	acc := listing.SummarizeAccounts(d.Accounts)
	return DashboardStats{
		TotalBalance:   acc.TotalBalance,
		ActiveAccounts: acc.Active,
		TotalAccounts:  acc.Count,
		Recent:         len(d.Recent),
	}
}
