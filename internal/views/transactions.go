package views

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/listing"
	"github.com/punchamoorthee/bankdash/internal/store"
)

const LoadTransactionsFailed = "Failed to load transactions"

// TransactionsPage lists the whole ledger with search, filters and sort.
type TransactionsPage struct {
	store *store.Store

	Loading  bool
	Err      string
	All      []domain.Transaction
	Accounts []domain.Account
	Query    listing.TransactionQuery
}

func NewTransactionsPage(s *store.Store) *TransactionsPage {
	return &TransactionsPage{
		store:   s,
		Loading: true,
		Query:   listing.TransactionQuery{Type: listing.All, Account: listing.All, Sort: listing.SortByDate},
	}
}

// Load fetches transactions and accounts concurrently.
func (p *TransactionsPage) Load(ctx context.Context) error {
	p.Loading = true
	p.Err = ""

	var txs []domain.Transaction
	var accounts []domain.Account
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = p.store.Transactions.FetchAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = p.store.Accounts.FetchAll(gctx)
		return err
	})
	err := g.Wait()
	p.Loading = false
	if err != nil {
		p.Err = LoadTransactionsFailed
		return err
	}
	p.All = txs
	p.Accounts = accounts
	return nil
}

func (p *TransactionsPage) Visible() []domain.Transaction {
	return listing.Transactions(p.All, p.Query)
}

func (p *TransactionsPage) Stats() listing.TransactionStats {
	return listing.SummarizeTransactions(p.All)
}

func (p *TransactionsPage) Summary() string {
	return listing.Summary(len(p.Visible()), len(p.All), "transactions")
}

func (p *TransactionsPage) EmptyHint() string {
	return listing.EmptyHint(p.Query.Search, "transactions")
}

// Holder names the owner of accountID, or returns "" when it is unknown.
func (p *TransactionsPage) Holder(accountID int64) string {
	acc, ok := listing.FindAccount(p.Accounts, accountID)
	if !ok {
		return ""
	}
	return acc.AccountHolder
}
