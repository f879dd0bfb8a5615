package views

import (
	"context"

	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/listing"
	"github.com/punchamoorthee/bankdash/internal/service"
	"github.com/punchamoorthee/bankdash/internal/store"
)

const LoadAccountsFailed = "Failed to load accounts"

// AccountsPage lists every account with search, type filter and sort, and
// hosts the create-account dialog.
type AccountsPage struct {
	store *store.Store

	Loading bool
	Err     string
	All     []domain.Account
	Query   listing.AccountQuery
	Form    *service.AccountForm
}

func NewAccountsPage(s *store.Store) *AccountsPage {
	return &AccountsPage{
		store:   s,
		Loading: true,
		Query:   listing.AccountQuery{Type: listing.All, Sort: listing.SortByName},
		Form:    service.NewAccountForm(s.Accounts),
	}
}

func (p *AccountsPage) Load(ctx context.Context) error {
	p.Loading = true
	p.Err = ""
	accounts, err := p.store.Accounts.FetchAll(ctx)
	p.Loading = false
	if err != nil {
		p.Err = LoadAccountsFailed
		return err
	}
	p.All = accounts
	return nil
}

// Visible is the searched, filtered and sorted projection.
func (p *AccountsPage) Visible() []domain.Account {
	return listing.Accounts(p.All, p.Query)
}

func (p *AccountsPage) Stats() listing.AccountStats {
	return listing.SummarizeAccounts(p.All)
}

func (p *AccountsPage) Summary() string {
	return listing.Summary(len(p.Visible()), len(p.All), "accounts")
}

func (p *AccountsPage) EmptyHint() string {
	return listing.EmptyHint(p.Query.Search, "accounts")
}

// Create submits the dialog and re-fetches the list once the account exists.
func (p *AccountsPage) Create(ctx context.Context) (domain.Account, error) {
	acc, err := p.Form.Submit(ctx)
	if err != nil {
		return acc, err
	}
	return acc, p.Load(ctx)
}
