package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/listing"
	"github.com/punchamoorthee/bankdash/internal/service"
	"github.com/punchamoorthee/bankdash/internal/store"
)

func TestDashboardKeepsFiveRecent(t *testing.T) {
	mem := store.NewDemo()
	d := NewDashboard(mem.Store())
	require.NoError(t, d.Load(context.Background()))

	assert.False(t, d.Loading)
	assert.Len(t, d.Accounts, 4)
	require.Len(t, d.Recent, RecentLimit)
	assert.Equal(t, int64(6), d.Recent[0].ID)

	st := d.Stats()
	assert.Equal(t, "18750.75", st.TotalBalance.StringFixed(2))
	assert.Equal(t, 3, st.ActiveAccounts)
	assert.Equal(t, 4, st.TotalAccounts)
	assert.Equal(t, 5, st.Recent)
}

func TestDashboardError(t *testing.T) {
	mem := store.NewDemo()
	mem.SetError(&bankapi.Error{Message: "Failed to fetch accounts"})
	d := NewDashboard(mem.Store())

	require.Error(t, d.Load(context.Background()))
	assert.Equal(t, "Failed to load dashboard data: Failed to fetch accounts", d.Err)
	assert.False(t, d.Loading)
}

func TestAccountsPageProjection(t *testing.T) {
	p := NewAccountsPage(store.NewDemo().Store())
	require.NoError(t, p.Load(context.Background()))

	assert.Equal(t, "Showing 4 of 4 accounts", p.Summary())
	assert.Equal(t, "Alice Brown", p.Visible()[0].AccountHolder)

	p.Query.Search = "smith"
	require.Len(t, p.Visible(), 1)
	assert.Equal(t, "Showing 1 of 4 accounts", p.Summary())

	p.Query.Search = "zzz"
	assert.Empty(t, p.Visible())
	assert.Equal(t, "Try adjusting your search terms", p.EmptyHint())

	p.Query.Search = ""
	assert.Equal(t, "No accounts available", p.EmptyHint())
}

func TestAccountsPageCreateRefetches(t *testing.T) {
	p := NewAccountsPage(store.NewDemo().Store())
	require.NoError(t, p.Load(context.Background()))

	p.Form.Open()
	p.Form.Fill(service.AccountInput{Holder: "Carol", Type: "savings", Balance: "10"})
	acc, err := p.Create(context.Background())
	require.NoError(t, err)
	assert.Len(t, p.All, 5)
	assert.Equal(t, acc.ID, p.All[4].ID)
	assert.Equal(t, "Account created successfully!", p.Form.State().Notice)
}

func TestAccountsPageLoadError(t *testing.T) {
	mem := store.NewDemo()
	mem.SetError(&bankapi.Error{Message: "down"})
	p := NewAccountsPage(mem.Store())
	require.Error(t, p.Load(context.Background()))
	assert.Equal(t, "Failed to load accounts", p.Err)
}

func TestTransactionsPage(t *testing.T) {
	p := NewTransactionsPage(store.NewDemo().Store())
	require.NoError(t, p.Load(context.Background()))

	assert.Len(t, p.Accounts, 4)
	assert.Equal(t, "Showing 6 of 6 transactions", p.Summary())
	assert.Equal(t, "Bob Johnson", p.Holder(3))
	assert.Empty(t, p.Holder(99))

	p.Query.Account = "1"
	p.Query.Sort = listing.SortByAmount
	got := p.Visible()
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)

	st := p.Stats()
	assert.Equal(t, 6, st.Count)
	assert.Equal(t, 3, st.Deposits)
	assert.Equal(t, 1, st.Withdrawals)
	assert.Equal(t, "6750.75", st.Net.StringFixed(2))
}

func TestTransactionsPageLoadError(t *testing.T) {
	mem := store.NewDemo()
	mem.SetError(&bankapi.Error{Message: "down"})
	p := NewTransactionsPage(mem.Store())
	require.Error(t, p.Load(context.Background()))
	assert.Equal(t, "Failed to load transactions", p.Err)
}

func TestAccountDetails(t *testing.T) {
	mem := store.NewDemo()
	v := NewAccountDetails(mem.Store(), 1)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	assert.True(t, v.Loaded())
	assert.Equal(t, "John Doe", v.Account.AccountHolder)
	assert.Equal(t, "1500.00", v.Balance.StringFixed(2))
	assert.Len(t, v.Transactions, 2)

	require.NoError(t, v.Freeze(ctx))
	assert.True(t, v.Account.IsFrozen())
	require.NoError(t, v.Unfreeze(ctx))
	assert.True(t, v.Account.IsActive())

	doc, err := v.Statement(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Fields)
	doc, err = v.Interest(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Fields)
}

func TestAccountDetailsErrors(t *testing.T) {
	mem := store.NewDemo()
	ctx := context.Background()

	missing := NewAccountDetails(mem.Store(), 99)
	require.Error(t, missing.Load(ctx))
	assert.True(t, missing.NotFound)
	assert.Equal(t, "Failed to load account data", missing.Err)

	v := NewAccountDetails(mem.Store(), 2)
	require.NoError(t, v.Load(ctx))
	mem.SetError(&bankapi.Error{Message: "down"})

	tests := []struct {
		name string
		run  func() error
		want string
	}{
		{"freeze", func() error { return v.Freeze(ctx) }, "Failed to freeze account"},
		{"unfreeze", func() error { return v.Unfreeze(ctx) }, "Failed to unfreeze account"},
		{"statement", func() error { _, err := v.Statement(ctx); return err }, "Failed to generate statement"},
		{"interest", func() error { _, err := v.Interest(ctx); return err }, "Failed to calculate interest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.run())
			assert.Equal(t, tt.want, v.Err)
			assert.True(t, v.Loaded(), "account stays on screen")
		})
	}
}

func TestTransferPagePinsSource(t *testing.T) {
	p := NewTransferPage(store.NewDemo().Store(), 2)
	require.NoError(t, p.Load(context.Background()))

	st := p.Form.State()
	assert.True(t, st.SourceLocked())
	assert.Equal(t, "2", st.Source)
	assert.Equal(t, "Transfer from Jane Smith's account", p.Heading())

	open := NewTransferPage(store.NewDemo().Store(), 0)
	require.NoError(t, open.Load(context.Background()))
	assert.False(t, open.Form.SourceLocked())
	assert.Equal(t, "Transfer funds between your accounts", open.Heading())
}

func TestTransferPageBalanceCheck(t *testing.T) {
	mem := store.NewDemo()
	p := NewTransferPage(mem.Store(), 3)
	require.NoError(t, p.Load(context.Background()))

	p.Form.Fill(service.TransferInput{Destination: "1", Amount: "251", Description: "too much"})
	assert.ErrorIs(t, p.Form.Submit(context.Background()), service.ErrInsufficientBalance)
	assert.Empty(t, mem.Transfers())
}
