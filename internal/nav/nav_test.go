package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitions(t *testing.T) {
	s := New()
	assert.Equal(t, Dashboard(), s.Route)

	s = s.ToggleMenu()
	assert.True(t, s.MenuOpen)
	s = s.GoAccounts()
	assert.Equal(t, ViewAccounts, s.Route.View)
	assert.False(t, s.MenuOpen, "navigation closes the menu")

	s = s.ViewDetails(7)
	assert.Equal(t, AccountDetails(7), s.Route)

	s = s.TransferFrom(7)
	from, ok := s.Route.TransferSource()
	assert.True(t, ok)
	assert.Equal(t, int64(7), from)

	s = s.GoTransfer()
	_, ok = s.Route.TransferSource()
	assert.False(t, ok, "header transfer clears the pre-selection")

	s = s.ViewDetails(3).Back()
	assert.Equal(t, Dashboard(), s.Route)
}

func TestTransferCompletedBumpsRefresh(t *testing.T) {
	s := New().GoTransfer().TransferCompleted()
	assert.Equal(t, 1, s.Refresh)
	assert.Equal(t, ViewTransfer, s.Route.View)

	s = s.GoDashboard().TransferCompleted()
	assert.Equal(t, 2, s.Refresh)
}

func TestTransitionsArePure(t *testing.T) {
	s := New()
	_ = s.GoAccounts()
	assert.Equal(t, Dashboard(), s.Route)
}

func TestTitles(t *testing.T) {
	assert.Equal(t, "Dashboard", Dashboard().Title())
	assert.Equal(t, "Accounts", Accounts().Title())
	assert.Equal(t, "Transactions", Transactions().Title())
	assert.Equal(t, "Transfer Money", Transfer(2).Title())
	assert.Equal(t, "Account Details", AccountDetails(2).Title())
}

func TestPathRoundTrip(t *testing.T) {
	for _, r := range []Route{Dashboard(), Accounts(), Transactions(), Transfer(0), Transfer(4), AccountDetails(12)} {
		assert.Equal(t, r, ParsePath(r.Path()), r.Path())
	}
}

func TestParsePathUnknown(t *testing.T) {
	for _, p := range []string{"", "/nope", "/accounts/abc", "/accounts/0", "/accounts/3/bogus", "/a/b/c/d"} {
		assert.Equal(t, Dashboard(), ParsePath(p), p)
	}
	assert.Equal(t, Accounts(), ParsePath("/accounts/"))
	assert.Equal(t, AccountDetails(3), ParsePath("/accounts/3/statement"))
}

func TestActive(t *testing.T) {
	r := Transfer(5)
	var active []string
	for _, item := range Menu {
		if r.Active(item) {
			active = append(active, item.Label)
		}
	}
	assert.Equal(t, []string{"Transfer"}, active)
	assert.False(t, AccountDetails(1).Active(Menu[1]))
}
