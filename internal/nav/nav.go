// Package nav is the dashboard's router: which view is showing, whether the
// mobile menu is open, and the refresh generation the dashboard keys on.
// Transitions are pure; each returns the next Shell.
package nav

import (
	"strconv"
	"strings"
)

// View enumerates the top-level pages.
type View int

const (
	ViewDashboard View = iota
	ViewAccounts
	ViewTransactions
	ViewTransfer
	ViewAccountDetails
)

// Route is one of the five views. AccountID is the account shown by
// AccountDetails, or the pre-selected source of Transfer (zero for none).
type Route struct {
	View      View
	AccountID int64
}

func Dashboard() Route    { return Route{View: ViewDashboard} }
func Accounts() Route     { return Route{View: ViewAccounts} }
func Transactions() Route { return Route{View: ViewTransactions} }

// Transfer opens the transfer form; from is the fixed source or zero.
func Transfer(from int64) Route { return Route{View: ViewTransfer, AccountID: from} }

func AccountDetails(id int64) Route { return Route{View: ViewAccountDetails, AccountID: id} }

// TransferSource returns the pre-selected source account, if any.
func (r Route) TransferSource() (int64, bool) {
	return r.AccountID, r.View == ViewTransfer && r.AccountID != 0
}

func (r Route) Title() string {
	switch r.View {
	case ViewAccounts:
		return "Accounts"
	case ViewTransactions:
		return "Transactions"
	case ViewTransfer:
		return "Transfer Money"
	case ViewAccountDetails:
		return "Account Details"
	default:
		return "Dashboard"
	}
}

// Path is the web URL of the route.
func (r Route) Path() string {
	switch r.View {
	case ViewAccounts:
		return "/accounts"
	case ViewTransactions:
		return "/transactions"
	case ViewTransfer:
		if r.AccountID != 0 {
			return "/accounts/" + strconv.FormatInt(r.AccountID, 10) + "/transfer"
		}
		return "/transfer"
	case ViewAccountDetails:
		return "/accounts/" + strconv.FormatInt(r.AccountID, 10)
	default:
		return "/"
	}
}

// ParsePath maps a web URL back to a route. Unknown paths are the dashboard.
func ParsePath(path string) Route {
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	switch len(parts) {
	case 1:
		switch parts[0] {
		case "accounts":
			return Accounts()
		case "transactions":
			return Transactions()
		case "transfer":
			return Transfer(0)
		}
	case 2, 3:
		if parts[0] != "accounts" {
			break
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id <= 0 {
			break
		}
		if len(parts) == 2 {
			return AccountDetails(id)
		}
		switch parts[2] {
		case "transfer":
			return Transfer(id)
		case "statement", "interest", "freeze", "unfreeze":
			return AccountDetails(id)
		}
	}
	return Dashboard()
}

// MenuItem is one header navigation entry.
type MenuItem struct {
	Label string
	Route Route
}

// Menu lists the header entries in display order.
var Menu = []MenuItem{
	{"Dashboard", Dashboard()},
	{"Accounts", Accounts()},
	{"Transactions", Transactions()},
	{"Transfer", Transfer(0)},
}

// Active reports whether the header entry for item should be highlighted.
func (r Route) Active(item MenuItem) bool {
	return r.View == item.Route.View
}

// Shell is the root state of the dashboard.
type Shell struct {
	Route    Route
	MenuOpen bool
	// Refresh increases after every completed transfer.
	Refresh int
}

// New starts on the dashboard.
func New() Shell { return Shell{Route: Dashboard()} }

func (s Shell) navigate(r Route) Shell {
	s.Route = r
	s.MenuOpen = false
	return s
}

func (s Shell) GoDashboard() Shell    { return s.navigate(Dashboard()) }
func (s Shell) GoAccounts() Shell     { return s.navigate(Accounts()) }
func (s Shell) GoTransactions() Shell { return s.navigate(Transactions()) }

// GoTransfer opens the transfer form with no pre-selected source.
func (s Shell) GoTransfer() Shell { return s.navigate(Transfer(0)) }

func (s Shell) ViewDetails(id int64) Shell  { return s.navigate(AccountDetails(id)) }
func (s Shell) TransferFrom(id int64) Shell { return s.navigate(Transfer(id)) }

// Back leaves account details for the dashboard.
func (s Shell) Back() Shell { return s.navigate(Dashboard()) }

// Go follows a header entry or any other route.
func (s Shell) Go(r Route) Shell { return s.navigate(r) }

func (s Shell) ToggleMenu() Shell {
	s.MenuOpen = !s.MenuOpen
	return s
}

// TransferCompleted keeps the current view and marks the dashboard stale.
func (s Shell) TransferCompleted() Shell {
	s.Refresh++
	return s
}
