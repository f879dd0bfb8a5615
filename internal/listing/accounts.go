// Package listing derives the searched, filtered and sorted projections the
// list views display. Inputs are never modified.
package listing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/punchamoorthee/bankdash/internal/domain"
)

// All disables a categorical filter.
const All = "all"

// AccountSort orders the accounts page.
type AccountSort string

const (
	SortByName    AccountSort = "name"
	SortByBalance AccountSort = "balance"
	SortByType    AccountSort = "type"
	SortByCreated AccountSort = "date"
)

// AccountSorts lists the choices in display order.
var AccountSorts = []AccountSort{SortByName, SortByBalance, SortByType, SortByCreated}

// ParseAccountSort falls back to sorting by name.
func ParseAccountSort(s string) AccountSort {
	for _, v := range AccountSorts {
		if string(v) == s {
			return v
		}
	}
	return SortByName
}

func (s AccountSort) Label() string {
	switch s {
	case SortByBalance:
		return "Balance"
	case SortByType:
		return "Type"
	case SortByCreated:
		return "Date Created"
	default:
		return "Name"
	}
}

// AccountQuery is the accounts page's search, filter and sort state.
type AccountQuery struct {
	Search string
	// Type is an account type or All.
	Type string
	Sort AccountSort
}

// MatchAccount reports whether term occurs in the holder name or the
// account number, ignoring case. An empty term matches everything.
func MatchAccount(a domain.Account, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(a.AccountHolder), term) ||
		strings.Contains(strings.ToLower(a.AccountNumber), term)
}

// Accounts applies search, then type filter, then a stable sort.
func Accounts(all []domain.Account, q AccountQuery) []domain.Account {
	out := make([]domain.Account, 0, len(all))
	for _, a := range all {
		if !MatchAccount(a, q.Search) {
			continue
		}
		if q.Type != "" && q.Type != All && string(a.AccountType) != q.Type {
			continue
		}
		out = append(out, a)
	}

	switch ParseAccountSort(string(q.Sort)) {
	case SortByName:
		col := newCollator()
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].AccountHolder, out[j].AccountHolder) < 0
		})
	case SortByBalance:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Balance.GreaterThan(out[j].Balance)
		})
	case SortByType:
		col := newCollator()
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(string(out[i].AccountType), string(out[j].AccountType)) < 0
		})
	case SortByCreated:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// AccountStats are the summary cards above account lists.
type AccountStats struct {
	TotalBalance decimal.Decimal
	Active       int
	Count        int
}

// SummarizeAccounts totals the full, unfiltered list.
func SummarizeAccounts(all []domain.Account) AccountStats {
	stats := AccountStats{TotalBalance: decimal.Zero, Count: len(all)}
	for _, a := range all {
		stats.TotalBalance = stats.TotalBalance.Add(a.Balance)
		if a.IsActive() {
			stats.Active++
		}
	}
	return stats
}

// FindAccount looks an account up by id.
func FindAccount(all []domain.Account, id int64) (domain.Account, bool) {
	for _, a := range all {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Account{}, false
}

// newCollator compares strings the way a browser's localeCompare does for
// English text. Collators are not safe for concurrent use, so each sort
// builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}
