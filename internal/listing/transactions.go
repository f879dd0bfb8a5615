package listing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/bankdash/internal/domain"
)

// TransactionSort orders the transactions page.
type TransactionSort string

const (
	SortByDate    TransactionSort = "date"
	SortByAmount  TransactionSort = "amount"
	SortByTxType  TransactionSort = "type"
	SortByAccount TransactionSort = "account"
)

var TransactionSorts = []TransactionSort{SortByDate, SortByAmount, SortByTxType, SortByAccount}

// ParseTransactionSort falls back to newest first.
func ParseTransactionSort(s string) TransactionSort {
	for _, v := range TransactionSorts {
		if string(v) == s {
			return v
		}
	}
	return SortByDate
}

func (s TransactionSort) Label() string {
	switch s {
	case SortByAmount:
		return "Amount"
	case SortByTxType:
		return "Type"
	case SortByAccount:
		return "Account"
	default:
		return "Date"
	}
}

// TransactionQuery is the transactions page's search, filter and sort state.
type TransactionQuery struct {
	Search string
	// Type is a transaction type or All.
	Type string
	// Account is a decimal account id or All.
	Account string
	Sort    TransactionSort
}

// MatchTransaction reports whether term occurs in the description (ignoring
// case) or in the decimal id.
func MatchTransaction(tx domain.Transaction, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(tx.Description), strings.ToLower(term)) ||
		strings.Contains(strconv.FormatInt(tx.ID, 10), term)
}

// Transactions applies search, type filter, account filter, then a stable sort.
func Transactions(all []domain.Transaction, q TransactionQuery) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(all))
	for _, tx := range all {
		if !MatchTransaction(tx, q.Search) {
			continue
		}
		if q.Type != "" && q.Type != All && string(tx.Type) != q.Type {
			continue
		}
		if q.Account != "" && q.Account != All && strconv.FormatInt(tx.AccountID, 10) != q.Account {
			continue
		}
		out = append(out, tx)
	}

	switch ParseTransactionSort(string(q.Sort)) {
	case SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Timestamp.After(out[j].Timestamp)
		})
	case SortByAmount:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Amount.GreaterThan(out[j].Amount)
		})
	case SortByTxType:
		col := newCollator()
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(string(out[i].Type), string(out[j].Type)) < 0
		})
	case SortByAccount:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].AccountID < out[j].AccountID
		})
	}
	return out
}

// ForAccount keeps the transactions owned by accountID, in input order.
func ForAccount(all []domain.Transaction, accountID int64) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	for _, tx := range all {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out
}

// TransactionStats are the summary cards above the transactions list.
type TransactionStats struct {
	// Net counts deposits and incoming transfers as positive, everything
	// else as negative.
	Net         decimal.Decimal
	Count       int
	Deposits    int
	Withdrawals int
}

func SummarizeTransactions(all []domain.Transaction) TransactionStats {
	stats := TransactionStats{Net: decimal.Zero, Count: len(all)}
	for _, tx := range all {
		if tx.Type.Inflow() {
			stats.Net = stats.Net.Add(tx.Amount)
		} else {
			stats.Net = stats.Net.Sub(tx.Amount)
		}
		switch tx.Type {
		case domain.Deposit:
			stats.Deposits++
		case domain.Withdrawal:
			stats.Withdrawals++
		}
	}
	return stats
}

// Summary is the "Showing N of M" line under list filters.
func Summary(shown, total int, noun string) string {
	return fmt.Sprintf("Showing %d of %d %s", shown, total, noun)
}

// EmptyHint explains an empty projection.
func EmptyHint(search, noun string) string {
	if search != "" {
		return "Try adjusting your search terms"
	}
	return "No " + noun + " available"
}
