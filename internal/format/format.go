// Package format renders domain values for display. Nothing here is sent
// back to the bank service.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/bankdash/internal/domain"
)

const invalidDate = "Invalid Date"

// Currency renders an amount as US dollars, e.g. $1,234.56 or -$5.00.
func Currency(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if neg && fixed != "0.00" {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// Date renders a short date such as Jan 2, 2006.
func Date(t time.Time) string {
	if t.IsZero() {
		return invalidDate
	}
	return t.Format("Jan 2, 2006")
}

// LongDate renders a date such as January 2, 2006.
func LongDate(t time.Time) string {
	if t.IsZero() {
		return invalidDate
	}
	return t.Format("January 2, 2006")
}

// DateTime renders a date with a 12-hour clock, e.g. Jan 2, 2006, 03:04 PM.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return invalidDate
	}
	return t.Format("Jan 2, 2006, 03:04 PM")
}

// TypeLabel is the human label of a transaction type.
func TypeLabel(t domain.TxType) string {
	switch t {
	case domain.Deposit:
		return "Deposit"
	case domain.Withdrawal:
		return "Withdrawal"
	case domain.TransferIn:
		return "Transfer In"
	case domain.TransferOut:
		return "Transfer Out"
	case "":
		return "Transaction"
	default:
		return string(t)
	}
}

// DisplayName is the one-line label used in account pickers.
func DisplayName(a domain.Account) string {
	return a.AccountHolder + " (" + a.AccountNumber + ") - " + Currency(a.Balance)
}

// SignedAmount prefixes the amount with - for outflows and + otherwise.
func SignedAmount(tx domain.Transaction) string {
	if tx.Type.Outflow() {
		return "-" + Currency(tx.Amount)
	}
	return "+" + Currency(tx.Amount)
}

// Description falls back to a placeholder for blank descriptions.
func Description(tx domain.Transaction) string {
	if strings.TrimSpace(tx.Description) == "" {
		return "No description"
	}
	return tx.Description
}
