package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/punchamoorthee/bankdash/internal/domain"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"1500", "$1,500.00"},
		{"1234567.891", "$1,234,567.89"},
		{"999.995", "$1,000.00"},
		{"-5", "-$5.00"},
		{"-0.001", "$0.00"},
		{"100000", "$100,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Currency(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestDates(t *testing.T) {
	ts := time.Date(2024, 1, 15, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "Jan 15, 2024", Date(ts))
	assert.Equal(t, "January 15, 2024", LongDate(ts))
	assert.Equal(t, "Jan 15, 2024, 02:05 PM", DateTime(ts))
	assert.Equal(t, "Invalid Date", Date(time.Time{}))
	assert.Equal(t, "Invalid Date", DateTime(time.Time{}))
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "Deposit", TypeLabel(domain.Deposit))
	assert.Equal(t, "Withdrawal", TypeLabel(domain.Withdrawal))
	assert.Equal(t, "Transfer In", TypeLabel(domain.TransferIn))
	assert.Equal(t, "Transfer Out", TypeLabel(domain.TransferOut))
	assert.Equal(t, "interest", TypeLabel("interest"))
	assert.Equal(t, "Transaction", TypeLabel(""))
}

func TestDisplayName(t *testing.T) {
	acc := domain.Account{AccountHolder: "John Doe", AccountNumber: "ACC-1", Balance: decimal.NewFromInt(1500)}
	assert.Equal(t, "John Doe (ACC-1) - $1,500.00", DisplayName(acc))
}

func TestSignedAmountAndDescription(t *testing.T) {
	out := domain.Transaction{Type: domain.TransferOut, Amount: decimal.NewFromInt(50)}
	in := domain.Transaction{Type: domain.Deposit, Amount: decimal.NewFromInt(50), Description: "Salary"}
	assert.Equal(t, "-$50.00", SignedAmount(out))
	assert.Equal(t, "+$50.00", SignedAmount(in))
	assert.Equal(t, "No description", Description(out))
	assert.Equal(t, "Salary", Description(in))
}
