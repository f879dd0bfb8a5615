package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/store"
)

func demoAccounts() []domain.Account {
	return []domain.Account{
		{ID: 1, AccountHolder: "John Doe", Balance: decimal.NewFromInt(1500), Status: domain.StatusActive},
		{ID: 2, AccountHolder: "Jane Smith", Balance: decimal.NewFromInt(500), Status: domain.StatusActive},
	}
}

func TestValidateTransferRuleOrder(t *testing.T) {
	accounts := demoAccounts()
	tests := []struct {
		name string
		in   TransferInput
		want error
	}{
		{"missing description", TransferInput{"1", "2", "10", ""}, ErrAllFieldsRequired},
		{"blank destination", TransferInput{"1", "  ", "10", "x"}, ErrAllFieldsRequired},
		// Presence wins over every later rule.
		{"missing amount with same accounts", TransferInput{"1", "1", "", "x"}, ErrAllFieldsRequired},
		{"same account with bad amount", TransferInput{"1", "1", "abc", "x"}, ErrSameAccount},
		{"non numeric amount", TransferInput{"1", "2", "abc", "x"}, ErrInvalidAmount},
		{"zero amount", TransferInput{"1", "2", "0", "x"}, ErrInvalidAmount},
		{"negative amount", TransferInput{"1", "2", "-5", "x"}, ErrInvalidAmount},
		{"over balance", TransferInput{"2", "1", "500.01", "x"}, ErrInsufficientBalance},
		{"bad id", TransferInput{"one", "2", "5", "x"}, ErrInvalidAccount},
		{"same id with leading zero", TransferInput{"1", "01", "5", "x"}, ErrSameAccount},
		{"same id with plus sign", TransferInput{"+2", "2", "5", "x"}, ErrSameAccount},
		{"huge exponent", TransferInput{"1", "2", "1e900000000", "x"}, ErrInvalidAmount},
		{"tiny exponent", TransferInput{"1", "2", "1e-900000000", "x"}, ErrInvalidAmount},
		{"too many digits", TransferInput{"1", "2", "1234567890123456789012345678901", "x"}, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateTransfer(tt.in, accounts)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateTransferBalanceBoundary(t *testing.T) {
	accounts := demoAccounts()

	req, err := ValidateTransfer(TransferInput{"2", "1", "500", "all of it"}, accounts)
	require.NoError(t, err)
	assert.Equal(t, int64(2), req.FromAccountID)
	assert.Equal(t, int64(1), req.ToAccountID)
	assert.True(t, req.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "all of it", req.Description)

	// Unknown source is left for the service to judge.
	_, err = ValidateTransfer(TransferInput{"9", "1", "1000000", "x"}, accounts)
	assert.NoError(t, err)
}

func newForm(t *testing.T, mem *store.Memory, fixed *domain.Account) *TransferForm {
	t.Helper()
	s := mem.Store()
	f := NewTransferForm(s.Accounts, s.Transfers, fixed)
	require.NoError(t, f.LoadAccounts(context.Background()))
	return f
}

func TestTransferJohnToJane(t *testing.T) {
	mem := store.NewDemo()
	f := newForm(t, mem, nil)
	start := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	f.Clock = func() time.Time { return start }
	completed := 0
	f.OnComplete = func() { completed++ }

	f.SetSource("1")
	f.SetDestination("2")
	f.SetAmount("50")
	f.SetDescription("Test transfer")
	require.NoError(t, f.Submit(context.Background()))

	sent := mem.Transfers()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(1), sent[0].FromAccountID)
	assert.Equal(t, int64(2), sent[0].ToAccountID)
	assert.True(t, sent[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "Test transfer", sent[0].Description)
	assert.Equal(t, 1, completed)

	st := f.State()
	assert.Equal(t, TransferSuccessMsg, st.Notice)
	assert.Empty(t, st.Err)
	assert.Equal(t, TransferInput{}, st.TransferInput)
	assert.False(t, st.Submitting)

	assert.True(t, f.NoticeVisible(start.Add(2999*time.Millisecond)))
	assert.False(t, f.NoticeVisible(start.Add(3000*time.Millisecond)))
}

func TestTransferSameAccountMakesNoCall(t *testing.T) {
	for _, dst := range []string{"1", "01", "+1"} {
		t.Run(dst, func(t *testing.T) {
			mem := store.NewDemo()
			f := newForm(t, mem, nil)
			f.Fill(TransferInput{Source: "1", Destination: dst, Amount: "10", Description: "loop"})

			err := f.Submit(context.Background())
			assert.ErrorIs(t, err, ErrSameAccount)
			assert.Equal(t, "Cannot transfer to the same account", f.State().Err)
			assert.Empty(t, mem.Transfers())
		})
	}
}

func TestTransferHugeAmountIsRejectedQuickly(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		_, err := ValidateTransfer(TransferInput{"1", "2", "1e900000000", "x"}, demoAccounts())
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrInvalidAmount)
	case <-time.After(time.Second):
		t.Fatal("validation did not return")
	}
}

func TestTransferFailureKeepsValues(t *testing.T) {
	mem := store.NewDemo()
	f := newForm(t, mem, nil)
	in := TransferInput{Source: "1", Destination: "4", Amount: "10", Description: "to frozen"}
	f.Fill(in)

	err := f.Submit(context.Background())
	require.Error(t, err)
	st := f.State()
	assert.Equal(t, "Account is frozen", st.Err)
	assert.Equal(t, in, st.TransferInput)
	assert.Empty(t, st.Notice)
	assert.Len(t, mem.Transfers(), 1)
}

func TestTransferFailureFallback(t *testing.T) {
	mem := store.NewDemo()
	f := newForm(t, mem, nil)
	mem.SetError(&bankapi.Error{})
	f.Fill(TransferInput{Source: "1", Destination: "2", Amount: "10", Description: "x"})

	require.Error(t, f.Submit(context.Background()))
	assert.Equal(t, "Transfer failed. Please try again.", f.State().Err)
}

func TestTransferRejectsDoubleSubmit(t *testing.T) {
	mem := store.NewDemo()
	f := newForm(t, mem, nil)
	f.Fill(TransferInput{Source: "1", Destination: "2", Amount: "10", Description: "once"})
	release := mem.Hold()

	first := make(chan error, 1)
	go func() { first <- f.Submit(context.Background()) }()
	require.Eventually(t, func() bool { return f.State().Submitting }, time.Second, time.Millisecond)

	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmitInFlight)
	release()
	require.NoError(t, <-first)
	assert.Len(t, mem.Transfers(), 1)
}

func TestTransferFixedSource(t *testing.T) {
	mem := store.NewDemo()
	john := demoAccounts()[0]
	f := newForm(t, mem, &john)

	assert.True(t, f.SourceLocked())
	f.SetSource("2")
	assert.Equal(t, "1", f.State().Source)

	f.Fill(TransferInput{Source: "3", Destination: "2", Amount: "5", Description: "pinned"})
	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, int64(1), mem.Transfers()[0].FromAccountID)
	assert.Equal(t, "1", f.State().Source)

	jane := demoAccounts()[1]
	f.SetFixedSource(&jane)
	assert.Equal(t, "2", f.State().Source)

	f.SetFixedSource(nil)
	assert.False(t, f.SourceLocked())
	assert.Empty(t, f.State().Source)
}

type failingLister struct{}

func (failingLister) FetchAll(context.Context) ([]domain.Account, error) {
	return nil, errors.New("connection refused")
}

func TestTransferAccountLoadFailure(t *testing.T) {
	f := NewTransferForm(failingLister{}, store.NewDemo(), nil)
	require.Error(t, f.LoadAccounts(context.Background()))
	assert.Equal(t, "Failed to load accounts", f.State().Err)
}

func TestDismissNotice(t *testing.T) {
	f := newForm(t, store.NewDemo(), nil)
	f.Fill(TransferInput{Source: "1", Destination: "2", Amount: "1", Description: "x"})
	require.NoError(t, f.Submit(context.Background()))
	f.DismissNotice()
	assert.False(t, f.NoticeVisible(time.Now()))
}
