package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/listing"
	"github.com/punchamoorthee/bankdash/internal/store"
)

// Validation errors carry the text shown to the user.
var (
	ErrAllFieldsRequired   = errors.New("All fields are required")
	ErrSameAccount         = errors.New("Cannot transfer to the same account")
	ErrInvalidAmount       = errors.New("Please enter a valid amount")
	ErrInsufficientBalance = errors.New("Insufficient balance in source account")
	ErrInvalidAccount      = errors.New("Please select valid accounts")
	ErrSubmitInFlight      = errors.New("submission already in progress")
)

const (
	SuccessNoticeTTL   = 3 * time.Second
	TransferSuccessMsg = "Transfer completed successfully!"
	LoadAccountsFailed = "Failed to load accounts"
)

// AccountLister is the slice of the account repository the forms need.
type AccountLister interface {
	FetchAll(ctx context.Context) ([]domain.Account, error)
}

// TransferInput is the raw form input, exactly as typed or selected.
type TransferInput struct {
	Source      string
	Destination string
	Amount      string
	Description string
}

// ValidateTransfer applies the transfer rules in order and returns the first
// failure. The balance check is skipped when the source is not in accounts.
func ValidateTransfer(in TransferInput, accounts []domain.Account) (domain.TransferRequest, error) {
	src := strings.TrimSpace(in.Source)
	dst := strings.TrimSpace(in.Destination)
	raw := strings.TrimSpace(in.Amount)
	desc := strings.TrimSpace(in.Description)

	// 1. Presence
	if src == "" || dst == "" || raw == "" || desc == "" {
		return domain.TransferRequest{}, ErrAllFieldsRequired
	}
	// 2. Distinct accounts, compared by id so "01" and "1" collide
	fromID, fromErr := strconv.ParseInt(src, 10, 64)
	toID, toErr := strconv.ParseInt(dst, 10, 64)
	if src == dst || (fromErr == nil && toErr == nil && fromID == toID) {
		return domain.TransferRequest{}, ErrSameAccount
	}
	// 3. Amount
	amount, ok := parseMoney(raw)
	if !ok || !amount.IsPositive() {
		return domain.TransferRequest{}, ErrInvalidAmount
	}
	if fromErr != nil || toErr != nil {
		return domain.TransferRequest{}, ErrInvalidAccount
	}

	// 4. Funds, against the balance the list last reported
	if source, ok := listing.FindAccount(accounts, fromID); ok && amount.GreaterThan(source.Balance) {
		return domain.TransferRequest{}, ErrInsufficientBalance
	}

	return domain.TransferRequest{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Description:   in.Description,
	}, nil
}

// Bounds on parsed money. Comparing decimals rescales them to a common
// exponent, so unbounded exponents cost 10^N work.
const (
	maxMoneyExponent = 18
	maxMoneyDigits   = 30
)

// parseMoney parses a decimal amount within the money bounds.
func parseMoney(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if exp := d.Exponent(); exp > maxMoneyExponent || exp < -maxMoneyExponent {
		return decimal.Decimal{}, false
	}
	if len(d.Coefficient().String()) > maxMoneyDigits+1 {
		return decimal.Decimal{}, false
	}
	return d, true
}

// TransferState is a consistent copy of the form for rendering.
type TransferState struct {
	TransferInput
	Accounts   []domain.Account
	Fixed      *domain.Account
	Submitting bool
	Err        string
	Notice     string
	NoticeAt   time.Time
}

// SourceLocked reports whether the source is pinned to a pre-selected account.
func (s TransferState) SourceLocked() bool { return s.Fixed != nil }

// NoticeVisible reports whether the success notice is still showing at now.
func (s TransferState) NoticeVisible(now time.Time) bool {
	return s.Notice != "" && now.Sub(s.NoticeAt) < SuccessNoticeTTL
}

// TransferForm holds the transfer workflow for one open transfer view.
type TransferForm struct {
	mu        sync.Mutex
	accounts  AccountLister
	transfers store.TransferGateway
	state     TransferState

	// OnComplete runs after every accepted transfer.
	OnComplete func()
	// Clock stamps the success notice.
	Clock func() time.Time
}

func NewTransferForm(accounts AccountLister, transfers store.TransferGateway, fixedSource *domain.Account) *TransferForm {
	f := &TransferForm{
		accounts:  accounts,
		transfers: transfers,
		Clock:     time.Now,
	}
	f.pin(fixedSource)
	return f
}

func (f *TransferForm) pin(acc *domain.Account) {
	if acc == nil {
		f.state.Fixed = nil
		f.state.Source = ""
		return
	}
	fixed := *acc
	f.state.Fixed = &fixed
	f.state.Source = strconv.FormatInt(acc.ID, 10)
}

// LoadAccounts fetches the selectable accounts.
func (f *TransferForm) LoadAccounts(ctx context.Context) error {
	accounts, err := f.accounts.FetchAll(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state.Err = LoadAccountsFailed
		return err
	}
	f.state.Accounts = accounts
	return nil
}

// SetAccounts installs an already fetched account list.
func (f *TransferForm) SetAccounts(accounts []domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Accounts = accounts
}

// SetFixedSource re-pins the source when the pre-selected account changes identity.
func (f *TransferForm) SetFixedSource(acc *domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	old := f.state.Fixed
	switch {
	case old == nil && acc == nil:
		return
	case old != nil && acc != nil && old.ID == acc.ID:
		return
	}
	f.pin(acc)
}

// SetSource is ignored while the source is locked.
func (f *TransferForm) SetSource(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Fixed != nil {
		return
	}
	f.state.Source = v
}

func (f *TransferForm) SetDestination(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Destination = v
}

func (f *TransferForm) SetAmount(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Amount = v
}

func (f *TransferForm) SetDescription(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Description = v
}

// Fill sets every editable field at once, as a posted web form does.
func (f *TransferForm) Fill(in TransferInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Fixed == nil {
		f.state.Source = in.Source
	}
	f.state.Destination = in.Destination
	f.state.Amount = in.Amount
	f.state.Description = in.Description
}

// DismissNotice hides the success notice.
func (f *TransferForm) DismissNotice() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Notice = ""
}

func (f *TransferForm) SourceLocked() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Fixed != nil
}

func (f *TransferForm) NoticeVisible(now time.Time) bool {
	return f.State().NoticeVisible(now)
}

// State returns a copy safe to read while a submission runs.
func (f *TransferForm) State() TransferState {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state
	s.Accounts = append([]domain.Account(nil), f.state.Accounts...)
	return s
}

// Submit validates the form and issues the transfer. Validation failures
// make no call. A second Submit while one is in flight returns
// ErrSubmitInFlight.
func (f *TransferForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state.Submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.state.Err = ""
	f.state.Notice = ""
	req, err := ValidateTransfer(f.state.TransferInput, f.state.Accounts)
	if err != nil {
		f.state.Err = err.Error()
		f.mu.Unlock()
		return err
	}
	f.state.Submitting = true
	f.mu.Unlock()

	err = f.transfers.Transfer(ctx, req)

	f.mu.Lock()
	f.state.Submitting = false
	if err != nil {
		f.state.Err = bankapi.Message(err, bankapi.FallbackTransfer)
		f.mu.Unlock()
		return err
	}
	f.state.Destination = ""
	f.state.Amount = ""
	f.state.Description = ""
	if f.state.Fixed != nil {
		f.state.Source = strconv.FormatInt(f.state.Fixed.ID, 10)
	} else {
		f.state.Source = ""
	}
	f.state.Notice = TransferSuccessMsg
	f.state.NoticeAt = f.Clock()
	done := f.OnComplete
	f.mu.Unlock()

	if done != nil {
		done()
	}
	return nil
}

// IsValidation reports whether err was raised by form validation rather
// than by the service.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrAllFieldsRequired, ErrSameAccount, ErrInvalidAmount, ErrInsufficientBalance, ErrInvalidAccount,
		ErrHolderRequired, ErrTypeRequired, ErrInvalidBalance,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
