package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/domain"
)

var (
	ErrHolderRequired = errors.New("Account holder name is required")
	ErrTypeRequired   = errors.New("Account type is required")
	ErrInvalidBalance = errors.New("Initial balance must be a valid non-negative number")
	ErrDialogBusy     = errors.New("cannot close while submitting")
)

const (
	CreatedNoticeTTL  = 2 * time.Second
	AccountCreatedMsg = "Account created successfully!"
	CreateFallback    = "Failed to create account. Please try again."
)

// AccountCreator opens accounts on the service.
type AccountCreator interface {
	Create(ctx context.Context, holder string, kind domain.AccountType, balance decimal.Decimal) (domain.Account, error)
}

// AccountInput is the raw create-account dialog input.
type AccountInput struct {
	Holder  string
	Type    string
	Balance string
}

// NewAccount is a validated create-account request.
type NewAccount struct {
	Holder  string
	Type    domain.AccountType
	Balance decimal.Decimal
}

// ValidateAccount checks holder, type, then balance.
func ValidateAccount(in AccountInput) (NewAccount, error) {
	holder := strings.TrimSpace(in.Holder)
	if holder == "" {
		return NewAccount{}, ErrHolderRequired
	}
	kind := domain.AccountType(strings.TrimSpace(in.Type))
	if !kind.Valid() {
		return NewAccount{}, ErrTypeRequired
	}
	balance, ok := parseMoney(strings.TrimSpace(in.Balance))
	if !ok || balance.IsNegative() {
		return NewAccount{}, ErrInvalidBalance
	}
	return NewAccount{Holder: holder, Type: kind, Balance: balance}, nil
}

// AccountFormState is a copy of the dialog for rendering.
type AccountFormState struct {
	AccountInput
	Open       bool
	Submitting bool
	Err        string
	Notice     string
	NoticeAt   time.Time
	Created    *domain.Account
}

// CloseDue reports whether a successful dialog should have closed by now.
func (s AccountFormState) CloseDue(now time.Time) bool {
	return s.Open && s.Notice != "" && now.Sub(s.NoticeAt) >= CreatedNoticeTTL
}

// AccountForm is the create-account dialog.
type AccountForm struct {
	mu      sync.Mutex
	creator AccountCreator
	state   AccountFormState

	// OnCreated runs after the service accepts a new account; views re-fetch here.
	OnCreated func(domain.Account)
	Clock     func() time.Time
}

func NewAccountForm(creator AccountCreator) *AccountForm {
	f := &AccountForm{creator: creator, Clock: time.Now}
	f.reset()
	return f
}

func (f *AccountForm) reset() {
	f.state = AccountFormState{AccountInput: AccountInput{Type: string(domain.Checking)}}
}

// Open shows a fresh dialog.
func (f *AccountForm) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.state.Open = true
}

// Close hides and resets the dialog unless a submission is running.
func (f *AccountForm) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Submitting {
		return ErrDialogBusy
	}
	f.reset()
	return nil
}

// Tick closes the dialog once the success notice has been shown long enough.
func (f *AccountForm) Tick(now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.state.CloseDue(now) {
		return false
	}
	f.reset()
	return true
}

func (f *AccountForm) Fill(in AccountInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.AccountInput = in
}

func (f *AccountForm) State() AccountFormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit validates and creates the account.
func (f *AccountForm) Submit(ctx context.Context) (domain.Account, error) {
	f.mu.Lock()
	if f.state.Submitting {
		f.mu.Unlock()
		return domain.Account{}, ErrSubmitInFlight
	}
	f.state.Err = ""
	f.state.Notice = ""
	req, err := ValidateAccount(f.state.AccountInput)
	if err != nil {
		f.state.Err = err.Error()
		f.mu.Unlock()
		return domain.Account{}, err
	}
	f.state.Submitting = true
	f.mu.Unlock()

	acc, err := f.creator.Create(ctx, req.Holder, req.Type, req.Balance)

	f.mu.Lock()
	f.state.Submitting = false
	if err != nil {
		f.state.Err = bankapi.Message(err, CreateFallback)
		f.mu.Unlock()
		return domain.Account{}, err
	}
	f.state.Notice = AccountCreatedMsg
	f.state.NoticeAt = f.Clock()
	f.state.Created = &acc
	done := f.OnCreated
	f.mu.Unlock()

	if done != nil {
		done(acc)
	}
	return acc, nil
}
