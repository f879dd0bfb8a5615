package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/domain"
)

// Memory is an in-process stand-in for the bank service. It applies the
// same rules the service reports (unknown accounts, frozen source,
// insufficient funds) and records every transfer it was asked to perform.
type Memory struct {
	mu        sync.Mutex
	accounts  []domain.Account
	txs       []domain.Transaction
	nextAcct  int64
	nextTx    int64
	now       func() time.Time
	err       error
	transfers []domain.TransferRequest
	block     chan struct{}
}

// NewMemory seeds a ledger. Ids continue after the highest seeded id.
func NewMemory(accounts []domain.Account, txs []domain.Transaction) *Memory {
	m := &Memory{
		accounts: append([]domain.Account(nil), accounts...),
		txs:      append([]domain.Transaction(nil), txs...),
		now:      time.Now,
	}
	for _, a := range m.accounts {
		if a.ID > m.nextAcct {
			m.nextAcct = a.ID
		}
	}
	for _, tx := range m.txs {
		if tx.ID > m.nextTx {
			m.nextTx = tx.ID
		}
	}
	return m
}

// Store exposes the ledger through the repository interfaces.
func (m *Memory) Store() *Store {
	return &Store{
		Accounts:     memAccounts{m},
		Transactions: memTransactions{m},
		Transfers:    m,
	}
}

// SetClock replaces the timestamp source.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// SetError makes every operation fail with err until cleared with nil.
func (m *Memory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Hold makes Transfer wait until the returned release func is called.
func (m *Memory) Hold() (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{})
	m.block = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Transfers returns every transfer request received, accepted or not.
func (m *Memory) Transfers() []domain.TransferRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TransferRequest(nil), m.transfers...)
}

func (m *Memory) Transfer(ctx context.Context, req domain.TransferRequest) error {
	m.mu.Lock()
	block := m.block
	m.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers = append(m.transfers, req)
	if m.err != nil {
		return m.err
	}

	from := m.find(req.FromAccountID)
	to := m.find(req.ToAccountID)
	switch {
	case from == nil || to == nil:
		return &bankapi.Error{Status: http.StatusNotFound, Message: "Account not found"}
	case req.FromAccountID == req.ToAccountID:
		return &bankapi.Error{Status: http.StatusBadRequest, Message: "Cannot transfer to the same account"}
	case !req.Amount.IsPositive():
		return &bankapi.Error{Status: http.StatusBadRequest, Message: "Amount must be positive"}
	case from.IsFrozen() || to.IsFrozen():
		return &bankapi.Error{Status: http.StatusUnprocessableEntity, Message: "Account is frozen"}
	case from.Balance.LessThan(req.Amount):
		return &bankapi.Error{Status: http.StatusUnprocessableEntity, Message: "Insufficient funds"}
	}

	ts := m.now()
	from.Balance = from.Balance.Sub(req.Amount)
	to.Balance = to.Balance.Add(req.Amount)
	m.appendTx(from.ID, domain.TransferOut, req.Amount, req.Description, ts, from.Balance)
	m.appendTx(to.ID, domain.TransferIn, req.Amount, req.Description, ts, to.Balance)
	return nil
}

func (m *Memory) find(id int64) *domain.Account {
	for i := range m.accounts {
		if m.accounts[i].ID == id {
			return &m.accounts[i]
		}
	}
	return nil
}

func (m *Memory) appendTx(accountID int64, kind domain.TxType, amount decimal.Decimal, desc string, ts time.Time, after decimal.Decimal) {
	m.nextTx++
	// Newest first, as the service lists them.
	m.txs = append([]domain.Transaction{{
		ID:           m.nextTx,
		AccountID:    accountID,
		Type:         kind,
		Amount:       amount,
		Description:  desc,
		Timestamp:    ts,
		BalanceAfter: after,
	}}, m.txs...)
}

type memAccounts struct{ m *Memory }

func (r memAccounts) FetchAll(ctx context.Context) ([]domain.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, r.m.err
	}
	return append([]domain.Account(nil), r.m.accounts...), nil
}

func (r memAccounts) FetchByID(ctx context.Context, id int64) (domain.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return domain.Account{}, r.m.err
	}
	acc := r.m.find(id)
	if acc == nil {
		return domain.Account{}, ErrAccountNotFound
	}
	return *acc, nil
}

func (r memAccounts) lookup(id int64) (domain.Account, error) {
	if r.m.err != nil {
		return domain.Account{}, r.m.err
	}
	acc := r.m.find(id)
	if acc == nil {
		return domain.Account{}, &bankapi.Error{Status: http.StatusNotFound, Message: "Account not found"}
	}
	return *acc, nil
}

func (r memAccounts) Balance(ctx context.Context, id int64) (domain.BalanceSnapshot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	acc, err := r.lookup(id)
	if err != nil {
		return domain.BalanceSnapshot{}, err
	}
	return domain.BalanceSnapshot{AccountID: acc.ID, Balance: acc.Balance}, nil
}

func (r memAccounts) Interest(ctx context.Context, id int64) (domain.Document, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	acc, err := r.lookup(id)
	if err != nil {
		return domain.Document{}, err
	}
	rate := decimal.RequireFromString("0.001")
	if acc.AccountType == domain.Savings {
		rate = decimal.RequireFromString("0.02")
	}
	return document(map[string]any{
		"accountId":      acc.ID,
		"annualRate":     rate.String(),
		"balance":        acc.Balance.StringFixed(2),
		"annualInterest": acc.Balance.Mul(rate).StringFixed(2),
	})
}

func (r memAccounts) Statement(ctx context.Context, id int64) (domain.Document, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	acc, err := r.lookup(id)
	if err != nil {
		return domain.Document{}, err
	}
	count := 0
	for _, tx := range r.m.txs {
		if tx.AccountID == id {
			count++
		}
	}
	return document(map[string]any{
		"accountId":        acc.ID,
		"accountHolder":    acc.AccountHolder,
		"closingBalance":   acc.Balance.StringFixed(2),
		"transactionCount": count,
		"generatedAt":      r.m.now().UTC().Format(time.RFC3339),
	})
}

func (r memAccounts) setStatus(id int64, status domain.AccountStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return r.m.err
	}
	acc := r.m.find(id)
	if acc == nil {
		return &bankapi.Error{Status: http.StatusNotFound, Message: "Account not found"}
	}
	if acc.Status == status {
		return nil
	}
	ts := r.m.now()
	acc.Status = status
	if status == domain.StatusFrozen {
		acc.FrozenAt = &ts
	} else {
		acc.UnfrozenAt = &ts
	}
	return nil
}

func (r memAccounts) Freeze(ctx context.Context, id int64) error {
	return r.setStatus(id, domain.StatusFrozen)
}

func (r memAccounts) Unfreeze(ctx context.Context, id int64) error {
	return r.setStatus(id, domain.StatusActive)
}

func (r memAccounts) Create(ctx context.Context, holder string, kind domain.AccountType, balance decimal.Decimal) (domain.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return domain.Account{}, r.m.err
	}
	if !kind.Valid() {
		return domain.Account{}, &bankapi.Error{Status: http.StatusBadRequest, Message: "Invalid account type"}
	}
	r.m.nextAcct++
	acc := domain.Account{
		ID:            r.m.nextAcct,
		AccountNumber: fmt.Sprintf("ACC%07d", r.m.nextAcct),
		AccountHolder: holder,
		AccountType:   kind,
		Balance:       balance,
		Status:        domain.StatusActive,
		CreatedAt:     r.m.now(),
	}
	r.m.accounts = append(r.m.accounts, acc)
	if balance.IsPositive() {
		r.m.appendTx(acc.ID, domain.Deposit, balance, "Initial deposit", acc.CreatedAt, balance)
	}
	return acc, nil
}

type memTransactions struct{ m *Memory }

func (r memTransactions) FetchAll(ctx context.Context) ([]domain.Transaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, r.m.err
	}
	return append([]domain.Transaction(nil), r.m.txs...), nil
}

func (r memTransactions) FetchByID(ctx context.Context, id int64) (domain.Transaction, error) {
	txs, err := r.FetchAll(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return domain.Transaction{}, ErrTransactionNotFound
}

func (r memTransactions) ForAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	txs, err := r.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0)
	for _, tx := range txs {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func document(v map[string]any) (domain.Document, error) {
	var doc domain.Document
	data, err := json.Marshal(v)
	if err != nil {
		return doc, err
	}
	err = json.Unmarshal(data, &doc)
	return doc, err
}
