package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
)

func newRemote(t *testing.T) *Store {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/accounts":
			w.Write([]byte(`[
				{"id": 1, "accountNumber": "ACC1", "accountHolder": "John Doe", "accountType": "checking", "balance": "1500", "status": "active"},
				{"id": 2, "accountNumber": "ACC2", "accountHolder": "Jane Smith", "accountType": "savings", "balance": 20, "status": "active"}
			]`))
		case "/api/transactions":
			w.Write([]byte(`[
				{"id": 10, "accountId": 1, "type": "deposit", "amount": 5},
				{"id": 11, "accountId": 2, "type": "deposit", "amount": 6},
				{"id": 12, "accountId": 1, "type": "withdrawal", "amount": 7}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "Account not found"}`))
		}
	}))
	t.Cleanup(srv.Close)

	c, err := bankapi.New(bankapi.Options{BaseURL: srv.URL, TeamID: "demo-team", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return NewRemote(c)
}

func TestRemoteFetchByID(t *testing.T) {
	s := newRemote(t)
	ctx := context.Background()

	acc, err := s.Accounts.FetchByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", acc.AccountHolder)

	_, err = s.Accounts.FetchByID(ctx, 3)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	tx, err := s.Transactions.FetchByID(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(2), tx.AccountID)

	_, err = s.Transactions.FetchByID(ctx, 13)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestRemoteForAccountFiltersLocally(t *testing.T) {
	s := newRemote(t)

	txs, err := s.Transactions.ForAccount(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, int64(10), txs[0].ID)
	assert.Equal(t, int64(12), txs[1].ID)
}

func TestRemoteSurfacesServerMessage(t *testing.T) {
	s := newRemote(t)

	_, err := s.Accounts.Balance(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, "Account not found", err.Error())
}
