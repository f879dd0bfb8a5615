package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchamoorthee/bankdash/cmd/bankdash/output"
	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/listing"
)

// resetFlags restores flag variables between runs; cobra only assigns the
// flags present on the command line.
func resetFlags() {
	apiURL, teamID, demo, verbose, jsonOutput = "", "", false, false, false
	accountSearch, accountType, accountSort = "", listing.All, "name"
	createHolder, createType, createBalance = "", "checking", ""
	txSearch, txType, txAccount, txSort = "", listing.All, listing.All, "date"
	transferFrom, transferTo, transferAmount, transferDescription = 0, 0, "", ""
	benchWorkers, benchDuration, benchWorkload = 10, 10*time.Second, "dashboard"
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	output.Out = &buf
	t.Cleanup(func() { output.Out = os.Stdout })

	resetFlags()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAccountsList(t *testing.T) {
	out, err := execute(t, "accounts", "list", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice Brown")
	assert.Contains(t, out, "Showing 4 of 4 accounts")
	assert.Contains(t, out, "$18,750.75")

	out, err = execute(t, "accounts", "list", "--demo", "--search", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "Try adjusting your search terms")
}

func TestAccountsListJSON(t *testing.T) {
	out, err := execute(t, "accounts", "list", "--demo", "--type", "savings", "--sort", "balance", "--json")
	require.NoError(t, err)

	var accounts []domain.Account
	require.NoError(t, json.Unmarshal([]byte(out), &accounts))
	require.Len(t, accounts, 2)
	assert.Equal(t, "Alice Brown", accounts[0].AccountHolder)
}

func TestAccountsShow(t *testing.T) {
	out, err := execute(t, "accounts", "show", "4", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Suspicious activity")
	assert.Contains(t, out, "$12,000.00")

	_, err = execute(t, "accounts", "show", "99", "--demo")
	assert.EqualError(t, err, "account 99 not found")

	_, err = execute(t, "accounts", "show", "abc", "--demo")
	assert.Error(t, err)
}

func TestAccountsCreate(t *testing.T) {
	_, err := execute(t, "accounts", "create", "--demo", "--holder", " ", "--balance", "10")
	require.Error(t, err)
	assert.Equal(t, "Account holder name is required", err.Error())

	out, err := execute(t, "accounts", "create", "--demo", "--holder", "Carol White", "--type", "savings", "--balance", "80")
	require.NoError(t, err)
	assert.Contains(t, out, "Account created successfully!")
	assert.Contains(t, out, "ACC0000005")
}

func TestAccountsFreezeAndDocuments(t *testing.T) {
	out, err := execute(t, "accounts", "freeze", "1", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "is now frozen")

	out, err = execute(t, "accounts", "interest", "2", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Interest Calculation")
	assert.Contains(t, out, "annualInterest")

	out, err = execute(t, "accounts", "statement", "2", "--demo", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"accountHolder"`)

	out, err = execute(t, "accounts", "balance", "3", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "$250.75")
}

func TestTransactionsList(t *testing.T) {
	out, err := execute(t, "transactions", "list", "--demo", "--account", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 2 of 6 transactions")
	assert.Contains(t, out, "ATM withdrawal")
	assert.Contains(t, out, "Bob Johnson")
}

func TestTransfer(t *testing.T) {
	out, err := execute(t, "transfer", "--demo", "--from", "1", "--to", "2", "--amount", "50", "--description", "Test transfer")
	require.NoError(t, err)
	assert.Contains(t, out, "Transfer completed successfully!")
	assert.Contains(t, out, "John Doe → Jane Smith")

	_, err = execute(t, "transfer", "--demo", "--from", "1", "--to", "2", "--amount", "5000", "--description", "too much")
	assert.EqualError(t, err, "Insufficient balance in source account")

	_, err = execute(t, "transfer", "--demo", "--from", "1", "--to", "4", "--amount", "5", "--description", "frozen")
	assert.EqualError(t, err, "Account is frozen")

	_, err = execute(t, "transfer", "--demo", "--from", "1")
	assert.EqualError(t, err, "All fields are required")
}

func TestInfoAgainstRemote(t *testing.T) {
	var team string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		team = r.URL.Query().Get("teamId")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Workshop Bank API","version":"2.1"}`))
	}))
	defer srv.Close()

	out, err := execute(t, "info", "--api-url", srv.URL, "--team", "team-7")
	require.NoError(t, err)
	assert.Equal(t, "team-7", team)
	assert.Contains(t, out, "Workshop Bank API")
	assert.Contains(t, out, "team team-7")
}

func TestRemoteFailureMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := execute(t, "accounts", "list", "--api-url", srv.URL)
	require.Error(t, err)
	assert.NotEmpty(t, bankapi.Message(err, "Command failed"))
}

func TestBench(t *testing.T) {
	out, err := execute(t, "bench", "--demo", "--workers", "2", "--duration", "50ms", "--workload", "mixed", "--json")
	require.NoError(t, err)

	var res benchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "mixed", res.Workload)
	assert.Positive(t, res.Loads)
	assert.Zero(t, res.Failures)

	_, err = execute(t, "bench", "--demo", "--workload", "hotspot")
	assert.EqualError(t, err, `unknown workload "hotspot"`)
}
