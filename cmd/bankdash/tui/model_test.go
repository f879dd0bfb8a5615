package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/nav"
	"github.com/punchamoorthee/bankdash/internal/store"
)

func newTestModel(t *testing.T) (Model, *store.Memory) {
	t.Helper()
	mem := store.NewDemo()
	m := New(context.Background(), mem.Store())
	m.after = func(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }
	return run(t, m, m.load()), mem
}

// run executes cmd and feeds what it yields back into the model. Commands
// that wait on a timer (cursor blink, spinner) are skipped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return m
	}
	switch msg := msg.(type) {
	case nil:
		return m
	case tea.BatchMsg:
		for _, c := range msg {
			m = run(t, m, c)
		}
		return m
	}
	next, cmd := m.Update(msg)
	return run(t, next.(Model), cmd)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = run(t, next.(Model), cmd)
	}
	return m
}

func TestDashboardLoads(t *testing.T) {
	m, _ := newTestModel(t)

	require.False(t, m.loading)
	require.Empty(t, m.loadErr)
	out := m.View()
	assert.Contains(t, out, "$18,750.75")
	assert.Contains(t, out, "John Doe")
	assert.Contains(t, out, "ATM withdrawal")
}

func TestLoadFailureAndRetry(t *testing.T) {
	mem := store.NewDemo()
	mem.SetError(&bankapi.Error{Message: "Service temporarily unavailable"})
	m := New(context.Background(), mem.Store())
	m = run(t, m, m.load())

	out := m.View()
	assert.Contains(t, out, "Failed to load dashboard data: Service temporarily unavailable")
	assert.Contains(t, out, "press r to try again")

	mem.SetError(nil)
	m = press(t, m, "r")
	assert.Empty(t, m.loadErr)
	assert.Contains(t, m.View(), "$18,750.75")
}

func TestStaleLoadIsDropped(t *testing.T) {
	mem := store.NewDemo()
	m := New(context.Background(), mem.Store())
	dashboardLoad := m.load()

	next, _ := m.Update(keyMsg("2"))
	m = next.(Model)
	require.Equal(t, nav.ViewAccounts, m.shell.Route.View)

	next, _ = m.Update(dashboardLoad())
	m = next.(Model)
	assert.True(t, m.loading, "the dashboard reply must not land on the accounts page")
	assert.Nil(t, m.dashboard)
}

func TestMenuNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "m")
	require.True(t, m.shell.MenuOpen)
	assert.Contains(t, m.View(), "Transactions")

	m = press(t, m, "down", "down", "enter")
	assert.False(t, m.shell.MenuOpen)
	assert.Equal(t, nav.Transactions(), m.shell.Route)
	assert.Contains(t, m.View(), "Showing 6 of 6 transactions")
}

func TestAccountsSearchFilterSort(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "2")
	require.NotNil(t, m.accounts)
	assert.Contains(t, m.View(), "Showing 4 of 4 accounts")

	m = press(t, m, "/", "smith", "enter")
	assert.False(t, m.searching)
	assert.Contains(t, m.View(), "Showing 1 of 4 accounts")

	m = press(t, m, "/", "zzz")
	assert.Contains(t, m.View(), "Try adjusting your search terms")

	m = press(t, m, "esc", "2", "t")
	assert.Equal(t, "checking", m.accounts.Query.Type)
	assert.Contains(t, m.View(), "Showing 2 of 4 accounts")

	m = press(t, m, "s")
	assert.Equal(t, "balance", string(m.accounts.Query.Sort))
}

func TestAccountDetailsActions(t *testing.T) {
	m, mem := newTestModel(t)

	m = press(t, m, "enter")
	require.Equal(t, nav.AccountDetails(1), m.shell.Route)
	out := m.View()
	assert.Contains(t, out, "ACC0000001")
	assert.Contains(t, out, "f Freeze Account")

	m = press(t, m, "f")
	assert.Contains(t, m.View(), "f Unfreeze Account")
	acc, err := mem.Store().Accounts.FetchByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, acc.IsFrozen())

	m = press(t, m, "s")
	assert.Contains(t, m.View(), "Account Statement")
	m = press(t, m, "i")
	assert.Contains(t, m.View(), "Interest Calculation")

	m = press(t, m, "esc")
	assert.Equal(t, nav.Dashboard(), m.shell.Route)
}

func TestAccountDetailsFailure(t *testing.T) {
	m, mem := newTestModel(t)
	m = press(t, m, "enter")
	require.NotNil(t, m.details)

	mem.SetError(&bankapi.Error{Status: 500})
	m = press(t, m, "i")
	assert.Contains(t, m.View(), "Failed to calculate interest")
	assert.False(t, m.busy)
}

func TestTransferFlow(t *testing.T) {
	m, mem := newTestModel(t)
	m = press(t, m, "4")
	require.NotNil(t, m.transfer)
	assert.Contains(t, m.View(), "Transfer funds between your accounts")

	// From John Doe (first), to Jane Smith (second).
	m = press(t, m, "right", "tab", "right", "right", "tab", "50", "tab", "Test transfer", "enter")

	require.Len(t, mem.Transfers(), 1)
	req := mem.Transfers()[0]
	assert.Equal(t, int64(1), req.FromAccountID)
	assert.Equal(t, int64(2), req.ToAccountID)
	assert.True(t, req.Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "Test transfer", req.Description)

	assert.Equal(t, 1, m.shell.Refresh)
	assert.Equal(t, nav.ViewTransfer, m.shell.Route.View)
	assert.Contains(t, m.View(), "Transfer completed successfully!")
	assert.Empty(t, m.editor.amount.Value())

	m.now = func() time.Time { return time.Now().Add(4 * time.Second) }
	next, _ := m.Update(noticeExpiredMsg{})
	m = next.(Model)
	assert.NotContains(t, m.View(), "Transfer completed successfully!")
}

func TestTransferValidationMakesNoCall(t *testing.T) {
	m, mem := newTestModel(t)
	m = press(t, m, "4", "right", "tab", "right", "tab", "10", "tab", "loop", "enter")

	assert.Empty(t, mem.Transfers())
	assert.Contains(t, m.View(), "Cannot transfer to the same account")
	assert.Equal(t, "10", m.editor.amount.Value(), "values survive a rejected submit")
}

func TestTransferFromDetails(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "down", "enter", "t")

	require.Equal(t, nav.Transfer(2), m.shell.Route)
	out := m.View()
	assert.Contains(t, out, "Transfer from Jane Smith's account")
	assert.Contains(t, out, "(fixed)")

	// The source cannot be changed.
	m = press(t, m, "right")
	assert.Equal(t, "2", m.transfer.Form.State().Source)
}

func TestCreateAccountDialog(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "2", "n")
	require.True(t, m.dialogOpen())
	assert.Contains(t, m.View(), "Create New Account")

	m = press(t, m, "enter")
	assert.Contains(t, m.View(), "Account holder name is required")

	m = press(t, m, "Carol White", "tab", "right", "tab", "80", "enter")
	state := m.accounts.Form.State()
	require.NotNil(t, state.Created)
	assert.Equal(t, domain.Savings, state.Created.AccountType)
	assert.Contains(t, m.View(), "Account created successfully!")

	m.now = func() time.Time { return time.Now().Add(3 * time.Second) }
	next, _ := m.Update(dialogTickMsg{})
	m = next.(Model)
	assert.False(t, m.dialogOpen())
	assert.Contains(t, m.View(), "Showing 5 of 5 accounts")
}

func TestDialogEscCloses(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "2", "n", "Someone", "esc")
	assert.False(t, m.dialogOpen())
	assert.Empty(t, m.accounts.Form.State().Holder)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTypingDoesNotNavigate(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "4", "tab", "tab", "1", "2")
	assert.Equal(t, nav.ViewTransfer, m.shell.Route.View)
	assert.Equal(t, "12", m.editor.amount.Value())
}

func TestCycle(t *testing.T) {
	opts := []string{"all", "checking", "savings"}
	assert.Equal(t, "checking", cycle("all", opts))
	assert.Equal(t, "all", cycle("savings", opts))
	assert.Equal(t, "all", cycle("bogus", opts))
}

func TestAccountPicker(t *testing.T) {
	accounts := store.DemoAccounts()
	p := newAccountPicker("From")
	assert.Empty(t, p.Value(accounts))

	p.Prev(len(accounts))
	assert.Equal(t, "4", p.Value(accounts))
	p.Next(len(accounts))
	assert.Empty(t, p.Value(accounts))

	p.Select(accounts, "3")
	assert.Equal(t, "3", p.Value(accounts))
	p.Select(accounts, "99")
	assert.Empty(t, p.Value(accounts))
}
