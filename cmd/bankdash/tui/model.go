package tui

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/listing"
	"github.com/punchamoorthee/bankdash/internal/nav"
	"github.com/punchamoorthee/bankdash/internal/service"
	"github.com/punchamoorthee/bankdash/internal/store"
	"github.com/punchamoorthee/bankdash/internal/views"
)

// Messages
type loadedMsg struct {
	seq  int
	view loader
	err  error
}

type detailsUpdatedMsg struct {
	seq  int
	view *views.AccountDetails
	err  error
}

type documentMsg struct {
	seq     int
	title   string
	doc     domain.Document
	err     error
	errText string
}

type transferDoneMsg struct {
	seq int
	err error
}

type formAccountsMsg struct{ seq int }

type accountCreatedMsg struct {
	seq int
	err error
}

type noticeExpiredMsg struct{}

type dialogTickMsg struct{}

type loader interface {
	Load(ctx context.Context) error
}

type document struct {
	title string
	doc   domain.Document
}

// Model is the terminal dashboard. Every page open builds fresh view state
// inside a command and hands it back in a loadedMsg; seq drops replies for
// pages the user already left.
type Model struct {
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	store  *store.Store
	now    func() time.Time
	after  func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	shell nav.Shell
	seq   int

	width   int
	height  int
	spinner spinner.Model
	help    help.Model

	menuCursor int

	loading bool
	loadErr string

	dashboard *views.Dashboard
	accounts  *views.AccountsPage
	txs       *views.TransactionsPage
	details   *views.AccountDetails
	transfer  *views.TransferPage

	cursor    int
	search    textinput.Model
	searching bool

	doc       *document
	actionErr string
	busy      bool

	editor  transferEditor
	creator accountEditor
}

// New starts on the dashboard.
func New(ctx context.Context, s *store.Store) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = infoStyle

	search := textinput.New()
	search.Placeholder = "Search..."
	search.Prompt = "/ "

	m := Model{
		parent:  ctx,
		store:   s,
		now:     time.Now,
		after:   tea.Tick,
		shell:   nav.New(),
		spinner: sp,
		help:    help.New(),
		search:  search,
		creator: newAccountEditor(),
	}
	m.resetPage()
	return m
}

// Run starts the interactive dashboard
func Run(ctx context.Context, s *store.Store) error {
	p := tea.NewProgram(New(ctx, s), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

// resetPage abandons the current page: its context is cancelled and any
// reply still in flight is ignored.
func (m *Model) resetPage() {
	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = context.WithCancel(m.parent)
	m.seq++

	m.loading = true
	m.loadErr = ""
	m.dashboard, m.accounts, m.txs, m.details, m.transfer = nil, nil, nil, nil, nil
	m.cursor = 0
	m.searching = false
	m.search.SetValue("")
	m.search.Blur()
	m.doc = nil
	m.actionErr = ""
	m.busy = false
	m.editor = newTransferEditor()
}

func (m Model) navigate(shell nav.Shell) (Model, tea.Cmd) {
	m.shell = shell
	m.resetPage()
	return m, m.load()
}

// load fetches the current route into a fresh view.
func (m Model) load() tea.Cmd {
	ctx, seq, s, route := m.ctx, m.seq, m.store, m.shell.Route
	return func() tea.Msg {
		var v loader
		switch route.View {
		case nav.ViewAccounts:
			v = views.NewAccountsPage(s)
		case nav.ViewTransactions:
			v = views.NewTransactionsPage(s)
		case nav.ViewTransfer:
			from, _ := route.TransferSource()
			v = views.NewTransferPage(s, from)
		case nav.ViewAccountDetails:
			v = views.NewAccountDetails(s, route.AccountID)
		default:
			v = views.NewDashboard(s)
		}
		err := v.Load(ctx)
		return loadedMsg{seq: seq, view: v, err: err}
	}
}

func (m Model) install(msg loadedMsg) Model {
	m.loading = false
	switch v := msg.view.(type) {
	case *views.Dashboard:
		m.dashboard = v
		m.loadErr = v.Err
	case *views.AccountsPage:
		if msg.err == nil && m.accounts != nil {
			// Reload after a create keeps the dialog and the filters.
			v.Form = m.accounts.Form
			v.Query = m.accounts.Query
		}
		m.accounts = v
		m.loadErr = v.Err
	case *views.TransactionsPage:
		m.txs = v
		m.loadErr = v.Err
	case *views.AccountDetails:
		m.details = v
		m.loadErr = v.Err
		if v.NotFound {
			m.loadErr = "Account not found"
		}
	case *views.TransferPage:
		m.transfer = v
		state := v.Form.State()
		m.loadErr = state.Err
		m.editor.Bind(state)
	}
	if msg.err != nil && m.loadErr == "" {
		m.loadErr = msg.err.Error()
	}
	return m
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m.install(msg), nil

	case detailsUpdatedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.actionErr = msg.view.Err
			return m, nil
		}
		m.details = msg.view
		m.actionErr = ""
		return m, nil

	case documentMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.actionErr = msg.errText
			return m, nil
		}
		m.actionErr = ""
		m.doc = &document{title: msg.title, doc: msg.doc}
		return m, nil

	case transferDoneMsg:
		if msg.seq != m.seq || m.transfer == nil || errors.Is(msg.err, service.ErrSubmitInFlight) {
			return m, nil
		}
		if msg.err != nil {
			return m, nil
		}
		m.shell = m.shell.TransferCompleted()
		m.editor.Bind(m.transfer.Form.State())
		cmd := m.editor.setFocus(fieldFrom)
		return m, tea.Batch(cmd, m.reloadTransferAccounts(),
			m.after(service.SuccessNoticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{} }))

	case formAccountsMsg:
		if msg.seq == m.seq && m.transfer != nil {
			m.editor.Bind(m.transfer.Form.State())
		}
		return m, nil

	case noticeExpiredMsg:
		if m.transfer != nil && !m.transfer.Form.NoticeVisible(m.now()) {
			m.transfer.Form.DismissNotice()
		}
		return m, nil

	case accountCreatedMsg:
		if msg.seq != m.seq || msg.err != nil {
			return m, nil
		}
		return m, tea.Batch(m.load(),
			m.after(service.CreatedNoticeTTL, func(time.Time) tea.Msg { return dialogTickMsg{} }))

	case dialogTickMsg:
		if m.accounts != nil {
			m.accounts.Form.Tick(m.now())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) dialogOpen() bool {
	return m.shell.Route.View == nav.ViewAccounts && m.accounts != nil && m.accounts.Form.State().Open
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.dialogOpen() {
		return m.handleDialogKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.shell.Route.View == nav.ViewTransfer && m.transfer != nil && m.editor.Capturing() {
		return m.handleTransferKey(msg)
	}
	if m.shell.MenuOpen {
		return m.handleMenuKey(msg)
	}

	switch {
	case key.Matches(msg, keyQuit):
		return m, tea.Quit
	case key.Matches(msg, keyPages):
		i, _ := strconv.Atoi(msg.String())
		return m.navigate(m.shell.Go(nav.Menu[i-1].Route))
	case key.Matches(msg, keyMenu):
		m.shell = m.shell.ToggleMenu()
		m.menuCursor = 0
		for i, item := range nav.Menu {
			if m.shell.Route.Active(item) {
				m.menuCursor = i
			}
		}
		return m, nil
	case key.Matches(msg, keyRetry):
		return m.navigate(m.shell)
	}

	if m.loading || m.loadErr != "" {
		if m.shell.Route.View == nav.ViewAccountDetails && key.Matches(msg, keyBack) {
			return m.navigate(m.shell.Back())
		}
		return m, nil
	}

	switch m.shell.Route.View {
	case nav.ViewAccounts:
		return m.handleAccountsKey(msg)
	case nav.ViewTransactions:
		return m.handleTransactionsKey(msg)
	case nav.ViewAccountDetails:
		return m.handleDetailsKey(msg)
	case nav.ViewTransfer:
		return m.handleTransferKey(msg)
	default:
		return m.handleDashboardKey(msg)
	}
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keyUp):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, keyDown):
		if m.menuCursor < len(nav.Menu)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, keyOpen):
		return m.navigate(m.shell.Go(nav.Menu[m.menuCursor].Route))
	case key.Matches(msg, keyMenu), msg.String() == "esc":
		m.shell = m.shell.ToggleMenu()
	case key.Matches(msg, keyQuit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) moveCursor(msg tea.KeyMsg, n int) bool {
	switch {
	case key.Matches(msg, keyUp):
		if m.cursor > 0 {
			m.cursor--
		}
		return true
	case key.Matches(msg, keyDown):
		if m.cursor < n-1 {
			m.cursor++
		}
		return true
	}
	return false
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	accounts := m.dashboard.Accounts
	if m.moveCursor(msg, len(accounts)) {
		return m, nil
	}
	if key.Matches(msg, keyOpen) && m.cursor < len(accounts) {
		return m.navigate(m.shell.ViewDetails(accounts[m.cursor].ID))
	}
	return m, nil
}

func (m Model) handleAccountsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.accounts.Visible()
	if m.moveCursor(msg, len(visible)) {
		return m, nil
	}
	switch {
	case key.Matches(msg, keyOpen):
		if m.cursor < len(visible) {
			return m.navigate(m.shell.ViewDetails(visible[m.cursor].ID))
		}
	case key.Matches(msg, keySearch):
		m.searching = true
		m.search.SetValue(m.accounts.Query.Search)
		return m, m.search.Focus()
	case key.Matches(msg, keyType):
		m.accounts.Query.Type = cycle(m.accounts.Query.Type, accountTypeFilters())
		m.cursor = 0
	case key.Matches(msg, keySort):
		m.accounts.Query.Sort = listing.AccountSort(cycle(string(m.accounts.Query.Sort), accountSortNames()))
		m.cursor = 0
	case key.Matches(msg, keyNew):
		m.accounts.Form.Open()
		return m, m.creator.Reset()
	}
	return m, nil
}

func (m Model) handleTransactionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg, len(m.txs.Visible())) {
		return m, nil
	}
	switch {
	case key.Matches(msg, keySearch):
		m.searching = true
		m.search.SetValue(m.txs.Query.Search)
		return m, m.search.Focus()
	case key.Matches(msg, keyType):
		m.txs.Query.Type = cycle(m.txs.Query.Type, txTypeFilters())
		m.cursor = 0
	case key.Matches(msg, keyAccount):
		m.txs.Query.Account = cycle(m.txs.Query.Account, accountFilters(m.txs.Accounts))
		m.cursor = 0
	case key.Matches(msg, keySort):
		m.txs.Query.Sort = listing.TransactionSort(cycle(string(m.txs.Query.Sort), txSortNames()))
		m.cursor = 0
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	switch {
	case m.shell.Route.View == nav.ViewAccounts && m.accounts != nil:
		m.accounts.Query.Search = m.search.Value()
	case m.shell.Route.View == nav.ViewTransactions && m.txs != nil:
		m.txs.Query.Search = m.search.Value()
	}
	m.cursor = 0
	return m, cmd
}

func (m Model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keyBack):
		return m.navigate(m.shell.Back())
	case key.Matches(msg, keySend):
		return m.navigate(m.shell.TransferFrom(m.details.ID))
	}
	if m.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, keyFreeze):
		m.busy = true
		return m, m.toggleFreeze(!m.details.Account.IsFrozen())
	case key.Matches(msg, keyStmt):
		m.busy = true
		return m, m.fetchDocument("Account Statement", views.StatementFailed, (*views.AccountDetails).Statement)
	case key.Matches(msg, keyRate):
		m.busy = true
		return m, m.fetchDocument("Interest Calculation", views.InterestFailed, (*views.AccountDetails).Interest)
	}
	return m, nil
}

func (m Model) toggleFreeze(freeze bool) tea.Cmd {
	ctx, seq, s, id := m.ctx, m.seq, m.store, m.details.ID
	return func() tea.Msg {
		v := views.NewAccountDetails(s, id)
		var err error
		if freeze {
			err = v.Freeze(ctx)
		} else {
			err = v.Unfreeze(ctx)
		}
		return detailsUpdatedMsg{seq: seq, view: v, err: err}
	}
}

func (m Model) fetchDocument(title, errText string, fetch func(*views.AccountDetails, context.Context) (domain.Document, error)) tea.Cmd {
	ctx, seq, s, id := m.ctx, m.seq, m.store, m.details.ID
	return func() tea.Msg {
		doc, err := fetch(views.NewAccountDetails(s, id), ctx)
		return documentMsg{seq: seq, title: title, doc: doc, err: err, errText: errText}
	}
}

func (m Model) handleTransferKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return m, m.editor.setFocus(fieldFrom)
	}
	form := m.transfer.Form
	submit, cmd := m.editor.Update(msg, form)
	if !submit {
		return m, cmd
	}
	ctx, seq := m.ctx, m.seq
	return m, func() tea.Msg {
		return transferDoneMsg{seq: seq, err: form.Submit(ctx)}
	}
}

func (m Model) reloadTransferAccounts() tea.Cmd {
	ctx, seq, form := m.ctx, m.seq, m.transfer.Form
	return func() tea.Msg {
		_ = form.LoadAccounts(ctx)
		return formAccountsMsg{seq: seq}
	}
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := m.accounts.Form
	if msg.String() == "esc" {
		_ = form.Close()
		return m, nil
	}
	submit, cmd := m.creator.Update(msg, form)
	if !submit {
		return m, cmd
	}
	ctx, seq := m.ctx, m.seq
	return m, func() tea.Msg {
		_, err := form.Submit(ctx)
		return accountCreatedMsg{seq: seq, err: err}
	}
}

// cycle returns the option after current, wrapping around.
func cycle(current string, options []string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func accountTypeFilters() []string {
	out := []string{listing.All}
	for _, t := range domain.AccountTypes {
		out = append(out, string(t))
	}
	return out
}

func accountSortNames() []string {
	out := make([]string, 0, len(listing.AccountSorts))
	for _, s := range listing.AccountSorts {
		out = append(out, string(s))
	}
	return out
}

func txTypeFilters() []string {
	out := []string{listing.All}
	for _, t := range domain.TxTypes {
		out = append(out, string(t))
	}
	return out
}

func txSortNames() []string {
	out := make([]string, 0, len(listing.TransactionSorts))
	for _, s := range listing.TransactionSorts {
		out = append(out, string(s))
	}
	return out
}

func accountFilters(accounts []domain.Account) []string {
	out := []string{listing.All}
	for _, a := range accounts {
		out = append(out, strconv.FormatInt(a.ID, 10))
	}
	return out
}
