package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/punchamoorthee/bankdash/internal/format"
	"github.com/punchamoorthee/bankdash/internal/listing"
	"github.com/punchamoorthee/bankdash/internal/nav"
)

// View renders the header, the current page and the key help.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	if m.shell.MenuOpen {
		b.WriteString(m.menuView())
		b.WriteString("\n")
	}
	b.WriteString(titleStyle.Render(m.shell.Route.Title()))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading...")
	case m.loadErr != "":
		b.WriteString(errorView(m.loadErr))
	default:
		b.WriteString(m.pageView())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(pageHelp(m.shell.Route))))
	return b.String()
}

func (m Model) headerView() string {
	items := []string{brandStyle.Render("🏦 Bankdash") + "  "}
	for i, item := range nav.Menu {
		label := fmt.Sprintf("%d %s", i+1, item.Label)
		if m.shell.Route.Active(item) {
			items = append(items, menuActiveStyle.Render(label))
		} else {
			items = append(items, menuItemStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, items...)
}

func (m Model) menuView() string {
	var b strings.Builder
	for i, item := range nav.Menu {
		b.WriteString(row(item.Label, i == m.menuCursor))
		b.WriteString("\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) pageView() string {
	switch m.shell.Route.View {
	case nav.ViewAccounts:
		return m.accountsView()
	case nav.ViewTransactions:
		return m.transactionsView()
	case nav.ViewAccountDetails:
		return m.detailsView()
	case nav.ViewTransfer:
		return m.transferView()
	default:
		return m.dashboardView()
	}
}

func (m Model) dashboardView() string {
	d := m.dashboard
	stats := d.Stats()

	var b strings.Builder
	b.WriteString(cards(
		card("Total Balance", format.Currency(stats.TotalBalance)),
		card("Active Accounts", strconv.Itoa(stats.ActiveAccounts)),
		card("Total Accounts", strconv.Itoa(stats.TotalAccounts)),
		card("Recent Transactions", strconv.Itoa(stats.Recent)),
	))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Accounts"))
	b.WriteString("\n")
	if len(d.Accounts) == 0 {
		b.WriteString(mutedStyle.Render("No accounts available"))
	}
	for i, a := range d.Accounts {
		b.WriteString(row(accountLine(a), i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Recent Transactions"))
	b.WriteString("\n")
	if len(d.Recent) == 0 {
		b.WriteString(mutedStyle.Render("No transactions yet"))
	}
	for _, tx := range d.Recent {
		b.WriteString(row(transactionLine(tx), false))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) searchLine(current string) string {
	if m.searching {
		return m.search.View()
	}
	if current == "" {
		return mutedStyle.Render("/ Search...")
	}
	return "/ " + current
}

func (m Model) accountsView() string {
	p := m.accounts
	stats := p.Stats()

	var b strings.Builder
	b.WriteString(cards(
		card("Total Balance", format.Currency(stats.TotalBalance)),
		card("Active Accounts", strconv.Itoa(stats.Active)),
		card("Total Accounts", strconv.Itoa(stats.Count)),
	))
	b.WriteString("\n\n")

	if state := p.Form.State(); state.Open {
		b.WriteString(m.creator.View(state))
		return b.String()
	}

	b.WriteString(m.searchLine(p.Query.Search))
	b.WriteString("   ")
	b.WriteString(mutedStyle.Render("type: " + p.Query.Type + "   sort: " + p.Query.Sort.Label()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(p.Summary()))
	b.WriteString("\n\n")

	visible := p.Visible()
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("No accounts found. " + p.EmptyHint()))
		return b.String()
	}
	for i, a := range visible {
		b.WriteString(row(accountLine(a), i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) transactionsView() string {
	p := m.txs
	stats := p.Stats()

	var b strings.Builder
	b.WriteString(cards(
		card("Net Amount", format.Currency(stats.Net)),
		card("Total Transactions", strconv.Itoa(stats.Count)),
		card("Deposits", strconv.Itoa(stats.Deposits)),
		card("Withdrawals", strconv.Itoa(stats.Withdrawals)),
	))
	b.WriteString("\n\n")

	account := p.Query.Account
	if account != listing.All {
		if id, err := strconv.ParseInt(account, 10, 64); err == nil {
			if holder := p.Holder(id); holder != "" {
				account = holder
			}
		}
	}
	b.WriteString(m.searchLine(p.Query.Search))
	b.WriteString("   ")
	b.WriteString(mutedStyle.Render("type: " + p.Query.Type + "   account: " + account + "   sort: " + p.Query.Sort.Label()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(p.Summary()))
	b.WriteString("\n\n")

	visible := p.Visible()
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("No transactions found. " + p.EmptyHint()))
		return b.String()
	}
	for i, tx := range visible {
		line := transactionLine(tx) + mutedStyle.Render(p.Holder(tx.AccountID))
		b.WriteString(row(line, i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) detailsView() string {
	v := m.details
	a := v.Account

	var b strings.Builder
	info := []string{
		fieldLabel("Holder", false) + a.AccountHolder,
		fieldLabel("Number", false) + a.AccountNumber,
		fieldLabel("Type", false) + string(a.AccountType),
		fieldLabel("Status", false) + FormatStatus(a.Status),
		fieldLabel("Balance", false) + format.Currency(v.Balance),
		fieldLabel("Opened", false) + format.LongDate(a.CreatedAt),
	}
	if a.IsFrozen() && a.FreezeReason != "" {
		info = append(info, fieldLabel("Reason", false)+a.FreezeReason)
	}
	b.WriteString(boxStyle.Render(strings.Join(info, "\n")))
	b.WriteString("\n")

	action := "f Freeze Account"
	if a.IsFrozen() {
		action = "f Unfreeze Account"
	}
	b.WriteString(mutedStyle.Render(action + " • s Statement • i Interest • t Transfer"))
	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " Working...\n")
	}
	if m.actionErr != "" {
		b.WriteString(dangerStyle.Render(m.actionErr))
		b.WriteString("\n")
	}

	if m.doc != nil {
		width := 0
		for _, f := range m.doc.doc.Fields {
			width = max(width, lipgloss.Width(f.Key))
		}
		var lines []string
		for _, f := range m.doc.doc.Fields {
			lines = append(lines, mutedStyle.Render(padRight(f.Key, width+2))+f.Value)
		}
		b.WriteString(activeBoxStyle.Render(titleStyle.Render(m.doc.title) + "\n" + strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Transactions"))
	b.WriteString("\n")
	if len(v.Transactions) == 0 {
		b.WriteString(mutedStyle.Render("No transactions yet"))
	}
	for _, tx := range v.Transactions {
		b.WriteString(row(transactionLine(tx), false))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) transferView() string {
	p := m.transfer
	var b strings.Builder
	b.WriteString(subtitleStyle.Render(p.Heading()))
	b.WriteString("\n\n")
	b.WriteString(boxStyle.Render(m.editor.View(p.Form.State(), m.now())))
	return b.String()
}
