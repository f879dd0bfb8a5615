package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/format"
)

// bindings is a flat help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

// accountPicker selects one account by cycling through a list. index -1 is
// the "Select account" placeholder.
type accountPicker struct {
	Label string
	index int
}

func newAccountPicker(label string) accountPicker {
	return accountPicker{Label: label, index: -1}
}

func (p *accountPicker) Next(n int) {
	if n == 0 {
		p.index = -1
		return
	}
	p.index++
	if p.index >= n {
		p.index = -1
	}
}

func (p *accountPicker) Prev(n int) {
	if n == 0 {
		p.index = -1
		return
	}
	p.index--
	if p.index < -1 {
		p.index = n - 1
	}
}

func (p *accountPicker) Reset() { p.index = -1 }

// Select moves to the account with id, or the placeholder when absent.
func (p *accountPicker) Select(accounts []domain.Account, id string) {
	p.index = -1
	for i, a := range accounts {
		if strconv.FormatInt(a.ID, 10) == id {
			p.index = i
			return
		}
	}
}

// Value is the selected account id as the form expects it.
func (p accountPicker) Value(accounts []domain.Account) string {
	if p.index < 0 || p.index >= len(accounts) {
		return ""
	}
	return strconv.FormatInt(accounts[p.index].ID, 10)
}

func (p accountPicker) View(accounts []domain.Account, focused, locked bool) string {
	label := "Select account"
	if p.index >= 0 && p.index < len(accounts) {
		label = format.DisplayName(accounts[p.index])
	}
	switch {
	case locked:
		label = mutedStyle.Render(label + " (fixed)")
	case focused:
		label = selectedItemStyle.Render("‹ " + label + " ›")
	default:
		label = unselectedItemStyle.Render("  " + label)
	}
	return fieldLabel(p.Label, focused) + label
}

func fieldLabel(label string, focused bool) string {
	style := mutedStyle
	if focused {
		style = selectedItemStyle
	}
	return style.Width(14).Render(label)
}

// card renders one summary statistic.
func card(label, value string) string {
	return cardStyle.Render(mutedStyle.Render(label) + "\n" + titleStyle.UnsetMarginBottom().Render(value))
}

func cards(items ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

// row renders a selectable list line.
func row(text string, selected bool) string {
	if selected {
		return selectedItemStyle.Render("▸ " + text)
	}
	return unselectedItemStyle.Render("  " + text)
}

func accountLine(a domain.Account) string {
	return padRight(a.AccountHolder, 18) + padRight(a.AccountNumber, 12) +
		padRight(string(a.AccountType), 10) + padRight(format.Currency(a.Balance), 14) + FormatStatus(a.Status)
}

func transactionLine(tx domain.Transaction) string {
	return padRight(format.DateTime(tx.Timestamp), 24) + padRight(format.TypeLabel(tx.Type), 14) +
		padRight(truncate(format.Description(tx), 28), 30) +
		FormatAmount(padRight(format.SignedAmount(tx), 14), tx.Type.Outflow())
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s + " "
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// errorView is the full-page failure with its retry affordance.
func errorView(msg string) string {
	return errorStyle.Render(msg) + "\n" + mutedStyle.Render("press r to try again")
}
