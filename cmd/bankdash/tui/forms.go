package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/service"
)

type transferField int

const (
	fieldFrom transferField = iota
	fieldTo
	fieldAmount
	fieldDescription
	fieldTransfer
	transferFieldCount
)

// transferEditor is the keyboard front of a service.TransferForm. It owns
// the widgets; the form owns the values and the rules.
type transferEditor struct {
	focus       transferField
	from, to    accountPicker
	amount      textinput.Model
	description textinput.Model
}

func newTransferEditor() transferEditor {
	amount := textinput.New()
	amount.Placeholder = "0.00"
	amount.CharLimit = 16
	amount.Prompt = ""

	description := textinput.New()
	description.Placeholder = "What is this transfer for?"
	description.CharLimit = 120
	description.Prompt = ""

	return transferEditor{
		from:        newAccountPicker("From"),
		to:          newAccountPicker("To"),
		amount:      amount,
		description: description,
	}
}

// Capturing reports whether printable keys belong to a text field.
func (e transferEditor) Capturing() bool {
	return e.focus == fieldAmount || e.focus == fieldDescription
}

func (e *transferEditor) setFocus(f transferField) tea.Cmd {
	e.focus = (f + transferFieldCount) % transferFieldCount
	e.amount.Blur()
	e.description.Blur()
	switch e.focus {
	case fieldAmount:
		return e.amount.Focus()
	case fieldDescription:
		return e.description.Focus()
	}
	return nil
}

// Bind adopts the form's current values, as after loading or a reset.
func (e *transferEditor) Bind(state service.TransferState) {
	e.from.Select(state.Accounts, state.Source)
	e.to.Select(state.Accounts, state.Destination)
	e.amount.SetValue(state.Amount)
	e.description.SetValue(state.Description)
}

// sync pushes the widget values into the form.
func (e transferEditor) sync(form *service.TransferForm, accounts []domain.Account) {
	form.SetSource(e.from.Value(accounts))
	form.SetDestination(e.to.Value(accounts))
	form.SetAmount(e.amount.Value())
	form.SetDescription(e.description.Value())
}

// Update handles one key. submit is true when the user asked to send.
func (e *transferEditor) Update(msg tea.KeyMsg, form *service.TransferForm) (submit bool, cmd tea.Cmd) {
	state := form.State()
	n := len(state.Accounts)

	switch msg.String() {
	case "tab", "down":
		return false, e.setFocus(e.focus + 1)
	case "shift+tab", "up":
		return false, e.setFocus(e.focus - 1)
	case "enter":
		e.sync(form, state.Accounts)
		return true, nil
	case "left", "right":
		switch e.focus {
		case fieldFrom:
			if !state.SourceLocked() {
				if msg.String() == "left" {
					e.from.Prev(n)
				} else {
					e.from.Next(n)
				}
			}
			e.sync(form, state.Accounts)
			return false, nil
		case fieldTo:
			if msg.String() == "left" {
				e.to.Prev(n)
			} else {
				e.to.Next(n)
			}
			e.sync(form, state.Accounts)
			return false, nil
		}
	}

	switch e.focus {
	case fieldAmount:
		e.amount, cmd = e.amount.Update(msg)
	case fieldDescription:
		e.description, cmd = e.description.Update(msg)
	}
	e.sync(form, state.Accounts)
	return false, cmd
}

func (e transferEditor) View(state service.TransferState, now time.Time) string {
	var b strings.Builder

	if state.NoticeVisible(now) {
		b.WriteString(noticeStyle.Render("✓ " + state.Notice))
		b.WriteString("\n\n")
	}

	b.WriteString(e.from.View(state.Accounts, e.focus == fieldFrom, state.SourceLocked()))
	b.WriteString("\n")
	b.WriteString(e.to.View(state.Accounts, e.focus == fieldTo, false))
	b.WriteString("\n")
	b.WriteString(fieldLabel("Amount ($)", e.focus == fieldAmount) + e.amount.View())
	b.WriteString("\n")
	b.WriteString(fieldLabel("Description", e.focus == fieldDescription) + e.description.View())
	b.WriteString("\n\n")

	if state.Err != "" {
		b.WriteString(dangerStyle.Render(state.Err))
		b.WriteString("\n\n")
	}

	label := "Transfer Money"
	if state.Submitting {
		label = "Processing..."
	}
	if e.focus == fieldTransfer {
		b.WriteString(activeButtonStyle.Render(label))
	} else {
		b.WriteString(inactiveButtonStyle.Render(label))
	}
	return b.String()
}

type accountField int

const (
	fieldHolder accountField = iota
	fieldType
	fieldBalance
	fieldCreate
	accountFieldCount
)

// accountEditor is the keyboard front of the create-account dialog.
type accountEditor struct {
	focus   accountField
	holder  textinput.Model
	balance textinput.Model
}

func newAccountEditor() accountEditor {
	holder := textinput.New()
	holder.Placeholder = "Full name"
	holder.CharLimit = 80
	holder.Prompt = ""

	balance := textinput.New()
	balance.Placeholder = "0.00"
	balance.CharLimit = 16
	balance.Prompt = ""

	return accountEditor{holder: holder, balance: balance}
}

// Reset clears the widgets and focuses the holder name.
func (e *accountEditor) Reset() tea.Cmd {
	e.holder.SetValue("")
	e.balance.SetValue("")
	return e.setFocus(fieldHolder)
}

func (e *accountEditor) setFocus(f accountField) tea.Cmd {
	e.focus = (f + accountFieldCount) % accountFieldCount
	e.holder.Blur()
	e.balance.Blur()
	switch e.focus {
	case fieldHolder:
		return e.holder.Focus()
	case fieldBalance:
		return e.balance.Focus()
	}
	return nil
}

func nextType(current string) string {
	for i, t := range domain.AccountTypes {
		if string(t) == current {
			return string(domain.AccountTypes[(i+1)%len(domain.AccountTypes)])
		}
	}
	return string(domain.AccountTypes[0])
}

// Update handles one key while the dialog is open.
func (e *accountEditor) Update(msg tea.KeyMsg, form *service.AccountForm) (submit bool, cmd tea.Cmd) {
	in := form.State().AccountInput
	switch msg.String() {
	case "tab", "down":
		return false, e.setFocus(e.focus + 1)
	case "shift+tab", "up":
		return false, e.setFocus(e.focus - 1)
	case "enter":
		return true, nil
	case "left", "right", " ":
		if e.focus == fieldType {
			in.Type = nextType(in.Type)
			form.Fill(in)
			return false, nil
		}
	}

	switch e.focus {
	case fieldHolder:
		e.holder, cmd = e.holder.Update(msg)
	case fieldBalance:
		e.balance, cmd = e.balance.Update(msg)
	}
	in.Holder = e.holder.Value()
	in.Balance = e.balance.Value()
	form.Fill(in)
	return false, cmd
}

func (e accountEditor) View(state service.AccountFormState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create New Account"))
	b.WriteString("\n")

	if state.Notice != "" {
		b.WriteString(noticeStyle.Render("✓ " + state.Notice))
		b.WriteString("\n\n")
	}

	b.WriteString(fieldLabel("Holder", e.focus == fieldHolder) + e.holder.View())
	b.WriteString("\n")
	kind := state.Type
	if e.focus == fieldType {
		kind = selectedItemStyle.Render("‹ " + kind + " ›")
	}
	b.WriteString(fieldLabel("Type", e.focus == fieldType) + kind)
	b.WriteString("\n")
	b.WriteString(fieldLabel("Balance ($)", e.focus == fieldBalance) + e.balance.View())
	b.WriteString("\n\n")

	if state.Err != "" {
		b.WriteString(dangerStyle.Render(state.Err))
		b.WriteString("\n\n")
	}

	label := "Create Account"
	if state.Submitting {
		label = "Creating..."
	}
	if e.focus == fieldCreate {
		b.WriteString(activeButtonStyle.Render(label))
	} else {
		b.WriteString(inactiveButtonStyle.Render(label))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next field • ←/→ change type • enter create • esc cancel"))
	return activeBoxStyle.Render(b.String())
}
