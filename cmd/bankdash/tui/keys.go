package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/punchamoorthee/bankdash/internal/nav"
)

var (
	keyQuit    = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
	keyMenu    = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu"))
	keyPages   = key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "pages"))
	keyRetry   = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	keyUp      = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	keyDown    = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))
	keyOpen    = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	keyBack    = key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back"))
	keySearch  = key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search"))
	keyType    = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type"))
	keyAccount = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "account"))
	keySort    = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort"))
	keyNew     = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new account"))
	keyFreeze  = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "freeze/unfreeze"))
	keyStmt    = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "statement"))
	keyRate    = key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "interest"))
	keySend    = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "transfer from"))
	keyFields  = key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field"))
	keyPick    = key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "choose account"))
	keySubmit  = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "transfer"))
)

// pageHelp lists the keys that apply on r.
func pageHelp(r nav.Route) bindings {
	common := bindings{keyPages, keyMenu, keyRetry, keyQuit}
	switch r.View {
	case nav.ViewAccounts:
		return append(bindings{keyUp, keyDown, keyOpen, keySearch, keyType, keySort, keyNew}, common...)
	case nav.ViewTransactions:
		return append(bindings{keyUp, keyDown, keySearch, keyType, keyAccount, keySort}, common...)
	case nav.ViewAccountDetails:
		return append(bindings{keyFreeze, keyStmt, keyRate, keySend, keyBack}, common...)
	case nav.ViewTransfer:
		return append(bindings{keyFields, keyPick, keySubmit}, common...)
	default:
		return append(bindings{keyUp, keyDown, keyOpen}, common...)
	}
}
