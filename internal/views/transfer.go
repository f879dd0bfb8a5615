package views

import (
	"context"

	"github.com/punchamoorthee/bankdash/internal/listing"
	"github.com/punchamoorthee/bankdash/internal/service"
	"github.com/punchamoorthee/bankdash/internal/store"
)

// TransferPage wraps the transfer form with the account it was opened from.
type TransferPage struct {
	store *store.Store
	from  int64

	Loading bool
	Form    *service.TransferForm
}

// NewTransferPage opens the form; from is the pre-selected source or zero.
func NewTransferPage(s *store.Store, from int64) *TransferPage {
	return &TransferPage{
		store:   s,
		from:    from,
		Loading: true,
		Form:    service.NewTransferForm(s.Accounts, s.Transfers, nil),
	}
}

// Load fetches the selectable accounts and pins the source when one was given.
func (p *TransferPage) Load(ctx context.Context) error {
	err := p.Form.LoadAccounts(ctx)
	p.Loading = false
	if err != nil {
		return err
	}
	if p.from != 0 {
		if acc, ok := listing.FindAccount(p.Form.State().Accounts, p.from); ok {
			p.Form.SetFixedSource(&acc)
		}
	}
	return nil
}

// Heading is the subtitle under the form title.
func (p *TransferPage) Heading() string {
	if fixed := p.Form.State().Fixed; fixed != nil {
		return "Transfer from " + fixed.AccountHolder + "'s account"
	}
	return "Transfer funds between your accounts"
}
