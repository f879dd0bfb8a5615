package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/punchamoorthee/bankdash/cmd/bankdash/output"
	"github.com/punchamoorthee/bankdash/internal/format"
	"github.com/punchamoorthee/bankdash/internal/listing"
	"github.com/punchamoorthee/bankdash/internal/service"
)

var (
	// Transfer flags
	transferFrom        int64
	transferTo          int64
	transferAmount      string
	transferDescription string
)

// transferCmd moves money between two accounts
var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer money between accounts",
	Long: `Transfer money between two accounts of the team.

The same rules as the dashboard form apply: every field is required, the
accounts must differ, and the amount must be positive and covered by the
source balance.

Examples:
  bankdash transfer --from 1 --to 2 --amount 50 --description "Rent share"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)

	transferCmd.Flags().Int64Var(&transferFrom, "from", 0, "Source account id")
	transferCmd.Flags().Int64Var(&transferTo, "to", 0, "Destination account id")
	transferCmd.Flags().StringVar(&transferAmount, "amount", "", "Amount to transfer")
	transferCmd.Flags().StringVar(&transferDescription, "description", "", "Transfer description")
}

func idField(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func runTransfer(ctx context.Context) error {
	s, _, err := open()
	if err != nil {
		return err
	}
	form := service.NewTransferForm(s.Accounts, s.Transfers, nil)
	if err := form.LoadAccounts(ctx); err != nil {
		return fmt.Errorf("%s: %w", service.LoadAccountsFailed, err)
	}
	form.Fill(service.TransferInput{
		Source:      idField(transferFrom),
		Destination: idField(transferTo),
		Amount:      transferAmount,
		Description: transferDescription,
	})
	if err := form.Submit(ctx); err != nil {
		return fmt.Errorf("%s", form.State().Err)
	}

	state := form.State()
	if jsonOutput {
		return output.JSON(map[string]any{
			"fromAccountId": transferFrom,
			"toAccountId":   transferTo,
			"amount":        transferAmount,
			"description":   transferDescription,
			"status":        "completed",
		})
	}
	output.Success("%s", state.Notice)
	from, _ := listing.FindAccount(state.Accounts, transferFrom)
	to, _ := listing.FindAccount(state.Accounts, transferTo)
	output.Muted("%s → %s", from.AccountHolder, to.AccountHolder)
	if amount, err := decimal.NewFromString(strings.TrimSpace(transferAmount)); err == nil {
		output.Muted("Amount %s", format.Currency(amount))
	}
	return nil
}
