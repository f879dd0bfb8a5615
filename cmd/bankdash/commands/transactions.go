package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/punchamoorthee/bankdash/cmd/bankdash/output"
	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/format"
	"github.com/punchamoorthee/bankdash/internal/listing"
	"github.com/punchamoorthee/bankdash/internal/views"
)

var (
	// Transactions flags
	txSearch  string
	txType    string
	txAccount string
	txSort    string
)

// transactionsCmd groups the ledger commands
var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "Inspect the transaction ledger",
}

var transactionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	Long: `List the team's transactions, newest first by default.

Examples:
  bankdash transactions list                          # Whole ledger
  bankdash transactions list --search rent            # Description or id match
  bankdash transactions list --type deposit --account 3
  bankdash transactions list --sort amount --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransactionsList(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(transactionsCmd)
	transactionsCmd.AddCommand(transactionsListCmd)

	transactionsListCmd.Flags().StringVar(&txSearch, "search", "", "Match description or transaction id")
	transactionsListCmd.Flags().StringVar(&txType, "type", listing.All, "Transaction type or all")
	transactionsListCmd.Flags().StringVar(&txAccount, "account", listing.All, "Account id or all")
	transactionsListCmd.Flags().StringVar(&txSort, "sort", string(listing.SortByDate), "Sort by date, amount, type or account")
}

func runTransactionsList(ctx context.Context) error {
	s, _, err := open()
	if err != nil {
		return err
	}
	page := views.NewTransactionsPage(s)
	page.Query = listing.TransactionQuery{
		Search:  txSearch,
		Type:    txType,
		Account: txAccount,
		Sort:    listing.ParseTransactionSort(txSort),
	}
	if err := page.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", page.Err, err)
	}

	visible := page.Visible()
	if jsonOutput {
		return output.JSON(visible)
	}
	if len(visible) == 0 {
		output.Warning("No transactions found. %s", page.EmptyHint())
		return nil
	}

	stats := page.Stats()
	output.Section("Transactions")
	printTransactions(visible, page.Holder)
	fmt.Fprintln(output.Out)
	output.Muted("%s • Net %s • %d deposits • %d withdrawals",
		page.Summary(), format.Currency(stats.Net), stats.Deposits, stats.Withdrawals)
	return nil
}

// printTransactions prints a ledger table; holder may be nil when every row
// belongs to the same account.
func printTransactions(txs []domain.Transaction, holder func(int64) string) {
	headers := []string{"ID", "DATE", "TYPE", "DESCRIPTION", "AMOUNT", "BALANCE"}
	if holder != nil {
		headers = append(headers, "ACCOUNT")
	}
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		row := []string{
			strconv.FormatInt(tx.ID, 10),
			format.DateTime(tx.Timestamp),
			format.TypeLabel(tx.Type),
			format.Description(tx),
			output.Amount(format.SignedAmount(tx), tx.Type.Outflow()),
			format.Currency(tx.BalanceAfter),
		}
		if holder != nil {
			name := holder(tx.AccountID)
			if name == "" {
				name = "#" + strconv.FormatInt(tx.AccountID, 10)
			}
			row = append(row, name)
		}
		rows = append(rows, row)
	}
	output.Table(headers, rows)
}
