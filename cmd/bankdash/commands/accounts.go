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
	"github.com/punchamoorthee/bankdash/internal/service"
	"github.com/punchamoorthee/bankdash/internal/views"
)

var (
	// Accounts flags
	accountSearch string
	accountType   string
	accountSort   string

	createHolder  string
	createType    string
	createBalance string
)

// accountsCmd groups the account commands
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Inspect and manage accounts",
	Long: `Inspect and manage the team's accounts.

Subcommands:
  list       - List accounts with search, type filter and sort
  show       - Show one account with its transactions
  create     - Open a new account
  freeze     - Freeze an account
  unfreeze   - Unfreeze an account
  balance    - Fetch the live balance
  interest   - Calculate annual interest
  statement  - Generate a statement`,
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Long: `List accounts.

Examples:
  bankdash accounts list                        # All accounts by holder name
  bankdash accounts list --search smith         # Holder or account number match
  bankdash accounts list --type savings --sort balance
  bankdash accounts list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAccountsList(cmd.Context())
	},
}

var accountsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one account and its transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccount(args[0], func(id int64) error { return runAccountShow(cmd.Context(), id) })
	},
}

var accountsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new account",
	Long: `Open a new account.

Examples:
  bankdash accounts create --holder "Carol White" --type savings --balance 250`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAccountCreate(cmd.Context())
	},
}

var accountsFreezeCmd = &cobra.Command{
	Use:   "freeze ID",
	Short: "Freeze an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccount(args[0], func(id int64) error { return runFreeze(cmd.Context(), id, true) })
	},
}

var accountsUnfreezeCmd = &cobra.Command{
	Use:   "unfreeze ID",
	Short: "Unfreeze an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccount(args[0], func(id int64) error { return runFreeze(cmd.Context(), id, false) })
	},
}

var accountsBalanceCmd = &cobra.Command{
	Use:   "balance ID",
	Short: "Fetch an account's live balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccount(args[0], func(id int64) error { return runBalance(cmd.Context(), id) })
	},
}

var accountsInterestCmd = &cobra.Command{
	Use:   "interest ID",
	Short: "Calculate an account's annual interest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccount(args[0], func(id int64) error {
			return runDocument(cmd.Context(), id, "Interest Calculation", (*views.AccountDetails).Interest)
		})
	},
}

var accountsStatementCmd = &cobra.Command{
	Use:   "statement ID",
	Short: "Generate an account statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccount(args[0], func(id int64) error {
			return runDocument(cmd.Context(), id, "Account Statement", (*views.AccountDetails).Statement)
		})
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsListCmd, accountsShowCmd, accountsCreateCmd,
		accountsFreezeCmd, accountsUnfreezeCmd, accountsBalanceCmd, accountsInterestCmd, accountsStatementCmd)

	// Flags for accounts list
	accountsListCmd.Flags().StringVar(&accountSearch, "search", "", "Match holder name or account number")
	accountsListCmd.Flags().StringVar(&accountType, "type", listing.All, "Account type: all, checking or savings")
	accountsListCmd.Flags().StringVar(&accountSort, "sort", string(listing.SortByName), "Sort by name, balance, type or date")

	// Flags for accounts create
	accountsCreateCmd.Flags().StringVar(&createHolder, "holder", "", "Account holder name")
	accountsCreateCmd.Flags().StringVar(&createType, "type", string(domain.Checking), "Account type: checking or savings")
	accountsCreateCmd.Flags().StringVar(&createBalance, "balance", "", "Opening balance")
}

func withAccount(arg string, run func(id int64) error) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid account id %q", arg)
	}
	return run(id)
}

func runAccountsList(ctx context.Context) error {
	s, _, err := open()
	if err != nil {
		return err
	}
	page := views.NewAccountsPage(s)
	page.Query = listing.AccountQuery{
		Search: accountSearch,
		Type:   accountType,
		Sort:   listing.ParseAccountSort(accountSort),
	}
	if err := page.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", page.Err, err)
	}

	visible := page.Visible()
	if jsonOutput {
		return output.JSON(visible)
	}
	if len(visible) == 0 {
		output.Warning("No accounts found. %s", page.EmptyHint())
		return nil
	}

	stats := page.Stats()
	output.Section("Accounts")
	rows := make([][]string, 0, len(visible))
	for _, a := range visible {
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			a.AccountNumber,
			a.AccountHolder,
			string(a.AccountType),
			format.Currency(a.Balance),
			output.StatusIcon(a.Status) + " " + string(a.Status),
		})
	}
	output.Table([]string{"ID", "NUMBER", "HOLDER", "TYPE", "BALANCE", "STATUS"}, rows)
	fmt.Fprintln(output.Out)
	output.Muted("%s • Total %s • %d of %d active",
		page.Summary(), format.Currency(stats.TotalBalance), stats.Active, stats.Count)
	return nil
}

func runAccountShow(ctx context.Context, id int64) error {
	s, _, err := open()
	if err != nil {
		return err
	}
	v := views.NewAccountDetails(s, id)
	if err := v.Load(ctx); err != nil {
		if v.NotFound {
			return fmt.Errorf("account %d not found", id)
		}
		return fmt.Errorf("%s: %w", v.Err, err)
	}

	if jsonOutput {
		return output.JSON(struct {
			Account      domain.Account       `json:"account"`
			Balance      string               `json:"balance"`
			Transactions []domain.Transaction `json:"transactions"`
		}{v.Account, v.Balance.StringFixed(2), v.Transactions})
	}

	a := v.Account
	output.Section(a.AccountHolder)
	fmt.Fprintf(output.Out, "Account Number  %s\n", a.AccountNumber)
	fmt.Fprintf(output.Out, "Type            %s\n", a.AccountType)
	fmt.Fprintf(output.Out, "Status          %s %s\n", output.StatusIcon(a.Status), a.Status)
	fmt.Fprintf(output.Out, "Balance         %s\n", format.Currency(v.Balance))
	fmt.Fprintf(output.Out, "Opened          %s\n", format.LongDate(a.CreatedAt))
	if a.IsFrozen() && a.FreezeReason != "" {
		fmt.Fprintf(output.Out, "Freeze Reason   %s\n", a.FreezeReason)
	}

	output.Section("Transactions")
	if len(v.Transactions) == 0 {
		output.Muted("No transactions yet")
		return nil
	}
	printTransactions(v.Transactions, nil)
	return nil
}

func runAccountCreate(ctx context.Context) error {
	s, _, err := open()
	if err != nil {
		return err
	}
	form := service.NewAccountForm(s.Accounts)
	form.Open()
	form.Fill(service.AccountInput{Holder: createHolder, Type: createType, Balance: createBalance})
	acc, err := form.Submit(ctx)
	if err != nil {
		if msg := form.State().Err; msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}
	if jsonOutput {
		return output.JSON(acc)
	}
	output.Success("%s %s for %s", service.AccountCreatedMsg, acc.AccountNumber, acc.AccountHolder)
	return nil
}

func runFreeze(ctx context.Context, id int64, freeze bool) error {
	s, _, err := open()
	if err != nil {
		return err
	}
	v := views.NewAccountDetails(s, id)
	if freeze {
		err = v.Freeze(ctx)
	} else {
		err = v.Unfreeze(ctx)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", v.Err, err)
	}
	if jsonOutput {
		return output.JSON(v.Account)
	}
	output.Success("%s is now %s", format.DisplayName(v.Account), v.Account.Status)
	return nil
}

func runBalance(ctx context.Context, id int64) error {
	s, _, err := open()
	if err != nil {
		return err
	}
	snap, err := s.Accounts.Balance(ctx, id)
	if err != nil {
		return err
	}
	if jsonOutput {
		return output.JSON(snap)
	}
	output.Info("Account %d balance: %s", id, format.Currency(snap.Balance))
	return nil
}

type documentAction func(*views.AccountDetails, context.Context) (domain.Document, error)

func runDocument(ctx context.Context, id int64, title string, fetch documentAction) error {
	s, _, err := open()
	if err != nil {
		return err
	}
	v := views.NewAccountDetails(s, id)
	doc, err := fetch(v, ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", v.Err, err)
	}
	if jsonOutput {
		return output.JSON(doc)
	}
	output.Section(title)
	output.Document(doc)
	return nil
}
