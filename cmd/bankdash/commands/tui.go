package commands

import (
	"github.com/spf13/cobra"

	"github.com/punchamoorthee/bankdash/cmd/bankdash/tui"
)

// tuiCmd runs the dashboard in the terminal
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive terminal dashboard",
	Long: `Run the dashboard in the terminal.

Keys:
  1-4     dashboard, accounts, transactions, transfer
  m       toggle the menu
  enter   open the selected account
  esc     back
  q       quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := open()
		if err != nil {
			return err
		}
		return tui.Run(cmd.Context(), s)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
