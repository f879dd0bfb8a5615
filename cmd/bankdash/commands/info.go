package commands

import (
	"github.com/spf13/cobra"

	"github.com/punchamoorthee/bankdash/cmd/bankdash/output"
)

// infoCmd describes the remote service
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the bank API description",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := open()
		if err != nil {
			return err
		}
		if client == nil {
			output.Info("Using the in-process demo ledger")
			return nil
		}
		doc, err := client.Info(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(doc)
		}
		output.Section("Bank API")
		output.Muted("%s (team %s)", client.BaseURL(), client.TeamID())
		output.Document(doc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
