package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/punchamoorthee/bankdash/cmd/bankdash/output"
	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/config"
	"github.com/punchamoorthee/bankdash/internal/logging"
	"github.com/punchamoorthee/bankdash/internal/store"
)

var (
	// Global flags
	apiURL     string
	teamID     string
	demo       bool
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bankdash",
	Short: "Bankdash - banking dashboard for the workshop bank API",
	Long: `Bankdash is a dashboard client for a remote banking REST service.

It serves a browser dashboard, runs the same dashboard in the terminal,
and exposes one-shot commands for scripting:
  - Accounts: list, search, create, freeze, statements and interest
  - Transactions: search and filter the ledger
  - Transfers between accounts of the same team`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%s", bankapi.Message(err, "Command failed"))
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Bank API base URL (default $BANK_API_URL)")
	rootCmd.PersistentFlags().StringVar(&teamID, "team", "", "Team id scoping every request (default $BANK_TEAM_ID)")
	rootCmd.PersistentFlags().BoolVar(&demo, "demo", false, "Use the in-process demo ledger instead of the remote service")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// loadConfig applies the global flags over the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if teamID != "" {
		cfg.TeamID = teamID
	}
	return cfg, nil
}

// cliLogger stays silent unless --verbose, so command output is not mixed
// with log lines.
func cliLogger() (*logging.Logger, error) {
	if !verbose {
		return logging.NewNop(), nil
	}
	cfg := logging.DevelopmentConfig()
	cfg.Output = "stderr"
	return logging.New(cfg)
}

// connect builds the store every command reads through. The client is nil
// in demo mode.
func connect(log *logging.Logger) (*store.Store, *bankapi.Client, error) {
	if demo {
		return store.NewDemo().Store(), nil, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := bankapi.New(bankapi.Options{
		BaseURL: cfg.APIURL,
		TeamID:  cfg.TeamID,
		Timeout: cfg.APITimeout,
		Logger:  log,
	})
	if err != nil {
		return nil, nil, err
	}
	return store.NewRemote(client), client, nil
}

// open is connect with the CLI logger.
func open() (*store.Store, *bankapi.Client, error) {
	log, err := cliLogger()
	if err != nil {
		return nil, nil, err
	}
	logging.SetGlobal(log)
	return connect(log)
}
