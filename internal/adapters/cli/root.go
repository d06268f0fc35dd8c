package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the quoteflow CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quoteflow",
		Short: "QuoteFlow - multi-party shipping quote workflow",
		Long: `QuoteFlow manages shipping quote requests between a requester and a set
of responders: opening requests, collecting priced responses, accepting one
response and rejecting the rest.

Examples:
  quoteflow quote create --requester acme --responders maersk,cosco --departure-code SGSIN ...
  quoteflow quote submit --quote <id> --responder maersk --price 125000
  quoteflow quote accept --quote <id> --responder maersk --requester acme
  quoteflow quote list --requester acme
  quoteflow notifications list --tenant maersk`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (defaults to config.yaml in search paths)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewQuoteCommand())
	rootCmd.AddCommand(NewNotificationsCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
