package commands

import (
	"context"

	"mejlis-roster/internal/constituency"
	"mejlis-roster/internal/roster"
	"mejlis-roster/internal/wikipedia"
	"mejlis-roster/lib/telemetry"

	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "roster prints the members of the Milli Majlis as CSV.",
		Long: `roster fetches the Wikipedia article on the VI convocation of the Milli Majlis,
resolves every member, constituency and party to its Wikidata item and prints
the result as CSV.

Constituency items come from a lookup file generated beforehand, ex.
  wd sparql constituencies.sparql > constituencies.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			telemetry.InitSlog(cfg.Verbose)
			return Run(cmd.Context(), cfg, telemetry.SlogAPI{}, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.String("config", DefaultConfigPath, "An optional json5 config file.")
	flags.String("url", wikipedia.DefaultPageURL, "The article to scrape.")
	flags.String("constituencies", constituency.DefaultPath, "The constituency lookup file.")
	flags.String("format", roster.FormatCSV, "The output format, csv or table.")
	flags.String("db", "", "Also write the roster to this sqlite database.")
	flags.String("dump-http", "", "Write every HTTP request/response to this directory.")
	flags.String("timeout", "", "Timeout of each HTTP request (ex. 30s), none by default.")
	flags.BoolP("verbose", "v", false, "Log debug information to stderr.")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// ExecuteContext runs the CLI, errors are returned for the caller to print
// so telemetry can be flushed before exiting.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
