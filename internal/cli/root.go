// Package cli provides the command-line interface for shifter.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/Adda-Baaj/shifter-go/internal/config"
	"github.com/Adda-Baaj/shifter-go/internal/logger"
	"github.com/spf13/cobra"
)

// Version information (set by build flags in production).
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// state is shared by subcommands once the root pre-run has loaded config.
type state struct {
	cfg    *config.Config
	log    *logger.ZapLogger
	out    io.Writer
	errOut io.Writer
}

// NewRootCmd builds the command tree writing command output to out and logs/status to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	st := &state{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "shifter",
		Short: "Client for the Shifter web-scraping API",
		Long: `shifter sends scrape requests to the Shifter web-scraping API.

Use get, post or put for a single request, or run to execute a jobs file and
forward every raw response to the configured sinks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			st.cfg = cfg
			st.log = logger.New(cfg, st.errOut)
			st.log.DebugObj("shifter starting", "config", cfg.LogFields())
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = st.log.Sync()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.String("api-key", "", "API key (env SHIFTER_API_KEY)")
	pf.String("base-url", "", "API endpoint (env SHIFTER_BASE_URL)")
	pf.Int64("timeout", 0, "request timeout in seconds (env REQUEST_TIMEOUT_SECONDS)")
	pf.String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")

	root.AddCommand(
		newScrapeCmd(st, "GET"),
		newScrapeCmd(st, "POST"),
		newScrapeCmd(st, "PUT"),
		newRunCmd(st),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "shifter version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCmd(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
