package cli

import (
	"fmt"

	"github.com/Adda-Baaj/shifter-go/internal/app"
	"github.com/spf13/cobra"
)

func newRunCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a jobs file and publish every result",
		Long: `run executes each job of the jobs file once, in order, and forwards the raw
response to every enabled sink. Without a sinks file results are printed to
stdout as JSON lines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := app.NewRunner(cmd.Context(), st.cfg, st.log, st.out)
			if err != nil {
				return err
			}

			sum, err := r.Run(cmd.Context())
			fmt.Fprintf(st.errOut, "jobs: %d succeeded, %d failed\n", sum.Succeeded, sum.Failed)
			return err
		},
	}

	cmd.Flags().String("jobs", "", "jobs file, YAML or JSON (env JOBS_FILE)")
	cmd.Flags().String("sinks", "", "sinks file, YAML or JSON (env SINKS_FILE)")
	return cmd
}
