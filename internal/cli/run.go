package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fgcz/diannctl/internal/runner"
)

// ExitCodeError carries a failed script's exit code so main can propagate it
// as the process exit status.
type ExitCodeError struct {
	Script string
	Code   int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Script, e.Code)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>...",
		Short: "Execute generated stage scripts in order",
		Long: `Execute stage scripts one after another, stopping at the first failure.
The engine's exit code is propagated as the exit code of diannctl.`,
		Args: cobra.MinimumNArgs(1),
		// A failing engine run is not a usage problem.
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := runner.New(&runner.ExecRunner{})
			for _, script := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "running %s\n", script)
				code, err := r.RunScript(cmd.Context(), script, cmd.OutOrStdout(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				if code != 0 {
					return &ExitCodeError{Script: script, Code: code}
				}
			}
			return nil
		},
	}
}
