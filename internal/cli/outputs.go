package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fgcz/diannctl/internal/configstore"
	"github.com/fgcz/diannctl/internal/params"
	"github.com/fgcz/diannctl/internal/workflow"
)

func newOutputsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Print the final artifact paths for a workunit",
		Long: `Print where the final quantification artifacts live. Downstream tooling
calls this instead of re-deriving the directory naming scheme. With --config
the paths come from the recorded parameters of a stage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p params.Params
			if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
				rec, err := configstore.Load(configPath)
				if err != nil {
					return err
				}
				p = rec.Params
			} else {
				var err error
				p, err = resolveParams(cmd)
				if err != nil {
					return err
				}
			}

			finalStage, _ := cmd.Flags().GetBool("final-stage")
			outs := workflow.ResolveFinalOutputs(p, finalStage)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "report:         %s\n", outs.ReportParquet)
			fmt.Fprintf(out, "report-tsv:     %s\n", outs.ReportTSV)
			fmt.Fprintf(out, "pg-matrix:      %s\n", outs.PGMatrix)
			fmt.Fprintf(out, "stats:          %s\n", outs.Stats)
			fmt.Fprintf(out, "library:        %s\n", outs.Library)
			return nil
		},
	}
	addParamFlags(cmd)
	cmd.Flags().String("config", "", "stage config record to derive paths from")
	cmd.Flags().Bool("final-stage", false, "resolve against the final quantification stage")
	return cmd
}
