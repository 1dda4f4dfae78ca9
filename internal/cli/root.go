package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

// NewRootCmd builds the full command tree. Every call returns a fresh tree:
// cobra flag state (Changed, accumulated array values) survives Execute, so
// sharing one tree across invocations would leak state between runs.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "diannctl",
		Short: "diannctl — generate and track DIA-NN workflow stages",
		Long: `diannctl turns one validated parameter set into executable shell scripts
for DIA-NN's staged workflow (library prediction, quantification with
refinement, final quantification) or a single monolithic invocation.

Every emitted stage writes a .config.json record next to its primary output;
later stages reload that record so the exact same parameters flow through
the whole pipeline.`,
	}

	root.AddCommand(
		newVersionCmd(),
		newGenerateCmd(),
		newConfigCmd(),
		newTranslateCmd(),
		newOutputsCmd(),
		newRunCmd(),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}
