package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fgcz/diannctl/internal/configstore"
	"github.com/fgcz/diannctl/internal/generate"
	"github.com/fgcz/diannctl/internal/params"
	"github.com/fgcz/diannctl/internal/workflow"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Emit executable scripts for workflow stages",
	}
	cmd.AddCommand(
		newGeneratePredictCmd(),
		newGenerateRefineCmd(),
		newGenerateFinalCmd(),
		newGenerateSingleShotCmd(),
		newGenerateAllCmd(),
	)
	return cmd
}

func newGeneratePredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict-library",
		Short: "Emit the library prediction stage from FASTA databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveParams(cmd)
			if err != nil {
				return err
			}
			fastas, _ := cmd.Flags().GetStringArray("fasta")
			if len(fastas) == 0 {
				return &workflow.MissingInputError{Stage: workflow.RolePredictLibrary, Role: workflow.InputFasta}
			}

			opts, err := emitOptions(cmd)
			if err != nil {
				return err
			}
			res, err := generate.Stage(p, workflow.PredictStage(p, fastas), opts)
			if err != nil {
				return err
			}
			printResults(cmd, res)
			return nil
		},
	}
	addParamFlags(cmd)
	addEmitFlags(cmd)
	cmd.Flags().StringArray("fasta", nil, "FASTA database (repeatable)")
	return cmd
}

func newGenerateRefineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refine",
		Short: "Emit quantification with refinement against a predicted library",
		Long: `Emit the refine-and-quantify stage. The stage config record written by the
library prediction stage supplies both the library path and the parameter
set, so explicit flags are only needed to deviate from the recorded run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec *configstore.Record
			var p params.Params
			var err error
			if fromDefaults, _ := cmd.Flags().GetBool("from-defaults"); fromDefaults {
				p, err = resolveParams(cmd)
			} else {
				rec, p, err = loadStageParams(cmd)
			}
			if err != nil {
				return err
			}
			rawFiles, _ := cmd.Flags().GetStringArray("raw-file")
			if len(rawFiles) == 0 {
				return &workflow.MissingRawFilesError{Stage: workflow.RoleRefineAndQuantify}
			}

			lib, _ := cmd.Flags().GetString("library")
			if lib == "" && rec != nil {
				lib = rec.Outputs[workflow.OutputPredictedLibrary]
			}
			if lib == "" {
				return &workflow.MissingInputError{Stage: workflow.RoleRefineAndQuantify, Role: workflow.InputPredictedLibrary}
			}

			noQuantify, _ := cmd.Flags().GetBool("no-quantify")
			opts, err := emitOptions(cmd)
			if err != nil {
				return err
			}
			res, err := generate.Stage(p, workflow.RefineStage(p, rawFiles, lib, !noQuantify), opts)
			if err != nil {
				return err
			}
			printResults(cmd, res)
			return nil
		},
	}
	addParamFlags(cmd)
	addEmitFlags(cmd)
	cmd.Flags().String("config", "", "stage config record of the library prediction stage")
	cmd.Flags().StringArray("raw-file", nil, "raw MS data file (repeatable)")
	cmd.Flags().String("library", "", "predicted library path, defaults to the recorded output")
	cmd.Flags().Bool("no-quantify", false, "only refine the library, skip quantification matrices")
	cmd.Flags().Bool("from-defaults", false, "build parameters from defaults and flags instead of a stage record")
	return cmd
}

func newGenerateFinalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "final",
		Short: "Emit final quantification against a refined library",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, p, err := loadStageParams(cmd)
			if err != nil {
				return err
			}
			rawFiles, _ := cmd.Flags().GetStringArray("raw-file")
			if len(rawFiles) == 0 {
				return &workflow.MissingRawFilesError{Stage: workflow.RoleFinalQuantify}
			}

			lib, _ := cmd.Flags().GetString("library")
			if lib == "" {
				lib = rec.Outputs[workflow.OutputRefinedLibrary]
			}
			if lib == "" {
				return &workflow.MissingInputError{Stage: workflow.RoleFinalQuantify, Role: workflow.InputRefinedLibrary}
			}

			// If the refinement stage already produced the full quantification,
			// a final stage would just duplicate it.
			if force, _ := cmd.Flags().GetBool("force"); !force {
				if matrix := rec.Outputs[workflow.OutputProteinMatrix]; matrix != "" {
					if _, err := os.Stat(matrix); err == nil {
						return fmt.Errorf("refinement stage already quantified (%s exists), pass --force to generate a final stage anyway", matrix)
					}
				}
			}

			useQuant, _ := cmd.Flags().GetBool("use-quant")
			noSaveLibrary, _ := cmd.Flags().GetBool("no-save-library")
			st := workflow.FinalStage(p, rawFiles, lib, useQuant, !noSaveLibrary)

			opts, err := emitOptions(cmd)
			if err != nil {
				return err
			}
			res, err := generate.Stage(p, st, opts)
			if err != nil {
				return err
			}
			printResults(cmd, res)
			return nil
		},
	}
	addParamFlags(cmd)
	addEmitFlags(cmd)
	cmd.Flags().String("config", "", "stage config record of the refinement stage")
	cmd.Flags().StringArray("raw-file", nil, "raw MS data file (repeatable)")
	cmd.Flags().String("library", "", "refined library path, defaults to the recorded output")
	cmd.Flags().Bool("use-quant", false, "reuse the .quant files of the refinement stage")
	cmd.Flags().Bool("no-save-library", false, "skip writing the final library")
	cmd.Flags().Bool("force", false, "generate even if the refinement stage already quantified")
	return cmd
}

func newGenerateSingleShotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "single-shot",
		Short: "Emit library prediction and quantification as one engine run",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveParams(cmd)
			if err != nil {
				return err
			}
			fastas, _ := cmd.Flags().GetStringArray("fasta")
			rawFiles, _ := cmd.Flags().GetStringArray("raw-file")

			stages, err := workflow.Plan(p, workflow.Request{
				Mode:        workflow.ModeSingleShot,
				FastaPaths:  fastas,
				RefineFiles: rawFiles,
			})
			if err != nil {
				return err
			}

			opts, err := emitOptions(cmd)
			if err != nil {
				return err
			}
			res, err := generate.Stage(p, stages[0], opts)
			if err != nil {
				return err
			}
			printResults(cmd, res)
			return nil
		},
	}
	addParamFlags(cmd)
	addEmitFlags(cmd)
	cmd.Flags().StringArray("fasta", nil, "FASTA database (repeatable)")
	cmd.Flags().StringArray("raw-file", nil, "raw MS data file (repeatable)")
	return cmd
}

func newGenerateAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Emit every stage of a pipeline topology in one pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveParams(cmd)
			if err != nil {
				return err
			}

			modeStr, _ := cmd.Flags().GetString("mode")
			mode, err := workflow.ParseMode(modeStr)
			if err != nil {
				return err
			}

			fastas, _ := cmd.Flags().GetStringArray("fasta")
			rawFiles, _ := cmd.Flags().GetStringArray("raw-file")
			finalFiles, _ := cmd.Flags().GetStringArray("final-raw-file")
			finalStage, _ := cmd.Flags().GetBool("final-stage")
			quantify, _ := cmd.Flags().GetBool("quantify")
			useQuant, _ := cmd.Flags().GetBool("use-quant")
			saveLibrary, _ := cmd.Flags().GetBool("save-library")

			stages, err := workflow.Plan(p, workflow.Request{
				Mode:        mode,
				FinalStage:  finalStage,
				FastaPaths:  fastas,
				RefineFiles: rawFiles,
				FinalFiles:  finalFiles,
				Quantify:    quantify,
				UseQuant:    useQuant,
				SaveLibrary: saveLibrary,
			})
			if err != nil {
				return err
			}

			opts, err := emitOptions(cmd)
			if err != nil {
				return err
			}
			results, err := generate.All(p, stages, opts)
			if err != nil {
				return err
			}
			printResults(cmd, results...)
			return nil
		},
	}
	addParamFlags(cmd)
	addEmitFlags(cmd)
	cmd.Flags().String("mode", string(workflow.ModeTwoStage), "pipeline topology: single-shot, two-stage or three-stage")
	cmd.Flags().Bool("final-stage", false, "plan the final quantification stage (three-stage mode)")
	cmd.Flags().StringArray("fasta", nil, "FASTA database (repeatable)")
	cmd.Flags().StringArray("raw-file", nil, "raw MS data file (repeatable)")
	cmd.Flags().StringArray("final-raw-file", nil, "raw file for the final stage only, defaults to --raw-file")
	cmd.Flags().Bool("quantify", true, "refinement stage also produces matrices")
	cmd.Flags().Bool("use-quant", false, "final stage reuses the refinement stage's .quant files")
	cmd.Flags().Bool("save-library", false, "final stage also writes its library")
	return cmd
}

// emitOptions reads the script emission flags shared by all generate
// subcommands.
func emitOptions(cmd *cobra.Command) (generate.Options, error) {
	scriptDir, _ := cmd.Flags().GetString("script-dir")
	scriptName, _ := cmd.Flags().GetString("script-name")
	rawExtra, _ := cmd.Flags().GetString("extra-args")
	extra, err := parseExtraArgs(rawExtra)
	if err != nil {
		return generate.Options{}, err
	}
	return generate.Options{ScriptDir: scriptDir, ScriptName: scriptName, ExtraArgs: extra}, nil
}

// loadStageParams reconstructs the parameter set for a follow-up stage: the
// recorded params of the prior stage, overlaid with whatever flags the user
// explicitly set on this invocation.
func loadStageParams(cmd *cobra.Command) (*configstore.Record, params.Params, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		return nil, params.Params{}, fmt.Errorf("--config is required: pass the .config.json record of the previous stage")
	}
	rec, err := configstore.Load(configPath)
	if err != nil {
		return nil, params.Params{}, err
	}

	cliPartial, err := partialFromFlags(cmd)
	if err != nil {
		return nil, params.Params{}, err
	}
	p, err := params.Merge(rec.Params, cliPartial)
	if err != nil {
		return nil, params.Params{}, err
	}
	return rec, p, nil
}

func printResults(cmd *cobra.Command, results ...*generate.Result) {
	for _, res := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n  script: %s\n  config: %s\n  output: %s\n",
			res.Stage.Role, res.ScriptPath, res.RecordPath, res.Stage.PrimaryOutput)
	}
}

func addEmitFlags(cmd *cobra.Command) {
	cmd.Flags().String("script-dir", ".", "directory to write the stage script into")
	cmd.Flags().String("script-name", "", "override the stage's default script name")
	cmd.Flags().String("extra-args", "", "extra engine arguments appended verbatim, shell-quoted")
}
