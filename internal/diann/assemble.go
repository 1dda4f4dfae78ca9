// Package diann translates a validated parameter set and a planned stage
// into the argument list for the external DIA-NN engine. Assembly is pure:
// no I/O, no hidden state, and equal inputs always yield equal token
// sequences.
package diann

import (
	"fmt"
	"strconv"

	"github.com/fgcz/diannctl/internal/params"
	"github.com/fgcz/diannctl/internal/workflow"
)

// Assemble builds the engine command for one stage. Tokens are emitted in a
// fixed section order: library source, raw files, shared parameters,
// stage-specific structural flags, outputs, then any caller-supplied extra
// arguments.
func Assemble(p params.Params, stage workflow.Stage, extraArgs []string) (*Command, error) {
	if err := checkInputs(stage); err != nil {
		return nil, err
	}

	cmd := &Command{Bin: p.EngineBin}

	appendLibrarySource(cmd, stage)

	for _, f := range stage.RawFiles {
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--input", Value: f})
	}

	appendSharedParams(cmd, p)
	appendStructural(cmd, p, stage)
	appendOutputs(cmd, stage)

	for _, a := range extraArgs {
		cmd.Tokens = append(cmd.Tokens, Token{Flag: a})
	}
	return cmd, nil
}

func checkInputs(stage workflow.Stage) error {
	switch stage.Role {
	case workflow.RolePredictLibrary:
		if len(stage.FastaPaths) == 0 {
			return &workflow.MissingInputError{Stage: stage.Role, Role: workflow.InputFasta}
		}
	case workflow.RoleRefineAndQuantify:
		if stage.Inputs[workflow.InputPredictedLibrary] == "" {
			return &workflow.MissingInputError{Stage: stage.Role, Role: workflow.InputPredictedLibrary}
		}
		if len(stage.RawFiles) == 0 {
			return &workflow.MissingInputError{Stage: stage.Role, Role: workflow.InputRawFiles}
		}
	case workflow.RoleFinalQuantify:
		if stage.Inputs[workflow.InputRefinedLibrary] == "" {
			return &workflow.MissingInputError{Stage: stage.Role, Role: workflow.InputRefinedLibrary}
		}
		if len(stage.RawFiles) == 0 {
			return &workflow.MissingInputError{Stage: stage.Role, Role: workflow.InputRawFiles}
		}
	case workflow.RoleSingleShot:
		if len(stage.FastaPaths) == 0 {
			return &workflow.MissingInputError{Stage: stage.Role, Role: workflow.InputFasta}
		}
		if len(stage.RawFiles) == 0 {
			return &workflow.MissingInputError{Stage: stage.Role, Role: workflow.InputRawFiles}
		}
	default:
		return fmt.Errorf("unknown stage role %q", stage.Role)
	}
	return nil
}

// The library source is the mutually exclusive branch selected by role:
// either predict from FASTA or load an existing library. Single-shot passes
// a bare --lib to tell the engine no pre-existing library is available.
func appendLibrarySource(cmd *Command, stage workflow.Stage) {
	switch stage.Role {
	case workflow.RolePredictLibrary:
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--fasta-search"})
		for _, f := range stage.FastaPaths {
			cmd.Tokens = append(cmd.Tokens, Token{Flag: "--fasta", Value: f})
		}
	case workflow.RoleRefineAndQuantify:
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--lib", Value: stage.Inputs[workflow.InputPredictedLibrary]})
	case workflow.RoleFinalQuantify:
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--lib", Value: stage.Inputs[workflow.InputRefinedLibrary]})
	case workflow.RoleSingleShot:
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--lib"})
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--fasta-search"})
		for _, f := range stage.FastaPaths {
			cmd.Tokens = append(cmd.Tokens, Token{Flag: "--fasta", Value: f})
		}
	}
}

// Shared parameter flags map 1:1 to parameter model fields and appear in
// every stage, so records reloaded by later stages regenerate them
// identically.
func appendSharedParams(cmd *Command, p params.Params) {
	add := func(flag string, v int) {
		cmd.Tokens = append(cmd.Tokens, Token{Flag: flag, Value: strconv.Itoa(v)})
	}

	add("--threads", p.Threads)
	cmd.Tokens = append(cmd.Tokens, Token{Flag: "--qvalue", Value: strconv.FormatFloat(p.QValue, 'g', -1, 64)})
	cmd.Tokens = append(cmd.Tokens, Token{Flag: "--cut", Value: p.Cut})
	add("--min-pep-len", p.MinPepLen)
	add("--max-pep-len", p.MaxPepLen)
	add("--min-pr-charge", p.MinPrCharge)
	add("--max-pr-charge", p.MaxPrCharge)
	add("--min-pr-mz", p.MinPrMz)
	add("--max-pr-mz", p.MaxPrMz)
	add("--min-fr-mz", p.MinFrMz)
	add("--max-fr-mz", p.MaxFrMz)
	add("--missed-cleavages", p.MissedCleavages)
	add("--mass-acc", p.MassAcc)
	add("--mass-acc-ms1", p.MassAccMS1)
	if p.ScanWindow > 0 {
		add("--scan-window", p.ScanWindow)
	}
	add("--verbose", p.Verbose)

	if len(p.VarMods) > 0 {
		add("--var-mods", len(p.VarMods))
		for _, m := range p.VarMods {
			cmd.Tokens = append(cmd.Tokens, Token{Flag: "--var-mod", Value: m.EngineArg()})
		}
	}
	if p.MetExcision {
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--met-excision"})
	}
	if p.Unimod4 {
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--unimod4"})
	}
	if p.NoPeptidoforms {
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--no-peptidoforms"})
	}
}

// Structural flags are the per-role branching: what the stage does with the
// library and whether it quantifies.
func appendStructural(cmd *Command, p params.Params, stage workflow.Stage) {
	pgLevel := Token{Flag: "--pg-level", Value: strconv.Itoa(p.PGLevel)}

	switch stage.Role {
	case workflow.RolePredictLibrary:
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--predictor"}, Token{Flag: "--gen-spec-lib"})
		return // library prediction needs no quantification flags

	case workflow.RoleRefineAndQuantify:
		if stage.Quantify {
			cmd.Tokens = append(cmd.Tokens, Token{Flag: "--matrices"}, pgLevel)
		}
		if p.Reanalyse {
			cmd.Tokens = append(cmd.Tokens, Token{Flag: "--reanalyse"})
		}
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--gen-spec-lib"})

	case workflow.RoleFinalQuantify:
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--matrices"})
		if stage.UseQuant {
			cmd.Tokens = append(cmd.Tokens, Token{Flag: "--use-quant"})
		}
		if p.Reanalyse {
			cmd.Tokens = append(cmd.Tokens, Token{Flag: "--reanalyse"})
		}
		cmd.Tokens = append(cmd.Tokens, pgLevel)
		if stage.SaveLibrary {
			cmd.Tokens = append(cmd.Tokens, Token{Flag: "--gen-spec-lib"})
		}

	case workflow.RoleSingleShot:
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--predictor"}, Token{Flag: "--gen-spec-lib"})
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--matrices"}, pgLevel)
		if p.RTProfiling {
			cmd.Tokens = append(cmd.Tokens, Token{Flag: "--rt-profiling"})
		}
	}

	if p.IsDDA {
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--dda"})
	}
	if p.NoNorm {
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--no-norm"})
	}
	if p.RelaxedProtInf {
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--relaxed-prot-inf"})
	}
}

func appendOutputs(cmd *Command, stage workflow.Stage) {
	switch stage.Role {
	case workflow.RolePredictLibrary:
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--out-lib", Value: stage.Outputs[workflow.OutputPredictedLibrary]})

	case workflow.RoleRefineAndQuantify:
		cmd.Tokens = append(cmd.Tokens,
			Token{Flag: "--out", Value: stage.Outputs[workflow.OutputReport]},
			Token{Flag: "--out-lib", Value: stage.Outputs[workflow.OutputRefinedLibrary]},
			Token{Flag: "--out-lib-copy"},
		)

	case workflow.RoleFinalQuantify:
		cmd.Tokens = append(cmd.Tokens, Token{Flag: "--out", Value: stage.Outputs[workflow.OutputReport]})
		if stage.SaveLibrary {
			cmd.Tokens = append(cmd.Tokens,
				Token{Flag: "--out-lib", Value: stage.Outputs[workflow.OutputFinalLibrary]},
				Token{Flag: "--out-lib-copy"},
			)
		}

	case workflow.RoleSingleShot:
		cmd.Tokens = append(cmd.Tokens,
			Token{Flag: "--out", Value: stage.Outputs[workflow.OutputReport]},
			Token{Flag: "--out-lib", Value: stage.Outputs[workflow.OutputFinalLibrary]},
			Token{Flag: "--out-lib-copy"},
		)
	}

	cmd.Tokens = append(cmd.Tokens, Token{Flag: "--temp", Value: stage.TempDir})
}
