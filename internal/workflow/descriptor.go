package workflow

import (
	"path/filepath"

	"github.com/fgcz/diannctl/internal/params"
)

// Role identifies what one engine invocation does.
type Role string

const (
	RolePredictLibrary    Role = "predict-library"
	RoleRefineAndQuantify Role = "refine-and-quantify"
	RoleFinalQuantify     Role = "final-quantify"
	RoleSingleShot        Role = "single-shot"
)

// Named file roles used to wire one stage's outputs into the next stage's
// inputs without the caller ever threading paths by hand.
const (
	InputFasta            = "fasta"
	InputRawFiles         = "raw-files"
	InputPredictedLibrary = "predicted-library"
	InputRefinedLibrary   = "refined-library"

	OutputPredictedLibrary = "predicted-library"
	OutputRefinedLibrary   = "refined-library"
	OutputReport           = "report"
	OutputProteinMatrix    = "protein-matrix"
	OutputFinalLibrary     = "final-library"
)

// Stage describes one planned engine invocation: its role, the directories
// and log it writes to, its resolved inputs, and its declared outputs. It
// exists only between planning and script emission.
type Stage struct {
	Role       Role
	ScriptName string
	OutputDir  string
	TempDir    string
	LogFile    string

	FastaPaths []string
	RawFiles   []string
	Inputs     map[string]string

	Outputs       map[string]string
	PrimaryOutput string

	// Structural toggles resolved at planning time.
	Quantify    bool // refine-and-quantify: also produce matrices
	UseQuant    bool // final-quantify: reuse prior quant cache
	SaveLibrary bool // final-quantify: write an output library
}

// PredictStage builds the descriptor for predicted-library generation from
// FASTA. It consumes no raw files.
func PredictStage(p params.Params, fastaPaths []string) Stage {
	dir := p.LibDir()
	lib := filepath.Join(dir, p.WorkunitID+"_report-lib.predicted.speclib")
	return Stage{
		Role:          RolePredictLibrary,
		ScriptName:    "step_A_library_search.sh",
		OutputDir:     dir,
		TempDir:       p.TempDirBase + "_libA",
		LogFile:       filepath.Join(dir, "diann_libA.log.txt"),
		FastaPaths:    fastaPaths,
		Inputs:        map[string]string{},
		Outputs:       map[string]string{OutputPredictedLibrary: lib},
		PrimaryOutput: lib,
	}
}

// RefineStage builds the descriptor for quantification with refinement
// against a predicted library. With quantify false it only builds the
// refined library, the fast path for subset-then-full workflows.
func RefineStage(p params.Params, rawFiles []string, predictedLib string, quantify bool) Stage {
	dir := p.QuantBDir()
	refined := filepath.Join(dir, p.WorkunitID+"_report-lib.parquet")
	report := filepath.Join(dir, p.WorkunitID+"_report.parquet")
	outputs := map[string]string{
		OutputRefinedLibrary: refined,
		OutputReport:         report,
	}
	if quantify {
		outputs[OutputProteinMatrix] = filepath.Join(dir, p.WorkunitID+"_report.pg_matrix.tsv")
	}
	return Stage{
		Role:          RoleRefineAndQuantify,
		ScriptName:    "step_B_quantification_refinement.sh",
		OutputDir:     dir,
		TempDir:       p.TempDirBase + "_quantB",
		LogFile:       filepath.Join(dir, "diann_quantB.log.txt"),
		RawFiles:      rawFiles,
		Inputs:        map[string]string{InputPredictedLibrary: predictedLib},
		Outputs:       outputs,
		PrimaryOutput: refined,
		Quantify:      quantify,
	}
}

// FinalStage builds the descriptor for final quantification against a
// refined library, possibly over a larger raw-file set than the refine
// stage processed.
func FinalStage(p params.Params, rawFiles []string, refinedLib string, useQuant, saveLibrary bool) Stage {
	dir := p.QuantCDir()
	report := filepath.Join(dir, p.WorkunitID+"_report.parquet")
	outputs := map[string]string{
		OutputReport:        report,
		OutputProteinMatrix: filepath.Join(dir, p.WorkunitID+"_report.pg_matrix.tsv"),
	}
	if saveLibrary {
		outputs[OutputFinalLibrary] = filepath.Join(dir, p.WorkunitID+"_report-lib.parquet")
	}
	return Stage{
		Role:          RoleFinalQuantify,
		ScriptName:    "step_C_final_quantification.sh",
		OutputDir:     dir,
		TempDir:       p.TempDirBase + "_quantC",
		LogFile:       filepath.Join(dir, "diann_quantC.log.txt"),
		RawFiles:      rawFiles,
		Inputs:        map[string]string{InputRefinedLibrary: refinedLib},
		Outputs:       outputs,
		PrimaryOutput: report,
		UseQuant:      useQuant,
		SaveLibrary:   saveLibrary,
	}
}

// SingleShotStage builds the descriptor for the monolithic invocation:
// library prediction and quantification in one engine run.
func SingleShotStage(p params.Params, fastaPaths, rawFiles []string) Stage {
	dir := p.QuantBDir()
	report := filepath.Join(dir, p.WorkunitID+"_report.parquet")
	return Stage{
		Role:       RoleSingleShot,
		ScriptName: "single_step_search.sh",
		OutputDir:  dir,
		TempDir:    p.TempDirBase + "_quantB",
		LogFile:    filepath.Join(dir, "diann_quantB.log.txt"),
		FastaPaths: fastaPaths,
		RawFiles:   rawFiles,
		Inputs:     map[string]string{},
		Outputs: map[string]string{
			OutputReport:        report,
			OutputProteinMatrix: filepath.Join(dir, p.WorkunitID+"_report.pg_matrix.tsv"),
			OutputFinalLibrary:  filepath.Join(dir, p.WorkunitID+"_report-lib.parquet"),
		},
		PrimaryOutput: report,
		Quantify:      true,
	}
}
