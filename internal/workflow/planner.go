package workflow

import (
	"fmt"

	"github.com/fgcz/diannctl/internal/params"
)

// Mode selects the pipeline topology.
type Mode string

const (
	ModeSingleShot Mode = "single-shot"
	ModeTwoStage   Mode = "two-stage"
	ModeThreeStage Mode = "three-stage"
)

// ParseMode validates a mode string from the CLI.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSingleShot, ModeTwoStage, ModeThreeStage:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (expected single-shot, two-stage or three-stage)", s)
}

// InvalidTopologyError reports contradictory pipeline-mode flags.
type InvalidTopologyError struct {
	Mode   Mode
	Reason string
}

func (e *InvalidTopologyError) Error() string {
	return fmt.Sprintf("invalid topology for mode %s: %s", e.Mode, e.Reason)
}

// MissingRawFilesError reports a stage that requires raw files but got none.
type MissingRawFilesError struct {
	Stage Role
}

func (e *MissingRawFilesError) Error() string {
	return fmt.Sprintf("stage %s requires at least one raw file", e.Stage)
}

// MissingInputError reports a stage asked to build a command without one of
// its required input roles populated.
type MissingInputError struct {
	Stage Role
	Role  string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("stage %s is missing required input %q", e.Stage, e.Role)
}

// Request carries the user-declared inputs for one pipeline run. FinalFiles
// may differ from RefineFiles (fast library build from a subset, full
// quantification from the complete set); when empty it defaults to
// RefineFiles.
type Request struct {
	Mode        Mode
	FinalStage  bool
	FastaPaths  []string
	RefineFiles []string
	FinalFiles  []string

	Quantify    bool // refine stage also produces matrices
	UseQuant    bool // final stage reuses the refine stage's quant cache
	SaveLibrary bool // final stage writes an output library
}

// Plan resolves the topology for req and returns the ordered stages with
// each stage's library input wired to the previous stage's declared output.
// It fails fast: no stage is returned unless the whole plan is valid.
func Plan(p params.Params, req Request) ([]Stage, error) {
	switch req.Mode {
	case ModeSingleShot:
		if req.FinalStage {
			return nil, &InvalidTopologyError{Mode: req.Mode, Reason: "final stage flag is only valid in three-stage mode"}
		}
		if len(req.FastaPaths) == 0 {
			return nil, &MissingInputError{Stage: RoleSingleShot, Role: InputFasta}
		}
		if len(req.RefineFiles) == 0 {
			return nil, &MissingRawFilesError{Stage: RoleSingleShot}
		}
		return []Stage{SingleShotStage(p, req.FastaPaths, req.RefineFiles)}, nil

	case ModeTwoStage:
		if req.FinalStage {
			return nil, &InvalidTopologyError{Mode: req.Mode, Reason: "final stage flag is only valid in three-stage mode"}
		}
		return planStaged(p, req, false)

	case ModeThreeStage:
		return planStaged(p, req, req.FinalStage)

	default:
		return nil, &InvalidTopologyError{Mode: req.Mode, Reason: "unknown mode"}
	}
}

func planStaged(p params.Params, req Request, withFinal bool) ([]Stage, error) {
	if len(req.FastaPaths) == 0 {
		return nil, &MissingInputError{Stage: RolePredictLibrary, Role: InputFasta}
	}
	if len(req.RefineFiles) == 0 {
		return nil, &MissingRawFilesError{Stage: RoleRefineAndQuantify}
	}

	predict := PredictStage(p, req.FastaPaths)
	refine := RefineStage(p, req.RefineFiles, predict.Outputs[OutputPredictedLibrary], req.Quantify)
	stages := []Stage{predict, refine}

	if withFinal {
		finalFiles := req.FinalFiles
		if len(finalFiles) == 0 {
			finalFiles = req.RefineFiles
		}
		stages = append(stages, FinalStage(p, finalFiles, refine.Outputs[OutputRefinedLibrary], req.UseQuant, req.SaveLibrary))
	}
	return stages, nil
}
