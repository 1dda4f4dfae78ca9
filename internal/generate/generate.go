// Package generate ties the planner, assembler, config store and script
// emitter together: for each planned stage it assembles the engine command,
// persists the stage config record, then writes the executable script.
// Everything here happens before any engine process is started, so every
// failure is recoverable by fixing inputs and re-running.
package generate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fgcz/diannctl/internal/configstore"
	"github.com/fgcz/diannctl/internal/diann"
	"github.com/fgcz/diannctl/internal/params"
	"github.com/fgcz/diannctl/internal/script"
	"github.com/fgcz/diannctl/internal/workflow"
)

// Result describes one emitted stage.
type Result struct {
	Stage      workflow.Stage
	Command    *diann.Command
	ScriptPath string
	RecordPath string
}

// Options tune script emission.
type Options struct {
	ScriptDir  string   // directory for emitted scripts; default current dir
	ScriptName string   // override the stage's default script name
	ExtraArgs  []string // raw tokens appended to the engine invocation
}

// Stage assembles, records and emits a single stage. The record is written
// before the script so that a stage whose config cannot be persisted never
// leaves an executable script behind.
func Stage(p params.Params, st workflow.Stage, opts Options) (*Result, error) {
	cmd, err := diann.Assemble(p, st, opts.ExtraArgs)
	if err != nil {
		return nil, err
	}

	recordPath, err := configstore.Save(configstore.Record{
		Stage:      string(st.Role),
		Params:     p,
		FastaPaths: st.FastaPaths,
		RawFiles:   st.RawFiles,
		Outputs:    st.Outputs,
	}, st.PrimaryOutput)
	if err != nil {
		return nil, err
	}

	name := opts.ScriptName
	if name == "" {
		name = st.ScriptName
	}
	scriptPath := filepath.Join(opts.ScriptDir, name)
	if err := script.Emit(scriptPath, cmd.ShellLines(), []string{st.TempDir, st.OutputDir}, st.LogFile); err != nil {
		// Without the script the record is stale; drop it again.
		os.Remove(recordPath)
		return nil, fmt.Errorf("emit stage %s: %w", st.Role, err)
	}

	return &Result{Stage: st, Command: cmd, ScriptPath: scriptPath, RecordPath: recordPath}, nil
}

// All emits every stage of a plan in order, failing fast on the first error.
func All(p params.Params, stages []workflow.Stage, opts Options) ([]*Result, error) {
	results := make([]*Result, 0, len(stages))
	for _, st := range stages {
		stageOpts := opts
		stageOpts.ScriptName = "" // per-stage default names
		res, err := Stage(p, st, stageOpts)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
