// Package configstore persists the exact parameter set a stage was planned
// with as a JSON record next to that stage's primary output. Later stages
// reload the record to reconstruct an identical parameter model, which is
// what keeps thresholds and modification lists from drifting between stages.
package configstore

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fgcz/diannctl/internal/params"
)

// SchemaVersion is the current record schema. Readers accept any record up
// to this version and ignore unknown fields, so newer writers may add
// optional fields without breaking older loaders.
const SchemaVersion = 1

// Suffix appended to a stage's primary output path to name its record.
const Suffix = ".config.json"

// Record is the durable snapshot of what parameters produced a stage's
// outputs. It is written once, before the engine runs, and never mutated.
type Record struct {
	SchemaVersion int           `json:"schema_version"`
	Stage         string        `json:"stage"`
	Params        params.Params `json:"params"`
	FastaPaths    []string      `json:"fasta_paths,omitempty"`
	RawFiles      []string      `json:"raw_files,omitempty"`
	Outputs       map[string]string `json:"outputs,omitempty"`
	CreatedAt     string        `json:"created_at,omitempty"`
}

// PersistError reports a record that could not be written. The caller must
// treat this as fatal for the stage: without the record the next stage
// cannot prove parameter consistency.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist stage config %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// MissingConfigError reports a record path that does not exist, typically a
// stage that was never generated or a mistyped --config path.
type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("stage config %s does not exist", e.Path)
}

// CorruptConfigError reports a record that could not be parsed or is missing
// required fields. Loading never falls back to built-in defaults.
type CorruptConfigError struct {
	Path   string
	Reason string
}

func (e *CorruptConfigError) Error() string {
	return fmt.Sprintf("corrupt stage config %s: %s", e.Path, e.Reason)
}

// VersionMismatchError reports a record written by a newer schema than this
// loader supports.
type VersionMismatchError struct {
	Path      string
	Got       int
	Supported int
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("stage config %s has schema version %d, newest supported is %d", e.Path, e.Got, e.Supported)
}

// PathFor returns the record path for a stage's primary output.
func PathFor(primaryOutput string) string {
	return primaryOutput + Suffix
}

// Save writes rec as the sibling record of primaryOutput and returns the
// record path.
func Save(rec Record, primaryOutput string) (string, error) {
	rec.SchemaVersion = SchemaVersion
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	path := PathFor(primaryOutput)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", &PersistError{Path: path, Err: err}
	}
	data = append(data, '\n')
	if err := writeAtomic(path, data, 0o644); err != nil {
		return "", &PersistError{Path: path, Err: err}
	}
	return path, nil
}

// Load reads and validates a record. The reconstructed parameter model is
// field-equal to the one that produced the record.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingConfigError{Path: path}
		}
		return nil, fmt.Errorf("read stage config: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &CorruptConfigError{Path: path, Reason: err.Error()}
	}
	if rec.SchemaVersion == 0 {
		return nil, &CorruptConfigError{Path: path, Reason: "missing schema_version"}
	}
	if rec.SchemaVersion > SchemaVersion {
		return nil, &VersionMismatchError{Path: path, Got: rec.SchemaVersion, Supported: SchemaVersion}
	}
	if rec.Stage == "" {
		return nil, &CorruptConfigError{Path: path, Reason: "missing stage role"}
	}
	if err := rec.Params.Validate(); err != nil {
		return nil, &CorruptConfigError{Path: path, Reason: fmt.Sprintf("invalid params: %v", err)}
	}
	return &rec, nil
}
