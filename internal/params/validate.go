package params

import (
	"fmt"
	"strings"
)

// ValidationError reports a single violated parameter invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// workunit ids end up in every output path, so they must not contain path
// separators or shell-hostile characters.
func filesystemSafe(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return !strings.HasPrefix(s, ".")
}

// Validate checks every parameter invariant and returns a *ValidationError
// naming the first offending field, or nil. It runs before any file is
// written or script emitted.
func (p Params) Validate() error {
	if p.WorkunitID == "" {
		return &ValidationError{Field: "workunit_id", Message: "is required"}
	}
	if !filesystemSafe(p.WorkunitID) {
		return &ValidationError{Field: "workunit_id", Message: fmt.Sprintf("%q is not filesystem-safe", p.WorkunitID)}
	}
	if p.OutputBaseDir == "" {
		return &ValidationError{Field: "output_base_dir", Message: "is required"}
	}
	if p.TempDirBase == "" {
		return &ValidationError{Field: "temp_dir_base", Message: "is required"}
	}
	if p.EngineBin == "" {
		return &ValidationError{Field: "diann_bin", Message: "is required"}
	}
	if p.Threads < 1 {
		return &ValidationError{Field: "threads", Message: fmt.Sprintf("must be >= 1, got %d", p.Threads)}
	}
	if p.QValue <= 0 || p.QValue > 1 {
		return &ValidationError{Field: "qvalue", Message: fmt.Sprintf("must be in (0, 1], got %g", p.QValue)}
	}

	for _, b := range []struct {
		field    string
		min, max int
	}{
		{"min_pep_len/max_pep_len", p.MinPepLen, p.MaxPepLen},
		{"min_pr_charge/max_pr_charge", p.MinPrCharge, p.MaxPrCharge},
		{"min_pr_mz/max_pr_mz", p.MinPrMz, p.MaxPrMz},
		{"min_fr_mz/max_fr_mz", p.MinFrMz, p.MaxFrMz},
	} {
		if b.min > b.max {
			return &ValidationError{
				Field:   b.field,
				Message: fmt.Sprintf("min %d exceeds max %d", b.min, b.max),
			}
		}
	}
	if p.MinPepLen < 1 {
		return &ValidationError{Field: "min_pep_len", Message: fmt.Sprintf("must be >= 1, got %d", p.MinPepLen)}
	}
	if p.MinPrCharge < 1 {
		return &ValidationError{Field: "min_pr_charge", Message: fmt.Sprintf("must be >= 1, got %d", p.MinPrCharge)}
	}
	if p.MissedCleavages < 0 {
		return &ValidationError{Field: "missed_cleavages", Message: fmt.Sprintf("must be >= 0, got %d", p.MissedCleavages)}
	}
	if p.MassAcc < 0 {
		return &ValidationError{Field: "mass_acc", Message: fmt.Sprintf("must be >= 0, got %d", p.MassAcc)}
	}
	if p.MassAccMS1 < 0 {
		return &ValidationError{Field: "mass_acc_ms1", Message: fmt.Sprintf("must be >= 0, got %d", p.MassAccMS1)}
	}
	if p.ScanWindow < 0 {
		return &ValidationError{Field: "scan_window", Message: fmt.Sprintf("must be >= 0, got %d", p.ScanWindow)}
	}
	if p.Verbose < 0 {
		return &ValidationError{Field: "verbose", Message: fmt.Sprintf("must be >= 0, got %d", p.Verbose)}
	}
	if p.PGLevel < PGLevelGene || p.PGLevel > PGLevelProteinID {
		return &ValidationError{Field: "pg_level", Message: fmt.Sprintf("must be 0, 1 or 2, got %d", p.PGLevel)}
	}
	if p.Cut == "" {
		return &ValidationError{Field: "cut", Message: "is required"}
	}

	seen := make(map[string]bool, len(p.VarMods))
	for i, m := range p.VarMods {
		field := fmt.Sprintf("var_mods[%d]", i)
		if m.UniModID == "" {
			return &ValidationError{Field: field + ".unimod_id", Message: "is required"}
		}
		if m.MassDelta == "" {
			return &ValidationError{Field: field + ".mass_delta", Message: "is required"}
		}
		if m.Residues == "" {
			return &ValidationError{Field: field + ".residues", Message: "is required"}
		}
		if seen[m.UniModID] {
			return &ValidationError{
				Field:   field + ".unimod_id",
				Message: fmt.Sprintf("duplicate modification UniMod:%s", m.UniModID),
			}
		}
		seen[m.UniModID] = true
	}
	return nil
}
