package params

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Partial is a parameter set where every field is optional. Defaults files
// and CLI flags both produce Partials; absent fields stay nil so that merging
// preserves the precedence explicit > file-default > built-in.
type Partial struct {
	WorkunitID    *string `json:"workunit_id" yaml:"workunit_id"`
	OutputBaseDir *string `json:"output_base_dir" yaml:"output_base_dir"`
	TempDirBase   *string `json:"temp_dir_base" yaml:"temp_dir_base"`
	EngineBin     *string `json:"diann_bin" yaml:"diann_bin"`

	VarMods *[]Modification `json:"var_mods" yaml:"var_mods"`

	Threads *int     `json:"threads" yaml:"threads"`
	QValue  *float64 `json:"qvalue" yaml:"qvalue"`

	MinPepLen   *int `json:"min_pep_len" yaml:"min_pep_len"`
	MaxPepLen   *int `json:"max_pep_len" yaml:"max_pep_len"`
	MinPrCharge *int `json:"min_pr_charge" yaml:"min_pr_charge"`
	MaxPrCharge *int `json:"max_pr_charge" yaml:"max_pr_charge"`
	MinPrMz     *int `json:"min_pr_mz" yaml:"min_pr_mz"`
	MaxPrMz     *int `json:"max_pr_mz" yaml:"max_pr_mz"`
	MinFrMz     *int `json:"min_fr_mz" yaml:"min_fr_mz"`
	MaxFrMz     *int `json:"max_fr_mz" yaml:"max_fr_mz"`

	MissedCleavages *int    `json:"missed_cleavages" yaml:"missed_cleavages"`
	Cut             *string `json:"cut" yaml:"cut"`
	MassAcc         *int    `json:"mass_acc" yaml:"mass_acc"`
	MassAccMS1      *int    `json:"mass_acc_ms1" yaml:"mass_acc_ms1"`
	ScanWindow      *int    `json:"scan_window" yaml:"scan_window"`
	Verbose         *int    `json:"verbose" yaml:"verbose"`
	PGLevel         *int    `json:"pg_level" yaml:"pg_level"`

	IsDDA          *bool `json:"is_dda" yaml:"is_dda"`
	RelaxedProtInf *bool `json:"relaxed_prot_inf" yaml:"relaxed_prot_inf"`
	Reanalyse      *bool `json:"reanalyse" yaml:"reanalyse"`
	NoNorm         *bool `json:"no_norm" yaml:"no_norm"`
	RTProfiling    *bool `json:"rt_profiling" yaml:"rt_profiling"`
	Unimod4        *bool `json:"unimod4" yaml:"unimod4"`
	MetExcision    *bool `json:"met_excision" yaml:"met_excision"`
	NoPeptidoforms *bool `json:"no_peptidoforms" yaml:"no_peptidoforms"`
}

// Apply overlays every set field of the Partial onto p.
func (o Partial) Apply(p *Params) {
	setString(&p.WorkunitID, o.WorkunitID)
	setString(&p.OutputBaseDir, o.OutputBaseDir)
	setString(&p.TempDirBase, o.TempDirBase)
	setString(&p.EngineBin, o.EngineBin)
	if o.VarMods != nil {
		p.VarMods = append([]Modification(nil), (*o.VarMods)...)
	}
	setInt(&p.Threads, o.Threads)
	if o.QValue != nil {
		p.QValue = *o.QValue
	}
	setInt(&p.MinPepLen, o.MinPepLen)
	setInt(&p.MaxPepLen, o.MaxPepLen)
	setInt(&p.MinPrCharge, o.MinPrCharge)
	setInt(&p.MaxPrCharge, o.MaxPrCharge)
	setInt(&p.MinPrMz, o.MinPrMz)
	setInt(&p.MaxPrMz, o.MaxPrMz)
	setInt(&p.MinFrMz, o.MinFrMz)
	setInt(&p.MaxFrMz, o.MaxFrMz)
	setInt(&p.MissedCleavages, o.MissedCleavages)
	setString(&p.Cut, o.Cut)
	setInt(&p.MassAcc, o.MassAcc)
	setInt(&p.MassAccMS1, o.MassAccMS1)
	setInt(&p.ScanWindow, o.ScanWindow)
	setInt(&p.Verbose, o.Verbose)
	setInt(&p.PGLevel, o.PGLevel)
	setBool(&p.IsDDA, o.IsDDA)
	setBool(&p.RelaxedProtInf, o.RelaxedProtInf)
	setBool(&p.Reanalyse, o.Reanalyse)
	setBool(&p.NoNorm, o.NoNorm)
	setBool(&p.RTProfiling, o.RTProfiling)
	setBool(&p.Unimod4, o.Unimod4)
	setBool(&p.MetExcision, o.MetExcision)
	setBool(&p.NoPeptidoforms, o.NoPeptidoforms)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Merge builds a validated parameter set from base plus the given partials,
// applied in order. Callers pass the file-default Partial before the CLI
// Partial so that explicit values always win over file-supplied ones, which
// win over the built-in defaults in base.
func Merge(base Params, partials ...Partial) (Params, error) {
	p := base
	p.VarMods = append([]Modification(nil), base.VarMods...)
	for _, o := range partials {
		o.Apply(&p)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// LoadPartial reads a defaults file into a Partial without validating it;
// validation happens after the merge. YAML is the native format, but plain
// JSON parses too since YAML is a superset.
func LoadPartial(path string) (Partial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Partial{}, fmt.Errorf("reading defaults file: %w", err)
	}
	var o Partial
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Partial{}, fmt.Errorf("parsing defaults file %s: %w", filepath.Base(path), err)
	}
	return o, nil
}
