package params

import "reflect"

// Modification is one variable modification applied during the search,
// identified by its UniMod accession. MassDelta is kept as the exact decimal
// string the caller supplied so that persisted records reproduce it verbatim.
type Modification struct {
	UniModID  string `json:"unimod_id" yaml:"unimod_id"`
	MassDelta string `json:"mass_delta" yaml:"mass_delta"`
	Residues  string `json:"residues" yaml:"residues"`
}

// Protein grouping levels understood by the engine's --pg-level flag.
const (
	PGLevelGene        = 0
	PGLevelProteinName = 1
	PGLevelProteinID   = 2
)

// Params is the full validated parameter set for one workunit. It is built
// once via Merge + Validate and never mutated afterwards; later stages
// reconstruct an identical value from the persisted stage config record.
type Params struct {
	WorkunitID    string `json:"workunit_id" yaml:"workunit_id"`
	OutputBaseDir string `json:"output_base_dir" yaml:"output_base_dir"`
	TempDirBase   string `json:"temp_dir_base" yaml:"temp_dir_base"`
	EngineBin     string `json:"diann_bin" yaml:"diann_bin"`

	VarMods []Modification `json:"var_mods" yaml:"var_mods"`

	Threads int     `json:"threads" yaml:"threads"`
	QValue  float64 `json:"qvalue" yaml:"qvalue"`

	MinPepLen   int `json:"min_pep_len" yaml:"min_pep_len"`
	MaxPepLen   int `json:"max_pep_len" yaml:"max_pep_len"`
	MinPrCharge int `json:"min_pr_charge" yaml:"min_pr_charge"`
	MaxPrCharge int `json:"max_pr_charge" yaml:"max_pr_charge"`
	MinPrMz     int `json:"min_pr_mz" yaml:"min_pr_mz"`
	MaxPrMz     int `json:"max_pr_mz" yaml:"max_pr_mz"`
	MinFrMz     int `json:"min_fr_mz" yaml:"min_fr_mz"`
	MaxFrMz     int `json:"max_fr_mz" yaml:"max_fr_mz"`

	MissedCleavages int    `json:"missed_cleavages" yaml:"missed_cleavages"`
	Cut             string `json:"cut" yaml:"cut"`
	MassAcc         int    `json:"mass_acc" yaml:"mass_acc"`
	MassAccMS1      int    `json:"mass_acc_ms1" yaml:"mass_acc_ms1"`
	ScanWindow      int    `json:"scan_window" yaml:"scan_window"` // 0 = auto
	Verbose         int    `json:"verbose" yaml:"verbose"`
	PGLevel         int    `json:"pg_level" yaml:"pg_level"`

	IsDDA          bool `json:"is_dda" yaml:"is_dda"`
	RelaxedProtInf bool `json:"relaxed_prot_inf" yaml:"relaxed_prot_inf"`
	Reanalyse      bool `json:"reanalyse" yaml:"reanalyse"`
	NoNorm         bool `json:"no_norm" yaml:"no_norm"`
	RTProfiling    bool `json:"rt_profiling" yaml:"rt_profiling"`
	Unimod4        bool `json:"unimod4" yaml:"unimod4"`
	MetExcision    bool `json:"met_excision" yaml:"met_excision"`
	NoPeptidoforms bool `json:"no_peptidoforms" yaml:"no_peptidoforms"`
}

// Default returns the built-in parameter defaults, the lowest tier of the
// merge precedence. WorkunitID has no sensible default and stays empty.
func Default() Params {
	return Params{
		OutputBaseDir:   "out-DIANN",
		TempDirBase:     "temp-DIANN",
		EngineBin:       "diann-docker",
		Threads:         64,
		QValue:          0.01,
		MinPepLen:       6,
		MaxPepLen:       30,
		MinPrCharge:     2,
		MaxPrCharge:     3,
		MinPrMz:         400,
		MaxPrMz:         1500,
		MinFrMz:         200,
		MaxFrMz:         1800,
		MissedCleavages: 1,
		Cut:             "K*,R*",
		MassAcc:         20,
		MassAccMS1:      15,
		ScanWindow:      0,
		Verbose:         1,
		PGLevel:         PGLevelGene,
		Reanalyse:       true,
		RTProfiling:     true,
		Unimod4:         true,
		MetExcision:     true,
	}
}

// LibDir returns the output directory for the predicted-library stage.
func (p Params) LibDir() string { return p.OutputBaseDir + "_libA" }

// QuantBDir returns the output directory for the refine-and-quantify stage.
func (p Params) QuantBDir() string { return p.OutputBaseDir + "_quantB" }

// QuantCDir returns the output directory for the final-quantify stage.
func (p Params) QuantCDir() string { return p.OutputBaseDir + "_quantC" }

// Equal reports whether two parameter sets agree on every field, including
// the full modification list. Used to assert record round-trip consistency.
func (p Params) Equal(other Params) bool {
	if len(p.VarMods) != len(other.VarMods) {
		return false
	}
	for i := range p.VarMods {
		if p.VarMods[i] != other.VarMods[i] {
			return false
		}
	}
	// The slice field makes Params non-comparable with ==; compare the
	// remaining fields with the modification lists masked out.
	a, b := p, other
	a.VarMods, b.VarMods = nil, nil
	return reflect.DeepEqual(a, b)
}
