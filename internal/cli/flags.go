package cli

import (
	"fmt"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/fgcz/diannctl/internal/params"
)

// addParamFlags registers the full parameter surface on cmd. Flag defaults
// mirror the built-in defaults so help output shows the effective values, but
// a flag only overrides the merge when the user actually set it.
func addParamFlags(cmd *cobra.Command) {
	d := params.Default()
	f := cmd.Flags()

	f.String("workunit-id", "", "workunit identifier, prefixes every artifact name (required)")
	f.String("output-dir", d.OutputBaseDir, "base path for stage output directories")
	f.String("temp-dir", d.TempDirBase, "base path for stage temp directories")
	f.String("diann-bin", d.EngineBin, "DIA-NN executable or wrapper to invoke")
	f.StringArray("var-mod", nil, "variable modification as unimod-id,mass-delta,residues (repeatable)")

	f.Int("threads", d.Threads, "worker threads for the engine")
	f.Float64("qvalue", d.QValue, "precursor FDR threshold")
	f.Int("min-pep-len", d.MinPepLen, "minimum peptide length")
	f.Int("max-pep-len", d.MaxPepLen, "maximum peptide length")
	f.Int("min-pr-charge", d.MinPrCharge, "minimum precursor charge")
	f.Int("max-pr-charge", d.MaxPrCharge, "maximum precursor charge")
	f.Int("min-pr-mz", d.MinPrMz, "minimum precursor m/z")
	f.Int("max-pr-mz", d.MaxPrMz, "maximum precursor m/z")
	f.Int("min-fr-mz", d.MinFrMz, "minimum fragment m/z")
	f.Int("max-fr-mz", d.MaxFrMz, "maximum fragment m/z")
	f.Int("missed-cleavages", d.MissedCleavages, "allowed missed cleavages")
	f.String("cut", d.Cut, "enzymatic cleavage pattern")
	f.Int("mass-acc", d.MassAcc, "MS2 mass accuracy in ppm")
	f.Int("mass-acc-ms1", d.MassAccMS1, "MS1 mass accuracy in ppm")
	f.Int("scan-window", d.ScanWindow, "scan window radius, 0 lets the engine choose")
	f.Int("verbose", d.Verbose, "engine log verbosity")
	f.Int("pg-level", d.PGLevel, "protein grouping level (0 gene, 1 protein name, 2 protein id)")

	f.Bool("dda", d.IsDDA, "treat input as DDA data")
	f.Bool("relaxed-prot-inf", d.RelaxedProtInf, "relaxed protein inference")
	f.Bool("reanalyse", d.Reanalyse, "enable match-between-runs reanalysis")
	f.Bool("no-norm", d.NoNorm, "disable cross-run normalisation")
	f.Bool("rt-profiling", d.RTProfiling, "retention-time profiling")
	f.Bool("unimod4", d.Unimod4, "fixed carbamidomethylation on cysteine")
	f.Bool("met-excision", d.MetExcision, "N-terminal methionine excision")
	f.Bool("no-peptidoforms", d.NoPeptidoforms, "disable peptidoform scoring")

	f.String("defaults-file", "", "YAML defaults file, overridden by explicit flags")
}

// partialFromFlags builds the CLI-tier Partial from the flags the user
// explicitly set on cmd. Unset flags stay nil so they never shadow defaults
// file values.
func partialFromFlags(cmd *cobra.Command) (params.Partial, error) {
	var o params.Partial
	f := cmd.Flags()

	if f.Changed("workunit-id") {
		v, _ := f.GetString("workunit-id")
		o.WorkunitID = &v
	}
	if f.Changed("output-dir") {
		v, _ := f.GetString("output-dir")
		o.OutputBaseDir = &v
	}
	if f.Changed("temp-dir") {
		v, _ := f.GetString("temp-dir")
		o.TempDirBase = &v
	}
	if f.Changed("diann-bin") {
		v, _ := f.GetString("diann-bin")
		o.EngineBin = &v
	}
	if f.Changed("var-mod") {
		raw, _ := f.GetStringArray("var-mod")
		mods, err := params.ParseVarMods(raw)
		if err != nil {
			return params.Partial{}, err
		}
		o.VarMods = &mods
	}

	if f.Changed("threads") {
		v, _ := f.GetInt("threads")
		o.Threads = &v
	}
	if f.Changed("qvalue") {
		v, _ := f.GetFloat64("qvalue")
		o.QValue = &v
	}
	if f.Changed("min-pep-len") {
		v, _ := f.GetInt("min-pep-len")
		o.MinPepLen = &v
	}
	if f.Changed("max-pep-len") {
		v, _ := f.GetInt("max-pep-len")
		o.MaxPepLen = &v
	}
	if f.Changed("min-pr-charge") {
		v, _ := f.GetInt("min-pr-charge")
		o.MinPrCharge = &v
	}
	if f.Changed("max-pr-charge") {
		v, _ := f.GetInt("max-pr-charge")
		o.MaxPrCharge = &v
	}
	if f.Changed("min-pr-mz") {
		v, _ := f.GetInt("min-pr-mz")
		o.MinPrMz = &v
	}
	if f.Changed("max-pr-mz") {
		v, _ := f.GetInt("max-pr-mz")
		o.MaxPrMz = &v
	}
	if f.Changed("min-fr-mz") {
		v, _ := f.GetInt("min-fr-mz")
		o.MinFrMz = &v
	}
	if f.Changed("max-fr-mz") {
		v, _ := f.GetInt("max-fr-mz")
		o.MaxFrMz = &v
	}
	if f.Changed("missed-cleavages") {
		v, _ := f.GetInt("missed-cleavages")
		o.MissedCleavages = &v
	}
	if f.Changed("cut") {
		v, _ := f.GetString("cut")
		o.Cut = &v
	}
	if f.Changed("mass-acc") {
		v, _ := f.GetInt("mass-acc")
		o.MassAcc = &v
	}
	if f.Changed("mass-acc-ms1") {
		v, _ := f.GetInt("mass-acc-ms1")
		o.MassAccMS1 = &v
	}
	if f.Changed("scan-window") {
		v, _ := f.GetInt("scan-window")
		o.ScanWindow = &v
	}
	if f.Changed("verbose") {
		v, _ := f.GetInt("verbose")
		o.Verbose = &v
	}
	if f.Changed("pg-level") {
		v, _ := f.GetInt("pg-level")
		o.PGLevel = &v
	}

	if f.Changed("dda") {
		v, _ := f.GetBool("dda")
		o.IsDDA = &v
	}
	if f.Changed("relaxed-prot-inf") {
		v, _ := f.GetBool("relaxed-prot-inf")
		o.RelaxedProtInf = &v
	}
	if f.Changed("reanalyse") {
		v, _ := f.GetBool("reanalyse")
		o.Reanalyse = &v
	}
	if f.Changed("no-norm") {
		v, _ := f.GetBool("no-norm")
		o.NoNorm = &v
	}
	if f.Changed("rt-profiling") {
		v, _ := f.GetBool("rt-profiling")
		o.RTProfiling = &v
	}
	if f.Changed("unimod4") {
		v, _ := f.GetBool("unimod4")
		o.Unimod4 = &v
	}
	if f.Changed("met-excision") {
		v, _ := f.GetBool("met-excision")
		o.MetExcision = &v
	}
	if f.Changed("no-peptidoforms") {
		v, _ := f.GetBool("no-peptidoforms")
		o.NoPeptidoforms = &v
	}

	return o, nil
}

// resolveParams applies the three precedence tiers: built-in defaults, the
// optional defaults file, then explicit flags.
func resolveParams(cmd *cobra.Command) (params.Params, error) {
	partials := make([]params.Partial, 0, 2)

	if path, _ := cmd.Flags().GetString("defaults-file"); path != "" {
		filePartial, err := params.LoadPartial(path)
		if err != nil {
			return params.Params{}, err
		}
		partials = append(partials, filePartial)
	}

	cliPartial, err := partialFromFlags(cmd)
	if err != nil {
		return params.Params{}, err
	}
	partials = append(partials, cliPartial)

	return params.Merge(params.Default(), partials...)
}

// parseExtraArgs splits a raw flag string into engine argv tokens with shell
// quoting rules, so values with spaces survive.
func parseExtraArgs(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	tokens, err := shlex.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing extra args: %w", err)
	}
	return tokens, nil
}
