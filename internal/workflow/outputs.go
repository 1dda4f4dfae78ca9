package workflow

import (
	"path/filepath"

	"github.com/fgcz/diannctl/internal/params"
)

// FinalOutputs names the final quantification artifacts of a work unit.
// They come from the final-quantify stage when it is enabled, otherwise
// from the refine-and-quantify stage.
type FinalOutputs struct {
	ReportParquet string
	ReportTSV     string
	PGMatrix      string
	Stats         string
	Library       string
}

// ResolveFinalOutputs computes the final artifact paths for p.
func ResolveFinalOutputs(p params.Params, finalStageEnabled bool) FinalOutputs {
	dir := p.QuantBDir()
	if finalStageEnabled {
		dir = p.QuantCDir()
	}
	wu := p.WorkunitID
	return FinalOutputs{
		ReportParquet: filepath.Join(dir, wu+"_report.parquet"),
		ReportTSV:     filepath.Join(dir, wu+"_report.tsv"),
		PGMatrix:      filepath.Join(dir, wu+"_report.pg_matrix.tsv"),
		Stats:         filepath.Join(dir, wu+"_report.stats.tsv"),
		Library:       filepath.Join(dir, wu+"_report-lib.parquet"),
	}
}
