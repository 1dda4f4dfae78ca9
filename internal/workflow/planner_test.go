package workflow

import (
	"errors"
	"testing"

	"github.com/fgcz/diannctl/internal/params"
)

func testParams() params.Params {
	p := params.Default()
	p.WorkunitID = "WU42"
	p.OutputBaseDir = "out"
	p.TempDirBase = "tmp"
	return p
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"single-shot", "two-stage", "three-stage"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q): %v", s, err)
		}
	}
	if _, err := ParseMode("four-stage"); err == nil {
		t.Error("ParseMode should reject unknown modes")
	}
}

func TestPlanSingleShot(t *testing.T) {
	stages, err := Plan(testParams(), Request{
		Mode:        ModeSingleShot,
		FastaPaths:  []string{"db.fasta"},
		RefineFiles: []string{"a.mzML"},
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(stages))
	}
	st := stages[0]
	if st.Role != RoleSingleShot {
		t.Errorf("role = %q", st.Role)
	}
	if st.OutputDir != "out_quantB" {
		t.Errorf("output dir = %q, want out_quantB", st.OutputDir)
	}
	if st.PrimaryOutput != "out_quantB/WU42_report.parquet" {
		t.Errorf("primary output = %q", st.PrimaryOutput)
	}
}

func TestPlanSingleShotRejectsFinalStage(t *testing.T) {
	_, err := Plan(testParams(), Request{
		Mode:        ModeSingleShot,
		FinalStage:  true,
		FastaPaths:  []string{"db.fasta"},
		RefineFiles: []string{"a.mzML"},
	})
	var terr *InvalidTopologyError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *InvalidTopologyError, got %v", err)
	}
}

func TestPlanTwoStageRejectsFinalStage(t *testing.T) {
	_, err := Plan(testParams(), Request{
		Mode:        ModeTwoStage,
		FinalStage:  true,
		FastaPaths:  []string{"db.fasta"},
		RefineFiles: []string{"a.mzML"},
	})
	var terr *InvalidTopologyError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *InvalidTopologyError, got %v", err)
	}
}

func TestPlanTwoStageWiring(t *testing.T) {
	stages, err := Plan(testParams(), Request{
		Mode:        ModeTwoStage,
		FastaPaths:  []string{"db.fasta"},
		RefineFiles: []string{"a.mzML", "b.mzML"},
		Quantify:    true,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(stages))
	}

	predict, refine := stages[0], stages[1]
	if predict.Role != RolePredictLibrary || refine.Role != RoleRefineAndQuantify {
		t.Fatalf("roles = %q, %q", predict.Role, refine.Role)
	}
	if len(predict.RawFiles) != 0 {
		t.Errorf("predict stage should consume no raw files, got %v", predict.RawFiles)
	}

	// The refine stage's library input is the predict stage's declared output.
	lib := predict.Outputs[OutputPredictedLibrary]
	if lib == "" {
		t.Fatal("predict stage declares no predicted library output")
	}
	if refine.Inputs[InputPredictedLibrary] != lib {
		t.Errorf("refine input = %q, want %q", refine.Inputs[InputPredictedLibrary], lib)
	}
	if lib != "out_libA/WU42_report-lib.predicted.speclib" {
		t.Errorf("predicted library = %q", lib)
	}
	if refine.Outputs[OutputProteinMatrix] == "" {
		t.Error("quantifying refine stage should declare a protein matrix output")
	}
}

func TestPlanThreeStage(t *testing.T) {
	stages, err := Plan(testParams(), Request{
		Mode:        ModeThreeStage,
		FinalStage:  true,
		FastaPaths:  []string{"db.fasta"},
		RefineFiles: []string{"a.mzML"},
		FinalFiles:  []string{"a.mzML", "b.mzML", "c.mzML"},
		UseQuant:    true,
		SaveLibrary: true,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(stages))
	}

	refine, final := stages[1], stages[2]
	if final.Role != RoleFinalQuantify {
		t.Fatalf("final role = %q", final.Role)
	}
	if final.Inputs[InputRefinedLibrary] != refine.Outputs[OutputRefinedLibrary] {
		t.Error("final stage not wired to the refined library")
	}
	if len(final.RawFiles) != 3 {
		t.Errorf("final stage raw files = %d, want 3", len(final.RawFiles))
	}
	if !final.UseQuant || !final.SaveLibrary {
		t.Error("final stage toggles not carried through")
	}
	if final.OutputDir != "out_quantC" {
		t.Errorf("final output dir = %q", final.OutputDir)
	}
}

func TestPlanThreeStageWithoutFinalFlag(t *testing.T) {
	// Three-stage mode without the final flag plans only the first two
	// stages; the final stage is generated later against the refine record.
	stages, err := Plan(testParams(), Request{
		Mode:        ModeThreeStage,
		FastaPaths:  []string{"db.fasta"},
		RefineFiles: []string{"a.mzML"},
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(stages))
	}
}

func TestPlanFinalFilesDefaultToRefineFiles(t *testing.T) {
	stages, err := Plan(testParams(), Request{
		Mode:        ModeThreeStage,
		FinalStage:  true,
		FastaPaths:  []string{"db.fasta"},
		RefineFiles: []string{"a.mzML", "b.mzML"},
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	final := stages[2]
	if len(final.RawFiles) != 2 || final.RawFiles[0] != "a.mzML" {
		t.Errorf("final raw files = %v, want refine files", final.RawFiles)
	}
}

func TestPlanMissingInputs(t *testing.T) {
	_, err := Plan(testParams(), Request{Mode: ModeTwoStage, RefineFiles: []string{"a.mzML"}})
	var merr *MissingInputError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *MissingInputError for missing fasta, got %v", err)
	}

	_, err = Plan(testParams(), Request{Mode: ModeTwoStage, FastaPaths: []string{"db.fasta"}})
	var rerr *MissingRawFilesError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *MissingRawFilesError, got %v", err)
	}
}

func TestStageNamesFollowScheme(t *testing.T) {
	p := testParams()
	refine := RefineStage(p, []string{"a.mzML"}, "lib.speclib", true)
	if refine.LogFile != "out_quantB/diann_quantB.log.txt" {
		t.Errorf("refine log = %q", refine.LogFile)
	}
	if refine.TempDir != "tmp_quantB" {
		t.Errorf("refine temp = %q", refine.TempDir)
	}
	if refine.PrimaryOutput != "out_quantB/WU42_report-lib.parquet" {
		t.Errorf("refine primary output = %q", refine.PrimaryOutput)
	}

	final := FinalStage(p, []string{"a.mzML"}, "lib.parquet", false, false)
	if final.LogFile != "out_quantC/diann_quantC.log.txt" {
		t.Errorf("final log = %q", final.LogFile)
	}
	if _, ok := final.Outputs[OutputFinalLibrary]; ok {
		t.Error("final stage without save-library should not declare a library output")
	}
}

func TestResolveFinalOutputs(t *testing.T) {
	p := testParams()

	two := ResolveFinalOutputs(p, false)
	if two.ReportParquet != "out_quantB/WU42_report.parquet" {
		t.Errorf("two-stage report = %q", two.ReportParquet)
	}
	if two.PGMatrix != "out_quantB/WU42_report.pg_matrix.tsv" {
		t.Errorf("two-stage pg matrix = %q", two.PGMatrix)
	}

	three := ResolveFinalOutputs(p, true)
	if three.ReportParquet != "out_quantC/WU42_report.parquet" {
		t.Errorf("three-stage report = %q", three.ReportParquet)
	}
}
