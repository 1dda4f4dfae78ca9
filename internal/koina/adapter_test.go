package koina

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fgcz/diannctl/internal/params"
)

func testParams() params.Params {
	p := params.Default()
	p.WorkunitID = "WU42"
	return p
}

func TestEnzymeMapping(t *testing.T) {
	tests := []struct {
		cut  string
		want string
	}{
		{"K*,R*", "trypsin"},
		{"K*", "lysc"},
		{"D*", "aspn"},
		{"E*", "gluc"},
		{"X*", "trypsin"}, // unknown patterns fall back to trypsin
	}
	for _, tt := range tests {
		p := testParams()
		p.Cut = tt.cut
		cfg, err := FromParams(p, "db.fasta", Options{})
		if err != nil {
			t.Fatalf("FromParams(cut=%q): %v", tt.cut, err)
		}
		if cfg.FastaDigest.Enzyme != tt.want {
			t.Errorf("cut %q -> enzyme %q, want %q", tt.cut, cfg.FastaDigest.Enzyme, tt.want)
		}
	}
}

func TestInstrumentModels(t *testing.T) {
	tests := []struct {
		instrument string
		intensity  string
		wantIM     bool
	}{
		{"QE", "Prosit_2020_intensity_HCD", false},
		{"TIMSTOF", "Prosit_2023_intensity_timsTOF", true},
		{"ASTRAL", "Prosit_2020_intensity_HCD", false},
	}
	for _, tt := range tests {
		cfg, err := FromParams(testParams(), "db.fasta", Options{Instrument: tt.instrument})
		if err != nil {
			t.Fatalf("FromParams(%s): %v", tt.instrument, err)
		}
		if cfg.Models["intensity"] != tt.intensity {
			t.Errorf("%s intensity = %q, want %q", tt.instrument, cfg.Models["intensity"], tt.intensity)
		}
		if cfg.Models["irt"] != "Prosit_2019_irt" {
			t.Errorf("%s irt = %q", tt.instrument, cfg.Models["irt"])
		}
		_, hasIM := cfg.Models["im"]
		if hasIM != tt.wantIM {
			t.Errorf("%s im model present = %v, want %v", tt.instrument, hasIM, tt.wantIM)
		}
	}
}

func TestUnknownInstrument(t *testing.T) {
	if _, err := FromParams(testParams(), "db.fasta", Options{Instrument: "ORBITRAP"}); err == nil {
		t.Fatal("unknown instrument should be rejected")
	}
}

func TestModelOverrides(t *testing.T) {
	cfg, err := FromParams(testParams(), "db.fasta", Options{
		IntensityModel: "Custom_intensity",
		IRTModel:       "Custom_irt",
	})
	if err != nil {
		t.Fatalf("FromParams: %v", err)
	}
	if cfg.Models["intensity"] != "Custom_intensity" || cfg.Models["irt"] != "Custom_irt" {
		t.Errorf("overrides not applied: %v", cfg.Models)
	}
}

func TestDigestFollowsParams(t *testing.T) {
	p := testParams()
	p.MissedCleavages = 2
	p.MinPepLen = 7
	p.MaxPepLen = 25

	cfg, err := FromParams(p, "/data/human.fasta", Options{})
	if err != nil {
		t.Fatalf("FromParams: %v", err)
	}
	d := cfg.FastaDigest
	if d.MissedCleavages != 2 || d.MinLength != 7 || d.MaxLength != 25 {
		t.Errorf("digest = %+v", d)
	}
	if d.SpecialAas != "KR" {
		t.Errorf("special AAs = %q, want KR", d.SpecialAas)
	}
	if cfg.Inputs.LibraryInput != "human.fasta" {
		t.Errorf("library input = %q, want basename only", cfg.Inputs.LibraryInput)
	}
}

func TestPrecursorChargeRange(t *testing.T) {
	p := testParams()
	p.MinPrCharge = 1
	p.MaxPrCharge = 4

	cfg, err := FromParams(p, "db.fasta", Options{})
	if err != nil {
		t.Fatalf("FromParams: %v", err)
	}
	if !reflect.DeepEqual(cfg.SpectralLibrary.PrecursorCharge, []int{1, 2, 3, 4}) {
		t.Errorf("charges = %v", cfg.SpectralLibrary.PrecursorCharge)
	}
}

func TestOxidationCount(t *testing.T) {
	p := testParams()
	cfg, _ := FromParams(p, "db.fasta", Options{})
	if cfg.SpectralLibrary.NrOx != 0 {
		t.Errorf("no mods should give 0 oxidations, got %d", cfg.SpectralLibrary.NrOx)
	}

	p.VarMods = []params.Modification{{UniModID: "35", MassDelta: "15.994915", Residues: "M"}}
	cfg, _ = FromParams(p, "db.fasta", Options{})
	if cfg.SpectralLibrary.NrOx != 1 {
		t.Errorf("methionine oxidation should give 1, got %d", cfg.SpectralLibrary.NrOx)
	}

	// UniMod 35 on another residue is not methionine oxidation.
	p.VarMods = []params.Modification{{UniModID: "35", MassDelta: "15.994915", Residues: "W"}}
	cfg, _ = FromParams(p, "db.fasta", Options{})
	if cfg.SpectralLibrary.NrOx != 0 {
		t.Errorf("non-M oxidation should give 0, got %d", cfg.SpectralLibrary.NrOx)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromParams(testParams(), "db.fasta", Options{})
	if err != nil {
		t.Fatalf("FromParams: %v", err)
	}
	if cfg.Type != "SpectralLibraryGeneration" {
		t.Errorf("type = %q", cfg.Type)
	}
	if cfg.Tag != "WU42" {
		t.Errorf("tag = %q, want the workunit id", cfg.Tag)
	}
	if cfg.PredictionServer != "koina.wilhelmlab.org:443" {
		t.Errorf("server = %q", cfg.PredictionServer)
	}
	if !cfg.SSL {
		t.Error("ssl should default to true")
	}
	if cfg.SpectralLibrary.CollisionEnergy != 30 {
		t.Errorf("collision energy = %d", cfg.SpectralLibrary.CollisionEnergy)
	}
	if cfg.SpectralLibrary.Format != "msp" {
		t.Errorf("format = %q", cfg.SpectralLibrary.Format)
	}
}

func TestSave(t *testing.T) {
	cfg, err := FromParams(testParams(), "db.fasta", Options{})
	if err != nil {
		t.Fatalf("FromParams: %v", err)
	}
	path := filepath.Join(t.TempDir(), "oktoberfest_config.json")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("saved config is not valid JSON: %v", err)
	}
	for _, key := range []string{"type", "tag", "inputs", "models", "spectralLibraryOptions", "fastaDigestOptions"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("saved config missing key %q", key)
		}
	}
}
