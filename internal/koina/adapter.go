// Package koina exports a parameter set to the Oktoberfest predictor's
// configuration schema, so the same parameters can drive Koina/Prosit
// spectral library prediction instead of the engine's built-in predictor.
// The export is one-way; the mapping tables below are the authoritative
// contract and each row is covered by a unit test, since a silent mis-map
// here produces wrong science without any crash.
package koina

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fgcz/diannctl/internal/params"
)

// Engine cleavage patterns mapped to the enzyme names Oktoberfest expects.
// Unknown patterns fall back to trypsin.
var enzymeByCut = map[string]string{
	"K*,R*": "trypsin",
	"K*":    "lysc",
	"D*":    "aspn",
	"E*":    "gluc",
}

// Default Koina models per instrument type.
var modelsByInstrument = map[string]map[string]string{
	"QE": {
		"intensity": "Prosit_2020_intensity_HCD",
		"irt":       "Prosit_2019_irt",
	},
	"TIMSTOF": {
		"intensity": "Prosit_2023_intensity_timsTOF",
		"irt":       "Prosit_2019_irt",
		"im":        "Prosit_2023_IM",
	},
	"ASTRAL": {
		"intensity": "Prosit_2020_intensity_HCD",
		"irt":       "Prosit_2019_irt",
	},
}

// Config is the Oktoberfest configuration document.
type Config struct {
	Type             string            `json:"type"`
	Tag              string            `json:"tag"`
	Inputs           Inputs            `json:"inputs"`
	Output           string            `json:"output"`
	Models           map[string]string `json:"models"`
	PredictionServer string            `json:"prediction_server"`
	SSL              bool              `json:"ssl"`
	SpectralLibrary  LibraryOptions    `json:"spectralLibraryOptions"`
	FastaDigest      DigestOptions     `json:"fastaDigestOptions"`
}

type Inputs struct {
	LibraryInput     string `json:"library_input"`
	LibraryInputType string `json:"library_input_type"`
	InstrumentType   string `json:"instrument_type"`
}

type LibraryOptions struct {
	Fragmentation   string  `json:"fragmentation"`
	CollisionEnergy int     `json:"collisionEnergy"`
	PrecursorCharge []int   `json:"precursorCharge"`
	MinIntensity    float64 `json:"minIntensity"`
	NrOx            int     `json:"nrOx"`
	BatchSize       int     `json:"batchsize"`
	Format          string  `json:"format"`
}

type DigestOptions struct {
	Fragmentation   string `json:"fragmentation"`
	Digestion       string `json:"digestion"`
	MissedCleavages int    `json:"missedCleavages"`
	MinLength       int    `json:"minLength"`
	MaxLength       int    `json:"maxLength"`
	Enzyme          string `json:"enzyme"`
	SpecialAas      string `json:"specialAas"`
	Db              string `json:"db"`
}

// Options tune the export; zero values select sensible defaults.
type Options struct {
	Instrument       string // QE, TIMSTOF or ASTRAL
	PredictionServer string
	IntensityModel   string // override the instrument default
	IRTModel         string
	CollisionEnergy  int
	OutputFormat     string
	OutputDir        string
}

// FromParams maps a validated parameter set to an Oktoberfest config.
func FromParams(p params.Params, fastaPath string, opts Options) (*Config, error) {
	instrument := opts.Instrument
	if instrument == "" {
		instrument = "QE"
	}
	defaults, ok := modelsByInstrument[instrument]
	if !ok {
		return nil, fmt.Errorf("unknown instrument type %q (expected QE, TIMSTOF or ASTRAL)", instrument)
	}

	models := map[string]string{
		"intensity": defaults["intensity"],
		"irt":       defaults["irt"],
	}
	if m, ok := defaults["im"]; ok {
		models["im"] = m
	}
	if opts.IntensityModel != "" {
		models["intensity"] = opts.IntensityModel
	}
	if opts.IRTModel != "" {
		models["irt"] = opts.IRTModel
	}

	server := opts.PredictionServer
	if server == "" {
		server = "koina.wilhelmlab.org:443"
	}
	collisionEnergy := opts.CollisionEnergy
	if collisionEnergy == 0 {
		collisionEnergy = 30
	}
	format := opts.OutputFormat
	if format == "" {
		format = "msp"
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "./out"
	}

	enzyme, ok := enzymeByCut[p.Cut]
	if !ok {
		enzyme = "trypsin"
	}

	charges := make([]int, 0, p.MaxPrCharge-p.MinPrCharge+1)
	for c := p.MinPrCharge; c <= p.MaxPrCharge; c++ {
		charges = append(charges, c)
	}

	return &Config{
		Type: "SpectralLibraryGeneration",
		Tag:  p.WorkunitID,
		Inputs: Inputs{
			LibraryInput:     filepath.Base(fastaPath),
			LibraryInputType: "fasta",
			InstrumentType:   instrument,
		},
		Output:           outputDir,
		Models:           models,
		PredictionServer: server,
		SSL:              true,
		SpectralLibrary: LibraryOptions{
			Fragmentation:   "HCD",
			CollisionEnergy: collisionEnergy,
			PrecursorCharge: charges,
			MinIntensity:    5e-4,
			NrOx:            countOxidations(p.VarMods),
			BatchSize:       10000,
			Format:          format,
		},
		FastaDigest: DigestOptions{
			Fragmentation:   "HCD",
			Digestion:       "full",
			MissedCleavages: p.MissedCleavages,
			MinLength:       p.MinPepLen,
			MaxLength:       p.MaxPepLen,
			Enzyme:          enzyme,
			SpecialAas:      specialAas(p.Cut),
			Db:              "concat",
		},
	}, nil
}

// countOxidations reports how many oxidations the predictor should allow:
// 1 when the modification list carries UniMod:35 on methionine, else 0.
func countOxidations(mods []params.Modification) int {
	for _, m := range mods {
		if m.UniModID == "35" && strings.Contains(m.Residues, "M") {
			return 1
		}
	}
	return 0
}

// specialAas strips the wildcard syntax from the cleavage pattern, leaving
// just the residue letters ("K*,R*" -> "KR").
func specialAas(cut string) string {
	s := strings.ReplaceAll(cut, "*", "")
	return strings.ReplaceAll(s, ",", "")
}

// Save writes the config as indented JSON.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal oktoberfest config: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write oktoberfest config: %w", err)
	}
	return nil
}
