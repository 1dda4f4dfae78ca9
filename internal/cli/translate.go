package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fgcz/diannctl/internal/configstore"
	"github.com/fgcz/diannctl/internal/koina"
	"github.com/fgcz/diannctl/internal/params"
)

func newTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate a parameter set into another tool's configuration",
	}
	cmd.AddCommand(newTranslateKoinaCmd())
	return cmd
}

func newTranslateKoinaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "koina",
		Short: "Export an Oktoberfest config for Koina spectral library prediction",
		Long: `Export the search parameters as an Oktoberfest configuration so the spectral
library can be predicted by a Koina server instead of the engine's built-in
predictor. Pass --config to translate the exact parameters a stage ran with.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p params.Params
			if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
				rec, err := configstore.Load(configPath)
				if err != nil {
					return err
				}
				p = rec.Params
			} else {
				var err error
				p, err = resolveParams(cmd)
				if err != nil {
					return err
				}
			}

			fasta, _ := cmd.Flags().GetString("fasta")
			if fasta == "" {
				return fmt.Errorf("--fasta is required")
			}

			instrument, _ := cmd.Flags().GetString("instrument")
			server, _ := cmd.Flags().GetString("prediction-server")
			intensityModel, _ := cmd.Flags().GetString("intensity-model")
			irtModel, _ := cmd.Flags().GetString("irt-model")
			collisionEnergy, _ := cmd.Flags().GetInt("collision-energy")
			format, _ := cmd.Flags().GetString("output-format")
			outputDir, _ := cmd.Flags().GetString("library-output-dir")

			cfg, err := koina.FromParams(p, fasta, koina.Options{
				Instrument:       instrument,
				PredictionServer: server,
				IntensityModel:   intensityModel,
				IRTModel:         irtModel,
				CollisionEnergy:  collisionEnergy,
				OutputFormat:     format,
				OutputDir:        outputDir,
			})
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("output")
			if err := koina.Save(cfg, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote Oktoberfest config to %s\n", out)

			if show, _ := cmd.Flags().GetBool("show-comparison"); show {
				printComparison(cmd, p, cfg)
			}
			return nil
		},
	}
	addParamFlags(cmd)
	cmd.Flags().String("config", "", "stage config record to translate instead of flags")
	cmd.Flags().String("fasta", "", "FASTA database the predictor should digest")
	cmd.Flags().String("output", "oktoberfest_config.json", "path for the generated config")
	cmd.Flags().String("instrument", "QE", "instrument type: QE, TIMSTOF or ASTRAL")
	cmd.Flags().String("prediction-server", "", "Koina server address")
	cmd.Flags().String("intensity-model", "", "override the instrument's intensity model")
	cmd.Flags().String("irt-model", "", "override the instrument's iRT model")
	cmd.Flags().Int("collision-energy", 0, "collision energy, 0 selects the default")
	cmd.Flags().String("output-format", "", "predicted library format")
	cmd.Flags().String("library-output-dir", "", "directory for the predicted library")
	cmd.Flags().Bool("show-comparison", false, "print the parameter mapping table")
	return cmd
}

// printComparison shows side by side how the search parameters were mapped
// into the predictor config, the quickest way to spot a mis-translation.
func printComparison(cmd *cobra.Command, p params.Params, cfg *koina.Config) {
	charges := make([]string, len(cfg.SpectralLibrary.PrecursorCharge))
	for i, c := range cfg.SpectralLibrary.PrecursorCharge {
		charges[i] = fmt.Sprintf("%d", c)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tENGINE\tOKTOBERFEST")
	fmt.Fprintf(w, "enzyme\t%s\t%s\n", p.Cut, cfg.FastaDigest.Enzyme)
	fmt.Fprintf(w, "special AAs\t%s\t%s\n", p.Cut, cfg.FastaDigest.SpecialAas)
	fmt.Fprintf(w, "missed cleavages\t%d\t%d\n", p.MissedCleavages, cfg.FastaDigest.MissedCleavages)
	fmt.Fprintf(w, "peptide length\t%d-%d\t%d-%d\n", p.MinPepLen, p.MaxPepLen, cfg.FastaDigest.MinLength, cfg.FastaDigest.MaxLength)
	fmt.Fprintf(w, "precursor charge\t%d-%d\t%s\n", p.MinPrCharge, p.MaxPrCharge, strings.Join(charges, ","))
	fmt.Fprintf(w, "oxidations\t%d mods\t%d\n", len(p.VarMods), cfg.SpectralLibrary.NrOx)
	fmt.Fprintf(w, "intensity model\t-\t%s\n", cfg.Models["intensity"])
	fmt.Fprintf(w, "iRT model\t-\t%s\n", cfg.Models["irt"])
	if im, ok := cfg.Models["im"]; ok {
		fmt.Fprintf(w, "IM model\t-\t%s\n", im)
	}
	w.Flush()
}
