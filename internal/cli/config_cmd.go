package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fgcz/diannctl/internal/params"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, inspect and validate parameter defaults",
	}
	cmd.AddCommand(newConfigCreateCmd(), newConfigShowCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a defaults file seeded with the built-in defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("output")

			data, err := yaml.Marshal(params.Default())
			if err != nil {
				return fmt.Errorf("marshal defaults: %w", err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write defaults file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote defaults to %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("output", "diann_defaults.yaml", "path for the generated defaults file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective parameters after merging all tiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Merged without validation so a partially filled-in config can
			// still be inspected.
			p := params.Default()
			if path, _ := cmd.Flags().GetString("defaults-file"); path != "" {
				filePartial, err := params.LoadPartial(path)
				if err != nil {
					return err
				}
				filePartial.Apply(&p)
			}
			cliPartial, err := partialFromFlags(cmd)
			if err != nil {
				return err
			}
			cliPartial.Apply(&p)

			data, err := yaml.Marshal(p)
			if err != nil {
				return fmt.Errorf("marshal params: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	addParamFlags(cmd)
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the merged parameter set",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := resolveParams(cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid.")
			return nil
		},
	}
	addParamFlags(cmd)
	return cmd
}
