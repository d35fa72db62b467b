// Package commands holds CLI sub-commands attached to the PocketBase root command.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"proposalgen/config"
	"proposalgen/services"
)

// NewScaffoldCommand returns the "scaffold-templates [dir]" command, which
// writes a blank cost-breakdown workbook for every supported utility. The
// directory defaults to the configured templates directory.
func NewScaffoldCommand(cfg *config.Config) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "scaffold-templates [dir]",
		Short: "Write blank utility cost-breakdown templates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.TemplatesDir
			if len(args) == 1 {
				dir = args[0]
			}

			utilities := services.Utilities
			if only != "" {
				u, err := services.ParseUtility(only)
				if err != nil {
					return err
				}
				utilities = []services.UtilityType{u}
			}

			for _, u := range utilities {
				path, err := services.ScaffoldTemplateFile(dir, u)
				if err != nil {
					return fmt.Errorf("scaffold %s: %w", u, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&only, "utility", "", "only scaffold this utility (national-grid or nyseg-rge)")
	return cmd
}
