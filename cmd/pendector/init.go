// SPDX-License-Identifier: MIT
package pendector

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skaphos/pendector/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default Pendector configuration",
	Long:  "Creates a Pendector config file at the resolved config path (--config, PENDECTOR_CONFIG, or the user config directory).",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cfgPath, err := config.ConfigPath(flagConfig)
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfgPath); err == nil {
			if !force {
				return fmt.Errorf("config already exists at %q (use --force to overwrite)", cfgPath)
			}
			if err := os.Remove(cfgPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove existing config %q: %w", cfgPath, err)
			}
		}

		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", cfgPath); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite existing config without prompting")

	rootCmd.AddCommand(initCmd)
}
