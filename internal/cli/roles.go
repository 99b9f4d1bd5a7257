package cli

import (
	"fmt"

	"intervue/internal/catalog"
	"intervue/internal/common"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:     "roles",
	Short:   "List the roles available for interview",
	Long:    "List all roles defined in the role catalog file.",
	Args:    cobra.NoArgs,
	PreRunE: preRunOutputFormat(&rolesConfig),
	RunE:    runRoles,
}

var rolesConfig common.CommandConfig

func init() {
	rolesCmd.Flags().StringVarP(&rolesConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rolesCmd.Flags().StringVar(&rolesConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	registerFormatCompletion(rolesCmd)
}

func runRoles(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	cat, err := catalog.Load(cfg.Storage.RolesFile)
	if err != nil {
		return fmt.Errorf("failed to load role catalog: %w", err)
	}

	return common.WriteOutput(logger, cat.Roles(), rolesConfig)
}
