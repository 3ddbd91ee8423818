package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/c2d/internal/cli/render"
)

// NewUpgradeCmd creates the upgrade command
func NewUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Deploy the plan's upgrade implementation and point the proxy at it",
		Long: `Deploy the upgrade implementation under its own salt and call upgradeTo on
the recorded proxy.

The deployer must own the proxy. The previous record is kept in the upgrade
history and the deployment record is superseded once the upgrade is included.`,
		Example: `  c2d upgrade --network sepolia
  c2d upgrade --network sepolia --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer finish(cmd)

			result, err := app.UpgradeProxy.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.NetworkName).RenderUpgrade(result)
		},
	}
}
