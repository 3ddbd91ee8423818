package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/c2d/internal/cli/render"
)

// NewDeployCmd creates the deploy command group
func NewDeployCmd() *cobra.Command {
	deployCmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the factory, implementation and proxy",
		Long: `Deploy the CREATE2 factory and the planned contracts.

Every step checks for existing code at its predicted address first, so rerunning
a deploy is safe and only sends transactions for what is missing.`,
	}

	deployCmd.AddCommand(newDeployFactoryCmd(), newDeployContractsCmd(), newDeployAllCmd())
	return deployCmd
}

func newDeployFactoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factory",
		Short: "Deploy the CREATE2 factory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer finish(cmd)

			result, err := app.DeployFactory.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.NetworkName).RenderFactory(result)
		},
	}
}

func newDeployContractsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contracts",
		Short: "Deploy the implementation and its proxy through the factory",
		Example: `  # Deploy the plan's contracts on sepolia
  c2d deploy contracts --network sepolia

  # Deploy a different contract with the default plan layout
  c2d deploy contracts --contract Vault`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer finish(cmd)

			result, err := app.DeployContracts.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.NetworkName).RenderContracts(result)
		},
	}
}

func newDeployAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Deploy the factory, then the implementation and proxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer finish(cmd)

			result, err := app.DeployAll.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.NetworkName).RenderAll(result)
		},
	}
}
