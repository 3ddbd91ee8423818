package cli

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/c2d/internal/cli/render"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// NewPredictCmd creates the predict command
func NewPredictCmd() *cobra.Command {
	var (
		factory string
		caller  string
		onChain bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict where the plan's contracts will be deployed",
		Long: `Compute the CREATE2 addresses of the implementation, proxy and upgrade
implementation without sending transactions.

By default the recorded factory and the configured deployer are used. With
--onchain each address is checked for code and compared with the factory's
getDeployed.`,
		Example: `  c2d predict --network sepolia
  c2d predict --factory 0x5FbDB2315678afecb367f032d93F642f64180aa3 --caller 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := usecase.PredictAddressesParams{OnChain: onChain}
			for _, opt := range []struct {
				value  string
				target **common.Address
			}{
				{factory, &params.Factory},
				{caller, &params.Caller},
			} {
				if opt.value == "" {
					continue
				}
				addr, err := parseAddress(opt.value)
				if err != nil {
					return err
				}
				*opt.target = &addr
			}

			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer finish(cmd)

			result, err := app.PredictAddresses.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewPredictRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&factory, "factory", "", "Factory address (defaults to the recorded factory)")
	cmd.Flags().StringVar(&caller, "caller", "", "Caller address (defaults to the configured deployer)")
	cmd.Flags().BoolVar(&onChain, "onchain", false, "Check deployed code and the factory's getDeployed")

	return cmd
}
