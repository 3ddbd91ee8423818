package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/c2d/internal/cli/render"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// NewExecutorCmd creates the executor command group
func NewExecutorCmd() *cobra.Command {
	executorCmd := &cobra.Command{
		Use:   "executor",
		Short: "Manage executor permissions on the proxy",
	}

	executorCmd.AddCommand(newExecutorSetCmd(), newExecutorListCmd())
	return executorCmd
}

func newExecutorSetCmd() *cobra.Command {
	var disable bool

	cmd := &cobra.Command{
		Use:   "set <address>",
		Short: "Grant or revoke executor permission",
		Example: `  # Allow an address to execute
  c2d executor set 0x70997970C51812dc3A010C7d01b50e0d17dc79C8

  # Revoke it again
  c2d executor set 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 --disable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			executor, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer finish(cmd)

			result, err := app.SetExecutor.Run(cmd.Context(), usecase.SetExecutorParams{
				Executor: executor,
				Status:   !disable,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewRecordRenderer(cmd.OutOrStdout()).RenderExecutorChange(result)
		},
	}

	cmd.Flags().BoolVar(&disable, "disable", false, "Revoke executor permission instead of granting it")

	return cmd
}

func newExecutorListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded executors",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer finish(cmd)

			registry, err := app.ListExecutors.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), registry)
			}
			return render.NewRecordRenderer(cmd.OutOrStdout()).RenderExecutors(registry)
		},
	}
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%q: %w", s, domain.ErrInvalidAddress)
	}
	return common.HexToAddress(s), nil
}
