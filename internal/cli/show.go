package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/c2d/internal/cli/render"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the recorded factory, deployment, executors and upgrades",
		Example: `  c2d show --network sepolia
  c2d show --network sepolia --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer finish(cmd)

			result, err := app.ShowRecord.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewRecordRenderer(cmd.OutOrStdout()).RenderRecord(result)
		},
	}
}

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded proxy upgrades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer finish(cmd)

			result, err := app.ShowRecord.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result.History)
			}
			return render.NewRecordRenderer(cmd.OutOrStdout()).RenderHistory(result.History)
		},
	}
}
