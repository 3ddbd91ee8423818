package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/c2d/internal/adapters/progress"
	"github.com/trebuchet-org/c2d/internal/app"
	"github.com/trebuchet-org/c2d/internal/config"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// runKey is the context key for the per-command run state
	runKey contextKey = "run"
)

// runState is what PersistentPreRunE leaves for the command and finish
type runState struct {
	app    *app.App
	cancel context.CancelFunc
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "c2d",
		Short: "Deterministic CREATE2 deployment and upgrade orchestrator",
		Long: `c2d deploys a CREATE2 factory, an implementation and its ERC1967 proxy at
addresses that are known before any transaction is sent, and upgrades the proxy
while keeping a per-network record of every deployment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if !needsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink = progress.NewNopSink()
			if !v.GetBool("json") && !color.NoColor {
				sink = progress.NewSpinnerSink()
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := cmd.Context()
			cancel := context.CancelFunc(func() {})
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(context.WithValue(ctx, runKey, &runState{app: appInstance, cancel: cancel}))

			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("network", "n", "", "Network to use (e.g., local, sepolia)")
	flags.String("rpc-url", "", "Override the network's RPC URL")
	flags.String("plan", "", "Deployment plan file (defaults to c2d.plan.yaml)")
	flags.StringP("contract", "c", "", "Contract name, overriding the plan")
	flags.Bool("strict", false, "Fail when a deployed address differs from the prediction")
	flags.BoolP("yes", "y", false, "Skip confirmation prompts")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.Bool("json", false, "Output as JSON")
	flags.Bool("debug", false, "Enable debug output")
	flags.String("metrics-file", "", "Write deployment metrics in Prometheus text format to this file")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewDeployCmd(), NewUpgradeCmd(), NewPredictCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewExecutorCmd(), NewShowCmd(), NewHistoryCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// needsApp reports whether cmd runs against a project
func needsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return false
	}
	return cmd.Runnable()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	state, ok := cmd.Context().Value(runKey).(*runState)
	if !ok || state.app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return state.app, nil
}

// finish stops progress output, writes the metrics file and releases the
// command timeout. Commands defer it right after getApp so metrics are
// written for failed runs too.
func finish(cmd *cobra.Command) {
	state, ok := cmd.Context().Value(runKey).(*runState)
	if !ok {
		return
	}
	defer state.cancel()
	defer state.app.Close()

	if s, ok := state.app.Progress.(interface{ Stop() }); ok {
		s.Stop()
	}

	if path := state.app.Config.MetricsFile; path != "" {
		if err := state.app.Metrics.WriteTextfile(path); err != nil {
			state.app.Log.Warn("Failed to write metrics file", "path", path, "error", err)
		}
	}
}
