package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
)

// LocalDeployerKey is the first well-known development account of anvil and
// hardhat, used on the local network when no deployer is configured
const LocalDeployerKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	project, err := LoadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".c2d"),
		ArtifactsDir:   projectPath(projectRoot, project.Deploy.ArtifactsDir, "out"),
		DeploymentsDir: projectPath(projectRoot, project.Deploy.DeploymentsDir, "deployments"),
		NetworkName:    v.GetString("network"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		AssumeYes:      v.GetBool("yes"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		MetricsFile:    v.GetString("metrics_file"),
	}
	if cfg.NetworkName == "" {
		cfg.NetworkName = DefaultNetwork
	}

	network, err := NewNetworkResolver(project).Resolve(cfg.NetworkName)
	if err != nil {
		return nil, err
	}
	if rpc := v.GetString("rpc_url"); rpc != "" {
		network.RPCURL = rpc
	}
	cfg.Network = network

	if cfg.Senders, err = resolveSenders(project.Senders, v, cfg.NetworkName); err != nil {
		return nil, err
	}
	if cfg.Deploy, err = resolveDeploySettings(project.Deploy, v); err != nil {
		return nil, err
	}
	if cfg.Lock, err = resolveLockSettings(project.Lock); err != nil {
		return nil, err
	}

	planPath := v.GetString("plan")
	if planPath == "" {
		planPath = project.Deploy.Plan
	}
	if cfg.Plan, err = LoadPlan(projectRoot, planPath, v.GetString("contract")); err != nil {
		return nil, err
	}

	return cfg, nil
}

func resolveSenders(raw SendersTOML, v *viper.Viper, network string) (config.Senders, error) {
	deployer, err := resolveSender("deployer", raw.Deployer, v.GetString("deployer_key"))
	if err != nil {
		return config.Senders{}, err
	}
	factory, err := resolveSender("factory", raw.Factory, v.GetString("factory_key"))
	if err != nil {
		return config.Senders{}, err
	}

	if network == DefaultNetwork && !deployer.CanSign() && deployer.Address == (common.Address{}) {
		deployer.PrivateKey = LocalDeployerKey
	}

	return config.Senders{Deployer: deployer, Factory: factory}, nil
}

func resolveSender(role string, raw SenderTOML, keyOverride string) (config.Sender, error) {
	sender := config.Sender{PrivateKey: raw.PrivateKey}
	if keyOverride != "" {
		sender.PrivateKey = keyOverride
	}
	if raw.Address != "" {
		if !common.IsHexAddress(raw.Address) {
			return config.Sender{}, fmt.Errorf("senders.%s.address %q: %w", role, raw.Address, domain.ErrInvalidAddress)
		}
		sender.Address = common.HexToAddress(raw.Address)
	}
	return sender, nil
}

func resolveDeploySettings(raw DeployTOML, v *viper.Viper) (config.DeploySettings, error) {
	settings := config.DeploySettings{
		GasLimit:           raw.GasLimit,
		StrictAddressMatch: raw.StrictAddressMatch || v.GetBool("strict"),
		Scheme:             config.AddressScheme(strings.ToLower(raw.Scheme)),
	}
	if gas := v.GetUint64("gas_limit"); gas > 0 {
		settings.GasLimit = gas
	}

	var err error
	if settings.LeaseTTL, err = parseDuration("deploy.lease_ttl", raw.LeaseTTL); err != nil {
		return settings, err
	}
	if settings.ReceiptTimeout, err = parseDuration("deploy.receipt_timeout", raw.ReceiptTimeout); err != nil {
		return settings, err
	}

	if settings.ReceiptTimeout == 0 {
		settings.ReceiptTimeout = config.DefaultReceiptTimeout
	}
	minLease := settings.ReceiptTimeout + config.LeaseMargin
	switch {
	case settings.LeaseTTL == 0:
		settings.LeaseTTL = max(config.DefaultLeaseTTL, minLease)
	case settings.LeaseTTL < minLease:
		return settings, fmt.Errorf("deploy.lease_ttl %s must be at least deploy.receipt_timeout %s plus %s",
			settings.LeaseTTL, settings.ReceiptTimeout, config.LeaseMargin)
	}

	switch settings.Scheme {
	case "":
		settings.Scheme = config.SchemeGuarded
	case config.SchemeGuarded, config.SchemePlain:
	default:
		return settings, fmt.Errorf("deploy.scheme must be %q or %q, got %q", config.SchemeGuarded, config.SchemePlain, raw.Scheme)
	}
	return settings, nil
}

func resolveLockSettings(raw LockTOML) (config.LockSettings, error) {
	settings := config.LockSettings{
		Backend: config.LockBackend(strings.ToLower(raw.Backend)),
		DSN:     raw.DSN,
	}
	switch settings.Backend {
	case "":
		settings.Backend = config.LockBackendFile
	case config.LockBackendFile, config.LockBackendPostgres:
	default:
		return settings, fmt.Errorf("lock.backend must be %q or %q, got %q", config.LockBackendFile, config.LockBackendPostgres, raw.Backend)
	}
	return settings, nil
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func projectPath(root, value, fallback string) string {
	if value == "" {
		value = fallback
	}
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(root, value)
}

// projectMarkers identify a project root, in order of preference
var projectMarkers = []string{ProjectFileName, "foundry.toml", "hardhat.config.ts", "hardhat.config.js"}

// FindProjectRoot walks up from the current directory to the nearest project
// marker. Outside any project the current directory is used.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRoot(cwd), nil
}

func findProjectRoot(start string) string {
	for _, marker := range projectMarkers {
		dir := start
		for {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return start
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".c2d"))

	// Set up environment variables
	v.SetEnvPrefix("C2D")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("network", DefaultNetwork)
	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		bind := func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		}
		cmd.Flags().VisitAll(bind)
		cmd.InheritedFlags().VisitAll(bind)
	}

	return v
}
