package config

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot    string
	DataDir        string
	DeploymentsDir string
	ArtifactsDir   string

	// Context settings
	NetworkName string
	Network     *Network // nil if the network has no RPC configured

	// Execution settings
	Debug          bool
	NonInteractive bool
	AssumeYes      bool
	JSON           bool
	Timeout        time.Duration
	MetricsFile    string

	Senders Senders
	Deploy  DeploySettings
	Lock    LockSettings

	// Resolved deployment plan
	Plan *Plan
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// AddressScheme selects how the factory binds salts to callers
type AddressScheme string

const (
	// SchemeGuarded hashes the caller into the salt: keccak256(caller ++ salt)
	SchemeGuarded AddressScheme = "guarded"
	// SchemePlain uses the salt as is
	SchemePlain AddressScheme = "plain"
)

const (
	DefaultReceiptTimeout = 5 * time.Minute
	DefaultLeaseTTL       = 10 * time.Minute
	// LeaseMargin is the least a lease must outlive the receipt wait it covers
	LeaseMargin = 30 * time.Second
)

// DeploySettings control transaction submission and result policies.
// LeaseTTL always exceeds ReceiptTimeout by at least LeaseMargin.
type DeploySettings struct {
	GasLimit           uint64
	StrictAddressMatch bool
	Scheme             AddressScheme
	LeaseTTL           time.Duration
	ReceiptTimeout     time.Duration
}

// LockBackend selects where deployment leases live
type LockBackend string

const (
	LockBackendFile     LockBackend = "file"
	LockBackendPostgres LockBackend = "postgres"
)

type LockSettings struct {
	Backend LockBackend
	DSN     string
}

// SenderRole names which configured key signs a transaction
type SenderRole string

const (
	DeployerRole SenderRole = "deployer"
	FactoryRole  SenderRole = "factory"
)

// Sender is a resolved signing identity
type Sender struct {
	Address    common.Address
	PrivateKey string `json:"-"` // hex, empty for read-only use
}

// CanSign reports whether a private key is available
func (s Sender) CanSign() bool {
	return s.PrivateKey != ""
}

type Senders struct {
	Deployer Sender
	Factory  Sender
}

// ForRole returns the sender for role, falling back to the deployer
func (s Senders) ForRole(role SenderRole) Sender {
	if role == FactoryRole && (s.Factory.CanSign() || s.Factory.Address != (common.Address{})) {
		return s.Factory
	}
	return s.Deployer
}
