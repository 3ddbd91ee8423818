package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ProjectFileName is the per-project configuration file
const ProjectFileName = "c2d.toml"

// ProjectFile represents the raw c2d.toml structure
type ProjectFile struct {
	Networks map[string]NetworkTOML `toml:"networks"`
	Senders  SendersTOML            `toml:"senders"`
	Deploy   DeployTOML             `toml:"deploy"`
	Lock     LockTOML               `toml:"lock"`
}

type NetworkTOML struct {
	RPCURL      string `toml:"rpc_url"`
	ChainID     uint64 `toml:"chain_id"`
	ExplorerURL string `toml:"explorer_url"`
}

type SenderTOML struct {
	Address    string `toml:"address"`
	PrivateKey string `toml:"private_key"`
}

type SendersTOML struct {
	Deployer SenderTOML `toml:"deployer"`
	Factory  SenderTOML `toml:"factory"`
}

type DeployTOML struct {
	GasLimit           uint64 `toml:"gas_limit"`
	StrictAddressMatch bool   `toml:"strict_address_match"`
	Scheme             string `toml:"scheme"`
	ArtifactsDir       string `toml:"artifacts_dir"`
	DeploymentsDir     string `toml:"deployments_dir"`
	Plan               string `toml:"plan"`
	LeaseTTL           string `toml:"lease_ttl"`
	ReceiptTimeout     string `toml:"receipt_timeout"`
}

type LockTOML struct {
	Backend string `toml:"backend"`
	DSN     string `toml:"dsn"`
}

// LoadEnvFiles loads .env and .env.local from the project root. Variables
// already set in the environment are not overridden.
func LoadEnvFiles(projectRoot string) error {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// LoadProjectFile reads c2d.toml and expands ${VAR} references. A missing file
// yields an empty configuration.
func LoadProjectFile(projectRoot string) (*ProjectFile, error) {
	if err := LoadEnvFiles(projectRoot); err != nil {
		return nil, err
	}

	project := &ProjectFile{}
	path := filepath.Join(projectRoot, ProjectFileName)
	if _, err := toml.DecodeFile(path, project); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ProjectFile{Networks: map[string]NetworkTOML{}}, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}

	project.expand()
	return project, nil
}

func (p *ProjectFile) expand() {
	if p.Networks == nil {
		p.Networks = map[string]NetworkTOML{}
	}
	for name, n := range p.Networks {
		n.RPCURL = os.ExpandEnv(n.RPCURL)
		n.ExplorerURL = os.ExpandEnv(n.ExplorerURL)
		p.Networks[name] = n
	}

	for _, s := range []*SenderTOML{&p.Senders.Deployer, &p.Senders.Factory} {
		s.Address = os.ExpandEnv(s.Address)
		s.PrivateKey = os.ExpandEnv(s.PrivateKey)
	}

	p.Lock.DSN = os.ExpandEnv(p.Lock.DSN)
}
