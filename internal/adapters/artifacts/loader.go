package artifacts

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/spf13/afero"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// rawArtifact covers both Foundry (bytecode.object) and Hardhat (bytecode string) layouts
type rawArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

type bytecodeObject struct {
	Object string `json:"object"`
}

// Loader reads compiled artifacts relative to the artifacts directory
type Loader struct {
	fs   afero.Fs
	root string
}

// NewLoader creates a new artifact loader
func NewLoader(afs afero.Fs, root string) *Loader {
	return &Loader{fs: afs, root: root}
}

// ProvideLoader creates the loader for the configured artifacts directory
func ProvideLoader(cfg *config.RuntimeConfig, afs afero.Fs) *Loader {
	return NewLoader(afs, cfg.ArtifactsDir)
}

// Load reads and decodes the artifact at path
func (l *Loader) Load(ctx context.Context, path string) (*models.Artifact, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.root, path)
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("artifact %s: %w (did you compile the contracts?)", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	name := raw.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	code, err := parseBytecode(raw.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("artifact %s has no creation bytecode (abstract contract or interface?)", path)
	}

	artifact := &models.Artifact{
		Name:     name,
		Path:     path,
		Bytecode: code,
	}

	if len(raw.ABI) > 0 && !bytes.Equal(raw.ABI, []byte("null")) {
		parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
		if err != nil {
			return nil, fmt.Errorf("artifact %s has an invalid ABI: %w", path, err)
		}
		artifact.ABI = &parsed
	}

	return artifact, nil
}

func parseBytecode(raw json.RawMessage) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("invalid bytecode: %w", err)
		}
	} else {
		var obj bytecodeObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("invalid bytecode object: %w", err)
		}
		text = obj.Object
	}

	text = strings.TrimPrefix(strings.TrimSpace(text), "0x")
	if strings.Contains(text, "__") {
		return nil, fmt.Errorf("bytecode has unlinked library placeholders")
	}

	code, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode hex: %w", err)
	}
	return code, nil
}

var _ usecase.ArtifactLoader = (*Loader)(nil)
