package create2

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// Salt derives the 32 byte deployment salt for a label
func Salt(label string) common.Hash {
	return crypto.Keccak256Hash([]byte(label))
}

// BytecodeHash hashes the exact init code that will be submitted
func BytecodeHash(initCode []byte) common.Hash {
	return crypto.Keccak256Hash(initCode)
}

// GuardedSalt binds a salt to the caller the way the factory does
func GuardedSalt(caller common.Address, salt common.Hash) common.Hash {
	return crypto.Keccak256Hash(caller.Bytes(), salt.Bytes())
}

// Address is the EIP-1014 formula: keccak256(0xff ++ sender ++ salt ++ initCodeHash)[12:]
func Address(sender common.Address, salt common.Hash, initCodeHash common.Hash) common.Address {
	return crypto.CreateAddress2(sender, salt, initCodeHash.Bytes())
}

// Predictor computes deterministic addresses for the configured factory scheme
type Predictor struct {
	scheme config.AddressScheme
}

// NewPredictor creates a predictor for the given scheme
func NewPredictor(scheme config.AddressScheme) (*Predictor, error) {
	switch scheme {
	case "", config.SchemeGuarded:
		return &Predictor{scheme: config.SchemeGuarded}, nil
	case config.SchemePlain:
		return &Predictor{scheme: config.SchemePlain}, nil
	default:
		return nil, fmt.Errorf("unknown address scheme %q (expected %q or %q)", scheme, config.SchemeGuarded, config.SchemePlain)
	}
}

// ProvidePredictor builds the predictor from runtime configuration
func ProvidePredictor(cfg *config.RuntimeConfig) (*Predictor, error) {
	return NewPredictor(cfg.Deploy.Scheme)
}

// Scheme returns the active scheme
func (p *Predictor) Scheme() config.AddressScheme {
	return p.scheme
}

func (p *Predictor) Salt(label string) common.Hash {
	return Salt(label)
}

func (p *Predictor) BytecodeHash(initCode []byte) common.Hash {
	return BytecodeHash(initCode)
}

// EffectiveSalt is the salt the factory passes to CREATE2
func (p *Predictor) EffectiveSalt(caller common.Address, salt common.Hash) common.Hash {
	if p.scheme == config.SchemePlain {
		return salt
	}
	return GuardedSalt(caller, salt)
}

// Predict returns the address the factory will deploy init code with bytecodeHash to.
// It performs no I/O and gives the same answer on every call.
func (p *Predictor) Predict(deployer models.DeployerIdentity, salt common.Hash, bytecodeHash common.Hash) common.Address {
	return Address(deployer.Factory, p.EffectiveSalt(deployer.Caller, salt), bytecodeHash)
}

var _ usecase.AddressPredictor = (*Predictor)(nil)
