package onchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/c2d/internal/adapters/abi"
	"github.com/trebuchet-org/c2d/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// ImplementationSlot is the EIP-1967 storage slot holding a proxy's implementation,
// bytes32(uint256(keccak256("eip1967.proxy.implementation")) - 1)
var ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")

// Contracts talks to the factory and the upgradeable proxy through the
// generated bindings and the chain client
type Contracts struct {
	chain       usecase.ChainClient
	factory     *bindings.Create2Factory
	upgradeable *bindings.Upgradeable
	proxy       *bindings.ERC1967Proxy
	scanner     *abi.EventScanner
	gasLimit    uint64
	log         *slog.Logger
}

// NewContracts creates the on-chain contract adapter
func NewContracts(cfg *config.RuntimeConfig, chain usecase.ChainClient, scanner *abi.EventScanner, log *slog.Logger) *Contracts {
	return &Contracts{
		chain:       chain,
		factory:     bindings.NewCreate2Factory(),
		upgradeable: bindings.NewUpgradeable(),
		proxy:       bindings.NewERC1967Proxy(),
		scanner:     scanner,
		gasLimit:    cfg.Deploy.GasLimit,
		log:         log.With("component", "Contracts"),
	}
}

// InitializerData encodes the proxy initializer call. The implementation's own
// ABI is preferred; artifacts without one fall back to initialize(address).
func (c *Contracts) InitializerData(impl *models.Artifact, method string, owner common.Address) ([]byte, error) {
	if impl != nil && impl.ABI != nil {
		return impl.PackInitializer(method, owner)
	}
	return c.upgradeable.PackInitializer(method, owner)
}

// ProxyInitCode appends abi.encode(impl, initData) to the proxy creation code
func (c *Contracts) ProxyInitCode(creationCode []byte, impl common.Address, initData []byte) []byte {
	args := c.proxy.PackConstructor(impl, initData)
	out := make([]byte, 0, len(creationCode)+len(args))
	out = append(out, creationCode...)
	return append(out, args...)
}

func (c *Contracts) Owner(ctx context.Context, proxy common.Address) (common.Address, error) {
	out, err := c.chain.Call(ctx, proxy, c.upgradeable.PackOwner())
	if err != nil {
		return common.Address{}, fmt.Errorf("owner() call on %s failed: %w", proxy.Hex(), err)
	}
	owner, err := c.upgradeable.UnpackOwner(out)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode owner() result from %s: %w", proxy.Hex(), err)
	}
	return owner, nil
}

// Implementation reads the EIP-1967 implementation slot
func (c *Contracts) Implementation(ctx context.Context, proxy common.Address) (common.Address, error) {
	word, err := c.chain.StorageAt(ctx, proxy, ImplementationSlot)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read implementation slot of %s: %w", proxy.Hex(), err)
	}
	return common.BytesToAddress(word.Bytes()), nil
}

func (c *Contracts) IsExecutor(ctx context.Context, proxy, executor common.Address) (bool, error) {
	data, err := c.upgradeable.TryPackExecutors(executor)
	if err != nil {
		return false, err
	}
	out, err := c.chain.Call(ctx, proxy, data)
	if err != nil {
		return false, fmt.Errorf("executors(%s) call failed: %w", executor.Hex(), err)
	}
	return c.upgradeable.UnpackExecutors(out)
}

func (c *Contracts) Initialize(ctx context.Context, proxy, owner common.Address) (common.Hash, error) {
	data, err := c.upgradeable.TryPackInitialize(owner)
	if err != nil {
		return common.Hash{}, err
	}
	txHash, _, err := c.transact(ctx, proxy, data, "initialize")
	return txHash, err
}

func (c *Contracts) UpgradeTo(ctx context.Context, proxy, impl common.Address) (common.Hash, error) {
	data, err := c.upgradeable.TryPackUpgradeTo(impl)
	if err != nil {
		return common.Hash{}, err
	}
	txHash, receipt, err := c.transact(ctx, proxy, data, "upgradeTo")
	if err != nil {
		return txHash, err
	}
	if err := c.confirmUpgrade(ctx, proxy, impl, receipt); err != nil {
		return txHash, err
	}
	return txHash, nil
}

// confirmUpgrade checks the receipt for Upgraded(impl) from the proxy. Without
// the event the implementation slot decides.
func (c *Contracts) confirmUpgrade(ctx context.Context, proxy, impl common.Address, receipt *types.Receipt) error {
	if receipt != nil {
		if ev, ok := c.scanner.FindUpgraded(receipt.Logs, proxy); ok {
			if ev.Implementation != impl {
				return fmt.Errorf("upgradeTo on %s emitted Upgraded(%s), expected %s", proxy.Hex(), ev.Implementation.Hex(), impl.Hex())
			}
			return nil
		}
	}

	c.log.Warn("No Upgraded event in receipt, reading implementation slot", "proxy", proxy)
	current, err := c.Implementation(ctx, proxy)
	if err != nil {
		return err
	}
	if current != impl {
		return fmt.Errorf("upgradeTo on %s was included but the implementation is %s, expected %s", proxy.Hex(), current.Hex(), impl.Hex())
	}
	return nil
}

func (c *Contracts) SetExecutor(ctx context.Context, proxy, executor common.Address, status bool) (common.Hash, error) {
	data, err := c.upgradeable.TryPackSetExecutor(executor, status)
	if err != nil {
		return common.Hash{}, err
	}
	txHash, _, err := c.transact(ctx, proxy, data, "setExecutor")
	return txHash, err
}

// GetDeployed asks the factory where it would place bytecodeHash for deployer and salt
func (c *Contracts) GetDeployed(ctx context.Context, factory, deployer common.Address, salt, bytecodeHash common.Hash) (common.Address, error) {
	data, err := c.factory.TryPackGetDeployed(deployer, salt, bytecodeHash)
	if err != nil {
		return common.Address{}, err
	}
	out, err := c.chain.Call(ctx, factory, data)
	if err != nil {
		return common.Address{}, fmt.Errorf("getDeployed call on factory %s failed: %w", factory.Hex(), err)
	}
	return c.factory.UnpackGetDeployed(out)
}

func (c *Contracts) transact(ctx context.Context, to common.Address, data []byte, method string) (common.Hash, *types.Receipt, error) {
	txHash, err := c.chain.SubmitTransaction(ctx, usecase.TxRequest{
		Role:     config.DeployerRole,
		To:       &to,
		Data:     data,
		GasLimit: c.gasLimit,
	})
	if err != nil {
		return common.Hash{}, nil, fmt.Errorf("failed to submit %s: %w", method, err)
	}
	c.log.Debug("Submitted transaction", "method", method, "to", to, "tx", txHash)

	receipt, err := c.chain.WaitForReceipt(ctx, txHash)
	if err != nil {
		return txHash, nil, fmt.Errorf("%s: %w", method, err)
	}
	c.log.Info("Transaction included", "method", method, "to", to, "tx", txHash)
	return txHash, receipt, nil
}

var (
	_ usecase.ProxyAdmin    = (*Contracts)(nil)
	_ usecase.FactoryReader = (*Contracts)(nil)
)
