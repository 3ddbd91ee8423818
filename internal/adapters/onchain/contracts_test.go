package onchain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/c2d/internal/adapters/abi"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// fakeChain answers calls by 4-byte selector
type fakeChain struct {
	calls    map[string][]byte
	storage  map[common.Hash]common.Hash
	sent     []usecase.TxRequest
	logs     []*types.Log
	waitErr  error
	callErr  error
	nextHash common.Hash
}

func (f *fakeChain) HasCode(context.Context, common.Address) (bool, error) { return true, nil }

func (f *fakeChain) SenderAddress(config.SenderRole) (common.Address, error) {
	return common.Address{}, nil
}

func (f *fakeChain) Call(_ context.Context, _ common.Address, data []byte) ([]byte, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.calls[common.Bytes2Hex(data[:4])], nil
}

func (f *fakeChain) StorageAt(_ context.Context, _ common.Address, slot common.Hash) (common.Hash, error) {
	return f.storage[slot], nil
}

func (f *fakeChain) SubmitTransaction(_ context.Context, req usecase.TxRequest) (common.Hash, error) {
	f.sent = append(f.sent, req)
	return f.nextHash, nil
}

func (f *fakeChain) WaitForReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	return &types.Receipt{TxHash: txHash, Status: types.ReceiptStatusSuccessful, Logs: f.logs}, nil
}

var (
	proxyAddr = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")
	implAddr  = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	owner     = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

func newContracts(chain *fakeChain) *Contracts {
	cfg := &config.RuntimeConfig{Deploy: config.DeploySettings{GasLimit: 3_000_000}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewContracts(cfg, chain, abi.NewEventScanner(log), log)
}

func upgradedLog(emitter, impl common.Address) *types.Log {
	return &types.Log{
		Address: emitter,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Upgraded(address)")),
			common.BytesToHash(impl.Bytes()),
		},
	}
}

func TestContracts_Reads(t *testing.T) {
	ctx := context.Background()
	executor := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	chain := &fakeChain{
		calls: map[string][]byte{
			"8da5cb5b": common.LeftPadBytes(owner.Bytes(), 32),
			"9ac2a011": common.LeftPadBytes([]byte{1}, 32),
			"6e769b2a": common.LeftPadBytes(implAddr.Bytes(), 32),
		},
		storage: map[common.Hash]common.Hash{
			ImplementationSlot: common.BytesToHash(implAddr.Bytes()),
		},
	}
	c := newContracts(chain)

	got, err := c.Owner(ctx, proxyAddr)
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	impl, err := c.Implementation(ctx, proxyAddr)
	require.NoError(t, err)
	assert.Equal(t, implAddr, impl)

	enabled, err := c.IsExecutor(ctx, proxyAddr, executor)
	require.NoError(t, err)
	assert.True(t, enabled)

	deployed, err := c.GetDeployed(ctx, common.HexToAddress("0x01"), owner, common.Hash{1}, common.Hash{2})
	require.NoError(t, err)
	assert.Equal(t, implAddr, deployed)
}

func TestContracts_OwnerCallFails(t *testing.T) {
	c := newContracts(&fakeChain{callErr: errors.New("execution reverted")})
	_, err := c.Owner(context.Background(), proxyAddr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner() call")
}

func TestContracts_Transactions(t *testing.T) {
	ctx := context.Background()

	t.Run("upgradeTo", func(t *testing.T) {
		chain := &fakeChain{
			nextHash: common.HexToHash("0x01"),
			logs:     []*types.Log{upgradedLog(proxyAddr, implAddr)},
		}
		hash, err := newContracts(chain).UpgradeTo(ctx, proxyAddr, implAddr)
		require.NoError(t, err)
		assert.Equal(t, chain.nextHash, hash)

		require.Len(t, chain.sent, 1)
		req := chain.sent[0]
		assert.Equal(t, config.DeployerRole, req.Role)
		assert.Equal(t, proxyAddr, *req.To)
		assert.Equal(t, uint64(3_000_000), req.GasLimit)
		assert.Equal(t, common.FromHex("0x3659cfe6"), req.Data[:4])
		assert.Equal(t, common.LeftPadBytes(implAddr.Bytes(), 32), req.Data[4:])
	})

	t.Run("upgradeTo without event falls back to the slot", func(t *testing.T) {
		chain := &fakeChain{
			storage: map[common.Hash]common.Hash{ImplementationSlot: common.BytesToHash(implAddr.Bytes())},
		}
		_, err := newContracts(chain).UpgradeTo(ctx, proxyAddr, implAddr)
		require.NoError(t, err)
	})

	t.Run("upgradeTo not reflected on chain", func(t *testing.T) {
		tests := []struct {
			name  string
			chain *fakeChain
			want  string
		}{
			{
				name:  "event names another implementation",
				chain: &fakeChain{logs: []*types.Log{upgradedLog(proxyAddr, owner)}},
				want:  "emitted Upgraded",
			},
			{
				name: "event from a foreign emitter and stale slot",
				chain: &fakeChain{
					logs:    []*types.Log{upgradedLog(owner, implAddr)},
					storage: map[common.Hash]common.Hash{ImplementationSlot: common.BytesToHash(owner.Bytes())},
				},
				want: "was included but the implementation is",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := newContracts(tt.chain).UpgradeTo(ctx, proxyAddr, implAddr)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.want)
			})
		}
	})

	t.Run("setExecutor", func(t *testing.T) {
		chain := &fakeChain{}
		_, err := newContracts(chain).SetExecutor(ctx, proxyAddr, owner, true)
		require.NoError(t, err)
		require.Len(t, chain.sent, 1)
		assert.Equal(t, common.FromHex("0x1e1bff3f"), chain.sent[0].Data[:4])
	})

	t.Run("initialize reverted", func(t *testing.T) {
		chain := &fakeChain{waitErr: &domain.TransactionRevertedError{TxHash: common.HexToHash("0x02")}}
		_, err := newContracts(chain).Initialize(ctx, proxyAddr, owner)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTransactionReverted)
		assert.Equal(t, common.FromHex("0xc4d66de8"), chain.sent[0].Data[:4])
	})
}

func TestContracts_ProxyInitCode(t *testing.T) {
	c := newContracts(&fakeChain{})
	creation := common.FromHex("0x60806040")

	initData, err := c.InitializerData(nil, "initialize", owner)
	require.NoError(t, err)
	assert.Equal(t, common.FromHex("0xc4d66de8"), initData[:4])

	code := c.ProxyInitCode(creation, implAddr, initData)
	assert.Equal(t, creation, code[:4])
	// abi.encode(address, bytes): address word, offset word, length word, padded data
	args := code[4:]
	assert.Equal(t, common.LeftPadBytes(implAddr.Bytes(), 32), args[:32])
	assert.Equal(t, common.LeftPadBytes([]byte{0x40}, 32), args[32:64])
	assert.Equal(t, common.LeftPadBytes([]byte{36}, 32), args[64:96])
	assert.Len(t, args, 96+64)

	_, err = c.InitializerData(&models.Artifact{Name: "NoABI"}, "bogus", owner)
	assert.Error(t, err)
}
