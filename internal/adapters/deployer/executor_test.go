package deployer

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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/c2d/internal/adapters/abi"
	"github.com/trebuchet-org/c2d/internal/adapters/create2"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

type mockChain struct {
	mock.Mock
}

func (m *mockChain) HasCode(ctx context.Context, addr common.Address) (bool, error) {
	args := m.Called(ctx, addr)
	return args.Bool(0), args.Error(1)
}

func (m *mockChain) SenderAddress(role config.SenderRole) (common.Address, error) {
	args := m.Called(role)
	return args.Get(0).(common.Address), args.Error(1)
}

func (m *mockChain) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	args := m.Called(ctx, to, data)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

func (m *mockChain) StorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	args := m.Called(ctx, addr, slot)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *mockChain) SubmitTransaction(ctx context.Context, req usecase.TxRequest) (common.Hash, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *mockChain) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	args := m.Called(ctx, txHash)
	receipt, _ := args.Get(0).(*types.Receipt)
	return receipt, args.Error(1)
}

type recordingMetrics struct {
	usecase.NopMetrics
	sources    []models.AddressSource
	mismatches int
}

func (r *recordingMetrics) ObserveAddressSource(source models.AddressSource) {
	r.sources = append(r.sources, source)
}

func (r *recordingMetrics) ObserveAddressMismatch() {
	r.mismatches++
}

var (
	factory  = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	caller   = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	initCode = common.FromHex("0x6080604052348015600f57600080fd5b50603f80601d6000396000f3fe")
	salt     = create2.Salt("EXAMPLECONTRACT_IMPLEMENTATION")
	txHash   = common.HexToHash("0xabc0000000000000000000000000000000000000000000000000000000000001")
)

func deployedLog(emitter, deployed common.Address) *types.Log {
	return &types.Log{
		Address: emitter,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Deployed(address,address,bytes32)")),
			common.BytesToHash(caller.Bytes()),
			common.BytesToHash(deployed.Bytes()),
		},
		Data: salt.Bytes(),
	}
}

func setup(t *testing.T, strict bool) (*Executor, *mockChain, *recordingMetrics, common.Address) {
	t.Helper()
	predictor, err := create2.NewPredictor(config.SchemeGuarded)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	chain := &mockChain{}
	metrics := &recordingMetrics{}
	cfg := &config.RuntimeConfig{Deploy: config.DeploySettings{StrictAddressMatch: strict}}

	exec := NewExecutor(cfg, chain, predictor, abi.NewEventScanner(log), metrics, log)
	predicted := predictor.Predict(models.DeployerIdentity{Factory: factory, Caller: caller}, salt, create2.BytecodeHash(initCode))
	return exec, chain, metrics, predicted
}

func request() usecase.DeployRequest {
	return usecase.DeployRequest{
		Factory:  factory,
		Caller:   caller,
		Salt:     salt,
		InitCode: initCode,
		GasLimit: 5_000_000,
	}
}

func expectSubmit(chain *mockChain) {
	chain.On("SubmitTransaction", mock.Anything, mock.MatchedBy(func(req usecase.TxRequest) bool {
		return req.To != nil && *req.To == factory &&
			req.Role == config.DeployerRole &&
			req.GasLimit == 5_000_000 &&
			len(req.Data) > 4
	})).Return(txHash, nil).Once()
}

func TestExecutor_Deploy(t *testing.T) {
	t.Run("address from Deployed event", func(t *testing.T) {
		exec, chain, metrics, predicted := setup(t, false)
		expectSubmit(chain)
		chain.On("WaitForReceipt", mock.Anything, txHash).Return(&types.Receipt{
			Status: types.ReceiptStatusSuccessful,
			Logs:   []*types.Log{deployedLog(factory, predicted)},
		}, nil)

		result, err := exec.Deploy(context.Background(), request())
		require.NoError(t, err)
		assert.Equal(t, predicted, result.Address)
		assert.Equal(t, predicted, result.Predicted)
		assert.Equal(t, models.AddressFromEvent, result.Source)
		assert.Equal(t, txHash, result.TxHash)
		assert.False(t, result.Mismatch)
		assert.Equal(t, []models.AddressSource{models.AddressFromEvent}, metrics.sources)
		chain.AssertExpectations(t)
	})

	t.Run("falls back to prediction without event", func(t *testing.T) {
		exec, chain, metrics, predicted := setup(t, false)
		expectSubmit(chain)
		chain.On("WaitForReceipt", mock.Anything, txHash).Return(&types.Receipt{
			Status: types.ReceiptStatusSuccessful,
		}, nil)

		result, err := exec.Deploy(context.Background(), request())
		require.NoError(t, err)
		assert.Equal(t, predicted, result.Address)
		assert.Equal(t, models.AddressFromPredicted, result.Source)
		assert.False(t, result.Mismatch)
		assert.Equal(t, []models.AddressSource{models.AddressFromPredicted}, metrics.sources)
	})

	t.Run("ignores Deployed event from another emitter", func(t *testing.T) {
		exec, chain, _, predicted := setup(t, false)
		expectSubmit(chain)
		other := common.HexToAddress("0x3333333333333333333333333333333333333333")
		chain.On("WaitForReceipt", mock.Anything, txHash).Return(&types.Receipt{
			Logs: []*types.Log{deployedLog(other, other)},
		}, nil)

		result, err := exec.Deploy(context.Background(), request())
		require.NoError(t, err)
		assert.Equal(t, predicted, result.Address)
		assert.Equal(t, models.AddressFromPredicted, result.Source)
	})

	t.Run("mismatch is advisory by default", func(t *testing.T) {
		exec, chain, metrics, predicted := setup(t, false)
		expectSubmit(chain)
		actual := common.HexToAddress("0x4444444444444444444444444444444444444444")
		chain.On("WaitForReceipt", mock.Anything, txHash).Return(&types.Receipt{
			Logs: []*types.Log{deployedLog(factory, actual)},
		}, nil)

		result, err := exec.Deploy(context.Background(), request())
		require.NoError(t, err)
		assert.Equal(t, actual, result.Address)
		assert.Equal(t, predicted, result.Predicted)
		assert.True(t, result.Mismatch)
		assert.Equal(t, 1, metrics.mismatches)
	})

	t.Run("mismatch is fatal when strict", func(t *testing.T) {
		exec, chain, _, predicted := setup(t, true)
		expectSubmit(chain)
		actual := common.HexToAddress("0x4444444444444444444444444444444444444444")
		chain.On("WaitForReceipt", mock.Anything, txHash).Return(&types.Receipt{
			Logs: []*types.Log{deployedLog(factory, actual)},
		}, nil)

		result, err := exec.Deploy(context.Background(), request())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrAddressMismatch))
		var mismatch *domain.AddressMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, predicted, mismatch.Predicted)
		assert.Equal(t, actual, mismatch.Actual)
		require.NotNil(t, result)
	})

	t.Run("receipt unavailable is fatal", func(t *testing.T) {
		exec, chain, _, _ := setup(t, false)
		expectSubmit(chain)
		chain.On("WaitForReceipt", mock.Anything, txHash).Return(nil,
			&domain.ReceiptUnavailableError{TxHash: txHash, Err: errors.New("connection reset")})

		_, err := exec.Deploy(context.Background(), request())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrReceiptUnavailable)
	})

	t.Run("nil receipt is fatal", func(t *testing.T) {
		exec, chain, _, _ := setup(t, false)
		expectSubmit(chain)
		chain.On("WaitForReceipt", mock.Anything, txHash).Return(nil, nil)

		_, err := exec.Deploy(context.Background(), request())
		assert.ErrorIs(t, err, domain.ErrReceiptUnavailable)
	})

	t.Run("submit failure is returned", func(t *testing.T) {
		exec, chain, _, _ := setup(t, false)
		chain.On("SubmitTransaction", mock.Anything, mock.Anything).Return(common.Hash{}, errors.New("nonce too low"))

		_, err := exec.Deploy(context.Background(), request())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nonce too low")
		chain.AssertNotCalled(t, "WaitForReceipt", mock.Anything, mock.Anything)
	})
}
