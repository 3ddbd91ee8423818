package abi

import (
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testFactory  = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	testDeployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testSalt     = crypto.Keccak256Hash([]byte("EXAMPLECONTRACT_IMPLEMENTATION"))
)

func deployedLog(emitter, deployed common.Address) *types.Log {
	return &types.Log{
		Address: emitter,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Deployed(address,address,bytes32)")),
			common.BytesToHash(testDeployer.Bytes()),
			common.BytesToHash(deployed.Bytes()),
		},
		Data: testSalt.Bytes(),
	}
}

func transferLog() *types.Log {
	return &types.Log{
		Address: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")),
			common.BytesToHash(testDeployer.Bytes()),
			common.BytesToHash(testFactory.Bytes()),
		},
		Data: common.LeftPadBytes([]byte{1}, 32),
	}
}

func newTestScanner() *EventScanner {
	return NewEventScanner(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEventScanner_Scan(t *testing.T) {
	s := newTestScanner()
	deployed := common.HexToAddress("0x9A676e781A523b5d0C0e43731313A708CB607508")
	proxy := common.HexToAddress("0x0B306BF915C4d645ff596e518fAf3F9669b97016")
	impl := common.HexToAddress("0x959922bE3CAee4b8Cd9a407cc3ac1C251C2007B1")

	upgraded := &types.Log{
		Address: proxy,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Upgraded(address)")),
			common.BytesToHash(impl.Bytes()),
		},
	}

	logs := []*types.Log{
		transferLog(),
		{Address: testFactory},
		deployedLog(testFactory, deployed),
		upgraded,
	}

	scanned := s.Scan(logs)
	require.Len(t, scanned, 4)

	assert.Equal(t, UnrecognizedLog, scanned[0].Kind)
	assert.Equal(t, UnrecognizedLog, scanned[1].Kind)

	assert.Equal(t, DeployedLog, scanned[2].Kind)
	require.NotNil(t, scanned[2].Deployed)
	assert.Equal(t, testDeployer, scanned[2].Deployed.Deployer)
	assert.Equal(t, deployed, scanned[2].Deployed.Deployed)
	assert.Equal(t, [32]byte(testSalt), scanned[2].Deployed.Salt)
	assert.Equal(t, 2, scanned[2].Index)

	assert.Equal(t, UpgradedLog, scanned[3].Kind)
	require.NotNil(t, scanned[3].Upgraded)
	assert.Equal(t, impl, scanned[3].Upgraded.Implementation)
}

func TestEventScanner_FindDeployed(t *testing.T) {
	first := common.HexToAddress("0x9A676e781A523b5d0C0e43731313A708CB607508")
	second := common.HexToAddress("0x0B306BF915C4d645ff596e518fAf3F9669b97016")
	foreign := common.HexToAddress("0x2222222222222222222222222222222222222222")

	tests := []struct {
		name     string
		logs     []*types.Log
		factory  common.Address
		expected common.Address
		found    bool
	}{
		{
			name:     "single deployed event",
			logs:     []*types.Log{deployedLog(testFactory, first)},
			factory:  testFactory,
			expected: first,
			found:    true,
		},
		{
			name:     "first match wins",
			logs:     []*types.Log{transferLog(), deployedLog(testFactory, first), deployedLog(testFactory, second)},
			factory:  testFactory,
			expected: first,
			found:    true,
		},
		{
			name:     "foreign emitter is skipped",
			logs:     []*types.Log{deployedLog(foreign, second), deployedLog(testFactory, first)},
			factory:  testFactory,
			expected: first,
			found:    true,
		},
		{
			name:     "zero factory accepts any emitter",
			logs:     []*types.Log{deployedLog(foreign, second)},
			factory:  common.Address{},
			expected: second,
			found:    true,
		},
		{
			name:    "no matching event",
			logs:    []*types.Log{transferLog()},
			factory: testFactory,
			found:   false,
		},
		{
			name:    "empty receipt",
			logs:    nil,
			factory: testFactory,
			found:   false,
		},
		{
			name: "malformed deployed log is unrecognized",
			logs: []*types.Log{{
				Address: testFactory,
				Topics:  []common.Hash{crypto.Keccak256Hash([]byte("Deployed(address,address,bytes32)"))},
				Data:    []byte{0x01},
			}},
			factory: testFactory,
			found:   false,
		},
	}

	s := newTestScanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := s.FindDeployed(tt.logs, tt.factory)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				require.NotNil(t, ev)
				assert.Equal(t, tt.expected, ev.Deployed)
			} else {
				assert.Nil(t, ev)
			}
		})
	}
}

func TestEventScanner_FindUpgraded(t *testing.T) {
	s := newTestScanner()
	proxy := common.HexToAddress("0x0B306BF915C4d645ff596e518fAf3F9669b97016")
	impl := common.HexToAddress("0x959922bE3CAee4b8Cd9a407cc3ac1C251C2007B1")
	upgraded := func(emitter common.Address) *types.Log {
		return &types.Log{
			Address: emitter,
			Topics: []common.Hash{
				crypto.Keccak256Hash([]byte("Upgraded(address)")),
				common.BytesToHash(impl.Bytes()),
			},
		}
	}

	ev, ok := s.FindUpgraded([]*types.Log{transferLog(), upgraded(proxy)}, proxy)
	require.True(t, ok)
	assert.Equal(t, impl, ev.Implementation)

	_, ok = s.FindUpgraded([]*types.Log{upgraded(testFactory)}, proxy)
	assert.False(t, ok)
}
