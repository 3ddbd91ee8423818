package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// Client implements the chain collaborator using ethclient. The RPC
// connection is opened on first use so read-only commands never dial.
type Client struct {
	cfg *config.RuntimeConfig
	log *slog.Logger

	mu      sync.Mutex
	client  *ethclient.Client
	chainID *big.Int
}

// NewClient creates a new blockchain client adapter
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		log: log.With("component", "ChainClient"),
	}
}

// connect establishes connection to the blockchain
func (c *Client) connect(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	network := c.cfg.Network
	if network == nil || network.RPCURL == "" {
		return nil, fmt.Errorf("network %q has no rpc_url configured", c.cfg.NetworkName)
	}

	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	// Verify chain ID matches
	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	// A configured chain ID of 0 accepts whatever the RPC reports
	if network.ChainID != 0 && networkChainID.Uint64() != network.ChainID {
		client.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", network.ChainID, networkChainID.Uint64())
	}

	c.log.Debug("Connected", "network", network.Name, "chainId", networkChainID)
	c.client = client
	c.chainID = networkChainID
	return client, nil
}

// HasCode checks if a contract exists at the given address
func (c *Client) HasCode(ctx context.Context, addr common.Address) (bool, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return false, err
	}

	code, err := client.CodeAt(ctx, addr, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code at %s: %w", addr.Hex(), err)
	}

	return len(code) > 0, nil
}

// Call executes a read-only call against the latest block
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call to %s failed: %w", to.Hex(), err)
	}
	return out, nil
}

// StorageAt reads a single storage slot
func (c *Client) StorageAt(ctx context.Context, addr common.Address, slot common.Hash) (common.Hash, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	value, err := client.StorageAt(ctx, addr, slot, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to read storage of %s: %w", addr.Hex(), err)
	}
	return common.BytesToHash(value), nil
}

// Close releases the RPC connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

// Ensure the adapter implements the interface
var _ usecase.ChainClient = (*Client)(nil)
