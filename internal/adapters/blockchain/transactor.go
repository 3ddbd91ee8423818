package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// SenderAddress resolves the address for a role without touching the network
func (c *Client) SenderAddress(role config.SenderRole) (common.Address, error) {
	sender := c.cfg.Senders.ForRole(role)
	if sender.Address != (common.Address{}) {
		return sender.Address, nil
	}
	if !sender.CanSign() {
		return common.Address{}, fmt.Errorf("%w for role %s", domain.ErrNoSigner, role)
	}
	key, err := parseKey(sender.PrivateKey)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// SubmitTransaction signs req with the role's key and broadcasts it
func (c *Client) SubmitTransaction(ctx context.Context, req usecase.TxRequest) (common.Hash, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	sender := c.cfg.Senders.ForRole(req.Role)
	if !sender.CanSign() {
		return common.Hash{}, fmt.Errorf("%w for role %s", domain.ErrNoSigner, req.Role)
	}
	key, err := parseKey(sender.PrivateKey)
	if err != nil {
		return common.Hash{}, err
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce for %s: %w", from.Hex(), err)
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit, err = client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: req.To, Data: req.Data})
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
		}
	}

	head, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get latest header: %w", err)
	}

	var tx *types.Transaction
	if head.BaseFee != nil {
		tip, err := client.SuggestGasTipCap(ctx)
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to suggest tip: %w", err)
		}
		feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   c.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gasLimit,
			To:        req.To,
			Data:      req.Data,
		})
	} else {
		price, err := client.SuggestGasPrice(ctx)
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to suggest gas price: %w", err)
		}
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: price,
			Gas:      gasLimit,
			To:       req.To,
			Data:     req.Data,
		})
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	c.log.Debug("Sent transaction", "hash", signed.Hash(), "from", from, "nonce", nonce, "gas", gasLimit)
	return signed.Hash(), nil
}

// WaitForReceipt polls until the transaction is mined. The wait is detached
// from ctx cancellation and only bounded by the configured receipt timeout.
func (c *Client) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, &domain.ReceiptUnavailableError{TxHash: txHash, Err: err}
	}

	waitCtx := context.WithoutCancel(ctx)
	if timeout := c.cfg.Deploy.ReceiptTimeout; timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(waitCtx, timeout)
		defer cancel()
	}

	receipt, err := bind.WaitMined(waitCtx, client, txHash)
	if err != nil {
		return nil, &domain.ReceiptUnavailableError{TxHash: txHash, Err: err}
	}
	if receipt == nil {
		return nil, &domain.ReceiptUnavailableError{TxHash: txHash}
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, &domain.TransactionRevertedError{TxHash: txHash}
	}
	return receipt, nil
}

func parseKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
