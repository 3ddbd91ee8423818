package deployer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trebuchet-org/c2d/internal/adapters/abi"
	"github.com/trebuchet-org/c2d/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// Executor deploys init code through the CREATE2 factory and recovers the
// deployed address from the receipt's Deployed event.
type Executor struct {
	chain     usecase.ChainClient
	predictor usecase.AddressPredictor
	scanner   *abi.EventScanner
	factory   *bindings.Create2Factory
	metrics   usecase.DeployMetrics
	strict    bool
	log       *slog.Logger
}

// NewExecutor creates a new deployment executor
func NewExecutor(
	cfg *config.RuntimeConfig,
	chain usecase.ChainClient,
	predictor usecase.AddressPredictor,
	scanner *abi.EventScanner,
	metrics usecase.DeployMetrics,
	log *slog.Logger,
) *Executor {
	return &Executor{
		chain:     chain,
		predictor: predictor,
		scanner:   scanner,
		factory:   bindings.NewCreate2Factory(),
		metrics:   metrics,
		strict:    cfg.Deploy.StrictAddressMatch,
		log:       log.With("component", "DeploymentExecutor"),
	}
}

// Deploy submits factory.deploy(salt, initCode), waits for inclusion and
// resolves the deployed address. When the receipt has no Deployed event from
// the factory the predicted address is used instead and Source reports it.
func (e *Executor) Deploy(ctx context.Context, req usecase.DeployRequest) (*models.DeployResult, error) {
	identity := models.DeployerIdentity{Factory: req.Factory, Caller: req.Caller}
	predicted := e.predictor.Predict(identity, req.Salt, e.predictor.BytecodeHash(req.InitCode))

	data, err := e.factory.TryPackDeploy(req.Salt, req.InitCode)
	if err != nil {
		return nil, fmt.Errorf("failed to encode deploy call: %w", err)
	}

	factory := req.Factory
	txHash, err := e.chain.SubmitTransaction(ctx, usecase.TxRequest{
		Role:     config.DeployerRole,
		To:       &factory,
		Data:     data,
		GasLimit: req.GasLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit deployment: %w", err)
	}
	e.log.Debug("Submitted deployment", "tx", txHash, "salt", req.Salt, "predicted", predicted)

	receipt, err := e.chain.WaitForReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, &domain.ReceiptUnavailableError{TxHash: txHash}
	}

	result := &models.DeployResult{
		Predicted: predicted,
		TxHash:    txHash,
	}

	if ev, ok := e.scanner.FindDeployed(receipt.Logs, req.Factory); ok {
		result.Address = ev.Deployed
		result.Source = models.AddressFromEvent
		e.log.Info("Resolved deployed address", "address", result.Address, "source", result.Source, "tx", txHash)
	} else {
		result.Address = predicted
		result.Source = models.AddressFromPredicted
		e.log.Warn("Deployed event not found in receipt, using predicted address",
			"address", predicted, "source", result.Source, "tx", txHash, "logs", len(receipt.Logs))
	}
	e.metrics.ObserveAddressSource(result.Source)

	if !strings.EqualFold(result.Address.Hex(), predicted.Hex()) {
		result.Mismatch = true
		e.metrics.ObserveAddressMismatch()
		e.log.Warn("Deployed address does not match prediction", "deployed", result.Address, "predicted", predicted)
		if e.strict {
			return result, &domain.AddressMismatchError{Predicted: predicted, Actual: result.Address}
		}
	}

	return result, nil
}

var _ usecase.DeploymentExecutor = (*Executor)(nil)
