package usecase_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

func TestSetExecutor(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.deployed(t)

	enabled, err := e.setExecutor().Run(ctx, usecase.SetExecutorParams{Executor: stranger, Status: true})
	require.NoError(t, err)
	assert.True(t, enabled.Changed)
	assert.True(t, enabled.Status)
	require.NotNil(t, enabled.TxHash)

	entry := enabled.Registry.Executors[stranger]
	require.NotNil(t, entry)
	assert.True(t, entry.Status)
	assert.Equal(t, deployer, entry.UpdatedBy)
	assert.False(t, entry.UpdatedAt.IsZero())
	assert.Equal(t, uint64(1), enabled.Registry.Version)

	// already enabled: no transaction, no write
	again, err := e.setExecutor().Run(ctx, usecase.SetExecutorParams{Executor: stranger, Status: true})
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Equal(t, 1, e.admin.setCalls)
	assert.Equal(t, uint64(1), again.Registry.Version)

	disabled, err := e.setExecutor().Run(ctx, usecase.SetExecutorParams{Executor: stranger, Status: false})
	require.NoError(t, err)
	assert.True(t, disabled.Changed)
	assert.False(t, disabled.Registry.Executors[stranger].Status)
	assert.Equal(t, 2, e.admin.setCalls)

	registry, err := usecase.NewListExecutors(e.cfg, e.store).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{stranger}, registry.Addresses())
	assert.Equal(t, uint64(2), registry.Version)
}

func TestSetExecutor_RecordsChainStateWithoutTransaction(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.deployed(t)
	e.admin.executors[stranger] = true

	result, err := e.setExecutor().Run(ctx, usecase.SetExecutorParams{Executor: stranger, Status: true})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Zero(t, e.confirmer.asked)
	require.Contains(t, result.Registry.Executors, stranger)
	assert.True(t, result.Registry.Executors[stranger].Status)
}

func TestSetExecutor_RequiresDeployment(t *testing.T) {
	e := newEnv(t)
	_, err := e.setExecutor().Run(context.Background(), usecase.SetExecutorParams{Executor: stranger, Status: true})
	assert.ErrorIs(t, err, domain.ErrPrecursorMissing)
	assert.Zero(t, e.admin.setCalls)
}

func TestPredictAddresses(t *testing.T) {
	ctx := context.Background()

	t.Run("matches the addresses a deployment lands at", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.deployFactory().Run(ctx)
		require.NoError(t, err)

		calls := e.chain.rpcCalls
		predicted, err := e.predict().Run(ctx, usecase.PredictAddressesParams{})
		require.NoError(t, err)
		assert.Equal(t, calls, e.chain.rpcCalls, "prediction needs no chain access")
		assert.Equal(t, config.SchemeGuarded, predicted.Scheme)
		require.Len(t, predicted.Addresses, 3)

		deployed, err := e.deployContracts().Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, deployed.Implementation.Address, predicted.Addresses[0].Address)
		assert.Equal(t, deployed.Proxy.Address, predicted.Addresses[1].Address)
		assert.Equal(t, "upgrade", predicted.Addresses[2].Name)
	})

	t.Run("explicit factory without records", func(t *testing.T) {
		e := newEnv(t)
		factory := common.HexToAddress("0x4e59b44847b379578588920cA78FbF26c0B4956C")

		predicted, err := e.predict().Run(ctx, usecase.PredictAddressesParams{Factory: &factory, Caller: &stranger})
		require.NoError(t, err)
		assert.Equal(t, factory, predicted.Factory)
		assert.Equal(t, stranger, predicted.Caller)
		assert.Equal(t, e.predictor.EffectiveSalt(stranger, predicted.Addresses[0].Salt), predicted.Addresses[0].EffectiveSalt)
	})

	t.Run("missing factory record", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.predict().Run(ctx, usecase.PredictAddressesParams{})
		assert.ErrorIs(t, err, domain.ErrPrecursorMissing)
	})

	t.Run("missing upgrade artifact is skipped", func(t *testing.T) {
		e := newEnv(t)
		delete(e.artifacts, e.cfg.Plan.Upgrade.Artifact)
		predicted, err := e.predict().Run(ctx, usecase.PredictAddressesParams{Factory: &factoryAddress})
		require.NoError(t, err)
		assert.Len(t, predicted.Addresses, 2)
	})

	t.Run("on-chain cross-check", func(t *testing.T) {
		e := newEnv(t)
		e.deployed(t)

		salt := e.predictor.Salt(e.cfg.Plan.Implementation.Salt)
		impl := e.predictAt(e.cfg.Plan.Implementation.Salt, implCode)
		e.admin.factoryView[salt] = impl
		e.admin.factoryView[e.predictor.Salt(e.cfg.Plan.Proxy.Salt)] = stranger

		predicted, err := e.predict().Run(ctx, usecase.PredictAddressesParams{OnChain: true})
		require.NoError(t, err)

		implPrediction := predicted.Addresses[0]
		require.NotNil(t, implPrediction.Deployed)
		assert.True(t, *implPrediction.Deployed)
		assert.False(t, implPrediction.FactoryMismatch())

		assert.True(t, predicted.Addresses[1].FactoryMismatch())

		upgrade := predicted.Addresses[2]
		assert.False(t, *upgrade.Deployed)
		assert.Nil(t, upgrade.FactoryAddress)
		assert.NotEmpty(t, upgrade.FactoryError)
	})
}

func TestShowRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing recorded", func(t *testing.T) {
		e := newEnv(t)
		_, err := usecase.NewShowRecord(e.cfg, e.store, usecase.NopProgress{}).Run(ctx)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("full record set", func(t *testing.T) {
		e := newEnv(t)
		e.deployed(t)
		_, err := e.upgradeProxy().Run(ctx)
		require.NoError(t, err)

		result, err := usecase.NewShowRecord(e.cfg, e.store, usecase.NopProgress{}).Run(ctx)
		require.NoError(t, err)
		require.NotNil(t, result.Factory)
		require.NotNil(t, result.Deployment)
		assert.True(t, result.Deployment.Upgraded())
		assert.Len(t, result.History, 1)
		assert.Empty(t, result.Executors.Executors)
	})
}
