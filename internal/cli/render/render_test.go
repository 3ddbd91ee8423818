package render

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var (
	implV1 = common.HexToAddress("0x1111111111111111111111111111111111111111")
	implV2 = common.HexToAddress("0x2222222222222222222222222222222222222222")
	proxy  = common.HexToAddress("0x3333333333333333333333333333333333333333")
	owner  = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

func record(impl common.Address, label string) *models.DeploymentRecord {
	return &models.DeploymentRecord{
		Network:        "sepolia",
		Contract:       "ExampleContract",
		Implementation: models.SaltedAddress{Address: impl, SaltString: label},
		Proxy:          models.SaltedAddress{Address: proxy, SaltString: "EXAMPLECONTRACT_PROXY"},
		Owner:          owner,
		DeploymentDate: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Version:        1,
	}
}

func TestDeployRenderer_RenderContracts(t *testing.T) {
	tx := common.HexToHash("0xabc")
	result := &usecase.DeployContractsResult{
		Implementation: &models.StepResult{
			Name: "implementation", SaltLabel: "EXAMPLECONTRACT_IMPLEMENTATION",
			Address: implV1, Outcome: models.OutcomeSkipped, Source: models.AddressFromChain,
		},
		Proxy: &models.StepResult{
			Name: "proxy", SaltLabel: "EXAMPLECONTRACT_PROXY",
			Address: proxy, Predicted: implV2, Outcome: models.OutcomeDeployed,
			Source: models.AddressFromEvent, TxHash: &tx, Mismatch: true,
		},
		Ownership:     usecase.OwnershipCheck{Expected: owner, Owner: owner, Verified: true},
		Record:        record(implV1, "EXAMPLECONTRACT_IMPLEMENTATION"),
		RecordWritten: true,
	}

	var out bytes.Buffer
	require.NoError(t, NewDeployRenderer(&out, "sepolia").RenderContracts(result))

	s := out.String()
	assert.Contains(t, s, "ExampleContract on sepolia")
	assert.Contains(t, s, "Skipped")
	assert.Contains(t, s, "Deployed")
	assert.Contains(t, s, "proxy deployed at "+proxy.Hex()+" but "+implV2.Hex()+" was predicted")
	assert.Contains(t, s, "Owner is "+owner.Hex())
	assert.Contains(t, s, "Record written (version 1)")
}

func TestRecordRenderer_RenderRecord(t *testing.T) {
	prev := record(implV1, "EXAMPLECONTRACT_IMPLEMENTATION")
	next := record(implV2, "EXAMPLECONTRACT_IMPLEMENTATION_V2")
	next.PreviousImplementationAddress = &implV1
	upgraded := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	next.UpgradeDate = &upgraded
	next.Version = 2

	registry := models.NewExecutorRegistry("sepolia", "ExampleContract")
	registry.Executors[owner] = &models.ExecutorEntry{Status: true, UpdatedAt: upgraded, UpdatedBy: owner}

	result := &usecase.ShowRecordResult{
		Network:    "sepolia",
		Contract:   "ExampleContract",
		Deployment: next,
		Executors:  registry,
		History: []*models.UpgradeHistoryEntry{
			{Previous: prev, Next: next, RecordedAt: upgraded},
		},
	}

	var out bytes.Buffer
	require.NoError(t, NewRecordRenderer(&out).RenderRecord(result))

	s := out.String()
	assert.Contains(t, s, "not deployed", "factory section")
	assert.Contains(t, s, "Previous Implementation: "+implV1.Hex())
	assert.Contains(t, s, "Upgraded At: 2026-03-02 08:30:00")
	assert.Contains(t, s, "enabled")
	assert.Contains(t, s, "EXAMPLECONTRACT_IMPLEMENTATION_V2")
}

func TestRecordRenderer_Empty(t *testing.T) {
	var out bytes.Buffer
	r := NewRecordRenderer(&out)
	require.NoError(t, r.RenderHistory(nil))
	require.NoError(t, r.RenderExecutors(nil))
	assert.Equal(t, "No upgrades recorded\nNo executors recorded\n", out.String())
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "❌ Lease held", FormatError("failed to acquire: lease held"))
}
