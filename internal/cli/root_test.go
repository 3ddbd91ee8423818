package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

var (
	testFactory = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	testCaller  = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

// setupProject creates a project with compiled implementation and proxy
// artifacts and makes it the working directory
func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"c2d.toml": "[deploy]\nscheme = \"guarded\"\n",
		"out/ExampleContract.sol/ExampleContract.json": `{"bytecode":{"object":"0x6080604052348015600f57600080fd5b50"}}`,
		"out/ERC1967Proxy.sol/ERC1967Proxy.json":       `{"bytecode":{"object":"0x608060405260405161"}}`,
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	t.Chdir(root)
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := NewRootCmd()

	for _, path := range [][]string{
		{"deploy", "factory"},
		{"deploy", "contracts"},
		{"deploy", "all"},
		{"upgrade"},
		{"executor", "set"},
		{"executor", "list"},
		{"predict"},
		{"show"},
		{"history"},
		{"version"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	for _, name := range []string{"network", "rpc-url", "plan", "contract", "strict", "yes", "non-interactive", "json", "debug", "metrics-file"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
}

func TestNeedsApp(t *testing.T) {
	runnable := func(name string) *cobra.Command {
		return &cobra.Command{Use: name, RunE: func(*cobra.Command, []string) error { return nil }}
	}

	assert.True(t, needsApp(runnable("predict")))
	assert.False(t, needsApp(runnable("version")))
	assert.False(t, needsApp(runnable("help")))
	assert.False(t, needsApp(&cobra.Command{Use: "deploy"}))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "c2d version dev")
}

func TestPredictCmd_JSON(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "predict", "--json",
		"--factory", testFactory.Hex(),
		"--caller", testCaller.Hex(),
	)
	require.NoError(t, err)

	var result usecase.PredictAddressesResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, "local", result.Network)
	assert.Equal(t, testFactory, result.Factory)
	assert.Equal(t, testCaller, result.Caller)
	require.Len(t, result.Addresses, 2, "no upgrade artifact was compiled")

	implCode := common.FromHex("0x6080604052348015600f57600080fd5b50")
	salt := crypto.Keccak256Hash([]byte("EXAMPLECONTRACT_IMPLEMENTATION"))
	guarded := crypto.Keccak256Hash(testCaller.Bytes(), salt.Bytes())
	want := crypto.CreateAddress2(testFactory, guarded, crypto.Keccak256(implCode))

	impl := result.Addresses[0]
	assert.Equal(t, "implementation", impl.Name)
	assert.Equal(t, want, impl.Address)
	assert.Equal(t, "proxy", result.Addresses[1].Name)
	assert.NotEqual(t, want, result.Addresses[1].Address)
}

func TestPredictCmd_Table(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "predict", "--factory", testFactory.Hex(), "--caller", testCaller.Hex())
	require.NoError(t, err)
	assert.Contains(t, out, "Predicted addresses on local")
	assert.Contains(t, out, "EXAMPLECONTRACT_PROXY")
}

func TestPredictCmd_NeedsFactoryRecord(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "predict", "--caller", testCaller.Hex())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factory record")
}

func TestExecutorSetCmd_InvalidAddress(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "executor", "set", "0x1234")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address")
}

func TestShowCmd_NothingRecorded(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUnknownNetwork(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "show", "--network", "mainet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `network "mainet" is not configured`)
}
