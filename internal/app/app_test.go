package app

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/c2d/internal/adapters/progress"
)

func TestInitApp(t *testing.T) {
	v := viper.New()
	v.Set("project_root", t.TempDir())

	a, err := InitApp(v, progress.NewNopSink())
	require.NoError(t, err)

	assert.Equal(t, "local", a.Config.NetworkName)
	assert.NotNil(t, a.DeployAll)
	assert.NotNil(t, a.UpgradeProxy)
	assert.NotNil(t, a.ListExecutors)
	require.NotNil(t, a.chain)

	// never connected, so closing is a no-op and repeatable
	a.Close()
	a.Close()
}

func TestApp_CloseWithoutChain(t *testing.T) {
	assert.NotPanics(t, func() { (&App{}).Close() })
}
