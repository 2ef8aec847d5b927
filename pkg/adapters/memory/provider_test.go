package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/statewrap/internal/testutils"
	"github.com/aretw0/statewrap/pkg/adapters/memory"
	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProvider_Contract(t *testing.T) {
	provider, err := memory.NewProvider(*testutils.Robot(), *testutils.Grid(2, 3))
	require.NoError(t, err)

	ports.RunDescriptionProviderContract(t, provider, map[string]int{
		"Robot": 2,
		"Grid":  2,
	})
}

func TestMemoryProvider_Isolation(t *testing.T) {
	robot := testutils.Robot()
	provider, err := memory.NewProvider(*robot)
	require.NoError(t, err)

	robot.Groups[0].States[0] = "Sideways"

	described, err := provider.Describe(context.Background(), "Robot")
	require.NoError(t, err)
	assert.Equal(t, "Left", described.Groups[0].States[0])

	described.Capabilities = nil
	again, err := provider.Describe(context.Background(), "Robot")
	require.NoError(t, err)
	assert.NotEmpty(t, again.Capabilities)
}

func TestMemoryProvider_Rejects(t *testing.T) {
	_, err := memory.NewProvider(domain.Entity{})
	assert.Error(t, err)

	_, err = memory.NewProvider(domain.Entity{Name: "A"}, domain.Entity{Name: "A"})
	assert.Error(t, err)
}
