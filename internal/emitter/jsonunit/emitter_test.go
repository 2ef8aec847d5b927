package jsonunit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/statewrap/internal/emitter/jsonunit"
	"github.com/aretw0/statewrap/internal/generator"
	"github.com/aretw0/statewrap/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit(t *testing.T) {
	unit, err := generator.New().Generate(context.Background(), testutils.Robot())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, jsonunit.New().Emit(&buf, unit))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "Robot", raw["entity"])
	wrappers, ok := raw["wrappers"].([]any)
	require.True(t, ok)
	require.Len(t, wrappers, 10)

	first := wrappers[0].(map[string]any)
	assert.Equal(t, "LeftOnState", first["name"])
	assert.Equal(t, []any{"Left", "On"}, first["permutation"])

	back, err := jsonunit.Decode(&buf)
	require.NoError(t, err)
	mid, ok := back.Wrapper("MiddleOnState")
	require.True(t, ok)
	up, _ := mid.Member("MoveUp")
	next, ok := back.Successor(up)
	require.True(t, ok)
	assert.Equal(t, "UpOnState", next.Name)
}
