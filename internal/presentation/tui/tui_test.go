package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aretw0/statewrap/internal/generator"
	"github.com/aretw0/statewrap/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectReport(t *testing.T) {
	unit, err := generator.New().Generate(context.Background(), testutils.Robot())
	require.NoError(t, err)

	report := InspectReport(unit)

	assert.Contains(t, report, "# Robot")
	assert.Contains(t, report, "Package `robot`")
	assert.Contains(t, report, "- **Position**: Left, Middle, Right, Up, Down")
	assert.Contains(t, report, "## Wrappers (10)")
	assert.Contains(t, report, "| `MiddleOnState` | Middle, On |")
	assert.Contains(t, report, "MoveUp → UpOnState")
	assert.Contains(t, report, "TurnOn → LeftOnState")
	// Off wrappers only expose Stay and Position as values.
	assert.Contains(t, report, "| `LeftOffState` | Left, Off | Stay<br>Position |")
}

func TestStatus_NoColor(t *testing.T) {
	var buf bytes.Buffer
	s := NewStatus(&buf, false)

	s.OK("Robot", "10 wrappers")
	s.Fail("Broken", errors.New("boom"))
	s.Info("Lamp", "")

	assert.Equal(t, "OK   Robot: 10 wrappers\nFAIL Broken: boom\n--   Lamp\n", buf.String())
}

func TestPlainRenderer(t *testing.T) {
	out, err := PlainRenderer()("# Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}
