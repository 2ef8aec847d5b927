package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lampYAML = `name: Lamp
package: lamp
groups:
  - Power: [On, Off]
capabilities:
  - name: Toggle
    available: all
    transitions:
      On: [Off]
      Off: [On]
  - name: Brightness
    result: int
    available: [On]
`

const doorYAML = `name: Door
groups:
  - Door: [Open, Closed, Locked]
capabilities:
  - name: Close
    available: [Open]
    transitions:
      Closed: [Open]
  - name: Lock
    available: [Closed]
    transitions:
      Locked: [Closed]
`

const brokenYAML = `name: Broken
groups:
  - Power: [On, Off]
  - Again: [On]
capabilities: []
`

func descriptions(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func fileOptions(dir string) Options {
	return Options{Dir: dir, Provider: ProviderFile}
}

func TestRunGenerate_Go(t *testing.T) {
	dir := descriptions(t, map[string]string{"lamp.yaml": lampYAML})
	outDir := filepath.Join(t.TempDir(), "gen")
	var out bytes.Buffer

	err := RunGenerate(context.Background(), fileOptions(dir), GenerateOptions{OutDir: outDir}, &out)
	require.NoError(t, err)

	src, err := os.ReadFile(filepath.Join(outDir, "lamp_states.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package lamp")
	assert.Contains(t, string(src), "func (s OnState) Brightness() int {")
	assert.NotContains(t, string(src), "func (s OffState) Brightness()")
	assert.Contains(t, out.String(), "wrote ")
}

func TestRunGenerate_SplitWithPackageOverride(t *testing.T) {
	dir := descriptions(t, map[string]string{"lamp.yaml": lampYAML})
	outDir := t.TempDir()

	err := RunGenerate(context.Background(), fileOptions(dir), GenerateOptions{
		OutDir:  outDir,
		Split:   true,
		Package: "lights",
		Suffix:  "Mode",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	for _, name := range []string{"on_mode.go", "off_mode.go"} {
		src, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(src), "package lights")
	}
}

func TestRunGenerate_StdoutFormats(t *testing.T) {
	dir := descriptions(t, map[string]string{"lamp.yaml": lampYAML})

	var out bytes.Buffer
	err := RunGenerate(context.Background(), fileOptions(dir), GenerateOptions{Format: "json", OutDir: StdoutDir}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"entity": "Lamp"`)

	out.Reset()
	err = RunGenerate(context.Background(), fileOptions(dir), GenerateOptions{Format: "mermaid", OutDir: StdoutDir}, &out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "graph TD"))

	err = RunGenerate(context.Background(), fileOptions(dir), GenerateOptions{Format: "rust", OutDir: StdoutDir}, &out)
	assert.ErrorContains(t, err, "unknown output format")
}

func TestRunGenerate_ConfigDefaults(t *testing.T) {
	dir := descriptions(t, map[string]string{
		"lamp.yaml":      lampYAML,
		"statewrap.yaml": "format: mermaid\nout: \"-\"\n",
	})

	var out bytes.Buffer
	err := RunGenerate(context.Background(), fileOptions(dir), GenerateOptions{}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "graph TD")

	out.Reset()
	err = RunGenerate(context.Background(), fileOptions(dir), GenerateOptions{Format: "json"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"wrappers"`, "flags override the config file")

	opts := fileOptions(dir)
	opts.ConfigPath = filepath.Join(dir, "absent.yaml")
	err = RunGenerate(context.Background(), opts, GenerateOptions{}, &out)
	assert.Error(t, err, "an explicit config must exist")
}

func TestRunGenerate_Hooks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hooks are exercised through sh")
	}
	dir := descriptions(t, map[string]string{
		"lamp.yaml": lampYAML,
		"statewrap.yaml": `hooks:
  - name: stamp
    command: sh
    args: ["-c", "echo \"// formatted $STATEWRAP_ENTITY\" >> \"$0\""]
    formats: [go]
`,
	})
	outDir := t.TempDir()

	require.NoError(t, RunGenerate(context.Background(), fileOptions(dir), GenerateOptions{OutDir: outDir}, &bytes.Buffer{}))
	data, err := os.ReadFile(filepath.Join(outDir, "lamp_states.go"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "// formatted Lamp\n"))

	jsonDir := t.TempDir()
	require.NoError(t, RunGenerate(context.Background(), fileOptions(dir), GenerateOptions{OutDir: jsonDir, Format: "json"}, &bytes.Buffer{}))
	data, err = os.ReadFile(filepath.Join(jsonDir, "lamp.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "formatted", "hook is restricted to go")
}

func TestRunGenerate_FailingHook(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hooks are exercised through sh")
	}
	dir := descriptions(t, map[string]string{
		"lamp.yaml":      lampYAML,
		"statewrap.yaml": "hooks:\n  - name: lint\n    command: \"false\"\n",
	})
	err := RunGenerate(context.Background(), fileOptions(dir), GenerateOptions{OutDir: t.TempDir()}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "hook lint failed")
}

func TestRunGenerate_CacheAndMetrics(t *testing.T) {
	dir := descriptions(t, map[string]string{"lamp.yaml": lampYAML})
	opts := fileOptions(dir)
	opts.CacheDir = filepath.Join(t.TempDir(), "cache")
	metricsFile := filepath.Join(t.TempDir(), "statewrap.prom")

	gen := GenerateOptions{OutDir: t.TempDir(), MetricsFile: metricsFile}
	require.NoError(t, RunGenerate(context.Background(), opts, gen, &bytes.Buffer{}))

	entries, err := os.ReadDir(opts.CacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "one cached unit per fingerprint")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `statewrap_generations_total{entity="Lamp",outcome="success"} 1`)
}

func TestRunGenerate_Invalid(t *testing.T) {
	dir := descriptions(t, map[string]string{"broken.yaml": brokenYAML})
	err := RunGenerate(context.Background(), fileOptions(dir), GenerateOptions{OutDir: StdoutDir}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid state representation")
}

func TestRunValidate(t *testing.T) {
	dir := descriptions(t, map[string]string{"lamp.yaml": lampYAML, "broken.yaml": brokenYAML})
	var out bytes.Buffer

	err := RunValidate(context.Background(), fileOptions(dir), nil, "", &out, false)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out.String(), "FAIL Broken: [duplicate_state]")
	assert.Contains(t, out.String(), "OK   Lamp: 2 wrappers")

	out.Reset()
	require.NoError(t, RunValidate(context.Background(), fileOptions(dir), []string{"Lamp"}, "", &out, false))
	assert.NotContains(t, out.String(), "--")
}

func TestRunValidate_Lint(t *testing.T) {
	dir := descriptions(t, map[string]string{"door.yaml": doorYAML})
	var out bytes.Buffer

	require.NoError(t, RunValidate(context.Background(), fileOptions(dir), nil, "ClosedState", &out, false))
	assert.Contains(t, out.String(), "OK   Door: 3 wrappers")
	assert.Contains(t, out.String(), "--   Door: [dead_end] LockedState, [unreachable] OpenState")
}

func TestRunList(t *testing.T) {
	dir := descriptions(t, map[string]string{"lamp.yaml": lampYAML, "broken.yaml": brokenYAML})
	var out bytes.Buffer

	require.NoError(t, RunList(context.Background(), fileOptions(dir), &out))
	assert.Equal(t, "Broken\nLamp\n", out.String())
}

func TestRunInspectAndGraph(t *testing.T) {
	dir := descriptions(t, map[string]string{"lamp.yaml": lampYAML})
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, RunInspect(ctx, fileOptions(dir), "Lamp", &out, nil))
	assert.Contains(t, out.String(), "| `OnState` | On | Brightness | Toggle → OffState |")

	out.Reset()
	require.NoError(t, RunGraph(ctx, fileOptions(dir), "Lamp", "OffState", &out))
	assert.Contains(t, out.String(), "class OffState current;")
	assert.Contains(t, out.String(), "class OnState visited;")

	assert.Error(t, RunGraph(ctx, fileOptions(dir), "Lamp", "Nowhere", &out))
}

func TestLoamProvider(t *testing.T) {
	dir := descriptions(t, map[string]string{"lamp.md": "---\n" + lampYAML + "---\nA lamp.\n"})
	var out bytes.Buffer

	require.NoError(t, RunList(context.Background(), Options{Dir: dir}, &out))
	assert.Equal(t, "Lamp\n", out.String())
}

func TestUnknownProvider(t *testing.T) {
	err := RunList(context.Background(), Options{Dir: t.TempDir(), Provider: "s3"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown provider")
}
