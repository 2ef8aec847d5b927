// Package process runs local commands over generated artifacts.
package process

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"
)

// Env variables exported to every hook.
const (
	EnvEntity = "STATEWRAP_ENTITY"
	EnvFormat = "STATEWRAP_FORMAT"
	EnvFile   = "STATEWRAP_FILE"
)

// Hook is a command run after an artifact is written, typically a formatter.
// The artifact path is appended as the last argument.
type Hook struct {
	Name    string            `yaml:"name" json:"name"`
	Command string            `yaml:"command" json:"command"`
	Args    []string          `yaml:"args" json:"args"`
	Env     map[string]string `yaml:"env" json:"env"`
	// Formats restricts the hook to some output formats; empty means all.
	Formats []string `yaml:"formats" json:"formats"`
}

// Applies reports whether the hook runs for artifacts of format.
func (h Hook) Applies(format string) bool {
	return len(h.Formats) == 0 || slices.Contains(h.Formats, format)
}

// Artifact describes a file the generator just wrote.
type Artifact struct {
	Entity string
	Format string
	Path   string
}

// Runner executes the registered hooks in registration order.
type Runner struct {
	hooks   []Hook
	baseDir string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithHooks registers hooks, typically loaded from the config file.
func WithHooks(hooks ...Hook) RunnerOption {
	return func(r *Runner) {
		r.hooks = append(r.hooks, hooks...)
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a runner. Hooks without a name or command are rejected.
func NewRunner(opts ...RunnerOption) (*Runner, error) {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	for i, h := range r.hooks {
		if h.Name == "" || h.Command == "" {
			return nil, fmt.Errorf("hook %d: name and command are required", i)
		}
	}
	return r, nil
}

// Len returns the number of registered hooks.
func (r *Runner) Len() int {
	return len(r.hooks)
}

// Run executes every hook that applies to a, stopping at the first failure.
// It returns the names of the hooks that ran.
func (r *Runner) Run(ctx context.Context, a Artifact) ([]string, error) {
	var ran []string
	for _, h := range r.hooks {
		if !h.Applies(a.Format) {
			continue
		}
		if err := r.exec(ctx, h, a); err != nil {
			return ran, err
		}
		ran = append(ran, h.Name)
	}
	return ran, nil
}

func (r *Runner) exec(ctx context.Context, h Hook, a Artifact) error {
	args := append(slices.Clone(h.Args), a.Path)
	cmd := exec.CommandContext(ctx, h.Command, args...)
	cmd.Dir = r.baseDir

	env := []string{
		EnvEntity + "=" + a.Entity,
		EnvFormat + "=" + a.Format,
		EnvFile + "=" + a.Path,
	}
	for k, v := range h.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = append(cmd.Environ(), env...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("hook %s failed on %s: %w", h.Name, a.Path, err)
		}
		return fmt.Errorf("hook %s failed on %s: %w: %s", h.Name, a.Path, err, msg)
	}
	return nil
}
