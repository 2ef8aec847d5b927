package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/statewrap/internal/presentation/graph"
	"github.com/aretw0/statewrap/internal/presentation/tui"
	"github.com/aretw0/statewrap/internal/validator"
	"github.com/aretw0/statewrap/pkg/domain"
)

// ErrValidationFailed is returned by RunValidate when at least one entity is invalid.
var ErrValidationFailed = errors.New("validation failed")

func open(opts Options) (*app, error) {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return nil, err
	}
	return createEngine(opts, cfg, GenerateOptions{}.merge(cfg))
}

// RunList prints the names of the described entities.
func RunList(ctx context.Context, opts Options, out io.Writer) error {
	a, err := open(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	names, err := a.Engine.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

// RunValidate runs the whole pipeline for the requested entities (all when none are named)
// and prints one status line per entity. Lint findings are printed as info lines and
// never fail the run; from, when set, also reports wrappers unreachable from it.
func RunValidate(ctx context.Context, opts Options, names []string, from string, out io.Writer, color bool) error {
	a, err := open(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(names) == 0 {
		names, err = a.Engine.List(ctx)
		if err != nil {
			return err
		}
	}

	status := tui.NewStatus(out, color)
	failed := 0
	for _, name := range names {
		entity, unit, err := a.Engine.Validate(ctx, name)
		if err != nil {
			failed++
			if isr, ok := domain.AsInvalidStateRepresentation(err); ok {
				status.Fail(name, fmt.Errorf("[%s] %s", isr.Reason, isr.Message))
			} else {
				status.Fail(name, err)
			}
			continue
		}
		status.OK(name, fmt.Sprintf("%d wrappers", len(unit.Wrappers)))

		start := from
		if _, ok := unit.Lookup(start); !ok {
			start = ""
		}
		findings, err := validator.Lint(entity, unit, start)
		if err != nil {
			return err
		}
		if len(findings) > 0 {
			status.Info(name, validator.Summary(findings))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d entities", ErrValidationFailed, failed, len(names))
	}
	return nil
}

// RunInspect prints the markdown report of one entity, rendered with glamour on terminals.
func RunInspect(ctx context.Context, opts Options, name string, out io.Writer, render tui.RenderFunc) error {
	a, err := open(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	unit, err := a.Engine.Generate(ctx, name)
	if err != nil {
		return err
	}

	if render == nil {
		render = tui.PlainRenderer()
	}
	rendered, err := render(tui.InspectReport(unit))
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}

// RunGraph prints the Mermaid transition diagram of one entity.
// from, when set, highlights a wrapper and everything reachable from it.
func RunGraph(ctx context.Context, opts Options, name, from string, out io.Writer) error {
	a, err := open(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	unit, err := a.Engine.Generate(ctx, name)
	if err != nil {
		return err
	}

	var overlay *graph.GraphOverlay
	if from != "" {
		if _, ok := unit.Wrapper(from); !ok {
			return fmt.Errorf("unknown wrapper %q", from)
		}
		overlay = &graph.GraphOverlay{CurrentWrapper: from}
	}
	_, err = io.WriteString(out, graph.GenerateMermaid(unit, overlay))
	return err
}

// IsTerminal reports whether out is a terminal file.
func IsTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && tui.IsTerminal(f)
}
