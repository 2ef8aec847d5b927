package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aretw0/statewrap/internal/emitter/golang"
	"github.com/aretw0/statewrap/internal/emitter/jsonunit"
	"github.com/aretw0/statewrap/internal/presentation/graph"
	"github.com/aretw0/statewrap/pkg/adapters/file"
	"github.com/aretw0/statewrap/pkg/adapters/process"
	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/observability"
)

// StdoutDir makes generate print artifacts instead of writing files.
const StdoutDir = "-"

// multiFileEmitter is implemented by emitters that can split a unit into several files.
type multiFileEmitter interface {
	Files(unit *domain.CompilationUnit) ([]golang.File, error)
}

var extensions = map[string]string{
	jsonunit.Format: ".json",
	graph.Format:    ".mmd",
}

// RunGenerate generates the requested entities (all of them when none are named)
// and writes one or more artifacts per entity.
func RunGenerate(ctx context.Context, opts Options, gen GenerateOptions, out io.Writer) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	gen = gen.merge(cfg)

	a, err := createEngine(opts, cfg, gen)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Hooks, err = process.NewRunner(process.WithHooks(cfg.Hooks...), process.WithBaseDir(opts.Dir))
	if err != nil {
		return fmt.Errorf("invalid hooks: %w", err)
	}

	if gen.Watch {
		return runWatch(ctx, a, gen, out)
	}

	err = generateAll(ctx, a, gen, out)
	if gen.MetricsFile != "" {
		if werr := observability.WriteTextfile(a.Metrics, gen.MetricsFile); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

func generateAll(ctx context.Context, a *app, gen GenerateOptions, out io.Writer) error {
	if _, err := a.Engine.Emitters().Lookup(gen.Format); err != nil {
		return err
	}

	names := gen.Names
	if len(names) == 0 {
		var err error
		names, err = a.Engine.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list entities: %w", err)
		}
	}

	for _, name := range names {
		unit, err := a.Engine.Generate(ctx, name)
		if err != nil {
			return err
		}
		files, err := artifacts(a, unit, gen.Format)
		if err != nil {
			return fmt.Errorf("emit %s: %w", name, err)
		}
		if err := writeArtifacts(ctx, a, unit.Entity, gen.Format, files, gen.OutDir, out); err != nil {
			return err
		}
		a.Logger.Info("Generated", "entity", name, "wrappers", len(unit.Wrappers), "files", len(files))
	}
	return nil
}

// artifacts renders unit in format, one file per wrapper when the emitter splits.
func artifacts(a *app, unit *domain.CompilationUnit, format string) ([]golang.File, error) {
	em, err := a.Engine.Emitters().Lookup(format)
	if err != nil {
		return nil, err
	}
	if mf, ok := em.(multiFileEmitter); ok {
		return mf.Files(unit)
	}

	var buf bytes.Buffer
	if err := em.Emit(&buf, unit); err != nil {
		return nil, err
	}
	ext, ok := extensions[format]
	if !ok {
		ext = "." + format
	}
	return []golang.File{{Name: golang.FileName(unit.Entity) + ext, Content: buf.Bytes()}}, nil
}

// writeArtifacts prints files to out, or writes them under dir and runs the hooks over each.
func writeArtifacts(ctx context.Context, a *app, entity, format string, files []golang.File, dir string, out io.Writer) error {
	for _, f := range files {
		if dir == StdoutDir {
			if _, err := out.Write(f.Content); err != nil {
				return err
			}
			continue
		}
		path := filepath.Join(dir, f.Name)
		if err := file.WriteAtomic(path, f.Content); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printSystemMessage(out, "wrote %s", path)

		if a.Hooks == nil || a.Hooks.Len() == 0 {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		ran, err := a.Hooks.Run(ctx, process.Artifact{Entity: entity, Format: format, Path: abs})
		for _, name := range ran {
			a.Logger.Debug("Hook ran", "hook", name, "file", path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
