package cli

import (
	"context"
	"fmt"
	"io"
)

// runWatch generates once, then again on every description change until ctx is done.
// Generation errors are reported and the watcher keeps waiting for a fix.
func runWatch(ctx context.Context, a *app, gen GenerateOptions, out io.Writer) error {
	events, err := a.Engine.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	a.Logger.Info("Starting Watcher", "dir", a.Engine.Name)
	if err := generateAll(ctx, a, gen, out); err != nil {
		printSystemMessage(out, "generation failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			a.Logger.Info("Change detected, regenerating", "event", event)
			printSystemMessage(out, "change detected: %s", event)
			if err := generateAll(ctx, a, gen, out); err != nil {
				printSystemMessage(out, "generation failed: %v", err)
			}
		}
	}
}
