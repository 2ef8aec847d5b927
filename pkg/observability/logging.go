package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/statewrap/pkg/domain"
)

// LogHooks returns lifecycle hooks writing one structured record per event.
// Wrapper events are logged at debug level since there is one per permutation.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerateStart: func(ctx context.Context, e *domain.GenerationEvent) {
			logger.DebugContext(ctx, "generate_start",
				"entity", e.Entity,
				"permutations", e.Permutations,
			)
		},
		OnWrapperAssembled: func(ctx context.Context, e *domain.WrapperEvent) {
			logger.DebugContext(ctx, "wrapper_assembled",
				"entity", e.Entity,
				"wrapper", e.Wrapper,
				"members", e.Members,
				"transitions", e.Transitions,
			)
		},
		OnGenerateEnd: func(ctx context.Context, e *domain.GenerationEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "generate_end",
					"entity", e.Entity,
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "generate_end",
				"entity", e.Entity,
				"wrappers", e.Wrappers,
				"duration", e.Duration,
			)
		},
	}
}
