package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGenerateStart    EventType = "generate_start"
	EventWrapperAssembled EventType = "wrapper_assembled"
	EventGenerateEnd      EventType = "generate_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Entity    string    `json:"entity"`
}

// GenerationEvent brackets the generation of one entity.
type GenerationEvent struct {
	EventBase
	Permutations int           `json:"permutations"`
	Wrappers     int           `json:"wrappers,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Err          error         `json:"-"`
}

// WrapperEvent is emitted once per assembled wrapper.
type WrapperEvent struct {
	EventBase
	Wrapper     string `json:"wrapper"`
	Members     int    `json:"members"`
	Transitions int    `json:"transitions"`
}

// LifecycleHooks defines callbacks for generation observability.
// Hooks may be called from several goroutines at once.
type LifecycleHooks struct {
	OnGenerateStart    func(context.Context, *GenerationEvent)
	OnWrapperAssembled func(context.Context, *WrapperEvent)
	OnGenerateEnd      func(context.Context, *GenerationEvent)
}

// Merge returns hooks calling h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnGenerateStart:    chain(h.OnGenerateStart, other.OnGenerateStart),
		OnWrapperAssembled: chain(h.OnWrapperAssembled, other.OnWrapperAssembled),
		OnGenerateEnd:      chain(h.OnGenerateEnd, other.OnGenerateEnd),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
