package ports

import "context"

// Watchable defines an interface for providers that can notify about backend changes.
// This is used by 'statewrap generate --watch' to regenerate on edits.
type Watchable interface {
	// Watch returns a channel receiving the ID of each changed description.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
