package ports

import (
	"io"

	"github.com/aretw0/statewrap/pkg/domain"
)

// Emitter turns a compilation unit into an artifact.
type Emitter interface {
	// Format is the stable name used to select the emitter (e.g. "go", "json", "mermaid").
	Format() string

	// Emit writes the rendered unit to w.
	Emit(w io.Writer, unit *domain.CompilationUnit) error
}
