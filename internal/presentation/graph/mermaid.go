package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/statewrap/pkg/domain"
)

// Format is the emitter's stable name.
const Format = "mermaid"

// GraphOverlay marks a starting wrapper on the diagram.
// Every wrapper reachable from it through transitions is styled as reachable.
type GraphOverlay struct {
	CurrentWrapper string
}

// GenerateMermaid produces a Mermaid flowchart of the unit's wrappers.
// It applies semantic styling:
// - Wrapper without transition members: ((Circle))
// - Default: [Rectangle]
// Members leading to the same successor share one labelled edge.
func GenerateMermaid(unit *domain.CompilationUnit, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, w := range unit.Wrappers {
		safeID := sanitizeMermaidID(w.Name)

		opener, closer := "[", "]"
		if !hasTransitions(w) {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, w.Name, closer))

		// Group member names per successor, keeping declaration order.
		var targets []string
		labels := make(map[string][]string)
		for _, m := range w.Members {
			next, ok := unit.Successor(m)
			if !ok {
				continue
			}
			if _, seen := labels[next.Name]; !seen {
				targets = append(targets, next.Name)
			}
			labels[next.Name] = append(labels[next.Name], m.Name)
		}
		for _, target := range targets {
			safeLabel := strings.ReplaceAll(strings.Join(labels[target], ", "), "\"", "'")
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeID, safeLabel, sanitizeMermaidID(target)))
		}
	}

	if overlay != nil && overlay.CurrentWrapper != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, name := range Reachable(unit, overlay.CurrentWrapper) {
			if name == overlay.CurrentWrapper {
				continue
			}
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", sanitizeMermaidID(name)))
		}
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentWrapper)))
	}

	return sb.String()
}

// Reachable returns the wrappers reachable from start, start included, in breadth-first order.
// It returns nil if start is not part of the unit.
func Reachable(unit *domain.CompilationUnit, start string) []string {
	first, ok := unit.Lookup(start)
	if !ok {
		return nil
	}
	visited := map[int]bool{first: true}
	queue := []int{first}
	var order []string
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, unit.Wrappers[i].Name)
		for _, m := range unit.Wrappers[i].Members {
			if !m.IsTransition() || m.SuccessorIndex < 0 || visited[m.SuccessorIndex] {
				continue
			}
			visited[m.SuccessorIndex] = true
			queue = append(queue, m.SuccessorIndex)
		}
	}
	return order
}

func hasTransitions(w domain.WrapperDescription) bool {
	for _, m := range w.Members {
		if m.IsTransition() {
			return true
		}
	}
	return false
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}

// Emitter implements ports.Emitter with Mermaid output.
type Emitter struct {
	Overlay *GraphOverlay
}

// Format implements ports.Emitter.
func (e *Emitter) Format() string {
	return Format
}

// Emit writes the diagram of unit to w.
func (e *Emitter) Emit(w io.Writer, unit *domain.CompilationUnit) error {
	_, err := io.WriteString(w, GenerateMermaid(unit, e.Overlay))
	return err
}
