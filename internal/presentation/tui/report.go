package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/statewrap/pkg/domain"
)

// InspectReport describes a compilation unit as markdown: the state groups,
// then one table row per wrapper with its members and where transitions lead.
func InspectReport(unit *domain.CompilationUnit) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", unit.EntityType)
	if unit.Package != "" {
		fmt.Fprintf(&sb, "Package `%s`", unit.Package)
		if unit.Fingerprint != "" {
			fmt.Fprintf(&sb, ", fingerprint `%s`", short(unit.Fingerprint))
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString("## State groups\n\n")
	for _, g := range unit.Groups {
		fmt.Fprintf(&sb, "- **%s**: %s\n", g.Name, strings.Join(g.States, ", "))
	}

	transitions := 0
	fmt.Fprintf(&sb, "\n## Wrappers (%d)\n\n", len(unit.Wrappers))
	sb.WriteString("| Wrapper | Permutation | Values | Transitions |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, w := range unit.Wrappers {
		var values, moves []string
		for _, m := range w.Members {
			if m.IsTransition() {
				moves = append(moves, fmt.Sprintf("%s → %s", m.Name, m.SuccessorName))
				transitions++
				continue
			}
			values = append(values, m.Name)
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n",
			w.Name,
			strings.Join(w.Permutation, ", "),
			cell(values),
			cell(moves),
		)
	}

	fmt.Fprintf(&sb, "\n%d wrappers, %d transition members.\n", len(unit.Wrappers), transitions)
	return sb.String()
}

func cell(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, "<br>")
}

func short(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}
