// Package validator inspects generated units for descriptions that are valid
// but probably not what the author meant.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/statewrap/internal/presentation/graph"
	"github.com/aretw0/statewrap/pkg/domain"
)

// Kind classifies a Finding.
type Kind string

const (
	// KindUnusedCapability marks a capability no wrapper exposes.
	KindUnusedCapability Kind = "unused_capability"
	// KindDeadEnd marks a wrapper without any transition member.
	KindDeadEnd Kind = "dead_end"
	// KindUnreachable marks a wrapper no transition path leads to from the start wrapper.
	KindUnreachable Kind = "unreachable"
)

// Finding is a single lint result.
type Finding struct {
	Kind    Kind
	Subject string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", f.Kind, f.Subject)
}

// Lint reports suspicious parts of unit. When start is set, every wrapper not
// reachable from it is reported as well; an unknown start is an error.
func Lint(entity *domain.Entity, unit *domain.CompilationUnit, start string) ([]Finding, error) {
	var findings []Finding

	exposed := make(map[string]bool)
	for _, w := range unit.Wrappers {
		for _, m := range w.Members {
			exposed[m.Name] = true
		}
	}
	for _, c := range entity.Capabilities {
		if !exposed[c.Name] {
			findings = append(findings, Finding{Kind: KindUnusedCapability, Subject: c.Name})
		}
	}

	for _, w := range unit.Wrappers {
		if !hasTransition(w) {
			findings = append(findings, Finding{Kind: KindDeadEnd, Subject: w.Name})
		}
	}

	if start == "" {
		return findings, nil
	}
	if _, ok := unit.Lookup(start); !ok {
		return findings, fmt.Errorf("start wrapper %q not found in %s", start, unit.Entity)
	}
	visited := make(map[string]bool)
	for _, name := range graph.Reachable(unit, start) {
		visited[name] = true
	}
	for _, w := range unit.Wrappers {
		if !visited[w.Name] {
			findings = append(findings, Finding{Kind: KindUnreachable, Subject: w.Name})
		}
	}
	return findings, nil
}

// Summary joins findings into one line.
func Summary(findings []Finding) string {
	parts := make([]string, len(findings))
	for i, f := range findings {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}

func hasTransition(w domain.WrapperDescription) bool {
	for _, m := range w.Members {
		if m.IsTransition() {
			return true
		}
	}
	return false
}
