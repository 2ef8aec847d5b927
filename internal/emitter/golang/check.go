package golang

import (
	"fmt"
	"go/parser"
	"go/token"
	"strings"

	"github.com/aretw0/statewrap/pkg/domain"
)

// Check reports the first name or type of unit that cannot be rendered as Go.
func Check(unit *domain.CompilationUnit) error {
	for _, tp := range unit.TypeParams {
		if !isIdent(tp.Name) {
			return notRepresentable("type parameter", tp.Name)
		}
		if tp.Constraint != "" && !isTypeExpr(tp.Constraint) {
			return notRepresentable("constraint", tp.Constraint)
		}
	}

	for _, w := range unit.Wrappers {
		for _, name := range []string{w.Name, w.Constructor.Name, w.Field.Name, w.Constructor.Param.Name} {
			if !isIdent(name) {
				return notRepresentable("name in "+w.Name, name)
			}
		}

		seen := map[string]bool{w.Field.Name: true}
		for _, m := range w.Members {
			if !isIdent(m.Name) {
				return notRepresentable("member", m.Name)
			}
			if seen[m.Name] {
				return fmt.Errorf("%w: %s declares %s twice", ErrNotRepresentable, w.Name, m.Name)
			}
			seen[m.Name] = true

			params := map[string]bool{}
			for i, p := range m.Params {
				if !isIdent(p.Name) || params[p.Name] {
					return notRepresentable("parameter of "+m.Name, p.Name)
				}
				params[p.Name] = true
				typ := p.Type
				if p.Variadic() {
					if i != len(m.Params)-1 {
						return fmt.Errorf("%w: only the last parameter of %s can be variadic", ErrNotRepresentable, m.Name)
					}
					typ = strings.TrimPrefix(typ, "...")
				}
				if !isTypeExpr(typ) {
					return notRepresentable("type of "+m.Name+"."+p.Name, p.Type)
				}
			}
			if !m.IsTransition() && !isTypeExpr(m.Result.Type) {
				return notRepresentable("result of "+m.Name, m.Result.Type)
			}
			if m.IsTransition() && m.SuccessorIndex == domain.NoSuccessor {
				return fmt.Errorf("%w: %s.%s has no linked successor", ErrNotRepresentable, w.Name, m.Name)
			}
		}
	}
	return nil
}

func notRepresentable(what, value string) error {
	return fmt.Errorf("%w: invalid %s %q", ErrNotRepresentable, what, value)
}

func isIdent(s string) bool {
	return token.IsIdentifier(s) && s != "_"
}

func isTypeExpr(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, err := parser.ParseExpr(s)
	return err == nil
}
