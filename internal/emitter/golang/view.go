package golang

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/statewrap/pkg/domain"
)

type fileView struct {
	Package  string
	Imports  []string
	Wrappers []wrapperView
}

type wrapperView struct {
	Name           string
	States         string
	TypeParamsDecl string
	Ref            string
	Entity         string
	Field          string
	Receiver       string
	Constructor    string
	Param          string
	Members        []memberView

	typeExprs []string
}

type memberView struct {
	Name       string
	Doc        []string
	Params     string
	Args       string
	Result     string
	Transition bool
	Successor  string
}

func newWrapperView(unit *domain.CompilationUnit, w *domain.WrapperDescription) wrapperView {
	wv := wrapperView{
		Name:           w.Name,
		States:         w.Permutation.String(),
		TypeParamsDecl: typeParamsDecl(w.TypeParams),
		Ref:            w.Ref().String(),
		Entity:         w.Entity.String(),
		Field:          w.Field.Name,
		Receiver:       receiverName(w),
		Constructor:    w.Constructor.Name,
		Param:          w.Constructor.Param.Name,
	}
	for _, tp := range w.TypeParams {
		wv.typeExprs = append(wv.typeExprs, tp.Constraint)
	}

	for _, m := range w.Members {
		mv := memberView{
			Name:       m.Name,
			Doc:        docLines(m.Doc),
			Params:     paramList(m.Params),
			Args:       argList(m.Params),
			Transition: m.IsTransition(),
		}
		for _, p := range m.Params {
			wv.typeExprs = append(wv.typeExprs, p.Type)
		}
		if mv.Transition {
			if next, ok := unit.Successor(m); ok {
				mv.Result = next.Ref().String()
				mv.Successor = next.Constructor.Name
			}
		} else {
			mv.Result = m.Result.Type
			wv.typeExprs = append(wv.typeExprs, m.Result.Type)
		}
		wv.Members = append(wv.Members, mv)
	}
	return wv
}

func (wv wrapperView) types() []string {
	return wv.typeExprs
}

func typeParamsDecl(params []domain.TypeParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		constraint := p.Constraint
		if constraint == "" {
			constraint = "any"
		}
		parts[i] = p.Name + " " + constraint
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// receiverName picks a short receiver that no parameter shadows.
func receiverName(w *domain.WrapperDescription) string {
	used := make(map[string]bool)
	for _, m := range w.Members {
		for _, p := range m.Params {
			used[p.Name] = true
		}
	}
	for _, candidate := range []string{"s", "w", "st", "self"} {
		if !used[candidate] {
			return candidate
		}
	}
	for i := 0; ; i++ {
		candidate := "s" + strconv.Itoa(i)
		if !used[candidate] {
			return candidate
		}
	}
}

func paramList(params []domain.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.Type
	}
	return strings.Join(parts, ", ")
}

// argList forwards parameters, spreading a variadic one.
func argList(params []domain.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name
		if p.Variadic() {
			parts[i] += "..."
		}
	}
	return strings.Join(parts, ", ")
}

func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}
	return strings.Split(doc, "\n")
}

// usedImports keeps the import specs whose package name qualifies one of types.
func usedImports(imports []string, types []string) ([]string, error) {
	joined := strings.Join(types, " ")
	var specs []string
	for _, imp := range imports {
		fields := strings.Fields(imp)
		var alias, importPath string
		switch len(fields) {
		case 1:
			importPath = fields[0]
		case 2:
			alias, importPath = fields[0], fields[1]
		default:
			return nil, fmt.Errorf("%w: import %q", ErrNotRepresentable, imp)
		}
		importPath = strings.Trim(importPath, `"`)

		name := alias
		if name == "" {
			name = path.Base(importPath)
		}
		if name == "_" || name == "." {
			return nil, fmt.Errorf("%w: import %q cannot be qualified", ErrNotRepresentable, imp)
		}
		if !regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\.`).MatchString(joined) {
			continue
		}

		spec := strconv.Quote(importPath)
		if alias != "" {
			spec = alias + " " + spec
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
