// Package golang renders compilation units as Go source.
//
// Each wrapper becomes a struct holding a pointer to the entity, a constructor,
// and one method per available capability. Value methods forward the call;
// transition methods forward it and return the successor wrapper around the
// same entity.
package golang

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"
	"strings"
	"text/template"

	"github.com/aretw0/statewrap/pkg/domain"
)

// Format is the emitter's stable name.
const Format = "go"

// ErrNotRepresentable is returned when a unit uses names or types Go cannot express.
var ErrNotRepresentable = errors.New("not representable in Go")

// File is one rendered source file.
type File struct {
	Name    string
	Content []byte
}

// Emitter implements ports.Emitter for Go.
type Emitter struct {
	pkg   string
	split bool
}

// Option configures the Emitter.
type Option func(*Emitter)

// WithPackage overrides the package clause of generated files.
func WithPackage(name string) Option {
	return func(e *Emitter) {
		e.pkg = name
	}
}

// WithSplit renders one file per wrapper instead of one file per entity.
func WithSplit(split bool) Option {
	return func(e *Emitter) {
		e.split = split
	}
}

// New creates a Go emitter.
func New(opts ...Option) *Emitter {
	e := &Emitter{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Format implements ports.Emitter.
func (e *Emitter) Format() string {
	return Format
}

// Emit writes the whole unit as a single file, regardless of WithSplit.
func (e *Emitter) Emit(w io.Writer, unit *domain.CompilationUnit) error {
	file, err := e.render(unit, unit.Wrappers, FileName(unit.Entity)+"_states.go")
	if err != nil {
		return err
	}
	_, err = w.Write(file.Content)
	return err
}

// Files renders the unit into one or more files, honouring WithSplit.
func (e *Emitter) Files(unit *domain.CompilationUnit) ([]File, error) {
	if !e.split {
		f, err := e.render(unit, unit.Wrappers, FileName(unit.Entity)+"_states.go")
		if err != nil {
			return nil, err
		}
		return []File{f}, nil
	}

	files := make([]File, 0, len(unit.Wrappers))
	for i := range unit.Wrappers {
		f, err := e.render(unit, unit.Wrappers[i:i+1], FileName(unit.Wrappers[i].Name)+".go")
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// PackageName returns the package clause used for unit.
func (e *Emitter) PackageName(unit *domain.CompilationUnit) string {
	switch {
	case e.pkg != "":
		return e.pkg
	case unit.Package != "":
		return unit.Package
	default:
		return strings.ToLower(unit.Entity)
	}
}

func (e *Emitter) render(unit *domain.CompilationUnit, wrappers []domain.WrapperDescription, name string) (File, error) {
	if err := Check(unit); err != nil {
		return File{}, err
	}

	pkg := e.PackageName(unit)
	if !isIdent(pkg) {
		return File{}, fmt.Errorf("%w: package name %q", ErrNotRepresentable, pkg)
	}

	view := fileView{Package: pkg}
	var types []string
	for i := range wrappers {
		wv := newWrapperView(unit, &wrappers[i])
		view.Wrappers = append(view.Wrappers, wv)
		types = append(types, wv.types()...)
	}

	imports, err := usedImports(unit.Imports, types)
	if err != nil {
		return File{}, err
	}
	view.Imports = imports

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, view); err != nil {
		return File{}, fmt.Errorf("failed to render %s: %w", name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return File{}, fmt.Errorf("failed to format %s: %w", name, err)
	}
	return File{Name: name, Content: src}, nil
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by statewrap. DO NOT EDIT.

package {{.Package}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{.}}
{{- end}}
)
{{end}}
{{- range .Wrappers}}{{$w := .}}
// {{.Name}} wraps {{.Entity}} while it is in the {{.States}} state.
type {{.Name}}{{.TypeParamsDecl}} struct {
	{{.Field}} *{{.Entity}}
}

// {{.Constructor}} returns the {{.Name}} view of {{.Param}}.
func {{.Constructor}}{{.TypeParamsDecl}}({{.Param}} *{{.Entity}}) {{.Ref}} {
	return {{.Ref}}{ {{- .Field}}: {{.Param -}} }
}
{{range .Members}}
{{- range .Doc}}
// {{.}}
{{- end}}
func ({{$w.Receiver}} {{$w.Ref}}) {{.Name}}({{.Params}}) {{.Result}} {
{{- if .Transition}}
	{{$w.Receiver}}.{{$w.Field}}.{{.Name}}({{.Args}})
	return {{.Successor}}({{$w.Receiver}}.{{$w.Field}})
{{- else}}
	return {{$w.Receiver}}.{{$w.Field}}.{{.Name}}({{.Args}})
{{- end}}
}
{{end}}
{{- end}}`))
