// Package jsonunit renders compilation units as JSON, for emitters written in other languages.
package jsonunit

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/statewrap/pkg/domain"
)

// Format is the emitter's stable name.
const Format = "json"

// Emitter implements ports.Emitter with indented JSON output.
type Emitter struct {
	Indent string
}

// New creates a JSON emitter indenting with two spaces.
func New() *Emitter {
	return &Emitter{Indent: "  "}
}

// Format implements ports.Emitter.
func (e *Emitter) Format() string {
	return Format
}

// Emit writes unit to w.
func (e *Emitter) Emit(w io.Writer, unit *domain.CompilationUnit) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", e.Indent)
	if err := enc.Encode(unit); err != nil {
		return fmt.Errorf("failed to encode unit %s: %w", unit.Entity, err)
	}
	return nil
}

// Decode reads a unit previously written by Emit and restores its successor links.
func Decode(r io.Reader) (*domain.CompilationUnit, error) {
	var unit domain.CompilationUnit
	if err := json.NewDecoder(r).Decode(&unit); err != nil {
		return nil, fmt.Errorf("failed to decode unit: %w", err)
	}
	if err := unit.Link(); err != nil {
		return nil, err
	}
	return &unit, nil
}
