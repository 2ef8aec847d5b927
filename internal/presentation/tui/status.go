package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Status prints colored one-line results for commands that check many entities.
type Status struct {
	out     io.Writer
	profile termenv.Profile
}

// NewStatus creates a status printer. Color is dropped when out is not a terminal.
func NewStatus(out io.Writer, color bool) *Status {
	p := termenv.Ascii
	if color {
		p = termenv.ColorProfile()
	}
	return &Status{out: out, profile: p}
}

// OK prints a success line.
func (s *Status) OK(subject, detail string) {
	s.line("OK", "#22c55e", subject, detail)
}

// Fail prints a failure line.
func (s *Status) Fail(subject string, err error) {
	s.line("FAIL", "#ef4444", subject, err.Error())
}

// Info prints a neutral line.
func (s *Status) Info(subject, detail string) {
	s.line("--", "#818cf8", subject, detail)
}

func (s *Status) line(tag, color, subject, detail string) {
	label := termenv.String(fmt.Sprintf("%-4s", tag)).Foreground(s.profile.Color(color)).Bold()
	if detail == "" {
		fmt.Fprintf(s.out, "%s %s\n", label, subject)
		return
	}
	fmt.Fprintf(s.out, "%s %s: %s\n", label, subject, detail)
}
