package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the statewrap ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"      _        _                              ", "#818cf8"},
		{"  ___| |_ __ _| |_ _____      ___ __ __ _ _ __ ", "#a78bfa"},
		{" / __| __/ _` | __/ _ \\ \\ /\\ / / '__/ _` | '_ \\", "#c084fc"},
		{" \\__ \\ || (_| | ||  __/\\ V  V /| | | (_| | |_) |", "#e879f9"},
		{" |___/\\__\\__,_|\\__\\___| \\_/\\_/ |_|  \\__,_| .__/", "#f472b6"},
		{"                                         |_|    ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
