// Package cli provides utilities for nicer CLI output
package cli

import (
	"io"

	"github.com/muesli/reflow/ansi"
)

// A PrefixWriter writes a prefix at the start of every line written through it. ANSI escape
// sequences are passed through without starting a line, and styling in effect at the end of a line
// is suspended while the prefix is written.
type PrefixWriter struct {
	prefix     string
	ansiWriter *ansi.Writer
	midLine    bool
	inSequence bool
}

func NewPrefixWriter(prefix string, forward io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: prefix,
		ansiWriter: &ansi.Writer{
			Forward: forward,
		},
	}
}

// PrefixWriter: io.Writer

func (w *PrefixWriter) Write(b []byte) (n int, err error) {
	for _, c := range string(b) {
		switch {
		case c == '\x1B':
			w.inSequence = true
		case w.inSequence:
			if (c >= 0x41 && c <= 0x5a) || (c >= 0x61 && c <= 0x7a) {
				w.inSequence = false
			}
		default:
			if !w.midLine {
				if err = w.writePrefix(); err != nil {
					return 0, err
				}
				w.midLine = true
			}
			// Carriage returns rewrite the current line, so they need the prefix again too
			if c == '\n' || c == '\r' {
				w.midLine = false
			}
		}

		if _, err = w.ansiWriter.Write([]byte(string(c))); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

func (w *PrefixWriter) writePrefix() error {
	if w.prefix == "" {
		return nil
	}
	w.ansiWriter.ResetAnsi()
	if _, err := w.ansiWriter.Write([]byte(w.prefix)); err != nil {
		return err
	}
	w.ansiWriter.RestoreAnsi()
	return nil
}
