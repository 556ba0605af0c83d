package cli

import (
	"fmt"
	"io"

	"github.com/docker/go-units"
)

// ProgressStep is the number of bytes between consecutive progress reports.
const ProgressStep = 4 * units.MiB

// A ProgressWriter counts the bytes written through it and reports the running total on a single,
// repeatedly-rewritten line of its output.
type ProgressWriter struct {
	out      io.Writer
	total    int64
	written  int64
	reported int64
}

// NewProgressWriter makes a ProgressWriter for a transfer of total bytes; total may be negative if
// the size of the transfer is unknown.
func NewProgressWriter(out io.Writer, total int64) *ProgressWriter {
	return &ProgressWriter{
		out:   out,
		total: total,
	}
}

// ProgressWriter: io.Writer

func (w *ProgressWriter) Write(b []byte) (n int, err error) {
	w.written += int64(len(b))
	if w.written-w.reported >= ProgressStep {
		w.report()
	}
	return len(b), nil
}

// Finish reports the final total and ends the progress line.
func (w *ProgressWriter) Finish() {
	w.report()
	_, _ = fmt.Fprintln(w.out)
}

func (w *ProgressWriter) report() {
	w.reported = w.written
	if w.total > 0 {
		_, _ = fmt.Fprintf(
			w.out, "\rDownloaded %s of %s", units.HumanSize(float64(w.written)),
			units.HumanSize(float64(w.total)),
		)
		return
	}
	_, _ = fmt.Fprintf(w.out, "\rDownloaded %s", units.HumanSize(float64(w.written)))
}
