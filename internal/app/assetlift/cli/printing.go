// Package cli has shared utilities and application logic for the assetlift CLIs
package cli

import (
	"fmt"
	"io"
	"strings"
)

const indentation = "  "

// Indented

func IndentedFprintf(indent int, w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, "%s%s", makeIndentation(indent), fmt.Sprintf(format, a...))
}

func makeIndentation(indent int) string {
	return strings.Repeat(indentation, indent)
}

func IndentedFprintln(indent int, w io.Writer, a ...any) {
	_, _ = fmt.Fprintf(w, "%s%s\n", makeIndentation(indent), fmt.Sprint(a...))
}
