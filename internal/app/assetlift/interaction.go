package assetlift

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// ErrInterrupted is returned when the operator interrupts an interactive prompt.
var ErrInterrupted = errors.New("interrupted by the operator")

// A Notifier reports progress to the operator at different levels of importance.
type Notifier interface {
	// Infof reports a step of the operation.
	Infof(format string, a ...any)
	// Detailf reports a detail of the current step.
	Detailf(format string, a ...any)
	// Successf reports the successful completion of the operation or of a major step.
	Successf(format string, a ...any)
	// Warnf reports a problem which doesn't stop the operation.
	Warnf(format string, a ...any)
	// Errorf reports a problem which stops the operation.
	Errorf(format string, a ...any)
}

// A Prompter asks the operator questions. Implementations return [ErrInterrupted] if the operator
// interrupts a prompt, or if ctx is canceled while waiting for an answer.
type Prompter interface {
	// Confirm asks a yes/no question, returning defaultYes if the operator gives an empty answer.
	Confirm(ctx context.Context, question string, defaultYes bool) (bool, error)
	// Ask asks for a line of text, returning the answer with surrounding whitespace removed.
	Ask(ctx context.Context, question string) (string, error)
}

// ParseConfirmation interprets an operator's answer to a yes/no question. An empty answer gives
// defaultYes; "y", "yes", and "ok" (in any case) mean yes, and anything else means no.
func ParseConfirmation(answer string, defaultYes bool) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return defaultYes
	case "y", "yes", "ok":
		return true
	default:
		return false
	}
}
