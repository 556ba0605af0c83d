package cli

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/nguyenpanda/assetlift/internal/clients/cli"
)

// A ConsoleNotifier writes colored status lines for the operator. Colors are only used when the
// output is a terminal which supports them.
type ConsoleNotifier struct {
	out *termenv.Output
}

func NewConsoleNotifier(w io.Writer, opts ...termenv.OutputOption) *ConsoleNotifier {
	return &ConsoleNotifier{out: termenv.NewOutput(w, opts...)}
}

// ConsoleNotifier: assetlift.Notifier

func (n *ConsoleNotifier) Infof(format string, a ...any) {
	n.println(0, termenv.ANSIBlue, "", format, a...)
}

func (n *ConsoleNotifier) Detailf(format string, a ...any) {
	n.println(1, nil, "", format, a...)
}

func (n *ConsoleNotifier) Successf(format string, a ...any) {
	n.println(0, termenv.ANSIGreen, "", format, a...)
}

func (n *ConsoleNotifier) Warnf(format string, a ...any) {
	n.println(0, termenv.ANSIYellow, "Warning: ", format, a...)
}

func (n *ConsoleNotifier) Errorf(format string, a ...any) {
	n.println(0, termenv.ANSIRed, "Error: ", format, a...)
}

func (n *ConsoleNotifier) println(
	indent int, color termenv.Color, label, format string, a ...any,
) {
	message := n.out.String(label + fmt.Sprintf(format, a...))
	if color != nil {
		message = message.Foreground(color)
	}
	// Continuation lines of multi-line messages line up with the first line
	w := cli.NewPrefixWriter(makeIndentation(indent), n.out)
	_, _ = fmt.Fprintln(w, message.String())
}
