package cli

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/nguyenpanda/assetlift/internal/app/assetlift"
)

// A ConsolePrompter asks the operator questions on a text console. When the input isn't a
// terminal, answers are still read from it (e.g. from a pipe) and echoed to the output; once the
// input runs out, confirmations take their default answer and requests for text get an empty
// answer.
type ConsolePrompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

func NewConsolePrompter(in io.Reader, out io.Writer, interactive bool) *ConsolePrompter {
	return &ConsolePrompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// ConsolePrompter: assetlift.Prompter

func (p *ConsolePrompter) Confirm(
	ctx context.Context, question string, defaultYes bool,
) (bool, error) {
	hint := "(y/N)"
	if defaultYes {
		hint = "(Y/n)"
	}
	IndentedFprintf(0, p.out, "%s %s ", question, hint)
	answer, err := p.readAnswer(ctx)
	if err != nil {
		return false, err
	}
	return assetlift.ParseConfirmation(answer, defaultYes), nil
}

func (p *ConsolePrompter) Ask(ctx context.Context, question string) (string, error) {
	IndentedFprintf(0, p.out, "%s ", question)
	answer, err := p.readAnswer(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// readAnswer reads one line of input. Input which isn't typed on a terminal isn't echoed by it, so
// the answer is echoed here.
func (p *ConsolePrompter) readAnswer(ctx context.Context) (string, error) {
	answer, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	if !p.interactive {
		IndentedFprintln(0, p.out, strings.TrimSpace(answer))
	}
	return answer, nil
}

type readResult struct {
	line string
	err  error
}

// readLine reads one line of input, giving up with [assetlift.ErrInterrupted] if ctx is canceled
// first. The end of the input counts as an empty line.
func (p *ConsolePrompter) readLine(ctx context.Context) (string, error) {
	results := make(chan readResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		results <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		// The operator's ^C is echoed without a newline
		IndentedFprintln(0, p.out)
		return "", assetlift.ErrInterrupted
	case result := <-results:
		if result.err != nil && !errors.Is(result.err, io.EOF) {
			return "", errors.Wrap(result.err, "couldn't read answer")
		}
		return result.line, nil
	}
}
