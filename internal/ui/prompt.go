package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter reads line answers from in and writes questions to out.
// With assumeYes every confirmation is accepted without reading input.
type Prompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
	paint     painter
}

// NewPrompter returns a Prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer, assumeYes bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// SetColor toggles styled prompts.
func (p *Prompter) SetColor(on bool) { p.paint = painter(on) }

// AssumeYes reports whether confirmations are auto-accepted.
func (p *Prompter) AssumeYes() bool { return p.assumeYes }

// Ask prints msg and returns the trimmed answer. It returns io.EOF when the
// input is exhausted before any text was read.
func (p *Prompter) Ask(msg string) (string, error) {
	fmt.Fprint(p.out, p.paint.paint(stylePrompt, msg))
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		fmt.Fprintln(p.out)
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// YesNo asks a yes/no question. An empty answer or end of input picks the
// default, which is "no" when defaultNo is set. Only y and yes count as yes.
// YesNo always reads input, even with assumeYes.
func (p *Prompter) YesNo(msg string, defaultNo bool) (bool, error) {
	suffix := " [Y/n]: "
	if defaultNo {
		suffix = " [y/N]: "
	}
	answer, err := p.Ask(msg + suffix)
	if errors.Is(err, io.EOF) {
		return !defaultNo, nil
	}
	if err != nil {
		return false, err
	}
	if answer == "" {
		return !defaultNo, nil
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Confirm asks before a state-changing action. It defaults to no, and is
// always yes when the prompter assumes yes.
func (p *Prompter) Confirm(msg string) (bool, error) {
	if p.assumeYes {
		return true, nil
	}
	return p.YesNo(msg, true)
}

// Notice prints an indented informational line.
func (p *Prompter) Notice(format string, args ...any) {
	fmt.Fprintf(p.out, "  %s\n", p.paint.paint(styleNotice, fmt.Sprintf(format, args...)))
}
