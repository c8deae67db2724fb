package credential

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// PromptPage is a page that can show a blocking input dialog.
type PromptPage interface {
	Prompt(ctx context.Context, message string) (value string, ok bool, err error)
}

type pagePrompter struct {
	page PromptPage
}

// NewPagePrompter asks through an input dialog shown in the video page.
func NewPagePrompter(p PromptPage) Prompter {
	return &pagePrompter{page: p}
}

func (p *pagePrompter) Prompt(ctx context.Context, message string) (string, error) {
	value, ok, err := p.page.Prompt(ctx, message)
	if err != nil {
		return "", err
	}
	if !ok || value == "" {
		return "", ErrDeclined
	}
	return value, nil
}

type terminalPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewTerminalPrompter asks on out and reads one line from in.
func NewTerminalPrompter(in io.Reader, out io.Writer) Prompter {
	return &terminalPrompter{in: in, out: out}
}

func (p *terminalPrompter) Prompt(ctx context.Context, message string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s\n> ", message); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	type answer struct {
		line string
		err  error
	}
	answers := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(p.in).ReadString('\n')
		answers <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-answers:
		line := strings.TrimRight(a.line, "\r\n")
		if a.err != nil && a.err != io.EOF {
			return "", fmt.Errorf("read answer: %w", a.err)
		}
		if line == "" {
			return "", ErrDeclined
		}
		return line, nil
	}
}
