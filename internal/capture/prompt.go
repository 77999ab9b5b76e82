package capture

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// LinePrompter reads the recording name as one line of text
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a LinePrompter reading from in and printing the question to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

type lineResult struct {
	line string
	err  error
}

// PromptName asks for a name, an empty answer lets the session pick one
func (p *LinePrompter) PromptName(ctx context.Context) (string, error) {
	if p.out != nil {
		fmt.Fprint(p.out, "Recording name (leave empty for a generated one): ")
	}

	result := make(chan lineResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		result <- lineResult{line: strings.TrimSpace(line), err: err}
	}()

	select {
	case r := <-result:
		if r.err == io.EOF {
			return "", nil
		}
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// StaticPrompter always answers the same name
type StaticPrompter string

func (p StaticPrompter) PromptName(context.Context) (string, error) {
	return string(p), nil
}
