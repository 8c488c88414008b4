package guide

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when input ends before a valid answer arrives.
var ErrAborted = errors.New("input closed")

// Styles colors prompt output.
type Styles struct {
	Name  lipgloss.Style
	Raw   lipgloss.Style
	Token lipgloss.Style
	Error lipgloss.Style
	Muted lipgloss.Style
}

// NewStyles builds styles rendered for w. Writers that are not terminals get
// plain text.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Name:  r.NewStyle().Bold(true),
		Raw:   r.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
		Token: r.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true),
		Error: r.NewStyle().Foreground(lipgloss.Color("#E06C75")),
		Muted: r.NewStyle().Faint(true),
	}
}

// Prompter asks questions on a line-oriented reader and writer.
type Prompter struct {
	in    *bufio.Scanner
	out   io.Writer
	style Styles
}

// NewPrompter creates a Prompter reading answers from r and writing prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(r), out: w, style: NewStyles(w)}
}

// Printf writes to the prompt output.
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Ask writes prompt and returns the next line, trimmed.
func (p *Prompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		return "", ErrAborted
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// ReadUntilValid asks until the answer is one of valid.
func (p *Prompter) ReadUntilValid(prompt string, valid ...string) (string, error) {
	full := prompt + " [" + strings.Join(valid, "/") + "] "
	for {
		answer, err := p.Ask(full)
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(answer)
		if slices.Contains(valid, answer) {
			return answer, nil
		}
	}
}

// ReadUntilFunc asks until check accepts the answer. Rejections are shown.
func (p *Prompter) ReadUntilFunc(prompt string, check func(string) error) (string, error) {
	for {
		answer, err := p.Ask(prompt)
		if err != nil {
			return "", err
		}
		if err := check(answer); err != nil {
			fmt.Fprintln(p.out, p.style.Error.Render(err.Error()))
			continue
		}
		return answer, nil
	}
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	answer, err := p.ReadUntilValid(prompt, "y", "n")
	return answer == "y", err
}
