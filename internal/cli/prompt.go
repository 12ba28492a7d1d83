package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

var promptStyle = lipgloss.NewStyle().Bold(true)

// Prompter reads interactive answers
type Prompter struct {
	in  *os.File
	out io.Writer
}

// NewPrompter prompts on out and reads from in
func NewPrompter(in *os.File, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Interactive reports whether input comes from a terminal (not piped)
func (p *Prompter) Interactive() bool {
	return term.IsTerminal(p.in.Fd())
}

// Value asks for a visible value
func (p *Prompter) Value(label string) (string, error) {
	if !p.Interactive() {
		return "", fmt.Errorf("missing %s (non-interactive mode)", label)
	}
	fmt.Fprint(p.out, promptStyle.Render(label+": "))
	reader := bufio.NewReader(p.in)
	value, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return strings.TrimSpace(value), nil
}

// Secret asks for a value without echoing it
func (p *Prompter) Secret(label string) (string, error) {
	if !p.Interactive() {
		return "", fmt.Errorf("missing %s (non-interactive mode)", label)
	}
	fmt.Fprint(p.out, promptStyle.Render(label+": "))
	value, err := term.ReadPassword(p.in.Fd())
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return string(value), nil
}

// Confirm asks a yes/no question, defaulting to no
func (p *Prompter) Confirm(question string) bool {
	answer, err := p.Value(question + " [y/N]")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
