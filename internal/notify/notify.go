// Package notify is the transient notification side channel. Messages are
// shown once and never persisted.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level is the severity of a notification
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is one transient message
type Notification struct {
	Level   Level
	Message string
}

// Notifier surfaces transient messages. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// Success surfaces a success message
func Success(n Notifier, msg string) {
	n.Notify(Notification{Level: LevelSuccess, Message: msg})
}

// Error surfaces an error message
func Error(n Notifier, msg string) {
	n.Notify(Notification{Level: LevelError, Message: msg})
}

// Info surfaces an informational message
func Info(n Notifier, msg string) {
	n.Notify(Notification{Level: LevelInfo, Message: msg})
}

// Nop discards every notification
type Nop struct{}

func (Nop) Notify(Notification) {}

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	toastStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// Terminal renders notifications as a styled one-line toast
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal creates a terminal notifier writing to out
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) Notify(n Notification) {
	var label string
	switch n.Level {
	case LevelSuccess:
		label = successStyle.Render("✓")
	case LevelError:
		label = errorStyle.Render("✗")
	default:
		label = infoStyle.Render("i")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, toastStyle.Render(label+" "+n.Message))
}

// Recorder keeps notifications in memory, for callers that render them
// elsewhere and for tests
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

// All returns a copy of the recorded notifications
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Count returns the number of notifications at level
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.Level == level {
			count++
		}
	}
	return count
}

// Last returns the most recent notification
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

// Reset drops every recorded notification
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
}

// Toggle forwards to next only while enabled
type Toggle struct {
	Enabled bool
	Next    Notifier
}

func (t Toggle) Notify(n Notification) {
	if t.Enabled && t.Next != nil {
		t.Next.Notify(n)
	}
}
