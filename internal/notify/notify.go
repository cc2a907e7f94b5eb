package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Kind is the severity of a notification.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Notifier shows a notification. Implementations must not block the caller
// on delivery failures.
type Notifier interface {
	Show(kind Kind, title, message string)
}

// Join renders a list of messages one per line.
func Join(messages []string) string {
	return strings.Join(messages, "\n")
}

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#859900", Dark: "#50fa7b"}).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#dc322f", Dark: "#ff5555"}).
			Bold(true)
)

// Terminal writes styled notifications to w.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminal returns a Terminal writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Show implements Notifier.
func (t *Terminal) Show(kind Kind, title, message string) {
	style := successStyle
	if kind == KindError {
		style = errorStyle
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintf(t.w, "%s %s\n", style.Render(title+":"), message)
}

// Log writes notifications to a zap logger.
type Log struct {
	logger *zap.Logger
}

// NewLog returns a Log notifier.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

// Show implements Notifier.
func (l *Log) Show(kind Kind, title, message string) {
	fields := []zap.Field{zap.String("title", title), zap.String("message", message)}
	if kind == KindError {
		l.logger.Warn("notification", fields...)
		return
	}
	l.logger.Info("notification", fields...)
}

// Multi fans a notification out to every notifier.
type Multi []Notifier

// Show implements Notifier.
func (m Multi) Show(kind Kind, title, message string) {
	for _, n := range m {
		n.Show(kind, title, message)
	}
}

// Only forwards notifications of one kind to Next. Commands that return
// errors to their caller use it to show successes alone.
type Only struct {
	Kind Kind
	Next Notifier
}

// Show implements Notifier.
func (o Only) Show(kind Kind, title, message string) {
	if kind == o.Kind {
		o.Next.Show(kind, title, message)
	}
}

// Notification is one recorded call to Show.
type Notification struct {
	Kind    Kind
	Title   string
	Message string
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

// Show implements Notifier.
func (r *Recorder) Show(kind Kind, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, Notification{Kind: kind, Title: title, Message: message})
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}
