// Package tui is the interactive table view: browse mandatory or catalog
// rows, select some, and link or unlink them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentx-labs/prodlink/internal/linkage"
	"github.com/agentx-labs/prodlink/internal/notify"
	"github.com/agentx-labs/prodlink/internal/session"
)

const (
	markColumnWidth    = 3
	productColumnWidth = 36
	statusColumnWidth  = 14
)

type loadedMsg struct{ err error }

type mutatedMsg struct {
	op  string
	err error
}

// Model is the bubbletea model for one session.
type Model struct {
	ctx      context.Context
	sess     *session.Session
	notes    *notify.Recorder
	table    table.Model
	rows     []linkage.Row
	selected map[string]bool
	brandIdx int
	busy     bool
	hint     string
	quitting bool
	width    int
	height   int
}

// New returns a Model for sess. notes must be one of the session's
// notifiers; its latest notification is shown under the table.
func New(ctx context.Context, sess *session.Session, notes *notify.Recorder) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "", Width: markColumnWidth},
			{Title: "Product", Width: productColumnWidth},
			{Title: "Status", Width: statusColumnWidth},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	if notes == nil {
		notes = &notify.Recorder{}
	}
	return Model{
		ctx:      ctx,
		sess:     sess,
		notes:    notes,
		table:    t,
		selected: make(map[string]bool),
		busy:     true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if h := msg.Height - 12; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case loadedMsg:
		m.busy = false
		m.hint = ""
		m.clearSelection()
		m.refresh(m.sess.View())
		return m, nil

	case mutatedMsg:
		m.busy = false
		m.hint = ""
		if errors.Is(msg.err, session.ErrEmptySelection) {
			m.hint = fmt.Sprintf("Select at least one product to %s.", msg.op)
		}
		if msg.err == nil {
			m.clearSelection()
		}
		m.refresh(m.sess.View())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.hint = ""
	switch msg.String() {
	case "tab", "t":
		m.clearSelection()
		m.refresh(m.sess.Toggle())
		return m, nil
	case " ", "x":
		m.toggleSelection()
		m.refresh(m.sess.View())
		return m, nil
	case "s":
		m.refresh(m.sess.NextStatus())
		return m, nil
	case "b":
		m.refresh(m.sess.SetBrand(m.nextBrand()))
		return m, nil
	case "r":
		m.busy = true
		return m, m.load()
	case "enter", "l":
		if m.sess.View().Mode() != linkage.ModeAll {
			m.hint = "Switch to all products (tab) to link."
			return m, nil
		}
		m.busy = true
		return m, m.mutate("link", m.sess.Link)
	case "d", "u":
		if m.sess.View().Mode() != linkage.ModeMandatory {
			m.hint = "Switch to mandatory products (tab) to unlink."
			return m, nil
		}
		m.busy = true
		return m, m.mutate("unlink", m.sess.Unlink)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) load() tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		return loadedMsg{err: sess.Load(ctx)}
	}
}

func (m Model) mutate(op string, fn func(context.Context, []linkage.Row) error) tea.Cmd {
	ctx, rows := m.ctx, m.selectedRows()
	return func() tea.Msg {
		return mutatedMsg{op: op, err: fn(ctx, rows)}
	}
}

func (m *Model) refresh(vm linkage.ViewModel) {
	m.rows = vm.Rows()
	tableRows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		mark := " "
		if m.selected[rowKey(r)] {
			mark = "✓"
		}
		tableRows = append(tableRows, table.Row{mark, r.Name, r.Status})
	}
	m.table.SetRows(tableRows)
	if c := m.table.Cursor(); c >= len(tableRows) && len(tableRows) > 0 {
		m.table.SetCursor(len(tableRows) - 1)
	}
}

func (m *Model) toggleSelection() {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rows) {
		return
	}
	key := rowKey(m.rows[c])
	if m.selected[key] {
		delete(m.selected, key)
	} else {
		m.selected[key] = true
	}
}

func (m *Model) clearSelection() {
	m.selected = make(map[string]bool)
}

func (m Model) selectedRows() []linkage.Row {
	var rows []linkage.Row
	for _, r := range m.rows {
		if m.selected[rowKey(r)] {
			rows = append(rows, r)
		}
	}
	return rows
}

func (m *Model) nextBrand() string {
	brands := append([]string{""}, m.sess.View().Brands()...)
	m.brandIdx = (m.brandIdx + 1) % len(brands)
	return brands[m.brandIdx]
}

func rowKey(r linkage.Row) string {
	return r.ProductID + "|" + r.ID
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	vm := m.sess.View()

	var b strings.Builder
	title := "Mandatory products"
	if vm.Mode() == linkage.ModeAll {
		title = "All products"
	}
	if name := vm.Account().Name; name != "" {
		title = name + " · " + title
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Status: ") + vm.SelectedStatus())
	if brand := vm.Brand(); brand != "" {
		b.WriteString("   " + labelStyle.Render("Brand: ") + brand)
	}
	b.WriteString(fmt.Sprintf("   %d selected\n", len(m.selectedRows())))

	switch {
	case m.busy || m.sess.Busy():
		b.WriteString(warningStyle.Render("Working…") + "\n")
	case !vm.Loaded():
		b.WriteString(warningStyle.Render("No data.") + "\n")
	case len(m.rows) == 0:
		b.WriteString(warningStyle.Render("No products to show.") + "\n")
	}

	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n")

	if m.hint != "" {
		b.WriteString(warningStyle.Render(m.hint) + "\n")
	} else if n, ok := m.notes.Last(); ok {
		style := successStyle
		if n.Kind == notify.KindError {
			style = errorStyle
		}
		b.WriteString(style.Render(n.Title+": ") + n.Message + "\n")
	}

	b.WriteString(helpStyle.Render("tab toggle view • space select • s status • b brand • l link • d unlink • r reload • q quit"))

	content := b.String()
	if m.width > 0 {
		content = lipgloss.PlaceHorizontal(m.width, lipgloss.Left, content)
	}
	return content
}
