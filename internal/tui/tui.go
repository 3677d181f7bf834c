package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TDL/internal/client"
	dom "TDL/internal/domain"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// filterCycle is the order the f key walks through.
var filterCycle = []client.Filter{
	{Type: client.FilterNone},
	{Type: client.FilterPriority, Value: "High"},
	{Type: client.FilterPriority, Value: "Mid"},
	{Type: client.FilterPriority, Value: "Low"},
	{Type: client.FilterDue, Value: "today"},
	{Type: client.FilterDue, Value: "overdue"},
	{Type: client.FilterDue, Value: "week"},
	{Type: client.FilterDue, Value: "no-date"},
	{Type: client.FilterSort, Value: "newest"},
}

var tabs = []struct {
	name   string
	bucket client.Bucket
}{
	{"Inbox", client.BucketInbox},
	{"Completed", client.BucketCompleted},
	{"Deleted", client.BucketDeleted},
}

// Model is the Bubble Tea model for the task views. It renders entirely
// from the injected store: every mutation goes through the store and the
// view re-reads the buckets afterwards.
//
// Remote calls are issued synchronously from key handlers; the app is a
// single-session client and edits never overlap.
type Model struct {
	store *client.Store
	user  client.User

	tab       int
	cursor    int
	filterIdx int

	selecting bool
	selection *client.Selection

	adding bool
	input  textinput.Model

	status    string
	statusErr bool
}

// NewModel returns a model over a loaded store.
func NewModel(store *client.Store, user client.User) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task title..."
	ti.CharLimit = 120
	return Model{
		store:     store,
		user:      user,
		selection: client.NewSelection(),
		input:     ti,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.adding {
		return m.updateAdding(key)
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab", "right", "l":
		m.tab = (m.tab + 1) % len(tabs)
		m.resetView()
	case "shift+tab", "left", "h":
		m.tab = (m.tab + len(tabs) - 1) % len(tabs)
		m.resetView()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case "a":
		if m.currentBucket() == client.BucketInbox {
			m.adding = true
			m.input.SetValue("")
			m.input.Focus()
		}

	case "f":
		m.filterIdx = (m.filterIdx + 1) % len(filterCycle)
		m.cursor = 0
	case "F":
		m.filterIdx = 0
		m.cursor = 0

	case "v":
		m.selecting = !m.selecting
		m.selection.Clear()
	case " ":
		if m.selecting {
			if idx, ok := m.cursorIndex(); ok {
				m.selection.Toggle(idx)
			}
		}

	case "g":
		m.runOp("reloaded", func(ctx context.Context) error {
			return m.store.Load(ctx)
		})
		m.resetView()

	case "c":
		m.bucketOp(client.BucketInbox, "completed",
			func(ctx context.Context, id int64) error { return m.store.Complete(ctx, id) },
			func(ctx context.Context, idxs []int) error { return m.store.CompleteMany(ctx, idxs) })

	case "d":
		from := m.currentBucket()
		if from != client.BucketDeleted {
			m.bucketOp(from, "moved to deleted",
				func(ctx context.Context, id int64) error { return m.store.Delete(ctx, id, from) },
				func(ctx context.Context, idxs []int) error { return m.store.DeleteMany(ctx, from, idxs) })
		}

	case "r":
		switch m.currentBucket() {
		case client.BucketCompleted:
			m.bucketOp(client.BucketCompleted, "reverted to inbox",
				func(ctx context.Context, id int64) error { return m.store.Revert(ctx, id) },
				func(ctx context.Context, idxs []int) error { return m.store.RevertMany(ctx, idxs) })
		case client.BucketDeleted:
			m.bucketOp(client.BucketDeleted, "restored to inbox",
				func(ctx context.Context, id int64) error { return m.store.Restore(ctx, id) },
				func(ctx context.Context, idxs []int) error { return m.store.RestoreMany(ctx, idxs) })
		}

	case "x":
		if m.currentBucket() == client.BucketDeleted {
			m.bucketOp(client.BucketDeleted, "permanently deleted",
				func(ctx context.Context, id int64) error { return m.store.PermanentlyDelete(ctx, id) },
				func(ctx context.Context, idxs []int) error { return m.store.PermanentlyDeleteMany(ctx, idxs) })
		}
	}

	m.clampCursor()
	return m, nil
}

func (m Model) updateAdding(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.setStatus("title cannot be empty", true)
			return m, nil
		}
		m.runOp("task added", func(ctx context.Context) error {
			_, err := m.store.Add(ctx, client.TaskDraft{Title: title})
			return err
		})
		m.adding = false
		m.input.Blur()
		return m, nil
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("TDL") + "  " + mutedStyle.Render(m.user.Email) + "\n")
	for i, t := range tabs {
		style := tabStyle
		if i == m.tab {
			style = activeTab
		}
		b.WriteString(style.Render(fmt.Sprintf("%s (%d)", t.name, len(m.store.Tasks(t.bucket)))))
	}
	b.WriteString("\n")
	if f := filterCycle[m.filterIdx]; f.Type != client.FilterNone {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("filter: %s %s", f.Type, f.Value)) + "\n")
	}
	b.WriteString("\n")

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("  nothing here") + "\n")
	}
	for i, t := range visible {
		b.WriteString(m.renderTask(i, t) + "\n")
	}

	if m.adding {
		b.WriteString("\n" + m.input.View() + "\n")
	}
	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errStyle
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render(m.helpLine()) + "\n")
	return b.String()
}

func (m Model) renderTask(i int, t client.Task) string {
	box := boxUnchecked
	if t.Status == dom.StatusCompleted {
		box = boxChecked
	}
	if m.selecting {
		box = boxUnchecked
		if idx := m.actualIndex(i); idx >= 0 && m.selection.Selected(idx) {
			box = boxChecked
		}
	}

	title := t.Title
	if t.Status == dom.StatusCompleted {
		title = doneStyle.Render(title)
	}

	var extras []string
	if t.Priority != "" {
		extras = append(extras, priorityStyle(t.Priority).Render(string(t.Priority)))
	}
	if t.DueAt != nil {
		extras = append(extras, mutedStyle.Render(t.DueAt.Format("Jan 2")))
	}
	line := fmt.Sprintf("%s %s", box, title)
	if len(extras) > 0 {
		line += "  " + strings.Join(extras, " ")
	}

	prefix := "  "
	if i == m.cursor {
		prefix = cursorStyle.Render("> ")
	}
	return prefix + line
}

func priorityStyle(p dom.Priority) interface{ Render(...string) string } {
	switch p {
	case dom.PriorityHigh:
		return priorityHigh
	case dom.PriorityMid:
		return priorityMid
	}
	return priorityLow
}

func (m Model) helpLine() string {
	switch m.currentBucket() {
	case client.BucketCompleted:
		return "tab views · r revert · d delete · v select · space mark · f filter · g reload · q quit"
	case client.BucketDeleted:
		return "tab views · r restore · x delete forever · v select · space mark · f filter · g reload · q quit"
	}
	return "tab views · a add · c complete · d delete · v select · space mark · f filter · g reload · q quit"
}

func (m Model) currentBucket() client.Bucket { return tabs[m.tab].bucket }

// visible applies the current filter projection before render.
func (m Model) visible() []client.Task {
	return client.FilterTasks(m.store.Tasks(m.currentBucket()), filterCycle[m.filterIdx])
}

// cursorIndex maps the cursor position in the filtered view back to the
// task's actual index in the underlying bucket.
func (m Model) cursorIndex() (int, bool) {
	idx := m.actualIndex(m.cursor)
	return idx, idx >= 0
}

func (m Model) actualIndex(visiblePos int) int {
	visible := m.visible()
	if visiblePos < 0 || visiblePos >= len(visible) {
		return -1
	}
	id := visible[visiblePos].ID
	for i, t := range m.store.Tasks(m.currentBucket()) {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// bucketOp runs the single-item op at the cursor, or the bulk op over the
// selection when in selection mode. Only applies when the active tab is
// the op's source bucket.
func (m *Model) bucketOp(
	src client.Bucket,
	okMsg string,
	single func(ctx context.Context, id int64) error,
	bulk func(ctx context.Context, indices []int) error,
) {
	if m.currentBucket() != src {
		return
	}
	if m.selecting {
		if m.selection.Count() == 0 {
			return
		}
		indices := m.selection.Descending()
		m.runOp(fmt.Sprintf("%d task(s) %s", len(indices), okMsg), func(ctx context.Context) error {
			return bulk(ctx, indices)
		})
		m.selecting = false
		m.selection.Clear()
		return
	}
	idx, ok := m.cursorIndex()
	if !ok {
		return
	}
	id := m.store.Tasks(src)[idx].ID
	m.runOp("task "+okMsg, func(ctx context.Context) error {
		return single(ctx, id)
	})
}

func (m *Model) runOp(okMsg string, op func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := op(ctx); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(okMsg, false)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *Model) resetView() {
	m.cursor = 0
	m.selecting = false
	m.selection.Clear()
	m.setStatus("", false)
}

func (m *Model) clampCursor() {
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Run starts the interactive task view over a loaded store.
func Run(store *client.Store, user client.User) error {
	p := tea.NewProgram(NewModel(store, user), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
