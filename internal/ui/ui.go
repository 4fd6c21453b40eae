package ui

import (
	"context"
	"strings"
	"time"

	"tickmate/internal/model"
	"tickmate/internal/notify"
	"tickmate/internal/taskform"
	"tickmate/internal/tasklist"
	"tickmate/internal/taskrow"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmComplete
	modeConfirmDelete
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldStatus
	fieldPriority
	fieldDueDate
	fieldCount
)

var statusValues = []model.Status{model.StatusPending, model.StatusInProgress, model.StatusCompleted}
var priorityValues = []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}

type pageLoadedMsg struct {
	state tasklist.State
}

type formDoneMsg struct{}

type rowDoneMsg struct {
	taskID string
}

type noticeMsg notify.Notification

type refreshTickMsg time.Time

// Model is the single-view shell: a paginated task list with a
// create/edit form and confirm modals layered over it.
type Model struct {
	list    *tasklist.Controller
	form    *taskform.Form
	actions *taskrow.Actions
	hub     *notify.Hub

	refreshEvery time.Duration

	mode    mode
	state   tasklist.State
	cursor  int
	loading bool

	// pending is per-row in-flight state, keyed by task id, so two
	// mutations on different rows never interfere.
	pending map[string]bool
	target  *model.Task

	field    formField
	title    textinput.Model
	desc     textinput.Model
	due      textinput.Model
	status   int
	priority int
	saving   bool

	notice  notify.Notification
	hasNote bool

	width int
}

func NewModel(list *tasklist.Controller, form *taskform.Form, actions *taskrow.Actions, hub *notify.Hub, refreshEvery time.Duration) Model {
	title := textinput.New()
	title.Placeholder = "Enter task title"
	title.CharLimit = 256
	title.Width = 40

	desc := textinput.New()
	desc.Placeholder = "Enter task description"
	desc.CharLimit = 512
	desc.Width = 40

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = 10
	due.Width = 40

	return Model{
		list:         list,
		form:         form,
		actions:      actions,
		hub:          hub,
		refreshEvery: refreshEvery,
		state:        tasklist.State{InitialLoading: true},
		// Init fires the first load, so the pagination keys are
		// guarded from the start.
		loading: true,
		pending: make(map[string]bool),
		title:   title,
		desc:    desc,
		due:     due,
	}
}

// Run wires the model into a bubbletea program and blocks until quit.
func Run(list *tasklist.Controller, form *taskform.Form, actions *taskrow.Actions, hub *notify.Hub, refreshEvery time.Duration) error {
	program := tea.NewProgram(NewModel(list, form, actions, hub, refreshEvery), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitNotice(), m.refreshTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case pageLoadedMsg:
		m.loading = false
		m.state = msg.state
		last := len(m.state.Page.Content) - 1
		if last < 0 {
			last = 0
		}
		m.cursor = clamp(m.cursor, 0, last)
		return m, nil

	case formDoneMsg:
		m.saving = false
		if !m.form.Open {
			m.mode = modeList
		}
		m = m.markRefreshing()
		return m, m.loadCmd()

	case rowDoneMsg:
		delete(m.pending, msg.taskID)
		m = m.markRefreshing()
		return m, m.loadCmd()

	case noticeMsg:
		m.notice = notify.Notification(msg)
		m.hasNote = true
		return m, m.waitNotice()

	case refreshTickMsg:
		if m.mode == modeList && !m.loading {
			m = m.markRefreshing()
			return m, tea.Batch(m.refreshTick(), m.loadCmd())
		}
		return m, m.refreshTick()

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmComplete, modeConfirmDelete:
			return m.updateConfirm(msg.String())
		default:
			return m.updateList(msg.String())
		}
	}
	return m, nil
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "down", "j":
		if m.cursor < len(m.state.Page.Content)-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if !m.loading {
			m.list.Next()
			m.cursor = 0
			m = m.markRefreshing()
			return m, m.loadCmd()
		}
	case "left", "h":
		if !m.loading {
			m.list.Prev()
			m.cursor = 0
			m = m.markRefreshing()
			return m, m.loadCmd()
		}
	case "r":
		if !m.loading {
			m.list.Retry()
			m = m.markRefreshing()
			return m, m.loadCmd()
		}
	case "a":
		m.form.OpenCreate()
		return m.enterForm(), nil
	case "e":
		if t, ok := m.selected(); ok && !m.pending[t.ID] {
			m.form.OpenEdit(t)
			return m.enterForm(), nil
		}
	case "c":
		if t, ok := m.selected(); ok && !m.pending[t.ID] {
			m.target = &t
			m.mode = modeConfirmComplete
		}
	case "d":
		if t, ok := m.selected(); ok && !m.pending[t.ID] {
			m.target = &t
			m.mode = modeConfirmDelete
		}
	}
	return m, nil
}

// updateConfirm handles the modal. Cancel performs no network action.
func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.mode = modeList
		m.target = nil
		return m, nil
	case "y", "Y", "enter":
		if m.target == nil {
			m.mode = modeList
			return m, nil
		}
		t := *m.target
		m.pending[t.ID] = true
		m.target = nil
		complete := m.mode == modeConfirmComplete
		m.mode = modeList
		if complete {
			return m, m.completeCmd(t)
		}
		return m, m.deleteCmd(t)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.saving {
			return m, nil
		}
		m.form.Close()
		m.mode = modeList
		return m, nil
	case "tab", "down":
		m.field = (m.field + 1) % fieldCount
		return m.focusField(), nil
	case "shift+tab", "up":
		m.field = (m.field + fieldCount - 1) % fieldCount
		return m.focusField(), nil
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch m.field {
		case fieldStatus:
			m.status = (m.status + len(statusValues) + delta) % len(statusValues)
			return m, nil
		case fieldPriority:
			m.priority = (m.priority + len(priorityValues) + delta) % len(priorityValues)
			return m, nil
		}
	case "enter":
		if m.saving {
			return m, nil
		}
		m.syncDraft()
		if strings.TrimSpace(m.form.Draft.Title) == "" {
			// Silent no-op: the dialog stays open, nothing is sent.
			return m, nil
		}
		m.saving = true
		return m, m.submitCmd()
	}

	var cmd tea.Cmd
	switch m.field {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldDescription:
		m.desc, cmd = m.desc.Update(msg)
	case fieldDueDate:
		m.due, cmd = m.due.Update(msg)
	}
	return m, cmd
}

// enterForm seeds the input widgets from the controller's draft.
func (m Model) enterForm() Model {
	m.mode = modeForm
	m.field = fieldTitle
	m.saving = false

	m.title.SetValue(m.form.Draft.Title)
	m.desc.SetValue(m.form.Draft.Description)
	m.due.SetValue(m.form.Draft.DueDate)
	m.status = indexOfStatus(m.form.Draft.Status)
	m.priority = indexOfPriority(m.form.Draft.Priority)

	m.title.Focus()
	m.desc.Blur()
	m.due.Blur()
	return m
}

func (m Model) focusField() Model {
	m.title.Blur()
	m.desc.Blur()
	m.due.Blur()
	switch m.field {
	case fieldTitle:
		m.title.Focus()
	case fieldDescription:
		m.desc.Focus()
	case fieldDueDate:
		m.due.Focus()
	}
	return m
}

// syncDraft copies the widget values back onto the form draft.
func (m Model) syncDraft() {
	m.form.Draft.Title = m.title.Value()
	m.form.Draft.Description = m.desc.Value()
	m.form.Draft.DueDate = m.due.Value()
	m.form.Draft.Status = statusValues[m.status]
	m.form.Draft.Priority = priorityValues[m.priority]
}

func (m Model) selected() (model.Task, bool) {
	if len(m.state.Page.Content) == 0 || m.cursor >= len(m.state.Page.Content) {
		return model.Task{}, false
	}
	return m.state.Page.Content[m.cursor], true
}

func (m Model) loadCmd() tea.Cmd {
	list := m.list
	return func() tea.Msg {
		return pageLoadedMsg{state: list.Load(context.Background())}
	}
}

// markRefreshing flags an in-flight load. The previous page stays on
// screen; only the very first load shows a blank loading state.
func (m Model) markRefreshing() Model {
	m.loading = true
	if !m.state.InitialLoading && m.state.Err == nil {
		m.state.Refreshing = true
	}
	return m
}

func (m Model) submitCmd() tea.Cmd {
	form := m.form
	return func() tea.Msg {
		form.Submit(context.Background())
		return formDoneMsg{}
	}
}

func (m Model) completeCmd(t model.Task) tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		actions.Complete(context.Background(), t)
		return rowDoneMsg{taskID: t.ID}
	}
}

func (m Model) deleteCmd(t model.Task) tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		actions.Delete(context.Background(), t)
		return rowDoneMsg{taskID: t.ID}
	}
}

func (m Model) waitNotice() tea.Cmd {
	ch := m.hub.C()
	return func() tea.Msg {
		return noticeMsg(<-ch)
	}
}

func (m Model) refreshTick() tea.Cmd {
	return tea.Every(m.refreshEvery, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func indexOfStatus(s model.Status) int {
	for i, v := range statusValues {
		if v == s {
			return i
		}
	}
	return 0
}

func indexOfPriority(p model.Priority) int {
	for i, v := range priorityValues {
		if v == p {
			return i
		}
	}
	return 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
