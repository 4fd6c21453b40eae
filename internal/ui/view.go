package ui

import (
	"fmt"
	"strings"

	"tickmate/internal/model"
	"tickmate/internal/notify"
	"tickmate/internal/taskform"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("62")
	muted  = lipgloss.Color("241")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	helpStyle     = lipgloss.NewStyle().Foreground(muted)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	rowSubStyle   = lipgloss.NewStyle().Foreground(muted)
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	infoStyle     = lipgloss.NewStyle().Foreground(accent)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)

	badgeHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	badgeMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))
	badgeLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("TickMate"))
	b.WriteString("\n\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.viewForm())
	case modeConfirmComplete:
		b.WriteString(m.viewConfirm("Mark this task as completed?", "Once completed, it disappears from your task list."))
	case modeConfirmDelete:
		b.WriteString(m.viewConfirm("Delete this task?", "This action cannot be undone."))
	default:
		b.WriteString(m.viewList())
	}

	b.WriteString("\n")
	if m.hasNote {
		b.WriteString(renderNotice(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.viewHelp())
	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder

	switch {
	case m.state.InitialLoading:
		b.WriteString("Loading tasks...\n")
	case m.state.Err != nil:
		b.WriteString(errorStyle.Render("Could not load tasks."))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("Press 'r' to retry."))
		b.WriteString("\n")
	case len(m.state.Page.Content) == 0:
		b.WriteString("No tasks yet. Press 'a' to add one.\n")
	default:
		for i, t := range m.state.Page.Content {
			b.WriteString(m.renderRow(i, t))
		}
	}

	if m.state.Err == nil && !m.state.InitialLoading {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("Page %d/%d (%d tasks)",
			m.state.Page.Number+1, m.state.Page.TotalPages, m.state.Page.TotalElements)))
		if m.state.Refreshing && m.loading {
			b.WriteString(helpStyle.Render("  refreshing..."))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(i int, t model.Task) string {
	cursor := "  "
	line := t.Title
	if i == m.cursor {
		cursor = "> "
		line = selectedStyle.Render(line)
	}

	badge := renderPriority(t.Priority)
	status := rowSubStyle.Render(strings.ReplaceAll(string(t.Status), "_", " "))

	row := fmt.Sprintf("%s%s  %s %s", cursor, line, badge, status)
	if m.pending[t.ID] {
		row += rowSubStyle.Render("  working...")
	}
	row += "\n"

	if t.Description != "" {
		row += rowSubStyle.Render("    "+t.Description) + "\n"
	}
	if t.DueDate != "" {
		row += rowSubStyle.Render("    due "+datePart(t.DueDate)) + "\n"
	}
	return row
}

func (m Model) viewForm() string {
	var b strings.Builder

	heading := "Create New Task"
	action := "create"
	if m.form.Mode == taskform.ModeEdit {
		heading = "Edit Task"
		action = "update"
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")

	b.WriteString(m.renderField(fieldTitle, "Title", m.title.View()))
	b.WriteString(m.renderField(fieldDescription, "Description", m.desc.View()))
	b.WriteString(m.renderField(fieldStatus, "Status", cycleView(string(statusValues[m.status]))))
	b.WriteString(m.renderField(fieldPriority, "Priority", cycleView(string(priorityValues[m.priority]))))
	b.WriteString(m.renderField(fieldDueDate, "Due Date", m.due.View()))

	b.WriteString("\n")
	if m.saving {
		b.WriteString(infoStyle.Render("Saving..."))
	} else {
		b.WriteString(helpStyle.Render(fmt.Sprintf("enter to %s, esc to cancel", action)))
	}
	b.WriteString("\n")
	return boxStyle.Render(b.String()) + "\n"
}

func (m Model) renderField(f formField, label, value string) string {
	marker := "  "
	if m.field == f {
		marker = infoStyle.Render("> ")
	}
	return fmt.Sprintf("%s%-12s %s\n", marker, label, value)
}

func (m Model) viewConfirm(question, detail string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(question))
	b.WriteString("\n")
	if m.target != nil {
		b.WriteString(rowSubStyle.Render(m.target.Title))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(detail))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("y to confirm, n to cancel"))
	b.WriteString("\n")
	return boxStyle.Render(b.String()) + "\n"
}

func (m Model) viewHelp() string {
	switch m.mode {
	case modeForm, modeConfirmComplete, modeConfirmDelete:
		return ""
	}
	return helpStyle.Render("j/k move • h/l page • a add • e edit • c complete • d delete • r retry • q quit")
}

func renderNotice(n notify.Notification) string {
	switch n.Level {
	case notify.LevelError:
		return errorStyle.Render(n.Message)
	case notify.LevelSuccess:
		return successStyle.Render(n.Message)
	default:
		return infoStyle.Render(n.Message)
	}
}

func renderPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return badgeHigh.Render("HIGH")
	case model.PriorityLow:
		return badgeLow.Render("LOW")
	default:
		return badgeMedium.Render("MED")
	}
}

func cycleView(value string) string {
	return "< " + strings.ReplaceAll(value, "_", " ") + " >"
}

func datePart(iso string) string {
	if i := strings.IndexByte(iso, 'T'); i >= 0 {
		return iso[:i]
	}
	return iso
}
