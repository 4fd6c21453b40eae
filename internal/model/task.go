package model

import "strings"

type Status string
type Priority string

const StatusPending Status = "PENDING"
const StatusInProgress Status = "IN_PROGRESS"
const StatusCompleted Status = "COMPLETED"

const PriorityLow Priority = "LOW"
const PriorityMedium Priority = "MEDIUM"
const PriorityHigh Priority = "HIGH"

// Task is the wire shape served by the TickMate backend. Id and the
// timestamps are server-assigned; the client never writes them.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"dueDate"`
	CompletedAt string   `json:"completedAt,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// TaskPage is one slice of the task collection plus pagination
// metadata, as produced by the backend. Replaced on every read, never
// mutated in place.
type TaskPage struct {
	Content          []Task `json:"content"`
	Number           int    `json:"number"`
	Size             int    `json:"size"`
	NumberOfElements int    `json:"numberOfElements"`
	TotalElements    int64  `json:"totalElements"`
	TotalPages       int    `json:"totalPages"`
	First            bool   `json:"first"`
	Last             bool   `json:"last"`
	Empty            bool   `json:"empty"`
}

// Draft is the client-only form state behind the create/edit dialog.
// DueDate holds a plain YYYY-MM-DD string until submission converts it.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"dueDate"`
}

func DefaultDraft() Draft {
	return Draft{
		Status:   StatusPending,
		Priority: PriorityMedium,
	}
}

// DraftFromTask seeds an edit draft from an existing task. The stored
// due date is a full ISO instant; the form edits only the date part.
func DraftFromTask(t Task) Draft {
	due := t.DueDate
	if i := strings.IndexByte(due, 'T'); i >= 0 {
		due = due[:i]
	}
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     due,
	}
}
