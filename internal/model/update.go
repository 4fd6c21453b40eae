package model

// TaskUpdate carries the fields a PUT sends. Unset pointers stay out
// of the payload entirely; a pointer to "" is sent as an empty string.
type TaskUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
}

// UpdateFromDraft maps the full edit draft onto an update payload.
// Every field is present, empty strings included, because the backend
// PUT replaces the task's mutable fields wholesale.
func UpdateFromDraft(d Draft) TaskUpdate {
	return TaskUpdate{
		Title:       &d.Title,
		Description: &d.Description,
		Status:      &d.Status,
		Priority:    &d.Priority,
		DueDate:     &d.DueDate,
	}
}
