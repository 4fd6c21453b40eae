package taskform

import (
	"context"
	"strings"
	"time"

	"tickmate/internal/model"
	"tickmate/internal/notify"
	"tickmate/internal/querycache"
)

// Mode is fixed when the form opens and never changes while it is up,
// no matter how the draft is edited afterwards.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// TaskWriter is the slice of the gateway the form needs.
type TaskWriter interface {
	CreateTask(ctx context.Context, draft model.Draft) (model.Task, error)
	UpdateTask(ctx context.Context, id string, upd model.TaskUpdate) (model.Task, error)
}

// Form owns the create/edit dialog state: one draft, a mode bound at
// open time, and the open/pending flags the shell renders from.
type Form struct {
	gw       TaskWriter
	cache    *querycache.Cache
	notifier notify.Notifier

	Mode    Mode
	TaskID  string
	Draft   model.Draft
	Open    bool
	Pending bool
}

func New(gw TaskWriter, cache *querycache.Cache, notifier notify.Notifier) *Form {
	return &Form{
		gw:       gw,
		cache:    cache,
		notifier: notifier,
		Draft:    model.DefaultDraft(),
	}
}

func (f *Form) OpenCreate() {
	f.Mode = ModeCreate
	f.TaskID = ""
	f.Draft = model.DefaultDraft()
	f.Open = true
	f.Pending = false
}

func (f *Form) OpenEdit(t model.Task) {
	f.Mode = ModeEdit
	f.TaskID = t.ID
	f.Draft = model.DraftFromTask(t)
	f.Open = true
	f.Pending = false
}

// Close discards the draft without any network action.
func (f *Form) Close() {
	f.Open = false
	f.Pending = false
}

// Submit sends the draft. A whitespace-only title is a silent no-op:
// the dialog stays open and nothing is called. On success the dialog
// closes (create mode also resets the draft) and the list cache is
// invalidated; on failure the draft survives untouched for a retry.
func (f *Form) Submit(ctx context.Context) error {
	if strings.TrimSpace(f.Draft.Title) == "" {
		return nil
	}

	payload := f.Draft
	payload.DueDate = toInstant(payload.DueDate)

	f.Pending = true
	var err error
	if f.Mode == ModeEdit {
		err = f.cache.Mutate(ctx, func(ctx context.Context) error {
			_, uerr := f.gw.UpdateTask(ctx, f.TaskID, model.UpdateFromDraft(payload))
			return uerr
		})
	} else {
		err = f.cache.Mutate(ctx, func(ctx context.Context) error {
			_, cerr := f.gw.CreateTask(ctx, payload)
			return cerr
		})
	}
	f.Pending = false

	if err != nil {
		if f.Mode == ModeEdit {
			notify.Error(f.notifier, "Failed to update the task. Please try again.")
		} else {
			notify.Error(f.notifier, "Failed to create the task. Please try again.")
		}
		return err
	}

	f.Open = false
	if f.Mode == ModeEdit {
		notify.Success(f.notifier, "Task has been updated!")
	} else {
		f.Draft = model.DefaultDraft()
		notify.Success(f.notifier, "Task has been created!")
	}
	f.cache.Invalidate("tasks")
	return nil
}

// toInstant turns the form's plain date into a full ISO-8601 instant.
// An empty date stays empty on the wire.
func toInstant(date string) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.UTC().Format(time.RFC3339)
}
