package taskrow

import (
	"context"

	"tickmate/internal/model"
	"tickmate/internal/notify"
	"tickmate/internal/querycache"
)

// TaskMutator is the slice of the gateway the row actions need.
type TaskMutator interface {
	UpdateTask(ctx context.Context, id string, upd model.TaskUpdate) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Actions are the per-row mutations behind the confirm modals. The
// pending flags that disable a row's controls live with the row in the
// shell, keyed by task id; nothing here is shared between rows.
type Actions struct {
	gw       TaskMutator
	cache    *querycache.Cache
	notifier notify.Notifier
}

func New(gw TaskMutator, cache *querycache.Cache, notifier notify.Notifier) *Actions {
	return &Actions{gw: gw, cache: cache, notifier: notifier}
}

// Complete marks the task done. The payload is exactly title plus the
// new status: the backend PUT replaces fields, so the unchanged title
// rides along and nothing else is sent.
func (a *Actions) Complete(ctx context.Context, t model.Task) error {
	status := model.StatusCompleted
	upd := model.TaskUpdate{Title: &t.Title, Status: &status}

	err := a.cache.Mutate(ctx, func(ctx context.Context) error {
		_, uerr := a.gw.UpdateTask(ctx, t.ID, upd)
		return uerr
	})
	if err != nil {
		notify.Error(a.notifier, "Failed to complete the task. Please try again.")
		return err
	}

	a.cache.Invalidate("tasks")
	notify.Success(a.notifier, "Task has been completed!")
	return nil
}

func (a *Actions) Delete(ctx context.Context, t model.Task) error {
	err := a.cache.Mutate(ctx, func(ctx context.Context) error {
		return a.gw.DeleteTask(ctx, t.ID)
	})
	if err != nil {
		notify.Error(a.notifier, "Failed to delete the task. Please try again.")
		return err
	}

	a.cache.Invalidate("tasks")
	notify.Success(a.notifier, "Task has been deleted!")
	return nil
}
