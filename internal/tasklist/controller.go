package tasklist

import (
	"context"
	"fmt"
	"sync"

	"tickmate/internal/model"
	"tickmate/internal/notify"
	"tickmate/internal/querycache"
)

const keyPrefix = "tasks"

// PageLister is the slice of the gateway the list controller needs.
type PageLister interface {
	ListPage(ctx context.Context, page, size int) (model.TaskPage, error)
	BaseURL() string
}

// State is what the presentation shell renders from.
type State struct {
	Page model.TaskPage
	// InitialLoading: nothing has ever loaded and a fetch is running.
	InitialLoading bool
	// Refreshing: data is on screen while a newer fetch runs.
	Refreshing bool
	// Err is set only when there is no fallback data to show instead.
	Err error
	// Corrected reports that this load walked back from an empty page.
	Corrected bool
}

// Controller owns the pagination cursor. The page index only moves
// through Next/Prev or the empty-page correction in Load. Safe for
// concurrent use: the shell's startup load, refresh tick and
// post-mutation reloads can overlap, so Load calls are serialized.
type Controller struct {
	gw       PageLister
	cache    *querycache.Cache
	notifier notify.Notifier

	mu   sync.Mutex
	page int
	size int

	hasData  bool
	lastPage model.TaskPage
}

func New(gw PageLister, cache *querycache.Cache, notifier notify.Notifier, pageSize int) *Controller {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Controller{
		gw:       gw,
		cache:    cache,
		notifier: notifier,
		size:     pageSize,
	}
}

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) PageSize() int {
	return c.size
}

// Key distinguishes cached pages by page, size, filter and backend
// location, so a changed base URL never serves stale entries.
func (c *Controller) Key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key()
}

func (c *Controller) key() string {
	return fmt.Sprintf("%s|%s|status=active|page=%d|size=%d", keyPrefix, c.gw.BaseURL(), c.page, c.size)
}

// Load fetches the current page through the cache and applies the
// stale-page correction: a settled empty page beyond page 0 walks the
// cursor back exactly one step and says so. Page 0 never corrects, so
// repeated empty observations terminate there.
func (c *Controller) Load(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, err := c.fetch(ctx)
	if err != nil {
		if c.hasData {
			// Keep showing what we had; the next tick retries anyway.
			return State{Page: c.lastPage, Refreshing: false}
		}
		return State{Err: err}
	}

	corrected := false
	if len(page.Content) == 0 && c.page > 0 {
		c.page--
		corrected = true
		notify.Info(c.notifier, "Reached the end of the list, going back a page.")
		if next, nerr := c.fetch(ctx); nerr == nil {
			page = next
		}
	}

	page = clampTotals(page)
	if c.page > page.TotalPages-1 {
		c.page = page.TotalPages - 1
	}

	c.hasData = true
	c.lastPage = page
	return State{Page: page, Corrected: corrected}
}

// Loading reports the in-flight shape of the view before Load settles.
func (c *Controller) Loading() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasData {
		return State{InitialLoading: true}
	}
	return State{Page: c.lastPage, Refreshing: true}
}

// Next is a no-op until the first page has landed.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasData || c.page >= c.lastPage.TotalPages-1 {
		return
	}
	c.page++
}

func (c *Controller) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page > 0 {
		c.page--
	}
}

// Retry drops the current key's freshness so the next Load refetches.
func (c *Controller) Retry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Invalidate(c.key())
}

func (c *Controller) fetch(ctx context.Context) (model.TaskPage, error) {
	v, err := c.cache.Fetch(ctx, c.key(), func(ctx context.Context) (any, error) {
		return c.gw.ListPage(ctx, c.page, c.size)
	})
	if err != nil {
		return model.TaskPage{}, err
	}
	return v.(model.TaskPage), nil
}

// clampTotals keeps pagination controls non-degenerate: a backend that
// reports zero pages still renders as page 1 of 1.
func clampTotals(p model.TaskPage) model.TaskPage {
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	return p
}
