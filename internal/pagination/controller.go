// Package pagination provides the generic fetch-more coordinator behind
// every infinite-scroll list in the app. A Controller accumulates pages
// from a query function, guarantees a single request in flight per query,
// and drops responses that resolve after the query was invalidated.
package pagination

import (
	"context"
	"sync"
)

// DefaultLimit is the page size used when the config leaves Limit unset.
const DefaultLimit = 20

// Page is the envelope one fetch returns.
type Page[T any] struct {
	Items      []T    `json:"items"`
	Page       int    `json:"page"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// Request describes the position of the next fetch. Cursor, when set,
// takes precedence over the page number on cursor-based backends.
type Request struct {
	Page   int
	Limit  int
	Cursor string
}

// QueryFn loads one page from the backing source.
type QueryFn[T any] func(ctx context.Context, req Request) (Page[T], error)

// State is the controller's position in its fetch lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoadingFirst
	StateLoadingNext
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingFirst:
		return "loading-first-page"
	case StateLoadingNext:
		return "loading-next-page"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Config configures a Controller.
type Config[T any] struct {
	QueryKey string
	QueryFn  QueryFn[T]
	Limit    int
}

// Controller coordinates paginated fetches for one query key. Items are
// appended in fetch order and never reordered or deduplicated; the source
// is trusted not to overlap pages.
type Controller[T any] struct {
	mu  sync.Mutex
	cfg Config[T]

	state      State
	items      []T
	nextPage   int
	nextCursor string
	hasMore    bool
	inFlight   bool
	gen        uint64
	err        error
}

// NewController creates a new Controller positioned before the first page.
func NewController[T any](cfg Config[T]) *Controller[T] {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &Controller[T]{
		cfg:      cfg,
		state:    StateIdle,
		nextPage: 1,
		hasMore:  true,
	}
}

// QueryKey returns the cache partition identity this controller serves.
func (c *Controller[T]) QueryKey() string {
	return c.cfg.QueryKey
}

// FetchNextPage loads the next page and appends its items. It is a strict
// no-op when there is nothing more to fetch or a fetch is already in
// flight, so a scroll-end burst issues exactly one request.
func (c *Controller[T]) FetchNextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	if len(c.items) == 0 {
		c.state = StateLoadingFirst
	} else {
		c.state = StateLoadingNext
	}
	gen := c.gen
	req := Request{Page: c.nextPage, Limit: c.cfg.Limit, Cursor: c.nextCursor}
	fn := c.cfg.QueryFn
	c.mu.Unlock()

	page, err := fn(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// Invalidated while in flight. The result is stale; whoever
		// invalidated already reset the fetch position.
		return nil
	}
	c.inFlight = false
	if err != nil {
		c.state = StateError
		c.err = err
		return err
	}

	c.err = nil
	c.items = append(c.items, page.Items...)
	c.hasMore = page.HasMore
	c.nextCursor = page.NextCursor
	if page.Page > 0 {
		c.nextPage = page.Page + 1
	} else {
		c.nextPage = req.Page + 1
	}
	c.state = StateReady
	return nil
}

// Invalidate drops every accumulated page and rewinds to page 1. A fetch
// already in flight keeps running but its result is discarded when it
// resolves.
func (c *Controller[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.items = nil
	c.nextPage = 1
	c.nextCursor = ""
	c.hasMore = true
	c.inFlight = false
	c.err = nil
	c.state = StateIdle
}

// Refetch invalidates and immediately loads the first page.
func (c *Controller[T]) Refetch(ctx context.Context) error {
	c.Invalidate()
	return c.FetchNextPage(ctx)
}

// Items returns the flat accumulated sequence, in fetch order.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// HasMore reports whether another page is available.
func (c *Controller[T]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// State returns the current lifecycle state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		if len(c.items) == 0 {
			return StateLoadingFirst
		}
		return StateLoadingNext
	}
	return c.state
}

// Err returns the failure from the most recent fetch, if it failed.
// A later successful fetch clears it.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
