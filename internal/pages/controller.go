package pages

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/cache"
	"github.com/rshade/taskdeck/internal/listview"
	"github.com/rshade/taskdeck/internal/logging"
)

// LoadResult describes how a fetch completion affected the page.
type LoadResult struct {
	// Applied is false when the completion was discarded (superseded or
	// detached).
	Applied bool
	// FromCache is true when the records came from the response cache after
	// the fetch failed.
	FromCache bool
	// Age is how old the cached records are.
	Age time.Duration
}

// Mutation is one change made through a page.
type Mutation struct {
	// Name is the audit command name, e.g. "tasks delete".
	Name   string
	Target int64
	Params map[string]string
	Run    func(ctx context.Context, client *api.Client) error
}

// Controller runs the fetch and mutation cycles of one page against its
// listview.State. It is safe for concurrent use.
type Controller struct {
	def   Definition
	env   Env
	state *listview.State
	store *cache.FileStore

	mu        sync.Mutex
	cancel    context.CancelFunc
	cancelGen uint64
}

// NewController builds the page state for def. store may be nil.
func NewController(def Definition, env Env, store *cache.FileStore) (*Controller, error) {
	if err := def.CheckEnv(env); err != nil {
		return nil, err
	}
	state, err := listview.NewState(def.Options())
	if err != nil {
		return nil, err
	}
	return &Controller{def: def, env: env, state: state, store: store}, nil
}

// Definition returns the page definition.
func (c *Controller) Definition() Definition { return c.def }

// State returns the page state.
func (c *Controller) State() *listview.State { return c.state }

// Env returns the fetch environment.
func (c *Controller) Env() Env { return c.env }

// Begin starts a fetch generation and returns it with a context that is
// cancelled when the generation completes, a newer fetch begins or the page
// detaches.
func (c *Controller) Begin(ctx context.Context) (uint64, context.Context) {
	return c.start(ctx, c.state.BeginFetch)
}

func (c *Controller) start(ctx context.Context, next func() uint64) (uint64, context.Context) {
	fetchCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	gen := next()
	c.cancel = cancel
	c.cancelGen = gen
	c.mu.Unlock()
	return gen, fetchCtx
}

// release cancels the context of generation gen once it has completed. A
// newer generation keeps its context.
func (c *Controller) release(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil && c.cancelGen == gen {
		c.cancel()
		c.cancel = nil
	}
}

// Fetch loads the page's source records. It does not touch the state.
func (c *Controller) Fetch(ctx context.Context) ([]listview.Record, error) {
	return c.def.Fetch(ctx, c.env)
}

// Complete applies the outcome of fetch generation gen. A FetchError on a
// page that has never loaded falls back to the cached snapshot, if any.
// Errors of discarded generations are swallowed.
func (c *Controller) Complete(ctx context.Context, gen uint64, records []listview.Record, fetchErr error) (LoadResult, error) {
	defer c.release(gen)
	log := logging.FromContext(ctx).With().Str("page", c.def.Name).Uint64("generation", gen).Logger()

	if fetchErr == nil {
		if !c.state.OnDataLoaded(gen, records) {
			log.Debug().Ctx(ctx).Msg("discarding superseded fetch result")
			return LoadResult{}, nil
		}
		view := c.state.View()
		log.Debug().Ctx(ctx).
			Int("source", len(records)).
			Int("filtered", view.TotalFiltered).
			Int("visible", len(view.Visible)).
			Int("page", view.CurrentPage).
			Int("total_pages", view.TotalPages).
			Msg("page loaded")
		c.remember(ctx, records)
		return LoadResult{Applied: true}, nil
	}

	if !c.state.OnFetchFailed(gen) {
		log.Debug().Ctx(ctx).Err(fetchErr).Msg("discarding superseded fetch failure")
		return LoadResult{}, nil
	}
	if !errors.Is(fetchErr, api.ErrFetch) || c.state.Loaded() || !c.store.IsEnabled() {
		return LoadResult{}, fetchErr
	}

	cached, entry, err := cache.Lookup[[]listview.Record](c.store, c.def.CacheKey(c.env), true)
	if err != nil {
		return LoadResult{}, fetchErr
	}
	if !c.state.OnDataLoaded(gen, cached) {
		return LoadResult{}, nil
	}
	log.Warn().Ctx(ctx).
		Err(fetchErr).
		Str("cached_age", cache.FormatAge(entry.Age())).
		Msg("fetch failed, showing cached records")
	return LoadResult{Applied: true, FromCache: true, Age: entry.Age()}, nil
}

func (c *Controller) remember(ctx context.Context, records []listview.Record) {
	if !c.store.IsEnabled() {
		return
	}
	if err := cache.Put(c.store, c.def.CacheKey(c.env), records); err != nil {
		logging.FromContext(ctx).Debug().Ctx(ctx).Err(err).Str("page", c.def.Name).Msg("caching page records failed")
	}
}

// Load fetches and applies the page records.
func (c *Controller) Load(ctx context.Context) (LoadResult, error) {
	gen, fetchCtx := c.Begin(ctx)
	records, err := c.Fetch(fetchCtx)
	return c.Complete(ctx, gen, records, err)
}

// Mutate runs m, writes an audit entry and, on success, re-fetches the page.
// A failed mutation leaves the page untouched.
func (c *Controller) Mutate(ctx context.Context, m Mutation) (LoadResult, error) {
	if err := c.Apply(ctx, m); err != nil {
		return LoadResult{}, err
	}
	return c.Refresh(ctx)
}

// Apply runs m and writes its audit entry without re-fetching.
func (c *Controller) Apply(ctx context.Context, m Mutation) error {
	start := time.Now()
	err := m.Run(ctx, c.env.Client)

	var username string
	if c.env.Session != nil {
		username = c.env.Session.Username
	}
	entry := logging.NewAuditEntry(m.Name, username).WithParams(m.Params)
	if m.Target != 0 {
		entry = entry.WithTarget(strconv.FormatInt(m.Target, 10))
	}
	logging.AuditLoggerFromContext(ctx).Log(ctx, entry.WithResult(err, time.Since(start)))

	if err != nil {
		logging.FromContext(ctx).Debug().Ctx(ctx).Err(err).Str("mutation", m.Name).Msg("mutation failed")
	}
	return err
}

// BeginRefresh starts the fetch generation that follows a completed
// mutation. See Begin.
func (c *Controller) BeginRefresh(ctx context.Context) (uint64, context.Context) {
	return c.start(ctx, c.state.OnMutationCompleted)
}

// Refresh re-fetches after a completed mutation.
func (c *Controller) Refresh(ctx context.Context) (LoadResult, error) {
	gen, fetchCtx := c.BeginRefresh(ctx)
	records, err := c.Fetch(fetchCtx)
	return c.Complete(ctx, gen, records, err)
}

// Detach cancels in-flight work. Later completions are ignored.
func (c *Controller) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Detach()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
