package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/cache"
	"github.com/rshade/taskdeck/internal/config"
	"github.com/rshade/taskdeck/internal/logging"
	"github.com/rshade/taskdeck/internal/pages"
	"github.com/rshade/taskdeck/internal/session"
)

// app bundles what one command invocation needs to reach the backend.
type app struct {
	cfg      *config.Config
	client   *api.Client
	sessions *session.Store
	sess     *session.Session
}

// newApp builds the API client from the active configuration. It does not
// read the session.
func newApp() (*app, error) {
	cfg := config.GetGlobalConfig()
	client, err := api.NewClient(api.Options{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            time.Duration(cfg.API.Timeout) * time.Second,
		InsecureSkipVerify: cfg.API.InsecureSkipVerify,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("api.base_url: %w", err)
	}
	path, err := config.GetSessionPath()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, client: client, sessions: session.NewStore(path)}, nil
}

// newSignedInApp is newApp plus the saved session, which authenticates every
// request.
func newSignedInApp() (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	sess, err := a.sessions.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, fmt.Errorf("%w: run `taskdeck login`", err)
		}
		return nil, err
	}
	if sess.Expired() {
		return nil, fmt.Errorf("%w: run `taskdeck login`", session.ErrExpired)
	}
	a.sess = sess
	a.client = a.client.WithTokens(sess)
	return a, nil
}

// cacheStore opens the response cache. A cache that cannot be opened is
// logged and treated as disabled.
func (a *app) cacheStore(ctx context.Context) *cache.FileStore {
	c := a.cfg.Cache
	store, err := cache.NewFileStore(c.Directory, c.Enabled, c.TTLSeconds, c.MaxSizeMB)
	if err != nil {
		logging.FromContext(ctx).Warn().Ctx(ctx).Err(err).Str("directory", c.Directory).Msg("response cache unavailable")
		return nil
	}
	return store
}

func (a *app) env(taskID int64) pages.Env {
	return pages.Env{Client: a.client, Session: a.sess, TaskID: taskID}
}

// openPage resolves name, checks the session may see it, applies the view
// overrides from the configuration and builds its controller.
func (a *app) openPage(ctx context.Context, name string, taskID int64) (*pages.Controller, error) {
	def, err := pages.Lookup(name)
	if err != nil {
		return nil, err
	}
	if !def.Visible(a.sess) {
		return nil, fmt.Errorf("%w: %s requires role %v", pages.ErrPageForbidden, def.Name, def.Roles)
	}
	if view, ok := a.cfg.View(def.Name); ok {
		if def, err = def.WithView(view); err != nil {
			return nil, err
		}
	}
	return pages.NewController(def, a.env(taskID), a.cacheStore(ctx))
}

// username returns the signed-in user for audit entries.
func (a *app) username() string {
	if a.sess == nil {
		return ""
	}
	return a.sess.Username
}

// commandPath returns the command path without the binary name, e.g.
// "tasks delete".
func commandPath(cmd *cobra.Command) string {
	path := cmd.CommandPath()
	if root := cmd.Root(); root != nil && len(path) > len(root.Name()) {
		return path[len(root.Name())+1:]
	}
	return path
}
