package session

import (
	"context"

	"github.com/rshade/taskdeck/internal/api"
	"github.com/rshade/taskdeck/internal/logging"
)

// Login authenticates with the backend, saves the session and returns it.
func Login(ctx context.Context, client *api.Client, store *Store, creds api.Credentials) (*Session, error) {
	logger := logging.FromContext(ctx)

	result, err := client.Login(ctx, creds)
	if err != nil {
		logger.Debug().Ctx(ctx).
			Str("component", "session").
			Str("username", creds.Username).
			Err(err).
			Msg("login failed")
		return nil, err
	}

	sess := New(result)
	if err = store.Save(sess); err != nil {
		return nil, err
	}

	ev := logger.Info().Ctx(ctx).
		Str("component", "session").
		Str("username", sess.Username).
		Str("role", sess.Role)
	logging.SafeStr(ev, "token", sess.AccessToken).Msg("logged in")
	return sess, nil
}

// Logout forgets the saved session.
func Logout(ctx context.Context, store *Store) error {
	if err := store.Clear(); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Ctx(ctx).Str("component", "session").Msg("logged out")
	return nil
}
