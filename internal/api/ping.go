package api

import (
	"context"
	"errors"
	"net/http"
)

// Ping checks that the backend answers HTTP. Any response counts, including
// an authorization refusal; only transport failures and server errors are
// returned.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, request{
		op:     "ping",
		method: http.MethodGet,
		path:   "categories/list-categories",
		anon:   true,
	}, nil)
	if err == nil || errors.Is(err, ErrUnauthorized) {
		return nil
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) && fetchErr.Status > 0 && fetchErr.Status < http.StatusInternalServerError {
		return nil
	}
	return err
}
