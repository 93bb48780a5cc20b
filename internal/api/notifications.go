package api

import (
	"context"
	"net/http"
)

// MyNotifications returns the notifications of the signed-in user.
func (c *Client) MyNotifications(ctx context.Context) ([]Notification, error) {
	var out []Notification
	err := c.do(ctx, request{op: "list notifications", method: http.MethodGet, path: "notifications/my"}, &out)
	return out, err
}
