package api

import (
	"context"
	"net/http"
)

// ListCategories returns every category.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.do(ctx, request{op: "list categories", method: http.MethodGet, path: "categories/list-categories"}, &out)
	return out, err
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	if err := in.Validate(); err != nil {
		return Category{}, err
	}
	var out Category
	err := c.do(ctx, request{
		op:     "create category",
		method: http.MethodPost,
		path:   "categories/create-categories",
		body:   in,
	}, &out)
	return out, err
}
