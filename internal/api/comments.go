package api

import (
	"context"
	"net/http"
)

// ListComments returns the comments of a task, stamping TaskID when the
// backend omits it.
func (c *Client) ListComments(ctx context.Context, taskID int64) ([]Comment, error) {
	if taskID <= 0 {
		return nil, invalid("taskId", "select a task")
	}
	var out []Comment
	if err := c.do(ctx, request{op: "list comments", method: http.MethodGet, path: "comments/" + idPath(taskID)}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].TaskID == 0 {
			out[i].TaskID = taskID
		}
	}
	return out, nil
}

// AddComment comments on a task.
func (c *Client) AddComment(ctx context.Context, taskID int64, in CommentInput) (Comment, error) {
	if taskID <= 0 {
		return Comment{}, invalid("taskId", "select a task")
	}
	if err := in.Validate(); err != nil {
		return Comment{}, err
	}
	var out Comment
	err := c.do(ctx, request{op: "add comment", method: http.MethodPost, path: "comments/" + idPath(taskID), body: in}, &out)
	return out, err
}

// UpdateComment edits a comment.
func (c *Client) UpdateComment(ctx context.Context, id int64, in CommentInput) (Comment, error) {
	if err := in.Validate(); err != nil {
		return Comment{}, err
	}
	var out Comment
	err := c.do(ctx, request{op: "update comment", method: http.MethodPut, path: "comments/update/" + idPath(id), body: in}, &out)
	return out, err
}

// DeleteComment deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.do(ctx, request{op: "delete comment", method: http.MethodDelete, path: "comments/delete/" + idPath(id)}, nil)
}

// MarkCommentRead marks a comment as read.
func (c *Client) MarkCommentRead(ctx context.Context, id int64) error {
	return c.do(ctx, request{op: "mark comment read", method: http.MethodPut, path: "comments/mark-read/" + idPath(id)}, nil)
}
