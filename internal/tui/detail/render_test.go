package detail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/taskdeck/internal/listview"
)

func TestRender(t *testing.T) {
	rec := listview.Record{
		"id":          7,
		"title":       "Book venue",
		"status":      "PENDING",
		"description": nil,
		"zeta":        "last",
	}
	fields := []Field{
		{Name: "title", Label: "Title"},
		{Name: "status", Label: "Status"},
		{Name: "description", Label: "Description"},
	}

	out := Render("Task 7", rec, fields, 80)

	assert.Contains(t, out, "Task 7")
	assert.Contains(t, out, "Book venue")
	assert.Contains(t, out, "(none)")

	title := strings.Index(out, "Title")
	status := strings.Index(out, "Status")
	id := strings.Index(out, "id ")
	zeta := strings.Index(out, "zeta")
	assert.Less(t, title, status, "listed fields keep their order")
	assert.Less(t, status, id, "unlisted fields follow")
	assert.Less(t, id, zeta, "unlisted fields are alphabetical")
}

func TestRender_NarrowWidthStillRendersValues(t *testing.T) {
	out := Render("x", listview.Record{"content": "a fairly long comment body"}, nil, 5)
	assert.Contains(t, out, "comment")
}
