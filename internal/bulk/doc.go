// Package bulk runs many independent mutations concurrently, such as
// deleting a selection of tasks, and reports every failure once.
//
// Items run through an errgroup with a concurrency limit. A failing item
// does not stop the others; cancelling the context skips items that have
// not started. Callers re-fetch the affected page once after Run returns.
package bulk
