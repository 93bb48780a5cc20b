// Package list provides a scrolling list for feed-style pages (comments,
// notifications) whose rows do not fit a fixed-width table.
//
// Only the rows inside the viewport are rendered. The selection stays
// visible while moving with the arrow keys, j/k, pgup/pgdown and home/end.
package list
