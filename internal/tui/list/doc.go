// Package listview provides a scrolling list component for Bubble Tea views.
//
// Only the rows inside the window are rendered, so long decks stay cheap to
// draw. The list supports arrow, vim-style, page and home/end navigation, and
// keeps the selection in range when its items are replaced.
package listview
