package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one row. selected is true for the cursor row.
type RenderFunc[T any] func(item T, selected bool) string

// Model is a scrolling list of T.
type Model[T any] struct {
	items  []T
	render RenderFunc[T]

	cursor int
	offset int
	height int
}

// New returns a list showing height rows at a time.
func New[T any](items []T, height int, render RenderFunc[T]) *Model[T] {
	m := &Model[T]{items: items, render: render, height: max(height, 1)}
	m.scroll()
	return m
}

// SetItems replaces the items. The cursor keeps its index, clamped to the new
// length.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.Select(m.cursor)
}

// SetHeight changes the number of visible rows.
func (m *Model[T]) SetHeight(height int) {
	m.height = max(height, 1)
	m.scroll()
}

// Len returns the number of items.
func (m *Model[T]) Len() int {
	return len(m.items)
}

// Cursor returns the selected index.
func (m *Model[T]) Cursor() int {
	return m.cursor
}

// Offset returns the index of the first visible row.
func (m *Model[T]) Offset() int {
	return m.offset
}

// Selected returns the selected item, or false when the list is empty.
func (m *Model[T]) Selected() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.cursor], true
}

// Select moves the cursor to i, clamped to the list.
func (m *Model[T]) Select(i int) {
	switch {
	case len(m.items) == 0 || i < 0:
		m.cursor = 0
	case i >= len(m.items):
		m.cursor = len(m.items) - 1
	default:
		m.cursor = i
	}
	m.scroll()
}

// HandleKey applies a navigation key and reports whether it was consumed.
func (m *Model[T]) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		m.Select(m.cursor - 1)
	case "down", "j":
		m.Select(m.cursor + 1)
	case "pgup":
		m.Select(m.cursor - m.height)
	case "pgdown":
		m.Select(m.cursor + m.height)
	case "home", "g":
		m.Select(0)
	case "end", "G":
		m.Select(len(m.items) - 1)
	default:
		return false
	}
	return true
}

// scroll moves the window the minimum distance that keeps the cursor visible.
func (m *Model[T]) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if limit := max(len(m.items)-m.height, 0); m.offset > limit {
		m.offset = limit
	}
}

// View renders the visible rows.
func (m *Model[T]) View() string {
	end := min(m.offset+m.height, len(m.items))
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.render(m.items[i], i == m.cursor))
	}
	return strings.Join(rows, "\n")
}
