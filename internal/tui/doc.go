// Package tui implements the interactive deck browser. The deck view lists
// cards with a live preview of the selected card; enter opens its detail view
// (package detail) and esc returns to the deck. When the deck directory is
// watched, a changed deck reloads the list and a changed detail document
// refreshes the open view.
package tui
