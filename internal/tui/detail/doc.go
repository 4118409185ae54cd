// Package detail provides the lazily loaded detail view of a card.
//
// Opening a card starts an asynchronous fetch of its detail document and shows
// a loading state immediately. Each fetch carries a generation token, so a
// slow response for a card the user has already left is dropped rather than
// replacing the current view. Fetch failures render inline with a retry key
// ('r'). Chart modules that are still loading render as placeholders; the view
// waits for each in the background and re-renders when it is ready.
package detail
