// Package tabs holds the detail-view controller state: which card is open,
// which tab is active, and whether its document is loading. State is a value;
// every transition is a pure function returning the next State.
package tabs

import (
	"github.com/rshade/insightdeck/internal/content"
)

// Status is the fetch status of the open card.
type Status int

// Fetch statuses.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	// StatusEmpty means the fetch returned no document; the card summary is
	// shown instead.
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Token identifies one fetch. A result is applied only while its token is
// still current.
type Token struct {
	Generation uint64
	CardID     string
}

// State is the detail-view controller state.
type State struct {
	CardID    string
	ActiveTab int
	Status    Status
	Doc       *content.DetailContent
	Err       error

	generation uint64
}

// Generation returns the generation of the current fetch.
func (s State) Generation() uint64 {
	return s.generation
}

// Current reports whether t belongs to the latest fetch.
func (s State) Current(t Token) bool {
	return t.Generation == s.generation && t.CardID == s.CardID
}

// BeginFetch targets cardID and starts a new fetch generation, invalidating
// any fetch still in flight. The previous document is kept until the new
// result arrives only when the card is unchanged.
func BeginFetch(s State, cardID string) (State, Token) {
	s.generation++
	if s.CardID != cardID {
		s.Doc = nil
		s.ActiveTab = 0
	}
	s.CardID = cardID
	s.Status = StatusLoading
	s.Err = nil
	return s, Token{Generation: s.generation, CardID: cardID}
}

// OnFetchResolved applies a fetched document. A stale token leaves the state
// unchanged and reports false.
func OnFetchResolved(s State, t Token, doc *content.DetailContent) (State, bool) {
	if !s.Current(t) {
		return s, false
	}
	s.Err = nil
	if doc == nil {
		s.Doc = nil
		s.ActiveTab = 0
		s.Status = StatusEmpty
		return s, true
	}
	s = OnDocumentReplaced(s, doc)
	s.Status = StatusLoaded
	return s, true
}

// OnFetchFailed records a fetch error. A stale token leaves the state
// unchanged and reports false.
func OnFetchFailed(s State, t Token, err error) (State, bool) {
	if !s.Current(t) {
		return s, false
	}
	s.Status = StatusFailed
	s.Err = err
	return s, true
}

// OnDocumentReplaced installs a fresh document. A new document always starts
// at the first tab.
func OnDocumentReplaced(s State, doc *content.DetailContent) State {
	s.Doc = doc
	s.ActiveTab = 0
	return s
}

// OnTabsUpdated installs doc as an update of the open document rather than a
// replacement. The active tab is kept unless it no longer exists, in which
// case it is clamped to the first tab.
//
// It is for hosts that patch the open document's tab set in place. Nothing in
// this module does that: fetches, including watcher refetches, resolve
// through OnFetchResolved and always replace the document.
func OnTabsUpdated(s State, doc *content.DetailContent) State {
	s.Doc = doc
	if s.ActiveTab >= doc.TabCount() {
		s.ActiveTab = 0
	}
	return s
}

// SelectTab activates tab i. Out of range indexes are rejected and leave the
// state unchanged.
func SelectTab(s State, i int) (State, bool) {
	if i < 0 || i >= s.Doc.TabCount() {
		return s, false
	}
	s.ActiveTab = i
	return s, true
}

// NextTab selects the next tab, wrapping to the first.
func NextTab(s State) State {
	n := s.Doc.TabCount()
	if n == 0 {
		return s
	}
	s.ActiveTab = (s.ActiveTab + 1) % n
	return s
}

// PrevTab selects the previous tab, wrapping to the last.
func PrevTab(s State) State {
	n := s.Doc.TabCount()
	if n == 0 {
		return s
	}
	s.ActiveTab = (s.ActiveTab - 1 + n) % n
	return s
}

// Close forgets the open card. Fetches still in flight become stale.
func Close(s State) State {
	return State{generation: s.generation + 1}
}

// CurrentBlocks returns the visible blocks: the active tab's content for a
// tabbed document, otherwise the document body. A nil document has none.
func CurrentBlocks(doc *content.DetailContent, activeTab int) []content.Block {
	if doc == nil {
		return nil
	}
	if doc.HasTabs() {
		if activeTab < 0 || activeTab >= len(doc.Tabs) {
			return nil
		}
		return doc.Tabs[activeTab].Content
	}
	return doc.Content
}

// Blocks returns the visible blocks of s.
func (s State) Blocks() []content.Block {
	return CurrentBlocks(s.Doc, s.ActiveTab)
}

// TabLabels returns the tab labels of the open document.
func (s State) TabLabels() []string {
	if !s.Doc.HasTabs() {
		return nil
	}
	labels := make([]string, len(s.Doc.Tabs))
	for i, t := range s.Doc.Tabs {
		labels[i] = t.Label
		if labels[i] == "" {
			labels[i] = t.ID
		}
	}
	return labels
}
