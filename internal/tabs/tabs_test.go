package tabs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/insightdeck/internal/content"
	"github.com/rshade/insightdeck/internal/tabs"
)

func tabbed(labels ...string) *content.DetailContent {
	doc := &content.DetailContent{}
	for _, l := range labels {
		doc.Tabs = append(doc.Tabs, content.Tab{
			ID:      l,
			Label:   l,
			Content: content.Blocks{content.MarkdownBlock{Content: l}},
		})
	}
	return doc
}

func TestDocumentReplaceResetsTab(t *testing.T) {
	s := tabs.OnDocumentReplaced(tabs.State{}, tabbed("a", "b", "c"))
	s, ok := tabs.SelectTab(s, 2)
	require.True(t, ok)
	require.Equal(t, 2, s.ActiveTab)

	s = tabs.OnDocumentReplaced(s, tabbed("only"))
	assert.Equal(t, 0, s.ActiveTab)

	t.Run("even when the old index is still valid", func(t *testing.T) {
		s := tabs.OnDocumentReplaced(tabs.State{}, tabbed("a", "b", "c"))
		s, _ = tabs.SelectTab(s, 1)
		s = tabs.OnDocumentReplaced(s, tabbed("x", "y", "z"))
		assert.Equal(t, 0, s.ActiveTab)
	})
}

func TestSelectTab(t *testing.T) {
	s := tabs.OnDocumentReplaced(tabs.State{}, tabbed("a", "b"))

	tests := []struct {
		name   string
		index  int
		ok     bool
		active int
	}{
		{name: "in range", index: 1, ok: true, active: 1},
		{name: "negative is rejected", index: -1, ok: false, active: 0},
		{name: "past the end is rejected", index: 2, ok: false, active: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := tabs.SelectTab(s, tt.index)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.active, next.ActiveTab)
		})
	}

	_, ok := tabs.SelectTab(tabs.State{}, 0)
	assert.False(t, ok, "no document, no tabs")
}

func TestTabsUpdatedClamps(t *testing.T) {
	s := tabs.OnDocumentReplaced(tabs.State{}, tabbed("a", "b", "c"))
	s, _ = tabs.SelectTab(s, 1)

	s = tabs.OnTabsUpdated(s, tabbed("a", "b"))
	assert.Equal(t, 1, s.ActiveTab, "index still valid is kept")

	s, _ = tabs.SelectTab(s, 1)
	s = tabs.OnTabsUpdated(s, tabbed("a"))
	assert.Equal(t, 0, s.ActiveTab)
}

func TestCycleTabs(t *testing.T) {
	s := tabs.OnDocumentReplaced(tabs.State{}, tabbed("a", "b", "c"))
	s = tabs.PrevTab(s)
	assert.Equal(t, 2, s.ActiveTab)
	s = tabs.NextTab(s)
	assert.Equal(t, 0, s.ActiveTab)
	assert.Equal(t, []string{"a", "b", "c"}, s.TabLabels())
}

func TestCurrentBlocks(t *testing.T) {
	body := content.Blocks{content.MarkdownBlock{Content: "body"}}

	assert.Nil(t, tabs.CurrentBlocks(nil, 0))
	assert.Equal(t, []content.Block(body), tabs.CurrentBlocks(&content.DetailContent{Content: body}, 0))

	doc := tabbed("a", "b")
	doc.Content = body
	got := tabs.CurrentBlocks(doc, 1)
	require.Len(t, got, 1)
	assert.Equal(t, content.MarkdownBlock{Content: "b"}, got[0], "content is ignored when tabs exist")
	assert.Nil(t, tabs.CurrentBlocks(doc, 5))
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	s, tokenA := tabs.BeginFetch(tabs.State{}, "A")
	s, tokenB := tabs.BeginFetch(s, "B")

	s, applied := tabs.OnFetchResolved(s, tokenB, tabbed("from-b"))
	require.True(t, applied)

	s, applied = tabs.OnFetchResolved(s, tokenA, tabbed("from-a"))
	assert.False(t, applied)
	assert.Equal(t, "B", s.CardID)
	assert.Equal(t, []string{"from-b"}, s.TabLabels())
	assert.Equal(t, tabs.StatusLoaded, s.Status)

	s, applied = tabs.OnFetchFailed(s, tokenA, errors.New("late failure"))
	assert.False(t, applied)
	assert.NoError(t, s.Err)

	t.Run("refetching the same card supersedes the earlier request", func(t *testing.T) {
		s, first := tabs.BeginFetch(tabs.State{}, "A")
		s, second := tabs.BeginFetch(s, "A")
		_, applied := tabs.OnFetchResolved(s, first, tabbed("old"))
		assert.False(t, applied)
		_, applied = tabs.OnFetchResolved(s, second, tabbed("new"))
		assert.True(t, applied)
	})

	t.Run("closing invalidates in-flight fetches", func(t *testing.T) {
		s, tok := tabs.BeginFetch(tabs.State{}, "A")
		s = tabs.Close(s)
		_, applied := tabs.OnFetchResolved(s, tok, tabbed("late"))
		assert.False(t, applied)
	})
}

func TestFetchOutcomes(t *testing.T) {
	s, tok := tabs.BeginFetch(tabs.State{}, "A")
	assert.Equal(t, tabs.StatusLoading, s.Status)

	failed, ok := tabs.OnFetchFailed(s, tok, errors.New("timeout"))
	require.True(t, ok)
	assert.Equal(t, tabs.StatusFailed, failed.Status)
	assert.EqualError(t, failed.Err, "timeout")

	empty, ok := tabs.OnFetchResolved(s, tok, nil)
	require.True(t, ok)
	assert.Equal(t, tabs.StatusEmpty, empty.Status)
	assert.Nil(t, empty.Blocks())
}
