package source_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rshade/insightdeck/internal/content"
	"github.com/rshade/insightdeck/internal/source"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func newDeck(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cards.yaml"), `
- id: rev
  componentName: IndustryStackCard
  data:
    title: Revenue
- id: churn
  type: trend
`)
	writeFile(t, filepath.Join(root, "details", "rev.json"),
		`{"tabs":[{"id":"a","label":"Overview","content":[{"type":"markdown","content":"**Hi**"}]}]}`)
	writeFile(t, filepath.Join(root, "details", "empty.json"), `null`)
	return root
}

func TestDirCards(t *testing.T) {
	dir := source.NewDir(newDeck(t))

	cards, err := dir.Cards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "IndustryStackCard", cards[0].ComponentName)
	assert.Equal(t, "Revenue", cards[0].Title())
	assert.Equal(t, "trend", cards[1].Type)

	_, err = source.NewDir(t.TempDir()).Cards(context.Background())
	assert.ErrorIs(t, err, source.ErrNoDeck)
}

func TestDirGetCardDetail(t *testing.T) {
	dir := source.NewDir(newDeck(t))
	ctx := context.Background()

	doc, err := dir.GetCardDetail(ctx, "rev")
	require.NoError(t, err)
	require.True(t, doc.HasTabs())
	assert.Equal(t, content.Blocks{content.MarkdownBlock{Content: "**Hi**"}}, doc.Tabs[0].Content)

	tests := []struct {
		name string
		id   string
	}{
		{name: "missing file has no detail", id: "churn"},
		{name: "null document has no detail", id: "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := dir.GetCardDetail(ctx, tt.id)
			require.NoError(t, err)
			assert.Nil(t, doc)
		})
	}

	for _, id := range []string{"", "..", "../cards", "a/b"} {
		_, err := dir.GetCardDetail(ctx, id)
		assert.ErrorIs(t, err, source.ErrUnknownDocument, "id %q", id)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = dir.GetCardDetail(cancelled, "rev")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcherFunc(t *testing.T) {
	want := &content.DetailContent{}
	f := source.FetcherFunc(func(_ context.Context, id string) (*content.DetailContent, error) {
		assert.Equal(t, "x", id)
		return want, nil
	})
	got, err := f.GetCardDetail(context.Background(), "x")
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestWatchReportsDetailChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := newDeck(t)
	w, err := source.NewDir(root).Watch(context.Background(), 20*time.Millisecond)
	require.NoError(t, err)
	defer func() { require.NoError(t, w.Close()) }()

	writeFile(t, filepath.Join(root, "details", "rev.json"), `{"content":[]}`)
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")

	select {
	case change := <-w.Changes():
		assert.Equal(t, "rev", change.CardID)
		assert.False(t, change.Deck)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
