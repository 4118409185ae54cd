package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/insightdeck/internal/config"
	"github.com/rshade/insightdeck/internal/content"
	"github.com/rshade/insightdeck/internal/engine"
	"github.com/rshade/insightdeck/internal/source"
	"github.com/rshade/insightdeck/internal/tui/detail"
)

type deckFunc func(ctx context.Context) ([]content.CardInstance, error)

func (f deckFunc) Cards(ctx context.Context) ([]content.CardInstance, error) {
	return f(ctx)
}

var testCards = []content.CardInstance{
	{ID: "rev", Data: map[string]any{"title": "Revenue"}},
	{ID: "churn", Data: map[string]any{"title": "Churn"}},
}

func newTestModel(t *testing.T, changes <-chan source.Change) Model {
	t.Helper()
	fetch := source.FetcherFunc(func(_ context.Context, id string) (*content.DetailContent, error) {
		return &content.DetailContent{Content: content.Blocks{
			content.MarkdownBlock{Content: "details for " + id},
		}}, nil
	})
	eng, err := engine.New(config.New(), fetch, zerolog.Nop())
	require.NoError(t, err)
	deck := deckFunc(func(context.Context) ([]content.CardInstance, error) {
		return testCards, nil
	})
	m := New(context.Background(), eng, deck, Options{Style: "notty", Changes: changes})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return updated.(Model)
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case keyEnter:
		return tea.KeyMsg{Type: tea.KeyEnter}
	case keyEsc:
		return tea.KeyMsg{Type: tea.KeyEsc}
	case keyCtrlC:
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func loaded(t *testing.T, m Model) Model {
	t.Helper()
	loadedMsg, ok := find[CardsLoadedMsg](collect(m.loadCards()))
	require.True(t, ok)
	m, _ = apply(t, m, loadedMsg)
	return m
}

func TestDeckLoads(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Equal(t, ViewStateLoading, m.State())
	assert.Contains(t, m.View(), "Loading deck")

	m = loaded(t, m)
	assert.Equal(t, ViewStateList, m.State())
	view := m.View()
	assert.Contains(t, view, "2 cards")
	assert.Contains(t, view, "Revenue")
	assert.Contains(t, view, "Churn")
}

func TestDeckLoadError(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := apply(t, m, CardsLoadedMsg{Err: errors.New("no deck")})
	assert.Equal(t, ViewStateError, m.State())
	require.Error(t, m.Err())
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "no deck")
}

func TestOpenAndCloseDetail(t *testing.T) {
	m := loaded(t, newTestModel(t, nil))
	m, _ = apply(t, m, key("down"))

	m, cmd := apply(t, m, key(keyEnter))
	require.Equal(t, ViewStateDetail, m.State())
	assert.Equal(t, "churn", m.detail.Card().ID)

	fetchedMsg, ok := find[detail.FetchedMsg](collect(cmd))
	require.True(t, ok)
	m, _ = apply(t, m, fetchedMsg)
	assert.Contains(t, m.View(), "details for churn")

	m, _ = apply(t, m, key(keyEsc))
	assert.Equal(t, ViewStateList, m.State())
	assert.Empty(t, m.detail.State().CardID)
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{keyQuit, keyCtrlC} {
		t.Run(k, func(t *testing.T) {
			m := loaded(t, newTestModel(t, nil))
			m, cmd := apply(t, m, key(k))
			assert.Equal(t, ViewStateQuitting, m.State())
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestSourceChanges(t *testing.T) {
	changes := make(chan source.Change)
	close(changes)

	t.Run("deck change reloads cards", func(t *testing.T) {
		m := loaded(t, newTestModel(t, changes))
		_, cmd := apply(t, m, SourceChangedMsg{Change: source.Change{Deck: true}})
		_, ok := find[CardsLoadedMsg](collect(cmd))
		assert.True(t, ok)
	})

	t.Run("detail change refetches the open card", func(t *testing.T) {
		m := loaded(t, newTestModel(t, changes))
		m, _ = apply(t, m, key(keyEnter))
		_, cmd := apply(t, m, SourceChangedMsg{Change: source.Change{CardID: "rev"}})
		fetchedMsg, ok := find[detail.FetchedMsg](collect(cmd))
		require.True(t, ok)
		assert.Equal(t, "rev", fetchedMsg.Token.CardID)
	})

	t.Run("closed watcher stops waiting", func(t *testing.T) {
		m := newTestModel(t, changes)
		assert.Empty(t, collect(m.waitForChange()))
	})
}

func TestViewStateString(t *testing.T) {
	assert.Equal(t, "detail", ViewStateDetail.String())
	assert.Equal(t, "unknown", ViewState(42).String())
}
