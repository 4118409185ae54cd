package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rshade/insightdeck/internal/content"
	"github.com/rshade/insightdeck/internal/engine"
	"github.com/rshade/insightdeck/internal/render"
	"github.com/rshade/insightdeck/internal/source"
	listview "github.com/rshade/insightdeck/internal/tui/list"
	"github.com/rshade/insightdeck/internal/tui/detail"
)

// DeckSource loads the card deck.
type DeckSource interface {
	Cards(ctx context.Context) ([]content.CardInstance, error)
}

// CardsLoadedMsg carries a loaded deck.
type CardsLoadedMsg struct {
	Cards []content.CardInstance
	Err   error
}

// SourceChangedMsg carries a change reported by the deck watcher.
type SourceChangedMsg struct {
	Change source.Change
}

// Options configures the browser.
type Options struct {
	// Style is the glamour style used for markdown.
	Style string
	// Changes, when set, delivers deck directory changes.
	Changes <-chan source.Change
}

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	rowStyle      = lipgloss.NewStyle().PaddingLeft(2)
)

// Model is the top-level Bubble Tea model of the browser.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type Model struct {
	ctx     context.Context
	engine  *engine.Engine
	deck    DeckSource
	changes <-chan source.Change
	logger  zerolog.Logger

	state   ViewState
	list    *listview.Model[content.CardInstance]
	detail  detail.Model
	loading spinner.Model
	printer *render.TextPrinter
	style   string

	width  int
	height int
	err    error
}

// New creates the browser model.
func New(ctx context.Context, eng *engine.Engine, deck DeckSource, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	m := Model{
		ctx:     ctx,
		engine:  eng,
		deck:    deck,
		changes: opts.Changes,
		logger:  *zerolog.Ctx(ctx),
		state:   ViewStateLoading,
		detail:  detail.New(ctx, eng, opts.Style),
		loading: s,
		printer: render.NewTextPrinter(defaultWidth, opts.Style),
		style:   opts.Style,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.list = listview.New(nil, m.listHeight(), m.renderRow)
	return m
}

// State returns the current screen.
func (m Model) State() ViewState {
	return m.state
}

// Err returns the error that stopped the browser, if any.
func (m Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loading.Tick, m.loadCards(), m.waitForChange())
}

func (m Model) loadCards() tea.Cmd {
	deck, ctx := m.deck, m.ctx
	return func() tea.Msg {
		cards, err := deck.Cards(ctx)
		return CardsLoadedMsg{Cards: cards, Err: err}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return SourceChangedMsg{Change: change}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetHeight(m.listHeight())
		m.printer = render.NewTextPrinter(msg.Width, m.style)
		return m.forwardDetail(msg)
	case CardsLoadedMsg:
		return m.handleCardsLoaded(msg)
	case SourceChangedMsg:
		return m.handleSourceChanged(msg)
	case detail.FetchedMsg, detail.ModuleReadyMsg:
		return m.forwardDetail(msg)
	case spinner.TickMsg:
		if m.state == ViewStateLoading {
			var cmd tea.Cmd
			m.loading, cmd = m.loading.Update(msg)
			return m, cmd
		}
		return m.forwardDetail(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleCardsLoaded(msg CardsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = ViewStateError
		return m, tea.Quit
	}
	m.list.SetItems(msg.Cards)
	if m.state == ViewStateLoading {
		m.state = ViewStateList
	}
	return m, nil
}

func (m Model) handleSourceChanged(msg SourceChangedMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug().
		Ctx(m.ctx).
		Str("component", "tui").
		Str("operation", "watch").
		Str("path", msg.Change.Path).
		Msg("deck source changed")

	cmds := []tea.Cmd{m.waitForChange()}
	if msg.Change.Deck {
		cmds = append(cmds, m.loadCards())
	}
	if msg.Change.CardID != "" {
		var cmd tea.Cmd
		var updated tea.Model
		updated, cmd = m.detail.Update(detail.DocumentChangedMsg{CardID: msg.Change.CardID})
		m.detail = updated.(detail.Model)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) forwardDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.detail.Update(msg)
	m.detail = updated.(detail.Model)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyCtrlC, keyQuit:
		m.state = ViewStateQuitting
		return m, tea.Quit
	}

	switch m.state {
	case ViewStateList:
		if msg.String() == keyEnter {
			card, ok := m.list.Selected()
			if !ok {
				return m, nil
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Open(card)
			m.state = ViewStateDetail
			return m, cmd
		}
		m.list.HandleKey(msg)
		return m, nil
	case ViewStateDetail:
		switch msg.String() {
		case keyEsc, keyBackspace:
			m.detail = m.detail.Close()
			m.state = ViewStateList
			return m, nil
		}
		return m.forwardDetail(msg)
	case ViewStateLoading, ViewStateQuitting, ViewStateError:
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) listHeight() int {
	return max(m.height/listShare-2, 3)
}

func (m Model) renderRow(card content.CardInstance, selected bool) string {
	key := "summary"
	if res, err := m.engine.Dispatcher.Resolve(card); err == nil {
		key = res.Key
	}
	line := fmt.Sprintf("%s  %s", card.Title(), render.SubtleStyle.Render(key))
	if selected {
		return selectedStyle.Render("▸ ") + line
	}
	return rowStyle.Render(line)
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.state {
	case ViewStateLoading:
		return m.loading.View() + " Loading deck..."
	case ViewStateError:
		return render.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case ViewStateDetail:
		return m.detail.View()
	case ViewStateQuitting:
		return ""
	}

	var b strings.Builder
	b.WriteString(render.HeaderStyle.Render(fmt.Sprintf("insightdeck • %d cards", m.list.Len())))
	b.WriteString("\n\n")
	b.WriteString(m.list.View())
	if card, ok := m.list.Selected(); ok {
		preview := m.engine.RenderDeck(m.ctx, []content.CardInstance{card})
		b.WriteString("\n\n")
		b.WriteString(m.printer.Print(preview.Node))
	}
	b.WriteString("\n" + render.SubtleStyle.Render("↑/↓ select • enter open • q quit"))
	return b.String()
}
