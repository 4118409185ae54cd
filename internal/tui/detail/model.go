package detail

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rshade/insightdeck/internal/boundary"
	"github.com/rshade/insightdeck/internal/content"
	"github.com/rshade/insightdeck/internal/modules"
	"github.com/rshade/insightdeck/internal/render"
	"github.com/rshade/insightdeck/internal/tabs"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// chromeHeight is the rows taken by the header, tab bar and help line.
	chromeHeight = 4
)

// Engine is what the detail view needs from the rendering pipeline.
type Engine interface {
	Fetch(ctx context.Context, cardID string) (*content.DetailContent, error)
	RenderView(ctx context.Context, card content.CardInstance, state tabs.State, set *boundary.Set) render.Outcome
	Resolve(ctx context.Context, name string) *modules.Future
}

// FetchedMsg carries the result of a detail fetch.
type FetchedMsg struct {
	Token tabs.Token
	Doc   *content.DetailContent
	Err   error
}

// ModuleReadyMsg is sent when a chart module the view was waiting for settles.
type ModuleReadyMsg struct {
	Name string
}

// DocumentChangedMsg asks the view to refetch because the card's document
// changed at its source.
type DocumentChangedMsg struct {
	CardID string
}

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("39"))
)

// Model is the Bubble Tea model of one detail view.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type Model struct {
	ctx     context.Context
	engine  Engine
	printer *render.TextPrinter
	logger  zerolog.Logger

	card    content.CardInstance
	state   tabs.State
	set     *boundary.Set
	waiting map[string]bool

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
	style    string
}

// New returns a detail view with nothing open. style is a glamour style name.
func New(ctx context.Context, eng Engine, style string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	m := Model{
		ctx:      ctx,
		engine:   eng,
		logger:   *zerolog.Ctx(ctx),
		spinner:  s,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		width:    defaultWidth,
		height:   defaultHeight,
		style:    style,
		set:      boundary.NewSet(),
		waiting:  make(map[string]bool),
	}
	m.printer = render.NewTextPrinter(m.width, style)
	return m
}

// Open starts loading card, superseding anything already open or loading.
func (m Model) Open(card content.CardInstance) (Model, tea.Cmd) {
	m.card = card
	m.viewport.SetContent("")
	return m.fetch()
}

// Close forgets the open card. Fetches still in flight are dropped when they
// arrive.
func (m Model) Close() Model {
	m.state = tabs.Close(m.state)
	m.card = content.CardInstance{}
	m.set = boundary.NewSet()
	return m
}

// Card returns the open card.
func (m Model) Card() content.CardInstance {
	return m.card
}

// State returns the controller state.
func (m Model) State() tabs.State {
	return m.state
}

// Body returns the rendered body text.
func (m Model) Body() string {
	return m.viewport.View()
}

func (m Model) fetch() (Model, tea.Cmd) {
	var token tabs.Token
	m.state, token = tabs.BeginFetch(m.state, m.card.ID)
	eng, ctx := m.engine, m.ctx
	fetchCmd := func() tea.Msg {
		doc, err := eng.Fetch(ctx, token.CardID)
		return FetchedMsg{Token: token, Doc: doc, Err: err}
	}
	return m, tea.Batch(m.spinner.Tick, fetchCmd)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.printer = render.NewTextPrinter(msg.Width, m.style)
		return m.rerender()
	case FetchedMsg:
		return m.handleFetched(msg)
	case ModuleReadyMsg:
		delete(m.waiting, msg.Name)
		return m.rerender()
	case DocumentChangedMsg:
		if msg.CardID != m.card.ID || m.card.ID == "" {
			return m, nil
		}
		return m.fetch()
	case spinner.TickMsg:
		if m.state.Status != tabs.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleFetched(msg FetchedMsg) (tea.Model, tea.Cmd) {
	var applied bool
	if msg.Err != nil {
		m.state, applied = tabs.OnFetchFailed(m.state, msg.Token, msg.Err)
	} else {
		m.state, applied = tabs.OnFetchResolved(m.state, msg.Token, msg.Doc)
	}
	if !applied {
		m.logger.Debug().
			Ctx(m.ctx).
			Str("component", "detail").
			Str("operation", "fetch").
			Str("card_id", msg.Token.CardID).
			Uint64("generation", msg.Token.Generation).
			Msg("discarding stale fetch result")
		return m, nil
	}
	if msg.Err != nil {
		m.logger.Warn().Ctx(m.ctx).Str("component", "detail").Str("card_id", m.card.ID).
			Err(msg.Err).Msg("detail fetch failed")
	}
	// A fresh document starts with fresh boundaries.
	m.set = boundary.NewSet()
	m.waiting = make(map[string]bool)
	return m.rerender()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "tab", "right", "l":
		m.state = tabs.NextTab(m.state)
		return m.rerender()
	case "shift+tab", "left", "h":
		m.state = tabs.PrevTab(m.state)
		return m.rerender()
	case "r":
		if m.state.Status == tabs.StatusFailed {
			return m.fetch()
		}
		return m, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		var ok bool
		if m.state, ok = tabs.SelectTab(m.state, n-1); ok {
			return m.rerender()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// rerender renders the current state into the viewport and starts waiting
// for any chart module that is still loading.
func (m Model) rerender() (Model, tea.Cmd) {
	if m.state.Status == tabs.StatusIdle || m.state.Status == tabs.StatusLoading {
		return m, nil
	}
	out := m.engine.RenderView(m.ctx, m.card, m.state, m.set)
	m.viewport.SetContent(m.printer.Print(out.Node))

	var cmds []tea.Cmd
	for _, name := range out.Pending {
		if m.waiting[name] {
			continue
		}
		m.waiting[name] = true
		cmds = append(cmds, m.waitFor(name))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) waitFor(name string) tea.Cmd {
	fut := m.engine.Resolve(m.ctx, name)
	ctx := m.ctx
	return func() tea.Msg {
		_, _ = fut.Wait(ctx)
		return ModuleReadyMsg{Name: name}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(render.HeaderStyle.Render(m.card.Title()))
	b.WriteString("\n")
	if labels := m.state.TabLabels(); len(labels) > 0 {
		b.WriteString(m.tabBar(labels))
		b.WriteString("\n")
	}

	switch m.state.Status {
	case tabs.StatusLoading:
		b.WriteString(m.spinner.View() + " Loading details...")
	case tabs.StatusFailed:
		b.WriteString(m.viewport.View())
		b.WriteString("\n" + render.SubtleStyle.Render(fmt.Sprintf("%v", m.state.Err)))
	default:
		b.WriteString(m.viewport.View())
	}

	b.WriteString("\n" + render.SubtleStyle.Render(m.help()))
	return b.String()
}

func (m Model) tabBar(labels []string) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		style := tabStyle
		if i == m.state.ActiveTab {
			style = activeTabStyle
		}
		parts[i] = style.Render(fmt.Sprintf("%d %s", i+1, l))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) help() string {
	help := []string{"esc back", "↑/↓ scroll"}
	if m.state.Doc.TabCount() > 1 {
		help = append(help, "tab/1-9 switch tab")
	}
	if m.state.Status == tabs.StatusFailed {
		help = append(help, "r retry")
	}
	return strings.Join(help, " • ")
}
