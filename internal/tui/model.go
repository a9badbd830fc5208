package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/glabrego/storyreel/internal/feed"
	"github.com/glabrego/storyreel/internal/tui/actions"
	tuiplatform "github.com/glabrego/storyreel/internal/tui/platform"
	"github.com/glabrego/storyreel/internal/tui/scroll"
	tuistate "github.com/glabrego/storyreel/internal/tui/state"
	tuitheme "github.com/glabrego/storyreel/internal/tui/theme"
	tuiview "github.com/glabrego/storyreel/internal/tui/view"
)

// PositionSaver persists the address bar path after each replace.
type PositionSaver = actions.PositionSaver

// AddressBar is the terminal stand-in for the browser location. Replacing the
// path never adds history.
type AddressBar struct {
	mu   sync.Mutex
	path string
}

func NewAddressBar(path string) *AddressBar {
	return &AddressBar{path: path}
}

func (a *AddressBar) CurrentPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

func (a *AddressBar) ReplacePath(path string) {
	a.mu.Lock()
	a.path = path
	a.mu.Unlock()
}

type Options struct {
	// FullDomain is shown when the feed has no stories.
	FullDomain string
	Saver      PositionSaver
	Logger     *log.Logger
}

type Model struct {
	session    *feed.Session
	address    *AddressBar
	saver      PositionSaver
	fullDomain string
	logger     *log.Logger

	viewport scroll.Viewport
	observer *scroll.Observer
	spinner  spinner.Model
	theme    tuitheme.Theme

	frameGen int
	banner   bool
	showHelp bool
	width    int
	height   int
	status   string
	statusID int
	err      error

	openURLFn func(string) error
}

// NewModel renders session. The viewport starts on the session's active
// story, which is the deep-linked one when it was found in the seed.
func NewModel(session *feed.Session, address *AddressBar, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	vp := scroll.NewViewport(tuistate.CardHeight(0, true), session.Store.Len())
	vp.JumpTo(session.Store.ActiveIndex())
	return Model{
		session:    session,
		address:    address,
		saver:      opts.Saver,
		fullDomain: opts.FullDomain,
		logger:     logger,
		viewport:   vp,
		observer:   scroll.NewObserver(feed.ActivationThreshold),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme:      tuitheme.Default(),
		openURLFn:  tuiplatform.OpenURLInBrowser,
	}
}

func (m Model) Init() tea.Cmd {
	gen := m.frameGen
	return func() tea.Msg { return actions.FrameMsg{Gen: gen} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetHeight(tuistate.CardHeight(m.height, true))
		return m, m.observe()
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, keys.Help) {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.showHelp {
			if key.Matches(msg, keys.Escape) {
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Next):
			return m.scrollTo(m.viewport.Target() + 1)
		case key.Matches(msg, keys.Prev):
			return m.scrollTo(m.viewport.Target() - 1)
		case key.Matches(msg, keys.First):
			m.viewport.JumpTo(0)
			return m, m.observe()
		case key.Matches(msg, keys.Last):
			m.viewport.JumpTo(m.viewport.Count() - 1)
			return m, m.observe()
		case key.Matches(msg, keys.Open):
			return m.openActiveMedia()
		}
		return m, nil
	case actions.FrameMsg:
		if msg.Gen != m.frameGen {
			return m, nil
		}
		animating := m.viewport.Step()
		cmd := m.observe()
		if animating {
			return m, tea.Batch(cmd, actions.FrameCmd(m.frameGen))
		}
		return m, cmd
	case actions.PageResultMsg:
		m.viewport.SetCount(m.session.Store.Len())
		cmds := []tea.Cmd{m.updateEnd()}
		if msg.Result.Outcome == feed.OutcomeAppended {
			m.status = fmt.Sprintf("Loaded %d more stories", msg.Result.Added)
			m.statusID++
			cmds = append(cmds, actions.ClearStatusCmd(m.statusID, 3*time.Second))
		}
		return m, tea.Batch(cmds...)
	case actions.BannerExpireMsg:
		if m.session.Notifier.Expire(msg.Gen) {
			m.banner = false
		}
		return m, nil
	case spinner.TickMsg:
		if !m.session.Loader.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case actions.PositionSaveErrorMsg:
		m.err = msg.Err
		return m, nil
	case actions.OpenURLSuccessMsg:
		m.err = nil
		m.status = msg.Status
		m.statusID++
		return m, actions.ClearStatusCmd(m.statusID, 3*time.Second)
	case actions.OpenURLErrorMsg:
		m.err = nil
		m.status = msg.Err.Error()
		m.statusID++
		return m, actions.ClearStatusCmd(m.statusID, 4*time.Second)
	case actions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) scrollTo(index int) (tea.Model, tea.Cmd) {
	if m.viewport.Count() == 0 {
		return m, nil
	}
	m.viewport.ScrollTo(index)
	if !m.viewport.Animating() {
		return m, nil
	}
	m.frameGen++
	return m, actions.FrameCmd(m.frameGen)
}

// observe reports visibility crossings to the session and turns the
// resulting activations into commands.
func (m *Model) observe() tea.Cmd {
	var cmds []tea.Cmd
	for _, v := range m.observer.Update(m.viewport) {
		act := m.session.Observe(v)
		if !act.Activated {
			continue
		}
		if act.Changed {
			m.logger.Debug("story activated", "index", act.Index, "slug", act.Item.Slug)
		}
		if act.PathReplaced && m.saver != nil {
			cmds = append(cmds, actions.SavePositionCmd(m.session.Context(), m.saver, act.Path))
		}
		if act.Pending != nil {
			cmds = append(cmds, actions.WaitPageCmd(act.Pending), m.spinner.Tick)
		}
	}
	cmds = append(cmds, m.updateEnd())
	return tea.Batch(cmds...)
}

func (m *Model) updateEnd() tea.Cmd {
	eff := m.session.UpdateEnd()
	m.banner = eff.Visible
	if eff.Timer == nil {
		return nil
	}
	return actions.BannerExpireCmd(eff.Timer.Gen, eff.Timer.After)
}

func (m Model) openActiveMedia() (tea.Model, tea.Cmd) {
	item, ok := m.session.Store.Active()
	if !ok {
		return m, nil
	}
	validURL, err := tuiplatform.ValidateMediaURL(item.MediaURL)
	if err != nil {
		m.err = nil
		m.status = err.Error()
		m.statusID++
		return m, actions.ClearStatusCmd(m.statusID, 4*time.Second)
	}
	return m, actions.OpenURLCmd(validURL, m.openURLFn)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(tuiview.Header(m.address.CurrentPath(), m.contentWidth(), m.theme))
	b.WriteString("\n")
	b.WriteString(tuiview.Toolbar(m.showHelp))
	b.WriteString("\n")

	snap := m.session.Store.Snapshot()
	switch {
	case m.showHelp:
		b.WriteString(m.helpView())
		b.WriteString("\n")
	case len(snap.Items) == 0:
		b.WriteString(tuiview.Unavailable(m.fullDomain, m.theme))
		b.WriteString("\n")
	default:
		b.WriteString(strings.Join(m.bodyLines(snap), "\n"))
		b.WriteString("\n")
		b.WriteString(m.statusLine())
		b.WriteString("\n")
		b.WriteString(tuiview.Progress(snap.ActiveIndex, len(snap.Items), m.contentWidth(), m.theme))
		b.WriteString("\n")
	}

	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(tuiview.Footer(snap.ActiveIndex, len(snap.Items), snap.Cursor, snap.Exhausted, m.theme))
	b.WriteString("\n")
	return b.String()
}

// bodyLines cuts the viewport's rows out of the cards it overlaps.
func (m Model) bodyLines(snap feed.Snapshot) []string {
	h := m.viewport.Height()
	first, last := m.viewport.Visible()
	lines := make([]string, 0, 2*h)
	for i := first; i <= last && i < len(snap.Items); i++ {
		lines = append(lines, tuiview.CardLines(tuiview.CardParams{
			Item:   snap.Items[i],
			Index:  i,
			Total:  len(snap.Items),
			Active: i == snap.ActiveIndex,
			Width:  m.contentWidth(),
			Height: h,
		}, m.theme)...)
	}
	skip := m.viewport.Offset() - first*h
	if skip > 0 && skip <= len(lines) {
		lines = lines[skip:]
	}
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return lines
}

func (m Model) statusLine() string {
	switch {
	case m.banner:
		return tuiview.Banner(m.theme)
	case m.session.Loader.Loading():
		return m.spinner.View() + " Loading more stories..."
	default:
		return ""
	}
}

func (m Model) messagePanel() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	return tuiview.Message(m.session.Loader.Loading(), m.err != nil, m.status, warning, m.theme)
}

func (m Model) helpView() string {
	lines := []string{"Keys:"}
	lines = append(lines, keys.helpLines()...)
	lines = append(lines,
		"Feed:",
		"  the story filling most of the screen is the one playing",
		"  more stories load as you approach the end",
	)
	return strings.Join(lines, "\n")
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}
