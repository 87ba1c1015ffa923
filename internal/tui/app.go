// Package tui provides the interactive Bubble Tea dashboard for budgetview.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/theirongolddev/budgetview/internal/budgetapi"
	"github.com/theirongolddev/budgetview/internal/host"
	"github.com/theirongolddev/budgetview/internal/panel"
	"github.com/theirongolddev/budgetview/internal/tui/components"
	"github.com/theirongolddev/budgetview/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	tabHome = iota
	tabAbout
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 120
)

// FetchedMsg carries a panel fetch result back onto the event loop.
type FetchedMsg struct {
	Result panel.FetchResult
}

// SavedMsg reports the outcome of writing the chart surfaces to disk.
type SavedMsg struct {
	Activation uint64
	Paths      []string
	Err        error
}

// Options configures the dashboard.
type Options struct {
	// Fetcher overrides the budget client built from APIURL.
	Fetcher    panel.Fetcher
	APIURL     string
	APITimeout time.Duration
	// ChartWidth and ChartHeight size both chart surfaces.
	ChartWidth  int
	ChartHeight int
	// OutputDir receives retained.png and declarative.svg on every Ready.
	// Empty disables writing.
	OutputDir string
	Logger    *slog.Logger
	// NeedSetup shows the first-run form before mounting the panel.
	NeedSetup bool
}

// App is the root Bubble Tea model.
type App struct {
	opts   Options
	ctx    context.Context
	host   *host.Host
	logger *slog.Logger

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	spinner spinner.Model

	// Last export of the current activation
	saved     []string
	saveErr   error
	fetchedAt time.Time

	// Fatal render error; the program quits and Err reports it.
	err error

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool
}

// NewApp creates a new TUI app model.
func NewApp(ctx context.Context, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	a := App{
		opts:      opts,
		ctx:       ctx,
		logger:    opts.Logger,
		spinner:   sp,
		needSetup: opts.NeedSetup,
		setupVals: &SetupValues{},
	}
	a.host = a.newHost()
	return a
}

func (a App) newHost() *host.Host {
	f := a.opts.Fetcher
	if f == nil {
		f = budgetapi.NewClient(a.opts.APIURL, a.opts.APITimeout)
	}
	w, h := a.opts.ChartWidth, a.opts.ChartHeight
	if w <= 0 || h <= 0 {
		w, h = 400, 400
	}
	return host.New(f, w, h, a.logger)
}

// Err returns the render error that stopped the dashboard, if any.
func (a App) Err() error { return a.err }

// Panel exposes the mounted panel.
func (a App) Panel() *panel.Panel { return a.host.Panel }

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.needSetup {
		// Init cannot return a modified model; Update installs the form
		// when it sees setupStartMsg.
		return tea.Batch(append(cmds, func() tea.Msg { return setupStartMsg{} })...)
	}
	return tea.Batch(append(cmds, a.mountHome())...)
}

type setupStartMsg struct{}

// mountHome activates the panel and returns the fetch and spinner commands.
func (a *App) mountHome() tea.Cmd {
	a.saved, a.saveErr = nil, nil
	op := a.host.Panel.Activate(a.ctx)
	a.logger.Info("home mounted", "activation", a.host.Panel.Activation())
	return tea.Batch(fetchCmd(op), a.spinner.Tick)
}

// unmountHome tears the panel down.
func (a *App) unmountHome() {
	a.host.Panel.Deactivate()
	a.logger.Info("home unmounted")
}

// switchTab changes tabs, unmounting or mounting the panel when Home is
// left or entered.
func (a App) switchTab(tab int) (App, tea.Cmd) {
	if tab == a.activeTab || tab < 0 || tab >= len(components.Tabs) {
		return a, nil
	}
	prev := a.activeTab
	a.activeTab = tab
	if prev == tabHome {
		a.unmountHome()
	}
	if tab == tabHome {
		return a, a.mountHome()
	}
	return a, nil
}

func (a App) quit() (tea.Model, tea.Cmd) {
	if a.activeTab == tabHome {
		a.unmountHome()
	}
	return a, tea.Quit
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case setupStartMsg:
		a.setupForm = newSetupForm(a.opts, a.setupVals)
		if a.width > 0 {
			a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
		}
		return a, a.setupForm.Init()

	case tea.MouseMsg:
		if a.needSetup || a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			return a.switchTab(components.TabAtX(a.activeTab, msg.X))
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a.quit()
		}

		// First-run setup intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a.quit()
		case "r":
			if a.activeTab == tabHome {
				if op := a.host.Panel.Retry(a.ctx); op != nil {
					return a, tea.Batch(fetchCmd(op), a.spinner.Tick)
				}
			}
			return a, nil
		case "left", "shift+tab":
			return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		case "right", "tab":
			return a.switchTab((a.activeTab + 1) % len(components.Tabs))
		}
		if len(msg.Runes) == 1 {
			return a.switchTab(components.TabIdxByKey(msg.Runes[0]))
		}
		return a, nil

	case FetchedMsg:
		if err := a.host.Panel.Commit(msg.Result); err != nil {
			a.logger.Error("chart render failed", "error", err)
			a.err = err
			return a.quit()
		}
		if a.host.Panel.State() != panel.Ready || msg.Result.Activation != a.host.Panel.Activation() {
			return a, nil
		}
		a.fetchedAt = time.Now()
		return a, a.exportCmd()

	case SavedMsg:
		if msg.Activation == a.host.Panel.Activation() {
			a.saved, a.saveErr = msg.Paths, msg.Err
			if msg.Err != nil {
				a.logger.Warn("writing charts failed", "error", msg.Err)
			}
		}
		return a, nil

	case spinner.TickMsg:
		if a.host.Panel.State() == panel.Loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

// exportCmd snapshots the surfaces on the loop and writes them off it.
func (a App) exportCmd() tea.Cmd {
	if a.opts.OutputDir == "" {
		return nil
	}
	activation := a.host.Panel.Activation()
	snap, err := a.host.Snapshot()
	if err != nil {
		return func() tea.Msg { return SavedMsg{Activation: activation, Err: err} }
	}
	dir := a.opts.OutputDir
	return func() tea.Msg {
		paths, err := snap.Write(dir)
		return SavedMsg{Activation: activation, Paths: paths, Err: err}
	}
}

func fetchCmd(op panel.FetchOp) tea.Cmd {
	return func() tea.Msg {
		return FetchedMsg{Result: op()}
	}
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.applySetup(); err != nil {
			a.logger.Warn("saving setup failed", "error", err)
		}
		a.needSetup = false
		a.setupForm = nil
		return a, a.mountHome()
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, a.mountHome()
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  budgetview needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewMain() string {
	cw := a.contentWidth()

	var body string
	switch a.activeTab {
	case tabHome:
		body = a.renderHomeTab(cw)
	case tabAbout:
		body = renderAboutTab(cw)
	}

	status := "api: " + a.apiLabel()
	if !a.fetchedAt.IsZero() && a.activeTab == tabHome {
		status += "  fetched " + a.fetchedAt.Format("15:04:05")
	}
	hints := "[?]help  [q]uit  [←/→]tabs"
	if a.activeTab == tabHome && a.host.Panel.State() == panel.Failed {
		hints += "  [r]etry"
	}

	content := components.RenderTabBar(a.activeTab) + "\n\n" + body
	if a.height > 0 {
		content = fitHeight(content, a.height-1)
	}
	return content + "\n" + components.RenderStatusBar(cw, hints, status)
}

func (a App) apiLabel() string {
	if c, ok := a.opts.Fetcher.(*budgetapi.Client); ok {
		return c.BaseURL()
	}
	if a.opts.Fetcher != nil {
		return "custom"
	}
	if a.opts.APIURL == "" {
		return budgetapi.DefaultBaseURL
	}
	return a.opts.APIURL
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	rows := []struct{ key, desc string }{
		{"h / a", "Home / About"},
		{"←/→ tab", "cycle tabs"},
		{"r", "retry a failed fetch"},
		{"click", "select a tab"},
		{"?", "toggle help"},
		{"q ctrl+c", "quit"},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-10s", r.key)))
		b.WriteString(descStyle.Render(r.desc))
		b.WriteString("\n")
	}
	return "\n" + components.ContentCard("Keys", strings.TrimRight(b.String(), "\n"), min(a.contentWidth(), 50))
}

// fitHeight truncates or pads s to exactly h lines.
func fitHeight(s string, h int) string {
	if h <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
