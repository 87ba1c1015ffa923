package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/budgetview/internal/config"
	"github.com/theirongolddev/budgetview/internal/host"
	"github.com/theirongolddev/budgetview/internal/model"
	"github.com/theirongolddev/budgetview/internal/panel"
	"github.com/theirongolddev/budgetview/internal/testutil"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type stubFetcher struct {
	ds    *model.BudgetDataset
	err   error
	calls int
}

func (f *stubFetcher) FetchBudget(context.Context) (*model.BudgetDataset, error) {
	f.calls++
	return f.ds, f.err
}

func foodRent(t *testing.T) *model.BudgetDataset {
	t.Helper()
	ds, err := model.NewDataset([]model.BudgetSlice{
		{Title: "Food", Budget: 300},
		{Title: "Rent", Budget: 700},
	})
	require.NoError(t, err)
	return ds
}

func newTestApp(t *testing.T, f panel.Fetcher, outDir string) App {
	t.Helper()
	a := NewApp(context.Background(), Options{
		Fetcher:     f,
		ChartWidth:  200,
		ChartHeight: 160,
		OutputDir:   outDir,
		Logger:      testutil.NewTestLogger(t),
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return m.(App)
}

// runCmd executes cmd, flattening batches, and returns every message produced.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func fetched(t *testing.T, msgs []tea.Msg) FetchedMsg {
	t.Helper()
	for _, m := range msgs {
		if fm, ok := m.(FetchedMsg); ok {
			return fm
		}
	}
	require.FailNow(t, "no FetchedMsg produced")
	return FetchedMsg{}
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	app, ok := m.(App)
	require.True(t, ok)
	return app, cmd
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestHomeMountFetchesRendersAndExports(t *testing.T) {
	f := &stubFetcher{ds: foodRent(t)}
	out := filepath.Join(t.TempDir(), "charts")
	a := newTestApp(t, f, out)

	msgs := runCmd(a.Init())
	assert.Equal(t, panel.Loading, a.Panel().State())
	assert.Contains(t, a.View(), "Loading budget")

	a, cmd := update(t, a, fetched(t, msgs))
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, panel.Ready, a.Panel().State())
	require.NotNil(t, cmd, "a ready panel exports its surfaces")

	for _, m := range runCmd(cmd) {
		a, _ = update(t, a, m)
	}
	require.NoError(t, a.saveErr)
	assert.Equal(t, []string{filepath.Join(out, host.RetainedFile), filepath.Join(out, host.DeclarativeFile)}, a.saved)
	for _, p := range a.saved {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}

	view := a.View()
	assert.Contains(t, view, "Distribution")
	assert.Contains(t, view, "Food")
	assert.Contains(t, view, "Rent")
	assert.Contains(t, view, "1,000")
}

func TestLeavingHomeDropsLateResult(t *testing.T) {
	f := &stubFetcher{ds: foodRent(t)}
	a := newTestApp(t, f, "")

	late := fetched(t, runCmd(a.Init()))
	a, _ = update(t, a, keyPress('a'))
	assert.Equal(t, tabAbout, a.activeTab)
	assert.Equal(t, panel.Inactive, a.Panel().State())

	a, cmd := update(t, a, late)
	assert.Nil(t, cmd)
	assert.Equal(t, panel.Inactive, a.Panel().State())
	assert.Nil(t, a.host.Retained.Handle())
	assert.Empty(t, a.host.Vector.Nodes())
	assert.Contains(t, a.View(), "Stay on track")
}

func TestReturningHomeStartsNewActivation(t *testing.T) {
	f := &stubFetcher{ds: foodRent(t)}
	a := newTestApp(t, f, "")

	first := fetched(t, runCmd(a.Init()))
	a, _ = update(t, a, keyPress('a'))
	a, cmd := update(t, a, keyPress('h'))
	second := fetched(t, runCmd(cmd))
	assert.Greater(t, second.Result.Activation, first.Result.Activation)

	a, _ = update(t, a, first)
	assert.Equal(t, panel.Loading, a.Panel().State(), "superseded result ignored")
	a, _ = update(t, a, second)
	assert.Equal(t, panel.Ready, a.Panel().State())
	assert.Equal(t, 1, a.host.Retained.Renders())
}

func TestMouseClickSelectsTab(t *testing.T) {
	a := newTestApp(t, &stubFetcher{ds: foodRent(t)}, "")
	runCmd(a.Init())

	// " Home  [A]bout": About starts at column 7.
	a, _ = update(t, a, tea.MouseMsg{X: 8, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, tabAbout, a.activeTab)
	assert.Equal(t, panel.Inactive, a.Panel().State())
}

func TestRetryAfterFailure(t *testing.T) {
	f := &stubFetcher{err: errors.New("connection refused")}
	a := newTestApp(t, f, "")

	a, _ = update(t, a, fetched(t, runCmd(a.Init())))
	assert.Equal(t, panel.Failed, a.Panel().State())
	view := a.View()
	assert.Contains(t, view, "Could not load budget")
	assert.Contains(t, view, "connection refused")
	assert.Nil(t, a.host.Retained.Handle(), "a failed fetch renders nothing")

	f.err, f.ds = nil, foodRent(t)
	a, cmd := update(t, a, keyPress('r'))
	assert.Equal(t, panel.Loading, a.Panel().State())
	a, _ = update(t, a, fetched(t, runCmd(cmd)))
	assert.Equal(t, panel.Ready, a.Panel().State())
	assert.Equal(t, 2, f.calls)

	_, cmd = update(t, a, keyPress('r'))
	assert.Nil(t, cmd, "retry only applies to a failed panel")
}

func TestQuitTearsDownPanel(t *testing.T) {
	a := newTestApp(t, &stubFetcher{ds: foodRent(t)}, "")
	a, _ = update(t, a, fetched(t, runCmd(a.Init())))
	require.NotNil(t, a.host.Retained.Handle())

	a, cmd := update(t, a, keyPress('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, panel.Inactive, a.Panel().State())
	assert.False(t, a.host.Bitmap.Bound())
}

func TestEmptyBudgetShowsNotice(t *testing.T) {
	ds, err := model.NewDataset(nil)
	require.NoError(t, err)
	a := newTestApp(t, &stubFetcher{ds: ds}, "")

	a, _ = update(t, a, fetched(t, runCmd(a.Init())))
	assert.Equal(t, panel.Ready, a.Panel().State())
	assert.Contains(t, a.View(), "No budget data")
}

func TestSetupRunsBeforeMount(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	f := &stubFetcher{ds: foodRent(t)}
	a := NewApp(context.Background(), Options{Fetcher: f, NeedSetup: true})

	msgs := runCmd(a.Init())
	assert.Contains(t, msgs, tea.Msg(setupStartMsg{}))
	assert.Equal(t, panel.Inactive, a.Panel().State())
	assert.Zero(t, f.calls)

	a, _ = update(t, a, setupStartMsg{})
	require.NotNil(t, a.setupForm)
}

func TestNarrowTerminal(t *testing.T) {
	a := newTestApp(t, &stubFetcher{ds: foodRent(t)}, "")
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 40, Height: 20})
	assert.Contains(t, a.View(), "Terminal too narrow")
}

func TestValidateAPIURL(t *testing.T) {
	assert.NoError(t, ValidateAPIURL(""))
	assert.NoError(t, ValidateAPIURL("http://localhost:4000"))
	assert.NoError(t, ValidateAPIURL("https://budget.example.com/api"))
	assert.Error(t, ValidateAPIURL("localhost:4000"))
	assert.Error(t, ValidateAPIURL("ftp://host"))
	assert.Error(t, ValidateAPIURL("http://"))
}

func TestSetupValuesApply(t *testing.T) {
	vals := &SetupValues{APIURL: " http://budget.local:9000/ ", OutputDir: " /tmp/charts ", Theme: "tokyo-night"}
	c := config.DefaultConfig()
	vals.Apply(&c)
	assert.Equal(t, "http://budget.local:9000", c.API.BaseURL)
	assert.Equal(t, "/tmp/charts", c.General.OutputDir)
	assert.Equal(t, "tokyo-night", c.Appearance.Theme)
}
