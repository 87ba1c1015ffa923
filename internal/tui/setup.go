package tui

import (
	"errors"
	"net/url"
	"strings"

	"github.com/theirongolddev/budgetview/internal/budgetapi"
	"github.com/theirongolddev/budgetview/internal/config"
	"github.com/theirongolddev/budgetview/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the first-run form answers. The form writes through
// pointers, so App keeps it behind a pointer that survives model copies.
type SetupValues struct {
	APIURL    string
	OutputDir string
	Theme     string
	Confirm   bool
}

// NewSetupForm builds the first-run form over vals. It is shared by the
// dashboard and `budgetview setup`.
func NewSetupForm(vals *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budgetview").
				Description("A budget pie chart, rendered two ways.\nLet's point it at your budget server."),
			huh.NewInput().
				Title("Budget API URL").
				Description("GET <url>/budget must return {\"myBudget\": [...]}").
				Placeholder(budgetapi.DefaultBaseURL).
				Validate(ValidateAPIURL).
				Value(&vals.APIURL),
			huh.NewInput().
				Title("Chart output directory").
				Description("retained.png and declarative.svg are written here. Leave blank for the default.").
				Placeholder(config.OutputDir(config.DefaultConfig())).
				Value(&vals.OutputDir),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.Theme),
			huh.NewConfirm().
				Title("Save to " + config.ConfigPath() + "?").
				Affirmative("Save").
				Negative("This session only").
				Value(&vals.Confirm),
		),
	).WithShowHelp(true)
}

// SetupValuesFrom seeds form answers from cfg.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		APIURL:    cfg.API.BaseURL,
		OutputDir: cfg.General.OutputDir,
		Theme:     theme.ByName(cfg.Appearance.Theme).Name,
		Confirm:   true,
	}
}

// Apply copies the answers onto cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	if u := strings.TrimRight(strings.TrimSpace(v.APIURL), "/"); u != "" {
		cfg.API.BaseURL = u
	}
	cfg.General.OutputDir = strings.TrimSpace(v.OutputDir)
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
}

// ValidateAPIURL accepts an empty string (keep the default) or an absolute
// http(s) URL.
func ValidateAPIURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func newSetupForm(opts Options, vals *SetupValues) *huh.Form {
	if vals.APIURL == "" {
		vals.APIURL = opts.APIURL
	}
	if vals.OutputDir == "" {
		vals.OutputDir = opts.OutputDir
	}
	if vals.Theme == "" {
		vals.Theme = theme.Active.Name
	}
	vals.Confirm = true
	return NewSetupForm(vals)
}

// applySetup saves the answers (when confirmed) and applies them to the
// running dashboard.
func (a *App) applySetup() error {
	cfg, loadErr := config.Load()
	a.setupVals.Apply(&cfg)
	theme.SetActive(cfg.Appearance.Theme)

	prevURL := a.opts.APIURL
	a.opts.APIURL = config.APIBaseURL(cfg)
	a.opts.OutputDir = config.OutputDir(cfg)
	if a.opts.Fetcher == nil && a.opts.APIURL != prevURL {
		a.host.Close()
		a.host = a.newHost()
	}

	if !a.setupVals.Confirm {
		return nil
	}
	if loadErr != nil {
		// Do not overwrite a config file we failed to parse.
		return loadErr
	}
	return config.Save(cfg)
}
