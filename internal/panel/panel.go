// Package panel implements the chart sync panel: it fetches one budget
// dataset per activation and fans it out into a retained and a declarative
// chart backend.
//
// A Panel is driven from a single event loop. Only the FetchOp returned by
// Activate or Retry may run elsewhere; its result must be handed back to the
// loop and applied with Commit.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/theirongolddev/budgetview/internal/model"
)

// ErrNoDataset means a fetch reported success without a dataset.
var ErrNoDataset = errors.New("panel: fetch returned no dataset")

// State is the panel lifecycle position.
type State int

const (
	Inactive State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Fetcher retrieves the remote budget dataset.
type Fetcher interface {
	FetchBudget(ctx context.Context) (*model.BudgetDataset, error)
}

// RetainedRenderer owns a persistent chart handle.
type RetainedRenderer interface {
	Render(ds *model.BudgetDataset) error
	Destroy()
}

// DeclarativeRenderer rebinds its surface from scratch on every render.
type DeclarativeRenderer interface {
	Render(ds *model.BudgetDataset) error
	Clear()
}

// FetchResult is the outcome of one FetchOp, tagged with the activation that
// started it.
type FetchResult struct {
	Activation uint64
	Dataset    *model.BudgetDataset
	Err        error
}

// FetchOp performs the single blocking fetch of an activation.
type FetchOp func() FetchResult

// Panel is the chart sync panel.
type Panel struct {
	fetcher     Fetcher
	retained    RetainedRenderer
	declarative DeclarativeRenderer
	logger      *slog.Logger

	state      State
	activation uint64
	dataset    *model.BudgetDataset
	err        error
	cancel     context.CancelFunc
}

// New returns an inactive panel. A nil logger discards output.
func New(f Fetcher, retained RetainedRenderer, declarative DeclarativeRenderer, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Panel{
		fetcher:     f,
		retained:    retained,
		declarative: declarative,
		logger:      logger,
	}
}

// State returns the lifecycle state.
func (p *Panel) State() State { return p.state }

// Dataset returns the dataset of the current activation, or nil.
func (p *Panel) Dataset() *model.BudgetDataset { return p.dataset }

// Err returns the fetch error that moved the panel to Failed.
func (p *Panel) Err() error { return p.err }

// Activation returns the current activation token. Zero means never activated.
func (p *Panel) Activation() uint64 { return p.activation }

// Activate starts a new activation and returns its fetch. An already active
// panel is deactivated first, so results of the previous activation are
// discarded by Commit.
func (p *Panel) Activate(ctx context.Context) FetchOp {
	if p.state != Inactive {
		p.Deactivate()
	}
	return p.start(ctx)
}

// Retry starts a fresh fetch from Failed. It returns nil in any other state.
func (p *Panel) Retry(ctx context.Context) FetchOp {
	if p.state != Failed {
		return nil
	}
	p.logger.Info("retrying budget fetch", "previous_activation", p.activation)
	return p.start(ctx)
}

func (p *Panel) start(ctx context.Context) FetchOp {
	if p.cancel != nil {
		p.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.activation++
	p.state = Loading
	p.dataset = nil
	p.err = nil

	token := p.activation
	f := p.fetcher
	p.logger.Debug("panel activated", "activation", token)
	return func() FetchResult {
		ds, err := f.FetchBudget(fctx)
		return FetchResult{Activation: token, Dataset: ds, Err: err}
	}
}

// Commit applies a fetch result. Results from a superseded activation or
// that arrive while the panel is not loading are dropped. On success both
// backends render the same dataset; their errors are returned.
func (p *Panel) Commit(res FetchResult) error {
	if p.state != Loading || res.Activation != p.activation {
		p.logger.Debug("dropping stale fetch result",
			"result_activation", res.Activation,
			"activation", p.activation,
			"state", p.state.String(),
		)
		return nil
	}
	p.release()

	err := res.Err
	if err == nil && res.Dataset == nil {
		err = ErrNoDataset
	}
	if err != nil {
		p.logger.Warn("budget fetch failed", "activation", res.Activation, "error", err)
		p.err = err
		p.state = Failed
		return nil
	}

	p.dataset = res.Dataset
	p.state = Ready
	p.logger.Debug("budget fetched", "activation", res.Activation, "slices", res.Dataset.Len())

	var errs []error
	if err := p.retained.Render(p.dataset); err != nil {
		errs = append(errs, fmt.Errorf("panel: retained render: %w", err))
	}
	if err := p.declarative.Render(p.dataset); err != nil {
		errs = append(errs, fmt.Errorf("panel: declarative render: %w", err))
	}
	return errors.Join(errs...)
}

// Deactivate cancels any in-flight fetch, tears down both renderings and
// returns the panel to Inactive. It is safe to call in any state.
func (p *Panel) Deactivate() {
	p.release()
	p.retained.Destroy()
	p.declarative.Clear()
	if p.state != Inactive {
		p.logger.Debug("panel deactivated", "activation", p.activation, "state", p.state.String())
	}
	p.state = Inactive
	p.dataset = nil
	p.err = nil
}

func (p *Panel) release() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
