package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sintatools/journalharvest/internal/model"
	"github.com/sintatools/journalharvest/internal/renderer"
)

// State identifies a crawl state machine state.
type State int

const (
	// StateInitializing is the start state: navigation and filter setup.
	StateInitializing State = iota

	// StateFilterApplied means the accreditation filter was submitted and
	// the first results view is (believed to be) rendered.
	StateFilterApplied

	// StatePageCaptured means the current page's markup was snapshotted.
	StatePageCaptured

	// StateAdvancing means the crawler is probing the next-page control.
	StateAdvancing

	// StateDone is the normal terminal state.
	StateDone

	// StateAborted is the terminal state for unrecoverable renderer
	// failures. Reachable from any non-terminal state.
	StateAborted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateFilterApplied:
		return "filter_applied"
	case StatePageCaptured:
		return "page_captured"
	case StateAdvancing:
		return "advancing"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Selectors for the journal listing UI. XPath is used where matching
// depends on element text or attribute values CSS cannot express.
const (
	filterButtonSelector  = `//button[@data-target='#filterJournal']`
	filterModalSelector   = "#filterJournal"
	accreditationSelector = "#filter_accreditation1"
	filterSubmitSelector  = `//button[@name='filter_journals' and @value='1']`
	resultsMarkerSelector = "table.table"
	nextControlSelector   = `//a[contains(@class,'page-link') and normalize-space(.)='Next']`
)

// Crawler drives a renderer through filter-apply, capture, and next-page
// transitions until a termination condition is reached.
type Crawler struct {
	renderer renderer.Renderer

	// startURL is the journal listing entry point.
	startURL string

	// maxPages is the hard safety bound on the capture sequence count.
	// It forces Done regardless of the next-page control's state.
	maxPages int

	// waitTimeout bounds each wait for the results marker.
	waitTimeout time.Duration

	// graceDelay is slept after a wait timeout before proceeding anyway.
	graceDelay time.Duration

	// diagnosticsDir, when set, receives a best-effort markup dump and
	// screenshot on abort.
	diagnosticsDir string

	logger *slog.Logger
	now    func() time.Time
	state  State
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages sets the hard page cap.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		c.maxPages = n
	}
}

// WithWaitTimeout bounds each results-marker wait.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *Crawler) {
		c.waitTimeout = d
	}
}

// WithGraceDelay sets the delay slept after a wait timeout before
// continuing in degraded mode.
func WithGraceDelay(d time.Duration) Option {
	return func(c *Crawler) {
		c.graceDelay = d
	}
}

// WithDiagnosticsDir enables best-effort diagnostics capture on abort.
func WithDiagnosticsDir(dir string) Option {
	return func(c *Crawler) {
		c.diagnosticsDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithClock sets the clock used to stamp captures. Injectable for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Crawler) {
		c.now = now
	}
}

// New creates a Crawler for the given renderer and listing URL.
func New(r renderer.Renderer, startURL string, opts ...Option) *Crawler {
	c := &Crawler{
		renderer:    r,
		startURL:    startURL,
		maxPages:    23,
		waitTimeout: 70 * time.Second,
		graceDelay:  10 * time.Second,
		logger:      slog.Default(),
		now:         time.Now,
		state:       StateInitializing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Crawler) State() State {
	return c.state
}

// Run executes the crawl and returns one capture per visited page, in
// sequence order.
//
// On normal termination (next-page control absent or inert, or the hard cap
// reached) the error is nil and the state is Done. On renderer failure the
// state is Aborted and the captures collected so far are returned alongside
// the error.
func (c *Crawler) Run(ctx context.Context) ([]model.RawPageCapture, error) {
	captures := make([]model.RawPageCapture, 0, c.maxPages)

	if err := c.applyFilter(ctx); err != nil {
		return captures, c.abort(ctx, "apply filter", err)
	}
	c.state = StateFilterApplied

	// First results page.
	capture, err := c.capturePage(ctx, 1)
	if err != nil {
		return captures, c.abort(ctx, "capture page 1", err)
	}
	captures = append(captures, capture)
	c.state = StatePageCaptured

	for {
		if len(captures) >= c.maxPages {
			c.logger.Warn("hard page cap reached, stopping crawl",
				"pages", len(captures),
				"cap", c.maxPages,
			)
			c.state = StateDone
			return captures, nil
		}

		c.state = StateAdvancing
		proceed, err := c.advance(ctx)
		if err != nil {
			return captures, c.abort(ctx, "advance", err)
		}
		if !proceed {
			c.state = StateDone
			c.logger.Info("pagination exhausted", "pages", len(captures))
			return captures, nil
		}

		capture, err := c.capturePage(ctx, len(captures)+1)
		if err != nil {
			return captures, c.abort(ctx, fmt.Sprintf("capture page %d", len(captures)+1), err)
		}
		captures = append(captures, capture)
		c.state = StatePageCaptured
	}
}

// applyFilter opens the filter control, selects the accreditation
// criterion if not already selected, and submits.
func (c *Crawler) applyFilter(ctx context.Context) error {
	c.logger.Info("opening journal listing", "url", c.startURL)
	if err := c.renderer.Navigate(ctx, c.startURL); err != nil {
		return err
	}

	res, err := c.renderer.WaitForElement(ctx, filterButtonSelector, c.waitTimeout)
	if err != nil {
		return err
	}
	if res == renderer.WaitTimedOut {
		return fmt.Errorf("filter control did not appear within %s", c.waitTimeout)
	}

	button, found, err := c.renderer.FindElement(ctx, filterButtonSelector)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("filter control not found")
	}
	if err := c.renderer.Click(ctx, button); err != nil {
		return err
	}

	if _, err := c.renderer.WaitForElement(ctx, filterModalSelector, c.waitTimeout); err != nil {
		return err
	}

	if err := c.selectAccreditation(ctx); err != nil {
		return err
	}

	submit, found, err := c.renderer.FindElement(ctx, filterSubmitSelector)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("filter submit control not found")
	}
	if err := c.renderer.Click(ctx, submit); err != nil {
		return err
	}
	c.logger.Info("filter submitted")

	c.awaitResults(ctx)
	return nil
}

// selectAccreditation ticks the accreditation checkbox unless it is
// already checked.
func (c *Crawler) selectAccreditation(ctx context.Context) error {
	box, found, err := c.renderer.FindElement(ctx, accreditationSelector)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("accreditation filter %s not found", accreditationSelector)
	}

	attrs, err := c.renderer.ElementAttributes(ctx, box)
	if err != nil {
		return err
	}
	if _, checked := attrs["checked"]; checked {
		c.logger.Debug("accreditation filter already selected")
		return nil
	}

	return c.renderer.Click(ctx, box)
}

// awaitResults waits for the results-table marker. A timeout is degraded,
// not fatal: the crawler sleeps the grace delay and proceeds, assuming a
// slow asynchronous update.
func (c *Crawler) awaitResults(ctx context.Context) {
	res, err := c.renderer.WaitForElement(ctx, resultsMarkerSelector, c.waitTimeout)
	if err != nil || res == renderer.WaitTimedOut {
		c.logger.Warn("results marker did not appear, continuing after grace delay",
			"timeout", c.waitTimeout,
			"grace", c.graceDelay,
			"error", err,
		)
		c.pause(ctx, c.graceDelay)
	}
}

// capturePage snapshots the current rendered markup as the given sequence.
func (c *Crawler) capturePage(ctx context.Context, sequence int) (model.RawPageCapture, error) {
	markup, err := c.renderer.CurrentMarkup(ctx)
	if err != nil {
		return model.RawPageCapture{}, err
	}

	c.logger.Info("page captured", "sequence", sequence, "bytes", len(markup))
	return model.NewRawPageCapture(sequence, markup, c.now()), nil
}

// advance probes the next-page control. It returns false when the crawl
// should terminate normally: control absent, or present but inert.
func (c *Crawler) advance(ctx context.Context) (bool, error) {
	next, found, err := c.renderer.FindElement(ctx, nextControlSelector)
	if err != nil {
		return false, err
	}
	if !found {
		c.logger.Info("next-page control absent, last page reached")
		return false, nil
	}

	attrs, err := c.renderer.ElementAttributes(ctx, next)
	if err != nil {
		return false, err
	}
	if reason, inert := inertReason(attrs); inert {
		c.logger.Info("next-page control inert, last page reached", "reason", reason)
		return false, nil
	}

	if err := c.renderer.Click(ctx, next); err != nil {
		return false, err
	}

	c.awaitResults(ctx)
	return true, nil
}

// inertReason reports whether the next-page control attributes mark it as
// non-navigable, and why.
func inertReason(attrs map[string]string) (string, bool) {
	if strings.Contains(strings.ToLower(attrs["class"]), "disabled") {
		return "disabled class", true
	}
	if strings.EqualFold(attrs["aria-disabled"], "true") {
		return "aria-disabled", true
	}

	href, ok := attrs["href"]
	if !ok || strings.TrimSpace(href) == "" {
		return "missing href", true
	}
	if strings.HasPrefix(strings.TrimSpace(href), "javascript:") {
		return "non-navigable href", true
	}
	return "", false
}

// abort transitions to Aborted, attempts best-effort diagnostics, and
// wraps the cause.
func (c *Crawler) abort(ctx context.Context, stage string, cause error) error {
	c.state = StateAborted
	c.logger.Error("crawl aborted", "stage", stage, "error", cause)
	c.saveDiagnostics(ctx)
	return fmt.Errorf("crawl aborted while %s: %w", stage, cause)
}

// saveDiagnostics dumps the current markup and a screenshot for postmortem
// inspection. Failures here are logged and otherwise ignored; diagnostics
// must never mask the original abort cause.
func (c *Crawler) saveDiagnostics(ctx context.Context) {
	if c.diagnosticsDir == "" {
		return
	}
	if err := os.MkdirAll(c.diagnosticsDir, 0750); err != nil {
		c.logger.Warn("diagnostics dir creation failed", "error", err)
		return
	}

	stamp := c.now().Format("20060102_150405")

	if markup, err := c.renderer.CurrentMarkup(ctx); err != nil {
		c.logger.Warn("diagnostic markup capture failed", "error", err)
	} else {
		path := filepath.Join(c.diagnosticsDir, fmt.Sprintf("abort_page_%s.html", stamp))
		if err := os.WriteFile(path, []byte(markup), 0600); err != nil {
			c.logger.Warn("diagnostic markup write failed", "error", err)
		}
	}

	if shot, err := c.renderer.Screenshot(ctx); err != nil {
		c.logger.Warn("diagnostic screenshot failed", "error", err)
	} else {
		path := filepath.Join(c.diagnosticsDir, fmt.Sprintf("abort_%s.png", stamp))
		if err := os.WriteFile(path, shot, 0600); err != nil {
			c.logger.Warn("diagnostic screenshot write failed", "error", err)
		}
	}
}

// pause sleeps for d, returning early if the context is cancelled.
func (c *Crawler) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
