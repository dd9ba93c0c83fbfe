// Package engine keeps a page in sync with the snapshot endpoint.
//
// An Engine polls a client on a fixed interval, tracks connection health,
// diffs each snapshot against the last rendered one and writes fragments
// only for the regions that changed. Results are tagged with a sequence
// number; only the latest issued fetch may touch the page.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/logging"
	"github.com/grovetools/teamwatch/pkg/client"
	"github.com/grovetools/teamwatch/pkg/filter"
	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/grovetools/teamwatch/pkg/narrative"
	"github.com/grovetools/teamwatch/pkg/render"
	"github.com/sirupsen/logrus"
)

// Defaults used when Options leaves a duration unset.
const (
	DefaultInterval = time.Second
	DefaultTimeout  = 5 * time.Second
)

// Outcome classifies what happened to one fetch.
type Outcome int

const (
	// OutcomeApplied means the snapshot was rendered and written.
	OutcomeApplied Outcome = iota
	// OutcomeFailed means the fetch failed; only the indicator may change.
	OutcomeFailed
	// OutcomeStale means the result was discarded unseen.
	OutcomeStale
	// OutcomeRenderFailed means a renderer failed and nothing was written.
	OutcomeRenderFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	case OutcomeRenderFailed:
		return "render_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Options configures an Engine. Client, Page and Renderer are required.
type Options struct {
	Client   client.Client
	Page     render.Page
	Renderer render.Renderer

	Interval time.Duration
	Timeout  time.Duration

	// AllowOverlap lets a tick fire while an earlier fetch is still
	// outstanding. By default such ticks are skipped.
	AllowOverlap bool

	// Filter narrows the teams of every snapshot before diffing.
	Filter *filter.Filter

	// Now is the clock used for derived values. Defaults to time.Now.
	Now func() time.Time

	Logger *logrus.Entry

	// OnPoll is called after every fetch settles, outside the engine's
	// locks. err is the fetch or render error, if any.
	OnPoll func(seq uint64, outcome Outcome, err error)
}

// Engine is the sync loop. All methods are safe for concurrent use.
type Engine struct {
	opts   Options
	logger *logrus.Entry
	health *Health

	// renderMu serializes render passes and guards differ. It is always
	// taken before mu. Page writes happen under renderMu, never under mu,
	// since a page may block until its host's event loop reads.
	renderMu sync.Mutex
	differ   *Differ

	mu       sync.Mutex
	running  bool
	visible  bool
	closed   bool
	started  bool
	seq      uint64
	pending  int
	stopTick chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New validates opts and returns a stopped, visible engine.
func New(opts Options) (*Engine, error) {
	if opts.Client == nil || opts.Page == nil || opts.Renderer == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "engine needs a client, a page and a renderer")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("engine")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		opts:    opts,
		logger:  logger,
		health:  NewHealth(),
		differ:  NewDiffer(),
		visible: true,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start begins polling: one fetch right away, then one per interval.
// Calling Start on a running or closed engine does nothing.
func (e *Engine) Start() {
	// renderMu is held across the first connection write so no poll result
	// lands before it.
	e.renderMu.Lock()
	defer e.renderMu.Unlock()

	e.mu.Lock()
	if e.closed || e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	first := !e.started
	e.started = true
	if e.visible {
		e.startTickerLocked()
		e.issueLocked(true)
	}
	e.mu.Unlock()

	e.logger.WithField("interval", e.opts.Interval).Debug("Sync loop started")
	if first {
		e.writeConnection(e.health.State())
	}
}

// Stop halts the timer. Fetches already in flight complete but their
// results are discarded. Stop before Start is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	e.stopTickerLocked()
	e.logger.Debug("Sync loop stopped")
}

// SetVisible pauses polling while the page is hidden and resumes with an
// eager fetch when it is shown again. Repeating the current visibility
// does nothing.
func (e *Engine) SetVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.visible == visible {
		return
	}
	e.visible = visible
	e.logger.WithField("visible", visible).Debug("Visibility changed")

	if !e.running {
		return
	}
	if visible {
		e.startTickerLocked()
		e.issueLocked(true)
	} else {
		e.stopTickerLocked()
	}
}

// PollNow issues a fetch immediately, bypassing the single-flight gate.
// Any older fetch still in flight becomes stale. It does nothing unless
// the engine is running and visible.
func (e *Engine) PollNow() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || !e.running || !e.visible {
		return
	}
	e.issueLocked(true)
}

// Invalidate forgets the previous snapshot and redraws the connection
// indicator, so the next applied poll rewrites every region. Used when
// the locale changes.
func (e *Engine) Invalidate() {
	e.renderMu.Lock()
	defer e.renderMu.Unlock()

	e.differ.Reset()
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if started {
		e.writeConnection(e.health.State())
	}
}

// Close stops the loop, cancels in-flight requests and waits for them to
// settle. Results arriving afterwards are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.running = false
	e.stopTickerLocked()
	e.cancel()
	e.mu.Unlock()

	e.wg.Wait()
}

// Running reports whether the loop is started and not closed.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Visible reports the last visibility set.
func (e *Engine) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

// Health returns the connection monitor's status.
func (e *Engine) Health() Status {
	return e.health.Status()
}

func (e *Engine) startTickerLocked() {
	if e.stopTick != nil {
		return
	}
	stop := make(chan struct{})
	e.stopTick = stop

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(e.opts.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e.tick()
			}
		}
	}()
}

func (e *Engine) stopTickerLocked() {
	if e.stopTick == nil {
		return
	}
	close(e.stopTick)
	e.stopTick = nil
}

func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || !e.running || !e.visible {
		return
	}
	e.issueLocked(false)
}

// issueLocked starts one fetch. Unless force is set, it is skipped while
// another fetch is outstanding.
func (e *Engine) issueLocked(force bool) {
	if !force && !e.opts.AllowOverlap && e.pending > 0 {
		e.logger.WithField("pending", e.pending).Debug("Skipping tick, fetch outstanding")
		return
	}
	e.seq++
	e.pending++
	seq := e.seq

	e.wg.Add(1)
	go e.poll(seq)
}

func (e *Engine) poll(seq uint64) {
	defer e.wg.Done()

	ctx, cancel := context.WithTimeout(e.ctx, e.opts.Timeout)
	snap, err := e.opts.Client.Fetch(ctx)
	cancel()

	e.mu.Lock()
	e.pending--
	e.mu.Unlock()

	outcome, err := e.settle(seq, snap, err)
	if e.opts.OnPoll != nil {
		e.opts.OnPoll(seq, outcome, err)
	}
}

// settle applies a fetch result if it is still the latest.
func (e *Engine) settle(seq uint64, snap *models.Snapshot, fetchErr error) (Outcome, error) {
	e.renderMu.Lock()
	defer e.renderMu.Unlock()

	e.mu.Lock()
	current := !e.closed && e.running && e.visible && seq == e.seq
	latest := e.seq
	e.mu.Unlock()

	if !current {
		e.logger.WithFields(logrus.Fields{
			"seq":    seq,
			"latest": latest,
		}).Debug("Discarding stale poll result")
		return OutcomeStale, fetchErr
	}

	now := e.opts.Now()

	if fetchErr != nil {
		state, changed := e.health.Record(fetchErr, now)
		if changed {
			e.logger.WithError(fetchErr).WithField("code", errors.GetCode(fetchErr)).Warn("Lost connection to snapshot endpoint")
			e.writeConnection(state)
		} else {
			e.logger.WithError(fetchErr).WithField("seq", seq).Debug("Poll failed")
		}
		return OutcomeFailed, fetchErr
	}

	e.opts.Filter.Apply(snap)
	renderErr := e.renderPass(snap, now)
	if renderErr != nil {
		e.logger.WithError(renderErr).WithField("seq", seq).Error("Render pass failed, page left unchanged")
	}

	state, changed := e.health.Record(nil, now)
	if changed {
		e.logger.Info("Connection to snapshot endpoint restored")
		e.writeConnection(state)
	}

	if renderErr != nil {
		return OutcomeRenderFailed, renderErr
	}
	return OutcomeApplied, nil
}

type regionWrite struct {
	region   render.Region
	fragment render.Fragment
}

// renderPass renders every fragment first and writes only if all of them
// succeeded, then advances the differ.
func (e *Engine) renderPass(snap *models.Snapshot, now time.Time) error {
	changes, err := e.differ.Diff(snap)
	if err != nil {
		return err
	}

	r := e.opts.Renderer
	var writes []regionWrite
	add := func(region render.Region, fn func() (render.Fragment, error)) error {
		frag, err := safeRender(region, fn)
		if err != nil {
			return err
		}
		writes = append(writes, regionWrite{region, frag})
		return nil
	}

	updatedAt := snap.UpdatedAt
	if !narrative.ValidTimestamp(updatedAt) {
		updatedAt = now
	}

	steps := []struct {
		region render.Region
		dirty  bool
		fn     func() (render.Fragment, error)
	}{
		{render.RegionLastUpdate, true, func() (render.Fragment, error) { return r.LastUpdate(updatedAt) }},
		{render.RegionProcessCount, true, func() (render.Fragment, error) { return r.Count(len(snap.Processes)) }},
		{render.RegionTeamCount, true, func() (render.Fragment, error) { return r.Count(len(snap.Teams)) }},
		{render.RegionProcesses, changes.Processes, func() (render.Fragment, error) { return r.Processes(snap.Processes, now) }},
		{render.RegionTeams, changes.Teams, func() (render.Fragment, error) { return r.Teams(snap.Teams, now) }},
	}
	for _, s := range steps {
		if !s.dirty {
			continue
		}
		if err := add(s.region, s.fn); err != nil {
			return err
		}
	}

	for _, w := range writes {
		e.opts.Page.SetRegion(w.region, w.fragment)
	}
	e.differ.Commit(changes)

	e.logger.WithFields(logrus.Fields{
		"processes_dirty": changes.Processes,
		"teams_dirty":     changes.Teams,
		"teams":           len(snap.Teams),
	}).Trace("Render pass applied")
	return nil
}

func (e *Engine) writeConnection(state State) {
	frag, err := safeRender(render.RegionConnection, func() (render.Fragment, error) {
		return e.opts.Renderer.Connection(state == Connected)
	})
	if err != nil {
		e.logger.WithError(err).Error("Failed to render connection indicator")
		return
	}
	e.opts.Page.SetRegion(render.RegionConnection, frag)
}

// safeRender converts renderer panics into RENDER_FAILED errors.
func safeRender(region render.Region, fn func() (render.Fragment, error)) (frag render.Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.RenderFailed(string(region), fmt.Errorf("panic: %v", r))
		}
	}()
	frag, err = fn()
	if err != nil && errors.GetCode(err) != errors.ErrCodeRenderFailed {
		err = errors.RenderFailed(string(region), err)
	}
	return frag, err
}
