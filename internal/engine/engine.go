package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/swapboard/internal/board"
	"github.com/roach88/swapboard/internal/rules"
)

// Engine owns one board and the timed session played on it.
//
// Thread-safety model:
//   - TrySwap, Select, Restart: serialized by the busy gate; a call made
//     while another holds the gate is ignored, never queued
//   - Tick, End, CurrentGrid, CurrentSelection, Session, Stats, Hint: safe
//     from any goroutine (state lock only)
//   - Observers run on the goroutine that changed the state, after the
//     state lock is released and before the gate opens
type Engine struct {
	mu   sync.Mutex
	busy atomic.Bool

	rules    rules.Rules
	palette  board.Palette
	resolver board.Resolver

	grid      board.Grid
	selection board.Pos
	selected  bool
	session   Session
	stats     Stats
	started   int64
	recorded  bool

	src       board.Source
	clock     Sequencer
	ids       SessionIDGenerator
	observers []Observer
	recorder  Recorder
	logger    *slog.Logger
	initial   *board.Grid
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the colour source used for filling and refilling.
// Default: board.GlobalSource().
func WithSource(src board.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithClock sets the sequencer that stamps swaps.
func WithClock(c Sequencer) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSessionIDs sets the session ID generator.
// Default: UUIDv7Generator.
func WithSessionIDs(g SessionIDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithObserver adds an observer. Observers are called in the order added.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// WithRecorder sets the ledger that receives swap outcomes and session
// summaries.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the logger. A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l == nil {
			l = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		e.logger = l
	}
}

// WithInitialGrid starts the first session on a copy of g instead of a
// random board. Later restarts are random.
func WithInitialGrid(g board.Grid) Option {
	return func(e *Engine) {
		c := g.Clone()
		e.initial = &c
	}
}

// New validates r and starts the first session.
func New(r rules.Rules, opts ...Option) (*Engine, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	e := &Engine{
		rules:   r,
		palette: r.BoardPalette(),
		src:     board.GlobalSource(),
		clock:   NewClock(),
		ids:     UUIDv7Generator{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.initial != nil {
		if err := e.checkGrid(e.initial); err != nil {
			return nil, err
		}
	}

	e.resolver = board.Resolver{
		Source:  e.src,
		Colors:  r.Colors(),
		Points:  r.Points,
		Scoring: r.Scoring,
	}
	e.reset(e.initial)
	e.initial = nil
	return e, nil
}

func (e *Engine) checkGrid(g *board.Grid) error {
	if g.Rows() != e.rules.Rows || g.Cols() != e.rules.Cols {
		return fmt.Errorf("initial grid is %dx%d, rules want %dx%d",
			g.Rows(), g.Cols(), e.rules.Rows, e.rules.Cols)
	}
	n := board.Color(e.rules.Colors())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			p := board.Pos{Row: r, Col: c}
			if col := g.At(p); col == board.Empty || col > n {
				return fmt.Errorf("initial grid cell %s has colour %d outside 1..%d", p, col, n)
			}
		}
	}
	return nil
}

// reset starts a fresh session. Caller holds mu (or has exclusive access).
func (e *Engine) reset(initial *board.Grid) {
	if initial != nil {
		e.grid = initial.Clone()
	} else {
		e.grid = board.NewGrid(e.rules.Rows, e.rules.Cols)
		if e.rules.SettleInitial {
			board.FillSettled(&e.grid, e.src, e.rules.Colors())
		} else {
			board.Fill(&e.grid, e.src, e.rules.Colors())
		}
	}
	e.selected = false
	e.session = Session{
		ID:        e.ids.Generate(),
		Remaining: e.rules.Duration,
		Running:   true,
	}
	e.stats = Stats{}
	e.started = e.clock.Current()
	e.recorded = false
}

// TrySwap attempts to exchange the tiles at a and b.
//
// The swap is ignored when a or b is off the board, they are not
// orthogonal neighbours, another attempt is in flight, or the session has
// ended. A swap that forms no match is undone and reported as reverted.
// Otherwise the board is resolved until no match remains.
func (e *Engine) TrySwap(ctx context.Context, a, b board.Pos) Outcome {
	if !e.busy.CompareAndSwap(false, true) {
		return e.ignore(a, b, ReasonBusy)
	}
	defer e.busy.Store(false)

	e.mu.Lock()
	out, events := e.swapLocked(a, b)
	e.mu.Unlock()

	e.notify(events)
	if out.Status != StatusIgnored {
		e.recordSwap(ctx, out)
	}
	return out
}

func (e *Engine) ignore(a, b board.Pos, reason Reason) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ignoreLocked(a, b, reason)
}

func (e *Engine) ignoreLocked(a, b board.Pos, reason Reason) Outcome {
	e.stats.Ignored++
	e.logger.Debug("swap ignored",
		"session", e.session.ID,
		"a", a.String(),
		"b", b.String(),
		"reason", string(reason))
	return Outcome{
		Status:    StatusIgnored,
		Reason:    reason,
		SessionID: e.session.ID,
		A:         a,
		B:         b,
		Grid:      e.grid.Clone(),
	}
}

func (e *Engine) swapLocked(a, b board.Pos) (Outcome, []Event) {
	switch {
	case !e.session.Running:
		return e.ignoreLocked(a, b, ReasonNotRunning), nil
	case !e.grid.InBounds(a) || !e.grid.InBounds(b):
		return e.ignoreLocked(a, b, ReasonOutOfBounds), nil
	case !a.Adjacent(b):
		return e.ignoreLocked(a, b, ReasonNotAdjacent), nil
	}

	e.selected = false
	seq := e.clock.Next()
	out := Outcome{SessionID: e.session.ID, Seq: seq, A: a, B: b}

	e.grid.Swap(a, b)
	events := []Event{e.event(EventSwapped, seq, a, b, nil, e.grid.Clone())}

	if !board.HasMatch(&e.grid) {
		e.grid.Swap(a, b)
		e.stats.Reverted++
		out.Status = StatusReverted
		out.Grid = e.grid.Clone()
		events = append(events, e.event(EventReverted, seq, a, b, nil, out.Grid))
		e.logger.Debug("swap reverted",
			"session", e.session.ID,
			"seq", seq,
			"a", a.String(),
			"b", b.String())
		return out, events
	}

	res := e.resolver.Resolve(&e.grid)
	e.stats.Accepted++
	e.stats.Passes += len(res.Passes)
	e.stats.Cleared += res.Cleared()
	if len(res.Passes) > e.stats.LongestCascade {
		e.stats.LongestCascade = len(res.Passes)
	}

	for i := range res.Passes {
		p := &res.Passes[i]
		e.session.Score += p.Points
		events = append(events,
			e.event(EventCleared, seq, a, b, p, p.Cleared),
			e.event(EventCollapsed, seq, a, b, p, p.Collapsed),
			e.event(EventRefilled, seq, a, b, p, p.Grid))
		e.logger.Debug("pass resolved",
			"session", e.session.ID,
			"seq", seq,
			"pass", p.Index,
			"flags", len(p.Flags),
			"points", p.Points)
	}

	out.Status = StatusAccepted
	out.ScoreDelta = res.Score
	out.Passes = res.Passes
	out.Grid = e.grid.Clone()
	events = append(events, e.event(EventSettled, seq, a, b, nil, out.Grid))

	e.logger.Info("swap accepted",
		"session", e.session.ID,
		"seq", seq,
		"a", a.String(),
		"b", b.String(),
		"passes", len(res.Passes),
		"score_delta", res.Score,
		"score", e.session.Score)
	return out, events
}

// Select handles a pick of the cell at p.
//
// With nothing selected, p becomes the selection. Picking the selected
// cell again clears it. Picking a neighbour attempts a swap with it.
// Picking any other cell moves the selection there. Picks are ignored
// while a swap is resolving, after the session ends, or off the board.
func (e *Engine) Select(ctx context.Context, p board.Pos) SelectResult {
	if e.busy.Load() {
		e.mu.Lock()
		e.stats.Ignored++
		e.mu.Unlock()
		return SelectResult{Action: SelectIgnored, Reason: ReasonBusy}
	}

	e.mu.Lock()
	switch {
	case !e.session.Running:
		e.stats.Ignored++
		e.mu.Unlock()
		return SelectResult{Action: SelectIgnored, Reason: ReasonNotRunning}
	case !e.grid.InBounds(p):
		e.stats.Ignored++
		e.mu.Unlock()
		return SelectResult{Action: SelectIgnored, Reason: ReasonOutOfBounds}
	}

	if e.selected && e.selection == p {
		e.selected = false
		ev := e.event(EventDeselected, 0, p, p, nil, e.grid.Clone())
		e.mu.Unlock()
		e.notify([]Event{ev})
		return SelectResult{Action: SelectDeselected}
	}

	if e.selected && e.selection.Adjacent(p) {
		first := e.selection
		e.mu.Unlock()
		out := e.TrySwap(ctx, first, p)
		return SelectResult{Action: SelectSwapped, Reason: out.Reason, Swap: &out}
	}

	e.selection = p
	e.selected = true
	ev := e.event(EventSelected, 0, p, p, nil, e.grid.Clone())
	e.mu.Unlock()
	e.notify([]Event{ev})
	return SelectResult{Action: SelectSelected}
}

// Tick counts down one second. When the time runs out the session ends
// and its summary is recorded. Tick reports whether the session is still
// running afterwards.
func (e *Engine) Tick(ctx context.Context) bool {
	e.mu.Lock()
	if !e.session.Running {
		e.mu.Unlock()
		return false
	}
	e.session.Remaining--
	events := []Event{e.event(EventTick, 0, board.Pos{}, board.Pos{}, nil, board.Grid{})}

	var summary *Summary
	if e.session.Remaining <= 0 {
		summary, events = e.endLocked(events)
	}
	running := e.session.Running
	e.mu.Unlock()

	e.notify(events)
	if summary != nil {
		e.recordSession(ctx, *summary)
	}
	return running
}

// End stops the session early. It returns the session summary; calling
// End on a finished session returns the summary again without recording.
func (e *Engine) End(ctx context.Context) Summary {
	e.mu.Lock()
	if !e.session.Running {
		s := e.summaryLocked()
		e.mu.Unlock()
		return s
	}
	summary, events := e.endLocked(nil)
	e.mu.Unlock()

	e.notify(events)
	e.recordSession(ctx, *summary)
	return *summary
}

func (e *Engine) endLocked(events []Event) (*Summary, []Event) {
	e.session.Running = false
	if e.session.Remaining < 0 {
		e.session.Remaining = 0
	}
	e.selected = false
	events = append(events, e.event(EventEnded, 0, board.Pos{}, board.Pos{}, nil, e.grid.Clone()))

	e.logger.Info("session ended",
		"session", e.session.ID,
		"score", e.session.Score,
		"accepted", e.stats.Accepted,
		"longest_cascade", e.stats.LongestCascade)

	if e.recorded {
		return nil, events
	}
	e.recorded = true
	s := e.summaryLocked()
	return &s, events
}

// Restart abandons the current session and starts a new one on a fresh
// random board. An unfinished session is recorded as it stood. Restart
// returns false when a swap is in flight.
func (e *Engine) Restart(ctx context.Context) bool {
	if !e.busy.CompareAndSwap(false, true) {
		return false
	}
	defer e.busy.Store(false)

	e.mu.Lock()
	var prev *Summary
	if !e.recorded {
		s := e.summaryLocked()
		prev = &s
	}
	e.reset(nil)
	ev := e.event(EventRestarted, 0, board.Pos{}, board.Pos{}, nil, e.grid.Clone())
	e.logger.Info("session restarted", "session", e.session.ID)
	e.mu.Unlock()

	if prev != nil {
		e.recordSession(ctx, *prev)
	}
	e.notify([]Event{ev})
	return true
}

// Hint returns a swap that would form a match, if any exists.
func (e *Engine) Hint() (board.Swap, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	swaps := board.FindSwaps(&e.grid)
	if len(swaps) == 0 {
		return board.Swap{}, false
	}
	return swaps[0], true
}

// CurrentGrid returns a copy of the board.
func (e *Engine) CurrentGrid() board.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Clone()
}

// CurrentSelection returns the selected cell, if any.
func (e *Engine) CurrentSelection() (board.Pos, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection, e.selected
}

// Session returns a copy of the session state.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Stats returns the counters of the current session.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Summary returns the current session as a ledger summary.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summaryLocked()
}

// Busy reports whether a swap is resolving.
func (e *Engine) Busy() bool { return e.busy.Load() }

// Rules returns the rules the engine was built with.
func (e *Engine) Rules() rules.Rules { return e.rules }

// Palette returns the symbols for the board colours.
func (e *Engine) Palette() board.Palette { return e.palette }

func (e *Engine) summaryLocked() Summary {
	return Summary{
		SessionID:  e.session.ID,
		Rows:       e.rules.Rows,
		Cols:       e.rules.Cols,
		Colors:     e.rules.Colors(),
		Score:      e.session.Score,
		Stats:      e.stats,
		StartedSeq: e.started,
		EndedSeq:   e.clock.Current(),
	}
}

func (e *Engine) event(kind EventKind, seq int64, a, b board.Pos, p *board.Pass, g board.Grid) Event {
	return Event{
		Kind:    kind,
		Seq:     seq,
		A:       a,
		B:       b,
		Pass:    p,
		Grid:    g,
		Session: e.session,
	}
}

func (e *Engine) notify(events []Event) {
	for _, ev := range events {
		for _, o := range e.observers {
			o.Observe(ev)
		}
	}
}

func (e *Engine) recordSwap(ctx context.Context, out Outcome) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordSwap(ctx, out); err != nil {
		// Log and continue; the ledger is not part of the game.
		e.logger.Error("failed to record swap",
			"session", out.SessionID,
			"seq", out.Seq,
			"error", err)
	}
}

func (e *Engine) recordSession(ctx context.Context, s Summary) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordSession(ctx, s); err != nil {
		e.logger.Error("failed to record session",
			"session", s.SessionID,
			"error", err)
	}
}
