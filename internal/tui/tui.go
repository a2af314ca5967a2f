// Package tui is a terminal presenter for the engine.
//
// The UI renders the board with tcell, turns keys and mouse clicks into
// engine picks and drives the countdown. Engine events arrive through
// Observe and are replayed one frame at a time so each phase of a cascade
// stays visible. Input is ignored while frames are still being shown.
package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/roach88/swapboard/internal/board"
	"github.com/roach88/swapboard/internal/engine"
)

// Defaults for the UI pacing.
const (
	DefaultFrameDelay   = 120 * time.Millisecond
	DefaultTickInterval = time.Second
)

// UI draws an engine on a tcell screen.
type UI struct {
	screen tcell.Screen
	eng    *engine.Engine
	frames *frameQueue
	logger *slog.Logger

	frameDelay   time.Duration
	tickInterval time.Duration

	// Owned by the Run goroutine.
	cursor  board.Pos
	hint    *board.Swap
	status  string
	shown   *frame
	pressed bool
}

// Option configures a UI.
type Option func(*UI)

// WithFrameDelay sets how long each board phase stays on screen.
func WithFrameDelay(d time.Duration) Option {
	return func(u *UI) {
		u.frameDelay = d
	}
}

// WithTickInterval sets the length of one countdown second.
func WithTickInterval(d time.Duration) Option {
	return func(u *UI) {
		u.tickInterval = d
	}
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(u *UI) {
		if l == nil {
			l = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		u.logger = l
	}
}

// New creates a UI on an initialized screen. Register the UI as an
// engine observer before calling Run.
func New(screen tcell.Screen, opts ...Option) *UI {
	u := &UI{
		screen:       screen,
		frames:       newFrameQueue(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		frameDelay:   DefaultFrameDelay,
		tickInterval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Observe implements engine.Observer. Only board phases are queued; the
// rest of the state is read live on every redraw.
func (u *UI) Observe(ev engine.Event) {
	f := frame{kind: ev.Kind, grid: ev.Grid, session: ev.Session}
	if !f.animated() {
		return
	}
	u.frames.Enqueue(f)
}

// Run plays eng until the player quits or ctx is cancelled. The caller
// owns the screen and finalizes it afterwards, which also stops the
// input goroutine.
func (u *UI) Run(ctx context.Context, eng *engine.Engine) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer u.frames.Close()

	u.eng = eng

	events := make(chan tcell.Event, 16)
	go u.poll(ctx, events)
	go u.countdown(ctx)

	ticker := time.NewTicker(u.frameDelay)
	defer ticker.Stop()

	u.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if !u.handleEvent(ctx, ev) {
				u.logger.Debug("quit requested")
				return nil
			}

		case <-u.frames.Wait():
			if u.shown == nil {
				u.nextFrame()
				u.draw()
			}

		case <-ticker.C:
			u.advance()
		}
	}
}

func (u *UI) poll(ctx context.Context, out chan<- tcell.Event) {
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (u *UI) countdown(ctx context.Context) {
	t := time.NewTicker(u.tickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			u.eng.Tick(ctx)
		}
	}
}

// advance shows the next board phase, if any, and redraws.
func (u *UI) advance() {
	u.shown = nil
	u.nextFrame()
	u.draw()
}

func (u *UI) nextFrame() {
	if f, ok := u.frames.TryDequeue(); ok {
		u.shown = &f
	}
}

// animating reports whether phase frames are still being shown.
func (u *UI) animating() bool {
	return u.shown != nil || u.frames.Len() > 0
}

// handleEvent applies one terminal event. It returns false to quit.
func (u *UI) handleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return u.handleKey(ctx, ev)

	case *tcell.EventMouse:
		u.handleMouse(ctx, ev)

	case *tcell.EventResize:
		u.screen.Sync()
	}
	u.draw()
	return true
}

func (u *UI) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		u.moveCursor(-1, 0)
	case tcell.KeyDown:
		u.moveCursor(1, 0)
	case tcell.KeyLeft:
		u.moveCursor(0, -1)
	case tcell.KeyRight:
		u.moveCursor(0, 1)
	case tcell.KeyEnter:
		u.pick(ctx, u.cursor)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			u.pick(ctx, u.cursor)
		case 'h':
			u.showHint()
		case 'r':
			u.restart(ctx)
		}
	}
	u.draw()
	return true
}

func (u *UI) handleMouse(ctx context.Context, ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		u.pressed = false
		return
	}
	if u.pressed {
		return
	}
	u.pressed = true

	x, y := ev.Position()
	g := u.eng.CurrentGrid()
	p, ok := cellAt(&g, x, y)
	if !ok {
		return
	}
	u.cursor = p
	u.pick(ctx, p)
}

func (u *UI) moveCursor(dr, dc int) {
	g := u.eng.CurrentGrid()
	next := board.Pos{Row: u.cursor.Row + dr, Col: u.cursor.Col + dc}
	if g.InBounds(next) {
		u.cursor = next
	}
}

func (u *UI) pick(ctx context.Context, p board.Pos) {
	if u.animating() {
		u.logger.Debug("pick ignored while animating", "pos", p.String())
		return
	}
	u.hint = nil
	u.status = ""

	res := u.eng.Select(ctx, p)
	u.logger.Debug("pick", "pos", p.String(), "action", string(res.Action), "reason", string(res.Reason))

	if u.shown == nil {
		u.nextFrame()
	}

	if res.Swap != nil && res.Swap.Status == engine.StatusAccepted {
		if g := res.Swap.Grid; !board.HasMoves(&g) {
			u.status = "no moves left, press r to restart"
		}
	}
}

func (u *UI) showHint() {
	if u.animating() {
		return
	}
	swap, ok := u.eng.Hint()
	if !ok {
		u.hint = nil
		u.status = "no moves left, press r to restart"
		return
	}
	u.hint = &swap
	u.status = ""
}

func (u *UI) restart(ctx context.Context) {
	if u.animating() {
		return
	}
	if !u.eng.Restart(ctx) {
		return
	}
	u.cursor = board.Pos{}
	u.hint = nil
	u.status = ""
}

// draw renders the frame being shown, or the live engine state.
func (u *UI) draw() {
	v := view{
		palette: u.eng.Palette(),
		cursor:  u.cursor,
		hint:    u.hint,
		status:  u.status,
	}
	if u.shown != nil {
		v.grid = u.shown.grid
		v.session = u.shown.session
	} else {
		v.grid = u.eng.CurrentGrid()
		v.session = u.eng.Session()
		if sel, ok := u.eng.CurrentSelection(); ok {
			v.selection = &sel
		}
	}
	render(u.screen, v)
}
