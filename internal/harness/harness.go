package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/swapboard/internal/board"
	"github.com/roach88/swapboard/internal/engine"
	"github.com/roach88/swapboard/internal/rules"
	"github.com/roach88/swapboard/internal/store"
	"github.com/roach88/swapboard/internal/testutil"
)

// Harness executes one scenario against a real engine.
type Harness struct {
	scenario *Scenario
	store    *store.Store
	engine   *engine.Engine
	palette  board.Palette
	logger   *slog.Logger
	result   *Result
	step     int
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory ledger for isolation.
// Execution flow:
//  1. Build rules from defaults, the grid size and scenario overrides
//  2. Start an engine on the scenario grid with a scripted colour source
//  3. Execute steps, checking each expect clause
//  4. Evaluate assertions against the trace and final state
//
// Failed expectations and assertions are reported in the result. An error
// is returned only when the scenario cannot be executed.
func Run(scenario *Scenario) (*Result, error) {
	r, err := scenarioRules(scenario)
	if err != nil {
		return nil, err
	}
	palette := r.BoardPalette()

	grid, err := board.ParseGrid(scenario.Grid, palette)
	if err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}

	src, err := scenarioSource(scenario, palette)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		scenario: scenario,
		store:    st,
		palette:  palette,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		result:   NewResult(),
	}

	eng, err := engine.New(r,
		engine.WithInitialGrid(grid),
		engine.WithSource(src),
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithSessionIDs(testutil.NewFixedSessionIDs(scenario.SessionPrefix)),
		engine.WithRecorder(st),
		engine.WithObserver(engine.ObserverFunc(h.observe)),
		engine.WithLogger(h.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start engine: %w", err)
	}
	h.engine = eng

	ctx := context.Background()
	if err := h.executeSteps(ctx); err != nil {
		return nil, err
	}

	if err := h.captureFinal(ctx); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(msg)
	}

	return h.result, nil
}

// scenarioRules applies the scenario overrides on top of the defaults,
// taking the board size from the grid unless overridden. Overrides go
// through the same schema as a rules file.
func scenarioRules(s *Scenario) (rules.Rules, error) {
	overrides := make(map[string]any, len(s.Rules)+2)
	for k, v := range s.Rules {
		overrides[k] = v
	}
	if _, ok := overrides["rows"]; !ok {
		overrides["rows"] = len(s.Grid)
	}
	if _, ok := overrides["cols"]; !ok {
		overrides["cols"] = len([]rune(s.Grid[0]))
	}

	data, err := json.Marshal(overrides)
	if err != nil {
		return rules.Rules{}, fmt.Errorf("invalid rules overrides: %w", err)
	}
	r, err := rules.Parse(data, s.Name+".rules")
	if err != nil {
		return rules.Rules{}, fmt.Errorf("invalid rules overrides: %w", err)
	}
	return r, nil
}

// scenarioSource turns the refill symbols into a scripted source.
func scenarioSource(s *Scenario, p board.Palette) (*testutil.ScriptedSource, error) {
	values := make([]int, len(s.Refill))
	for i, sym := range s.Refill {
		c, ok := p.Color(sym)
		if !ok || c == board.Empty {
			return nil, fmt.Errorf("refill[%d]: unknown symbol %q", i, sym)
		}
		values[i] = int(c) - 1
	}

	src := testutil.NewScriptedSource(values...)
	if s.Seed != nil {
		src.WithFallback(board.SeededSource(*s.Seed))
	}
	return src, nil
}

// executeSteps runs every step in order. A colour source running dry
// panics inside the engine; that is reported as an error.
func (h *Harness) executeSteps(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %d: %v", h.step, r)
		}
	}()

	for i, step := range h.scenario.Steps {
		h.step = i
		res := h.execute(ctx, step)
		res.Step = i
		h.result.Steps = append(h.result.Steps, res)

		if step.Expect != nil {
			h.checkExpect(i, step, res)
		}

		h.logger.Info("step completed",
			"step", i,
			"op", res.Op,
			"status", res.Status,
			"action", res.Action)
	}
	return nil
}

func (h *Harness) execute(ctx context.Context, step Step) StepResult {
	res := StepResult{Op: step.Op()}

	switch res.Op {
	case OpSwap:
		out := h.engine.TrySwap(ctx, step.Swap.A, step.Swap.B)
		fillOutcome(&res, out)

	case OpSelect:
		sel := h.engine.Select(ctx, *step.Select)
		res.Action = string(sel.Action)
		res.Reason = string(sel.Reason)
		if sel.Swap != nil {
			fillOutcome(&res, *sel.Swap)
		}

	case OpTick:
		for n := 0; n < step.Tick; n++ {
			h.engine.Tick(ctx)
		}

	case OpRestart:
		if h.engine.Restart(ctx) {
			res.Action = "restarted"
		} else {
			res.Action = "ignored"
		}

	case OpEnd:
		h.engine.End(ctx)
	}

	return res
}

func fillOutcome(res *StepResult, out engine.Outcome) {
	res.Status = out.Status.String()
	res.Reason = string(out.Reason)
	res.ScoreDelta = out.ScoreDelta
	res.Passes = len(out.Passes)
}

// checkExpect compares the fields the expect clause sets.
func (h *Harness) checkExpect(i int, step Step, res StepResult) {
	exp := step.Expect
	fail := func(field string, expected, actual any) {
		h.result.AddError(fmt.Sprintf("step %d (%s): %s: expected %v, got %v",
			i, res.Op, field, expected, actual))
	}

	if exp.Status != "" && exp.Status != res.Status {
		fail("status", exp.Status, res.Status)
	}
	if exp.Reason != "" && exp.Reason != res.Reason {
		fail("reason", exp.Reason, res.Reason)
	}
	if exp.Action != "" && exp.Action != res.Action {
		fail("action", exp.Action, res.Action)
	}
	if exp.ScoreDelta != nil && *exp.ScoreDelta != res.ScoreDelta {
		fail("score_delta", *exp.ScoreDelta, res.ScoreDelta)
	}
	if exp.Passes != nil && *exp.Passes != res.Passes {
		fail("passes", *exp.Passes, res.Passes)
	}

	session := h.engine.Session()
	if exp.Score != nil && *exp.Score != session.Score {
		fail("score", *exp.Score, session.Score)
	}
	if exp.Remaining != nil && *exp.Remaining != session.Remaining {
		fail("remaining", *exp.Remaining, session.Remaining)
	}
	if exp.Running != nil && *exp.Running != session.Running {
		fail("running", *exp.Running, session.Running)
	}

	if exp.Grid != nil {
		g := h.engine.CurrentGrid()
		if got := g.Format(h.palette); !slices.Equal(exp.Grid, got) {
			fail("grid", exp.Grid, got)
		}
	}

	if exp.Selection != nil {
		sel, ok := h.engine.CurrentSelection()
		switch {
		case !ok:
			fail("selection", *exp.Selection, "none")
		case sel != *exp.Selection:
			fail("selection", *exp.Selection, sel)
		}
	}
}

// observe records engine events in the trace.
func (h *Harness) observe(ev engine.Event) {
	te := TraceEvent{
		Step:  h.step,
		Kind:  string(ev.Kind),
		Seq:   ev.Seq,
		Score: ev.Session.Score,
	}

	switch ev.Kind {
	case engine.EventSwapped, engine.EventReverted, engine.EventCleared,
		engine.EventCollapsed, engine.EventRefilled, engine.EventSettled:
		te.Grid = ev.Grid.Format(h.palette)
	}
	if ev.Kind == engine.EventCleared && ev.Pass != nil {
		te.Points = ev.Pass.Points
	}

	h.result.Trace = append(h.result.Trace, te)
}

func (h *Harness) captureFinal(ctx context.Context) error {
	session := h.engine.Session()
	g := h.engine.CurrentGrid()
	h.result.Final = FinalState{
		SessionID: session.ID,
		Score:     session.Score,
		Remaining: session.Remaining,
		Running:   session.Running,
		Grid:      g.Format(h.palette),
	}
	h.result.Stable = g.Full() && !board.HasMatch(&g)

	sessions, swaps, err := h.store.Counts(ctx)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}
	h.result.LedgerSessions = sessions
	h.result.LedgerSwaps = swaps
	return nil
}
