package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nEvents:\n")
		for i, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] step %d %s score=%d\n", i+1, ev.Step, ev.Kind, ev.Score)
		}
	}

	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertFinalScore:
		return assertFinalScore(result, a)
	case AssertFinalGrid:
		return assertFinalGrid(result, a)
	case AssertStable:
		return assertStable(result)
	case AssertEventOrder:
		return assertEventOrder(result.Trace, a)
	case AssertEventCount:
		return assertEventCount(result.Trace, a)
	case AssertLedger:
		return assertLedger(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertFinalScore(result *Result, a Assertion) error {
	if result.Final.Score != *a.Score {
		return &AssertionError{
			Type:     AssertFinalScore,
			Expected: fmt.Sprintf("score %d", *a.Score),
			Actual:   fmt.Sprintf("score %d", result.Final.Score),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertFinalGrid(result *Result, a Assertion) error {
	if !slices.Equal(result.Final.Grid, a.Grid) {
		return &AssertionError{
			Type:     AssertFinalGrid,
			Expected: strings.Join(a.Grid, "/"),
			Actual:   strings.Join(result.Final.Grid, "/"),
		}
	}
	return nil
}

func assertStable(result *Result) error {
	if !result.Stable {
		return &AssertionError{
			Type:     AssertStable,
			Expected: "full board with no match",
			Actual:   strings.Join(result.Final.Grid, "/"),
		}
	}
	return nil
}

// assertEventOrder checks that the kinds appear in order. Other events
// may come in between.
func assertEventOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, ev := range trace {
		if next < len(a.Events) && ev.Kind == a.Events[next] {
			next++
		}
	}
	if next < len(a.Events) {
		return &AssertionError{
			Type:     AssertEventOrder,
			Expected: fmt.Sprintf("events in order: %v", a.Events),
			Actual:   fmt.Sprintf("missing %s after %v", a.Events[next], a.Events[:next]),
			Trace:    trace,
		}
	}
	return nil
}

func assertEventCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Kind == a.Event {
			count++
		}
	}
	if count != *a.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%d occurrences of %s", *a.Count, a.Event),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

func assertLedger(result *Result, a Assertion) error {
	if a.Swaps != nil && *a.Swaps != result.LedgerSwaps {
		return &AssertionError{
			Type:     AssertLedger,
			Expected: fmt.Sprintf("%d swaps recorded", *a.Swaps),
			Actual:   fmt.Sprintf("%d swaps recorded", result.LedgerSwaps),
		}
	}
	if a.Sessions != nil && *a.Sessions != result.LedgerSessions {
		return &AssertionError{
			Type:     AssertLedger,
			Expected: fmt.Sprintf("%d sessions recorded", *a.Sessions),
			Actual:   fmt.Sprintf("%d sessions recorded", result.LedgerSessions),
		}
	}
	return nil
}
