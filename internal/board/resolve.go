package board

import "fmt"

// Phase is a state of the resolution loop.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhaseClearing
	PhaseCollapsing
	PhaseRefilling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseScanning:
		return "scanning"
	case PhaseClearing:
		return "clearing"
	case PhaseCollapsing:
		return "collapsing"
	case PhaseRefilling:
		return "refilling"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Scoring selects how flagged cells are counted.
type Scoring string

const (
	// ScoreWindows counts every flag entry, duplicates included.
	ScoreWindows Scoring = "window"
	// ScoreUnique counts each distinct flagged cell once per pass.
	ScoreUnique Scoring = "unique"
)

// DefaultPoints is the score of one flagged entry.
const DefaultPoints = 10

// Pass is one Scanning→Clearing→Collapsing→Refilling cycle together with
// the snapshots a presenter needs to animate it.
type Pass struct {
	Index  int
	Runs   []Run
	Flags  []Pos
	Points int

	Cleared   Grid
	Moves     []Move
	Collapsed Grid
	Refilled  []Pos
	Grid      Grid
}

// Resolution summarizes a full run of the loop.
type Resolution struct {
	Passes []Pass
	Score  int
}

// Cleared returns the number of distinct cells emptied across all passes.
func (r Resolution) Cleared() int {
	n := 0
	for _, p := range r.Passes {
		n += len(Match{Flags: p.Flags}.Unique())
	}
	return n
}

// Resolver drives a grid to a state with no matches.
type Resolver struct {
	Source  Source
	Colors  int
	Points  int
	Scoring Scoring
}

// Resolve runs the loop on g until a scan comes back clean. A grid without
// matches is left untouched and scores nothing.
func (rv *Resolver) Resolve(g *Grid) Resolution {
	var (
		res   Resolution
		cur   Pass
		match Match
	)
	state := PhaseScanning
	for state != PhaseIdle {
		switch state {
		case PhaseScanning:
			match = Scan(g)
			if match.Empty() {
				state = PhaseIdle
				continue
			}
			cur = Pass{Index: len(res.Passes), Runs: match.Runs, Flags: match.Flags}
			state = PhaseClearing

		case PhaseClearing:
			cur.Points = rv.points(match)
			res.Score += cur.Points
			Clear(g, cur.Flags)
			cur.Cleared = g.Clone()
			state = PhaseCollapsing

		case PhaseCollapsing:
			cur.Moves = Collapse(g)
			cur.Collapsed = g.Clone()
			state = PhaseRefilling

		case PhaseRefilling:
			cur.Refilled = Refill(g, rv.source(), rv.Colors)
			cur.Grid = g.Clone()
			res.Passes = append(res.Passes, cur)
			state = PhaseScanning
		}
	}
	return res
}

func (rv *Resolver) points(m Match) int {
	per := rv.Points
	if per <= 0 {
		per = DefaultPoints
	}
	if rv.Scoring == ScoreUnique {
		return per * len(m.Unique())
	}
	return per * len(m.Flags)
}

func (rv *Resolver) source() Source {
	if rv.Source == nil {
		return GlobalSource()
	}
	return rv.Source
}
