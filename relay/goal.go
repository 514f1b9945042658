package relay

// GoalTracker is the shared completion countdown. It only ever decreases, and
// the crossing to zero is a one-time edge: Decrement reports true exactly once
// no matter how many correct responses arrive afterwards. Guarded by the
// owning Session's mutex.
type GoalTracker struct {
	remaining int
	won       bool
}

// NewGoalTracker creates a tracker counting down from target. A target of zero
// or less starts in the met state without ever firing the edge.
func NewGoalTracker(target int) *GoalTracker {
	return &GoalTracker{remaining: target, won: target <= 0}
}

// Decrement consumes one unit of the goal and reports whether this call
// crossed the victory edge. Once met, further calls are no-ops: the counter
// never goes below the point reported as victory.
func (g *GoalTracker) Decrement() bool {
	if g.won {
		return false
	}
	g.remaining--
	if g.remaining <= 0 {
		g.remaining = 0
		g.won = true
		return true
	}
	return false
}

// Met reports whether the goal has been reached.
func (g *GoalTracker) Met() bool {
	return g.won
}

// Remaining returns the current countdown value.
func (g *GoalTracker) Remaining() int {
	return g.remaining
}
