package world

// HallQuery implementation — satisfies carstate.HallQuery so each Car can
// compute its own legal actions without importing world itself.

func (w *World) GroundFloor() int { return 0 }
func (w *World) TopFloor() int    { return len(w.Floors) - 1 }

func (w *World) AnyHallCallAbove(level int) bool {
	return w.anyUpCallAbove(level) || w.anyDownCallAbove(level)
}

func (w *World) AnyHallCallBelow(level int) bool {
	return w.anyUpCallBelow(level) || w.anyDownCallBelow(level)
}

func (w *World) AnyHallCallAnywhere() bool {
	for _, f := range w.Floors {
		if f.UpButton() || f.DownButton() {
			return true
		}
	}
	return false
}

func (w *World) HasUpWaiting(level int) bool   { return w.Floors[level].HasUpWaiting() }
func (w *World) HasDownWaiting(level int) bool { return w.Floors[level].HasDownWaiting() }

// The four granular queries below feed LearningState (§3), which keys the
// Q-table on up/down hall calls above and below separately rather than the
// single combined signal carstate.HallQuery needs for legal-action
// computation.

func (w *World) anyUpCallAbove(level int) bool {
	for f := level + 1; f < len(w.Floors); f++ {
		if w.Floors[f].UpButton() {
			return true
		}
	}
	return false
}

func (w *World) anyDownCallAbove(level int) bool {
	for f := level + 1; f < len(w.Floors); f++ {
		if w.Floors[f].DownButton() {
			return true
		}
	}
	return false
}

func (w *World) anyUpCallBelow(level int) bool {
	for f := 0; f < level; f++ {
		if w.Floors[f].UpButton() {
			return true
		}
	}
	return false
}

func (w *World) anyDownCallBelow(level int) bool {
	for f := 0; f < level; f++ {
		if w.Floors[f].DownButton() {
			return true
		}
	}
	return false
}
