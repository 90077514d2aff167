package wx

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// Rendering samples it exactly once per pass.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for report age coloring.
// Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
