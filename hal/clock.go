package hal

import (
	"sync"
	"time"
)

// ManualClock is a virtual clock: Sleep advances it instantly. Drivers and
// sketches sharing one ManualClock see a consistent timeline without waiting.
type ManualClock struct {
	mu      sync.Mutex
	elapsed time.Duration
	sleeps  []time.Duration
}

func (mc *ManualClock) Sleep(d time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.sleeps = append(mc.sleeps, d)
	if d > 0 {
		mc.elapsed += d
	}
}

// Elapsed returns the total virtual time slept so far.
func (mc *ManualClock) Elapsed() time.Duration {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return mc.elapsed
}

// Sleeps returns every requested sleep, in call order.
func (mc *ManualClock) Sleeps() []time.Duration {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return append([]time.Duration(nil), mc.sleeps...)
}
