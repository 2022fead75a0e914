// Package metrics holds performance figures observed during a run. Each
// figure latches the first time its threshold is crossed and never changes
// afterwards.
package metrics

// Metric observes every integration step.
type Metric interface {
	Name() string
	Observe(t, speedMs, distanceM float64)
	Value() (float64, bool)
	Done() bool
	Reset()
}

// SpeedLatch records the time at which speed first reaches a threshold.
type SpeedLatch struct {
	name      string
	threshold float64
	at        float64
	done      bool
}

func NewSpeedLatch(name string, thresholdMs float64) *SpeedLatch {
	return &SpeedLatch{name: name, threshold: thresholdMs}
}

func (s *SpeedLatch) Name() string { return s.name }

func (s *SpeedLatch) Observe(t, speedMs, distanceM float64) {
	if s.done || speedMs < s.threshold {
		return
	}
	s.at = t
	s.done = true
}

func (s *SpeedLatch) Value() (float64, bool) { return s.at, s.done }
func (s *SpeedLatch) Done() bool             { return s.done }

func (s *SpeedLatch) Reset() {
	s.at = 0
	s.done = false
}

// DistanceLatch records elapsed time and trap speed when distance first
// reaches a threshold.
type DistanceLatch struct {
	name      string
	threshold float64
	at        float64
	trap      float64
	done      bool
}

func NewDistanceLatch(name string, thresholdM float64) *DistanceLatch {
	return &DistanceLatch{name: name, threshold: thresholdM}
}

func (d *DistanceLatch) Name() string { return d.name }

func (d *DistanceLatch) Observe(t, speedMs, distanceM float64) {
	if d.done || distanceM < d.threshold {
		return
	}
	d.at = t
	d.trap = speedMs
	d.done = true
}

func (d *DistanceLatch) Value() (float64, bool) { return d.at, d.done }

// TrapSpeed is the speed at the instant the distance was reached.
func (d *DistanceLatch) TrapSpeed() (float64, bool) { return d.trap, d.done }

func (d *DistanceLatch) Done() bool { return d.done }

func (d *DistanceLatch) Reset() {
	d.at, d.trap = 0, 0
	d.done = false
}

// AllDone reports whether every metric has latched.
func AllDone(ms []Metric) bool {
	for _, m := range ms {
		if !m.Done() {
			return false
		}
	}
	return true
}
