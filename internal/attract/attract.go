// Package attract times the idle attract pulses: expanding rings fired at a
// player's wave tip while that player is idle, inviting passers-by to press
// the buttons. It is cosmetic state only; the engine never reads it.
//
// Everything is in normalized units. A ring's Frac runs 0..1 from centre to
// its maximum radius; the renderer scales to pixels.
package attract

// Defaults, tuned on the exhibit floor.
const (
	DefaultInterval = 0.9 // seconds between pulses while idle
	DefaultSpeed    = 1.5 // ring expansion in max-radius fractions per second

	ringPool  = 3    // rings alive at once per player
	fadeStart = 0.25 // fraction of travel before the fade begins
)

// Ring is one expanding pulse.
type Ring struct {
	Active bool
	Frac   float64 // 0..1 of the maximum radius
}

// Fade returns the ring's opacity multiplier in [0,1].
func (r Ring) Fade() float64 {
	if !r.Active {
		return 0
	}
	f := 1.0 - max0(r.Frac-fadeStart)/(1.0-fadeStart)
	return max0(f)
}

// Scheduler drives the attract pulses for both players.
type Scheduler struct {
	interval float64
	speed    float64

	timers [2]float64
	rings  [2][ringPool]Ring
	next   [2]int
}

// NewScheduler creates a scheduler with the given pulse interval (seconds)
// and ring expansion speed (fractions per second).
func NewScheduler(interval, speed float64) *Scheduler {
	return &Scheduler{interval: interval, speed: speed}
}

// Tick advances all rings by dt seconds and fires new pulses for players
// that are idle. A player's pulse timer resets while they are active so the
// first pulse after going idle waits a full interval.
func (s *Scheduler) Tick(dt float64, p1Idle, p2Idle bool) {
	idle := [2]bool{p1Idle, p2Idle}
	for p := 0; p < 2; p++ {
		if idle[p] {
			s.timers[p] += dt
			if s.timers[p] >= s.interval {
				s.timers[p] = 0
				s.fire(p)
			}
		} else {
			s.timers[p] = 0
		}

		for i := range s.rings[p] {
			r := &s.rings[p][i]
			if !r.Active {
				continue
			}
			r.Frac += s.speed * dt
			if r.Frac >= 1.0 {
				r.Active = false
				r.Frac = 0
			}
		}
	}
}

// fire recycles the oldest slot in the player's ring pool.
func (s *Scheduler) fire(p int) {
	s.rings[p][s.next[p]] = Ring{Active: true}
	s.next[p] = (s.next[p] + 1) % ringPool
}

// Rings returns the player's currently active rings, oldest first.
func (s *Scheduler) Rings(player int) []Ring {
	var out []Ring
	for i := 0; i < ringPool; i++ {
		r := s.rings[player][(s.next[player]+i)%ringPool]
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
