package engine

import (
	"math"
	"time"
)

// Oscillator converts one player's delayed signal stream into a continuous
// wave position and a monotonically advancing arrow rotation.
//
// The wave and the arrow are driven by two independent angular quantities: a
// bounded bounce angle (0..pi) that derives the cosine wave position, and an
// unbounded accumulator that only ever rolls forward. Conflating the two is
// what causes visible jumps; keep them separate.
type Oscillator struct {
	params Params

	// Raw input bookkeeping.
	lastSignal    Signal
	lastInputTime time.Time
	queue         []queuedInput

	// Accepted-input timing.
	direction      int
	halfPeriod     float64
	cycleActive    bool
	prevAcceptTime time.Time
	havePrevAccept bool

	// Wave position state: cosAngle bounces 0..pi to drive yNorm.
	cosAngle float64
	cosDir   int // +1 toward pi, -1 toward 0
	cosSpeed float64

	// Settle back to centre after an uninterrupted half-cycle.
	settling    bool
	settleStart time.Time
	settleFromY float64

	everHadInput bool

	frequency float64
	yNorm     float64

	// Arrow-only accumulator: never reset, never reversed while active.
	// Advances pi rad per half-period, one full revolution per wave cycle.
	arrowAngle   float64
	arrowSpeed   float64
	displayAngle float64

	// Idle return state.
	idleReturning bool
	idleWaveFrom  float64
	idleWaveT     float64
}

// NewOscillator creates an oscillator at rest. startTime seeds the idle
// bookkeeping so attract timing starts counting from process start.
func NewOscillator(params Params, startTime time.Time) *Oscillator {
	return &Oscillator{
		params:        params,
		lastInputTime: startTime,
		direction:     1,
		halfPeriod:    1.0,
		cosAngle:      math.Pi / 2,
		cosDir:        1,
	}
}

// Submit queues a signal. A signal equal to the previous one is dropped,
// which suppresses key-repeat and held-button duplicates.
func (o *Oscillator) Submit(sig Signal, now time.Time) {
	if sig == o.lastSignal {
		return
	}
	o.lastSignal = sig
	o.lastInputTime = now
	o.everHadInput = true
	o.queue = append(o.queue, queuedInput{
		fireAt:    now.Add(time.Duration(o.params.InputDelay * float64(time.Second))),
		direction: direction(sig),
	})
}

// update advances the oscillator by dt seconds to the instant now.
// Call order within a frame: fire queued inputs, check idle entry, advance
// the bounce and arrow angles, then resolve yNorm. Matches the single
// mutation pass the frame loop guarantees.
func (o *Oscillator) update(dt float64, now time.Time) {
	idle := now.Sub(o.lastInputTime).Seconds() > o.params.IdleResetTime

	// Fire queued inputs whose delay has elapsed.
	for len(o.queue) > 0 && !now.Before(o.queue[0].fireAt) {
		in := o.queue[0]
		o.queue = o.queue[1:]

		if o.havePrevAccept {
			gap := in.fireAt.Sub(o.prevAcceptTime).Seconds()
			if gap > o.params.MinGap && gap < o.params.MaxGap {
				o.halfPeriod = gap
				o.frequency = 1.0 / (gap * 2)
			}
			// Gaps outside the window are noise; keep prior timing.
		}

		o.prevAcceptTime = in.fireAt
		o.havePrevAccept = true
		o.direction = in.direction
		o.cycleActive = true
		o.settling = false
		o.everHadInput = true
		o.idleReturning = false // input always wins over an idle return

		// Wave: re-derive the bounce angle from the current position so the
		// trajectory continues from wherever it is instead of snapping.
		o.cosSpeed = math.Pi / o.halfPeriod
		o.cosAngle = math.Acos(clamp(o.yNorm*float64(in.direction), -1, 1))
		o.cosDir = -1 // head toward 0 (the peak)

		// Arrow: only the rate changes, the angle keeps rolling.
		o.arrowSpeed = math.Pi / o.halfPeriod
	}

	// Begin the idle return if input has stopped.
	if idle && o.everHadInput && !o.idleReturning {
		o.idleReturning = true
		o.idleWaveFrom = o.yNorm
		o.idleWaveT = 0
		// Zero out active motion so the return owns yNorm, and clear the
		// accepted-input bookkeeping so a stale gap can't pollute the next
		// real cycle.
		o.cycleActive = false
		o.settling = false
		o.cosSpeed = 0
		o.arrowSpeed = 0
		o.frequency = 0
		o.lastSignal = ""
		o.havePrevAccept = false
	}

	// Advance the bounce angle, reflecting at 0 and stopping at pi.
	if !o.idleReturning && o.cycleActive && o.cosSpeed > 0 {
		o.cosAngle += float64(o.cosDir) * o.cosSpeed * dt

		if o.cosAngle <= 0 {
			o.cosAngle = -o.cosAngle
			o.cosDir = 1
		}

		if o.cosAngle >= math.Pi {
			o.cosAngle = math.Pi
			o.cycleActive = false
			o.settling = true
			o.settleStart = now
			o.settleFromY = -float64(o.direction)
		}
	}

	// Advance the arrow accumulator. It is a ratchet: no bounce, no reset.
	if !o.idleReturning && o.arrowSpeed > 0 {
		o.arrowAngle += o.arrowSpeed * dt
	}

	if o.idleReturning {
		o.idleWaveT += dt

		// Wave eases to centre, cubic ease-out.
		waveFrac := math.Min(o.idleWaveT/o.params.IdleWaveSettle, 1.0)
		waveEase := 1.0 - math.Pow(1.0-waveFrac, 3)
		y := o.idleWaveFrom * (1.0 - waveEase)

		// Arrow glides to the nearest multiple of 2pi, not absolute zero,
		// so it never unwinds through extra revolutions.
		target := math.Round(o.arrowAngle/(2*math.Pi)) * 2 * math.Pi
		diff := target - o.arrowAngle
		step := o.params.IdleReturnSpeed * dt
		arrowDone := false
		if math.Abs(diff) <= step {
			o.arrowAngle = target
			arrowDone = true
		} else {
			o.arrowAngle += math.Copysign(step, diff)
		}

		// Both schedules must finish before the soft reset.
		if waveFrac >= 1.0 && arrowDone {
			o.idleReturning = false
			o.everHadInput = false
			o.arrowAngle = 0
			y = 0
		}

		o.yNorm = y
	} else {
		switch {
		case !o.everHadInput:
			o.yNorm = 0
		case o.cycleActive:
			o.yNorm = float64(o.direction) * math.Cos(o.cosAngle)
		case o.settling:
			t := now.Sub(o.settleStart).Seconds()
			frac := math.Min(t/o.params.SettleDuration, 1.0)
			ease := 1.0 - math.Pow(1.0-frac, 2)
			o.yNorm = o.settleFromY * (1.0 - ease)
			if frac >= 1.0 {
				o.settling = false
				o.yNorm = 0
			}
		default:
			o.yNorm = 0
		}
	}

	o.displayAngle = math.Mod(o.arrowAngle, 2*math.Pi)
	if o.displayAngle < 0 {
		o.displayAngle += 2 * math.Pi
	}
}

// Position returns the normalized vertical offset in [-1, 1].
func (o *Oscillator) Position() float64 { return o.yNorm }

// DisplayAngle returns the arrow angle wrapped to [0, 2pi). It doubles as
// the phase used for sync comparison.
func (o *Oscillator) DisplayAngle() float64 { return o.displayAngle }

// Frequency returns the established wave frequency in Hz, 0 when no valid
// cycle has been measured yet.
func (o *Oscillator) Frequency() float64 { return o.frequency }

// IdleReturning reports whether the oscillator is easing back to rest.
func (o *Oscillator) IdleReturning() bool { return o.idleReturning }

// EverHadInput reports whether any signal has been accepted since the last
// soft reset.
func (o *Oscillator) EverHadInput() bool { return o.everHadInput }

// Idle reports whether the player is idle for attract purposes: never
// played, or quiet past the idle reset window (including while returning).
func (o *Oscillator) Idle(now time.Time) bool {
	if !o.everHadInput {
		return true
	}
	return now.Sub(o.lastInputTime).Seconds() > o.params.IdleResetTime
}

// QueueLen returns the number of signals still waiting out their delay.
func (o *Oscillator) QueueLen() int { return len(o.queue) }
