package state

import "math"

// Ticks counts logical animation time.
type Ticks uint32

// Add applies a signed delta, clamping at zero and at the maximum tick.
func (t Ticks) Add(delta int32) Ticks {
	v := int64(t) + int64(delta)
	if v < 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return Ticks(v)
}

// Playback describes automatic clock advancement: the clock runs from
// Offset to Offset+Duration at FPS ticks per second, then either stops or
// restarts at Offset.
type Playback struct {
	Offset   Ticks `json:"offset"`
	Duration Ticks `json:"duration"`
	FPS      uint8 `json:"fps"`
	Repeat   bool  `json:"repeat"`
}

// End is the first tick after the playback window.
func (p Playback) End() Ticks {
	return p.Offset.Add(int32(min(uint64(p.Duration), math.MaxInt32)))
}

// step advances clock by one tick under p. It returns the new clock value
// and whether playback continues.
func (p Playback) step(clock Ticks) (Ticks, bool) {
	next := clock.Add(1)
	if next < p.End() {
		return next, true
	}
	if p.Repeat {
		return p.Offset, true
	}
	return p.End(), false
}
