package retarget

import (
	"math"

	"github.com/binzume/rigconv/anim"
)

// FrameWindow is a half-open frame range [First, Last). Keyframes
// mapping outside the window are dropped, which is a truncation
// policy rather than an error.
type FrameWindow struct {
	First int
	Last  int
}

// Contains reports whether a frame index is inside the window.
func (w FrameWindow) Contains(frame int) bool {
	return frame >= w.First && frame < w.Last
}

// ToFrame converts a timestamp in seconds to a discrete frame index:
// rounded to the nearest frame when roundToInteger is set, floored
// otherwise.
func ToFrame(timeSeconds, fps float64, roundToInteger bool) int {
	n := timeSeconds * fps
	if roundToInteger {
		return int(math.Round(n))
	}
	return int(math.Floor(n))
}

// rekeyCurve maps a curve's key times from seconds to frame indices,
// dropping keys outside the window. Several source keys landing on the
// same frame keep the last one in time order, matching the channel
// store's last-write merge policy.
func rekeyCurve(c anim.Curve, fps float64, round bool, window FrameWindow, scale float64) anim.Curve {
	var r anim.Curve
	for _, k := range c {
		n := ToFrame(k.Time, fps, round)
		if !window.Contains(n) {
			continue
		}
		r = r.Insert(anim.Keyframe{Time: float64(n), Value: k.Value * scale})
	}
	return r
}
