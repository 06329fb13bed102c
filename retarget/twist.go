package retarget

import (
	"sort"

	"github.com/binzume/rigconv/anim"
)

// CombineTwists folds each bend/twist bone pair back into a single
// rotation channel on the bend bone: bend + twist/2 per axis, the twist
// bone being a decomposition of half the effective joint rotation. Key
// times from both channels are unioned; where a time exists in only one
// channel the other channel is evaluated with held-value semantics
// before summing. The twist bone is removed afterwards. Bone names are
// source-convention names; call before renaming.
func CombineTwists(a *anim.Animation, pairs []TwistPair) {
	for _, pair := range pairs {
		tch := a.Channel(pair.Twist, anim.Rotation)
		if tch == nil {
			continue
		}
		bch := a.Channel(pair.Bend, anim.Rotation)
		for comp := 0; comp < 3; comp++ {
			var bcurve, tcurve anim.Curve
			if bch != nil {
				bcurve = bch.Comps[comp]
			}
			tcurve = tch.Comps[comp]
			if len(bcurve) == 0 && len(tcurve) == 0 {
				continue
			}
			var merged anim.Curve
			for _, t := range unionTimes(bcurve, tcurve) {
				merged = append(merged, anim.Keyframe{
					Time:  t,
					Value: bcurve.SampleAt(t) + tcurve.SampleAt(t)/2,
				})
			}
			a.Set(pair.Bend, anim.Rotation, comp, merged)
		}
		a.Remove(pair.Twist)
	}
}

// SplitTwist distributes a combined rotation over separate bend and
// twist bones: the bend bone keeps the full rotation and the twist bone
// receives half of it on the same axes. A fixed even split; no attempt
// is made to infer an asymmetric one.
func SplitTwist(a *anim.Animation, bend, twist string) {
	bch := a.Channel(bend, anim.Rotation)
	if bch == nil {
		return
	}
	for comp := 0; comp < 3; comp++ {
		curve := bch.Comps[comp]
		if len(curve) == 0 {
			continue
		}
		half := make(anim.Curve, len(curve))
		for i, k := range curve {
			half[i] = anim.Keyframe{Time: k.Time, Value: k.Value / 2}
		}
		a.Set(twist, anim.Rotation, comp, half)
	}
}

// unionTimes returns the sorted union of the key times of two curves.
func unionTimes(a, b anim.Curve) []float64 {
	var times []float64
	seen := map[float64]bool{}
	for _, c := range []anim.Curve{a, b} {
		for _, k := range c {
			if !seen[k.Time] {
				seen[k.Time] = true
				times = append(times, k.Time)
			}
		}
	}
	sort.Float64s(times)
	return times
}
