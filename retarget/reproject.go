package retarget

import (
	"sort"

	"github.com/binzume/rigconv/anim"
	"github.com/binzume/rigconv/geom"
	"github.com/binzume/rigconv/rig"
)

// boneBasis is the cached change-of-basis for one bone, computed once
// per conversion and reused for every keyframe of that bone.
type boneBasis struct {
	// chg = inverse(transformTrg) · transformSrc. Left-composing it
	// with a keyframe rotation preserves the parent-relative joint
	// motion; the conversion inverts cleanly when run back the other
	// way and collapses to the identity when both rests agree.
	chg      *geom.Matrix4
	srcOrder geom.RotationOrder
	trgOrder geom.RotationOrder
}

func restMatrix(b *rig.Bone) *geom.Matrix4 {
	e := geom.NewEuler(b.Orient.X*geom.DegToRad, b.Orient.Y*geom.DegToRad, b.Orient.Z*geom.DegToRad, b.Order)
	return e.ToMatrix4()
}

// relativeRest builds rest · inverse(parentRest): the bone's rest
// orientation expressed relative to its own parent's rest orientation,
// isolating the bone's rest twist from inherited parent rotation.
// Roots use an identity parent rest. Returns (identity, false) when the
// bone itself has no rest data.
func relativeRest(skel *rig.Skeleton, name string) (*geom.Matrix4, geom.RotationOrder, bool) {
	b := skel.Bone(name)
	if b == nil {
		return geom.NewMatrix4(), geom.RotationOrderXYZ, false
	}
	rest := restMatrix(b)
	if p := skel.Parent(name); p != nil {
		return rest.Mul(restMatrix(p).Inverse()), b.Order, true
	}
	return rest, b.Order, true
}

// basisFor computes the per-bone change-of-basis between a source and a
// target bone. A side whose rest orientation is unknown degrades to the
// identity matrix so the raw angles pass through; the missing bone is
// reported through the diagnostics sink rather than failing the clip.
func basisFor(srcSkel *rig.Skeleton, srcName string, trgSkel *rig.Skeleton, trgName string, diag func(code DiagnosticCode, bone string, msg string)) *boneBasis {
	src, srcOrder, ok := relativeRest(srcSkel, srcName)
	if !ok {
		diag(MissingRestPose, srcName, "no rest orientation in source skeleton, using identity")
	}
	trg, trgOrder, ok := relativeRest(trgSkel, trgName)
	if !ok {
		diag(MissingRestPose, trgName, "no rest orientation in target skeleton, using identity")
	}
	return &boneBasis{
		chg:      trg.Inverse().Mul(src),
		srcOrder: srcOrder,
		trgOrder: trgOrder,
	}
}

// curvesToVectors joins a rotation channel's sparse per-component
// curves into one Euler vector per distinct key time. Components
// without a key at a time contribute zero.
func curvesToVectors(ch *anim.Channel) ([]float64, map[float64]*geom.Vector3) {
	vecs := map[float64]*geom.Vector3{}
	for comp, curve := range ch.Comps {
		if comp > 2 {
			continue
		}
		for _, k := range curve {
			v, ok := vecs[k.Time]
			if !ok {
				v = &geom.Vector3{}
				vecs[k.Time] = v
			}
			switch comp {
			case 0:
				v.X = geom.Element(k.Value)
			case 1:
				v.Y = geom.Element(k.Value)
			case 2:
				v.Z = geom.Element(k.Value)
			}
		}
	}
	times := make([]float64, 0, len(vecs))
	for t := range vecs {
		times = append(times, t)
	}
	sort.Float64s(times)
	return times, vecs
}

func vectorsToCurves(ch *anim.Channel, times []float64, vecs map[float64]*geom.Vector3) {
	comps := map[int]anim.Curve{0: nil, 1: nil, 2: nil}
	for _, t := range times {
		v := vecs[t]
		comps[0] = append(comps[0], anim.Keyframe{Time: t, Value: float64(v.X)})
		comps[1] = append(comps[1], anim.Keyframe{Time: t, Value: float64(v.Y)})
		comps[2] = append(comps[2], anim.Keyframe{Time: t, Value: float64(v.Z)})
	}
	ch.Comps = comps
}

// reprojectChannel re-expresses every keyframe of a rotation channel in
// the target bone's local frame and rotation order. Angles are degrees
// on both sides.
func (b *boneBasis) reprojectChannel(ch *anim.Channel) {
	times, vecs := curvesToVectors(ch)
	for _, t := range times {
		v := vecs[t]
		local := geom.NewEuler(v.X*geom.DegToRad, v.Y*geom.DegToRad, v.Z*geom.DegToRad, b.srcOrder).ToMatrix4()
		m := b.chg.Mul(local)
		e := geom.NewEulerFromMatrix4(m, b.trgOrder)
		vecs[t] = &geom.Vector3{
			X: e.X / geom.DegToRad,
			Y: e.Y / geom.DegToRad,
			Z: e.Z / geom.DegToRad,
		}
	}
	vectorsToCurves(ch, times, vecs)
}
