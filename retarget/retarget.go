package retarget

import (
	"fmt"

	"github.com/binzume/rigconv/anim"
	"github.com/binzume/rigconv/rig"
)

// Option configures one retargeting conversion.
type Option struct {
	// FPS converts keyframe timestamps in seconds to frame indices.
	FPS float64
	// IntegerFrames rounds frame indices to the nearest frame instead
	// of flooring them.
	IntegerFrames bool
	// FirstFrame/LastFrame is a half-open window; keyframes mapping
	// outside it are dropped.
	FirstFrame int
	LastFrame  int
	// UnitScale is applied uniformly to translation channels.
	UnitScale float64
	// ConvertPoses enables re-expressing rotations through the rest
	// change-of-basis of the source and target skeletons.
	ConvertPoses bool
}

// Converter retargets clips authored against one skeleton convention so
// they drive a structurally different one. The converter itself is
// stateless across calls; each conversion builds its own context, so
// one converter may be shared by concurrent workers as long as the
// provider is safe for concurrent reads.
type Converter struct {
	Option
	provider DataProvider
}

func NewConverter(provider DataProvider, options *Option) *Converter {
	c := &Converter{provider: provider}
	if options != nil {
		c.Option = *options
	}
	if c.FPS == 0 {
		c.FPS = 30
	}
	if c.UnitScale == 0 {
		c.UnitScale = 1
	}
	if c.FirstFrame == 0 && c.LastFrame == 0 {
		c.FirstFrame = -1000
		c.LastFrame = 1000
	}
	return c
}

// conversion states, strictly sequential.
type state int

const (
	stateIdle state = iota
	stateSignatureMatched
	stateMappingResolved
	stateReprojected
	stateDone
)

// context is the ephemeral per-conversion state: the resolved mapping,
// the cached per-bone bases and the accumulated diagnostics. It is
// discarded when the conversion finishes.
type context struct {
	state state
	conv  *Correspondence
	remap bool
	// renamed maps each output bone name back to its source name.
	renamed map[string]string
	basis   map[string]*boneBasis
	diags   []Diagnostic
}

func (ctx *context) diag(code DiagnosticCode, bone, msg string) {
	ctx.diags = append(ctx.diags, Diagnostic{Code: code, Bone: bone, Message: msg})
}

// Retarget converts a clip into the target skeleton's bone names, rest
// frames, rotation orders and frame indices. The inputs are never
// mutated; re-running with identical inputs produces identical output.
// Non-fatal degradations accumulate in the returned diagnostics list.
func (c *Converter) Retarget(a *anim.Animation, srcSkel, trgSkel *rig.Skeleton) (*anim.Animation, []Diagnostic, error) {
	if a == nil || srcSkel == nil || trgSkel == nil {
		return nil, nil, fmt.Errorf("retarget: nil input")
	}
	ctx := &context{
		state:   stateIdle,
		renamed: map[string]string{},
		basis:   map[string]*boneBasis{},
	}
	work := a.Clone()

	srcType := c.matchSignature(ctx, work, srcSkel)
	c.resolveMapping(ctx, work, srcType, trgSkel)
	c.reproject(ctx, work, srcSkel, trgSkel)
	c.rekey(ctx, work)

	ctx.state = stateDone
	return work, ctx.diags, nil
}

// matchSignature infers the source convention from the clip's bone
// names, falling back to the convention the caller declared on the
// source skeleton model. No match is non-fatal: the clip proceeds in
// no-bone-remap mode because morph and property channels are still
// meaningful without a rig conversion.
func (c *Converter) matchSignature(ctx *context, work *anim.Animation, srcSkel *rig.Skeleton) rig.Type {
	srcType := rig.DetectType(work.BoneNames())
	if srcType == rig.Unknown {
		srcType = srcSkel.Type()
	}
	ctx.remap = srcType != rig.Unknown
	if !ctx.remap {
		ctx.diag(UnknownRig, "", "no skeleton convention matches the clip bone names, bones pass through unchanged")
	}
	ctx.state = stateSignatureMatched
	return srcType
}

// resolveMapping renames the clip's bones into the target key space.
// Bones the target skeleton already knows keep their name; bones in the
// rename map are renamed; everything else passes through.
func (c *Converter) resolveMapping(ctx *context, work *anim.Animation, srcType rig.Type, trgSkel *rig.Skeleton) {
	ctx.conv = &Correspondence{}
	if ctx.remap {
		if conv := Resolve(c.provider, srcType, trgSkel.Type()); conv != nil {
			ctx.conv = conv
		} else {
			ctx.remap = false
			ctx.diag(NoCorrespondence, "", fmt.Sprintf("no correspondence table for %v to %v, bones pass through unchanged", srcType, trgSkel.Type()))
		}
	}
	for _, bname := range work.BoneNames() {
		nname := bname
		if trgSkel.Bone(bname) == nil {
			if m, ok := ctx.conv.Bones[bname]; ok {
				nname = m.Target
			}
		}
		ctx.renamed[nname] = bname
		work.Rename(bname, nname)
	}
	ctx.state = stateMappingResolved
}

// reproject re-expresses every rotation channel in the target bone's
// rest frame and rotation order, then applies the twist split/combine
// required by the convention pair.
func (c *Converter) reproject(ctx *context, work *anim.Animation, srcSkel, trgSkel *rig.Skeleton) {
	combine := ctx.combinePairs(trgSkel)
	skip := map[string]bool{}
	for _, p := range combine {
		skip[p.Twist] = true
	}

	if c.ConvertPoses && ctx.remap {
		for _, nname := range work.BoneNames() {
			if skip[nname] {
				continue
			}
			ch := work.Channel(nname, anim.Rotation)
			if ch == nil {
				continue
			}
			bname := ctx.renamed[nname]
			if bname == "" {
				bname = nname
			}
			if srcSkel.Bone(bname) == nil && trgSkel.Bone(nname) == nil {
				// Not a rig bone on either side (morphs, markers).
				continue
			}
			b, ok := ctx.basis[nname]
			if !ok {
				b = basisFor(srcSkel, bname, trgSkel, nname, ctx.diag)
				ctx.basis[nname] = b
			}
			b.reprojectChannel(ch)
		}
	}

	CombineTwists(work, combine)
	if len(ctx.conv.SrcTwists) == 0 {
		for _, m := range ctx.conv.Bones {
			if m.Twist != "" {
				SplitTwist(work, m.Target, m.Twist)
			}
		}
	}
	ctx.state = stateReprojected
}

// combinePairs selects the twist pairs to fold into single bones:
// those whose twist bone does not exist in the target skeleton. Pair
// names are mapped into the renamed key space.
func (ctx *context) combinePairs(trgSkel *rig.Skeleton) []TwistPair {
	var pairs []TwistPair
	for _, p := range ctx.conv.SrcTwists {
		bend, twist := p.Bend, p.Twist
		if m, ok := ctx.conv.Bones[bend]; ok {
			bend = m.Target
		}
		if m, ok := ctx.conv.Bones[twist]; ok {
			twist = m.Target
		}
		if trgSkel.Bone(twist) == nil {
			pairs = append(pairs, TwistPair{Bend: bend, Twist: twist})
		}
	}
	return pairs
}

// rekey converts all key times from seconds to target frame indices,
// truncating to the frame window, and applies the unit scale to
// translation channels.
func (c *Converter) rekey(ctx *context, work *anim.Animation) {
	window := FrameWindow{First: c.FirstFrame, Last: c.LastFrame}
	for _, bname := range work.BoneNames() {
		for _, kind := range []anim.Kind{anim.Translation, anim.Rotation, anim.Scale, anim.Value} {
			ch := work.Channel(bname, kind)
			if ch == nil {
				continue
			}
			scale := 1.0
			if kind == anim.Translation {
				scale = c.UnitScale
			}
			for comp, curve := range ch.Comps {
				ch.Comps[comp] = rekeyCurve(curve, c.FPS, c.IntegerFrames, window, scale)
			}
		}
	}
}
