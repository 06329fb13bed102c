package retarget

import "github.com/binzume/rigconv/rig"

// TwistPair names the two bones a convention uses to split one joint
// rotation into a primary swing and a secondary roll.
type TwistPair struct {
	Bend  string
	Twist string
}

// BoneMapping maps a source bone into the target convention. A
// non-empty Twist names the twist sibling of Target and marks the
// bone as a bend/twist decomposition point.
type BoneMapping struct {
	Target string
	Twist  string
}

// Correspondence is the bone rename map between two skeleton
// conventions plus the twist pairs each side declares. The twist lists
// belong to the conventions, not to the rename map.
type Correspondence struct {
	Bones     map[string]BoneMapping
	SrcTwists []TwistPair
	TrgTwists []TwistPair
}

// DataProvider supplies rest-pose and correspondence tables per
// skeleton convention. Implementations must be safe for concurrent
// reads; missing entries are reported via the bool, never an error.
type DataProvider interface {
	RestPose(t rig.Type) (*rig.Skeleton, bool)
	Correspondence(src, trg rig.Type) (*Correspondence, bool)
	TwistPairs(t rig.Type) []TwistPair
}

// Resolve returns the rename map and twist pairs for a conversion
// between two conventions. Conventions fold to their canonical key
// first, so genesis3 and genesis8 resolve to an identity rename. An
// identity conversion has an empty rename map but still carries the
// convention's twist pairs. A missing table for a non-identity pair
// returns nil; the caller degrades to identity mapping.
func Resolve(p DataProvider, src, trg rig.Type) *Correspondence {
	if src == rig.Unknown || trg == rig.Unknown {
		return &Correspondence{}
	}
	s, t := src.Canonical(), trg.Canonical()
	r := &Correspondence{
		SrcTwists: p.TwistPairs(s),
		TrgTwists: p.TwistPairs(t),
	}
	if s == t {
		return r
	}
	c, ok := p.Correspondence(s, t)
	if !ok {
		return nil
	}
	r.Bones = c.Bones
	return r
}
