// Package preset holds the rest-pose and bone-correspondence tables
// the retargeting engine consumes, either built in or loaded from a
// data directory.
package preset

import (
	"sync"

	"github.com/binzume/rigconv/retarget"
	"github.com/binzume/rigconv/rig"
)

// Tables is an in-memory table set implementing retarget.DataProvider.
// Writes are expected during setup only; reads are safe concurrently.
type Tables struct {
	mu     sync.RWMutex
	rests  map[rig.Type]*rig.Skeleton
	convs  map[[2]rig.Type]*retarget.Correspondence
	twists map[rig.Type][]retarget.TwistPair
}

func NewTables() *Tables {
	return &Tables{
		rests:  map[rig.Type]*rig.Skeleton{},
		convs:  map[[2]rig.Type]*retarget.Correspondence{},
		twists: map[rig.Type][]retarget.TwistPair{},
	}
}

func (t *Tables) SetRestPose(rt rig.Type, s *rig.Skeleton) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rests[rt] = s
}

func (t *Tables) SetCorrespondence(src, trg rig.Type, c *retarget.Correspondence) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.convs[[2]rig.Type{src, trg}] = c
}

func (t *Tables) SetTwistPairs(rt rig.Type, pairs []retarget.TwistPair) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.twists[rt] = pairs
}

func (t *Tables) RestPose(rt rig.Type) (*rig.Skeleton, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.rests[rt]
	return s, ok
}

func (t *Tables) Correspondence(src, trg rig.Type) (*retarget.Correspondence, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.convs[[2]rig.Type{src, trg}]
	return c, ok
}

func (t *Tables) TwistPairs(rt rig.Type) []retarget.TwistPair {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.twists[rt]
}

// genesis3 decomposes the limb joints into bend/twist bone pairs.
var genesis3Twists = []retarget.TwistPair{
	{Bend: "lShldrBend", Twist: "lShldrTwist"},
	{Bend: "rShldrBend", Twist: "rShldrTwist"},
	{Bend: "lForearmBend", Twist: "lForearmTwist"},
	{Bend: "rForearmBend", Twist: "rForearmTwist"},
	{Bend: "lThighBend", Twist: "lThighTwist"},
	{Bend: "rThighBend", Twist: "rThighTwist"},
}

// genesis1Bones renames the single-bone joints of the older rigs onto
// the genesis3 bend bones. Bones not listed keep their name.
var genesis1Bones = map[string]retarget.BoneMapping{
	"abdomen":  {Target: "abdomenLower"},
	"abdomen2": {Target: "abdomenUpper"},
	"chest":    {Target: "chestLower"},
	"neck":     {Target: "neckLower"},
	"lShldr":   {Target: "lShldrBend", Twist: "lShldrTwist"},
	"rShldr":   {Target: "rShldrBend", Twist: "rShldrTwist"},
	"lForeArm": {Target: "lForearmBend", Twist: "lForearmTwist"},
	"rForeArm": {Target: "rForearmBend", Twist: "rForearmTwist"},
	"lThigh":   {Target: "lThighBend", Twist: "lThighTwist"},
	"rThigh":   {Target: "rThighBend", Twist: "rThighTwist"},
}

func reverseBones(m map[string]retarget.BoneMapping) map[string]retarget.BoneMapping {
	r := make(map[string]retarget.BoneMapping, len(m))
	for src, bm := range m {
		r[bm.Target] = retarget.BoneMapping{Target: src}
	}
	return r
}

// Default returns tables preloaded with the built-in conversions
// between the genesis generations. Loaded data files override the
// built-ins key by key.
func Default() *Tables {
	t := NewTables()
	t.SetTwistPairs(rig.Genesis3, genesis3Twists)
	for _, older := range []rig.Type{rig.Genesis1, rig.Genesis2} {
		t.SetCorrespondence(older, rig.Genesis3, &retarget.Correspondence{Bones: genesis1Bones})
		t.SetCorrespondence(rig.Genesis3, older, &retarget.Correspondence{Bones: reverseBones(genesis1Bones)})
	}
	return t
}
