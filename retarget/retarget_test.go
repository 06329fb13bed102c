package retarget

import (
	"testing"

	"github.com/binzume/rigconv/anim"
	"github.com/binzume/rigconv/geom"
	"github.com/binzume/rigconv/rig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableProvider struct {
	rests  map[rig.Type]*rig.Skeleton
	convs  map[[2]rig.Type]*Correspondence
	twists map[rig.Type][]TwistPair
}

func (p *tableProvider) RestPose(t rig.Type) (*rig.Skeleton, bool) {
	s, ok := p.rests[t]
	return s, ok
}

func (p *tableProvider) Correspondence(src, trg rig.Type) (*Correspondence, bool) {
	c, ok := p.convs[[2]rig.Type{src, trg}]
	return c, ok
}

func (p *tableProvider) TwistPairs(t rig.Type) []TwistPair {
	return p.twists[t]
}

func TestRetarget(t *testing.T) {
	src := mustSkeleton(t, rig.Genesis1, []*rig.Bone{
		{Name: "hip"},
		{Name: "spine", Parent: "hip"},
	})
	trg := mustSkeleton(t, rig.Genesis3, []*rig.Bone{
		{Name: "pelvis"},
		{Name: "torso", Parent: "pelvis", Orient: geom.Vector3{Y: 45}},
	})
	provider := &tableProvider{
		convs: map[[2]rig.Type]*Correspondence{
			{rig.Genesis1, rig.Genesis3}: {Bones: map[string]BoneMapping{
				"hip":   {Target: "pelvis"},
				"spine": {Target: "torso"},
			}},
		},
	}

	a := anim.NewAnimation("walk")
	for comp := 0; comp < 3; comp++ {
		a.Add("spine", anim.Rotation, comp, 0, 0)
	}
	a.Add("hip", anim.Translation, 0, 0, 1)
	a.Add("hip", anim.Translation, 1, 0, 2)
	a.Add("hip", anim.Translation, 2, 0, 3)

	c := NewConverter(provider, &Option{FPS: 30, IntegerFrames: true, UnitScale: 2, ConvertPoses: true})
	out, diags, err := c.Retarget(a, src, trg)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, []string{"pelvis", "torso"}, out.BoneNames())

	rot := out.Channel("torso", anim.Rotation)
	require.NotNil(t, rot)
	got := channelAt(rot, 0)
	assert.InDelta(t, 0, got[0], 1e-3)
	assert.InDelta(t, -45, got[1], 1e-3)
	assert.InDelta(t, 0, got[2], 1e-3)

	pos := out.Channel("pelvis", anim.Translation)
	require.NotNil(t, pos)
	assert.Equal(t, [3]float64{2, 4, 6}, channelAt(pos, 0))

	// Source clip is untouched.
	assert.Equal(t, []string{"hip", "spine"}, a.BoneNames())
}

func TestRetargetDeterministic(t *testing.T) {
	src := mustSkeleton(t, rig.Genesis1, []*rig.Bone{
		{Name: "hip"},
		{Name: "spine", Parent: "hip", Orient: geom.Vector3{X: 10, Z: -5}},
	})
	trg := mustSkeleton(t, rig.Genesis3, []*rig.Bone{
		{Name: "pelvis"},
		{Name: "torso", Parent: "pelvis", Orient: geom.Vector3{Y: 45}},
	})
	provider := &tableProvider{
		convs: map[[2]rig.Type]*Correspondence{
			{rig.Genesis1, rig.Genesis3}: {Bones: map[string]BoneMapping{
				"hip":   {Target: "pelvis"},
				"spine": {Target: "torso"},
			}},
		},
	}
	a := anim.NewAnimation("walk")
	a.Add("spine", anim.Rotation, 0, 0.1, 20)
	a.Add("spine", anim.Rotation, 1, 0.1, -30)
	a.Add("spine", anim.Rotation, 2, 0.4, 15)

	c := NewConverter(provider, &Option{FPS: 30, ConvertPoses: true})
	out1, _, err := c.Retarget(a, src, trg)
	require.NoError(t, err)
	out2, _, err := c.Retarget(a, src, trg)
	require.NoError(t, err)

	assert.Equal(t, out1.Channel("torso", anim.Rotation), out2.Channel("torso", anim.Rotation))
}

func TestRetargetUnknownRig(t *testing.T) {
	src := mustSkeleton(t, rig.Unknown, []*rig.Bone{{Name: "foo"}})
	trg := mustSkeleton(t, rig.Genesis3, []*rig.Bone{{Name: "pelvis"}})

	a := anim.NewAnimation("clip")
	a.Add("foo", anim.Rotation, 0, 0, 10)

	c := NewConverter(&tableProvider{}, nil)
	out, diags, err := c.Retarget(a, src, trg)
	require.NoError(t, err)

	require.Len(t, diags, 1)
	assert.Equal(t, UnknownRig, diags[0].Code)
	assert.Equal(t, []string{"foo"}, out.BoneNames(), "bones pass through unchanged")
	assert.Equal(t, 10.0, out.Get("foo", anim.Rotation, 0).SampleAt(0))
}

func TestRetargetNoCorrespondence(t *testing.T) {
	src := mustSkeleton(t, rig.Genesis1, []*rig.Bone{{Name: "hip"}})
	trg := mustSkeleton(t, rig.Genesis2, []*rig.Bone{{Name: "hip"}})

	a := anim.NewAnimation("clip")
	a.Add("hip", anim.Rotation, 1, 0, 5)

	c := NewConverter(&tableProvider{}, nil)
	out, diags, err := c.Retarget(a, src, trg)
	require.NoError(t, err)

	require.Len(t, diags, 1)
	assert.Equal(t, NoCorrespondence, diags[0].Code)
	assert.Equal(t, []string{"hip"}, out.BoneNames())
}

func TestRetargetMissingRestPose(t *testing.T) {
	src := mustSkeleton(t, rig.Genesis1, []*rig.Bone{{Name: "hip"}})
	trg := mustSkeleton(t, rig.Genesis3, []*rig.Bone{
		{Name: "pelvis"},
		{Name: "torso", Parent: "pelvis", Orient: geom.Vector3{Y: 45}},
	})
	provider := &tableProvider{
		convs: map[[2]rig.Type]*Correspondence{
			{rig.Genesis1, rig.Genesis3}: {Bones: map[string]BoneMapping{
				"hip":   {Target: "pelvis"},
				"spine": {Target: "torso"},
			}},
		},
	}

	a := anim.NewAnimation("clip")
	a.Add("spine", anim.Rotation, 1, 0, 0)

	c := NewConverter(provider, &Option{ConvertPoses: true})
	out, diags, err := c.Retarget(a, src, trg)
	require.NoError(t, err)

	require.Len(t, diags, 1)
	assert.Equal(t, MissingRestPose, diags[0].Code)
	assert.Equal(t, "spine", diags[0].Bone)
	require.NotNil(t, out.Channel("torso", anim.Rotation))
}

func TestRetargetCombineTwists(t *testing.T) {
	src := mustSkeleton(t, rig.Genesis3, []*rig.Bone{
		{Name: "chest"},
		{Name: "lShldrBend", Parent: "chest"},
		{Name: "lShldrTwist", Parent: "lShldrBend"},
	})
	trg := mustSkeleton(t, rig.Genesis1, []*rig.Bone{
		{Name: "chest"},
		{Name: "lShldr", Parent: "chest"},
	})
	provider := &tableProvider{
		convs: map[[2]rig.Type]*Correspondence{
			{rig.Genesis3, rig.Genesis1}: {Bones: map[string]BoneMapping{
				"lShldrBend":  {Target: "lShldr"},
				"lShldrTwist": {Target: "lShldrTwist"},
			}},
		},
		twists: map[rig.Type][]TwistPair{
			rig.Genesis3: {{Bend: "lShldrBend", Twist: "lShldrTwist"}},
		},
	}

	a := anim.NewAnimation("clip")
	a.Add("lShldrBend", anim.Rotation, 0, 0, 40)
	a.Add("lShldrTwist", anim.Rotation, 0, 0, 10)

	c := NewConverter(provider, nil)
	out, diags, err := c.Retarget(a, src, trg)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, []string{"lShldr"}, out.BoneNames(), "twist bone folded away")
	assert.Equal(t, 45.0, out.Get("lShldr", anim.Rotation, 0).SampleAt(0))
	assert.Nil(t, out.Channel("lShldrTwist", anim.Rotation))
}

func TestRetargetSplitTwist(t *testing.T) {
	src := mustSkeleton(t, rig.Genesis1, []*rig.Bone{
		{Name: "chest"},
		{Name: "lShldr", Parent: "chest"},
	})
	trg := mustSkeleton(t, rig.Genesis3, []*rig.Bone{
		{Name: "chest"},
		{Name: "lShldrBend", Parent: "chest"},
		{Name: "lShldrTwist", Parent: "lShldrBend"},
	})
	provider := &tableProvider{
		convs: map[[2]rig.Type]*Correspondence{
			{rig.Genesis1, rig.Genesis3}: {Bones: map[string]BoneMapping{
				"lShldr": {Target: "lShldrBend", Twist: "lShldrTwist"},
			}},
		},
	}

	a := anim.NewAnimation("clip")
	a.Add("lShldr", anim.Rotation, 1, 0, 30)

	c := NewConverter(provider, nil)
	out, diags, err := c.Retarget(a, src, trg)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, 30.0, out.Get("lShldrBend", anim.Rotation, 1).SampleAt(0))
	assert.Equal(t, 15.0, out.Get("lShldrTwist", anim.Rotation, 1).SampleAt(0))
}

func TestRetargetFrameWindow(t *testing.T) {
	src := mustSkeleton(t, rig.Unknown, []*rig.Bone{{Name: "hip"}})
	trg := mustSkeleton(t, rig.Unknown, []*rig.Bone{{Name: "hip"}})

	a := anim.NewAnimation("clip")
	for _, sec := range []float64{5, 10, 19.6, 20, 25} {
		a.Add("hip", anim.Rotation, 0, sec, sec)
	}

	c := NewConverter(&tableProvider{}, &Option{FPS: 1, FirstFrame: 10, LastFrame: 20})
	out, _, err := c.Retarget(a, src, trg)
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 19}, out.Get("hip", anim.Rotation, 0).Times())
}

func TestRetargetNilInput(t *testing.T) {
	c := NewConverter(&tableProvider{}, nil)
	_, _, err := c.Retarget(nil, nil, nil)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	provider := &tableProvider{
		convs: map[[2]rig.Type]*Correspondence{
			{rig.Genesis3, rig.Genesis1}: {Bones: map[string]BoneMapping{"lShldrBend": {Target: "lShldr"}}},
		},
		twists: map[rig.Type][]TwistPair{
			rig.Genesis3: {{Bend: "lShldrBend", Twist: "lShldrTwist"}},
		},
	}

	// genesis8 folds to genesis3 before lookup.
	r := Resolve(provider, rig.Genesis8, rig.Genesis1)
	require.NotNil(t, r)
	assert.Equal(t, "lShldr", r.Bones["lShldrBend"].Target)
	assert.Len(t, r.SrcTwists, 1)

	// Identity conversion: no rename, twists still reported.
	r = Resolve(provider, rig.Genesis8, rig.Genesis3)
	require.NotNil(t, r)
	assert.Empty(t, r.Bones)
	assert.Len(t, r.SrcTwists, 1)

	assert.Nil(t, Resolve(provider, rig.Genesis1, rig.Genesis2))
	require.NotNil(t, Resolve(provider, rig.Unknown, rig.Genesis1))
}
