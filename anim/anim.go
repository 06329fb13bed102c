package anim

// Kind identifies an animatable attribute of a bone.
type Kind int

const (
	Translation Kind = iota
	Rotation
	Scale
	Value
)

var kindNames = map[Kind]string{
	Translation: "translation",
	Rotation:    "rotation",
	Scale:       "scale",
	Value:       "value",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Components reports how many scalar components the kind carries.
func (k Kind) Components() int {
	if k == Value {
		return 1
	}
	return 3
}

// Keyframe is one sampled value of one channel component.
// Rotation values are Euler angles in degrees.
type Keyframe struct {
	Time  float64
	Value float64
}

// Curve is a keyframe sequence ordered by time with unique times.
type Curve []Keyframe

// Insert adds a keyframe keeping time order. A keyframe at the same
// time replaces the existing value.
func (c Curve) Insert(k Keyframe) Curve {
	n := len(c)
	if n == 0 || c[n-1].Time < k.Time {
		return append(c, k)
	}
	i := 0
	for i < n && c[i].Time < k.Time {
		i++
	}
	if i < n && c[i].Time == k.Time {
		c[i].Value = k.Value
		return c
	}
	c = append(c, Keyframe{})
	copy(c[i+1:], c[i:])
	c[i] = k
	return c
}

// SampleAt returns the value held from the nearest previous keyframe.
// Before the first keyframe the first value is returned. Empty curves
// sample as zero.
func (c Curve) SampleAt(t float64) float64 {
	if len(c) == 0 {
		return 0
	}
	v := c[0].Value
	for _, k := range c {
		if k.Time > t {
			break
		}
		v = k.Value
	}
	return v
}

// Times returns the key times of the curve.
func (c Curve) Times() []float64 {
	times := make([]float64, len(c))
	for i, k := range c {
		times[i] = k.Time
	}
	return times
}

func (c Curve) Clone() Curve {
	if c == nil {
		return nil
	}
	r := make(Curve, len(c))
	copy(r, c)
	return r
}

// Channel is one animatable attribute as sparse per-component curves.
// Sibling components may have different keyframe counts and times.
type Channel struct {
	Kind  Kind
	Comps map[int]Curve
}

func NewChannel(kind Kind) *Channel {
	return &Channel{Kind: kind, Comps: map[int]Curve{}}
}

func (ch *Channel) Clone() *Channel {
	r := NewChannel(ch.Kind)
	for i, c := range ch.Comps {
		r.Comps[i] = c.Clone()
	}
	return r
}
