package retarget

import (
	"testing"

	"github.com/binzume/rigconv/anim"
	"github.com/stretchr/testify/assert"
)

func TestToFrame(t *testing.T) {
	assert.Equal(t, 30, ToFrame(1.0, 30, false))
	assert.Equal(t, 31, ToFrame(1.05, 30, false))
	assert.Equal(t, 32, ToFrame(1.05, 30, true))
	assert.Equal(t, 0, ToFrame(0.033, 30, false))
	assert.Equal(t, 1, ToFrame(0.033, 30, true))
	assert.Equal(t, -2, ToFrame(-0.05, 30, false))
	assert.Equal(t, -2, ToFrame(-0.05, 30, true))
}

func TestFrameWindowContains(t *testing.T) {
	w := FrameWindow{First: 10, Last: 20}
	assert.False(t, w.Contains(9))
	assert.True(t, w.Contains(10))
	assert.True(t, w.Contains(19))
	assert.False(t, w.Contains(20))
	assert.False(t, w.Contains(25))
}

func TestRekeyCurveWindow(t *testing.T) {
	c := anim.Curve{}
	for _, sec := range []float64{5, 10, 19, 20, 25} {
		c = c.Insert(anim.Keyframe{Time: sec, Value: sec})
	}
	r := rekeyCurve(c, 1, false, FrameWindow{First: 10, Last: 20}, 1)
	assert.Equal(t, []float64{10, 19}, r.Times())
}

func TestRekeyCurveCollision(t *testing.T) {
	c := anim.Curve{
		{Time: 10.2, Value: 1},
		{Time: 10.4, Value: 2},
	}
	r := rekeyCurve(c, 1, true, FrameWindow{First: 0, Last: 100}, 1)
	assert.Len(t, r, 1)
	assert.Equal(t, 10.0, r[0].Time)
	assert.Equal(t, 2.0, r[0].Value, "later source key wins the frame")
}

func TestRekeyCurveScale(t *testing.T) {
	c := anim.Curve{{Time: 0.5, Value: 3}}
	r := rekeyCurve(c, 30, false, FrameWindow{First: 0, Last: 100}, 0.01)
	assert.Len(t, r, 1)
	assert.Equal(t, 15.0, r[0].Time)
	assert.InDelta(t, 0.03, r[0].Value, 1e-12)
}
