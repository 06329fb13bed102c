package vmd

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/binzume/rigconv/anim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedString(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

func buildMotion(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := func(v interface{}) {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	w(fixedString("Vocaloid Motion Data 0002", 30))
	w(fixedString("test motion", 20))

	w(uint32(1)) // bone samples
	w(fixedString("center", 15))
	w(uint32(30))
	w([3]float32{1, 2, 3})
	// 60 degrees around Z.
	w([4]float32{0, 0, 0.5, 0.8660254})
	w([64]byte{})

	w(uint32(1)) // morph samples
	w(fixedString("smile", 15))
	w(uint32(15))
	w(float32(0.75))

	return buf.Bytes()
}

func TestParse(t *testing.T) {
	a, err := Parse(bytes.NewReader(buildMotion(t)))
	require.NoError(t, err)
	assert.Equal(t, "test motion", a.Name)

	rot := a.Channel("center", anim.Rotation)
	require.NotNil(t, rot)
	assert.InDelta(t, 0, rot.Comps[0].SampleAt(1), 1e-3)
	assert.InDelta(t, 0, rot.Comps[1].SampleAt(1), 1e-3)
	assert.InDelta(t, 60, rot.Comps[2].SampleAt(1), 1e-3)

	pos := a.Channel("center", anim.Translation)
	require.NotNil(t, pos)
	assert.Equal(t, []float64{1}, pos.Comps[0].Times(), "frame 30 is one second")
	assert.Equal(t, 2.0, pos.Comps[1].SampleAt(1))

	morph := a.Channel("smile", anim.Value)
	require.NotNil(t, morph)
	assert.InDelta(t, 0.75, morph.Comps[0].SampleAt(0.5), 1e-6)
}

func TestParseBadSignature(t *testing.T) {
	_, err := Parse(bytes.NewReader(fixedString("not a motion file", 128)))
	assert.Error(t, err)
}

func TestParseTruncated(t *testing.T) {
	data := buildMotion(t)
	_, err := Parse(bytes.NewReader(data[:60]))
	assert.Error(t, err)
}
