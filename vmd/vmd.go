// Package vmd reads Vocaloid Motion Data (.vmd) files into animation
// clips. Bone rotations are stored as quaternions in the file and come
// out as XYZ Euler angles in degrees; key times are converted from
// frame numbers to seconds at the format's fixed 30fps.
package vmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/binzume/rigconv/anim"
	"github.com/binzume/rigconv/geom"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const signature = "Vocaloid Motion Data 0002"

// FPS is the fixed frame rate VMD motions are authored at.
const FPS = 30

type parser struct {
	r   io.Reader
	err error
}

func (p *parser) read(v interface{}) {
	if p.err == nil {
		p.err = binary.Read(p.r, binary.LittleEndian, v)
	}
}

func (p *parser) readInt() int {
	var v uint32
	p.read(&v)
	return int(v)
}

func (p *parser) readString(n int) string {
	b := make([]byte, n)
	p.read(b)
	utf8Data, _, _ := transform.Bytes(japanese.ShiftJIS.NewDecoder(), bytes.SplitN(b, []byte{0}, 2)[0])
	return string(utf8Data)
}

// Parse reads a VMD motion. Bone samples become rotation and
// translation channels, morph samples become value channels.
func Parse(r io.Reader) (*anim.Animation, error) {
	p := &parser{r: r}

	if format := p.readString(30); p.err == nil && format != signature {
		return nil, fmt.Errorf("vmd: format error: %q", format)
	}
	a := anim.NewAnimation(p.readString(20))

	boneFrames := p.readInt()
	for i := 0; i < boneFrames && p.err == nil; i++ {
		target := p.readString(15)
		t := float64(p.readInt()) / FPS
		var pos [3]float32
		var rot [4]float32
		var params [64]byte
		p.read(&pos)
		p.read(&rot)
		p.read(&params)
		if p.err != nil {
			break
		}
		for comp, v := range pos {
			a.Add(target, anim.Translation, comp, t, float64(v))
		}
		q := &geom.Vector4{X: rot[0], Y: rot[1], Z: rot[2], W: rot[3]}
		e := geom.NewEulerFromQuaternion(q, geom.RotationOrderXYZ)
		a.Add(target, anim.Rotation, 0, t, float64(e.X)/geom.DegToRad)
		a.Add(target, anim.Rotation, 1, t, float64(e.Y)/geom.DegToRad)
		a.Add(target, anim.Rotation, 2, t, float64(e.Z)/geom.DegToRad)
	}

	morphFrames := p.readInt()
	for i := 0; i < morphFrames && p.err == nil; i++ {
		target := p.readString(15)
		t := float64(p.readInt()) / FPS
		var value float32
		p.read(&value)
		if p.err != nil {
			break
		}
		a.Add(target, anim.Value, 0, t, float64(value))
	}

	if p.err != nil {
		return nil, fmt.Errorf("vmd: %w", p.err)
	}
	return a, nil
}

// Load reads a .vmd file.
func Load(path string) (*anim.Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
