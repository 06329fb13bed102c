package geom

import (
	"math"
	"testing"
)

func TestEuler(t *testing.T) {
	const eps = 0.000001

	for i, c := range []struct {
		order   RotationOrder
		x, y, z float32
	}{
		{RotationOrderXYZ, 10, 20, 30},
		{RotationOrderXYZ, 10, 90, 0},
		{RotationOrderYXZ, 10, 20, 30},
		{RotationOrderYXZ, 90, 10, 0},
		{RotationOrderZXY, 10, 20, 30},
		{RotationOrderZXY, 90, 0, 10},
		{RotationOrderZYX, 10, 20, 30},
		{RotationOrderZYX, 0, 90, 10},
		{RotationOrderYZX, 10, 20, 30},
		{RotationOrderYZX, 0, 20, 90},
		{RotationOrderXZY, 10, 20, 30},
		{RotationOrderXZY, 10, 0, 90},
	} {
		e1 := NewEuler(c.x*math.Pi/180, c.y*math.Pi/180, c.z*math.Pi/180, c.order)
		q := e1.ToQuaternion()
		e2 := NewEulerFromQuaternion(q, c.order)

		if e1.Vector3.Sub(&e2.Vector3).Len() > eps {
			t.Error("euler: ", i, e1, e2)
		}
		if math.Abs(float64(q.Len()-1)) > eps {
			t.Error("Quaternion.Len() != 1", e1)
		}
	}
}

func TestEulerToMatrix4(t *testing.T) {
	const eps = 0.000001

	for i, c := range []struct {
		order   RotationOrder
		x, y, z float32
	}{
		{RotationOrderXYZ, 10, 20, 30},
		{RotationOrderYXZ, 10, 20, 30},
		{RotationOrderZXY, 10, 20, 30},
		{RotationOrderZYX, 10, 20, 30},
		{RotationOrderYZX, 10, 20, 30},
		{RotationOrderXZY, 10, 20, 30},
	} {
		e1 := NewEuler(c.x*math.Pi/180, c.y*math.Pi/180, c.z*math.Pi/180, c.order)
		e2 := NewEulerFromMatrix4(e1.ToMatrix4(), c.order)
		if e1.Vector3.Sub(&e2.Vector3).Len() > eps {
			t.Error("euler: ", i, e1, e2)
		}
	}
}

func TestEulerToMatrix4_Compose(t *testing.T) {
	const eps = 0.000001

	// XYZ order composes as Rx * Ry * Rz.
	e := NewEuler(10*math.Pi/180, 20*math.Pi/180, 30*math.Pi/180, RotationOrderXYZ)
	rx := NewEuler(e.X, 0, 0, RotationOrderXYZ).ToMatrix4()
	ry := NewEuler(0, e.Y, 0, RotationOrderXYZ).ToMatrix4()
	rz := NewEuler(0, 0, e.Z, RotationOrderXYZ).ToMatrix4()
	m1 := e.ToMatrix4()
	m2 := rx.Mul(ry).Mul(rz)
	for i := range m1 {
		if math.Abs(float64(m1[i]-m2[i])) > eps {
			t.Error("matrix: ", i, m1, m2)
		}
	}
}

func TestRotationOrderString(t *testing.T) {
	for _, o := range []RotationOrder{
		RotationOrderXYZ, RotationOrderYXZ, RotationOrderZXY,
		RotationOrderZYX, RotationOrderYZX, RotationOrderXZY,
	} {
		o2, err := ParseRotationOrder(o.String())
		if err != nil {
			t.Fatal(err)
		}
		if o2 != o {
			t.Error("order: ", o, o2)
		}
	}
	if _, err := ParseRotationOrder("XXX"); err == nil {
		t.Error("should be an error")
	}
}
