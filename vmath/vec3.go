// Package vmath provides the small amount of 3D vector math the simulation needs.
// All values are float64; the simulation is single-threaded so results are
// reproducible on a given platform.
package vmath

import "math"

// Vec3 is a 3D vector. Y is up; the arena floor is the XZ plane.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for building a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Dist returns the euclidean distance between two points.
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Normalize returns the unit vector in the direction of v, or the zero vector
// when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	inv := 1 / l
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Lerp linearly interpolates from v towards o by t.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// RotateY rotates v around the +Y axis by yaw radians.
func (v Vec3) RotateY(yaw float64) Vec3 {
	s, c := math.Sincos(yaw)
	return Vec3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

// Within reports whether v lies inside the axis-aligned box [min, max].
func (v Vec3) Within(min, max Vec3) bool {
	return v.X >= min.X && v.X <= max.X &&
		v.Y >= min.Y && v.Y <= max.Y &&
		v.Z >= min.Z && v.Z <= max.Z
}

// Slice returns the vector as a three element slice, the shape used by
// serialized payloads.
func (v Vec3) Slice() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// ClosestOnSegment returns the parameter t in [0, length] of the point on the
// ray origin+dir*t closest to p, together with the squared distance from p to it.
// dir must be a unit vector.
func ClosestOnSegment(origin, dir Vec3, length float64, p Vec3) (t float64, distSq float64) {
	t = p.Sub(origin).Dot(dir)
	if t < 0 {
		t = 0
	} else if t > length {
		t = length
	}
	closest := origin.Add(dir.Scale(t))
	return t, p.Sub(closest).LenSq()
}

// RaySphere intersects the ray origin+dir*t (dir unit length) with a sphere and
// returns the smallest non-negative t. An origin inside the sphere hits at t=0.
func RaySphere(origin, dir, center Vec3, radius float64) (float64, bool) {
	m := origin.Sub(center)
	b := m.Dot(dir)
	c := m.LenSq() - radius*radius
	if c <= 0 {
		return 0, true
	}
	if b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 {
		t = 0
	}
	return t, true
}
