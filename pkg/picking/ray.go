// Package picking provides ray casting against triangle meshes.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-7

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// NewRay builds a ray, normalizing the direction.
func NewRay(origin, direction mgl32.Vec3) Ray {
	if l := direction.Len(); l > 0 {
		direction = direction.Mul(1 / l)
	}
	return Ray{Origin: origin, Direction: direction}
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates an AABB from two corners, reordering per axis so that
// Min <= Max holds.
func NewAABB(a, b mgl32.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	for axis := 0; axis < 3; axis++ {
		if box.Min[axis] > box.Max[axis] {
			box.Min[axis], box.Max[axis] = box.Max[axis], box.Min[axis]
		}
	}
	return box
}

// Extend grows the box to contain a point.
func (b AABB) Extend(p mgl32.Vec3) AABB {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Min[axis] {
			b.Min[axis] = p[axis]
		}
		if p[axis] > b.Max[axis] {
			b.Max[axis] = p[axis]
		}
	}
	return b
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box
// using the slab method. Returns the distance to intersection (t) and
// whether intersection occurred. If the ray starts inside the box,
// returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if r.Direction[axis] != 0 {
			t1 := (box.Min[axis] - r.Origin[axis]) / r.Direction[axis]
			t2 := (box.Max[axis] - r.Origin[axis]) / r.Direction[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if r.Origin[axis] < box.Min[axis] || r.Origin[axis] > box.Max[axis] {
			// Parallel to the slab and outside it.
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle tests ray intersection with a triangle using the
// Moller-Trumbore algorithm. Both triangle windings hit. Returns the
// distance along the ray and whether the triangle was hit in front of
// the origin.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (t float32, hit bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)

	p := r.Direction.Cross(edge2)
	det := edge1.Dot(p)
	if det > -epsilon && det < epsilon {
		return 0, false // Ray parallel to triangle plane
	}
	invDet := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := r.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = edge2.Dot(q) * invDet
	if t < epsilon {
		return 0, false // Triangle behind ray origin
	}
	return t, true
}

// Topology exposes indexed triangle geometry for intersection queries.
type Topology interface {
	FaceCount() int64
	FaceVertices(face int64) (a, b, c mgl32.Vec3, ok bool)
}

// FaceFromRay finds the nearest triangle of a mesh hit by a ray. Faces
// with unreadable vertices are skipped. It reports false when no
// triangle is hit.
func FaceFromRay(mesh Topology, ray Ray) (face int64, distance float32, ok bool) {
	best := float32(math.MaxFloat32)
	face = -1

	for f := int64(0); f < mesh.FaceCount(); f++ {
		a, b, c, vok := mesh.FaceVertices(f)
		if !vok {
			continue
		}
		if t, hit := ray.IntersectTriangle(a, b, c); hit && t < best {
			best = t
			face = f
		}
	}

	if face < 0 {
		return -1, 0, false
	}
	return face, best, true
}
