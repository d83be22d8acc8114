package meshfeatures

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tilemesh/pkg/gltf"
	"github.com/Faultbox/tilemesh/pkg/picking"
)

// PrimitiveFeatures holds every feature ID set of one mesh primitive
// together with the topology needed to resolve faces to vertices.
//
// Face queries operate on plain-triangle primitives; other topology
// modes report zero faces. All resolution methods answer -1 instead of
// failing: a PrimitiveFeatures built over broken data is usable, it just
// resolves nothing.
type PrimitiveFeatures struct {
	sets []FeatureIDSet

	vertexCount int64
	indexed     bool
	triangles   bool
	indices     *gltf.AccessorView
	positions   *gltf.AccessorView
}

// NewPrimitiveFeatures reads a primitive's EXT_mesh_features declaration
// and binds each set to its backing data. A primitive without the
// extension yields an empty, valid PrimitiveFeatures. The only error is
// malformed extension JSON; dangling references inside a well-formed
// declaration surface as set statuses instead.
func NewPrimitiveFeatures(doc *gltf.Document, prim *gltf.Primitive) (*PrimitiveFeatures, error) {
	ext, err := decodeExtension(prim)
	if err != nil {
		return nil, err
	}

	p := &PrimitiveFeatures{triangles: prim.TriangleMode()}

	if posIndex, ok := prim.Attributes[gltf.AttributePosition]; ok {
		if posIndex >= 0 && posIndex < len(doc.Accessors) {
			p.vertexCount = int64(doc.Accessors[posIndex].Count)
		}
		// Position payloads are optional for ID resolution; only ray
		// queries need them.
		if view, err := doc.AccessorView(posIndex); err == nil {
			p.positions = view
		}
	}

	if prim.Indices != nil {
		p.indexed = true
		if view, err := doc.AccessorView(*prim.Indices); err == nil {
			p.indices = view
		}
	}

	for _, desc := range ext.FeatureIDs {
		p.sets = append(p.sets, newFeatureIDSet(doc, prim, desc))
	}
	return p, nil
}

// Sets returns the feature ID sets in declaration order.
func (p *PrimitiveFeatures) Sets() []FeatureIDSet {
	return p.sets
}

// SetsOfKind returns the sets of one kind, preserving declaration order.
func (p *PrimitiveFeatures) SetsOfKind(kind Kind) []FeatureIDSet {
	var out []FeatureIDSet
	for _, s := range p.sets {
		if s.kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// VertexCount returns the primitive's vertex count, taken from the
// POSITION accessor declaration.
func (p *PrimitiveFeatures) VertexCount() int64 {
	return p.vertexCount
}

// Indexed reports whether the primitive declares an index accessor.
func (p *PrimitiveFeatures) Indexed() bool {
	return p.indexed
}

// FaceCount returns the number of triangles. Indexed primitives count
// index triples, non-indexed ones vertex triples. An indexed primitive
// whose index accessor is unreadable has no faces.
func (p *PrimitiveFeatures) FaceCount() int64 {
	if !p.triangles {
		return 0
	}
	if p.indexed {
		if p.indices == nil {
			return 0
		}
		return int64(p.indices.Count()) / 3
	}
	return p.vertexCount / 3
}

// FirstVertexFromFace returns the first vertex of a triangle: the value
// of indices[3*face] for indexed primitives, 3*face otherwise. Faces
// outside [0, FaceCount) resolve to -1. The returned vertex is the raw
// index value; attribute reads bound-check it against their own data.
func (p *PrimitiveFeatures) FirstVertexFromFace(face int64) int64 {
	if face < 0 || face >= p.FaceCount() {
		return -1
	}
	if p.indexed {
		v, ok := p.indices.Scalar(int(3 * face))
		if !ok {
			return -1
		}
		return v
	}
	return 3 * face
}

// FeatureIDFromFace resolves the feature ID of a triangle in one set, by
// the set's ID of the triangle's first vertex. Anything unresolvable is
// -1.
func (p *PrimitiveFeatures) FeatureIDFromFace(set FeatureIDSet, face int64) int64 {
	vertex := p.FirstVertexFromFace(face)
	if vertex < 0 {
		return -1
	}
	return set.FeatureIDForVertex(vertex)
}

// FaceVertices returns the three corner positions of a triangle. It
// reports false when positions are unreadable, the face is out of range,
// or an index points past the position data.
func (p *PrimitiveFeatures) FaceVertices(face int64) (a, b, c mgl32.Vec3, ok bool) {
	if p.positions == nil || face < 0 || face >= p.FaceCount() {
		return a, b, c, false
	}

	i0, i1, i2 := 3*face, 3*face+1, 3*face+2
	if p.indexed {
		var okA, okB, okC bool
		i0, okA = p.indices.Scalar(int(3 * face))
		i1, okB = p.indices.Scalar(int(3*face + 1))
		i2, okC = p.indices.Scalar(int(3*face + 2))
		if !okA || !okB || !okC {
			return a, b, c, false
		}
	}

	a, okA := p.positions.Vec3(int(i0))
	b, okB := p.positions.Vec3(int(i1))
	c, okC := p.positions.Vec3(int(i2))
	if !okA || !okB || !okC {
		return a, b, c, false
	}
	return a, b, c, true
}

// Bounds returns the axis-aligned box around the primitive's positions.
// It reports false when no position data is readable.
func (p *PrimitiveFeatures) Bounds() (picking.AABB, bool) {
	if p.positions == nil || p.positions.Count() == 0 {
		return picking.AABB{}, false
	}
	first, ok := p.positions.Vec3(0)
	if !ok {
		return picking.AABB{}, false
	}
	box := picking.AABB{Min: first, Max: first}
	for i := 1; i < p.positions.Count(); i++ {
		v, ok := p.positions.Vec3(i)
		if !ok {
			return picking.AABB{}, false
		}
		box = box.Extend(v)
	}
	return box, true
}

// FaceFromRay finds the nearest triangle hit by a ray, testing the
// bounding box first. It reports false when nothing is hit or the
// primitive has no readable positions.
func (p *PrimitiveFeatures) FaceFromRay(ray picking.Ray) (int64, bool) {
	if box, ok := p.Bounds(); ok {
		if _, hit := ray.IntersectAABB(box); !hit {
			return -1, false
		}
	}
	face, _, ok := picking.FaceFromRay(p, ray)
	if !ok {
		return -1, false
	}
	return face, true
}

// FeatureIDFromRay resolves the feature ID of the nearest triangle hit
// by a ray, or -1 when the ray misses.
func (p *PrimitiveFeatures) FeatureIDFromRay(set FeatureIDSet, ray picking.Ray) int64 {
	face, ok := p.FaceFromRay(ray)
	if !ok {
		return -1
	}
	return p.FeatureIDFromFace(set, face)
}
