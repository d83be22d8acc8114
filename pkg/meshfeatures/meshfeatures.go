// Package meshfeatures resolves EXT_mesh_features feature IDs on glTF
// mesh primitives.
//
// A primitive can carry any number of feature ID sets, each backed by a
// vertex attribute, a texture, or implicit vertex indexing. Queries
// resolve a face or vertex to the 64-bit feature ID of the set, and
// uniformly answer -1 for anything unresolvable: out-of-range faces,
// broken accessor references, missing attributes, undecodable images.
// Malformed extension JSON is the only construction error.
package meshfeatures

import (
	"fmt"

	"github.com/Faultbox/tilemesh/pkg/gltf"
)

// Kind tells how a feature ID set stores its IDs.
type Kind int

const (
	// KindNone marks a set that declares no source of IDs; every query
	// on it resolves to -1.
	KindNone Kind = iota
	// KindAttribute reads IDs from a _FEATURE_ID_n vertex attribute.
	KindAttribute
	// KindTexture samples IDs from texture channels at vertex texcoords.
	KindTexture
	// KindImplicit equates the feature ID with the vertex index.
	KindImplicit
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindAttribute:
		return "Attribute"
	case KindTexture:
		return "Texture"
	case KindImplicit:
		return "Implicit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// FeatureIDSet is one feature ID set declared by a primitive. The kind is
// fixed by what the declaration names, even when the backing data turns
// out to be broken; per-source status values tell the two apart.
type FeatureIDSet struct {
	kind          Kind
	label         string
	featureCount  int64
	nullFeatureID int64
	propertyTable int64

	attribute *FeatureIDAttribute
	texture   *FeatureIDTexture
}

// newFeatureIDSet classifies one featureIds entry and binds its backing
// data. Classification follows the declaration: attribute wins over
// texture, texture over implicit, and a set declaring nothing but a zero
// featureCount is KindNone.
func newFeatureIDSet(doc *gltf.Document, prim *gltf.Primitive, desc featureIDJSON) FeatureIDSet {
	set := FeatureIDSet{
		label:         desc.Label,
		featureCount:  desc.FeatureCount,
		nullFeatureID: -1,
		propertyTable: -1,
	}
	if desc.NullFeatureID != nil {
		set.nullFeatureID = *desc.NullFeatureID
	}
	if desc.PropertyTable != nil {
		set.propertyTable = *desc.PropertyTable
	}

	switch {
	case desc.Attribute != nil:
		set.kind = KindAttribute
		set.attribute = newFeatureIDAttribute(doc, prim, *desc.Attribute)
	case desc.Texture != nil:
		set.kind = KindTexture
		set.texture = newFeatureIDTexture(doc, prim, desc.Texture)
	case desc.FeatureCount > 0:
		set.kind = KindImplicit
	default:
		set.kind = KindNone
	}
	return set
}

// Kind returns how the set stores its IDs.
func (s FeatureIDSet) Kind() Kind {
	return s.kind
}

// Label returns the declared label, which may be empty.
func (s FeatureIDSet) Label() string {
	return s.label
}

// FeatureCount returns the declared number of distinct features.
func (s FeatureIDSet) FeatureCount() int64 {
	return s.featureCount
}

// NullFeatureID returns the declared "no feature" sentinel, or -1 when
// the set does not declare one. It is surfaced, never interpreted:
// queries return the stored ID even when it equals the null sentinel.
func (s FeatureIDSet) NullFeatureID() int64 {
	return s.nullFeatureID
}

// PropertyTable returns the metadata table index paired with this set,
// or -1 when the set does not declare one.
func (s FeatureIDSet) PropertyTable() int64 {
	return s.propertyTable
}

// Attribute returns the backing attribute reader, or nil for other kinds.
func (s FeatureIDSet) Attribute() *FeatureIDAttribute {
	return s.attribute
}

// Texture returns the backing texture sampler, or nil for other kinds.
func (s FeatureIDSet) Texture() *FeatureIDTexture {
	return s.texture
}

// FeatureIDForVertex resolves the feature ID of one vertex, or -1.
func (s FeatureIDSet) FeatureIDForVertex(vertex int64) int64 {
	switch s.kind {
	case KindAttribute:
		return s.attribute.FeatureIDForVertex(vertex)
	case KindTexture:
		return s.texture.FeatureIDForVertex(vertex)
	case KindImplicit:
		if vertex < 0 || vertex >= s.featureCount {
			return -1
		}
		return vertex
	default:
		return -1
	}
}
