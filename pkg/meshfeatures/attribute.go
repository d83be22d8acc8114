package meshfeatures

import (
	"fmt"

	"github.com/Faultbox/tilemesh/pkg/gltf"
)

// AttributeStatus reports whether a feature ID attribute is readable.
type AttributeStatus int

const (
	// AttributeValid means per-vertex IDs can be read.
	AttributeValid AttributeStatus = iota
	// AttributeMissing means the primitive has no _FEATURE_ID_n attribute
	// for the declared set index.
	AttributeMissing
	// AttributeInvalidAccessor means the attribute names an accessor that
	// is out of range or unreadable.
	AttributeInvalidAccessor
)

// String returns the status name.
func (s AttributeStatus) String() string {
	switch s {
	case AttributeValid:
		return "Valid"
	case AttributeMissing:
		return "MissingAttribute"
	case AttributeInvalidAccessor:
		return "InvalidAccessor"
	default:
		return fmt.Sprintf("AttributeStatus(%d)", int(s))
	}
}

// FeatureIDAttribute reads per-vertex feature IDs from a _FEATURE_ID_n
// vertex attribute.
type FeatureIDAttribute struct {
	status   AttributeStatus
	setIndex int64
	ids      *gltf.AccessorView
}

// newFeatureIDAttribute binds set index n to the primitive's
// _FEATURE_ID_n attribute accessor.
func newFeatureIDAttribute(doc *gltf.Document, prim *gltf.Primitive, setIndex int64) *FeatureIDAttribute {
	attr := &FeatureIDAttribute{setIndex: setIndex}

	accessorIndex, ok := prim.Attributes[AttributeName(setIndex)]
	if !ok {
		attr.status = AttributeMissing
		return attr
	}

	ids, err := doc.AccessorView(accessorIndex)
	if err != nil {
		attr.status = AttributeInvalidAccessor
		return attr
	}

	attr.status = AttributeValid
	attr.ids = ids
	return attr
}

// Status reports whether the attribute resolved to readable data.
func (a *FeatureIDAttribute) Status() AttributeStatus {
	return a.status
}

// SetIndex returns the declared attribute set index n.
func (a *FeatureIDAttribute) SetIndex() int64 {
	return a.setIndex
}

// Count returns the number of per-vertex IDs, or 0 when invalid.
func (a *FeatureIDAttribute) Count() int64 {
	if a.status != AttributeValid {
		return 0
	}
	return int64(a.ids.Count())
}

// FeatureIDForVertex reads the feature ID stored for a vertex, widened to
// int64. Invalid attributes and out-of-range vertices read as -1.
func (a *FeatureIDAttribute) FeatureIDForVertex(vertex int64) int64 {
	if a.status != AttributeValid || vertex < 0 {
		return -1
	}
	id, ok := a.ids.Scalar(int(vertex))
	if !ok {
		return -1
	}
	return id
}
