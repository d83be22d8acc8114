// Package inspect builds human-readable reports about the feature ID
// sets carried by a glTF document's mesh primitives.
package inspect

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tilemesh/internal/logger"
	"github.com/Faultbox/tilemesh/pkg/gltf"
	"github.com/Faultbox/tilemesh/pkg/meshfeatures"
)

// DocumentReport summarizes a whole document: top-level object counts
// plus one PrimitiveReport per mesh primitive.
type DocumentReport struct {
	Path       string            `json:"path,omitempty"`
	Version    string            `json:"version"`
	Generator  string            `json:"generator,omitempty"`
	Counts     DocumentCounts    `json:"counts"`
	Primitives []PrimitiveReport `json:"primitives"`
}

// DocumentCounts are the document's top-level array sizes.
type DocumentCounts struct {
	Meshes      int `json:"meshes"`
	Primitives  int `json:"primitives"`
	Accessors   int `json:"accessors"`
	Buffers     int `json:"buffers"`
	BufferViews int `json:"bufferViews"`
	Images      int `json:"images"`
	Textures    int `json:"textures"`
}

// PrimitiveReport summarizes one primitive's topology and its declared
// feature ID sets.
type PrimitiveReport struct {
	Mesh        int         `json:"mesh"`
	MeshName    string      `json:"meshName,omitempty"`
	Primitive   int         `json:"primitive"`
	Mode        int         `json:"mode"`
	VertexCount int64       `json:"vertexCount"`
	FaceCount   int64       `json:"faceCount"`
	Indexed     bool        `json:"indexed"`
	Sets        []SetReport `json:"sets"`
}

// SetReport summarizes one feature ID set. Status is empty for implicit
// sets, which have no backing data to break.
type SetReport struct {
	Index         int    `json:"index"`
	Kind          string `json:"kind"`
	Label         string `json:"label,omitempty"`
	FeatureCount  int64  `json:"featureCount"`
	NullFeatureID int64  `json:"nullFeatureId"`
	PropertyTable int64  `json:"propertyTable"`
	Status        string `json:"status,omitempty"`
	Attribute     *int64 `json:"attribute,omitempty"`
	TexCoordSet   *int   `json:"texCoord,omitempty"`
	Channels      []int  `json:"channels,omitempty"`
}

// Document walks every mesh primitive and builds a full report.
// Primitives whose extension JSON does not parse are reported with no
// sets and logged, never skipped.
func Document(doc *gltf.Document, path string) *DocumentReport {
	report := &DocumentReport{
		Path:      path,
		Version:   doc.Asset.Version,
		Generator: doc.Asset.Generator,
		Counts: DocumentCounts{
			Meshes:      len(doc.Meshes),
			Accessors:   len(doc.Accessors),
			Buffers:     len(doc.Buffers),
			BufferViews: len(doc.BufferViews),
			Images:      len(doc.Images),
			Textures:    len(doc.Textures),
		},
	}

	for m := range doc.Meshes {
		mesh := &doc.Meshes[m]
		report.Counts.Primitives += len(mesh.Primitives)
		for p := range mesh.Primitives {
			report.Primitives = append(report.Primitives, buildPrimitive(doc, m, p))
		}
	}
	return report
}

// Primitive builds a report for a single primitive, addressed by mesh
// and primitive index.
func Primitive(doc *gltf.Document, meshIndex, primIndex int) (*PrimitiveReport, error) {
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range (document has %d)", meshIndex, len(doc.Meshes))
	}
	mesh := &doc.Meshes[meshIndex]
	if primIndex < 0 || primIndex >= len(mesh.Primitives) {
		return nil, fmt.Errorf("primitive %d out of range (mesh %d has %d)", primIndex, meshIndex, len(mesh.Primitives))
	}
	report := buildPrimitive(doc, meshIndex, primIndex)
	return &report, nil
}

func buildPrimitive(doc *gltf.Document, meshIndex, primIndex int) PrimitiveReport {
	mesh := &doc.Meshes[meshIndex]
	prim := &mesh.Primitives[primIndex]

	report := PrimitiveReport{
		Mesh:      meshIndex,
		MeshName:  mesh.Name,
		Primitive: primIndex,
		Mode:      gltf.ModeTriangles,
	}
	if prim.Mode != nil {
		report.Mode = *prim.Mode
	}

	features, err := meshfeatures.NewPrimitiveFeatures(doc, prim)
	if err != nil {
		logger.Warn("malformed mesh features extension",
			zap.Int("mesh", meshIndex),
			zap.Int("primitive", primIndex),
			zap.Error(err))
		return report
	}

	report.VertexCount = features.VertexCount()
	report.FaceCount = features.FaceCount()
	report.Indexed = features.Indexed()

	for i, set := range features.Sets() {
		report.Sets = append(report.Sets, buildSet(i, set))
	}
	logger.Debug("inspected primitive",
		zap.Int("mesh", meshIndex),
		zap.Int("primitive", primIndex),
		zap.Int("sets", len(report.Sets)))
	return report
}

func buildSet(index int, set meshfeatures.FeatureIDSet) SetReport {
	report := SetReport{
		Index:         index,
		Kind:          set.Kind().String(),
		Label:         set.Label(),
		FeatureCount:  set.FeatureCount(),
		NullFeatureID: set.NullFeatureID(),
		PropertyTable: set.PropertyTable(),
	}

	switch set.Kind() {
	case meshfeatures.KindAttribute:
		attr := set.Attribute()
		report.Status = attr.Status().String()
		setIndex := attr.SetIndex()
		report.Attribute = &setIndex
	case meshfeatures.KindTexture:
		tex := set.Texture()
		report.Status = tex.Status().String()
		texCoord := tex.TexCoordSet()
		report.TexCoordSet = &texCoord
		report.Channels = tex.Channels()
	}
	return report
}
