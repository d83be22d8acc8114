// Package gltf provides parsing for glTF 2.0 assets, including the binary
// GLB container, the accessor/bufferView layer, and resource resolution.
//
// Only the subset of glTF needed for mesh inspection is modeled: buffers,
// accessors, images, samplers, textures, and meshes. Animation, skinning,
// and material data are intentionally not parsed.
package gltf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document parse errors.
var (
	ErrInvalidDocument    = errors.New("invalid glTF document")
	ErrUnsupportedVersion = errors.New("unsupported glTF version")
)

// Attribute semantic names used by this package.
const (
	AttributePosition = "POSITION"
	// AttributeTexCoordPrefix is followed by the texcoord set index, e.g. TEXCOORD_0.
	AttributeTexCoordPrefix = "TEXCOORD_"
)

// Primitive topology modes.
const (
	ModePoints        = 0
	ModeLines         = 1
	ModeLineLoop      = 2
	ModeLineStrip     = 3
	ModeTriangles     = 4
	ModeTriangleStrip = 5
	ModeTriangleFan   = 6
)

// WrapMode is a sampler texture-coordinate wrapping mode.
type WrapMode int

// Sampler wrap modes. A zero value means the sampler did not declare one,
// which glTF defines as WrapRepeat.
const (
	WrapClampToEdge    WrapMode = 33071
	WrapMirroredRepeat WrapMode = 33648
	WrapRepeat         WrapMode = 10497
)

// String returns a human-readable wrap mode name.
func (w WrapMode) String() string {
	switch w {
	case WrapClampToEdge:
		return "ClampToEdge"
	case WrapMirroredRepeat:
		return "MirroredRepeat"
	case WrapRepeat, 0:
		return "Repeat"
	default:
		return fmt.Sprintf("Unknown(%d)", int(w))
	}
}

// RawExtensions holds undecoded extension blocks keyed by extension name.
type RawExtensions map[string]json.RawMessage

// Decode unmarshals the named extension block into v.
// It returns false if the extension is not present.
func (e RawExtensions) Decode(name string, v any) (bool, error) {
	raw, ok := e[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decoding extension %s: %w", name, err)
	}
	return true, nil
}

// Asset is the glTF asset header.
type Asset struct {
	Version    string `json:"version"`
	MinVersion string `json:"minVersion,omitempty"`
	Generator  string `json:"generator,omitempty"`
	Copyright  string `json:"copyright,omitempty"`
}

// Buffer is a block of binary geometry/image data. After resource
// resolution, Data holds the payload; for GLB assets the first buffer
// is backed by the BIN chunk.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`

	Data []byte `json:"-"`
}

// BufferView is a contiguous slice of a buffer.
type BufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset,omitempty"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride,omitempty"`
	Target     int `json:"target,omitempty"`
}

// Accessor describes how to interpret a bufferView as typed elements.
// An accessor without a bufferView is legal in glTF (all-zero data); this
// package treats such accessors as having a count but no readable payload.
type Accessor struct {
	BufferView    *int          `json:"bufferView,omitempty"`
	ByteOffset    int           `json:"byteOffset,omitempty"`
	ComponentType ComponentType `json:"componentType"`
	Normalized    bool          `json:"normalized,omitempty"`
	Count         int           `json:"count"`
	Type          AccessorType  `json:"type"`
	Min           []float64     `json:"min,omitempty"`
	Max           []float64     `json:"max,omitempty"`
	Name          string        `json:"name,omitempty"`
}

// Image is a texture image source, either external (URI) or a bufferView.
// After resource resolution, Data holds the encoded image bytes.
type Image struct {
	URI        string `json:"uri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	BufferView *int   `json:"bufferView,omitempty"`
	Name       string `json:"name,omitempty"`

	Data []byte `json:"-"`
}

// Sampler holds texture sampling state. Zero-valued wrap modes mean the
// glTF default (repeat).
type Sampler struct {
	MagFilter int      `json:"magFilter,omitempty"`
	MinFilter int      `json:"minFilter,omitempty"`
	WrapS     WrapMode `json:"wrapS,omitempty"`
	WrapT     WrapMode `json:"wrapT,omitempty"`
	Name      string   `json:"name,omitempty"`
}

// Texture pairs an image source with a sampler.
type Texture struct {
	Sampler *int   `json:"sampler,omitempty"`
	Source  *int   `json:"source,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Primitive is a renderable part of a mesh: one set of vertex attributes,
// an optional index accessor, and per-primitive extension blocks.
type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Material   *int           `json:"material,omitempty"`
	Mode       *int           `json:"mode,omitempty"`
	Extensions RawExtensions  `json:"extensions,omitempty"`
}

// TriangleMode reports whether the primitive is plain triangles
// (the only topology face queries operate on).
func (p *Primitive) TriangleMode() bool {
	return p.Mode == nil || *p.Mode == ModeTriangles
}

// Mesh is a named collection of primitives.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

// Node places a mesh in the scene hierarchy. Transforms are not modeled.
type Node struct {
	Name     string `json:"name,omitempty"`
	Mesh     *int   `json:"mesh,omitempty"`
	Children []int  `json:"children,omitempty"`
}

// Scene is a list of root nodes.
type Scene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// Document is a parsed glTF asset.
type Document struct {
	Asset       Asset        `json:"asset"`
	Scene       *int         `json:"scene,omitempty"`
	Scenes      []Scene      `json:"scenes,omitempty"`
	Nodes       []Node       `json:"nodes,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
	Accessors   []Accessor   `json:"accessors,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	Images      []Image      `json:"images,omitempty"`
	Samplers    []Sampler    `json:"samplers,omitempty"`
	Textures    []Texture    `json:"textures,omitempty"`

	ExtensionsUsed     []string      `json:"extensionsUsed,omitempty"`
	ExtensionsRequired []string      `json:"extensionsRequired,omitempty"`
	Extensions         RawExtensions `json:"extensions,omitempty"`
}

// Parse parses glTF data, detecting the GLB container by its magic bytes.
func Parse(data []byte) (*Document, error) {
	if len(data) >= 4 && string(data[0:4]) == glbMagic {
		return ParseGLB(data)
	}
	return ParseJSON(data)
}

// ParseJSON parses a JSON-form (.gltf) document.
func ParseJSON(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := checkAssetVersion(doc.Asset); err != nil {
		return nil, err
	}
	return doc, nil
}

// checkAssetVersion accepts any 2.x asset.
func checkAssetVersion(a Asset) error {
	if a.Version == "" {
		return fmt.Errorf("%w: missing asset.version", ErrInvalidDocument)
	}
	if !strings.HasPrefix(a.Version, "2.") && a.Version != "2" {
		return fmt.Errorf("%w: %s", ErrUnsupportedVersion, a.Version)
	}
	return nil
}

// Open reads and parses an asset file, then resolves external and embedded
// resources relative to the file's directory.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading asset file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := doc.ResolveResources(NewResolver(filepath.Dir(path))); err != nil {
		return nil, err
	}
	return doc, nil
}

// Sampler state for a texture index, falling back to glTF defaults when the
// texture has no sampler. Returns repeat wrapping for out-of-range indices.
func (d *Document) samplerFor(textureIndex int) Sampler {
	if textureIndex < 0 || textureIndex >= len(d.Textures) {
		return Sampler{}
	}
	tex := d.Textures[textureIndex]
	if tex.Sampler == nil || *tex.Sampler < 0 || *tex.Sampler >= len(d.Samplers) {
		return Sampler{}
	}
	return d.Samplers[*tex.Sampler]
}

// TextureSampler returns the effective sampler for a texture, applying
// glTF defaults for anything the texture leaves unspecified.
func (d *Document) TextureSampler(textureIndex int) Sampler {
	s := d.samplerFor(textureIndex)
	if s.WrapS == 0 {
		s.WrapS = WrapRepeat
	}
	if s.WrapT == 0 {
		s.WrapT = WrapRepeat
	}
	return s
}

// TextureImage returns the image index referenced by a texture, or -1
// when the reference chain is broken.
func (d *Document) TextureImage(textureIndex int) int {
	if textureIndex < 0 || textureIndex >= len(d.Textures) {
		return -1
	}
	tex := d.Textures[textureIndex]
	if tex.Source == nil || *tex.Source < 0 || *tex.Source >= len(d.Images) {
		return -1
	}
	return *tex.Source
}
