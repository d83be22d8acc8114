package meshfeatures

import (
	"fmt"
	"image"
	"math"

	"github.com/Faultbox/tilemesh/pkg/gltf"
)

// TextureStatus reports whether a feature ID texture is sampleable.
type TextureStatus int

const (
	// TextureValid means IDs can be sampled.
	TextureValid TextureStatus = iota
	// TextureInvalidTexture means the declared texture index does not
	// resolve to a texture.
	TextureInvalidTexture
	// TextureInvalidImage means the texture's image is missing or does
	// not decode.
	TextureInvalidImage
	// TextureInvalidTexCoords means the TEXCOORD_n attribute for the
	// declared set is missing or unreadable.
	TextureInvalidTexCoords
	// TextureInvalidChannels means the channel list is empty, longer
	// than four entries, or names a channel outside RGBA.
	TextureInvalidChannels
)

// String returns the status name.
func (s TextureStatus) String() string {
	switch s {
	case TextureValid:
		return "Valid"
	case TextureInvalidTexture:
		return "InvalidTexture"
	case TextureInvalidImage:
		return "InvalidImage"
	case TextureInvalidTexCoords:
		return "InvalidTexCoords"
	case TextureInvalidChannels:
		return "InvalidChannels"
	default:
		return fmt.Sprintf("TextureStatus(%d)", int(s))
	}
}

// FeatureIDTexture samples per-vertex feature IDs out of texture
// channels: the vertex's texcoord picks a texel by nearest-neighbor
// lookup, and the channel bytes assemble little-endian into the ID.
type FeatureIDTexture struct {
	status      TextureStatus
	channels    []int
	texCoordSet int

	texCoords *gltf.AccessorView
	img       *image.NRGBA
	wrapS     gltf.WrapMode
	wrapT     gltf.WrapMode
}

// newFeatureIDTexture binds a featureIds texture declaration to its
// image, sampler state, and texcoord accessor.
func newFeatureIDTexture(doc *gltf.Document, prim *gltf.Primitive, desc *featureTextureJSON) *FeatureIDTexture {
	tex := &FeatureIDTexture{
		texCoordSet: desc.TexCoord,
		channels:    desc.Channels,
		wrapS:       gltf.WrapRepeat,
		wrapT:       gltf.WrapRepeat,
	}
	if len(tex.channels) == 0 {
		tex.channels = []int{0}
	}

	if len(tex.channels) > 4 {
		tex.status = TextureInvalidChannels
		return tex
	}
	for _, ch := range tex.channels {
		if ch < 0 || ch > 3 {
			tex.status = TextureInvalidChannels
			return tex
		}
	}

	if desc.Index == nil {
		tex.status = TextureInvalidTexture
		return tex
	}
	imageIndex := doc.TextureImage(*desc.Index)
	if imageIndex < 0 {
		tex.status = TextureInvalidTexture
		return tex
	}

	img, err := doc.DecodedImage(imageIndex)
	if err != nil {
		tex.status = TextureInvalidImage
		return tex
	}

	accessorIndex, ok := prim.Attributes[texCoordName(desc.TexCoord)]
	if !ok {
		tex.status = TextureInvalidTexCoords
		return tex
	}
	texCoords, err := doc.AccessorView(accessorIndex)
	if err != nil {
		tex.status = TextureInvalidTexCoords
		return tex
	}

	sampler := doc.TextureSampler(*desc.Index)
	tex.status = TextureValid
	tex.img = img
	tex.texCoords = texCoords
	tex.wrapS = sampler.WrapS
	tex.wrapT = sampler.WrapT
	return tex
}

// Status reports whether the texture resolved to sampleable data.
func (t *FeatureIDTexture) Status() TextureStatus {
	return t.status
}

// TexCoordSet returns the declared texcoord set index n of TEXCOORD_n.
func (t *FeatureIDTexture) TexCoordSet() int {
	return t.texCoordSet
}

// Channels returns the channel indices combined into each ID.
func (t *FeatureIDTexture) Channels() []int {
	return t.channels
}

// FeatureIDForVertex samples the feature ID at the vertex's texcoord.
// Invalid textures and out-of-range vertices read as -1.
func (t *FeatureIDTexture) FeatureIDForVertex(vertex int64) int64 {
	if t.status != TextureValid || vertex < 0 {
		return -1
	}
	uv, ok := t.texCoords.Vec2(int(vertex))
	if !ok {
		return -1
	}
	return t.FeatureIDForUV(float64(uv.X()), float64(uv.Y()))
}

// FeatureIDForUV samples the feature ID at a texture coordinate using
// nearest-neighbor lookup after sampler wrapping.
func (t *FeatureIDTexture) FeatureIDForUV(u, v float64) int64 {
	if t.status != TextureValid {
		return -1
	}
	bounds := t.img.Bounds()
	x := texelIndex(wrapCoord(u, t.wrapS), bounds.Dx())
	y := texelIndex(wrapCoord(v, t.wrapT), bounds.Dy())

	var id int64
	for i, ch := range t.channels {
		value := gltf.ChannelValue(t.img, bounds.Min.X+x, bounds.Min.Y+y, ch)
		if value < 0 {
			return -1
		}
		id |= int64(value) << (8 * i)
	}
	return id
}

// wrapCoord maps a texture coordinate into [0,1] per the sampler's wrap
// mode.
func wrapCoord(u float64, mode gltf.WrapMode) float64 {
	if math.IsNaN(u) || math.IsInf(u, 0) {
		return 0
	}
	switch mode {
	case gltf.WrapClampToEdge:
		return math.Min(math.Max(u, 0), 1)
	case gltf.WrapMirroredRepeat:
		u = math.Abs(math.Mod(u, 2))
		if u > 1 {
			u = 2 - u
		}
		return u
	default:
		return u - math.Floor(u)
	}
}

// texelIndex converts a wrapped coordinate to a texel index, clamped so
// u == 1.0 still lands on the last texel.
func texelIndex(u float64, size int) int {
	i := int(math.Floor(u * float64(size)))
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
