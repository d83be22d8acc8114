package meshfeatures

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tilemesh/pkg/gltf"
)

// textureFixture builds a valid one-set texture primitive over a 4x1
// strip with red values 10,20,30,40.
func textureFixture(t *testing.T, sampler *gltf.Sampler, channels []int) (*PrimitiveFeatures, FeatureIDSet) {
	t.Helper()
	f := newFixture()
	f.setPositionCount(3)
	texture := f.addTexture(t, redStrip(10, 20, 30, 40), 4, 1, sampler)
	f.setTexCoords(t, 0, []mgl32.Vec2{{0, 0}, {0.5, 0}, {0.9, 0}})
	f.setFeatureIDs(t, featureIDJSON{
		FeatureCount: 4,
		Texture:      &featureTextureJSON{Index: ip(texture), Channels: channels},
	})

	p := f.features(t)
	return p, p.Sets()[0]
}

func TestFeatureIDTexture_NearestSampling(t *testing.T) {
	_, set := textureFixture(t, nil, nil)
	tex := set.Texture()
	if tex.Status() != TextureValid {
		t.Fatalf("status = %v, want Valid", tex.Status())
	}

	tests := []struct {
		u    float64
		want int64
	}{
		{0, 10},
		{0.2, 10},
		{0.25, 20},
		{0.6, 30},
		{0.99, 40},
	}
	for _, tt := range tests {
		if got := tex.FeatureIDForUV(tt.u, 0); got != tt.want {
			t.Errorf("FeatureIDForUV(%g) = %d, want %d", tt.u, got, tt.want)
		}
	}
}

func TestFeatureIDTexture_WrapModes(t *testing.T) {
	tests := []struct {
		name    string
		sampler *gltf.Sampler
		u       float64
		want    int64
	}{
		{"repeat past one", nil, 1.25, 20},
		{"repeat negative", nil, -0.25, 40},
		{"repeat exactly one", nil, 1.0, 10},
		{"clamp negative", &gltf.Sampler{WrapS: gltf.WrapClampToEdge}, -0.5, 10},
		{"clamp past one", &gltf.Sampler{WrapS: gltf.WrapClampToEdge}, 1.5, 40},
		{"clamp exactly one", &gltf.Sampler{WrapS: gltf.WrapClampToEdge}, 1.0, 40},
		{"mirror past one", &gltf.Sampler{WrapS: gltf.WrapMirroredRepeat}, 1.25, 40},
		{"mirror negative", &gltf.Sampler{WrapS: gltf.WrapMirroredRepeat}, -0.25, 20},
		{"mirror second period", &gltf.Sampler{WrapS: gltf.WrapMirroredRepeat}, -1.25, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, set := textureFixture(t, tt.sampler, nil)
			if got := set.Texture().FeatureIDForUV(tt.u, 0); got != tt.want {
				t.Errorf("FeatureIDForUV(%g) = %d, want %d", tt.u, got, tt.want)
			}
		})
	}
}

func TestFeatureIDTexture_ChannelCombination(t *testing.T) {
	pixel := []color.NRGBA{{R: 0x01, G: 0x02, B: 0x03, A: 0xFF}}

	tests := []struct {
		name     string
		channels []int
		want     int64
	}{
		{"default red", nil, 1},
		{"green", []int{1}, 2},
		{"red then green", []int{0, 1}, 0x0201},
		{"blue green red", []int{2, 1, 0}, 0x010203},
		{"alpha", []int{3}, 255},
		{"all four", []int{0, 1, 2, 3}, 0x01 | 0x02<<8 | 0x03<<16 | 0xFF<<24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.setPositionCount(3)
			texture := f.addTexture(t, pixel, 1, 1, nil)
			f.setTexCoords(t, 0, []mgl32.Vec2{{0, 0}, {0, 0}, {0, 0}})
			f.setFeatureIDs(t, featureIDJSON{
				FeatureCount: 1,
				Texture:      &featureTextureJSON{Index: ip(texture), Channels: tt.channels},
			})

			set := f.features(t).Sets()[0]
			if got := set.FeatureIDForVertex(0); got != tt.want {
				t.Errorf("FeatureIDForVertex(0) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFeatureIDTexture_InvalidChannels(t *testing.T) {
	tests := []struct {
		name     string
		channels []int
	}{
		{"channel past alpha", []int{4}},
		{"negative channel", []int{-1}},
		{"too many channels", []int{0, 1, 2, 3, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, set := textureFixture(t, nil, tt.channels)
			tex := set.Texture()
			if tex.Status() != TextureInvalidChannels {
				t.Errorf("status = %v, want InvalidChannels", tex.Status())
			}
			if got := tex.FeatureIDForUV(0, 0); got != -1 {
				t.Errorf("FeatureIDForUV = %d, want -1", got)
			}
		})
	}
}

func TestFeatureIDTexture_InvalidTexture(t *testing.T) {
	t.Run("no index", func(t *testing.T) {
		f := newFixture()
		f.setPositionCount(3)
		f.setFeatureIDs(t, featureIDJSON{FeatureCount: 1, Texture: &featureTextureJSON{}})

		set := f.features(t).Sets()[0]
		if set.Kind() != KindTexture {
			t.Fatalf("kind = %v, want Texture", set.Kind())
		}
		if status := set.Texture().Status(); status != TextureInvalidTexture {
			t.Errorf("status = %v, want InvalidTexture", status)
		}
	})

	t.Run("dangling index", func(t *testing.T) {
		f := newFixture()
		f.setPositionCount(3)
		f.setFeatureIDs(t, featureIDJSON{FeatureCount: 1, Texture: &featureTextureJSON{Index: ip(7)}})

		if status := f.features(t).Sets()[0].Texture().Status(); status != TextureInvalidTexture {
			t.Errorf("status = %v, want InvalidTexture", status)
		}
	})

	t.Run("texture without source", func(t *testing.T) {
		f := newFixture()
		f.setPositionCount(3)
		f.doc.Textures = append(f.doc.Textures, gltf.Texture{})
		f.setFeatureIDs(t, featureIDJSON{FeatureCount: 1, Texture: &featureTextureJSON{Index: ip(0)}})

		if status := f.features(t).Sets()[0].Texture().Status(); status != TextureInvalidTexture {
			t.Errorf("status = %v, want InvalidTexture", status)
		}
	})
}

func TestFeatureIDTexture_InvalidImage(t *testing.T) {
	f := newFixture()
	f.setPositionCount(3)
	f.doc.Images = append(f.doc.Images, gltf.Image{Data: []byte("not an image")})
	f.doc.Textures = append(f.doc.Textures, gltf.Texture{Source: ip(0)})
	f.setTexCoords(t, 0, []mgl32.Vec2{{0, 0}, {0, 0}, {0, 0}})
	f.setFeatureIDs(t, featureIDJSON{FeatureCount: 1, Texture: &featureTextureJSON{Index: ip(0)}})

	tex := f.features(t).Sets()[0].Texture()
	if tex.Status() != TextureInvalidImage {
		t.Errorf("status = %v, want InvalidImage", tex.Status())
	}
	if got := tex.FeatureIDForVertex(0); got != -1 {
		t.Errorf("FeatureIDForVertex = %d, want -1", got)
	}
}

func TestFeatureIDTexture_MissingTexCoords(t *testing.T) {
	t.Run("attribute absent", func(t *testing.T) {
		f := newFixture()
		f.setPositionCount(3)
		texture := f.addTexture(t, redStrip(1), 1, 1, nil)
		f.setFeatureIDs(t, featureIDJSON{FeatureCount: 1, Texture: &featureTextureJSON{Index: ip(texture)}})

		if status := f.features(t).Sets()[0].Texture().Status(); status != TextureInvalidTexCoords {
			t.Errorf("status = %v, want InvalidTexCoords", status)
		}
	})

	t.Run("declared set has no attribute", func(t *testing.T) {
		f := newFixture()
		f.setPositionCount(3)
		texture := f.addTexture(t, redStrip(1), 1, 1, nil)
		f.setTexCoords(t, 0, []mgl32.Vec2{{0, 0}, {0, 0}, {0, 0}})
		f.setFeatureIDs(t, featureIDJSON{
			FeatureCount: 1,
			Texture:      &featureTextureJSON{Index: ip(texture), TexCoord: 1},
		})

		set := f.features(t).Sets()[0]
		tex := set.Texture()
		if tex.Status() != TextureInvalidTexCoords {
			t.Errorf("status = %v, want InvalidTexCoords", tex.Status())
		}
		if tex.TexCoordSet() != 1 {
			t.Errorf("TexCoordSet() = %d, want 1", tex.TexCoordSet())
		}
	})
}

func TestFeatureIDTexture_VertexOutOfRange(t *testing.T) {
	_, set := textureFixture(t, nil, nil)
	tex := set.Texture()

	for _, vertex := range []int64{-1, 3, 50} {
		if got := tex.FeatureIDForVertex(vertex); got != -1 {
			t.Errorf("FeatureIDForVertex(%d) = %d, want -1", vertex, got)
		}
	}
}

func TestTextureStatus_String(t *testing.T) {
	tests := []struct {
		status TextureStatus
		want   string
	}{
		{TextureValid, "Valid"},
		{TextureInvalidTexture, "InvalidTexture"},
		{TextureInvalidImage, "InvalidImage"},
		{TextureInvalidTexCoords, "InvalidTexCoords"},
		{TextureInvalidChannels, "InvalidChannels"},
		{TextureStatus(9), "TextureStatus(9)"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}
