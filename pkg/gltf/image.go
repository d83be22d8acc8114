package gltf

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes encoded image bytes into straight-alpha RGBA pixels.
// PNG and JPEG cover the core glTF mime types; BMP, TIFF, and WebP are
// registered for assets that carry them anyway.
//
// The result always uses NRGBA storage so channel reads see the stored
// byte values rather than alpha-premultiplied ones.
func DecodeImage(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba, nil
	}
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	return nrgba, nil
}

// DecodedImage decodes the image at the given index, resolving nothing:
// the image's Data must already be populated.
func (d *Document) DecodedImage(index int) (*image.NRGBA, error) {
	if index < 0 || index >= len(d.Images) {
		return nil, fmt.Errorf("image %d out of range", index)
	}
	img := d.Images[index]
	if img.Data == nil {
		return nil, fmt.Errorf("image %d has no resolved data", index)
	}
	decoded, err := DecodeImage(img.Data)
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", index, err)
	}
	return decoded, nil
}

// ChannelValue reads one 8-bit channel (0=R, 1=G, 2=B, 3=A) of a pixel.
// Out-of-range coordinates or channels read as -1.
func ChannelValue(img *image.NRGBA, x, y, channel int) int {
	if img == nil || channel < 0 || channel > 3 {
		return -1
	}
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return -1
	}
	offset := img.PixOffset(x, y)
	return int(img.Pix[offset+channel])
}
