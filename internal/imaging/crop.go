package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/imageio-mcp/internal/convert"
	"github.com/ironsheep/imageio-mcp/internal/imageio/goimage"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// Crop extracts a rectangular region from an image.
//
// The region is addressed in place as a strided view of the source pixels and
// gathered into a new packed image; the source is not modified. The result
// keeps the source's format, channels and attributes. Only the first plane
// of a volume is cropped.
func Crop(img *Image, x1, y1, x2, y2 int) (*Image, error) {
	spec := &img.Spec
	if x1 < 0 || y1 < 0 || x2 > spec.Width || y2 > spec.Height {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			x1, y1, x2, y2, spec.Width, spec.Height)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	out := &Image{Path: img.Path, Format: img.Format, Spec: spec.Clone()}
	out.Spec.X, out.Spec.Y, out.Spec.Z = 0, 0, 0
	out.Spec.Width, out.Spec.Height, out.Spec.Depth = x2-x1, y2-y1, 1
	out.Spec.FullX, out.Spec.FullY, out.Spec.FullZ = 0, 0, 0
	out.Spec.FullWidth, out.Spec.FullHeight, out.Spec.FullDepth = out.Spec.Width, out.Spec.Height, 1
	out.Spec.TileWidth, out.Spec.TileHeight, out.Spec.TileDepth = 0, 0, 0

	// Source strides stay those of the full image while the extent shrinks.
	pixel := spec.PixelBytes()
	xs, ys, zs := pixel, spec.ScanlineBytes(), spec.ScanlineBytes()*spec.Height
	start := img.pixelOffset(x1, y1)
	out.Pixels = make([]byte, out.Spec.ImageBytes())
	view, err := convert.Contiguize(img.Pixels[start:], spec.NChannels, xs, ys, zs,
		out.Pixels, out.Spec.Width, out.Spec.Height, 1, spec.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to crop: %w", err)
	}
	if &view[0] != &out.Pixels[0] {
		copy(out.Pixels, view)
	}
	return out, nil
}

// QuadrantBounds returns the rectangle of a named region of a width x
// height image. Names are "top-left", "top-right", "bottom-left",
// "bottom-right", "top-half", "bottom-half", "left-half", "right-half" and
// "center" (the middle 50%).
func QuadrantBounds(width, height int, region string) (x1, y1, x2, y2 int, err error) {
	w, h := width, height
	midX, midY := w/2, h/2

	switch region {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW, qH := w/4, h/4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return 0, 0, 0, 0, fmt.Errorf("unknown region: %s", region)
	}
	return x1, y1, x2, y2, nil
}

// CropQuadrant extracts a named region from an image. See QuadrantBounds.
func CropQuadrant(img *Image, region string) (*Image, error) {
	x1, y1, x2, y2, err := QuadrantBounds(img.Spec.Width, img.Spec.Height, region)
	if err != nil {
		return nil, err
	}
	return Crop(img, x1, y1, x2, y2)
}

// PreviewResult contains an image encoded for display.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview encodes the first plane of img as a base64 PNG, scaled by scale
// with Lanczos resampling when scale is positive and not 1. Images that are
// not 8-bit or 16-bit are converted to 8-bit first.
func Preview(img *Image, scale float64) (*PreviewResult, error) {
	src := img
	if b := img.Spec.Format.BaseType; b != typedesc.UInt8 && b != typedesc.UInt16 {
		var err error
		if src, err = Convert(img, typedesc.TypeUInt8, nil); err != nil {
			return nil, err
		}
	}
	if src.Spec.NChannels > 4 {
		return nil, fmt.Errorf("cannot preview %d channels", src.Spec.NChannels)
	}

	var goimg image.Image
	goimg, err := goimage.ToImage(src.Spec, src.Pixels)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare preview: %w", err)
	}

	if scale != 1.0 && scale > 0 {
		newWidth := max(1, int(float64(src.Spec.Width)*scale))
		newHeight := max(1, int(float64(src.Spec.Height)*scale))
		goimg = imaging.Resize(goimg, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, goimg, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       goimg.Bounds().Dx(),
		Height:      goimg.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
