// Package goimage moves pixels between native frames and the image.Image
// types of the Go standard library.
//
// A native frame is a packed buffer of uint8 or uint16 channel values (host
// byte order) as used by imageio.BufferedOutput and imageio.InputBase. The Go
// image types store 16-bit samples big-endian, so those are swapped on the
// way through.
package goimage

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// RGB is an opaque 8-bit image with three samples per pixel. Encoders that
// only know the standard types fall back to At, which most of them write as
// plain RGB.
type RGB struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// ColorModel implements image.Image.
func (m *RGB) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (m *RGB) Bounds() image.Rectangle { return m.Rect }

// At implements image.Image.
func (m *RGB) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Rect)) {
		return color.RGBA{}
	}
	i := (y-m.Rect.Min.Y)*m.Stride + (x-m.Rect.Min.X)*3
	return color.RGBA{m.Pix[i], m.Pix[i+1], m.Pix[i+2], 0xff}
}

// Opaque reports that RGB images have no transparency.
func (m *RGB) Opaque() bool { return true }

var ne = binary.NativeEndian

// ToImage wraps the first plane of a native frame as an image.Image.
//
// One-channel frames become Gray or Gray16, two channels (gray and alpha)
// NRGBA or NRGBA64, three channels RGB or an opaque NRGBA64, four channels
// NRGBA or NRGBA64. 8-bit frames with one, three or four channels share
// memory with the result.
func ToImage(spec imageio.ImageSpec, frame []byte) (image.Image, error) {
	const op = "to image"
	w, h, nch := spec.Width, spec.Height, spec.NChannels
	if need := w * h * spec.PixelBytes(); len(frame) < need {
		return nil, ioerr.Errorf(ioerr.ErrInvalidLayout, op, "frame holds %d bytes, need %d", len(frame), need)
	}
	rect := image.Rect(0, 0, w, h)

	switch spec.Format.BaseType {
	case typedesc.UInt8:
		switch nch {
		case 1:
			return &image.Gray{Pix: frame[:w*h], Stride: w, Rect: rect}, nil
		case 2:
			img := image.NewNRGBA(rect)
			for i := 0; i < w*h; i++ {
				g, a := frame[2*i], frame[2*i+1]
				copy(img.Pix[4*i:], []uint8{g, g, g, a})
			}
			return img, nil
		case 3:
			return &RGB{Pix: frame[:3*w*h], Stride: 3 * w, Rect: rect}, nil
		case 4:
			return &image.NRGBA{Pix: frame[:4*w*h], Stride: 4 * w, Rect: rect}, nil
		}
	case typedesc.UInt16:
		switch nch {
		case 1:
			img := image.NewGray16(rect)
			for i := 0; i < w*h; i++ {
				binary.BigEndian.PutUint16(img.Pix[2*i:], ne.Uint16(frame[2*i:]))
			}
			return img, nil
		case 2, 3, 4:
			img := image.NewNRGBA64(rect)
			for i := 0; i < w*h; i++ {
				var px [4]uint16
				src := frame[2*nch*i:]
				switch nch {
				case 2:
					g := ne.Uint16(src)
					px = [4]uint16{g, g, g, ne.Uint16(src[2:])}
				case 3:
					px = [4]uint16{ne.Uint16(src), ne.Uint16(src[2:]), ne.Uint16(src[4:]), 0xffff}
				case 4:
					px = [4]uint16{ne.Uint16(src), ne.Uint16(src[2:]), ne.Uint16(src[4:]), ne.Uint16(src[6:])}
				}
				for c, v := range px {
					binary.BigEndian.PutUint16(img.Pix[8*i+2*c:], v)
				}
			}
			return img, nil
		}
	default:
		return nil, ioerr.Errorf(ioerr.ErrUnsupportedType, op, "no Go image type holds %s pixels", spec.Format)
	}
	return nil, ioerr.Errorf(ioerr.ErrUnsupportedType, op, "no Go image type holds %d channels", nch)
}

// FromImage copies img into a new native frame and returns the matching
// spec. Gray images give one channel, opaque images three and everything
// else four. 16-bit image types give uint16 frames.
func FromImage(img image.Image) (imageio.ImageSpec, []byte) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch m := img.(type) {
	case *image.Gray:
		spec := imageio.NewImageSpec(w, h, 1, typedesc.TypeUInt8)
		frame := make([]byte, w*h)
		for y := 0; y < h; y++ {
			copy(frame[y*w:(y+1)*w], m.Pix[y*m.Stride:])
		}
		return spec, frame
	case *image.Gray16:
		spec := imageio.NewImageSpec(w, h, 1, typedesc.TypeUInt16)
		frame := make([]byte, 2*w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				ne.PutUint16(frame[2*(y*w+x):], binary.BigEndian.Uint16(m.Pix[y*m.Stride+2*x:]))
			}
		}
		return spec, frame
	case *RGB:
		spec := imageio.NewImageSpec(w, h, 3, typedesc.TypeUInt8)
		frame := make([]byte, 3*w*h)
		for y := 0; y < h; y++ {
			copy(frame[3*y*w:3*(y+1)*w], m.Pix[y*m.Stride:])
		}
		return spec, frame
	}

	deep := false
	switch img.ColorModel() {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model:
		deep = true
	}
	opaque := false
	if o, ok := img.(interface{ Opaque() bool }); ok {
		opaque = o.Opaque()
	}
	nch := 4
	if opaque {
		nch = 3
	}

	if deep {
		spec := imageio.NewImageSpec(w, h, nch, typedesc.TypeUInt16)
		frame := make([]byte, 2*nch*w*h)
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
				for _, v := range []uint16{c.R, c.G, c.B, c.A}[:nch] {
					ne.PutUint16(frame[i:], v)
					i += 2
				}
			}
		}
		return spec, frame
	}

	spec := imageio.NewImageSpec(w, h, nch, typedesc.TypeUInt8)
	frame := make([]byte, nch*w*h)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i += copy(frame[i:], []uint8{c.R, c.G, c.B, c.A}[:nch])
		}
	}
	return spec, frame
}
