// Package convert converts pixel data between numeric types and memory
// layouts.
//
// Buffers are byte slices holding values in host byte order. Strides are in
// bytes and AutoStride asks for the tightly packed default. Integer pixel
// values are treated as normalized codes: uint8 255 and uint16 65535 both
// mean 1.0, so converting between integer widths rescales, while floating
// point types carry the unit value directly.
//
// Every function is stateless and may be called concurrently as long as the
// goroutines work on disjoint destination buffers.
package convert

import (
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// Transfer applies Func to every converted component except those at the
// alpha and z channel positions. Negative channel indices exclude nothing.
//
// With Channels > 0 a component's position is its index modulo Channels, so
// a whole scanline of interleaved pixels can be converted in one call.
// Otherwise the position is the index itself, which only suits per-pixel
// calls.
type Transfer struct {
	Func         func(float32) float32
	AlphaChannel int
	ZChannel     int
	Channels     int
}

// NewTransfer returns a Transfer that applies f to every channel.
func NewTransfer(f func(float32) float32) *Transfer {
	return &Transfer{Func: f, AlphaChannel: -1, ZChannel: -1}
}

func (t *Transfer) active() bool { return t != nil && t.Func != nil }

func (t *Transfer) apply(f []float32) {
	for i, v := range f {
		c := i
		if t.Channels > 0 {
			c = i % t.Channels
		}
		if c == t.AlphaChannel || c == t.ZChannel {
			continue
		}
		f[i] = t.Func(v)
	}
}

// ConvertTypes converts n components from srcType to dstType.
//
// When both types are the same and no transfer function is active the bytes
// are copied verbatim, so NaN payloads and other unusual bit patterns survive.
// Otherwise values go through a float intermediate: integer sources are
// normalized by their white code, xfer is applied, and the result is
// quantized with the destination type's default limits.
func ConvertTypes(srcType typedesc.TypeDesc, src []byte, dstType typedesc.TypeDesc, dst []byte, n int, xfer *Transfer) error {
	const op = "convert"
	if err := checkNumeric(op, srcType); err != nil {
		return err
	}
	if err := checkNumeric(op, dstType); err != nil {
		return err
	}
	if n < 0 {
		return ioerr.Errorf(ioerr.ErrInvalidLayout, op, "negative count %d", n)
	}
	sb, db := srcType.BaseType, dstType.BaseType
	if err := checkLen(op, "source", len(src), n*sb.Size()); err != nil {
		return err
	}
	if err := checkLen(op, "destination", len(dst), n*db.Size()); err != nil {
		return err
	}

	if sb == db && !xfer.active() {
		copy(dst[:n*sb.Size()], src[:n*sb.Size()])
		return nil
	}

	scratch := getFloats(n)
	defer putFloats(scratch)

	var f []float32
	if sb == typedesc.Float && !xfer.active() {
		// Read-only use, so the source itself may serve as the float buffer.
		if v, ok := floatView(src, n); ok {
			f = v
		}
	}
	if f == nil {
		f = *scratch
		widener(sb)(f, src)
		Normalize(f, sb)
	}
	if xfer.active() {
		xfer.apply(f)
	}

	narrower(db)(dst[:n*db.Size()], f, defaultQuant(db))
	return nil
}

// ConvertImage converts a width x height x depth region of nchannels
// channels from srcType to dstType. AutoStride entries are resolved to the
// packed defaults of their own side. A depth below 1 is treated as 1.
//
// When both sides have packed pixels each scanline is converted in one call,
// otherwise pixels are converted one at a time. A failure does not stop the
// conversion: every row or pixel is attempted and the first error is
// returned.
func ConvertImage(nchannels, width, height, depth int, src []byte, srcType typedesc.TypeDesc, srcStrides Strides,
	dst []byte, dstType typedesc.TypeDesc, dstStrides Strides, xfer *Transfer) error {
	const op = "convert image"
	if depth < 1 {
		depth = 1
	}
	if err := checkNumeric(op, srcType); err != nil {
		return err
	}
	if err := checkNumeric(op, dstType); err != nil {
		return err
	}
	ss, ds := srcType.BaseSize(), dstType.BaseSize()
	src1 := typedesc.New(srcType.BaseType)
	dst1 := typedesc.New(dstType.BaseType)
	srcStrides = srcStrides.Resolve(src1, nchannels, width, height)
	dstStrides = dstStrides.Resolve(dst1, nchannels, width, height)
	if err := checkRegion(op, srcStrides, nchannels, width, height, depth); err != nil {
		return err
	}
	if err := checkRegion(op, dstStrides, nchannels, width, height, depth); err != nil {
		return err
	}
	if err := checkLen(op, "source", len(src), extent(srcStrides, nchannels*ss, width, height, depth)); err != nil {
		return err
	}
	if err := checkLen(op, "destination", len(dst), extent(dstStrides, nchannels*ds, width, height, depth)); err != nil {
		return err
	}
	if width == 0 || height == 0 {
		return nil
	}

	var x *Transfer
	if xfer.active() {
		t := *xfer
		t.Channels = nchannels
		x = &t
	}

	var first error
	record := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	rows := srcStrides.X == nchannels*ss && dstStrides.X == nchannels*ds
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			so := z*srcStrides.Z + y*srcStrides.Y
			do := z*dstStrides.Z + y*dstStrides.Y
			if rows {
				record(ConvertTypes(src1, src[so:], dst1, dst[do:], nchannels*width, x))
				continue
			}
			for i := 0; i < width; i++ {
				record(ConvertTypes(src1, src[so+i*srcStrides.X:], dst1, dst[do+i*dstStrides.X:], nchannels, x))
			}
		}
	}
	return first
}
