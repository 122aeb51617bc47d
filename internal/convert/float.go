package convert

import (
	"math"
	"sync"

	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

var floatPool = sync.Pool{
	New: func() interface{} {
		buf := make([]float32, 0, 4096)
		return &buf
	},
}

// getFloats returns a pooled scratch buffer of length n.
func getFloats(n int) *[]float32 {
	p := floatPool.Get().(*[]float32)
	if cap(*p) < n {
		*p = make([]float32, n)
	}
	*p = (*p)[:n]
	return p
}

func putFloats(p *[]float32) {
	*p = (*p)[:0]
	floatPool.Put(p)
}

func checkNumeric(op string, t typedesc.TypeDesc) error {
	if widener(t.BaseType) == nil {
		return ioerr.Errorf(ioerr.ErrUnsupportedType, op, "cannot convert %s pixels", t.BaseType)
	}
	return nil
}

func checkLen(op, what string, have, need int) error {
	if have < need {
		return ioerr.Errorf(ioerr.ErrInvalidLayout, op, "%s holds %d bytes, need %d", what, have, need)
	}
	return nil
}

// WidenToFloat converts n components of format.BaseType in src to float32.
// The conversion is a plain numeric cast: uint8 200 becomes 200.0, not a
// normalized value.
//
// For float sources the result aliases src and dst is not used. The caller
// must not modify the result in that case. Otherwise dst must hold n values
// and dst[:n] is returned.
func WidenToFloat(src []byte, dst []float32, n int, format typedesc.TypeDesc) ([]float32, error) {
	const op = "widen"
	if err := checkNumeric(op, format); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ioerr.Errorf(ioerr.ErrInvalidLayout, op, "negative count %d", n)
	}
	if err := checkLen(op, "source", len(src), n*format.BaseSize()); err != nil {
		return nil, err
	}
	if format.BaseType == typedesc.Float {
		if f, ok := floatView(src, n); ok {
			return f, nil
		}
	}
	if len(dst) < n {
		return nil, ioerr.Errorf(ioerr.ErrInvalidLayout, op, "destination holds %d values, need %d", len(dst), n)
	}
	widener(format.BaseType)(dst[:n], src)
	return dst[:n], nil
}

// Quantize maps value onto the integer code range: 0 maps to black, 1 to
// white, the result is rounded half up and clamped to [min, max]. NaN
// quantizes as 0. dither is accepted for call compatibility and has no
// effect.
func Quantize(value float32, black, white, min, max int64, dither float32) int64 {
	_ = dither
	v := float64(value)
	if v != v {
		v = 0
	}
	v = float64(black) + (float64(white)-float64(black))*v
	v = math.Floor(v + 0.5)
	// Infinities and out of range values clamp.
	if !(v > float64(min)) {
		return min
	}
	if !(v < float64(max)) {
		return max
	}
	return int64(v)
}

// NarrowFromFloat converts n float32 values in src to format.BaseType in dst.
//
// Integer destinations are quantized with black, white, min and max. Half
// and double destinations are a plain cast. For float destinations the
// result aliases src and dst is not written.
//
// A nil src fills the destination with Quantize(0, ...) for integer types
// and with zeros for floating point types.
func NarrowFromFloat(src []float32, dst []byte, n int, black, white, min, max int64, dither float32, format typedesc.TypeDesc) ([]byte, error) {
	const op = "narrow"
	b := format.BaseType
	nf := narrower(b)
	if nf == nil {
		return nil, ioerr.Errorf(ioerr.ErrUnsupportedType, op, "cannot convert to %s pixels", b)
	}
	if n < 0 {
		return nil, ioerr.Errorf(ioerr.ErrInvalidLayout, op, "negative count %d", n)
	}
	q := quant{black, white, min, max}
	size := n * b.Size()

	if src == nil {
		if err := checkLen(op, "destination", len(dst), size); err != nil {
			return nil, err
		}
		out := dst[:size]
		for i := range out {
			out[i] = 0
		}
		if b.IsInteger() && size > 0 {
			fill := []float32{0}
			nf(out[:b.Size()], fill, q)
			for off := b.Size(); off < size; off *= 2 {
				copy(out[off:], out[:off])
			}
		}
		return out, nil
	}

	if len(src) < n {
		return nil, ioerr.Errorf(ioerr.ErrInvalidLayout, op, "source holds %d values, need %d", len(src), n)
	}
	if b == typedesc.Float {
		return byteView(src[:n]), nil
	}
	if err := checkLen(op, "destination", len(dst), size); err != nil {
		return nil, err
	}
	nf(dst[:size], src[:n], q)
	return dst[:size], nil
}

// Normalize scales integer-valued floats, as produced by WidenToFloat, to the
// unit range of their source type: values are divided by the type's white
// code. It is a no-op for floating point types, so it never writes through a
// float alias.
func Normalize(f []float32, from typedesc.BaseType) {
	if !from.IsInteger() {
		return
	}
	_, white, _, _ := from.Limits()
	scale := float32(1 / float64(white))
	for i := range f {
		f[i] *= scale
	}
}
