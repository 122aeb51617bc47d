package convert

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/x448/float16"

	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// Element routines are chosen once per call from the base type, then run
// over the whole buffer without further dispatch.

type quant struct {
	black, white, min, max int64
}

func defaultQuant(b typedesc.BaseType) quant {
	black, white, min, max := b.Limits()
	return quant{black, white, min, max}
}

type widenFunc func(dst []float32, src []byte)

type narrowFunc func(dst []byte, src []float32, q quant)

type integer interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64
}

func widenInt[T integer](size int, get func([]byte) T) widenFunc {
	return func(dst []float32, src []byte) {
		for i := range dst {
			dst[i] = float32(get(src[i*size:]))
		}
	}
}

func narrowInt[T integer](size int, put func([]byte, T)) narrowFunc {
	return func(dst []byte, src []float32, q quant) {
		for i, v := range src {
			put(dst[i*size:], T(Quantize(v, q.black, q.white, q.min, q.max, 0)))
		}
	}
}

var ne = binary.NativeEndian

func getU8(b []byte) uint8   { return b[0] }
func getI8(b []byte) int8    { return int8(b[0]) }
func getU16(b []byte) uint16 { return ne.Uint16(b) }
func getI16(b []byte) int16  { return int16(ne.Uint16(b)) }
func getU32(b []byte) uint32 { return ne.Uint32(b) }
func getI32(b []byte) int32  { return int32(ne.Uint32(b)) }
func getU64(b []byte) uint64 { return ne.Uint64(b) }
func getI64(b []byte) int64  { return int64(ne.Uint64(b)) }

func putU8(b []byte, v uint8)   { b[0] = v }
func putI8(b []byte, v int8)    { b[0] = byte(v) }
func putU16(b []byte, v uint16) { ne.PutUint16(b, v) }
func putI16(b []byte, v int16)  { ne.PutUint16(b, uint16(v)) }
func putU32(b []byte, v uint32) { ne.PutUint32(b, v) }
func putI32(b []byte, v int32)  { ne.PutUint32(b, uint32(v)) }
func putU64(b []byte, v uint64) { ne.PutUint64(b, v) }
func putI64(b []byte, v int64)  { ne.PutUint64(b, uint64(v)) }

var wideners = [...]widenFunc{
	typedesc.UInt8:  widenInt(1, getU8),
	typedesc.Int8:   widenInt(1, getI8),
	typedesc.UInt16: widenInt(2, getU16),
	typedesc.Int16:  widenInt(2, getI16),
	typedesc.UInt32: widenInt(4, getU32),
	typedesc.Int32:  widenInt(4, getI32),
	typedesc.UInt64: widenInt(8, getU64),
	typedesc.Int64:  widenInt(8, getI64),
	typedesc.Half: func(dst []float32, src []byte) {
		for i := range dst {
			dst[i] = float16.Frombits(ne.Uint16(src[2*i:])).Float32()
		}
	},
	typedesc.Float: func(dst []float32, src []byte) {
		for i := range dst {
			dst[i] = math.Float32frombits(ne.Uint32(src[4*i:]))
		}
	},
	typedesc.Double: func(dst []float32, src []byte) {
		for i := range dst {
			dst[i] = float32(math.Float64frombits(ne.Uint64(src[8*i:])))
		}
	},
}

var narrowers = [...]narrowFunc{
	typedesc.UInt8:  narrowInt(1, putU8),
	typedesc.Int8:   narrowInt(1, putI8),
	typedesc.UInt16: narrowInt(2, putU16),
	typedesc.Int16:  narrowInt(2, putI16),
	typedesc.UInt32: narrowInt(4, putU32),
	typedesc.Int32:  narrowInt(4, putI32),
	typedesc.UInt64: narrowInt(8, putU64),
	typedesc.Int64:  narrowInt(8, putI64),
	typedesc.Half: func(dst []byte, src []float32, _ quant) {
		for i, v := range src {
			ne.PutUint16(dst[2*i:], float16.Fromfloat32(v).Bits())
		}
	},
	typedesc.Float: func(dst []byte, src []float32, _ quant) {
		for i, v := range src {
			ne.PutUint32(dst[4*i:], math.Float32bits(v))
		}
	},
	typedesc.Double: func(dst []byte, src []float32, _ quant) {
		for i, v := range src {
			ne.PutUint64(dst[8*i:], math.Float64bits(float64(v)))
		}
	},
}

func widener(b typedesc.BaseType) widenFunc {
	if int(b) >= len(wideners) {
		return nil
	}
	return wideners[b]
}

func narrower(b typedesc.BaseType) narrowFunc {
	if int(b) >= len(narrowers) {
		return nil
	}
	return narrowers[b]
}

// floatView reinterprets the first n float32 values of b without copying.
// It reports false when b is not suitably aligned.
func floatView(b []byte, n int) ([]float32, bool) {
	if n == 0 {
		return []float32{}, true
	}
	p := unsafe.Pointer(unsafe.SliceData(b))
	if uintptr(p)%unsafe.Alignof(float32(0)) != 0 {
		return nil, false
	}
	return unsafe.Slice((*float32)(p), n), true
}

// byteView is the inverse of floatView.
func byteView(f []float32) []byte {
	if len(f) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(f))), 4*len(f))
}
