// Package param implements typed, named attribute values and lists of them.
//
// A ParamValue stores count values of a TypeDesc. Small payloads (up to
// InlineSize bytes) always live inside the value itself. Larger payloads are
// either copied into a buffer owned by the value or, on request, borrowed
// from the caller without copying. String payloads are always copied into
// the process string pool.
package param

import (
	"encoding/binary"
	"math"

	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// InlineSize is the largest payload, in bytes, stored inside a ParamValue.
const InlineSize = 8

// Interp tells how a value is interpolated across a surface.
type Interp uint8

// Interpolation modes.
const (
	InterpConstant Interp = iota
	InterpPerPiece
	InterpLinear
	InterpVertex
)

// StorageKind identifies where a ParamValue's payload lives.
type StorageKind uint8

// Storage kinds.
const (
	// StorageNone is the state of a zero or released value.
	StorageNone StorageKind = iota
	// StorageInline keeps the payload in the value's fixed-size array.
	StorageInline
	// StorageOwned keeps the payload in a buffer allocated by the value.
	StorageOwned
	// StorageBorrowed refers to the caller's buffer. The caller's later
	// writes to that buffer are visible through the value.
	StorageBorrowed
)

func (k StorageKind) String() string {
	switch k {
	case StorageInline:
		return "inline"
	case StorageOwned:
		return "owned"
	case StorageBorrowed:
		return "borrowed"
	}
	return "none"
}

// ParamValue is a named, typed attribute value.
type ParamValue struct {
	name    string
	typ     typedesc.TypeDesc
	nvalues int
	interp  Interp

	kind   StorageKind
	local  [InlineSize]byte
	buf    []byte // owned or borrowed payload
	values []string
}

// New is shorthand for allocating a ParamValue and calling Init on it.
func New(name string, typ typedesc.TypeDesc, nvalues int, data []byte, copyData bool) (*ParamValue, error) {
	p := &ParamValue{}
	if err := p.Init(name, typ, nvalues, data, copyData); err != nil {
		return nil, err
	}
	return p, nil
}

// Init assigns nvalues values of type typ to p, releasing any previous
// payload. At most nvalues*typ.Size() bytes of data are read. A nil data
// zero-fills the payload.
//
// Payloads of up to InlineSize bytes are copied inline whatever copyData says.
// Larger payloads are copied into an owned buffer when copyData is true and
// borrowed from data otherwise.
func (p *ParamValue) Init(name string, typ typedesc.TypeDesc, nvalues int, data []byte, copyData bool) error {
	if typ.BaseType == typedesc.String {
		return ioerr.Errorf(ioerr.ErrUnsupportedType, "param", "%q: string values must be set with InitStrings", name)
	}
	size, err := payloadSize(typ, nvalues)
	if err != nil {
		return ioerr.Wrap(ioerr.ErrAllocation, "param", err, "%q", name)
	}
	if data != nil && len(data) < size {
		return ioerr.Errorf(ioerr.ErrInvalidLayout, "param",
			"%q: %d bytes supplied, %d needed for %d %s", name, len(data), size, nvalues, typ)
	}

	p.Release()
	p.name = Intern(name)
	p.typ = typ
	p.nvalues = nvalues
	p.interp = InterpConstant

	switch {
	case size <= InlineSize:
		p.kind = StorageInline
		if data != nil {
			copy(p.local[:], data[:size])
		}
	case copyData || data == nil:
		p.kind = StorageOwned
		p.buf = make([]byte, size)
		if data != nil {
			copy(p.buf, data[:size])
		}
	default:
		p.kind = StorageBorrowed
		p.buf = data[:size:size]
	}
	return nil
}

// InitStrings assigns string values to p. Strings are interned, so the value
// never refers to caller memory.
func (p *ParamValue) InitStrings(name string, values ...string) {
	p.Release()
	p.name = Intern(name)
	p.typ = typedesc.TypeString
	p.nvalues = len(values)
	p.interp = InterpConstant
	p.kind = StorageOwned
	p.values = make([]string, len(values))
	for i, s := range values {
		p.values[i] = Intern(s)
	}
}

// NewString returns a string-typed value.
func NewString(name string, values ...string) *ParamValue {
	p := &ParamValue{}
	p.InitStrings(name, values...)
	return p
}

// NewInt returns an int-typed value.
func NewInt(name string, values ...int32) *ParamValue {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.NativeEndian.PutUint32(data[4*i:], uint32(v))
	}
	p, _ := New(name, typedesc.TypeInt, len(values), data, true)
	return p
}

// NewFloat returns a float-typed value. Sixteen values with a matrix type
// can be built with New directly.
func NewFloat(name string, values ...float32) *ParamValue {
	p, _ := New(name, typedesc.TypeFloat, len(values), FloatBytes(values...), true)
	return p
}

// FloatBytes encodes float32 values in host byte order.
func FloatBytes(values ...float32) []byte {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.NativeEndian.PutUint32(data[4*i:], math.Float32bits(v))
	}
	return data
}

// Release drops the payload. Only owned buffers are discarded; borrowed
// memory belongs to the caller. Release may be called any number of times.
func (p *ParamValue) Release() {
	p.buf = nil
	p.values = nil
	p.local = [InlineSize]byte{}
	p.kind = StorageNone
}

// Name returns the attribute name.
func (p *ParamValue) Name() string { return p.name }

// Type returns the per-value type.
func (p *ParamValue) Type() typedesc.TypeDesc { return p.typ }

// NValues returns the number of values.
func (p *ParamValue) NValues() int { return p.nvalues }

// Interp returns the interpolation mode.
func (p *ParamValue) Interp() Interp { return p.interp }

// SetInterp changes the interpolation mode.
func (p *ParamValue) SetInterp(i Interp) { p.interp = i }

// StorageKind reports where the payload lives.
func (p *ParamValue) StorageKind() StorageKind { return p.kind }

// Owned reports whether the payload buffer belongs to p.
func (p *ParamValue) Owned() bool { return p.kind == StorageOwned }

// Data returns the raw payload of a numeric value, nil for strings and
// released values. Inline payloads are returned as a slice of p's own
// storage.
func (p *ParamValue) Data() []byte {
	switch p.kind {
	case StorageInline:
		return p.local[:p.nvalues*p.typ.Size()]
	case StorageOwned, StorageBorrowed:
		return p.buf
	}
	return nil
}

// Strings returns the values of a string-typed value.
func (p *ParamValue) Strings() []string { return p.values }

// Str returns the i-th string, or "" if p has no such string.
func (p *ParamValue) Str(i int) string {
	if i < 0 || i >= len(p.values) {
		return ""
	}
	return p.values[i]
}

// Int returns the i-th component converted to int. It reports false when p
// is not an integer type or i is out of range.
func (p *ParamValue) Int(i int) (int64, bool) {
	data := p.Data()
	b := p.typ.BaseType
	size := b.Size()
	if !b.IsInteger() || i < 0 || (i+1)*size > len(data) {
		return 0, false
	}
	d := data[i*size:]
	switch b {
	case typedesc.UInt8:
		return int64(d[0]), true
	case typedesc.Int8:
		return int64(int8(d[0])), true
	case typedesc.UInt16:
		return int64(binary.NativeEndian.Uint16(d)), true
	case typedesc.Int16:
		return int64(int16(binary.NativeEndian.Uint16(d))), true
	case typedesc.UInt32:
		return int64(binary.NativeEndian.Uint32(d)), true
	case typedesc.Int32:
		return int64(int32(binary.NativeEndian.Uint32(d))), true
	case typedesc.UInt64, typedesc.Int64:
		return int64(binary.NativeEndian.Uint64(d)), true
	}
	return 0, false
}

// Float returns the i-th component converted to float64. Integer values
// are converted as well.
func (p *ParamValue) Float(i int) (float64, bool) {
	data := p.Data()
	b := p.typ.BaseType
	size := b.Size()
	if i < 0 || size == 0 || (i+1)*size > len(data) {
		return 0, false
	}
	switch b {
	case typedesc.Float:
		return float64(math.Float32frombits(binary.NativeEndian.Uint32(data[i*4:]))), true
	case typedesc.Double:
		return math.Float64frombits(binary.NativeEndian.Uint64(data[i*8:])), true
	}
	if v, ok := p.Int(i); ok {
		return float64(v), true
	}
	return 0, false
}

// Clone returns a deep copy of p. Borrowed payloads are copied so the clone
// owns its data.
func (p *ParamValue) Clone() *ParamValue {
	q := *p
	if p.buf != nil {
		q.buf = append([]byte(nil), p.buf...)
		q.kind = StorageOwned
	}
	if p.values != nil {
		q.values = append([]string(nil), p.values...)
	}
	return &q
}

func payloadSize(typ typedesc.TypeDesc, nvalues int) (int, error) {
	if nvalues < 0 {
		return 0, ioerr.Errorf(ioerr.ErrAllocation, "param", "negative value count %d", nvalues)
	}
	size := typ.Size()
	if size != 0 && nvalues > math.MaxInt/size {
		return 0, ioerr.Errorf(ioerr.ErrAllocation, "param", "%d values of %s overflow", nvalues, typ)
	}
	return nvalues * size, nil
}
