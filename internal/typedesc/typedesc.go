// Package typedesc describes the numeric types of pixel data and attribute
// values.
//
// A TypeDesc is a small comparable value: a base type (uint8, half, float,
// ...), an aggregate (scalar, vec3, matrix44, ...), optional vector semantics
// (color, point, vector, normal) and an array length. Two descriptors are
// equal iff all four fields are equal, so TypeDesc values may be compared
// with == and used as map keys.
//
//	t := typedesc.TypeColor            // float vec3 with color semantics
//	t.Size()                           // 12
//	t.String()                         // "color"
//	typedesc.TypeUInt16.WithArray(4)   // "uint16[4]"
package typedesc

import (
	"fmt"
	"strconv"
	"unsafe"

	"github.com/ironsheep/imageio-mcp/internal/ioerr"
)

// BaseType is the scalar type of a single component.
type BaseType uint8

// Base types. The order is part of the contract: the size, name and code
// tables below are indexed by it.
const (
	Unknown BaseType = iota
	Void
	UInt8
	Int8
	UInt16
	Int16
	UInt32
	Int32
	UInt64
	Int64
	Half
	Float
	Double
	String
	Ptr

	lastBase
)

const ptrSize = int(unsafe.Sizeof(uintptr(0)))

var baseSizes = [lastBase]int{
	Unknown: 0,
	Void:    0,
	UInt8:   1,
	Int8:    1,
	UInt16:  2,
	Int16:   2,
	UInt32:  4,
	Int32:   4,
	UInt64:  8,
	Int64:   8,
	Half:    2,
	Float:   4,
	Double:  8,
	String:  ptrSize,
	Ptr:     ptrSize,
}

var baseNames = [lastBase]string{
	Unknown: "unknown",
	Void:    "void",
	UInt8:   "uint8",
	Int8:    "int8",
	UInt16:  "uint16",
	Int16:   "int16",
	UInt32:  "uint",
	Int32:   "int",
	UInt64:  "uint64",
	Int64:   "int64",
	Half:    "half",
	Float:   "float",
	Double:  "double",
	String:  "string",
	Ptr:     "pointer",
}

var baseCodes = [lastBase]string{
	Unknown: "unknown",
	Void:    "void",
	UInt8:   "uc",
	Int8:    "c",
	UInt16:  "us",
	Int16:   "s",
	UInt32:  "ui",
	Int32:   "i",
	UInt64:  "ull",
	Int64:   "ll",
	Half:    "h",
	Float:   "f",
	Double:  "d",
	String:  "str",
	Ptr:     "ptr",
}

// Valid reports whether b is one of the declared base types.
func (b BaseType) Valid() bool { return b < lastBase }

// Size returns the size in bytes of one component, 0 for Unknown, Void and
// out-of-range values.
func (b BaseType) Size() int {
	if !b.Valid() {
		return 0
	}
	return baseSizes[b]
}

// String returns the base type name, e.g. "uint16" or "half".
func (b BaseType) String() string {
	if !b.Valid() {
		return "unknown"
	}
	return baseNames[b]
}

// Code returns the short code used in aggregate names, e.g. "us" or "h".
func (b BaseType) Code() string {
	if !b.Valid() {
		return "unknown"
	}
	return baseCodes[b]
}

// IsFloat reports whether b is a floating point type.
func (b BaseType) IsFloat() bool {
	return b == Half || b == Float || b == Double
}

// IsInteger reports whether b is one of the integer types.
func (b BaseType) IsInteger() bool {
	return b >= UInt8 && b <= Int64
}

// IsSigned reports whether b can hold negative values.
func (b BaseType) IsSigned() bool {
	switch b {
	case Int8, Int16, Int32, Int64, Half, Float, Double:
		return true
	}
	return false
}

// IsNumeric reports whether b is an integer or floating point type.
func (b BaseType) IsNumeric() bool {
	return b.IsInteger() || b.IsFloat()
}

// Limits returns the default quantization for an integer type: black and
// white are the codes that 0.0 and 1.0 map to, min and max the clamp range.
// UInt64 is limited to the int64 range. Floating point and non-numeric types
// return all zeros.
func (b BaseType) Limits() (black, white, min, max int64) {
	switch b {
	case UInt8:
		return 0, 0xff, 0, 0xff
	case Int8:
		return 0, 0x7f, -0x80, 0x7f
	case UInt16:
		return 0, 0xffff, 0, 0xffff
	case Int16:
		return 0, 0x7fff, -0x8000, 0x7fff
	case UInt32:
		return 0, 0xffffffff, 0, 0xffffffff
	case Int32:
		return 0, 0x7fffffff, -0x80000000, 0x7fffffff
	case UInt64:
		return 0, 1<<63 - 1, 0, 1<<63 - 1
	case Int64:
		return 0, 1<<63 - 1, -1 << 63, 1<<63 - 1
	}
	return 0, 0, 0, 0
}

// Aggregate is the number and arrangement of components of one value. The
// numeric value is the component count.
type Aggregate uint8

// Aggregates.
const (
	Scalar   Aggregate = 1
	Vec2     Aggregate = 2
	Vec3     Aggregate = 3
	Vec4     Aggregate = 4
	Matrix44 Aggregate = 16
)

// Valid reports whether a is one of the declared aggregates.
func (a Aggregate) Valid() bool {
	switch a {
	case Scalar, Vec2, Vec3, Vec4, Matrix44:
		return true
	}
	return false
}

// VecSemantics gives a vec3, vec4 or matrix its geometric meaning.
type VecSemantics uint8

// Vector semantics.
const (
	NoXform VecSemantics = iota
	Color
	Point
	Vector
	Normal
)

func (v VecSemantics) String() string {
	switch v {
	case NoXform:
		return "none"
	case Color:
		return "color"
	case Point:
		return "point"
	case Vector:
		return "vector"
	case Normal:
		return "normal"
	}
	return "unknown"
}

// TypeDesc describes the type of pixel channels or attribute values.
type TypeDesc struct {
	BaseType     BaseType
	Aggregate    Aggregate
	VecSemantics VecSemantics

	// ArrayLen is 0 for a single value, N > 0 for a fixed array of N values
	// and negative for an array of unspecified length.
	ArrayLen int
}

// New returns a scalar descriptor of base type b.
func New(b BaseType) TypeDesc {
	return TypeDesc{BaseType: b, Aggregate: Scalar}
}

// NewAggregate returns a descriptor with the given aggregate and semantics.
// Vector semantics are only meaningful for vec3, vec4 and matrix44; asking
// for them on a scalar or vec2 is an error.
func NewAggregate(b BaseType, agg Aggregate, sem VecSemantics) (TypeDesc, error) {
	t := TypeDesc{BaseType: b, Aggregate: agg, VecSemantics: sem}
	if err := t.Validate(); err != nil {
		return TypeDesc{}, err
	}
	return t, nil
}

// WithArray returns a copy of t describing an array of n values.
func (t TypeDesc) WithArray(n int) TypeDesc {
	t.ArrayLen = n
	return t
}

// Validate checks that the fields of t form a meaningful combination.
func (t TypeDesc) Validate() error {
	if !t.BaseType.Valid() {
		return ioerr.Errorf(ioerr.ErrUnsupportedType, "typedesc", "invalid base type %d", t.BaseType)
	}
	if !t.Aggregate.Valid() {
		return ioerr.Errorf(ioerr.ErrUnsupportedType, "typedesc", "invalid aggregate %d", t.Aggregate)
	}
	if t.VecSemantics > Normal {
		return ioerr.Errorf(ioerr.ErrUnsupportedType, "typedesc", "invalid vector semantics %d", t.VecSemantics)
	}
	if t.VecSemantics != NoXform && (t.Aggregate == Scalar || t.Aggregate == Vec2) {
		return ioerr.Errorf(ioerr.ErrUnsupportedType, "typedesc",
			"%s semantics require a vec3, vec4 or matrix44 aggregate", t.VecSemantics)
	}
	return nil
}

// BaseSize returns the size in bytes of one component.
func (t TypeDesc) BaseSize() int { return t.BaseType.Size() }

// NumElements returns the array length, or 1 for non-arrays and arrays of
// unspecified length.
func (t TypeDesc) NumElements() int {
	if t.ArrayLen >= 1 {
		return t.ArrayLen
	}
	return 1
}

// ElementType returns t with the array dimension removed.
func (t TypeDesc) ElementType() TypeDesc {
	t.ArrayLen = 0
	return t
}

func (t TypeDesc) aggregate() int {
	if t.Aggregate == 0 {
		return 1
	}
	return int(t.Aggregate)
}

// ElementSize returns the size in bytes of one (non-array) value.
func (t TypeDesc) ElementSize() int {
	return t.aggregate() * t.BaseSize()
}

// Size returns the size in bytes of the whole value, including the array
// dimension.
func (t TypeDesc) Size() int {
	return t.NumElements() * t.ElementSize()
}

// IsArray reports whether t has an array dimension.
func (t TypeDesc) IsArray() bool { return t.ArrayLen != 0 }

// String returns the canonical display name of t. The name is derived from
// the fields on every call; it is not stored.
func (t TypeDesc) String() string {
	var s string
	switch {
	case t.Aggregate == Scalar || t.Aggregate == 0:
		s = t.BaseType.String()
	case t.Aggregate == Matrix44 && t.BaseType == Float:
		s = "matrix"
	case t.VecSemantics == NoXform:
		var agg string
		switch t.Aggregate {
		case Vec2:
			agg = "vec2"
		case Vec3:
			agg = "vec3"
		case Vec4:
			agg = "vec4"
		case Matrix44:
			agg = "matrix44"
		}
		s = agg + t.BaseType.Code()
	default:
		var agg string
		switch t.Aggregate {
		case Vec2:
			agg = "2"
		case Vec4:
			agg = "4"
		case Matrix44:
			agg = "matrix"
		}
		s = t.VecSemantics.String() + agg
		if t.BaseType != Float {
			s += t.BaseType.Code()
		}
	}
	if t.ArrayLen > 0 {
		s += "[" + strconv.Itoa(t.ArrayLen) + "]"
	} else if t.ArrayLen < 0 {
		s += "[]"
	}
	return s
}

// GoString implements fmt.GoStringer.
func (t TypeDesc) GoString() string {
	return fmt.Sprintf("typedesc.TypeDesc{%s}", t)
}

// FromString parses a display name back into a TypeDesc. No grammar is
// defined for it; it always fails with ioerr.ErrUnimplemented.
func FromString(s string) (TypeDesc, error) {
	return TypeUnknown, ioerr.Errorf(ioerr.ErrUnimplemented, "typedesc", "cannot parse type %q", s)
}

// Common descriptors.
var (
	TypeUnknown = New(Unknown)
	TypeUInt8   = New(UInt8)
	TypeUInt16  = New(UInt16)
	TypeHalf    = New(Half)
	TypeFloat   = New(Float)
	TypeDouble  = New(Double)
	TypeInt     = New(Int32)
	TypeUInt    = New(UInt32)
	TypeString  = New(String)
	TypeColor   = TypeDesc{BaseType: Float, Aggregate: Vec3, VecSemantics: Color}
	TypePoint   = TypeDesc{BaseType: Float, Aggregate: Vec3, VecSemantics: Point}
	TypeVector  = TypeDesc{BaseType: Float, Aggregate: Vec3, VecSemantics: Vector}
	TypeNormal  = TypeDesc{BaseType: Float, Aggregate: Vec3, VecSemantics: Normal}
	TypeMatrix  = TypeDesc{BaseType: Float, Aggregate: Matrix44}
)

// ParseBaseType maps a base type name ("uint8", "float", "half", ...) to its
// BaseType. The short forms "uint32" and "int32" are accepted as well. It
// returns Unknown and false for names it does not know.
func ParseBaseType(name string) (BaseType, bool) {
	switch name {
	case "uint32":
		return UInt32, true
	case "int32":
		return Int32, true
	}
	for b := UInt8; b < lastBase; b++ {
		if baseNames[b] == name {
			return b, true
		}
	}
	return Unknown, false
}
