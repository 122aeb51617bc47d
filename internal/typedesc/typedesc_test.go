package typedesc

import (
	"errors"
	"testing"

	"github.com/ironsheep/imageio-mcp/internal/ioerr"
)

func TestBaseType_Sizes(t *testing.T) {
	if len(baseSizes) != int(lastBase) || len(baseNames) != int(lastBase) || len(baseCodes) != int(lastBase) {
		t.Fatal("base type tables must cover every base type")
	}

	for b := Unknown; b < lastBase; b++ {
		size := b.Size()
		switch b {
		case Unknown, Void:
			if size != 0 {
				t.Errorf("%s: size %d, want 0", b, size)
			}
		default:
			if size == 0 {
				t.Errorf("%s: size 0, want nonzero", b)
			}
		}
	}

	tests := []struct {
		b    BaseType
		want int
	}{
		{UInt8, 1}, {Int8, 1}, {UInt16, 2}, {Int16, 2}, {UInt32, 4}, {Int32, 4},
		{UInt64, 8}, {Int64, 8}, {Half, 2}, {Float, 4}, {Double, 8},
	}
	for _, tt := range tests {
		if got := tt.b.Size(); got != tt.want {
			t.Errorf("%s.Size(): got %d, want %d", tt.b, got, tt.want)
		}
	}

	if BaseType(200).Size() != 0 {
		t.Error("out-of-range base type should have size 0")
	}
}

func TestTypeDesc_Size(t *testing.T) {
	tests := []struct {
		name string
		td   TypeDesc
		want int
	}{
		{"float", TypeFloat, 4},
		{"color", TypeColor, 12},
		{"matrix", TypeMatrix, 64},
		{"uint16 array", TypeUInt16.WithArray(5), 10},
		{"unbounded array counts one", TypeFloat.WithArray(-1), 4},
		{"vec4 half", TypeDesc{BaseType: Half, Aggregate: Vec4}, 8},
		{"void", New(Void), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.td.Size(); got != tt.want {
				t.Errorf("Size(): got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTypeDesc_String(t *testing.T) {
	mustAgg := func(b BaseType, agg Aggregate, sem VecSemantics) TypeDesc {
		t.Helper()
		td, err := NewAggregate(b, agg, sem)
		if err != nil {
			t.Fatalf("NewAggregate(%v, %v, %v): %v", b, agg, sem, err)
		}
		return td
	}

	tests := []struct {
		td   TypeDesc
		want string
	}{
		{TypeFloat, "float"},
		{TypeUInt8, "uint8"},
		{TypeInt, "int"},
		{TypeUInt, "uint"},
		{TypeString, "string"},
		{New(Ptr), "pointer"},
		{TypeMatrix, "matrix"},
		{TypeColor, "color"},
		{TypePoint, "point"},
		{TypeVector, "vector"},
		{TypeNormal, "normal"},
		{mustAgg(Float, Vec3, NoXform), "vec3f"},
		{mustAgg(UInt16, Vec2, NoXform), "vec2us"},
		{mustAgg(Double, Matrix44, NoXform), "matrix44d"},
		{mustAgg(Half, Vec3, Color), "colorh"},
		{mustAgg(Float, Vec4, Color), "color4"},
		{mustAgg(Double, Vec4, Point), "point4d"},
		{mustAgg(Float, Matrix44, Color), "matrix"},
		{mustAgg(Double, Matrix44, Normal), "normalmatrixd"},
		{TypeFloat.WithArray(3), "float[3]"},
		{TypeColor.WithArray(-1), "color[]"},
		{mustAgg(UInt8, Vec4, NoXform).WithArray(2), "vec4uc[2]"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.td.String(); got != tt.want {
				t.Errorf("String(): got %q, want %q", got, tt.want)
			}
			// Display names are derived, so repeated calls agree.
			if again := tt.td.String(); again != tt.want {
				t.Errorf("second String(): got %q", again)
			}
		})
	}
}

func TestNewAggregate_InvalidSemantics(t *testing.T) {
	tests := []struct {
		name string
		agg  Aggregate
		sem  VecSemantics
	}{
		{"color scalar", Scalar, Color},
		{"point vec2", Vec2, Point},
		{"bad aggregate", Aggregate(5), NoXform},
		{"bad semantics", Vec3, VecSemantics(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAggregate(Float, tt.agg, tt.sem)
			if !errors.Is(err, ioerr.ErrUnsupportedType) {
				t.Errorf("NewAggregate: got %v, want ErrUnsupportedType", err)
			}
		})
	}
}

func TestTypeDesc_Equality(t *testing.T) {
	a, _ := NewAggregate(Float, Vec3, Color)
	if a != TypeColor {
		t.Error("structurally identical descriptors should be equal")
	}
	if TypeColor == TypePoint {
		t.Error("descriptors differing in semantics should differ")
	}
	if TypeFloat == TypeFloat.WithArray(1) {
		t.Error("descriptors differing in array length should differ")
	}
	if TypeFloat.WithArray(4).ElementType() != TypeFloat {
		t.Error("ElementType should strip the array dimension")
	}
}

func TestFromString_Unimplemented(t *testing.T) {
	for _, s := range []string{"float", "color", "", "vec3f[2]"} {
		td, err := FromString(s)
		if !errors.Is(err, ioerr.ErrUnimplemented) {
			t.Errorf("FromString(%q): got %v, want ErrUnimplemented", s, err)
		}
		if td != TypeUnknown {
			t.Errorf("FromString(%q) returned %v, want unknown", s, td)
		}
	}
}

func TestBaseType_Limits(t *testing.T) {
	black, white, min, max := UInt8.Limits()
	if black != 0 || white != 255 || min != 0 || max != 255 {
		t.Errorf("uint8 limits: got %d %d %d %d", black, white, min, max)
	}
	_, white, min, max = Int16.Limits()
	if white != 32767 || min != -32768 || max != 32767 {
		t.Errorf("int16 limits: got %d %d %d", white, min, max)
	}
	if _, white, _, _ := Float.Limits(); white != 0 {
		t.Error("float has no integer limits")
	}
}

func TestParseBaseType(t *testing.T) {
	tests := []struct {
		in   string
		want BaseType
		ok   bool
	}{
		{"uint8", UInt8, true},
		{"half", Half, true},
		{"uint", UInt32, true},
		{"uint32", UInt32, true},
		{"double", Double, true},
		{"rgb", Unknown, false},
	}

	for _, tt := range tests {
		got, ok := ParseBaseType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseBaseType(%q): got (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
