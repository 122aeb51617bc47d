package imaging

import (
	"testing"

	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

func TestListFormats(t *testing.T) {
	result := ListFormats()

	found := make(map[string]FormatInfo)
	for _, f := range result.Formats {
		found[f.Name] = f
	}
	tiff, ok := found["tiff"]
	if !ok {
		t.Fatal("tiff plugin not listed")
	}
	if !tiff.CanRead || !tiff.CanWrite {
		t.Errorf("tiff: can_read=%v can_write=%v", tiff.CanRead, tiff.CanWrite)
	}
	if len(tiff.OutputExtensions) <= len(tiff.InputExtensions) {
		t.Errorf("tiff writes more extensions than it reads: out %v, in %v",
			tiff.OutputExtensions, tiff.InputExtensions)
	}
	for i := 1; i < len(result.Formats); i++ {
		if result.Formats[i-1].Name > result.Formats[i].Name {
			t.Errorf("formats not sorted: %s before %s", result.Formats[i-1].Name, result.Formats[i].Name)
		}
	}
}

func TestDescribeType(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		aggregate int
		semantics string
		arrayLen  int
		wantName  string
		wantSize  int
		wantElems int
	}{
		{"scalar", "uint8", 0, "", 0, "uint8", 1, 1},
		{"color", "float", 3, "color", 0, "color", 12, 1},
		{"point of halves", "half", 3, "point", 0, "pointh", 6, 1},
		{"matrix", "float", 16, "none", 0, "matrix", 64, 1},
		{"array", "int", 1, "none", 4, "int[4]", 16, 4},
		{"open array", "double", 2, "", -1, "vec2d[]", 16, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := DescribeType(tt.base, tt.aggregate, tt.semantics, tt.arrayLen)
			if err != nil {
				t.Fatalf("DescribeType failed: %v", err)
			}
			if info.Name != tt.wantName {
				t.Errorf("Name: got %s, want %s", info.Name, tt.wantName)
			}
			if info.Size != tt.wantSize || info.Elements != tt.wantElems {
				t.Errorf("size: got %d bytes in %d elements, want %d in %d",
					info.Size, info.Elements, tt.wantSize, tt.wantElems)
			}
		})
	}
}

func TestDescribeType_Quantization(t *testing.T) {
	info, err := DescribeType("int16", 1, "", 0)
	if err != nil {
		t.Fatalf("DescribeType failed: %v", err)
	}
	if info.QuantMin == nil || *info.QuantMin != -32768 || *info.QuantWhite != 32767 {
		t.Errorf("int16 quantization: min %v white %v", info.QuantMin, info.QuantWhite)
	}
	if !info.IsSigned || info.IsFloat {
		t.Errorf("int16: signed=%v float=%v", info.IsSigned, info.IsFloat)
	}

	info, err = DescribeType("half", 1, "", 0)
	if err != nil {
		t.Fatalf("DescribeType failed: %v", err)
	}
	if info.QuantWhite != nil {
		t.Error("floating point types have no default quantization")
	}
}

func TestDescribeType_Errors(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		aggregate int
		semantics string
	}{
		{"unknown base", "quad", 1, ""},
		{"unknown semantics", "float", 3, "texture"},
		{"bad aggregate", "float", 5, ""},
		{"negative aggregate", "float", -3, ""},
		{"scalar color", "float", 1, "color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DescribeType(tt.base, tt.aggregate, tt.semantics, 0); err == nil {
				t.Error("DescribeType should fail")
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	if err != nil || f != typedesc.TypeUnknown {
		t.Errorf("empty name: got %v, %v", f, err)
	}
	f, err = ParseFormat("half")
	if err != nil || f != typedesc.TypeHalf {
		t.Errorf("half: got %v, %v", f, err)
	}
	for _, name := range []string{"string", "pointer", "rgb"} {
		if _, err := ParseFormat(name); err == nil {
			t.Errorf("%q should be rejected", name)
		}
	}
}
