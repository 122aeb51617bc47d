package imaging

import (
	"fmt"

	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// FormatInfo describes one registered format plugin.
type FormatInfo struct {
	Name             string   `json:"name"`
	CanRead          bool     `json:"can_read"`
	CanWrite         bool     `json:"can_write"`
	InputExtensions  []string `json:"input_extensions,omitempty"`
	OutputExtensions []string `json:"output_extensions,omitempty"`
}

// FormatsResult lists the registered plugins in name order.
type FormatsResult struct {
	Formats []FormatInfo `json:"formats"`
}

// ListFormats reports every registered plugin and the extensions it claims.
func ListFormats() *FormatsResult {
	plugins := imageio.Plugins()
	result := &FormatsResult{Formats: make([]FormatInfo, 0, len(plugins))}
	for _, p := range plugins {
		result.Formats = append(result.Formats, FormatInfo{
			Name:             p.Name,
			CanRead:          p.NewInput != nil,
			CanWrite:         p.NewOutput != nil,
			InputExtensions:  p.InputExtensions,
			OutputExtensions: p.OutputExtensions,
		})
	}
	return result
}

// TypeInfo describes a TypeDesc: its display name, sizes and, for integer
// base types, the default quantization range.
type TypeInfo struct {
	Name        string `json:"name"`
	BaseType    string `json:"base_type"`
	Aggregate   int    `json:"aggregate"`
	Semantics   string `json:"semantics"`
	ArrayLen    int    `json:"array_len,omitempty"`
	Elements    int    `json:"elements"`
	ElementSize int    `json:"element_size"`
	Size        int    `json:"size"`
	IsFloat     bool   `json:"is_float"`
	IsSigned    bool   `json:"is_signed"`

	QuantBlack *int64 `json:"quant_black,omitempty"`
	QuantWhite *int64 `json:"quant_white,omitempty"`
	QuantMin   *int64 `json:"quant_min,omitempty"`
	QuantMax   *int64 `json:"quant_max,omitempty"`
}

var semanticsByName = map[string]typedesc.VecSemantics{
	"":       typedesc.NoXform,
	"none":   typedesc.NoXform,
	"color":  typedesc.Color,
	"point":  typedesc.Point,
	"vector": typedesc.Vector,
	"normal": typedesc.Normal,
}

// DescribeType builds a TypeDesc from its parts and describes it.
//
// Parameters:
//   - base: Base type name such as "uint8", "half" or "float".
//   - aggregate: Component count: 1, 2, 3, 4 or 16. Zero means scalar.
//   - semantics: "none", "color", "point", "vector" or "normal".
//   - arrayLen: 0 for a single value, N for an array of N values, negative
//     for an array of unspecified length.
//
// Returns an error for unknown names and for combinations the descriptor
// rejects, such as color semantics on a scalar.
func DescribeType(base string, aggregate int, semantics string, arrayLen int) (*TypeInfo, error) {
	b, ok := typedesc.ParseBaseType(base)
	if !ok {
		return nil, fmt.Errorf("unknown base type: %s", base)
	}
	sem, ok := semanticsByName[semantics]
	if !ok {
		return nil, fmt.Errorf("unknown vector semantics: %s", semantics)
	}
	if aggregate == 0 {
		aggregate = 1
	}
	if aggregate < 0 || aggregate > 16 {
		return nil, fmt.Errorf("invalid aggregate: %d", aggregate)
	}
	t, err := typedesc.NewAggregate(b, typedesc.Aggregate(aggregate), sem)
	if err != nil {
		return nil, err
	}
	t = t.WithArray(arrayLen)

	info := &TypeInfo{
		Name:        t.String(),
		BaseType:    b.String(),
		Aggregate:   int(t.Aggregate),
		Semantics:   t.VecSemantics.String(),
		ArrayLen:    t.ArrayLen,
		Elements:    t.NumElements(),
		ElementSize: t.ElementSize(),
		Size:        t.Size(),
		IsFloat:     b.IsFloat(),
		IsSigned:    b.IsSigned(),
	}
	if b.IsInteger() {
		black, white, lo, hi := b.Limits()
		info.QuantBlack, info.QuantWhite, info.QuantMin, info.QuantMax = &black, &white, &lo, &hi
	}
	return info, nil
}

// ParseFormat maps a pixel type name to its TypeDesc. The empty string
// yields typedesc.TypeUnknown, which callers treat as "keep the current
// format".
func ParseFormat(name string) (typedesc.TypeDesc, error) {
	if name == "" {
		return typedesc.TypeUnknown, nil
	}
	b, ok := typedesc.ParseBaseType(name)
	if !ok || !b.IsNumeric() {
		return typedesc.TypeUnknown, fmt.Errorf("unknown pixel type: %s", name)
	}
	return typedesc.New(b), nil
}
