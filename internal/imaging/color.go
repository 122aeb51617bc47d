package imaging

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/imageio-mcp/internal/convert"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// PixelSample contains the value of one pixel.
//
// Values holds every channel converted to float: integer channels are
// normalized so that their full range maps to 0..1, float channels are
// reported as stored. Hex, RGB and HSL describe the first three channels
// with 8-bit components; gray images repeat their single channel.
type PixelSample struct {
	X        int       `json:"x"`
	Y        int       `json:"y"`
	Channels []string  `json:"channels"`
	Values   []float32 `json:"values"`
	Hex      string    `json:"hex"`
	RGB      RGBColor  `json:"rgb"`
	HSL      HSLColor  `json:"hsl"`
	Alpha    *float32  `json:"alpha,omitempty"`
}

// SamplePixel extracts the channel values at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *PixelSample: The pixel at (x, y).
//   - error: Non-nil if coordinates are outside the image bounds.
//
// # Color Conversion
//
// The native channel values are converted with convert.ConvertTypes, so a
// uint16 value of 65535 and a uint8 value of 255 both read as 1.0. The
// 8-bit components are quantized from those floats.
func SamplePixel(img *Image, x, y int) (*PixelSample, error) {
	spec := &img.Spec
	if x < 0 || x >= spec.Width || y < 0 || y >= spec.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	nch := spec.NChannels
	values := make([]byte, 4*nch)
	off := img.pixelOffset(x, y)
	if err := convert.ConvertTypes(spec.Format, img.Pixels[off:off+spec.PixelBytes()],
		typedesc.TypeFloat, values, nch, nil); err != nil {
		return nil, fmt.Errorf("failed to convert pixel: %w", err)
	}
	floats := make([]float32, nch)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.NativeEndian.Uint32(values[4*i:]))
	}

	sample := &PixelSample{
		X:        x,
		Y:        y,
		Channels: append([]string(nil), spec.ChannelNames...),
		Values:   floats,
	}
	if a := spec.AlphaChannel; a >= 0 && a < nch {
		alpha := floats[a]
		sample.Alpha = &alpha
	}

	var c colorful.Color
	switch {
	case nch >= 3:
		c = colorful.Color{R: float64(floats[0]), G: float64(floats[1]), B: float64(floats[2])}
	default:
		g := float64(floats[0])
		c = colorful.Color{R: g, G: g, B: g}
	}
	c = c.Clamped()
	r8, g8, b8 := c.RGB255()
	h, s, l := c.Hsl()
	sample.Hex = fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
	sample.RGB = RGBColor{R: r8, G: g8, B: b8}
	sample.HSL = HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)}
	return sample, nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledSample combines a pixel sample with its optional label.
type LabeledSample struct {
	Label  string      `json:"label,omitempty"`
	Sample PixelSample `json:"sample"`
}

// MultiSampleResult contains samples from multiple points, in input order.
type MultiSampleResult struct {
	Samples []LabeledSample `json:"samples"`
}

// SamplePixelsMulti samples several points in one call.
//
// Returns an error if any coordinate is outside the image bounds. On error,
// no partial results are returned.
func SamplePixelsMulti(img *Image, points []LabeledPoint) (*MultiSampleResult, error) {
	results := make([]LabeledSample, 0, len(points))

	for _, p := range points {
		sample, err := SamplePixel(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledSample{Label: p.Label, Sample: *sample})
	}

	return &MultiSampleResult{Samples: results}, nil
}

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most frequently occurring colors,
// most common first.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors returns the count most common colors of an image or region.
//
// The region is first converted to 8 bits per channel; each component is
// then quantized to a multiple of 16 so that similar colors group together.
// Gray images repeat their single channel. A nil region means the whole
// image.
func DominantColors(img *Image, count int, region *Region) (*DominantColorsResult, error) {
	r := Region{X2: img.Spec.Width, Y2: img.Spec.Height}
	if region != nil {
		r = *region
	}
	sub, err := Crop(img, r.X1, r.Y1, r.X2, r.Y2)
	if err != nil {
		return nil, err
	}
	bytes8, err := Convert(sub, typedesc.TypeUInt8, nil)
	if err != nil {
		return nil, err
	}

	nch := bytes8.Spec.NChannels
	pix := bytes8.Pixels
	total := bytes8.Spec.Width * bytes8.Spec.Height
	counts := make(map[RGBColor]int)
	for i := 0; i < total; i++ {
		p := pix[i*nch:]
		c := RGBColor{R: p[0], G: p[0], B: p[0]}
		if nch >= 3 {
			c = RGBColor{R: p[0], G: p[1], B: p[2]}
		}
		c.R, c.G, c.B = c.R/16*16, c.G/16*16, c.B/16*16
		counts[c]++
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        c,
		})
	}
	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if count > 0 && len(colors) > count {
		colors = colors[:count]
	}
	return &DominantColorsResult{Colors: colors}, nil
}
