package imageio

import (
	"fmt"
	"math"

	"github.com/ironsheep/imageio-mcp/internal/convert"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/param"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// Linearity tells how pixel values relate to light intensity.
type Linearity uint8

// Linearity values.
const (
	Linear Linearity = iota
	GammaCorrected
	SRGB
)

func (l Linearity) String() string {
	switch l {
	case GammaCorrected:
		return "gamma"
	case SRGB:
		return "sRGB"
	}
	return "linear"
}

// ImageSpec describes an image: its data and display windows, tiling, pixel
// format, channels and free-form attributes.
type ImageSpec struct {
	// Data window.
	X, Y, Z              int
	Width, Height, Depth int

	// Full (display) window.
	FullX, FullY, FullZ              int
	FullWidth, FullHeight, FullDepth int

	// Tile size; TileWidth 0 means the image is not tiled.
	TileWidth, TileHeight, TileDepth int

	// Format is the type of one channel value.
	Format       typedesc.TypeDesc
	NChannels    int
	ChannelNames []string

	// AlphaChannel and ZChannel are channel indices, -1 when absent.
	AlphaChannel int
	ZChannel     int

	Linearity Linearity
	Gamma     float32

	// Quantization used when writing float data to an integer Format.
	QuantBlack  int64
	QuantWhite  int64
	QuantMin    int64
	QuantMax    int64
	QuantDither float32

	Attribs param.ParamList
}

// NewImageSpec returns a spec for an untiled, single-plane image whose full
// window equals its data window. Four or more channels get an alpha channel
// at index 3.
func NewImageSpec(width, height, nchannels int, format typedesc.TypeDesc) ImageSpec {
	s := ImageSpec{
		Width:        width,
		Height:       height,
		Depth:        1,
		FullWidth:    width,
		FullHeight:   height,
		FullDepth:    1,
		NChannels:    nchannels,
		AlphaChannel: -1,
		ZChannel:     -1,
		Gamma:        1,
	}
	s.SetFormat(format)
	s.DefaultChannelNames()
	return s
}

// SetFormat sets the channel format and resets the quantization to the
// format's defaults.
func (s *ImageSpec) SetFormat(format typedesc.TypeDesc) {
	s.Format = format
	s.QuantBlack, s.QuantWhite, s.QuantMin, s.QuantMax = format.BaseType.Limits()
	s.QuantDither = 0
}

// DefaultChannelNames names the channels R, G, B, A and then channelN, and
// sets AlphaChannel to 3 when there are at least four channels.
func (s *ImageSpec) DefaultChannelNames() {
	s.ChannelNames = make([]string, s.NChannels)
	for i := range s.ChannelNames {
		if i < 4 {
			s.ChannelNames[i] = string("RGBA"[i])
		} else {
			s.ChannelNames[i] = fmt.Sprintf("channel%d", i)
		}
	}
	s.AlphaChannel = -1
	if s.NChannels >= 4 {
		s.AlphaChannel = 3
	}
}

func depthOf(d int) int {
	if d < 1 {
		return 1
	}
	return d
}

func mulChecked(a ...int) int {
	n := 1
	for _, v := range a {
		if v < 0 || (v != 0 && n > math.MaxInt/v) {
			return -1
		}
		n *= v
	}
	return n
}

// ChannelBytes returns the size of one channel value.
func (s *ImageSpec) ChannelBytes() int { return s.Format.Size() }

// PixelBytes returns the size of one pixel.
func (s *ImageSpec) PixelBytes() int { return s.NChannels * s.ChannelBytes() }

// ScanlineBytes returns the size of one packed scanline.
func (s *ImageSpec) ScanlineBytes() int { return mulChecked(s.Width, s.PixelBytes()) }

// TilePixels returns the number of pixels in one tile, 0 if untiled.
func (s *ImageSpec) TilePixels() int {
	if s.TileWidth <= 0 || s.TileHeight <= 0 {
		return 0
	}
	return mulChecked(s.TileWidth, s.TileHeight, depthOf(s.TileDepth))
}

// TileBytes returns the size of one packed tile, 0 if untiled.
func (s *ImageSpec) TileBytes() int { return mulChecked(s.TilePixels(), s.PixelBytes()) }

// ImageBytes returns the size of the whole packed data window, or -1 if it
// does not fit in an int.
func (s *ImageSpec) ImageBytes() int {
	return mulChecked(s.Width, s.Height, depthOf(s.Depth), s.PixelBytes())
}

// AutoStride resolves automatic strides for data of the given format laid
// out like this image. An Unknown format stands for s.Format.
func (s *ImageSpec) AutoStride(strides convert.Strides, format typedesc.TypeDesc) convert.Strides {
	if format.BaseType == typedesc.Unknown {
		format = s.Format
	}
	return strides.Resolve(format, s.NChannels, s.Width, s.Height)
}

// Validate checks that the spec describes a writable image.
func (s *ImageSpec) Validate() error {
	const op = "spec"
	if s.Width < 1 || s.Height < 1 {
		return ioerr.Errorf(ioerr.ErrInvalidLayout, op, "image resolution must be at least 1x1, got %dx%d", s.Width, s.Height)
	}
	if s.Depth < 0 || s.TileWidth < 0 || s.TileHeight < 0 || s.TileDepth < 0 {
		return ioerr.Errorf(ioerr.ErrInvalidLayout, op, "negative depth or tile size")
	}
	if s.NChannels < 1 {
		return ioerr.Errorf(ioerr.ErrInvalidLayout, op, "channel count %d", s.NChannels)
	}
	if !s.Format.BaseType.IsNumeric() {
		return ioerr.Errorf(ioerr.ErrUnsupportedType, op, "pixel format %s", s.Format)
	}
	if s.ImageBytes() < 0 {
		return ioerr.Errorf(ioerr.ErrAllocation, op, "%dx%dx%d image is too large", s.Width, s.Height, s.Depth)
	}
	return nil
}

// Clone returns a deep copy of s.
func (s *ImageSpec) Clone() ImageSpec {
	c := *s
	c.ChannelNames = append([]string(nil), s.ChannelNames...)
	c.Attribs = s.Attribs.Clone()
	return c
}

// Attribute sets a typed attribute, copying data.
func (s *ImageSpec) Attribute(name string, typ typedesc.TypeDesc, nvalues int, data []byte) error {
	p, err := param.New(name, typ, nvalues, data, true)
	if err != nil {
		return err
	}
	s.Attribs.Set(p)
	return nil
}

// AttributeString sets a string attribute.
func (s *ImageSpec) AttributeString(name, value string) { s.Attribs.SetString(name, value) }

// AttributeInt sets an int attribute.
func (s *ImageSpec) AttributeInt(name string, value int) { s.Attribs.SetInt(name, int32(value)) }

// AttributeFloat sets a float attribute.
func (s *ImageSpec) AttributeFloat(name string, value float32) { s.Attribs.SetFloat(name, value) }

// FindAttribute returns the named attribute (case-insensitive), or nil.
func (s *ImageSpec) FindAttribute(name string) *param.ParamValue { return s.Attribs.Find(name) }

// GetIntAttribute returns the first value of an integer attribute, or def.
// Float attributes holding an integral value are accepted too.
func (s *ImageSpec) GetIntAttribute(name string, def int) int {
	p := s.Attribs.Find(name)
	if p == nil {
		return def
	}
	if v, ok := p.Int(0); ok {
		return int(v)
	}
	if v, ok := p.Float(0); ok && v == math.Trunc(v) {
		return int(v)
	}
	return def
}

// GetFloatAttribute returns the first value of a numeric attribute, or def.
func (s *ImageSpec) GetFloatAttribute(name string, def float64) float64 {
	if p := s.Attribs.Find(name); p != nil {
		if v, ok := p.Float(0); ok {
			return v
		}
	}
	return def
}

// GetStringAttribute returns the first value of a string attribute, or def.
func (s *ImageSpec) GetStringAttribute(name, def string) string {
	p := s.Attribs.Find(name)
	if p == nil || p.Type().BaseType != typedesc.String || p.NValues() == 0 {
		return def
	}
	return p.Str(0)
}
