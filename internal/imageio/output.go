package imageio

import (
	"github.com/ironsheep/imageio-mcp/internal/convert"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// OpenMode selects how ImageOutput.Open treats an existing file.
type OpenMode uint8

// Open modes.
const (
	// Create truncates or creates the file.
	Create OpenMode = iota
	// AppendSubimage adds another image to an existing multi-image file.
	AppendSubimage
)

// ImageOutput writes one image file. An instance is closed until Open
// succeeds and returns to closed on Close, which may be called any number of
// times. Instances are not safe for concurrent use.
//
// Pixel data passed to WriteScanline and WriteTile may be of any numeric
// format; it is converted to the file's native format first. An Unknown
// format means the data is already native. Strides may be
// convert.AutoStride.
type ImageOutput interface {
	// FormatName returns the plugin name, e.g. "tiff".
	FormatName() string

	// Supports reports whether the plugin provides a capability. It does not
	// need an open file.
	Supports(feature string) bool

	// Open creates the file. The spec is validated and the native
	// format negotiated; Spec reports the result.
	Open(name string, spec ImageSpec, mode OpenMode) error

	// Spec returns the spec of the open file, native format included.
	Spec() ImageSpec

	WriteScanline(y, z int, format typedesc.TypeDesc, data []byte, xstride int) error
	WriteTile(x, y, z int, format typedesc.TypeDesc, data []byte, xstride, ystride, zstride int) error

	// Close flushes and releases the file. The output is closed afterwards
	// whatever the result. Buffered plugins encode the whole image here, so
	// Close returns, and records on the error channel, any encode or write
	// failure. Closing a closed output is a no-op that returns nil.
	Close() error

	// GetError returns and clears the last error recorded by this instance.
	GetError() string
}

// OutputBase carries the state shared by ImageOutput implementations: the
// open spec, the per-instance error channel and the buffers used to stage
// caller data into the native format.
type OutputBase struct {
	spec   ImageSpec
	opened bool
	errs   ioerr.Channel

	contig []byte
	floats []float32
	native []byte
}

// Spec returns the spec the output was opened with.
func (b *OutputBase) Spec() ImageSpec { return b.spec }

// IsOpen reports whether the output is open.
func (b *OutputBase) IsOpen() bool { return b.opened }

// SetOpen records spec as the open image.
func (b *OutputBase) SetOpen(spec ImageSpec) {
	b.spec = spec
	b.opened = true
}

// SetClosed marks the output closed and drops the staging buffers.
func (b *OutputBase) SetClosed() {
	b.opened = false
	b.contig, b.floats, b.native = nil, nil, nil
}

// CheckOpen returns ErrNotOpen unless the output is open.
func (b *OutputBase) CheckOpen(op string) error {
	if !b.opened {
		return b.Errorf(ioerr.ErrNotOpen, op, "file is not open")
	}
	return nil
}

// Errorf builds a classified error, records it on the instance's channel
// and returns it.
func (b *OutputBase) Errorf(kind error, op, format string, args ...interface{}) error {
	return b.Fail(ioerr.Errorf(kind, op, format, args...))
}

// Fail records err on the instance's channel and returns it.
func (b *OutputBase) Fail(err error) error {
	if err != nil {
		Logger().Debug("imageio: output error", "err", err)
	}
	return b.errs.Record(err)
}

// GetError returns and clears the last recorded error message.
func (b *OutputBase) GetError() string { return b.errs.Get() }

func grow(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

// ToNativeScanline stages one scanline. See ToNativeRectangle.
func (b *OutputBase) ToNativeScanline(format typedesc.TypeDesc, data []byte, xstride int) ([]byte, error) {
	return b.ToNativeRectangle(b.spec.Width, 1, 1, format, data, xstride, convert.AutoStride, convert.AutoStride)
}

// ToNativeTile stages one full tile. See ToNativeRectangle.
func (b *OutputBase) ToNativeTile(format typedesc.TypeDesc, data []byte, xstride, ystride, zstride int) ([]byte, error) {
	return b.ToNativeRectangle(b.spec.TileWidth, b.spec.TileHeight, depthOf(b.spec.TileDepth),
		format, data, xstride, ystride, zstride)
}

// ToNativeRectangle converts a width x height x depth block of caller data
// to packed pixels of the spec's native format, quantizing with the spec's
// QuantBlack, QuantWhite, QuantMin and QuantMax.
//
// When the data is already native and packed it is returned as is.
// Otherwise the result lives in a buffer owned by b and is valid until the
// next call.
func (b *OutputBase) ToNativeRectangle(width, height, depth int, format typedesc.TypeDesc, data []byte,
	xstride, ystride, zstride int) ([]byte, error) {
	s := &b.spec
	depth = depthOf(depth)
	if format.BaseType == typedesc.Unknown {
		format = s.Format
	}
	nch := s.NChannels
	st := convert.Strides{X: xstride, Y: ystride, Z: zstride}.Resolve(format, nch, width, height)

	n := width * height * depth * nch
	if width < 0 || height < 0 || depth < 0 || n < 0 {
		return nil, b.Errorf(ioerr.ErrInvalidLayout, "stage", "bad region %dx%dx%d", width, height, depth)
	}
	b.contig = grow(b.contig, n*format.Size())
	contig, err := convert.Contiguize(data, nch, st.X, st.Y, st.Z, b.contig, width, height, depth, format)
	if err != nil {
		return nil, b.Fail(err)
	}
	if format.BaseType == s.Format.BaseType {
		return contig, nil
	}

	if cap(b.floats) < n {
		b.floats = make([]float32, n)
	}
	floats, err := convert.WidenToFloat(contig, b.floats[:n], n, format)
	if err != nil {
		return nil, b.Fail(err)
	}
	convert.Normalize(floats, format.BaseType)

	b.native = grow(b.native, n*s.Format.Size())
	native, err := convert.NarrowFromFloat(floats, b.native, n,
		s.QuantBlack, s.QuantWhite, s.QuantMin, s.QuantMax, s.QuantDither, s.Format)
	if err != nil {
		return nil, b.Fail(err)
	}
	return native, nil
}
