package imageio

import (
	"github.com/ironsheep/imageio-mcp/internal/convert"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// ImageInput reads one image file. Like ImageOutput it is closed until Open
// succeeds and is not safe for concurrent use.
type ImageInput interface {
	FormatName() string

	// Open reads the header and returns the image's spec in its native
	// format.
	Open(name string) (ImageSpec, error)

	Spec() ImageSpec

	// ReadScanline converts row y of plane z to format and stores it in
	// data with the given pixel stride. An Unknown format means native.
	ReadScanline(y, z int, format typedesc.TypeDesc, data []byte, xstride int) error

	Close() error
	GetError() string
}

// InputBase serves scanlines out of a decoded native frame. Plugins decode
// the file in Open, hand the result to SetFrame and embed InputBase for the
// rest of the interface.
type InputBase struct {
	spec   ImageSpec
	opened bool
	errs   ioerr.Channel
	frame  []byte
}

// SetFrame records the decoded image and marks the input open.
func (b *InputBase) SetFrame(spec ImageSpec, frame []byte) error {
	if need := spec.ImageBytes(); need < 0 || len(frame) < need {
		return b.Errorf(ioerr.ErrInternal, "open", "decoded frame holds %d bytes, spec needs %d", len(frame), need)
	}
	b.spec = spec
	b.frame = frame
	b.opened = true
	return nil
}

// Spec returns the spec of the open image.
func (b *InputBase) Spec() ImageSpec { return b.spec }

// Frame returns the decoded native frame.
func (b *InputBase) Frame() []byte { return b.frame }

// IsOpen reports whether the input is open.
func (b *InputBase) IsOpen() bool { return b.opened }

// Errorf builds a classified error, records it and returns it.
func (b *InputBase) Errorf(kind error, op, format string, args ...interface{}) error {
	return b.Fail(ioerr.Errorf(kind, op, format, args...))
}

// Fail records err on the instance's channel and returns it.
func (b *InputBase) Fail(err error) error {
	if err != nil {
		Logger().Debug("imageio: input error", "err", err)
	}
	return b.errs.Record(err)
}

// GetError returns and clears the last recorded error message.
func (b *InputBase) GetError() string { return b.errs.Get() }

// ReadScanline implements ImageInput.
func (b *InputBase) ReadScanline(y, z int, format typedesc.TypeDesc, data []byte, xstride int) error {
	const op = "read scanline"
	if !b.opened {
		return b.Errorf(ioerr.ErrNotOpen, op, "file is not open")
	}
	s := &b.spec
	if y < s.Y || y >= s.Y+s.Height || z < s.Z || z >= s.Z+depthOf(s.Depth) {
		return b.Errorf(ioerr.ErrInvalidLayout, op, "row (%d, %d) is outside the data window", y, z)
	}
	if format.BaseType == typedesc.Unknown {
		format = s.Format
	}
	row := s.ScanlineBytes()
	off := ((z-s.Z)*s.Height + (y - s.Y)) * row
	return b.Fail(convert.ConvertImage(s.NChannels, s.Width, 1, 1,
		b.frame[off:off+row], s.Format, convert.AutoStrides,
		data, format, convert.Strides{X: xstride, Y: convert.AutoStride, Z: convert.AutoStride}, nil))
}

// Close releases the frame. It always succeeds.
func (b *InputBase) Close() error {
	b.opened = false
	b.frame = nil
	return nil
}

// ReadImage reads every scanline of an open input into data, converting to
// format. Strides may be convert.AutoStride.
func ReadImage(in ImageInput, format typedesc.TypeDesc, data []byte, xstride, ystride, zstride int) error {
	s := in.Spec()
	st := s.AutoStride(convert.Strides{X: xstride, Y: ystride, Z: zstride}, format)
	for z := 0; z < depthOf(s.Depth); z++ {
		for y := 0; y < s.Height; y++ {
			off := z*st.Z + y*st.Y
			if off > len(data) {
				return ioerr.Errorf(ioerr.ErrInvalidLayout, "read image", "buffer too small for row %d", y)
			}
			if err := in.ReadScanline(s.Y+y, s.Z+z, format, data[off:], st.X); err != nil {
				return err
			}
		}
	}
	return nil
}
