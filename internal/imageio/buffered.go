package imageio

import (
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// EncodeFunc receives the complete native frame when a BufferedOutput is
// closed. frame holds Depth planes of Height rows of packed native pixels.
type EncodeFunc func(spec ImageSpec, frame []byte) error

// BufferedOutput is an OutputBase for codecs whose encoders take a whole
// image at once. Scanlines and tiles are staged into an in-memory frame and
// the frame is handed to an EncodeFunc on Close. Plugins embed it and
// provide FormatName, Supports and Open.
type BufferedOutput struct {
	OutputBase
	frame  []byte
	encode EncodeFunc
}

// OpenFrame allocates the frame for spec, whose Format must already be the
// negotiated native format, and marks the output open.
func (o *BufferedOutput) OpenFrame(spec ImageSpec, encode EncodeFunc) error {
	size := spec.ImageBytes()
	if size < 0 {
		return o.Errorf(ioerr.ErrAllocation, "open", "%dx%dx%d image is too large", spec.Width, spec.Height, spec.Depth)
	}
	o.frame = make([]byte, size)
	o.encode = encode
	o.SetOpen(spec)
	return nil
}

// Frame returns the native frame of the open image.
func (o *BufferedOutput) Frame() []byte { return o.frame }

func (o *BufferedOutput) checkRow(op string, y, z int) error {
	s := &o.spec
	if y < s.Y || y >= s.Y+s.Height || z < s.Z || z >= s.Z+depthOf(s.Depth) {
		return o.Errorf(ioerr.ErrInvalidLayout, op, "row (%d, %d) is outside the data window", y, z)
	}
	return nil
}

// WriteScanline stages row y of plane z.
func (o *BufferedOutput) WriteScanline(y, z int, format typedesc.TypeDesc, data []byte, xstride int) error {
	const op = "write scanline"
	if err := o.CheckOpen(op); err != nil {
		return err
	}
	if err := o.checkRow(op, y, z); err != nil {
		return err
	}
	native, err := o.ToNativeScanline(format, data, xstride)
	if err != nil {
		return err
	}
	s := &o.spec
	row := s.ScanlineBytes()
	off := ((z-s.Z)*s.Height + (y - s.Y)) * row
	copy(o.frame[off:off+row], native)
	return nil
}

// WriteTile stages the tile whose origin is (x, y, z). The origin must lie
// on the tile grid. Parts of edge tiles beyond the data window are dropped.
func (o *BufferedOutput) WriteTile(x, y, z int, format typedesc.TypeDesc, data []byte, xstride, ystride, zstride int) error {
	const op = "write tile"
	if err := o.CheckOpen(op); err != nil {
		return err
	}
	s := &o.spec
	tw, th, td := s.TileWidth, s.TileHeight, depthOf(s.TileDepth)
	if tw <= 0 || th <= 0 {
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "image is not tiled")
	}
	dx, dy, dz := x-s.X, y-s.Y, z-s.Z
	if dx < 0 || dy < 0 || dz < 0 || dx >= s.Width || dy >= s.Height || dz >= depthOf(s.Depth) ||
		dx%tw != 0 || dy%th != 0 || dz%td != 0 {
		return o.Errorf(ioerr.ErrInvalidLayout, op, "(%d, %d, %d) is not a tile origin", x, y, z)
	}

	native, err := o.ToNativeTile(format, data, xstride, ystride, zstride)
	if err != nil {
		return err
	}

	pixel := s.PixelBytes()
	row := s.ScanlineBytes()
	cols := min(tw, s.Width-dx) * pixel
	for tz := 0; tz < td && dz+tz < depthOf(s.Depth); tz++ {
		for ty := 0; ty < th && dy+ty < s.Height; ty++ {
			src := (tz*th + ty) * tw * pixel
			dst := ((dz+tz)*s.Height+dy+ty)*row + dx*pixel
			copy(o.frame[dst:dst+cols], native[src:src+cols])
		}
	}
	return nil
}

// Close encodes the frame and returns the encode error, if any. The output
// is closed even when encoding fails.
func (o *BufferedOutput) Close() error {
	if !o.IsOpen() {
		return nil
	}
	spec, frame, encode := o.spec, o.frame, o.encode
	o.frame, o.encode = nil, nil
	o.SetClosed()
	if encode == nil {
		return nil
	}
	return o.Fail(encode(spec, frame))
}
