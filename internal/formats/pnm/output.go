package pnm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"

	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// Output writes PBM, PGM and PPM files. Rows are streamed to disk as they
// are written, so they must arrive in order.
type Output struct {
	imageio.OutputBase

	f       *os.File
	w       *bufio.Writer
	kind    int // 1..6, the digit of the magic number
	maxval  int
	nextRow int
	line    []byte
}

// NewOutput returns a closed PNM writer.
func NewOutput() imageio.ImageOutput { return &Output{} }

// FormatName implements imageio.ImageOutput.
func (o *Output) FormatName() string { return "pnm" }

// Supports implements imageio.ImageOutput. PNM has no optional features.
func (o *Output) Supports(string) bool { return false }

// Open creates the file and writes the header. The BitsPerSample attribute
// (default 8) selects the maximum value and "pnm:binary" (default 1) the raw
// or ASCII variant. One bit per sample gives a bitmap.
func (o *Output) Open(name string, spec imageio.ImageSpec, mode imageio.OpenMode) error {
	const op = "pnm open"
	if o.IsOpen() {
		// A failed write of the previous file stays on the error channel.
		o.Fail(o.Close())
	}
	if mode != imageio.Create {
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: cannot append to a PNM file", name)
	}
	if spec.Depth < 1 {
		spec.Depth = 1
	}
	if err := spec.Validate(); err != nil {
		return o.Fail(err)
	}
	if spec.Depth > 1 {
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: PNM cannot hold volumes", name)
	}

	bits := spec.GetIntAttribute(imageio.AttrBitsPerSample, 8)
	if bits < 1 || bits > 16 {
		return o.Errorf(ioerr.ErrUnsupportedType, op, "%s: %d bits per sample", name, bits)
	}
	switch {
	case bits == 1 && spec.NChannels != 1:
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: bitmaps have one channel, got %d", name, spec.NChannels)
	case spec.NChannels != 1 && spec.NChannels != 3:
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: PNM holds 1 or 3 channels, got %d", name, spec.NChannels)
	}

	kind := 6
	switch {
	case bits == 1:
		kind = 4
	case spec.NChannels == 1:
		kind = 5
	}
	if spec.GetIntAttribute("pnm:binary", 1) == 0 {
		kind -= 3
	}

	native := spec.Clone()
	native.TileWidth, native.TileHeight, native.TileDepth = 0, 0, 0
	if bits > 8 {
		native.SetFormat(typedesc.TypeUInt16)
	} else {
		native.SetFormat(typedesc.TypeUInt8)
	}

	f, err := os.Create(name)
	if err != nil {
		return o.Fail(ioerr.Wrap(ioerr.ErrOpen, op, err, "create %s", name))
	}
	o.f = f
	o.w = bufio.NewWriter(f)
	o.kind = kind
	o.maxval = 1<<bits - 1
	o.nextRow = native.Y

	fmt.Fprintf(o.w, "P%d\n%d %d\n", kind, native.Width, native.Height)
	if kind != 1 && kind != 4 {
		fmt.Fprintf(o.w, "%d\n", o.maxval)
	}
	if err := o.w.Flush(); err != nil {
		_ = f.Close()
		return o.Fail(ioerr.Wrap(ioerr.ErrIO, op, err, "write header of %s", name))
	}

	o.SetOpen(native)
	imageio.Logger().Debug("pnm: open", "file", name, "magic", kind, "maxval", o.maxval, "native", native.Format)
	return nil
}

// WriteScanline implements imageio.ImageOutput.
func (o *Output) WriteScanline(y, z int, format typedesc.TypeDesc, data []byte, xstride int) error {
	const op = "pnm write scanline"
	if err := o.CheckOpen(op); err != nil {
		return err
	}
	if z != 0 {
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "PNM images have no plane %d", z)
	}
	if y != o.nextRow {
		return o.Errorf(ioerr.ErrInvalidLayout, op, "row %d written out of order, expected %d", y, o.nextRow)
	}

	native, err := o.ToNativeScanline(format, data, xstride)
	if err != nil {
		return err
	}
	o.writeRow(native)
	if err := o.w.Flush(); err != nil {
		return o.Fail(ioerr.Wrap(ioerr.ErrIO, op, err, "row %d", y))
	}
	o.nextRow++
	return nil
}

// WriteTile implements imageio.ImageOutput. PNM files are never tiled.
func (o *Output) WriteTile(x, y, z int, format typedesc.TypeDesc, data []byte, xstride, ystride, zstride int) error {
	return o.Errorf(ioerr.ErrUnsupportedFeature, "pnm write tile", "PNM does not support tiles")
}

func (o *Output) writeRow(native []byte) {
	spec := o.Spec()
	n := spec.Width * spec.NChannels
	wide := spec.Format.BaseType == typedesc.UInt16
	typeMax := 0xff
	if wide {
		typeMax = 0xffff
	}
	sample := func(i int) int {
		v := int(native[i])
		if wide {
			v = int(binary.NativeEndian.Uint16(native[2*i:]))
		}
		return v * o.maxval / typeMax
	}

	line := o.line[:0]
	switch o.kind {
	case 1:
		// Bitmaps store 1 for black, so any nonzero sample is a 0.
		for i := 0; i < n; i++ {
			if native[i] != 0 {
				line = append(line, '0', '\n')
			} else {
				line = append(line, '1', '\n')
			}
		}
	case 4:
		for x := 0; x < n; x += 8 {
			var packed byte
			for bit := 0; bit < 8 && x+bit < n; bit++ {
				if native[x+bit] == 0 {
					packed |= 0x80 >> bit
				}
			}
			line = append(line, packed)
		}
	case 2, 3:
		for i := 0; i < n; i++ {
			line = strconv.AppendInt(line, int64(sample(i)), 10)
			line = append(line, '\n')
		}
	case 5, 6:
		for i := 0; i < n; i++ {
			if o.maxval > 0xff {
				line = binary.BigEndian.AppendUint16(line, uint16(sample(i)))
			} else {
				line = append(line, byte(sample(i)))
			}
		}
	}
	o.line = line
	_, _ = o.w.Write(line)
}

// Close flushes and closes the file.
func (o *Output) Close() error {
	if !o.IsOpen() {
		return nil
	}
	const op = "pnm close"
	err := o.w.Flush()
	if cerr := o.f.Close(); err == nil {
		err = cerr
	}
	o.f, o.w = nil, nil
	o.SetClosed()
	if err != nil {
		return o.Fail(ioerr.Wrap(ioerr.ErrIO, op, err, "close"))
	}
	imageio.Logger().Debug("pnm: close")
	return nil
}
