package pnm

import (
	"bufio"
	"encoding/binary"
	"image"
	"io"
	"math/bits"
	"os"

	"github.com/spakin/netpbm"

	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// Input reads all six PNM variants into an 8-bit or 16-bit frame. Samples
// are rescaled from the file's maximum value to the full range of the
// native type. Bitmaps read as one 8-bit channel with black at 0.
type Input struct {
	imageio.InputBase
}

// NewInput returns a closed PNM reader.
func NewInput() imageio.ImageInput { return &Input{} }

// FormatName implements imageio.ImageInput.
func (in *Input) FormatName() string { return "pnm" }

// Open decodes the whole file.
func (in *Input) Open(name string) (imageio.ImageSpec, error) {
	const op = "pnm open"
	in.Fail(in.Close())

	f, err := os.Open(name)
	if err != nil {
		return imageio.ImageSpec{}, in.Fail(ioerr.Wrap(ioerr.ErrOpen, op, err, "open %s", name))
	}
	defer f.Close()

	spec, frame, err := decode(f)
	if err != nil {
		return imageio.ImageSpec{}, in.Fail(ioerr.Wrap(ioerr.KindOf(err), op, err, "%s", name))
	}
	if err := in.SetFrame(spec, frame); err != nil {
		return imageio.ImageSpec{}, err
	}
	imageio.Logger().Debug("pnm: read", "file", name, "width", spec.Width, "height", spec.Height,
		"channels", spec.NChannels, "format", spec.Format)
	return spec, nil
}

// decode reads a P1..P6 file. The header is checked against the file size
// before any pixel storage is allocated.
func decode(f *os.File) (imageio.ImageSpec, []byte, error) {
	const op = "pnm decode"
	st, err := f.Stat()
	if err != nil {
		return imageio.ImageSpec{}, nil, ioerr.Wrap(ioerr.ErrIO, op, err, "stat")
	}

	r := bufio.NewReader(f)
	magic, err := r.Peek(2)
	if err != nil || magic[0] != 'P' || magic[1] < '1' || magic[1] > '6' {
		return imageio.ImageSpec{}, nil, ioerr.Errorf(ioerr.ErrUnsupportedFeature, op, "not a PBM, PGM or PPM file")
	}
	kind := int(magic[1] - '0')

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return imageio.ImageSpec{}, nil, ioerr.Wrap(ioerr.ErrIO, op, err, "header")
	}
	// A raw bitmap packs eight pixels per byte, the densest encoding.
	if int64(cfg.Width)*int64(cfg.Height) > 8*st.Size() {
		return imageio.ImageSpec{}, nil, ioerr.Errorf(ioerr.ErrIO, op,
			"header claims %dx%d pixels but the file holds %d bytes", cfg.Width, cfg.Height, st.Size())
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return imageio.ImageSpec{}, nil, ioerr.Wrap(ioerr.ErrIO, op, err, "rewind")
	}
	r.Reset(f)
	img, err := netpbm.Decode(r, &netpbm.DecodeOptions{Target: netpbm.PNM})
	if err != nil {
		return imageio.ImageSpec{}, nil, ioerr.Wrap(ioerr.ErrIO, op, err, "pixels")
	}

	nch := 1
	if kind == 3 || kind == 6 {
		nch = 3
	}
	maxval := int(img.MaxValue())
	format := typedesc.TypeUInt8
	if maxval > 0xff {
		format = typedesc.TypeUInt16
	}
	b := img.Bounds()
	spec := imageio.NewImageSpec(b.Dx(), b.Dy(), nch, format)
	if err := spec.Validate(); err != nil {
		return imageio.ImageSpec{}, nil, err
	}

	depth := bits.Len(uint(maxval))
	if kind == 1 || kind == 4 {
		depth = 1
	}
	spec.AttributeInt(imageio.AttrBitsPerSample, depth)
	if kind <= 3 {
		spec.AttributeInt("pnm:binary", 0)
	} else {
		spec.AttributeInt("pnm:binary", 1)
	}

	frame := make([]byte, spec.ImageBytes())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// RGBA scales samples from maxval to 16 bits.
			cr, cg, cb, _ := img.At(x, y).RGBA()
			for _, v := range []uint32{cr, cg, cb}[:nch] {
				if format.BaseType == typedesc.UInt16 {
					binary.NativeEndian.PutUint16(frame[2*i:], uint16(v))
				} else {
					frame[i] = byte((v*0xff + 0x7fff) / 0xffff)
				}
				i++
			}
		}
	}
	return spec, frame, nil
}
