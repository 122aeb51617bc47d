package stdimage

import (
	"bufio"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/imageio/goimage"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// DefaultJPEGQuality is used when CompressionQuality is absent.
const DefaultJPEGQuality = 95

// Output buffers the image and encodes it on Close.
type Output struct {
	imageio.BufferedOutput

	kind    Kind
	f       *os.File
	encoder imgio.Encoder
}

// NewOutput returns a closed writer.
func NewOutput() imageio.ImageOutput { return &Output{} }

// FormatName implements imageio.ImageOutput.
func (o *Output) FormatName() string { return "stdimage" }

// Supports implements imageio.ImageOutput. None of the formats are tiled.
func (o *Output) Supports(string) bool { return false }

func pngLevel(name string) png.CompressionLevel {
	switch strings.ToLower(name) {
	case "none":
		return png.NoCompression
	case "fast":
		return png.BestSpeed
	case "best":
		return png.BestCompression
	}
	return png.DefaultCompression
}

// encoderFor builds the encoder for kind from the spec's attributes.
func encoderFor(kind Kind, spec *imageio.ImageSpec) imgio.Encoder {
	switch kind {
	case JPEG:
		q := spec.GetIntAttribute(imageio.AttrCompressionQuality, DefaultJPEGQuality)
		q = max(1, min(q, 100))
		return imgio.JPEGEncoder(q)
	case BMP:
		return imgio.BMPEncoder()
	case GIF:
		return func(w io.Writer, img image.Image) error {
			return imaging.Encode(w, img, imaging.GIF, imaging.GIFNumColors(256))
		}
	}
	level := pngLevel(spec.GetStringAttribute(imageio.AttrCompression, ""))
	return func(w io.Writer, img image.Image) error {
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(level))
	}
}

// Open picks the format from the file name and creates the file.
func (o *Output) Open(name string, spec imageio.ImageSpec, mode imageio.OpenMode) error {
	const op = "stdimage open"
	if o.IsOpen() {
		// A failed write of the previous file stays on the error channel.
		o.Fail(o.Close())
	}
	kind, ok := KindOf(name)
	if !ok {
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: unknown extension", name)
	}
	if mode != imageio.Create {
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: %s files hold one image", name, kind)
	}
	if spec.Depth < 1 {
		spec.Depth = 1
	}
	if err := spec.Validate(); err != nil {
		return o.Fail(err)
	}
	if spec.Depth > 1 {
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: volume images are not supported", name)
	}
	if spec.NChannels > 4 {
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: %d channels, want at most 4", name, spec.NChannels)
	}

	native := spec.Clone()
	native.TileWidth, native.TileHeight, native.TileDepth = 0, 0, 0
	want := typedesc.TypeUInt8
	if kind == PNG && spec.Format.Size() > 1 {
		want = typedesc.TypeUInt16
	}
	if native.Format != want {
		native.SetFormat(want)
	}

	f, err := os.Create(name)
	if err != nil {
		return o.Fail(ioerr.Wrap(ioerr.ErrOpen, op, err, "create %s", name))
	}
	if err := o.OpenFrame(native, o.encode); err != nil {
		_ = f.Close()
		return err
	}
	o.kind, o.f = kind, f
	o.encoder = encoderFor(kind, &native)
	imageio.Logger().Debug("stdimage: open", "file", name, "kind", kind, "native", native.Format)
	return nil
}

func (o *Output) encode(spec imageio.ImageSpec, frame []byte) error {
	const op = "stdimage encode"
	f := o.f
	o.f = nil
	if f == nil {
		return nil
	}
	img, err := goimage.ToImage(spec, frame)
	if err != nil {
		_ = f.Close()
		return err
	}
	w := bufio.NewWriter(f)
	err = o.encoder(w, img)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ioerr.Wrap(ioerr.ErrIO, op, err, "write %s %s", o.kind, f.Name())
	}
	return nil
}
