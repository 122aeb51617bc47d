package tiff

import (
	"bufio"
	"os"
	"strings"
	"time"

	xtiff "golang.org/x/image/tiff"

	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/imageio/goimage"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// Output writes single-image TIFF files. Scanlines and tiles of any size are
// accepted; the whole image is buffered and encoded as strips on Close.
type Output struct {
	imageio.BufferedOutput

	f    *os.File
	opts xtiff.Options
}

// NewOutput returns a closed TIFF writer.
func NewOutput() imageio.ImageOutput { return &Output{} }

// FormatName implements imageio.ImageOutput.
func (o *Output) FormatName() string { return "tiff" }

// Supports implements imageio.ImageOutput.
func (o *Output) Supports(feature string) bool {
	return feature == imageio.FeatureTiles
}

// nativeFormat picks the file's sample type for data of type b.
func nativeFormat(b typedesc.BaseType) (typedesc.TypeDesc, bool) {
	switch b {
	case typedesc.UInt8, typedesc.Int8:
		return typedesc.TypeUInt8, true
	case typedesc.UInt16, typedesc.Int16, typedesc.Half, typedesc.Float, typedesc.Double:
		return typedesc.TypeUInt16, true
	}
	return typedesc.TypeUnknown, false
}

// compressionFor maps the compression attribute onto the encoder. The
// encoder writes only uncompressed and deflate data, so LZW and PackBits
// requests are served with deflate.
func compressionFor(name string) (xtiff.CompressionType, bool) {
	switch strings.ToLower(name) {
	case "none":
		return xtiff.Uncompressed, true
	case "zip", "deflate":
		return xtiff.Deflate, true
	case "lzw", "packbits":
		imageio.Logger().Warn("tiff: compression not available, using deflate", "compression", name)
		return xtiff.Deflate, true
	}
	return xtiff.Uncompressed, false
}

// Open negotiates the native format and creates the file. The pixels are
// written when the output is closed.
func (o *Output) Open(name string, spec imageio.ImageSpec, mode imageio.OpenMode) error {
	const op = "tiff open"
	if o.IsOpen() {
		// A failed write of the previous file stays on the error channel.
		o.Fail(o.Close())
	}
	if mode != imageio.Create {
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: appending subimages is not supported", name)
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
	switch spec.NChannels {
	case 1, 3, 4:
	default:
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: %d channels, want 1, 3 or 4", name, spec.NChannels)
	}

	native := spec.Clone()
	format, ok := nativeFormat(spec.Format.BaseType)
	if !ok {
		return o.Errorf(ioerr.ErrUnsupportedType, op, "%s: cannot store %s samples", name, spec.Format)
	}
	if format.BaseType != spec.Format.BaseType {
		native.SetFormat(format)
	}

	if strings.EqualFold(native.GetStringAttribute(imageio.AttrPlanarConfig, "contig"), "separate") {
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: separate planes are not supported", name)
	}
	comp := native.GetStringAttribute(imageio.AttrCompression, "")
	if comp == "" {
		comp = "zip"
		native.AttributeString(imageio.AttrCompression, comp)
	}
	ct, ok := compressionFor(comp)
	if !ok {
		return o.Errorf(ioerr.ErrUnsupportedFeature, op, "%s: unknown compression %q", name, comp)
	}
	o.opts = xtiff.Options{
		Compression: ct,
		Predictor:   ct == xtiff.Deflate && native.GetIntAttribute("tiff:Predictor", 1) == 2,
	}
	if native.FindAttribute(imageio.AttrDateTime) == nil {
		native.AttributeString(imageio.AttrDateTime, time.Now().Format(imageio.DateTimeLayout))
	}

	f, err := os.Create(name)
	if err != nil {
		return o.Fail(ioerr.Wrap(ioerr.ErrOpen, op, err, "create %s", name))
	}
	if err := o.OpenFrame(native, o.encode); err != nil {
		_ = f.Close()
		return err
	}
	o.f = f
	imageio.Logger().Debug("tiff: open", "file", name, "native", native.Format,
		"compression", comp, "tiled", native.TileWidth > 0)
	return nil
}

func (o *Output) encode(spec imageio.ImageSpec, frame []byte) error {
	const op = "tiff encode"
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
	err = xtiff.Encode(w, img, &o.opts)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ioerr.Wrap(ioerr.ErrIO, op, err, "write %s", f.Name())
	}
	return nil
}
