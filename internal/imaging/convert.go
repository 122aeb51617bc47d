package imaging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/imageio-mcp/internal/convert"
	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// Convert returns a copy of img with every channel converted to format.
//
// Values go through the conversion engine: integers are normalized to 0..1,
// xfer (which may be nil) is applied to the color channels, and the result
// is quantized to the range of format. The alpha channel of the source is
// left out of the transfer.
func Convert(img *Image, format typedesc.TypeDesc, xfer *convert.Transfer) (*Image, error) {
	spec := &img.Spec
	out := &Image{Path: img.Path, Format: img.Format, Spec: spec.Clone()}
	out.Spec.SetFormat(format)
	size := out.Spec.ImageBytes()
	if size < 0 {
		return nil, fmt.Errorf("converted image is too large")
	}
	out.Pixels = make([]byte, size)

	if xfer != nil {
		x := *xfer
		x.AlphaChannel, x.ZChannel = spec.AlphaChannel, spec.ZChannel
		xfer = &x
	}
	if err := convert.ConvertImage(spec.NChannels, spec.Width, spec.Height, spec.Depth,
		img.Pixels, spec.Format, convert.AutoStrides,
		out.Pixels, format, convert.AutoStrides, xfer); err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	return out, nil
}

// TransferByName returns the transfer function for a name: "srgb" (linear
// to sRGB), "linear" (sRGB to linear), "gamma2.2" style gamma curves, or nil
// for "" and "none".
func TransferByName(name string) (*convert.Transfer, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "srgb":
		return convert.NewTransfer(convert.LinearToSRGB), nil
	case "linear":
		return convert.NewTransfer(convert.SRGBToLinear), nil
	}
	if rest, ok := strings.CutPrefix(name, "gamma"); ok {
		g, err := strconv.ParseFloat(rest, 32)
		if err == nil && g > 0 {
			return convert.NewTransfer(convert.Gamma(float32(g))), nil
		}
	}
	return nil, fmt.Errorf("unknown transfer function: %s", name)
}

// SetAttribute stores a textual attribute value on spec. Values that parse
// as integers or floats are stored with those types so plugins can read
// settings such as BitsPerSample or CompressionQuality.
func SetAttribute(spec *imageio.ImageSpec, name, value string) {
	if v, err := strconv.ParseInt(value, 10, 32); err == nil {
		spec.AttributeInt(name, int(v))
		return
	}
	if v, err := strconv.ParseFloat(value, 32); err == nil {
		spec.AttributeFloat(name, float32(v))
		return
	}
	spec.AttributeString(name, value)
}

// SaveResult describes a written file.
type SaveResult struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	PixelType  string `json:"pixel_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Channels   int    `json:"channels"`
	Compressed string `json:"compression,omitempty"`
}

// Save writes img to path with the plugin chosen by the file extension.
//
// Parameters:
//   - img: The image to write; its pixels are handed to the plugin in their
//     current format.
//   - path: Destination file. The extension selects the plugin.
//   - format: The requested file format, e.g. typedesc.TypeUInt16. Unknown
//     keeps the image's own format. The plugin may substitute the nearest
//     type it can store; SaveResult reports what was written.
//   - attrs: Extra attributes such as "compression" or "BitsPerSample".
//
// Returns:
//   - *SaveResult: What the plugin wrote.
//   - error: Non-nil if no plugin writes the format, Open rejects the spec, or
//     writing fails. The plugin's message is included.
func Save(img *Image, path string, format typedesc.TypeDesc, attrs map[string]string) (*SaveResult, error) {
	out, err := imageio.CreateOutput(path)
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	spec := img.Spec.Clone()
	if format.BaseType != typedesc.Unknown {
		spec.SetFormat(format)
	}
	for name, value := range attrs {
		SetAttribute(&spec, name, value)
	}

	if err := out.Open(path, spec, imageio.Create); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	native := out.Spec()
	if err := imageio.WriteImage(out, img.Spec.Format, img.Pixels,
		convert.AutoStride, convert.AutoStride, convert.AutoStride); err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	return &SaveResult{
		Path:       path,
		Format:     out.FormatName(),
		PixelType:  native.Format.String(),
		Width:      native.Width,
		Height:     native.Height,
		Channels:   native.NChannels,
		Compressed: native.GetStringAttribute(imageio.AttrCompression, ""),
	}, nil
}
