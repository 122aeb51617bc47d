package stdimage

import (
	"errors"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/imageio/goimage"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
)

// Input decodes PNG, JPEG, BMP and GIF files.
type Input struct {
	imageio.InputBase
}

// NewInput returns a closed reader.
func NewInput() imageio.ImageInput { return &Input{} }

// FormatName implements imageio.ImageInput.
func (in *Input) FormatName() string { return "stdimage" }

// Open decodes the file, applying EXIF orientation.
func (in *Input) Open(name string) (imageio.ImageSpec, error) {
	const op = "stdimage open"
	_ = in.Close()

	img, err := imaging.Open(name, imaging.AutoOrientation(true))
	if err != nil {
		kind := ioerr.ErrIO
		switch {
		case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
			kind = ioerr.ErrOpen
		case errors.Is(err, image.ErrFormat):
			kind = ioerr.ErrUnsupportedFeature
		}
		return imageio.ImageSpec{}, in.Fail(ioerr.Wrap(kind, op, err, "decode %s", name))
	}

	spec, frame := goimage.FromImage(img)
	if err := in.SetFrame(spec, frame); err != nil {
		return imageio.ImageSpec{}, err
	}
	imageio.Logger().Debug("stdimage: read", "file", name, "channels", spec.NChannels, "format", spec.Format)
	return spec, nil
}
