package tiff

import (
	"bufio"
	"os"

	xtiff "golang.org/x/image/tiff"

	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/imageio/goimage"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
)

// Input reads the first image of a TIFF file.
type Input struct {
	imageio.InputBase
}

// NewInput returns a closed TIFF reader.
func NewInput() imageio.ImageInput { return &Input{} }

// FormatName implements imageio.ImageInput.
func (in *Input) FormatName() string { return "tiff" }

// Open decodes the file.
func (in *Input) Open(name string) (imageio.ImageSpec, error) {
	const op = "tiff open"
	_ = in.Close()

	f, err := os.Open(name)
	if err != nil {
		return imageio.ImageSpec{}, in.Fail(ioerr.Wrap(ioerr.ErrOpen, op, err, "open %s", name))
	}
	defer f.Close()

	img, err := xtiff.Decode(bufio.NewReader(f))
	if err != nil {
		kind := ioerr.ErrIO
		if _, ok := err.(xtiff.UnsupportedError); ok {
			kind = ioerr.ErrUnsupportedFeature
		}
		return imageio.ImageSpec{}, in.Fail(ioerr.Wrap(kind, op, err, "decode %s", name))
	}

	spec, frame := goimage.FromImage(img)
	if err := in.SetFrame(spec, frame); err != nil {
		return imageio.ImageSpec{}, err
	}
	return spec, nil
}
