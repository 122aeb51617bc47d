package convert

import (
	"math"

	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// AutoStride asks for the contiguous default of a stride.
const AutoStride = math.MinInt

// Strides are the byte distances between successive pixels, scanlines and
// image planes.
type Strides struct {
	X, Y, Z int
}

// AutoStrides is the all-automatic layout.
var AutoStrides = Strides{X: AutoStride, Y: AutoStride, Z: AutoStride}

// Resolve replaces every AutoStride in s by the contiguous default for
// nchannels channels of format in a width x height image.
func (s Strides) Resolve(format typedesc.TypeDesc, nchannels, width, height int) Strides {
	if s.X == AutoStride {
		s.X = nchannels * format.Size()
	}
	if s.Y == AutoStride {
		s.Y = s.X * width
	}
	if s.Z == AutoStride {
		s.Z = s.Y * height
	}
	return s
}

// ResolveStrides resolves the three strides in place. See Strides.Resolve.
func ResolveStrides(xstride, ystride, zstride *int, format typedesc.TypeDesc, nchannels, width, height int) {
	s := Strides{*xstride, *ystride, *zstride}.Resolve(format, nchannels, width, height)
	*xstride, *ystride, *zstride = s.X, s.Y, s.Z
}

// IsContiguous reports whether the layout is tightly packed: pixels follow
// each other with no padding, scanlines likewise, and planes either follow
// each other or are not used (zstride 0).
func IsContiguous(nchannels, xstride, ystride, zstride, width, height int, format typedesc.TypeDesc) bool {
	return xstride == nchannels*format.Size() &&
		ystride == xstride*width &&
		(zstride == 0 || zstride == ystride*height)
}

// extent returns the number of bytes spanned by a region, or 0 for an empty
// one.
func extent(s Strides, pixelBytes, width, height, depth int) int {
	if width == 0 || height == 0 || depth == 0 {
		return 0
	}
	return (depth-1)*s.Z + (height-1)*s.Y + (width-1)*s.X + pixelBytes
}

func checkRegion(op string, s Strides, nchannels, width, height, depth int) error {
	if nchannels < 1 {
		return ioerr.Errorf(ioerr.ErrInvalidLayout, op, "channel count %d", nchannels)
	}
	if width < 0 || height < 0 || depth < 0 {
		return ioerr.Errorf(ioerr.ErrInvalidLayout, op, "negative dimensions %dx%dx%d", width, height, depth)
	}
	if s.X < 0 || s.Y < 0 || s.Z < 0 {
		return ioerr.Errorf(ioerr.ErrInvalidLayout, op, "negative strides %d/%d/%d", s.X, s.Y, s.Z)
	}
	return nil
}

// Contiguize gathers a strided width x height x depth region of nchannels
// channels of format from src into the packed buffer dst.
//
// When the source layout is already contiguous, Contiguize returns src
// itself and dst is left untouched. Otherwise it returns dst[:n] where n is
// the packed size of the region. A depth below 1 is treated as 1.
func Contiguize(src []byte, nchannels, xstride, ystride, zstride int, dst []byte, width, height, depth int, format typedesc.TypeDesc) ([]byte, error) {
	const op = "contiguize"
	if depth < 1 {
		depth = 1
	}
	elem := format.Size()
	if elem == 0 {
		return nil, ioerr.Errorf(ioerr.ErrUnsupportedType, op, "type %s has no fixed size", format)
	}
	s := Strides{xstride, ystride, zstride}.Resolve(format, nchannels, width, height)
	if err := checkRegion(op, s, nchannels, width, height, depth); err != nil {
		return nil, err
	}

	pixel := nchannels * elem
	if need := extent(s, pixel, width, height, depth); len(src) < need {
		return nil, ioerr.Errorf(ioerr.ErrInvalidLayout, op, "source holds %d bytes, layout spans %d", len(src), need)
	}
	if IsContiguous(nchannels, s.X, s.Y, s.Z, width, height, format) {
		return src, nil
	}

	row := pixel * width
	total := row * height * depth
	if len(dst) < total {
		return nil, ioerr.Errorf(ioerr.ErrInvalidLayout, op, "destination holds %d bytes, need %d", len(dst), total)
	}

	out := dst[:total]
	off := 0
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			base := z*s.Z + y*s.Y
			if s.X == pixel {
				off += copy(out[off:off+row], src[base:base+row])
				continue
			}
			for x := 0; x < width; x++ {
				p := base + x*s.X
				off += copy(out[off:off+pixel], src[p:p+pixel])
			}
		}
	}
	return out, nil
}
