package imageio

import (
	"github.com/ironsheep/imageio-mcp/internal/convert"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// WriteImage writes a whole image held in data to an open output. Tiled
// outputs receive tiles, everything else scanlines. Strides may be
// convert.AutoStride and an Unknown format means native.
func WriteImage(out ImageOutput, format typedesc.TypeDesc, data []byte, xstride, ystride, zstride int) error {
	s := out.Spec()
	if format.BaseType == typedesc.Unknown {
		format = s.Format
	}
	st := s.AutoStride(convert.Strides{X: xstride, Y: ystride, Z: zstride}, format)
	depth := depthOf(s.Depth)

	if out.Supports(FeatureTiles) && s.TileWidth > 0 && s.TileHeight > 0 {
		return writeTiles(out, &s, format, data, st)
	}

	for z := 0; z < depth; z++ {
		for y := 0; y < s.Height; y++ {
			off := z*st.Z + y*st.Y
			if off > len(data) {
				return ioerr.Errorf(ioerr.ErrInvalidLayout, "write image", "buffer too small for row %d", y)
			}
			if err := out.WriteScanline(s.Y+y, s.Z+z, format, data[off:], st.X); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeTiles cuts data into tiles. Every tile is gathered into a packed
// buffer first so edge tiles never read past the caller's image.
func writeTiles(out ImageOutput, s *ImageSpec, format typedesc.TypeDesc, data []byte, st convert.Strides) error {
	tw, th, td := s.TileWidth, s.TileHeight, depthOf(s.TileDepth)
	pixel := s.NChannels * format.Size()
	tile := make([]byte, tw*th*td*pixel)
	depth := depthOf(s.Depth)

	for z := 0; z < depth; z += td {
		for y := 0; y < s.Height; y += th {
			for x := 0; x < s.Width; x += tw {
				for i := range tile {
					tile[i] = 0
				}
				w, h, d := min(tw, s.Width-x), min(th, s.Height-y), min(td, depth-z)
				for tz := 0; tz < d; tz++ {
					for ty := 0; ty < h; ty++ {
						dst := tile[((tz*th)+ty)*tw*pixel:]
						base := (z+tz)*st.Z + (y+ty)*st.Y + x*st.X
						for tx := 0; tx < w; tx++ {
							p := base + tx*st.X
							if p+pixel > len(data) {
								return ioerr.Errorf(ioerr.ErrInvalidLayout, "write image", "buffer too small for tile at (%d, %d)", x, y)
							}
							copy(dst[tx*pixel:(tx+1)*pixel], data[p:p+pixel])
						}
					}
				}
				if err := out.WriteTile(s.X+x, s.Y+y, s.Z+z, format, tile,
					convert.AutoStride, convert.AutoStride, convert.AutoStride); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
