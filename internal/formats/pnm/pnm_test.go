package pnm

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/imageio-mcp/internal/convert"
	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/param"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

func writeFile(t *testing.T, name string, spec imageio.ImageSpec, format typedesc.TypeDesc, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	out := NewOutput()
	require.NoError(t, out.Open(path, spec, imageio.Create))
	require.NoError(t, imageio.WriteImage(out, format, data, convert.AutoStride, convert.AutoStride, convert.AutoStride))
	require.NoError(t, out.Close())
	return path
}

func readFile(t *testing.T, path string) (imageio.ImageSpec, []byte) {
	t.Helper()
	in := NewInput()
	spec, err := in.Open(path)
	require.NoError(t, err)
	data := make([]byte, spec.ImageBytes())
	require.NoError(t, imageio.ReadImage(in, typedesc.TypeUnknown, data, convert.AutoStride, convert.AutoStride, convert.AutoStride))
	require.NoError(t, in.Close())
	return spec, data
}

func TestRawGrayHeader(t *testing.T) {
	spec := imageio.NewImageSpec(2, 1, 1, typedesc.TypeUInt8)
	path := writeFile(t, "a.pgm", spec, typedesc.TypeUInt8, []byte{7, 200})

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "P5\n2 1\n255\n\x07\xc8", string(got))
}

func TestPixmapRoundTrip(t *testing.T) {
	spec := imageio.NewImageSpec(2, 2, 3, typedesc.TypeUInt8)
	pixels := []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 10, 20, 30,
	}
	path := writeFile(t, "a.ppm", spec, typedesc.TypeUInt8, pixels)

	back, data := readFile(t, path)
	assert.Equal(t, 3, back.NChannels)
	assert.Equal(t, typedesc.TypeUInt8, back.Format)
	assert.Equal(t, 8, back.GetIntAttribute(imageio.AttrBitsPerSample, 0))
	assert.Equal(t, pixels, data)
}

func TestSixteenBitFromFloat(t *testing.T) {
	spec := imageio.NewImageSpec(3, 1, 1, typedesc.TypeFloat)
	spec.AttributeInt(imageio.AttrBitsPerSample, 16)
	path := writeFile(t, "deep.pgm", spec, typedesc.TypeFloat, param.FloatBytes(0, 0.5, 1))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	header := "P5\n3 1\n65535\n"
	require.Len(t, got, len(header)+6)
	assert.Equal(t, header, string(got[:len(header)]))
	assert.Equal(t, uint16(0x8000), binary.BigEndian.Uint16(got[len(header)+2:]), "samples are big-endian")

	back, data := readFile(t, path)
	assert.Equal(t, typedesc.TypeUInt16, back.Format)
	assert.Equal(t, uint16(0xffff), binary.NativeEndian.Uint16(data[4:]))
}

func TestPlainFormats(t *testing.T) {
	spec := imageio.NewImageSpec(2, 1, 3, typedesc.TypeUInt8)
	spec.AttributeInt("pnm:binary", 0)
	spec.AttributeInt(imageio.AttrBitsPerSample, 4)
	path := writeFile(t, "plain.ppm", spec, typedesc.TypeUInt8, []byte{255, 0, 17, 34, 51, 68})

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "P3\n2 1\n15\n15\n0\n1\n2\n3\n4\n", string(got))

	back, data := readFile(t, path)
	assert.Equal(t, 0, back.GetIntAttribute("pnm:binary", 1))
	assert.Equal(t, 4, back.GetIntAttribute(imageio.AttrBitsPerSample, 0))
	assert.Equal(t, []byte{255, 0, 17, 34, 51, 68}, data)
}

func TestBitmaps(t *testing.T) {
	pixels := []byte{0, 255, 255, 0, 0, 0, 0, 0, 255, 0}
	for _, binaryForm := range []int{0, 1} {
		spec := imageio.NewImageSpec(10, 1, 1, typedesc.TypeUInt8)
		spec.AttributeInt(imageio.AttrBitsPerSample, 1)
		spec.AttributeInt("pnm:binary", binaryForm)
		path := writeFile(t, "bits.pbm", spec, typedesc.TypeUInt8, pixels)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		if binaryForm == 1 {
			assert.Equal(t, "P4\n10 1\n\x9f\x40", string(got), "zero samples are set bits")
		} else {
			assert.Equal(t, "P1\n10 1\n1\n0\n0\n1\n1\n1\n1\n1\n0\n1\n", string(got))
		}

		_, data := readFile(t, path)
		assert.Equal(t, pixels, data)
	}
}

func TestReadComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.pgm")
	require.NoError(t, os.WriteFile(path, []byte("P2\n# made by hand\n2 1 # size\n100\n0 100\n"), 0o644))

	spec, data := readFile(t, path)
	assert.Equal(t, 2, spec.Width)
	assert.Equal(t, 7, spec.GetIntAttribute(imageio.AttrBitsPerSample, 0))
	assert.Equal(t, []byte{0, 255}, data)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		kind    error
	}{
		{"not pnm", "GIF89a", ioerr.ErrUnsupportedFeature},
		{"truncated", "P5\n4 4\n255\n\x01\x02", ioerr.ErrIO},
		{"bad maxval", "P5\n1 1\n70000\n", ioerr.ErrIO},
		{"dimensions exceed file", "P5\n100000 100000\n255\n", ioerr.ErrIO},
		{"pam", "P7\nWIDTH 1\nHEIGHT 1\nDEPTH 1\nMAXVAL 255\nENDHDR\n\x00", ioerr.ErrUnsupportedFeature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.pnm")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			in := NewInput()
			_, err := in.Open(path)
			assert.ErrorIs(t, err, tt.kind)
			assert.NotEmpty(t, in.GetError())
		})
	}

	_, err := NewInput().Open(filepath.Join(dir, "missing.ppm"))
	assert.ErrorIs(t, err, ioerr.ErrOpen)
}

func TestOpenRejects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.ppm")

	out := NewOutput()
	err := out.Open(path, imageio.NewImageSpec(2, 2, 3, typedesc.TypeUInt8), imageio.AppendSubimage)
	assert.ErrorIs(t, err, ioerr.ErrUnsupportedFeature)
	assert.Contains(t, out.GetError(), "append")

	assert.ErrorIs(t, out.Open(path, imageio.NewImageSpec(2, 2, 2, typedesc.TypeUInt8), imageio.Create),
		ioerr.ErrUnsupportedFeature)

	rgbBits := imageio.NewImageSpec(2, 2, 3, typedesc.TypeUInt8)
	rgbBits.AttributeInt(imageio.AttrBitsPerSample, 1)
	assert.ErrorIs(t, out.Open(path, rgbBits, imageio.Create), ioerr.ErrUnsupportedFeature)

	wide := imageio.NewImageSpec(2, 2, 1, typedesc.TypeUInt8)
	wide.AttributeInt(imageio.AttrBitsPerSample, 17)
	assert.ErrorIs(t, out.Open(path, wide, imageio.Create), ioerr.ErrUnsupportedType)

	err = out.Open(filepath.Join(dir, "no", "such", "dir.ppm"), imageio.NewImageSpec(2, 2, 3, typedesc.TypeUInt8), imageio.Create)
	assert.ErrorIs(t, err, ioerr.ErrOpen)
	assert.False(t, out.Supports(imageio.FeatureTiles))
}

func TestScanlineOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "o.pgm")
	out := NewOutput()
	require.NoError(t, out.Open(path, imageio.NewImageSpec(2, 2, 1, typedesc.TypeUInt8), imageio.Create))
	defer out.Close()

	assert.ErrorIs(t, out.WriteScanline(1, 0, typedesc.TypeUInt8, []byte{1, 2}, convert.AutoStride), ioerr.ErrInvalidLayout)
	assert.ErrorIs(t, out.WriteScanline(0, 1, typedesc.TypeUInt8, []byte{1, 2}, convert.AutoStride), ioerr.ErrUnsupportedFeature)
	assert.NoError(t, out.WriteScanline(0, 0, typedesc.TypeUInt8, []byte{1, 2}, convert.AutoStride))
	assert.ErrorIs(t, out.WriteTile(0, 0, 0, typedesc.TypeUInt8, []byte{1, 2}, convert.AutoStride, convert.AutoStride, convert.AutoStride),
		ioerr.ErrUnsupportedFeature)
}

func TestCloseTwice(t *testing.T) {
	out := NewOutput()
	require.NoError(t, out.Open(filepath.Join(t.TempDir(), "c.pbm"), imageio.NewImageSpec(1, 1, 1, typedesc.TypeUInt8), imageio.Create))
	assert.NoError(t, out.Close())
	assert.NoError(t, out.Close())
	assert.ErrorIs(t, out.WriteScanline(0, 0, typedesc.TypeUInt8, []byte{1}, convert.AutoStride), ioerr.ErrNotOpen)
}

func TestReopenKeepsWriteError(t *testing.T) {
	dir := t.TempDir()
	spec := imageio.NewImageSpec(1, 1, 1, typedesc.TypeUInt8)
	out := NewOutput()
	require.NoError(t, out.Open(filepath.Join(dir, "first.pgm"), spec, imageio.Create))
	require.NoError(t, out.(*Output).f.Close())

	require.NoError(t, out.Open(filepath.Join(dir, "second.pgm"), spec, imageio.Create))
	assert.Contains(t, out.GetError(), "first.pgm")
	require.NoError(t, out.Close())
}

func TestRegistered(t *testing.T) {
	out, err := imageio.CreateOutput("picture.PPM")
	require.NoError(t, err)
	assert.Equal(t, "pnm", out.FormatName())

	in, err := imageio.CreateInput("picture.pgm")
	require.NoError(t, err)
	assert.Equal(t, "pnm", in.FormatName())
}
