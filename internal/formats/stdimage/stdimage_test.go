package stdimage

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

func save(t *testing.T, path string, spec imageio.ImageSpec, format typedesc.TypeDesc, data []byte) imageio.ImageSpec {
	t.Helper()
	out, err := imageio.CreateOutput(path)
	require.NoError(t, err)
	require.NoError(t, out.Open(path, spec, imageio.Create))
	native := out.Spec()
	require.NoError(t, imageio.WriteImage(out, format, data, convert.AutoStride, convert.AutoStride, convert.AutoStride))
	require.NoError(t, out.Close())
	return native
}

func load(t *testing.T, path string) (imageio.ImageSpec, []byte) {
	t.Helper()
	in, err := imageio.CreateInput(path)
	require.NoError(t, err)
	spec, err := in.Open(path)
	require.NoError(t, err)
	data := make([]byte, spec.ImageBytes())
	require.NoError(t, imageio.ReadImage(in, typedesc.TypeUnknown, data, convert.AutoStride, convert.AutoStride, convert.AutoStride))
	require.NoError(t, in.Close())
	return spec, data
}

func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 13)
	}
	return data
}

func TestLosslessRoundTrip(t *testing.T) {
	tests := []struct {
		file string
		nch  int
	}{
		{"gray.png", 1},
		{"rgb.png", 3},
		{"rgb.bmp", 3},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			pixels := pattern(4 * 3 * tt.nch)
			native := save(t, path, imageio.NewImageSpec(4, 3, tt.nch, typedesc.TypeUInt8), typedesc.TypeUInt8, pixels)
			assert.Equal(t, typedesc.TypeUInt8, native.Format)

			spec, data := load(t, path)
			assert.Equal(t, tt.nch, spec.NChannels)
			assert.Equal(t, pixels, data)
		})
	}
}

func TestPNGAlpha(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rgba.png")
	pixels := []byte{1, 2, 3, 4, 5, 6, 7, 255}
	save(t, path, imageio.NewImageSpec(2, 1, 4, typedesc.TypeUInt8), typedesc.TypeUInt8, pixels)

	spec, data := load(t, path)
	assert.Equal(t, 4, spec.NChannels)
	assert.Equal(t, 3, spec.AlphaChannel)
	assert.Equal(t, pixels, data)
}

func TestPNGSixteenBit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep.png")
	native := save(t, path, imageio.NewImageSpec(3, 1, 1, typedesc.TypeFloat), typedesc.TypeFloat, param.FloatBytes(0, 0.5, 1))
	assert.Equal(t, typedesc.TypeUInt16, native.Format)

	spec, data := load(t, path)
	assert.Equal(t, typedesc.TypeUInt16, spec.Format)
	assert.Equal(t, uint16(32768), binary.NativeEndian.Uint16(data[2:]))
	assert.Equal(t, uint16(65535), binary.NativeEndian.Uint16(data[4:]))
}

func TestNonPNGIsEightBit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep.bmp")
	native := save(t, path, imageio.NewImageSpec(2, 1, 3, typedesc.TypeFloat), typedesc.TypeFloat,
		param.FloatBytes(1, 0, 0, 0, 0, 1))
	assert.Equal(t, typedesc.TypeUInt8, native.Format)

	_, data := load(t, path)
	assert.Equal(t, []byte{255, 0, 0, 0, 0, 255}, data)
}

func TestJPEGQuality(t *testing.T) {
	dir := t.TempDir()
	pixels := pattern(32 * 32 * 3)
	sizes := map[int]int64{}
	for _, q := range []int{10, 95} {
		spec := imageio.NewImageSpec(32, 32, 3, typedesc.TypeUInt8)
		spec.AttributeInt(imageio.AttrCompressionQuality, q)
		path := filepath.Join(dir, "q.jpg")
		save(t, path, spec, typedesc.TypeUInt8, pixels)
		st, err := os.Stat(path)
		require.NoError(t, err)
		sizes[q] = st.Size()

		back, _ := load(t, path)
		assert.Equal(t, 32, back.Width)
		assert.Equal(t, 3, back.NChannels)
	}
	assert.Less(t, sizes[10], sizes[95])
}

func TestGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.gif")
	save(t, path, imageio.NewImageSpec(4, 4, 3, typedesc.TypeUInt8), typedesc.TypeUInt8, make([]byte, 48))

	spec, data := load(t, path)
	assert.Equal(t, 4, spec.Width)
	assert.Equal(t, 4, spec.Height)
	assert.Equal(t, make([]byte, len(data)), data, "black stays black")
}

func TestOpenRejects(t *testing.T) {
	dir := t.TempDir()
	out := NewOutput()
	spec := imageio.NewImageSpec(2, 2, 3, typedesc.TypeUInt8)

	assert.ErrorIs(t, out.Open(filepath.Join(dir, "a.webp"), spec, imageio.Create), ioerr.ErrUnsupportedFeature)
	assert.ErrorIs(t, out.Open(filepath.Join(dir, "a.png"), spec, imageio.AppendSubimage), ioerr.ErrUnsupportedFeature)
	assert.ErrorIs(t, out.Open(filepath.Join(dir, "a.png"), imageio.NewImageSpec(2, 2, 5, typedesc.TypeUInt8), imageio.Create),
		ioerr.ErrUnsupportedFeature)
	assert.ErrorIs(t, out.Open(filepath.Join(dir, "missing", "a.png"), spec, imageio.Create), ioerr.ErrOpen)
	assert.NotEmpty(t, out.GetError())
}

func TestReopenKeepsWriteError(t *testing.T) {
	dir := t.TempDir()
	spec := imageio.NewImageSpec(2, 2, 3, typedesc.TypeUInt8)
	out := NewOutput()
	require.NoError(t, out.Open(filepath.Join(dir, "first.png"), spec, imageio.Create))
	require.NoError(t, out.(*Output).f.Close())

	require.NoError(t, out.Open(filepath.Join(dir, "second.png"), spec, imageio.Create))
	assert.Contains(t, out.GetError(), "first.png")
	require.NoError(t, out.Close())
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	in := NewInput()
	_, err := in.Open(filepath.Join(dir, "nope.png"))
	assert.ErrorIs(t, err, ioerr.ErrOpen)

	junk := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("definitely not a png"), 0o644))
	_, err = in.Open(junk)
	assert.ErrorIs(t, err, ioerr.ErrUnsupportedFeature)
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf("photo.JPG")
	assert.True(t, ok)
	assert.Equal(t, JPEG, k)
	assert.Equal(t, "jpeg", k.String())

	_, ok = KindOf("scan.tif")
	assert.False(t, ok)
}
