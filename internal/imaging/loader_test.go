package imaging

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	_ "github.com/ironsheep/imageio-mcp/internal/formats/pnm"
	_ "github.com/ironsheep/imageio-mcp/internal/formats/stdimage"
	_ "github.com/ironsheep/imageio-mcp/internal/formats/tiff"
	"github.com/ironsheep/imageio-mcp/internal/ioerr"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// newRGB returns an 8-bit RGB image filled with one color.
func newRGB(t *testing.T, width, height int, r, g, b byte) *Image {
	t.Helper()
	img, err := NewImage(width, height, 3, typedesc.TypeUInt8)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	for i := 0; i < len(img.Pixels); i += 3 {
		img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2] = r, g, b
	}
	return img
}

// newPattern returns an 8-bit RGB image with a different color in each
// quadrant: red top-left, green top-right, blue bottom-left, white
// bottom-right.
func newPattern(t *testing.T, width, height int) *Image {
	t.Helper()
	img := newRGB(t, width, height, 0, 0, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c [3]byte
			switch {
			case x < width/2 && y < height/2:
				c = [3]byte{255, 0, 0}
			case x >= width/2 && y < height/2:
				c = [3]byte{0, 255, 0}
			case x < width/2:
				c = [3]byte{0, 0, 255}
			default:
				c = [3]byte{255, 255, 255}
			}
			copy(img.Pixels[img.pixelOffset(x, y):], c[:])
		}
	}
	return img
}

// writeTestImage saves img under a temporary directory and returns the path.
func writeTestImage(t *testing.T, img *Image, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if _, err := Save(img, path, typedesc.TypeUnknown, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return path
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.images == nil {
		t.Fatal("NewImageCache did not initialize images map")
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestImage(t, newRGB(t, 100, 80, 255, 0, 0), "red.ppm")

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img1.Width() != 100 || img1.Height() != 80 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x80", img1.Width(), img1.Height())
	}
	if img1.Format != "pnm" {
		t.Errorf("Format: got %q, want pnm", img1.Format)
	}

	// Second load should return cached image
	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache()
	_, err := cache.Load("/nonexistent/path/to/image.png")
	if !errors.Is(err, ioerr.ErrOpen) {
		t.Errorf("Load of a missing file: got %v, want ErrOpen", err)
	}
}

func TestImageCache_Load_NoPlugin(t *testing.T) {
	cache := NewImageCache()
	_, err := cache.Load("picture.xyz")
	if !errors.Is(err, ioerr.ErrOpen) {
		t.Errorf("Load of an unknown format: got %v, want ErrOpen", err)
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := NewImageCache()
	path := filepath.Join(t.TempDir(), "invalid.ppm")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := cache.Load(path); err == nil {
		t.Error("Load should fail for invalid image data")
	}
	if cache.Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	cache := NewImageCache()
	a := writeTestImage(t, newRGB(t, 4, 4, 0, 255, 0), "a.ppm")
	b := writeTestImage(t, newRGB(t, 4, 4, 0, 0, 255), "b.ppm")

	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Evict(a)
	cache.Evict("/nonexistent/path")
	if cache.Len() != 1 {
		t.Errorf("after Evict: %d images cached, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestImage(t, newRGB(t, 50, 50, 128, 128, 128), "gray.png")

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	src := newRGB(t, 20, 15, 255, 128, 64)
	imgPath := writeTestImage(t, src, "info.tif")

	info, err := LoadImageInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 20 || info.Height != 15 {
		t.Errorf("dimensions: got %dx%d, want 20x15", info.Width, info.Height)
	}
	if info.Format != "tiff" {
		t.Errorf("Format: got %s, want tiff", info.Format)
	}
	if info.PixelType != "uint8" || info.ColorDepth != "8-bit" {
		t.Errorf("pixel type: got %s (%s), want uint8 (8-bit)", info.PixelType, info.ColorDepth)
	}
	if info.Channels != 3 || info.HasAlpha {
		t.Errorf("channels: got %d (alpha %v), want 3 without alpha", info.Channels, info.HasAlpha)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes: got %d", info.FileSizeBytes)
	}
}

func TestLoadImageInfo_Attributes(t *testing.T) {
	cache := NewImageCache()
	gray, err := NewImage(3, 1, 1, typedesc.TypeUInt8)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "g.pgm")
	if _, err := Save(gray, path, typedesc.TypeUInt16, map[string]string{"BitsPerSample": "12"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if got := info.Attributes["BitsPerSample"]; got != "12" {
		t.Errorf("BitsPerSample attribute: got %q, want 12", got)
	}
	if info.PixelType != "uint16" || info.ColorDepth != "16-bit" {
		t.Errorf("pixel type: got %s (%s), want uint16 (16-bit)", info.PixelType, info.ColorDepth)
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	imgPath := writeTestImage(t, newRGB(t, 30, 12, 9, 9, 9), "dims.bmp")

	dims, err := GetDimensions(cache, imgPath)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 30 || dims.Height != 12 {
		t.Errorf("dimensions: got %dx%d, want 30x12", dims.Width, dims.Height)
	}

	if _, err := GetDimensions(cache, "/nonexistent.png"); err == nil {
		t.Error("GetDimensions should fail for non-existent file")
	}
}
