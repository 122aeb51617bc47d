package imaging

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ironsheep/imageio-mcp/internal/convert"
	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/param"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// Image is a decoded image held in its native pixel format.
//
// Pixels is packed: channels interleaved, scanlines top to bottom, planes
// one after another, in the byte order of the host. Spec describes it.
type Image struct {
	// Path is the file the image was read from, if any.
	Path string

	// Format names the plugin that decoded the file, e.g. "tiff".
	Format string

	Spec   imageio.ImageSpec
	Pixels []byte
}

// NewImage returns a zeroed image of the given size and format.
func NewImage(width, height, nchannels int, format typedesc.TypeDesc) (*Image, error) {
	spec := imageio.NewImageSpec(width, height, nchannels, format)
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Image{Spec: spec, Pixels: make([]byte, spec.ImageBytes())}, nil
}

// Width returns the data window width.
func (img *Image) Width() int { return img.Spec.Width }

// Height returns the data window height.
func (img *Image) Height() int { return img.Spec.Height }

// pixelOffset returns the byte offset of pixel (x, y) of the first plane.
func (img *Image) pixelOffset(x, y int) int {
	return (y*img.Spec.Width + x) * img.Spec.PixelBytes()
}

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The cache stores decoded images keyed by their file path. Once an image
// is loaded, subsequent Load() calls for the same path return the cached copy without
// disk I/O. Images are read through the imageio plugin registry, so any
// format with a registered reader can be loaded.
//
// ImageCache is safe for concurrent use by multiple goroutines. All methods use
// appropriate locking to prevent data races.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// For long-running processes handling many images, consider periodic cleanup to
// prevent unbounded memory growth.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/image.tif")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Use img...
//	cache.Evict("/path/to/image.tif") // Optional: free memory
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*Image
}

// NewImageCache creates and initializes a new empty image cache.
//
// The returned cache is ready for immediate use and is safe for concurrent access.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*Image),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image. The extension selects
//     the reader plugin.
//
// Returns:
//   - *Image: The decoded image in the file's native pixel format. Callers
//     must not modify it; it is shared by every user of the cache.
//   - error: Non-nil if no plugin reads the format or the file cannot be read.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
func (c *ImageCache) Load(path string) (*Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// ReadFile decodes path without caching.
func ReadFile(path string) (*Image, error) {
	in, err := imageio.CreateInput(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	spec, err := in.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer in.Close()

	pixels := make([]byte, spec.ImageBytes())
	if err := imageio.ReadImage(in, typedesc.TypeUnknown, pixels,
		convert.AutoStride, convert.AutoStride, convert.AutoStride); err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Image{Path: path, Format: in.FormatName(), Spec: spec, Pixels: pixels}, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
// After eviction, the next Load() call for this path will read from disk.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Channels is the number of channels per pixel.
	Channels int `json:"channels"`

	// ChannelNames names each channel, e.g. ["R", "G", "B"].
	ChannelNames []string `json:"channel_names"`

	// Format is the plugin that decoded the file: "tiff", "pnm" or "stdimage".
	Format string `json:"format"`

	// PixelType is the native channel type, e.g. "uint8" or "uint16".
	PixelType string `json:"pixel_type"`

	// ColorDepth indicates the bit depth per channel, e.g. "8-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// Attributes holds the file's metadata rendered as text.
	Attributes map[string]string `json:"attributes,omitempty"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// FormatAttribute renders every value of p as text, separated by commas.
func FormatAttribute(p *param.ParamValue) string {
	n := p.NValues() * p.Type().NumElements()
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		switch b := p.Type().BaseType; {
		case b == typedesc.String:
			parts = append(parts, p.Str(i))
		case b.IsInteger():
			v, _ := p.Int(i)
			parts = append(parts, strconv.FormatInt(v, 10))
		case b.IsFloat():
			v, _ := p.Float(i)
			parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	return strings.Join(parts, ", ")
}

// LoadImageInfo loads an image and returns comprehensive metadata about it.
//
// Parameters:
//   - cache: The image cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//
// Returns:
//   - *ImageInfo: Metadata about the image.
//   - error: Non-nil if the image cannot be loaded or the file cannot be stat'd.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	spec := &img.Spec
	var attrs map[string]string
	if spec.Attribs.Len() > 0 {
		attrs = make(map[string]string, spec.Attribs.Len())
		for _, p := range spec.Attribs.All() {
			attrs[p.Name()] = FormatAttribute(p)
		}
	}

	return &ImageInfo{
		Width:         spec.Width,
		Height:        spec.Height,
		Channels:      spec.NChannels,
		ChannelNames:  append([]string(nil), spec.ChannelNames...),
		Format:        img.Format,
		PixelType:     spec.Format.String(),
		ColorDepth:    fmt.Sprintf("%d-bit", 8*spec.Format.Size()),
		HasAlpha:      spec.AlphaChannel >= 0,
		Attributes:    attrs,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
//
// This is a lightweight alternative to LoadImageInfo when only the width and
// height are needed. The image is loaded into the cache if not already present.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	return &DimensionsResult{
		Width:  img.Spec.Width,
		Height: img.Spec.Height,
	}, nil
}
