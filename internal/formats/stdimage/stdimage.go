// Package stdimage is the plugin for the everyday web formats: PNG, JPEG,
// BMP and GIF. Encoding goes through disintegration/imaging and bild's imgio
// encoders, decoding through imaging (which applies EXIF orientation).
//
// PNG files keep 16-bit samples when the caller's format is wider than
// eight bits; every other file is 8-bit. Recognized attributes:
//
//	compression         PNG only: "none", "fast", "best" or "default"
//	CompressionQuality  JPEG quality, 1..100 (default 95)
package stdimage

import (
	"path/filepath"
	"strings"

	"github.com/ironsheep/imageio-mcp/internal/imageio"
)

// Kind identifies one of the handled file formats.
type Kind int

// Formats handled by the plugin.
const (
	PNG Kind = iota
	JPEG
	BMP
	GIF
)

var kindNames = [...]string{PNG: "png", JPEG: "jpeg", BMP: "bmp", GIF: "gif"}

func (k Kind) String() string { return kindNames[k] }

// Extensions lists the handled extensions.
var Extensions = []string{"png", "jpg", "jpeg", "bmp", "gif"}

// KindOf returns the format implied by a file name's extension.
func KindOf(name string) (Kind, bool) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "png":
		return PNG, true
	case "jpg", "jpeg":
		return JPEG, true
	case "bmp":
		return BMP, true
	case "gif":
		return GIF, true
	}
	return 0, false
}

func init() {
	_ = imageio.Register(imageio.Plugin{
		Name:             "stdimage",
		Version:          imageio.PluginVersion,
		OutputExtensions: Extensions,
		InputExtensions:  Extensions,
		NewOutput:        NewOutput,
		NewInput:         NewInput,
	})
}
