// Package tiff is the TIFF plugin. It writes 8-bit and 16-bit gray, RGB and
// RGBA images through golang.org/x/image/tiff and reads whatever that
// decoder understands.
//
// Recognized attributes on output:
//
//	compression   "none", "zip" (default), "deflate"; "lzw" and "packbits" fall back to deflate
//	planarconfig  "contig" only
//	tiff:Predictor  2 enables horizontal differencing with deflate
//	DateTime      set to the current time when absent
package tiff

import "github.com/ironsheep/imageio-mcp/internal/imageio"

// OutputExtensions are the file extensions the writer claims.
var OutputExtensions = []string{"tiff", "tif", "tx", "env", "sm", "vsm"}

// InputExtensions are the file extensions the reader claims.
var InputExtensions = []string{"tiff", "tif"}

func init() {
	_ = imageio.Register(imageio.Plugin{
		Name:             "tiff",
		Version:          imageio.PluginVersion,
		OutputExtensions: OutputExtensions,
		InputExtensions:  InputExtensions,
		NewOutput:        NewOutput,
		NewInput:         NewInput,
	})
}
