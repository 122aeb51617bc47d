// Package pnm reads and writes the Netpbm formats: PBM bitmaps, PGM gray
// maps and PPM pixmaps, in both their plain (ASCII) and raw forms.
//
// Importing the package registers the "pnm" plugin:
//
//	import _ "github.com/ironsheep/imageio-mcp/internal/formats/pnm"
//
// On output the BitsPerSample attribute (1 to 16, default 8) sets the
// maximum sample value and the "pnm:binary" attribute (default 1) selects the
// raw form. Files with more than 8 bits per sample hold 16-bit big-endian
// samples.
package pnm

import "github.com/ironsheep/imageio-mcp/internal/imageio"

// Extensions handled by the plugin.
var Extensions = []string{"ppm", "pgm", "pbm", "pnm"}

func init() {
	_ = imageio.Register(imageio.Plugin{
		Name:             "pnm",
		Version:          imageio.PluginVersion,
		OutputExtensions: Extensions,
		InputExtensions:  Extensions,
		NewOutput:        NewOutput,
		NewInput:         NewInput,
	})
}
