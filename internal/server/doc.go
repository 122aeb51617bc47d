// Package server implements the MCP (Model Context Protocol) server for the
// image I/O layer.
//
// This package provides a JSON-RPC 2.0 server that exposes the format plugins
// and the conversion engine through the MCP protocol, so that MCP clients can
// inspect, sample and convert image files of any registered format.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Plugins and Types:
//   - imageio_formats: List registered format plugins and their extensions
//   - imageio_type_info: Describe a pixel or attribute type
//
// Basic Image Information:
//   - imageio_load: Read an image and report its spec and attributes
//   - imageio_dimensions: Get width and height
//
// Pixel Operations:
//   - imageio_sample_pixel: Get normalized channel values at a pixel
//   - imageio_sample_pixels_multi: Sample multiple points
//   - imageio_dominant_colors: Extract color palette
//
// Region Operations:
//   - imageio_crop: Extract rectangular region as PNG
//   - imageio_crop_quadrant: Extract named region (top-left, center, etc.)
//   - imageio_preview: Whole image as PNG
//
// Conversion:
//   - imageio_convert: Write an image to another format, pixel type or
//     transfer curve
//
// The format plugins register themselves from init functions; the binary
// blank-imports the ones it serves.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// imageio_convert evicts its output path so a rewritten file is read again.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
