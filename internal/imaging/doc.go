// Package imaging provides the image operations behind the MCP tools.
//
// Images are read and written through the imageio plugin registry and held
// as an Image: a packed pixel buffer in the file's native type plus the
// ImageSpec that describes it. Operations convert between pixel types with
// the convert package rather than going through image.Image, so 16-bit,
// half and float images keep their precision.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Images returned by the
// cache are shared and must be treated as read-only; every operation here
// returns a new Image instead of modifying its argument.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Invalid region specifications (x1 >= x2 or y1 >= y2)
//   - Files no plugin can read or write
//
// Errors from the plugins keep their ioerr kind, so errors.Is works on the
// wrapped result.
package imaging
