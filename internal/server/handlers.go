package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/imageio-mcp/internal/imaging"
	"github.com/ironsheep/imageio-mcp/internal/typedesc"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "imageio_load", "imageio_convert").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Plugins and Types
	case "imageio_formats":
		return imaging.ListFormats(), nil
	case "imageio_type_info":
		return s.handleTypeInfo(args)

	// Basic Image Information
	case "imageio_load":
		return s.handleImageLoad(args)
	case "imageio_dimensions":
		return s.handleImageDimensions(args)

	// Pixel Operations
	case "imageio_sample_pixel":
		return s.handleSamplePixel(args)
	case "imageio_sample_pixels_multi":
		return s.handleSamplePixelsMulti(args)
	case "imageio_dominant_colors":
		return s.handleDominantColors(args)

	// Region Operations
	case "imageio_crop":
		return s.handleCrop(args)
	case "imageio_crop_quadrant":
		return s.handleCropQuadrant(args)
	case "imageio_preview":
		return s.handlePreview(args)

	// Conversion
	case "imageio_convert":
		return s.handleConvert(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Plugin and Type Handlers ===

type typeInfoArgs struct {
	Type      string `json:"type"`
	Aggregate int    `json:"aggregate"`
	Semantics string `json:"semantics"`
	ArrayLen  int    `json:"array_len"`
}

func (s *Server) handleTypeInfo(args json.RawMessage) (interface{}, error) {
	var a typeInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.DescribeType(a.Type, a.Aggregate, a.Semantics, a.ArrayLen)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Pixel Operation Handlers ===

type samplePixelArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleSamplePixel(args json.RawMessage) (interface{}, error) {
	var a samplePixelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SamplePixel(img, a.X, a.Y)
}

type samplePixelsMultiArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleSamplePixelsMulti(args json.RawMessage) (interface{}, error) {
	var a samplePixelsMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SamplePixelsMulti(img, points)
}

type dominantColorsArgs struct {
	Path   string `json:"path"`
	Count  int    `json:"count"`
	Region *struct {
		X1 int `json:"x1"`
		Y1 int `json:"y1"`
		X2 int `json:"x2"`
		Y2 int `json:"y2"`
	} `json:"region,omitempty"`
}

func (s *Server) handleDominantColors(args json.RawMessage) (interface{}, error) {
	var a dominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var region *imaging.Region
	if a.Region != nil {
		region = &imaging.Region{X1: a.Region.X1, Y1: a.Region.Y1, X2: a.Region.X2, Y2: a.Region.Y2}
	}
	return imaging.DominantColors(img, a.Count, region)
}

// === Region Operation Handlers ===

type cropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	region, err := imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(region, a.Scale)
}

type cropQuadrantArgs struct {
	Path   string  `json:"path"`
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleCropQuadrant(args json.RawMessage) (interface{}, error) {
	var a cropQuadrantArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	region, err := imaging.CropQuadrant(img, a.Region)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(region, a.Scale)
}

type previewArgs struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(img, a.Scale)
}

// === Conversion Handlers ===

type convertArgs struct {
	Path       string            `json:"path"`
	Output     string            `json:"output"`
	PixelType  string            `json:"pixel_type"`
	Transfer   string            `json:"transfer"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// handleConvert reads path, optionally applies a transfer function, and
// writes the result to output with the plugin chosen by its extension.
// The transfer is applied in float so that no precision is lost before the
// plugin quantizes to the requested pixel type.
func (s *Server) handleConvert(args json.RawMessage) (interface{}, error) {
	var a convertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("output path is required")
	}
	format, err := imaging.ParseFormat(a.PixelType)
	if err != nil {
		return nil, err
	}
	xfer, err := imaging.TransferByName(a.Transfer)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	if xfer != nil {
		if format == typedesc.TypeUnknown {
			format = img.Spec.Format
		}
		if img, err = imaging.Convert(img, typedesc.TypeFloat, xfer); err != nil {
			return nil, err
		}
	}

	result, err := imaging.Save(img, a.Output, format, a.Attributes)
	if err != nil {
		return nil, err
	}
	s.cache.Evict(a.Output)
	return result, nil
}
