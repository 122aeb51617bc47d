package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema of the image path argument shared by most tools.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

var scaleProperty = map[string]interface{}{
	"type":        "number",
	"description": "Optional scale factor for the returned preview (e.g., 2.0 to double size). Default 1.0",
	"default":     1.0,
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Plugins and Types
		{
			Name:        "imageio_formats",
			Description: "List the registered image format plugins, whether each can read and write, and the file extensions it claims.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "imageio_type_info",
			Description: "Describe a pixel or attribute type: its canonical name, size in bytes, element count and, for integer types, the default quantization range.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"type": map[string]interface{}{
						"type":        "string",
						"description": "Base type name",
						"enum": []string{"uint8", "int8", "uint16", "int16", "uint", "int", "uint64", "int64",
							"half", "float", "double", "string", "pointer"},
					},
					"aggregate": map[string]interface{}{
						"type":        "integer",
						"description": "Components per value: 1 (scalar), 2, 3, 4 or 16 (4x4 matrix). Default 1",
						"enum":        []int{1, 2, 3, 4, 16},
						"default":     1,
					},
					"semantics": map[string]interface{}{
						"type":        "string",
						"description": "Vector semantics for 3, 4 and 16 component types. Default none",
						"enum":        []string{"none", "color", "point", "vector", "normal"},
						"default":     "none",
					},
					"array_len": map[string]interface{}{
						"type":        "integer",
						"description": "0 for a single value, N for an array of N values, -1 for an array of unspecified length",
						"default":     0,
					},
				},
				"required": []string{"type"},
			},
		},

		// Basic Image Information
		{
			Name:        "imageio_load",
			Description: "Read an image through its format plugin and return its dimensions, channel names, native pixel type and file attributes. The image stays cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "imageio_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Pixel Operations
		{
			Name:        "imageio_sample_pixel",
			Description: "Get the channel values at a pixel, normalized to 0..1 for integer images, along with hex, RGB and HSL views of the color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "imageio_sample_pixels_multi",
			Description: "Sample pixel values at multiple points in one call. Fails if any point is outside the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Points to sample",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
					},
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "imageio_dominant_colors",
			Description: "Find the most common colors in an image or region, quantized to 16 levels per channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional region to analyze",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
				},
				"required": []string{"path"},
			},
		},

		// Region Operations
		{
			Name:        "imageio_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": scaleProperty,
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "imageio_crop_quadrant",
			Description: "Crop a named region (quadrant, half or center) from an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"region": map[string]interface{}{
						"type":        "string",
						"description": "Named region to extract",
						"enum": []string{
							"top-left", "top-right", "bottom-left", "bottom-right",
							"top-half", "bottom-half", "left-half", "right-half", "center",
						},
					},
					"scale": scaleProperty,
				},
				"required": []string{"path", "region"},
			},
		},
		{
			Name:        "imageio_preview",
			Description: "Return the whole image as base64-encoded PNG, optionally scaled. Float and other deep images are converted to 8-bit.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty,
					"scale": scaleProperty,
				},
				"required": []string{"path"},
			},
		},

		// Conversion
		{
			Name:        "imageio_convert",
			Description: "Read an image and write it to another file, choosing the output format by extension. Optionally change the pixel type, apply a transfer function, and set format attributes such as compression.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the file to write; the extension selects the format plugin",
					},
					"pixel_type": map[string]interface{}{
						"type":        "string",
						"description": "Requested pixel type of the file. The plugin may substitute the nearest type it can store. Default keeps the source type",
						"enum":        []string{"uint8", "int8", "uint16", "int16", "uint", "int", "half", "float", "double"},
					},
					"transfer": map[string]interface{}{
						"type":        "string",
						"description": "Transfer function applied to color channels: none, srgb (linear to sRGB), linear (sRGB to linear), or gammaN such as gamma2.2",
						"default":     "none",
					},
					"attributes": map[string]interface{}{
						"type":        "object",
						"description": "Format attributes, e.g. {\"compression\": \"zip\"}, {\"CompressionQuality\": \"90\"}, {\"BitsPerSample\": \"12\"}, {\"pnm:binary\": \"0\"}",
						"additionalProperties": map[string]interface{}{
							"type": "string",
						},
					},
				},
				"required": []string{"path", "output"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
