package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"vectrace/pkg/convert"
	"vectrace/pkg/vectorize"
)

type tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

var convertTool = tool{
	Name: ToolName,
	Description: "Convert a raster image (PNG, JPEG, GIF, BMP, TIFF or WebP) to SVG. " +
		"Colors are quantized into regions whose outlines are traced, simplified and fitted with cubic curves.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input_path": map[string]any{
				"type":        "string",
				"description": "Path to the input image",
			},
			"output_path": map[string]any{
				"type":        "string",
				"description": "Path where the SVG is written",
			},
			"num_colors": map[string]any{
				"type":        "integer",
				"description": "Palette size, 0 picks one from the image",
				"minimum":     0,
				"maximum":     256,
			},
			"smoothing_passes": map[string]any{
				"type":        "integer",
				"description": "Majority-vote smoothing passes over the color regions",
				"minimum":     0,
			},
			"curve_tolerance": map[string]any{
				"type":             "number",
				"description":      "Curve fitting tolerance in pixels",
				"exclusiveMinimum": 0,
			},
			"tracer": map[string]any{
				"type":        "string",
				"enum":        []string{string(vectorize.TracerMarching), string(vectorize.TracerPotrace)},
				"description": "Outline tracer",
			},
		},
		"required": []string{"input_path", "output_path"},
	},
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// convertArgs are the tool arguments. Nil fields keep the server's options.
type convertArgs struct {
	InputPath       string   `json:"input_path"`
	OutputPath      string   `json:"output_path"`
	NumColors       *int     `json:"num_colors"`
	SmoothingPasses *int     `json:"smoothing_passes"`
	CurveTolerance  *float64 `json:"curve_tolerance"`
	Tracer          *string  `json:"tracer"`
}

func (a convertArgs) apply(opts vectorize.Options) vectorize.Options {
	if a.NumColors != nil {
		opts.NumColors = *a.NumColors
	}
	if a.SmoothingPasses != nil {
		opts.SmoothingPasses = *a.SmoothingPasses
	}
	if a.CurveTolerance != nil {
		opts.CurveTolerance = *a.CurveTolerance
	}
	if a.Tracer != nil {
		opts.Tracer = vectorize.Tracer(*a.Tracer)
	}
	return opts
}

func invalidParams(format string, args ...any) error {
	return &rpcError{Code: codeInvalidParams, Message: fmt.Sprintf(format, args...)}
}

func (s *Server) call(ctx context.Context, raw json.RawMessage) (any, error) {
	var p callParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, invalidParams("invalid params: %v", err)
	}
	if p.Name != ToolName {
		return nil, &rpcError{Code: codeMethodNotFound, Message: "unknown tool: " + p.Name}
	}

	var args convertArgs
	if len(p.Arguments) == 0 || json.Unmarshal(p.Arguments, &args) != nil {
		return nil, invalidParams("invalid arguments: expected object")
	}
	if args.InputPath == "" || args.OutputPath == "" {
		return nil, invalidParams("missing required parameters: input_path and output_path")
	}
	opts := args.apply(s.base)
	if err := opts.Validate(); err != nil {
		return nil, invalidParams("%v", err)
	}

	c := &convert.Converter{Options: opts, MaxSize: s.maxSize}
	res, err := c.ConvertFileResult(ctx, args.InputPath, args.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("conversion failed: %w", err)
	}
	text := fmt.Sprintf("Converted %s to %s (%d paths, %d colors)",
		args.InputPath, args.OutputPath, res.Stats.Paths, res.Stats.PaletteSize)
	return map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	}, nil
}
