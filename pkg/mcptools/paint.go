package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"retrodesk/pkg/paint"
	"retrodesk/pkg/shell"
)

// canvasFor returns the canvas of an open paint window. Minimized windows
// are refused so their drawing stays untouched until restored.
func canvasFor(s *shell.Shell, id string) (*paint.Canvas, error) {
	c, ok := s.Windows.OpenCanvas(id)
	if !ok {
		return nil, fmt.Errorf("window %q is not an open paint window", id)
	}
	return c, nil
}

// anyCanvasFor also accepts minimized windows, for read-only tools.
func anyCanvasFor(s *shell.Shell, id string) (*paint.Canvas, error) {
	c, ok := s.Canvas(id)
	if !ok {
		return nil, fmt.Errorf("window %q is not a paint window", id)
	}
	return c, nil
}

func parsePoint(field string) (paint.Point, error) {
	xs, ys, ok := strings.Cut(field, ",")
	if !ok {
		return paint.Point{}, fmt.Errorf("point %q: want x,y", field)
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return paint.Point{}, fmt.Errorf("point %q: %w", field, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return paint.Point{}, fmt.Errorf("point %q: %w", field, err)
	}
	return paint.Point{X: x, Y: y}, nil
}

// parsePointList reads "x,y x,y ..." into canvas points. An empty string is
// an empty list.
func parsePointList(s string) ([]paint.Point, error) {
	var pts []paint.Point
	for _, field := range strings.Fields(s) {
		p, err := parsePoint(field)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// parsePoints is parsePointList for gestures that need a start and an end.
func parsePoints(s string) ([]paint.Point, error) {
	pts, err := parsePointList(s)
	if err != nil {
		return nil, err
	}
	if len(pts) < 2 {
		return nil, fmt.Errorf("at least two points are required")
	}
	return pts, nil
}

func objectJSON(o paint.Object, ok bool) json.RawMessage {
	if !ok {
		return json.RawMessage("null")
	}
	data, err := paint.MarshalObject(o)
	if err != nil {
		return json.RawMessage("null")
	}
	return data
}

// --- drawing ---

func paintDrawTool() mcp.Tool {
	return mcp.NewTool("paint_draw",
		mcp.WithDescription("Draw on a paint window's active layer. frame and shape use the first and last point as corners; pen draws through every point."),
		mcp.WithString("window_id",
			mcp.Description("Paint window id"),
			mcp.Required(),
		),
		mcp.WithString("tool",
			mcp.Description("Drawing tool"),
			mcp.Enum("frame", "shape", "pen"),
			mcp.Required(),
		),
		mcp.WithString("points",
			mcp.Description("Space separated x,y pairs relative to the canvas container, e.g. \"10,10 120,80\""),
			mcp.Required(),
		),
	)
}

func paintDrawHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("window_id", "")
		tool, ok := paint.ParseTool(req.GetString("tool", ""))
		if !ok || (tool != paint.ToolFrame && tool != paint.ToolShape && tool != paint.ToolPen) {
			return toolError(fmt.Errorf("tool must be frame, shape or pen"))
		}
		pts, err := parsePoints(req.GetString("points", ""))
		if err != nil {
			return toolError(err)
		}
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			c, err := canvasFor(s, id)
			if err != nil {
				return nil, err
			}
			before := len(c.Objects())
			c.SetTool(tool)
			c.PointerDown(pts[0])
			for _, p := range pts[1:] {
				c.PointerMove(p)
			}
			c.PointerUp()
			objs := c.Objects()
			if len(objs) == before {
				return nil, fmt.Errorf("nothing was drawn")
			}
			return objectJSON(objs[len(objs)-1], true), nil
		})
	}
}

func paintTextTool() mcp.Tool {
	return mcp.NewTool("paint_text",
		mcp.WithDescription("Place a text object on a paint window's active layer."),
		mcp.WithString("window_id",
			mcp.Description("Paint window id"),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("Left edge relative to the canvas container"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Top edge relative to the canvas container"), mcp.Required()),
		mcp.WithString("text",
			mcp.Description("Text to place"),
			mcp.Required(),
		),
	)
}

func paintTextHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("window_id", "")
		pos := paint.Point{X: req.GetFloat("x", 0), Y: req.GetFloat("y", 0)}
		text := req.GetString("text", "")
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			c, err := canvasFor(s, id)
			if err != nil {
				return nil, err
			}
			c.SetTool(paint.ToolText)
			c.PointerDown(pos)
			objs := c.Objects()
			o := objs[len(objs)-1]
			c.CommitText(o.Head().ID, text)
			return objectJSON(c.Object(o.Head().ID)), nil
		})
	}
}

// pointerResult is the canvas state after a pointer gesture.
type pointerResult struct {
	Tool     string          `json:"tool"`
	Offset   paint.Point     `json:"offset"`
	Selected json.RawMessage `json:"selected"`
	Objects  int             `json:"objects"`
}

func paintPointerTool() mcp.Tool {
	return mcp.NewTool("paint_pointer",
		mcp.WithDescription("Replay a pointer gesture on a paint window with any tool: select picks and drags objects on the active layer, hand pans the canvas, the drawing tools draw."),
		mcp.WithString("window_id",
			mcp.Description("Paint window id"),
			mcp.Required(),
		),
		mcp.WithString("tool",
			mcp.Description("Tool to use; the active tool is switched first when it differs"),
			mcp.Enum("select", "frame", "shape", "pen", "text", "hand"),
			mcp.Required(),
		),
		mcp.WithString("down",
			mcp.Description("Press point as x,y relative to the canvas container"),
			mcp.Required(),
		),
		mcp.WithString("moves",
			mcp.Description("Space separated x,y points the pointer moves through"),
		),
		mcp.WithBoolean("up",
			mcp.Description("Release the pointer at the end (default true)"),
		),
	)
}

func paintPointerHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("window_id", "")
		tool, ok := paint.ParseTool(req.GetString("tool", ""))
		if !ok {
			return toolError(fmt.Errorf("unknown tool %q", req.GetString("tool", "")))
		}
		down, err := parsePoint(req.GetString("down", ""))
		if err != nil {
			return toolError(err)
		}
		moves, err := parsePointList(req.GetString("moves", ""))
		if err != nil {
			return toolError(err)
		}
		up := req.GetBool("up", true)
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			c, err := canvasFor(s, id)
			if err != nil {
				return nil, err
			}
			if c.Tool() != tool {
				c.SetTool(tool)
			}
			c.PointerDown(down)
			for _, p := range moves {
				c.PointerMove(p)
			}
			if up {
				c.PointerUp()
			}
			return pointerResult{
				Tool:     c.Tool().String(),
				Offset:   c.Offset(),
				Selected: objectJSON(c.Selected()),
				Objects:  len(c.Objects()),
			}, nil
		})
	}
}

// keyResult reports whether a shortcut did anything.
type keyResult struct {
	Handled  bool            `json:"handled"`
	Tool     string          `json:"tool"`
	Selected json.RawMessage `json:"selected"`
}

func paintKeyTool() mcp.Tool {
	return mcp.NewTool("paint_key",
		mcp.WithDescription("Press a paint shortcut: v selects the select tool, ] raises and [ lowers the selected object within its layer."),
		mcp.WithString("window_id",
			mcp.Description("Paint window id"),
			mcp.Required(),
		),
		mcp.WithString("key",
			mcp.Description("Key to press"),
			mcp.Enum("v", "V", "[", "]"),
			mcp.Required(),
		),
	)
}

func paintKeyHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("window_id", "")
		key := req.GetString("key", "")
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			c, err := canvasFor(s, id)
			if err != nil {
				return nil, err
			}
			handled := c.KeyDown(key)
			return keyResult{
				Handled:  handled,
				Tool:     c.Tool().String(),
				Selected: objectJSON(c.Selected()),
			}, nil
		})
	}
}

// --- layers ---

// layerResult lists a canvas's layers after a layer command.
type layerResult struct {
	Layers   []paint.Layer `json:"layers"`
	Selected string        `json:"selected"`
}

func paintLayerTool() mcp.Tool {
	return mcp.NewTool("paint_layer",
		mcp.WithDescription("Manage the layers of a paint window. add creates and selects a new layer; delete removes a layer with its objects but never the last one."),
		mcp.WithString("window_id",
			mcp.Description("Paint window id"),
			mcp.Required(),
		),
		mcp.WithString("action",
			mcp.Description("Layer command"),
			mcp.Enum("list", "add", "select", "rename", "delete"),
			mcp.Required(),
		),
		mcp.WithString("layer",
			mcp.Description("Layer id for select, rename and delete"),
		),
		mcp.WithString("name",
			mcp.Description("New display name for rename"),
		),
	)
}

func paintLayerHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("window_id", "")
		action := req.GetString("action", "")
		layer := req.GetString("layer", "")
		name := req.GetString("name", "")
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			c, err := canvasFor(s, id)
			if err != nil {
				return nil, err
			}
			switch action {
			case "list":
			case "add":
				c.AddLayer()
			case "select":
				err = c.SelectLayer(layer)
			case "rename":
				err = c.RenameLayer(layer, name)
			case "delete":
				err = c.DeleteLayer(layer)
			default:
				err = fmt.Errorf("unknown layer action %q", action)
			}
			if err != nil {
				return nil, err
			}
			return layerResult{Layers: c.Layers(), Selected: c.SelectedLayer()}, nil
		})
	}
}

// --- drawing state ---

func paintStateTool() mcp.Tool {
	return mcp.NewTool("paint_state",
		mcp.WithDescription("Return a paint window's drawing: layers, selected layer, title and every object with its z-index."),
		mcp.WithString("window_id",
			mcp.Description("Paint window id, open or minimized"),
			mcp.Required(),
		),
	)
}

func paintStateHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("window_id", "")
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			c, err := anyCanvasFor(s, id)
			if err != nil {
				return nil, err
			}
			return c.Snapshot(), nil
		})
	}
}

func paintRestartTool() mcp.Tool {
	return mcp.NewTool("paint_restart",
		mcp.WithDescription("Clear a paint window back to the default layers, keeping its title."),
		mcp.WithString("window_id",
			mcp.Description("Paint window id"),
			mcp.Required(),
		),
	)
}

func paintRestartHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("window_id", "")
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			c, err := canvasFor(s, id)
			if err != nil {
				return nil, err
			}
			c.Restart()
			return c.Snapshot(), nil
		})
	}
}

func paintExportTool() mcp.Tool {
	return mcp.NewTool("paint_export",
		mcp.WithDescription("Export a paint window's drawing as a JPEG file sized like the window."),
		mcp.WithString("window_id",
			mcp.Description("Paint window id"),
			mcp.Required(),
		),
		mcp.WithString("path",
			mcp.Description("Output file; defaults to the drawing's title with .jpg"),
		),
	)
}

func paintExportHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("window_id", "")
		path := req.GetString("path", "")
		var (
			state         paint.State
			width, height int
		)
		err := r.Do(ctx, func(s *shell.Shell) error {
			c, err := anyCanvasFor(s, id)
			if err != nil {
				return err
			}
			w, err := s.Windows.Get(id)
			if err != nil {
				return err
			}
			state = c.Snapshot()
			width, height = w.Frame.Size()
			return nil
		})
		if err != nil {
			return toolError(err)
		}

		data, err := paint.EncodeJPEG(state, width, height)
		if err != nil {
			return toolError(err)
		}
		if path == "" {
			path = paint.ExportFileName(state)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Exported %dx%d drawing to %s", width, height, path)), nil
	}
}
