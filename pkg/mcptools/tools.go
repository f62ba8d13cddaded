// Package mcptools exposes the desktop shell as MCP tools, so an agent can
// open icons, arrange windows, draw in paint windows and drive the player.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"retrodesk/pkg/shell"
	"retrodesk/pkg/wm"
)

// Runner runs a command against the shell. *shell.Loop is the usual one.
type Runner interface {
	Do(ctx context.Context, fn func(*shell.Shell) error) error
}

// Register adds every desktop tool to s.
func Register(s *server.MCPServer, r Runner) {
	s.AddTools(Tools(r)...)
}

// Tools returns the desktop tools bound to r.
func Tools(r Runner) []server.ServerTool {
	return []server.ServerTool{
		{Tool: listIconsTool(), Handler: listIconsHandler(r)},
		{Tool: openItemTool(), Handler: openItemHandler(r)},
		{Tool: createFolderTool(), Handler: createFolderHandler(r)},
		{Tool: renameItemTool(), Handler: renameItemHandler(r)},
		{Tool: menuActionTool(), Handler: menuActionHandler(r)},
		{Tool: listWindowsTool(), Handler: listWindowsHandler(r)},
		{Tool: closeWindowTool(), Handler: closeWindowHandler(r)},
		{Tool: minimizeWindowTool(), Handler: minimizeWindowHandler(r)},
		{Tool: moveWindowTool(), Handler: moveWindowHandler(r)},
		{Tool: focusWindowTool(), Handler: focusWindowHandler(r)},
		{Tool: resizeWindowTool(), Handler: resizeWindowHandler(r)},
		{Tool: paintDrawTool(), Handler: paintDrawHandler(r)},
		{Tool: paintTextTool(), Handler: paintTextHandler(r)},
		{Tool: paintPointerTool(), Handler: paintPointerHandler(r)},
		{Tool: paintKeyTool(), Handler: paintKeyHandler(r)},
		{Tool: paintLayerTool(), Handler: paintLayerHandler(r)},
		{Tool: paintStateTool(), Handler: paintStateHandler(r)},
		{Tool: paintRestartTool(), Handler: paintRestartHandler(r)},
		{Tool: paintExportTool(), Handler: paintExportHandler(r)},
		{Tool: audioTool(), Handler: audioHandler(r)},
		{Tool: clickSoundTool(), Handler: clickSoundHandler(r)},
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// call runs fn on the shell and renders its result as JSON.
func call(ctx context.Context, r Runner, fn func(*shell.Shell) (any, error)) (*mcp.CallToolResult, error) {
	var out any
	err := r.Do(ctx, func(s *shell.Shell) error {
		var err error
		out, err = fn(s)
		return err
	})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(out)
}

func errNotOpen(id string) error {
	return fmt.Errorf("window %q is not open", id)
}

// --- desktop ---

func listIconsTool() mcp.Tool {
	return mcp.NewTool("list_icons",
		mcp.WithDescription("List the desktop icons with their positions and selection state."),
	)
}

func listIconsHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			return s.Icons(), nil
		})
	}
}

func openItemTool() mcp.Tool {
	return mcp.NewTool("open_item",
		mcp.WithDescription("Open a desktop icon as if it was double-clicked. Returns the window id, or a link for web shortcuts."),
		mcp.WithString("type",
			mcp.Description("Item type of the icon, e.g. paint, doc, audio or folder-1"),
			mcp.Required(),
		),
	)
}

func openItemHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		itemType := req.GetString("type", "")
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			it, ok := s.Desktop.Item(itemType)
			if !ok {
				return nil, fmt.Errorf("no desktop icon of type %q", itemType)
			}
			return s.DoubleClick(it.Type, it.Name), nil
		})
	}
}

func createFolderTool() mcp.Tool {
	return mcp.NewTool("create_folder",
		mcp.WithDescription("Create a \"New Folder\" icon on the first free grid cell."),
	)
}

func createFolderHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			return s.CreateFolder(), nil
		})
	}
}

func renameItemTool() mcp.Tool {
	return mcp.NewTool("rename_item",
		mcp.WithDescription("Rename a desktop icon. The new name is persisted when storage is configured."),
		mcp.WithString("type",
			mcp.Description("Item type of the icon"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("New name; blank keeps the old one"),
			mcp.Required(),
		),
	)
}

func renameItemHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		itemType := req.GetString("type", "")
		name := req.GetString("name", "")
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			if err := s.Rename(itemType, name); err != nil {
				return nil, err
			}
			it, _ := s.Desktop.Item(itemType)
			return it, nil
		})
	}
}

func menuActionTool() mcp.Tool {
	return mcp.NewTool("menu_action",
		mcp.WithDescription("Run a menu bar entry such as File > New, File > Open or File > Exit."),
		mcp.WithString("menu",
			mcp.Description("Menu name"),
			mcp.Required(),
		),
		mcp.WithString("item",
			mcp.Description("Entry within the menu"),
			mcp.Required(),
		),
	)
}

func menuActionHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		menu := req.GetString("menu", "")
		item := req.GetString("item", "")
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			action, ok := s.MenuAction(menu, item)
			if !ok {
				return nil, fmt.Errorf("%s > %s does nothing on the desktop", menu, item)
			}
			return action, nil
		})
	}
}

// --- windows ---

type windowList struct {
	Open      []wm.Window `json:"open"`
	Minimized []wm.Window `json:"minimized"`
}

func listWindowsTool() mcp.Tool {
	return mcp.NewTool("list_windows",
		mcp.WithDescription("List open and minimized windows with their frames and stacking order."),
	)
}

func listWindowsHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			return windowList{Open: s.Windows.Windows(), Minimized: s.Windows.Minimized()}, nil
		})
	}
}

func closeWindowTool() mcp.Tool {
	return mcp.NewTool("close_window",
		mcp.WithDescription("Close a window. Without an id the topmost window is closed."),
		mcp.WithString("id",
			mcp.Description("Window id from list_windows"),
		),
	)
}

func closeWindowHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			if id == "" {
				closed, ok := s.CloseTopmost()
				if !ok {
					return nil, fmt.Errorf("no window is open")
				}
				id = closed
			} else if !s.Windows.Close(id) {
				return nil, errNotOpen(id)
			}
			return map[string]string{"closed": id}, nil
		})
	}
}

func minimizeWindowTool() mcp.Tool {
	return mcp.NewTool("minimize_window",
		mcp.WithDescription("Minimize a window. Opening its icon again restores it."),
		mcp.WithString("id",
			mcp.Description("Window id from list_windows"),
			mcp.Required(),
		),
	)
}

func minimizeWindowHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			if !s.Windows.Minimize(id) {
				return nil, errNotOpen(id)
			}
			return map[string]string{"minimized": id}, nil
		})
	}
}

func moveWindowTool() mcp.Tool {
	return mcp.NewTool("move_window",
		mcp.WithDescription("Move a window and bring it to the front."),
		mcp.WithString("id",
			mcp.Description("Window id from list_windows"),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("Left edge in pixels"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Top edge in pixels"), mcp.Required()),
	)
}

func moveWindowHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		x, y := req.GetInt("x", 0), req.GetInt("y", 0)
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			if !s.Windows.Move(id, x, y) {
				return nil, errNotOpen(id)
			}
			return s.Windows.Get(id)
		})
	}
}

func focusWindowTool() mcp.Tool {
	return mcp.NewTool("focus_window",
		mcp.WithDescription("Bring an open window to the front."),
		mcp.WithString("id",
			mcp.Description("Window id from list_windows"),
			mcp.Required(),
		),
	)
}

func focusWindowHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			if !s.Windows.Focus(id) {
				return nil, errNotOpen(id)
			}
			return s.Windows.Get(id)
		})
	}
}

func resizeWindowTool() mcp.Tool {
	return mcp.NewTool("resize_window",
		mcp.WithDescription("Resize a window. Give width and height to set the size, a handle with dx and dy to drag an edge or corner, or image_width and image_height to fit an images window to a picture. Audio windows keep their fixed size."),
		mcp.WithString("id",
			mcp.Description("Window id from list_windows"),
			mcp.Required(),
		),
		mcp.WithNumber("width", mcp.Description("Width in pixels")),
		mcp.WithNumber("height", mcp.Description("Height in pixels")),
		mcp.WithString("handle",
			mcp.Description("Edge or corner to drag"),
			mcp.Enum(
				string(wm.HandleLeft), string(wm.HandleRight),
				string(wm.HandleTop), string(wm.HandleBottom),
				string(wm.HandleTopLeft), string(wm.HandleTopRight),
				string(wm.HandleBottomLeft), string(wm.HandleBottomRight),
			),
		),
		mcp.WithNumber("dx", mcp.Description("Horizontal drag distance for handle")),
		mcp.WithNumber("dy", mcp.Description("Vertical drag distance for handle")),
		mcp.WithNumber("image_width", mcp.Description("Picture width for an images window")),
		mcp.WithNumber("image_height", mcp.Description("Picture height for an images window")),
	)
}

func resizeWindowHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		width, height := req.GetInt("width", 0), req.GetInt("height", 0)
		handle := wm.Handle(req.GetString("handle", ""))
		dx, dy := req.GetInt("dx", 0), req.GetInt("dy", 0)
		imgW, imgH := req.GetInt("image_width", 0), req.GetInt("image_height", 0)
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			win, err := s.Windows.Get(id)
			if err != nil {
				return nil, err
			}
			if !win.Kind.Resizable() {
				return nil, fmt.Errorf("%s windows have a fixed size", win.Kind)
			}
			var ok bool
			switch {
			case imgW != 0 || imgH != 0:
				if win.Kind != wm.KindImages {
					return nil, fmt.Errorf("image sizing applies to images windows, not %s", win.Kind)
				}
				if imgW <= 0 || imgH <= 0 {
					return nil, fmt.Errorf("image_width and image_height must be positive")
				}
				ok = s.Windows.SetContentAspect(id, imgW, imgH)
			case handle != "":
				ok = s.Windows.DragResize(id, handle, dx, dy, win.Frame)
			default:
				if width <= 0 || height <= 0 {
					return nil, fmt.Errorf("width and height must be positive")
				}
				ok = s.Windows.Resize(id, width, height)
			}
			if !ok {
				return nil, errNotOpen(id)
			}
			return s.Windows.Get(id)
		})
	}
}

// --- audio ---

func audioTool() mcp.Tool {
	return mcp.NewTool("audio",
		mcp.WithDescription("Control the music player. The audio window must be open for playback commands."),
		mcp.WithString("action",
			mcp.Description("Player command"),
			mcp.Enum("status", "play", "forward", "back", "mute", "seek"),
			mcp.Required(),
		),
		mcp.WithNumber("seconds",
			mcp.Description("Target position for seek"),
		),
	)
}

func audioHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		action := req.GetString("action", "")
		seconds := req.GetFloat("seconds", 0)
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			a := s.Audio
			switch action {
			case "status":
			case "play":
				if err := a.TogglePlay(); err != nil {
					return nil, err
				}
			case "forward":
				a.Forward()
			case "back":
				a.Back()
			case "mute":
				a.ToggleMute()
			case "seek":
				a.Seek(seconds)
			default:
				return nil, fmt.Errorf("unknown audio action %q", action)
			}
			return a.Status(), nil
		})
	}
}

// --- click sound ---

// clickResult reports whether a press would play the click sound.
type clickResult struct {
	Play bool `json:"play"`
}

func clickSoundTool() mcp.Tool {
	return mcp.NewTool("click_sound",
		mcp.WithDescription("Replay a press on a page element and report whether the desktop plays its click sound. Drags beyond the threshold and non-interactive elements stay silent."),
		mcp.WithString("element",
			mcp.Description(`Pressed element as JSON, e.g. {"tag":"DIV","classes":["menu-item"],"parent":{"tag":"BODY"}}`),
			mcp.Required(),
		),
		mcp.WithString("origin",
			mcp.Description("Element the event was first dispatched to, as JSON, when it differs"),
		),
		mcp.WithNumber("dx", mcp.Description("Horizontal pointer travel before release")),
		mcp.WithNumber("dy", mcp.Description("Vertical pointer travel before release")),
	)
}

func clickSoundHandler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var target shell.Element
		if err := json.Unmarshal([]byte(req.GetString("element", "")), &target); err != nil {
			return toolError(fmt.Errorf("element: %w", err))
		}
		var origin *shell.Element
		if raw := req.GetString("origin", ""); raw != "" {
			origin = new(shell.Element)
			if err := json.Unmarshal([]byte(raw), origin); err != nil {
				return toolError(fmt.Errorf("origin: %w", err))
			}
		}
		dx, dy := req.GetInt("dx", 0), req.GetInt("dy", 0)
		return call(ctx, r, func(s *shell.Shell) (any, error) {
			s.Clicks.PointerDown(0, 0, &target, origin)
			s.Clicks.PointerMove(dx, dy)
			return clickResult{Play: s.Clicks.PointerUp()}, nil
		})
	}
}
