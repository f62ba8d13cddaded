package shell

import (
	"fmt"
	"log/slog"

	"retrodesk/pkg/audio"
	"retrodesk/pkg/desktop"
	"retrodesk/pkg/paint"
	"retrodesk/pkg/wm"
)

// ReadsURL is where the "My Reads" icon leads instead of opening a window.
const ReadsURL = "https://curius.app/catherine-hoang"

// ActionKind says what a desktop command did.
type ActionKind int

const (
	// ActionNone means nothing was opened.
	ActionNone ActionKind = iota
	// ActionWindow means a window was opened, restored or raised.
	ActionWindow
	// ActionLink means the caller should open URL in a new tab.
	ActionLink
)

// String returns the action name.
func (k ActionKind) String() string {
	switch k {
	case ActionWindow:
		return "window"
	case ActionLink:
		return "link"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name.
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind written by MarshalText.
func (k *ActionKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "window":
		*k = ActionWindow
	case "link":
		*k = ActionLink
	case "none":
		*k = ActionNone
	default:
		return fmt.Errorf("unknown action kind %q", text)
	}
	return nil
}

// Action is the outcome of opening a desktop item.
type Action struct {
	Kind     ActionKind `json:"kind"`
	WindowID string     `json:"windowId,omitempty"`
	URL      string     `json:"url,omitempty"`
}

// Config holds configuration for a Shell.
type Config struct {
	Viewport desktop.Viewport
	// Saver receives icon renames. Optional.
	Saver desktop.Saver
	// Player plays the audio window's tracks. Optional.
	Player audio.Player
	Tracks []audio.Track
	// ClickPolicy picks the elements that make the click sound. Nil uses
	// DefaultClickPolicy.
	ClickPolicy *ClickPolicy
	Logger      *slog.Logger
}

// Shell wires the desktop icons, the window manager and the audio session
// together and exposes the commands of the menu bar and the desktop.
//
// A Shell is not safe for concurrent use; run it behind a Loop.
type Shell struct {
	Desktop *desktop.Store
	Windows *wm.Manager
	Audio   *audio.Session
	Clicks  *ClickTracker

	logger *slog.Logger
}

// New creates a shell. The icon store doubles as the window manager's
// selection hook and the audio session as its audio hook.
func New(cfg Config) *Shell {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := desktop.NewStore(desktop.Config{
		Viewport: cfg.Viewport,
		Saver:    cfg.Saver,
		Logger:   logger,
	})
	session := audio.NewSession(audio.Config{
		Tracks: cfg.Tracks,
		Player: cfg.Player,
		Logger: logger,
	})
	manager := wm.NewManager(wm.Config{
		ScreenWidth:  cfg.Viewport.Width,
		ScreenHeight: cfg.Viewport.Height,
		Selection:    store,
		Audio:        session,
	})
	policy := DefaultClickPolicy()
	if cfg.ClickPolicy != nil {
		policy = *cfg.ClickPolicy
	}
	return &Shell{
		Desktop: store,
		Windows: manager,
		Audio:   session,
		Clicks:  NewClickTracker(policy),
		logger:  logger,
	}
}

// DoubleClick opens the window for a desktop item, or returns a link action
// for "My Reads".
func (s *Shell) DoubleClick(itemType, name string) Action {
	if itemType == string(wm.KindWeb) && name == "My Reads" {
		return Action{Kind: ActionLink, URL: ReadsURL}
	}
	id := s.Windows.OpenOrFocus(itemType, name)
	if wm.KindOf(itemType) == wm.KindAudio {
		s.Audio.Open()
	}
	s.logger.Debug("window opened", "id", id, "type", itemType, "name", name)
	return Action{Kind: ActionWindow, WindowID: id}
}

// OpenSelected opens the selected desktop icon.
func (s *Shell) OpenSelected() Action {
	sel := s.Desktop.Selected()
	if sel == "" {
		return Action{}
	}
	it, ok := s.Desktop.Item(sel)
	if !ok {
		return Action{}
	}
	return s.DoubleClick(it.Type, it.Name)
}

// CloseTopmost closes the front window.
func (s *Shell) CloseTopmost() (string, bool) {
	return s.Windows.CloseTopmost()
}

// CreateFolder adds a new folder icon in rename mode.
func (s *Shell) CreateFolder() desktop.Item {
	return s.Desktop.CreateFolder()
}

// Rename renames a desktop icon.
func (s *Shell) Rename(itemType, name string) error {
	return s.Desktop.Rename(itemType, name)
}

// Resize applies a new viewport to the icons and the paint windows.
func (s *Shell) Resize(v desktop.Viewport) {
	s.Desktop.Relayout(v)
	s.Windows.SetViewport(v.Width, v.Height)
}

// Icon is a desktop icon ready to draw.
type Icon struct {
	desktop.Item
	Selected bool `json:"selected"`
	Editing  bool `json:"editing"`
}

// Icons returns the desktop icons with resolved icon paths.
func (s *Shell) Icons() []Icon {
	items := s.Desktop.Items()
	out := make([]Icon, len(items))
	for i, it := range items {
		it.Icon = desktop.IconFor(it, it.IsFolder() && s.Windows.IsFolderOpen(it.Name))
		out[i] = Icon{
			Item:     it,
			Selected: it.Type == s.Desktop.Selected(),
			Editing:  it.Type == s.Desktop.Editing(),
		}
	}
	return out
}

// Canvas returns the canvas of a paint window.
func (s *Shell) Canvas(windowID string) (*paint.Canvas, bool) {
	return s.Windows.Canvas(windowID)
}

// MenuAction runs a menu bar entry and reports whether it was handled.
// Only the File menu acts on the desktop; the rest belong to the browser.
func (s *Shell) MenuAction(menu, item string) (Action, bool) {
	if menu != "File" {
		return Action{}, false
	}
	switch item {
	case "New":
		s.CreateFolder()
		return Action{}, true
	case "Open":
		return s.OpenSelected(), true
	case "Exit":
		id, ok := s.CloseTopmost()
		if !ok {
			return Action{}, true
		}
		return Action{WindowID: id}, true
	}
	return Action{}, false
}
