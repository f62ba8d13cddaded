package desktop

import "strings"

// Icon paths served by the client build.
const (
	IconFolderClosed = "/folder-closed.png"
	IconFolderOpen   = "/folder-open.png"
	IconDoc          = "/doc-icon.svg"
	IconWeb          = "/web-icon.svg"
	IconPaint        = "/paint-icon.svg"
	IconAudio        = "/audio-icon.svg"
	IconImages       = "/img-icon.svg"
	IconRecycle      = "/recycle-icon.svg"
)

// Desktop geometry.
const (
	// menuBarHeight is taken off the viewport height.
	menuBarHeight = 60
	iconWidth     = 80
	iconSpacing   = 100
	iconMargin    = 20
	// bottomOffset is the distance of the bottom row from the desktop's
	// lower edge.
	bottomOffset = 100

	gridOrigin   = 20
	gridStep     = 100
	gridAttempts = 100
)

// NewFolderName is the name given to folders created from the menu.
const NewFolderName = "New Folder"

// Viewport is the size of the browser window.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Item is a desktop icon. Type is unique across the desktop.
type Item struct {
	Type           string `json:"type"`
	Name           string `json:"name"`
	Icon           string `json:"icon"`
	X              int    `json:"x"`
	Y              int    `json:"y"`
	BottomAnchored bool   `json:"bottomAnchored"`
}

// IsFolder reports whether the item opens a folder window.
func (it Item) IsFolder() bool {
	return IsFolderType(it.Type)
}

// IsFolderType reports whether t is "folder" or a user folder type.
func IsFolderType(t string) bool {
	return t == "folder" || strings.HasPrefix(t, "folder-")
}

// CanonicalType maps user folder types onto "folder" for persistence.
func CanonicalType(t string) string {
	if IsFolderType(t) {
		return "folder"
	}
	return t
}

var typeIcons = map[string]string{
	"paint":   IconPaint,
	"folder":  IconFolderClosed,
	"doc":     IconDoc,
	"web":     IconWeb,
	"audio":   IconAudio,
	"recycle": IconRecycle,
	"images":  IconImages,
}

// IconForType returns the default icon of an item type.
func IconForType(t string) string {
	if icon, ok := typeIcons[t]; ok {
		return icon
	}
	return IconDoc
}

// IconFor resolves the icon to draw for it. Folders show as open while a
// folder window with the same name is open.
func IconFor(it Item, folderOpen bool) string {
	if it.IsFolder() {
		if folderOpen {
			return IconFolderOpen
		}
		return IconFolderClosed
	}
	return it.Icon
}

func bottomY(v Viewport) int {
	return v.Height - menuBarHeight - bottomOffset
}

func bottomX(v Viewport, recycle bool) int {
	x := v.Width - iconWidth - iconMargin
	if !recycle {
		x -= iconSpacing
	}
	return x
}

// Defaults returns the built-in icons laid out for v.
func Defaults(v Viewport) []Item {
	by := bottomY(v)
	return []Item{
		{Type: "folder", Name: "Past Lives", Icon: IconFolderClosed, X: 20, Y: 20},
		{Type: "doc", Name: "Kind Msgs", Icon: IconDoc, X: 120, Y: 20},
		{Type: "web", Name: "My Reads", Icon: IconWeb, X: 220, Y: 20},
		{Type: "paint", Name: "Paint", Icon: IconPaint, X: 20, Y: 128},
		{Type: "audio", Name: "Nostalgia", Icon: IconAudio, X: 120, Y: 128},
		{Type: "images", Name: "Childhood", Icon: IconImages, X: bottomX(v, false), Y: by, BottomAnchored: true},
		{Type: "recycle", Name: "Recycle Bin", Icon: IconRecycle, X: bottomX(v, true), Y: by, BottomAnchored: true},
	}
}
