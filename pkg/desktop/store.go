package desktop

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// ErrItemNotFound is returned for an unknown item type.
var ErrItemNotFound = errors.New("desktop item not found")

// Position is an icon position as stored remotely.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SaveRequest is the payload persisted when an item changes.
type SaveRequest struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
}

// Remote lists persisted items.
type Remote interface {
	List(ctx context.Context) ([]RemoteItem, error)
}

// Saver accepts saves without blocking the caller.
type Saver interface {
	Enqueue(req SaveRequest) bool
}

// Config holds configuration for a Store.
type Config struct {
	Viewport Viewport
	// Saver receives renames. Optional.
	Saver  Saver
	Logger *slog.Logger
}

// Store owns the desktop icons, the selected icon and the icon being
// renamed. It is not safe for concurrent use.
type Store struct {
	items    []Item
	selected string
	editing  string
	viewport Viewport

	nextFolder int
	saver      Saver
	logger     *slog.Logger
}

// NewStore creates a store seeded with the default icons.
func NewStore(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		items:      Defaults(cfg.Viewport),
		viewport:   cfg.Viewport,
		nextFolder: 1,
		saver:      cfg.Saver,
		logger:     logger,
	}
}

// Items returns a copy of the icons.
func (s *Store) Items() []Item {
	return append([]Item(nil), s.items...)
}

// Item returns the icon with the given type.
func (s *Store) Item(itemType string) (Item, bool) {
	if i := s.index(itemType); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

func (s *Store) index(itemType string) int {
	for i, it := range s.items {
		if it.Type == itemType {
			return i
		}
	}
	return -1
}

// Load merges persisted items into the defaults. Items of a known type take
// the stored position; unknown types are appended. On error the icons are
// left untouched.
func (s *Store) Load(ctx context.Context, remote Remote) error {
	stored, err := remote.List(ctx)
	if err != nil {
		s.logger.Warn("desktop: loading items failed", "error", err)
		return err
	}
	for _, r := range stored {
		if i := s.index(r.Type); i >= 0 {
			s.items[i].X = r.Position.X
			s.items[i].Y = r.Position.Y
			continue
		}
		s.items = append(s.items, Item{
			Type: r.Type,
			Name: r.Name,
			Icon: IconForType(r.Type),
			X:    r.Position.X,
			Y:    r.Position.Y,
		})
	}
	return nil
}

// Selected returns the selected item type, or "".
func (s *Store) Selected() string {
	return s.selected
}

// Editing returns the type of the item being renamed, or "".
func (s *Store) Editing() string {
	return s.editing
}

// Click toggles the selection of an icon. Clicks on the icon being renamed
// are ignored.
func (s *Store) Click(itemType string) {
	if s.editing == itemType {
		return
	}
	if s.selected == itemType {
		s.selected = ""
		return
	}
	s.selected = itemType
}

// ClearSelection deselects any icon.
func (s *Store) ClearSelection() {
	s.selected = ""
}

// ClearFolderSelection deselects the folder icon called name, if it is the
// selected one.
func (s *Store) ClearFolderSelection(name string) {
	for _, it := range s.items {
		if it.IsFolder() && it.Name == name && s.selected == it.Type {
			s.selected = ""
			return
		}
	}
}

// BeginRename puts an icon into rename mode.
func (s *Store) BeginRename(itemType string) error {
	if s.index(itemType) < 0 {
		return ErrItemNotFound
	}
	s.editing = itemType
	return nil
}

// Rename sets an icon's name, ends rename mode and queues a save. A blank
// name keeps the old one.
func (s *Store) Rename(itemType, name string) error {
	i := s.index(itemType)
	if i < 0 {
		return ErrItemNotFound
	}
	if s.editing == itemType {
		s.editing = ""
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	s.items[i].Name = name
	if s.saver != nil {
		it := s.items[i]
		if !s.saver.Enqueue(SaveRequest{
			Name:     it.Name,
			Type:     CanonicalType(it.Type),
			Position: Position{X: it.X, Y: it.Y},
		}) {
			s.logger.Warn("desktop: save queue full, dropping rename", "type", itemType)
		}
	}
	return nil
}

// CreateFolder adds a "New Folder" icon on the first free grid cell, selects
// it and starts renaming it.
func (s *Store) CreateFolder() Item {
	x, y := gridOrigin, gridOrigin
	for attempt := 0; attempt < gridAttempts && s.overlaps(x, y); attempt++ {
		x += gridStep
		if x > s.viewport.Width-gridStep {
			x = gridOrigin
			y += gridStep
		}
	}

	t := s.newFolderType()
	it := Item{Type: t, Name: NewFolderName, Icon: IconFolderClosed, X: x, Y: y}
	s.items = append(s.items, it)
	s.selected = t
	s.editing = t
	return it
}

func (s *Store) overlaps(x, y int) bool {
	for _, it := range s.items {
		if abs(it.X-x) < gridStep && abs(it.Y-y) < gridStep {
			return true
		}
	}
	return false
}

func (s *Store) newFolderType() string {
	for {
		t := "folder-" + strconv.Itoa(s.nextFolder)
		s.nextFolder++
		if s.index(t) < 0 {
			return t
		}
	}
}

// Relayout re-anchors the bottom row to a new viewport.
func (s *Store) Relayout(v Viewport) {
	s.viewport = v
	by := bottomY(v)
	for i := range s.items {
		if s.items[i].BottomAnchored {
			s.items[i].X = bottomX(v, s.items[i].Type == "recycle")
			s.items[i].Y = by
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
