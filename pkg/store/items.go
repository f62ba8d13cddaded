package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemTypes are the accepted desktop item types.
var ItemTypes = []string{
	"recycle", "paint", "notepad", "calculator", "folder", "images", "doc", "web", "audio",
}

// Position is an icon's location on the desktop.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Item is a persisted desktop item.
type Item struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Position  Position  `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewItem is the input of CreateItem. A nil Position means {0, 0}.
type NewItem struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Position *Position `json:"position,omitempty"`
}

// Validate checks the required fields and the type enum.
func (n NewItem) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if n.Type == "" {
		return &ValidationError{Field: "type", Message: "is required"}
	}
	if !slices.Contains(ItemTypes, n.Type) {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("%q is not a desktop item type", n.Type)}
	}
	return nil
}

// Items returns every desktop item in creation order.
func (s *Store) Items(ctx context.Context) ([]Item, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, type, x, y, created_at FROM desktop_items ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateItem validates and saves a new item.
func (s *Store) CreateItem(ctx context.Context, n NewItem) (Item, error) {
	if !s.Available() {
		return Item{}, ErrUnavailable
	}
	if err := n.Validate(); err != nil {
		return Item{}, err
	}
	it := Item{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(n.Name),
		Type:      n.Type,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if n.Position != nil {
		it.Position = *n.Position
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO desktop_items (id, name, type, x, y, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		it.ID, it.Name, it.Type, it.Position.X, it.Position.Y, it.CreatedAt.UnixMilli())
	if err != nil {
		return Item{}, fmt.Errorf("failed to create item: %w", err)
	}
	return it, nil
}

// Item returns the item with id.
func (s *Store) Item(ctx context.Context, id string) (Item, error) {
	if !s.Available() {
		return Item{}, ErrUnavailable
	}
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, type, x, y, created_at FROM desktop_items WHERE id = ?", id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return it, err
}

// MoveItem sets an item's position and returns the updated item.
func (s *Store) MoveItem(ctx context.Context, id string, pos Position) (Item, error) {
	if !s.Available() {
		return Item{}, ErrUnavailable
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE desktop_items SET x = ?, y = ? WHERE id = ?", pos.X, pos.Y, id)
	if err != nil {
		return Item{}, fmt.Errorf("failed to move item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Item{}, ErrNotFound
	}
	return s.Item(ctx, id)
}

// DeleteItem removes an item.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if !s.Available() {
		return ErrUnavailable
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM desktop_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(r scanner) (Item, error) {
	var it Item
	var created int64
	if err := r.Scan(&it.ID, &it.Name, &it.Type, &it.Position.X, &it.Position.Y, &created); err != nil {
		return Item{}, err
	}
	it.CreatedAt = time.UnixMilli(created).UTC()
	return it, nil
}
