package store

import (
	"context"

	"retrodesk/pkg/desktop"
)

// Desktop adapts a Store to the desktop package. List makes it a
// desktop.Remote and Save fits desktop.SaveFunc, so an in-process shell can
// load and persist icons without going through HTTP.
type Desktop struct {
	Store *Store
}

// List returns the stored items as remote desktop items.
func (d Desktop) List(ctx context.Context) ([]desktop.RemoteItem, error) {
	items, err := d.Store.Items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]desktop.RemoteItem, 0, len(items))
	for _, it := range items {
		out = append(out, desktop.RemoteItem{
			ID:        it.ID,
			Name:      it.Name,
			Type:      it.Type,
			Position:  desktop.Position{X: it.Position.X, Y: it.Position.Y},
			CreatedAt: it.CreatedAt,
		})
	}
	return out, nil
}

// Save records a desktop save request as a new item.
func (d Desktop) Save(ctx context.Context, req desktop.SaveRequest) error {
	_, err := d.Store.CreateItem(ctx, NewItem{
		Name:     req.Name,
		Type:     req.Type,
		Position: &Position{X: req.Position.X, Y: req.Position.Y},
	})
	return err
}
