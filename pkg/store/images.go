package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Image is the metadata of an uploaded image. Path is relative to the
// server root, e.g. "uploads/<filename>".
type Image struct {
	ID           string    `json:"_id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Images returns all image metadata, newest first.
func (s *Store) Images(ctx context.Context) ([]Image, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, original_name, path, size, width, height, uploaded_at
		FROM images ORDER BY uploaded_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := []Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// AddImage records an uploaded file. ID and UploadedAt are filled in when
// empty.
func (s *Store) AddImage(ctx context.Context, img Image) (Image, error) {
	if !s.Available() {
		return Image{}, ErrUnavailable
	}
	if img.Filename == "" {
		return Image{}, &ValidationError{Field: "filename", Message: "is required"}
	}
	if img.ID == "" {
		img.ID = uuid.New().String()
	}
	if img.UploadedAt.IsZero() {
		img.UploadedAt = time.Now()
	}
	img.UploadedAt = img.UploadedAt.UTC().Truncate(time.Millisecond)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (id, filename, original_name, path, size, width, height, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		img.ID, img.Filename, img.OriginalName, img.Path, img.Size, img.Width, img.Height,
		img.UploadedAt.UnixMilli())
	if err != nil {
		return Image{}, fmt.Errorf("failed to add image: %w", err)
	}
	return img, nil
}

// Image returns the metadata with id.
func (s *Store) Image(ctx context.Context, id string) (Image, error) {
	if !s.Available() {
		return Image{}, ErrUnavailable
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, original_name, path, size, width, height, uploaded_at
		FROM images WHERE id = ?`, id)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Image{}, ErrNotFound
	}
	return img, err
}

// DeleteImage removes the metadata with id. The file itself is the
// caller's to remove.
func (s *Store) DeleteImage(ctx context.Context, id string) error {
	if !s.Available() {
		return ErrUnavailable
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM images WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanImage(r scanner) (Image, error) {
	var img Image
	var uploaded int64
	err := r.Scan(&img.ID, &img.Filename, &img.OriginalName, &img.Path, &img.Size,
		&img.Width, &img.Height, &uploaded)
	if err != nil {
		return Image{}, err
	}
	img.UploadedAt = time.UnixMilli(uploaded).UTC()
	return img, nil
}
