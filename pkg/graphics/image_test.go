package graphics

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	black = color.RGBA{A: 0xff}
)

func TestNewImageClampsNegativeSize(t *testing.T) {
	img := NewImage(-5, 10)
	if img.Width() != 0 || img.Height() != 10 {
		t.Errorf("expected 0x10, got %dx%d", img.Width(), img.Height())
	}
}

func TestFillAndFillRect(t *testing.T) {
	img := Fill(20, 10, red)
	if img.At(0, 0) != red || img.At(19, 9) != red {
		t.Error("expected every pixel filled")
	}

	// Out-of-bounds parts are clipped.
	img.FillRect(image.Rect(15, 5, 40, 40), black)
	if img.At(19, 9) != black {
		t.Error("expected clipped rect to reach the corner")
	}
	if img.At(14, 5) != red {
		t.Error("expected pixels left of the rect untouched")
	}
}

func TestStrokeRect(t *testing.T) {
	img := Fill(20, 20, red)
	img.StrokeRect(image.Rect(2, 2, 12, 12), 2, black)

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"top edge", 5, 2, black},
		{"inner top edge", 5, 3, black},
		{"inside", 6, 6, red},
		{"left edge", 2, 6, black},
		{"right edge", 11, 6, black},
		{"outside", 13, 6, red},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.At(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestDrawLine(t *testing.T) {
	img := Fill(20, 20, red)
	img.DrawLine(0, 0, 10, 10, 1, black)
	for i := 0; i <= 10; i++ {
		if img.At(i, i) != black {
			t.Errorf("expected diagonal pixel %d drawn", i)
		}
	}
	if img.At(10, 0) != red {
		t.Error("expected off-line pixel untouched")
	}
}

func TestDrawText(t *testing.T) {
	img := Fill(60, 20, red)
	img.DrawText(2, 14, "Hi", black)
	inked := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			if img.At(x, y) == black {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Error("expected text to ink some pixels")
	}
}

func TestEncodeAndDecodeConfig(t *testing.T) {
	img := Fill(32, 16, red)

	pngData, err := img.ToPNG()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if cfg != (Config{Width: 32, Height: 16, Format: "png"}) {
		t.Errorf("unexpected png config %+v", cfg)
	}
	if cfg.AspectRatio() != 0.5 {
		t.Errorf("expected aspect 0.5, got %v", cfg.AspectRatio())
	}

	jpegData, err := img.ToJPEG(90)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err = DecodeConfig(bytes.NewReader(jpegData))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if cfg.Format != "jpeg" || cfg.Width != 32 {
		t.Errorf("unexpected jpeg config %+v", cfg)
	}

	if _, err := DecodeConfig(bytes.NewReader([]byte("not an image"))); !errors.Is(err, ErrInvalidImageData) {
		t.Errorf("expected ErrInvalidImageData, got %v", err)
	}
	if (Config{}).AspectRatio() != 0 {
		t.Error("expected zero aspect for an empty config")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}
