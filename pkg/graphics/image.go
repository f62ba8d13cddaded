package graphics

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

// Common errors
var (
	ErrInvalidImageData = errors.New("invalid image data")
	ErrFileNotFound     = errors.New("file not found")
)

// Face is the fixed 7x13 bitmap face used for all raster text.
var Face font.Face = basicfont.Face7x13

// Image is an RGBA raster with simple drawing primitives.
type Image struct {
	img *image.RGBA
}

// NewImage creates a transparent image of the given size.
func NewImage(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Fill creates a new image filled with a solid color
func Fill(width, height int, c color.Color) *Image {
	i := NewImage(width, height)
	i.FillRect(i.img.Bounds(), c)
	return i
}

// Width returns the image width
func (i *Image) Width() int {
	return i.img.Bounds().Dx()
}

// Height returns the image height
func (i *Image) Height() int {
	return i.img.Bounds().Dy()
}

// At returns the color of a pixel.
func (i *Image) At(x, y int) color.RGBA {
	return i.img.RGBAAt(x, y)
}

// RGBA returns the underlying raster.
func (i *Image) RGBA() *image.RGBA {
	return i.img
}

// FillRect paints r with c. r is clipped to the image.
func (i *Image) FillRect(r image.Rectangle, c color.Color) {
	draw.Draw(i.img, r.Canon().Intersect(i.img.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Over)
}

// StrokeRect outlines r with a pen of the given width, drawn inside r.
func (i *Image) StrokeRect(r image.Rectangle, width int, c color.Color) {
	r = r.Canon()
	if width < 1 {
		width = 1
	}
	i.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	i.FillRect(image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	i.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	i.FillRect(image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// DrawLine draws a straight segment with a square pen of the given width.
func (i *Image) DrawLine(x0, y0, x1, y1, width int, c color.Color) {
	if width < 1 {
		width = 1
	}
	half := width / 2
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		i.FillRect(image.Rect(x0-half, y0-half, x0-half+width, y0-half+width), c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawText draws s with its baseline at (x, y).
func (i *Image) DrawText(x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  i.img,
		Src:  image.NewUniform(c),
		Face: Face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// ToPNG encodes the image as PNG
func (i *Image) ToPNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, i.img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToJPEG encodes the image as JPEG
func (i *Image) ToJPEG(quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, i.img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Config describes an encoded image without decoding its pixels.
type Config struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// AspectRatio returns height/width, or 0 for an empty image.
func (c Config) AspectRatio() float64 {
	if c.Width == 0 {
		return 0
	}
	return float64(c.Height) / float64(c.Width)
}

// DecodeConfig reads the dimensions and format of a JPEG, PNG, GIF or WebP
// stream.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Config{}, ErrInvalidImageData
	}
	return Config{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// LoadConfig is DecodeConfig for a file on disk.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, ErrFileNotFound
		}
		return Config{}, err
	}
	defer f.Close()
	return DecodeConfig(f)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
