package paint

import (
	"image"
	"image/color"
	"math"
	"path/filepath"
	"sort"

	"retrodesk/pkg/graphics"
)

// ExportQuality is the JPEG quality used for exported drawings.
const ExportQuality = 95

var (
	exportBackground = color.RGBA{R: 0x93, G: 0x93, B: 0xff, A: 0xff}
	exportInk        = color.RGBA{A: 0xff}
	exportFill       = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

const (
	strokeWidth = 2
	// textBaseline is the offset from a text object's y to its baseline.
	textBaseline = 12
)

// Export rasterises s onto a width x height image. Layers are drawn in
// sequence order and objects by ascending z-index within each layer.
func Export(s State, width, height int) *graphics.Image {
	img := graphics.Fill(width, height, exportBackground)
	for _, layer := range s.Layers {
		var objs []Object
		for _, o := range s.Objects {
			if o.Head().Layer == layer {
				objs = append(objs, o)
			}
		}
		sort.SliceStable(objs, func(i, j int) bool {
			return objs[i].Head().ZIndex < objs[j].Head().ZIndex
		})
		for _, o := range objs {
			drawObject(img, o)
		}
	}
	return img
}

// EncodeJPEG exports s and encodes it at ExportQuality.
func EncodeJPEG(s State, width, height int) ([]byte, error) {
	return Export(s, width, height).ToJPEG(ExportQuality)
}

// ExportFileName is the download name for a drawing. Only the last path
// element of the title is used.
func ExportFileName(s State) string {
	name := filepath.Base(s.UntitledName)
	switch name {
	case ".", "..", string(filepath.Separator):
		name = DefaultTitle
	}
	return name + ".jpg"
}

func drawObject(img *graphics.Image, o Object) {
	switch v := o.(type) {
	case *Frame:
		img.StrokeRect(toRect(v.Rect), strokeWidth, exportInk)
	case *Rectangle:
		r := toRect(v.Rect)
		img.FillRect(r, exportFill)
		img.StrokeRect(r, strokeWidth, exportInk)
	case *Path:
		for i := 1; i < len(v.Points); i++ {
			a, b := v.Points[i-1], v.Points[i]
			img.DrawLine(round(a.X), round(a.Y), round(b.X), round(b.Y), strokeWidth, exportInk)
		}
	case *Text:
		img.DrawText(round(v.X), round(v.Y)+textBaseline, v.Text, exportInk)
	}
}

func toRect(r Rect) image.Rectangle {
	return image.Rect(round(r.X), round(r.Y), round(r.X+r.Width), round(r.Y+r.Height))
}

func round(f float64) int {
	return int(math.Round(f))
}
