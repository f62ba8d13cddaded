/*
Package graphics provides the server-side raster primitives used by retrodesk.

It backs the paint export (solid fills, outlined boxes, thick polylines and
bitmap text encoded as JPEG) and the image gallery, which only needs the
dimensions of uploaded files.

	img := graphics.Fill(640, 480, color.RGBA{0x93, 0x93, 0xff, 0xff})
	img.StrokeRect(image.Rect(10, 10, 60, 40), 2, color.Black)
	img.DrawText(20, 32, "hello", color.Black)
	data, err := img.ToJPEG(95)

Text uses the fixed 7x13 face from golang.org/x/image/font/basicfont.
*/
package graphics
