/*
Package paint implements the vector model behind a paint window.

A Canvas holds frames, filled rectangles, free-hand paths and text labels.
Every object belongs to one named layer and carries a z-index that is unique
within that layer. Pointer gestures are interpreted by the active Tool:

	c := paint.New()
	c.SetTool(paint.ToolShape)
	c.PointerDown(paint.Point{X: 10, Y: 10})
	c.PointerMove(paint.Point{X: 50, Y: 40})
	c.PointerUp()

The current layer always renders above the others (see RenderOrder), and the
"[" and "]" keys swap the selected object with its nearest neighbour on the
same layer. Snapshot and Restore detach the model from a window so it can
survive minimize and close, and Export rasterises it to JPEG.
*/
package paint
