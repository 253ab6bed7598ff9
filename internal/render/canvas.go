package render

import "io"

// Canvas is the drawing surface the paginator writes to. Coordinates are in
// points with the origin at the bottom-left corner of the current page; text
// is positioned by its baseline.
type Canvas interface {
	SetFont(f Font)
	Text(x, y float64, s string)
	CenteredText(cx, y float64, s string)
	Line(x1, y1, x2, y2 float64)
	// Image places a PNG with its bottom-left corner at (x, y).
	Image(name string, png []byte, x, y, w, h float64)
	// StringWidth measures s in the current font.
	StringWidth(s string) float64
	AddPage()
}

// Document is a Canvas that can be encoded once layout is complete.
type Document interface {
	Canvas
	// Err reports the first drawing failure, if any.
	Err() error
	Output(w io.Writer) error
	Close()
}
