package render

// Cm is one centimetre in PDF points.
const Cm = 72 / 2.54

// A4 page size in points.
const (
	PageWidth  = 595.2755905511812
	PageHeight = 841.8897637795277
)

// Geometry fixes where content may be placed on a page. Vertical positions are
// measured in points from the bottom edge, the way PDF user space is laid out.
type Geometry struct {
	Width, Height float64
	// Margin is applied on the left and on the right.
	Margin float64
	// Top is where writing starts on a fresh page.
	Top float64
	// Bottom is the threshold below which nothing new is placed.
	Bottom float64
	// LineGap separates field rows.
	LineGap float64
	// SectionGap precedes every section title.
	SectionGap float64
	// ValueColumn is the distance from a field label to its value.
	ValueColumn float64
}

// FormGeometry is the A4 layout used for enrollment forms.
var FormGeometry = Geometry{
	Width:       PageWidth,
	Height:      PageHeight,
	Margin:      2 * Cm,
	Top:         27.5 * Cm,
	Bottom:      2.5 * Cm,
	LineGap:     0.6 * Cm,
	SectionGap:  1 * Cm,
	ValueColumn: 3.5 * Cm,
}

// ContentWidth is the printable width between the margins.
func (g Geometry) ContentWidth() float64 { return g.Width - 2*g.Margin }

// Font selects one of the core Helvetica faces.
type Font struct {
	Bold bool
	Size float64
}

// Typography used by the form.
var (
	FontTitle       = Font{Bold: true, Size: 18}
	FontSection     = Font{Bold: true, Size: 11}
	FontLabel       = Font{Bold: true, Size: 9}
	FontValue       = Font{Size: 9}
	FontAcceptance  = Font{Bold: true, Size: 10}
	FontPlaceholder = Font{Size: 12}
)

// ParagraphLeading is the baseline distance inside wrapped paragraphs.
const ParagraphLeading = 12.0
