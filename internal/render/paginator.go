package render

import "strings"

// ContinuationHeading is re-emitted at the top of a page when a section
// overflows onto it.
const ContinuationHeading = "Continuação da Ficha"

// Cursor is the writing position: the baseline of the next row and the
// 1-based page it lands on.
type Cursor struct {
	Y    float64
	Page int
}

// CheckItem is one label/mark pair on a checklist line.
type CheckItem struct {
	Label string
	On    bool
}

// Marks drawn for checklist items.
const (
	MarkOn  = "(X)"
	MarkOff = "( )"
)

// Paginator lays content out top to bottom and starts new pages when the
// cursor crosses the bottom threshold. Every drawing primitive checks for a
// break before placing ink.
type Paginator struct {
	c   Canvas
	geo Geometry
	cur Cursor
}

// NewPaginator starts at the top of page 1. The canvas must already hold that
// page.
func NewPaginator(c Canvas, geo Geometry) *Paginator {
	return &Paginator{c: c, geo: geo, cur: Cursor{Y: geo.Top, Page: 1}}
}

// Cursor returns the current writing position.
func (p *Paginator) Cursor() Cursor { return p.cur }

// Geometry returns the page geometry in use.
func (p *Paginator) Geometry() Geometry { return p.geo }

// Pages reports how many pages have been started.
func (p *Paginator) Pages() int { return p.cur.Page }

// Advance moves the cursor down by dy points.
func (p *Paginator) Advance(dy float64) { p.cur.Y -= dy }

// NewLine moves the cursor down one row.
func (p *Paginator) NewLine() { p.Advance(p.geo.LineGap) }

// CheckPageBreak starts a new page when the cursor is below the bottom
// threshold and reports whether it did.
func (p *Paginator) CheckPageBreak() bool {
	if p.cur.Y >= p.geo.Bottom {
		return false
	}
	p.newPage()
	return true
}

func (p *Paginator) newPage() {
	p.c.AddPage()
	p.cur.Page++
	p.cur.Y = p.geo.Top
}

// continueOnNewPage breaks when needed and heads the new page. It reports
// whether a page was started.
func (p *Paginator) continueOnNewPage() bool {
	if !p.CheckPageBreak() {
		return false
	}
	p.SectionTitle(ContinuationHeading)
	return true
}

// headingHeight is the vertical space SectionTitle takes at the top of a page.
func (p *Paginator) headingHeight() float64 {
	return p.geo.SectionGap + 0.1*Cm + 1.5*p.geo.LineGap
}

// SectionTitle draws an upper-case heading followed by a full-width rule. A
// title landing on a fresh page is pushed down half a centimetre.
func (p *Paginator) SectionTitle(text string) {
	if p.CheckPageBreak() {
		p.Advance(0.5 * Cm)
	}
	p.Advance(p.geo.SectionGap)
	p.c.SetFont(FontSection)
	p.c.Text(p.geo.Margin, p.cur.Y, strings.ToUpper(text))
	p.Advance(0.1 * Cm)
	p.c.Line(p.geo.Margin, p.cur.Y, p.geo.Margin+p.geo.ContentWidth(), p.cur.Y)
	p.Advance(p.geo.LineGap * 1.5)
}

// Field draws "label: value" at xOffset from the left margin on the current
// row. It does not advance the cursor so two fields can share a row.
func (p *Paginator) Field(label, value string, xOffset float64) {
	p.LabeledText(label, value, xOffset, p.geo.ValueColumn)
}

// LabeledText is Field with an explicit distance between label and value.
func (p *Paginator) LabeledText(label, value string, xOffset, valueColumn float64) {
	p.continueOnNewPage()
	x := p.geo.Margin + xOffset
	p.c.SetFont(FontLabel)
	p.c.Text(x, p.cur.Y, label+":")
	p.c.SetFont(FontValue)
	p.c.Text(x+valueColumn, p.cur.Y, value)
}

// Label draws a bold caption on the current row without advancing.
func (p *Paginator) Label(text string) {
	p.continueOnNewPage()
	p.c.SetFont(FontLabel)
	p.c.Text(p.geo.Margin, p.cur.Y, text)
}

// ChecklistLine draws every item as "label: mark" separated by bars on the
// current row.
func (p *Paginator) ChecklistLine(items []CheckItem) {
	p.continueOnNewPage()
	p.c.SetFont(FontValue)
	p.c.Text(p.geo.Margin, p.cur.Y, ChecklistText(items))
}

// ChecklistText renders items the way ChecklistLine prints them.
func ChecklistText(items []CheckItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		mark := MarkOff
		if it.On {
			mark = MarkOn
		}
		parts[i] = it.Label + ": " + mark
	}
	return strings.Join(parts, " | ")
}

// Mark draws a bracketed acceptance line such as "[X] I AGREE".
func (p *Paginator) Mark(text string, on bool) {
	p.continueOnNewPage()
	box := "[ ] "
	if on {
		box = "[X] "
	}
	p.c.SetFont(FontAcceptance)
	p.c.Text(p.geo.Margin, p.cur.Y, box+text)
}

// Paragraph wraps text to the content width and places it below the cursor.
// The block height is measured before drawing: when it does not fit above the
// bottom threshold the paragraph moves to a new page under a continuation
// heading. A block that would not fit below that heading either, or that
// already starts on a fresh page, flows line by line.
func (p *Paginator) Paragraph(text string) {
	fresh := p.continueOnNewPage()
	p.c.SetFont(FontValue)
	lines := Wrap(text, p.geo.ContentWidth(), p.c.StringWidth)
	height := float64(len(lines)) * ParagraphLeading
	room := p.geo.Top - p.headingHeight() - p.geo.Bottom
	if !fresh && p.cur.Y-height < p.geo.Bottom && height <= room {
		p.newPage()
		p.SectionTitle(ContinuationHeading)
		p.c.SetFont(FontValue)
	}
	for _, line := range lines {
		if p.cur.Y-ParagraphLeading < p.geo.Bottom {
			p.newPage()
			p.SectionTitle(ContinuationHeading)
			p.c.SetFont(FontValue)
		}
		p.c.Text(p.geo.Margin, p.cur.Y-FontValue.Size, line)
		p.Advance(ParagraphLeading)
	}
	p.NewLine()
}

// Signature draws a centred rule with a caption under it, starting a new page
// when the rule would fall below the bottom threshold.
func (p *Paginator) Signature(caption string, drop float64) {
	p.Advance(drop)
	p.CheckPageBreak()
	center := p.geo.Width / 2
	p.c.Line(center-6*Cm, p.cur.Y, center+6*Cm, p.cur.Y)
	p.c.SetFont(FontAcceptance)
	p.c.CenteredText(center, p.cur.Y-0.4*Cm, caption)
}
