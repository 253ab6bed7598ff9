package render

import (
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

type pdfCanvas struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	height float64
	images map[string]bool
	closed bool
}

// NewPDF opens an A4 document in points with automatic page breaks disabled;
// the paginator decides where pages end. The first page is already added.
func NewPDF(title string, compress bool) Document {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(compress)
	pdf.SetTitle(title, true)
	pdf.SetCreator("fichadeinscricao", true)
	pdf.SetCreationDate(time.Now())
	pdf.SetLineWidth(1)
	pdf.AddPage()
	_, h := pdf.GetPageSize()
	return &pdfCanvas{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		height: h,
		images: make(map[string]bool),
	}
}

func (c *pdfCanvas) SetFont(f Font) {
	style := ""
	if f.Bold {
		style = "B"
	}
	c.pdf.SetFont("Helvetica", style, f.Size)
}

func (c *pdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, c.height-y, c.tr(s))
}

func (c *pdfCanvas) CenteredText(cx, y float64, s string) {
	c.Text(cx-c.StringWidth(s)/2, y, s)
}

func (c *pdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, c.height-y1, x2, c.height-y2)
}

func (c *pdfCanvas) Image(name string, png []byte, x, y, w, h float64) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	if !c.images[name] {
		c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		c.images[name] = true
	}
	c.pdf.ImageOptions(name, x, c.height-y-h, w, h, false, opts, 0, "")
}

func (c *pdfCanvas) StringWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

func (c *pdfCanvas) AddPage() { c.pdf.AddPage() }

func (c *pdfCanvas) Err() error { return c.pdf.Error() }

func (c *pdfCanvas) Output(w io.Writer) error {
	if c.closed {
		return errors.New("pdf already closed")
	}
	c.closed = true
	return c.pdf.Output(w)
}

// Close releases the document. Output closes it as well; calling Close
// afterwards is a no-op.
func (c *pdfCanvas) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.pdf.Close()
}
