package render

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/artenioreis/fichadeinscricao/internal/blob"
)

type op struct {
	kind string // text, line, image, page
	page int
	x, y float64
	text string
	font Font
}

// recorder is an in-memory Document that logs every drawing call.
type recorder struct {
	ops    []op
	page   int
	font   Font
	err    error
	outErr error
	closed int
}

func newRecorder() *recorder { return &recorder{page: 1} }

func (r *recorder) SetFont(f Font) { r.font = f }

func (r *recorder) Text(x, y float64, s string) {
	r.ops = append(r.ops, op{kind: "text", page: r.page, x: x, y: y, text: s, font: r.font})
}

func (r *recorder) CenteredText(cx, y float64, s string) {
	r.Text(cx-r.StringWidth(s)/2, y, s)
}

func (r *recorder) Line(x1, y1, _, _ float64) {
	r.ops = append(r.ops, op{kind: "line", page: r.page, x: x1, y: y1})
}

func (r *recorder) Image(name string, _ []byte, x, y, _, _ float64) {
	r.ops = append(r.ops, op{kind: "image", page: r.page, x: x, y: y, text: name})
}

// StringWidth approximates Helvetica with half an em per rune.
func (r *recorder) StringWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * r.font.Size * 0.5
}

func (r *recorder) AddPage() {
	r.page++
	r.ops = append(r.ops, op{kind: "page", page: r.page})
}

func (r *recorder) Err() error { return r.err }

func (r *recorder) Output(w io.Writer) error {
	if r.outErr != nil {
		return r.outErr
	}
	_, err := io.WriteString(w, "%PDF-recorded\n"+strings.Join(r.texts(0), "\n"))
	return err
}

func (r *recorder) Close() { r.closed++ }

// texts returns the drawn strings, restricted to one page when page > 0.
func (r *recorder) texts(page int) []string {
	var out []string
	for _, o := range r.ops {
		if o.kind == "text" && (page == 0 || o.page == page) {
			out = append(out, o.text)
		}
	}
	return out
}

func (r *recorder) indexOf(text string) int {
	for i, o := range r.ops {
		if o.kind == "text" && o.text == text {
			return i
		}
	}
	return -1
}

// failingBlob rejects every write.
type failingBlob struct{ blob.Store }

var errDisk = errors.New("disk full")

func (failingBlob) Put(context.Context, string, io.Reader, blob.PutOptions) (blob.Info, error) {
	return blob.Info{}, errDisk
}

func readAll(rc io.ReadCloser) []byte {
	defer rc.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(rc)
	return buf.Bytes()
}
