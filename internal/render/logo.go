package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"os"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// Header graphic box and the resolution it is resampled to.
const (
	LogoBoxWidth  = 4 * Cm
	LogoBoxHeight = 2.5 * Cm
	logoDPI       = 300
)

// ErrAssetMissing marks an optional decorative asset that could not be used.
var ErrAssetMissing = errors.New("asset missing")

// Logo is a decoded header graphic, re-encoded as PNG for embedding.
type Logo struct {
	Name   string
	PNG    []byte
	Width  int
	Height int
}

// Fit scales the logo into a w×h box keeping its aspect ratio.
func (l *Logo) Fit(w, h float64) (float64, float64) {
	scale := math.Min(w/float64(l.Width), h/float64(l.Height))
	return float64(l.Width) * scale, float64(l.Height) * scale
}

// LoadLogo reads a PNG, JPEG or WebP file and downsizes it to the header box
// at print resolution. Every failure wraps ErrAssetMissing.
func LoadLogo(path string) (*Logo, error) {
	if path == "" {
		return nil, fmt.Errorf("logo: no path configured: %w", ErrAssetMissing)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("logo: %w: %w", ErrAssetMissing, err)
	}
	img, err := decodeImage(raw)
	if err != nil {
		return nil, fmt.Errorf("logo %s: %w: %w", path, ErrAssetMissing, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("logo %s: %w: empty image", path, ErrAssetMissing)
	}
	maxW := int(math.Round(LogoBoxWidth / 72 * logoDPI))
	maxH := int(math.Round(LogoBoxHeight / 72 * logoDPI))
	img = downscale(img, maxW, maxH)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("logo %s: %w: %w", path, ErrAssetMissing, err)
	}
	b := img.Bounds()
	return &Logo{Name: "logo", PNG: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

func decodeImage(raw []byte) (image.Image, error) {
	switch ct := http.DetectContentType(raw); ct {
	case "image/png":
		return png.Decode(bytes.NewReader(raw))
	case "image/jpeg":
		return jpeg.Decode(bytes.NewReader(raw))
	case "image/webp":
		return webp.Decode(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("unsupported image type %s", ct)
	}
}

// downscale shrinks src to fit maxW×maxH keeping the aspect ratio. Smaller
// images are returned unchanged.
func downscale(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
