// Package render lays enrollment records out as paginated A4 forms and writes
// them to the artifact store.
package render

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/artenioreis/fichadeinscricao/internal/blob"
	"github.com/artenioreis/fichadeinscricao/internal/platform/metrics"
	"github.com/artenioreis/fichadeinscricao/pkg/domain"
)

// ContentType of rendered artifacts.
const ContentType = "application/pdf"

// Artifact metadata keys.
const (
	MetaRenderID = "render-id"
	MetaCode     = "code"
	MetaPages    = "pages"
)

// Options configures a Renderer.
type Options struct {
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	// LogoPath points at the header graphic; a missing or unreadable file
	// prints a placeholder.
	LogoPath string
	Compress bool
	// NewDocument replaces the PDF backend.
	NewDocument func(title string, compress bool) Document
}

// Artifact describes one stored form.
type Artifact struct {
	Key      string
	RenderID string
	Pages    int
	Info     blob.Info
}

// Renderer produces enrollment forms. It keeps no per-render state, so one
// Renderer may serve concurrent calls.
type Renderer struct {
	store blob.Store
	opts  Options
	log   zerolog.Logger
}

// New returns a Renderer writing into store.
func New(store blob.Store, opts Options) *Renderer {
	if opts.NewDocument == nil {
		opts.NewDocument = NewPDF
	}
	return &Renderer{store: store, opts: opts, log: opts.Logger.With().Str("component", "render").Logger()}
}

// ArtifactName is the key a record's form is stored under:
// Ficha_Inscricao_<code>_<full name with spaces as underscores>.pdf.
// Path separators in the name are replaced as well.
func ArtifactName(rec domain.Record) string {
	name := strings.NewReplacer(" ", "_", "/", "_", `\`, "_").Replace(rec.FullName())
	return "Ficha_Inscricao_" + rec.DisplayCode() + "_" + name + ".pdf"
}

// Render lays rec out and stores the document, replacing any previous form
// for the same key. Failures are *RenderError; the header graphic is optional
// and never fails a render.
func (r *Renderer) Render(ctx context.Context, rec domain.Record) (art Artifact, err error) {
	start := time.Now()
	key := ArtifactName(rec)
	id := uuid.NewString()
	log := r.log.With().Str("render_id", id).Int("code", rec.Code).Logger()
	defer func() {
		r.opts.Metrics.ObserveRender(start, art.Pages, err)
		if err != nil {
			log.Error().Err(err).Msg("render failed")
		}
	}()

	logo, lerr := LoadLogo(r.opts.LogoPath)
	if lerr != nil {
		log.Debug().Err(lerr).Msg("header graphic unavailable, using placeholder")
	}

	doc := r.opts.NewDocument(key, r.opts.Compress)
	defer doc.Close()

	p := NewPaginator(doc, FormGeometry)
	LayoutForm(p, rec, logo)
	if err := doc.Err(); err != nil {
		return Artifact{}, &RenderError{Stage: StageLayout, Key: key, Err: err}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return Artifact{}, &RenderError{Stage: StageEncode, Key: key, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, &RenderError{Stage: StageStore, Key: key, Err: err}
	}

	info, err := r.store.Put(ctx, key, bytes.NewReader(buf.Bytes()), blob.PutOptions{
		ContentType: ContentType,
		Overwrite:   true,
		Metadata: map[string]string{
			MetaRenderID: id,
			MetaCode:     rec.DisplayCode(),
			MetaPages:    strconv.Itoa(p.Pages()),
		},
	})
	if err != nil {
		return Artifact{}, &RenderError{Stage: StageStore, Key: key, Err: err}
	}
	art = Artifact{Key: key, RenderID: id, Pages: p.Pages(), Info: info}
	log.Info().Str("key", key).Int("pages", art.Pages).Int64("bytes", info.Size).Msg("form rendered")
	return art, nil
}
