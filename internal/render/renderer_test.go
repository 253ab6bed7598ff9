package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artenioreis/fichadeinscricao/internal/blob"
	"github.com/artenioreis/fichadeinscricao/internal/platform/metrics"
	"github.com/artenioreis/fichadeinscricao/pkg/domain"
)

func memoryBlob(t *testing.T) blob.Store {
	t.Helper()
	store, err := blob.Open(context.Background(), blob.Config{Driver: blob.DriverMemory})
	require.NoError(t, err)
	return store
}

func recordingOptions(doc *recorder, m *metrics.Metrics) Options {
	return Options{
		Logger:      zerolog.Nop(),
		Metrics:     m,
		NewDocument: func(string, bool) Document { return doc },
	}
}

func TestArtifactName(t *testing.T) {
	r := domain.NewRecord(7)
	require.NoError(t, r.SetText(domain.FieldFullName, "Maria da Silva"))
	assert.Equal(t, "Ficha_Inscricao_0007_Maria_da_Silva.pdf", ArtifactName(r))

	require.NoError(t, r.SetText(domain.FieldFullName, "A/B C"))
	assert.Equal(t, "Ficha_Inscricao_0007_A_B_C.pdf", ArtifactName(r))

	require.NoError(t, r.SetText(domain.FieldFullName, "Ana Silva Jr."))
	assert.Equal(t, "Ficha_Inscricao_0007_Ana_Silva_Jr..pdf", ArtifactName(r))
}

func TestRenderToFilesystemKeepsDotsInName(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := blob.Open(ctx, blob.Config{Driver: blob.DriverFilesystem, FSRoot: root})
	require.NoError(t, err)
	r := New(store, Options{Logger: zerolog.Nop()})

	for _, name := range []string{"Ana Silva Jr.", "Maria...", "A..B"} {
		rec := domain.NewRecord(1)
		require.NoError(t, rec.SetText(domain.FieldFullName, name))
		art, err := r.Render(ctx, rec)
		require.NoError(t, err, name)
		_, err = os.Stat(filepath.Join(root, art.Key))
		assert.NoError(t, err, name)
	}
}

func TestRenderStoresArtifact(t *testing.T) {
	ctx := context.Background()
	store := memoryBlob(t)
	m := metrics.New()
	doc := newRecorder()
	r := New(store, recordingOptions(doc, m))

	art, err := r.Render(ctx, anaSilva(t))
	require.NoError(t, err)
	assert.Equal(t, "Ficha_Inscricao_0001_Ana_Silva.pdf", art.Key)
	assert.Equal(t, 2, art.Pages)
	_, err = uuid.Parse(art.RenderID)
	assert.NoError(t, err)
	assert.Equal(t, 1, doc.closed)

	info, rc, err := store.Get(ctx, art.Key)
	require.NoError(t, err)
	body := readAll(rc)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
	assert.Contains(t, string(body), "Ana Silva")
	assert.Equal(t, ContentType, info.ContentType)
	assert.Equal(t, "0001", info.Metadata[MetaCode])
	assert.Equal(t, "2", info.Metadata[MetaPages])
	assert.Equal(t, art.RenderID, info.Metadata[MetaRenderID])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues(metrics.ResultOK)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RenderPages))
}

func TestRenderOverwritesPreviousForm(t *testing.T) {
	ctx := context.Background()
	store := memoryBlob(t)
	r := New(store, Options{Logger: zerolog.Nop(), NewDocument: func(string, bool) Document { return newRecorder() }})
	first, err := r.Render(ctx, anaSilva(t))
	require.NoError(t, err)
	second, err := r.Render(ctx, anaSilva(t))
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)
	assert.NotEqual(t, first.RenderID, second.RenderID)

	list, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRenderFailures(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name  string
		store func(t *testing.T) blob.Store
		doc   func() *recorder
		stage Stage
		cause error
	}{
		{
			name:  "layout",
			store: memoryBlob,
			doc:   func() *recorder { d := newRecorder(); d.err = errors.New("bad font"); return d },
			stage: StageLayout,
		},
		{
			name:  "encode",
			store: memoryBlob,
			doc:   func() *recorder { d := newRecorder(); d.outErr = errors.New("short write"); return d },
			stage: StageEncode,
		},
		{
			name:  "store",
			store: func(t *testing.T) blob.Store { return failingBlob{memoryBlob(t)} },
			doc:   newRecorder,
			stage: StageStore,
			cause: errDisk,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.New()
			store := tc.store(t)
			doc := tc.doc()
			_, err := New(store, recordingOptions(doc, m)).Render(ctx, anaSilva(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRender)
			var rerr *RenderError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tc.stage, rerr.Stage)
			assert.Equal(t, "Ficha_Inscricao_0001_Ana_Silva.pdf", rerr.Key)
			if tc.cause != nil {
				assert.ErrorIs(t, err, tc.cause)
			}
			assert.Equal(t, 1, doc.closed, "document released on every path")
			assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues(metrics.ResultError)))
		})
	}
}

func TestRenderCancelledContextWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := memoryBlob(t)
	_, err := New(store, recordingOptions(newRecorder(), nil)).Render(ctx, anaSilva(t))
	require.ErrorIs(t, err, context.Canceled)
	list, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRenderPDF(t *testing.T) {
	ctx := context.Background()
	store := memoryBlob(t)
	logoPath := filepath.Join(t.TempDir(), "logo.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(600, 300)))
	require.NoError(t, os.WriteFile(logoPath, buf.Bytes(), 0o600))

	r := New(store, Options{Logger: zerolog.Nop(), LogoPath: logoPath})
	art, err := r.Render(ctx, anaSilva(t))
	require.NoError(t, err)

	_, rc, err := store.Get(ctx, art.Key)
	require.NoError(t, err)
	body := string(readAll(rc))
	assert.True(t, strings.HasPrefix(body, "%PDF-1."))
	assert.Contains(t, body, "(Ana Silva)")
	assert.Contains(t, body, "FICHA DE INSCRI\xc7\xc3O", "title encoded with the core font code page")
	assert.Contains(t, body, "/Subtype /Image")
	assert.Equal(t, 2, art.Pages)
}

func TestRenderPDFWithoutLogo(t *testing.T) {
	store := memoryBlob(t)
	r := New(store, Options{Logger: zerolog.Nop(), LogoPath: filepath.Join(t.TempDir(), "absent.png")})
	art, err := r.Render(context.Background(), anaSilva(t))
	require.NoError(t, err)
	_, rc, err := store.Get(context.Background(), art.Key)
	require.NoError(t, err)
	assert.Contains(t, string(readAll(rc)), "([Logo])")
}
