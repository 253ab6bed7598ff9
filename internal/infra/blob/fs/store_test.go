package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artenioreis/fichadeinscricao/internal/blob/core"
)

const pdfType = "application/pdf"

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	require.NoError(t, err)
	return store
}

func readAll(t *testing.T, store *Store, key string) (core.Info, string) {
	t.Helper()
	info, rc, err := store.Get(context.Background(), key)
	require.NoError(t, err, key)
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	require.NoError(t, err, key)
	return info, string(b)
}

func TestStore_PutGetHeadListDelete(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	key := "Ficha_Inscricao_0001_Ana_Silva.pdf"
	info, err := store.Put(ctx, key, strings.NewReader("%PDF-1.3"), core.PutOptions{ContentType: pdfType, Metadata: map[string]string{"code": "1"}})
	require.NoError(t, err)
	assert.Equal(t, key, info.Key)
	assert.EqualValues(t, 8, info.Size)
	assert.NotEmpty(t, info.ETag)
	assert.True(t, strings.HasPrefix(info.URL, "file://"), info.URL)

	h, err := store.Head(ctx, key)
	require.NoError(t, err)
	g, body := readAll(t, store, key)
	assert.Equal(t, "%PDF-1.3", body)
	assert.Equal(t, h.ETag, g.ETag)
	assert.Equal(t, "1", g.Metadata["code"])
	assert.Equal(t, pdfType, g.ContentType)

	list, err := store.List(ctx, "Ficha_")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, key, list[0].Key)

	ok, err := store.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = store.Head(ctx, key)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, _, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStore_PutWithoutOverwriteRejectsExisting(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	_, err := store.Put(ctx, "a.pdf", strings.NewReader("one"), core.PutOptions{})
	require.NoError(t, err)
	_, err = store.Put(ctx, "a.pdf", strings.NewReader("two"), core.PutOptions{})
	assert.ErrorIs(t, err, core.ErrExists)
	_, body := readAll(t, store, "a.pdf")
	assert.Equal(t, "one", body)
}

func TestStore_OverwriteReplacesContentAndKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	_, err := store.Put(ctx, "a.pdf", strings.NewReader("first"), core.PutOptions{Overwrite: true})
	require.NoError(t, err)
	_, metaPath, _ := store.pathFor("a.pdf")
	before, err := readMeta(metaPath)
	require.NoError(t, err)

	_, err = store.Put(ctx, "a.pdf", strings.NewReader("second version"), core.PutOptions{Overwrite: true})
	require.NoError(t, err)
	info, body := readAll(t, store, "a.pdf")
	assert.Equal(t, "second version", body)
	assert.EqualValues(t, len("second version"), info.Size)

	after, err := readMeta(metaPath)
	require.NoError(t, err)
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt), "created_at changed: %v -> %v", before.CreatedAt, after.CreatedAt)
}

type errorReader struct{ n int }

func (r *errorReader) Read(p []byte) (int, error) {
	if r.n == 0 {
		r.n++
		return copy(p, "partial"), nil
	}
	return 0, errors.New("boom")
}

func TestStore_FailedWriteLeavesNoPartialFile(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	_, err := store.Put(ctx, "keep.pdf", strings.NewReader("original"), core.PutOptions{})
	require.NoError(t, err)

	_, err = store.Put(ctx, "keep.pdf", &errorReader{}, core.PutOptions{Overwrite: true})
	assert.Error(t, err)
	_, body := readAll(t, store, "keep.pdf")
	assert.Equal(t, "original", body, "failed overwrite clobbered content")

	_, err = store.Put(ctx, "new.pdf", &errorReader{}, core.PutOptions{})
	assert.Error(t, err)
	_, err = os.Stat(filepath.Join(store.root, "new.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist, "partial file left behind")

	entries, err := os.ReadDir(store.root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestStore_PutCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := newTempStore(t)
	_, err := store.Put(ctx, "a.pdf", bytes.NewReader(nil), core.PutOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_NestedKeysAndPath(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	_, err := store.Put(ctx, "2026/10/a.pdf", strings.NewReader("x"), core.PutOptions{})
	require.NoError(t, err)
	p, _, err := store.pathFor("2026/10/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.root, "2026", "10", "a.pdf"), p)

	list, err := store.List(ctx, "2026/")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2026/10/a.pdf", list[0].Key)
}

func TestStore_PresignVariants(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	url, err := store.PresignURL(ctx, "a.pdf", core.SignedURLOptions{Method: "get"})
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	_, err = store.PresignURL(ctx, "a.pdf", core.SignedURLOptions{Method: "PUT"})
	assert.ErrorIs(t, err, core.ErrUnsupported)
	assert.Equal(t, core.DriverFilesystem, store.Driver())
}

func TestSanitizeKeyErrors(t *testing.T) {
	for _, c := range []string{"", "  ", "../escape", "/abs", "a/../b", "..", "a/..", "x.pdf.meta"} {
		_, err := sanitizeKey(c)
		assert.Error(t, err, "%q", c)
	}
	got, err := sanitizeKey("a//b.pdf")
	require.NoError(t, err)
	assert.Equal(t, "a/b.pdf", got)
}

func TestSanitizeKeyAllowsDotsInsideNames(t *testing.T) {
	for _, c := range []string{"Ficha_Inscricao_0001_Ana_Silva_Jr..pdf", "Maria....pdf", "A..B.pdf", "dir/x..y.pdf"} {
		got, err := sanitizeKey(c)
		require.NoError(t, err, c)
		assert.Equal(t, c, got)
	}
}

func TestStore_PutKeyWithDoubleDot(t *testing.T) {
	store := newTempStore(t)
	key := "Ficha_Inscricao_0001_Ana_Silva_Jr..pdf"
	_, err := store.Put(context.Background(), key, strings.NewReader("%PDF"), core.PutOptions{})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(store.root, key))
	assert.NoError(t, err, "expected file inside root")
}
