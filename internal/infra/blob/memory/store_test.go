package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artenioreis/fichadeinscricao/internal/blob/core"
)

func TestStore_PutGetOverwrite(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Put(ctx, "a.pdf", strings.NewReader("one"), core.PutOptions{ContentType: "application/pdf", Metadata: map[string]string{"pages": "1"}})
	require.NoError(t, err)
	_, err = s.Put(ctx, "a.pdf", strings.NewReader("two"), core.PutOptions{})
	assert.ErrorIs(t, err, core.ErrExists)

	info, err := s.Put(ctx, "a.pdf", strings.NewReader("three"), core.PutOptions{Overwrite: true, Metadata: map[string]string{"pages": "2"}})
	require.NoError(t, err)
	assert.EqualValues(t, 5, info.Size)
	assert.NotEmpty(t, info.ETag)

	got, rc, err := s.Get(ctx, "a.pdf")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "three", string(b))
	assert.Equal(t, "2", got.Metadata["pages"])

	got.Metadata["pages"] = "mutated"
	h, err := s.Head(ctx, "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "2", h.Metadata["pages"], "metadata not isolated")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestStore_FailedPutStoresNothing(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.Put(ctx, "a.pdf", failingReader{}, core.PutOptions{})
	assert.Error(t, err)
	_, err = s.Head(ctx, "a.pdf")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = s.Put(ctx, " ", strings.NewReader("x"), core.PutOptions{})
	assert.Error(t, err, "empty key")
}

func TestStore_ListDeletePresign(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, k := range []string{"b/2.pdf", "a/1.pdf", "a/0.pdf"} {
		_, err := s.Put(ctx, k, strings.NewReader(k), core.PutOptions{})
		require.NoError(t, err, k)
	}
	list, err := s.List(ctx, "a/")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a/0.pdf", list[0].Key)

	ok, err := s.Delete(ctx, "a/0.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = s.Delete(ctx, "a/0.pdf")
	assert.False(t, ok)
	_, _, err = s.Get(ctx, "a/0.pdf")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = s.PresignURL(ctx, "b/2.pdf", core.SignedURLOptions{})
	assert.ErrorIs(t, err, core.ErrUnsupported)
	assert.Equal(t, core.DriverMemory, s.Driver())
}
