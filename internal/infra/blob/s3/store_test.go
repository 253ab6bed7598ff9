package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artenioreis/fichadeinscricao/internal/blob/core"
)

func newFakeStore(t *testing.T, prefix string) (*Store, *FakeTransport) {
	t.Helper()
	rt := NewFakeTransport()
	s, err := New(context.Background(), Config{
		Bucket:          "fichas",
		Prefix:          prefix,
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		HTTPClient:      &http.Client{Transport: rt},
	})
	require.NoError(t, err)
	return s, rt
}

func TestStore_MockedBasicFlow(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	key := "Ficha_Inscricao_0001_Ana.pdf"
	pdf := []byte("%PDF-1.3\r\n%\xe2\xe3\xcf\xd3\r\nbinary\r\n")
	info, err := store.Put(ctx, key, bytes.NewReader(pdf), core.PutOptions{ContentType: "application/pdf", Metadata: map[string]string{"code": "0001"}})
	require.NoError(t, err)
	assert.Equal(t, key, info.Key)
	assert.Equal(t, "application/pdf", info.ContentType)
	assert.EqualValues(t, len(pdf), info.Size)
	assert.Equal(t, "0001", info.Metadata["code"])

	_, rc, err := store.Get(ctx, key)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, pdf, data)

	url, err := store.PresignURL(ctx, key, core.SignedURLOptions{})
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Signature")

	ok, err := store.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PutOverwriteSemantics(t *testing.T) {
	store, rt := newFakeStore(t, "")
	ctx := context.Background()
	_, err := store.Put(ctx, "a.pdf", strings.NewReader("one"), core.PutOptions{})
	require.NoError(t, err)
	_, err = store.Put(ctx, "a.pdf", strings.NewReader("two"), core.PutOptions{})
	assert.ErrorIs(t, err, core.ErrExists)
	_, err = store.Put(ctx, "a.pdf", strings.NewReader("three"), core.PutOptions{Overwrite: true})
	require.NoError(t, err)
	body, _ := rt.Object("a.pdf")
	assert.Equal(t, "three", string(body))
}

func TestStore_PrefixAndPagedList(t *testing.T) {
	store, rt := newFakeStore(t, "fichas/")
	rt.PageSize = 1
	ctx := context.Background()
	for _, k := range []string{"b.pdf", "a.pdf", "c.pdf"} {
		_, err := store.Put(ctx, k, strings.NewReader(k), core.PutOptions{})
		require.NoError(t, err, k)
	}
	_, ok := rt.Object("fichas/a.pdf")
	assert.True(t, ok, "expected prefixed object key")

	list, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a.pdf", list[0].Key)
	assert.Equal(t, "c.pdf", list[2].Key)
}

func TestStore_NotFoundAndErrors(t *testing.T) {
	store, rt := newFakeStore(t, "")
	ctx := context.Background()
	_, err := store.Head(ctx, "missing.pdf")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, _, err = store.Get(ctx, "missing.pdf")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = store.Put(ctx, "", strings.NewReader("x"), core.PutOptions{})
	assert.Error(t, err, "empty key")
	_, err = store.PresignURL(ctx, "x", core.SignedURLOptions{Method: "PUT"})
	assert.ErrorIs(t, err, core.ErrUnsupported)

	rt.FailPuts = true
	_, err = store.Put(ctx, "a.pdf", strings.NewReader("x"), core.PutOptions{Overwrite: true})
	assert.Error(t, err)
	assert.Equal(t, core.DriverS3, store.Driver())
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestDecodeAWSChunked(t *testing.T) {
	payload := "5;chunk-signature=abc\r\nhel\r\n\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n"
	got, err := decodeAWSChunked([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "hel\r\n", string(got))
	_, err = decodeAWSChunked([]byte("zz\r\n"))
	assert.Error(t, err, "size error")
}
