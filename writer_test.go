package ustar

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/ustar/internal/record"
)

func TestWriterFinalizePadding(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, WriteOptions{})
	for i, size := range []int{0, 1, 511, 512, 513, 9000} {
		require.NoError(t, w.Add(string(rune('a'+i)), bytes.Repeat([]byte{'x'}, size)))
	}
	require.NoError(t, w.Close())

	recordSize := record.DefaultBlocks * record.BlockSize
	require.Positive(t, buf.Len())
	require.Zero(t, buf.Len()%recordSize)

	// The stream ends in at least two all-zero blocks.
	tail := buf.Bytes()[buf.Len()-2*record.BlockSize:]
	assert.Equal(t, make([]byte, 2*record.BlockSize), tail)
}

func TestWriterCloseIdempotent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, WriteOptions{})
	require.NoError(t, w.Add("a", []byte("x")))
	require.NoError(t, w.Close())
	n := buf.Len()

	require.NoError(t, w.Close())
	assert.Equal(t, n, buf.Len())

	err := w.WriteHeader(&Header{Name: "late", TypeFlag: TypeRegular})
	require.ErrorIs(t, err, ErrWriteAfterClose)
}

func TestWriterRejectsNonRegular(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, WriteOptions{})
	for _, flag := range []TypeFlag{TypeDir, TypeSymlink, TypeHardLink, TypeChar, TypeFIFO} {
		err := w.WriteHeader(&Header{Name: "x", TypeFlag: flag})
		require.ErrorIs(t, err, ErrWriteTypeFlag)
	}
	assert.Zero(t, buf.Len())
}

func TestWriterWriteTooLong(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, WriteOptions{})
	require.NoError(t, w.WriteHeader(&Header{Name: "a", Size: 4, TypeFlag: TypeRegular}))

	_, err := w.Write([]byte("12345"))
	require.ErrorIs(t, err, ErrWriteTooLong)
}

func TestWriterUnderflow(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, WriteOptions{})
	require.NoError(t, w.WriteHeader(&Header{Name: "a", Size: 10, TypeFlag: TypeRegular}))
	_, err := w.Write([]byte("12345"))
	require.NoError(t, err)

	require.ErrorIs(t, w.Close(), ErrEntryUnderflow)
	err = w.WriteHeader(&Header{Name: "b", Size: 0, TypeFlag: TypeRegular})
	require.ErrorIs(t, err, ErrEntryUnderflow)
}

func TestWriterEntryDefaults(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)

	var buf bytes.Buffer
	w := NewWriter(&buf, WriteOptions{})
	require.NoError(t, w.Add("defaults", []byte("abc")))
	require.NoError(t, w.Close())

	r := NewReader(&buf)
	hdr, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0o644), hdr.Mode)
	assert.Zero(t, hdr.UID)
	assert.Zero(t, hdr.GID)
	assert.Equal(t, int64(3), hdr.Size)
	assert.False(t, hdr.ModTime.Before(before.Truncate(time.Second)))
}

func TestWriterEntryOverrides(t *testing.T) {
	t.Parallel()

	mtime := time.Unix(1600000000, 0)

	var buf bytes.Buffer
	w := NewWriter(&buf, WriteOptions{})
	require.NoError(t, w.Add("custom", []byte("abc"),
		WithMode(0o750),
		WithOwner(1234, 567),
		WithOwnerNames("svc", "ops"),
		WithModTime(mtime),
	))
	require.NoError(t, w.Close())

	r := NewReader(&buf)
	hdr, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0o750), hdr.Mode)
	assert.Equal(t, 1234, hdr.UID)
	assert.Equal(t, 567, hdr.GID)
	assert.Equal(t, "svc", hdr.Uname)
	assert.Equal(t, "ops", hdr.Gname)
	assert.True(t, mtime.Equal(hdr.ModTime))
	// Size comes from the content, not from any override.
	assert.Equal(t, int64(3), hdr.Size)
}

func TestWriterAddReader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, WriteOptions{})
	require.NoError(t, w.AddReader("streamed", bytes.NewReader(bytes.Repeat([]byte{'s'}, 1500))))
	require.NoError(t, w.Close())

	r := NewReader(&buf)
	hdr, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1500), hdr.Size)

	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Len(t, content, 1500)
}

func TestWriterAddFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "source.txt")
	require.NoError(t, os.WriteFile(path, []byte("file payload"), 0o640))
	mtime := time.Unix(1500000000, 0)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	var buf bytes.Buffer
	w := NewWriter(&buf, WriteOptions{})
	require.NoError(t, w.AddFile("archived.txt", path))
	require.NoError(t, w.Close())

	r := NewReader(&buf)
	hdr, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "archived.txt", hdr.Name)
	assert.Equal(t, int64(0o640), hdr.Mode)
	assert.Equal(t, int64(12), hdr.Size)
	assert.True(t, mtime.Equal(hdr.ModTime))

	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "file payload", string(content))
}

func TestWriterAddFileOverridesBeatStat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "source.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o640))

	var buf bytes.Buffer
	w := NewWriter(&buf, WriteOptions{})
	require.NoError(t, w.AddFile("a", path, WithMode(0o400), WithOwner(9, 9)))
	require.NoError(t, w.Close())

	r := NewReader(&buf)
	hdr, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0o400), hdr.Mode)
	assert.Equal(t, 9, hdr.UID)
	assert.Equal(t, 9, hdr.GID)
}

func TestWriterAddFileRejectsDirectory(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, WriteOptions{})
	err := w.AddFile("d", t.TempDir())
	require.ErrorIs(t, err, ErrWriteTypeFlag)
}
