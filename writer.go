package ustar

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/meigma/ustar/internal/record"
)

// WriteOptions configures a Writer.
type WriteOptions struct {
	// RecordBlocks is the blocking factor: the number of 512-byte blocks
	// per physical record. Zero selects the classic default of 20.
	RecordBlocks int

	// TextCodec overrides the codec used to encode header string fields.
	// Nil selects the default one-byte-per-code-point codec.
	TextCodec TextCodec
}

// Writer writes a tar stream entry by entry.
//
// Only regular-file members can be written. Use the Add helpers for whole
// entries, or WriteHeader followed by exactly Size content bytes through
// Write. Close finalizes the archive and must be called, otherwise the
// output is truncated and not interoperable.
type Writer struct {
	rw    *record.Writer
	codec TextCodec
	blk   [record.BlockSize]byte

	remaining int64
	closed    bool
}

// Interface compliance.
var _ io.Writer = (*Writer)(nil)

// NewWriter creates a Writer emitting to w.
func NewWriter(w io.Writer, opts WriteOptions) *Writer {
	codec := opts.TextCodec
	if codec == nil {
		codec = latin1Codec{}
	}
	return &Writer{
		rw:    record.NewWriter(w, opts.RecordBlocks),
		codec: codec,
	}
}

// WriteHeader encodes and writes the header for the next entry. The entry's
// content, exactly hdr.Size bytes, must follow through Write before the next
// header.
//
// Any type flag other than a regular file fails with ErrWriteTypeFlag:
// directories, links, and devices are read-only concerns today.
func (w *Writer) WriteHeader(hdr *Header) error {
	if w.closed {
		return ErrWriteAfterClose
	}
	if w.remaining > 0 {
		return fmt.Errorf("%d content bytes missing: %w", w.remaining, ErrEntryUnderflow)
	}
	if !hdr.TypeFlag.isRegular() {
		return fmt.Errorf("write %s: %w", hdr.Name, ErrWriteTypeFlag)
	}

	enc := *hdr
	enc.TypeFlag = TypeRegular
	if err := encodeHeader(&w.blk, &enc, w.codec); err != nil {
		return fmt.Errorf("write %s: %w", hdr.Name, err)
	}
	if _, err := w.rw.Write(w.blk[:]); err != nil {
		return err
	}
	w.remaining = hdr.Size
	return nil
}

// Write emits content for the current entry. Writing past the declared entry
// size fails with ErrWriteTooLong. When the declared size is reached the
// output is zero-padded to the next block boundary.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriteAfterClose
	}
	overflow := false
	if int64(len(p)) > w.remaining {
		p = p[:w.remaining]
		overflow = true
	}
	n, err := w.rw.Write(p)
	w.remaining -= int64(n)
	if err != nil {
		return n, err
	}
	if w.remaining == 0 {
		if err := w.rw.PadToBlock(); err != nil {
			return n, err
		}
	}
	if overflow {
		return n, ErrWriteTooLong
	}
	return n, nil
}

// Add writes one regular-file entry with in-memory content. The entry size
// is the content length; options may override the remaining attributes.
func (w *Writer) Add(name string, content []byte, opts ...EntryOption) error {
	hdr := newEntryHeader(name, int64(len(content)), opts)
	if err := w.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := w.Write(content)
	return err
}

// AddReader writes one regular-file entry with content from src. The stream
// is read to its end first; the entry size is the actual content length,
// never a caller-declared one.
func (w *Writer) AddReader(name string, src io.Reader, opts ...EntryOption) error {
	content, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("read content for %s: %w", name, err)
	}
	return w.Add(name, content, opts...)
}

// AddFile writes one regular-file entry with content and metadata from the
// file at path. Mode, owner, and modification time come from the file's
// metadata unless overridden by options; the size always comes from the
// file itself.
func (w *Writer) AddFile(name, path string, opts ...EntryOption) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("add %s: %w", path, ErrWriteTypeFlag)
	}

	uid, gid := fileOwner(info)
	hdr := &Header{
		Name:     name,
		Mode:     int64(info.Mode().Perm()),
		UID:      uid,
		GID:      gid,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		TypeFlag: TypeRegular,
	}
	for _, opt := range opts {
		opt(hdr)
	}
	hdr.Size = info.Size()

	if err := w.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("add %s: %w", path, err)
	}
	if w.remaining > 0 {
		return fmt.Errorf("add %s: %w", path, ErrEntryUnderflow)
	}
	return nil
}

// Close finalizes the archive: two all-zero blocks mark the end, then the
// output is zero-padded to the next record boundary. Close is a no-op when
// called again.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if w.remaining > 0 {
		return fmt.Errorf("%d content bytes missing: %w", w.remaining, ErrEntryUnderflow)
	}
	var zero [record.BlockSize]byte
	for i := 0; i < 2; i++ {
		if _, err := w.rw.Write(zero[:]); err != nil {
			return err
		}
	}
	if err := w.rw.PadToRecord(); err != nil {
		return err
	}
	w.closed = true
	return nil
}

// newEntryHeader builds a header from built-in defaults plus options.
// Defaults: regular file, mode 0644, uid/gid 0, modification time now.
func newEntryHeader(name string, size int64, opts []EntryOption) *Header {
	hdr := &Header{
		Name:     name,
		Mode:     0o644,
		Size:     size,
		ModTime:  time.Now(),
		TypeFlag: TypeRegular,
	}
	for _, opt := range opts {
		opt(hdr)
	}
	// Size is authoritative from the content, not from options.
	hdr.Size = size
	return hdr
}
