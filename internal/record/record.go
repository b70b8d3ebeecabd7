// Package record stages tar I/O in fixed-size records.
//
// A tar stream is organized as 512-byte blocks, transferred in records of a
// configurable number of blocks (the blocking factor, 20 by default). The
// underlying stream is never touched one block at a time on the hot path;
// reads and writes go through a buffer sized to one record, and the write
// side tracks the running physical byte count used for end-of-archive
// padding.
package record

import "io"

const (
	// BlockSize is the fixed tar storage unit.
	BlockSize = 512

	// DefaultBlocks is the default blocking factor: blocks per record.
	DefaultBlocks = 20
)

// RoundUp rounds n up to the next multiple of BlockSize.
func RoundUp(n int64) int64 {
	return (n + BlockSize - 1) &^ (BlockSize - 1)
}

// Reader serves blocks and block-rounded content from an underlying stream,
// refilling its staging buffer one record at a time.
type Reader struct {
	r   io.Reader
	buf []byte
	off int
	n   int
}

// NewReader creates a Reader with the given blocking factor. A non-positive
// factor selects DefaultBlocks.
func NewReader(r io.Reader, blocks int) *Reader {
	if blocks <= 0 {
		blocks = DefaultBlocks
	}
	return &Reader{r: r, buf: make([]byte, blocks*BlockSize)}
}

// fill refills the staging buffer from the underlying stream. A partial
// trailing record is kept as-is; no padding is invented. Returns io.EOF when
// the stream is exhausted.
func (r *Reader) fill() error {
	if r.off < r.n {
		return nil
	}
	n, err := io.ReadFull(r.r, r.buf)
	if n > 0 {
		r.off, r.n = 0, n
		return nil
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return err
}

// Block returns the next single block. The returned slice aliases the
// staging buffer and is only valid until the next call. Returns io.EOF at a
// clean end of stream and io.ErrUnexpectedEOF when fewer than BlockSize
// bytes remain.
func (r *Reader) Block() ([]byte, error) {
	if err := r.fill(); err != nil {
		return nil, err
	}
	if r.n-r.off < BlockSize {
		r.off = r.n
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.off : r.off+BlockSize]
	r.off += BlockSize
	return b, nil
}

// Read implements io.Reader over the raw stream contents, served from the
// staging buffer. Callers bound their own reads; Read itself has no notion
// of entry boundaries.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := r.fill(); err != nil {
		return 0, err
	}
	n := copy(p, r.buf[r.off:r.n])
	r.off += n
	return n, nil
}

// Skip discards exactly n physical bytes, so the cursor lands on the next
// consumer-visible boundary. Returns io.ErrUnexpectedEOF if the stream ends
// first.
func (r *Reader) Skip(n int64) error {
	for n > 0 {
		if err := r.fill(); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
		avail := int64(r.n - r.off)
		if avail > n {
			avail = n
		}
		r.off += int(avail)
		n -= avail
	}
	return nil
}

// Writer counts physical bytes written to an underlying stream and provides
// block and record padding. The count covers header bytes plus block-rounded
// content and drives the final record padding.
type Writer struct {
	w       io.Writer
	blocks  int
	written int64
}

// NewWriter creates a Writer with the given blocking factor. A non-positive
// factor selects DefaultBlocks.
func NewWriter(w io.Writer, blocks int) *Writer {
	if blocks <= 0 {
		blocks = DefaultBlocks
	}
	return &Writer{w: w, blocks: blocks}
}

// Write passes p through to the underlying stream, accumulating the running
// physical byte count.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.written += int64(n)
	return n, err
}

// Written returns the total number of physical bytes emitted so far.
func (w *Writer) Written() int64 {
	return w.written
}

// RecordSize returns the record size in bytes.
func (w *Writer) RecordSize() int64 {
	return int64(w.blocks) * BlockSize
}

// PadToBlock writes zero bytes until the running count reaches the next
// block boundary.
func (w *Writer) PadToBlock() error {
	return w.pad(RoundUp(w.written) - w.written)
}

// PadToRecord writes zero bytes until the running count reaches the next
// record boundary.
func (w *Writer) PadToRecord() error {
	size := w.RecordSize()
	rem := w.written % size
	if rem == 0 {
		return nil
	}
	return w.pad(size - rem)
}

var zeroBlock [BlockSize]byte

func (w *Writer) pad(n int64) error {
	for n > 0 {
		chunk := n
		if chunk > BlockSize {
			chunk = BlockSize
		}
		if _, err := w.Write(zeroBlock[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
