package ustar

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/meigma/ustar/internal/field"
	"github.com/meigma/ustar/internal/record"
)

// maxSpecialFileSize bounds the content of long-name and long-link
// continuation headers, which are read into memory.
const maxSpecialFileSize = 1 << 20

// Reader reads entries from a tar stream in strict stream order.
//
// Call Next to resolve the next logical entry, then read its content through
// Read (Reader is an io.Reader over the current entry) or Extract. Unread
// content is discarded automatically when Next advances. A Reader owns its
// stream cursor and must not be used from multiple goroutines.
type Reader struct {
	rb     *record.Reader
	codec  TextCodec
	mkdir  func(path string, mode fs.FileMode) error
	blocks int

	remaining int64
	padding   int64
	err       error
}

// Interface compliance.
var _ io.Reader = (*Reader)(nil)

// NewReader creates a Reader over r.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	rd := &Reader{
		codec:  latin1Codec{},
		mkdir:  func(path string, mode fs.FileMode) error { return os.MkdirAll(path, mode) },
		blocks: record.DefaultBlocks,
	}
	for _, opt := range opts {
		opt(rd)
	}
	rd.rb = record.NewReader(r, rd.blocks)
	return rd
}

// Next advances to the next logical entry.
//
// GNU long-name, long-link, and sparse continuations are resolved
// transparently; pax global headers are read and discarded. Next returns
// io.EOF at the end-of-archive marker (an all-zero block) or at a clean end
// of the underlying stream. Malformed headers are fatal: the error is sticky
// and every later call returns it.
func (r *Reader) Next() (*Header, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := r.Discard(); err != nil {
		return nil, err
	}

	// Continuation chains are resolved iteratively; pending patches are
	// applied once a terminal member header is reached.
	var longName, longLink *string
	for {
		blk, err := r.rb.Block()
		if err != nil {
			if err == io.EOF {
				return nil, r.fail(io.EOF)
			}
			return nil, r.fail(err)
		}
		if isZeroBlock(blk) {
			return nil, r.fail(io.EOF)
		}

		hdr, err := decodeHeader(blk, r.codec)
		if err != nil {
			return nil, r.fail(err)
		}

		switch hdr.TypeFlag {
		case TypeGNULongName:
			s, serr := r.readSpecialFile(hdr.Size)
			if serr != nil {
				return nil, r.fail(serr)
			}
			longName = &s
			continue
		case TypeGNULongLink:
			s, serr := r.readSpecialFile(hdr.Size)
			if serr != nil {
				return nil, r.fail(serr)
			}
			longLink = &s
			continue
		case TypeGlobal:
			// Global metadata is deliberately not surfaced.
			if serr := r.rb.Skip(record.RoundUp(hdr.Size)); serr != nil {
				return nil, r.fail(serr)
			}
			continue
		case TypeExtended:
			return nil, r.fail(ErrExtendedHeader)
		case TypeGNUSparse:
			if serr := r.parseSparseMap(hdr, blk); serr != nil {
				return nil, r.fail(serr)
			}
		default:
			if !hdr.TypeFlag.isTerminal() {
				return nil, r.fail(fmt.Errorf("%w: %q", ErrUnknownTypeFlag, byte(hdr.TypeFlag)))
			}
		}

		if longName != nil {
			hdr.Name = *longName
		}
		if longLink != nil {
			hdr.Linkname = *longLink
		}

		if hdr.TypeFlag.hasData() {
			r.remaining = hdr.Size
			r.padding = record.RoundUp(hdr.Size) - hdr.Size
		} else {
			r.remaining, r.padding = 0, 0
		}
		return hdr, nil
	}
}

// Read serves the current entry's content. It returns io.EOF once the
// entry's stored bytes are consumed; the block padding that follows is
// skipped when the Reader advances.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.rb.Read(p)
	r.remaining -= int64(n)
	if err == io.EOF {
		// The stream ended inside declared content.
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return n, r.fail(err)
	}
	return n, nil
}

// Discard skips whatever is left of the current entry, content and block
// padding both, so the cursor lands on the next header boundary. It is a
// no-op when the entry is already consumed.
func (r *Reader) Discard() error {
	if r.err != nil {
		return r.err
	}
	n := r.remaining + r.padding
	r.remaining, r.padding = 0, 0
	if n == 0 {
		return nil
	}
	if err := r.rb.Skip(n); err != nil {
		return r.fail(err)
	}
	return nil
}

// readSpecialFile reads the block-rounded content of a continuation header
// and decodes it as a name.
func (r *Reader) readSpecialFile(size int64) (string, error) {
	if size < 0 || size > maxSpecialFileSize {
		return "", fmt.Errorf("continuation header of %d bytes: %w", size, ErrFieldTooLong)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r.rb, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	if err := r.rb.Skip(record.RoundUp(size) - size); err != nil {
		return "", err
	}
	return r.codec.String(field.Text(buf))
}

// fail records a fatal error. Archives are not resumable; once resolution
// fails every later call reports the same error.
func (r *Reader) fail(err error) error {
	r.err = err
	return err
}

func isZeroBlock(blk []byte) bool {
	for _, c := range blk {
		if c != 0 {
			return false
		}
	}
	return true
}
