package ustar

import (
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Extract writes the current entry to dest on disk.
//
// Directory entries ensure dest exists and nothing more. Regular entries
// stream their content into dest. Sparse entries are reconstructed: dest is
// truncated to the logical size to establish the holes, each stored range is
// written at its logical offset, and a final truncate corrects any
// over-allocation; the entry's content is fully consumed afterwards. Other
// entry types fail with ErrExtractTypeFlag.
//
// hdr must be the header most recently returned by Next.
func (r *Reader) Extract(hdr *Header, dest string) error {
	switch {
	case hdr.TypeFlag == TypeDir:
		return r.mkdir(dest, fs.FileMode(hdr.Mode)&fs.ModePerm)
	case hdr.IsSparse():
		return r.extractSparse(hdr, dest)
	case hdr.TypeFlag.isRegular():
		return r.extractRegular(hdr, dest)
	default:
		return fmt.Errorf("extract %s: %w", hdr.Name, ErrExtractTypeFlag)
	}
}

func (r *Reader) extractRegular(hdr *Header, dest string) error {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, extractPerm(hdr))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("extract %s: %w", hdr.Name, err)
	}
	return f.Close()
}

func (r *Reader) extractSparse(hdr *Header, dest string) error {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, extractPerm(hdr))
	if err != nil {
		return err
	}
	if err := r.writeSparse(hdr, f); err != nil {
		f.Close()
		return fmt.Errorf("extract %s: %w", hdr.Name, err)
	}
	return f.Close()
}

func (r *Reader) writeSparse(hdr *Header, f *os.File) error {
	// First truncate establishes the holes.
	if err := f.Truncate(hdr.SparseSize); err != nil {
		return err
	}
	for _, seg := range hdr.SparseMap {
		if _, err := f.Seek(seg.Offset, io.SeekStart); err != nil {
			return err
		}
		if _, err := io.CopyN(f, r, seg.Length); err != nil {
			return err
		}
	}
	// Block-rounded reads may have grown the file past the logical size.
	if err := f.Truncate(hdr.SparseSize); err != nil {
		return err
	}
	// The stored ranges are consumed; drop any remainder so a later
	// discard is a no-op.
	return r.Discard()
}

func extractPerm(hdr *Header) fs.FileMode {
	perm := fs.FileMode(hdr.Mode) & fs.ModePerm
	if perm == 0 {
		perm = 0o644
	}
	return perm
}
