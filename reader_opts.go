package ustar

import "io/fs"

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithRecordBlocks sets the blocking factor: the number of 512-byte blocks
// per physical record. The default is 20 (10,240-byte records), matching
// classic tar.
func WithRecordBlocks(n int) ReaderOption {
	return func(r *Reader) {
		r.blocks = n
	}
}

// WithTextCodec sets the codec used to decode header string fields. The
// default maps bytes one-to-one to code points.
func WithTextCodec(c TextCodec) ReaderOption {
	return func(r *Reader) {
		r.codec = c
	}
}

// WithMakeDir sets the directory-creation primitive used when extracting
// directory entries. The default is os.MkdirAll.
func WithMakeDir(fn func(path string, mode fs.FileMode) error) ReaderOption {
	return func(r *Reader) {
		r.mkdir = fn
	}
}
