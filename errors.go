package ustar

import (
	"errors"

	"github.com/meigma/ustar/internal/field"
)

// Errors reported while decoding and resolving entries.
var (
	// ErrInvalidNumeric is returned when a numeric header field contains a
	// byte outside the octal alphabet.
	ErrInvalidNumeric = field.ErrInvalidNumeric

	// ErrChecksum is returned when a header checksum matches neither the
	// unsigned nor the legacy signed byte sum. The archive is considered
	// corrupt from that point.
	ErrChecksum = errors.New("invalid entry header: checksum mismatch")

	// ErrMagic is returned when a header block does not carry the ustar
	// magic value.
	ErrMagic = errors.New("invalid entry header: bad magic")

	// ErrExtendedHeader is returned when a POSIX pax extended header is
	// encountered. Extended headers are not supported.
	ErrExtendedHeader = errors.New("extended header not understood")

	// ErrUnknownTypeFlag is returned when an entry carries a type flag this
	// package does not recognize.
	ErrUnknownTypeFlag = errors.New("unrecognized type tag")

	// ErrSparseMap is returned when a GNU sparse map is malformed: corrupt
	// extension chain, unordered descriptors, or ranges past the real size.
	ErrSparseMap = errors.New("invalid sparse map")
)

// Errors reported on the write and extract paths.
var (
	// ErrWriteTypeFlag is returned when writing an entry whose type flag is
	// not a regular file. The writer deliberately supports only regular
	// members.
	ErrWriteTypeFlag = errors.New("writing is only supported for regular file entries")

	// ErrExtractTypeFlag is returned when extracting an entry type that has
	// no on-disk representation here.
	ErrExtractTypeFlag = errors.New("extraction not supported for this type")

	// ErrWriteTooLong is returned when more content bytes are written than
	// the entry header declared.
	ErrWriteTooLong = errors.New("write exceeds entry size")

	// ErrEntryUnderflow is returned when a new header or Close arrives
	// before the previous entry's declared content was fully written.
	ErrEntryUnderflow = errors.New("entry content shorter than declared size")

	// ErrWriteAfterClose is returned when the archive was already finalized.
	ErrWriteAfterClose = errors.New("archive already closed")

	// ErrFieldTooLong is returned when a header field value does not fit its
	// fixed-width slot.
	ErrFieldTooLong = errors.New("header field too long")
)
