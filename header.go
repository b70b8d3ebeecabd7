package ustar

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/meigma/ustar/internal/field"
	"github.com/meigma/ustar/internal/record"
)

// ustar header block layout: byte offset and width of each field.
const (
	posName     = 0
	lenName     = 100
	posMode     = 100
	lenMode     = 8
	posUID      = 108
	lenUID      = 8
	posGID      = 116
	lenGID      = 8
	posSize     = 124
	lenSize     = 12
	posMtime    = 136
	lenMtime    = 12
	posChecksum = 148
	lenChecksum = 8
	posTypeFlag = 156
	posLinkname = 157
	lenLinkname = 100
	posMagic    = 257
	lenMagic    = 6
	posVersion  = 263
	lenVersion  = 2
	posUname    = 265
	lenUname    = 32
	posGname    = 297
	lenGname    = 32
	posDevMajor = 329
	lenDevMajor = 8
	posDevMinor = 337
	lenDevMinor = 8
	posPrefix   = 345
	lenPrefix   = 155
)

// Magic and version stamps written into every header.
const (
	magicUSTAR   = "ustar\x00"
	versionUSTAR = "00"
)

// SparseEntry describes one non-hole byte range of a sparse member:
// Length content bytes that belong at logical Offset.
type SparseEntry struct {
	Offset int64
	Length int64
}

// Header is the in-memory representation of one archive member.
//
// Size is authoritative for the number of content bytes that follow the
// header in the stream. For GNU sparse members those are only the stored
// ranges; the logical file size lives in SparseSize.
type Header struct {
	// Name is the member name, with the ustar prefix field already joined
	// in front when it was non-empty.
	Name string

	Mode    int64
	UID     int
	GID     int
	Size    int64
	ModTime time.Time

	TypeFlag TypeFlag

	// Linkname is the link target for hard and symbolic links.
	Linkname string

	Uname string
	Gname string

	DevMajor int64
	DevMinor int64

	// SparseMap lists the stored ranges of a GNU sparse member, ordered by
	// ascending offset, non-overlapping. Nil for everything else.
	SparseMap []SparseEntry

	// SparseSize is the logical file size of a GNU sparse member.
	SparseSize int64
}

// IsSparse reports whether the header describes a GNU sparse member.
func (h *Header) IsSparse() bool {
	return h.TypeFlag == TypeGNUSparse
}

// logicalSize is the reconstructed file size: SparseSize for sparse members,
// Size otherwise.
func (h *Header) logicalSize() int64 {
	if h.IsSparse() {
		return h.SparseSize
	}
	return h.Size
}

// FileInfo returns an fs.FileInfo view of the header.
func (h *Header) FileInfo() fs.FileInfo {
	return headerInfo{h}
}

type headerInfo struct {
	h *Header
}

func (fi headerInfo) Name() string       { return path.Base(fi.h.Name) }
func (fi headerInfo) Size() int64        { return fi.h.logicalSize() }
func (fi headerInfo) ModTime() time.Time { return fi.h.ModTime }
func (fi headerInfo) IsDir() bool        { return fi.h.TypeFlag == TypeDir }
func (fi headerInfo) Sys() any           { return fi.h }

func (fi headerInfo) Mode() fs.FileMode {
	mode := fs.FileMode(fi.h.Mode) & fs.ModePerm
	switch fi.h.TypeFlag {
	case TypeDir:
		mode |= fs.ModeDir
	case TypeSymlink:
		mode |= fs.ModeSymlink
	case TypeHardLink:
		// Hard links carry the target's mode; nothing to add.
	case TypeChar:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case TypeBlock:
		mode |= fs.ModeDevice
	case TypeFIFO:
		mode |= fs.ModeNamedPipe
	}
	return mode
}

// decodeHeader parses one header block into a Header. The checksum is
// verified before any field is interpreted.
func decodeHeader(blk []byte, codec TextCodec) (*Header, error) {
	if err := VerifyChecksum(blk); err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(blk[posMagic:posMagic+lenMagic], []byte("ustar")) {
		return nil, ErrMagic
	}

	h := &Header{TypeFlag: TypeFlag(blk[posTypeFlag])}

	var err error
	if h.Name, err = decodeText(blk[posName:posName+lenName], codec, "name"); err != nil {
		return nil, err
	}
	if prefix, perr := decodeText(blk[posPrefix:posPrefix+lenPrefix], codec, "prefix"); perr != nil {
		return nil, perr
	} else if prefix != "" {
		h.Name = prefix + "/" + h.Name
	}
	if h.Linkname, err = decodeText(blk[posLinkname:posLinkname+lenLinkname], codec, "linkname"); err != nil {
		return nil, err
	}
	if h.Uname, err = decodeText(blk[posUname:posUname+lenUname], codec, "uname"); err != nil {
		return nil, err
	}
	if h.Gname, err = decodeText(blk[posGname:posGname+lenGname], codec, "gname"); err != nil {
		return nil, err
	}

	if h.Mode, err = decodeNumeric(blk[posMode:posMode+lenMode], "mode"); err != nil {
		return nil, err
	}
	uid, err := decodeNumeric(blk[posUID:posUID+lenUID], "uid")
	if err != nil {
		return nil, err
	}
	gid, err := decodeNumeric(blk[posGID:posGID+lenGID], "gid")
	if err != nil {
		return nil, err
	}
	h.UID, h.GID = int(uid), int(gid)

	if h.Size, err = decodeNumeric(blk[posSize:posSize+lenSize], "size"); err != nil {
		return nil, err
	}
	mtime, err := decodeNumeric(blk[posMtime:posMtime+lenMtime], "mtime")
	if err != nil {
		return nil, err
	}
	h.ModTime = time.Unix(mtime, 0)

	if h.DevMajor, err = decodeNumeric(blk[posDevMajor:posDevMajor+lenDevMajor], "devmajor"); err != nil {
		return nil, err
	}
	if h.DevMinor, err = decodeNumeric(blk[posDevMinor:posDevMinor+lenDevMinor], "devminor"); err != nil {
		return nil, err
	}

	return h, nil
}

func decodeNumeric(b []byte, name string) (int64, error) {
	v, err := field.Numeric(b)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", name, err)
	}
	return v, nil
}

func decodeText(b []byte, codec TextCodec, name string) (string, error) {
	s, err := codec.String(field.Text(b))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return s, nil
}

// encodeHeader writes hdr into blk, zeroing it first. Only called for
// regular-file members; the checksum is computed last over the populated
// block.
func encodeHeader(blk *[record.BlockSize]byte, hdr *Header, codec TextCodec) error {
	*blk = [record.BlockSize]byte{}

	if err := encodeText(blk[posName:posName+lenName], hdr.Name, codec, "name"); err != nil {
		return err
	}
	if err := encodeText(blk[posLinkname:posLinkname+lenLinkname], hdr.Linkname, codec, "linkname"); err != nil {
		return err
	}
	if err := encodeText(blk[posUname:posUname+lenUname], hdr.Uname, codec, "uname"); err != nil {
		return err
	}
	if err := encodeText(blk[posGname:posGname+lenGname], hdr.Gname, codec, "gname"); err != nil {
		return err
	}

	field.PutNumeric(blk[posMode:posMode+lenMode], hdr.Mode)
	field.PutNumeric(blk[posUID:posUID+lenUID], int64(hdr.UID))
	field.PutNumeric(blk[posGID:posGID+lenGID], int64(hdr.GID))
	field.PutNumeric(blk[posSize:posSize+lenSize], hdr.Size)
	field.PutNumeric(blk[posMtime:posMtime+lenMtime], hdr.ModTime.Unix())
	field.PutNumeric(blk[posDevMajor:posDevMajor+lenDevMajor], hdr.DevMajor)
	field.PutNumeric(blk[posDevMinor:posDevMinor+lenDevMinor], hdr.DevMinor)

	blk[posTypeFlag] = byte(hdr.TypeFlag)
	copy(blk[posMagic:], magicUSTAR)
	copy(blk[posVersion:], versionUSTAR)

	putChecksum(blk)
	return nil
}

func encodeText(b []byte, s string, codec TextCodec, name string) error {
	raw, err := codec.Bytes(s)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	// Leave room for the NUL terminator.
	if len(raw) >= len(b) {
		return fmt.Errorf("encode %s: %w", name, ErrFieldTooLong)
	}
	field.PutText(b, raw)
	return nil
}
