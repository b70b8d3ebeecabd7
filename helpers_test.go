package ustar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/ustar/internal/field"
	"github.com/meigma/ustar/internal/record"
)

// rawHeader encodes hdr into a raw block, accepting any type flag. Tests
// build GNU continuation and sparse headers this way.
func rawHeader(t *testing.T, hdr *Header) [record.BlockSize]byte {
	t.Helper()
	var blk [record.BlockSize]byte
	require.NoError(t, encodeHeader(&blk, hdr, latin1Codec{}))
	return blk
}

// rawSparseHeader builds an old-GNU sparse member header: up to four inline
// pairs, the is-extended flag, and the real-size field, re-checksummed after
// patching.
func rawSparseHeader(t *testing.T, name string, stored, realSize int64, pairs []SparseEntry, extended bool) [record.BlockSize]byte {
	t.Helper()
	require.LessOrEqual(t, len(pairs), mainSparsePairs)

	blk := rawHeader(t, &Header{Name: name, Size: stored, TypeFlag: TypeGNUSparse})
	putSparsePairs(blk[posSparseMap:], pairs)
	if len(pairs) < mainSparsePairs && !extended {
		// Final size-check sentinel: real size with zero length.
		field.PutNumeric(blk[posSparseMap+len(pairs)*2*sparseNumericLen:][:sparseNumericLen], realSize)
	}
	if extended {
		blk[posIsExtended] = 1
	}
	field.PutNumeric(blk[posRealSize:posRealSize+sparseNumericLen], realSize)
	putChecksum(&blk)
	return blk
}

// rawSparseExt builds a sparse extension block holding up to 21 pairs.
func rawSparseExt(t *testing.T, pairs []SparseEntry, extended bool) [record.BlockSize]byte {
	t.Helper()
	require.LessOrEqual(t, len(pairs), extSparsePairs)

	var blk [record.BlockSize]byte
	putSparsePairs(blk[:], pairs)
	if extended {
		blk[posExtIsExtended] = 1
	}
	return blk
}

func putSparsePairs(b []byte, pairs []SparseEntry) {
	for i, p := range pairs {
		pair := b[i*2*sparseNumericLen:]
		field.PutNumeric(pair[:sparseNumericLen], p.Offset)
		field.PutNumeric(pair[sparseNumericLen:2*sparseNumericLen], p.Length)
	}
}

// appendRounded appends content plus its zero padding to the next block
// boundary.
func appendRounded(buf *bytes.Buffer, content []byte) {
	buf.Write(content)
	n := int64(len(content))
	buf.Write(make([]byte, record.RoundUp(n)-n))
}

// appendTrailer appends the end-of-archive marker and record padding.
func appendTrailer(buf *bytes.Buffer, blocks int) {
	buf.Write(make([]byte, 2*record.BlockSize))
	size := blocks * record.BlockSize
	if rem := buf.Len() % size; rem != 0 {
		buf.Write(make([]byte, size-rem))
	}
}
