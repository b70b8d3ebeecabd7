package ustar

import "fmt"

// Old-GNU sparse map layout. The main header carries up to four
// offset/length pairs inline; extension blocks carry up to 21 more and chain
// while their is-extended flag is set.
const (
	posSparseMap     = 386
	mainSparsePairs  = 4
	posIsExtended    = 482
	posRealSize      = 483
	extSparsePairs   = 21
	posExtIsExtended = 504
	sparseNumericLen = 12
)

// parseSparseMap resolves the sparse map of a GNU sparse member, consuming
// chained extension blocks from the stream as needed. On success hdr carries
// the ordered descriptor list and the real logical size; hdr.Size keeps the
// physically stored byte count.
func (r *Reader) parseSparseMap(hdr *Header, blk []byte) error {
	realSize, err := decodeNumeric(blk[posRealSize:posRealSize+sparseNumericLen], "sparse real size")
	if err != nil {
		return err
	}
	hdr.SparseSize = realSize

	pairs := blk[posSparseMap:]
	numPairs := mainSparsePairs
	extFlag := blk[posIsExtended]
	for {
		done, perr := r.appendSparsePairs(hdr, pairs, numPairs)
		if perr != nil {
			return perr
		}
		if done || extFlag == 0 {
			return nil
		}

		ext, berr := r.rb.Block()
		if berr != nil {
			return fmt.Errorf("%w: truncated sparse extension", ErrSparseMap)
		}
		pairs = ext
		numPairs = extSparsePairs
		extFlag = ext[posExtIsExtended]
	}
}

// appendSparsePairs decodes up to n offset/length pairs from b. A pair with
// length zero is the end-of-map sentinel: either all zero, or a positive
// offset equal to the real size acting as a final size check.
func (r *Reader) appendSparsePairs(hdr *Header, b []byte, n int) (done bool, err error) {
	for i := 0; i < n; i++ {
		pair := b[i*2*sparseNumericLen:]
		offset, err := decodeNumeric(pair[:sparseNumericLen], "sparse offset")
		if err != nil {
			return false, err
		}
		length, err := decodeNumeric(pair[sparseNumericLen:2*sparseNumericLen], "sparse length")
		if err != nil {
			return false, err
		}
		if length == 0 {
			if offset != 0 && offset != hdr.SparseSize {
				return false, fmt.Errorf("%w: size sentinel %d does not match real size %d",
					ErrSparseMap, offset, hdr.SparseSize)
			}
			return true, nil
		}
		if prev := len(hdr.SparseMap); prev > 0 {
			last := hdr.SparseMap[prev-1]
			if offset < last.Offset+last.Length {
				return false, fmt.Errorf("%w: descriptors out of order", ErrSparseMap)
			}
		}
		if offset+length > hdr.SparseSize {
			return false, fmt.Errorf("%w: descriptor past real size", ErrSparseMap)
		}
		hdr.SparseMap = append(hdr.SparseMap, SparseEntry{Offset: offset, Length: length})
	}
	return false, nil
}
