package ustar

import (
	"github.com/meigma/ustar/internal/field"
	"github.com/meigma/ustar/internal/record"
)

// Checksum computes the POSIX header checksum: the unsigned sum of every
// byte in the block, with the eight checksum bytes counted as ASCII spaces.
func Checksum(blk []byte) int64 {
	u, _ := sumBlock(blk)
	return u
}

// sumBlock computes both checksum variants in one pass. The signed variant
// exists for historically buggy writers that summed signed bytes, so values
// at or above 128 contribute their value minus 256.
func sumBlock(blk []byte) (unsigned, signed int64) {
	for i, c := range blk {
		if i >= posChecksum && i < posChecksum+lenChecksum {
			c = ' '
		}
		unsigned += int64(c)
		signed += int64(int8(c))
	}
	return unsigned, signed
}

// VerifyChecksum checks the stored checksum against both summation variants
// and returns ErrChecksum if neither matches.
func VerifyChecksum(blk []byte) error {
	stored, err := field.Numeric(blk[posChecksum : posChecksum+lenChecksum])
	if err != nil {
		return ErrChecksum
	}
	unsigned, signed := sumBlock(blk)
	if stored != unsigned && stored != signed {
		return ErrChecksum
	}
	return nil
}

// putChecksum computes the unsigned checksum of a fully-populated block and
// stores it as six octal digits, a NUL, then a space. Other readers expect
// exactly this termination.
func putChecksum(blk *[record.BlockSize]byte) {
	v := Checksum(blk[:])
	field.PutNumeric(blk[posChecksum:posChecksum+7], v)
	blk[posChecksum+7] = ' '
}
