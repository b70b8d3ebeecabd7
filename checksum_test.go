package ustar

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/ustar/internal/field"
)

func TestVerifyChecksumUnsigned(t *testing.T) {
	t.Parallel()

	blk := rawHeader(t, &Header{Name: "a.txt", Mode: 0o644, Size: 5, TypeFlag: TypeRegular})
	require.NoError(t, VerifyChecksum(blk[:]))
}

func TestVerifyChecksumSignedFallback(t *testing.T) {
	t.Parallel()

	// A high byte in the name field makes the signed and unsigned sums
	// diverge; headers from legacy writers store the signed one.
	blk := rawHeader(t, &Header{Name: "a.txt", Mode: 0o644, TypeFlag: TypeRegular})
	blk[posName+6] = 0xff
	unsigned, signed := sumBlock(blk[:])
	require.NotEqual(t, unsigned, signed)
	require.Positive(t, signed)

	field.PutNumeric(blk[posChecksum:posChecksum+7], signed)
	blk[posChecksum+7] = ' '
	require.NoError(t, VerifyChecksum(blk[:]))
}

func TestVerifyChecksumMismatch(t *testing.T) {
	t.Parallel()

	blk := rawHeader(t, &Header{Name: "a.txt", Mode: 0o644, TypeFlag: TypeRegular})
	// Flip a byte outside the checksum field.
	blk[posName]++
	require.ErrorIs(t, VerifyChecksum(blk[:]), ErrChecksum)

	_, err := decodeHeader(blk[:], latin1Codec{})
	require.ErrorIs(t, err, ErrChecksum)
}

func TestChecksumFieldTermination(t *testing.T) {
	t.Parallel()

	// Interoperability requires six octal digits, NUL, then space.
	blk := rawHeader(t, &Header{Name: "hello", Size: 16, TypeFlag: TypeRegular})
	stored := blk[posChecksum : posChecksum+lenChecksum]
	assert.Regexp(t, regexp.MustCompile(`^[0-7]{6}\x00 $`), string(stored))
}

func TestChecksumIgnoresOwnField(t *testing.T) {
	t.Parallel()

	blk := rawHeader(t, &Header{Name: "hello", TypeFlag: TypeRegular})
	before := Checksum(blk[:])

	// Scribbling over the checksum field must not change the sum.
	copy(blk[posChecksum:posChecksum+lenChecksum], "00000000")
	assert.Equal(t, before, Checksum(blk[:]))
}
