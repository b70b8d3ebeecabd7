package ustar

// TypeFlag is the single byte classifying an archive member.
type TypeFlag byte

// Type flags defined by ustar plus the GNU extensions resolved by Reader.
const (
	// TypeRegular is a regular file.
	TypeRegular TypeFlag = '0'

	// TypeRegularOld is the pre-POSIX encoding of a regular file.
	TypeRegularOld TypeFlag = 0

	// TypeHardLink is a hard link to a prior member.
	TypeHardLink TypeFlag = '1'

	// TypeSymlink is a symbolic link.
	TypeSymlink TypeFlag = '2'

	// TypeChar and TypeBlock are device nodes.
	TypeChar  TypeFlag = '3'
	TypeBlock TypeFlag = '4'

	// TypeDir is a directory.
	TypeDir TypeFlag = '5'

	// TypeFIFO is a named pipe.
	TypeFIFO TypeFlag = '6'

	// TypeCont is a contiguous file, treated like a regular file.
	TypeCont TypeFlag = '7'

	// TypeExtended is a pax per-entry extended header. Unsupported.
	TypeExtended TypeFlag = 'x'

	// TypeGlobal is a pax global header. Its content is discarded.
	TypeGlobal TypeFlag = 'g'

	// TypeGNULongName carries the real name of the following entry.
	TypeGNULongName TypeFlag = 'L'

	// TypeGNULongLink carries the real link target of the following entry.
	TypeGNULongLink TypeFlag = 'K'

	// TypeGNUSparse is a GNU sparse regular file.
	TypeGNUSparse TypeFlag = 'S'
)

// isTerminal reports whether the flag ends header-chain resolution, i.e. it
// names an archive member rather than a continuation or metadata header.
func (t TypeFlag) isTerminal() bool {
	switch t {
	case TypeRegular, TypeRegularOld, TypeHardLink, TypeSymlink,
		TypeChar, TypeBlock, TypeDir, TypeFIFO, TypeCont, TypeGNUSparse:
		return true
	}
	return false
}

// isRegular reports whether the flag names plain regular-file content.
func (t TypeFlag) isRegular() bool {
	return t == TypeRegular || t == TypeRegularOld || t == TypeCont
}

// hasData reports whether members with this flag carry a content section in
// the stream. Links, directories, devices, and FIFOs are header-only.
func (t TypeFlag) hasData() bool {
	return t.isRegular() || t == TypeGNUSparse
}
