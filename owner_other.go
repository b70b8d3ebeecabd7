//go:build !unix

package ustar

import "io/fs"

// fileOwner returns zero UID/GID on non-Unix systems.
func fileOwner(info fs.FileInfo) (uid, gid int) {
	return 0, 0
}
