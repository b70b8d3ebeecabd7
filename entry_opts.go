package ustar

import (
	"io/fs"
	"time"
)

// EntryOption overrides attributes of an entry being added. Explicit options
// take precedence over file-derived metadata, which takes precedence over
// the built-in defaults. The entry size cannot be overridden; it always
// comes from the actual content.
type EntryOption func(*Header)

// WithMode sets the permission bits.
func WithMode(mode fs.FileMode) EntryOption {
	return func(h *Header) {
		h.Mode = int64(mode & fs.ModePerm)
	}
}

// WithOwner sets the numeric owner and group IDs.
func WithOwner(uid, gid int) EntryOption {
	return func(h *Header) {
		h.UID = uid
		h.GID = gid
	}
}

// WithOwnerNames sets the symbolic owner and group names.
func WithOwnerNames(uname, gname string) EntryOption {
	return func(h *Header) {
		h.Uname = uname
		h.Gname = gname
	}
}

// WithModTime sets the modification time. Sub-second precision is not
// representable and is truncated.
func WithModTime(t time.Time) EntryOption {
	return func(h *Header) {
		h.ModTime = t
	}
}
