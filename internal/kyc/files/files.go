// Package files is the document storage seam of the KYC engine. Uploads are
// handled elsewhere; the engine only inspects stored files by reference.
package files

import (
	"context"
	"io/fs"
	"path"
	"strings"
	"time"
)

// Info describes a stored document.
type Info struct {
	Ref       string
	Name      string
	Size      int64
	CreatedAt time.Time
	Mode      fs.FileMode
}

// Ext returns the lower-case extension without the dot.
func (i Info) Ext() string {
	return Ext(i.Name)
}

// OwnerReadable reports whether the owner-read permission bit is set.
func (i Info) OwnerReadable() bool {
	return i.Mode.Perm()&0o400 != 0
}

// Store reads stored documents. Missing references return
// sentinel.ErrNotFound.
type Store interface {
	Stat(ctx context.Context, ref string) (Info, error)
	// Read returns at most limit bytes from the start of the file.
	// A limit <= 0 reads the whole file.
	Read(ctx context.Context, ref string, limit int64) ([]byte, error)
}

// Ext returns the lower-case extension of name without the dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// BaseName returns the file name of a reference.
func BaseName(ref string) string {
	return path.Base(strings.ReplaceAll(ref, "\\", "/"))
}
