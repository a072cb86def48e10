package static

import (
	"io/fs"
	"net/http"
)

// FS wraps an fs.FS (typically an embedded subtree) for the static handler.
// Only regular files are served; directories are never listed.
func FS(fsys fs.FS) ServeFileSystem {
	return &embedFileSystem{FileSystem: http.FS(fsys)}
}

type embedFileSystem struct {
	http.FileSystem
}

// Exists reports whether requestPath names a regular file below prefix.
func (e *embedFileSystem) Exists(prefix, requestPath string) bool {
	relative, ok := sanitizeRequestPath(prefix, requestPath)
	if !ok {
		return false
	}

	f, err := e.Open(relative)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false
	}
	return !info.IsDir()
}
