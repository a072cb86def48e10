// Package static serves embedded assets under a URL prefix ahead of the page router.
package static

import (
	"net/http"
	"path"
	"strings"
)

// ServeFileSystem extends http.FileSystem with an Exists helper that
// understands the URL prefix the handler strips before delegating
// to the underlying filesystem.
type ServeFileSystem interface {
	http.FileSystem
	Exists(prefix, requestPath string) bool
}

// Handler serves GET and HEAD requests for files that exist below urlPrefix
// and passes every other request to next.
func Handler(urlPrefix string, files ServeFileSystem, next http.Handler) http.Handler {
	prefix := normalizePrefix(urlPrefix)

	fileserver := http.FileServer(files)
	if prefix != "" {
		fileserver = http.StripPrefix(prefix, fileserver)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if (r.Method == http.MethodGet || r.Method == http.MethodHead) && files.Exists(prefix, r.URL.Path) {
			fileserver.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	cleaned := path.Clean("/" + strings.Trim(prefix, "/"))
	if cleaned == "/" {
		return ""
	}
	return cleaned
}

func sanitizeRequestPath(prefix, requestPath string) (string, bool) {
	cleaned := path.Clean("/" + requestPath)

	normalizedPrefix := normalizePrefix(prefix)
	if normalizedPrefix == "" {
		return cleaned, true
	}

	if strings.HasPrefix(cleaned, normalizedPrefix+"/") {
		return strings.TrimPrefix(cleaned, normalizedPrefix), true
	}

	return "", false
}
