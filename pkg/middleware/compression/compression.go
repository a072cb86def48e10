// Package compression encodes rendered pages and stylesheets with Brotli or gzip.
package compression

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/nimburion/airbnb-listings/pkg/server/router"
)

const (
	encodingBrotli = "br"
	encodingGzip   = "gzip"
)

// encodedTypes are the media types the application renders.
var encodedTypes = []string{"text/html", "text/css"}

// Config controls response compression.
type Config struct {
	Enabled     bool
	GzipLevel   int
	BrotliLevel int
	// MinSize is the body size in bytes below which responses are sent as is.
	MinSize int
}

// DefaultConfig returns the compression settings used by the public server.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		GzipLevel:   gzip.DefaultCompression,
		BrotliLevel: 4,
		MinSize:     1024,
	}
}

// Middleware buffers HTML and CSS bodies and encodes them for clients that accept br or gzip.
func Middleware(cfg Config) router.MiddlewareFunc {
	if cfg.GzipLevel == 0 {
		cfg.GzipLevel = gzip.DefaultCompression
	}
	if cfg.BrotliLevel <= 0 {
		cfg.BrotliLevel = DefaultConfig().BrotliLevel
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if !cfg.Enabled || c.Request().Method == http.MethodHead {
				return next(c)
			}
			encoding := negotiateEncoding(c.Request().Header.Get("Accept-Encoding"))
			if encoding == "" {
				return next(c)
			}

			original := c.Response()
			original.Header().Add("Vary", "Accept-Encoding")
			buffered := &bufferedWriter{ResponseWriter: original}
			c.SetResponse(buffered)

			err := next(c)

			c.SetResponse(original)
			if buffered.status == 0 && buffered.body.Len() == 0 {
				// Nothing was written; the caller answers on the plain writer.
				return err
			}
			if writeErr := buffered.finish(encoding, cfg); writeErr != nil && err == nil {
				err = writeErr
			}
			return err
		}
	}
}

// negotiateEncoding prefers br over gzip. A coding with q=0 is refused.
func negotiateEncoding(acceptEncoding string) string {
	accepted := map[string]bool{}
	for _, part := range strings.Split(acceptEncoding, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		coding = strings.ToLower(strings.TrimSpace(coding))
		accepted[coding] = true
		if name, value, ok := strings.Cut(strings.TrimSpace(params), "="); ok && strings.EqualFold(strings.TrimSpace(name), "q") {
			if q, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && q <= 0 {
				accepted[coding] = false
			}
		}
	}
	switch {
	case accepted[encodingBrotli]:
		return encodingBrotli
	case accepted[encodingGzip]:
		return encodingGzip
	default:
		return ""
	}
}

// bufferedWriter holds the whole body so the encoding decision sees its final size.
// Redirects and bodiless statuses pass straight through.
type bufferedWriter struct {
	router.ResponseWriter
	status      int
	passthrough bool
	body        bytes.Buffer
}

func (w *bufferedWriter) WriteHeader(code int) {
	if w.status != 0 {
		return
	}
	w.status = code
	if code < 200 || code == http.StatusNoContent || code == http.StatusNotModified || (code >= 300 && code < 400) {
		w.passthrough = true
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	if w.passthrough {
		return w.ResponseWriter.Write(p)
	}
	return w.body.Write(p)
}

func (w *bufferedWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *bufferedWriter) Written() bool {
	return w.status != 0
}

func (w *bufferedWriter) finish(encoding string, cfg Config) error {
	if w.passthrough {
		return nil
	}
	header := w.ResponseWriter.Header()
	if w.body.Len() < cfg.MinSize || header.Get("Content-Encoding") != "" || !isEncodedType(header.Get("Content-Type")) {
		w.ResponseWriter.WriteHeader(w.Status())
		_, err := w.ResponseWriter.Write(w.body.Bytes())
		return err
	}

	var encoded bytes.Buffer
	var enc io.WriteCloser
	if encoding == encodingBrotli {
		enc = brotli.NewWriterLevel(&encoded, cfg.BrotliLevel)
	} else {
		gz, err := gzip.NewWriterLevel(&encoded, cfg.GzipLevel)
		if err != nil {
			return err
		}
		enc = gz
	}
	if _, err := enc.Write(w.body.Bytes()); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	header.Set("Content-Encoding", encoding)
	header.Set("Content-Length", strconv.Itoa(encoded.Len()))
	w.ResponseWriter.WriteHeader(w.Status())
	_, err := w.ResponseWriter.Write(encoded.Bytes())
	return err
}

func isEncodedType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	for _, prefix := range encodedTypes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}
