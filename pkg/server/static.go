package server

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StaticFileHandler serves files from a directory with caching headers,
// ETags and single byte ranges.
type StaticFileHandler struct {
	dir          string
	cacheControl string
	indexFiles   []string
	useETag      bool
	fallback     string
}

// NewStaticFileHandler creates a new static file handler.
func NewStaticFileHandler(dir string) *StaticFileHandler {
	return &StaticFileHandler{
		dir:          dir,
		cacheControl: "public, max-age=3600",
		indexFiles:   []string{"index.html", "index.htm"},
		useETag:      true,
	}
}

// SetCacheControl sets the Cache-Control header value.
func (h *StaticFileHandler) SetCacheControl(value string) {
	h.cacheControl = value
}

// EnableETag enables or disables ETag generation.
func (h *StaticFileHandler) EnableETag(enabled bool) {
	h.useETag = enabled
}

// SetFallback sets a file, relative to the root, served for paths that do
// not exist. Client-side routes of a single page app need this.
func (h *StaticFileHandler) SetFallback(name string) {
	h.fallback = name
}

// ServeHTTP implements http.Handler interface.
func (h *StaticFileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	path, err := ValidatePath(h.dir, r.URL.Path)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	fi, err := os.Stat(path)
	if err == nil && fi.IsDir() {
		path, err = h.index(path)
	}
	if errors.Is(err, os.ErrNotExist) && h.fallback != "" {
		path = filepath.Join(h.dir, h.fallback)
		_, err = os.Stat(path)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.serveFile(w, r, path)
}

// index returns the first index file present in dir.
func (h *StaticFileHandler) index(dir string) (string, error) {
	for _, name := range h.indexFiles {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", os.ErrNotExist
}

// serveFile serves a single file with proper headers and caching.
func (h *StaticFileHandler) serveFile(w http.ResponseWriter, r *http.Request, path string) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	fi, err := file.Stat()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if modifiedSince := r.Header.Get("If-Modified-Since"); modifiedSince != "" {
		t, err := time.Parse(http.TimeFormat, modifiedSince)
		if err == nil && !fi.ModTime().Truncate(time.Second).After(t) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	contentType := ContentType(path)
	w.Header().Set("Content-Type", contentType)
	if h.cacheControl != "" {
		w.Header().Set("Cache-Control", h.cacheControl)
	}
	w.Header().Set("Last-Modified", fi.ModTime().UTC().Format(http.TimeFormat))
	w.Header().Set("Accept-Ranges", "bytes")

	if h.useETag {
		etag := fmt.Sprintf(`"%s"`, fileHash(path))
		w.Header().Set("ETag", etag)

		if ifNoneMatch := r.Header.Get("If-None-Match"); ifNoneMatch != "" {
			if strings.Contains(ifNoneMatch, etag) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	if ranges := r.Header.Get("Range"); ranges != "" {
		serveRange(w, file, fi, ranges)
		return
	}

	w.Header().Set("Content-Length", fmt.Sprintf("%d", fi.Size()))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		io.Copy(w, file)
	}
}

// serveRange handles HTTP range requests. Only a single range is supported,
// which is what audio elements send when seeking.
func serveRange(w http.ResponseWriter, file *os.File, fi os.FileInfo, ranges string) {
	parts := strings.SplitN(ranges, "=", 2)
	if len(parts) != 2 || parts[0] != "bytes" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	rangeParts := strings.Split(parts[1], ",")
	if len(rangeParts) != 1 {
		http.Error(w, "Multiple ranges not supported", http.StatusRequestedRangeNotSatisfiable)
		return
	}

	rangeBounds := strings.SplitN(strings.TrimSpace(rangeParts[0]), "-", 2)
	if len(rangeBounds) != 2 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	start, end := parseRangeBounds(rangeBounds, fi.Size())
	if start > end || start >= fi.Size() {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", fi.Size()))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return
	}

	if _, err := file.Seek(start, io.SeekStart); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, fi.Size()))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", end-start+1))
	w.WriteHeader(http.StatusPartialContent)

	io.Copy(w, io.LimitReader(file, end-start+1))
}

// parseRangeBounds parses "start-end", "start-" and "-suffix" forms.
func parseRangeBounds(parts []string, size int64) (int64, int64) {
	start := int64(0)
	end := size - 1

	switch {
	case parts[0] == "" && parts[1] != "":
		var n int64
		fmt.Sscanf(parts[1], "%d", &n)
		start = max(size-n, 0)
	default:
		if parts[0] != "" {
			fmt.Sscanf(parts[0], "%d", &start)
		}
		if parts[1] != "" {
			fmt.Sscanf(parts[1], "%d", &end)
		}
	}
	return start, min(end, size-1)
}

// fileHash computes a hash of the file for ETag.
func fileHash(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// MimeTypes maps file extensions to MIME types for the client build and the
// desktop's media.
var MimeTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".json":  "application/json",
	".map":   "application/json",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".mp3":   "audio/mpeg",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".txt":   "text/plain; charset=utf-8",
}

// ContentType returns the MIME type for path's extension.
func ContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := MimeTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// FileServer serves root without a fallback, for uploaded files.
func FileServer(root string) http.Handler {
	return NewStaticFileHandler(root)
}

// ValidatePath checks if a path is safe and within the root directory.
func ValidatePath(root, requestedPath string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.New("invalid root")
	}

	// Cleaning a rooted path drops any leading "..".
	absPath := filepath.Join(absRoot, filepath.Clean("/"+requestedPath))
	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", errors.New("path outside root directory")
	}
	return absPath, nil
}
