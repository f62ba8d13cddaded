package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"retrodesk/pkg/graphics"
	"retrodesk/pkg/router"
	"retrodesk/pkg/store"
)

// MaxUploadSize is the largest accepted image.
const MaxUploadSize = 10 << 20

// allowedImage matches both the extension and the declared MIME type.
var allowedImage = regexp.MustCompile(`jpeg|jpg|png|gif|webp`)

func (a *API) listImages(w http.ResponseWriter, r *http.Request) {
	images, err := a.store.Images(r.Context())
	if err != nil {
		if !errors.Is(err, store.ErrUnavailable) {
			a.logger.Warn("api: listing images", "error", err)
		}
		images = []store.Image{}
	}
	router.WriteJSON(w, http.StatusOK, images)
}

func (a *API) uploadImage(w http.ResponseWriter, r *http.Request) {
	if !a.store.Available() {
		router.WriteError(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	// Leave room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			router.WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		router.WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		router.WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		router.WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImage.MatchString(ext) || !allowedImage.MatchString(header.Header.Get("Content-Type")) {
		router.WriteError(w, http.StatusBadRequest, "Only image files are allowed!")
		return
	}

	filename := uuid.New().String() + ext
	dst := filepath.Join(a.uploadsDir, filename)
	size, err := saveFile(dst, file)
	if err != nil {
		a.logger.Error("api: saving upload", "error", err, "file", dst)
		router.WriteError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	img := store.Image{
		Filename:     filename,
		OriginalName: header.Filename,
		Path:         "uploads/" + filename,
		Size:         size,
	}
	if cfg, err := graphics.LoadConfig(dst); err == nil {
		img.Width, img.Height = cfg.Width, cfg.Height
	} else {
		a.logger.Debug("api: image dimensions unknown", "file", filename, "error", err)
	}

	saved, err := a.store.AddImage(r.Context(), img)
	if err != nil {
		os.Remove(dst)
		a.storeError(w, err, "save image")
		return
	}
	router.WriteJSON(w, http.StatusCreated, saved)
}

func saveFile(dst string, src io.Reader) (int64, error) {
	f, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
	}
	return n, err
}

func (a *API) deleteImage(w http.ResponseWriter, r *http.Request) {
	img, err := a.store.Image(r.Context(), router.Param(r, "id"))
	if err != nil {
		a.storeError(w, err, "delete image")
		return
	}
	if err := os.Remove(filepath.Join(a.uploadsDir, filepath.Base(img.Filename))); err != nil && !errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("api: removing image file", "error", err, "file", img.Filename)
	}
	if err := a.store.DeleteImage(r.Context(), img.ID); err != nil {
		a.storeError(w, err, "delete image")
		return
	}
	router.WriteJSON(w, http.StatusOK, map[string]string{"message": "Image deleted successfully"})
}
