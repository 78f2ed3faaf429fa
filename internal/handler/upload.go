package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-event-booking/internal/repository"
	"github.com/iliyamo/airline-event-booking/internal/utils"
)

// maxUploadBytes caps event pictures at 5 MiB.
const maxUploadBytes = 5 << 20

// uploadExtensions maps the accepted picture MIME types to the extension
// used when the original filename carries none.  The type is sniffed
// from the file contents, not trusted from the multipart header.
var uploadExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// PictureStore attaches an uploaded picture URL to an event.  It is
// implemented by *repository.EventRepo.
type PictureStore interface {
	SetPicture(ctx context.Context, id uint64, url string) error
}

// UploadHandler serves admin-gated event picture uploads.  Files land in
// Dir under a collision-free generated name and are exposed under
// PublicPath.  When the request names an event the stored URL is
// attached to it.
type UploadHandler struct {
	Dir        string
	PublicPath string
	Events     PictureStore
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(dir, publicPath string, events PictureStore) *UploadHandler {
	return &UploadHandler{Dir: dir, PublicPath: publicPath, Events: events}
}

// Upload handles POST /v1/admin/uploads.  The multipart form must carry a
// "file" part with a JPEG, PNG, GIF or WebP image of at most 5 MiB.  An
// optional "event_id" form value attaches the picture to that event.
// Returns 201 with the public URL path.
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file exceeds the 5 MiB limit"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read upload"})
	}
	defer src.Close()

	// Sniff the real content type from the leading bytes.
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read upload"})
	}
	mime := http.DetectContentType(head[:n])
	sniffedExt, ok := uploadExtensions[mime]
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only JPEG, PNG, GIF and WebP images are allowed"})
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read upload"})
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = sniffedExt
	}
	token, err := utils.RandomHex(8)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate file name"})
	}
	name := fmt.Sprintf("event_%d_%s%s", time.Now().UnixMilli(), token, ext)

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store upload"})
	}
	dst, err := os.Create(filepath.Join(h.Dir, name))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store upload"})
	}
	defer dst.Close()
	// LimitReader backstops the size header check against a lying client.
	if _, err := io.Copy(dst, io.LimitReader(src, maxUploadBytes+1)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store upload"})
	}

	url := path.Join(h.PublicPath, name)

	if raw := strings.TrimSpace(c.FormValue("event_id")); raw != "" && h.Events != nil {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_id"})
		}
		if err := h.Events.SetPicture(c.Request().Context(), id, url); err != nil {
			if errors.Is(err, repository.ErrEventNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to attach picture"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"url":     url,
	})
}
