package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-event-booking/internal/model"
)

// pngHeader is enough of a real PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func multipartUpload(t *testing.T, filename string, content []byte, eventID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if eventID != "" {
		if err := w.WriteField("event_id", eventID); err != nil {
			t.Fatalf("write event_id: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/uploads", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUploadStoresPicture(t *testing.T) {
	dir := t.TempDir()
	h := NewUploadHandler(dir, "/uploads", nil)

	c, rec := multipartUpload(t, "banner.png", pngHeader, "")
	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	url, _ := body["url"].(string)
	if !strings.HasPrefix(url, "/uploads/event_") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q, want /uploads/event_<ts>_<token>.png", url)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("stored %d files, want 1", len(entries))
	}
	stored, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(stored, pngHeader) {
		t.Fatalf("stored bytes differ from upload")
	}
}

func TestUploadSniffsExtensionWhenMissing(t *testing.T) {
	dir := t.TempDir()
	h := NewUploadHandler(dir, "/uploads", nil)

	gif := []byte("GIF89a" + strings.Repeat("\x00", 20))
	c, rec := multipartUpload(t, "banner", gif, "")
	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if url, _ := body["url"].(string); !strings.HasSuffix(url, ".gif") {
		t.Fatalf("url = %q, want .gif extension from sniffed type", url)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	h := NewUploadHandler(dir, "/uploads", nil)

	c, rec := multipartUpload(t, "notes.png", []byte("just some text pretending"), "")
	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("rejected upload left %d files on disk", len(entries))
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	h := NewUploadHandler(dir, "/uploads", nil)

	big := make([]byte, maxUploadBytes+1)
	copy(big, pngHeader)
	c, rec := multipartUpload(t, "huge.png", big, "")
	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadAttachesToEvent(t *testing.T) {
	store := newFakeStore()
	ev := store.addEvent(model.Event{
		Name: "Ops", Departure: "EDDF", Arrival: "LOWW",
		Date: "2026-09-04", Time: "18:00", MaxPilots: 10,
	})
	dir := t.TempDir()
	h := NewUploadHandler(dir, "/uploads", store)

	c, rec := multipartUpload(t, "banner.png", pngHeader, "1")
	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	stored, _ := store.GetByID(c.Request().Context(), ev.ID)
	if stored.Picture == nil || !strings.HasSuffix(*stored.Picture, ".png") {
		t.Fatalf("event picture = %v, want stored url", stored.Picture)
	}
}

func TestUploadUnknownEvent(t *testing.T) {
	store := newFakeStore()
	dir := t.TempDir()
	h := NewUploadHandler(dir, "/uploads", store)

	c, rec := multipartUpload(t, "banner.png", pngHeader, "42")
	if err := h.Upload(c); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
