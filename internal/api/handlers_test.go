package api

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"mood-reference-agent/internal/config"
	"mood-reference-agent/internal/model"
	"mood-reference-agent/internal/palette"
	"mood-reference-agent/internal/service"
	"mood-reference-agent/internal/storage"
	"mood-reference-agent/internal/ws"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Config{
		MaxUploadSizeBytes:    1 << 20,
		PaletteSurfaceSize:    64,
		PaletteQuantizeStep:   32,
		PaletteTopK:           5,
		PaletteAlphaThreshold: 128,
		PaletteMethod:         "bucket",
		PaletteResampleFilter: "box",
		AnalysisMaxConcurrent: 2,
		AnalysisTimeoutSec:    5,
	}
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "sessions.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	hub := ws.NewSessionHub(nil)
	return NewRouter(cfg, service.NewMoodService(cfg, store, hub, nil), hub, nil)
}

func pngBytes(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, sessionID, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if sessionID != "" {
		if err := mw.WriteField("session_id", sessionID); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/mood/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func TestHealthzAndCatalog(t *testing.T) {
	router := newTestRouter(t)
	if rec := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusOK {
		t.Fatalf("healthz status %d", rec.Code)
	}
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/v1/catalog", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog status %d", rec.Code)
	}
	var body struct {
		Categories []string                  `json:"categories"`
		Options    map[string][]model.Option `json:"options"`
	}
	decodeBody(t, rec, &body)
	if len(body.Categories) == 0 || len(body.Options["lighting"]) == 0 {
		t.Fatalf("unexpected catalog: %+v", body)
	}
}

func TestAnalyzeThenReadBack(t *testing.T) {
	router := newTestRouter(t)
	rec := serve(router, uploadRequest(t, "s1", "ref.png", pngBytes(t, color.NRGBA{R: 10, G: 10, B: 120, A: 255})))
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status %d: %s", rec.Code, rec.Body.String())
	}
	var res service.AnalysisResult
	decodeBody(t, rec, &res)
	if len(res.Palette) != 1 || res.Palette[0] != "#000080" || res.Mood.Name != "moody editorial luxe" {
		t.Fatalf("unexpected analysis: %+v", res)
	}

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/v1/mood/current?session_id=s1", nil))
	var sess model.SessionState
	decodeBody(t, rec, &sess)
	if sess.AnalysisID != res.AnalysisID || sess.Mood.Name != res.Mood.Name {
		t.Fatalf("current mood mismatch: %+v", sess)
	}

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/v1/mood/swatch?session_id=s1&size=16", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("swatch status %d type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode swatch: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("unexpected swatch bounds: %v", b)
	}
	r, g, b, _ := img.At(8, 8).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 128 {
		t.Fatalf("unexpected swatch color: %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, uploadRequest(t, "s1", "broken.png", []byte("definitely not a png")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var e apiError
	decodeBody(t, rec, &e)
	if e.Error != "could not analyze reference image" {
		t.Fatalf("unexpected advisory: %q", e.Error)
	}

	rec = serve(router, uploadRequest(t, "s1", "anim.gif", pngBytes(t, color.NRGBA{A: 255})))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/v1/mood/analyze", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestSwatchWithoutPalette(t *testing.T) {
	router := newTestRouter(t)
	rec := serve(router, httptest.NewRequest(http.MethodGet, "/v1/mood/swatch", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestClearResetsSession(t *testing.T) {
	router := newTestRouter(t)
	req := uploadRequest(t, "", "ref.png", pngBytes(t, color.NRGBA{R: 51, G: 153, B: 255, A: 255}))
	req.Header.Set("X-Session-ID", "hdr")
	if rec := serve(router, req); rec.Code != http.StatusOK {
		t.Fatalf("analyze status %d: %s", rec.Code, rec.Body.String())
	}

	clear := httptest.NewRequest(http.MethodPost, "/v1/mood/clear", nil)
	clear.Header.Set("X-Session-ID", "hdr")
	rec := serve(router, clear)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status %d", rec.Code)
	}
	var sess model.SessionState
	decodeBody(t, rec, &sess)
	if sess.SessionID != "hdr" || len(sess.Palette) != 0 || sess.Mood.Name != "balanced studio vibes" {
		t.Fatalf("session not cleared: %+v", sess)
	}
}

func TestOptionsAndPrompt(t *testing.T) {
	router := newTestRouter(t)

	bad := httptest.NewRequest(http.MethodPost, "/v1/session/options", strings.NewReader(`{"session_id":"s1","labels":{"nope":"x"}}`))
	if rec := serve(router, bad); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", rec.Code)
	}

	ok := httptest.NewRequest(http.MethodPost, "/v1/session/options", strings.NewReader(`{"session_id":"s1","labels":{"content_style":"Product Placement"}}`))
	rec := serve(router, ok)
	if rec.Code != http.StatusOK {
		t.Fatalf("options status %d: %s", rec.Code, rec.Body.String())
	}

	if rec := serve(router, uploadRequest(t, "s1", "ref.png", pngBytes(t, color.NRGBA{R: 10, G: 10, B: 120, A: 255}))); rec.Code != http.StatusOK {
		t.Fatalf("analyze status %d", rec.Code)
	}

	rec = serve(router, httptest.NewRequest(http.MethodPost, "/v1/prompt", strings.NewReader(`{"session_id":"s1"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("prompt status %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Prompt  string             `json:"prompt"`
		Options model.SceneOptions `json:"options"`
	}
	decodeBody(t, rec, &body)
	if body.Options.ContentStyle != model.ContentProduct {
		t.Fatalf("content style not kept: %+v", body.Options)
	}
	if !strings.Contains(body.Prompt, "dark, dramatic palette") {
		t.Fatalf("prompt missing mood cue: %q", body.Prompt)
	}
}

func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 0, 17)
	ihdr = append(ihdr, "IHDR"...)
	ihdr = binary.BigEndian.AppendUint32(ihdr, w)
	ihdr = binary.BigEndian.AppendUint32(ihdr, h)
	ihdr = append(ihdr, 8, 6, 0, 0, 0)

	out := []byte("\x89PNG\r\n\x1a\n")
	out = binary.BigEndian.AppendUint32(out, 13)
	out = append(out, ihdr...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(ihdr))
}

func TestAnalyzeRejectsOversizedImage(t *testing.T) {
	router := newTestRouter(t)
	rec := serve(router, uploadRequest(t, "s1", "huge.png", pngHeader(20000, 20000)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnalysisErrorMapping(t *testing.T) {
	h := &Handler{logger: slog.Default()}
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{fmt.Errorf("%w: bad bytes", palette.ErrDecode), http.StatusUnprocessableEntity, "could not analyze reference image"},
		{fmt.Errorf("%w: short read", palette.ErrRead), http.StatusBadRequest, ""},
		{storage.ErrStaleAnalysis, http.StatusConflict, ""},
		{context.DeadlineExceeded, http.StatusServiceUnavailable, "could not analyze reference image"},
		{fmt.Errorf("acquire: %w", context.Canceled), http.StatusServiceUnavailable, "could not analyze reference image"},
		{errors.New("disk full"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.writeAnalysisErr(rec, "s1", tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: status %d, want %d", tc.err, rec.Code, tc.code)
		}
		if tc.msg == "" {
			continue
		}
		var e apiError
		decodeBody(t, rec, &e)
		if e.Error != tc.msg {
			t.Fatalf("%v: message %q, want %q", tc.err, e.Error, tc.msg)
		}
	}
}
