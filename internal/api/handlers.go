package api

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gorilla/websocket"

	"mood-reference-agent/internal/catalog"
	"mood-reference-agent/internal/colorspace"
	"mood-reference-agent/internal/config"
	"mood-reference-agent/internal/model"
	"mood-reference-agent/internal/palette"
	"mood-reference-agent/internal/service"
	"mood-reference-agent/internal/storage"
	"mood-reference-agent/internal/ws"
)

const (
	defaultSessionID  = "anon"
	defaultSwatchSize = 64
	maxSwatchSize     = 256
)

var errAnalyzeAdvisory = errors.New("could not analyze reference image")

type Handler struct {
	cfg      config.Config
	moods    *service.MoodService
	hub      *ws.SessionHub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

type apiError struct {
	Error string `json:"error"`
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": catalog.Categories(),
		"options":    catalog.All(),
	})
}

func (h *Handler) SessionOptions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sessionID := sessionIDFromRequest(r)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"session_id": sessionID,
			"options":    h.moods.Current(sessionID).Options,
		})
	case http.MethodPost:
		var req struct {
			SessionID string            `json:"session_id"`
			Labels    map[string]string `json:"labels"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		sessionID := firstOr(req.SessionID, sessionIDFromRequest(r))
		sess, err := h.moods.UpdateOptions(sessionID, req.Labels)
		if err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"session_id": sessionID, "options": sess.Options})
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) AnalyzeMood(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSizeBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, errors.New("image too large"))
			return
		}
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	sessionID := sessionIDFromRequest(r)

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	if err := validateImageUpload(fileHeader); err != nil {
		writeErr(w, http.StatusUnsupportedMediaType, err)
		return
	}
	b, err := io.ReadAll(file)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.moods.Analyze(r.Context(), sessionID, b)
	if err != nil {
		h.writeAnalysisErr(w, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) writeAnalysisErr(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, palette.ErrDecode):
		writeErr(w, http.StatusUnprocessableEntity, errAnalyzeAdvisory)
	case errors.Is(err, palette.ErrRead):
		writeErr(w, http.StatusBadRequest, err)
	case errors.Is(err, storage.ErrStaleAnalysis):
		writeErr(w, http.StatusConflict, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.logger.Warn("analysis abandoned", "session_id", sessionID, "err", err)
		writeErr(w, http.StatusServiceUnavailable, errAnalyzeAdvisory)
	default:
		h.logger.Error("analysis failed", "session_id", sessionID, "err", err)
		writeErr(w, http.StatusInternalServerError, err)
	}
}

func (h *Handler) ClearMood(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	sessionID := sessionIDFromRequest(r)
	sess, err := h.moods.Clear(sessionID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) CurrentMood(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, h.moods.Current(sessionIDFromRequest(r)))
}

// Swatch renders the session palette as a horizontal strip of square PNG tiles.
func (h *Handler) Swatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	sess := h.moods.Current(sessionIDFromRequest(r))
	colors := make([]model.RGB, 0, len(sess.Palette))
	for _, hex := range sess.Palette {
		if c, ok := colorspace.ParseHex(hex); ok {
			colors = append(colors, c)
		}
	}
	if len(colors) == 0 {
		writeErr(w, http.StatusNotFound, errors.New("no reference palette"))
		return
	}

	size := atoiDefault(r.URL.Query().Get("size"), defaultSwatchSize)
	if size > maxSwatchSize {
		size = maxSwatchSize
	}
	strip := imaging.New(size*len(colors), size, color.Transparent)
	for i, c := range colors {
		tile := imaging.New(size, size, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		strip = imaging.Paste(strip, tile, image.Pt(i*size, 0))
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Palette", strings.Join(sess.Palette, ","))
	if err := imaging.Encode(w, strip, imaging.PNG); err != nil {
		h.logger.Warn("encode swatch", "err", err)
	}
}

func (h *Handler) Prompt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		SessionID string            `json:"session_id"`
		Overrides map[string]string `json:"overrides"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	sessionID := firstOr(req.SessionID, sessionIDFromRequest(r))
	text, opts, err := h.moods.BuildPrompt(sessionID, req.Overrides)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"prompt":     text,
		"options":    opts,
	})
}

func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, errors.New("websocket requires GET"))
		return
	}
	if !websocket.IsWebSocketUpgrade(r) {
		writeErr(w, http.StatusBadRequest, errors.New("websocket upgrade required"))
		return
	}
	sessionID := sessionIDFromRequest(r)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "remote", r.RemoteAddr, "uri", r.RequestURI, "err", err)
		return
	}
	client := h.hub.Register(sessionID, conn)
	go client.WritePump()
	go client.ReadPump()
	h.logger.Info("ws client connected", "session_id", sessionID, "clients", h.hub.ClientCount(sessionID))
	h.hub.Push(sessionID, model.Event{Type: "session.snapshot", Payload: h.moods.Current(sessionID), CreatedAt: time.Now().UnixMilli()})
}

func validateImageUpload(header *multipart.FileHeader) error {
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return nil
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(header.Header.Get("Content-Type"), ";")[0]))
	switch mediaType {
	case "image/png", "image/jpeg", "image/webp":
		return nil
	default:
		return errors.New("unsupported image format, use png, jpeg or webp")
	}
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, apiError{Error: err.Error()})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func firstOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

// sessionIDFromRequest prefers the session_id query or form value, then the
// X-Session-ID header.
func sessionIDFromRequest(r *http.Request) string {
	if v := strings.TrimSpace(r.FormValue("session_id")); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.Header.Get("X-Session-ID")); v != "" {
		return v
	}
	return defaultSessionID
}

func atoiDefault(v string, d int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return d
	}
	return n
}
