package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"mood-reference-agent/internal/config"
	"mood-reference-agent/internal/model"
	"mood-reference-agent/internal/mood"
	"mood-reference-agent/internal/palette"
	"mood-reference-agent/internal/prompt"
	"mood-reference-agent/internal/storage"
	"mood-reference-agent/internal/ws"
)

const (
	EventMoodUpdated    = "mood.updated"
	EventMoodCleared    = "mood.cleared"
	EventOptionsUpdated = "options.updated"
)

// AnalysisResult is what one reference-image analysis produced and committed.
type AnalysisResult struct {
	AnalysisID string               `json:"analysis_id"`
	SessionID  string               `json:"session_id"`
	Generation uint64               `json:"generation"`
	Palette    model.Palette        `json:"palette"`
	Stats      *mood.Stats          `json:"stats,omitempty"`
	Mood       model.MoodSuggestion `json:"mood"`
	Options    model.SceneOptions   `json:"options"`
	Summary    string               `json:"summary"`
	CreatedAt  int64                `json:"created_at_unix_ms"`
}

type MoodService struct {
	store     *storage.Store
	hub       *ws.SessionHub
	extractor palette.Extractor
	sem       *semaphore.Weighted
	timeout   time.Duration
	logger    *slog.Logger
}

func NewMoodService(cfg config.Config, store *storage.Store, hub *ws.SessionHub, logger *slog.Logger) *MoodService {
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.AnalysisMaxConcurrent
	if workers <= 0 {
		workers = 1
	}
	timeout := cfg.AnalysisTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MoodService{
		store:     store,
		hub:       hub,
		extractor: cfg.Extractor(),
		sem:       semaphore.NewWeighted(int64(workers)),
		timeout:   timeout,
		logger:    logger.With("component", "mood"),
	}
}

// Analyze extracts the palette of imageBytes and commits the suggested mood to
// the session. A newer Analyze or Clear on the same session makes this one
// stale; its result is then discarded with storage.ErrStaleAnalysis.
func (s *MoodService) Analyze(ctx context.Context, sessionID string, imageBytes []byte) (AnalysisResult, error) {
	gen, err := s.store.BeginAnalysis(sessionID)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("begin analysis: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return AnalysisResult{}, err
	}
	defer s.sem.Release(1)

	started := time.Now()
	p, err := s.extractor.Extract(ctx, bytes.NewReader(imageBytes))
	if err != nil {
		s.logger.Warn("palette extraction failed", "session_id", sessionID, "generation", gen, "err", err)
		return AnalysisResult{}, err
	}
	m, stats := mood.Analyze(p)

	id := uuid.NewString()
	sess, err := s.store.CommitAnalysis(sessionID, gen, p, m, id)
	if errors.Is(err, storage.ErrStaleAnalysis) {
		s.logger.Info("discarding stale analysis", "session_id", sessionID, "generation", gen)
		return AnalysisResult{}, err
	}
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("commit analysis: %w", err)
	}

	res := AnalysisResult{
		AnalysisID: id,
		SessionID:  sessionID,
		Generation: gen,
		Palette:    sess.Palette,
		Stats:      stats,
		Mood:       sess.Mood,
		Options:    sess.Options,
		Summary:    summarize(sess.Palette, sess.Mood),
		CreatedAt:  time.Now().UnixMilli(),
	}
	s.logger.Info("reference analyzed",
		"session_id", sessionID,
		"analysis_id", id,
		"colors", len(p),
		"mood", m.Name,
		"elapsed_ms", time.Since(started).Milliseconds(),
	)
	s.hub.Push(sessionID, model.Event{Type: EventMoodUpdated, Payload: res, CreatedAt: res.CreatedAt})
	return res, nil
}

// Clear removes the reference image from the session and restores the default mood.
func (s *MoodService) Clear(sessionID string) (model.SessionState, error) {
	sess, err := s.store.ClearReference(sessionID)
	if err != nil {
		return model.SessionState{}, err
	}
	s.hub.Push(sessionID, model.Event{Type: EventMoodCleared, Payload: sess, CreatedAt: time.Now().UnixMilli()})
	return sess, nil
}

func (s *MoodService) Current(sessionID string) model.SessionState {
	return s.store.Session(sessionID)
}

// UpdateOptions applies category -> label choices on top of the session options.
func (s *MoodService) UpdateOptions(sessionID string, labels map[string]string) (model.SessionState, error) {
	opts, err := prompt.FromLabels(s.store.Session(sessionID).Options, labels)
	if err != nil {
		return model.SessionState{}, err
	}
	sess, err := s.store.SetOptions(sessionID, opts)
	if err != nil {
		return model.SessionState{}, err
	}
	s.hub.Push(sessionID, model.Event{Type: EventOptionsUpdated, Payload: sess.Options, CreatedAt: time.Now().UnixMilli()})
	return sess, nil
}

// BuildPrompt renders the session prompt. Overrides are applied for this call
// only and are not stored.
func (s *MoodService) BuildPrompt(sessionID string, overrides map[string]string) (string, model.SceneOptions, error) {
	opts, err := prompt.FromLabels(s.store.Session(sessionID).Options, overrides)
	if err != nil {
		return "", model.SceneOptions{}, err
	}
	return prompt.Build(opts), opts, nil
}

func summarize(p model.Palette, m model.MoodSuggestion) string {
	if len(p) == 0 {
		return fmt.Sprintf("No usable colors in the reference, using %s.", m.Name)
	}
	return fmt.Sprintf("%d colors read as %s: %s, %s.", len(p), m.Name, m.Lighting, m.Setting)
}
