package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mood-reference-agent/internal/model"
	"mood-reference-agent/internal/mood"
	"mood-reference-agent/internal/prompt"
)

// ErrStaleAnalysis is returned when a newer analysis or a clear has started
// for the session since the committing analysis began.
var ErrStaleAnalysis = errors.New("analysis superseded by a newer request")

// ErrInvalidOption is returned when an option value is not in its catalog.
var ErrInvalidOption = errors.New("invalid scene option")

type Store struct {
	path  string
	mu    sync.RWMutex
	state model.StoredState
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.state = defaultState()
			return s.saveLocked()
		}
		return err
	}
	if len(b) == 0 {
		s.state = defaultState()
		return s.saveLocked()
	}

	var state model.StoredState
	if err := json.Unmarshal(b, &state); err != nil {
		return err
	}
	mergeDefaults(&state)
	s.state = state
	return nil
}

func defaultState() model.StoredState {
	return model.StoredState{
		Sessions:  map[string]model.SessionState{},
		CreatedAt: time.Now().UTC(),
	}
}

func mergeDefaults(state *model.StoredState) {
	if state.Sessions == nil {
		state.Sessions = map[string]model.SessionState{}
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now().UTC()
	}
}

func newSession(id string) model.SessionState {
	m := mood.Default()
	return model.SessionState{
		SessionID: id,
		Options:   prompt.ApplyMood(prompt.DefaultOptions(), m),
		Palette:   model.Palette{},
		Mood:      m,
		UpdatedAt: time.Now().UnixMilli(),
	}
}

func (s *Store) sessionLocked(id string) model.SessionState {
	sess, ok := s.state.Sessions[id]
	if !ok {
		return newSession(id)
	}
	return sess
}

func (s *Store) saveLocked() error {
	s.state.LastUpdatedUnixMS = time.Now().UnixMilli()
	b, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// Session returns the stored state for id, or a fresh default session that is
// not persisted until something is written to it.
func (s *Store) Session(id string) model.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSession(s.sessionLocked(id))
}

// BeginAnalysis hands out the generation token an analysis must present when
// committing. Any earlier token for the session becomes stale.
func (s *Store) BeginAnalysis(id string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked(id)
	sess.Generation++
	sess.UpdatedAt = time.Now().UnixMilli()
	s.state.Sessions[id] = sess
	return sess.Generation, s.saveLocked()
}

// CommitAnalysis replaces the session's palette and mood when generation is
// still current. The mood is applied to the session options in the same step.
func (s *Store) CommitAnalysis(id string, generation uint64, p model.Palette, m model.MoodSuggestion, analysisID string) (model.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked(id)
	if sess.Generation != generation {
		return model.SessionState{}, ErrStaleAnalysis
	}
	sess.Palette = append(model.Palette{}, p...)
	sess.Mood = m
	sess.Options = prompt.ApplyMood(sess.Options, m)
	sess.AnalysisID = analysisID
	sess.UpdatedAt = time.Now().UnixMilli()
	s.state.Sessions[id] = sess
	if err := s.saveLocked(); err != nil {
		return model.SessionState{}, err
	}
	return cloneSession(sess), nil
}

// ClearReference drops the reference palette, restores the default mood and
// invalidates any analysis still in flight.
func (s *Store) ClearReference(id string) (model.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked(id)
	sess.Generation++
	sess.Palette = model.Palette{}
	sess.Mood = mood.Default()
	sess.Options = prompt.ApplyMood(sess.Options, sess.Mood)
	sess.AnalysisID = ""
	sess.UpdatedAt = time.Now().UnixMilli()
	s.state.Sessions[id] = sess
	if err := s.saveLocked(); err != nil {
		return model.SessionState{}, err
	}
	return cloneSession(sess), nil
}

// SetOptions stores user-chosen options. The active mood cue is kept. Every
// value must come from its catalog.
func (s *Store) SetOptions(id string, opts model.SceneOptions) (model.SessionState, error) {
	if err := prompt.Validate(opts); err != nil {
		return model.SessionState{}, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked(id)
	opts.MoodCue = sess.Options.MoodCue
	sess.Options = opts
	sess.UpdatedAt = time.Now().UnixMilli()
	s.state.Sessions[id] = sess
	if err := s.saveLocked(); err != nil {
		return model.SessionState{}, err
	}
	return cloneSession(sess), nil
}

func cloneSession(sess model.SessionState) model.SessionState {
	sess.Palette = append(model.Palette{}, sess.Palette...)
	return sess
}
