package model

import "time"

type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSL holds hue in degrees [0,360) and saturation/lightness in [0,1].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// Palette is an ordered list of "#RRGGBB" values, most frequent first.
type Palette []string

type MoodSuggestion struct {
	Name            string `json:"name"`
	Lighting        string `json:"lighting"`
	Setting         string `json:"setting"`
	PlacementStyle  string `json:"placement_style"`
	PlacementCamera string `json:"placement_camera"`
	PromptCue       string `json:"prompt_cue"`
}

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ContentStyle string

const (
	ContentUGC     ContentStyle = "ugc"
	ContentProduct ContentStyle = "product"
)

// SceneOptions holds catalog values (not labels) for every configurable field.
type SceneOptions struct {
	ContentStyle       ContentStyle `json:"content_style"`
	PlacementStyle     string       `json:"placement_style"`
	PlacementCamera    string       `json:"placement_camera"`
	Lighting           string       `json:"lighting"`
	Setting            string       `json:"setting"`
	AgeGroup           string       `json:"age_group"`
	Camera             string       `json:"camera"`
	ISO                string       `json:"iso"`
	Perspective        string       `json:"perspective"`
	SelfieType         string       `json:"selfie_type"`
	Ethnicity          string       `json:"ethnicity"`
	Gender             string       `json:"gender"`
	AspectRatio        string       `json:"aspect_ratio"`
	EnvironmentOrder   string       `json:"environment_order"`
	PersonAppearance   string       `json:"person_appearance"`
	ProductMaterial    string       `json:"product_material"`
	ProductInteraction string       `json:"product_interaction"`
	MoodCue            string       `json:"mood_cue,omitempty"`
}

type SessionState struct {
	SessionID  string         `json:"session_id"`
	Options    SceneOptions   `json:"options"`
	Palette    Palette        `json:"palette"`
	Mood       MoodSuggestion `json:"mood"`
	Generation uint64         `json:"generation"`
	AnalysisID string         `json:"analysis_id,omitempty"`
	UpdatedAt  int64          `json:"updated_at_unix_ms"`
}

type StoredState struct {
	Sessions          map[string]SessionState `json:"sessions"`
	LastUpdatedUnixMS int64                   `json:"last_updated_unix_ms"`
	CreatedAt         time.Time               `json:"created_at"`
}

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt int64       `json:"created_at_unix_ms"`
}
