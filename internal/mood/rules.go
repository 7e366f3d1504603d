// Package mood maps a color palette to one scene suggestion bundle.
package mood

import "mood-reference-agent/internal/model"

const (
	darkLightness   = 0.30
	brightLightness = 0.78
)

type Rule struct {
	Name       string
	Match      func(Stats) bool
	Suggestion model.MoodSuggestion
}

var defaultSuggestion = model.MoodSuggestion{
	Name:            "balanced studio vibes",
	Lighting:        "Natural Light",
	Setting:         "Home Office",
	PlacementStyle:  "On-White Studio",
	PlacementCamera: "Product Tabletop Rig",
	PromptCue:       "Keep the styling balanced and versatile with clean, neutral studio tones.",
}

// rules are evaluated top to bottom; the first match wins. Lightness rules
// come before hue rules so a dark saturated image still reads as moody.
var rules = []Rule{
	{
		Name:  "moody editorial luxe",
		Match: func(s Stats) bool { return s.AvgLightness < darkLightness },
		Suggestion: model.MoodSuggestion{
			Name:            "moody editorial luxe",
			Lighting:        "Mood Lighting",
			Setting:         "Boutique Hotel",
			PlacementStyle:  "Luxury Editorial",
			PlacementCamera: "Cinema Camera",
			PromptCue:       "Lean into a dark, dramatic palette with deep shadows, rich contrast, and a luxurious editorial finish.",
		},
	},
	{
		Name: "airy minimalist",
		Match: func(s Stats) bool {
			return s.AvgLightness > brightLightness && s.AvgSaturation < chromaSaturation
		},
		Suggestion: model.MoodSuggestion{
			Name:            "airy minimalist",
			Lighting:        "Overcast",
			Setting:         "Wellness Spa",
			PlacementStyle:  "On-White Studio",
			PlacementCamera: "Studio Strobe Setup",
			PromptCue:       "Keep the scene bright, airy, and minimal with soft diffused light, pale neutrals, and generous negative space.",
		},
	},
	{
		Name:  "coastal & aquatic",
		Match: hueBand(190, 250),
		Suggestion: model.MoodSuggestion{
			Name:            "coastal & aquatic",
			Lighting:        "Sunny Day",
			Setting:         "Poolside",
			PlacementStyle:  "Splash Shot",
			PlacementCamera: "Macro Lens",
			PromptCue:       "Bring in cool blue and aqua tones with fresh water reflections and a crisp coastal breeze.",
		},
	},
	{
		Name:  "botanical lifestyle",
		Match: hueBand(90, 150),
		Suggestion: model.MoodSuggestion{
			Name:            "botanical lifestyle",
			Lighting:        "Natural Light",
			Setting:         "Garden Party",
			PlacementStyle:  "Nature Elements",
			PlacementCamera: "Overhead Rig",
			PromptCue:       "Surround the product with lush greenery, organic textures, and fresh botanical accents.",
		},
	},
	{
		Name: "sunset glamour",
		Match: func(s Stats) bool {
			return (s.PrimaryHue <= 40 || s.PrimaryHue >= 330) && s.AvgSaturation > chromaSaturation
		},
		Suggestion: model.MoodSuggestion{
			Name:            "sunset glamour",
			Lighting:        "Golden Hour",
			Setting:         "Rooftop",
			PlacementStyle:  "Luxury Editorial",
			PlacementCamera: "Cinema Camera",
			PromptCue:       "Bathe the scene in warm coral, pink, and amber sunset tones with a glamorous glow.",
		},
	},
	{
		Name:  "earthy daylight",
		Match: hueBand(50, 80),
		Suggestion: model.MoodSuggestion{
			Name:            "earthy daylight",
			Lighting:        "Sunny Day",
			Setting:         "Farmer’s Market",
			PlacementStyle:  "Lifestyle Flatlay",
			PlacementCamera: "Overhead Rig",
			PromptCue:       "Use warm golden-yellow daylight with earthy, natural materials and a relaxed rustic feel.",
		},
	},
}

// hueBand matches a saturated palette whose primary hue lies in [lo, hi].
func hueBand(lo, hi float64) func(Stats) bool {
	return func(s Stats) bool {
		return s.PrimaryHue >= lo && s.PrimaryHue <= hi && s.AvgSaturation > chromaSaturation
	}
}

func Default() model.MoodSuggestion {
	return defaultSuggestion
}

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

func Classify(s Stats) model.MoodSuggestion {
	for _, r := range rules {
		if r.Match(s) {
			return r.Suggestion
		}
	}
	return defaultSuggestion
}

// Analyze never fails: a palette with no parseable colors yields the default
// suggestion and nil stats.
func Analyze(p model.Palette) (model.MoodSuggestion, *Stats) {
	st, ok := Compute(p)
	if !ok {
		return defaultSuggestion, nil
	}
	return Classify(st), &st
}

func Suggest(p model.Palette) model.MoodSuggestion {
	s, _ := Analyze(p)
	return s
}
