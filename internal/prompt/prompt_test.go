package prompt

import (
	"strings"
	"testing"

	"mood-reference-agent/internal/catalog"
	"mood-reference-agent/internal/model"
	"mood-reference-agent/internal/mood"
)

func TestDefaultOptionsUseFirstEntries(t *testing.T) {
	o := DefaultOptions()
	if o.Lighting != "soft, natural window light" || o.Setting != "a cozy, lived-in living room" {
		t.Fatalf("unexpected defaults: %+v", o)
	}
	if o.AgeGroup != catalog.NoPerson || o.ContentStyle != model.ContentUGC {
		t.Fatalf("unexpected defaults: %+v", o)
	}
}

func TestApplyMoodResolvesLabels(t *testing.T) {
	m := mood.Suggest(model.Palette{"#000080"})
	o := ApplyMood(DefaultOptions(), m)
	if o.Lighting != "dim, moody, ambient lighting" {
		t.Fatalf("lighting = %q", o.Lighting)
	}
	if o.Setting != "a chic boutique hotel room or lobby" {
		t.Fatalf("setting = %q", o.Setting)
	}
	if o.PlacementStyle != "luxury editorial set with high-end props and reflections" {
		t.Fatalf("placement style = %q", o.PlacementStyle)
	}
	if o.PlacementCamera != "shot on a cinema camera with cinematic lighting" {
		t.Fatalf("placement camera = %q", o.PlacementCamera)
	}
	if o.MoodCue != m.PromptCue {
		t.Fatalf("mood cue = %q", o.MoodCue)
	}
}

func TestApplyMoodReplacesPrevious(t *testing.T) {
	o := ApplyMood(DefaultOptions(), mood.Suggest(model.Palette{"#000080"}))
	o = ApplyMood(o, mood.Default())
	if o.Lighting != "soft, natural window light" || o.MoodCue != mood.Default().PromptCue {
		t.Fatalf("previous mood leaked: %+v", o)
	}
}

func TestApplyMoodUnknownLabelFallsBack(t *testing.T) {
	o := ApplyMood(DefaultOptions(), model.MoodSuggestion{Lighting: "Neon Rave", Setting: "Home Office"})
	if o.Lighting != catalog.First(catalog.Lighting) {
		t.Fatalf("lighting = %q", o.Lighting)
	}
	if o.Setting != "a personalized home office desk" {
		t.Fatalf("setting = %q", o.Setting)
	}
}

func TestFromLabels(t *testing.T) {
	o, err := FromLabels(DefaultOptions(), map[string]string{
		"age_group":   "26-35",
		"gender":      "Male",
		"selfie_type": "Mirror Reflection",
	})
	if err != nil {
		t.Fatalf("from labels: %v", err)
	}
	if o.AgeGroup != "26-35" || o.Gender != "male" || o.SelfieType != "mirror reflection selfie" {
		t.Fatalf("unexpected options: %+v", o)
	}
	if _, err := FromLabels(DefaultOptions(), map[string]string{"weather": "Rain"}); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestBuildUGCWithoutPerson(t *testing.T) {
	p := Build(DefaultOptions())
	if !strings.HasPrefix(p, "Create an ultra-realistic, authentic UGC") {
		t.Fatalf("unexpected prompt: %s", p)
	}
	if strings.Contains(p, "The photo features a") {
		t.Fatalf("person section should be omitted: %s", p)
	}
	if !strings.Contains(p, "illuminated by soft, natural window light") {
		t.Fatalf("lighting missing: %s", p)
	}
}

func TestBuildUGCWithPerson(t *testing.T) {
	o := DefaultOptions()
	o.AgeGroup = "18-25"
	o.SelfieType = "frontal selfie"
	p := Build(o)
	if !strings.Contains(p, "The person is holding the product naturally and comfortably.") {
		t.Fatalf("interaction missing: %s", p)
	}
	if !strings.Contains(p, "The style is a frontal selfie.") {
		t.Fatalf("selfie style missing: %s", p)
	}

	o.SelfieType = "close-up shot of a hand holding the product"
	p = Build(o)
	if !strings.Contains(p, "close-up of their hand") || strings.Contains(p, "The person is") {
		t.Fatalf("hand close-up prompt wrong: %s", p)
	}
}

func TestBuildAppendsMoodCue(t *testing.T) {
	m := mood.Suggest(model.Palette{"#3399FF"})
	o := ApplyMood(DefaultOptions(), m)
	o.ContentStyle = model.ContentProduct
	p := Build(o)
	if !strings.HasSuffix(p, m.PromptCue) {
		t.Fatalf("mood cue not appended: %s", p)
	}
	if !strings.Contains(p, "dynamic splash of water") {
		t.Fatalf("placement style missing: %s", p)
	}
}

func TestValidate(t *testing.T) {
	o := ApplyMood(DefaultOptions(), mood.Default())
	if err := Validate(o); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	o.Lighting = "laser show"
	if err := Validate(o); err == nil || !strings.Contains(err.Error(), "lighting") {
		t.Fatalf("expected lighting error, got %v", err)
	}
	o = DefaultOptions()
	o.ContentStyle = "cartoon"
	if err := Validate(o); err == nil {
		t.Fatalf("expected content style error")
	}
}
