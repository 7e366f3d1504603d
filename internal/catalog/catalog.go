// Package catalog holds the label/value option lists the configurator offers.
package catalog

import "mood-reference-agent/internal/model"

type Category string

const (
	ContentStyle       Category = "content_style"
	PlacementStyle     Category = "placement_style"
	PlacementCamera    Category = "placement_camera"
	Lighting           Category = "lighting"
	Setting            Category = "setting"
	ProductMaterial    Category = "product_material"
	EnvironmentOrder   Category = "environment_order"
	AgeGroup           Category = "age_group"
	PersonAppearance   Category = "person_appearance"
	ProductInteraction Category = "product_interaction"
	Gender             Category = "gender"
	Camera             Category = "camera"
	ISO                Category = "iso"
	Perspective        Category = "perspective"
	AspectRatio        Category = "aspect_ratio"
	SelfieType         Category = "selfie_type"
	Ethnicity          Category = "ethnicity"
)

// NoPerson is the age group value that removes the person from the scene.
const NoPerson = "no person"

var order = []Category{
	ContentStyle, PlacementStyle, PlacementCamera, Lighting, Setting,
	ProductMaterial, EnvironmentOrder, AgeGroup, PersonAppearance,
	ProductInteraction, Gender, Camera, ISO, Perspective, AspectRatio,
	SelfieType, Ethnicity,
}

var catalogs = map[Category][]model.Option{
	ContentStyle: {
		{Label: "UGC Lifestyle", Value: "ugc"},
		{Label: "Product Placement", Value: "product"},
	},
	PlacementStyle: {
		{Label: "Luxury Editorial", Value: "luxury editorial set with high-end props and reflections"},
		{Label: "On-White Studio", Value: "clean white sweep background with soft gradients"},
		{Label: "Splash Shot", Value: "dynamic splash of water or liquid around the product"},
		{Label: "Acrylic Blocks", Value: "stacked acrylic blocks and geometric props"},
		{Label: "Lifestyle Flatlay", Value: "styled flatlay with curated props and textures"},
		{Label: "Nature Elements", Value: "organic stones, leaves, and water droplets"},
	},
	PlacementCamera: {
		{Label: "Cinema Camera", Value: "shot on a cinema camera with cinematic lighting"},
		{Label: "Macro Lens", Value: "shot on a macro lens for crisp product detail"},
		{Label: "Product Tabletop Rig", Value: "captured on a tabletop product rig with perfect symmetry"},
		{Label: "Overhead Rig", Value: "captured from an overhead rig for flatlay precision"},
		{Label: "Studio Strobe Setup", Value: "lit with studio strobes and softboxes for glossy highlights"},
	},
	Lighting: {
		{Label: "Natural Light", Value: "soft, natural window light"},
		{Label: "Sunny Day", Value: "bright, direct outdoor sunlight"},
		{Label: "Golden Hour", Value: "warm, golden hour glow"},
		{Label: "Overcast", Value: "diffused, even light from a cloudy sky"},
		{Label: "Cozy Indoors", Value: "warm, ambient indoor lamplight"},
		{Label: "Ring Light", Value: "direct, flattering ring light, vlogger style"},
		{Label: "Mood Lighting", Value: "dim, moody, ambient lighting"},
		{Label: "Flash Photo", Value: "direct on-camera flash, creating a candid, party-like feel"},
	},
	Setting: {
		{Label: "Living Room", Value: "a cozy, lived-in living room"},
		{Label: "Kitchen", Value: "a bright, modern kitchen"},
		{Label: "Bedroom", Value: "a stylish, tidy bedroom"},
		{Label: "Bathroom", Value: "a clean, minimalist bathroom counter"},
		{Label: "Home Office", Value: "a personalized home office desk"},
		{Label: "Café", Value: "a trendy, bustling café"},
		{Label: "Outdoors", Value: "a natural, outdoor park or garden setting"},
		{Label: "In the Car", Value: "the interior of a car, casual and on-the-go"},
		{Label: "Beach", Value: "a sunny beach with sand, umbrellas, and ocean breeze"},
		{Label: "Boutique Hotel", Value: "a chic boutique hotel room or lobby"},
		{Label: "Poolside", Value: "a pool deck with lounge chairs and shimmering water"},
		{Label: "Garden Party", Value: "a lush backyard or botanical garden set up for entertaining"},
		{Label: "Rooftop", Value: "an urban rooftop terrace with skyline views"},
		{Label: "Wellness Spa", Value: "a serene spa setting with steam, plants, and soft towels"},
		{Label: "Farmer’s Market", Value: "an open-air market with fresh produce and rustic tables"},
		{Label: "Mountain Cabin", Value: "a woodsy cabin interior with natural textures"},
	},
	ProductMaterial: {
		{Label: "Matte Plastic", Value: "matte plastic"},
		{Label: "Glossy Plastic", Value: "glossy plastic"},
		{Label: "Glass & Liquid", Value: "transparent glass, may contain liquid"},
		{Label: "Metal", Value: "reflective metal"},
		{Label: "Paper & Cardboard", Value: "textured paper or cardboard"},
	},
	EnvironmentOrder: {
		{Label: "Clean", Value: "clean, tidy, and organized"},
		{Label: "Natural", Value: "natural and realistically lived-in"},
		{Label: "Casual", Value: "casually messy, spontaneous and authentic"},
	},
	AgeGroup: {
		{Label: "18-25", Value: "18-25"},
		{Label: "26-35", Value: "26-35"},
		{Label: "36-45", Value: "36-45"},
		{Label: "46-60", Value: "46-60"},
		{Label: "60+", Value: "60+"},
		{Label: "No Person", Value: NoPerson},
	},
	PersonAppearance: {
		{Label: "Regular", Value: "a regular, everyday appearance"},
		{Label: "Well-Groomed", Value: "a well-groomed, put-together appearance"},
		{Label: "Styled", Value: "a trendy, styled, influencer-like appearance"},
	},
	ProductInteraction: {
		{Label: "Holding", Value: "holding it naturally"},
		{Label: "Using", Value: "using it"},
		{Label: "Showing to Camera", Value: "showing to camera"},
		{Label: "Unboxing", Value: "unboxing it"},
		{Label: "Applying", Value: "applying it"},
		{Label: "Placing on Surface", Value: "placing on surface"},
	},
	Gender: {
		{Label: "Female", Value: "female"},
		{Label: "Male", Value: "male"},
	},
	Camera: {
		{Label: "Smartphone", Value: "shot on a modern smartphone"},
		{Label: "Selfie Cam", Value: "shot on a front-facing selfie camera"},
		{Label: "DSLR/Mirrorless", Value: "shot on a professional DSLR/Mirrorless camera with a shallow depth of field"},
		{Label: "Webcam", Value: "shot on a laptop webcam"},
		{Label: "Point & Shoot", Value: "shot on a digital point-and-shoot camera, flash aesthetic"},
	},
	ISO: {
		{Label: "100", Value: "ISO 100, no noise, very clean"},
		{Label: "200", Value: "ISO 200, clean with great detail"},
		{Label: "400", Value: "ISO 400, slight grain, very natural"},
		{Label: "800", Value: "ISO 800, noticeable grain, good for low light"},
		{Label: "1600", Value: "ISO 1600, prominent grain, documentary style"},
		{Label: "3200", Value: "ISO 3200, heavy grain, artistic low light style"},
	},
	Perspective: {
		{Label: "Eye-Level", Value: "eye-level shot"},
		{Label: "POV", Value: "point-of-view (POV) from the user's perspective"},
		{Label: "High Angle", Value: "shot from a high angle, looking down"},
		{Label: "Low Angle", Value: "shot from a low angle, looking up"},
		{Label: "Close-Up", Value: "a detailed close-up on the product"},
	},
	AspectRatio: {
		{Label: "16:9 (Widescreen)", Value: "16:9"},
		{Label: "9:16 (Vertical)", Value: "9:16"},
		{Label: "1:1 (Square)", Value: "1:1"},
	},
	SelfieType: {
		{Label: "None", Value: "none"},
		{Label: "Frontal Selfie", Value: "frontal selfie"},
		{Label: "From Below", Value: "selfie taken from below"},
		{Label: "From Above", Value: "selfie taken from above"},
		{Label: "Angled ¾", Value: "angled 3/4 selfie"},
		{Label: "Mirror Reflection", Value: "mirror reflection selfie"},
		{Label: "Hand-Holding Close-Up", Value: "close-up shot of a hand holding the product"},
	},
	Ethnicity: {
		{Label: "African Descent", Value: "of African descent"},
		{Label: "Latino", Value: "Latino"},
		{Label: "Asian", Value: "Asian"},
		{Label: "Caucasian", Value: "Caucasian"},
		{Label: "Middle Eastern", Value: "Middle Eastern"},
		{Label: "Mixed", Value: "of mixed ethnicity"},
	},
}

func Categories() []Category {
	out := make([]Category, len(order))
	copy(out, order)
	return out
}

func Lookup(c Category) ([]model.Option, bool) {
	opts, ok := catalogs[c]
	if !ok {
		return nil, false
	}
	out := make([]model.Option, len(opts))
	copy(out, opts)
	return out, true
}

// All returns every catalog keyed by category name.
func All() map[string][]model.Option {
	out := make(map[string][]model.Option, len(catalogs))
	for _, c := range order {
		opts, _ := Lookup(c)
		out[string(c)] = opts
	}
	return out
}

// FindLabel reports the value for label without falling back.
func FindLabel(c Category, label string) (string, bool) {
	for _, o := range catalogs[c] {
		if o.Label == label {
			return o.Value, true
		}
	}
	return "", false
}

// ResolveLabel maps a label to its value, defaulting to the first entry of the
// catalog when the label is unknown.
func ResolveLabel(c Category, label string) string {
	if v, ok := FindLabel(c, label); ok {
		return v
	}
	return First(c)
}

func First(c Category) string {
	opts := catalogs[c]
	if len(opts) == 0 {
		return ""
	}
	return opts[0].Value
}

// IsValue reports whether value is one of the catalog's values.
func IsValue(c Category, value string) bool {
	for _, o := range catalogs[c] {
		if o.Value == value {
			return true
		}
	}
	return false
}
