// Package prompt assembles scene options into the text sent to the image model.
package prompt

import (
	"fmt"
	"strings"

	"mood-reference-agent/internal/catalog"
	"mood-reference-agent/internal/model"
)

func DefaultOptions() model.SceneOptions {
	return model.SceneOptions{
		ContentStyle:       model.ContentStyle(catalog.First(catalog.ContentStyle)),
		PlacementStyle:     catalog.First(catalog.PlacementStyle),
		PlacementCamera:    catalog.First(catalog.PlacementCamera),
		Lighting:           catalog.First(catalog.Lighting),
		Setting:            catalog.First(catalog.Setting),
		AgeGroup:           catalog.NoPerson,
		Camera:             catalog.First(catalog.Camera),
		ISO:                catalog.First(catalog.ISO),
		Perspective:        catalog.First(catalog.Perspective),
		SelfieType:         catalog.First(catalog.SelfieType),
		Ethnicity:          catalog.First(catalog.Ethnicity),
		Gender:             catalog.First(catalog.Gender),
		AspectRatio:        catalog.First(catalog.AspectRatio),
		EnvironmentOrder:   catalog.First(catalog.EnvironmentOrder),
		PersonAppearance:   catalog.First(catalog.PersonAppearance),
		ProductMaterial:    catalog.First(catalog.ProductMaterial),
		ProductInteraction: catalog.First(catalog.ProductInteraction),
	}
}

// ApplyMood overwrites the mood-driven fields. Labels the catalogs do not know
// fall back to the first catalog entry. The previous cue is replaced, never merged.
func ApplyMood(opts model.SceneOptions, m model.MoodSuggestion) model.SceneOptions {
	opts.Lighting = catalog.ResolveLabel(catalog.Lighting, m.Lighting)
	opts.Setting = catalog.ResolveLabel(catalog.Setting, m.Setting)
	opts.PlacementStyle = catalog.ResolveLabel(catalog.PlacementStyle, m.PlacementStyle)
	opts.PlacementCamera = catalog.ResolveLabel(catalog.PlacementCamera, m.PlacementCamera)
	opts.MoodCue = strings.TrimSpace(m.PromptCue)
	return opts
}

// FromLabels builds options from a category -> label map on top of base.
// Unknown categories are reported as an error; unknown labels resolve to the
// first catalog entry.
func FromLabels(base model.SceneOptions, labels map[string]string) (model.SceneOptions, error) {
	for key, label := range labels {
		c := catalog.Category(key)
		if _, ok := catalog.Lookup(c); !ok {
			return model.SceneOptions{}, fmt.Errorf("unknown option category %q", key)
		}
		set(&base, c, catalog.ResolveLabel(c, label))
	}
	return base, nil
}

// Validate reports the first category whose value is not in its catalog.
func Validate(o model.SceneOptions) error {
	for _, c := range catalog.Categories() {
		if v := get(o, c); !catalog.IsValue(c, v) {
			return fmt.Errorf("invalid %s value %q", c, v)
		}
	}
	return nil
}

func get(o model.SceneOptions, c catalog.Category) string {
	switch c {
	case catalog.ContentStyle:
		return string(o.ContentStyle)
	case catalog.PlacementStyle:
		return o.PlacementStyle
	case catalog.PlacementCamera:
		return o.PlacementCamera
	case catalog.Lighting:
		return o.Lighting
	case catalog.Setting:
		return o.Setting
	case catalog.ProductMaterial:
		return o.ProductMaterial
	case catalog.EnvironmentOrder:
		return o.EnvironmentOrder
	case catalog.AgeGroup:
		return o.AgeGroup
	case catalog.PersonAppearance:
		return o.PersonAppearance
	case catalog.ProductInteraction:
		return o.ProductInteraction
	case catalog.Gender:
		return o.Gender
	case catalog.Camera:
		return o.Camera
	case catalog.ISO:
		return o.ISO
	case catalog.Perspective:
		return o.Perspective
	case catalog.AspectRatio:
		return o.AspectRatio
	case catalog.SelfieType:
		return o.SelfieType
	case catalog.Ethnicity:
		return o.Ethnicity
	}
	return ""
}

func set(o *model.SceneOptions, c catalog.Category, v string) {
	switch c {
	case catalog.ContentStyle:
		o.ContentStyle = model.ContentStyle(v)
	case catalog.PlacementStyle:
		o.PlacementStyle = v
	case catalog.PlacementCamera:
		o.PlacementCamera = v
	case catalog.Lighting:
		o.Lighting = v
	case catalog.Setting:
		o.Setting = v
	case catalog.ProductMaterial:
		o.ProductMaterial = v
	case catalog.EnvironmentOrder:
		o.EnvironmentOrder = v
	case catalog.AgeGroup:
		o.AgeGroup = v
	case catalog.PersonAppearance:
		o.PersonAppearance = v
	case catalog.ProductInteraction:
		o.ProductInteraction = v
	case catalog.Gender:
		o.Gender = v
	case catalog.Camera:
		o.Camera = v
	case catalog.ISO:
		o.ISO = v
	case catalog.Perspective:
		o.Perspective = v
	case catalog.AspectRatio:
		o.AspectRatio = v
	case catalog.SelfieType:
		o.SelfieType = v
	case catalog.Ethnicity:
		o.Ethnicity = v
	}
}

func Build(o model.SceneOptions) string {
	var b strings.Builder
	if o.ContentStyle == model.ContentProduct {
		buildProduct(&b, o)
	} else {
		buildUGC(&b, o)
	}
	if o.MoodCue != "" {
		b.WriteString(" ")
		b.WriteString(o.MoodCue)
	}
	return b.String()
}

func buildUGC(b *strings.Builder, o model.SceneOptions) {
	fmt.Fprintf(b, "Create an ultra-realistic, authentic UGC (User Generated Content) style lifestyle photo with a %s aspect ratio. ", o.AspectRatio)
	fmt.Fprintf(b, "The photo must look genuine, emotional, and cinematic, as if taken by a real person with a %s. ", o.Camera)
	fmt.Fprintf(b, "The scene is a %s, illuminated by %s. The overall environment has a %s feel. ", o.Setting, o.Lighting, o.EnvironmentOrder)
	fmt.Fprintf(b, "The photo is shot from a %s. The camera settings should reflect %s, creating a natural look. ", o.Perspective, o.ISO)
	writeProductFocus(b, o)

	if o.AgeGroup != catalog.NoPerson {
		fmt.Fprintf(b, "The photo features a %s person, age %s, of %s ethnicity, who has a %s. ", o.Gender, o.AgeGroup, o.Ethnicity, o.PersonAppearance)
		if o.SelfieType == "close-up shot of a hand holding the product" {
			b.WriteString("The shot is a close-up of their hand holding the product naturally. ")
		} else {
			fmt.Fprintf(b, "The person is %s Their face and upper body are visible, and the interaction looks unposed and authentic. ", interaction(o.ProductInteraction))
			if o.SelfieType != "" && o.SelfieType != "none" {
				fmt.Fprintf(b, "The style is a %s. ", o.SelfieType)
			}
		}
	}

	b.WriteString("Final image must be high-resolution and free of any watermarks, text, or artificial elements. It should feel like a captured moment, not a staged ad.")
}

func buildProduct(b *strings.Builder, o model.SceneOptions) {
	fmt.Fprintf(b, "Create a premium, photorealistic product placement image with a %s aspect ratio. ", o.AspectRatio)
	fmt.Fprintf(b, "Stage the product on a %s, %s. ", o.PlacementStyle, o.PlacementCamera)
	fmt.Fprintf(b, "The surrounding scene evokes %s, illuminated by %s. ", o.Setting, o.Lighting)
	writeProductFocus(b, o)
	b.WriteString("Final image must be high-resolution and free of any watermarks, text, or artificial elements.")
}

func writeProductFocus(b *strings.Builder, o model.SceneOptions) {
	fmt.Fprintf(b, "The focus is on the provided product, which has a %s finish. ", o.ProductMaterial)
	b.WriteString("Place this exact product into the scene naturally. Ensure its material, reflections, and shadows are rendered realistically according to the environment. Do not alter the product's design or branding. ")
}

func interaction(v string) string {
	switch v {
	case "holding it naturally":
		return "holding the product naturally and comfortably."
	case "using it":
		return "using the product naturally as intended."
	case "showing to camera":
		return "showing the product close to the camera."
	case "unboxing it":
		return "unboxing the product with excitement."
	case "applying it":
		return "applying the product to their skin or body."
	case "placing on surface":
		return "placing the product carefully on a nearby surface."
	default:
		return fmt.Sprintf("interacting with the product in a way that is %s.", v)
	}
}
