// Package colorspace converts between hex strings, 8-bit RGB and HSL.
package colorspace

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"mood-reference-agent/internal/model"
)

// ParseHex accepts "#RRGGBB" or "RRGGBB". Shorthand and any other length
// are rejected.
func ParseHex(s string) (model.RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return model.RGB{}, false
	}
	c, err := colorful.Hex("#" + strings.ToLower(s))
	if err != nil {
		return model.RGB{}, false
	}
	r, g, b := c.RGB255()
	return model.RGB{R: r, G: g, B: b}, true
}

func Hex(c model.RGB) string {
	return strings.ToUpper(toColorful(c).Hex())
}

func ToHSL(c model.RGB) model.HSL {
	h, s, l := toColorful(c).Hsl()
	return model.HSL{
		H: math.Mod(h+360, 360),
		S: clamp01(s),
		L: clamp01(l),
	}
}

// Quantize rounds every channel to the nearest multiple of step. Values that
// round past 255 are clamped so the result stays a valid 8-bit color.
func Quantize(c model.RGB, step int) model.RGB {
	return model.RGB{
		R: quantizeChannel(c.R, step),
		G: quantizeChannel(c.G, step),
		B: quantizeChannel(c.B, step),
	}
}

func quantizeChannel(v uint8, step int) uint8 {
	if step <= 1 {
		return v
	}
	q := int(math.Round(float64(v)/float64(step))) * step
	if q > 255 {
		q = 255
	}
	return uint8(q)
}

func toColorful(c model.RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
