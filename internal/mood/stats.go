package mood

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"mood-reference-agent/internal/colorspace"
	"mood-reference-agent/internal/model"
)

// Below this saturation a sample is treated as achromatic and its hue is not
// trusted for categorical matching.
const chromaSaturation = 0.25

// Stats aggregates the HSL samples of one palette.
type Stats struct {
	Samples       []model.HSL `json:"samples"`
	AvgSaturation float64     `json:"avg_saturation"`
	AvgLightness  float64     `json:"avg_lightness"`
	MeanHue       float64     `json:"mean_hue"`
	MostSaturated model.HSL   `json:"most_saturated"`
	PrimaryHue    float64     `json:"primary_hue"`
}

// Compute parses every palette entry, silently dropping malformed ones. It
// reports false when nothing parsed.
func Compute(p model.Palette) (Stats, bool) {
	samples := make([]model.HSL, 0, len(p))
	for _, hex := range p {
		rgb, ok := colorspace.ParseHex(hex)
		if !ok {
			continue
		}
		samples = append(samples, colorspace.ToHSL(rgb))
	}
	if len(samples) == 0 {
		return Stats{}, false
	}

	var sumS, sumL float64
	hues := make([]float64, 0, len(samples))
	most := samples[0]
	for _, s := range samples {
		sumS += s.S
		sumL += s.L
		hues = append(hues, s.H)
		if s.S > most.S {
			most = s
		}
	}

	n := float64(len(samples))
	st := Stats{
		Samples:       samples,
		AvgSaturation: sumS / n,
		AvgLightness:  sumL / n,
		MeanHue:       circularMeanHue(hues),
		MostSaturated: most,
	}
	st.PrimaryHue = st.MeanHue
	if most.S > chromaSaturation {
		st.PrimaryHue = most.H
	}
	return st, true
}

// circularMeanHue averages hues as unit vectors, so 350 and 10 average to 0.
func circularMeanHue(hues []float64) float64 {
	if len(hues) == 0 {
		return 0
	}
	rad := make([]float64, len(hues))
	for i, h := range hues {
		rad[i] = h * math.Pi / 180
	}
	deg := stat.CircularMean(rad, nil) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}
