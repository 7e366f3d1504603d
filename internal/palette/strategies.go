package palette

import (
	"context"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"mood-reference-agent/internal/colorspace"
	"mood-reference-agent/internal/model"
)

// opaquePixels collects the RGB bytes of every pixel at or above the alpha
// threshold, three bytes per pixel.
func opaquePixels(ctx context.Context, surface *image.NRGBA, alpha int) ([]uint8, error) {
	w, h := surface.Bounds().Dx(), surface.Bounds().Dy()
	rgb := make([]uint8, 0, w*h*3)
	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := surface.Pix[y*surface.Stride : y*surface.Stride+w*4]
		for i := 0; i+3 < len(row); i += 4 {
			if int(row[i+3]) < alpha {
				continue
			}
			rgb = append(rgb, row[i], row[i+1], row[i+2])
		}
	}
	return rgb, nil
}

// packSquare lays opaque pixels out on a near-square opaque image. The last
// row is padded by repeating pixels from the start.
func packSquare(rgb []uint8) *image.NRGBA {
	n := len(rgb) / 3
	side := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + side - 1) / side
	img := image.NewNRGBA(image.Rect(0, 0, side, rows))
	for i := 0; i < side*rows; i++ {
		src := (i % n) * 3
		img.Pix[i*4] = rgb[src]
		img.Pix[i*4+1] = rgb[src+1]
		img.Pix[i*4+2] = rgb[src+2]
		img.Pix[i*4+3] = 255
	}
	return img
}

func kmeansPalette(ctx context.Context, surface *image.NRGBA, alpha, topK int) (model.Palette, error) {
	rgb, err := opaquePixels(ctx, surface, alpha)
	if err != nil {
		return nil, err
	}
	if len(rgb) == 0 {
		return model.Palette{}, nil
	}

	dataset := make(clusters.Observations, 0, len(rgb)/3)
	distinct := make(map[[3]uint8]struct{}, topK)
	for i := 0; i+2 < len(rgb); i += 3 {
		distinct[[3]uint8{rgb[i], rgb[i+1], rgb[i+2]}] = struct{}{}
		dataset = append(dataset, clusters.Coordinates{
			float64(rgb[i]) / 255.0,
			float64(rgb[i+1]) / 255.0,
			float64(rgb[i+2]) / 255.0,
		})
	}

	// More clusters than distinct colors only produces empty clusters.
	k := min(topK, len(distinct))
	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	out := make(model.Palette, 0, k)
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		r, g, b := col.RGB255()
		out = appendUnique(out, colorspace.Hex(model.RGB{R: r, G: g, B: b}), topK)
	}
	return out, nil
}

func dominantPalette(ctx context.Context, surface *image.NRGBA, alpha, topK int) (model.Palette, error) {
	rgb, err := opaquePixels(ctx, surface, alpha)
	if err != nil {
		return nil, err
	}
	if len(rgb) == 0 {
		return model.Palette{}, nil
	}

	found := dominantcolor.FindWeight(packSquare(rgb), topK)
	slices.SortStableFunc(found, func(a, b dominantcolor.Color) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})

	out := make(model.Palette, 0, len(found))
	for _, c := range found {
		out = appendUnique(out, colorspace.Hex(rgbOf(c.RGBA)), topK)
	}
	return out, nil
}

func rgbOf(c color.RGBA) model.RGB {
	return model.RGB{R: c.R, G: c.G, B: c.B}
}

func appendUnique(p model.Palette, hex string, limit int) model.Palette {
	if len(p) >= limit || slices.Contains(p, hex) {
		return p
	}
	return append(p, hex)
}
