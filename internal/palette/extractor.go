// Package palette reduces an arbitrary raster image to a short, ranked list
// of representative hex colors.
package palette

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"mood-reference-agent/internal/colorspace"
	"mood-reference-agent/internal/model"
)

var (
	ErrDecode = errors.New("decode image")
	ErrRead   = errors.New("read image")
)

const (
	DefaultSize           = 64
	DefaultStep           = 32
	DefaultTopK           = 5
	DefaultAlphaThreshold = 128
	DefaultMaxPixels      = 50_000_000
)

type Method string

const (
	MethodBucket   Method = "bucket"
	MethodKMeans   Method = "kmeans"
	MethodDominant Method = "dominant"
)

func ParseMethod(name string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(name))); m {
	case "", MethodBucket:
		return MethodBucket, nil
	case MethodKMeans, MethodDominant:
		return m, nil
	default:
		return "", fmt.Errorf("unknown palette method %q", name)
	}
}

func ParseFilter(name string) (imaging.ResampleFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "box":
		return imaging.Box, nil
	case "linear":
		return imaging.Linear, nil
	case "lanczos":
		return imaging.Lanczos, nil
	case "nearest":
		return imaging.NearestNeighbor, nil
	default:
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resample filter %q", name)
	}
}

// Extractor samples an image on a Size x Size surface and ranks quantized
// colors by frequency. Pixels with alpha below AlphaThreshold do not count.
// Encoded images declaring more than MaxPixels pixels are refused before decode.
type Extractor struct {
	Size           int
	Step           int
	TopK           int
	AlphaThreshold int
	MaxPixels      int64
	Filter         imaging.ResampleFilter
	Method         Method
}

func New() Extractor {
	return Extractor{
		Size:           DefaultSize,
		Step:           DefaultStep,
		TopK:           DefaultTopK,
		AlphaThreshold: DefaultAlphaThreshold,
		MaxPixels:      DefaultMaxPixels,
		Filter:         imaging.Box,
		Method:         MethodBucket,
	}
}

func (e Extractor) validate() error {
	switch {
	case e.Size <= 0:
		return errors.New("surface size must be > 0")
	case e.Step <= 0 || e.Step > 255:
		return errors.New("quantize step must be in [1,255]")
	case e.TopK <= 0:
		return errors.New("top k must be > 0")
	case e.AlphaThreshold < 0 || e.AlphaThreshold > 255:
		return errors.New("alpha threshold must be in [0,255]")
	case e.MaxPixels < 0:
		return errors.New("max pixels must be >= 0")
	}
	return nil
}

// ExtractFile reads and analyzes the image at path. The file is closed on
// every return path.
func (e Extractor) ExtractFile(ctx context.Context, path string) (model.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()
	return e.Extract(ctx, f)
}

func (e Extractor) Extract(ctx context.Context, r io.Reader) (model.Palette, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	if err := e.checkDimensions(data); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return e.ExtractImage(ctx, img)
}

// checkDimensions reads only the image header. A zero MaxPixels means the
// default cap.
func (e Extractor) checkDimensions(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	limit := e.MaxPixels
	if limit == 0 {
		limit = DefaultMaxPixels
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > limit {
		return fmt.Errorf("%w: %dx%d exceeds the %d pixel limit", ErrDecode, cfg.Width, cfg.Height, limit)
	}
	return nil
}

func (e Extractor) ExtractImage(ctx context.Context, img image.Image) (model.Palette, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	surface := imaging.Resize(img, e.Size, e.Size, e.Filter)
	if surface == nil || surface.Bounds().Empty() {
		return nil, fmt.Errorf("%w: could not allocate %dx%d surface", ErrDecode, e.Size, e.Size)
	}

	switch e.Method {
	case MethodKMeans:
		return kmeansPalette(ctx, surface, e.AlphaThreshold, e.TopK)
	case MethodDominant:
		return dominantPalette(ctx, surface, e.AlphaThreshold, e.TopK)
	default:
		return bucketPalette(ctx, surface, e.Step, e.AlphaThreshold, e.TopK)
	}
}

type bucket struct {
	color model.RGB
	count int
}

// bucketPalette counts quantized colors in first-seen order, so a stable sort
// breaks frequency ties by first appearance.
func bucketPalette(ctx context.Context, surface *image.NRGBA, step, alpha, topK int) (model.Palette, error) {
	index := make(map[model.RGB]int, 64)
	buckets := make([]bucket, 0, 64)

	w, h := surface.Bounds().Dx(), surface.Bounds().Dy()
	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := surface.Pix[y*surface.Stride : y*surface.Stride+w*4]
		for i := 0; i+3 < len(row); i += 4 {
			if int(row[i+3]) < alpha {
				continue
			}
			key := colorspace.Quantize(model.RGB{R: row[i], G: row[i+1], B: row[i+2]}, step)
			if idx, ok := index[key]; ok {
				buckets[idx].count++
				continue
			}
			index[key] = len(buckets)
			buckets = append(buckets, bucket{color: key, count: 1})
		}
	}

	slices.SortStableFunc(buckets, func(a, b bucket) int {
		return b.count - a.count
	})
	if len(buckets) > topK {
		buckets = buckets[:topK]
	}

	out := make(model.Palette, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, colorspace.Hex(b.color))
	}
	return out, nil
}
