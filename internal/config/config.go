package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mood-reference-agent/internal/palette"
)

type Config struct {
	ListenAddr            string
	DataPath              string
	LogLevel              string
	MaxUploadSizeBytes    int64
	PaletteSurfaceSize    int
	PaletteQuantizeStep   int
	PaletteTopK           int
	PaletteAlphaThreshold int
	PaletteMaxPixels      int64
	PaletteMethod         string
	PaletteResampleFilter string
	AnalysisMaxConcurrent int
	AnalysisTimeoutSec    int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:            getEnv("LISTEN_ADDR", ":8080"),
		DataPath:              getEnv("DATA_PATH", "./data/sessions.json"),
		LogLevel:              strings.ToLower(getEnv("LOG_LEVEL", "info")),
		MaxUploadSizeBytes:    getEnvInt64("MAX_UPLOAD_SIZE_BYTES", 5*1024*1024),
		PaletteSurfaceSize:    getEnvInt("PALETTE_SURFACE_SIZE", palette.DefaultSize),
		PaletteQuantizeStep:   getEnvInt("PALETTE_QUANTIZE_STEP", palette.DefaultStep),
		PaletteTopK:           getEnvInt("PALETTE_TOP_K", palette.DefaultTopK),
		PaletteAlphaThreshold: getEnvInt("PALETTE_ALPHA_THRESHOLD", palette.DefaultAlphaThreshold),
		PaletteMaxPixels:      getEnvInt64("PALETTE_MAX_PIXELS", palette.DefaultMaxPixels),
		PaletteMethod:         strings.ToLower(getEnv("PALETTE_METHOD", string(palette.MethodBucket))),
		PaletteResampleFilter: strings.ToLower(getEnv("PALETTE_RESAMPLE_FILTER", "box")),
		AnalysisMaxConcurrent: getEnvInt("ANALYSIS_MAX_CONCURRENT", 4),
		AnalysisTimeoutSec:    getEnvInt("ANALYSIS_TIMEOUT_SEC", 10),
	}

	if cfg.MaxUploadSizeBytes <= 0 {
		return Config{}, errors.New("max upload size must be > 0")
	}
	if cfg.PaletteSurfaceSize <= 0 {
		return Config{}, errors.New("palette surface size must be > 0")
	}
	if cfg.PaletteQuantizeStep <= 0 || cfg.PaletteQuantizeStep > 255 {
		return Config{}, errors.New("palette quantize step must be in [1,255]")
	}
	if cfg.PaletteTopK <= 0 {
		return Config{}, errors.New("palette top k must be > 0")
	}
	if cfg.PaletteAlphaThreshold < 0 || cfg.PaletteAlphaThreshold > 255 {
		return Config{}, errors.New("palette alpha threshold must be in [0,255]")
	}
	if cfg.PaletteMaxPixels <= 0 {
		return Config{}, errors.New("palette max pixels must be > 0")
	}
	if _, err := palette.ParseMethod(cfg.PaletteMethod); err != nil {
		return Config{}, err
	}
	if _, err := palette.ParseFilter(cfg.PaletteResampleFilter); err != nil {
		return Config{}, err
	}
	if cfg.AnalysisMaxConcurrent <= 0 {
		return Config{}, errors.New("analysis max concurrent must be > 0")
	}
	if cfg.AnalysisTimeoutSec <= 0 {
		return Config{}, errors.New("analysis timeout sec must be > 0")
	}

	return cfg, nil
}

func (c Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.AnalysisTimeoutSec) * time.Second
}

// Extractor builds the palette extractor described by the config. Unknown
// method or filter names fall back to the defaults; Load rejects them earlier.
func (c Config) Extractor() palette.Extractor {
	ex := palette.New()
	ex.Size = c.PaletteSurfaceSize
	ex.Step = c.PaletteQuantizeStep
	ex.TopK = c.PaletteTopK
	ex.AlphaThreshold = c.PaletteAlphaThreshold
	if c.PaletteMaxPixels > 0 {
		ex.MaxPixels = c.PaletteMaxPixels
	}
	if m, err := palette.ParseMethod(c.PaletteMethod); err == nil {
		ex.Method = m
	}
	if f, err := palette.ParseFilter(c.PaletteResampleFilter); err == nil {
		ex.Filter = f
	}
	return ex
}

func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
