// Command moodctl extracts a palette from an image file and prints the mood it suggests.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"mood-reference-agent/internal/model"
	"mood-reference-agent/internal/mood"
	"mood-reference-agent/internal/palette"
	"mood-reference-agent/internal/prompt"
)

type report struct {
	Image   string               `json:"image"`
	Method  palette.Method       `json:"method"`
	Palette model.Palette        `json:"palette"`
	Stats   *mood.Stats          `json:"stats,omitempty"`
	Mood    model.MoodSuggestion `json:"mood"`
	Prompt  string               `json:"prompt,omitempty"`
}

func main() {
	method := flag.String("method", string(palette.MethodBucket), "palette method: bucket, kmeans or dominant")
	size := flag.Int("size", palette.DefaultSize, "sampling surface edge in pixels")
	step := flag.Int("step", palette.DefaultStep, "quantization step (bucket method)")
	topK := flag.Int("k", palette.DefaultTopK, "maximum palette size")
	filter := flag.String("filter", "box", "resample filter: box, linear, lanczos or nearest")
	withPrompt := flag.Bool("prompt", false, "include the default scene prompt with the mood applied")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: moodctl [flags] <image>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	m, err := palette.ParseMethod(*method)
	if err != nil {
		fatal(err)
	}
	f, err := palette.ParseFilter(*filter)
	if err != nil {
		fatal(err)
	}
	ex := palette.New()
	ex.Method = m
	ex.Filter = f
	ex.Size = *size
	ex.Step = *step
	ex.TopK = *topK

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path := flag.Arg(0)
	p, err := ex.ExtractFile(ctx, path)
	if err != nil {
		fatal(err)
	}
	suggestion, stats := mood.Analyze(p)

	out := report{Image: path, Method: m, Palette: p, Stats: stats, Mood: suggestion}
	if *withPrompt {
		out.Prompt = prompt.Build(prompt.ApplyMood(prompt.DefaultOptions(), suggestion))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "moodctl: %v\n", err)
	os.Exit(1)
}
