package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/furycut/internal/domain/profile"
	"github.com/forPelevin/furycut/internal/export"
	"github.com/forPelevin/furycut/internal/ports"
	"github.com/forPelevin/furycut/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/furycut/internal/ports/adapters/tesseract"
	"github.com/forPelevin/furycut/internal/usecase"
)

type Config struct {
	Input    string
	Version  string
	Trainers []string
	OutPath  string
	Logf     func(format string, args ...any)

	// Search tuning, in frames.
	TransitionJump int
	EarlyInterval  int
	NormalInterval int
	EarlyMinutes   int

	Workers int

	FFmpegPath    string
	FFprobePath   string
	TesseractPath string
	TesseractLang string
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if _, err := profile.Lookup(c.Version); err != nil {
		return err
	}
	if c.TransitionJump <= 0 {
		return fmt.Errorf("transition jump must be > 0")
	}
	if c.EarlyInterval <= 0 || c.NormalInterval <= 0 {
		return fmt.Errorf("sample intervals must be > 0")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	return nil
}

// Run wires the adapters, analyzes the capture and writes the two export
// files next to the input (or at the configured output path).
func Run(ctx context.Context, cfg Config) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	p, err := profile.Lookup(cfg.Version)
	if err != nil {
		return err
	}
	logf("game: %s (generation %d, %s preprocessing)", p.Name, p.Generation, p.Preprocess)

	frames := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath, cfg.Input)
	ocr := tesseract.New(cfg.TesseractPath, cfg.TesseractLang)

	uc := usecase.New(usecase.Deps{Frames: frames, OCR: ocr})

	info, err := frames.Probe(ctx)
	if err != nil {
		return err
	}

	res, err := uc.Run(ctx, usecase.Input{
		Profile:        p,
		Trainers:       cfg.Trainers,
		JumpSize:       cfg.TransitionJump,
		EarlyInterval:  cfg.EarlyInterval,
		NormalInterval: cfg.NormalInterval,
		EarlyWindow:    int(float64(cfg.EarlyMinutes) * 60 * info.FPS),
		Workers:        cfg.Workers,
		Logf:           logf,
	})
	if err != nil {
		return err
	}

	for _, b := range res.Battles {
		mark := ""
		if b.NeedsReview {
			mark = "  <- needs review"
		}
		logf("%s: IN=%d (%.1fs, %s) OUT=%d (%.1fs, %s) duration=%.1fs%s",
			b.Trainer,
			b.CutInFrame, b.CutInSeconds, b.CutInType,
			b.CutOutFrame, b.CutOutSeconds, b.CutOutType,
			b.DurationSeconds(), mark)
	}

	segPath := cfg.OutPath
	if segPath == "" {
		segPath = strings.TrimSuffix(cfg.Input, filepath.Ext(cfg.Input)) + ".json"
	}
	labelPath := strings.TrimSuffix(segPath, filepath.Ext(segPath)) + "_labels.json"

	segments := export.Segments(res.Battles, res.Info.Seconds(res.Info.TotalFrames))
	if err := writeJSON(segPath, segments); err != nil {
		return err
	}
	logf("segments written (%d): %s", len(segments), segPath)

	labels := export.Labels(res.Battles, res.Info.FPS)
	if err := writeJSON(labelPath, labels); err != nil {
		return err
	}
	logf("labels written (%d): %s", len(labels.Labels), labelPath)
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, b, 0o644)
}

// ensure adapters implement ports
var _ ports.FrameSource = (*ffmpeg.Adapter)(nil)
var _ ports.TextRecognizer = (*tesseract.Adapter)(nil)
