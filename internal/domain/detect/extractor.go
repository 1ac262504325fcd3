// Package detect turns decoded frames into the two signals the searches need:
// normalized header text and a black/white transition classification.
package detect

import (
	"context"
	"fmt"
	"image"

	"github.com/forPelevin/furycut/internal/domain/match"
	"github.com/forPelevin/furycut/internal/domain/profile"
	"github.com/forPelevin/furycut/internal/ports"
	"github.com/forPelevin/furycut/internal/types"
)

// ExtractionError reports a crop rectangle that falls outside the frame. It is
// a configuration fault (wrong profile for the capture), never a recognition
// miss, and must propagate to the caller.
type ExtractionError struct {
	Rect  types.Region
	Frame image.Rectangle
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("crop %dx%d+%d+%d outside frame %v",
		e.Rect.Width, e.Rect.Height, e.Rect.X, e.Rect.Y, e.Frame)
}

// Pre-screen bounds: the header region must show enough contrast to hold text
// and a plausible share of text pixels before OCR is worth its cost.
const (
	minContrast    = 30
	minTextRatio   = 0.03
	maxTextRatio   = 0.6
	textPercentile = 20
)

// Extractor produces normalized header text for a frame using the profile's
// preprocessing mode.
type Extractor struct {
	rec ports.TextRecognizer
}

func NewExtractor(rec ports.TextRecognizer) *Extractor {
	return &Extractor{rec: rec}
}

// Extract crops the frame to the profile's OCR region, preprocesses it per the
// profile's generation-keyed mode and runs recognition. An empty result means
// no header text; only recognizer failures and bad crops return errors.
func (e *Extractor) Extract(ctx context.Context, frame image.Image, p profile.Profile) (string, error) {
	region, err := crop(frame, p.OCRRegion)
	if err != nil {
		return "", err
	}

	vals := grayValues(region)
	if !textLike(vals) {
		return "", nil
	}

	var (
		input image.Image
		mode  ports.RecognizeMode
	)
	switch p.Preprocess {
	case profile.PreprocessPercentile:
		// Gen1-4 headers sit on textured backgrounds; keep only the darkest
		// fifth of the pixels and hand the recognizer a single clean line.
		input = binarizeInverted(region, percentile(vals, textPercentile))
		mode = ports.ModeLine
	default:
		input = region
		mode = ports.ModeBlock
	}

	text, err := e.rec.Recognize(ctx, input, mode)
	if err != nil {
		return "", fmt.Errorf("recognize header: %w", err)
	}
	return match.Normalize(text), nil
}

// textLike is a cheap pre-screen that rejects regions that cannot contain
// header text, saving a recognizer call on the vast majority of frames.
func textLike(vals []uint8) bool {
	if len(vals) == 0 {
		return false
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if int(hi)-int(lo) < minContrast {
		return false
	}
	threshold := percentile(vals, textPercentile)
	dark := 0
	for _, v := range vals {
		if v <= threshold {
			dark++
		}
	}
	ratio := float64(dark) / float64(len(vals))
	return ratio >= minTextRatio && ratio <= maxTextRatio
}
