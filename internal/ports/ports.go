package ports

import (
	"context"
	"image"

	"github.com/forPelevin/furycut/internal/types"
)

// FrameSource decodes individual frames from a capture by index. Seeks are
// expensive; callers are expected to minimize probe counts. Implementations
// must be safe for concurrent use by independent workers.
type FrameSource interface {
	Probe(ctx context.Context) (types.VideoInfo, error)
	DecodeFrame(ctx context.Context, frame int) (image.Image, error)
}

// RecognizeMode selects the recognizer's layout assumption.
type RecognizeMode string

const (
	// ModeBlock treats the input as a uniform block of text.
	ModeBlock RecognizeMode = "block"
	// ModeLine treats the input as a single text line.
	ModeLine RecognizeMode = "line"
)

// TextRecognizer turns a pixel region into UTF-8 text. Garbage or empty output
// is a normal outcome, not an error; errors are reserved for the recognizer
// itself failing to run.
type TextRecognizer interface {
	Recognize(ctx context.Context, img image.Image, mode RecognizeMode) (string, error)
}
