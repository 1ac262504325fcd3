// Package tesseract runs the tesseract binary over a pipe to recognize header
// text. The block/line mode maps to tesseract's page segmentation modes.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"

	"github.com/forPelevin/furycut/internal/ports"
)

type Adapter struct {
	bin  string
	lang string
}

func New(binPath, lang string) *Adapter {
	if binPath == "" {
		binPath = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	return &Adapter{bin: binPath, lang: lang}
}

func (a *Adapter) Recognize(ctx context.Context, img image.Image, mode ports.RecognizeMode) (string, error) {
	// psm 6 assumes a uniform text block, psm 7 a single line. Line mode
	// reads thresholded single-line headers that block mode misses.
	psm := "6"
	if mode == ports.ModeLine {
		psm = "7"
	}

	var in bytes.Buffer
	if err := png.Encode(&in, img); err != nil {
		return "", fmt.Errorf("encode ocr input: %w", err)
	}

	var out, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, a.bin,
		"stdin", "stdout",
		"-l", a.lang,
		"--psm", psm,
	)
	cmd.Stdin = &in
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w\n%s", err, errBuf.String())
	}
	return out.String(), nil
}
