// Package ffmpeg decodes individual capture frames through the ffmpeg and
// ffprobe binaries. Every decode is one short-lived subprocess, which keeps
// the adapter stateless and safe for concurrent workers.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/forPelevin/furycut/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	input   string

	once sync.Once
	info types.VideoInfo
	perr error
}

func New(ffmpegPath, ffprobePath, input string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, input: input}
}

// Probe reads fps, frame count and dimensions once and caches them.
func (a *Adapter) Probe(ctx context.Context) (types.VideoInfo, error) {
	a.once.Do(func() {
		a.info, a.perr = a.probe(ctx)
	})
	return a.info, a.perr
}

func (a *Adapter) probe(ctx context.Context) (types.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate,width,height,nb_frames:format=duration",
		"-of", "default=noprint_wrappers=1",
		a.input,
	)
	b, err := cmd.Output()
	if err != nil {
		return types.VideoInfo{}, fmt.Errorf("ffprobe %s: %w", a.input, err)
	}

	var (
		info     types.VideoInfo
		duration float64
	)
	for _, line := range strings.Split(string(b), "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok || val == "N/A" {
			continue
		}
		switch key {
		case "r_frame_rate":
			info.FPS = parseRate(val)
		case "width":
			info.Width, _ = strconv.Atoi(val)
		case "height":
			info.Height, _ = strconv.Atoi(val)
		case "nb_frames":
			info.TotalFrames, _ = strconv.Atoi(val)
		case "duration":
			duration, _ = strconv.ParseFloat(val, 64)
		}
	}
	if info.FPS <= 0 {
		return types.VideoInfo{}, fmt.Errorf("ffprobe %s: no frame rate in output:\n%s", a.input, string(b))
	}
	// Some containers omit nb_frames; fall back to duration * fps.
	if info.TotalFrames <= 0 && duration > 0 {
		info.TotalFrames = int(duration * info.FPS)
	}
	if info.TotalFrames <= 0 {
		return types.VideoInfo{}, fmt.Errorf("ffprobe %s: could not determine frame count", a.input)
	}
	return info, nil
}

// DecodeFrame seeks to the frame's timestamp and decodes exactly one frame as
// PNG over a pipe.
func (a *Adapter) DecodeFrame(ctx context.Context, frame int) (image.Image, error) {
	info, err := a.Probe(ctx)
	if err != nil {
		return nil, err
	}
	if frame < 0 || frame >= info.TotalFrames {
		return nil, fmt.Errorf("frame %d out of range [0, %d)", frame, info.TotalFrames)
	}

	seek := float64(frame) / info.FPS
	var out, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-v", "error",
		"-ss", strconv.FormatFloat(seek, 'f', 6, 64),
		"-i", a.input,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode frame %d: %w\n%s", frame, err, errBuf.String())
	}
	img, err := png.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("decode png for frame %d: %w", frame, err)
	}
	return img, nil
}

// parseRate parses ffprobe's rational frame rate ("240/1", "30000/1001").
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
