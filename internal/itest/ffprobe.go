//go:build integration

package itest

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// captureDuration asks ffprobe for a capture's container duration. The e2e
// test uses it to reject a broken synthetic fixture before blaming the
// pipeline for its fallout.
func captureDuration(capture string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		capture,
	).CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w\n%s", capture, err, out)
	}
	raw := strings.TrimSpace(string(out))
	dur, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", raw, err)
	}
	return dur, nil
}
