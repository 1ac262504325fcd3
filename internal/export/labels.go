// Package export renders detected battles into the JSON formats the editing
// tools consume: a label list for the editor automation and a segment list for
// jump-cut tooling.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/forPelevin/furycut/internal/types"
)

// LabelFile is the label-application contract: one entry per battle with the
// start offset in seconds, the editor label name and the trainer.
type LabelFile struct {
	FPS          float64 `json:"fps"`
	TotalBattles int     `json:"total_battles"`
	Labels       []Label `json:"labels"`
}

type Label struct {
	Trainer       string  `json:"trainer"`
	Label         string  `json:"label"`
	StartSeconds  float64 `json:"start_seconds"`
	EndSeconds    float64 `json:"end_seconds"`
	StartTimecode string  `json:"start_timecode"`
	EndTimecode   string  `json:"end_timecode"`
	StartFrame    int     `json:"start_frame"`
	EndFrame      int     `json:"end_frame"`
	NeedsReview   bool    `json:"needs_review,omitempty"`
}

// Labels builds the label file for the editor automation consumer, sorted by
// cut-in time.
func Labels(battles []types.BattleSequence, fps float64) LabelFile {
	sorted := append([]types.BattleSequence(nil), battles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CutInFrame < sorted[j].CutInFrame })

	out := LabelFile{FPS: fps, TotalBattles: len(sorted)}
	for _, b := range sorted {
		out.Labels = append(out.Labels, Label{
			Trainer:       titleCase(b.Trainer),
			Label:         LabelFor(b.Trainer),
			StartSeconds:  round4(b.CutInSeconds),
			EndSeconds:    round4(b.CutOutSeconds),
			StartTimecode: Timecode(b.CutInSeconds, fps),
			EndTimecode:   Timecode(b.CutOutSeconds, fps),
			StartFrame:    b.CutInFrame,
			EndFrame:      b.CutOutFrame,
			NeedsReview:   b.NeedsReview,
		})
	}
	return out
}

// Timecode converts seconds to SMPTE HH:MM:SS:FF in the capture's timebase.
func Timecode(seconds, fps float64) string {
	if fps <= 0 {
		fps = 30
	}
	totalFrames := int(seconds * fps)
	f := int(fps)
	frames := totalFrames % f
	totalSeconds := totalFrames / f
	secs := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	mins := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, mins, secs, frames)
}

func round4(v float64) float64 {
	return float64(int(v*10000+0.5)) / 10000
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
