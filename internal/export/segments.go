package export

import (
	"sort"

	"github.com/forPelevin/furycut/internal/types"
)

// Segment is one entry of the jump-cut tool's segment list. Battle segments
// carry a label and name; gap segments keep the footage between battles.
type Segment struct {
	Start           float64 `json:"start"`
	Duration        float64 `json:"duration"`
	Type            string  `json:"type"`
	Punched         int     `json:"punched"`
	PunchedPosition string  `json:"punchedPosition"`
	Operation       string  `json:"operation"`
	Label           string  `json:"label,omitempty"`
	Name            string  `json:"name,omitempty"`
}

// Segments renders battles into a full-coverage segment list: every second of
// the capture belongs to exactly one segment, battles labeled, gaps kept.
func Segments(battles []types.BattleSequence, videoDuration float64) []Segment {
	sorted := append([]types.BattleSequence(nil), battles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CutInSeconds < sorted[j].CutInSeconds })

	segments := make([]Segment, 0, 2*len(sorted)+1)
	current := 0.0
	for _, b := range sorted {
		if b.CutInSeconds > current {
			segments = append(segments, gap(current, b.CutInSeconds-current))
		}
		segments = append(segments, Segment{
			Start:           b.CutInSeconds,
			Duration:        b.CutOutSeconds - b.CutInSeconds,
			Type:            "original",
			Punched:         1,
			PunchedPosition: "center",
			Operation:       "keep",
			Label:           "Green",
			Name:            titleCase(b.Trainer) + " Battle",
		})
		current = b.CutOutSeconds
	}
	if current < videoDuration {
		segments = append(segments, gap(current, videoDuration-current))
	}
	return segments
}

func gap(start, duration float64) Segment {
	return Segment{
		Start:           start,
		Duration:        duration,
		Type:            "original",
		Punched:         1,
		PunchedPosition: "center",
		Operation:       "keep",
	}
}
