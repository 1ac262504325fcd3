package types

// Region is a rectangular crop within a video frame, in source pixels.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Transition classifies a frame's gameplay region by mean intensity.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionBlack
	TransitionWhite
)

func (t Transition) String() string {
	switch t {
	case TransitionBlack:
		return "BLACK"
	case TransitionWhite:
		return "WHITE"
	default:
		return "NONE"
	}
}

// Direction of a boundary search relative to the detection frame.
type Direction int

const (
	Before Direction = iota // toward the start of the recording
	After                   // toward the end of the recording
)

func (d Direction) String() string {
	if d == Before {
		return "before"
	}
	return "after"
}

// VideoInfo holds the probed properties of the input capture.
type VideoInfo struct {
	FPS         float64
	TotalFrames int
	Width       int
	Height      int
}

// Seconds converts a frame index to a timestamp in the probed timebase.
func (v VideoInfo) Seconds(frame int) float64 {
	if v.FPS <= 0 {
		return 0
	}
	return float64(frame) / v.FPS
}

// BattleSequence is one detected trainer battle with its committed cut points.
// NeedsReview marks a battle whose transitions could not be reliably located;
// its cut points are best-effort clamps and should be checked by hand.
type BattleSequence struct {
	Trainer       string  `json:"trainer"`
	DetectedFrame int     `json:"detected_frame"`
	CutInFrame    int     `json:"cut_in_frame"`
	CutOutFrame   int     `json:"cut_out_frame"`
	CutInSeconds  float64 `json:"cut_in_seconds"`
	CutOutSeconds float64 `json:"cut_out_seconds"`
	CutInType     string  `json:"cut_in_type"`
	CutOutType    string  `json:"cut_out_type"`
	NeedsReview   bool    `json:"needs_review,omitempty"`
}

// DurationSeconds is the committed battle length in seconds.
func (b BattleSequence) DurationSeconds() float64 {
	return b.CutOutSeconds - b.CutInSeconds
}
