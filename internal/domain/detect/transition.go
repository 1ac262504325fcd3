package detect

import (
	"image"

	"github.com/forPelevin/furycut/internal/types"
)

// Mean-intensity thresholds for transition frames. True fade frames sit at the
// extremes, so the constants are strict and fixed; correctness depends on the
// gameplay crop excluding emulator borders, which would otherwise shift the
// mean enough to cross both thresholds.
const (
	blackMeanThreshold = 5.0
	whiteMeanThreshold = 250.0
)

// ClassifyTransition crops the frame to the platform's gameplay region and
// classifies it as a black frame, a white frame, or neither. The mean is
// returned for diagnostics.
func ClassifyTransition(frame image.Image, gameplay types.Region) (types.Transition, float64, error) {
	region, err := crop(frame, gameplay)
	if err != nil {
		return types.TransitionNone, 0, err
	}
	mean := meanIntensity(grayValues(region))
	switch {
	case mean <= blackMeanThreshold:
		return types.TransitionBlack, mean, nil
	case mean >= whiteMeanThreshold:
		return types.TransitionWhite, mean, nil
	default:
		return types.TransitionNone, mean, nil
	}
}
