// Package search locates battle edges with as few expensive probes as
// possible: a coarse walk away from the detection frame, binary-search
// refinement of the text boundary, then a tiered scan for the black/white
// transition frame. Every phase carries an explicit probe budget so
// termination never depends on the footage behaving.
package search

import (
	"context"
	"fmt"

	"github.com/forPelevin/furycut/internal/types"
)

// TextProber reports whether the tracked trainer's header text matches at a
// frame. Implementations are expected to memoize: the searches may probe the
// same frame more than once.
type TextProber interface {
	MatchAt(ctx context.Context, frame int) (bool, error)
}

// TransitionProber classifies a frame's gameplay region.
type TransitionProber interface {
	TransitionAt(ctx context.Context, frame int) (types.Transition, error)
}

// Config carries the externally-tuned search constants.
type Config struct {
	// JumpSize is the coarse step in frames for the walk away from the
	// detection point (the "transition jump").
	JumpSize int
	// TotalFrames bounds every search at the recording edges.
	TotalFrames int
	// FPS converts the time-based fallback windows into frames.
	FPS float64
	// MaxJumps bounds the coarse walk; past it the boundary is clamped to
	// the recording edge and reported as approximate.
	MaxJumps int
}

func (c Config) validate() error {
	if c.JumpSize <= 0 {
		return fmt.Errorf("jump size must be > 0, got %d", c.JumpSize)
	}
	if c.TotalFrames <= 0 {
		return fmt.Errorf("total frames must be > 0, got %d", c.TotalFrames)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be > 0, got %v", c.FPS)
	}
	return nil
}

func (c Config) maxJumps() int {
	if c.MaxJumps > 0 {
		return c.MaxJumps
	}
	// Enough to cross the longest plausible battle at the default jump.
	return 400
}

func (c Config) clamp(frame int) int {
	if frame < 0 {
		return 0
	}
	if frame >= c.TotalFrames {
		return c.TotalFrames - 1
	}
	return frame
}

// Boundary finds the frame where trainer header text appears or disappears.
type Boundary struct {
	probe TextProber
	cfg   Config
}

func NewBoundary(probe TextProber, cfg Config) (*Boundary, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Boundary{probe: probe, cfg: cfg}, nil
}

// Find walks from start (a frame where the text is known to match) in dir
// until the match disappears, then binary-searches the open interval down to a
// single frame. It returns the first frame in dir where the text is no longer
// visible. approximate is true when the walk hit the recording edge or its
// jump budget with the text still matching; the returned frame is then the
// clamped edge rather than a refined boundary.
func (b *Boundary) Find(ctx context.Context, start int, dir types.Direction) (frame int, approximate bool, err error) {
	cfg := b.cfg
	step := cfg.JumpSize
	if dir == types.Before {
		step = -step
	}

	// SAMPLING: step outward while the text still matches.
	inside := cfg.clamp(start)
	outside := -1
	cur := inside
	for i := 0; i < cfg.maxJumps(); i++ {
		next := cfg.clamp(cur + step)
		if next == cur {
			// Recording edge reached with the text still visible.
			return cur, true, nil
		}
		matched, err := b.probe.MatchAt(ctx, next)
		if err != nil {
			return 0, false, err
		}
		if matched {
			inside = next
			cur = next
			continue
		}
		outside = next
		break
	}
	if outside < 0 {
		// Budget exhausted without the text ever disappearing: clamp to the
		// recording boundary in the search direction.
		edge := 0
		if dir == types.After {
			edge = cfg.TotalFrames - 1
		}
		return edge, true, nil
	}

	// REFINING: binary search the open interval (inside, outside) to the
	// single-frame boundary. At most log2(jump) probes.
	for absDiff(outside, inside) > 1 {
		mid := (inside + outside) / 2
		matched, err := b.probe.MatchAt(ctx, mid)
		if err != nil {
			return 0, false, err
		}
		if matched {
			inside = mid
		} else {
			outside = mid
		}
	}
	return outside, false, nil
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
