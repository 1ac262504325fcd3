package search

import (
	"context"

	"github.com/forPelevin/furycut/internal/types"
)

// Scan steps for the tiered transition sweeps, in frames.
const (
	coarseStep   = 10
	fineStep     = 5
	fallbackFine = 30.0  // seconds: tight fallback sweep window
	fallbackWide = 120.0 // seconds: wide fallback sweep window
)

// Transition converts a text boundary into the exact black/white cut frame.
type Transition struct {
	probe TransitionProber
	cfg   Config
}

func NewTransition(probe TransitionProber, cfg Config) (*Transition, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Transition{probe: probe, cfg: cfg}, nil
}

// Find locates the transition frame for one battle edge. textEdge is the
// refined text boundary, detected the original detection frame (the fallback
// sweep anchors there: a battle shorter than one jump can push the text edge
// past useful transition frames entirely). For a cut-in the bounded window is
// scanned backward from the boundary so the transition closest to the battle
// wins over an earlier one (pre-battle sequences may fade white, show a
// graphic, then fade black right before the battle). For a cut-out the scan
// runs forward, widening twice before the linear fallback.
//
// found is false only when every phase failed; frame is then clamped to the
// last usable frame and the caller must surface the result as best-effort.
func (t *Transition) Find(ctx context.Context, textEdge, detected int, dir types.Direction) (frame int, tr types.Transition, found bool, err error) {
	cfg := t.cfg

	// Phase 1: bounded window around the text boundary.
	var from, to int
	if dir == types.Before {
		from, to = textEdge, cfg.clamp(textEdge-cfg.JumpSize)
	} else {
		from, to = cfg.clamp(textEdge-int(cfg.FPS*5)), cfg.clamp(textEdge+cfg.JumpSize)
	}
	if f, tr, ok, err := t.scan(ctx, from, to, coarseStep); err != nil || ok {
		return t.centered(ctx, f, tr, ok, err)
	}
	if dir == types.Before {
		// Cut-in gets a fine retry over the same window before giving up.
		if f, tr, ok, err := t.scan(ctx, from, to, 1); err != nil || ok {
			return t.centered(ctx, f, tr, ok, err)
		}
	}

	// Phase 2: extended forward window (cut-out only).
	if dir == types.After {
		ext := cfg.clamp(textEdge + 2*cfg.JumpSize)
		if f, tr, ok, err := t.scan(ctx, to, ext, coarseStep); err != nil || ok {
			return t.centered(ctx, f, tr, ok, err)
		}
	}

	// Phase 3: linear fallback sweep anchored at the detection point.
	if dir == types.Before {
		back := cfg.clamp(detected - int(cfg.FPS*60))
		if f, tr, ok, err := t.scan(ctx, detected, back, fineStep); err != nil || ok {
			return t.centered(ctx, f, tr, ok, err)
		}
		return cfg.clamp(detected), types.TransitionNone, false, nil
	}
	tight := cfg.clamp(detected + int(cfg.FPS*fallbackFine))
	if f, tr, ok, err := t.scan(ctx, detected, tight, fineStep); err != nil || ok {
		return t.centered(ctx, f, tr, ok, err)
	}
	wide := cfg.clamp(detected + int(cfg.FPS*fallbackWide))
	if f, tr, ok, err := t.scan(ctx, tight, wide, coarseStep); err != nil || ok {
		return t.centered(ctx, f, tr, ok, err)
	}
	// Sweep reached the end of the recording: clamp the cut to the last frame.
	return cfg.TotalFrames - 1, types.TransitionNone, false, nil
}

// Sweep linearly scans the inclusive range for any black or white frame and
// centers the hit on its run. Callers use it for sanity-widening passes
// outside the normal three phases.
func (t *Transition) Sweep(ctx context.Context, from, to int) (int, types.Transition, bool, error) {
	f, tr, ok, err := t.scan(ctx, from, to, coarseStep)
	return t.centered(ctx, f, tr, ok, err)
}

// scan walks from "from" toward "to" (either direction) in the given step and
// returns the first black or white frame.
func (t *Transition) scan(ctx context.Context, from, to, step int) (int, types.Transition, bool, error) {
	if step <= 0 {
		step = 1
	}
	if from > to {
		step = -step
	}
	for f := from; ; f += step {
		if (step > 0 && f > to) || (step < 0 && f < to) {
			return 0, types.TransitionNone, false, nil
		}
		tr, err := t.probe.TransitionAt(ctx, f)
		if err != nil {
			return 0, types.TransitionNone, false, err
		}
		if tr != types.TransitionNone {
			return f, tr, true, nil
		}
	}
}

// centered refines a hit to the midpoint of its black/white run, so the cut
// lands in the middle of the fade rather than at its first probed frame.
func (t *Transition) centered(ctx context.Context, f int, tr types.Transition, ok bool, err error) (int, types.Transition, bool, error) {
	if err != nil || !ok {
		return f, tr, ok, err
	}
	mid, cerr := t.runCenter(ctx, f)
	if cerr != nil {
		return 0, types.TransitionNone, false, cerr
	}
	return mid, tr, true, nil
}

// runCenter binary-searches the start and end of the black/white run that
// contains frame, looking up to two seconds out on each side, and returns the
// midpoint.
func (t *Transition) runCenter(ctx context.Context, frame int) (int, error) {
	window := int(t.cfg.FPS * 2)
	if window < 1 {
		window = 1
	}
	start, err := t.runEdge(ctx, t.cfg.clamp(frame-window), frame, true)
	if err != nil {
		return 0, err
	}
	end, err := t.runEdge(ctx, frame, t.cfg.clamp(frame+window), false)
	if err != nil {
		return 0, err
	}
	return (start + end) / 2, nil
}

// runEdge finds the first (findStart) or last frame of a black/white run by
// binary search. One endpoint must be inside the run and the other may not be;
// if both endpoints agree there is no edge in between and the in-run endpoint
// is returned.
func (t *Transition) runEdge(ctx context.Context, lo, hi int, findStart bool) (int, error) {
	loTr, err := t.probe.TransitionAt(ctx, lo)
	if err != nil {
		return 0, err
	}
	hiTr, err := t.probe.TransitionAt(ctx, hi)
	if err != nil {
		return 0, err
	}
	loIn, hiIn := loTr != types.TransitionNone, hiTr != types.TransitionNone
	if loIn == hiIn {
		if findStart {
			return lo, nil
		}
		return hi, nil
	}
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		tr, err := t.probe.TransitionAt(ctx, mid)
		if err != nil {
			return 0, err
		}
		in := tr != types.TransitionNone
		if findStart {
			if in {
				hi = mid
			} else {
				lo = mid
			}
		} else {
			if in {
				lo = mid
			} else {
				hi = mid
			}
		}
	}
	if findStart {
		return hi, nil
	}
	return lo, nil
}
