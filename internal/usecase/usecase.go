// Package usecase drives one full analysis run: sample the capture for
// trainer headers, then resolve each detection into exact cut points.
package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/forPelevin/furycut/internal/domain/detect"
	"github.com/forPelevin/furycut/internal/domain/match"
	"github.com/forPelevin/furycut/internal/domain/profile"
	"github.com/forPelevin/furycut/internal/domain/search"
	"github.com/forPelevin/furycut/internal/ports"
	"github.com/forPelevin/furycut/internal/types"
)

type Deps struct {
	Frames ports.FrameSource
	OCR    ports.TextRecognizer
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Profile  profile.Profile
	Trainers []string // optional roster override

	// Tuning constants, all in frames (see the CLI flags of the same names).
	JumpSize       int
	EarlyInterval  int
	NormalInterval int
	EarlyWindow    int // adaptive sampling switches to NormalInterval past this frame

	Workers int
	Logf    func(format string, args ...any)
}

type Result struct {
	Info    types.VideoInfo
	Battles []types.BattleSequence
}

// Run scans the capture at coarse intervals for trainer header text and, for
// every fresh detection, finds the battle's text boundaries and transition cut
// frames. Independent detections are processed on a bounded worker pool; the
// scan itself stays sequential.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	info, err := u.d.Frames.Probe(ctx)
	if err != nil {
		return Result{}, err
	}
	logf("capture: %dx%d, %.0f fps, %d frames (%.1fs)",
		info.Width, info.Height, info.FPS, info.TotalFrames, info.Seconds(info.TotalFrames))

	p := in.Profile
	if len(in.Trainers) > 0 {
		p.Trainers = in.Trainers
	}
	rules := match.RulesFor(p)

	sc := &scanner{
		deps:      u.d,
		profile:   p,
		rules:     rules,
		info:      info,
		extractor: detect.NewExtractor(u.d.OCR),
		texts:     make(map[int]string),
		trs:       make(map[int]types.Transition),
	}

	cfg := search.Config{
		JumpSize:    in.JumpSize,
		TotalFrames: info.TotalFrames,
		FPS:         info.FPS,
	}

	workers := in.Workers
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		sem       = make(chan struct{}, workers)
		resultsMu sync.Mutex
		battles   []types.BattleSequence
		firstErr  error
	)
	fail := func(err error) {
		resultsMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		resultsMu.Unlock()
		cancel()
	}

	seen := make(map[match.Identity][]int)
	frame := 0
	for frame < info.TotalFrames && ctx.Err() == nil {
		interval := in.NormalInterval
		if frame < in.EarlyWindow {
			interval = in.EarlyInterval
		}

		text, err := sc.textAt(ctx, frame)
		if err != nil {
			return Result{}, err
		}
		if id, ok := match.Match(text, rules); ok {
			if fresh(seen, id, frame, interval) {
				seen[id] = append(seen[id], frame)
				logf("found %s at frame %d (%.1fs)", id, frame, info.Seconds(frame))

				wg.Add(1)
				go func(id match.Identity, detected int) {
					defer wg.Done()
					sem <- struct{}{}
					defer func() { <-sem }()
					b, err := sc.resolve(ctx, cfg, id, detected)
					if err != nil {
						fail(err)
						return
					}
					resultsMu.Lock()
					battles = append(battles, b)
					resultsMu.Unlock()
				}(id, frame)
			}
		}

		frame += interval
	}

	wg.Wait()
	if firstErr != nil {
		return Result{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	battles = mergeOverlapping(battles)
	logf("found %d battles", len(battles))
	return Result{Info: info, Battles: battles}, nil
}

// fresh rejects a detection that sits too close to an earlier detection of the
// same trainer. Trainers that legitimately battle in rapid succession get a
// tighter window so consecutive battles are not collapsed into one.
func fresh(seen map[match.Identity][]int, id match.Identity, frame, interval int) bool {
	mult := 2
	if baseIdentity(id) == "kimono girl" {
		mult = 1
	}
	for _, d := range seen[id] {
		if absInt(frame-d) < interval*mult {
			return false
		}
	}
	return true
}

// scanner owns the per-run probe state shared by the scan loop and workers.
// The caches are the only shared mutable state; frame decoding itself is a
// stateless subprocess per call.
type scanner struct {
	deps      Deps
	profile   profile.Profile
	rules     []match.Rule
	info      types.VideoInfo
	extractor *detect.Extractor

	mu    sync.Mutex
	texts map[int]string
	trs   map[int]types.Transition
}

// textAt returns the normalized header text at a frame, memoized. Re-probing
// an unchanged frame would return identical recognizer output, so the cache is
// both a speedup and the reason recognition misses are never retried.
func (s *scanner) textAt(ctx context.Context, frame int) (string, error) {
	s.mu.Lock()
	if t, ok := s.texts[frame]; ok {
		s.mu.Unlock()
		return t, nil
	}
	s.mu.Unlock()

	img, err := s.deps.Frames.DecodeFrame(ctx, frame)
	if err != nil {
		return "", err
	}
	text, err := s.extractor.Extract(ctx, img, s.profile)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.texts[frame] = text
	s.mu.Unlock()
	return text, nil
}

func (s *scanner) transitionAt(ctx context.Context, frame int) (types.Transition, error) {
	s.mu.Lock()
	if tr, ok := s.trs[frame]; ok {
		s.mu.Unlock()
		return tr, nil
	}
	s.mu.Unlock()

	img, err := s.deps.Frames.DecodeFrame(ctx, frame)
	if err != nil {
		return types.TransitionNone, err
	}
	tr, _, err := detect.ClassifyTransition(img, s.profile.Gameplay)
	if err != nil {
		return types.TransitionNone, err
	}

	s.mu.Lock()
	s.trs[frame] = tr
	s.mu.Unlock()
	return tr, nil
}

// resolve turns one detection into a battle with committed cut points.
func (s *scanner) resolve(ctx context.Context, cfg search.Config, id match.Identity, detected int) (types.BattleSequence, error) {
	tp := &textProber{s: s, target: id}
	bnd, err := search.NewBoundary(tp, cfg)
	if err != nil {
		return types.BattleSequence{}, err
	}
	tr, err := search.NewTransition(&transitionProber{s: s}, cfg)
	if err != nil {
		return types.BattleSequence{}, err
	}

	edgeBefore, approxIn, err := bnd.Find(ctx, detected, types.Before)
	if err != nil {
		return types.BattleSequence{}, err
	}
	edgeAfter, approxOut, err := bnd.Find(ctx, detected, types.After)
	if err != nil {
		return types.BattleSequence{}, err
	}

	cutIn, inType, inFound, err := tr.Find(ctx, edgeBefore, detected, types.Before)
	if err != nil {
		return types.BattleSequence{}, err
	}
	cutOut, outType, outFound, err := tr.Find(ctx, edgeAfter, detected, types.After)
	if err != nil {
		return types.BattleSequence{}, err
	}

	needsReview := approxIn || approxOut || !inFound || !outFound

	// A battle shorter than the jump can leave the cut-out at or before the
	// cut-in; widen forward in two stages before giving up. The widened window
	// must produce a real battle span, otherwise the cut points are unreliable
	// and the result is flagged.
	if cutOut <= cutIn {
		cutOut, outType, outFound, err = s.widenForward(ctx, tr, cfg, cutIn)
		if err != nil {
			return types.BattleSequence{}, err
		}
		if !outFound || cutOut <= cutIn {
			cutOut = cfg.TotalFrames - 1
			outType = types.TransitionNone
			needsReview = true
		}
	}

	return types.BattleSequence{
		Trainer:       string(id),
		DetectedFrame: detected,
		CutInFrame:    cutIn,
		CutOutFrame:   cutOut,
		CutInSeconds:  s.info.Seconds(cutIn),
		CutOutSeconds: s.info.Seconds(cutOut),
		CutInType:     inType.String(),
		CutOutType:    outType.String(),
		NeedsReview:   needsReview,
	}, nil
}

// widenForward sweeps forward from the cut-in in two progressively wider
// windows (3 then 5 minutes) looking for any transition frame. The cut-in is
// the midpoint of its own fade run, so the sweep starts past that run's end;
// starting inside it would re-find the cut-in fade and re-center right back
// onto the cut-in.
func (s *scanner) widenForward(ctx context.Context, tr *search.Transition, cfg search.Config, cutIn int) (int, types.Transition, bool, error) {
	edge, err := s.exitRun(ctx, cfg, cutIn)
	if err != nil {
		return 0, types.TransitionNone, false, err
	}
	for _, win := range []float64{180, 300} {
		end := edge + int(cfg.FPS*win)
		if end >= cfg.TotalFrames {
			end = cfg.TotalFrames - 1
		}
		f, t, ok, err := tr.Sweep(ctx, edge, end)
		if err != nil {
			return 0, types.TransitionNone, false, err
		}
		if ok && f > cutIn {
			return f, t, true, nil
		}
	}
	return 0, types.TransitionNone, false, nil
}

// exitRun returns the first frame past the black/white run containing frame.
// Fade runs are short; the walk is bounded to a few seconds in case the crop
// is staring at a paused or corrupted stretch.
func (s *scanner) exitRun(ctx context.Context, cfg search.Config, frame int) (int, error) {
	f := frame + 1
	limit := frame + int(cfg.FPS*5)
	for f < cfg.TotalFrames && f <= limit {
		tr, err := s.transitionAt(ctx, f)
		if err != nil {
			return 0, err
		}
		if tr == types.TransitionNone {
			break
		}
		f++
	}
	return f, nil
}

type textProber struct {
	s      *scanner
	target match.Identity
}

func (p *textProber) MatchAt(ctx context.Context, frame int) (bool, error) {
	text, err := p.s.textAt(ctx, frame)
	if err != nil {
		return false, err
	}
	id, ok := match.Match(text, p.s.rules)
	return ok && baseIdentity(id) == baseIdentity(p.target), nil
}

type transitionProber struct{ s *scanner }

func (p *transitionProber) TransitionAt(ctx context.Context, frame int) (types.Transition, error) {
	return p.s.transitionAt(ctx, frame)
}

// baseIdentity strips a numbering suffix so "rival 2" and "rival 3" track the
// same header pattern during boundary probes.
func baseIdentity(id match.Identity) string {
	s := string(id)
	if i := strings.LastIndexByte(s, ' '); i > 0 {
		if rest := s[i+1:]; rest != "" && rest[0] >= '0' && rest[0] <= '9' {
			return s[:i]
		}
	}
	return s
}

// mergeOverlapping merges battles of the same trainer whose committed cut
// ranges intersect (duplicate detections of one battle). Distinct trainers are
// never merged, however close their ranges sit.
func mergeOverlapping(battles []types.BattleSequence) []types.BattleSequence {
	if len(battles) == 0 {
		return battles
	}
	byTrainer := make(map[string][]types.BattleSequence)
	for _, b := range battles {
		key := strings.ToLower(b.Trainer)
		byTrainer[key] = append(byTrainer[key], b)
	}

	var merged []types.BattleSequence
	for _, group := range byTrainer {
		sort.Slice(group, func(i, j int) bool { return group[i].CutInFrame < group[j].CutInFrame })
		cur := group[0]
		for _, next := range group[1:] {
			if next.CutInFrame <= cur.CutOutFrame {
				if next.CutOutFrame > cur.CutOutFrame {
					cur.CutOutFrame = next.CutOutFrame
					cur.CutOutSeconds = next.CutOutSeconds
					cur.CutOutType = next.CutOutType
				}
				cur.NeedsReview = cur.NeedsReview || next.NeedsReview
				continue
			}
			merged = append(merged, cur)
			cur = next
		}
		merged = append(merged, cur)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].CutInFrame < merged[j].CutInFrame })
	return merged
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
