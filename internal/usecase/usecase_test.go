package usecase

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/forPelevin/furycut/internal/domain/profile"
	"github.com/forPelevin/furycut/internal/ports"
	"github.com/forPelevin/furycut/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVideo synthesizes 128x64 frames: a header region that carries a text-like
// gradient during battle frames and a gameplay region that goes black during
// fade frames. Everything else is flat gray so the pre-screen rejects it.
type fakeVideo struct {
	info    types.VideoInfo
	battles []frameRange // header text visible
	fades   []frameRange // gameplay region black

	mu      sync.Mutex
	decodes int
}

type frameRange struct{ from, to int }

func inRanges(rs []frameRange, frame int) bool {
	for _, r := range rs {
		if frame >= r.from && frame <= r.to {
			return true
		}
	}
	return false
}

func (v *fakeVideo) Probe(context.Context) (types.VideoInfo, error) {
	return v.info, nil
}

func (v *fakeVideo) DecodeFrame(_ context.Context, frame int) (image.Image, error) {
	v.mu.Lock()
	v.decodes++
	v.mu.Unlock()

	img := image.NewGray(image.Rect(0, 0, 128, 64))
	for y := 0; y < 32; y++ {
		for x := 0; x < 128; x++ {
			img.SetGray(x, y, color.Gray{Y: 90})
		}
	}
	gameplay := uint8(128)
	if inRanges(v.fades, frame) {
		gameplay = 0
	}
	for y := 32; y < 64; y++ {
		for x := 0; x < 128; x++ {
			img.SetGray(x, y, color.Gray{Y: gameplay})
		}
	}
	if inRanges(v.battles, frame) {
		for y := 4; y < 20; y++ {
			for x := 8; x < 56; x++ {
				img.SetGray(x, y, color.Gray{Y: uint8(x * 4)})
			}
		}
	}
	return img, nil
}

// fakeOCR always reads the same header; whether a frame "has text" is decided
// entirely by the pre-screen on the synthetic pixels.
type fakeOCR struct {
	mu    sync.Mutex
	calls int
}

func (r *fakeOCR) Recognize(context.Context, image.Image, ports.RecognizeMode) (string, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return "Cheren's TEAM\n", nil
}

func testProfile() profile.Profile {
	return profile.Profile{
		Name:       "Test",
		Version:    "test",
		Generation: profile.Gen5,
		Platform:   profile.NintendoDS,
		Family:     profile.FamilyTeam,
		Preprocess: profile.PreprocessRaw,
		OCRRegion:  types.Region{X: 8, Y: 4, Width: 48, Height: 16},
		Gameplay:   types.Region{X: 0, Y: 32, Width: 128, Height: 32},
		Trainers:   []string{"cheren"},
	}
}

func testInput(p profile.Profile) Input {
	return Input{
		Profile:        p,
		JumpSize:       96,
		EarlyInterval:  96,
		NormalInterval: 96,
		EarlyWindow:    0,
		Workers:        2,
	}
}

func TestRun_SingleBattleExactCuts(t *testing.T) {
	// Header visible on [1000, 1500] with a black fade on each side. The scan
	// samples the header at several frames, so the same battle is detected
	// more than once and the duplicates must merge to a single result.
	video := &fakeVideo{
		info:    types.VideoInfo{FPS: 24, TotalFrames: 6000, Width: 128, Height: 64},
		battles: []frameRange{{1000, 1500}},
		fades:   []frameRange{{940, 950}, {1550, 1560}},
	}
	u := New(Deps{Frames: video, OCR: &fakeOCR{}})

	res, err := u.Run(context.Background(), testInput(testProfile()))
	require.NoError(t, err)
	require.Len(t, res.Battles, 1)

	b := res.Battles[0]
	assert.Equal(t, "cheren", b.Trainer)
	assert.Equal(t, 945, b.CutInFrame, "cut-in at the fade run midpoint")
	assert.Equal(t, 1555, b.CutOutFrame, "cut-out at the fade run midpoint")
	assert.Equal(t, types.TransitionBlack.String(), b.CutInType)
	assert.Equal(t, types.TransitionBlack.String(), b.CutOutType)
	assert.False(t, b.NeedsReview)
	assert.InDelta(t, 945.0/24.0, b.CutInSeconds, 1e-9)
	assert.InDelta(t, 1555.0/24.0, b.CutOutSeconds, 1e-9)
}

func TestRun_NoTransitionsMarksNeedsReview(t *testing.T) {
	// Battle with no fade anywhere: both transition searches exhaust their
	// fallbacks. The battle is still reported, flagged for review, with the
	// cut-out clamped to the recording end.
	video := &fakeVideo{
		info:    types.VideoInfo{FPS: 24, TotalFrames: 6000, Width: 128, Height: 64},
		battles: []frameRange{{1000, 1500}},
	}
	u := New(Deps{Frames: video, OCR: &fakeOCR{}})

	res, err := u.Run(context.Background(), testInput(testProfile()))
	require.NoError(t, err)
	require.Len(t, res.Battles, 1)

	b := res.Battles[0]
	assert.True(t, b.NeedsReview)
	assert.Equal(t, 5999, b.CutOutFrame)
}

func TestRun_ShortBattleWidensForward(t *testing.T) {
	// The battle is shorter than one jump, so the cut-out search latches onto
	// the pre-battle fade and lands at the cut-in. The widening sweep must
	// carry the cut-out forward to the real post-battle fade.
	video := &fakeVideo{
		info:    types.VideoInfo{FPS: 24, TotalFrames: 6000, Width: 128, Height: 64},
		battles: []frameRange{{1000, 1060}},
		fades:   []frameRange{{930, 950}, {2500, 2520}},
	}
	u := New(Deps{Frames: video, OCR: &fakeOCR{}})

	res, err := u.Run(context.Background(), testInput(testProfile()))
	require.NoError(t, err)
	require.Len(t, res.Battles, 1)

	b := res.Battles[0]
	assert.Equal(t, 940, b.CutInFrame)
	assert.Equal(t, 2510, b.CutOutFrame)
	assert.Greater(t, b.CutOutFrame, b.CutInFrame)
	assert.False(t, b.NeedsReview)
}

func TestRun_ShortBattleWithoutExitFadeFlagged(t *testing.T) {
	// Only the pre-battle fade exists, so both the cut-out search and the
	// widening sweeps keep landing on the cut-in's own fade run. The battle
	// must never ship with a zero-length window: the cut-out is clamped to
	// the recording end and the result flagged.
	video := &fakeVideo{
		info:    types.VideoInfo{FPS: 24, TotalFrames: 6000, Width: 128, Height: 64},
		battles: []frameRange{{1000, 1060}},
		fades:   []frameRange{{930, 950}},
	}
	u := New(Deps{Frames: video, OCR: &fakeOCR{}})

	res, err := u.Run(context.Background(), testInput(testProfile()))
	require.NoError(t, err)
	require.Len(t, res.Battles, 1)

	b := res.Battles[0]
	assert.Equal(t, 940, b.CutInFrame)
	assert.Equal(t, 5999, b.CutOutFrame)
	assert.Greater(t, b.CutOutFrame, b.CutInFrame)
	assert.True(t, b.NeedsReview)
	assert.Equal(t, types.TransitionNone.String(), b.CutOutType)
}

func TestRun_PreScreenLimitsRecognizerCalls(t *testing.T) {
	// Only battle frames may reach the recognizer; flat frames are rejected
	// by the pixel pre-screen.
	video := &fakeVideo{
		info:    types.VideoInfo{FPS: 24, TotalFrames: 6000, Width: 128, Height: 64},
		battles: []frameRange{{1000, 1500}},
		fades:   []frameRange{{940, 950}, {1550, 1560}},
	}
	ocr := &fakeOCR{}
	u := New(Deps{Frames: video, OCR: ocr})

	_, err := u.Run(context.Background(), testInput(testProfile()))
	require.NoError(t, err)

	// 501 battle frames bound the distinct frames that can pass the
	// pre-screen, and memoization keeps repeat probes free.
	assert.LessOrEqual(t, ocr.calls, 501)
	assert.Greater(t, ocr.calls, 0)
}

func TestMergeOverlapping(t *testing.T) {
	battles := []types.BattleSequence{
		{Trainer: "cheren", CutInFrame: 100, CutOutFrame: 500},
		{Trainer: "cheren", CutInFrame: 400, CutOutFrame: 700, NeedsReview: true},
		{Trainer: "cheren", CutInFrame: 900, CutOutFrame: 1000},
		{Trainer: "bianca", CutInFrame: 450, CutOutFrame: 650},
	}
	merged := mergeOverlapping(battles)
	require.Len(t, merged, 3)

	assert.Equal(t, "cheren", merged[0].Trainer)
	assert.Equal(t, 100, merged[0].CutInFrame)
	assert.Equal(t, 700, merged[0].CutOutFrame)
	assert.True(t, merged[0].NeedsReview, "review flag survives the merge")

	// Overlapping ranges of different trainers stay separate.
	assert.Equal(t, "bianca", merged[1].Trainer)
	assert.Equal(t, "cheren", merged[2].Trainer)
	assert.Equal(t, 900, merged[2].CutInFrame)
}

func TestBaseIdentity(t *testing.T) {
	assert.Equal(t, "rival", baseIdentity("rival 2"))
	assert.Equal(t, "rival", baseIdentity("rival"))
	assert.Equal(t, "kimono girl", baseIdentity("kimono girl"))
	assert.Equal(t, "tate&liza", baseIdentity("tate&liza"))
}
