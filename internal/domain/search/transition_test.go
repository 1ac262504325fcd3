package search

import (
	"context"
	"testing"

	"github.com/forPelevin/furycut/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScreen classifies frames from a fixed set of black/white runs.
type fakeScreen struct {
	runs   []screenRun
	probes int
}

type screenRun struct {
	from, to int
	tr       types.Transition
}

func (f *fakeScreen) TransitionAt(_ context.Context, frame int) (types.Transition, error) {
	f.probes++
	for _, r := range f.runs {
		if frame >= r.from && frame <= r.to {
			return r.tr, nil
		}
	}
	return types.TransitionNone, nil
}

func TestTransition_CutOutInBoundedWindow(t *testing.T) {
	fs := &fakeScreen{runs: []screenRun{{3040, 3060, types.TransitionBlack}}}
	tr, err := NewTransition(fs, testCfg(240, 100000))
	require.NoError(t, err)

	frame, kind, found, err := tr.Find(context.Background(), 3001, 2800, types.After)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, types.TransitionBlack, kind)
	assert.Equal(t, 3050, frame, "cut lands at the midpoint of the run")
}

func TestTransition_CutInPrefersClosestRun(t *testing.T) {
	// A white fade earlier in the pre-battle sequence must lose to the black
	// fade right before the battle.
	fs := &fakeScreen{runs: []screenRun{
		{800, 820, types.TransitionWhite},
		{950, 970, types.TransitionBlack},
	}}
	tr, err := NewTransition(fs, testCfg(240, 100000))
	require.NoError(t, err)

	frame, kind, found, err := tr.Find(context.Background(), 999, 1200, types.Before)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, types.TransitionBlack, kind)
	assert.Equal(t, 960, frame)
}

func TestTransition_CutInFineRetryCatchesShortRun(t *testing.T) {
	// Four frames of black slip between the coarse probes; the step-1 retry
	// over the same window must still find them.
	fs := &fakeScreen{runs: []screenRun{{942, 945, types.TransitionBlack}}}
	tr, err := NewTransition(fs, testCfg(240, 100000))
	require.NoError(t, err)

	frame, kind, found, err := tr.Find(context.Background(), 999, 1200, types.Before)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, types.TransitionBlack, kind)
	assert.Equal(t, 943, frame)
}

func TestTransition_CutOutExtendedWindow(t *testing.T) {
	// Run sits past the first window but inside the doubled one.
	fs := &fakeScreen{runs: []screenRun{{3400, 3420, types.TransitionWhite}}}
	tr, err := NewTransition(fs, testCfg(240, 100000))
	require.NoError(t, err)

	frame, kind, found, err := tr.Find(context.Background(), 3001, 2800, types.After)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, types.TransitionWhite, kind)
	assert.Equal(t, 3410, frame)
}

func TestTransition_ShortBattleFallbackSweep(t *testing.T) {
	// The battle is shorter than one jump, so the text edge sits nowhere near
	// the post-battle fade; the sweep anchored at the detection frame must
	// still reach it.
	fs := &fakeScreen{runs: []screenRun{{7000, 7020, types.TransitionBlack}}}
	tr, err := NewTransition(fs, testCfg(240, 100000))
	require.NoError(t, err)

	frame, kind, found, err := tr.Find(context.Background(), 1100, 1000, types.After)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, types.TransitionBlack, kind)
	assert.Equal(t, 7010, frame)
}

func TestTransition_CutOutNotFoundClampsToEnd(t *testing.T) {
	fs := &fakeScreen{}
	tr, err := NewTransition(fs, testCfg(240, 10000))
	require.NoError(t, err)

	frame, kind, found, err := tr.Find(context.Background(), 1100, 1000, types.After)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, types.TransitionNone, kind)
	assert.Equal(t, 9999, frame)
}

func TestTransition_CutInNotFoundFallsBackToDetection(t *testing.T) {
	fs := &fakeScreen{}
	tr, err := NewTransition(fs, testCfg(240, 10000))
	require.NoError(t, err)

	frame, kind, found, err := tr.Find(context.Background(), 999, 1200, types.Before)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, types.TransitionNone, kind)
	assert.Equal(t, 1200, frame)
}

func TestTransition_Sweep(t *testing.T) {
	fs := &fakeScreen{runs: []screenRun{{520, 540, types.TransitionBlack}}}
	tr, err := NewTransition(fs, testCfg(240, 100000))
	require.NoError(t, err)

	frame, kind, found, err := tr.Sweep(context.Background(), 500, 600)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, types.TransitionBlack, kind)
	assert.Equal(t, 530, frame)

	_, _, found, err = tr.Sweep(context.Background(), 600, 700)
	require.NoError(t, err)
	assert.False(t, found)
}
