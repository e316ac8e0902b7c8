package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtuesense/capture-pipeline/clients"
)

func TestSingleFlightHolds(t *testing.T) {
	dev := newFakeDevice()

	var inFlight, maxInFlight, calls atomic.Int64
	analyzer := FrameAnalyzerFunc(func(ctx context.Context, frame []byte) (*clients.EmotionResponse, error) {
		calls.Add(1)
		cur := inFlight.Add(1)
		for {
			prev := maxInFlight.Load()
			if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
				break
			}
		}
		// far slower than the 10ms tick interval
		time.Sleep(60 * time.Millisecond)
		inFlight.Add(-1)
		return &clients.EmotionResponse{Success: true, Emotions: map[string]float64{"neutral": 50}}, nil
	})

	ctrl := NewController(testConfig(), openerFor(dev), Remotes{
		Emotion:       analyzer,
		Transcription: silentTranscriber(),
	}, quietLogger())

	require.NoError(t, ctrl.Start(context.Background()))
	time.Sleep(150 * time.Millisecond)
	ctrl.Stop()

	assert.Equal(t, int64(1), maxInFlight.Load(), "no second analysis may start before the first resolves")
	// ~15 ticks elapsed but only one call per 60ms slot
	assert.LessOrEqual(t, calls.Load(), int64(4))
	assert.GreaterOrEqual(t, calls.Load(), int64(1))
}

func TestAnalysisFailuresDoNotStopLoop(t *testing.T) {
	dev := newFakeDevice()

	var calls atomic.Int64
	analyzer := FrameAnalyzerFunc(func(ctx context.Context, frame []byte) (*clients.EmotionResponse, error) {
		calls.Add(1)
		return nil, errors.New("boom")
	})

	ctrl := NewController(testConfig(), openerFor(dev), Remotes{
		Emotion:       analyzer,
		Transcription: silentTranscriber(),
	}, quietLogger())

	require.NoError(t, ctrl.Start(context.Background()))
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, StateActive, ctrl.State(), "failures must never end the session")
	assert.GreaterOrEqual(t, calls.Load(), int64(3), "loop keeps ticking through failures")

	// nothing was applied: the displayed state stays empty
	assert.Nil(t, ctrl.Snapshot().Emotion)
	ctrl.Stop()
}

func TestFrameCaptureFailureSkipsTick(t *testing.T) {
	dev := newFakeDevice()
	dev.frameErr = errors.New("no frame")

	var calls atomic.Int64
	analyzer := FrameAnalyzerFunc(func(ctx context.Context, frame []byte) (*clients.EmotionResponse, error) {
		calls.Add(1)
		return &clients.EmotionResponse{Success: true, Emotions: map[string]float64{"neutral": 50}}, nil
	})

	ctrl := NewController(testConfig(), openerFor(dev), Remotes{
		Emotion:       analyzer,
		Transcription: silentTranscriber(),
	}, quietLogger())

	require.NoError(t, ctrl.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)
	ctrl.Stop()

	assert.Zero(t, calls.Load(), "no analysis without a captured frame")
}

func TestResultsFeedSmootherAndMetrics(t *testing.T) {
	dev := newFakeDevice()
	ctrl := NewController(testConfig(), openerFor(dev), Remotes{
		Emotion:       happyAnalyzer(),
		Transcription: silentTranscriber(),
	}, quietLogger())

	require.NoError(t, ctrl.Start(context.Background()))
	time.Sleep(80 * time.Millisecond)
	snap := ctrl.Snapshot()
	ctrl.Stop()

	require.NotNil(t, snap.Emotion)
	assert.Equal(t, "happy", snap.Emotion.Dominant)
	assert.Equal(t, 1, snap.FaceCount)
	require.Len(t, snap.Faces, 1)
	assert.NotEmpty(t, snap.Metrics)
	assert.Equal(t, snap.Distribution["happy"], len(snap.Metrics))
}
