package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zeroVector() Smoothed {
	v := make(Vector, len(Labels))
	for _, l := range Labels {
		v[l] = 0
	}
	return Smoothed{Emotions: v, Dominant: "neutral"}
}

func TestScoreAllZeroVector(t *testing.T) {
	a := NewAggregator(DefaultCoefficients(), 30)
	confidence, engagement, composure := a.Score(zeroVector())

	assert.Equal(t, 0.0, confidence)
	assert.Equal(t, 0.0, engagement)
	// composure starts from its fixed 100 baseline and only drops with
	// negative affect
	assert.Equal(t, 100.0, composure)
}

func TestScoreStaysInRange(t *testing.T) {
	a := NewAggregator(DefaultCoefficients(), 30)

	extremes := []Smoothed{
		{Emotions: Vector{"happy": 100, "neutral": 100}},
		{Emotions: Vector{"fear": 100, "sad": 100, "angry": 100}},
		{Emotions: Vector{"happy": 100, "fear": 100, "sad": 100, "angry": 100, "neutral": 100, "surprise": 100, "disgust": 100}},
		{Emotions: Vector{}},
	}
	for _, s := range extremes {
		confidence, engagement, composure := a.Score(s)
		for _, m := range []float64{confidence, engagement, composure} {
			assert.GreaterOrEqual(t, m, 0.0)
			assert.LessOrEqual(t, m, 100.0)
		}
	}
}

func TestScoreKnownValues(t *testing.T) {
	a := NewAggregator(DefaultCoefficients(), 30)
	s := Smoothed{Emotions: Vector{"happy": 50, "neutral": 40, "fear": 10}}

	confidence, engagement, composure := a.Score(s)
	// positive = 50 + 0.7*40 = 78; negative = 10
	assert.InDelta(t, 78*1.2-10*0.3, confidence, 1e-9)
	assert.InDelta(t, (40*0.9+50)*1.1, engagement, 1e-9)
	assert.InDelta(t, 100-10*0.4, composure, 1e-9)
}

func TestHistoryBounded(t *testing.T) {
	a := NewAggregator(DefaultCoefficients(), 30)
	for i := 0; i < 45; i++ {
		a.Update(i, Smoothed{Emotions: Vector{"happy": 50}, Dominant: "happy"})
	}

	hist := a.History()
	require.Len(t, hist, 30)
	// oldest evicted: the first surviving point is from second 15
	assert.Equal(t, 15, hist[0].Time)
	assert.Equal(t, 44, hist[len(hist)-1].Time)
}

func TestDistributionCountsDominant(t *testing.T) {
	a := NewAggregator(DefaultCoefficients(), 30)
	a.Update(0, Smoothed{Emotions: Vector{"happy": 90}, Dominant: "happy"})
	a.Update(1, Smoothed{Emotions: Vector{"happy": 80}, Dominant: "happy"})
	a.Update(2, Smoothed{Emotions: Vector{"neutral": 70}, Dominant: "neutral"})

	dist := a.Distribution()
	assert.Equal(t, 2, dist["happy"])
	assert.Equal(t, 1, dist["neutral"])
}

func TestSummaryAverages(t *testing.T) {
	a := NewAggregator(DefaultCoefficients(), 30)

	// neutral-only frames: confidence 84, engagement 99, composure 100
	for i := 0; i < 4; i++ {
		a.Update(i, Smoothed{Emotions: Vector{"neutral": 100}, Dominant: "neutral"})
	}

	s := a.Summary()
	require.Equal(t, 4, s.Samples)
	assert.InDelta(t, 84, s.AvgConfidence, 1e-9)
	assert.InDelta(t, 99, s.AvgEngagement, 1e-9)
	assert.InDelta(t, 100, s.AvgComposure, 1e-9)
	assert.Equal(t, 94, s.Overall)
}

func TestSummaryEmpty(t *testing.T) {
	a := NewAggregator(DefaultCoefficients(), 30)
	s := a.Summary()
	assert.Equal(t, 0, s.Samples)
	assert.Equal(t, 0, s.Overall)
}

func TestResetClearsHistoryAndDistribution(t *testing.T) {
	a := NewAggregator(DefaultCoefficients(), 30)
	a.Update(0, Smoothed{Emotions: Vector{"happy": 50}, Dominant: "happy"})
	a.Reset()

	assert.Empty(t, a.History())
	assert.Empty(t, a.Distribution())
}
