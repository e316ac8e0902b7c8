package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushIdenticalVectorsUnchanged(t *testing.T) {
	s := NewSmoother(5)
	v := Vector{"happy": 80, "neutral": 20, "sad": 0}

	var out Smoothed
	for i := 0; i < 5; i++ {
		out = s.Push(v)
	}

	assert.Equal(t, 5, s.Len())
	assert.InDelta(t, 80, out.Emotions["happy"], 1e-9)
	assert.InDelta(t, 20, out.Emotions["neutral"], 1e-9)
	assert.InDelta(t, 0, out.Emotions["sad"], 1e-9)
	assert.Equal(t, "happy", out.Dominant)
}

func TestWindowEvictsOldestFIFO(t *testing.T) {
	s := NewSmoother(5)

	// one outlier then five identical vectors
	s.Push(Vector{"happy": 100})
	for i := 0; i < 4; i++ {
		s.Push(Vector{"happy": 0, "sad": 50})
	}
	assert.Equal(t, 5, s.Len())

	// the sixth push evicts the outlier; the mean settles
	out := s.Push(Vector{"happy": 0, "sad": 50})
	assert.Equal(t, 5, s.Len())
	assert.InDelta(t, 0, out.Emotions["happy"], 1e-9)
	assert.InDelta(t, 50, out.Emotions["sad"], 1e-9)
	assert.Equal(t, "sad", out.Dominant)
}

func TestWindowNeverExceedsLimit(t *testing.T) {
	s := NewSmoother(5)
	for i := 0; i < 20; i++ {
		s.Push(Vector{"neutral": float64(i)})
		assert.LessOrEqual(t, s.Len(), 5)
	}
}

func TestMissingKeysCountAsZero(t *testing.T) {
	s := NewSmoother(5)
	s.Push(Vector{"happy": 100})
	out := s.Push(Vector{"happy": 100, "fear": 40})

	// fear appeared in only one of two frames
	assert.InDelta(t, 20, out.Emotions["fear"], 1e-9)
	assert.InDelta(t, 100, out.Emotions["happy"], 1e-9)
}

func TestDominantTieBreaksByLabelOrder(t *testing.T) {
	s := NewSmoother(5)
	out := s.Push(Vector{"neutral": 50, "sad": 50, "happy": 50})
	// happy precedes sad and neutral in the fixed label list
	assert.Equal(t, "happy", out.Dominant)
}

func TestResetEmptiesWindow(t *testing.T) {
	s := NewSmoother(5)
	s.Push(Vector{"happy": 10})
	s.Reset()
	require.Equal(t, 0, s.Len())

	// after reset the next vector stands alone
	out := s.Push(Vector{"happy": 70})
	assert.InDelta(t, 70, out.Emotions["happy"], 1e-9)
}

func TestPushCopiesInput(t *testing.T) {
	s := NewSmoother(5)
	v := Vector{"happy": 10}
	s.Push(v)
	v["happy"] = 99

	out := s.Push(Vector{"happy": 10})
	assert.InDelta(t, 10, out.Emotions["happy"], 1e-9)
}
