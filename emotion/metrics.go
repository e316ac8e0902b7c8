package emotion

import (
	"math"
	"sync"
)

// Coefficients is the weight set that maps a smoothed emotion vector to
// the scalar performance metrics. All outputs are clamped to [0,100].
type Coefficients struct {
	NeutralPositive   float64 // share of neutral counted as positive affect
	ConfidenceGain    float64
	NegativePenalty   float64
	EngagementNeutral float64
	EngagementGain    float64
	ComposurePenalty  float64
}

// DefaultCoefficients is the canonical set from the practice dashboard.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		NeutralPositive:   0.7,
		ConfidenceGain:    1.2,
		NegativePenalty:   0.3,
		EngagementNeutral: 0.9,
		EngagementGain:    1.1,
		ComposurePenalty:  0.4,
	}
}

// Point is one sample of the live metric series.
type Point struct {
	Time       int // elapsed whole seconds since session start
	Confidence float64
	Engagement float64
	Composure  float64
}

// Summary aggregates a finished (or running) session's metric history.
type Summary struct {
	Samples       int
	AvgConfidence float64
	AvgEngagement float64
	AvgComposure  float64
	Overall       int // rounded mean of the three averages
}

// Aggregator derives scalar metrics from each smoothed emotion state and
// keeps a bounded history plus a dominant-emotion tally. Safe for
// concurrent use: the video loop writes, snapshots read.
type Aggregator struct {
	mu           sync.Mutex
	coeffs       Coefficients
	cap          int
	history      []Point
	distribution map[string]int
}

func NewAggregator(coeffs Coefficients, historyCap int) *Aggregator {
	if historyCap < 1 {
		historyCap = 1
	}
	return &Aggregator{
		coeffs:       coeffs,
		cap:          historyCap,
		distribution: make(map[string]int),
	}
}

// Score is the pure derivation: smoothed vector in, clamped metrics out.
func (a *Aggregator) Score(s Smoothed) (confidence, engagement, composure float64) {
	e := s.Emotions
	positive := e["happy"] + e["neutral"]*a.coeffs.NeutralPositive
	negative := e["fear"] + e["sad"] + e["angry"]

	confidence = clamp(positive*a.coeffs.ConfidenceGain - negative*a.coeffs.NegativePenalty)
	engagement = clamp((e["neutral"]*a.coeffs.EngagementNeutral + e["happy"]) * a.coeffs.EngagementGain)
	composure = clamp(100 - negative*a.coeffs.ComposurePenalty)
	return confidence, engagement, composure
}

// Update scores one smoothed state, appends it to the bounded history and
// counts its dominant emotion.
func (a *Aggregator) Update(elapsed int, s Smoothed) Point {
	confidence, engagement, composure := a.Score(s)
	p := Point{Time: elapsed, Confidence: confidence, Engagement: engagement, Composure: composure}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, p)
	if len(a.history) > a.cap {
		a.history = a.history[len(a.history)-a.cap:]
	}
	if s.Dominant != "" {
		a.distribution[s.Dominant]++
	}
	return p
}

// History returns a copy of the current metric series, oldest first.
func (a *Aggregator) History() []Point {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Point, len(a.history))
	copy(out, a.history)
	return out
}

// Distribution returns a copy of the dominant-emotion tally.
func (a *Aggregator) Distribution() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]int, len(a.distribution))
	for k, n := range a.distribution {
		out[k] = n
	}
	return out
}

func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{Samples: len(a.history)}
	if s.Samples == 0 {
		return s
	}
	for _, p := range a.history {
		s.AvgConfidence += p.Confidence
		s.AvgEngagement += p.Engagement
		s.AvgComposure += p.Composure
	}
	n := float64(s.Samples)
	s.AvgConfidence /= n
	s.AvgEngagement /= n
	s.AvgComposure /= n
	s.Overall = int(math.Round((s.AvgConfidence + s.AvgEngagement + s.AvgComposure) / 3))
	return s
}

func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = nil
	a.distribution = make(map[string]int)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
