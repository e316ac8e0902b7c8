package emotion

// Smoothed is the averaged emotion state over the current window plus the
// label with the highest averaged score.
type Smoothed struct {
	Emotions Vector
	Dominant string
}

// Smoother keeps a FIFO window of the last few raw vectors and serves
// their arithmetic mean. A moving average is enough to absorb single-frame
// misclassification noise; it lags true state by up to half the window.
//
// Not safe for concurrent use; the video loop owns it.
type Smoother struct {
	window  int
	history []Vector
}

func NewSmoother(window int) *Smoother {
	if window < 1 {
		window = 1
	}
	return &Smoother{window: window}
}

// Push adds one raw vector, evicting the oldest entry once the window is
// full, and returns the smoothed state. Keys absent from earlier entries
// count as zero, matching a face that only recently started showing an
// emotion.
func (s *Smoother) Push(v Vector) Smoothed {
	s.history = append(s.history, v.Clone())
	if len(s.history) > s.window {
		s.history = s.history[1:]
	}

	avg := make(Vector, len(v))
	for k := range v {
		sum := 0.0
		for _, h := range s.history {
			sum += h[k]
		}
		avg[k] = sum / float64(len(s.history))
	}

	return Smoothed{Emotions: avg, Dominant: dominant(avg)}
}

func (s *Smoother) Len() int { return len(s.history) }

func (s *Smoother) Reset() { s.history = nil }

// dominant picks the highest-scoring label, walking the fixed label list
// so ties resolve deterministically.
func dominant(v Vector) string {
	best := ""
	bestScore := 0.0
	for _, label := range Labels {
		score, ok := v[label]
		if !ok {
			continue
		}
		if best == "" || score > bestScore {
			best = label
			bestScore = score
		}
	}
	return best
}
