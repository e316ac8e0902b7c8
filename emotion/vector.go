// Package emotion turns noisy per-frame emotion classifications into a
// stable, displayable state and a bounded series of scalar performance
// metrics.
package emotion

// Labels is the fixed emotion label set, in tie-break priority order for
// dominant-emotion selection.
var Labels = []string{"happy", "sad", "angry", "surprise", "fear", "disgust", "neutral"}

// Vector maps an emotion label to a score in [0,100]. One Vector is
// produced per successful frame analysis and replaced each cycle.
type Vector map[string]float64

func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}
