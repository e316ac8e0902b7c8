package transcript

import (
	"strings"
	"sync"
	"time"
)

// Op is the outcome of offering a candidate transcription.
type Op int

const (
	// Keep accepts the candidate as new content.
	Keep Op = iota
	// Discard drops the candidate as a re-hearing of accepted content.
	Discard
	// Replace accepts the candidate and removes the shorter accepted
	// string it extends.
	Replace
)

func (o Op) String() string {
	switch o {
	case Keep:
		return "keep"
	case Discard:
		return "discard"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// Decision reports what Accept did with a candidate. Replaced carries the
// superseded text when Op is Replace.
type Decision struct {
	Op       Op
	Replaced string
}

// Segment is one accepted piece of the session transcript. Immutable once
// created; removed only when superseded by an extension of itself.
type Segment struct {
	Text      string
	Timestamp time.Time
	ChunkID   int
}

// Config are the deduplication thresholds. Zero values are replaced by the
// product defaults.
type Config struct {
	CompareDepth        int     // accepted strings to compare against
	WindowSize          int     // accepted strings to retain
	SimilarityThreshold float64 // edit-similarity floor for rule C
	OverlapThreshold    float64 // token-overlap floor for rule C
	SubsetRatio         float64 // max candidate/old length for rule A
	SupersetRatio       float64 // min candidate/old length for rule B
}

func (c Config) withDefaults() Config {
	if c.CompareDepth == 0 {
		c.CompareDepth = 3
	}
	if c.WindowSize == 0 {
		c.WindowSize = 5
	}
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = 0.75
	}
	if c.OverlapThreshold == 0 {
		c.OverlapThreshold = 0.8
	}
	if c.SubsetRatio == 0 {
		c.SubsetRatio = 0.9
	}
	if c.SupersetRatio == 0 {
		c.SupersetRatio = 1.2
	}
	return c
}

// Deduplicator filters transcription results arriving from overlapping
// audio chunks. Chunks overlap on purpose, so near-duplicates are
// expected; results also complete out of capture order, so every rule is
// order-tolerant. The heuristic prefers false negatives (keeping a
// near-duplicate) over false positives (losing real speech).
type Deduplicator struct {
	mu       sync.Mutex
	cfg      Config
	recent   []string  // accepted strings, oldest first
	segments []Segment // newest first
	answer   []string  // acceptance order, for answer evaluation
}

func NewDeduplicator(cfg Config) *Deduplicator {
	return &Deduplicator{cfg: cfg.withDefaults()}
}

// Accept offers one transcription result. The candidate is compared
// against the most recent accepted strings:
//
//   - rule A: candidate is contained in an accepted string and clearly
//     shorter — a truncated re-hearing, discard.
//   - rule B: candidate contains an accepted string and is clearly longer
//     — a continuation of the same utterance; the old segment is removed
//     and the candidate accepted in its place.
//   - rule C: high edit similarity and high token overlap — discard.
//
// Anything else is kept.
func (d *Deduplicator) Accept(text string, chunkID int, at time.Time) Decision {
	text = strings.TrimSpace(text)
	if text == "" {
		return Decision{Op: Discard}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	candLower := strings.ToLower(text)
	compare := d.recent
	if len(compare) > d.cfg.CompareDepth {
		compare = compare[len(compare)-d.cfg.CompareDepth:]
	}

	for _, old := range compare {
		oldLower := strings.ToLower(old)
		similarity := Similarity(candLower, oldLower)
		inOld := strings.Contains(oldLower, candLower)
		oldInNew := strings.Contains(candLower, oldLower)

		if inOld && float64(len(text)) < float64(len(old))*d.cfg.SubsetRatio {
			return Decision{Op: Discard}
		}

		if oldInNew && float64(len(text)) > float64(len(old))*d.cfg.SupersetRatio {
			d.remove(old)
			d.push(text, chunkID, at)
			return Decision{Op: Replace, Replaced: old}
		}

		if TokenOverlap(candLower, oldLower) > d.cfg.OverlapThreshold && similarity > d.cfg.SimilarityThreshold {
			return Decision{Op: Discard}
		}
	}

	d.push(text, chunkID, at)
	return Decision{Op: Keep}
}

// push appends an accepted candidate everywhere. Caller holds the lock.
func (d *Deduplicator) push(text string, chunkID int, at time.Time) {
	d.recent = append(d.recent, text)
	if len(d.recent) > d.cfg.WindowSize {
		d.recent = d.recent[1:]
	}
	d.segments = append([]Segment{{Text: text, Timestamp: at, ChunkID: chunkID}}, d.segments...)
	d.answer = append(d.answer, text)
}

// remove drops a superseded string from the window, the segment list and
// the answer buffer. Caller holds the lock.
func (d *Deduplicator) remove(text string) {
	for i, s := range d.recent {
		if s == text {
			d.recent = append(d.recent[:i], d.recent[i+1:]...)
			break
		}
	}
	for i, s := range d.segments {
		if s.Text == text {
			d.segments = append(d.segments[:i], d.segments[i+1:]...)
			break
		}
	}
	for i, s := range d.answer {
		if s == text {
			d.answer = append(d.answer[:i], d.answer[i+1:]...)
			break
		}
	}
}

// Segments returns a copy of the transcript, newest first.
func (d *Deduplicator) Segments() []Segment {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Segment, len(d.segments))
	copy(out, d.segments)
	return out
}

// Answer joins everything accepted so far, in acceptance order.
func (d *Deduplicator) Answer() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.Join(d.answer, " ")
}

func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.segments)
}

// ResetWindow clears the comparison window only; accepted segments stay
// visible after a session ends.
func (d *Deduplicator) ResetWindow() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recent = nil
}

// Reset clears everything.
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recent = nil
	d.segments = nil
	d.answer = nil
}
