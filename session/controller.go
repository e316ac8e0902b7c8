package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/virtuesense/capture-pipeline/clients"
	"github.com/virtuesense/capture-pipeline/config"
	"github.com/virtuesense/capture-pipeline/emotion"
	"github.com/virtuesense/capture-pipeline/transcript"
)

// State is the session lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateActive
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateActive:
		return "active"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Controller owns one practice session end to end: it acquires and
// releases the capture device, runs the video sampling loop and the audio
// chunk scheduler, and holds the buffers both feed. Exactly one session is
// active at a time; Start and Stop bracket it.
type Controller struct {
	cfg     *config.Root
	open    DeviceOpener
	remotes Remotes
	log     *logrus.Entry

	mu     sync.Mutex // state machine
	state  State
	dev    Device
	cancel context.CancelFunc

	loops  sync.WaitGroup // the two loop goroutines
	chunks sync.WaitGroup // recordings not yet finalized

	active atomic.Bool

	dataMu    sync.Mutex // session-owned buffers and latest results
	id        string
	startedAt time.Time
	elapsed   time.Duration // frozen at stop
	smoother  *emotion.Smoother
	agg       *emotion.Aggregator
	dedup     *transcript.Deduplicator
	latest    *emotion.Smoothed
	faceCount int
	faces     []clients.FaceRegion
	voice     *clients.VoiceResponse
}

// Snapshot is a point-in-time read of everything a consumer renders.
type Snapshot struct {
	SessionID    string
	State        State
	Elapsed      time.Duration
	Emotion      *emotion.Smoothed
	FaceCount    int
	Faces        []clients.FaceRegion
	Metrics      []emotion.Point
	Distribution map[string]int
	Summary      emotion.Summary
	Transcript   []transcript.Segment
	Voice        *clients.VoiceResponse
}

func NewController(cfg *config.Root, open DeviceOpener, remotes Remotes, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := &Controller{
		cfg:     cfg,
		open:    open,
		remotes: remotes,
		log:     log.WithField("component", "session"),
	}
	c.resetBuffers()
	return c
}

// resetBuffers installs fresh session-owned state. Caller must not hold
// dataMu.
func (c *Controller) resetBuffers() {
	coeffs := emotion.Coefficients{
		NeutralPositive:   c.cfg.Metrics.NeutralPositive,
		ConfidenceGain:    c.cfg.Metrics.ConfidenceGain,
		NegativePenalty:   c.cfg.Metrics.NegativePenalty,
		EngagementNeutral: c.cfg.Metrics.EngagementNeutral,
		EngagementGain:    c.cfg.Metrics.EngagementGain,
		ComposurePenalty:  c.cfg.Metrics.ComposurePenalty,
	}
	c.dataMu.Lock()
	defer c.dataMu.Unlock()
	c.smoother = emotion.NewSmoother(c.cfg.Smoothing.Window)
	c.agg = emotion.NewAggregator(coeffs, c.cfg.Metrics.HistorySize)
	c.dedup = transcript.NewDeduplicator(transcript.Config{
		CompareDepth:        c.cfg.Dedup.CompareDepth,
		WindowSize:          c.cfg.Dedup.WindowSize,
		SimilarityThreshold: c.cfg.Dedup.SimilarityThreshold,
		OverlapThreshold:    c.cfg.Dedup.OverlapThreshold,
		SubsetRatio:         c.cfg.Dedup.SubsetRatio,
		SupersetRatio:       c.cfg.Dedup.SupersetRatio,
	})
	c.latest = nil
	c.faceCount = 0
	c.faces = nil
	c.voice = nil
	c.elapsed = 0
}

// Start acquires the capture device and brings the session to Active: the
// video loop starts immediately, the audio scheduler after a short
// warm-up so the device can stabilize. Fails with ErrDeviceUnavailable if
// acquisition is denied, in which case the state reverts to Idle. ctx
// bounds acquisition and the loops' lifetime; Stop still releases.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("start: session is %s", state)
	}
	c.state = StateStarting
	c.mu.Unlock()

	dev, err := c.open(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	c.resetBuffers()
	sid := uuid.NewString()
	c.dataMu.Lock()
	c.id = sid
	c.startedAt = time.Now()
	c.dataMu.Unlock()

	sctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.dev = dev
	c.cancel = cancel
	c.state = StateActive
	c.mu.Unlock()
	c.active.Store(true)

	c.loops.Add(2)
	go c.videoLoop(sctx, dev, sid)
	go c.audioLoop(sctx, dev, sid)

	c.log.WithField("session_id", sid).Info("session started")
	return nil
}

// Stop cancels both loops, force-stops any in-flight recording, releases
// the capture device and clears the smoothing and dedup windows.
// Idempotent; a no-op unless the session is Active. Every release step
// runs unconditionally: no device handle survives a stop.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return
	}
	c.state = StateStopping
	cancel := c.cancel
	dev := c.dev
	c.cancel = nil
	c.dev = nil
	c.mu.Unlock()

	c.active.Store(false)
	cancel()
	c.loops.Wait()
	c.chunks.Wait()

	if err := dev.Close(); err != nil {
		c.log.WithError(err).Warn("device release failed")
	}

	c.dataMu.Lock()
	c.elapsed = time.Since(c.startedAt)
	c.smoother.Reset()
	c.dedup.ResetWindow()
	sid := c.id
	c.dataMu.Unlock()

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	c.log.WithField("session_id", sid).Info("session stopped")
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Elapsed is the running session time, frozen once the session stops.
func (c *Controller) Elapsed() time.Duration {
	c.dataMu.Lock()
	defer c.dataMu.Unlock()
	if c.active.Load() {
		return time.Since(c.startedAt)
	}
	return c.elapsed
}

// Snapshot returns the current displayable state. Valid in any lifecycle
// phase; after a stop it keeps serving the finished session's results
// until the next Start.
func (c *Controller) Snapshot() Snapshot {
	state := c.State()

	c.dataMu.Lock()
	defer c.dataMu.Unlock()

	elapsed := c.elapsed
	if c.active.Load() {
		elapsed = time.Since(c.startedAt)
	}
	faces := make([]clients.FaceRegion, len(c.faces))
	copy(faces, c.faces)

	return Snapshot{
		SessionID:    c.id,
		State:        state,
		Elapsed:      elapsed,
		Emotion:      c.latest,
		FaceCount:    c.faceCount,
		Faces:        faces,
		Metrics:      c.agg.History(),
		Distribution: c.agg.Distribution(),
		Summary:      c.agg.Summary(),
		Transcript:   c.dedup.Segments(),
		Voice:        c.voice,
	}
}

// EvaluateAnswer joins everything transcribed so far and asks the
// evaluation collaborator to grade it against the question.
func (c *Controller) EvaluateAnswer(ctx context.Context, question string) (*clients.Evaluation, error) {
	if c.remotes.Evaluation == nil {
		return nil, errors.New("no evaluation service configured")
	}
	c.dataMu.Lock()
	answer := c.dedup.Answer()
	c.dataMu.Unlock()
	if answer == "" {
		return nil, errors.New("nothing transcribed yet")
	}
	return c.remotes.Evaluation.EvaluateAnswer(ctx, question, answer)
}

// sameSession reports whether results tagged with sid still belong to the
// current session; stale results from a previous run are dropped.
func (c *Controller) sameSession(sid string) bool {
	c.dataMu.Lock()
	defer c.dataMu.Unlock()
	return c.id == sid
}
