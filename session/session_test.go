package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/virtuesense/capture-pipeline/config"
)

// fakes shared by the session tests

type fakeRecording struct {
	mu        sync.Mutex
	startedAt time.Time
	stoppedAt time.Time
	data      []byte
}

func (r *fakeRecording) Stop() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stoppedAt.IsZero() {
		r.stoppedAt = time.Now()
	}
	return r.data, nil
}

func (r *fakeRecording) stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.stoppedAt.IsZero()
}

func (r *fakeRecording) window() (time.Time, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startedAt, r.stoppedAt
}

type fakeDevice struct {
	mu       sync.Mutex
	frames   int
	frameErr error
	recData  []byte
	recs     []*fakeRecording
	closed   bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{recData: make([]byte, 100)}
}

func (d *fakeDevice) CaptureFrame(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, errors.New("device closed")
	}
	if d.frameErr != nil {
		return nil, d.frameErr
	}
	d.frames++
	return []byte("frame"), nil
}

func (d *fakeDevice) StartRecording() (Recording, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, errors.New("device closed")
	}
	rec := &fakeRecording{startedAt: time.Now(), data: d.recData}
	d.recs = append(d.recs, rec)
	return rec, nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDevice) recordings() []*fakeRecording {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*fakeRecording, len(d.recs))
	copy(out, d.recs)
	return out
}

func (d *fakeDevice) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// testConfig shrinks every interval to millisecond scale so a whole
// session fits in a fraction of a second of test time.
func testConfig() *config.Root {
	cfg := config.Default()
	cfg.Capture.VideoInterval = 10 * time.Millisecond
	cfg.Capture.WarmupDelay = 5 * time.Millisecond
	cfg.Capture.ChunkDuration = 80 * time.Millisecond
	cfg.Capture.ChunkSpacing = 50 * time.Millisecond
	cfg.Capture.StaggerOffsets = []time.Duration{
		5 * time.Millisecond,
		55 * time.Millisecond,
		105 * time.Millisecond,
	}
	cfg.Capture.MinChunkBytes = 10
	return cfg
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func openerFor(dev Device) DeviceOpener {
	return func(ctx context.Context) (Device, error) { return dev, nil }
}
