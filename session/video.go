package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/virtuesense/capture-pipeline/clients"
	"github.com/virtuesense/capture-pipeline/emotion"
)

// videoLoop samples one frame per tick and ships it for emotion analysis.
// Single-flight: a tick that lands while a previous analysis is still
// outstanding is skipped outright, never queued, so at most one
// video-analysis request is in flight. Per-tick failures are logged and
// swallowed; the previously displayed state persists.
func (c *Controller) videoLoop(ctx context.Context, dev Device, sid string) {
	defer c.loops.Done()
	log := c.log.WithField("loop", "video")

	ticker := time.NewTicker(c.cfg.Capture.VideoInterval)
	defer ticker.Stop()

	var inFlight atomic.Bool
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !inFlight.CompareAndSwap(false, true) {
				log.Debug("analysis in flight, skipping tick")
				continue
			}
			frame, err := dev.CaptureFrame(ctx)
			if err != nil {
				inFlight.Store(false)
				if ctx.Err() == nil {
					log.WithError(err).Warn("frame capture failed")
				}
				continue
			}
			go func() {
				defer inFlight.Store(false)
				resp, err := c.remotes.Emotion.AnalyzeEmotion(context.Background(), frame)
				if err != nil {
					log.WithError(err).Warn("frame analysis failed")
					return
				}
				c.applyFrame(sid, resp)
			}()
		}
	}
}

// applyFrame feeds one successful analysis result into the smoother and
// the metrics history. Results that outlive their session are dropped.
func (c *Controller) applyFrame(sid string, resp *clients.EmotionResponse) {
	if !c.active.Load() {
		return
	}

	c.dataMu.Lock()
	defer c.dataMu.Unlock()
	if c.id != sid {
		return
	}

	smoothed := c.smoother.Push(emotion.Vector(resp.Emotions))
	elapsed := int(time.Since(c.startedAt).Seconds())
	c.agg.Update(elapsed, smoothed)
	c.latest = &smoothed
	c.faceCount = resp.FaceCount
	c.faces = resp.Faces
}
