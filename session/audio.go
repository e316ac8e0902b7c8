package session

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/virtuesense/capture-pipeline/transcript"
)

// audioLoop schedules overlapping audio chunks: after the device warm-up,
// the first chunks fire at the configured stagger offsets and then settle
// into a steady cadence. With an 8s chunk every 6s, consecutive chunks
// overlap by 2s so no speech is lost at chunk boundaries; at most two
// recordings run at once. One goroutine owns all the timers, so a cancel
// tears the whole schedule down atomically.
func (c *Controller) audioLoop(ctx context.Context, dev Device, sid string) {
	defer c.loops.Done()
	log := c.log.WithField("loop", "audio")

	// let the device stabilize before the first capture
	warmup := time.NewTimer(c.cfg.Capture.WarmupDelay)
	select {
	case <-ctx.Done():
		warmup.Stop()
		return
	case <-warmup.C:
	}
	log.Debug("audio scheduler started")

	offsets := c.cfg.Capture.StaggerOffsets
	spacing := c.cfg.Capture.ChunkSpacing
	fireAt := func(i int) time.Duration {
		if i < len(offsets) {
			return offsets[i]
		}
		last := time.Duration(0)
		if len(offsets) > 0 {
			last = offsets[len(offsets)-1]
		}
		return last + spacing*time.Duration(i-len(offsets)+1)
	}

	base := time.Now()
	chunkID := 0
	for i := 0; ; i++ {
		wait := time.Until(base.Add(fireAt(i)))
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		rec, err := dev.StartRecording()
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).Warn("start recording failed")
			}
			continue
		}
		id := chunkID
		chunkID++
		c.chunks.Add(1)
		go c.runChunk(ctx, rec, id, sid, log)
	}
}

// runChunk lets one recording run for the chunk duration, or force-stops
// it when the session is cancelled mid-chunk. The completed chunk is
// dispatched for transcription only if it clears the silence threshold.
func (c *Controller) runChunk(ctx context.Context, rec Recording, id int, sid string, log *logrus.Entry) {
	defer c.chunks.Done()
	log = log.WithField("chunk_id", id)

	timer := time.NewTimer(c.cfg.Capture.ChunkDuration)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
		log.Debug("force-stopping recording")
	}

	data, err := rec.Stop()
	if err != nil {
		log.WithError(err).Warn("stop recording failed")
		return
	}
	if len(data) < c.cfg.Capture.MinChunkBytes {
		log.WithField("bytes", len(data)).Debug("chunk below silence threshold, dropped")
		return
	}
	go c.transcribeChunk(data, id, sid, log)
}

// transcribeChunk ships one chunk to the transcription collaborator and
// routes the accepted text onward. Responses may arrive in any order
// relative to capture; the deduplicator is built for that. A result that
// lands after its session ended is silently dropped.
func (c *Controller) transcribeChunk(data []byte, id int, sid string, log *logrus.Entry) {
	text, err := c.remotes.Transcription.Transcribe(context.Background(), data)
	if err != nil {
		log.WithError(err).Warn("transcription failed")
		return
	}
	if !c.active.Load() || !c.sameSession(sid) {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.dataMu.Lock()
	dedup := c.dedup
	c.dataMu.Unlock()

	dec := dedup.Accept(text, id, time.Now())
	log.WithField("decision", dec.Op.String()).Info("transcript segment")
	if dec.Op == transcript.Discard {
		return
	}

	if c.remotes.Voice == nil {
		return
	}
	// rough duration estimate from the compressed payload size
	estimated := float64(len(data)) / 1024 * 0.1
	va, err := c.remotes.Voice.AnalyzeVoice(context.Background(), data, text, estimated)
	if err != nil {
		log.WithError(err).Warn("voice analysis failed")
		return
	}
	if !c.active.Load() || !c.sameSession(sid) {
		return
	}
	c.dataMu.Lock()
	c.voice = va
	c.dataMu.Unlock()
}
