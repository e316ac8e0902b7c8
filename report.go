package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/virtuesense/capture-pipeline/clients"
	"github.com/virtuesense/capture-pipeline/session"
)

// Report is the on-disk record of one finished practice session.
type Report struct {
	SessionID   string              `yaml:"session_id"`
	GeneratedAt time.Time           `yaml:"generated_at"`
	Elapsed     string              `yaml:"elapsed"`
	Overall     int                 `yaml:"overall_score"`
	Confidence  float64             `yaml:"avg_confidence"`
	Engagement  float64             `yaml:"avg_engagement"`
	Composure   float64             `yaml:"avg_composure"`
	Dominant    map[string]int      `yaml:"emotion_distribution,omitempty"`
	Transcript  []ReportSegment     `yaml:"transcript"`
	Voice       *ReportVoice        `yaml:"voice,omitempty"`
	Evaluation  *clients.Evaluation `yaml:"evaluation,omitempty"`
}

type ReportSegment struct {
	At      string `yaml:"at"`
	ChunkID int    `yaml:"chunk_id"`
	Text    string `yaml:"text"`
}

type ReportVoice struct {
	Confidence     float64 `yaml:"confidence"`
	Fluency        float64 `yaml:"fluency"`
	Nervousness    float64 `yaml:"nervousness"`
	WordsPerMinute float64 `yaml:"words_per_minute"`
}

func buildReport(snap session.Snapshot, eval *clients.Evaluation) Report {
	r := Report{
		SessionID:   snap.SessionID,
		GeneratedAt: time.Now(),
		Elapsed:     snap.Elapsed.Round(time.Second).String(),
		Overall:     snap.Summary.Overall,
		Confidence:  snap.Summary.AvgConfidence,
		Engagement:  snap.Summary.AvgEngagement,
		Composure:   snap.Summary.AvgComposure,
		Dominant:    snap.Distribution,
		Evaluation:  eval,
	}
	// transcript oldest first in the report
	for i := len(snap.Transcript) - 1; i >= 0; i-- {
		seg := snap.Transcript[i]
		r.Transcript = append(r.Transcript, ReportSegment{
			At:      seg.Timestamp.Format(time.TimeOnly),
			ChunkID: seg.ChunkID,
			Text:    seg.Text,
		})
	}
	if snap.Voice != nil {
		r.Voice = &ReportVoice{
			Confidence:     snap.Voice.Scores.Confidence,
			Fluency:        snap.Voice.Scores.Fluency,
			Nervousness:    snap.Voice.Scores.Nervousness,
			WordsPerMinute: snap.Voice.Summary.WordsPerMinute,
		}
	}
	return r
}

func writeReport(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	defer enc.Close()
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
