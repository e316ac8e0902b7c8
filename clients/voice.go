package clients

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// --- Voice analysis (/api/analyze-voice-comprehensive) ---

type voiceReq struct {
	Audio      string  `json:"audio"`
	Transcript string  `json:"transcript"`
	Duration   float64 `json:"duration"`
}

type VoiceScores struct {
	Confidence  float64 `json:"confidence"`
	Fluency     float64 `json:"fluency"`
	Nervousness float64 `json:"nervousness"`
}

type VoiceSummary struct {
	WordsPerMinute float64 `json:"words_per_minute"`
}

type VoiceResponse struct {
	Success bool         `json:"success"`
	Scores  VoiceScores  `json:"scores"`
	Summary VoiceSummary `json:"summary"`
	Error   string       `json:"error,omitempty"`
}

// AnalyzeVoice scores one transcribed audio segment on delivery qualities
// (confidence, fluency, nervousness) and speaking pace.
func (h *HTTP) AnalyzeVoice(ctx context.Context, url string, audio []byte, transcript string, duration float64) (*VoiceResponse, error) {
	payload := voiceReq{
		Audio:      "data:audio/webm;base64," + base64.StdEncoding.EncodeToString(audio),
		Transcript: transcript,
		Duration:   duration,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/api/analyze-voice-comprehensive", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voice: %w: %v", ErrRemoteCallFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("voice %s: %w: %s", resp.Status, ErrRemoteCallFailed, string(body))
	}

	var out VoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("voice decode: %w: %v", ErrMalformedResponse, err)
	}
	if !out.Success {
		return nil, fmt.Errorf("voice: %w: %s", ErrRemoteCallFailed, out.Error)
	}
	return &out, nil
}
