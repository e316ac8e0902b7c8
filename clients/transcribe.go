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

// --- Transcription (/api/transcribe-audio) ---

type transcribeReq struct {
	Audio string `json:"audio"`
}

type transcribeResp struct {
	Success       bool   `json:"success"`
	Transcription string `json:"transcription"`
	Error         string `json:"error,omitempty"`
}

// Transcribe submits one captured audio segment and returns its text.
func (h *HTTP) Transcribe(ctx context.Context, url string, audio []byte) (string, error) {
	payload := transcribeReq{Audio: "data:audio/webm;base64," + base64.StdEncoding.EncodeToString(audio)}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/api/transcribe-audio", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w: %v", ErrRemoteCallFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcribe %s: %w: %s", resp.Status, ErrRemoteCallFailed, string(body))
	}

	var out transcribeResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("transcribe decode: %w: %v", ErrMalformedResponse, err)
	}
	if !out.Success {
		return "", fmt.Errorf("transcribe: %w: %s", ErrRemoteCallFailed, out.Error)
	}
	return out.Transcription, nil
}
