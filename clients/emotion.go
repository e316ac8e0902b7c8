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

// --- Emotion analysis (/api/analyze-emotion) ---

// FaceRegion is a bounding box for one detected face, in frame pixels.
type FaceRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type emotionReq struct {
	Image string `json:"image"`
}

type EmotionResponse struct {
	Success         bool               `json:"success"`
	Emotions        map[string]float64 `json:"emotions"`
	DominantEmotion string             `json:"dominant_emotion"`
	FaceCount       int                `json:"face_count"`
	Faces           []FaceRegion       `json:"faces"`
	Error           string             `json:"error,omitempty"`
}

// AnalyzeEmotion submits one encoded still frame and returns the raw
// per-label emotion scores plus any detected face regions.
func (h *HTTP) AnalyzeEmotion(ctx context.Context, url string, frame []byte) (*EmotionResponse, error) {
	payload := emotionReq{Image: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(frame)}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/api/analyze-emotion", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("emotion: %w: %v", ErrRemoteCallFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("emotion %s: %w: %s", resp.Status, ErrRemoteCallFailed, string(body))
	}

	var out EmotionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("emotion decode: %w: %v", ErrMalformedResponse, err)
	}
	if !out.Success {
		return nil, fmt.Errorf("emotion: %w: %s", ErrRemoteCallFailed, out.Error)
	}
	return &out, nil
}
