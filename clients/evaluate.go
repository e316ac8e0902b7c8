package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// --- Answer evaluation (/api/evaluate-answer) ---

type evaluateReq struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Evaluation struct {
	Success      bool    `json:"success"`
	Score        float64 `json:"score"`
	Clarity      float64 `json:"clarity"`
	Relevance    float64 `json:"relevance"`
	Strengths    string  `json:"strengths"`
	Improvements string  `json:"improvements"`
	Feedback     string  `json:"feedback"`
	Error        string  `json:"error,omitempty"`
}

// EvaluateAnswer submits the accumulated answer for one question and
// returns the graded feedback.
func (h *HTTP) EvaluateAnswer(ctx context.Context, url, question, answer string) (*Evaluation, error) {
	b, _ := json.Marshal(evaluateReq{Question: question, Answer: answer})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/api/evaluate-answer", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w: %v", ErrRemoteCallFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("evaluate %s: %w: %s", resp.Status, ErrRemoteCallFailed, string(body))
	}

	var out Evaluation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("evaluate decode: %w: %v", ErrMalformedResponse, err)
	}
	if !out.Success {
		return nil, fmt.Errorf("evaluate: %w: %s", ErrRemoteCallFailed, out.Error)
	}
	return &out, nil
}
