package session

import (
	"context"

	"github.com/virtuesense/capture-pipeline/clients"
)

// The remote collaborators, as single-method interfaces so tests can fake
// them and main can bind the HTTP clients to configured URLs.

type FrameAnalyzer interface {
	AnalyzeEmotion(ctx context.Context, frame []byte) (*clients.EmotionResponse, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type VoiceAnalyzer interface {
	AnalyzeVoice(ctx context.Context, audio []byte, transcript string, duration float64) (*clients.VoiceResponse, error)
}

type Evaluator interface {
	EvaluateAnswer(ctx context.Context, question, answer string) (*clients.Evaluation, error)
}

// Remotes bundles the collaborators a session talks to. Voice and
// Evaluation are optional; a nil field disables that feature.
type Remotes struct {
	Emotion       FrameAnalyzer
	Transcription Transcriber
	Voice         VoiceAnalyzer
	Evaluation    Evaluator
}

type FrameAnalyzerFunc func(ctx context.Context, frame []byte) (*clients.EmotionResponse, error)

func (f FrameAnalyzerFunc) AnalyzeEmotion(ctx context.Context, frame []byte) (*clients.EmotionResponse, error) {
	return f(ctx, frame)
}

type TranscriberFunc func(ctx context.Context, audio []byte) (string, error)

func (f TranscriberFunc) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return f(ctx, audio)
}

type VoiceAnalyzerFunc func(ctx context.Context, audio []byte, transcript string, duration float64) (*clients.VoiceResponse, error)

func (f VoiceAnalyzerFunc) AnalyzeVoice(ctx context.Context, audio []byte, transcript string, duration float64) (*clients.VoiceResponse, error) {
	return f(ctx, audio, transcript, duration)
}

type EvaluatorFunc func(ctx context.Context, question, answer string) (*clients.Evaluation, error)

func (f EvaluatorFunc) EvaluateAnswer(ctx context.Context, question, answer string) (*clients.Evaluation, error) {
	return f(ctx, question, answer)
}
