package video

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonathan/admirror/internal/llm"
)

// Transcript is the result of transcribing an ad's audio track
type Transcript struct {
	Text             string
	WordCount        int
	DurationMs       int64
	AudioSeconds     float64
	Model            string
	InputTokens      int
	OutputTokens     int
	EstimatedCostUSD float64
}

// Transcriber is the transcription collaborator contract
type Transcriber interface {
	TranscribeAudio(ctx context.Context, audioPath string, audioSeconds float64) (*Transcript, error)
}

// GeminiTranscriber transcribes audio with a lite-tier Gemini model
type GeminiTranscriber struct {
	client llm.Client
}

// NewGeminiTranscriber creates a transcriber over the given client
func NewGeminiTranscriber(client llm.Client) *GeminiTranscriber {
	return &GeminiTranscriber{client: client}
}

const transcribePrompt = "Transcribe all spoken words in this audio exactly as heard. " +
	"Return only the transcript text with no commentary, no timestamps, and no speaker labels. " +
	"If there is no speech, return an empty response."

// TranscribeAudio uploads the audio track and returns the spoken transcript.
// An empty transcript is a valid result for music-only audio.
func (t *GeminiTranscriber) TranscribeAudio(ctx context.Context, audioPath string, audioSeconds float64) (*Transcript, error) {
	start := time.Now()

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", audioPath, err)
	}

	text, usage, err := t.client.GenerateWithMedia(ctx, transcribePrompt,
		[]llm.Blob{{MIMEType: "audio/mp3", Data: data}}, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	text = strings.TrimSpace(text)
	return &Transcript{
		Text:             text,
		WordCount:        countWords(text),
		DurationMs:       time.Since(start).Milliseconds(),
		AudioSeconds:     audioSeconds,
		Model:            t.client.GetModel(llm.TierLite),
		InputTokens:      usage.InputTokens,
		OutputTokens:     usage.OutputTokens,
		EstimatedCostUSD: llm.EstimateCostUSD(usage.InputTokens, usage.OutputTokens),
	}, nil
}

func countWords(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Fields(s))
}
