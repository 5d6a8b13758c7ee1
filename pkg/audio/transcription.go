package audio

import (
	"bytes"
	"context"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// ITranscriber turns a voice note into text the NLU pipeline can consume.
type ITranscriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

type transcriptionService struct {
	client *openai.Client
}

func NewTranscriptionService() ITranscriber {
	apiKey := os.Getenv("OPENAI_API_KEY")
	return &transcriptionService{client: openai.NewClient(apiKey)}
}

func (t *transcriptionService) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: filename,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}
