package gemini

import (
	"context"
	"errors"
	"os"

	"familiar/pkg/ollama"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// IGemini is an alternative Completer for the response renderer. Intent
// extraction always stays on the local model; only reply generation may be
// routed here when GEMINI_API_KEY is configured.
type IGemini interface {
	ollama.Completer
	Close()
}

type geminiClient struct {
	modelName string
	client    *genai.Client
}

func NewGeminiClient() (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		modelName: modelName,
		client:    client,
	}, nil
}

func (g *geminiClient) Complete(ctx context.Context, prompt string, opts ollama.Options) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	if opts.Temperature > 0 {
		model.SetTemperature(float32(opts.Temperature))
	}
	if opts.NumPredict > 0 {
		model.SetMaxOutputTokens(int32(opts.NumPredict))
	}

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini API")
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from Gemini API")
	}

	return string(text), nil
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
