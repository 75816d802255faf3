// Package assistant talks to the generative model behind the shop chat.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// Completer returns a single text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Gemini is a Completer backed by the Gemini API. The client is created on
// first use so a missing key only fails chat requests.
type Gemini struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini returns a lazily connected Gemini completer.
func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{apiKey: apiKey, model: model}
}

func (g *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

// Complete sends prompt as one stateless request.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
