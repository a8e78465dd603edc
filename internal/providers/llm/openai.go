package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sandevgo/tunebot/internal/config"
	"github.com/sandevgo/tunebot/internal/core"
)

// OpenAI talks to any OpenAI-compatible endpoint and serves both the
// reasoning calls (classification, SQL generation, faithful answers) and
// the embedding calls.
type OpenAI struct {
	baseProvider
	embeddingModel string
}

var (
	_ core.Reasoner = (*OpenAI)(nil)
	_ core.Embedder = (*OpenAI)(nil)
)

func NewOpenAI(cfg *config.LLMConfig) *OpenAI {
	return &OpenAI{
		baseProvider:   newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout),
		embeddingModel: cfg.EmbeddingModel,
	}
}

func (o *OpenAI) authHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + o.apiKey,
		"User-Agent":    core.TuneUserAgent,
	}
}

func (o *OpenAI) Complete(ctx context.Context, prompt string, opts core.CompleteOptions) (string, error) {
	payload := map[string]any{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		payload["max_tokens"] = opts.MaxTokens
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload, o.authHeaders())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices: %s", string(data))
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float64, error) {
	payload := map[string]any{
		"model": o.embeddingModel,
		"input": []string{text},
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/v1/embeddings", payload, o.authHeaders())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	var result struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("empty embedding data: %s", string(data))
	}
	return result.Data[0].Embedding, nil
}
