// Package ollama implements the embedding provider boundary against a
// local Ollama server. Only the embedding surface is exposed; provider
// failures carry the domain encoding-failure kind so callers can degrade
// without inspecting transport details.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/fir-intake/internal/core/domain"
	"github.com/kirillkom/fir-intake/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	dim        int
	httpClient *http.Client
	exec       *resilience.Executor
}

// New builds a client for one embedding model. dim is the expected
// vector dimensionality; zero disables the check.
func New(baseURL, model string, dim int, exec *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		dim:        dim,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		exec:       exec,
	}
}

func (c *Client) Model() string { return c.model }

// Embed projects a batch of texts into the provider's vector space. Row
// order of the result matches the input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": c.model,
		"input": texts,
	}
	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}

	err := c.exec.Execute(ctx, "ollama.embed", func(ctx context.Context) error {
		return c.postJSON(ctx, "/api/embed", request, &response)
	}, classifyEmbedError)
	if err != nil {
		return nil, wrapEncodingIfNeeded("embed texts", err)
	}

	if len(response.Embeddings) != len(texts) {
		return nil, domain.WrapError(domain.ErrEncoding, "embed texts",
			fmt.Errorf("provider returned %d vectors for %d inputs", len(response.Embeddings), len(texts)))
	}
	if c.dim > 0 {
		for i, v := range response.Embeddings {
			if len(v) != c.dim {
				return nil, domain.WrapError(domain.ErrDimensionMismatch, "embed texts",
					fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), c.dim))
			}
		}
	}
	return response.Embeddings, nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, domain.WrapError(domain.ErrEncoding, "embed query",
			fmt.Errorf("empty embedding result"))
	}
	return vectors[0], nil
}
