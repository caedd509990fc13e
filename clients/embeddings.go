// Package clients holds HTTP clients for the external services the
// segmentation models depend on.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Embeddings calls an OpenAI-style embeddings endpoint.
type Embeddings struct {
	c        *http.Client
	endpoint string
	model    string
	apiKey   string
}

func NewEmbeddings(endpoint, model, apiKey string) *Embeddings {
	return &Embeddings{
		c:        &http.Client{Timeout: 60 * time.Second},
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
	}
}

type embeddingsReq struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResp struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed fetches one embedding per input text, in input order.
func (e *Embeddings) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	b, _ := json.Marshal(embeddingsReq{Model: e.model, Input: texts})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings %s: %s", resp.Status, string(body))
	}

	var out embeddingsResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("embeddings decode: %w", err)
	}

	vecs := make([][]float64, len(texts))
	for _, d := range out.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embeddings: index %d out of range", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	for i, v := range vecs {
		if v == nil {
			return nil, fmt.Errorf("embeddings: no vector for input %d", i)
		}
	}
	return vecs, nil
}
