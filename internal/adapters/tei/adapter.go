package tei

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/modelglue/embedshim/internal/models"
)

// Options configures the TEI embedding adapter.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Adapter speaks the text-embeddings-inference wire format: a batch of texts
// under a single "inputs" field, answered by one vector per text.
type Adapter struct {
	client  *http.Client
	baseURL string
}

// StatusError carries a non-success upstream HTTP status so callers can
// forward it instead of inventing their own diagnosis.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tei upstream error %d: %s", e.StatusCode, e.Message)
}

func New(opts Options) (*Adapter, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("tei: base url required")
	}
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &Adapter{
		client:  opts.HTTPClient,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}, nil
}

type embedRequest struct {
	Inputs []string `json:"inputs"`
}

// Embed issues a single POST /embed call and converts the positional vector
// batch into the internal embeddings shape. The upstream reports no token
// usage, so the usage stub stays zeroed.
func (a *Adapter) Embed(ctx context.Context, req models.EmbeddingsRequest) (models.EmbeddingsResponse, error) {
	if len(req.Input) == 0 {
		return models.EmbeddingsResponse{}, errors.New("tei: embeddings input required")
	}

	body, err := json.Marshal(embedRequest{Inputs: req.Input})
	if err != nil {
		return models.EmbeddingsResponse{}, err
	}
	endpoint := fmt.Sprintf("%s/embed", a.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return models.EmbeddingsResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return models.EmbeddingsResponse{}, fmt.Errorf("tei: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return models.EmbeddingsResponse{}, decodeAPIError(resp)
	}

	var vectors [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return models.EmbeddingsResponse{}, fmt.Errorf("tei: decode response: %w", err)
	}
	if len(vectors) != len(req.Input) {
		return models.EmbeddingsResponse{}, fmt.Errorf("tei: upstream returned %d vectors for %d inputs", len(vectors), len(req.Input))
	}

	embeddings := make([]models.Embedding, 0, len(vectors))
	for i, vec := range vectors {
		embeddings = append(embeddings, models.Embedding{Index: i, Vector: vec})
	}
	return models.EmbeddingsResponse{Embeddings: embeddings}, nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}
