package public

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/modelglue/embedshim/internal/adapters/tei"
	"github.com/modelglue/embedshim/internal/httpserver/httputil"
	"github.com/modelglue/embedshim/internal/models"
)

type openAIHandler struct {
	embedder     Embedder
	defaultModel string
}

type openAIEmbeddingRequest struct {
	Model          string          `json:"model"`
	Input          json.RawMessage `json:"input"`
	EncodingFormat string          `json:"encoding_format"`
}

type openAIEmbedding struct {
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
	Object    string    `json:"object"`
}

type openAIUsage struct {
	PromptTokens int32 `json:"prompt_tokens"`
	TotalTokens  int32 `json:"total_tokens"`
}

type openAIEmbeddingResponse struct {
	Object string            `json:"object"`
	Model  string            `json:"model"`
	Data   []openAIEmbedding `json:"data"`
	Usage  openAIUsage       `json:"usage"`
}

func (h *openAIHandler) embeddings(c *fiber.Ctx) error {
	var req openAIEmbeddingRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	inputs, err := parseEmbeddingInput(req.Input)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}
	if format := strings.TrimSpace(req.EncodingFormat); format != "" && format != "float" {
		return httputil.WriteError(c, fiber.StatusBadRequest, "unsupported encoding_format")
	}

	alias := strings.TrimSpace(req.Model)
	if alias == "" {
		alias = h.defaultModel
	}

	resp, err := h.embedder.Embed(c.UserContext(), models.EmbeddingsRequest{Input: inputs})
	if err != nil {
		slog.Error("embed upstream call failed", slog.String("error", err.Error()))
		var statusErr *tei.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode >= 400 {
			return httputil.WriteError(c, statusErr.StatusCode, statusErr.Message)
		}
		return httputil.WriteError(c, fiber.StatusBadGateway, "upstream embedding request failed")
	}

	return c.JSON(convertEmbeddingResponse(resp, alias))
}

// parseEmbeddingInput resolves the string-or-array union the OpenAI API allows
// into a canonical ordered batch. A lone string becomes a one-element batch.
func parseEmbeddingInput(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("input is required")
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return []string{str}, nil
	}

	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) == 0 {
			return nil, errors.New("input must not be empty")
		}
		return arr, nil
	}

	return nil, errors.New("input must be string or array of strings")
}

func convertEmbeddingResponse(resp models.EmbeddingsResponse, alias string) openAIEmbeddingResponse {
	data := make([]openAIEmbedding, 0, len(resp.Embeddings))
	for _, emb := range resp.Embeddings {
		data = append(data, openAIEmbedding{
			Index:     emb.Index,
			Embedding: emb.Vector,
			Object:    "embedding",
		})
	}

	return openAIEmbeddingResponse{
		Object: "list",
		Model:  alias,
		Data:   data,
		Usage: openAIUsage{
			PromptTokens: resp.Usage.PromptTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
}
