package public

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/modelglue/embedshim/internal/models"
)

// Embedder is the upstream capability the public routes depend on.
type Embedder interface {
	Embed(ctx context.Context, req models.EmbeddingsRequest) (models.EmbeddingsResponse, error)
}

// Register wires up the OpenAI-compatible public API routes.
func Register(app *fiber.App, embedder Embedder, defaultModel string) {
	group := app.Group("/v1")
	handler := &openAIHandler{embedder: embedder, defaultModel: defaultModel}
	group.Post("/embeddings", handler.embeddings)
}
