package models

type EmbeddingsRequest struct {
	Input []string `json:"input"`
}

type Embedding struct {
	Index  int       `json:"index"`
	Vector []float32 `json:"vector"`
}

type EmbeddingsResponse struct {
	Embeddings []Embedding `json:"data"`
	Usage      Usage       `json:"usage"`
}

type Usage struct {
	PromptTokens int32 `json:"prompt_tokens"`
	TotalTokens  int32 `json:"total_tokens"`
}
