package model

// StoredVector is one embedded chunk as persisted by the vector store.
// ID is "<source_id>_chunk_<n>". All embeddings inside one store share the
// same dimensionality.
type StoredVector struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Embedding []float32         `json:"embedding"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// SearchResult is an ephemeral per-query match, never persisted.
type SearchResult struct {
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
