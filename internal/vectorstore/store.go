package vectorstore

import (
	"context"
	"math"

	"github.com/xxxsen/brandbot/internal/model"
	"github.com/xxxsen/brandbot/internal/pkg/errs"
)

type Stats struct {
	Count int64 `json:"count"`
}

// Store persists embedded chunks and answers top-K nearest-neighbor queries
// by cosine similarity. Clear is an optional capability: a backend that
// delegates to an external index may return errs.ErrNotImplemented.
type Store interface {
	Upsert(ctx context.Context, rec *model.StoredVector) error
	Search(ctx context.Context, query []float32, topK int) ([]model.SearchResult, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (Stats, error)
	Clear(ctx context.Context) error
}

// Cosine returns the cosine similarity of a and b. A zero-norm vector
// compares as 0; mismatched lengths are an error, not a silent zero.
func Cosine(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, errs.ErrDimensionMismatch
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB))), nil
}
