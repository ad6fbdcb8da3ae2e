package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/brandbot/internal/pkg/errs"
)

func TestCosine_IdenticalVectors(t *testing.T) {
	v := []float32{0.5, -1.25, 3.0}
	score, err := Cosine(v, v)
	require.NoError(t, err)
	require.InDelta(t, 1.0, float64(score), 1e-6)
}

func TestCosine_OrthogonalVectors(t *testing.T) {
	score, err := Cosine([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	require.InDelta(t, 0.0, float64(score), 1e-6)
}

func TestCosine_OppositeVectors(t *testing.T) {
	score, err := Cosine([]float32{1, 2}, []float32{-1, -2})
	require.NoError(t, err)
	require.InDelta(t, -1.0, float64(score), 1e-6)
}

func TestCosine_Symmetric(t *testing.T) {
	a := []float32{0.3, 0.7, -0.2}
	b := []float32{-0.1, 0.9, 0.4}
	ab, err := Cosine(a, b)
	require.NoError(t, err)
	ba, err := Cosine(b, a)
	require.NoError(t, err)
	require.Equal(t, ab, ba)
}

func TestCosine_ZeroNormComparesAsZero(t *testing.T) {
	score, err := Cosine([]float32{0, 0, 0}, []float32{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, float32(0), score)
}

func TestCosine_DimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2}, []float32{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
}
