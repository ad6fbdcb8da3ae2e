package gaps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/brandbot/internal/lead"
	"github.com/xxxsen/brandbot/internal/model"
)

func newDetector() *Detector {
	return NewDetector(lead.NewExtractor(lead.Config{}))
}

func TestIsGap_LowScoreQuestion(t *testing.T) {
	d := newDetector()
	results := []model.SearchResult{{Content: "chunk", Score: 0.22}}
	require.True(t, d.IsGap("do you integrate with quickbooks online", results, false))
}

func TestIsGap_NoResultsAtAll(t *testing.T) {
	d := newDetector()
	require.True(t, d.IsGap("what is your refund policy for annual plans", nil, false))
}

func TestIsGap_GoodMatchIsNotAGap(t *testing.T) {
	d := newDetector()
	results := []model.SearchResult{
		{Content: "a", Score: 0.1},
		{Content: "b", Score: 0.62},
	}
	require.False(t, d.IsGap("what is your refund policy for annual plans", results, false))
}

func TestIsGap_ShortMessageIgnored(t *testing.T) {
	d := newDetector()
	require.False(t, d.IsGap("pricing?", nil, false))
}

func TestIsGap_GreetingIgnored(t *testing.T) {
	d := newDetector()
	require.False(t, d.IsGap("good afternoon!!!", nil, false))
}

func TestIsGap_ContactInfoIgnored(t *testing.T) {
	d := newDetector()
	require.False(t, d.IsGap("sure, my email is bob@example.com", nil, false))
}

func TestIsGap_SuppressedDuringLeadCapture(t *testing.T) {
	d := newDetector()
	require.False(t, d.IsGap("what is your refund policy for annual plans", nil, true))
}

func TestBestScore(t *testing.T) {
	require.Equal(t, float32(0), BestScore(nil))
	results := []model.SearchResult{
		{Score: 0.4},
		{Score: 0.9},
		{Score: 0.1},
	}
	require.Equal(t, float32(0.9), BestScore(results))
}

func TestBestScore_NegativeScores(t *testing.T) {
	results := []model.SearchResult{{Score: -0.3}, {Score: -0.1}}
	require.Equal(t, float32(-0.1), BestScore(results))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What's  the PRICE?!", "whats the price"},
		{"  Do you ship to   Canada? ", "do you ship to canada"},
		{"hello", "hello"},
		{"a---b", "ab"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Normalize(tt.in), "input: %q", tt.in)
	}
}
