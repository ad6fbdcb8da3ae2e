package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlattenMarkdown_StripsStructure(t *testing.T) {
	input := "# Pricing\n\nOur *basic* plan costs **$10** per month.\n\n- includes support\n- includes updates\n"
	out := flattenMarkdown(input)
	require.Contains(t, out, "Pricing")
	require.Contains(t, out, "Our basic plan costs $10 per month.")
	require.Contains(t, out, "includes support")
	require.NotContains(t, out, "#")
	require.NotContains(t, out, "*")
}

func TestFlattenMarkdown_KeepsCodeContent(t *testing.T) {
	input := "Run the installer:\n\n```\nbrandbot run --config config.json\n```\n"
	out := flattenMarkdown(input)
	require.Contains(t, out, "brandbot run --config config.json")
	require.NotContains(t, out, "```")
}

func TestFlattenMarkdown_PlainTextPassesThrough(t *testing.T) {
	out := flattenMarkdown("Just a sentence. And another one.")
	require.Equal(t, "Just a sentence. And another one.", out)
}

func TestChunkID(t *testing.T) {
	require.Equal(t, "faq_chunk_0", chunkID("faq", 0))
	require.Equal(t, "pricing-v2_chunk_12", chunkID("pricing-v2", 12))
}
