package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeadInfoMerge_NonEmptyWins(t *testing.T) {
	base := LeadInfo{Name: "Jordan Lee"}
	merged := base.Merge(LeadInfo{Email: "jordan@example.com"})
	require.Equal(t, "Jordan Lee", merged.Name)
	require.Equal(t, "jordan@example.com", merged.Email)
}

func TestLeadInfoMerge_EmptyDeltaKeepsExisting(t *testing.T) {
	base := LeadInfo{Name: "Jordan Lee", Email: "jordan@example.com", Phone: "+15551234567"}
	merged := base.Merge(LeadInfo{})
	require.Equal(t, base, merged)
}

func TestLeadInfoMerge_LaterValueReplaces(t *testing.T) {
	base := LeadInfo{Email: "old@example.com"}
	merged := base.Merge(LeadInfo{Email: "new@example.com"})
	require.Equal(t, "new@example.com", merged.Email)
}

func TestLeadInfoEmpty(t *testing.T) {
	require.True(t, LeadInfo{}.Empty())
	require.False(t, LeadInfo{Phone: "123"}.Empty())
}
