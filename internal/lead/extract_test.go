package lead

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractName_ExplicitPatterns(t *testing.T) {
	e := NewExtractor(Config{})
	tests := []struct {
		message string
		want    string
	}{
		{"my name is john smith", "John Smith"},
		{"My Name Is Priya", "Priya"},
		{"I'm Jordan Lee", "Jordan Lee"},
		{"this is Ravi Kumar", "Ravi Kumar"},
		{"Maria here, what are your hours", "Maria"},
		{"call me Sam", "Sam"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, e.ExtractName(tt.message), "message: %s", tt.message)
	}
}

func TestExtractName_StandaloneBareName(t *testing.T) {
	e := NewExtractor(Config{})
	require.Equal(t, "Krishna", e.ExtractName("Krishna"))
	require.Equal(t, "Anna Maria Lopez", e.ExtractName("anna maria lopez"))
}

func TestExtractName_RejectsCommonPhrases(t *testing.T) {
	e := NewExtractor(Config{})
	tests := []string{
		"I am interested in your services",
		"What is your price?",
		"I'm interested",
		"hello",
		"pricing",
		"yes",
		"tell me more",
		"a b",
	}
	for _, message := range tests {
		require.Empty(t, e.ExtractName(message), "message: %s", message)
	}
}

func TestExtractEmail(t *testing.T) {
	e := NewExtractor(Config{})
	require.Equal(t, "john.doe@example.com", e.ExtractEmail("reach me at John.Doe@Example.COM please"))
	require.Empty(t, e.ExtractEmail("no address here"))
}

func TestExtractPhone(t *testing.T) {
	e := NewExtractor(Config{})
	require.Equal(t, "+15551234567", e.ExtractPhone("call +1 (555) 123-4567 anytime"))
	require.Equal(t, "08012345678", e.ExtractPhone("080-1234-5678"))
	require.Empty(t, e.ExtractPhone("room 12345"))
}

func TestExtract_AllFields(t *testing.T) {
	e := NewExtractor(Config{})
	info := e.Extract("my name is Dana Cole, my email is dana@corp.io, phone +44 20 7946 0958")
	require.Equal(t, "Dana Cole", info.Name)
	require.Equal(t, "dana@corp.io", info.Email)
	require.Equal(t, "+442079460958", info.Phone)
}

func TestHasContactInfo(t *testing.T) {
	e := NewExtractor(Config{})
	require.True(t, e.HasContactInfo("bob@example.com"))
	require.True(t, e.HasContactInfo("my number is 555-123-4567"))
	require.False(t, e.HasContactInfo("just a question about pricing"))
}

func TestValidateEmail(t *testing.T) {
	e := NewExtractor(Config{})
	require.NoError(t, e.ValidateEmail("user@company.co"))
	require.ErrorIs(t, e.ValidateEmail("not-an-email"), ErrInvalidFormat)
	require.ErrorIs(t, e.ValidateEmail(""), ErrInvalidFormat)
	require.ErrorIs(t, e.ValidateEmail("user@mailinator.com"), ErrDisposableDomain)
	require.ErrorIs(t, e.ValidateEmail("USER@Mailinator.COM"), ErrDisposableDomain)
}

func TestValidateEmail_CustomDisposableList(t *testing.T) {
	e := NewExtractor(Config{DisposableDomains: []string{"spam.test"}})
	require.ErrorIs(t, e.ValidateEmail("a@spam.test"), ErrDisposableDomain)
	require.NoError(t, e.ValidateEmail("a@mailinator.com"))
}
