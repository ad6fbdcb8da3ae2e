package gaps

import (
	"regexp"
	"strings"

	"github.com/xxxsen/brandbot/internal/lead"
	"github.com/xxxsen/brandbot/internal/model"
)

const (
	// A retrieval whose best match scores at or below this is a gap.
	scoreThreshold = 0.3
	// Anything shorter is noise, not a real question.
	minQuestionLength = 15
)

var noiseRe = regexp.MustCompile(`(?i)^(hi|hiya|hello|hey|yo|thanks|thank you|thx|ok|okay|yes|yeah|no|nope|sure|great|cool|nice|bye|goodbye|see you|good morning|good afternoon|good evening)[\s.!?]*$`)

var punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// Detector classifies a completed retrieval cycle as an unanswered-question
// event. It shares the lead extractor so the contact-info rule matches the
// lead-capture flow exactly.
type Detector struct {
	extractor *lead.Extractor
}

func NewDetector(extractor *lead.Extractor) *Detector {
	return &Detector{extractor: extractor}
}

func (d *Detector) IsGap(message string, results []model.SearchResult, leadCaptureInProgress bool) bool {
	if leadCaptureInProgress {
		return false
	}
	trimmed := strings.TrimSpace(message)
	if len([]rune(trimmed)) < minQuestionLength {
		return false
	}
	if noiseRe.MatchString(trimmed) {
		return false
	}
	if d.extractor.HasContactInfo(trimmed) {
		return false
	}
	if len(results) == 0 {
		return true
	}
	best := BestScore(results)
	return best <= scoreThreshold
}

func BestScore(results []model.SearchResult) float32 {
	var best float32
	for i, r := range results {
		if i == 0 || r.Score > best {
			best = r.Score
		}
	}
	return best
}

// Normalize lowers, strips punctuation and collapses whitespace; the result
// is the dedup key for recorded gaps.
func Normalize(question string) string {
	lowered := strings.ToLower(strings.TrimSpace(question))
	stripped := punctRe.ReplaceAllString(lowered, "")
	return strings.Join(strings.Fields(stripped), " ")
}
