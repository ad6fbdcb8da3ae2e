package lead

import (
	"regexp"
	"strings"

	"github.com/xxxsen/brandbot/internal/model"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s\-().]{5,}\d`)

	// Explicit self-introduction patterns, tried in priority order. The
	// "I'm X Y" form requires two capitalized words so it does not fire on
	// "I'm interested".
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bmy name is\s+([A-Za-z]+(?:\s+[A-Za-z]+){0,2})`),
		regexp.MustCompile(`\bI'?m\s+([A-Z][a-z]+\s+[A-Z][a-z]+)\b`),
		regexp.MustCompile(`(?i)\bthis is\s+([A-Za-z]+(?:\s+[A-Za-z]+)?)\b`),
		regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+(?:here|speaking)\b`),
		regexp.MustCompile(`^\s*([A-Za-z]+(?:\s+[A-Za-z]+)?)\s*,\s*(?:my\s+)?email\b`),
		regexp.MustCompile(`(?i)\bcall me\s+([A-Za-z]+(?:\s+[A-Za-z]+)?)\b`),
	}

	standaloneRe = regexp.MustCompile(`^[A-Za-z]+(?: [A-Za-z]+){0,2}$`)
)

type Config struct {
	Stoplist          []string
	DisposableDomains []string
}

// Extractor scans single messages for contact facts. It is pure and
// stateless; all tuning data is injected at construction.
type Extractor struct {
	stoplist   map[string]struct{}
	disposable map[string]struct{}
}

func NewExtractor(cfg Config) *Extractor {
	stoplist := cfg.Stoplist
	if len(stoplist) == 0 {
		stoplist = defaultStoplist
	}
	disposable := cfg.DisposableDomains
	if len(disposable) == 0 {
		disposable = defaultDisposableDomains
	}
	e := &Extractor{
		stoplist:   make(map[string]struct{}, len(stoplist)),
		disposable: make(map[string]struct{}, len(disposable)),
	}
	for _, word := range stoplist {
		e.stoplist[strings.ToLower(strings.TrimSpace(word))] = struct{}{}
	}
	for _, domain := range disposable {
		e.disposable[strings.ToLower(strings.TrimSpace(domain))] = struct{}{}
	}
	return e
}

// Extract runs all three scanners over one message.
func (e *Extractor) Extract(message string) model.LeadInfo {
	return model.LeadInfo{
		Name:  e.ExtractName(message),
		Email: e.ExtractEmail(message),
		Phone: e.ExtractPhone(message),
	}
}

func (e *Extractor) ExtractEmail(message string) string {
	match := emailRe.FindString(message)
	return strings.ToLower(match)
}

func (e *Extractor) ExtractPhone(message string) string {
	match := phoneRe.FindString(message)
	if match == "" {
		return ""
	}
	var sb strings.Builder
	digits := 0
	for i, r := range match {
		if r == '+' && i == 0 {
			sb.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
			digits++
		}
	}
	if digits < 7 {
		return ""
	}
	return sb.String()
}

func (e *Extractor) ExtractName(message string) string {
	for _, pattern := range namePatterns {
		groups := pattern.FindStringSubmatch(message)
		if groups == nil {
			continue
		}
		candidate := strings.TrimSpace(groups[1])
		if candidate == "" || e.anyStopword(candidate) {
			continue
		}
		return titleCase(candidate)
	}
	return e.standaloneName(message)
}

// standaloneName treats a whole bare message of 1-3 plain words as a name:
// no question, no email, no special characters, every word at least two
// letters and none of them common vocabulary.
func (e *Extractor) standaloneName(message string) string {
	trimmed := strings.Join(strings.Fields(message), " ")
	if trimmed == "" || strings.Contains(trimmed, "?") {
		return ""
	}
	if emailRe.MatchString(trimmed) {
		return ""
	}
	if !standaloneRe.MatchString(trimmed) {
		return ""
	}
	words := strings.Fields(trimmed)
	for _, word := range words {
		if len(word) < 2 {
			return ""
		}
		if _, ok := e.stoplist[strings.ToLower(word)]; ok {
			return ""
		}
	}
	return titleCase(trimmed)
}

// HasContactInfo gates whether downstream lead logic runs at all for a
// message.
func (e *Extractor) HasContactInfo(message string) bool {
	return e.ExtractEmail(message) != "" || e.ExtractPhone(message) != ""
}

func (e *Extractor) anyStopword(candidate string) bool {
	for _, word := range strings.Fields(candidate) {
		if _, ok := e.stoplist[strings.ToLower(word)]; ok {
			return true
		}
	}
	return false
}

func titleCase(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
