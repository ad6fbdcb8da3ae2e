package lead

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidFormat    = errors.New("invalid email format")
	ErrDisposableDomain = errors.New("disposable email domain")
)

const maxEmailLength = 254

var emailExactRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail is the cheap offline check. An external authority may also
// be consulted afterwards; its verdict wins, but this check always runs
// first.
func (e *Extractor) ValidateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" || len(trimmed) > maxEmailLength {
		return ErrInvalidFormat
	}
	if !emailExactRe.MatchString(trimmed) {
		return ErrInvalidFormat
	}
	at := strings.LastIndex(trimmed, "@")
	domain := strings.ToLower(trimmed[at+1:])
	if _, ok := e.disposable[domain]; ok {
		return ErrDisposableDomain
	}
	return nil
}
