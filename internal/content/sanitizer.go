// Package content validates and sanitizes user-supplied message text before
// it reaches the persistence layer. It is the single choke point for content
// rules: every message, introduction or regular, passes through Sanitize.
//
// Rules:
//   - Unicode is NFC-normalized so visually identical inputs compare equal.
//   - HTML/markup tags are stripped (messages are plain text).
//   - Line endings are normalized to LF and runs of 3+ newlines collapse to
//     two, preserving paragraphs.
//   - The result must be non-empty and at most MaxRunes runes.
package content

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxRunes is the ceiling applied to sanitized message content.
const MaxRunes = 5000

var (
	// ErrEmpty is returned when the input is blank after sanitization.
	ErrEmpty = errors.New("message required")
	// ErrTooLong is returned when the sanitized input exceeds MaxRunes.
	ErrTooLong = fmt.Errorf("message too long: max %d characters", MaxRunes)
)

var (
	// tagRE matches HTML/XML-style tags, including closers and self-closers.
	tagRE = regexp.MustCompile(`<\/?[a-zA-Z][^>]*>`)
	// nlCollapseRE collapses runs of 3+ newlines to two.
	nlCollapseRE = regexp.MustCompile(`\n{3,}`)
)

// Sanitize normalizes raw message text and enforces the content rules.
// On success it returns the cleaned text; otherwise ErrEmpty or ErrTooLong.
func Sanitize(raw string) (string, error) {
	s := norm.NFC.String(raw)

	// Normalize line endings before any pattern work.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = tagRE.ReplaceAllString(s, "")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)

	if s == "" {
		return "", ErrEmpty
	}
	if utf8.RuneCountInString(s) > MaxRunes {
		return "", ErrTooLong
	}
	return s, nil
}
