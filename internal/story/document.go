// Package story provides the document model for generated narratives: title
// extraction and fixed-size pagination.
package story

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// titleLine matches a first line wrapped in bold markers. The wrapper must
// not overlap itself.
var titleLine = regexp.MustCompile(`^\*\*(.*)\*\*$`)

// titleLabel is the optional case-sensitive label inside the wrapper, matched
// after the wrapped text is trimmed.
var titleLabel = regexp.MustCompile(`^Title:\s*`)

// Document holds a generated story. It is immutable once built.
type Document struct {
	raw    string
	title  string
	lines  []string
	digest string
}

// NewDocument builds a Document from raw generated text, extracting the title once.
func NewDocument(raw string) Document {
	title, lines := ExtractTitle(raw)
	sum := sha256.Sum256([]byte(raw))
	return Document{
		raw:    raw,
		title:  title,
		lines:  lines,
		digest: hex.EncodeToString(sum[:16]),
	}
}

// ExtractTitle separates an optional title line from the body lines.
// When the first line is not a title, nothing is consumed and title is empty.
func ExtractTitle(raw string) (title string, body []string) {
	lines := strings.Split(raw, "\n")

	first := strings.TrimSpace(lines[0])
	if len(first) < 4 {
		return "", lines
	}
	match := titleLine.FindStringSubmatch(first)
	if match == nil {
		return "", lines
	}
	title = titleLabel.ReplaceAllString(strings.TrimSpace(match[1]), "")
	// "****" or "**Title:**" carry no title; leave the line in the body.
	if title = strings.TrimSpace(title); title == "" {
		return "", lines
	}
	return title, lines[1:]
}

// Raw returns the unmodified generated text.
func (d Document) Raw() string { return d.raw }

// Title returns the extracted title, or "" if none was found.
func (d Document) Title() string { return d.title }

// Digest returns a short content hash identifying the document in logs.
func (d Document) Digest() string { return d.digest }

// Lines returns a copy of the body lines.
func (d Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// LineCount returns the number of body lines.
func (d Document) LineCount() int { return len(d.lines) }
