package generate

import (
	"os"
	"regexp"
	"strings"
)

// MarkdownFormat implements Format for Markdown files.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Extract reads a Markdown story. A heading on the first line is rewritten to
// the bold title form generated stories use.
func (f *MarkdownFormat) Extract(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	text := normalizeNewlines(string(data))

	first, rest, found := strings.Cut(text, "\n")
	if match := headerRegex.FindStringSubmatch(strings.TrimSpace(first)); match != nil {
		first = "**" + strings.TrimSpace(match[2]) + "**"
		if found {
			return first + "\n" + rest, nil
		}
		return first, nil
	}
	return text, nil
}
