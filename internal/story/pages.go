package story

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLinesPerPage is the page size used when none is configured.
const DefaultLinesPerPage = 5

var (
	// ErrIndexOutOfRange is returned when a page outside [0, total) is requested.
	ErrIndexOutOfRange = errors.New("page index out of range")
	// ErrInvalidPageSize is returned for a page size below one line.
	ErrInvalidPageSize = errors.New("lines per page must be at least 1")
)

// PageCount returns the number of pages needed for lines at perPage lines
// per page. A document without lines still has one empty page.
func PageCount(lines []string, perPage int) int {
	if perPage < 1 {
		return 1
	}
	n := (len(lines) + perPage - 1) / perPage
	if n < 1 {
		return 1
	}
	return n
}

// PageContent returns the contiguous slice of lines belonging to page index.
func PageContent(lines []string, perPage, index int) ([]string, error) {
	if perPage < 1 {
		return nil, ErrInvalidPageSize
	}
	total := PageCount(lines, perPage)
	if index < 0 || index >= total {
		return nil, fmt.Errorf("page %d of %d: %w", index, total, ErrIndexOutOfRange)
	}
	start := index * perPage
	if start > len(lines) {
		start = len(lines)
	}
	end := start + perPage
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end:end], nil
}

// PageSet is a read-only paged view over a Document. The same page size is
// used for counting pages and for slicing them.
type PageSet struct {
	doc     Document
	perPage int
	total   int
}

// NewPageSet pages doc at perPage lines per page.
func NewPageSet(doc Document, perPage int) (*PageSet, error) {
	if perPage < 1 {
		return nil, fmt.Errorf("new page set (%d): %w", perPage, ErrInvalidPageSize)
	}
	return &PageSet{
		doc:     doc,
		perPage: perPage,
		total:   PageCount(doc.lines, perPage),
	}, nil
}

// Document returns the paged document.
func (p *PageSet) Document() Document { return p.doc }

// Total returns the number of pages, always at least 1.
func (p *PageSet) Total() int { return p.total }

// PerPage returns the configured page size.
func (p *PageSet) PerPage() int { return p.perPage }

// Page returns a copy of the lines on page index.
func (p *PageSet) Page(index int) ([]string, error) {
	lines, err := PageContent(p.doc.lines, p.perPage, index)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out, nil
}

// Text returns page index joined into a single string.
func (p *PageSet) Text(index int) (string, error) {
	lines, err := PageContent(p.doc.lines, p.perPage, index)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}
