// Package readme reads and rewrites the curated list embedded in the
// repository README. The mutable region is the span between two literal
// marker comments; everything outside it is passed through untouched.
package readme

import (
	"os"
	"strings"

	"github.com/Laeyoung/Awesome-Nano-AI/internal/common"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/domain"
)

// Table header and separator. These literals also identify non-data
// lines when parsing, so they must not drift from generated output.
const (
	TableHeader    = "| Name | Description | Stars |"
	TableSeparator = "|------|-------------|-------|"
)

// Store is the document-backed list store. The file is read fully into
// memory and written back in one piece; there is no temp file or backup.
type Store struct {
	path        string
	markerStart string
	markerEnd   string
}

// NewStore creates a store over the document at path with the given
// section markers.
func NewStore(path, markerStart, markerEnd string) *Store {
	return &Store{
		path:        path,
		markerStart: markerStart,
		markerEnd:   markerEnd,
	}
}

// Load reads the whole document.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", common.WrapError(common.ErrCodeIO, "reading "+s.path, err)
	}
	return string(data), nil
}

// Save writes the whole document back in place.
func (s *Store) Save(content string) error {
	if err := os.WriteFile(s.path, []byte(content), 0o644); err != nil {
		return common.WrapError(common.ErrCodeIO, "writing "+s.path, err)
	}
	return nil
}

// bounds locates the marked section. ok is false when either marker is
// missing, which callers treat as "no existing entries", not an error.
func (s *Store) bounds(doc string) (start, end int, ok bool) {
	start = strings.Index(doc, s.markerStart)
	end = strings.Index(doc, s.markerEnd)
	if start == -1 || end == -1 || end < start {
		return 0, 0, false
	}
	return start, end, true
}

// KnownURLs extracts the canonical repository URLs already listed inside
// the marked section.
func (s *Store) KnownURLs(doc string) map[string]struct{} {
	urls := make(map[string]struct{})
	start, end, ok := s.bounds(doc)
	if !ok {
		return urls
	}
	for _, u := range domain.AllRepoURLs(doc[start:end]) {
		urls[u] = struct{}{}
	}
	return urls
}

// Rows parses the existing table data rows inside the marked section.
// Header and separator lines are skipped by their fixed prefixes.
func (s *Store) Rows(doc string) []domain.Row {
	start, end, ok := s.bounds(doc)
	if !ok {
		return nil
	}

	section := strings.TrimSpace(doc[start+len(s.markerStart) : end])

	var rows []domain.Row
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "| Name") || strings.HasPrefix(line, "|---") || !strings.HasPrefix(line, "|") {
			continue
		}
		if row, ok := domain.ParseRow(line); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// Splice rebuilds the marked section from rows and replaces the original
// span, start marker through end of end marker, leaving all surrounding
// text byte-identical. ok is false when the document has no section to
// replace; the document is then returned unchanged.
func (s *Store) Splice(doc string, rows []domain.Row) (string, bool) {
	start, end, ok := s.bounds(doc)
	if !ok {
		return doc, false
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, row.String())
	}

	var b strings.Builder
	b.WriteString(s.markerStart)
	b.WriteString("\n")
	b.WriteString(TableHeader)
	b.WriteString("\n")
	b.WriteString(TableSeparator)
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	b.WriteString(s.markerEnd)

	return doc[:start] + b.String() + doc[end+len(s.markerEnd):], true
}
