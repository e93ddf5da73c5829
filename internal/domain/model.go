package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// repoURLPattern matches the web address of a repository on GitHub.
// Kept identical to the shape recognized inside README tables so that
// hand-edited rows are still picked up.
var repoURLPattern = regexp.MustCompile(`https://github\.com/[\w\-.]+/[\w\-.]+`)

// linkPattern matches a markdown link cell: [name](url).
var linkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)

// maxDescriptionLen is the rendered description budget, ellipsis included.
const maxDescriptionLen = 100

// Repo is a snapshot of a repository as returned by the search API.
// It lives for one run only; the README table is the sole persistence.
type Repo struct {
	FullName    string `json:"full_name"` // e.g. "karpathy/nanoGPT"
	Name        string `json:"name"`      // short name, used as the link label
	URL         string `json:"url"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Fork        bool   `json:"fork"`
	Archived    bool   `json:"archived"`
}

// CanonicalURL normalizes a repository URL into the deduplication key:
// lowercased, trailing slash stripped.
func CanonicalURL(raw string) string {
	return strings.TrimRight(strings.ToLower(raw), "/")
}

// Canonical returns the repo's deduplication key.
func (r *Repo) Canonical() string {
	return CanonicalURL(r.URL)
}

// FindRepoURL extracts the first repository URL from s, canonicalized.
// Returns "" when s contains none.
func FindRepoURL(s string) string {
	m := repoURLPattern.FindString(s)
	if m == "" {
		return ""
	}
	return CanonicalURL(m)
}

// AllRepoURLs extracts every repository URL from s, canonicalized.
func AllRepoURLs(s string) []string {
	var urls []string
	for _, m := range repoURLPattern.FindAllString(s, -1) {
		urls = append(urls, CanonicalURL(m))
	}
	return urls
}

// Row is one data row of the README listing table:
//
//	| [name](url) | description | stars |
//
// The pipe-delimited line format is both parsed (existing entries) and
// generated (new entries), so parse and format live together here.
type Row struct {
	Name        string
	URL         string
	Description string
	Stars       int
}

// NewRow builds a row for a freshly discovered repository. The description
// is sanitized: a literal pipe would break the table, and overly long text
// is truncated. Stars are written as a raw integer.
func NewRow(r *Repo) Row {
	return Row{
		Name:        r.Name,
		URL:         r.URL,
		Description: SanitizeDescription(r.Description),
		Stars:       r.Stars,
	}
}

// ParseRow parses a pipe-delimited table line. The second return value is
// false when the line does not have enough fields to be a data row.
func ParseRow(line string) (Row, bool) {
	parts := strings.Split(line, "|")
	if len(parts) < 4 {
		return Row{}, false
	}

	row := Row{}

	nameCell := strings.TrimSpace(parts[1])
	if m := linkPattern.FindStringSubmatch(nameCell); m != nil {
		row.Name = m[1]
		row.URL = m[2]
	} else {
		// Not a link; keep the cell text so the row survives a rewrite.
		row.Name = nameCell
	}

	row.Description = strings.TrimSpace(parts[2])
	row.Stars = parseStars(parts[3])

	return row, true
}

// String renders the row back into its table line form.
func (r Row) String() string {
	name := r.Name
	if r.URL != "" {
		name = fmt.Sprintf("[%s](%s)", r.Name, r.URL)
	}
	return fmt.Sprintf("| %s | %s | %d |", name, r.Description, r.Stars)
}

// Canonical returns the row's deduplication key, or "" when the row has
// no recognizable repository URL.
func (r Row) Canonical() string {
	if r.URL == "" {
		return ""
	}
	return FindRepoURL(r.URL)
}

// parseStars reads a star cell, tolerating thousands separators.
// Unparseable values sort as zero rather than failing the run.
func parseStars(cell string) int {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// SanitizeDescription makes a repository description safe for a table cell:
// pipe characters are replaced with "-", surrounding whitespace dropped,
// and anything over the budget truncated with an ellipsis. Truncation
// counts runes, not bytes, so multibyte descriptions stay valid UTF-8.
func SanitizeDescription(desc string) string {
	desc = strings.TrimSpace(strings.ReplaceAll(desc, "|", "-"))
	if utf8.RuneCountInString(desc) <= maxDescriptionLen {
		return desc
	}
	runes := []rune(desc)
	return string(runes[:maxDescriptionLen-3]) + "..."
}
