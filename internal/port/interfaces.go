package port

import (
	"context"

	"github.com/Laeyoung/Awesome-Nano-AI/internal/domain"
)

// Searcher runs a single repository search query against the hosting
// platform and returns matches sorted by stars descending.
// A rate-limited query returns an empty slice and a rate-limit error
// that callers are expected to treat as a soft failure.
type Searcher interface {
	Search(ctx context.Context, query string) ([]*domain.Repo, error)
}

// ListStore reads and writes the document that carries the curated list,
// and understands its marked section. Load materializes the whole
// document in memory; Save writes it back in place. There is exactly one
// load and at most one save per run.
type ListStore interface {
	Load() (string, error)
	Save(content string) error

	// KnownURLs returns the canonical URLs already listed in doc's
	// marked section; empty when the markers are missing.
	KnownURLs(doc string) map[string]struct{}

	// Rows returns the table data rows of doc's marked section.
	Rows(doc string) []domain.Row

	// Splice replaces the marked section with a table built from rows.
	// ok is false when doc has no section; doc then comes back unchanged.
	Splice(doc string, rows []domain.Row) (updated string, ok bool)
}

// Reporter publishes run results to an external automation environment
// (e.g. workflow output variables). Implementations must accept
// multi-line values.
type Reporter interface {
	Emit(key, value string) error
}
