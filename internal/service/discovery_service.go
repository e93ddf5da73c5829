package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Laeyoung/Awesome-Nano-AI/internal/adapter/filter"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/common"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/config"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/domain"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/port"
)

// DiscoveryService runs the discovery pipeline end to end: search,
// filter, star refresh, section rewrite, result emission. One run is
// fully sequential; the only pauses are the search pacing.
type DiscoveryService struct {
	cfg      config.Config
	searcher port.Searcher
	store    port.ListStore
	reporter port.Reporter
	log      zerolog.Logger
}

// NewDiscoveryService wires the pipeline's ports together.
func NewDiscoveryService(
	cfg config.Config,
	searcher port.Searcher,
	store port.ListStore,
	reporter port.Reporter,
	log zerolog.Logger,
) *DiscoveryService {
	return &DiscoveryService{
		cfg:      cfg,
		searcher: searcher,
		store:    store,
		reporter: reporter,
		log:      log,
	}
}

// Result summarizes one run.
type Result struct {
	New   []*domain.Repo // newly added repositories, stars descending
	Found int            // unique repositories across all queries
	Known int            // entries already listed before the run
	Total int            // rows in the rewritten table
	Wrote bool           // whether the document was written back
}

// Run executes one discovery cycle.
func (s *DiscoveryService) Run(ctx context.Context) (*Result, error) {
	// 1. Existing state from the document.
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	known := s.store.KnownURLs(doc)
	rows := s.store.Rows(doc)
	s.log.Info().Int("entries", len(known)).Msg("existing entries found in document")

	// 2. Search, one request per query. First occurrence wins when the
	// same repository shows up under multiple queries.
	found := make(map[string]*domain.Repo)
	for _, query := range s.cfg.Queries {
		s.log.Info().Str("query", query).Msg("searching")

		repos, err := s.searcher.Search(ctx, query)
		if err != nil {
			if common.IsRateLimited(err) {
				s.log.Warn().Str("query", query).Msg("rate limited, skipping query")
				continue
			}
			return nil, err
		}

		for _, repo := range repos {
			key := strings.ToLower(repo.FullName)
			if _, seen := found[key]; !seen {
				found[key] = repo
			}
		}
	}
	s.log.Info().Int("repos", len(found)).Msg("unique repositories across all queries")

	// 3. Partition into star-refresh material and brand-new entries.
	parts := filter.Partition(found, known)
	s.log.Info().Int("new", len(parts.New)).Msg("new repositories to add")
	for _, repo := range parts.New {
		s.log.Info().Str("repo", repo.FullName).Int("stars", repo.Stars).Msg("discovered")
	}

	// 4. Refresh star counts on already-listed rows.
	merged := filter.RefreshStars(rows, parts.ByURL)

	// 5. Append rows for the new repositories, then order everything by
	// stars descending.
	for _, repo := range parts.New {
		merged = append(merged, domain.NewRow(repo))
	}
	filter.SortRows(merged)

	res := &Result{
		New:   parts.New,
		Found: len(found),
		Known: len(known),
		Total: len(merged),
	}

	// 6. Splice the rebuilt section over the original span and write.
	updated, ok := s.store.Splice(doc, merged)
	switch {
	case !ok:
		s.log.Warn().Msg("section markers missing, document left untouched")
	case s.cfg.DryRun:
		s.log.Info().Msg("dry run, skipping document write")
	default:
		if err := s.store.Save(updated); err != nil {
			return nil, err
		}
		res.Wrote = true
		s.log.Info().Int("new", len(res.New)).Msg("document updated")
	}

	// 7. Publish run outputs for the surrounding automation.
	if err := s.emit(res); err != nil {
		return nil, err
	}

	return res, nil
}

// emit publishes the new-entry count and list as workflow outputs.
func (s *DiscoveryService) emit(res *Result) error {
	if err := s.reporter.Emit("new_count", strconv.Itoa(len(res.New))); err != nil {
		return err
	}
	return s.reporter.Emit("new_services", FormatNewServices(res.New))
}

// FormatNewServices renders the newly added repositories as a bulleted
// list, or the "None" sentinel when the run added nothing.
func FormatNewServices(repos []*domain.Repo) string {
	if len(repos) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(repos))
	for _, r := range repos {
		lines = append(lines, fmt.Sprintf("- [%s](%s) (%d stars)", r.FullName, r.URL, r.Stars))
	}
	return strings.Join(lines, "\n")
}
