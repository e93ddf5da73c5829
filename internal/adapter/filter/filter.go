// Package filter decides which discovered repositories become new list
// entries and which only contribute fresh star counts to existing rows.
package filter

import (
	"sort"

	"github.com/Laeyoung/Awesome-Nano-AI/internal/domain"
)

// Result is the partition of one run's aggregated search results.
type Result struct {
	// ByURL indexes every result by canonical URL. All results take part
	// in star refresh, including forks and already-listed repos.
	ByURL map[string]*domain.Repo

	// New holds repositories eligible for a brand-new row, sorted by
	// stars descending.
	New []*domain.Repo
}

// Partition splits the aggregated repositories. A repository is excluded
// from New when it is a fork, archived, or its canonical URL is already
// listed; it still lands in ByURL so existing rows get fresh stars.
func Partition(found map[string]*domain.Repo, known map[string]struct{}) Result {
	res := Result{ByURL: make(map[string]*domain.Repo, len(found))}

	for _, repo := range found {
		url := repo.Canonical()
		res.ByURL[url] = repo

		if repo.Fork || repo.Archived {
			continue
		}
		if _, listed := known[url]; listed {
			continue
		}
		res.New = append(res.New, repo)
	}

	// Stars descending; full name breaks ties so runs are deterministic.
	sort.SliceStable(res.New, func(i, j int) bool {
		if res.New[i].Stars != res.New[j].Stars {
			return res.New[i].Stars > res.New[j].Stars
		}
		return res.New[i].FullName < res.New[j].FullName
	})

	return res
}

// RefreshStars rewrites the star field of every row whose URL matches a
// fetched repository. Name and description are never touched, even when
// they changed upstream.
func RefreshStars(rows []domain.Row, byURL map[string]*domain.Repo) []domain.Row {
	refreshed := make([]domain.Row, len(rows))
	for i, row := range rows {
		if url := row.Canonical(); url != "" {
			if repo, ok := byURL[url]; ok {
				row.Stars = repo.Stars
			}
		}
		refreshed[i] = row
	}
	return refreshed
}

// SortRows orders merged rows by stars descending, keeping the relative
// order of equal-star rows stable.
func SortRows(rows []domain.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Stars > rows[j].Stars
	})
}
