package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/Laeyoung/Awesome-Nano-AI/internal/common"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/domain"
)

// perPage is the search page size; one page per query, no pagination.
const perPage = 100

// Searcher implements port.Searcher against the GitHub search API.
// Queries are paced to one request per second so a full run stays under
// the secondary rate limits even without a token.
type Searcher struct {
	client   *github.Client
	limiter  *rate.Limiter
	minStars int
}

// NewSearcher initializes the GitHub client.
// token: Personal Access Token; empty means anonymous access with a much
// tighter rate limit (60 req/h).
func NewSearcher(token string, minStars int) *Searcher {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return &Searcher{
		client:   client,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		minStars: minStars,
	}
}

// Search runs one repository search with the configured star floor
// appended, returning up to 100 results sorted by stars descending.
// Rate-limit responses come back as a RATE_LIMITED error so the caller
// can drop the query and keep going; any other API failure is fatal.
func (s *Searcher) Search(ctx context.Context, query string) ([]*domain.Repo, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, common.WrapError(common.ErrCodeGitHubAPI, "waiting for rate limiter", err)
	}

	q := fmt.Sprintf("%s stars:>=%d", query, s.minStars)
	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: perPage,
		},
	}

	result, _, err := s.client.Search.Repositories(ctx, q, opts)
	if err != nil {
		if isRateLimit(err) {
			return nil, common.WrapError(common.ErrCodeRateLimited, fmt.Sprintf("query %q rate limited", query), err)
		}
		return nil, common.WrapError(common.ErrCodeGitHubAPI, fmt.Sprintf("query %q failed", query), err)
	}

	repos := make([]*domain.Repo, 0, len(result.Repositories))
	for _, item := range result.Repositories {
		repos = append(repos, &domain.Repo{
			FullName:    item.GetFullName(),
			Name:        item.GetName(),
			URL:         item.GetHTMLURL(),
			Description: item.GetDescription(),
			Stars:       item.GetStargazersCount(),
			Fork:        item.GetFork(),
			Archived:    item.GetArchived(),
		})
	}

	return repos, nil
}

// isRateLimit reports whether err is one of the API's rate-limit shapes:
// the typed primary/secondary limit errors, or a plain 403.
func isRateLimit(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode == http.StatusForbidden
	}
	return false
}
