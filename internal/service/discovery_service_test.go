package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Laeyoung/Awesome-Nano-AI/internal/adapter/actions"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/adapter/readme"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/common"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/config"
	"github.com/Laeyoung/Awesome-Nano-AI/internal/domain"
)

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, query string) ([]*domain.Repo, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Repo), args.Error(1)
}

const testDoc = `# Awesome Nano AI

<!-- NANO_LIST_START -->
| Name | Description | Stars |
|------|-------------|-------|
| [foo](https://github.com/a/foo) | desc | 500 |
<!-- NANO_LIST_END -->

Footer.
`

type fixture struct {
	svc        *DiscoveryService
	searcher   *MockSearcher
	docPath    string
	outputPath string
}

func newFixture(t *testing.T, doc string, queries []string) *fixture {
	t.Helper()
	dir := t.TempDir()

	docPath := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(docPath, []byte(doc), 0o644))
	outputPath := filepath.Join(dir, "gha_output")

	cfg := config.Default()
	cfg.DocPath = docPath
	cfg.OutputPath = outputPath
	cfg.Queries = queries

	searcher := &MockSearcher{}
	store := readme.NewStore(docPath, cfg.MarkerStart, cfg.MarkerEnd)
	reporter := actions.NewReporter(outputPath)

	return &fixture{
		svc:        NewDiscoveryService(cfg, searcher, store, reporter, zerolog.Nop()),
		searcher:   searcher,
		docPath:    docPath,
		outputPath: outputPath,
	}
}

func (f *fixture) doc(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.docPath)
	require.NoError(t, err)
	return string(data)
}

func (f *fixture) output(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.outputPath)
	require.NoError(t, err)
	return string(data)
}

func TestDiscoveryService_Run_NewRepoAndStarRefresh(t *testing.T) {
	f := newFixture(t, testDoc, []string{"nano in:name topic:ai"})
	f.searcher.On("Search", mock.Anything, "nano in:name topic:ai").Return([]*domain.Repo{
		{FullName: "a/foo", Name: "foo", URL: "https://github.com/a/foo", Description: "changed upstream", Stars: 600},
		{FullName: "b/bar", Name: "bar", URL: "https://github.com/b/bar", Description: "brand new", Stars: 700},
	}, nil)

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.New, 1)
	assert.Equal(t, "b/bar", res.New[0].FullName)
	assert.True(t, res.Wrote)
	assert.Equal(t, 2, res.Total)

	doc := f.doc(t)
	barIdx := strings.Index(doc, "| [bar](https://github.com/b/bar) | brand new | 700 |")
	fooIdx := strings.Index(doc, "| [foo](https://github.com/a/foo) | desc | 600 |")
	require.NotEqual(t, -1, barIdx, "bar row missing:\n%s", doc)
	require.NotEqual(t, -1, fooIdx, "foo row missing or description was touched:\n%s", doc)
	// 700-star bar sorts above the refreshed 600-star foo.
	assert.Less(t, barIdx, fooIdx)

	// Surrounding document untouched.
	assert.True(t, strings.HasPrefix(doc, "# Awesome Nano AI\n"))
	assert.True(t, strings.HasSuffix(doc, "Footer.\n"))

	out := f.output(t)
	assert.Contains(t, out, "new_count=1\n")
	assert.Contains(t, out, "- [b/bar](https://github.com/b/bar) (700 stars)")
}

func TestDiscoveryService_Run_RateLimitedQuerySkipped(t *testing.T) {
	f := newFixture(t, testDoc, []string{"limited", "healthy"})
	f.searcher.On("Search", mock.Anything, "limited").
		Return(nil, common.WrapError(common.ErrCodeRateLimited, "query limited", nil))
	f.searcher.On("Search", mock.Anything, "healthy").Return([]*domain.Repo{
		{FullName: "b/bar", Name: "bar", URL: "https://github.com/b/bar", Description: "ok", Stars: 1200},
	}, nil)

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	// The run continued past the rate-limited query.
	f.searcher.AssertCalled(t, "Search", mock.Anything, "healthy")
	require.Len(t, res.New, 1)
	assert.Equal(t, "b/bar", res.New[0].FullName)
}

func TestDiscoveryService_Run_OtherSearchErrorAborts(t *testing.T) {
	f := newFixture(t, testDoc, []string{"broken", "never-reached"})
	f.searcher.On("Search", mock.Anything, "broken").
		Return(nil, common.WrapError(common.ErrCodeGitHubAPI, "boom", nil))

	_, err := f.svc.Run(context.Background())
	require.Error(t, err)

	f.searcher.AssertNotCalled(t, "Search", mock.Anything, "never-reached")
	// Document untouched on abort.
	assert.Equal(t, testDoc, f.doc(t))
}

func TestDiscoveryService_Run_ForkAndArchivedNeverAdded(t *testing.T) {
	f := newFixture(t, testDoc, []string{"q"})
	f.searcher.On("Search", mock.Anything, "q").Return([]*domain.Repo{
		{FullName: "c/fork", Name: "fork", URL: "https://github.com/c/fork", Stars: 99999, Fork: true},
		{FullName: "d/archived", Name: "archived", URL: "https://github.com/d/archived", Stars: 88888, Archived: true},
	}, nil)

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.New)
	assert.NotContains(t, f.doc(t), "c/fork")
	assert.NotContains(t, f.doc(t), "d/archived")

	out := f.output(t)
	assert.Contains(t, out, "new_count=0\n")
	assert.Contains(t, out, "new_services=None\n")
	assert.NotContains(t, out, "c/fork")
}

func TestDiscoveryService_Run_FirstOccurrenceWinsAcrossQueries(t *testing.T) {
	f := newFixture(t, testDoc, []string{"first", "second"})
	f.searcher.On("Search", mock.Anything, "first").Return([]*domain.Repo{
		{FullName: "b/bar", Name: "bar", URL: "https://github.com/b/bar", Description: "from first", Stars: 700},
	}, nil)
	f.searcher.On("Search", mock.Anything, "second").Return([]*domain.Repo{
		{FullName: "B/Bar", Name: "bar", URL: "https://github.com/b/bar", Description: "from second", Stars: 900},
	}, nil)

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.New, 1)
	assert.Equal(t, "from first", res.New[0].Description)
	assert.Equal(t, 700, res.New[0].Stars)
}

func TestDiscoveryService_Run_Idempotent(t *testing.T) {
	repos := []*domain.Repo{
		{FullName: "a/foo", Name: "foo", URL: "https://github.com/a/foo", Description: "desc", Stars: 600},
		{FullName: "b/bar", Name: "bar", URL: "https://github.com/b/bar", Description: "new", Stars: 700},
	}

	f := newFixture(t, testDoc, []string{"q"})
	f.searcher.On("Search", mock.Anything, "q").Return(repos, nil)

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	afterFirst := f.doc(t)

	_, err = f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, afterFirst, f.doc(t))
}

func TestDiscoveryService_Run_MissingMarkers(t *testing.T) {
	f := newFixture(t, "# plain document, no markers\n", []string{"q"})
	f.searcher.On("Search", mock.Anything, "q").Return([]*domain.Repo{
		{FullName: "b/bar", Name: "bar", URL: "https://github.com/b/bar", Stars: 700},
	}, nil)

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Wrote)
	assert.Equal(t, "# plain document, no markers\n", f.doc(t))
	// Discovery results are still reported.
	assert.Contains(t, f.output(t), "new_count=1\n")
}

func TestDiscoveryService_Run_DryRun(t *testing.T) {
	f := newFixture(t, testDoc, []string{"q"})
	f.svc.cfg.DryRun = true
	f.searcher.On("Search", mock.Anything, "q").Return([]*domain.Repo{
		{FullName: "b/bar", Name: "bar", URL: "https://github.com/b/bar", Stars: 700},
	}, nil)

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Wrote)
	assert.Equal(t, testDoc, f.doc(t))
	assert.Len(t, res.New, 1)
}

func TestFormatNewServices(t *testing.T) {
	assert.Equal(t, "None", FormatNewServices(nil))

	got := FormatNewServices([]*domain.Repo{
		{FullName: "a/foo", URL: "https://github.com/a/foo", Stars: 1},
		{FullName: "b/bar", URL: "https://github.com/b/bar", Stars: 2},
	})
	assert.Equal(t,
		"- [a/foo](https://github.com/a/foo) (1 stars)\n- [b/bar](https://github.com/b/bar) (2 stars)",
		got)
}
