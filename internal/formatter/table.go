// Package formatter renders run results for the terminal.
package formatter

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/Laeyoung/Awesome-Nano-AI/internal/domain"
)

// RenderNewRepos displays the newly added repositories as a table.
// Callers pass repos already sorted by stars descending.
func RenderNewRepos(w io.Writer, repos []*domain.Repo) {
	table := tablewriter.NewWriter(w)

	table.Header("REPO", "STARS", "DESCRIPTION", "URL")

	for _, r := range repos {
		table.Append(
			TruncateString(r.FullName, 40),
			r.Stars,
			TruncateWithEllipsis(r.Description, 60),
			r.URL,
		)
	}

	table.Render()
}
