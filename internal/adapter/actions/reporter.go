// Package actions emits run results as GitHub Actions output variables.
package actions

import (
	"fmt"
	"os"
	"strings"

	"github.com/Laeyoung/Awesome-Nano-AI/internal/common"
)

// Reporter appends key/value entries to the workflow output file named
// by GITHUB_OUTPUT. An empty path makes every Emit a no-op, which is the
// local-run case.
type Reporter struct {
	path string
}

// NewReporter creates a reporter writing to path.
func NewReporter(path string) *Reporter {
	return &Reporter{path: path}
}

// Emit appends one output entry. Multi-line values use the workflow
// heredoc convention (key<<EOF ... EOF) so the consuming runner can
// parse them.
func (r *Reporter) Emit(key, value string) error {
	if r.path == "" {
		return nil
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return common.WrapError(common.ErrCodeIO, "opening output file", err)
	}
	defer f.Close()

	var entry string
	if strings.Contains(value, "\n") {
		entry = fmt.Sprintf("%s<<EOF\n%s\nEOF\n", key, value)
	} else {
		entry = fmt.Sprintf("%s=%s\n", key, value)
	}

	if _, err := f.WriteString(entry); err != nil {
		return common.WrapError(common.ErrCodeIO, "writing output file", err)
	}
	return nil
}
