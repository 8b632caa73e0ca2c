package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// LoadKnowledgeBase reads the static procedures/rate-card text. A missing file yields an empty
// knowledge base rather than an error so the assistant can still answer from live data.
func LoadKnowledgeBase(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read knowledge base %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WantsRollup reports whether a question asks about supervisors or the portfolio as a whole.
func WantsRollup(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range []string{"supervisor", "summary", "summarize", "rollup", "roll up", "all projects", "overall", "portfolio"} {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
