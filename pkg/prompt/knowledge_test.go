package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKnowledgeBase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.md")
	require.NoError(t, os.WriteFile(path, []byte("\n# Rates\nAerial strand: $3/ft\n\n"), 0o644))

	kb, err := LoadKnowledgeBase(path)
	require.NoError(t, err)
	assert.Equal(t, "# Rates\nAerial strand: $3/ft", kb)

	kb, err = LoadKnowledgeBase(filepath.Join(dir, "missing.md"))
	require.NoError(t, err)
	assert.Empty(t, kb)

	_, err = LoadKnowledgeBase(dir)
	assert.Error(t, err)
}

func TestWantsRollup(t *testing.T) {
	assert.True(t, WantsRollup("Give me a summary by supervisor"))
	assert.True(t, WantsRollup("how are ALL PROJECTS doing"))
	assert.False(t, WantsRollup("what's left on NTP-2041?"))
}
