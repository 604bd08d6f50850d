package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontmatter(t *testing.T) {
	content := "---\ntitle: Weekly Review\npriority: 2\n---\n# Notes\n"

	fm, err := parseFrontmatter(content)
	require.NoError(t, err)
	assert.Equal(t, "Weekly Review", fm["title"])
	assert.EqualValues(t, 2, fm["priority"])
}

func TestParseFrontmatterAbsent(t *testing.T) {
	fm, err := parseFrontmatter("# Just a heading\nbody text\n")
	require.NoError(t, err)
	assert.Empty(t, fm)
}

func TestParseFrontmatterUnterminated(t *testing.T) {
	fm, err := parseFrontmatter("---\ntitle: dangling\nno closing fence")
	require.NoError(t, err)
	assert.Empty(t, fm, "unterminated block is treated as body")
}

func TestComposeFrontmatterRoundTrip(t *testing.T) {
	content := "---\nold: value\n---\nbody line\n"

	out, err := composeFrontmatter(content, map[string]interface{}{"status": "done"})
	require.NoError(t, err)

	fm, err := parseFrontmatter(out)
	require.NoError(t, err)
	assert.Equal(t, "done", fm["status"])
	assert.NotContains(t, fm, "old")
	assert.Contains(t, out, "body line")
}

func TestComposeFrontmatterEmptyRemovesBlock(t *testing.T) {
	out, err := composeFrontmatter("---\na: 1\n---\nbody\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "body\n", out)
}
