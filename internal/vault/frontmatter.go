package vault

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

const frontmatterFence = "---"

// splitFrontmatter separates a leading YAML frontmatter block from the body.
// Returns the raw YAML (without fences), the body, and whether a block was
// present. Content without a well-formed block is treated as all body.
func splitFrontmatter(content string) (raw, body string, ok bool) {
	if !strings.HasPrefix(content, frontmatterFence+"\n") {
		return "", content, false
	}
	rest := content[len(frontmatterFence)+1:]
	end := strings.Index(rest, "\n"+frontmatterFence)
	if end < 0 {
		return "", content, false
	}
	raw = rest[:end]
	body = rest[end+len(frontmatterFence)+1:]
	body = strings.TrimPrefix(body, "\n")
	return raw, body, true
}

// parseFrontmatter decodes the frontmatter block of content. Content without
// a block yields an empty map.
func parseFrontmatter(content string) (map[string]interface{}, error) {
	raw, _, ok := splitFrontmatter(content)
	if !ok {
		return map[string]interface{}{}, nil
	}
	fm := map[string]interface{}{}
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return nil, fmt.Errorf("malformed frontmatter: %w", err)
	}
	return fm, nil
}

// composeFrontmatter re-serializes content with fm as its frontmatter block,
// preserving the body. An empty map removes the block.
func composeFrontmatter(content string, fm map[string]interface{}) (string, error) {
	_, body, _ := splitFrontmatter(content)
	if len(fm) == 0 {
		return body, nil
	}
	encoded, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	return frontmatterFence + "\n" + string(encoded) + frontmatterFence + "\n" + body, nil
}
