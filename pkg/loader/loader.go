// Package loader reads source documents as ordered paragraph lists.
package loader

import (
	"fmt"
	"os"
	"strings"
)

// Paragraphs reads a UTF-8 text or markdown document and returns its
// non-empty paragraphs in document order, trimmed of surrounding
// whitespace. Paragraphs are separated by blank lines.
func Paragraphs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		paragraphs = append(paragraphs, block)
	}
	return paragraphs, nil
}
