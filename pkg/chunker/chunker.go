// Package chunker splits document paragraphs into overlapping,
// budget-bounded text chunks used as retrieval units.
package chunker

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrNoParagraphs is returned when there is no content to chunk.
var ErrNoParagraphs = errors.New("no paragraphs to chunk")

// Split merges paragraphs into chunks of roughly maxChars characters,
// carrying the last overlap characters of each chunk into the next one so
// context survives chunk boundaries. Paragraphs inside a chunk are joined
// by a newline. A single paragraph longer than maxChars is emitted whole;
// the budget is advisory, not a hard cap.
func Split(paragraphs []string, maxChars, overlap int) ([]string, error) {
	if len(paragraphs) == 0 {
		return nil, ErrNoParagraphs
	}

	var chunks []string
	var buffer []string
	currentLen := 0

	for _, para := range paragraphs {
		paraLen := utf8.RuneCountInString(para)
		if currentLen+paraLen+1 > maxChars && len(buffer) > 0 {
			chunk := strings.Join(buffer, "\n")
			chunks = append(chunks, chunk)
			overlapText := tail(chunk, overlap)
			buffer = []string{overlapText, para}
			currentLen = utf8.RuneCountInString(overlapText) + paraLen
		} else {
			buffer = append(buffer, para)
			currentLen += paraLen + 1
		}
	}

	if len(buffer) > 0 {
		chunks = append(chunks, strings.Join(buffer, "\n"))
	}
	return chunks, nil
}

// tail returns the last n runes of s. The slice is taken on raw
// characters, not word boundaries, so it may start mid-word.
func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
