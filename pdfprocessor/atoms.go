// Package pdfprocessor turns a PDF into a laid-out summary: text extraction,
// chunking, LLM summarization and the Processor pipeline that ends in a
// rendered summary PDF.
package pdfprocessor

import "unicode/utf8"

// DefaultDisplayLimit is the number of summary characters shown on screen.
const DefaultDisplayLimit = 500

// EstimateTokenCount gives a rough token estimate of four bytes per token.
//
//	EstimateTokenCount("Hello, world!") // 3
//	EstimateTokenCount("")              // 0
func EstimateTokenCount(text string) int {
	return len(text) / 4
}

// TruncateRunes cuts text to at most maxRunes characters without splitting
// a multi-byte character.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	n := 0
	for i := range text {
		if n == maxRunes {
			return text[:i]
		}
		n++
	}
	return text
}

// DisplayText returns the summary as shown on screen: unchanged when it is
// shorter than limit characters, otherwise the first limit characters
// followed by "...". A limit <= 0 disables truncation.
//
//	DisplayText("short", 500)          // "short"
//	DisplayText(strings.Repeat("a", 600), 500) // 500 a's + "..."
func DisplayText(summary string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(summary) < limit {
		return summary
	}
	return TruncateRunes(summary, limit) + "..."
}
