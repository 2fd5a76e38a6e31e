// Package extract decodes uploaded documents into plain text plus the
// page information needed downstream. PDF extraction is page-aware;
// Word and plain text derive a page count from word count; audio and
// video go through a transcription service.
package extract

import (
	"regexp"
	"strings"
)

// WordsPerPage is the divisor for derived page counts on formats that
// have no native pagination (Word, plain text).
const WordsPerPage = 500

// Result is the output of a single-format extractor, before page
// mapping is applied.
type Result struct {
	Text      string
	PageCount int
	// Native is true when PageCount comes from the document itself
	// (PDF) rather than a word-count estimate.
	Native    bool
	WordCount int
	// Duration is the media length in seconds, when known.
	Duration *float64
	Metadata map[string]string
}

// countWords splits on whitespace runs, matching how the derived page
// count is defined.
func countWords(text string) int {
	return len(strings.Fields(text))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// derivedPageCount returns ceil(words/WordsPerPage), minimum 1 for
// non-empty text.
func derivedPageCount(wordCount int) int {
	if wordCount == 0 {
		return 0
	}
	return ceilDiv(wordCount, WordsPerPage)
}

// Pre-compiled regexes for CleanText to avoid recompilation on every call.
var (
	controlCharRe  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	multiSpaceRe   = regexp.MustCompile(`[ \t]+`)
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// CleanText removes excessive whitespace and meaningless special characters
// from decoder output. It collapses space runs per line, removes control
// characters (except newlines and tabs) and caps blank runs at one empty
// line. Plain text and transcripts are not cleaned; their byte offsets
// must stay stable for page mapping.
func CleanText(text string) string {
	text = controlCharRe.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = multiSpaceRe.ReplaceAllString(line, " ")
		line = strings.TrimSpace(line)
		cleaned = append(cleaned, line)
	}
	text = strings.Join(cleaned, "\n")

	text = multiNewlineRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
