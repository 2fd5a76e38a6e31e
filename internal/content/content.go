// Package content orchestrates extraction: it detects the format,
// runs the right extractor with fallbacks, and attaches a page mapping
// so later stages can attribute generated material to source pages.
package content

import (
	"courseforge/internal/pagemap"
)

// ExtractedContent is the pipeline's output for one file. A failed
// extraction still yields a record: Text is empty, PageCount is nil
// and Metadata carries the error, so intake can proceed and the file
// can be retried later.
type ExtractedContent struct {
	Text string `json:"text"`
	// PageCount is nil when no page count could be determined.
	PageCount *int `json:"page_count"`
	// IsEstimated is false only when PageCount comes from the
	// document itself.
	IsEstimated    bool                `json:"is_estimated"`
	PageMapping    []pagemap.PageSlice `json:"page_mapping,omitempty"`
	Metadata       map[string]string   `json:"metadata,omitempty"`
	SourceFileName string              `json:"source_file_name"`
	MimeType       string              `json:"mime_type,omitempty"`
}

// Empty reports whether extraction produced no usable text.
func (c *ExtractedContent) Empty() bool {
	return c == nil || c.Text == ""
}
