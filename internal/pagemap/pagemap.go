// Package pagemap partitions extracted text into approximate page slices and
// provides page lookup and citation formatting for downstream consumers.
//
// The partition is an admitted approximation: PDF decoders report a native
// page count but not per-page boundaries, so text is split evenly by
// character count; formats with no page concept at all are sliced into fixed
// windows. Downstream citation text only needs to be plausible, not exact.
package pagemap

import (
	"sort"
	"strconv"
	"strings"
)

// CharsPerPage is the fixed window used to slice text from formats
// without a native page concept (DOCX, DOC, TXT, transcripts).
const CharsPerPage = 3000

// PageSlice is a contiguous character range of extracted text attributed to
// one logical page. Offsets are rune offsets into the parent text; slices of
// a mapping are a gapless, non-overlapping partition of it.
type PageSlice struct {
	Page      int    `json:"page"`
	Content   string `json:"content"`
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
	Estimated bool   `json:"estimated"`
}

// Estimate partitions text into page slices.
//
// Native mode (nativePageCount true, e.g. PDF): the text is distributed
// evenly across totalPages by character count. The page count is trusted,
// but per-page content is still an estimate — every slice carries
// Estimated=true.
//
// Derived mode: totalPages only gates the operation; the slice boundaries
// come from fixed CharsPerPage windows, so the mapping length is
// ceil(len/CharsPerPage) and the final slice may be short.
//
// Empty text or totalPages <= 0 yields an empty mapping.
func Estimate(text string, totalPages int, nativePageCount bool) []PageSlice {
	if text == "" || totalPages <= 0 {
		return nil
	}

	runes := []rune(text)

	if nativePageCount {
		return estimateEven(runes, totalPages)
	}
	return estimateFixed(runes)
}

// estimateEven splits runes evenly across totalPages. When the text is
// shorter than totalPages, trailing pages get empty slices so that the page
// numbering stays contiguous up to the native count.
func estimateEven(runes []rune, totalPages int) []PageSlice {
	avgCharsPerPage := ceilDiv(len(runes), totalPages)

	slices := make([]PageSlice, 0, totalPages)
	pos := 0
	for i := 1; i <= totalPages; i++ {
		start := pos
		end := start + avgCharsPerPage
		if end > len(runes) {
			end = len(runes)
		}
		slices = append(slices, PageSlice{
			Page:      i,
			Content:   string(runes[start:end]),
			StartChar: start,
			EndChar:   end,
			Estimated: true,
		})
		pos = end
	}
	return slices
}

// estimateFixed slices runes into CharsPerPage-sized windows.
func estimateFixed(runes []rune) []PageSlice {
	pages := ceilDiv(len(runes), CharsPerPage)

	slices := make([]PageSlice, 0, pages)
	for i := 1; i <= pages; i++ {
		start := (i - 1) * CharsPerPage
		end := i * CharsPerPage
		if end > len(runes) {
			end = len(runes)
		}
		slices = append(slices, PageSlice{
			Page:      i,
			Content:   string(runes[start:end]),
			StartChar: start,
			EndChar:   end,
			Estimated: true,
		})
	}
	return slices
}

// FindPagesContaining returns the page numbers whose slice content contains
// needle, case-insensitively, in ascending page order. Matching is per
// slice: a needle split across a page boundary is not detected — an
// accepted approximation of this mapping.
func FindPagesContaining(mapping []PageSlice, needle string) []int {
	needleLower := strings.ToLower(needle)

	var pages []int
	for _, slice := range mapping {
		if strings.Contains(strings.ToLower(slice.Content), needleLower) {
			pages = append(pages, slice.Page)
		}
	}
	return pages
}

// FormatPageRange renders a collection of page numbers for display:
// "-" for no pages, "Page 5" for a single page, and "Pages 1-3, 7" with
// maximal consecutive runs collapsed otherwise. Input order does not matter
// and duplicates are ignored.
func FormatPageRange(pages []int) string {
	if len(pages) == 0 {
		return "-"
	}

	seen := make(map[int]bool, len(pages))
	sorted := make([]int, 0, len(pages))
	for _, p := range pages {
		if !seen[p] {
			seen[p] = true
			sorted = append(sorted, p)
		}
	}
	sort.Ints(sorted)

	if len(sorted) == 1 {
		return "Page " + strconv.Itoa(sorted[0])
	}

	var ranges []string
	rangeStart, rangeEnd := sorted[0], sorted[0]
	flush := func() {
		if rangeStart == rangeEnd {
			ranges = append(ranges, strconv.Itoa(rangeStart))
		} else {
			ranges = append(ranges, strconv.Itoa(rangeStart)+"-"+strconv.Itoa(rangeEnd))
		}
	}
	for _, p := range sorted[1:] {
		if p == rangeEnd+1 {
			rangeEnd = p
			continue
		}
		flush()
		rangeStart, rangeEnd = p, p
	}
	flush()

	return "Pages " + strings.Join(ranges, ", ")
}

// ContentFromPages concatenates the content of the requested pages, in the
// order given, separated by a blank line. Unknown page numbers and empty
// slices contribute nothing.
func ContentFromPages(mapping []PageSlice, pages []int) string {
	byPage := make(map[int]string, len(mapping))
	for _, slice := range mapping {
		byPage[slice.Page] = slice.Content
	}

	var parts []string
	for _, p := range pages {
		if content, ok := byPage[p]; ok && content != "" {
			parts = append(parts, content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ceilDiv returns ceil(a/b) for positive b.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
