package extract

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"

	gopdf "github.com/VantageDataChat/GoPDF2"
	ltpdf "github.com/ledongthuc/pdf"
)

// ExtractPDF extracts text from PDF data page by page. The returned
// page count is the document's own, so downstream mapping can split
// the text evenly across real pages.
func ExtractPDF(data []byte) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExtractionFailedError{Format: "pdf", Reason: fmt.Sprintf("decoder panic: %v", r)}
		}
	}()

	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		return nil, &ExtractionFailedError{Format: "pdf", Reason: "missing %PDF- header"}
	}

	pageCount, err := gopdf.GetSourcePDFPageCountFromBytes(data)
	if err != nil {
		return nil, &ExtractionFailedError{Format: "pdf", Reason: "page count", Err: err}
	}
	if pageCount <= 0 {
		return nil, &ExtractionFailedError{Format: "pdf", Reason: "document has no pages"}
	}

	var sb strings.Builder
	emptyPages := 0
	for i := 0; i < pageCount; i++ {
		text, err := gopdf.ExtractPageText(data, i)
		if err != nil || text == "" {
			emptyPages++
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}
	if emptyPages > 0 {
		log.Printf("[PDF] %d of %d pages had no extractable text", emptyPages, pageCount)
	}

	text := CleanText(sb.String())
	meta := map[string]string{"type": "pdf"}
	addPDFInfo(data, meta)

	return &Result{
		Text:      text,
		PageCount: pageCount,
		Native:    true,
		WordCount: countWords(text),
		Metadata:  meta,
	}, nil
}

// ExtractPDFBasic is the fallback path: it pulls the whole document's
// text in one pass with a second decoder and reports no page count.
// Used when the primary decoder rejects the file.
func ExtractPDFBasic(data []byte) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExtractionFailedError{Format: "pdf", Reason: fmt.Sprintf("fallback decoder panic: %v", r)}
		}
	}()

	r, err := ltpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionFailedError{Format: "pdf", Reason: "fallback open", Err: err}
	}

	rd, err := r.GetPlainText()
	if err != nil {
		return nil, &ExtractionFailedError{Format: "pdf", Reason: "fallback text", Err: err}
	}
	raw, err := io.ReadAll(rd)
	if err != nil {
		return nil, &ExtractionFailedError{Format: "pdf", Reason: "fallback read", Err: err}
	}

	text := CleanText(string(raw))
	if text == "" {
		return nil, &ExtractionFailedError{Format: "pdf", Reason: "fallback produced no text"}
	}

	meta := map[string]string{"type": "pdf", "extraction": "basic"}
	addPDFInfo(data, meta)

	return &Result{
		Text:      text,
		WordCount: countWords(text),
		Metadata:  meta,
	}, nil
}

// addPDFInfo copies Title and Author from the PDF Info dictionary into
// meta. Best-effort: malformed trailers are ignored.
func addPDFInfo(data []byte, meta map[string]string) {
	defer func() { recover() }()

	r, err := ltpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return
	}
	info := r.Trailer().Key("Info")
	for field, key := range map[string]string{"Title": "title", "Author": "author"} {
		v := info.Key(field)
		if v.Kind() == ltpdf.String {
			if s := strings.TrimSpace(v.Text()); s != "" {
				meta[key] = s
			}
		}
	}
}
