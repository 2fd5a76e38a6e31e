package extract

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	goword "github.com/VantageDataChat/GoWord"
	"github.com/richardlehane/mscfb"
)

// ExtractDOCX extracts text from Word (.docx) data. Word documents
// carry no page boundaries in the file, so the page count is derived
// from word count.
func ExtractDOCX(data []byte) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExtractionFailedError{Format: "docx", Reason: fmt.Sprintf("decoder panic: %v", r)}
		}
	}()

	doc, err := goword.OpenFromBytes(data)
	if err != nil {
		return nil, &ExtractionFailedError{Format: "docx", Reason: "open", Err: err}
	}

	text := CleanText(doc.ExtractText())
	words := countWords(text)

	meta := map[string]string{
		"type":       "docx",
		"word_count": strconv.Itoa(words),
	}
	if t := strings.TrimSpace(doc.Properties.Title); t != "" {
		meta["title"] = t
	}

	return &Result{
		Text:      text,
		PageCount: derivedPageCount(words),
		WordCount: words,
		Metadata:  meta,
	}, nil
}

// ExtractDOC handles legacy .doc files. The DOCX decoder is tried
// first since misnamed .docx uploads are common. A genuine OLE2
// compound file cannot be decoded here and fails with a conversion
// instruction.
func ExtractDOC(data []byte) (*Result, error) {
	if result, err := ExtractDOCX(data); err == nil {
		result.Metadata["type"] = "doc"
		return result, nil
	}

	if _, err := mscfb.New(bytes.NewReader(data)); err == nil {
		return nil, &ExtractionFailedError{
			Format: "doc",
			Reason: "legacy binary Word format: save the document as .docx or plain text and upload again",
		}
	}

	return nil, &ExtractionFailedError{Format: "doc", Reason: "not a Word document"}
}
