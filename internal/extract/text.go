package extract

import (
	"bytes"
	"log"
	"strconv"
	"unicode/utf8"
)

// ExtractText handles plain text uploads. Invalid UTF-8 is repaired
// best-effort with replacement characters and flagged in metadata.
// The text is deliberately left unnormalized so page mapping offsets
// match the file content.
func ExtractText(data []byte) (*Result, error) {
	meta := map[string]string{"type": "txt"}

	if !utf8.Valid(data) {
		log.Printf("[Text] invalid UTF-8, decoding best-effort")
		data = bytes.ToValidUTF8(data, []byte("�"))
		meta["warning"] = "file contained invalid UTF-8; some characters were replaced"
	}

	text := string(data)
	words := countWords(text)
	meta["word_count"] = strconv.Itoa(words)

	return &Result{
		Text:      text,
		PageCount: derivedPageCount(words),
		WordCount: words,
		Metadata:  meta,
	}, nil
}
