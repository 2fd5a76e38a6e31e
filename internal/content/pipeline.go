package content

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"courseforge/internal/extract"
	"courseforge/internal/format"
	"courseforge/internal/pagemap"
	"courseforge/internal/transcribe"
)

// DefaultMaxFileSize caps how much of a stream upload is read.
const DefaultMaxFileSize = 100 << 20

// Pipeline runs the full extraction flow for one file: detect, extract
// with fallbacks, map pages. Unsupported formats are the only hard
// error; everything else degrades to an empty record so a batch can
// keep moving.
type Pipeline struct {
	Transcriber       transcribe.Transcriber
	TranscribeTimeout time.Duration
	MaxFileSize       int64
}

// NewPipeline returns a Pipeline with default limits. transcriber may
// be nil, in which case audio and video degrade with a warning.
func NewPipeline(transcriber transcribe.Transcriber) *Pipeline {
	return &Pipeline{
		Transcriber:       transcriber,
		TranscribeTimeout: 10 * time.Minute,
		MaxFileSize:       DefaultMaxFileSize,
	}
}

// ExtractContentWithPages extracts text and page mapping from an
// uploaded file. The error is non-nil only for unsupported formats;
// recognized formats that fail to decode return a degraded record
// whose Metadata carries the failure.
func (p *Pipeline) ExtractContentWithPages(ctx context.Context, data []byte, fileName, declaredMIME string) (*ExtractedContent, error) {
	f := format.Detect(fileName, declaredMIME)

	switch f {
	case format.Unsupported, format.Presentation, format.Archive, format.Image:
		return nil, &extract.UnsupportedFormatError{Format: f, FileName: fileName}
	}

	log.Printf("[Pipeline] extracting %s (%s, %d bytes)", fileName, f, len(data))

	result, err := p.extract(ctx, data, fileName, f)
	if err != nil {
		result = p.recoverAsText(data, f, err)
	}
	if result == nil {
		log.Printf("[Pipeline] extraction_failed %s: %v", fileName, err)
		return &ExtractedContent{
			Metadata: map[string]string{
				"type":             string(f),
				"extraction_error": err.Error(),
			},
			SourceFileName: fileName,
			MimeType:       declaredMIME,
		}, nil
	}

	record := buildRecord(result, fileName, declaredMIME)
	if len(record.PageMapping) == 0 {
		log.Printf("[Pipeline] mapping_skipped %s: no text or page count", fileName)
	} else {
		log.Printf("[Pipeline] mapped %s: %d pages, %d chars", fileName, len(record.PageMapping), len(result.Text))
	}

	return record, nil
}

// buildRecord assembles the content record from an extractor result.
// The record reports a page count only when a mapping exists: a
// scanned PDF with a native page count but no extractable text yields
// a nil count, with the decoder's count preserved in metadata.
func buildRecord(result *extract.Result, fileName, mimeType string) *ExtractedContent {
	record := &ExtractedContent{
		Text:           result.Text,
		IsEstimated:    !result.Native,
		Metadata:       result.Metadata,
		SourceFileName: fileName,
		MimeType:       mimeType,
	}

	mapping := pagemap.Estimate(result.Text, mappingPages(result), result.Native)
	record.PageMapping = mapping

	switch {
	case len(mapping) == 0:
		if result.PageCount > 0 {
			if record.Metadata == nil {
				record.Metadata = make(map[string]string)
			}
			record.Metadata["native_page_count"] = strconv.Itoa(result.PageCount)
		}
	case result.PageCount > 0:
		record.PageCount = intPtr(result.PageCount)
	default:
		// Media transcripts have no page count of their own; the
		// mapping length stands in for one.
		record.PageCount = intPtr(len(mapping))
	}

	return record
}

// ExtractFile reads path and runs extraction on its contents.
func (p *Pipeline) ExtractFile(ctx context.Context, path string) (*ExtractedContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.ExtractContentWithPages(ctx, data, filepath.Base(path), "")
}

// ExtractStream buffers r up to MaxFileSize and runs extraction.
func (p *Pipeline) ExtractStream(ctx context.Context, r io.Reader, fileName, declaredMIME string) (*ExtractedContent, error) {
	limit := p.MaxFileSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", fileName, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("upload %s exceeds the %d MB size limit", fileName, limit>>20)
	}
	return p.ExtractContentWithPages(ctx, data, fileName, declaredMIME)
}

// extract dispatches to the per-format extractor. PDF gets a second
// decoder before giving up.
func (p *Pipeline) extract(ctx context.Context, data []byte, fileName string, f format.Format) (*extract.Result, error) {
	switch f {
	case format.PDF:
		result, err := extract.ExtractPDF(data)
		if err == nil {
			return result, nil
		}
		log.Printf("[Pipeline] primary pdf decoder failed for %s, trying fallback: %v", fileName, err)
		if result, err2 := extract.ExtractPDFBasic(data); err2 == nil {
			return result, nil
		}
		return nil, err
	case format.DOCX:
		return extract.ExtractDOCX(data)
	case format.DOC:
		return extract.ExtractDOC(data)
	case format.TXT:
		return extract.ExtractText(data)
	case format.Audio, format.Video:
		me := &extract.MediaExtractor{Transcriber: p.Transcriber}
		if p.TranscribeTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.TranscribeTimeout)
			defer cancel()
		}
		return me.Extract(ctx, data, fileName, f)
	default:
		return nil, &extract.ExtractionFailedError{Format: f, Reason: "no extractor"}
	}
}

// recoverAsText is the last rung of the fallback ladder: if the bytes
// happen to be readable text, keep them as a derived-page text result
// instead of losing the file. Binary payloads fail the UTF-8 check and
// fall through to the degraded record.
func (p *Pipeline) recoverAsText(data []byte, f format.Format, cause error) *extract.Result {
	if !utf8.Valid(data) {
		return nil
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	result, err := extract.ExtractText(data)
	if err != nil {
		return nil
	}
	result.Metadata["type"] = string(f)
	result.Metadata["warning"] = fmt.Sprintf("decoded as plain text after %s extraction failed: %v", f, cause)
	log.Printf("[Pipeline] recovered %s content as plain text", f)
	return result
}

// mappingPages returns the page count Estimate should see. In derived
// mode the count only gates the call, so any positive value works for
// formats that have text but no count yet (media transcripts).
func mappingPages(result *extract.Result) int {
	if result.PageCount > 0 {
		return result.PageCount
	}
	if result.Text != "" {
		return 1
	}
	return 0
}

func intPtr(v int) *int { return &v }
