package extract

import (
	"fmt"
	"strings"

	"courseforge/internal/format"
)

// UnsupportedFormatError is returned when a file's format cannot be
// processed at all. Each family carries its own instruction so the
// caller can surface an actionable message to the uploader.
type UnsupportedFormatError struct {
	Format   format.Format
	FileName string
}

func (e *UnsupportedFormatError) Error() string {
	switch e.Format {
	case format.Presentation:
		return fmt.Sprintf("presentation files are not supported (%s): export the slides to PDF and upload the PDF instead", e.FileName)
	case format.Archive:
		return fmt.Sprintf("archive files are not supported (%s): extract the archive and upload the individual documents", e.FileName)
	case format.Image:
		return fmt.Sprintf("image files are not supported (%s): images contain no extractable text", e.FileName)
	default:
		return fmt.Sprintf("unsupported file format (%s): accepted uploads are %s", e.FileName, acceptedUploads())
	}
}

// acceptedUploads renders the extension catalogue for the generic
// unsupported-format message, e.g. "documents (.pdf, .doc, ...), ...".
func acceptedUploads() string {
	exts := format.SupportedExtensions()
	var families []string
	for _, family := range []string{"documents", "audio", "video"} {
		families = append(families, fmt.Sprintf("%s (%s)", family, strings.Join(exts[family], ", ")))
	}
	return strings.Join(families, ", ")
}

// ExtractionFailedError is returned when a recognized format could not
// be decoded. The orchestrator treats it as recoverable and falls back
// to cruder extraction before degrading.
type ExtractionFailedError struct {
	Format format.Format
	Reason string
	Err    error
}

func (e *ExtractionFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Format, e.Reason)
}

func (e *ExtractionFailedError) Unwrap() error { return e.Err }

// TranscriptionUnavailableError is returned when the transcription
// service cannot produce a transcript for an audio or video file.
// It is retryable: the file itself may be fine.
type TranscriptionUnavailableError struct {
	FileName string
	Err      error
}

func (e *TranscriptionUnavailableError) Error() string {
	return fmt.Sprintf("transcription unavailable for %s: %v", e.FileName, e.Err)
}

func (e *TranscriptionUnavailableError) Unwrap() error { return e.Err }
