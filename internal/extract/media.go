package extract

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"courseforge/internal/format"
	"courseforge/internal/transcribe"
)

// MediaExtractor turns audio and video uploads into transcript text by
// calling an external transcription service. Page count is left unset;
// the orchestrator derives it from the transcript's page mapping.
type MediaExtractor struct {
	Transcriber transcribe.Transcriber
}

// Extract transcribes the media file. Any transcriber failure becomes
// a TranscriptionUnavailableError so callers can treat it as retryable.
func (m *MediaExtractor) Extract(ctx context.Context, data []byte, fileName string, f format.Format) (*Result, error) {
	if m.Transcriber == nil {
		return nil, &TranscriptionUnavailableError{FileName: fileName, Err: transcribe.ErrNotConfigured}
	}

	var mimeType string
	switch f {
	case format.Audio:
		mimeType = format.AudioMIMEType(fileName)
	case format.Video:
		mimeType = format.VideoMIMEType(fileName)
	default:
		return nil, &ExtractionFailedError{Format: f, Reason: "not a media format"}
	}

	tr, err := m.Transcriber.Transcribe(ctx, transcribe.Request{
		FileName: fileName,
		MIMEType: mimeType,
		Data:     data,
	})
	if err != nil {
		return nil, &TranscriptionUnavailableError{FileName: fileName, Err: err}
	}

	log.Printf("[Media] transcribed %s: %d chars", fileName, len(tr.Text))

	meta := map[string]string{
		"type":     string(f),
		"segments": strconv.Itoa(tr.Segments),
	}
	if tr.Language != "" {
		meta["language"] = tr.Language
	}
	if tr.Model != "" {
		meta["model"] = tr.Model
	}
	if tr.Duration != nil {
		meta["duration"] = fmt.Sprintf("%.2f", *tr.Duration)
	}

	return &Result{
		Text:      tr.Text,
		WordCount: countWords(tr.Text),
		Duration:  tr.Duration,
		Metadata:  meta,
	}, nil
}
