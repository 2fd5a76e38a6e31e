// Package transcribe provides the speech-to-text client used for audio and
// video content. It targets OpenAI-compatible transcription endpoints
// (POST {endpoint}/audio/transcriptions with a multipart upload).
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// DefaultModel is the transcription model requested when none is configured.
const DefaultModel = "whisper-1"

// ErrNotConfigured is returned when no API key is available. Callers treat
// it like any other service-unavailable condition: the file degrades to an
// empty-content record instead of failing the batch.
var ErrNotConfigured = errors.New("transcription API key not configured")

// Transcriber converts audio/video bytes into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (*Transcription, error)
}

// Request describes one media file to transcribe.
type Request struct {
	FileName string
	MIMEType string
	Data     []byte
}

// Transcription is the parsed result of a transcription call.
type Transcription struct {
	Text     string
	Duration *float64 // seconds; nil when the service does not report it
	Language string   // detected language; empty when not reported
	Segments int      // number of segments in the verbose response
	Model    string
}

// APIError is a non-2xx response from the transcription service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("transcription API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Retryable reports whether the failure is transient (rate limiting or a
// server-side error) rather than a problem with the uploaded media.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// APITranscriber implements Transcriber against an OpenAI-compatible API.
// It carries no per-call state and is safe for concurrent use.
type APITranscriber struct {
	Endpoint string
	APIKey   string
	Model    string
	client   *http.Client
}

// NewAPITranscriber creates an APITranscriber. The HTTP client has no
// timeout of its own; callers bound each request through the context.
func NewAPITranscriber(endpoint, apiKey, model string) *APITranscriber {
	if model == "" {
		model = DefaultModel
	}
	return &APITranscriber{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Model:    model,
		client:   &http.Client{},
	}
}

// --- wire types (verbose_json response format) ---

type transcriptionResponse struct {
	Text     string            `json:"text"`
	Duration *float64          `json:"duration,omitempty"`
	Language string            `json:"language,omitempty"`
	Segments []json.RawMessage `json:"segments,omitempty"`
	Error    *apiErrorBody     `json:"error,omitempty"`
}

type apiErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Transcribe uploads the media file and returns the transcript. The request
// is sent as multipart/form-data with model and response_format fields, the
// same shape the original Whisper API expects.
func (s *APITranscriber) Transcribe(ctx context.Context, req Request) (*Transcription, error) {
	if s.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("transcription request has no data")
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	fw, err := createFormFile(mw, "file", req.FileName, req.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := fw.Write(req.Data); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := mw.WriteField("model", s.Model); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	url := strings.TrimRight(s.Endpoint, "/") + "/audio/transcriptions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+s.APIKey)

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 50<<20)) // 50MB max response
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var errResp transcriptionResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != nil {
			apiErr.Message = errResp.Error.Message
		}
		return nil, apiErr
	}

	var result transcriptionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: result.Error.Message}
	}

	elapsed := time.Since(start)
	log.Printf("[Transcribe] %s: %d chars, %d segments in %.1fs",
		req.FileName, len(result.Text), len(result.Segments), elapsed.Seconds())

	return &Transcription{
		Text:     result.Text,
		Duration: result.Duration,
		Language: result.Language,
		Segments: len(result.Segments),
		Model:    s.Model,
	}, nil
}

// createFormFile is multipart.Writer.CreateFormFile with an explicit part
// content type, so the service sees audio/mpeg or video/mp4 instead of the
// generic application/octet-stream.
func createFormFile(mw *multipart.Writer, field, fileName, mimeType string) (io.Writer, error) {
	if mimeType == "" {
		return mw.CreateFormFile(field, fileName)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName))
	h.Set("Content-Type", mimeType)
	return mw.CreatePart(h)
}
