package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTranscribe_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if model := r.FormValue("model"); model != "whisper-1" {
			t.Errorf("model = %q, want whisper-1", model)
		}
		if rf := r.FormValue("response_format"); rf != "verbose_json" {
			t.Errorf("response_format = %q, want verbose_json", rf)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "lecture.mp3" {
			t.Errorf("filename = %q", header.Filename)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"text":     "hello from the lecture",
			"duration": 12.5,
			"language": "english",
			"segments": []map[string]any{{"id": 0}, {"id": 1}},
		})
	}))
	defer server.Close()

	tr := NewAPITranscriber(server.URL, "test-key", "whisper-1")
	result, err := tr.Transcribe(context.Background(), Request{
		FileName: "lecture.mp3",
		MIMEType: "audio/mpeg",
		Data:     []byte("fake audio bytes"),
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Text != "hello from the lecture" {
		t.Errorf("Text = %q", result.Text)
	}
	if result.Duration == nil || *result.Duration != 12.5 {
		t.Errorf("Duration = %v, want 12.5", result.Duration)
	}
	if result.Language != "english" {
		t.Errorf("Language = %q", result.Language)
	}
	if result.Segments != 2 {
		t.Errorf("Segments = %d, want 2", result.Segments)
	}
}

func TestTranscribe_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer server.Close()

	tr := NewAPITranscriber(server.URL, "test-key", "whisper-1")
	_, err := tr.Transcribe(context.Background(), Request{FileName: "a.mp3", MIMEType: "audio/mpeg", Data: []byte("x")})
	if err == nil {
		t.Fatal("expected error for 429 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
	if !apiErr.Retryable() {
		t.Error("429 should be retryable")
	}
	if !strings.Contains(apiErr.Message, "rate limit") {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestTranscribe_NotConfigured(t *testing.T) {
	tr := NewAPITranscriber("", "", "")
	_, err := tr.Transcribe(context.Background(), Request{FileName: "a.mp3", Data: []byte("x")})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestAPIError_Retryable(t *testing.T) {
	cases := []struct {
		code int
		want bool
	}{
		{429, true},
		{500, true},
		{503, true},
		{400, false},
		{401, false},
		{404, false},
	}
	for _, c := range cases {
		e := &APIError{StatusCode: c.code}
		if got := e.Retryable(); got != c.want {
			t.Errorf("Retryable(%d) = %v, want %v", c.code, got, c.want)
		}
	}
}
