package store

import (
	"context"
	"path/filepath"
	"testing"

	"courseforge/internal/content"
	"courseforge/internal/pagemap"
)

func sampleContent() *content.ExtractedContent {
	pages := 2
	return &content.ExtractedContent{
		Text:        "page one text\n\npage two text",
		PageCount:   &pages,
		IsEstimated: false,
		PageMapping: []pagemap.PageSlice{
			{Page: 1, Content: "page one text", StartChar: 0, EndChar: 13, Estimated: true},
			{Page: 2, Content: "page two text", StartChar: 15, EndChar: 28, Estimated: true},
		},
		Metadata:       map[string]string{"type": "pdf", "title": "Sample"},
		SourceFileName: "sample.pdf",
		MimeType:       "application/pdf",
	}
}

// runStoreTests exercises the ContentStore contract against any implementation.
func runStoreTests(t *testing.T, s ContentStore) {
	ctx := context.Background()

	rec, err := s.Put(ctx, sampleContent())
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("Put returned empty id")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	c := got.Content
	if c.Text != "page one text\n\npage two text" {
		t.Errorf("Text = %q", c.Text)
	}
	if c.PageCount == nil || *c.PageCount != 2 {
		t.Errorf("PageCount = %v, want 2", c.PageCount)
	}
	if c.IsEstimated {
		t.Error("IsEstimated = true, want false")
	}
	if len(c.PageMapping) != 2 {
		t.Fatalf("PageMapping has %d slices, want 2", len(c.PageMapping))
	}
	if c.PageMapping[1].Content != "page two text" || c.PageMapping[1].StartChar != 15 {
		t.Errorf("PageMapping[1] = %+v", c.PageMapping[1])
	}
	if c.Metadata["title"] != "Sample" {
		t.Errorf("Metadata = %v", c.Metadata)
	}
	if c.SourceFileName != "sample.pdf" {
		t.Errorf("SourceFileName = %q", c.SourceFileName)
	}

	if _, err := s.Get(ctx, "no-such-id"); err != ErrNotFound {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}

	// A degraded record round-trips with nil page count and no mapping.
	degraded, err := s.Put(ctx, &content.ExtractedContent{
		Metadata:       map[string]string{"extraction_error": "boom"},
		SourceFileName: "broken.pdf",
	})
	if err != nil {
		t.Fatalf("Put degraded: %v", err)
	}
	got, err = s.Get(ctx, degraded.ID)
	if err != nil {
		t.Fatalf("Get degraded: %v", err)
	}
	if got.Content.PageCount != nil {
		t.Errorf("degraded PageCount = %v, want nil", *got.Content.PageCount)
	}
	if got.Content.Metadata["extraction_error"] != "boom" {
		t.Errorf("degraded Metadata = %v", got.Content.Metadata)
	}

	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List returned %d records, want 2", len(records))
	}

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); err != ErrNotFound {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, rec.ID); err != ErrNotFound {
		t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()

	runStoreTests(t, s)
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemoryStore())
}
