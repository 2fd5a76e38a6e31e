// courseforge extracts text and page mappings from course source
// documents (PDF, Word, plain text, audio, video) and stores the
// results for downstream course generation.
//
// Usage:
//
//	courseforge [-config path] [-db path] file...
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"courseforge/internal/config"
	"courseforge/internal/content"
	"courseforge/internal/errlog"
	"courseforge/internal/store"
	"courseforge/internal/transcribe"
)

func main() {
	configPath := flag.String("config", "./data/config.json", "path to the config file")
	dbPath := flag.String("db", "", "override the content store path from config")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: courseforge [-config path] [-db path] file...")
		os.Exit(2)
	}

	if err := os.MkdirAll("./data", 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	if err := errlog.Init(); err != nil {
		log.Printf("[Main] error log unavailable: %v", err)
	} else {
		log.Printf("[Main] error log at %s", errlog.GetLogPath())
	}
	defer errlog.Close()

	cm, err := config.NewManager(*configPath)
	if err != nil {
		log.Fatalf("Failed to create config manager: %v", err)
	}
	if err := cm.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := cm.Get()

	path := cfg.Store.DBPath
	if *dbPath != "" {
		path = *dbPath
	}
	st, err := store.OpenSQLite(path)
	if err != nil {
		log.Fatalf("Failed to open content store: %v", err)
	}
	defer st.Close()

	var transcriber transcribe.Transcriber
	if cfg.Transcribe.APIKey != "" {
		transcriber = transcribe.NewAPITranscriber(cfg.Transcribe.Endpoint, cfg.Transcribe.APIKey, cfg.Transcribe.ModelName)
	} else {
		log.Printf("[Main] no transcription API key configured; audio and video files will be skipped with a warning")
	}

	pipeline := content.NewPipeline(transcriber)
	pipeline.TranscribeTimeout = time.Duration(cfg.Transcribe.TimeoutSeconds) * time.Second
	pipeline.MaxFileSize = int64(cfg.Intake.MaxFileSizeMB) << 20

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	processed := runBatch(ctx, pipeline, st, files, cfg.Intake.Concurrency)
	log.Printf("[Main] %d of %d files processed", processed, len(files))
	if processed < len(files) {
		os.Exit(1)
	}
}

// runBatch extracts and stores each file with bounded concurrency and
// returns how many succeeded. A file counts as processed when it is
// stored, even if extraction degraded to an empty record.
func runBatch(ctx context.Context, pipeline *content.Pipeline, st store.ContentStore, files []string, concurrency int) int {
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		processed int
	)
	sem := make(chan struct{}, concurrency)

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(file string) {
			defer wg.Done()
			defer func() { <-sem }()

			rec, err := processFile(ctx, pipeline, st, file)
			if err != nil {
				log.Printf("[Main] %s: %v", file, err)
				errlog.Logf("intake %s: %v", file, err)
				return
			}

			if rec.Content.Empty() {
				log.Printf("[Main] %s: stored empty record %s (%s)", file, rec.ID, rec.Content.Metadata["extraction_error"])
			} else {
				log.Printf("[Main] %s: stored %s (%d chars, %d pages)", file, rec.ID, len(rec.Content.Text), len(rec.Content.PageMapping))
			}

			mu.Lock()
			processed++
			mu.Unlock()
		}(file)
	}

	wg.Wait()
	return processed
}

func processFile(ctx context.Context, pipeline *content.Pipeline, st store.ContentStore, file string) (*store.Record, error) {
	extracted, err := pipeline.ExtractFile(ctx, file)
	if err != nil {
		return nil, err
	}
	return st.Put(ctx, extracted)
}
