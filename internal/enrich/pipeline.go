// Package enrich is the post-upload enrichment pipeline: download the stored
// file, extract its text, summarize it via an external AI API, and write the
// derived fields back onto the document. Every step is best-effort; a failure
// here never invalidates the document it was enriching.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"transitdocs/internal/repository"
	"transitdocs/internal/storage"
	"transitdocs/internal/worker"
)

// maxFileBytes bounds how much of a stored object the pipeline will read.
// Uploads are capped well below this at the HTTP layer.
const maxFileBytes = 32 << 20

const previewLen = 200

// Result carries truncated previews of what the pipeline produced, for logging
// and for the synchronous processing endpoint used by tests and tooling.
type Result struct {
	ExtractedPreview string `json:"extracted_preview"`
	SummaryPreview   string `json:"summary_preview"`
}

// Pipeline wires storage, the summarizer, and the document repository behind
// a worker pool so uploads can fire-and-forget enrichment jobs.
type Pipeline struct {
	store      storage.Storage
	docs       repository.DocumentRepository
	summarizer Summarizer
	pool       *worker.Pool
	timeout    time.Duration
}

// NewPipeline constructs a Pipeline draining jobs through pool.
func NewPipeline(store storage.Storage, docs repository.DocumentRepository, summarizer Summarizer, pool *worker.Pool) *Pipeline {
	return &Pipeline{
		store:      store,
		docs:       docs,
		summarizer: summarizer,
		pool:       pool,
		timeout:    2 * time.Minute,
	}
}

// Enqueue hands the document to the background pool. The caller gets no
// result and no error: enrichment failures are logged, never surfaced to the
// upload that queued them.
func (p *Pipeline) Enqueue(documentID, storagePath string) {
	p.pool.Submit(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		res, err := p.Process(ctx, documentID, storagePath)
		if err != nil {
			return fmt.Errorf("enrich document %s: %w", documentID, err)
		}
		logProcessed(documentID, res)
		return nil
	})
}

// Process runs the enrichment steps synchronously. The document row is only
// touched on success; any earlier failure leaves it exactly as it was.
func (p *Pipeline) Process(ctx context.Context, documentID, storagePath string) (*Result, error) {
	obj, _, err := p.store.Get(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxFileBytes))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	doc, err := p.docs.FindByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	text, err := ExtractText(data, doc.ContentType)
	if err != nil {
		return nil, err
	}

	summary, err := p.summarizer.Summarize(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := p.docs.SetEnrichment(ctx, documentID, text, summary); err != nil {
		return nil, fmt.Errorf("store enrichment: %w", err)
	}

	return &Result{
		ExtractedPreview: preview(text),
		SummaryPreview:   preview(summary),
	}, nil
}

func preview(s string) string {
	if len(s) <= previewLen {
		return s
	}
	return s[:previewLen] + "..."
}

func logProcessed(documentID string, res *Result) {
	entry := map[string]any{
		"component":         "enrich",
		"level":             "info",
		"event":             "document_enriched",
		"document_id":       documentID,
		"extracted_preview": res.ExtractedPreview,
		"summary_preview":   res.SummaryPreview,
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
