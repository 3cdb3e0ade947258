package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minddeck/minddeck/domain/memory"
	"github.com/minddeck/minddeck/infrastructure/provider"
)

// minEmbedTextLength is the shortest text worth embedding. Anything
// below it carries no retrievable signal.
const minEmbedTextLength = 3

// Embedding generates and persists event embeddings. When the active
// provider cannot embed (Anthropic), a fallback embedding-capable
// client is substituted transparently.
type Embedding struct {
	client   provider.Client
	fallback provider.Client
	store    memory.Store
	model    string
	delay    time.Duration
	logger   *slog.Logger
}

// NewEmbedding creates an Embedding service. fallback may be nil when
// no embedding-capable provider is configured; model labels stored
// vectors and delay paces backfill provider calls.
func NewEmbedding(client, fallback provider.Client, store memory.Store, model string, delay time.Duration, logger *slog.Logger) *Embedding {
	if logger == nil {
		logger = slog.Default()
	}
	return &Embedding{
		client:   client,
		fallback: fallback,
		store:    store,
		model:    model,
		delay:    delay,
		logger:   logger,
	}
}

// embedClient returns the client to use for embeddings, or nil when
// none is capable.
func (e *Embedding) embedClient() provider.Client {
	if e.client != nil && e.client.SupportsEmbedding() {
		return e.client
	}
	if e.fallback != nil && e.fallback.SupportsEmbedding() {
		return e.fallback
	}
	return nil
}

// GenerateEmbedding returns the vector for a single text.
func (e *Embedding) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	client := e.embedClient()
	if client == nil {
		return nil, fmt.Errorf("no embedding-capable provider configured")
	}
	if client != e.client {
		e.logger.Debug("substituting embedding provider",
			"active", e.client.Name(), "fallback", client.Name())
	}

	vectors, err := client.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("generate embedding: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("generate embedding: expected 1 vector, got %d", len(vectors))
	}
	return vectors[0], nil
}

// SaveEmbedding upserts the vector for an event. Re-embedding the same
// event replaces the old row.
func (e *Embedding) SaveEmbedding(ctx context.Context, eventID string, vector []float64) error {
	emb := memory.NewEmbedding(eventID, vector, e.model, time.Now().UTC())
	if err := e.store.Upsert(ctx, emb); err != nil {
		return fmt.Errorf("save embedding: %w", err)
	}
	return nil
}

// BackfillTask is the handle for an in-flight backfill run. Counts are
// valid once Wait returns.
type BackfillTask struct {
	done chan struct{}
	err  error

	embedded int
	skipped  int
	failed   int
}

// Wait blocks until the backfill run finishes and returns its error,
// if any. Per-event embedding failures are not errors; they only bump
// the Failed count.
func (t *BackfillTask) Wait() error {
	<-t.done
	return t.err
}

// Embedded returns the number of events embedded.
func (t *BackfillTask) Embedded() int { return t.embedded }

// Skipped returns the number of events skipped for being too short.
func (t *BackfillTask) Skipped() int { return t.skipped }

// Failed returns the number of events whose embedding call failed.
func (t *BackfillTask) Failed() int { return t.failed }

// Backfill embeds every event that has no embedding yet, in the
// background. The returned task reports progress once complete.
// Individual failures are logged and skipped so one bad event cannot
// stall the rest.
func (e *Embedding) Backfill(ctx context.Context) *BackfillTask {
	task := &BackfillTask{done: make(chan struct{})}
	go func() {
		defer close(task.done)
		task.err = e.runBackfill(ctx, task)
	}()
	return task
}

func (e *Embedding) runBackfill(ctx context.Context, task *BackfillTask) error {
	events, err := e.store.EventsWithoutEmbedding(ctx)
	if err != nil {
		return fmt.Errorf("backfill: %w", err)
	}
	if len(events) == 0 {
		e.logger.Info("backfill found nothing to embed")
		return nil
	}

	e.logger.Info("starting embedding backfill", "pending", len(events))
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}

		text := strings.TrimSpace(ev.Text())
		if len([]rune(text)) < minEmbedTextLength {
			task.skipped++
			continue
		}

		vector, err := e.GenerateEmbedding(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.Warn("backfill embedding failed", "event_id", ev.ID(), "error", err)
			task.failed++
			continue
		}
		if err := e.SaveEmbedding(ctx, ev.ID(), vector); err != nil {
			e.logger.Warn("backfill save failed", "event_id", ev.ID(), "error", err)
			task.failed++
			continue
		}
		task.embedded++

		// Pace provider calls to stay under rate limits.
		if i < len(events)-1 && e.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.delay):
			}
		}
	}

	e.logger.Info("embedding backfill complete",
		"embedded", task.embedded, "skipped", task.skipped, "failed", task.failed)
	return nil
}
