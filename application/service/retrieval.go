package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/minddeck/minddeck/domain/brain"
	"github.com/minddeck/minddeck/domain/event"
	"github.com/minddeck/minddeck/domain/memory"
	"github.com/minddeck/minddeck/infrastructure/search"
)

const variationPromptTemplate = `A developer keeps a log of project events. For the question below, write exactly three distinct phrasings of the log entry that would answer it:
1. a concise headline
2. a detailed technical entry
3. a past-tense declarative statement
Return one phrasing per line, with no numbering, bullets, or commentary.

Question: %s`

// Retrieval finds stored events semantically similar to a free-text
// query. Queries are first rewritten into hypothetical log entries to
// close the phrasing gap between questions and entries.
type Retrieval struct {
	generation   *Generation
	embedding    *Embedding
	store        memory.Store
	defaultLimit int
	logger       *slog.Logger
}

// NewRetrieval creates a Retrieval service.
func NewRetrieval(generation *Generation, embedding *Embedding, store memory.Store, defaultLimit int, logger *slog.Logger) *Retrieval {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrieval{
		generation:   generation,
		embedding:    embedding,
		store:        store,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

type searchConfig struct {
	project string
	limit   int
}

// SearchOption narrows or resizes a similarity search.
type SearchOption func(*searchConfig)

// WithProject restricts results to a single project.
func WithProject(project string) SearchOption {
	return func(c *searchConfig) { c.project = project }
}

// WithLimit overrides the default result count.
func WithLimit(limit int) SearchOption {
	return func(c *searchConfig) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// FindSimilarEvents returns the events most similar to the query,
// scored and sorted descending. Git-derived entries are excluded; they
// drown conversational queries in commit noise.
func (r *Retrieval) FindSimilarEvents(ctx context.Context, query string, opts ...SearchOption) ([]brain.ScoredEvent, error) {
	cfg := searchConfig{limit: r.defaultLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	variations := r.expandQuery(ctx, query)

	vectors := make([][]float64, len(variations))
	g, gctx := errgroup.WithContext(ctx)
	for i, variation := range variations {
		g.Go(func() error {
			vector, err := r.embedding.GenerateEmbedding(gctx, variation)
			if err != nil {
				return err
			}
			vectors[i] = vector
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("embed query variations: %w", err)
	}

	candidates, err := r.store.Candidates(ctx, event.Filter{
		Project:        cfg.project,
		ExcludeTypes:   []event.Type{event.TypeGitCommit},
		ExcludeSources: []event.Source{event.SourceGit},
	})
	if err != nil {
		return nil, fmt.Errorf("load search candidates: %w", err)
	}

	return search.Rank(vectors, candidates, cfg.limit), nil
}

// expandQuery rewrites the query into hypothetical log entry phrasings.
// Expansion is best-effort: on any failure the raw query is searched
// alone, never an error.
func (r *Retrieval) expandQuery(ctx context.Context, query string) []string {
	out, err := r.generation.GenerateText(ctx, fmt.Sprintf(variationPromptTemplate, query))
	if err != nil {
		r.logger.Warn("query expansion failed, searching raw query", "error", err)
		return []string{query}
	}

	var variations []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			variations = append(variations, line)
		}
	}
	if len(variations) == 0 {
		return []string{query}
	}
	return variations
}
