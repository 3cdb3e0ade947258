package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minddeck/minddeck/domain/brain"
)

// nothingFoundResponse is returned whenever a grounded answer cannot be
// produced, whether retrieval came back empty or generation failed.
const nothingFoundResponse = "I couldn't find anything in your memory log that relates to this question. Try rephrasing it, or log more context first."

const askSystemPrompt = `You answer questions about a personal project memory log.

Rules:
1. Answer using only the context entries provided below.
2. Never invent dates, events, or details that are not in the context.
3. If the context does not contain the answer, say so explicitly.
4. Entries may describe the same event in different words; treat them as one.
5. Prefer precise, traceable statements over completeness.

Respond with a JSON object of exactly this shape:
{"user_response": "<natural-language answer>", "related_memories": [{"id": "<event id>", "excerpt": "<verbatim text from the context>", "date": "<entry date>", "type": "<entry type>"}]}`

// Brain answers questions grounded in retrieved memory log entries. It
// never errors towards the caller: every failure path degrades into the
// canned answer shape.
type Brain struct {
	generation *Generation
	retrieval  *Retrieval
	topK       int
	logger     *slog.Logger
}

// NewBrain creates a Brain service. topK controls how many retrieved
// entries feed the context block.
func NewBrain(generation *Generation, retrieval *Retrieval, topK int, logger *slog.Logger) *Brain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Brain{
		generation: generation,
		retrieval:  retrieval,
		topK:       topK,
		logger:     logger,
	}
}

// AskOption narrows a question.
type AskOption func(*askConfig)

type askConfig struct {
	project string
}

// WithAskProject restricts the answer's grounding to a single project.
func WithAskProject(project string) AskOption {
	return func(c *askConfig) { c.project = project }
}

// askPayload is the wire shape the model is instructed to return.
type askPayload struct {
	UserResponse    string `json:"user_response"`
	RelatedMemories []struct {
		ID      string `json:"id"`
		Excerpt string `json:"excerpt"`
		Date    string `json:"date"`
		Type    string `json:"type"`
	} `json:"related_memories"`
}

// Ask answers a question using retrieved memory entries as the only
// source of truth. An empty retrieval result short-circuits to the
// degraded answer without spending a generation call.
func (b *Brain) Ask(ctx context.Context, query string, opts ...AskOption) (brain.Answer, error) {
	cfg := askConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	searchOpts := []SearchOption{WithLimit(b.topK)}
	if cfg.project != "" {
		searchOpts = append(searchOpts, WithProject(cfg.project))
	}

	results, err := b.retrieval.FindSimilarEvents(ctx, query, searchOpts...)
	if err != nil {
		b.logger.Warn("retrieval failed, degrading answer", "error", err)
		return brain.NewDegradedAnswer(nothingFoundResponse), nil
	}
	if len(results) == 0 {
		return brain.NewDegradedAnswer(nothingFoundResponse), nil
	}

	prompt := b.buildPrompt(query, results)
	raw, err := b.generation.GenerateJSON(ctx, prompt)
	if err != nil {
		b.logger.Warn("answer generation failed, degrading answer", "error", err)
		return brain.NewDegradedAnswer(nothingFoundResponse), nil
	}

	var payload askPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		b.logger.Warn("answer payload did not match schema, degrading answer", "error", err)
		return brain.NewDegradedAnswer(nothingFoundResponse), nil
	}
	if payload.UserResponse == "" {
		b.logger.Warn("answer payload missing user_response, degrading answer")
		return brain.NewDegradedAnswer(nothingFoundResponse), nil
	}

	memories := make([]brain.CitedMemory, 0, len(payload.RelatedMemories))
	for _, m := range payload.RelatedMemories {
		memories = append(memories, brain.NewCitedMemory(m.ID, m.Excerpt, m.Date, m.Type))
	}
	return brain.NewAnswer(payload.UserResponse, memories), nil
}

// buildPrompt assembles the grounding rules, the context block and the
// question into a single prompt.
func (b *Brain) buildPrompt(query string, results []brain.ScoredEvent) string {
	var sb strings.Builder
	sb.WriteString(askSystemPrompt)
	sb.WriteString("\n\nContext entries:\n")
	for _, scored := range results {
		ev := scored.Event()
		fmt.Fprintf(&sb, "[%s] (%s) [%s]: %s\n",
			ev.ID(), ev.Timestamp().Format("2006-01-02 15:04"), ev.Type(), ev.Text())
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(query)
	return sb.String()
}
