// Package query normalizes user queries, classifies their intent and
// embeds them for dense retrieval.
package query

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/skillsnav/atlas/helper"
	"github.com/skillsnav/atlas/model"
)

// intentRule maps marker phrases to one intent. Rules are evaluated in
// order and the first match wins, so more specific intents come first.
type intentRule struct {
	intent  model.QueryIntent
	markers []string
}

var intentRules = []intentRule{
	{model.IntentSkillGap, []string{"missing", "gap", "lack", "am i ready", "do i need to improve"}},
	{model.IntentLearningRecommendation, []string{"recommend", "course", "training", "learn", "certification", "certificate", "study", "upskill"}},
	{model.IntentCareerPath, []string{"career", "progression", "path", "transition", "grow into", "advance"}},
	{model.IntentJobSearch, []string{"job", "position", "hiring", "role", "opening", "vacanc", "opportunit"}},
	{model.IntentSkillInquiry, []string{"skill", "competenc", "proficiency", "level", "need for", "required for"}},
}

// Processor turns raw query text into a ProcessedQuery.
type Processor struct {
	embedder *pipelineEmbedder
	log      *slog.Logger
}

// pipelineEmbedder is the single-text embedding surface the query path
// needs from the embedding generator.
type pipelineEmbedder struct {
	embed func(ctx context.Context, text string) ([]float32, error)
}

// TextEmbedder embeds one text into the index vector space.
type TextEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// NewProcessor creates a query processor on top of a text embedder.
func NewProcessor(embedder TextEmbedder, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		embedder: &pipelineEmbedder{embed: embedder.EmbedText},
		log:      logger,
	}
}

// Process normalizes, classifies and embeds one query. Blank input is
// rejected before any embedding work happens.
func (p *Processor) Process(ctx context.Context, text string) (*model.ProcessedQuery, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, &model.InvalidInputError{Reason: "empty query"}
	}

	intent := ClassifyIntent(normalized)

	embedding, err := p.embedder.embed(ctx, normalized)
	if err != nil {
		return nil, helper.NewError("query embedding", err)
	}

	p.log.Debug("Processed query",
		slog.String("intent", string(intent)),
		slog.String("normalized", normalized),
	)

	return &model.ProcessedQuery{
		OriginalQuery: text,
		Normalized:    normalized,
		Intent:        intent,
		Embedding:     embedding,
	}, nil
}

// Normalize lowercases the query, strips punctuation and collapses
// whitespace. Classification and embedding both run on the normalized form.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			// Punctuation separates words rather than vanishing, so
			// "data-scientist" still yields two terms.
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ClassifyIntent assigns the first matching intent from the ordered
// rule table, defaulting to GENERAL when nothing matches.
func ClassifyIntent(normalized string) model.QueryIntent {
	for _, rule := range intentRules {
		for _, marker := range rule.markers {
			if strings.Contains(normalized, marker) {
				return rule.intent
			}
		}
	}
	return model.IntentGeneral
}
