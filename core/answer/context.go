// Package answer assembles the evidence context and generates the
// grounded response returned to the caller.
package answer

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/skillsnav/atlas/model"
)

// Builder assembles a bounded, deduplicated evidence context from a
// ranked result list.
type Builder struct {
	cfg model.ContextConfig
	log *slog.Logger
}

// NewBuilder creates a context builder.
func NewBuilder(cfg model.ContextConfig, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{cfg: cfg, log: logger}
}

// Build deduplicates results by document id, preserves their rank order
// and cuts the list at the character budget. A non-empty result list
// always yields a non-empty context: the top result is kept even when
// it alone exceeds the budget.
func (b *Builder) Build(results []*model.RetrievalResult) *model.Context {
	seen := make(map[uuid.UUID]struct{}, len(results))
	var entries []*model.RetrievalResult
	used := 0

	for _, result := range results {
		if _, dup := seen[result.Document.ID]; dup {
			continue
		}
		size := len(result.Document.Content)
		if len(entries) > 0 && used+size > b.cfg.MaxChars {
			break
		}
		seen[result.Document.ID] = struct{}{}
		entries = append(entries, result)
		used += size
	}

	sources := make([]model.Source, 0, len(entries))
	for _, entry := range entries {
		sources = append(sources, model.Source{
			Title: entry.Document.Title,
			Type:  entry.Document.Type,
			Score: entry.Score,
		})
	}

	b.log.Debug("Built context", slog.Int("entries", len(entries)), slog.Int("chars", used))

	return &model.Context{Entries: entries, Sources: sources}
}
