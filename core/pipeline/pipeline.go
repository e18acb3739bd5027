package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skillsnav/atlas/helper"
	"github.com/skillsnav/atlas/model"
)

// Pipeline composes document creation and embedding generation into the
// offline build path.
type Pipeline struct {
	creator  *Creator
	embedder *EmbeddingGenerator
	log      *slog.Logger
}

// NewPipeline creates a pipeline from its two stages.
func NewPipeline(creator *Creator, embedder *EmbeddingGenerator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{creator: creator, embedder: embedder, log: logger}
}

// Process turns a corpus into documents and their embeddings. The two
// return values cover exactly the same document ids.
func (p *Pipeline) Process(ctx context.Context, corpus *model.Corpus) ([]*model.Document, map[uuid.UUID][]float32, error) {
	docs, err := p.creator.CreateAll(corpus)
	if err != nil {
		return nil, nil, helper.NewError("document creation", err)
	}

	embeddings, err := p.embedder.Generate(ctx, docs)
	if err != nil {
		return nil, nil, helper.NewError("embedding generation", err)
	}

	p.log.Info("Processed corpus", slog.Int("documents", len(docs)))

	return docs, embeddings, nil
}
