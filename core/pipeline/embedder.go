package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/knights-analytics/hugot"
	"golang.org/x/sync/errgroup"

	"github.com/skillsnav/atlas/helper"
	"github.com/skillsnav/atlas/model"
)

// EmbedBatchFunc generates one embedding per input text. It must be
// deterministic for identical text under a fixed model configuration.
type EmbedBatchFunc func(texts []string) ([][]float32, error)

// DefaultEmbedder creates an embedder using a real sentence transformer
// model. Uses the all-MiniLM-L6-v2 model which produces 384-dimensional
// embeddings.
func DefaultEmbedder() (EmbedBatchFunc, error) {
	// Prepare model (download if needed)
	modelPath, err := helper.PrepareModel(helper.DefaultEmbeddingModel)
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	// Create sentence transformers pipeline configuration
	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return func(texts []string) ([][]float32, error) {
		result, err := sentencePipeline.RunPipeline(texts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(result.Embeddings) != len(texts) {
			return nil, fmt.Errorf("embedding count mismatch: got %d embeddings for %d texts", len(result.Embeddings), len(texts))
		}
		return result.Embeddings, nil
	}, nil
}

// EmbeddingGenerator batches texts through an EmbedBatchFunc and
// enforces the fixed embedding dimension.
type EmbeddingGenerator struct {
	embed     EmbedBatchFunc
	dim       int
	batchSize int
	workers   int
	maxChars  int
	log       *slog.Logger
}

// NewEmbeddingGenerator creates an embedding generator from an embed
// function and the module configuration.
func NewEmbeddingGenerator(embed EmbedBatchFunc, config *model.Config, logger *slog.Logger) *EmbeddingGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbeddingGenerator{
		embed:     embed,
		dim:       config.EmbeddingDimension,
		batchSize: config.EmbedBatchSize,
		workers:   config.EmbedWorkers,
		maxChars:  config.MaxInputChars,
		log:       logger,
	}
}

// Dimension returns the fixed embedding dimension D.
func (g *EmbeddingGenerator) Dimension() int {
	return g.dim
}

// Generate embeds all documents and returns one vector per document id.
// Batches run in parallel; document order does not affect the result.
func (g *EmbeddingGenerator) Generate(ctx context.Context, docs []*model.Document) (map[uuid.UUID][]float32, error) {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		text := strings.TrimSpace(doc.Content)
		if text == "" {
			return nil, &model.InvalidInputError{Reason: fmt.Sprintf("document %s has empty text", doc.ID)}
		}
		texts[i] = Truncate(text, g.maxChars)
	}

	vectors := make([][]float32, len(texts))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(g.workers)

	for start := 0; start < len(texts); start += g.batchSize {
		end := min(start+g.batchSize, len(texts))
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch, err := g.embed(texts[start:end])
			if err != nil {
				return helper.NewError("embed batch", err)
			}
			if len(batch) != end-start {
				return fmt.Errorf("embedder returned %d vectors for %d texts", len(batch), end-start)
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	embeddings := make(map[uuid.UUID][]float32, len(docs))
	for i, doc := range docs {
		if len(vectors[i]) != g.dim {
			return nil, &model.DimensionMismatchError{Want: g.dim, Got: len(vectors[i])}
		}
		embeddings[doc.ID] = vectors[i]
	}

	g.log.Info("Generated embeddings", slog.Int("documents", len(docs)), slog.Int("dimension", g.dim))

	return embeddings, nil
}

// EmbedText embeds a single text, used for the online query path.
func (g *EmbeddingGenerator) EmbedText(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &model.InvalidInputError{Reason: "empty text"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vectors, err := g.embed([]string{Truncate(text, g.maxChars)})
	if err != nil {
		return nil, helper.NewError("embed text", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one text", len(vectors))
	}
	if len(vectors[0]) != g.dim {
		return nil, &model.DimensionMismatchError{Want: g.dim, Got: len(vectors[0])}
	}
	return vectors[0], nil
}

// Truncate cuts text exceeding max characters at the last space before
// the limit, so no word is split. Text is never silently dropped: the
// head always survives.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	cut := text[:max]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}
