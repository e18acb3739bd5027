// Package atlas is a retrieval-augmented career guidance library. It
// indexes a tabular skills corpus into an in-memory vector index and
// answers natural-language career questions grounded in that index.
package atlas

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/skillsnav/atlas/core/answer"
	"github.com/skillsnav/atlas/core/dataset"
	"github.com/skillsnav/atlas/core/index"
	"github.com/skillsnav/atlas/core/pipeline"
	"github.com/skillsnav/atlas/core/query"
	"github.com/skillsnav/atlas/core/retrieval"
	"github.com/skillsnav/atlas/database"
	"github.com/skillsnav/atlas/helper"
	"github.com/skillsnav/atlas/model"
	loadSql "github.com/skillsnav/atlas/sql"
)

// errSnapshotsDisabled is returned by snapshot operations before
// EnableSnapshots was called.
var errSnapshotsDisabled = errors.New("snapshots not enabled, call EnableSnapshots first")

// Atlas wires the full pipeline: corpus parsing, document creation,
// embedding, the in-memory index and the query path. One instance owns
// its component instances; there is no ambient global state.
type Atlas struct {
	Config    *model.Config
	Processor *dataset.Processor
	Pipeline  *pipeline.Pipeline
	Store     *index.Store
	Queries   *query.Processor
	Engine    *retrieval.Engine
	Builder   *answer.Builder
	Generator *answer.Generator
	// Optional snapshot persistence, nil until EnableSnapshots.
	DB    *helper.Database
	Index *database.IndexDBHandler
	// Logging
	log *slog.Logger
}

// Option customizes Atlas construction.
type Option func(*settings)

type settings struct {
	embed  pipeline.EmbedBatchFunc
	logger *slog.Logger
}

// WithEmbedder replaces the default local embedding model with a custom
// embed function, e.g. a remote embedding service or a test stub.
func WithEmbedder(embed pipeline.EmbedBatchFunc) Option {
	return func(s *settings) { s.embed = embed }
}

// WithLogger replaces the default pretty stdout logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// New creates a new Atlas instance with all components initialized. A
// nil config selects the defaults. Without WithEmbedder this loads the
// local all-MiniLM-L6-v2 model, downloading it on first use.
func New(config *model.Config, options ...Option) (*Atlas, error) {
	if config == nil {
		config = model.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("config validation", err)
	}

	var s settings
	for _, option := range options {
		option(&s)
	}

	if s.logger == nil {
		opts := helper.PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{
				Level: slog.LevelInfo,
			},
		}
		s.logger = slog.New(helper.NewPrettyHandler(os.Stdout, opts))
	}

	if s.embed == nil {
		embed, err := pipeline.DefaultEmbedder()
		if err != nil {
			return nil, helper.NewError("create default embedder", err)
		}
		s.embed = embed
	}

	embedder := pipeline.NewEmbeddingGenerator(s.embed, config, s.logger)
	store := index.NewStore(config.EmbeddingDimension)

	return &Atlas{
		Config:    config,
		Processor: dataset.NewProcessor(nil, s.logger),
		Pipeline:  pipeline.NewPipeline(pipeline.NewCreator(), embedder, s.logger),
		Store:     store,
		Queries:   query.NewProcessor(embedder, s.logger),
		Engine:    retrieval.NewEngine(store, config.Retrieval, s.logger),
		Builder:   answer.NewBuilder(config.Context, s.logger),
		Generator: answer.NewGenerator(config.Context, s.logger),
		log:       s.logger,
	}, nil
}

// BuildIndex reads the corpus, creates and embeds all documents and
// swaps the new index generation in atomically. Queries running during
// the build keep reading the previous generation; on error the previous
// generation keeps serving.
func (a *Atlas) BuildIndex(ctx context.Context, paths model.CorpusPaths) (*model.IndexStats, error) {
	corpus, err := a.Processor.ReadCorpus(paths)
	if err != nil {
		return nil, helper.NewError("read corpus", err)
	}

	docs, embeddings, err := a.Pipeline.Process(ctx, corpus)
	if err != nil {
		return nil, helper.NewError("process corpus", err)
	}

	if err := a.Store.Build(docs, embeddings); err != nil {
		return nil, helper.NewError("build index", err)
	}

	stats := &model.IndexStats{
		JobRoles:  len(corpus.JobRoles),
		Skills:    len(corpus.Skills),
		Documents: len(docs),
		Dimension: a.Config.EmbeddingDimension,
	}

	a.log.Info("Built index",
		slog.Int("documents", stats.Documents),
		slog.Int("job_roles", stats.JobRoles),
		slog.Int("skills", stats.Skills),
	)

	return stats, nil
}

// ProcessUserQuery answers one user question from the index. Blank
// input is rejected with an InvalidInputError. Failures after input
// validation degrade to the fixed fallback answer instead of an error,
// so the caller always gets a well-formed response for real questions.
func (a *Atlas) ProcessUserQuery(ctx context.Context, text string) (*model.Response, error) {
	processed, err := a.Queries.Process(ctx, text)
	if err != nil {
		var invalid *model.InvalidInputError
		if errors.As(err, &invalid) {
			return nil, err
		}
		a.log.Warn("Query processing failed, answering with fallback", slog.Any("error", err))
		return a.fallback(text), nil
	}

	results, err := a.Engine.Retrieve(processed)
	if err != nil {
		a.log.Warn("Retrieval failed, answering with fallback", slog.Any("error", err))
		return a.fallback(text), nil
	}

	evidence := a.Builder.Build(results)

	return a.Generator.Generate(processed, evidence), nil
}

// fallback renders the no-evidence answer for a query that could not be
// served normally.
func (a *Atlas) fallback(text string) *model.Response {
	processed := &model.ProcessedQuery{
		OriginalQuery: text,
		Normalized:    query.Normalize(text),
		Intent:        model.IntentGeneral,
	}
	return a.Generator.Generate(processed, &model.Context{})
}

// EnableSnapshots connects the instance to a postgres database with the
// pgvector extension and prepares the snapshot schema. It must be
// called before SaveIndex or LoadIndex.
func (a *Atlas) EnableSnapshots(config *helper.DatabaseConfiguration) error {
	db := helper.NewDatabase("atlas", config, a.log)

	if err := loadSql.Init(db.Instance); err != nil {
		return helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	handler, err := database.NewIndexDBHandler(db, a.Config.EmbeddingDimension, false)
	if err != nil {
		return helper.NewError("create index handler", err)
	}

	a.DB = db
	a.Index = handler
	return nil
}

// SaveIndex persists the current index generation to the snapshot
// database, replacing any previous snapshot.
func (a *Atlas) SaveIndex(ctx context.Context) error {
	if a.Index == nil {
		return helper.NewError("save index", errSnapshotsDisabled)
	}

	docs := a.Store.All()
	embeddings := make(map[uuid.UUID][]float32, len(docs))
	for _, doc := range docs {
		vec, err := a.Store.Embedding(doc.ID)
		if err != nil {
			return helper.NewError("read embedding", err)
		}
		embeddings[doc.ID] = vec
	}

	return a.Index.ReplaceIndex(ctx, docs, embeddings)
}

// LoadIndex restores the serving index from the persisted snapshot,
// replacing the current generation atomically.
func (a *Atlas) LoadIndex(ctx context.Context) (*model.IndexStats, error) {
	if a.Index == nil {
		return nil, helper.NewError("load index", errSnapshotsDisabled)
	}

	docs, embeddings, err := a.Index.LoadIndex(ctx)
	if err != nil {
		return nil, helper.NewError("load snapshot", err)
	}

	if err := a.Store.Build(docs, embeddings); err != nil {
		return nil, helper.NewError("build index", err)
	}

	jobRoles := 0
	for _, doc := range docs {
		if doc.Type == model.TypeJobRole {
			jobRoles++
		}
	}

	return &model.IndexStats{
		JobRoles:  jobRoles,
		Documents: len(docs),
		Dimension: a.Config.EmbeddingDimension,
	}, nil
}

// Close closes the snapshot database connection when one is open.
func (a *Atlas) Close() error {
	if a.DB != nil && a.DB.Instance != nil {
		return a.DB.Instance.Close()
	}
	return nil
}
