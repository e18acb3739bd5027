// Package database persists index snapshots in postgres with the
// pgvector extension, so a rebuilt process can reload the serving
// index without re-reading and re-embedding the corpus.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/skillsnav/atlas/helper"
	"github.com/skillsnav/atlas/model"
	loadSql "github.com/skillsnav/atlas/sql"
)

// IndexDBHandlerFunctions defines the interface for index snapshot
// database operations.
type IndexDBHandlerFunctions interface {
	ReplaceIndex(ctx context.Context, docs []*model.Document, embeddings map[uuid.UUID][]float32) error
	LoadIndex(ctx context.Context) ([]*model.Document, map[uuid.UUID][]float32, error)
	SelectBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.RetrievalResult, error)
}

// IndexDBHandler handles index snapshot database operations
type IndexDBHandler struct {
	db *helper.Database
}

// NewIndexDBHandler creates a new index snapshot database handler.
// It loads the index-related SQL functions and creates the snapshot
// table for the given embedding dimension.
// If force is true, it will reload the SQL functions even if they already exist.
func NewIndexDBHandler(db *helper.Database, embeddingDim int, force bool) (*IndexDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	indexDbHandler := &IndexDBHandler{
		db: db,
	}

	err := loadSql.LoadIndexSql(indexDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load index sql", err)
	}

	err = indexDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized IndexDBHandler")

	return indexDbHandler, nil
}

// CreateTable creates the 'index_documents' table in the database.
// If the table already exists, it does not create it again.
func (h *IndexDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_index($1);`, embeddingDim)
	if err != nil {
		return helper.NewError("initialize index table", err)
	}

	h.db.Logger.Info("Checked/created table index_documents")

	return nil
}

// ReplaceIndex writes one full index generation in a single
// transaction. The previous snapshot stays readable until commit; a
// failure rolls everything back.
func (h *IndexDBHandler) ReplaceIndex(ctx context.Context, docs []*model.Document, embeddings map[uuid.UUID][]float32) error {
	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT clear_index();`); err != nil {
		return helper.NewError("clear index", err)
	}

	for _, doc := range docs {
		vec, ok := embeddings[doc.ID]
		if !ok {
			return helper.NewError("replace index", fmt.Errorf("document %s has no embedding", doc.ID))
		}

		_, err := tx.ExecContext(ctx,
			`SELECT insert_index_document($1, $2, $3, $4, $5, $6);`,
			doc.ID,
			string(doc.Type),
			doc.Title,
			doc.Content,
			doc.Metadata,
			pgvector.NewVector(vec),
		)
		if err != nil {
			return helper.NewError("insert index document", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return helper.NewError("commit transaction", err)
	}

	h.db.Logger.Info("Replaced index snapshot")

	return nil
}

// LoadIndex reads the whole persisted snapshot back into documents and
// embeddings.
func (h *IndexDBHandler) LoadIndex(ctx context.Context) ([]*model.Document, map[uuid.UUID][]float32, error) {
	rows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_all_index_documents();`)
	if err != nil {
		return nil, nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var docs []*model.Document
	embeddings := make(map[uuid.UUID][]float32)

	for rows.Next() {
		doc := &model.Document{}
		var docType string
		var embedding pgvector.Vector

		err := rows.Scan(
			&doc.ID,
			&docType,
			&doc.Title,
			&doc.Content,
			&doc.Metadata,
			&embedding,
		)
		if err != nil {
			return nil, nil, helper.NewError("scan", err)
		}

		doc.Type = model.DocumentType(docType)
		docs = append(docs, doc)
		embeddings[doc.ID] = embedding.Slice()
	}
	if err := rows.Err(); err != nil {
		return nil, nil, helper.NewError("iterate rows", err)
	}

	return docs, embeddings, nil
}

// SelectBySimilarity runs a cosine nearest-neighbor search directly
// against the persisted snapshot.
func (h *IndexDBHandler) SelectBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.RetrievalResult, error) {
	rows, err := h.db.Instance.QueryContext(ctx,
		`SELECT * FROM select_index_documents_by_similarity($1, $2);`,
		pgvector.NewVector(embedding),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.RetrievalResult
	for rows.Next() {
		doc := &model.Document{}
		var docType string
		var similarity float64

		err := rows.Scan(
			&doc.ID,
			&docType,
			&doc.Title,
			&doc.Content,
			&doc.Metadata,
			&similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		doc.Type = model.DocumentType(docType)
		results = append(results, &model.RetrievalResult{
			Document:   doc,
			Score:      similarity,
			DenseScore: similarity,
			MatchedBy:  model.MatchedByDense,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate rows", err)
	}

	return results, nil
}
