// Package retrieval ranks indexed documents against a processed query
// by combining a dense similarity signal with a lexical overlap signal.
package retrieval

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/skillsnav/atlas/core/index"
	"github.com/skillsnav/atlas/helper"
	"github.com/skillsnav/atlas/model"
)

// Engine is the hybrid retriever. It is stateless apart from its
// configuration and reads only immutable index snapshots, so concurrent
// retrieval is safe.
type Engine struct {
	store *index.Store
	cfg   model.RetrievalConfig
	log   *slog.Logger
}

// NewEngine creates a hybrid retrieval engine over a vector store.
func NewEngine(store *index.Store, cfg model.RetrievalConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, cfg: cfg, log: logger}
}

// preferredTypes maps an intent to the document types it favors. The
// preference adds a filtered dense lane; it never excludes other types.
func preferredTypes(intent model.QueryIntent) []model.DocumentType {
	switch intent {
	case model.IntentJobSearch, model.IntentCareerPath:
		return []model.DocumentType{model.TypeJobRole}
	case model.IntentSkillInquiry, model.IntentSkillGap, model.IntentLearningRecommendation:
		return []model.DocumentType{model.TypeTechnicalSkill, model.TypeCompetencyLevel}
	default:
		return nil
	}
}

// Retrieve returns the ranked result list for a processed query. Scores
// combine the dense and lexical signals with the configured weights;
// results below the minimum score are dropped, so an empty list is a
// valid outcome.
func (e *Engine) Retrieve(query *model.ProcessedQuery) ([]*model.RetrievalResult, error) {
	dense := make(map[uuid.UUID]float64)
	docs := make(map[uuid.UUID]*model.Document)

	// Unfiltered dense lane.
	hits, err := e.store.Search(query.Embedding, e.cfg.CandidateK, nil)
	if err != nil {
		return nil, helper.NewError("dense search", err)
	}
	mergeDense(dense, docs, hits)

	// A second dense lane restricted to the intent's preferred types
	// surfaces on-intent documents the open lane may have ranked out.
	if types := preferredTypes(query.Intent); types != nil {
		filtered, err := e.store.Search(query.Embedding, e.cfg.CandidateK, &index.Filter{Types: types})
		if err != nil {
			return nil, helper.NewError("filtered dense search", err)
		}
		mergeDense(dense, docs, filtered)
	}

	// The lexical lane scans the whole snapshot so a pure keyword match
	// is reachable even when both dense lanes miss it.
	terms := extractTerms(query.Normalized)
	keyword := make(map[uuid.UUID]float64)
	if len(terms) > 0 {
		for _, doc := range e.store.All() {
			if score := keywordScore(doc, terms); score > 0 {
				keyword[doc.ID] = score
				docs[doc.ID] = doc
			}
		}
	}

	results := make([]*model.RetrievalResult, 0, len(docs))
	for id, doc := range docs {
		denseScore, hasDense := dense[id]
		kwScore, hasKeyword := keyword[id]

		combined := e.cfg.DenseWeight*denseScore + e.cfg.KeywordWeight*kwScore
		if combined < e.cfg.MinScore {
			continue
		}

		matchedBy := model.MatchedByDense
		switch {
		case hasDense && hasKeyword:
			matchedBy = model.MatchedByBoth
		case hasKeyword:
			matchedBy = model.MatchedByKeyword
		}

		results = append(results, &model.RetrievalResult{
			Document:     doc,
			Score:        combined,
			DenseScore:   denseScore,
			KeywordScore: kwScore,
			MatchedBy:    matchedBy,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.ID.String() < results[j].Document.ID.String()
	})

	if len(results) > e.cfg.TopK {
		results = results[:e.cfg.TopK]
	}

	e.log.Debug("Retrieved documents",
		slog.String("intent", string(query.Intent)),
		slog.Int("results", len(results)),
	)

	return results, nil
}

// CombineScores applies the weighted score formula to one dense and one
// keyword score.
func CombineScores(cfg model.RetrievalConfig, dense, keyword float64) float64 {
	return cfg.DenseWeight*dense + cfg.KeywordWeight*keyword
}

// mergeDense keeps the maximum dense score per document across lanes.
func mergeDense(dense map[uuid.UUID]float64, docs map[uuid.UUID]*model.Document, hits []index.Hit) {
	for _, hit := range hits {
		id := hit.Document.ID
		if current, ok := dense[id]; !ok || hit.Score > current {
			dense[id] = hit.Score
		}
		docs[id] = hit.Document
	}
}
