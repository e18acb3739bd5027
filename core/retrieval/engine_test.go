package retrieval

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsnav/atlas/core/index"
	"github.com/skillsnav/atlas/model"
)

func defaultRetrievalConfig() model.RetrievalConfig {
	return model.RetrievalConfig{
		TopK:          10,
		CandidateK:    25,
		DenseWeight:   0.7,
		KeywordWeight: 0.3,
		MinScore:      0.05,
	}
}

func indexedDoc(title, content string, docType model.DocumentType) *model.Document {
	return &model.Document{
		ID:      model.DocumentID(docType, title),
		Type:    docType,
		Title:   title,
		Content: content,
	}
}

func buildIndex(t *testing.T, entries map[*model.Document][]float32) *index.Store {
	t.Helper()

	dim := 0
	for _, vec := range entries {
		dim = len(vec)
		break
	}

	store := index.NewStore(dim)
	var docs []*model.Document
	embeddings := make(map[uuid.UUID][]float32, len(entries))
	for doc, vec := range entries {
		docs = append(docs, doc)
		embeddings[doc.ID] = vec
	}
	require.NoError(t, store.Build(docs, embeddings))
	return store
}

func TestCombineScores(t *testing.T) {
	t.Run("Weighted formula for fixed inputs", func(t *testing.T) {
		combined := CombineScores(defaultRetrievalConfig(), 0.80, 0.50)

		assert.InDelta(t, 0.71, combined, 1e-9, "Expected 0.7*0.80 + 0.3*0.50 = 0.71")
	})

	t.Run("Zero signals combine to zero", func(t *testing.T) {
		assert.Zero(t, CombineScores(defaultRetrievalConfig(), 0, 0))
	})
}

func TestRetrieve(t *testing.T) {
	t.Run("Results are ordered by combined score descending", func(t *testing.T) {
		near := indexedDoc("Data Scientist", "Builds models with Python and SQL.", model.TypeJobRole)
		far := indexedDoc("Backend Developer", "Implements services in Go.", model.TypeJobRole)
		store := buildIndex(t, map[*model.Document][]float32{
			near: {1, 0},
			far:  {0, 1},
		})
		engine := NewEngine(store, defaultRetrievalConfig(), nil)

		results, err := engine.Retrieve(&model.ProcessedQuery{
			Normalized: "python models",
			Intent:     model.IntentGeneral,
			Embedding:  []float32{1, 0},
		})

		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "Data Scientist", results[0].Document.Title)
		for i := 1; i < len(results); i++ {
			assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
		}
	})

	t.Run("Document matched by both signals is marked both", func(t *testing.T) {
		doc := indexedDoc("Data Scientist", "Builds models with Python.", model.TypeJobRole)
		store := buildIndex(t, map[*model.Document][]float32{doc: {1, 0}})
		engine := NewEngine(store, defaultRetrievalConfig(), nil)

		results, err := engine.Retrieve(&model.ProcessedQuery{
			Normalized: "python",
			Intent:     model.IntentGeneral,
			Embedding:  []float32{1, 0},
		})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, model.MatchedByBoth, results[0].MatchedBy)
		assert.Greater(t, results[0].DenseScore, 0.0)
		assert.Greater(t, results[0].KeywordScore, 0.0)
	})

	t.Run("Keyword-only match is reachable when dense similarity is zero", func(t *testing.T) {
		matching := indexedDoc("Data Scientist", "Builds models with Python.", model.TypeJobRole)
		orthogonal := indexedDoc("Backend Developer", "Implements services in Go.", model.TypeJobRole)
		store := buildIndex(t, map[*model.Document][]float32{
			matching:   {0, 1},
			orthogonal: {1, 0},
		})
		// Dense weight zero, so only the lexical signal counts.
		cfg := defaultRetrievalConfig()
		cfg.DenseWeight = 0
		cfg.KeywordWeight = 1
		engine := NewEngine(store, cfg, nil)

		results, err := engine.Retrieve(&model.ProcessedQuery{
			Normalized: "python",
			Intent:     model.IntentGeneral,
			Embedding:  []float32{1, 0},
		})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Data Scientist", results[0].Document.Title)
	})

	t.Run("Scores below the minimum are dropped", func(t *testing.T) {
		doc := indexedDoc("Data Scientist", "Builds models.", model.TypeJobRole)
		store := buildIndex(t, map[*model.Document][]float32{doc: {1, 0}})
		cfg := defaultRetrievalConfig()
		cfg.MinScore = 0.99
		engine := NewEngine(store, cfg, nil)

		results, err := engine.Retrieve(&model.ProcessedQuery{
			Normalized: "unrelated words",
			Intent:     model.IntentGeneral,
			// Nearly orthogonal to the only document.
			Embedding: []float32{0.1, 0.995},
		})

		require.NoError(t, err)
		assert.Empty(t, results, "Expected an empty result list to be a valid outcome")
	})

	t.Run("Result count is capped at top k", func(t *testing.T) {
		entries := map[*model.Document][]float32{}
		titles := []string{"A", "B", "C", "D", "E"}
		for i, title := range titles {
			entries[indexedDoc(title, "python content "+title, model.TypeJobRole)] = []float32{1, float32(i) / 10}
		}
		store := buildIndex(t, entries)
		cfg := defaultRetrievalConfig()
		cfg.TopK = 3
		engine := NewEngine(store, cfg, nil)

		results, err := engine.Retrieve(&model.ProcessedQuery{
			Normalized: "python",
			Intent:     model.IntentGeneral,
			Embedding:  []float32{1, 0},
		})

		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("Intent preference does not exclude other types", func(t *testing.T) {
		skill := indexedDoc("Machine Learning (Level 3)", "Train models with Python.", model.TypeTechnicalSkill)
		jobRole := indexedDoc("Data Scientist", "Builds models with Python and SQL.", model.TypeJobRole)
		store := buildIndex(t, map[*model.Document][]float32{
			skill:   {0.9, 0.1},
			jobRole: {1, 0},
		})
		engine := NewEngine(store, defaultRetrievalConfig(), nil)

		results, err := engine.Retrieve(&model.ProcessedQuery{
			Normalized: "what skills do i need for data science",
			Intent:     model.IntentSkillInquiry,
			Embedding:  []float32{1, 0},
		})

		require.NoError(t, err)

		types := map[model.DocumentType]bool{}
		for _, result := range results {
			types[result.Document.Type] = true
		}
		assert.True(t, types[model.TypeTechnicalSkill], "Expected the preferred type to be present")
		assert.True(t, types[model.TypeJobRole], "Expected non-preferred types to stay reachable")
	})

	t.Run("No duplicate documents across lanes", func(t *testing.T) {
		doc := indexedDoc("Data Scientist", "Builds models with Python.", model.TypeJobRole)
		store := buildIndex(t, map[*model.Document][]float32{doc: {1, 0}})
		engine := NewEngine(store, defaultRetrievalConfig(), nil)

		results, err := engine.Retrieve(&model.ProcessedQuery{
			Normalized: "python data scientist",
			Intent:     model.IntentJobSearch,
			Embedding:  []float32{1, 0},
		})

		require.NoError(t, err)
		seen := map[uuid.UUID]struct{}{}
		for _, result := range results {
			_, dup := seen[result.Document.ID]
			assert.False(t, dup, "Expected each document at most once")
			seen[result.Document.ID] = struct{}{}
		}
	})
}

func TestExtractTerms(t *testing.T) {
	t.Run("Drops stop words and duplicates", func(t *testing.T) {
		terms := extractTerms("what skills do i need for python and python")

		assert.Equal(t, []string{"skills", "python"}, terms)
	})

	t.Run("Query of only stop words yields nothing", func(t *testing.T) {
		assert.Empty(t, extractTerms("what do i need"))
	})
}

func TestKeywordScore(t *testing.T) {
	t.Run("Fraction of terms found in title or content", func(t *testing.T) {
		doc := indexedDoc("Data Scientist", "Works with Python.", model.TypeJobRole)

		score := keywordScore(doc, []string{"python", "rust"})

		assert.InDelta(t, 0.5, score, 1e-9)
	})

	t.Run("No terms yields zero", func(t *testing.T) {
		doc := indexedDoc("Data Scientist", "Works with Python.", model.TypeJobRole)
		assert.Zero(t, keywordScore(doc, nil))
	})
}
