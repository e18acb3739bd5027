package model

import "fmt"

// RetrievalConfig configures the hybrid retriever.
type RetrievalConfig struct {
	// TopK is the maximum number of results returned per query.
	TopK int `json:"top_k"`
	// CandidateK is the number of candidates fetched per dense search lane
	// before merging and re-ranking.
	CandidateK int `json:"candidate_k"`
	// DenseWeight and KeywordWeight combine the two signals into the
	// final score. They should sum to 1.
	DenseWeight   float64 `json:"dense_weight"`
	KeywordWeight float64 `json:"keyword_weight"`
	// MinScore drops candidates whose combined score falls below it.
	// An empty result list is a valid outcome.
	MinScore float64 `json:"min_score"`
}

// ContextConfig configures evidence assembly.
type ContextConfig struct {
	// MaxChars is the soft character budget of the assembled context.
	// The top-scoring document is always kept, even when it alone
	// exceeds the budget.
	MaxChars int `json:"max_chars"`
	// ExcerptChars bounds the per-document excerpt quoted in the answer.
	ExcerptChars int `json:"excerpt_chars"`
}

// Config configures a full Atlas instance. All components are
// constructed from it explicitly; there is no ambient global state.
type Config struct {
	// EmbeddingDimension is fixed at build time. All vectors entering
	// the index must have exactly this dimension.
	EmbeddingDimension int `json:"embedding_dimension"`
	// EmbedBatchSize is the number of texts sent to the embedder per call.
	EmbedBatchSize int `json:"embed_batch_size"`
	// EmbedWorkers bounds the number of embedding batches in flight.
	EmbedWorkers int `json:"embed_workers"`
	// MaxInputChars is the truncation boundary for embedder input.
	MaxInputChars int `json:"max_input_chars"`

	Retrieval RetrievalConfig `json:"retrieval"`
	Context   ContextConfig   `json:"context"`
}

// DefaultConfig returns a sensible default configuration, sized for the
// all-MiniLM-L6-v2 embedding model (384 dimensions).
func DefaultConfig() *Config {
	return &Config{
		EmbeddingDimension: 384,
		EmbedBatchSize:     32,
		EmbedWorkers:       2,
		MaxInputChars:      2000,
		Retrieval: RetrievalConfig{
			TopK:          10,
			CandidateK:    25,
			DenseWeight:   0.7,
			KeywordWeight: 0.3,
			MinScore:      0.05,
		},
		Context: ContextConfig{
			MaxChars:     4000,
			ExcerptChars: 240,
		},
	}
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive")
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("embed batch size must be positive")
	}
	if c.EmbedWorkers <= 0 {
		return fmt.Errorf("embed workers must be positive")
	}
	if c.MaxInputChars <= 0 {
		return fmt.Errorf("max input chars must be positive")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("top k must be positive")
	}
	if c.Retrieval.CandidateK < c.Retrieval.TopK {
		return fmt.Errorf("candidate k must be at least top k")
	}
	if c.Retrieval.DenseWeight < 0 || c.Retrieval.KeywordWeight < 0 {
		return fmt.Errorf("retrieval weights must not be negative")
	}
	if c.Retrieval.DenseWeight+c.Retrieval.KeywordWeight == 0 {
		return fmt.Errorf("at least one retrieval weight must be positive")
	}
	if c.Context.MaxChars <= 0 {
		return fmt.Errorf("context max chars must be positive")
	}
	if c.Context.ExcerptChars <= 0 {
		return fmt.Errorf("context excerpt chars must be positive")
	}
	return nil
}
