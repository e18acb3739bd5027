package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	t.Run("Default config is valid", func(t *testing.T) {
		config := DefaultConfig()

		assert.NoError(t, config.Validate())
		assert.Equal(t, 384, config.EmbeddingDimension, "Expected dimension of all-MiniLM-L6-v2")
	})

	t.Run("Default weights sum to one", func(t *testing.T) {
		config := DefaultConfig()

		assert.InDelta(t, 1.0, config.Retrieval.DenseWeight+config.Retrieval.KeywordWeight, 1e-9)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("Zero embedding dimension fails", func(t *testing.T) {
		config := DefaultConfig()
		config.EmbeddingDimension = 0

		err := config.Validate()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "embedding dimension")
	})

	t.Run("Candidate k below top k fails", func(t *testing.T) {
		config := DefaultConfig()
		config.Retrieval.CandidateK = config.Retrieval.TopK - 1

		err := config.Validate()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "candidate k")
	})

	t.Run("Negative weight fails", func(t *testing.T) {
		config := DefaultConfig()
		config.Retrieval.KeywordWeight = -0.1

		assert.Error(t, config.Validate())
	})

	t.Run("Both weights zero fails", func(t *testing.T) {
		config := DefaultConfig()
		config.Retrieval.DenseWeight = 0
		config.Retrieval.KeywordWeight = 0

		assert.Error(t, config.Validate())
	})

	t.Run("Zero context budget fails", func(t *testing.T) {
		config := DefaultConfig()
		config.Context.MaxChars = 0

		assert.Error(t, config.Validate())
	})
}
