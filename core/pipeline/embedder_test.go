package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsnav/atlas/model"
)

// stubEmbedder returns a fixed-dimension vector derived from the text
// length, deterministic and cheap.
func stubEmbedder(dim int) EmbedBatchFunc {
	return func(texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vec := make([]float32, dim)
			for j := range vec {
				vec[j] = float32((len(text)+j)%7) + 1
			}
			vectors[i] = vec
		}
		return vectors, nil
	}
}

func testDocs(n int) []*model.Document {
	docs := make([]*model.Document, 0, n)
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("DA/Role %d", i)
		docs = append(docs, &model.Document{
			ID:      model.DocumentID(model.TypeJobRole, key),
			Type:    model.TypeJobRole,
			Title:   fmt.Sprintf("Role %d", i),
			Content: fmt.Sprintf("Description of role %d.", i),
		})
	}
	return docs
}

func smallConfig(dim int) *model.Config {
	config := model.DefaultConfig()
	config.EmbeddingDimension = dim
	config.EmbedBatchSize = 2
	config.EmbedWorkers = 2
	return config
}

func TestGenerate(t *testing.T) {
	t.Run("Embeds every document exactly once", func(t *testing.T) {
		generator := NewEmbeddingGenerator(stubEmbedder(4), smallConfig(4), nil)
		docs := testDocs(5)

		embeddings, err := generator.Generate(context.Background(), docs)

		require.NoError(t, err)
		require.Len(t, embeddings, 5, "Expected exactly one embedding per document")
		for _, doc := range docs {
			vec, ok := embeddings[doc.ID]
			require.True(t, ok, "Expected an embedding for %s", doc.Title)
			assert.Len(t, vec, 4)
		}
	})

	t.Run("Empty document text fails with InvalidInputError", func(t *testing.T) {
		generator := NewEmbeddingGenerator(stubEmbedder(4), smallConfig(4), nil)
		docs := testDocs(2)
		docs[1].Content = "   "

		_, err := generator.Generate(context.Background(), docs)

		require.Error(t, err)
		var invalid *model.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("Wrong vector dimension fails with DimensionMismatchError", func(t *testing.T) {
		generator := NewEmbeddingGenerator(stubEmbedder(3), smallConfig(4), nil)

		_, err := generator.Generate(context.Background(), testDocs(2))

		require.Error(t, err)
		var mismatch *model.DimensionMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 4, mismatch.Want)
		assert.Equal(t, 3, mismatch.Got)
	})

	t.Run("Embedder failure is propagated", func(t *testing.T) {
		failing := func(texts []string) ([][]float32, error) {
			return nil, fmt.Errorf("backend unavailable")
		}
		generator := NewEmbeddingGenerator(failing, smallConfig(4), nil)

		_, err := generator.Generate(context.Background(), testDocs(3))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend unavailable")
	})

	t.Run("Cancelled context aborts generation", func(t *testing.T) {
		generator := NewEmbeddingGenerator(stubEmbedder(4), smallConfig(4), nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := generator.Generate(ctx, testDocs(10))

		assert.Error(t, err)
	})
}

func TestEmbedText(t *testing.T) {
	t.Run("Embeds a single text", func(t *testing.T) {
		generator := NewEmbeddingGenerator(stubEmbedder(4), smallConfig(4), nil)

		vec, err := generator.EmbedText(context.Background(), "what skills do i need")

		require.NoError(t, err)
		assert.Len(t, vec, 4)
	})

	t.Run("Blank text fails with InvalidInputError", func(t *testing.T) {
		generator := NewEmbeddingGenerator(stubEmbedder(4), smallConfig(4), nil)

		_, err := generator.EmbedText(context.Background(), "  ")

		var invalid *model.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestTruncate(t *testing.T) {
	t.Run("Short text is returned unchanged", func(t *testing.T) {
		assert.Equal(t, "short text", Truncate("short text", 100))
	})

	t.Run("Long text is cut at a word boundary", func(t *testing.T) {
		text := "alpha beta gamma delta"

		got := Truncate(text, 12)

		assert.Equal(t, "alpha beta", got, "Expected the cut to land on the last space before the limit")
		assert.LessOrEqual(t, len(got), 12)
	})

	t.Run("Text exactly at the limit is unchanged", func(t *testing.T) {
		text := strings.Repeat("a", 10)
		assert.Equal(t, text, Truncate(text, 10))
	})

	t.Run("Text without spaces is hard cut", func(t *testing.T) {
		text := strings.Repeat("a", 20)
		assert.Equal(t, strings.Repeat("a", 10), Truncate(text, 10))
	})

	t.Run("Zero limit disables truncation", func(t *testing.T) {
		assert.Equal(t, "anything", Truncate("anything", 0))
	})
}
