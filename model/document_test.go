package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentID(t *testing.T) {
	t.Run("Same type and natural key produce the same id", func(t *testing.T) {
		first := DocumentID(TypeJobRole, "DA/Data Scientist")
		second := DocumentID(TypeJobRole, "DA/Data Scientist")

		assert.Equal(t, first, second, "Expected identical input to reproduce the same id")
		assert.NotEqual(t, uuid.Nil, first, "Expected a non-nil id")
	})

	t.Run("Different natural keys produce different ids", func(t *testing.T) {
		first := DocumentID(TypeJobRole, "DA/Data Scientist")
		second := DocumentID(TypeJobRole, "DA/Data Engineer")

		assert.NotEqual(t, first, second)
	})

	t.Run("Different types with the same natural key produce different ids", func(t *testing.T) {
		first := DocumentID(TypeJobRole, "level-3")
		second := DocumentID(TypeCompetencyLevel, "level-3")

		assert.NotEqual(t, first, second, "Expected the type to be part of the id derivation")
	})
}

func TestDocumentValidate(t *testing.T) {
	valid := func() *Document {
		return &Document{
			ID:      DocumentID(TypeJobRole, "DA/Data Scientist"),
			Type:    TypeJobRole,
			Title:   "Data Scientist",
			Content: "Builds predictive models.",
		}
	}

	t.Run("Valid document passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("Nil id fails", func(t *testing.T) {
		doc := valid()
		doc.ID = uuid.Nil

		err := doc.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "id is nil")
	})

	t.Run("Unknown type fails", func(t *testing.T) {
		doc := valid()
		doc.Type = "nonsense"

		err := doc.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown document type")
	})

	t.Run("Empty content fails with InvalidInputError", func(t *testing.T) {
		doc := valid()
		doc.Content = ""

		err := doc.Validate()

		require.Error(t, err)
		var invalid *InvalidInputError
		assert.ErrorAs(t, err, &invalid, "Expected empty content to be an InvalidInputError")
	})
}

func TestDocumentTypeValid(t *testing.T) {
	t.Run("All known types are valid", func(t *testing.T) {
		for _, docType := range []DocumentType{TypeJobRole, TypeTechnicalSkill, TypeCompetencyLevel, TypeKeyLegend} {
			assert.True(t, docType.Valid(), "Expected %s to be valid", docType)
		}
	})

	t.Run("Unknown type is invalid", func(t *testing.T) {
		assert.False(t, DocumentType("chunk").Valid())
		assert.False(t, DocumentType("").Valid())
	})
}
