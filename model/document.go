package model

import (
	"fmt"

	"github.com/google/uuid"
)

// DocumentType is the closed set of indexable document variants.
type DocumentType string

const (
	TypeJobRole         DocumentType = "job_role"
	TypeTechnicalSkill  DocumentType = "technical_skill"
	TypeCompetencyLevel DocumentType = "competency_level"
	TypeKeyLegend       DocumentType = "key_legend"
)

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	switch t {
	case TypeJobRole, TypeTechnicalSkill, TypeCompetencyLevel, TypeKeyLegend:
		return true
	}
	return false
}

// documentNamespace is the fixed UUID namespace for document ids.
// Changing it invalidates every previously derived id.
var documentNamespace = uuid.MustParse("7b0a6e2c-55c1-4b5e-9f27-3d9adf1c6a40")

// DocumentID derives the deterministic id for a document from its type
// and natural key. Rebuilding from identical input reproduces identical ids.
func DocumentID(docType DocumentType, naturalKey string) uuid.UUID {
	return uuid.NewSHA1(documentNamespace, []byte(string(docType)+":"+naturalKey))
}

// Document represents an indexable unit of retrievable text with metadata.
type Document struct {
	ID       uuid.UUID    `json:"id"`
	Type     DocumentType `json:"type"`
	Title    string       `json:"title"`
	Content  string       `json:"content"`
	Metadata Metadata     `json:"metadata,omitempty"`
}

// Validate checks the construction invariants of a document.
func (d *Document) Validate() error {
	if d.ID == uuid.Nil {
		return fmt.Errorf("document id is nil")
	}
	if !d.Type.Valid() {
		return fmt.Errorf("unknown document type %q", d.Type)
	}
	if d.Title == "" {
		return fmt.Errorf("document title is empty")
	}
	if d.Content == "" {
		return &InvalidInputError{Reason: fmt.Sprintf("document %s has empty content", d.ID)}
	}
	return nil
}
