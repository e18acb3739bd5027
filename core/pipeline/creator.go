// Package pipeline turns normalized records into indexable documents
// and generates their embeddings for the offline build path.
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/skillsnav/atlas/model"
)

// Creator is the pure record-to-document transformation. It holds no
// state and performs no I/O.
type Creator struct{}

// NewCreator creates a document creator.
func NewCreator() *Creator {
	return &Creator{}
}

// CreateAll transforms a corpus into the full document set and checks
// that the derived ids are collision-free across the whole corpus.
func (c *Creator) CreateAll(corpus *model.Corpus) ([]*model.Document, error) {
	var docs []*model.Document

	jobRoles, err := c.CreateJobRoleDocuments(corpus.JobRoles)
	if err != nil {
		return nil, err
	}
	docs = append(docs, jobRoles...)

	skills, err := c.CreateSkillDocuments(corpus.Skills)
	if err != nil {
		return nil, err
	}
	docs = append(docs, skills...)

	levels, err := c.CreateCompetencyLevelDocuments(corpus.Skills)
	if err != nil {
		return nil, err
	}
	docs = append(docs, levels...)

	legend, err := c.CreateKeyLegendDocuments(corpus.Keys)
	if err != nil {
		return nil, err
	}
	docs = append(docs, legend...)

	seen := make(map[uuid.UUID]string, len(docs))
	for _, doc := range docs {
		if other, ok := seen[doc.ID]; ok {
			return nil, fmt.Errorf("document id collision between %q and %q", other, doc.Title)
		}
		seen[doc.ID] = doc.Title
	}

	return docs, nil
}

// CreateJobRoleDocuments creates one job_role document per record. The
// content concatenates title, description and skill names so both the
// semantic and the lexical signal can match on it.
func (c *Creator) CreateJobRoleDocuments(records []*model.JobRoleRecord) ([]*model.Document, error) {
	docs := make([]*model.Document, 0, len(records))
	for _, r := range records {
		var b strings.Builder
		b.WriteString(r.Specialisation)
		if r.Description != "" {
			b.WriteString(". ")
			b.WriteString(r.Description)
		}
		if len(r.Skills) > 0 {
			b.WriteString(" Skills: ")
			b.WriteString(strings.Join(r.Skills, ", "))
			b.WriteString(".")
		}

		doc := &model.Document{
			ID:      model.DocumentID(model.TypeJobRole, r.NaturalKey()),
			Type:    model.TypeJobRole,
			Title:   r.Specialisation,
			Content: b.String(),
			Metadata: model.Metadata{
				"track":      r.Track,
				"track_code": r.TrackCode,
				"skills":     strings.Join(r.Skills, ", "),
			},
		}
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// CreateSkillDocuments creates one technical_skill document per record
// and proficiency level. Queries frequently ask about level
// differences, so each level must be independently retrievable.
func (c *Creator) CreateSkillDocuments(records []*model.SkillCompetencyRecord) ([]*model.Document, error) {
	var docs []*model.Document
	for _, r := range records {
		for _, level := range r.SortedLevels() {
			items := r.Levels[level]

			var b strings.Builder
			fmt.Fprintf(&b, "%s at proficiency level %d.", r.Title, level)
			if r.Description != "" {
				b.WriteString(" ")
				b.WriteString(r.Description)
			}
			if len(items.Knowledge) > 0 {
				b.WriteString(" Knowledge: ")
				b.WriteString(strings.Join(items.Knowledge, "; "))
				b.WriteString(".")
			}
			if len(items.Ability) > 0 {
				b.WriteString(" Abilities: ")
				b.WriteString(strings.Join(items.Ability, "; "))
				b.WriteString(".")
			}

			naturalKey := fmt.Sprintf("%s/level-%d", r.Code, level)
			doc := &model.Document{
				ID:      model.DocumentID(model.TypeTechnicalSkill, naturalKey),
				Type:    model.TypeTechnicalSkill,
				Title:   fmt.Sprintf("%s (Level %d)", r.Title, level),
				Content: b.String(),
				Metadata: model.Metadata{
					"code":  r.Code,
					"skill": r.Title,
					"level": level,
				},
			}
			if err := doc.Validate(); err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// CreateCompetencyLevelDocuments derives one competency_level document
// per distinct proficiency level found in the corpus, aggregating the
// skills defined at that level.
func (c *Creator) CreateCompetencyLevelDocuments(records []*model.SkillCompetencyRecord) ([]*model.Document, error) {
	skillsByLevel := make(map[int][]string)
	for _, r := range records {
		for _, level := range r.SortedLevels() {
			skillsByLevel[level] = append(skillsByLevel[level], r.Title)
		}
	}

	levels := make([]int, 0, len(skillsByLevel))
	for level := range skillsByLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	docs := make([]*model.Document, 0, len(levels))
	for _, level := range levels {
		skills := skillsByLevel[level]
		sort.Strings(skills)

		content := fmt.Sprintf(
			"Proficiency level %d. Technical skills defined at this level: %s.",
			level, strings.Join(skills, ", "),
		)

		doc := &model.Document{
			ID:      model.DocumentID(model.TypeCompetencyLevel, fmt.Sprintf("level-%d", level)),
			Type:    model.TypeCompetencyLevel,
			Title:   fmt.Sprintf("Proficiency Level %d", level),
			Content: content,
			Metadata: model.Metadata{
				"level":  level,
				"skills": len(skills),
			},
		}
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// CreateKeyLegendDocuments creates one key_legend document per legend row.
func (c *Creator) CreateKeyLegendDocuments(records []*model.KeyLegendRecord) ([]*model.Document, error) {
	docs := make([]*model.Document, 0, len(records))
	for _, r := range records {
		content := r.Description
		if content == "" {
			content = r.Key
		}

		doc := &model.Document{
			ID:      model.DocumentID(model.TypeKeyLegend, r.NaturalKey()),
			Type:    model.TypeKeyLegend,
			Title:   r.Key,
			Content: content,
			Metadata: model.Metadata{
				"key": r.Key,
			},
		}
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
