package model

import (
	"fmt"
	"sort"
)

// JobRoleRecord is one normalized row of the job-role schema.
type JobRoleRecord struct {
	Track          string   `json:"track"`
	TrackCode      string   `json:"track_code"`
	Specialisation string   `json:"specialisation"`
	Description    string   `json:"description"`
	Skills         []string `json:"skills"`
}

// NaturalKey returns the stable key the record is addressed by.
func (r *JobRoleRecord) NaturalKey() string {
	return r.TrackCode + "/" + r.Specialisation
}

// LevelItems holds the knowledge and ability items that define one
// proficiency level of a technical skill competency.
type LevelItems struct {
	Knowledge []string `json:"knowledge"`
	Ability   []string `json:"ability"`
}

// SkillCompetencyRecord is a technical skill competency joined across
// the schema fragments sharing its competency code.
type SkillCompetencyRecord struct {
	Code        string              `json:"code"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Levels      map[int]*LevelItems `json:"levels"`
}

// NaturalKey returns the stable key the record is addressed by.
func (r *SkillCompetencyRecord) NaturalKey() string {
	return r.Code
}

// SortedLevels returns the proficiency levels of the record in
// ascending order.
func (r *SkillCompetencyRecord) SortedLevels() []int {
	levels := make([]int, 0, len(r.Levels))
	for l := range r.Levels {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}

// KeyLegendRecord maps a corpus code to its description.
type KeyLegendRecord struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// NaturalKey returns the stable key the record is addressed by.
func (r *KeyLegendRecord) NaturalKey() string {
	return r.Key
}

// Corpus is the output of the data processor: the normalized record
// collections of one corpus read, each keyed by its natural key.
type Corpus struct {
	JobRoles []*JobRoleRecord
	Skills   []*SkillCompetencyRecord
	Keys     []*KeyLegendRecord
}

// CorpusPaths names the source files of one corpus build.
type CorpusPaths struct {
	JobRoles  string
	Fragments []string
	KeyLegend string
}

// Validate checks that all corpus paths are set.
func (p *CorpusPaths) Validate() error {
	if p.JobRoles == "" {
		return fmt.Errorf("job roles path is empty")
	}
	if len(p.Fragments) == 0 {
		return fmt.Errorf("no competency fragment paths given")
	}
	if p.KeyLegend == "" {
		return fmt.Errorf("key legend path is empty")
	}
	return nil
}
