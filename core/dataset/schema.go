package dataset

// JobRoleSchema names the columns of the job-role table. Column names
// are domain configuration; only the row-to-record mapping is contract.
type JobRoleSchema struct {
	Track          string
	TrackCode      string
	Specialisation string
	Description    string
	Skills         string
}

// FragmentSchema names the columns of the technical-skill competency
// fragments. All fragments share the competency code as join key.
type FragmentSchema struct {
	Code           string
	Title          string
	Description    string
	Level          string
	Classification string
	Item           string
}

// KeyLegendSchema names the columns of the key/legend table.
type KeyLegendSchema struct {
	Key         string
	Description string
}

// Schemas bundles the column mappings of one corpus.
type Schemas struct {
	JobRole   JobRoleSchema
	Fragment  FragmentSchema
	KeyLegend KeyLegendSchema
}

// DefaultSchemas returns the column names of the SkillsFuture corpus
// the system was built for.
func DefaultSchemas() *Schemas {
	return &Schemas{
		JobRole: JobRoleSchema{
			Track:          "Track",
			TrackCode:      "Track Code",
			Specialisation: "Specialisation",
			Description:    "Description",
			Skills:         "Skills",
		},
		Fragment: FragmentSchema{
			Code:           "TSC Code",
			Title:          "TSC Title",
			Description:    "TSC Description",
			Level:          "Proficiency Level",
			Classification: "Knowledge / Ability Classification",
			Item:           "Knowledge / Ability Items",
		},
		KeyLegend: KeyLegendSchema{
			Key:         "Key",
			Description: "Description",
		},
	}
}
