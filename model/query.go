package model

// QueryIntent is the closed set of coarse query purposes. The intent
// drives which document types retrieval prioritizes.
type QueryIntent string

const (
	IntentJobSearch              QueryIntent = "JOB_SEARCH"
	IntentSkillInquiry           QueryIntent = "SKILL_INQUIRY"
	IntentCareerPath             QueryIntent = "CAREER_PATH"
	IntentSkillGap               QueryIntent = "SKILL_GAP"
	IntentLearningRecommendation QueryIntent = "LEARNING_RECOMMENDATION"
	IntentGeneral                QueryIntent = "GENERAL"
)

// ProcessedQuery is the per-request view of a user query. It is built
// once per request and discarded when the request completes.
type ProcessedQuery struct {
	OriginalQuery string      `json:"original_query"`
	Normalized    string      `json:"normalized"`
	Intent        QueryIntent `json:"intent"`
	Embedding     []float32   `json:"embedding"`
}
