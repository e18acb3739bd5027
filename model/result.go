package model

// MatchedBy identifies which retrieval signal surfaced a document.
type MatchedBy string

const (
	MatchedByDense   MatchedBy = "dense"
	MatchedByKeyword MatchedBy = "keyword"
	MatchedByBoth    MatchedBy = "both"
)

// RetrievalResult is one retrieved document with its combined score.
// A result list is totally ordered by score descending, ties broken by
// document id ascending.
type RetrievalResult struct {
	Document     *Document `json:"document"`
	Score        float64   `json:"score"`
	DenseScore   float64   `json:"dense_score"`
	KeywordScore float64   `json:"keyword_score"`
	MatchedBy    MatchedBy `json:"matched_by"`
}

// Source is one citation entry derived from a context document.
type Source struct {
	Title string       `json:"title"`
	Type  DocumentType `json:"type"`
	Score float64      `json:"score"`
}

// Context is the bounded, deduplicated evidence set passed to answer
// generation, plus the citation list derived from it.
type Context struct {
	Entries []*RetrievalResult `json:"entries"`
	Sources []Source           `json:"sources"`
}

// Empty reports whether the context carries no evidence.
func (c *Context) Empty() bool {
	return c == nil || len(c.Entries) == 0
}

// Response is the final answer returned to the caller.
type Response struct {
	Response    string   `json:"response"`
	Confidence  float64  `json:"confidence"`
	Sources     []Source `json:"sources"`
	Suggestions []string `json:"suggestions"`
}

// IndexStats summarizes one index build.
type IndexStats struct {
	JobRoles  int `json:"job_roles"`
	Skills    int `json:"skills"`
	Documents int `json:"documents"`
	Dimension int `json:"dimension"`
}
