package answer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/skillsnav/atlas/core/pipeline"
	"github.com/skillsnav/atlas/model"
)

// Fallback is the fixed answer returned when no relevant evidence was
// found. It never claims knowledge the index does not hold.
const Fallback = "I could not find relevant information for your question in the career dataset. " +
	"Try rephrasing it, or ask about a specific job role, technical skill or proficiency level."

// Generator produces the final grounded answer from the evidence
// context. Every sentence it emits is backed by a context document; it
// never free-associates beyond the retrieved text.
type Generator struct {
	cfg model.ContextConfig
	log *slog.Logger
}

// NewGenerator creates a response generator.
func NewGenerator(cfg model.ContextConfig, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{cfg: cfg, log: logger}
}

// Generate renders the answer for one query and its context. An empty
// context yields the fixed fallback with zero confidence and no sources.
func (g *Generator) Generate(query *model.ProcessedQuery, evidence *model.Context) *model.Response {
	if evidence.Empty() {
		return &model.Response{
			Response:    Fallback,
			Confidence:  0,
			Sources:     []model.Source{},
			Suggestions: generalSuggestions(),
		}
	}

	var b strings.Builder
	b.WriteString(opening(query.Intent))
	b.WriteString("\n")
	for _, entry := range evidence.Entries {
		excerpt := pipeline.Truncate(entry.Document.Content, g.cfg.ExcerptChars)
		fmt.Fprintf(&b, "\n- %s: %s", entry.Document.Title, excerpt)
	}

	response := &model.Response{
		Response:    b.String(),
		Confidence:  confidence(evidence),
		Sources:     evidence.Sources,
		Suggestions: suggestions(query.Intent, evidence),
	}

	g.log.Debug("Generated response",
		slog.Float64("confidence", response.Confidence),
		slog.Int("sources", len(response.Sources)),
	)

	return response
}

// confidence scores the answer from the evidence: the top combined
// score carries most of the weight, breadth of evidence the rest.
func confidence(evidence *model.Context) float64 {
	top := evidence.Entries[0].Score
	breadth := float64(min(len(evidence.Entries), 5)) / 5
	return clamp01(0.7*top + 0.3*breadth)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func opening(intent model.QueryIntent) string {
	switch intent {
	case model.IntentJobSearch:
		return "Here are job roles from the career dataset that match your question:"
	case model.IntentSkillInquiry:
		return "Here is what the career dataset says about the skills you asked about:"
	case model.IntentCareerPath:
		return "Here is career path information from the dataset relevant to your question:"
	case model.IntentSkillGap:
		return "Here are the competencies from the dataset to measure your profile against:"
	case model.IntentLearningRecommendation:
		return "Here are skills and proficiency levels from the dataset worth developing:"
	default:
		return "Here is what the career dataset holds about your question:"
	}
}

// suggestions derives follow-up questions from the intent and the
// retrieved titles, so every suggestion is answerable from the index.
func suggestions(intent model.QueryIntent, evidence *model.Context) []string {
	title := evidence.Entries[0].Document.Title

	var out []string
	switch intent {
	case model.IntentJobSearch:
		out = append(out,
			fmt.Sprintf("What skills do I need for %s?", title),
			fmt.Sprintf("What career progression does %s offer?", title),
		)
	case model.IntentSkillInquiry:
		out = append(out,
			fmt.Sprintf("Which job roles require %s?", title),
			fmt.Sprintf("What does a higher proficiency level of %s involve?", title),
		)
	case model.IntentCareerPath:
		out = append(out,
			fmt.Sprintf("What skills should I build to move towards %s?", title),
			fmt.Sprintf("Are there job openings related to %s?", title),
		)
	case model.IntentSkillGap:
		out = append(out,
			fmt.Sprintf("What training helps me close the gap in %s?", title),
			fmt.Sprintf("What proficiency level is expected for %s?", title),
		)
	case model.IntentLearningRecommendation:
		out = append(out,
			fmt.Sprintf("What job roles open up once I learn %s?", title),
			fmt.Sprintf("Which proficiency level of %s should I target first?", title),
		)
	default:
		out = append(out, fmt.Sprintf("Tell me more about %s.", title))
	}

	out = append(out, "What job roles are in the career dataset?")
	if len(evidence.Entries) > 1 {
		out = append(out, fmt.Sprintf("Tell me more about %s.", evidence.Entries[1].Document.Title))
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

func generalSuggestions() []string {
	return []string{
		"What job roles are in the career dataset?",
		"What skills do I need for data science?",
		"What does proficiency level 3 mean?",
	}
}
