package feedback

import (
	"strings"

	"github.com/julianstephens/lifeplan/internal/models"
)

// Generator produces journal feedback for a reflection in the context of the user's priorities.
type Generator interface {
	Generate(reflection string, priorities []models.Priority) string
}

var (
	PositiveKeywords  = []string{"grateful", "accomplished", "progress", "success", "happy", "achieved", "proud"}
	ChallengeKeywords = []string{"difficult", "struggle", "failed", "worried", "stressed", "behind", "overwhelmed"}
)

const (
	header           = "**Reflection Analysis:**\n\n"
	positiveNote     = "✅ Great to see positive momentum! Your reflection shows growth and accomplishment.\n\n"
	challengeNote    = "🎯 I notice some challenges mentioned. Remember that obstacles are opportunities for growth.\n\n"
	alignmentHeader  = "**Alignment Check:**\n"
	alignmentNoGoals = "Consider setting clear life priorities to better align your daily actions with your long-term goals.\n\n"
	suggestions      = "**Actionable Suggestions:**\n" +
		"• Identify one small win from today to build momentum\n" +
		"• Choose one area from your priorities to focus on tomorrow\n" +
		"• Practice gratitude for progress made, however small\n" +
		"• Reflect on lessons learned from today's challenges"
)

// Analysis is the keyword scan of a reflection.
type Analysis struct {
	Positive  []string
	Challenge []string
}

// HasPositive reports whether any positive keyword matched
func (a Analysis) HasPositive() bool { return len(a.Positive) > 0 }

// HasChallenge reports whether any challenge keyword matched
func (a Analysis) HasChallenge() bool { return len(a.Challenge) > 0 }

// Analyze lower-cases the reflection and returns the keywords it contains, in table order.
// Matching is by substring, so "unhappy" counts as "happy".
func Analyze(reflection string) Analysis {
	lower := strings.ToLower(reflection)
	return Analysis{
		Positive:  matches(lower, PositiveKeywords),
		Challenge: matches(lower, ChallengeKeywords),
	}
}

func matches(text string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// GoalContext joins the priorities with a non-empty description as "category: description",
// separated by ", ". It returns "" when none are set.
func GoalContext(priorities []models.Priority) string {
	parts := make([]string, 0, len(priorities))
	for _, p := range priorities {
		if strings.TrimSpace(p.Description) == "" {
			continue
		}
		parts = append(parts, string(p.Category)+": "+p.Description)
	}
	return strings.Join(parts, ", ")
}

// KeywordGenerator is the fixed rule-table feedback generator. It is pure: the same
// reflection and priorities always produce the same bytes.
type KeywordGenerator struct{}

// NewKeywordGenerator creates a new KeywordGenerator
func NewKeywordGenerator() KeywordGenerator {
	return KeywordGenerator{}
}

// Generate composes the feedback text
func (KeywordGenerator) Generate(reflection string, priorities []models.Priority) string {
	analysis := Analyze(reflection)
	goals := GoalContext(priorities)

	var b strings.Builder
	b.WriteString(header)
	if analysis.HasPositive() {
		b.WriteString(positiveNote)
	}
	if analysis.HasChallenge() {
		b.WriteString(challengeNote)
	}

	b.WriteString(alignmentHeader)
	if goals != "" {
		b.WriteString("Your current goals (")
		b.WriteString(goals)
		b.WriteString(") provide a strong foundation. Consider how today's experiences connect to these priorities.\n\n")
	} else {
		b.WriteString(alignmentNoGoals)
	}

	b.WriteString(suggestions)
	return b.String()
}
