// Package evaluate scores completed interviews with response-quality
// heuristics.
package evaluate

import (
	"math"
	"strings"
	"time"

	"intervue/internal/types"
)

// Evaluator scores interview answers for a role.
type Evaluator struct{}

// New creates an Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate scores the answers against the role's key skills. Answer
// length and word count drive the per-answer score; skill ratings
// shift the overall score by whether the skill is mentioned anywhere
// in the answers.
func (e *Evaluator) Evaluate(role types.Role, pairs []types.QAPair) types.Evaluation {
	overall := overallScore(pairs)

	skillRatings := make(map[string]float64, len(role.KeySkills))
	for _, skill := range role.KeySkills {
		skillRatings[skill] = rateSkill(skill, overall, pairs)
	}

	return types.Evaluation{
		OverallScore:    math.Round(overall*10) / 10,
		SkillRatings:    skillRatings,
		Summary:         summarize(overall),
		Recommendations: recommendations(overall, role.KeySkills, skillRatings),
		EvaluatedAt:     time.Now(),
		TotalQuestions:  len(pairs),
	}
}

// Fallback returns a neutral evaluation used when scoring cannot run,
// for example when a report must still be produced for a session with
// unusable answers.
func (e *Evaluator) Fallback(role types.Role, pairs []types.QAPair) types.Evaluation {
	skillRatings := make(map[string]float64, len(role.KeySkills))
	for _, skill := range role.KeySkills {
		skillRatings[skill] = 3.0
	}

	return types.Evaluation{
		OverallScore: 3.0,
		SkillRatings: skillRatings,
		Summary:      "Basic evaluation completed. Recommend manual review for detailed assessment.",
		Recommendations: []string{
			"Manual evaluation required",
			"Schedule follow-up interview",
		},
		EvaluatedAt:    time.Now(),
		TotalQuestions: len(pairs),
	}
}

// scoreAnswer maps answer length and word count onto a 1.5 to 4.5
// quality band.
func scoreAnswer(answer string) float64 {
	length := len(answer)
	words := len(strings.Fields(answer))

	switch {
	case length > 200 && words > 30:
		return 4.5
	case length > 100 && words > 20:
		return 3.5
	case length > 50 && words > 10:
		return 2.5
	default:
		return 1.5
	}
}

func overallScore(pairs []types.QAPair) float64 {
	if len(pairs) == 0 {
		return 0
	}

	total := 0.0
	for _, pair := range pairs {
		total += scoreAnswer(pair.Answer)
	}
	return total / float64(len(pairs))
}

// rateSkill shifts the overall score up or down half a point depending
// on whether the skill is mentioned in any answer, clamped to [1, 5].
func rateSkill(skill string, overall float64, pairs []types.QAPair) float64 {
	mentioned := false
	lowerSkill := strings.ToLower(skill)
	for _, pair := range pairs {
		if strings.Contains(strings.ToLower(pair.Answer), lowerSkill) {
			mentioned = true
			break
		}
	}

	score := overall - 0.5
	if mentioned {
		score = overall + 0.5
	}
	return math.Max(1.0, math.Min(5.0, score))
}

func summarize(overall float64) string {
	switch {
	case overall >= 4.0:
		return "Excellent candidate with strong communication skills and relevant experience. Provided detailed, thoughtful responses that demonstrate deep understanding of the role requirements."
	case overall >= 3.0:
		return "Good candidate with solid experience and communication skills. Responses show understanding of key concepts with room for some improvement in detail and depth."
	case overall >= 2.0:
		return "Average candidate with basic understanding of the role. Responses were adequate but lacked depth and detail in some areas."
	default:
		return "Candidate may need additional development. Responses were brief and didn't fully demonstrate the required level of expertise for this role."
	}
}

// recommendations lists hiring guidance for the score tier, then
// standout skills and weak skills. Skills keep catalog order so the
// output is deterministic.
func recommendations(overall float64, keySkills []string, skillRatings map[string]float64) []string {
	var recs []string

	switch {
	case overall >= 4.0:
		recs = append(recs,
			"Strong candidate - Highly recommend for next interview round",
			"Consider for expedited hiring process")
	case overall >= 3.0:
		recs = append(recs,
			"Good candidate - Recommend for next round with standard process",
			"May benefit from additional technical assessment")
	case overall >= 2.0:
		recs = append(recs,
			"Average candidate - Consider additional evaluation",
			"May need skills development in key areas")
	default:
		recs = append(recs,
			"Below expectations - May not be suitable for current role",
			"Consider for junior positions or provide additional training")
	}

	var strengths, weaknesses []string
	for _, skill := range keySkills {
		rating := skillRatings[skill]
		if rating >= 4.0 {
			strengths = append(strengths, skill)
		}
		if rating < 2.5 {
			weaknesses = append(weaknesses, skill)
		}
	}

	if len(strengths) > 0 {
		recs = append(recs, "Key strengths demonstrated: "+strings.Join(top(strengths, 3), ", "))
	}
	if len(weaknesses) > 0 {
		recs = append(recs, "Areas needing improvement: "+strings.Join(top(weaknesses, 3), ", "))
	}

	return recs
}

func top(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
