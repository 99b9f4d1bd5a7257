package evaluate

import (
	"strings"
	"testing"

	"intervue/internal/types"
)

// answerOfWords builds an answer with exactly n five-character words
// (including the trailing space each word carries).
func answerOfWords(n int) string {
	return strings.TrimSpace(strings.Repeat("reply ", n))
}

func pairsWithAnswers(answers ...string) []types.QAPair {
	pairs := make([]types.QAPair, len(answers))
	for i, answer := range answers {
		pairs[i] = types.QAPair{
			QuestionNumber: i + 1,
			Question:       "Tell me about your experience?",
			Answer:         answer,
		}
	}
	return pairs
}

func TestScoreAnswer(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   float64
	}{
		{"detailed answer", answerOfWords(41), 4.5},
		{"solid answer", answerOfWords(21), 3.5},
		{"brief answer", answerOfWords(11), 2.5},
		{"minimal answer", "yes", 1.5},
		{"empty answer", "", 1.5},
		{"long but few words", strings.Repeat("a", 300), 1.5},
		{"many short words", "a a a a a a a a a a a a a a a a a a a a a a a a a a a a a a a a", 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreAnswer(tt.answer); got != tt.want {
				t.Errorf("scoreAnswer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateOverallScore(t *testing.T) {
	role := types.Role{
		ID:        "backend-developer",
		Title:     "Backend Developer",
		KeySkills: []string{"Go", "SQL"},
	}

	// Scores 4.5, 3.5, 2.5 and 1.5 average to 3.0
	pairs := pairsWithAnswers(
		answerOfWords(41),
		answerOfWords(21),
		answerOfWords(11),
		"yes",
	)

	eval := New().Evaluate(role, pairs)
	if eval.OverallScore != 3.0 {
		t.Errorf("OverallScore = %v, want 3.0", eval.OverallScore)
	}
	if eval.TotalQuestions != 4 {
		t.Errorf("TotalQuestions = %d, want 4", eval.TotalQuestions)
	}
	if !strings.HasPrefix(eval.Summary, "Good candidate") {
		t.Errorf("Summary = %q, want Good candidate tier", eval.Summary)
	}
}

func TestEvaluateBackendDeveloperScenario(t *testing.T) {
	role := types.Role{
		ID:        "backend-developer",
		Title:     "Backend Developer",
		KeySkills: []string{"Go", "SQL", "API design"},
	}

	// Per-answer scores 4.5, 1.5 and 3.5: a detailed first answer, a
	// throwaway second one and a solid third one.
	pairs := pairsWithAnswers(
		strings.TrimSpace(strings.Repeat("service ", 40)),
		"short reply with little actual detail",
		strings.TrimSpace(strings.Repeat("backend ", 22)),
	)

	eval := New().Evaluate(role, pairs)

	if eval.OverallScore != 3.2 {
		t.Errorf("OverallScore = %v, want 3.2", eval.OverallScore)
	}
	if !strings.HasPrefix(eval.Summary, "Good candidate") {
		t.Errorf("Summary = %q, want Good candidate tier", eval.Summary)
	}
	if eval.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", eval.TotalQuestions)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	role := types.Role{Title: "Backend Developer", KeySkills: []string{"Go", "SQL"}}
	pairs := pairsWithAnswers(answerOfWords(25)+" built Go services", answerOfWords(12))

	first := New().Evaluate(role, pairs)
	second := New().Evaluate(role, pairs)

	if first.OverallScore != second.OverallScore {
		t.Errorf("OverallScore differs across runs: %v vs %v", first.OverallScore, second.OverallScore)
	}
	if first.Summary != second.Summary {
		t.Errorf("Summary differs across runs")
	}
	if len(first.SkillRatings) != len(second.SkillRatings) {
		t.Fatalf("SkillRatings size differs across runs")
	}
	for skill, rating := range first.SkillRatings {
		if second.SkillRatings[skill] != rating {
			t.Errorf("SkillRatings[%s] differs across runs: %v vs %v", skill, rating, second.SkillRatings[skill])
		}
	}
	if strings.Join(first.Recommendations, "\n") != strings.Join(second.Recommendations, "\n") {
		t.Errorf("Recommendations differ across runs")
	}
}

func TestEvaluateEmptyAnswers(t *testing.T) {
	role := types.Role{Title: "Backend Developer", KeySkills: []string{"Go"}}

	eval := New().Evaluate(role, nil)
	if eval.OverallScore != 0 {
		t.Errorf("OverallScore = %v, want 0", eval.OverallScore)
	}
	if !strings.HasPrefix(eval.Summary, "Candidate may need additional development") {
		t.Errorf("Summary = %q, want lowest tier", eval.Summary)
	}
	if eval.TotalQuestions != 0 {
		t.Errorf("TotalQuestions = %d, want 0", eval.TotalQuestions)
	}
}

func TestSkillRatingMentionShift(t *testing.T) {
	role := types.Role{
		Title:     "Backend Developer",
		KeySkills: []string{"Go", "Kubernetes"},
	}

	// All answers score 3.5, so overall is 3.5. "go" appears in an
	// answer (case-insensitive), "kubernetes" does not.
	pairs := pairsWithAnswers(
		answerOfWords(20)+" I have written many services in GO myself",
		answerOfWords(21),
	)

	eval := New().Evaluate(role, pairs)

	if got := eval.SkillRatings["Go"]; got != 4.0 {
		t.Errorf("SkillRatings[Go] = %v, want 4.0", got)
	}
	if got := eval.SkillRatings["Kubernetes"]; got != 3.0 {
		t.Errorf("SkillRatings[Kubernetes] = %v, want 3.0", got)
	}
}

func TestSkillRatingClamped(t *testing.T) {
	role := types.Role{Title: "Backend Developer", KeySkills: []string{"Go", "SQL"}}

	// Single detailed answer mentioning Go: overall 4.5, Go would be
	// 5.0 (at the cap), SQL would be 4.0.
	high := pairsWithAnswers(answerOfWords(40) + " my strongest language is Go")
	eval := New().Evaluate(role, high)
	if got := eval.SkillRatings["Go"]; got != 5.0 {
		t.Errorf("SkillRatings[Go] = %v, want clamp at 5.0", got)
	}

	// Single minimal answer: overall 1.5, unmentioned skill would be
	// 1.0 (at the floor).
	low := pairsWithAnswers("no")
	eval = New().Evaluate(role, low)
	if got := eval.SkillRatings["SQL"]; got != 1.0 {
		t.Errorf("SkillRatings[SQL] = %v, want clamp at 1.0", got)
	}
}

func TestRecommendationTiers(t *testing.T) {
	tests := []struct {
		name      string
		answers   []string
		wantFirst string
	}{
		{
			name:      "strong candidate",
			answers:   []string{answerOfWords(41), answerOfWords(41)},
			wantFirst: "Strong candidate - Highly recommend for next interview round",
		},
		{
			name:      "good candidate",
			answers:   []string{answerOfWords(21), answerOfWords(21)},
			wantFirst: "Good candidate - Recommend for next round with standard process",
		},
		{
			name:      "average candidate",
			answers:   []string{answerOfWords(11), answerOfWords(11)},
			wantFirst: "Average candidate - Consider additional evaluation",
		},
		{
			name:      "below expectations",
			answers:   []string{"no", "maybe"},
			wantFirst: "Below expectations - May not be suitable for current role",
		},
	}

	role := types.Role{Title: "Backend Developer", KeySkills: []string{"Go"}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := New().Evaluate(role, pairsWithAnswers(tt.answers...))
			if len(eval.Recommendations) < 2 {
				t.Fatalf("Recommendations = %v, want at least 2 entries", eval.Recommendations)
			}
			if eval.Recommendations[0] != tt.wantFirst {
				t.Errorf("Recommendations[0] = %q, want %q", eval.Recommendations[0], tt.wantFirst)
			}
		})
	}
}

func TestRecommendationsListStrengthsAndWeaknesses(t *testing.T) {
	role := types.Role{
		Title:     "Backend Developer",
		KeySkills: []string{"Go", "SQL", "API design", "testing", "debugging"},
	}

	// Detailed answer mentioning only Go: overall 4.5, Go rates 5.0
	// (strength), the others rate 4.0 (also strengths, not weaknesses).
	pairs := pairsWithAnswers(answerOfWords(40) + " mostly writing Go services end to end")
	eval := New().Evaluate(role, pairs)

	var strengthsLine string
	for _, rec := range eval.Recommendations {
		if strings.HasPrefix(rec, "Key strengths demonstrated: ") {
			strengthsLine = rec
		}
		if strings.HasPrefix(rec, "Areas needing improvement: ") {
			t.Errorf("unexpected weaknesses line: %q", rec)
		}
	}
	if strengthsLine == "" {
		t.Fatal("missing strengths line in recommendations")
	}

	// Only the first three qualifying skills are listed
	listed := strings.Split(strings.TrimPrefix(strengthsLine, "Key strengths demonstrated: "), ", ")
	if len(listed) != 3 {
		t.Errorf("strengths listed = %d, want 3", len(listed))
	}
	if listed[0] != "Go" {
		t.Errorf("first strength = %q, want Go (catalog order)", listed[0])
	}
}

func TestFallback(t *testing.T) {
	role := types.Role{
		Title:     "Backend Developer",
		KeySkills: []string{"Go", "SQL"},
	}
	pairs := pairsWithAnswers("one", "two", "three")

	eval := New().Fallback(role, pairs)

	if eval.OverallScore != 3.0 {
		t.Errorf("OverallScore = %v, want 3.0", eval.OverallScore)
	}
	for skill, rating := range eval.SkillRatings {
		if rating != 3.0 {
			t.Errorf("SkillRatings[%s] = %v, want 3.0", skill, rating)
		}
	}
	if eval.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", eval.TotalQuestions)
	}
	if len(eval.Recommendations) != 2 {
		t.Errorf("Recommendations = %v, want 2 entries", eval.Recommendations)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	role := types.Role{Title: "Backend Developer", KeySkills: []string{"Go", "SQL"}}
	pairs := pairsWithAnswers(answerOfWords(41), answerOfWords(11))

	first := New().Evaluate(role, pairs)
	second := New().Evaluate(role, pairs)

	if first.OverallScore != second.OverallScore {
		t.Errorf("OverallScore differs: %v vs %v", first.OverallScore, second.OverallScore)
	}
	if first.Summary != second.Summary {
		t.Errorf("Summary differs")
	}
	for skill, rating := range first.SkillRatings {
		if second.SkillRatings[skill] != rating {
			t.Errorf("SkillRatings[%s] differs: %v vs %v", skill, rating, second.SkillRatings[skill])
		}
	}
}
