package generate

import (
	"fmt"
	"strings"

	"intervue/internal/types"
)

// genericQuestion is returned when the question number runs past the
// combined bank for a role.
const genericQuestion = "Tell me more about your experience and what makes you a good fit for this role."

// FallbackBank serves static interview questions when the generation
// backend is unavailable. Selection is positional: the same role and
// question number always produce the same question.
type FallbackBank struct{}

// NewFallbackBank creates a FallbackBank.
func NewFallbackBank() *FallbackBank {
	return &FallbackBank{}
}

// Question returns the fallback question for the given role and
// 1-based question number.
func (b *FallbackBank) Question(role types.Role, questionNumber int) string {
	questions := b.questionsFor(role)

	if questionNumber >= 1 && questionNumber <= len(questions) {
		return questions[questionNumber-1]
	}
	return genericQuestion
}

// questionsFor combines the general questions with the role family's
// specific set.
func (b *FallbackBank) questionsFor(role types.Role) []string {
	general := []string{
		fmt.Sprintf("Tell me about your experience in %s roles and what attracted you to this field.", role.Title),
		"Can you describe a challenging project you've worked on recently and how you approached it?",
		"How do you stay updated with the latest trends and technologies in your field?",
		"Tell me about a time when you had to work under pressure or tight deadlines. How did you manage it?",
		"Describe a situation where you had to collaborate with team members who had different opinions. How did you handle it?",
		"What do you consider your greatest professional achievement so far, and why?",
		"How do you approach problem-solving when faced with a complex technical challenge?",
	}

	return append(general, roleSpecificQuestions(role.Title)...)
}

// roleSpecificQuestions matches the role title to a question family by
// substring. Unmatched titles get no extra questions.
func roleSpecificQuestions(roleTitle string) []string {
	title := strings.ToLower(roleTitle)

	switch {
	case strings.Contains(title, "developer") || strings.Contains(title, "engineer"):
		return []string{
			"Walk me through your development process from requirement analysis to deployment.",
			"How do you ensure code quality and maintainability in your projects?",
			"Describe a time when you had to debug a particularly difficult issue.",
			"What programming languages and frameworks do you prefer and why?",
		}
	case strings.Contains(title, "data") || strings.Contains(title, "scientist"):
		return []string{
			"How do you approach data analysis for solving business problems?",
			"Describe a data project that had significant business impact.",
			"What tools and technologies do you use for data analysis and visualization?",
			"How do you handle missing or inconsistent data in your analysis?",
		}
	case strings.Contains(title, "product") || strings.Contains(title, "manager"):
		return []string{
			"How do you prioritize features and make product decisions?",
			"Describe your experience with stakeholder management and communication.",
			"Tell me about a successful product launch you've managed.",
			"How do you gather and incorporate user feedback into product development?",
		}
	case strings.Contains(title, "marketing"):
		return []string{
			"How do you measure the success of your marketing campaigns?",
			"Describe a marketing campaign you created that exceeded expectations.",
			"How do you stay current with digital marketing trends and best practices?",
			"What's your approach to understanding and targeting different customer segments?",
		}
	}
	return nil
}
