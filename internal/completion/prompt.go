package completion

import "fmt"

// DefaultAnswerLength is the requested answer size in words.
const DefaultAnswerLength = 300

// PromptInput carries everything needed to build an answering prompt.
type PromptInput struct {
	DocumentName string
	Question     string
	Context      string
	AnswerLength int
}

// BuildPrompt renders the answering prompt. The context block always comes
// last so a truncated context never swallows the question.
func BuildPrompt(in PromptInput) string {
	length := in.AnswerLength
	if length <= 0 {
		length = DefaultAnswerLength
	}
	return fmt.Sprintf(
		"You are an AI assistant with a thorough knowledge of the selected document '%s'.\n"+
			"Deliver an answer that is approximately %d words.\n"+
			"Question: %s\n\nContext: %s\n\nAnswer:",
		in.DocumentName, length, in.Question, in.Context)
}
