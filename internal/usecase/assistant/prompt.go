package assistant

import (
	"fmt"
	"strings"
	"unicode"
)

const qaSystemPrompt = "You are an EPLC assistant. Answer only using the information in the CONTEXT. " +
	"If the answer can be inferred from the context, explain it briefly. " +
	"If the context provides no relevant information, reply exactly: Not specified in the provided context."

const draftSystemPrompt = `You are an assistant that drafts paste-ready text for a chosen phase of the Enterprise Product Lifecycle (EPLC).
Each vector database corresponds to a specific phase (Requirement, Design, Implementation, or Development).
Use the phase, template, and section to stay in scope.
Be concise, specific, and professional (120-180 words).`

// noAnswerText is the verbatim reply for questions with zero retrieved
// evidence. The QA system prompt instructs the model to use the same
// wording, so callers see one canonical refusal.
const noAnswerText = "Not specified in the provided context."

const assumptionsBlock = "\n\nAssumptions & Next Steps:\n" +
	"- Confirm data categories and user groups.\n" +
	"- Validate environmental dependencies.\n" +
	"- List technical or security risks.\n" +
	"- Identify owner responsibilities.\n"

func qaUserPrompt(question, context string) string {
	return fmt.Sprintf("CONTEXT:\n%s\n\nQUESTION:\n%s\n", context, question)
}

func draftUserPrompt(context, section, template, phase, details, instructions string) string {
	return fmt.Sprintf(`
CONTEXT:
%s

QUESTION:
Draft the %s section for the %s in the %s Phase.

User details:
%s

Instructions:
%s
`, context, section, template, titleCase(phase), details, instructions)
}

// draftQueryText composes the retrieval query for a draft request.
func draftQueryText(phase, template, section, details string) string {
	return fmt.Sprintf("%s Phase | Template: %s | Section: %s\n%s", titleCase(phase), template, section, details)
}

func defaultInstructions(minWords, maxWords int) string {
	return fmt.Sprintf("Concise, specific, %d-%d words.", minWords, maxWords)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
