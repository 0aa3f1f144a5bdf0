package generation

import "fmt"

const (
	draftSystemPrompt = "You are a world-class writing assistant specializing in social media and content marketing."

	draftPromptTemplate = `You are an expert social media manager and copywriter.
Your task is to write a high-quality post based on the user's idea.

Configuration:
- Platform: %s
- Tone: %s
- Approximate Length: %s

User's Idea/Topic:
"%s"

Guidelines:
- Adapt the formatting (hashtags, spacing, emojis) specifically for %s.
- If it's Twitter, keep it within character limits or create a thread structure.
- If it's LinkedIn, focus on professional engagement and readability.
- If it's Instagram, include a visually descriptive caption and relevant hashtags block at the end.
- Do not include conversational filler like "Here is your post". Just output the post content directly.
- Return plain text with markdown formatting where appropriate (bolding, lists).`

	refinePromptTemplate = `Original Post:
"%s"

User Instruction for Refinement:
"%s"

Task: Rewrite the original post implementing the user's instruction. Keep the core message but adjust style/length/content as requested.`
)

func buildDraftPrompt(req GenerateRequest) (systemPrompt, prompt string) {
	return draftSystemPrompt, fmt.Sprintf(draftPromptTemplate,
		req.Platform, req.Tone, req.Length, req.Idea, req.Platform)
}

func buildRefinePrompt(currentContent, instruction string) (systemPrompt, prompt string) {
	return draftSystemPrompt, fmt.Sprintf(refinePromptTemplate, currentContent, instruction)
}
