package gemini

import (
	"fmt"
	"strings"

	"pebblevault/application/ports"
)

const systemInstruction = `You are an expert educator who explains any topic at two depths:
a playful "explain like I'm five" version and a rigorous academic version.
You always answer with a single JSON object and nothing else.`

const responseSchema = `{
  "levels": {
    "ELI5": {
      "title": "string",
      "summary": "string, 2-3 sentences",
      "emojiCollage": ["3-5 emoji, one per entry"],
      "mainContent": [
        {"type": "text | pull_quote | key_points", "heading": "string, optional", "iconType": "definition | history | idea | controversy | future | analysis | default", "body": "string; for key_points, points separated by |"}
      ],
      "sidebarContent": [
        {"type": "definition | profile | stat", "heading": "string", "body": "string", "emoji": "one emoji, optional"}
      ],
      "keywords": ["string"]
    },
    "ACADEMIC": { "same shape as ELI5": "..." }
  },
  "socraticQuestions": ["string, 3-5 open questions that push the reader deeper"]
}`

// buildPrompt assembles the user prompt for a topic. Context pebbles
// are summarized so the model can relate the new card to what the user
// already collected.
func buildPrompt(topic string, contextPebbles []ports.ContextPebble) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a knowledge card about the topic: %q.\n\n", topic)
	if len(contextPebbles) > 0 {
		b.WriteString("CONTEXT NODES the reader already knows:\n")
		for _, p := range contextPebbles {
			fmt.Fprintf(&b, "- %s: %s\n", p.Topic, p.Summary)
		}
		b.WriteString("\n")
	}
	b.WriteString("Produce both the ELI5 and ACADEMIC levels. ")
	b.WriteString("Keep each summary under 2000 characters and use at most 8 main content blocks per level.\n\n")
	b.WriteString("Respond with exactly one JSON object matching this schema:\n")
	b.WriteString(responseSchema)
	return b.String()
}
