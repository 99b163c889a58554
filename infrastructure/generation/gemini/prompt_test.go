package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pebblevault/application/ports"
)

func TestBuildPromptIncludesContextPebbles(t *testing.T) {
	prompt := buildPrompt("Black Holes", []ports.ContextPebble{
		{Topic: "Gravity", Summary: "The pull between masses."},
		{Topic: "Light", Summary: "Electromagnetic radiation we can see."},
	})

	assert.Contains(t, prompt, `"Black Holes"`)
	assert.Contains(t, prompt, "CONTEXT NODES")
	assert.Contains(t, prompt, "- Gravity: The pull between masses.")
	assert.Contains(t, prompt, "- Light: Electromagnetic radiation we can see.")
}

func TestBuildPromptWithoutContext(t *testing.T) {
	prompt := buildPrompt("Black Holes", nil)

	assert.NotContains(t, prompt, "CONTEXT NODES")
	assert.Contains(t, prompt, "socraticQuestions")
}
