package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pebblevault/domain/core/valueobjects"
)

const sampleResponse = `{
  "levels": {
    "ELI5": {
      "title": "Black Holes",
      "summary": "A black hole is a place in space that pulls so hard nothing can escape, not even light.",
      "emojiCollage": ["🕳️", "⭐", "🌌", "  "],
      "mainContent": [
        {"type": "text", "heading": "What is it?", "iconType": "idea", "body": "Imagine a vacuum cleaner so strong it eats light."},
        {"type": "key_points", "iconType": "warp drive", "body": "Super heavy | Invisible | Found in space"}
      ],
      "sidebarContent": [
        {"type": "definition", "heading": "Gravity", "emoji": "🌍", "body": "The pull that keeps you on the ground."}
      ],
      "keywords": ["space", "gravity"]
    },
    "ACADEMIC": {
      "title": "Black Holes",
      "summary": "A black hole is a region of spacetime where gravity prevents anything, including light, from escaping beyond the event horizon.",
      "mainContent": [
        {"type": "text", "body": "Formed by the gravitational collapse of massive stars."}
      ]
    }
  },
  "socraticQuestions": ["What happens to information that falls in?", "How do we detect something invisible?"]
}`

func TestParseContent(t *testing.T) {
	content, err := ParseContent(sampleResponse)
	require.NoError(t, err)

	eli5, ok := content.Level(valueobjects.LevelELI5)
	require.True(t, ok)
	assert.Equal(t, "Black Holes", eli5.Title)
	assert.Equal(t, []string{"🕳️", "⭐", "🌌"}, eli5.EmojiCollage)
	require.Len(t, eli5.MainContent, 2)
	assert.Equal(t, valueobjects.IconIdea, eli5.MainContent[0].IconType)
	// unrecognized icon names fall back to the default
	assert.Equal(t, valueobjects.IconDefault, eli5.MainContent[1].IconType)
	assert.Equal(t, []string{"Super heavy", "Invisible", "Found in space"}, eli5.MainContent[1].KeyPoints())
	require.Len(t, eli5.SidebarContent, 1)
	assert.Equal(t, valueobjects.SidebarDefinition, eli5.SidebarContent[0].Type)
	assert.Equal(t, "Gravity", eli5.SidebarContent[0].Heading)
	assert.Equal(t, "🌍", eli5.SidebarContent[0].Emoji)

	academic, ok := content.Level(valueobjects.LevelAcademic)
	require.True(t, ok)
	assert.False(t, academic.IsEmpty())

	assert.Len(t, content.SocraticQuestions(), 2)
}

func TestParseContentCodeFence(t *testing.T) {
	fenced := "```json\n" + sampleResponse + "\n```"

	content, err := ParseContent(fenced)
	require.NoError(t, err)
	assert.False(t, content.IsEmpty())
}

func TestParseContentInvalidJSON(t *testing.T) {
	_, err := ParseContent("this is not json")
	assert.Error(t, err)
}

func TestParseContentNoLevels(t *testing.T) {
	_, err := ParseContent(`{"levels": {}, "socraticQuestions": []}`)
	assert.Error(t, err)
}

func TestParseContentUnknownLevelIgnored(t *testing.T) {
	raw := `{
	  "levels": {
	    "eli5": {"title": "T", "summary": "S", "mainContent": [{"body": "B"}]},
	    "WIZARD": {"title": "W", "summary": "W", "mainContent": []}
	  }
	}`

	content, err := ParseContent(raw)
	require.NoError(t, err)

	lc, ok := content.Level(valueobjects.LevelELI5)
	require.True(t, ok)
	assert.Equal(t, "T", lc.Title)
	// defaulted block type
	assert.Equal(t, valueobjects.BlockText, lc.MainContent[0].Type)

	_, ok = content.Level(valueobjects.CognitiveLevel("WIZARD"))
	assert.False(t, ok)
}

func TestParseContentDropsEmptyBlocks(t *testing.T) {
	raw := `{
	  "levels": {
	    "ELI5": {
	      "title": "T",
	      "summary": "S",
	      "mainContent": [{"type": "text", "body": "  "}, {"type": "text", "body": "kept"}],
	      "keywords": ["", " ok "]
	    }
	  },
	  "socraticQuestions": ["", " q "]
	}`

	content, err := ParseContent(raw)
	require.NoError(t, err)

	lc, _ := content.Level(valueobjects.LevelELI5)
	require.Len(t, lc.MainContent, 1)
	assert.Equal(t, "kept", lc.MainContent[0].Body)
	assert.Equal(t, []string{"ok"}, lc.Keywords)
	assert.Equal(t, []string{"q"}, content.SocraticQuestions())
}
