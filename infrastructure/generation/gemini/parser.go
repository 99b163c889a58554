package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"pebblevault/domain/core/valueobjects"
)

// contentDocument mirrors the JSON shape the model is asked to produce
type contentDocument struct {
	Levels            map[string]valueobjects.LevelContent `json:"levels"`
	SocraticQuestions []string                             `json:"socraticQuestions"`
}

// ParseContent decodes a model response into pebble content.
// The response may be wrapped in a markdown code fence despite the
// JSON response MIME type, so fences are stripped first.
func ParseContent(raw string) (valueobjects.PebbleContent, error) {
	cleaned := stripCodeFence(raw)

	var doc contentDocument
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return valueobjects.PebbleContent{}, fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(doc.Levels) == 0 {
		return valueobjects.PebbleContent{}, fmt.Errorf("gemini: response has no levels")
	}

	levels := make(map[valueobjects.CognitiveLevel]valueobjects.LevelContent, len(doc.Levels))
	for name, lc := range doc.Levels {
		level := valueobjects.CognitiveLevel(strings.ToUpper(strings.TrimSpace(name)))
		if !valueobjects.IsValidLevel(level) {
			// Tolerate extra levels the model invents, keep the known ones
			continue
		}
		levels[level] = sanitizeLevel(lc)
	}
	if len(levels) == 0 {
		return valueobjects.PebbleContent{}, fmt.Errorf("gemini: response has no recognized levels")
	}

	questions := make([]string, 0, len(doc.SocraticQuestions))
	for _, q := range doc.SocraticQuestions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}

	return valueobjects.NewPebbleContent(levels, questions)
}

// sanitizeLevel trims whitespace, drops blocks with empty bodies and
// normalizes icon and sidebar types the model got wrong
func sanitizeLevel(lc valueobjects.LevelContent) valueobjects.LevelContent {
	lc.Title = strings.TrimSpace(lc.Title)
	lc.Summary = strings.TrimSpace(lc.Summary)

	collage := make([]string, 0, len(lc.EmojiCollage))
	for _, e := range lc.EmojiCollage {
		if e = strings.TrimSpace(e); e != "" {
			collage = append(collage, e)
		}
	}
	lc.EmojiCollage = collage

	main := make([]valueobjects.MainBlock, 0, len(lc.MainContent))
	for _, b := range lc.MainContent {
		b.Heading = strings.TrimSpace(b.Heading)
		b.Body = strings.TrimSpace(b.Body)
		if b.Body == "" {
			continue
		}
		if b.Type == "" {
			b.Type = valueobjects.BlockText
		}
		if !valueobjects.IsValidIconType(b.IconType) {
			b.IconType = valueobjects.IconDefault
		}
		main = append(main, b)
	}
	lc.MainContent = main

	sidebar := make([]valueobjects.SidebarBlock, 0, len(lc.SidebarContent))
	for _, b := range lc.SidebarContent {
		b.Heading = strings.TrimSpace(b.Heading)
		b.Body = strings.TrimSpace(b.Body)
		if b.Body == "" {
			continue
		}
		switch b.Type {
		case valueobjects.SidebarDefinition, valueobjects.SidebarProfile, valueobjects.SidebarStat:
		default:
			b.Type = valueobjects.SidebarDefinition
		}
		sidebar = append(sidebar, b)
	}
	lc.SidebarContent = sidebar

	keywords := make([]string, 0, len(lc.Keywords))
	for _, k := range lc.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	lc.Keywords = keywords

	return lc
}

// stripCodeFence removes a surrounding ```json ... ``` fence if present
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
