package valueobjects

import (
	"strings"
	"unicode/utf8"

	"pebblevault/domain/config"
	pkgerrors "pebblevault/pkg/errors"
)

// CognitiveLevel identifies one of the explanation depths a pebble carries
type CognitiveLevel string

const (
	LevelELI5     CognitiveLevel = "ELI5"
	LevelAcademic CognitiveLevel = "ACADEMIC"
)

// Levels returns all cognitive levels in display order
func Levels() []CognitiveLevel {
	return []CognitiveLevel{LevelELI5, LevelAcademic}
}

// IsValidLevel reports whether the level is a known cognitive level
func IsValidLevel(level CognitiveLevel) bool {
	switch level {
	case LevelELI5, LevelAcademic:
		return true
	default:
		return false
	}
}

// MainBlockType identifies the rendering style of a main content block
type MainBlockType string

const (
	BlockText      MainBlockType = "text"
	BlockPullQuote MainBlockType = "pull_quote"
	BlockKeyPoints MainBlockType = "key_points"
)

// IconType identifies the glyph shown next to a main content block
type IconType string

const (
	IconDefinition  IconType = "definition"
	IconHistory     IconType = "history"
	IconIdea        IconType = "idea"
	IconControversy IconType = "controversy"
	IconFuture      IconType = "future"
	IconAnalysis    IconType = "analysis"
	IconDefault     IconType = "default"
)

// IsValidIconType reports whether the icon type is a known one
func IsValidIconType(icon IconType) bool {
	switch icon {
	case IconDefinition, IconHistory, IconIdea, IconControversy, IconFuture, IconAnalysis, IconDefault:
		return true
	default:
		return false
	}
}

// MainBlock is one block of a level's main content column
type MainBlock struct {
	Type         MainBlockType `json:"type"`
	Heading      string        `json:"heading,omitempty"`
	IconType     IconType      `json:"iconType,omitempty"`
	Body         string        `json:"body"`
	IsUserEdited bool          `json:"isUserEdited,omitempty"`
}

// KeyPoints splits a key_points body into its individual points.
// Points are pipe-separated in the stored body.
func (b MainBlock) KeyPoints() []string {
	if b.Type != BlockKeyPoints {
		return nil
	}
	parts := strings.Split(b.Body, "|")
	points := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	return points
}

// SidebarBlockType identifies the rendering style of a sidebar block
type SidebarBlockType string

const (
	SidebarDefinition SidebarBlockType = "definition"
	SidebarProfile    SidebarBlockType = "profile"
	SidebarStat       SidebarBlockType = "stat"
)

// SidebarBlock is one block of a level's sidebar column. The emoji
// doubles as a profile avatar or visual stat.
type SidebarBlock struct {
	Type         SidebarBlockType `json:"type"`
	Heading      string           `json:"heading"`
	Body         string           `json:"body"`
	Emoji        string           `json:"emoji,omitempty"`
	IsUserEdited bool             `json:"isUserEdited,omitempty"`
}

// LevelContent is the full explanation of a topic at one cognitive level
type LevelContent struct {
	Title          string         `json:"title"`
	Summary        string         `json:"summary"`
	EmojiCollage   []string       `json:"emojiCollage,omitempty"`
	MainContent    []MainBlock    `json:"mainContent"`
	SidebarContent []SidebarBlock `json:"sidebarContent,omitempty"`
	Keywords       []string       `json:"keywords,omitempty"`
}

// IsEmpty checks if the level has no usable content
func (lc LevelContent) IsEmpty() bool {
	return lc.Title == "" && lc.Summary == "" && len(lc.MainContent) == 0
}

// PebbleContent is a value object holding a pebble's generated material
// across all cognitive levels
type PebbleContent struct {
	levels            map[CognitiveLevel]LevelContent
	socraticQuestions []string
}

// NewPebbleContent creates content with validation using default configuration
func NewPebbleContent(levels map[CognitiveLevel]LevelContent, socraticQuestions []string) (PebbleContent, error) {
	return NewPebbleContentWithConfig(levels, socraticQuestions, config.DefaultDomainConfig())
}

// NewPebbleContentWithConfig creates content with validation and configuration
func NewPebbleContentWithConfig(levels map[CognitiveLevel]LevelContent, socraticQuestions []string, cfg *config.DomainConfig) (PebbleContent, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	copied := make(map[CognitiveLevel]LevelContent, len(levels))
	for level, lc := range levels {
		if !IsValidLevel(level) {
			return PebbleContent{}, pkgerrors.NewValidationError("unknown cognitive level: " + string(level))
		}
		if len(lc.MainContent) > cfg.MaxBlocksPerLevel {
			return PebbleContent{}, pkgerrors.NewValidationError("too many content blocks for level " + string(level))
		}
		if utf8.RuneCountInString(lc.Summary) > cfg.MaxSummaryLength {
			return PebbleContent{}, pkgerrors.NewValidationError("summary too long for level " + string(level))
		}
		copied[level] = lc
	}

	if len(socraticQuestions) > cfg.MaxSocraticQuestions {
		socraticQuestions = socraticQuestions[:cfg.MaxSocraticQuestions]
	}
	questions := make([]string, len(socraticQuestions))
	copy(questions, socraticQuestions)

	return PebbleContent{
		levels:            copied,
		socraticQuestions: questions,
	}, nil
}

// Level returns the content for one cognitive level
func (c PebbleContent) Level(level CognitiveLevel) (LevelContent, bool) {
	lc, ok := c.levels[level]
	return lc, ok
}

// LevelMap returns a copy of all level content keyed by level
func (c PebbleContent) LevelMap() map[CognitiveLevel]LevelContent {
	out := make(map[CognitiveLevel]LevelContent, len(c.levels))
	for level, lc := range c.levels {
		out[level] = lc
	}
	return out
}

// SocraticQuestions returns the follow-up questions for the topic
func (c PebbleContent) SocraticQuestions() []string {
	out := make([]string, len(c.socraticQuestions))
	copy(out, c.socraticQuestions)
	return out
}

// IsEmpty checks if the content carries no levels at all
func (c PebbleContent) IsEmpty() bool {
	for _, lc := range c.levels {
		if !lc.IsEmpty() {
			return false
		}
	}
	return true
}
