// Package content holds the learning catalog and the grade eligibility rules
// that decide which lessons and games a learner may see.
package content

import "strings"

// Difficulty is a normalised difficulty label. The seed data mixes two
// vocabularies (beginner/intermediate/advanced and easy/medium/hard).
type Difficulty string

const (
	DifficultyNone         Difficulty = ""
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyEasy         Difficulty = "easy"
	DifficultyMedium       Difficulty = "medium"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyHard         Difficulty = "hard"
	DifficultyAdvanced     Difficulty = "advanced"
)

// NormalizeDifficulty trims and lower-cases a raw difficulty label.
func NormalizeDifficulty(s string) Difficulty {
	return Difficulty(strings.ToLower(strings.TrimSpace(s)))
}

// Item is a single catalog entry: a lesson or a mini-game.
type Item struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Description   string     `json:"description,omitempty" yaml:"description"`
	Subject       string     `json:"subject,omitempty" yaml:"subject"`
	GameType      string     `json:"gameType,omitempty" yaml:"gameType"`
	Difficulty    Difficulty `json:"difficulty,omitempty" yaml:"difficulty"`
	GradeLevel    Grade      `json:"gradeLevel,omitempty" yaml:"gradeLevel"`
	AgeGroup      string     `json:"ageGroup,omitempty" yaml:"ageGroup"`
	PointsReward  int        `json:"pointsReward,omitempty" yaml:"pointsReward"`
	EstimatedTime int        `json:"estimatedTime,omitempty" yaml:"estimatedTime"` // minutes
}

// Graded reports whether the item declares a grade level.
func (it Item) Graded() bool {
	return it.GradeLevel.Known()
}

// Ungated reports whether the item carries neither a grade nor a difficulty.
// Ungated content is appropriate for every learner.
func (it Item) Ungated() bool {
	return !it.Graded() && it.Difficulty == DifficultyNone
}

// Learner is the subset of a user profile the catalog cares about.
type Learner struct {
	ID       string `json:"id"`
	Grade    Grade  `json:"grade"`
	AgeGroup string `json:"ageGroup,omitempty"`
}
