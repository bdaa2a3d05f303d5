package domain

import "time"

type Category string

const (
	CategoryBehavioral   Category = "Behavioral"
	CategoryDSA          Category = "DSA"
	CategorySystemDesign Category = "System Design"
	CategoryHR           Category = "HR"
	CategoryProduct      Category = "Product"
)

func Categories() []Category {
	return []Category{CategoryBehavioral, CategoryDSA, CategorySystemDesign, CategoryHR, CategoryProduct}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryBehavioral, CategoryDSA, CategorySystemDesign, CategoryHR, CategoryProduct:
		return true
	default:
		return false
	}
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// InterviewSession is immutable once created; ended/reviewed flags live in
// the orchestrator, not here.
type InterviewSession struct {
	SessionID       string
	Category        Category
	Difficulty      Difficulty
	StartedAt       time.Time
	FeedbackEnabled bool
}
