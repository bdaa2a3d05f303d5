package domain

import (
	"encoding/json"
	"fmt"
)

// FeedbackReport is produced by the backend and read-only to this client.
type FeedbackReport struct {
	Summary     string         `json:"summary"`
	Ratings     map[string]int `json:"ratings"`
	Strengths   []string       `json:"strengths"`
	Weaknesses  []string       `json:"weaknesses"`
	Suggestions []string       `json:"suggestions"`
}

// SkillCount is one top-strength or top-weakness entry. The backend encodes
// it as a two-element ["name", count] JSON array.
type SkillCount struct {
	Name  string
	Count float64
}

func (s *SkillCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode skill entry: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("skill entry has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &s.Name); err != nil {
		return fmt.Errorf("decode skill name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &s.Count); err != nil {
		return fmt.Errorf("decode skill count: %w", err)
	}
	return nil
}

func (s SkillCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Name, s.Count})
}

// SkillsReport aggregates feedback ratings across a user's sessions.
type SkillsReport struct {
	SessionsAnalyzed int                `json:"sessionsAnalyzed"`
	AvgRatings       map[string]float64 `json:"avgRatings"`
	TopStrengths     []SkillCount       `json:"topStrengths"`
	TopWeaknesses    []SkillCount       `json:"topWeaknesses"`
}
