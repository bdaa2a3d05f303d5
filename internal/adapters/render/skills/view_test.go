package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intelliview/intelliview-cli/internal/domain"
)

func TestRenderEmptyReport(t *testing.T) {
	t.Parallel()

	out := Render(domain.SkillsReport{})

	assert.Contains(t, out, "Skills Overview")
	assert.Contains(t, out, "sessions analysed: 0")
	assert.Contains(t, out, "No analysed sessions yet")
}

func TestRenderFullReport(t *testing.T) {
	t.Parallel()

	out := Render(domain.SkillsReport{
		SessionsAnalyzed: 3,
		AvgRatings: map[string]float64{
			"communication":   4.25,
			"problem solving": 3.5,
		},
		TopStrengths:  []domain.SkillCount{{Name: "clear explanations", Count: 3}},
		TopWeaknesses: []domain.SkillCount{{Name: "edge cases", Count: 2}},
	})

	assert.Contains(t, out, "sessions analysed: 3")
	assert.Contains(t, out, "communication")
	assert.Contains(t, out, "4.2")
	assert.Contains(t, out, "top strengths")
	assert.Contains(t, out, "clear explanations")
	assert.Contains(t, out, "top weaknesses")
	assert.Contains(t, out, "edge cases")
}
