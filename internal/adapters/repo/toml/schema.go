package toml

import (
	"fmt"

	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version     int                `toml:"version"`
	Transcripts []transcriptSchema `toml:"transcripts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported transcripts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type transcriptSchema struct {
	SessionID       string          `toml:"session_id"`
	Category        string          `toml:"category"`
	Difficulty      string          `toml:"difficulty"`
	StartedAt       int64           `toml:"started_at"`
	FeedbackEnabled bool            `toml:"feedback_enabled"`
	Messages        []messageSchema `toml:"messages"`
	Feedback        *feedbackSchema `toml:"feedback,omitempty"`
}

type messageSchema struct {
	Role    string `toml:"role"`
	Content string `toml:"content"`
}

type feedbackSchema struct {
	Summary     string         `toml:"summary"`
	Ratings     map[string]int `toml:"ratings,omitempty"`
	Strengths   []string       `toml:"strengths,omitempty"`
	Weaknesses  []string       `toml:"weaknesses,omitempty"`
	Suggestions []string       `toml:"suggestions,omitempty"`
}

func toSchema(transcript ports.Transcript) transcriptSchema {
	encoded := transcriptSchema{
		SessionID:       transcript.Session.SessionID,
		Category:        string(transcript.Session.Category),
		Difficulty:      string(transcript.Session.Difficulty),
		FeedbackEnabled: transcript.Session.FeedbackEnabled,
	}
	if !transcript.Session.StartedAt.IsZero() {
		encoded.StartedAt = transcript.Session.StartedAt.Unix()
	}

	for _, message := range transcript.Messages {
		encoded.Messages = append(encoded.Messages, messageSchema{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}

	if transcript.Feedback != nil {
		encoded.Feedback = &feedbackSchema{
			Summary:     transcript.Feedback.Summary,
			Ratings:     transcript.Feedback.Ratings,
			Strengths:   transcript.Feedback.Strengths,
			Weaknesses:  transcript.Feedback.Weaknesses,
			Suggestions: transcript.Feedback.Suggestions,
		}
	}

	return encoded
}

func fromSchema(encoded transcriptSchema) ports.Transcript {
	transcript := ports.Transcript{
		Session: domain.InterviewSession{
			SessionID:       encoded.SessionID,
			Category:        domain.Category(encoded.Category),
			Difficulty:      domain.Difficulty(encoded.Difficulty),
			StartedAt:       unixOrZero(encoded.StartedAt),
			FeedbackEnabled: encoded.FeedbackEnabled,
		},
	}

	for _, message := range encoded.Messages {
		transcript.Messages = append(transcript.Messages, domain.Message{
			Role:    domain.Role(message.Role),
			Content: message.Content,
		})
	}

	if encoded.Feedback != nil {
		transcript.Feedback = &domain.FeedbackReport{
			Summary:     encoded.Feedback.Summary,
			Ratings:     encoded.Feedback.Ratings,
			Strengths:   encoded.Feedback.Strengths,
			Weaknesses:  encoded.Feedback.Weaknesses,
			Suggestions: encoded.Feedback.Suggestions,
		}
	}

	return transcript
}
