package ports

import (
	"context"

	"github.com/intelliview/intelliview-cli/internal/domain"
)

// Transcript is a locally archived copy of a finished session. The backend
// stays the system of record; the archive is a best-effort offline fallback.
type Transcript struct {
	Session  domain.InterviewSession
	Messages []domain.Message
	Feedback *domain.FeedbackReport
}

type TranscriptArchive interface {
	Save(ctx context.Context, transcript Transcript) error
	GetBySession(ctx context.Context, sessionID string) (Transcript, error)
	List(ctx context.Context) ([]Transcript, error)
}
