package ports

import (
	"context"

	"github.com/intelliview/intelliview-cli/internal/domain"
)

// TurnRequest carries one interview call. The backend is stateless: Messages
// holds the full ordered history including the leading system-style
// instruction, and Ts is the session's fixed grouping timestamp, not a
// per-message clock.
type TurnRequest struct {
	SessionID  string
	Ts         int64
	UserID     string
	Category   domain.Category
	Difficulty domain.Difficulty
	Messages   []domain.Message
}

// ReviewRecord is the authoritative transcript of a past session plus the
// feedback report when one was generated.
type ReviewRecord struct {
	Messages []domain.Message
	Feedback *domain.FeedbackReport
}

// BackendGateway is the single choke point for all outbound interview,
// feedback, review, skills, and session-listing calls. Implementations
// normalize transport failures into domain.ErrBackendCall.
type BackendGateway interface {
	SendTurn(ctx context.Context, req TurnRequest) (domain.Message, error)
	SubmitFeedback(ctx context.Context, sessionID string, ts int64, messages []domain.Message) error
	FetchReview(ctx context.Context, sessionID string) (ReviewRecord, error)
	FetchSkills(ctx context.Context, userID string) (domain.SkillsReport, error)
	ListSessions(ctx context.Context, userID string) ([]domain.SessionSummary, error)
}
