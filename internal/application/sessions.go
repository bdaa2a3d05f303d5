package application

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

// SessionsService serves the listing, review, and skills views. Listing
// rows are collapsed to the latest row per session before callers see them.
type SessionsService struct {
	gateway ports.BackendGateway
	archive ports.TranscriptArchive
	logger  zerolog.Logger
}

func NewSessionsService(gateway ports.BackendGateway, archive ports.TranscriptArchive, logger zerolog.Logger) *SessionsService {
	return &SessionsService{gateway: gateway, archive: archive, logger: logger}
}

// List fetches the user's raw session rows and collapses duplicates,
// keeping the highest-ts row per session id, newest first.
func (s *SessionsService) List(ctx context.Context, userID string) ([]domain.SessionSummary, error) {
	rows, err := s.gateway.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	return domain.LatestSummaries(rows), nil
}

// Review fetches the authoritative transcript for a session. When the
// backend call fails and a local archived copy exists, the copy is served
// instead.
func (s *SessionsService) Review(ctx context.Context, sessionID string) (ports.ReviewRecord, error) {
	if strings.TrimSpace(sessionID) == "" {
		return ports.ReviewRecord{}, domain.ErrMissingSessionID
	}

	record, err := s.gateway.FetchReview(ctx, sessionID)
	if err == nil {
		return record, nil
	}

	if s.archive != nil {
		transcript, archiveErr := s.archive.GetBySession(ctx, sessionID)
		if archiveErr == nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("serving review from local archive")
			return ports.ReviewRecord{Messages: transcript.Messages, Feedback: transcript.Feedback}, nil
		}
	}

	return ports.ReviewRecord{}, err
}

// Skills fetches the per-user feedback aggregation.
func (s *SessionsService) Skills(ctx context.Context, userID string) (domain.SkillsReport, error) {
	return s.gateway.FetchSkills(ctx, userID)
}

// Archive stores a best-effort local copy of a finished session. Failures
// are logged, never propagated: the backend remains the system of record.
func (s *SessionsService) Archive(ctx context.Context, transcript ports.Transcript) {
	if s.archive == nil {
		return
	}

	if err := s.archive.Save(ctx, transcript); err != nil {
		s.logger.Warn().Err(err).
			Str("session_id", transcript.Session.SessionID).
			Msg("archive transcript failed")
	}
}
