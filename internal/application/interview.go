package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

// Phase is the orchestrator state. AwaitingReply is not a named phase: it is
// the window where an in-flight backend call exists, tracked separately so a
// second Send can be rejected instead of interleaved.
type Phase string

const (
	PhaseConfiguring Phase = "configuring"
	PhaseActive      Phase = "active"
	PhaseEnded       Phase = "ended"
	PhaseReviewed    Phase = "reviewed"
)

const (
	startFailedMessage = "Failed to start interview."
	turnFailedMessage  = "Error during interview."
)

// Interview sequences one interview session against the stateless backend.
// The visible message log is the sole client-side source of truth for the
// current session; the backend receives the full ordered history, prefixed
// with the system instruction, on every call.
//
// Policy note: a session ends after exactly one completed user turn. Send
// transitions Active to Ended on success. Preserved as-is pending product
// confirmation; do not generalize to multi-turn looping.
type Interview struct {
	gateway ports.BackendGateway
	userID  func(ctx context.Context) string
	clock   ports.Clock
	logger  zerolog.Logger

	mu              sync.Mutex
	sessionID       string
	phase           Phase
	category        domain.Category
	difficulty      domain.Difficulty
	feedbackEnabled bool
	ts              int64
	messages        []domain.Message
	inFlight        bool
}

// NewInterview creates an orchestrator with a fresh session identifier. The
// identifier is stable for the lifetime of the instance; a new instance is a
// new session.
func NewInterview(gateway ports.BackendGateway, userID func(ctx context.Context) string, clock ports.Clock, logger zerolog.Logger) *Interview {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if userID == nil {
		userID = func(context.Context) string { return domain.AnonymousSubject }
	}

	return &Interview{
		gateway:   gateway,
		userID:    userID,
		clock:     clock,
		logger:    logger,
		sessionID: uuid.NewString(),
		phase:     PhaseConfiguring,
	}
}

// Configure records category, difficulty, and the feedback toggle. Valid
// only before Start.
func (iv *Interview) Configure(category domain.Category, difficulty domain.Difficulty, feedbackEnabled bool) error {
	iv.mu.Lock()
	defer iv.mu.Unlock()

	if iv.phase != PhaseConfiguring {
		return domain.ErrAlreadyStarted
	}

	iv.category = category
	iv.difficulty = difficulty
	iv.feedbackEnabled = feedbackEnabled
	return nil
}

// Ready reports whether both enum choices have been made. Start is not
// permitted until Ready returns true.
func (iv *Interview) Ready() bool {
	iv.mu.Lock()
	defer iv.mu.Unlock()

	return iv.category.Valid() && iv.difficulty.Valid()
}

// Start transitions Configuring to Active, captures the session timestamp,
// and asks the backend for the opening question by sending the system-style
// instruction as the sole history entry. A backend failure is rendered as a
// synthetic assistant message and the session stays Active so the user can
// retry by answering.
func (iv *Interview) Start(ctx context.Context) error {
	iv.mu.Lock()
	if iv.phase != PhaseConfiguring {
		iv.mu.Unlock()
		return domain.ErrAlreadyStarted
	}
	if !iv.category.Valid() || !iv.difficulty.Valid() {
		iv.mu.Unlock()
		return domain.ErrNotConfigured
	}
	if iv.inFlight {
		iv.mu.Unlock()
		return domain.ErrReplyPending
	}

	iv.phase = PhaseActive
	iv.ts = iv.clock.Now().Unix()
	iv.inFlight = true
	req := iv.turnRequestLocked([]domain.Message{iv.systemInstructionLocked()})
	iv.mu.Unlock()

	req.UserID = iv.userID(ctx)
	reply, err := iv.gateway.SendTurn(ctx, req)

	iv.mu.Lock()
	defer iv.mu.Unlock()
	iv.inFlight = false

	if err != nil {
		iv.logger.Error().Err(err).Str("session_id", iv.sessionID).Msg("interview start failed")
		iv.messages = append(iv.messages, domain.Message{Role: domain.RoleAssistant, Content: startFailedMessage})
		return nil
	}

	iv.messages = append(iv.messages, reply)
	return nil
}

// Send submits one user answer with the full reconstructed history. Empty
// input after trimming is a no-op. On success the session transitions to
// Ended; on failure a synthetic assistant message is appended and the
// session stays Active for retry.
func (iv *Interview) Send(ctx context.Context, userText string) error {
	text := strings.TrimSpace(userText)
	if text == "" {
		return nil
	}

	iv.mu.Lock()
	if iv.phase != PhaseActive {
		iv.mu.Unlock()
		return domain.ErrNotActive
	}
	if iv.inFlight {
		iv.mu.Unlock()
		return domain.ErrReplyPending
	}

	iv.messages = append(iv.messages, domain.Message{Role: domain.RoleUser, Content: text})
	iv.inFlight = true

	history := make([]domain.Message, 0, len(iv.messages)+1)
	history = append(history, iv.systemInstructionLocked())
	history = append(history, iv.messages...)
	req := iv.turnRequestLocked(history)
	iv.mu.Unlock()

	req.UserID = iv.userID(ctx)
	reply, err := iv.gateway.SendTurn(ctx, req)

	iv.mu.Lock()
	defer iv.mu.Unlock()
	iv.inFlight = false

	if err != nil {
		iv.logger.Error().Err(err).Str("session_id", iv.sessionID).Msg("interview turn failed")
		iv.messages = append(iv.messages, domain.Message{Role: domain.RoleAssistant, Content: turnFailedMessage})
		return nil
	}

	iv.messages = append(iv.messages, reply)
	iv.phase = PhaseEnded
	return nil
}

// RequestFeedback submits the transcript for feedback generation when the
// toggle is on. Feedback is best-effort: failures are logged and swallowed
// so they can never block Finish.
func (iv *Interview) RequestFeedback(ctx context.Context) error {
	iv.mu.Lock()
	if iv.phase != PhaseEnded {
		iv.mu.Unlock()
		return domain.ErrNotEnded
	}
	enabled := iv.feedbackEnabled
	sessionID := iv.sessionID
	ts := iv.ts
	messages := append([]domain.Message(nil), iv.messages...)
	iv.mu.Unlock()

	if !enabled {
		return nil
	}

	if err := iv.gateway.SubmitFeedback(ctx, sessionID, ts, messages); err != nil {
		iv.logger.Warn().Err(err).Str("session_id", sessionID).Msg("feedback submission failed")
	}

	return nil
}

// Finish transitions Ended to Reviewed and returns the session identifier
// the review view is keyed by.
func (iv *Interview) Finish() (string, error) {
	iv.mu.Lock()
	defer iv.mu.Unlock()

	if iv.phase != PhaseEnded {
		return "", domain.ErrNotEnded
	}

	iv.phase = PhaseReviewed
	return iv.sessionID, nil
}

func (iv *Interview) Phase() Phase {
	iv.mu.Lock()
	defer iv.mu.Unlock()

	return iv.phase
}

func (iv *Interview) SessionID() string {
	return iv.sessionID
}

// Messages returns a copy of the visible log. The system instruction is
// never part of it; it is only sent to the backend.
func (iv *Interview) Messages() []domain.Message {
	iv.mu.Lock()
	defer iv.mu.Unlock()

	return append([]domain.Message(nil), iv.messages...)
}

// Session snapshots the immutable session record, for archival.
func (iv *Interview) Session() domain.InterviewSession {
	iv.mu.Lock()
	defer iv.mu.Unlock()

	return domain.InterviewSession{
		SessionID:       iv.sessionID,
		Category:        iv.category,
		Difficulty:      iv.difficulty,
		StartedAt:       timeUnixOrZero(iv.ts),
		FeedbackEnabled: iv.feedbackEnabled,
	}
}

func timeUnixOrZero(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

func (iv *Interview) systemInstructionLocked() domain.Message {
	content := fmt.Sprintf(
		"You are an expert interviewer conducting a %s-level %s interview. Ask only one question at a time, never give hints or answers.",
		strings.ToLower(string(iv.difficulty)), iv.category,
	)
	return domain.Message{Role: domain.RoleUser, Content: content}
}

func (iv *Interview) turnRequestLocked(history []domain.Message) ports.TurnRequest {
	return ports.TurnRequest{
		SessionID:  iv.sessionID,
		Ts:         iv.ts,
		Category:   iv.category,
		Difficulty: iv.difficulty,
		Messages:   history,
	}
}
