// Package backend implements the HTTP gateway to the interview service. It
// is the only place outbound interview, feedback, review, skills, and
// session-listing calls are made, and it folds every transport failure into
// domain.ErrBackendCall.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

const maxResponseBytes = 4 << 20

// Config carries the four endpoint bases. InterviewEndpoint and
// ListSessionsEndpoint are full URLs; BaseEndpoint is the prefix for
// /feedback, /review, and /skills.
type Config struct {
	InterviewEndpoint    string
	BaseEndpoint         string
	ListSessionsEndpoint string
}

type Gateway struct {
	cfg    Config
	client *http.Client
}

var _ ports.BackendGateway = (*Gateway)(nil)

func NewGateway(cfg Config, client *http.Client) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}

	return &Gateway{cfg: cfg, client: client}
}

type turnPayload struct {
	SessionID  string            `json:"sessionId"`
	Ts         int64             `json:"ts"`
	UserID     string            `json:"userId"`
	Category   domain.Category   `json:"category"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Messages   []domain.Message  `json:"messages"`
}

type turnReply struct {
	Message string `json:"message"`
}

func (g *Gateway) SendTurn(ctx context.Context, req ports.TurnRequest) (domain.Message, error) {
	if g.cfg.InterviewEndpoint == "" {
		return domain.Message{}, fmt.Errorf("%w: interview endpoint", domain.ErrMissingEndpoint)
	}

	body, err := g.postJSON(ctx, g.cfg.InterviewEndpoint, turnPayload{
		SessionID:  req.SessionID,
		Ts:         req.Ts,
		UserID:     req.UserID,
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Messages:   req.Messages,
	})
	if err != nil {
		return domain.Message{}, err
	}

	var reply turnReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return domain.Message{}, fmt.Errorf("%w: decode turn reply: %w", domain.ErrBackendCall, err)
	}

	return domain.Message{Role: domain.RoleAssistant, Content: reply.Message}, nil
}

type feedbackPayload struct {
	SessionID string           `json:"sessionId"`
	Ts        int64            `json:"ts"`
	Messages  []domain.Message `json:"messages"`
}

// SubmitFeedback posts the transcript for feedback generation. The response
// body is ignored beyond success or failure.
func (g *Gateway) SubmitFeedback(ctx context.Context, sessionID string, ts int64, messages []domain.Message) error {
	if g.cfg.BaseEndpoint == "" {
		return fmt.Errorf("%w: base endpoint", domain.ErrMissingEndpoint)
	}

	_, err := g.postJSON(ctx, joinEndpoint(g.cfg.BaseEndpoint, "/feedback"), feedbackPayload{
		SessionID: sessionID,
		Ts:        ts,
		Messages:  messages,
	})
	return err
}

func (g *Gateway) FetchReview(ctx context.Context, sessionID string) (ports.ReviewRecord, error) {
	if g.cfg.BaseEndpoint == "" {
		return ports.ReviewRecord{}, fmt.Errorf("%w: base endpoint", domain.ErrMissingEndpoint)
	}
	if sessionID == "" {
		return ports.ReviewRecord{}, domain.ErrMissingSessionID
	}

	body, err := g.getJSON(ctx, joinEndpoint(g.cfg.BaseEndpoint, "/review"), url.Values{"sessionId": {sessionID}})
	if err != nil {
		return ports.ReviewRecord{}, err
	}

	record, err := parseReview(body)
	if err != nil {
		return ports.ReviewRecord{}, fmt.Errorf("%w: %w", domain.ErrBackendCall, err)
	}

	return record, nil
}

func (g *Gateway) FetchSkills(ctx context.Context, userID string) (domain.SkillsReport, error) {
	if g.cfg.BaseEndpoint == "" {
		return domain.SkillsReport{}, fmt.Errorf("%w: base endpoint", domain.ErrMissingEndpoint)
	}

	body, err := g.getJSON(ctx, joinEndpoint(g.cfg.BaseEndpoint, "/skills"), url.Values{"userId": {userID}})
	if err != nil {
		return domain.SkillsReport{}, err
	}

	var report domain.SkillsReport
	if err := json.Unmarshal(body, &report); err != nil {
		return domain.SkillsReport{}, fmt.Errorf("%w: decode skills report: %w", domain.ErrBackendCall, err)
	}

	return report, nil
}

// ListSessions returns the raw, pre-deduplication rows. Collapsing to one
// row per session is the caller's concern.
func (g *Gateway) ListSessions(ctx context.Context, userID string) ([]domain.SessionSummary, error) {
	if g.cfg.ListSessionsEndpoint == "" {
		return nil, fmt.Errorf("%w: list sessions endpoint", domain.ErrMissingEndpoint)
	}

	body, err := g.getJSON(ctx, g.cfg.ListSessionsEndpoint, url.Values{"userId": {userID}})
	if err != nil {
		return nil, err
	}

	var rows []domain.SessionSummary
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode session rows: %w", domain.ErrBackendCall, err)
	}

	return rows, nil
}

func (g *Gateway) postJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", domain.ErrBackendCall, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrBackendCall, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return g.do(req)
}

func (g *Gateway) getJSON(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if len(query) > 0 {
		separator := "?"
		if strings.Contains(endpoint, "?") {
			separator = "&"
		}
		endpoint = endpoint + separator + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrBackendCall, err)
	}

	return g.do(req)
}

func (g *Gateway) do(req *http.Request) ([]byte, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendCall, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrBackendCall, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s", domain.ErrBackendCall, strings.TrimSpace(string(body)))
	}

	return body, nil
}

func joinEndpoint(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
