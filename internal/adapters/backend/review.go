package backend

import (
	"encoding/json"
	"fmt"

	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

type reviewResponse struct {
	Messages []json.RawMessage `json:"messages"`
}

type reviewSnapshot struct {
	Ts       int64                  `json:"ts"`
	Messages []domain.Message       `json:"messages"`
	Feedback *domain.FeedbackReport `json:"feedback"`
}

// parseReview accepts both review shapes the backend emits: a flat message
// list, or a list of per-turn snapshots each carrying its own messages and
// optional feedback. With snapshots, the latest one is authoritative.
func parseReview(body []byte) (ports.ReviewRecord, error) {
	var resp reviewResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ports.ReviewRecord{}, fmt.Errorf("decode review response: %w", err)
	}

	var (
		flat     []domain.Message
		latest   *reviewSnapshot
		latestTs int64 = -1
	)
	for _, raw := range resp.Messages {
		var snapshot reviewSnapshot
		if err := json.Unmarshal(raw, &snapshot); err == nil && len(snapshot.Messages) > 0 {
			if snapshot.Ts >= latestTs {
				latestTs = snapshot.Ts
				copied := snapshot
				latest = &copied
			}
			continue
		}

		var message domain.Message
		if err := json.Unmarshal(raw, &message); err != nil {
			return ports.ReviewRecord{}, fmt.Errorf("decode review entry: %w", err)
		}
		flat = append(flat, message)
	}

	if latest != nil {
		return ports.ReviewRecord{Messages: latest.Messages, Feedback: latest.Feedback}, nil
	}

	return ports.ReviewRecord{Messages: flat}, nil
}
