package application

import (
	"context"
	"sync"
	"time"

	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

type memSecretStore struct {
	mu      sync.Mutex
	values  map[string]string
	getErr  error
	putErr  error
	deleted int
}

func newMemSecretStore() *memSecretStore {
	return &memSecretStore{values: map[string]string{}}
}

func (s *memSecretStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return "", s.getErr
	}
	value, ok := s.values[key]
	if !ok {
		return "", domain.ErrSecretNotFound
	}
	return value, nil
}

func (s *memSecretStore) Put(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.putErr != nil {
		return s.putErr
	}
	s.values[key] = value
	return nil
}

func (s *memSecretStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted++
	delete(s.values, key)
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeProvider struct {
	loginURL    string
	logoutURL   string
	bundle      domain.TokenBundle
	exchangeErr error
	exchanged   []string
}

var _ ports.IdentityProvider = (*fakeProvider)(nil)

func (p *fakeProvider) LoginURL() (string, error)  { return p.loginURL, nil }
func (p *fakeProvider) LogoutURL() (string, error) { return p.logoutURL, nil }

func (p *fakeProvider) ExchangeCode(_ context.Context, code string) (domain.TokenBundle, error) {
	p.exchanged = append(p.exchanged, code)
	if p.exchangeErr != nil {
		return domain.TokenBundle{}, p.exchangeErr
	}
	return p.bundle, nil
}

// scriptedGateway records turn requests and replies from a queue. A non-nil
// gate channel blocks SendTurn until released, to exercise the single
// in-flight call guarantee.
type scriptedGateway struct {
	mu           sync.Mutex
	turns        []ports.TurnRequest
	replies      []string
	turnErr      error
	gate         chan struct{}
	feedback     []string
	feedbackErr  error
	listRows     []domain.SessionSummary
	listErr      error
	review       ports.ReviewRecord
	reviewErr    error
	skillsReport domain.SkillsReport
	skillsErr    error
}

var _ ports.BackendGateway = (*scriptedGateway)(nil)

func (g *scriptedGateway) SendTurn(_ context.Context, req ports.TurnRequest) (domain.Message, error) {
	g.mu.Lock()
	g.turns = append(g.turns, req)
	gate := g.gate
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.turnErr != nil {
		return domain.Message{}, g.turnErr
	}

	reply := "ok"
	if len(g.replies) > 0 {
		reply = g.replies[0]
		g.replies = g.replies[1:]
	}
	return domain.Message{Role: domain.RoleAssistant, Content: reply}, nil
}

func (g *scriptedGateway) SubmitFeedback(_ context.Context, sessionID string, _ int64, _ []domain.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.feedback = append(g.feedback, sessionID)
	return g.feedbackErr
}

func (g *scriptedGateway) FetchReview(_ context.Context, _ string) (ports.ReviewRecord, error) {
	return g.review, g.reviewErr
}

func (g *scriptedGateway) FetchSkills(_ context.Context, _ string) (domain.SkillsReport, error) {
	return g.skillsReport, g.skillsErr
}

func (g *scriptedGateway) ListSessions(_ context.Context, _ string) ([]domain.SessionSummary, error) {
	return g.listRows, g.listErr
}

type memArchive struct {
	mu    sync.Mutex
	saved map[string]ports.Transcript
}

func newMemArchive() *memArchive {
	return &memArchive{saved: map[string]ports.Transcript{}}
}

func (a *memArchive) Save(_ context.Context, transcript ports.Transcript) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved[transcript.Session.SessionID] = transcript
	return nil
}

func (a *memArchive) GetBySession(_ context.Context, sessionID string) (ports.Transcript, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	transcript, ok := a.saved[sessionID]
	if !ok {
		return ports.Transcript{}, domain.ErrTranscriptNotFound
	}
	return transcript, nil
}

func (a *memArchive) List(_ context.Context) ([]ports.Transcript, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	transcripts := make([]ports.Transcript, 0, len(a.saved))
	for _, transcript := range a.saved {
		transcripts = append(transcripts, transcript)
	}
	return transcripts, nil
}
