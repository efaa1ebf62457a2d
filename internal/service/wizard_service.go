package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/quote"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WizardSessionView is a wizard state addressed by session id
type WizardSessionView struct {
	ID        uuid.UUID `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
	quote.State
}

type wizardSession struct {
	wizard   *quote.Wizard
	lastSeen time.Time
}

// WizardService hosts quote wizards for clients that keep no state of their
// own. Sessions live in memory and expire after a period of inactivity.
type WizardService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*wizardSession
	gateway  quote.Gateway
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewWizardService creates a session host submitting through gateway
func NewWizardService(gateway quote.Gateway, ttl time.Duration, logger *zap.Logger) *WizardService {
	return &WizardService{
		sessions: make(map[uuid.UUID]*wizardSession),
		gateway:  gateway,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Create starts a new session on the first step
func (s *WizardService) Create() WizardSessionView {
	id := uuid.New()
	sess := &wizardSession{
		wizard:   quote.NewWizard(s.gateway),
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return s.view(id, sess)
}

// Get returns the session state
func (s *WizardService) Get(id uuid.UUID) (WizardSessionView, error) {
	sess, err := s.touch(id)
	if err != nil {
		return WizardSessionView{}, err
	}
	return s.view(id, sess), nil
}

// Update merges a partial draft
func (s *WizardService) Update(id uuid.UUID, patch quote.Patch) (WizardSessionView, error) {
	sess, err := s.touch(id)
	if err != nil {
		return WizardSessionView{}, err
	}
	sess.wizard.Update(patch)
	return s.view(id, sess), nil
}

// Next validates the current step and advances. A step validation failure is
// reported in the returned view, not as an error.
func (s *WizardService) Next(id uuid.UUID) (WizardSessionView, error) {
	return s.step(id, (*quote.Wizard).Next)
}

// Back returns to the previous step
func (s *WizardService) Back(id uuid.UUID) (WizardSessionView, error) {
	return s.step(id, (*quote.Wizard).Back)
}

// Restart clears a submitted session back to the first step
func (s *WizardService) Restart(id uuid.UUID) (WizardSessionView, error) {
	return s.step(id, (*quote.Wizard).Restart)
}

// Submit hands the draft to the gateway. Gateway failures leave the session in
// the error state and are reported in the view; calling Submit again retries.
// The gateway call is detached from ctx cancellation so a client that drops
// mid-request does not lose the lead.
func (s *WizardService) Submit(ctx context.Context, id uuid.UUID) (WizardSessionView, error) {
	sess, err := s.touch(id)
	if err != nil {
		return WizardSessionView{}, err
	}
	if err := sess.wizard.Submit(context.WithoutCancel(ctx)); err != nil {
		if !isWizardOutcome(err) {
			return s.view(id, sess), err
		}
		s.logger.Info("quote session submission did not complete",
			zap.String("session_id", id.String()),
			zap.Error(err))
	}
	return s.view(id, sess), nil
}

func (s *WizardService) step(id uuid.UUID, fn func(*quote.Wizard) error) (WizardSessionView, error) {
	sess, err := s.touch(id)
	if err != nil {
		return WizardSessionView{}, err
	}
	if err := fn(sess.wizard); err != nil && !isWizardOutcome(err) {
		return s.view(id, sess), err
	}
	return s.view(id, sess), nil
}

// isWizardOutcome reports errors that are carried in the wizard state
func isWizardOutcome(err error) bool {
	var verr *quote.ValidationError
	return errors.As(err, &verr) || errors.Is(err, quote.ErrSubmissionFailed)
}

// Delete drops a session
func (s *WizardService) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed
func (s *WizardService) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions
func (s *WizardService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *WizardService) touch(id uuid.UUID) (*wizardSession, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrWizardSessionNotFound
	}
	if now.Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, ErrWizardSessionNotFound
	}
	sess.lastSeen = now
	return sess, nil
}

func (s *WizardService) view(id uuid.UUID, sess *wizardSession) WizardSessionView {
	s.mu.Lock()
	expires := sess.lastSeen.Add(s.ttl)
	s.mu.Unlock()
	return WizardSessionView{
		ID:        id,
		ExpiresAt: expires,
		State:     sess.wizard.State(),
	}
}
