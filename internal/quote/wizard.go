package quote

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cleanclear-sd/lead-api/internal/catalog"
	"github.com/google/uuid"
)

// SubmissionStatus is the outcome of the wizard's final step.
type SubmissionStatus string

const (
	StatusIdle    SubmissionStatus = "idle"
	StatusSending SubmissionStatus = "sending"
	StatusSent    SubmissionStatus = "sent"
	StatusError   SubmissionStatus = "error"
)

var (
	ErrNotLastStep          = errors.New("submit is only available on the last step")
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrAlreadySubmitted     = errors.New("quote request already submitted")
	ErrNotSubmitted         = errors.New("restart is only available after a successful submission")
	ErrSubmissionFailed     = errors.New("failed to submit quote request")
)

// Gateway persists a completed draft as a lead.
type Gateway interface {
	SubmitLead(ctx context.Context, draft Draft) (uuid.UUID, error)
}

// State is a point-in-time view of a wizard.
type State struct {
	Step            int              `json:"step"`
	StepTitle       string           `json:"stepTitle"`
	TotalSteps      int              `json:"totalSteps"`
	Status          SubmissionStatus `json:"status"`
	ValidationError string           `json:"validationError,omitempty"`
	Draft           Draft            `json:"draft"`
	LeadID          *uuid.UUID       `json:"leadId,omitempty"`
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithOnSuccess registers a callback fired after a successful submission.
func WithOnSuccess(fn func(leadID uuid.UUID)) Option {
	return func(w *Wizard) {
		w.onSuccess = fn
	}
}

// Wizard drives step navigation, validation and submission for one quote
// request. It is safe for concurrent use.
type Wizard struct {
	mu        sync.Mutex
	gateway   Gateway
	store     *Store
	step      int
	status    SubmissionStatus
	leadID    *uuid.UUID
	onSuccess func(leadID uuid.UUID)
}

// NewWizard returns a wizard on the first step with an empty draft.
func NewWizard(gateway Gateway, opts ...Option) *Wizard {
	w := &Wizard{
		gateway: gateway,
		store:   NewStore(),
		status:  StatusIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns a snapshot of the wizard.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Wizard) stateLocked() State {
	s := State{
		Step:            w.step,
		StepTitle:       stepTitle(w.step),
		TotalSteps:      TotalSteps,
		Status:          w.status,
		ValidationError: w.store.ValidationError(),
		Draft:           w.store.Draft(),
	}
	if w.leadID != nil {
		id := *w.leadID
		s.LeadID = &id
	}
	return s
}

// Update merges a partial draft and clears the validation error.
func (w *Wizard) Update(p Patch) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.store.Update(p)
}

// Next validates the current step against the latest draft. On success it
// advances unless already on the last step.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.lockedByStatus(); err != nil {
		return err
	}
	if err := Validate(w.step, w.store.draft); err != nil {
		w.store.setValidationError(err.Error())
		return err
	}
	if w.step < TotalSteps-1 {
		w.step++
	}
	w.store.setValidationError("")
	return nil
}

// Back moves to the previous step without validating.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.lockedByStatus(); err != nil {
		return err
	}
	if w.step > 0 {
		w.step--
	}
	w.store.setValidationError("")
	return nil
}

// Submit re-validates the last step and hands the draft to the gateway. A
// failed submission leaves the draft intact; calling Submit again retries.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if err := w.lockedByStatus(); err != nil {
		w.mu.Unlock()
		return err
	}
	if w.step != TotalSteps-1 {
		w.mu.Unlock()
		return ErrNotLastStep
	}
	if err := Validate(w.step, w.store.draft); err != nil {
		w.store.setValidationError(err.Error())
		w.mu.Unlock()
		return err
	}
	w.status = StatusSending
	draft := w.store.Draft()
	w.mu.Unlock()

	leadID, err := w.gateway.SubmitLead(ctx, draft)

	w.mu.Lock()
	if err != nil {
		w.status = StatusError
		w.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	w.status = StatusSent
	w.leadID = &leadID
	onSuccess := w.onSuccess
	w.mu.Unlock()

	if onSuccess != nil {
		onSuccess(leadID)
	}
	return nil
}

// Restart clears the draft and returns to the first step after a successful
// submission.
func (w *Wizard) Restart() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status != StatusSent {
		return ErrNotSubmitted
	}
	w.store.Reset()
	w.step = 0
	w.status = StatusIdle
	w.leadID = nil
	return nil
}

// Reset discards the draft regardless of state, as when the host dialog is
// dismissed.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.store.Reset()
	w.step = 0
	w.status = StatusIdle
	w.leadID = nil
}

func (w *Wizard) lockedByStatus() error {
	switch w.status {
	case StatusSending:
		return ErrSubmissionInProgress
	case StatusSent:
		return ErrAlreadySubmitted
	}
	return nil
}

func stepTitle(step int) string {
	if step < 0 || step >= len(catalog.StepTitles) {
		return ""
	}
	return catalog.StepTitles[step]
}
