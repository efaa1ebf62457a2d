package service

import (
	"context"
	"sync"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/google/uuid"
)

// BoardView is a locally held kanban view over the lead pipeline. Move
// applies the new status to the local copy before the store confirms it and
// keeps it even when the store rejects the write; Reconcile reloads the view
// from the store.
type BoardView struct {
	mu     sync.Mutex
	svc    *LeadService
	search string
	leads  []domain.LeadDTO
}

// NewBoardView loads a board view filtered by search
func NewBoardView(ctx context.Context, svc *LeadService, search string) (*BoardView, error) {
	b := &BoardView{svc: svc, search: search}
	if err := b.Reconcile(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Columns returns the current local columns
func (b *BoardView) Columns() []domain.BoardColumn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return buildColumns(b.leads)
}

// Move drags a lead into another column. Dropping a lead on its own column
// or an unknown lead does nothing.
func (b *BoardView) Move(ctx context.Context, id uuid.UUID, status domain.LeadStatus) error {
	if !status.IsValid() {
		return ErrInvalidLeadStatus
	}

	b.mu.Lock()
	idx := -1
	for i := range b.leads {
		if b.leads[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || !b.leads[idx].Status.CanTransitionTo(status) {
		b.mu.Unlock()
		return nil
	}
	b.leads[idx].Status = status
	b.leads[idx].StatusLabel = status.Label()
	b.mu.Unlock()

	_, err := b.svc.SetStatus(ctx, id, status, "")
	return err
}

// Reconcile replaces the local view with the store's current state
func (b *BoardView) Reconcile(ctx context.Context) error {
	columns, err := b.svc.Board(ctx, b.search)
	if err != nil {
		return err
	}

	var leads []domain.LeadDTO
	for _, c := range columns {
		leads = append(leads, c.Leads...)
	}

	b.mu.Lock()
	b.leads = leads
	b.mu.Unlock()
	return nil
}
