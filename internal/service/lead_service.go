package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/auth"
	"github.com/cleanclear-sd/lead-api/internal/catalog"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/events"
	"github.com/cleanclear-sd/lead-api/internal/mapper"
	"github.com/cleanclear-sd/lead-api/internal/quote"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200

	dashboardTopServices = 5
	dashboardUpcoming    = 4
	dashboardRecent      = 6
)

// LeadListParams controls the admin lead listing
type LeadListParams struct {
	Status   *domain.LeadStatus
	Search   string
	Page     int
	PageSize int
}

// LeadService owns the lead pipeline: intake of submitted drafts and operator
// status changes.
type LeadService struct {
	leadRepo    *repository.LeadRepository
	historyRepo *repository.LeadStatusHistoryRepository
	publisher   events.Publisher
	logger      *zap.Logger
	db          *gorm.DB
	now         func() time.Time
}

// NewLeadService creates a new LeadService
func NewLeadService(
	leadRepo *repository.LeadRepository,
	historyRepo *repository.LeadStatusHistoryRepository,
	publisher events.Publisher,
	logger *zap.Logger,
	db *gorm.DB,
) *LeadService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &LeadService{
		leadRepo:    leadRepo,
		historyRepo: historyRepo,
		publisher:   publisher,
		logger:      logger,
		db:          db,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SubmitLead persists a completed draft as a new lead. Service ids are stored
// as their display labels and contact fields are trimmed. It satisfies
// quote.Gateway.
func (s *LeadService) SubmitLead(ctx context.Context, draft quote.Draft) (uuid.UUID, error) {
	lead := leadFromDraft(draft)

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		s.logger.Error("failed to insert lead", zap.Error(err))
		return uuid.Nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.logger.Info("lead submitted",
		zap.String("lead_id", lead.ID.String()),
		zap.Strings("services", lead.Services))

	s.publish(ctx, events.Event{
		Kind:       events.KindLeadCreated,
		LeadID:     lead.ID,
		ToStatus:   string(lead.Status),
		Services:   []string(lead.Services),
		OccurredAt: lead.CreatedAt,
	})

	return lead.ID, nil
}

func leadFromDraft(d quote.Draft) *domain.Lead {
	return &domain.Lead{
		Services:           catalog.ServiceLabels(d.Services),
		PropertyType:       d.PropertyType,
		Stories:            d.Stories,
		SquareFootage:      d.SquareFootage,
		SolarPanelCount:    d.SolarPanelCount,
		PropertyNotes:      d.PropertyNotes,
		FirstName:          strings.TrimSpace(d.FirstName),
		LastName:           strings.TrimSpace(d.LastName),
		Phone:              strings.TrimSpace(d.Phone),
		Email:              strings.TrimSpace(d.Email),
		StreetAddress:      d.StreetAddress,
		City:               d.City,
		ZipCode:            d.ZipCode,
		PreferredTimeframe: d.PreferredTimeframe,
		PreferredTime:      d.PreferredTime,
		Notes:              d.Notes,
		Status:             domain.LeadStatusNew,
	}
}

// DraftFromRequest converts the public submission payload into a draft
func DraftFromRequest(req *domain.SubmitQuoteRequest) quote.Draft {
	return quote.Draft{
		Services:           slices.Clone(req.Services),
		PropertyType:       req.PropertyType,
		Stories:            req.Stories,
		SquareFootage:      req.SquareFootage,
		SolarPanelCount:    req.SolarPanelCount,
		PropertyNotes:      req.PropertyNotes,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Phone:              req.Phone,
		Email:              req.Email,
		StreetAddress:      req.StreetAddress,
		City:               req.City,
		ZipCode:            req.ZipCode,
		PreferredTimeframe: req.PreferredTimeframe,
		PreferredTime:      req.PreferredTime,
		Notes:              req.Notes,
	}
}

// SubmitQuote validates every wizard step in order and submits the draft in
// one call. A failing step is returned as *quote.ValidationError.
func (s *LeadService) SubmitQuote(ctx context.Context, req *domain.SubmitQuoteRequest) (*domain.LeadDTO, error) {
	draft := DraftFromRequest(req)
	if err := quote.ValidateAll(draft); err != nil {
		return nil, err
	}

	id, err := s.SubmitLead(ctx, draft)
	if err != nil {
		return nil, err
	}

	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload lead: %w", err)
	}
	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// GetByID returns a lead with its status history
func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadDetailDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	history, err := s.historyRepo.GetByLeadID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead history: %w", err)
	}

	detail := &domain.LeadDetailDTO{
		LeadDTO: mapper.ToLeadDTO(lead),
		History: make([]domain.LeadStatusHistoryDTO, len(history)),
	}
	for i := range history {
		detail.History[i] = mapper.ToLeadStatusHistoryDTO(&history[i])
	}
	return detail, nil
}

// List returns a page of leads, newest first, with per-status counts. Search
// is applied after the status filter.
func (s *LeadService) List(ctx context.Context, params LeadListParams) (*domain.LeadListResponse, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, ErrInvalidLeadStatus
	}

	leads, err := s.leadRepo.List(ctx, &repository.LeadFilters{Status: params.Status})
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	leads = FilterLeads(leads, params.Search)

	counts, err := s.leadRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	page, pageSize := normalizePagination(params.Page, params.PageSize)
	total := len(leads)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	return &domain.LeadListResponse{
		PaginatedResponse: domain.PaginatedResponse{
			Data:       mapper.ToLeadDTOs(leads[start:end]),
			Total:      int64(total),
			Page:       page,
			PageSize:   pageSize,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
		Counts: statusCounts(counts),
	}, nil
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func statusCounts(counts map[domain.LeadStatus]int64) []domain.StatusCount {
	out := make([]domain.StatusCount, len(domain.LeadStatuses))
	for i, st := range domain.LeadStatuses {
		out[i] = domain.StatusCount{Status: st, Label: st.Label(), Count: counts[st]}
	}
	return out
}

// FilterLeads keeps leads matching the search query. Names, email and service
// labels match case-insensitively; phone numbers match the lowercased query
// verbatim. An empty query keeps everything.
func FilterLeads(leads []domain.Lead, search string) []domain.Lead {
	if search == "" {
		return leads
	}
	q := strings.ToLower(search)
	out := make([]domain.Lead, 0, len(leads))
	for _, l := range leads {
		if leadMatches(&l, q) {
			out = append(out, l)
		}
	}
	return out
}

func leadMatches(l *domain.Lead, q string) bool {
	if strings.Contains(strings.ToLower(l.FirstName), q) ||
		strings.Contains(strings.ToLower(l.LastName), q) ||
		strings.Contains(strings.ToLower(l.Email), q) ||
		strings.Contains(l.Phone, q) {
		return true
	}
	for _, svc := range l.Services {
		if strings.Contains(strings.ToLower(svc), q) {
			return true
		}
	}
	return false
}

// Board groups leads into one column per status in pipeline order
func (s *LeadService) Board(ctx context.Context, search string) ([]domain.BoardColumn, error) {
	leads, err := s.leadRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return buildColumns(mapper.ToLeadDTOs(FilterLeads(leads, search))), nil
}

func buildColumns(leads []domain.LeadDTO) []domain.BoardColumn {
	columns := make([]domain.BoardColumn, len(domain.LeadStatuses))
	index := make(map[domain.LeadStatus]int, len(domain.LeadStatuses))
	for i, st := range domain.LeadStatuses {
		columns[i] = domain.BoardColumn{Status: st, Label: st.Label(), Leads: []domain.LeadDTO{}}
		index[st] = i
	}
	for _, l := range leads {
		if i, ok := index[l.Status]; ok {
			columns[i].Leads = append(columns[i].Leads, l)
		}
	}
	return columns
}

// SetStatus moves a lead to a new pipeline status and records the change in
// its history. Moving a lead to the status it already has is rejected with
// ErrStatusUnchanged and writes nothing. Concurrent changes are last write wins.
func (s *LeadService) SetStatus(ctx context.Context, id uuid.UUID, status domain.LeadStatus, notes string) (*domain.LeadDTO, error) {
	if !status.IsValid() {
		return nil, ErrInvalidLeadStatus
	}

	changedByID, changedByName := auth.SystemUserID, "System"
	if user, ok := auth.FromContext(ctx); ok {
		changedByID = user.UserID
		changedByName = user.DisplayName()
	}

	var from domain.LeadStatus
	var updated *domain.Lead
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leadRepo := s.leadRepo.WithTx(tx)
		lead, err := leadRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeadNotFound
			}
			return fmt.Errorf("failed to get lead: %w", err)
		}
		if !lead.Status.CanTransitionTo(status) {
			return ErrStatusUnchanged
		}
		from = lead.Status

		if err := leadRepo.UpdateStatus(ctx, id, status); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeadNotFound
			}
			return fmt.Errorf("failed to update lead status: %w", err)
		}
		if err := s.historyRepo.WithTx(tx).RecordTransition(ctx, id, &from, status, changedByID, changedByName, notes); err != nil {
			return fmt.Errorf("failed to record status change: %w", err)
		}

		updated, err = leadRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to reload lead: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead status changed",
		zap.String("lead_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
		zap.String("changed_by", changedByID))

	s.publish(ctx, events.Event{
		Kind:       events.KindLeadStatusChanged,
		LeadID:     id,
		FromStatus: string(from),
		ToStatus:   string(status),
		ActorID:    changedByID,
		OccurredAt: updated.UpdatedAt,
	})

	dto := mapper.ToLeadDTO(updated)
	return &dto, nil
}

// Dashboard summarizes the pipeline for the admin landing page
func (s *LeadService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	leads, err := s.leadRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	now := s.now()
	stats := buildDashboard(leads, now)

	moves, err := s.historyRepo.CountTransitionsByStatus(ctx, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, fmt.Errorf("failed to count status changes: %w", err)
	}
	stats.MovesThisWeek = statusCounts(moves)
	return stats, nil
}

func buildDashboard(leads []domain.Lead, now time.Time) *domain.DashboardStats {
	stats := &domain.DashboardStats{
		Total:       int64(len(leads)),
		TopServices: []domain.ServiceCount{},
		Upcoming:    []domain.LeadDTO{},
		Recent:      []domain.LeadDTO{},
	}
	weekAgo := now.AddDate(0, 0, -7)

	serviceCounts := make(map[string]int)
	var serviceOrder []string

	for i := range leads {
		l := &leads[i]
		switch l.Status {
		case domain.LeadStatusNew:
			stats.New++
		case domain.LeadStatusContacted:
			stats.Contacted++
		case domain.LeadStatusWon:
			stats.Won++
		}
		if !l.CreatedAt.Before(weekAgo) {
			stats.ThisWeek++
		}
		for _, svc := range l.Services {
			if _, seen := serviceCounts[svc]; !seen {
				serviceOrder = append(serviceOrder, svc)
			}
			serviceCounts[svc]++
		}
		if len(stats.Recent) < dashboardRecent {
			stats.Recent = append(stats.Recent, mapper.ToLeadDTO(l))
		}
		if !l.Status.IsClosed() && len(stats.Upcoming) < dashboardUpcoming {
			stats.Upcoming = append(stats.Upcoming, mapper.ToLeadDTO(l))
		}
	}

	for _, svc := range serviceOrder {
		stats.TopServices = append(stats.TopServices, domain.ServiceCount{Service: svc, Count: serviceCounts[svc]})
	}
	slices.SortStableFunc(stats.TopServices, func(a, b domain.ServiceCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(stats.TopServices) > dashboardTopServices {
		stats.TopServices = stats.TopServices[:dashboardTopServices]
	}
	return stats
}

// ListStale returns leads still in status new that have not been touched
// since before cutoff
func (s *LeadService) ListStale(ctx context.Context, cutoff time.Time) ([]domain.Lead, error) {
	leads, err := s.leadRepo.ListStale(ctx, domain.LeadStatusNew, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale leads: %w", err)
	}
	return leads, nil
}

// NotifyStale publishes a reminder for a lead that has been waiting too long
// and marks it so later runs skip it until its status changes again.
func (s *LeadService) NotifyStale(ctx context.Context, lead *domain.Lead) {
	s.publish(ctx, events.Event{
		Kind:     events.KindLeadStale,
		LeadID:   lead.ID,
		ToStatus: string(lead.Status),
		Services: []string(lead.Services),
	})

	now := time.Now().UTC()
	if err := s.leadRepo.MarkStaleNotified(ctx, lead.ID, now); err != nil {
		s.logger.Warn("failed to record stale reminder",
			zap.String("lead_id", lead.ID.String()),
			zap.Error(err))
		return
	}
	lead.StaleNotifiedAt = &now
}

// ListUpdatedSince returns leads changed after since, newest first
func (s *LeadService) ListUpdatedSince(ctx context.Context, since time.Time) ([]domain.Lead, error) {
	leads, err := s.leadRepo.List(ctx, &repository.LeadFilters{UpdatedAfter: &since})
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// publish never fails the calling operation
func (s *LeadService) publish(ctx context.Context, event events.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("failed to publish lead event",
			zap.String("kind", string(event.Kind)),
			zap.String("lead_id", event.LeadID.String()),
			zap.Error(err))
	}
}
