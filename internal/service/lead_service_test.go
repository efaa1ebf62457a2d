package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/auth"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/events"
	"github.com/cleanclear-sd/lead-api/internal/quote"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"github.com/cleanclear-sd/lead-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() quote.Draft {
	return quote.Draft{
		Services:  []string{"solar", "window"},
		FirstName: "  Jane ",
		LastName:  " Doe",
		Phone:     " 619-555-0100 ",
		Email:     "jane@example.com ",
		Notes:     "  gate code 1234  ",
		City:      " San Diego",
	}
}

func TestLeadService_SubmitLead(t *testing.T) {
	svc, db, pub := newLeadService(t)
	ctx := context.Background()

	id, err := svc.SubmitLead(ctx, validDraft())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	var lead domain.Lead
	require.NoError(t, db.First(&lead, "id = ?", id).Error)

	assert.Equal(t, []string{"Solar Panel Cleaning", "Window Cleaning"}, []string(lead.Services))
	assert.Equal(t, "Jane", lead.FirstName)
	assert.Equal(t, "Doe", lead.LastName)
	assert.Equal(t, "619-555-0100", lead.Phone)
	assert.Equal(t, "jane@example.com", lead.Email)
	assert.Equal(t, "  gate code 1234  ", lead.Notes, "free text is not trimmed")
	assert.Equal(t, " San Diego", lead.City)
	assert.Equal(t, domain.LeadStatusNew, lead.Status)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.KindLeadCreated, published[0].Kind)
	assert.Equal(t, id, published[0].LeadID)
}

func TestLeadService_SubmitLead_UnknownServiceKeepsRawID(t *testing.T) {
	svc, db, _ := newLeadService(t)

	d := validDraft()
	d.Services = []string{"window", "chimney-sweep"}
	id, err := svc.SubmitLead(context.Background(), d)
	require.NoError(t, err)

	var lead domain.Lead
	require.NoError(t, db.First(&lead, "id = ?", id).Error)
	assert.Equal(t, []string{"Window Cleaning", "chimney-sweep"}, []string(lead.Services))
}

func TestLeadService_SubmitLead_PublishFailureDoesNotFail(t *testing.T) {
	svc, _, pub := newLeadService(t)
	pub.err = errors.New("bus down")

	_, err := svc.SubmitLead(context.Background(), validDraft())
	assert.NoError(t, err)
}

func TestLeadService_SubmitQuote(t *testing.T) {
	svc, _, _ := newLeadService(t)
	ctx := context.Background()

	t.Run("first failing step is reported", func(t *testing.T) {
		_, err := svc.SubmitQuote(ctx, &domain.SubmitQuoteRequest{FirstName: "Jane"})
		var verr *quote.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, quote.StepServices, verr.Step)
		assert.Equal(t, quote.MsgSelectService, verr.Message)
	})

	t.Run("malformed email", func(t *testing.T) {
		_, err := svc.SubmitQuote(ctx, &domain.SubmitQuoteRequest{
			Services:  []string{"roof"},
			FirstName: "Jane",
			LastName:  "Doe",
			Phone:     "555",
			Email:     "not-an-email",
		})
		var verr *quote.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, quote.StepContact, verr.Step)
		assert.Equal(t, quote.MsgEmailMalformed, verr.Message)
	})

	t.Run("valid request creates lead", func(t *testing.T) {
		lead, err := svc.SubmitQuote(ctx, &domain.SubmitQuoteRequest{
			Services:           []string{"gutter"},
			FirstName:          "Sam",
			LastName:           "Lee",
			Phone:              "555-0101",
			Email:              "sam@example.com",
			PreferredTimeframe: "asap",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Gutter Cleaning"}, lead.Services)
		assert.Equal(t, domain.LeadStatusNew, lead.Status)
		assert.Equal(t, "New", lead.StatusLabel)
		assert.Equal(t, "ASAP", lead.PreferredTimeframeLabel)
	})
}

func TestLeadService_SetStatus(t *testing.T) {
	svc, db, pub := newLeadService(t)
	lead := testutil.CreateTestLead(t, db, domain.Lead{})
	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{UserID: "op-1", Email: "op@example.com"})

	updated, err := svc.SetStatus(ctx, lead.ID, domain.LeadStatusContacted, "called back")
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusContacted, updated.Status)
	assert.Equal(t, "Contacted", updated.StatusLabel)

	detail, err := svc.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, detail.History, 1)
	h := detail.History[0]
	require.NotNil(t, h.FromStatus)
	assert.Equal(t, domain.LeadStatusNew, *h.FromStatus)
	assert.Equal(t, domain.LeadStatusContacted, h.ToStatus)
	assert.Equal(t, "op-1", h.ChangedByID)
	assert.Equal(t, "op@example.com", h.ChangedByName)
	assert.Equal(t, "called back", h.Notes)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.KindLeadStatusChanged, published[0].Kind)
	assert.Equal(t, "new", published[0].FromStatus)
	assert.Equal(t, "contacted", published[0].ToStatus)
	assert.Equal(t, "op-1", published[0].ActorID)
}

func TestLeadService_SetStatus_AnyToAnyOther(t *testing.T) {
	svc, db, _ := newLeadService(t)
	lead := testutil.CreateTestLead(t, db, domain.Lead{})
	ctx := context.Background()

	for _, next := range []domain.LeadStatus{
		domain.LeadStatusWon,
		domain.LeadStatusNew,
		domain.LeadStatusLost,
		domain.LeadStatusQuoted,
		domain.LeadStatusContacted,
	} {
		updated, err := svc.SetStatus(ctx, lead.ID, next, "")
		require.NoError(t, err, "move to %s", next)
		assert.Equal(t, next, updated.Status)
	}
}

func TestLeadService_SetStatus_SameStatusWritesNothing(t *testing.T) {
	svc, db, pub := newLeadService(t)
	lead := testutil.CreateTestLead(t, db, domain.Lead{Status: domain.LeadStatusQuoted})
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, lead.ID, domain.LeadStatusQuoted, "")
	assert.ErrorIs(t, err, service.ErrStatusUnchanged)

	var count int64
	require.NoError(t, db.Model(&domain.LeadStatusHistory{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, pub.published())

	var stored domain.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	assert.Equal(t, domain.LeadStatusQuoted, stored.Status)
}

func TestLeadService_SetStatus_Errors(t *testing.T) {
	svc, db, _ := newLeadService(t)
	lead := testutil.CreateTestLead(t, db, domain.Lead{})
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, lead.ID, domain.LeadStatus("archived"), "")
	assert.ErrorIs(t, err, service.ErrInvalidLeadStatus)

	_, err = svc.SetStatus(ctx, uuid.New(), domain.LeadStatusWon, "")
	assert.ErrorIs(t, err, service.ErrLeadNotFound)

	_, err = svc.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrLeadNotFound)
}

func TestLeadService_List(t *testing.T) {
	svc, db, _ := newLeadService(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	testutil.CreateTestLead(t, db, domain.Lead{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Phone: "619-111-2222", Services: []string{"Window Cleaning"}, CreatedAt: base})
	testutil.CreateTestLead(t, db, domain.Lead{FirstName: "Bob", LastName: "Jones", Email: "BOB@corp.com", Phone: "858-333-4444", Services: []string{"Solar Panel Cleaning"}, Status: domain.LeadStatusWon, CreatedAt: base.Add(time.Minute)})
	testutil.CreateTestLead(t, db, domain.Lead{FirstName: "Carol", LastName: "White", Email: "carol@example.com", Phone: "760-555-6666", Services: []string{"Roof Washing", "Gutter Cleaning"}, CreatedAt: base.Add(2 * time.Minute)})

	t.Run("newest first with counts", func(t *testing.T) {
		res, err := svc.List(ctx, service.LeadListParams{})
		require.NoError(t, err)
		leads := res.Data.([]domain.LeadDTO)
		require.Len(t, leads, 3)
		assert.Equal(t, "Carol", leads[0].FirstName)
		assert.Equal(t, "Alice", leads[2].FirstName)
		assert.Equal(t, int64(3), res.Total)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 20, res.PageSize)
		assert.Equal(t, 1, res.TotalPages)

		require.Len(t, res.Counts, 5)
		assert.Equal(t, domain.StatusCount{Status: domain.LeadStatusNew, Label: "New", Count: 2}, res.Counts[0])
		assert.Equal(t, int64(1), res.Counts[3].Count)
		assert.Equal(t, int64(0), res.Counts[4].Count)
	})

	t.Run("status filter", func(t *testing.T) {
		won := domain.LeadStatusWon
		res, err := svc.List(ctx, service.LeadListParams{Status: &won})
		require.NoError(t, err)
		leads := res.Data.([]domain.LeadDTO)
		require.Len(t, leads, 1)
		assert.Equal(t, "Bob", leads[0].FirstName)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		bad := domain.LeadStatus("pending")
		_, err := svc.List(ctx, service.LeadListParams{Status: &bad})
		assert.ErrorIs(t, err, service.ErrInvalidLeadStatus)
	})

	cases := []struct {
		search string
		want   []string
	}{
		{"ALICE", []string{"Alice"}},
		{"bob@corp", []string{"Bob"}},
		{"858-333", []string{"Bob"}},
		{"gutter", []string{"Carol"}},
		{"cleaning", []string{"Carol", "Bob", "Alice"}},
		{"example.com", []string{"Carol", "Alice"}},
		{"zzz", nil},
	}
	for _, tc := range cases {
		t.Run("search "+tc.search, func(t *testing.T) {
			res, err := svc.List(ctx, service.LeadListParams{Search: tc.search})
			require.NoError(t, err)
			var names []string
			for _, l := range res.Data.([]domain.LeadDTO) {
				names = append(names, l.FirstName)
			}
			assert.Equal(t, tc.want, names)
		})
	}

	t.Run("pagination", func(t *testing.T) {
		res, err := svc.List(ctx, service.LeadListParams{Page: 2, PageSize: 2})
		require.NoError(t, err)
		leads := res.Data.([]domain.LeadDTO)
		require.Len(t, leads, 1)
		assert.Equal(t, "Alice", leads[0].FirstName)
		assert.Equal(t, 2, res.TotalPages)

		res, err = svc.List(ctx, service.LeadListParams{Page: 9, PageSize: 500})
		require.NoError(t, err)
		assert.Empty(t, res.Data.([]domain.LeadDTO))
		assert.Equal(t, 200, res.PageSize)

		res, err = svc.List(ctx, service.LeadListParams{Page: -1, PageSize: 0})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 20, res.PageSize)
	})
}

func TestLeadService_Board(t *testing.T) {
	svc, db, _ := newLeadService(t)
	ctx := context.Background()

	testutil.CreateTestLead(t, db, domain.Lead{FirstName: "A", Status: domain.LeadStatusLost})
	testutil.CreateTestLead(t, db, domain.Lead{FirstName: "B", Status: domain.LeadStatusNew})
	testutil.CreateTestLead(t, db, domain.Lead{FirstName: "C", Status: domain.LeadStatusQuoted})

	columns, err := svc.Board(ctx, "")
	require.NoError(t, err)
	require.Len(t, columns, 5)

	var order []domain.LeadStatus
	for _, c := range columns {
		order = append(order, c.Status)
	}
	assert.Equal(t, domain.LeadStatuses, order)
	assert.Len(t, columns[0].Leads, 1)
	assert.Empty(t, columns[1].Leads)
	assert.NotNil(t, columns[1].Leads)
	assert.Len(t, columns[2].Leads, 1)
	assert.Len(t, columns[4].Leads, 1)
}

func TestLeadService_Dashboard(t *testing.T) {
	svc, db, _ := newLeadService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	statuses := []domain.LeadStatus{
		domain.LeadStatusNew, domain.LeadStatusWon, domain.LeadStatusContacted, domain.LeadStatusLost,
		domain.LeadStatusNew, domain.LeadStatusQuoted, domain.LeadStatusNew, domain.LeadStatusWon,
	}
	for i, st := range statuses {
		services := []string{"Window Cleaning"}
		if i%2 == 0 {
			services = append(services, "Solar Panel Cleaning")
		}
		if i == 0 {
			services = append(services, "Roof Washing", "Gutter Cleaning", "Power Washing", "Other")
		}
		created := now.Add(-time.Duration(i) * time.Hour)
		if i >= 6 {
			created = now.AddDate(0, 0, -10-i)
		}
		testutil.CreateTestLead(t, db, domain.Lead{Status: st, Services: services, CreatedAt: created})
	}

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(8), stats.Total)
	assert.Equal(t, int64(3), stats.New)
	assert.Equal(t, int64(1), stats.Contacted)
	assert.Equal(t, int64(2), stats.Won)
	assert.Equal(t, int64(6), stats.ThisWeek)
	require.Len(t, stats.MovesThisWeek, len(domain.LeadStatuses))
	for _, m := range stats.MovesThisWeek {
		assert.Zero(t, m.Count)
	}

	require.Len(t, stats.TopServices, 5)
	assert.Equal(t, domain.ServiceCount{Service: "Window Cleaning", Count: 8}, stats.TopServices[0])
	assert.Equal(t, domain.ServiceCount{Service: "Solar Panel Cleaning", Count: 4}, stats.TopServices[1])

	assert.Len(t, stats.Recent, 6)
	require.Len(t, stats.Upcoming, 4)
	for _, l := range stats.Upcoming {
		assert.False(t, l.Status.IsClosed())
	}
}

func TestLeadService_ListStale(t *testing.T) {
	svc, db, pub := newLeadService(t)
	ctx := context.Background()
	old := time.Now().UTC().Add(-72 * time.Hour)

	stale := testutil.CreateTestLead(t, db, domain.Lead{CreatedAt: old})
	testutil.CreateTestLead(t, db, domain.Lead{CreatedAt: old, Status: domain.LeadStatusContacted})
	testutil.CreateTestLead(t, db, domain.Lead{})

	leads, err := svc.ListStale(ctx, time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, stale.ID, leads[0].ID)

	svc.NotifyStale(ctx, &leads[0])
	require.Len(t, pub.published(), 1)
	assert.Equal(t, events.KindLeadStale, pub.published()[0].Kind)
}

func TestLeadService_NotifyStale_RemindsOncePerStatus(t *testing.T) {
	svc, db, pub := newLeadService(t)
	ctx := context.Background()
	old := time.Now().UTC().Add(-72 * time.Hour)
	lead := testutil.CreateTestLead(t, db, domain.Lead{CreatedAt: old, UpdatedAt: old})
	cutoff := time.Now().UTC().Add(-48 * time.Hour)

	leads, err := svc.ListStale(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	svc.NotifyStale(ctx, &leads[0])
	require.NotNil(t, leads[0].StaleNotifiedAt)

	var stored domain.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	require.NotNil(t, stored.StaleNotifiedAt)
	assert.WithinDuration(t, old, stored.UpdatedAt, time.Second, "reminder does not touch updated_at")

	again, err := svc.ListStale(ctx, cutoff)
	require.NoError(t, err)
	assert.Empty(t, again, "a lead is reminded about once")
	assert.Len(t, pub.published(), 1)

	_, err = svc.SetStatus(ctx, lead.ID, domain.LeadStatusContacted, "")
	require.NoError(t, err)
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	assert.Nil(t, stored.StaleNotifiedAt, "status change resets the reminder")
}
