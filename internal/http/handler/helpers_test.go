package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/content"
	"github.com/cleanclear-sd/lead-api/internal/events"
	"github.com/cleanclear-sd/lead-api/internal/http/handler"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"github.com/cleanclear-sd/lead-api/internal/storage"
	"github.com/cleanclear-sd/lead-api/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testAPI struct {
	router  http.Handler
	db      *gorm.DB
	leads   *service.LeadService
	wizards *service.WizardService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := zap.NewNop()
	db := testutil.SetupTestDB(t)

	store, err := storage.NewLocalStorage(afero.NewMemMapFs(), "/uploads")
	require.NoError(t, err)

	leads := service.NewLeadService(
		repository.NewLeadRepository(db),
		repository.NewLeadStatusHistoryRepository(db),
		events.Nop{},
		log,
		db,
	)
	wizards := service.NewWizardService(leads, time.Hour, log)
	schema, err := content.Default()
	require.NoError(t, err)
	contents := service.NewContentService(repository.NewWebsiteContentRepository(db), schema, log)
	images := service.NewSiteImageService(repository.NewSiteImageRepository(db), store, 1<<20, log)

	quoteH := handler.NewQuoteHandler(leads, log)
	sessionH := handler.NewQuoteSessionHandler(wizards, log)
	leadH := handler.NewLeadHandler(leads, log)
	dashH := handler.NewDashboardHandler(leads, log)
	contentH := handler.NewContentHandler(contents, log)
	imageH := handler.NewSiteImageHandler(images, 1<<20, log)
	healthH := handler.NewHealthHandler(db, nil, log)

	customerRepo := repository.NewCustomerRepository(db)
	jobRepo := repository.NewJobRepository(db)
	customerH := handler.NewCustomerHandler(
		service.NewCustomerService(customerRepo, jobRepo, repository.NewLeadRepository(db), log, db), log)
	jobH := handler.NewJobHandler(service.NewJobService(jobRepo, customerRepo, log), log)
	contactH := handler.NewContactHandler(
		service.NewContactService(repository.NewContactSubmissionRepository(db), log), log)

	r := chi.NewRouter()
	r.Get("/health", healthH.Live)
	r.Get("/health/db", healthH.Database)
	r.Get("/health/ready", healthH.Ready)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", quoteH.Catalog)
		r.Post("/quotes", quoteH.Submit)
		r.Get("/content/{section}", contentH.Get)
		r.Get("/site-images", imageH.Get)
		r.Post("/contact", contactH.Submit)

		r.Post("/quote-sessions", sessionH.Create)
		r.Get("/quote-sessions/{id}", sessionH.Get)
		r.Delete("/quote-sessions/{id}", sessionH.Delete)
		r.Patch("/quote-sessions/{id}/draft", sessionH.UpdateDraft)
		r.Post("/quote-sessions/{id}/next", sessionH.Next)
		r.Post("/quote-sessions/{id}/back", sessionH.Back)
		r.Post("/quote-sessions/{id}/submit", sessionH.Submit)
		r.Post("/quote-sessions/{id}/restart", sessionH.Restart)

		r.Get("/admin/dashboard", dashH.GetStats)
		r.Get("/admin/leads", leadH.List)
		r.Get("/admin/leads/board", leadH.Board)
		r.Get("/admin/leads/{id}", leadH.GetByID)
		r.Patch("/admin/leads/{id}/status", leadH.UpdateStatus)
		r.Get("/admin/content/sections", contentH.Sections)
		r.Put("/admin/content/{section}", contentH.Update)
		r.Get("/admin/site-images", imageH.ListKeys)
		r.Post("/admin/site-images", imageH.Upload)

		r.Post("/admin/leads/{id}/convert", customerH.ConvertLead)
		r.Get("/admin/customers", customerH.List)
		r.Post("/admin/customers", customerH.Create)
		r.Get("/admin/customers/{id}", customerH.GetByID)
		r.Put("/admin/customers/{id}", customerH.Update)
		r.Delete("/admin/customers/{id}", customerH.Delete)

		r.Get("/admin/jobs", jobH.List)
		r.Post("/admin/jobs", jobH.Create)
		r.Get("/admin/jobs/upcoming", jobH.Upcoming)
		r.Get("/admin/jobs/{id}", jobH.GetByID)
		r.Put("/admin/jobs/{id}", jobH.Update)
		r.Patch("/admin/jobs/{id}/status", jobH.UpdateStatus)
		r.Delete("/admin/jobs/{id}", jobH.Delete)

		r.Get("/admin/contact-submissions", contactH.List)
		r.Delete("/admin/contact-submissions/{id}", contactH.Delete)
	})

	return &testAPI{router: r, db: db, leads: leads, wizards: wizards}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
