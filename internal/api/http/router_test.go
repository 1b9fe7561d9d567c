package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-dashboard/internal/apiclient"
	"github.com/spec-kit/helpdesk-dashboard/internal/auth"
	"github.com/spec-kit/helpdesk-dashboard/internal/dashboard"
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/events"
	"github.com/spec-kit/helpdesk-dashboard/internal/export"
	"github.com/spec-kit/helpdesk-dashboard/internal/observability"
	"github.com/spec-kit/helpdesk-dashboard/internal/repository"
)

const secret = "router-secret"

// helpdesk is an in-memory stand-in for the upstream REST API.
type helpdesk struct {
	mu      sync.Mutex
	viewers map[string]domain.Viewer
	tickets []domain.Ticket
	assigns int
	reads   []string
	// bearers seen by the staff ticket list, in call order
	listBearers []string
	summaries   []string
	comments    []domain.Comment
}

func (h *helpdesk) handler() nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		v, ok := h.viewer(r)
		if !ok {
			w.WriteHeader(nethttp.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		writeJSON(w, v)
	})
	mux.HandleFunc("GET /tickets/{$}", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.listBearers = append(h.listBearers, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		writeJSON(w, h.tickets)
	})
	mux.HandleFunc("GET /tickets/assigned", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		v, _ := h.viewer(r)
		h.mu.Lock()
		defer h.mu.Unlock()
		var mine []domain.Ticket
		for _, t := range h.tickets {
			if t.TechnicianIDValue() == v.ID {
				mine = append(mine, t)
			}
		}
		writeJSON(w, mine)
	})
	mux.HandleFunc("PUT /tickets/{id}/status", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var body struct {
			Status            domain.TicketStatus `json:"status"`
			ResolutionSummary string              `json:"resolution_summary"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		h.mu.Lock()
		defer h.mu.Unlock()
		for i := range h.tickets {
			if h.tickets[i].ID == r.PathValue("id") {
				h.tickets[i].Status = body.Status
				if body.ResolutionSummary != "" {
					h.summaries = append(h.summaries, body.ResolutionSummary)
				}
				writeJSON(w, h.tickets[i])
				return
			}
		}
		w.WriteHeader(nethttp.StatusNotFound)
	})
	mux.HandleFunc("POST /tickets/{id}/comments", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var in domain.Comment
		_ = json.NewDecoder(r.Body).Decode(&in)
		v, _ := h.viewer(r)
		h.mu.Lock()
		defer h.mu.Unlock()
		in.ID = "c" + strconv.Itoa(len(h.comments)+1)
		in.UserID = v.ID
		h.comments = append(h.comments, in)
		writeJSON(w, in)
	})
	mux.HandleFunc("GET /tickets/{id}/comments", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		out := []domain.Comment{}
		for _, c := range h.comments {
			if c.TicketID == r.PathValue("id") {
				out = append(out, c)
			}
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("GET /tickets/me", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		v, _ := h.viewer(r)
		h.mu.Lock()
		defer h.mu.Unlock()
		var mine []domain.Ticket
		for _, t := range h.tickets {
			if t.CreatorID == v.ID {
				mine = append(mine, t)
			}
		}
		writeJSON(w, mine)
	})
	mux.HandleFunc("PUT /tickets/{id}/assign", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var body struct {
			TechnicianID string `json:"technician_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		h.mu.Lock()
		defer h.mu.Unlock()
		h.assigns++
		for i := range h.tickets {
			if h.tickets[i].ID == r.PathValue("id") {
				h.tickets[i].Status = domain.TicketStatusAssignedTechnician
				h.tickets[i].TechnicianID = &body.TechnicianID
				writeJSON(w, h.tickets[i])
				return
			}
		}
		w.WriteHeader(nethttp.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Ticket not found"}`))
	})
	mux.HandleFunc("GET /users/technicians", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, []domain.Technician{
			{ID: "tech-1", FullName: "Ibrahima Fall", Specialization: domain.TicketTypeHardware},
			{ID: "tech-2", FullName: "Fatou Sarr", Specialization: domain.TicketTypeApplication},
		})
	})
	mux.HandleFunc("GET /notifications/{$}", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, []domain.Notification{{ID: "n1", Message: "Nouveau ticket"}, {ID: "n2", Read: true}})
	})
	mux.HandleFunc("GET /notifications/unread/count", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, map[string]int{"unread_count": 1})
	})
	mux.HandleFunc("PUT /notifications/{id}/read", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		h.mu.Lock()
		h.reads = append(h.reads, r.PathValue("id"))
		h.mu.Unlock()
		w.WriteHeader(nethttp.StatusNoContent)
	})
	return mux
}

func (h *helpdesk) assignCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.assigns
}

func (h *helpdesk) staffListBearers() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.listBearers...)
}

func (h *helpdesk) resolutionSummaries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.summaries...)
}

func (h *helpdesk) readIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.reads...)
}

func (h *helpdesk) viewer(r *nethttp.Request) (domain.Viewer, bool) {
	v, ok := h.viewers[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	return v, ok
}

func writeJSON(w nethttp.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type memReports struct {
	mu      sync.Mutex
	reports []domain.ArchivedReport
}

func (m *memReports) Create(_ context.Context, report *domain.ArchivedReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	report.GeneratedAt = time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	m.reports = append(m.reports, *report)
	return nil
}

func (m *memReports) GetByID(_ context.Context, id string) (*domain.ArchivedReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memReports) List(_ context.Context, filter repository.ReportFilter) ([]domain.ArchivedReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ArchivedReport
	for _, r := range m.reports {
		if filter.ReportType != nil && r.ReportType != *filter.ReportType {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fixture struct {
	app       *fiber.App
	upstream  *helpdesk
	staff      string
	requester  string
	technician string
	archived   []events.Event
}

func token(t *testing.T, sub string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newPollingFixture(t, time.Hour)
}

func newPollingFixture(t *testing.T, poll time.Duration) *fixture {
	t.Helper()
	tech := "tech-1"
	f := &fixture{
		staff:      token(t, "7"),
		requester:  token(t, "3"),
		technician: token(t, tech),
	}
	f.upstream = &helpdesk{
		viewers: map[string]domain.Viewer{
			f.staff:     {ID: "7", FullName: "Awa Ndiaye", Role: domain.RoleRef{Name: domain.RoleSecretary}},
			f.requester:  {ID: "3", FullName: "Moussa Diop", Role: domain.RoleRef{Name: domain.RoleUser}},
			f.technician: {ID: tech, FullName: "Ibrahima Fall", Role: domain.RoleRef{Name: domain.RoleTechnician}},
		},
		tickets: []domain.Ticket{
			{ID: "t1", Title: "Imprimante HP bloquée", Status: domain.TicketStatusPendingAnalysis, Type: domain.TicketTypeHardware, Priority: domain.TicketPriorityHigh, CreatorID: "3"},
			{ID: "t2", Title: "Messagerie lente", Status: domain.TicketStatusInProgress, Type: domain.TicketTypeApplication, Priority: domain.TicketPriorityMedium, CreatorID: "9", TechnicianID: &tech},
		},
	}
	server := httptest.NewServer(f.upstream.handler())
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher(logger)
	dispatcher.Subscribe(events.EventReportArchived, func(_ context.Context, e events.Event) error {
		f.archived = append(f.archived, e)
		return nil
	})
	manager := dashboard.NewManager(ctx, dashboard.ManagerConfig{
		API:          apiclient.New(server.URL, 5*time.Second, logger),
		Dispatcher:   dispatcher,
		Logger:       logger,
		PollInterval: poll,
	})
	t.Cleanup(manager.Close)

	metrics := observability.NewMetrics()
	f.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterMiddlewares(f.app, logger, metrics, 5*time.Second)
	RegisterRoutes(f.app, RouteConfig{
		Health:         handlers.NewHealthHandler("helpdesk-dashboard", "test", nil, manager.Len, metrics),
		Dashboard:      handlers.NewDashboardHandler(),
		Reports:        handlers.NewReportsHandler(&memReports{}, dispatcher),
		AuthMiddleware: auth.NewAuthMiddleware(auth.NewTokenVerifier(secret), manager),
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, bearer string, body any) (*nethttp.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, raw []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return env
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp, raw := f.do(t, nethttp.MethodGet, "/health/live", "", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"sessions":0`)

	resp, _ = f.do(t, nethttp.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, raw = f.do(t, nethttp.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode(t, raw).Error.Code)
}

func TestDashboardRoutes(t *testing.T) {
	f := newFixture(t)

	t.Run("should require a bearer token", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodGet, "/dashboard/tickets", "", nil)
		assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decode(t, raw).Error.Code)
	})

	t.Run("should list staff rows with their actions", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodGet, "/dashboard/tickets", f.staff, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))
		var list struct {
			Rows  []dashboard.Row `json:"rows"`
			Total int             `json:"total"`
		}
		require.NoError(t, json.Unmarshal(decode(t, raw).Data, &list))
		assert.Equal(t, 2, list.Total)
		assert.True(t, list.Rows[0].Actions.Allows("assign"))
		assert.True(t, list.Rows[1].Actions.Allows("reassign"))
	})

	t.Run("should filter rows by status", func(t *testing.T) {
		_, raw := f.do(t, nethttp.MethodGet, "/dashboard/tickets?status=en_cours", f.staff, nil)
		assert.Contains(t, string(decode(t, raw).Data), `"total":1`)
	})

	t.Run("should reject an unknown delegation filter", func(t *testing.T) {
		resp, _ := f.do(t, nethttp.MethodGet, "/dashboard/tickets?delegation=mine", f.staff, nil)
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})

	t.Run("should refuse an assignment without technician before calling upstream", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodPost, "/dashboard/tickets/t1/assign", f.staff, map[string]string{})
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", decode(t, raw).Error.Code)
		assert.Equal(t, 0, f.upstream.assignCount())
	})

	t.Run("should relay an assignment and reload", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodPost, "/dashboard/tickets/t1/assign", f.staff, map[string]string{"technician_id": "tech-1"})
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))
		assert.Equal(t, 1, f.upstream.assignCount())

		_, raw = f.do(t, nethttp.MethodGet, "/dashboard/tickets?status=assigne_technicien", f.staff, nil)
		assert.Contains(t, string(decode(t, raw).Data), `"total":1`)
	})

	t.Run("should list candidates with workload", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodGet, "/dashboard/tickets/t2/candidates", f.staff, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))
		assert.Contains(t, string(raw), "Fatou Sarr")
		assert.NotContains(t, string(raw), "Ibrahima Fall")
	})

	t.Run("should keep staff pages away from requesters", func(t *testing.T) {
		resp, _ := f.do(t, nethttp.MethodGet, "/dashboard/tickets/t1/candidates", f.requester, nil)
		assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
		resp, _ = f.do(t, nethttp.MethodGet, "/dashboard/metrics", f.requester, nil)
		assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
		resp, _ = f.do(t, nethttp.MethodGet, "/reports", f.requester, nil)
		assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
	})

	t.Run("should summarize the requester tickets", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodGet, "/dashboard/summary", f.requester, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"open":1,"in_progress":1,"resolved":0}`, string(decode(t, raw).Data))
	})

	t.Run("should compute metrics for staff", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodGet, "/dashboard/metrics", f.staff, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		assert.Contains(t, string(decode(t, raw).Data), `"total_tickets":2`)
	})

	t.Run("should apply ui transitions", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodPut, "/dashboard/state", f.staff, domain.Transition{Event: domain.TransitionOpenModal, Modal: domain.ModalAssign, TicketID: "t1"})
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))
		var state domain.UIState
		require.NoError(t, json.Unmarshal(decode(t, raw).Data, &state))
		assert.Equal(t, domain.ModalAssign, state.Modal)

		resp, _ = f.do(t, nethttp.MethodPut, "/dashboard/state", f.staff, domain.Transition{Event: domain.TransitionNavigate, View: "settings"})
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

		_, raw = f.do(t, nethttp.MethodGet, "/dashboard/state", f.staff, nil)
		assert.Contains(t, string(raw), `"ticket_id":"t1"`)
	})

	t.Run("should mark unread notifications", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodPost, "/dashboard/notifications/read-all", f.staff, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"marked":1}`, string(decode(t, raw).Data))
		assert.Equal(t, []string{"n1"}, f.upstream.readIDs())
	})
}

func TestReportRoutes(t *testing.T) {
	f := newFixture(t)

	resp, raw := f.do(t, nethttp.MethodPost, "/reports", f.staff, map[string]string{"title": "Bilan mensuel", "report_type": "overview"})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, string(raw))
	var created domain.ArchivedReport
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &created))
	assert.Equal(t, "7", created.CreatorID)
	require.Len(t, f.archived, 1)

	t.Run("should reject unknown report types", func(t *testing.T) {
		resp, _ := f.do(t, nethttp.MethodPost, "/reports", f.staff, map[string]string{"title": "x", "report_type": "pdf"})
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})

	t.Run("should list archived reports", func(t *testing.T) {
		_, raw := f.do(t, nethttp.MethodGet, "/reports?report_type=overview", f.staff, nil)
		assert.Contains(t, string(raw), "Bilan mensuel")
		assert.NotContains(t, string(raw), `"data":{"total_tickets"`)
	})

	t.Run("should export a workbook", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodGet, "/reports/"+created.ID+"/export", f.staff, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))
		assert.Equal(t, export.ContentType, resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "Rapport_Bilan_mensuel_2024-03-05.xlsx")
		assert.NotEmpty(t, raw)
	})

	t.Run("should answer 404 for unknown reports", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodGet, "/reports/8d1c3c55-4d3b-4f5f-9f59-1f1a2b3c4d5e", f.staff, nil)
		assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decode(t, raw).Error.Code)
	})
}

func TestTechnicianRoutes(t *testing.T) {
	f := newFixture(t)

	t.Run("should list only the tickets assigned to the technician", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodGet, "/dashboard/tickets", f.technician, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))
		var list struct {
			Rows  []dashboard.Row `json:"rows"`
			Total int             `json:"total"`
		}
		require.NoError(t, json.Unmarshal(decode(t, raw).Data, &list))
		require.Equal(t, 1, list.Total)
		assert.Equal(t, "t2", list.Rows[0].Ticket.ID)
		assert.True(t, list.Rows[0].Actions.Allows("resolve"))
	})

	t.Run("should keep technician actions away from other roles", func(t *testing.T) {
		resp, _ := f.do(t, nethttp.MethodPost, "/dashboard/tickets/t2/resolve", f.staff, map[string]string{"resolution_summary": "x"})
		assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
	})

	t.Run("should require a resolution summary before calling upstream", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodPost, "/dashboard/tickets/t2/resolve", f.technician, map[string]string{"resolution_summary": " "})
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", decode(t, raw).Error.Code)
		assert.Empty(t, f.upstream.resolutionSummaries())
	})

	t.Run("should take charge, comment and resolve", func(t *testing.T) {
		resp, raw := f.do(t, nethttp.MethodPost, "/dashboard/tickets/t1/assign", f.staff, map[string]string{"technician_id": "tech-1"})
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))
		resp, _ = f.do(t, nethttp.MethodPost, "/dashboard/refresh", f.technician, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)

		resp, raw = f.do(t, nethttp.MethodPost, "/dashboard/tickets/t1/take-charge", f.technician, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))
		assert.Contains(t, string(raw), `"status":"en_cours"`)

		resp, raw = f.do(t, nethttp.MethodPost, "/dashboard/tickets/t1/comments", f.technician, map[string]string{"content": "Toner remplacé"})
		require.Equal(t, nethttp.StatusCreated, resp.StatusCode, string(raw))
		_, raw = f.do(t, nethttp.MethodGet, "/dashboard/tickets/t1/comments", f.technician, nil)
		assert.Contains(t, string(raw), "Toner remplacé")
		assert.Contains(t, string(raw), `"type":"technique"`)

		resp, raw = f.do(t, nethttp.MethodPost, "/dashboard/tickets/t1/resolve", f.technician, map[string]string{"resolution_summary": "Toner remplacé, impression OK"})
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))
		assert.Equal(t, []string{"Toner remplacé, impression OK"}, f.upstream.resolutionSummaries())
	})
}

func TestSessionKeepsItsOwnBearer(t *testing.T) {
	f := newPollingFixture(t, 20*time.Millisecond)

	resp, _ := f.do(t, nethttp.MethodGet, "/dashboard/tickets", f.staff, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	for i := 0; i < 5; i++ {
		resp, _ = f.do(t, nethttp.MethodGet, "/dashboard/tickets", f.requester, nil)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	}

	require.Eventually(t, func() bool {
		return len(f.upstream.staffListBearers()) >= 4
	}, 2*time.Second, 10*time.Millisecond)
	for i, bearer := range f.upstream.staffListBearers() {
		assert.Equal(t, f.staff, bearer, "staff list call %d", i)
	}
}
