package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leadradar_backend/internal/leads/repository"
	"leadradar_backend/internal/leads/service"
	"leadradar_backend/internal/ranking"
	"leadradar_backend/platform/apperr"
	"leadradar_backend/platform/httpkit"
	"leadradar_backend/platform/logger"
	"leadradar_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubConfig struct{}

func (stubConfig) GetLeadPoolLimit() int              { return 500 }
func (stubConfig) GetLeadPoolWindow() time.Duration   { return 720 * time.Hour }
func (stubConfig) GetScoreCacheTTL() time.Duration    { return time.Hour }
func (stubConfig) GetSectionsCacheTTL() time.Duration { return time.Minute }

type stubRepo struct {
	lead repository.Lead
}

func (r stubRepo) GetLead(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if id != r.lead.ID {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return r.lead, nil
}

func (r stubRepo) ListRecentPool(context.Context, time.Time, int) ([]repository.Lead, error) {
	return []repository.Lead{r.lead}, nil
}

func (stubRepo) GetUserProfile(context.Context, uuid.UUID) (*ranking.UserProfile, error) {
	return nil, nil
}

func (stubRepo) ListUserActions(context.Context, uuid.UUID) ([]ranking.Action, error) {
	return nil, nil
}

func (stubRepo) ListLeadsForRescore(context.Context, repository.RescorePageParams) ([]repository.Lead, error) {
	return nil, nil
}

func (stubRepo) UpdateLeadScore(context.Context, uuid.UUID, repository.ScoreUpdate) error {
	return nil
}

type stubEnqueuer struct{}

func (stubEnqueuer) EnqueueLeadRescore(context.Context, int, bool) (string, error) {
	return "task-42", nil
}

func newTestRouter(t *testing.T, withQueue bool) (*gin.Engine, repository.Lead) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lead := repository.Lead{
		ID:        uuid.New(),
		City:      "Utrecht",
		Category:  "Bakery",
		Analysis:  []byte(`{}`),
		CreatedAt: time.Now().Add(-time.Hour),
	}
	svc := service.New(stubRepo{lead: lead}, stubConfig{}, nil, logger.New("test"))
	if withQueue {
		svc.SetRescoreEnqueuer(stubEnqueuer{})
	}
	h := New(svc, validator.New())

	r := gin.New()
	authed := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Next()
	})
	h.RegisterRoutes(authed.Group("/leads"))
	h.RegisterScoringRoutes(authed.Group("/scoring"))
	h.RegisterAdminRoutes(authed.Group("/admin/leads"))
	return r, lead
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScoreEndpoint(t *testing.T) {
	r, lead := newTestRouter(t, false)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"stored lead", "/api/v1/leads/" + lead.ID.String() + "/score", http.StatusOK},
		{"unknown lead", "/api/v1/leads/" + uuid.NewString() + "/score", http.StatusNotFound},
		{"malformed id", "/api/v1/leads/abc/score", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := serve(r, http.MethodGet, tt.path, "")
		if w.Code != tt.status {
			t.Fatalf("%s: status = %d, want %d (%s)", tt.name, w.Code, tt.status, w.Body.String())
		}
	}
}

func TestPreviewEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, false)

	w := serve(r, http.MethodPost, "/api/v1/scoring/preview", `{"analysis":{}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	var body struct {
		OverallScore int    `json:"overallScore"`
		Quality      string `json:"quality"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.OverallScore != 89 || body.Quality != "warm" {
		t.Fatalf("unexpected preview %+v", body)
	}

	if w := serve(r, http.MethodPost, "/api/v1/scoring/preview", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing analysis: status = %d, want 400", w.Code)
	}
	if w := serve(r, http.MethodPost, "/api/v1/scoring/preview", `not json`); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d, want 400", w.Code)
	}
}

func TestForYouEndpoint(t *testing.T) {
	r, lead := newTestRouter(t, false)

	w := serve(r, http.MethodGet, "/api/v1/leads/for-you", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}

	var body struct {
		Sections           map[string][]map[string]any `json:"sections"`
		TotalLeadsAnalyzed int                         `json:"totalLeadsAnalyzed"`
		ProfileComplete    bool                        `json:"profileComplete"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalLeadsAnalyzed != 1 || body.ProfileComplete {
		t.Fatalf("unexpected metadata %+v", body)
	}
	for _, name := range []string{"daily_top_5", "perfect_match", "high_budget", "near_you", "new_today"} {
		if _, ok := body.Sections[name]; !ok {
			t.Fatalf("missing section %s", name)
		}
	}
	top := body.Sections["daily_top_5"]
	if len(top) != 1 || top[0]["leadId"] != lead.ID.String() {
		t.Fatalf("unexpected daily_top_5 %v", top)
	}
}

func TestRescoreEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, false)
	if w := serve(r, http.MethodPost, "/api/v1/admin/leads/rescore", ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("without queue: status = %d, want 503", w.Code)
	}

	r, _ = newTestRouter(t, true)
	w := serve(r, http.MethodPost, "/api/v1/admin/leads/rescore", `{"batchSize":50}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (%s)", w.Code, w.Body.String())
	}
	if w := serve(r, http.MethodPost, "/api/v1/admin/leads/rescore", `{"batchSize":5000}`); w.Code != http.StatusBadRequest {
		t.Fatalf("oversized batch: status = %d, want 400", w.Code)
	}
}
