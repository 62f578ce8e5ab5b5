package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/motionscope/internal/model"
)

type fakeService struct {
	result     *model.AnalysisResult
	analyzeErr error
	healthErr  error
	lastReq    model.AnalysisRequest
}

func (f *fakeService) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	f.lastReq = req
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.result, nil
}

func (f *fakeService) HealthCheck(ctx context.Context) error { return f.healthErr }

func (f *fakeService) Provider() string { return "openai" }

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthHealthy(t *testing.T) {
	handler := NewServer(&fakeService{}, nil)
	rec := doRequest(t, handler, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "healthy" || body["provider"] != "openai" {
		t.Errorf("body = %v", body)
	}
}

func TestHealthUnhealthy(t *testing.T) {
	handler := NewServer(&fakeService{healthErr: errors.New("provider openai unavailable")}, nil)
	rec := doRequest(t, handler, http.MethodGet, "/health", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestCategoriesListsPredefined(t *testing.T) {
	handler := NewServer(&fakeService{}, nil)
	rec := doRequest(t, handler, http.MethodGet, "/api/v1/argument-categories", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Categories []struct {
			Key         string `json:"key"`
			DisplayName string `json:"display_name"`
		} `json:"categories"`
		TotalCategories int `json:"total_categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.TotalCategories != 10 || len(body.Categories) != 10 {
		t.Errorf("total = %d with %d entries, want the 10 predefined categories",
			body.TotalCategories, len(body.Categories))
	}
	if body.Categories[0].Key != "negligence_duty" {
		t.Errorf("first key = %q, want negligence_duty", body.Categories[0].Key)
	}
}

func TestAnalysisStats(t *testing.T) {
	handler := NewServer(&fakeService{}, nil)
	rec := doRequest(t, handler, http.MethodGet, "/api/v1/analysis-stats", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Capabilities []string `json:"capabilities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Capabilities) == 0 {
		t.Error("capabilities should not be empty")
	}
}

func TestAnalyzeMotionSuccess(t *testing.T) {
	svc := &fakeService{
		result: &model.AnalysisResult{
			AllArguments:            []model.Argument{{ID: "arg_001", Category: "negligence_duty", Strength: model.StrengthStrong, Priority: 1}},
			ArgumentGroups:          []model.ArgumentGroup{},
			TotalArgumentsFound:     1,
			StrongestArguments:      []string{"arg_001"},
			CustomCategoriesCreated: []model.Category{},
		},
	}
	handler := NewServer(svc, nil)
	rec := doRequest(t, handler, http.MethodPost, "/api/v1/analyze-motion",
		`{"motion_text":"Defendant moves for summary judgment...","case_context":"slip and fall"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
	var result model.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if result.TotalArgumentsFound != 1 || result.AllArguments[0].ID != "arg_001" {
		t.Errorf("result = %+v", result)
	}
	if svc.lastReq.CaseContext != "slip and fall" {
		t.Errorf("case_context = %q, not forwarded", svc.lastReq.CaseContext)
	}
}

func TestAnalyzeMotionErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &model.ValidationError{Msg: "motion_text too short"}, http.StatusBadRequest},
		{"classification", &model.ClassificationError{Label: "unknown"}, http.StatusUnprocessableEntity},
		{"extraction", &model.ExtractionError{Msg: "unparseable response"}, http.StatusBadGateway},
		{"timeout", &model.TimeoutError{Msg: "analysis timed out"}, http.StatusGatewayTimeout},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewServer(&fakeService{analyzeErr: tc.err}, nil)
			rec := doRequest(t, handler, http.MethodPost, "/api/v1/analyze-motion",
				`{"motion_text":"some motion text"}`)

			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body["error"] == "" {
				t.Error("error body missing")
			}
		})
	}
}

func TestAnalyzeMotionRejectsEmptyText(t *testing.T) {
	handler := NewServer(&fakeService{}, nil)
	rec := doRequest(t, handler, http.MethodPost, "/api/v1/analyze-motion", `{"motion_text":"  "}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeMotionRejectsBadJSON(t *testing.T) {
	handler := NewServer(&fakeService{}, nil)
	rec := doRequest(t, handler, http.MethodPost, "/api/v1/analyze-motion", `{"motion_text":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := NewServer(&fakeService{}, nil)

	if rec := doRequest(t, handler, http.MethodPost, "/health", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health status = %d, want 405", rec.Code)
	}
	if rec := doRequest(t, handler, http.MethodGet, "/api/v1/analyze-motion", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/v1/analyze-motion status = %d, want 405", rec.Code)
	}
}

func TestRequestIDPreserved(t *testing.T) {
	handler := NewServer(&fakeService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-from-caller")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-from-caller" {
		t.Errorf("X-Request-ID = %q, want caller's id echoed", got)
	}
}
