package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/covergauge/covergauge"
)

type fakeEngine struct {
	assessment *covergauge.Assessment
	err        error
	calls      int
	gotReq     covergauge.CoverageRequest
}

func (f *fakeEngine) Analyze(_ context.Context, req covergauge.CoverageRequest) (*covergauge.Assessment, error) {
	f.calls++
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.assessment, nil
}

// filePart describes one uploaded file in a test request.
type filePart struct {
	field       string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files []filePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("writing field %s: %v", name, err)
		}
	}
	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.field+".pdf"))
		hdr.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("creating part %s: %v", f.field, err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("writing part %s: %v", f.field, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-coverage", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func pdfFiles() []filePart {
	return []filePart{
		{field: "policy_disclosure", contentType: "application/pdf", data: []byte("%PDF-1.4 policy")},
		{field: "schedule_coverage", contentType: "application/pdf", data: []byte("%PDF-1.4 schedule")},
	}
}

func textFields() map[string]string {
	return map[string]string{
		"insurance_type": "home",
		"question":       "Is flood damage covered?",
	}
}

func newTestServer(engine covergauge.Engine) http.Handler {
	cfg := covergauge.DefaultConfig()
	return newRouter(newHandler(engine, cfg), cfg)
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body["error"]
}

func TestAnalyzeCoverageOK(t *testing.T) {
	engine := &fakeEngine{assessment: &covergauge.Assessment{
		ID:          "a-1",
		Score:       72,
		Band:        "Likely",
		Explanation: "Covered subject to excess based on policy terms and conditions provided in documentation",
	}}
	srv := newTestServer(engine)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, multipartRequest(t, textFields(), pdfFiles()))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var got covergauge.Assessment
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.ID != "a-1" || got.Score != 72 || got.Band != "Likely" {
		t.Errorf("got %+v, want the engine's assessment", got)
	}

	if engine.calls != 1 {
		t.Fatalf("engine called %d times, want 1", engine.calls)
	}
	if string(engine.gotReq.PolicyPDF) != "%PDF-1.4 policy" {
		t.Errorf("engine got policy bytes %q", engine.gotReq.PolicyPDF)
	}
	if string(engine.gotReq.SchedulePDF) != "%PDF-1.4 schedule" {
		t.Errorf("engine got schedule bytes %q", engine.gotReq.SchedulePDF)
	}
	if engine.gotReq.InsuranceType != "home" {
		t.Errorf("engine got insurance type %q, want %q", engine.gotReq.InsuranceType, "home")
	}
	if engine.gotReq.Question != "Is flood damage covered?" {
		t.Errorf("engine got question %q", engine.gotReq.Question)
	}
}

func TestAnalyzeCoverageValidation(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		files   []filePart
		wantMsg string
	}{
		{
			name:   "policy wrong content type",
			fields: textFields(),
			files: []filePart{
				{field: "policy_disclosure", contentType: "text/plain", data: []byte("hello")},
				{field: "schedule_coverage", contentType: "application/pdf", data: []byte("%PDF-1.4")},
			},
			wantMsg: "Policy Disclosure must be a PDF file",
		},
		{
			name:   "schedule wrong content type",
			fields: textFields(),
			files: []filePart{
				{field: "policy_disclosure", contentType: "application/pdf", data: []byte("%PDF-1.4")},
				{field: "schedule_coverage", contentType: "application/octet-stream", data: []byte("%PDF-1.4")},
			},
			wantMsg: "Schedule of Coverage must be a PDF file",
		},
		{
			name:    "missing policy file",
			fields:  textFields(),
			files:   []filePart{{field: "schedule_coverage", contentType: "application/pdf", data: []byte("%PDF-1.4")}},
			wantMsg: "policy_disclosure is required",
		},
		{
			name:    "missing schedule file",
			fields:  textFields(),
			files:   []filePart{{field: "policy_disclosure", contentType: "application/pdf", data: []byte("%PDF-1.4")}},
			wantMsg: "schedule_coverage is required",
		},
		{
			name:    "empty question",
			fields:  map[string]string{"insurance_type": "home", "question": "   \t"},
			files:   pdfFiles(),
			wantMsg: "Question cannot be empty",
		},
		{
			name:    "missing insurance type",
			fields:  map[string]string{"question": "Is hail damage covered?"},
			files:   pdfFiles(),
			wantMsg: "insurance_type is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{assessment: &covergauge.Assessment{Score: 50}}
			srv := newTestServer(engine)

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, multipartRequest(t, tt.fields, tt.files))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400; body: %s", rec.Code, rec.Body.String())
			}
			if got := errorBody(t, rec); got != tt.wantMsg {
				t.Errorf("got error %q, want %q", got, tt.wantMsg)
			}
			if engine.calls != 0 {
				t.Errorf("engine called %d times on invalid input, want 0", engine.calls)
			}
		})
	}
}

func TestAnalyzeCoverageRejectsNonMultipart(t *testing.T) {
	srv := newTestServer(&fakeEngine{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-coverage", strings.NewReader(`{"question":"covered?"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
	if got := errorBody(t, rec); got != "expected multipart form data" {
		t.Errorf("got error %q", got)
	}
}

func TestAnalyzeCoverageEngineError(t *testing.T) {
	engine := &fakeEngine{err: fmt.Errorf("%w: policy disclosure: no text layer", covergauge.ErrExtraction)}
	srv := newTestServer(engine)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, multipartRequest(t, textFields(), pdfFiles()))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500; body: %s", rec.Code, rec.Body.String())
	}
	if got := errorBody(t, rec); !strings.HasPrefix(got, "Error processing request: ") {
		t.Errorf("got error %q, want the processing-error prefix", got)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeEngine{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("got status %q, want %q", body["status"], "healthy")
	}
	if body["model"] != analyzerName {
		t.Errorf("got model %q, want %q", body["model"], analyzerName)
	}
	if _, err := time.Parse(time.RFC3339, body["timestamp"]); err != nil {
		t.Errorf("timestamp %q is not RFC 3339: %v", body["timestamp"], err)
	}
}

func TestInfo(t *testing.T) {
	srv := newTestServer(&fakeEngine{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}

	var body struct {
		Message      string   `json:"message"`
		Version      string   `json:"version"`
		MainEndpoint string   `json:"main_endpoint"`
		Features     []string `json:"features"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Version != covergauge.Version {
		t.Errorf("got version %q, want %q", body.Version, covergauge.Version)
	}
	if body.MainEndpoint != "/api/v1/analyze-coverage" {
		t.Errorf("got main endpoint %q", body.MainEndpoint)
	}
	if len(body.Features) == 0 {
		t.Error("info response lists no features")
	}
}

func TestWelcome(t *testing.T) {
	srv := newTestServer(&fakeEngine{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["message"] == "" {
		t.Error("welcome response has no message")
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := covergauge.DefaultConfig()
	cfg.Server.APIKey = "secret"
	srv := newRouter(newHandler(&fakeEngine{}, cfg), cfg)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want 401", rec.Code)
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want 401", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/", nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("got status %d, want 200", rec.Code)
		}
	})

	t.Run("health bypasses auth", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("got status %d, want 200", rec.Code)
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&fakeEngine{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/analyze-coverage", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("got allow-origin %q, want %q", got, "*")
	}
}
