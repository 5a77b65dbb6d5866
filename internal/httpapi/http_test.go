package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"krishisahay/internal/chat"
	"krishisahay/internal/config"
	"krishisahay/internal/crops"
	"krishisahay/internal/facts"
	"krishisahay/internal/geo"
	"krishisahay/internal/metrics"
	"krishisahay/internal/prompts"
	"krishisahay/internal/weather"
)

type fakeBackend struct {
	reply string
}

func (f *fakeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	return f.reply, nil
}

func (f *fakeBackend) Ready() bool { return true }

type fixedLocator struct{}

func (fixedLocator) Locate(ctx context.Context) geo.Location { return geo.DefaultLocation }

type noWeather struct{}

func (noWeather) Current(ctx context.Context, location string) *weather.Snapshot { return nil }

func setupTest(t *testing.T) *Router {
	t.Helper()
	cfg := config.Config{SessionLimit: 4}
	m := metrics.New()
	backend := &fakeBackend{reply: "Grow rice in Kharif season."}
	pm := prompts.NewManager("")
	p := chat.NewPipeline(
		facts.NewGateway(nil, m),
		crops.NewResolver(backend, pm),
		fixedLocator{},
		noWeather{},
		backend,
		pm,
		m,
	)
	return NewRouter(cfg, p, nil, backend, m)
}

func postAsk(t *testing.T, mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestAskEndpoint(t *testing.T) {
	router := setupTest(t)
	mux := http.NewServeMux()
	router.Register(mux)

	rr := postAsk(t, mux, `{"question":"How should I grow rice?","language":"English"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		SessionID    string `json:"session_id"`
		Text         string `json:"text"`
		AudioText    string `json:"audio_text"`
		RotationCard string `json:"rotation_card"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("missing session id")
	}
	if resp.Text != "Grow rice in Kharif season." {
		t.Fatalf("text = %q", resp.Text)
	}
	if resp.RotationCard == "" {
		t.Fatal("rotation card missing for rice")
	}
}

func TestAskContinuesSession(t *testing.T) {
	router := setupTest(t)
	mux := http.NewServeMux()
	router.Register(mux)

	rr := postAsk(t, mux, `{"question":"Tell me about wheat"}`)
	var first struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &first); err != nil {
		t.Fatal(err)
	}

	rr = postAsk(t, mux, `{"session_id":"`+first.SessionID+`","question":"Which fertilizer for wheat?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+first.SessionID, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("session detail status = %d", rec.Code)
	}
	var detail struct {
		Entries []chat.Entry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatal(err)
	}
	if len(detail.Entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(detail.Entries))
	}
}

func TestAskValidation(t *testing.T) {
	router := setupTest(t)
	mux := http.NewServeMux()
	router.Register(mux)

	if rr := postAsk(t, mux, `{"question":"   "}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("blank question status = %d", rr.Code)
	}
	if rr := postAsk(t, mux, `{not json`); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", rr.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d", rr.Code)
	}
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	router := setupTest(t)
	mux := http.NewServeMux()
	router.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/nope", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestSessionEviction(t *testing.T) {
	router := setupTest(t)
	mux := http.NewServeMux()
	router.Register(mux)

	var firstID string
	for i := 0; i < 5; i++ {
		rr := postAsk(t, mux, `{"question":"Tell me about rice"}`)
		if i == 0 {
			var resp struct {
				SessionID string `json:"session_id"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			firstID = resp.SessionID
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+firstID, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("evicted session status = %d, want 404", rr.Code)
	}
}

func TestHealthAndStatus(t *testing.T) {
	router := setupTest(t)
	mux := http.NewServeMux()
	router.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/ops/health", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("health status = %d", rr.Code)
	}
	var health struct {
		DB           string `json:"db"`
		BackendReady bool   `json:"backend_ready"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health.DB != "absent" || !health.BackendReady {
		t.Fatalf("health = %+v", health)
	}

	postAsk(t, mux, `{"question":"Tell me about rice"}`)
	req = httptest.NewRequest(http.MethodGet, "/ops/status", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	var status struct {
		Sessions int `json:"sessions"`
		Metrics  struct {
			Turns int64 `json:"turns"`
		} `json:"metrics"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Sessions != 1 || status.Metrics.Turns != 1 {
		t.Fatalf("status = %+v", status)
	}
}
