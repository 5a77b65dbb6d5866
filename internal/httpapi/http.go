package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"krishisahay/internal/chat"
	"krishisahay/internal/config"
	"krishisahay/internal/facts"
	"krishisahay/internal/locale"
	"krishisahay/internal/metrics"
)

// Backend reports whether the language backend holds a usable credential.
type Backend interface {
	Ready() bool
}

// session is one conversation. Turns against the same session are
// serialized by the per-session mutex.
type session struct {
	mu         sync.Mutex
	transcript chat.Transcript
}

// Router builds HTTP handlers for /api and /ops.
type Router struct {
	cfg      config.Config
	pipeline *chat.Pipeline
	store    *facts.Store
	backend  Backend
	metrics  *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*session
	order    []string
}

func NewRouter(cfg config.Config, p *chat.Pipeline, st *facts.Store, backend Backend, m *metrics.Metrics) *Router {
	return &Router{
		cfg:      cfg,
		pipeline: p,
		store:    st,
		backend:  backend,
		metrics:  m,
		sessions: make(map[string]*session),
	}
}

func (r *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/ask", r.ask)
	mux.HandleFunc("/api/sessions/", r.sessionDetail)
	mux.HandleFunc("/ops/health", r.health)
	mux.HandleFunc("/ops/status", r.status)
}

// lookupOrCreate returns the session, creating it when id is empty or
// unknown. The oldest session is evicted once the registry is full.
func (r *Router) lookupOrCreate(id string) (string, *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id != "" {
		if s, ok := r.sessions[id]; ok {
			return id, s
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	if len(r.sessions) >= r.cfg.SessionLimit && len(r.order) > 0 {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.sessions, oldest)
		log.Printf("httpapi: evicted session %s (limit %d)", oldest, r.cfg.SessionLimit)
	}
	s := &session{}
	r.sessions[id] = s
	r.order = append(r.order, id)
	return id, s
}

func (r *Router) ask(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		SessionID string `json:"session_id"`
		Question  string `json:"question"`
		Language  string `json:"language"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body.Question = strings.TrimSpace(body.Question)
	if body.Question == "" {
		http.Error(w, "question cannot be empty", http.StatusBadRequest)
		return
	}
	loc := r.cfg.DefaultLocale
	if body.Language != "" {
		loc = locale.Parse(body.Language)
	}

	id, s := r.lookupOrCreate(body.SessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := r.pipeline.Ask(req.Context(), body.Question, loc, &s.transcript)
	if err != nil {
		log.Printf("httpapi: ask failed for session %s: %v", id, err)
		http.Error(w, "answer generation failed", http.StatusBadGateway)
		return
	}
	respondJSON(w, map[string]any{
		"session_id":    id,
		"text":          payload.Text,
		"audio_text":    payload.AudioText,
		"weather_card":  payload.WeatherCard,
		"rotation_card": payload.RotationCard,
	})
}

func (r *Router) sessionDetail(w http.ResponseWriter, req *http.Request) {
	id := strings.TrimPrefix(req.URL.Path, "/api/sessions/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "session id required", http.StatusBadRequest)
		return
	}
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	s.mu.Lock()
	entries := s.transcript.Entries()
	s.mu.Unlock()
	respondJSON(w, map[string]any{"session_id": id, "entries": entries})
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	db := "absent"
	if r.store != nil {
		db = "ok"
		if err := r.store.Health(req.Context()); err != nil {
			db = "error: " + err.Error()
		}
	}
	respondJSON(w, map[string]any{
		"status":        "ok",
		"db":            db,
		"backend_ready": r.backend.Ready(),
	})
}

func (r *Router) status(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	sessionCount := len(r.sessions)
	r.mu.Unlock()
	respondJSON(w, map[string]any{
		"sessions": sessionCount,
		"metrics":  r.metrics.Snapshot(),
	})
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("httpapi: encode response: %v", err)
	}
}
