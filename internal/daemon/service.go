// Package daemon provides the long-running projection API service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/theirongolddev/reserva/internal/model"
	"github.com/theirongolddev/reserva/internal/projection"
	"github.com/theirongolddev/reserva/internal/source"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Config controls the service runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	// MaxMonths is used when a request leaves max_months out.
	MaxMonths int
	Logger    *logrus.Logger
}

// Event is emitted for every successful scenario projection.
type Event struct {
	ID           int64              `json:"id"`
	Type         string             `json:"type"`
	Timestamp    time.Time          `json:"timestamp"`
	RequestID    string             `json:"request_id,omitempty"`
	ProjectionID string             `json:"projection_id,omitempty"`
	Summary      []model.SummaryRow `json:"summary,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt        time.Time `json:"started_at"`
	Addr             string    `json:"addr"`
	DefaultMaxMonths int       `json:"default_max_months"`
	RequestCount     int64     `json:"request_count"`
	ProjectionCount  int64     `json:"projection_count"`
	RejectedCount    int64     `json:"rejected_count"`
	LastProjectionAt time.Time `json:"last_projection_at,omitempty"`
	LastError        string    `json:"last_error,omitempty"`
	EventCount       int       `json:"event_count"`
	SubscriberCount  int       `json:"subscriber_count"`
}

// ProjectionResponse is returned by POST /v1/projections.
type ProjectionResponse struct {
	ID       string             `json:"id"`
	Outcomes []model.Outcome    `json:"outcomes"`
	Summary  []model.SummaryRow `json:"summary"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// Service provides the HTTP API.
type Service struct {
	cfg Config
	log *logrus.Logger

	mu               sync.RWMutex
	startedAt        time.Time
	requestCount     int64
	projectionCount  int64
	rejectedCount    int64
	lastProjectionAt time.Time
	lastError        string
	nextEventID      int64
	events           []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new service with the provided config.
func New(cfg Config) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.MaxMonths < 1 {
		cfg.MaxMonths = projection.DefaultMaxMonths
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Service{
		cfg:       cfg,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the routed API.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/projections", s.handleProjections).Methods(http.MethodPost)
	v1.HandleFunc("/project", s.handleProject).Methods(http.MethodPost)
	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	v1.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)
	return r
}

// Run serves the API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.WithField("addr", s.cfg.Addr).Info("reserva api listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("api http server: %w", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

type ctxKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func (s *Service) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		s.mu.Lock()
		s.requestCount++
		s.mu.Unlock()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))

		s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}

func (s *Service) handleProjections(w http.ResponseWriter, r *http.Request) {
	var plan source.Plan
	if err := decodeBody(w, r, &plan); err != nil {
		s.reject(w, r, http.StatusBadRequest, err)
		return
	}

	entries := plan.Entries(s.cfg.MaxMonths)
	if err := projection.ValidateEntries(entries); err != nil {
		s.reject(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	outcomes, err := projection.RunScenarios(entries)
	if err != nil {
		s.reject(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	resp := ProjectionResponse{
		ID:       uuid.NewString(),
		Outcomes: outcomes,
		Summary:  projection.Summarize(outcomes),
	}
	s.recordProjection(Event{
		Type:         "projection",
		RequestID:    requestID(r),
		ProjectionID: resp.ID,
		Summary:      resp.Summary,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleProject(w http.ResponseWriter, r *http.Request) {
	var in model.Inputs
	if err := decodeBody(w, r, &in); err != nil {
		s.reject(w, r, http.StatusBadRequest, err)
		return
	}

	res, err := projection.Project(in)
	if err != nil {
		s.reject(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("malformed request body: %w", err)
	}
	return nil
}

// reject writes an error response. Joined validation errors are split into
// one problem per line.
func (s *Service) reject(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.mu.Lock()
	s.rejectedCount++
	s.lastError = err.Error()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"request_id": requestID(r),
		"status":     status,
	}).WithError(err).Warn("request rejected")

	resp := errorResponse{Error: http.StatusText(status)}
	if status == http.StatusUnprocessableEntity {
		resp.Problems = strings.Split(err.Error(), "\n")
	} else {
		resp.Problems = []string{err.Error()}
	}
	writeJSON(w, status, resp)
}

func (s *Service) recordProjection(ev Event) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projectionCount++
	s.lastProjectionAt = now
	s.nextEventID++
	ev.ID = s.nextEventID
	ev.Timestamp = now
	s.publishLocked(ev)
}

func (s *Service) publishLocked(ev Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:        s.startedAt,
		Addr:             s.cfg.Addr,
		DefaultMaxMonths: s.cfg.MaxMonths,
		RequestCount:     s.requestCount,
		ProjectionCount:  s.projectionCount,
		RejectedCount:    s.rejectedCount,
		LastProjectionAt: s.lastProjectionAt,
		LastError:        s.lastError,
		EventCount:       len(s.events),
		SubscriberCount:  len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{Type: "hello", Timestamp: time.Now()})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
