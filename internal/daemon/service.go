// Package daemon provides the long-running welth service: an HTTP API over
// the user-level operations, a periodic Safety Guardian sweep and an SSE
// stream of guardian events.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/welth/internal/daemon/middleware"
	"github.com/theirongolddev/welth/internal/engine"
	"github.com/theirongolddev/welth/internal/guardian"
	"github.com/theirongolddev/welth/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr            string
	DBPath          string
	Interval        time.Duration
	EventsBuffer    int
	GuardianEnabled bool
	RateLimit       int
	RateWindow      time.Duration
}

// SweepSummary totals the actions taken by one guardian sweep.
type SweepSummary struct {
	At        time.Time       `json:"at"`
	Users     int             `json:"users"`
	Locked    int             `json:"locked"`
	AutoSaved int             `json:"auto_saved"`
	Saved     decimal.Decimal `json:"saved"`
}

// Event is emitted whenever the guardian takes an action.
type Event struct {
	ID        int64            `json:"id"`
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	UserID    string           `json:"user_id,omitempty"`
	Result    *guardian.Result `json:"result,omitempty"`
	Sweep     *SweepSummary    `json:"sweep,omitempty"`
}

// Event types.
const (
	EventGuardian = "guardian"
	EventSweep    = "sweep"
	EventSnapshot = "snapshot"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt        time.Time    `json:"started_at"`
	LastSweepAt      time.Time    `json:"last_sweep_at"`
	SweepIntervalSec int          `json:"sweep_interval_sec"`
	SweepCount       int64        `json:"sweep_count"`
	GuardianEnabled  bool         `json:"guardian_enabled"`
	DBPath           string       `json:"db_path"`
	LastSweep        SweepSummary `json:"last_sweep"`
	LastError        string       `json:"last_error,omitempty"`
	EventCount       int          `json:"event_count"`
	SubscriberCount  int          `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	svc    *service.Service
	runner *guardian.Runner
	log    zerolog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastSweepAt time.Time
	sweepCount  int64
	lastError   string
	lastSweep   SweepSummary
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service. runner may be nil when the guardian is
// disabled.
func New(cfg Config, svc *service.Service, runner *guardian.Runner, log zerolog.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if runner == nil {
		cfg.GuardianEnabled = false
	}

	return &Service{
		cfg:       cfg,
		svc:       svc,
		runner:    runner,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the daemon's HTTP handler with its middleware stack. The
// returned stop function releases the rate limiter.
func (s *Service) Handler() (http.Handler, func()) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	s.registerAPI(mux)

	var limiter *middleware.RateLimiter
	if s.cfg.RateLimit > 0 && s.cfg.RateWindow > 0 {
		limiter = middleware.NewRateLimiter(s.cfg.RateLimit, s.cfg.RateWindow)
	}

	h := middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger(s.log),
		middleware.Recovery(s.log),
		middleware.CORS,
		middleware.RateLimit(limiter),
	)
	return h, func() {
		if limiter != nil {
			limiter.Stop()
		}
	}
}

// Run starts HTTP endpoints and the guardian sweep until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	handler, stop := s.Handler()
	defer stop()

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Sweep once up front so status is useful immediately.
	s.sweepOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.sweepOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) sweepOnce(ctx context.Context) {
	if !s.cfg.GuardianEnabled {
		return
	}

	users, err := s.svc.Users(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastSweepAt = time.Now()
		s.sweepCount++
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("guardian sweep failed")
		return
	}

	results := s.runner.Sweep(ctx, users)
	summary := SweepSummary{At: time.Now(), Users: len(users), Saved: decimal.Zero}
	for _, res := range results {
		switch res.Action {
		case engine.ActionLockBudget:
			summary.Locked++
		case engine.ActionAutoSave:
			summary.AutoSaved++
			summary.Saved = summary.Saved.Add(res.Amount)
		default:
			continue
		}
		s.recordResult(res)
	}

	s.mu.Lock()
	s.lastSweep = summary
	s.lastSweepAt = summary.At
	s.sweepCount++
	s.lastError = ""
	s.mu.Unlock()

	s.publishEvent(Event{Type: EventSweep, Timestamp: summary.At, Sweep: &summary})
	s.log.Info().
		Int("users", summary.Users).
		Int("locked", summary.Locked).
		Int("auto_saved", summary.AutoSaved).
		Msg("guardian sweep")
}

// recordResult publishes a guardian action taken by a sweep or the API.
func (s *Service) recordResult(res *guardian.Result) {
	if res == nil || res.Action == engine.ActionNone {
		return
	}
	s.publishEvent(Event{
		Type:      EventGuardian,
		Timestamp: res.At,
		UserID:    res.UserID,
		Result:    res,
	})
}

// publishEvent numbers ev and fans it out. IDs are assigned under the same
// lock that appends, so the buffer and every subscriber see them ascending.
func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
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
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:        s.startedAt,
		LastSweepAt:      s.lastSweepAt,
		SweepIntervalSec: int(s.cfg.Interval.Seconds()),
		SweepCount:       s.sweepCount,
		GuardianEnabled:  s.cfg.GuardianEnabled,
		DBPath:           s.cfg.DBPath,
		LastSweep:        s.lastSweep,
		LastError:        s.lastError,
		EventCount:       len(s.events),
		SubscriberCount:  len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	middleware.WriteJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send the last sweep immediately.
	last := s.snapshotStatus().LastSweep
	writeSSE(w, Event{Type: EventSnapshot, Timestamp: time.Now(), Sweep: &last})
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
