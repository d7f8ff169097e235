package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/welth/internal/engine"
	"github.com/theirongolddev/welth/internal/guardian"
	"github.com/theirongolddev/welth/internal/model"
	"github.com/theirongolddev/welth/internal/service"
	"github.com/theirongolddev/welth/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, cfg Config) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "welth.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	clock := func() time.Time { return testNow }
	runner := guardian.NewRunner(st, nil, nil, guardian.WithClock(clock))
	svc := service.New(st, runner, service.WithClock(clock))
	return New(cfg, svc, runner, zerolog.Nop()), st
}

func seedUser(t *testing.T, st *store.Store, user string, budget, spent int64) {
	t.Helper()
	ctx := context.Background()
	main := model.Account{Name: "Main", Type: model.Current, Balance: decimal.NewFromInt(10000), IsDefault: true}
	if err := st.UpsertAccount(ctx, user, &main); err != nil {
		t.Fatal(err)
	}
	if err := st.SetBudget(ctx, user, model.Budget{Amount: decimal.NewFromInt(budget)}); err != nil {
		t.Fatal(err)
	}
	tx := model.Transaction{Date: testNow.AddDate(0, 0, -1), Amount: decimal.NewFromInt(spent), Type: model.Expense, Category: model.StringPtr("Food")}
	if err := st.AddTransaction(ctx, user, &tx); err != nil {
		t.Fatal(err)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s, _ := newTestService(t, Config{EventsBuffer: 2})

	s.publishEvent(Event{Type: EventSweep})
	s.publishEvent(Event{Type: EventSweep})
	s.publishEvent(Event{Type: EventSweep})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestConcurrentEventsKeepIDOrder(t *testing.T) {
	s, _ := newTestService(t, Config{EventsBuffer: 1000})
	sub := make(chan Event, 1000)
	id := s.addSubscriber(sub)

	var wg sync.WaitGroup
	for i := range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.recordResult(&guardian.Result{
				UserID: fmt.Sprintf("user-%d", i),
				Action: engine.ActionAutoSave,
				Amount: decimal.NewFromInt(1),
				At:     testNow,
			})
		}()
	}
	wg.Wait()
	s.removeSubscriber(id)
	close(sub)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 200 {
		t.Fatalf("events len = %d, want 200", len(s.events))
	}
	for i, ev := range s.events {
		if ev.ID != int64(i+1) {
			t.Fatalf("events[%d].ID = %d, want %d", i, ev.ID, i+1)
		}
	}
	var last int64
	for ev := range sub {
		if ev.ID <= last {
			t.Fatalf("subscriber saw ID %d after %d", ev.ID, last)
		}
		last = ev.ID
	}
	if last != 200 {
		t.Fatalf("last delivered ID = %d, want 200", last)
	}
}

func TestSweepOnceRecordsActions(t *testing.T) {
	s, st := newTestService(t, Config{GuardianEnabled: true})
	seedUser(t, st, "alice", 1000, 900)
	seedUser(t, st, "bob", 20000, 100)

	s.sweepOnce(context.Background())

	status := s.snapshotStatus()
	if status.SweepCount != 1 {
		t.Fatalf("SweepCount = %d, want 1", status.SweepCount)
	}
	if status.LastSweep.Users != 2 || status.LastSweep.Locked != 1 || status.LastSweep.AutoSaved != 1 {
		t.Fatalf("LastSweep = %+v", status.LastSweep)
	}
	if !status.LastSweep.Saved.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Saved = %s, want 400", status.LastSweep.Saved)
	}
	// Two guardian events plus the sweep event.
	if status.EventCount != 3 {
		t.Fatalf("EventCount = %d, want 3", status.EventCount)
	}
}

func TestSweepDisabled(t *testing.T) {
	s, st := newTestService(t, Config{GuardianEnabled: false})
	seedUser(t, st, "alice", 1000, 900)

	s.sweepOnce(context.Background())
	if s.snapshotStatus().SweepCount != 0 {
		t.Fatal("disabled guardian should not sweep")
	}
}

func serve(t *testing.T, s *Service, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	h, stop := s.Handler()
	defer stop()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndStatus(t *testing.T) {
	s, _ := newTestService(t, Config{})

	if rec := serve(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}

	rec := serve(t, s, http.MethodGet, "/v1/status", "")
	var st Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestHistoryEndpoint(t *testing.T) {
	s, st := newTestService(t, Config{})
	seedUser(t, st, "alice", 20000, 100)

	rec := serve(t, s, http.MethodGet, "/v1/users/alice/history?days=7", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var rep service.HistoryReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if len(rep.Points) != 8 {
		t.Fatalf("points = %d, want 8", len(rep.Points))
	}

	if rec := serve(t, s, http.MethodGet, "/v1/users/alice/history?days=abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad days status = %d, want 400", rec.Code)
	}
	if rec := serve(t, s, http.MethodGet, "/v1/users/alice/forecast?days=-4", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative days status = %d, want 400", rec.Code)
	}
}

func TestTimeMachineEndpoint(t *testing.T) {
	s, st := newTestService(t, Config{})
	seedUser(t, st, "alice", 20000, 100)

	rec := serve(t, s, http.MethodPost, "/v1/users/alice/timemachine",
		`{"kind":"SAVE_MONTHLY","amount":1000,"start_date":"2025-12-15"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Result model.Timeline `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Result.Impact.MonthsPassed != 3 {
		t.Errorf("MonthsPassed = %d, want 3", body.Result.Impact.MonthsPassed)
	}

	if rec := serve(t, s, http.MethodPost, "/v1/users/alice/timemachine", `{"kind":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d, want 400", rec.Code)
	}
	if rec := serve(t, s, http.MethodPost, "/v1/users/alice/timemachine", `{"kind":"SAVE_MONTHLY","amount":-5}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative amount status = %d, want 400", rec.Code)
	}
}

func TestAskNeedsProfile(t *testing.T) {
	s, st := newTestService(t, Config{})
	seedUser(t, st, "alice", 20000, 100)

	rec := serve(t, s, http.MethodPost, "/v1/users/alice/twin/ask", `{"question":"New phone","amount":"25000"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"needs_profile":true`) {
		t.Fatalf("ask without profile = %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, s, http.MethodPost, "/v1/users/alice/profile", `{"saving_goal":"Laptop"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("save profile = %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, s, http.MethodPost, "/v1/users/alice/twin/ask", `{"question":"New phone","amount":"25000"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("ask = %d %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Advice model.Decision `json:"advice"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Advice.Verdict != model.Wait {
		t.Errorf("Verdict = %s, want WAIT", body.Advice.Verdict)
	}
	if !strings.Contains(body.Advice.Reasoning, "saving for Laptop") {
		t.Errorf("Reasoning = %q", body.Advice.Reasoning)
	}
}

func TestGuardianEndpointPublishesEvent(t *testing.T) {
	s, st := newTestService(t, Config{})
	seedUser(t, st, "alice", 1000, 900)

	rec := serve(t, s, http.MethodPost, "/v1/users/alice/guardian", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res guardian.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Action != engine.ActionLockBudget {
		t.Fatalf("Action = %s, want LOCKED_BUDGET", res.Action)
	}

	rec = serve(t, s, http.MethodGet, "/v1/events", "")
	var events []Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Type != EventGuardian || events[0].UserID != "alice" {
		t.Fatalf("events = %+v", events)
	}
}

func TestScenariosEndpoint(t *testing.T) {
	s, _ := newTestService(t, Config{})
	rec := serve(t, s, http.MethodGet, "/v1/scenarios", "")
	if !strings.Contains(rec.Body.String(), "Reduce spending 30%") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestStreamSendsSnapshot(t *testing.T) {
	s, _ := newTestService(t, Config{})
	h, stop := s.Handler()
	defer stop()
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if line != "event: snapshot\n" {
		t.Fatalf("first line = %q", line)
	}
}
