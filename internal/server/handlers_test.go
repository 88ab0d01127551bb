package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"llm-market-analyst/internal/job"
	"llm-market-analyst/internal/report"
	"llm-market-analyst/internal/store"
	"llm-market-analyst/internal/types"
)

type fakeRunner struct {
	release chan struct{}
	result  types.BatchResult
	snaps   *report.Snapshotter
}

func (f *fakeRunner) RunBatch(ctx context.Context) (types.BatchResult, error) {
	if f.release != nil {
		<-f.release
	}
	if f.snaps != nil {
		if _, err := f.snaps.Write(ctx, f.result); err != nil {
			return f.result, err
		}
	}
	return f.result, nil
}

func testServer(t *testing.T, runner *fakeRunner) (*Server, *job.Job) {
	t.Helper()
	cfg := &store.Config{}
	cfg.Server.Port = 0
	snaps, err := report.NewSnapshotter(t.TempDir(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if runner.snaps == nil {
		runner.snaps = snaps
	}
	j := job.New()
	return New(cfg, j, runner, snaps), j
}

func waitForState(t *testing.T, j *job.Job, want job.State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if j.Status().State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job never reached %s, stuck at %s", want, j.Status().State)
}

func TestTriggerAcceptsThenConflicts(t *testing.T) {
	runner := &fakeRunner{release: make(chan struct{})}
	s, j := testServer(t, runner)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/analysis/trigger", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("first trigger = %d, want 202", rec.Code)
	}

	rec2 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec2, httptest.NewRequest("POST", "/api/v1/analysis/trigger", nil))
	if rec2.Code != http.StatusConflict {
		t.Errorf("second trigger = %d, want 409", rec2.Code)
	}

	close(runner.release)
	waitForState(t, j, job.StateCompleted)

	rec3 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec3, httptest.NewRequest("POST", "/api/v1/analysis/trigger", nil))
	if rec3.Code != http.StatusAccepted {
		t.Errorf("trigger after completion = %d, want 202", rec3.Code)
	}
	waitForState(t, j, job.StateCompleted)
}

func TestStatusReflectsJobState(t *testing.T) {
	runner := &fakeRunner{}
	s, _ := testServer(t, runner)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/analysis/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var st job.Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.State != job.StateIdle {
		t.Errorf("state = %s, want IDLE", st.State)
	}
}

func TestStatusCarriesLastResultSummary(t *testing.T) {
	runner := &fakeRunner{result: types.BatchResult{
		Decisions: []types.Decision{
			{Symbol: "AAA", Action: types.ActionBuy, Confidence: 0.9},
			{Symbol: "BBB", Action: types.ActionHold, Confidence: 0.4},
		},
		Counts:    types.ActionCounts{Buy: 1, Hold: 1},
		Submitted: 3,
		StartedAt: time.Now(),
	}}
	s, j := testServer(t, runner)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/analysis/trigger", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("trigger = %d", rec.Code)
	}
	waitForState(t, j, job.StateCompleted)

	rec2 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec2, httptest.NewRequest("GET", "/api/v1/analysis/status", nil))
	if rec2.Code != http.StatusOK {
		t.Fatalf("status = %d", rec2.Code)
	}

	var st job.Status
	if err := json.NewDecoder(rec2.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.State != job.StateCompleted {
		t.Errorf("state = %s, want COMPLETED", st.State)
	}
	if st.FinishedAt.IsZero() {
		t.Error("completion time missing from status")
	}
	if st.LastResult == nil {
		t.Fatal("status has no last result summary")
	}
	if st.LastResult.Decisions != 2 || st.LastResult.Submitted != 3 {
		t.Errorf("summary = %+v", st.LastResult)
	}
	if st.LastResult.Counts.Buy != 1 || st.LastResult.Counts.Hold != 1 {
		t.Errorf("summary counts = %+v", st.LastResult.Counts)
	}
}

func TestResultBeforeFirstBatchIs404(t *testing.T) {
	s, _ := testServer(t, &fakeRunner{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/analysis/result", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("result = %d, want 404", rec.Code)
	}
}

func TestResultServesLatestSnapshot(t *testing.T) {
	runner := &fakeRunner{result: types.BatchResult{
		Decisions: []types.Decision{{Symbol: "AAA", Action: types.ActionBuy, Confidence: 0.9}},
		Counts:    types.ActionCounts{Buy: 1},
		Submitted: 1,
		StartedAt: time.Now(),
	}}
	s, j := testServer(t, runner)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/analysis/trigger", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("trigger = %d", rec.Code)
	}
	waitForState(t, j, job.StateCompleted)

	rec2 := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec2, httptest.NewRequest("GET", "/api/v1/analysis/result", nil))
	if rec2.Code != http.StatusOK {
		t.Fatalf("result = %d, want 200", rec2.Code)
	}

	var got types.BatchResult
	if err := json.NewDecoder(rec2.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Decisions) != 1 || got.Decisions[0].Symbol != "AAA" {
		t.Errorf("result body = %+v", got)
	}
}

func TestHealth(t *testing.T) {
	s, _ := testServer(t, &fakeRunner{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health = %d", rec.Code)
	}
}
